package tasklist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"time"

	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/paths"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/validation"
)

// DefaultValidFor is how long a tracking condition stays active by default.
const DefaultValidFor = "2h"

// maxHookChecks is how many earlier hook-mode checks a transcript may hold
// before the Stop hook gives up.
const maxHookChecks = 3

var hookCheckPattern = regexp.MustCompile(`tasks\s+track-progress\s+check\b.*--claude-hook`)

// Condition is a completion goal: until ValidBefore, the listed tasks must
// be completed and, when set, at least ExpectCompleted tasks in total.
type Condition struct {
	ValidBefore     string   `json:"valid_before" yaml:"valid_before" toml:"valid_before"`
	TasksToComplete []string `json:"tasks_to_complete" yaml:"tasks_to_complete" toml:"tasks_to_complete"`
	ExpectCompleted *int     `json:"expect_completed,omitempty" yaml:"expect_completed,omitempty" toml:"expect_completed,omitempty"`
}

// Unmet is a condition that is still active and not satisfied.
type Unmet struct {
	Condition  Condition
	Issues     []string
	CountIssue string
}

// AddCondition records a condition on the list's ledger entry. validFor
// uses the Nh, Nm, Ns or N (seconds) syntax. completeMore, when not nil,
// asks for that many more completed tasks than there are now.
func (lg *Ledger) AddCondition(l *List, ids []string, validFor string, completeMore *int, now time.Time) (Condition, error) {
	for _, id := range ids {
		if _, ok := l.Task(id); !ok {
			return Condition{}, newError(ErrTaskNotFound, fmt.Sprintf("Task '%s' not found in the task file", id))
		}
	}
	d, err := validation.ParseDuration(validFor)
	if err != nil {
		return Condition{}, newError(ErrInvalidTracking, err.Error())
	}

	c := Condition{
		ValidBefore:     formatTimestamp(now.Add(d)),
		TasksToComplete: slices.Clone(ids),
	}
	if completeMore != nil {
		counts := l.Counts()
		done := counts.Completed()
		if *completeMore < 0 {
			return Condition{}, newError(ErrInvalidTracking, fmt.Sprintf("Invalid argument, complete_more must not be negative: %d", *completeMore))
		}
		if done+*completeMore > counts.Total {
			return Condition{}, newError(ErrInvalidTracking, fmt.Sprintf(
				"Invalid argument, completed: %d + complete_more: %d > total_tasks: %d. The maximum value of complete_more is: %d",
				done, *completeMore, counts.Total, counts.Total-done))
		}
		expect := done + *completeMore
		c.ExpectCompleted = &expect
	}

	e := lg.entry(l.Path, now)
	e.Tracking = append(e.Tracking, c)
	return c, nil
}

// CheckConditions returns the active conditions the list does not meet.
// Expired conditions and those with an unreadable deadline are skipped.
func (lg *Ledger) CheckConditions(l *List, now time.Time) []Unmet {
	e := lg.Entry(l.Path)
	if e == nil {
		return nil
	}
	completed := l.Counts().Completed()

	var unmet []Unmet
	for _, c := range e.Tracking {
		deadline, err := parseTimestamp(c.ValidBefore)
		if err != nil || now.After(deadline) {
			continue
		}
		u := Unmet{Condition: c}
		for _, id := range c.TasksToComplete {
			t, ok := l.Task(id)
			switch {
			case !ok:
				u.Issues = append(u.Issues, fmt.Sprintf("Task '%s' not found", id))
			case !t.Status.Completed():
				u.Issues = append(u.Issues, fmt.Sprintf("Task '%s' is not completed (status: %s)", id, t.Status))
			}
		}
		if c.ExpectCompleted != nil && completed < *c.ExpectCompleted {
			u.CountIssue = fmt.Sprintf("Expected %d completed tasks, but only %d are completed", *c.ExpectCompleted, completed)
		}
		if len(u.Issues) > 0 || u.CountIssue != "" {
			unmet = append(unmet, u)
		}
	}
	return unmet
}

// ConditionCount returns how many conditions the file has, expired or not.
func (lg *Ledger) ConditionCount(file string) int {
	if e := lg.Entry(file); e != nil {
		return len(e.Tracking)
	}
	return 0
}

// ClearConditions drops every condition of file and returns how many there were.
func (lg *Ledger) ClearConditions(file string) int {
	e := lg.Entry(file)
	if e == nil {
		return 0
	}
	n := len(e.Tracking)
	e.Tracking = []Condition{}
	return n
}

// DetectLoop reports whether the Stop hook has already fired too often in
// the session whose transcript is at path. A transcript that is missing or
// cannot be read counts as a loop; err says why.
func DetectLoop(path string) (bool, error) {
	expanded, err := paths.ExpandHome(path)
	if err != nil {
		return true, err
	}
	f, err := os.Open(expanded) //nolint:gosec // transcript path comes from the hook input
	if err != nil {
		return true, fmt.Errorf("opening transcript: %w", err)
	}
	defer f.Close()

	// Transcript lines can exceed bufio.Scanner's token limit.
	r := bufio.NewReader(f)
	count := 0
	for {
		line, err := r.ReadString('\n')
		if hookCheckPattern.MatchString(line) {
			count++
			if count > maxHookChecks {
				return true, nil
			}
		}
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return true, fmt.Errorf("reading transcript: %w", err)
		}
	}
}
