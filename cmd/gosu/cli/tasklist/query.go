package tasklist

import (
	"fmt"
	"slices"
	"strings"
)

// ready reports whether t can be worked on: every dependency exists and is
// done or in review, and a sub-task's parent has been started.
func (l *List) ready(t *Task) bool {
	for _, dep := range t.Dependencies {
		d, ok := l.tasks[dep]
		if !ok || !d.Status.unblocks() {
			return false
		}
	}
	if p, ok := l.Parent(t); ok && p.Status.blocksSubTasks() {
		return false
	}
	return true
}

// NextTask picks the task to work on next among ready pending and
// in-progress tasks. Sub-tasks of an in-progress parent win; ties go to the
// lowest id.
func (l *List) NextTask() (*Task, bool) {
	candidates := l.sorted(func(t *Task) bool {
		return (t.Status == StatusPending || t.Status == StatusInProgress) && l.ready(t)
	})
	if len(candidates) == 0 {
		return nil, false
	}
	for _, t := range candidates {
		if p, ok := l.Parent(t); ok && p.Status == StatusInProgress {
			return t, true
		}
	}
	return candidates[0], true
}

// ReadyTasks returns the pending tasks that could start now.
func (l *List) ReadyTasks() []*Task {
	return l.sorted(func(t *Task) bool {
		return t.Status == StatusPending && l.ready(t)
	})
}

// Filter selects tasks. Empty fields match everything; Requirements and
// Dependencies must all be present on a task.
type Filter struct {
	Status       Status
	Requirements []string
	Dependencies []string
}

// Filter returns the tasks matching f.
func (l *List) Filter(f Filter) []*Task {
	return l.sorted(func(t *Task) bool {
		if f.Status != "" && t.Status != f.Status {
			return false
		}
		return containsAll(t.Requirements, f.Requirements) && containsAll(t.Dependencies, f.Dependencies)
	})
}

func containsAll(have, want []string) bool {
	for _, w := range want {
		if !slices.Contains(have, w) {
			return false
		}
	}
	return true
}

// Search returns tasks whose description or content contains any keyword,
// ignoring case.
func (l *List) Search(keywords []string) []*Task {
	lower := make([]string, len(keywords))
	for i, k := range keywords {
		lower[i] = strings.ToLower(k)
	}
	return l.sorted(func(t *Task) bool {
		text := strings.ToLower(t.Description + " " + t.Content)
		return slices.ContainsFunc(lower, func(k string) bool {
			return strings.Contains(text, k)
		})
	})
}

// CheckDependencies reports missing dependencies, self-dependencies and
// two-task cycles.
func (l *List) CheckDependencies() []string {
	var problems []string
	for _, t := range l.Tasks() {
		for _, dep := range t.Dependencies {
			d, ok := l.tasks[dep]
			switch {
			case !ok:
				problems = append(problems, fmt.Sprintf("Task '%s' has non-existent dependency '%s'", t.ID, dep))
			case dep == t.ID:
				problems = append(problems, fmt.Sprintf("Task '%s' has circular dependency on itself", t.ID))
			case slices.Contains(d.Dependencies, t.ID):
				problems = append(problems, fmt.Sprintf("Circular dependency between tasks '%s' and '%s'", t.ID, dep))
			}
		}
	}
	return problems
}

// Counts tallies tasks per status.
type Counts struct {
	Total      int
	Pending    int
	InProgress int
	Done       int
	Review     int
	Deferred   int
}

// Completed is done plus review plus deferred.
func (c Counts) Completed() int {
	return c.Done + c.Review + c.Deferred
}

// Percentage is the completed share rounded to two decimals.
func (c Counts) Percentage() float64 {
	if c.Total == 0 {
		return 0
	}
	return roundTo2(float64(c.Completed()) / float64(c.Total) * 100)
}

// Counts returns the status tally for the list.
func (l *List) Counts() Counts {
	c := Counts{Total: len(l.tasks)}
	for _, t := range l.tasks {
		switch t.Status {
		case StatusPending:
			c.Pending++
		case StatusInProgress:
			c.InProgress++
		case StatusDone:
			c.Done++
		case StatusReview:
			c.Review++
		case StatusDeferred:
			c.Deferred++
		}
	}
	return c
}
