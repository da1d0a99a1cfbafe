package tasklist

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
)

var (
	rule60 = strings.Repeat("-", 60)
	rule40 = strings.Repeat("-", 40)
)

// View writes human-readable reports.
type View struct {
	W     io.Writer
	Style *Styler
}

func (v View) printf(format string, args ...any) {
	fmt.Fprintf(v.W, format, args...)
}

func (v View) line(t *Task) string {
	return fmt.Sprintf("ID %s [%s]: %s", t.ID, v.Style.Status(t.Status), t.Description)
}

func (v View) tree(tasks []*Task) {
	for _, t := range tasks {
		v.printf("%s%s\n", strings.Repeat("    ", Depth(t.ID)), v.line(t))
	}
}

// List prints every task, indented by depth.
func (v View) List(l *List) {
	if l.Len() == 0 {
		v.printf("No tasks found in the file.\n")
		return
	}
	v.printf("Tasks from %s:\n%s\n", l.Path, rule60)
	v.tree(l.Tasks())
}

// Task prints the details of t.
func (v View) Task(l *List, t *Task) {
	v.printf("Task ID: %s\nStatus: %s\nDescription: %s\n", t.ID, v.Style.Status(t.Status), t.Description)
	if len(t.Requirements) > 0 {
		v.printf("Requirements: %s\n", strings.Join(t.Requirements, ", "))
	}
	if len(t.Dependencies) > 0 {
		v.printf("Dependencies: %s\n", strings.Join(t.Dependencies, ", "))
	}
	if subs := l.SubTasks(t.ID); len(subs) > 0 {
		v.printf("Sub-tasks (%d):\n", len(subs))
		for _, s := range subs {
			v.printf("  - %s [%s]: %s\n", s.ID, v.Style.Status(s.Status), s.Description)
		}
	}
	if p, ok := l.Parent(t); ok {
		v.printf("Parent Task: %s [%s]: %s\n", p.ID, v.Style.Status(p.Status), p.Description)
	}
	v.printf("Line Number: %d\nIndent Level: %d\n\nFull Content:\n%s\n%s\n", t.Line, t.Indent, rule40, t.Content)
}

// StatusChange prints the outcome of SetStatus.
func (v View) StatusChange(res *StatusResult, status Status, bulk bool) {
	if !bulk {
		for _, c := range res.Updated {
			v.printf("Task '%s' status changed from %s to %s\n", c.ID, v.Style.quoted(c.From), v.Style.quoted(c.To))
		}
	}
	for _, c := range res.Parents {
		v.printf("Auto-updated parent task '%s' from %s to %s (all sub-tasks are %s)\n",
			c.ID, v.Style.quoted(c.From), v.Style.quoted(c.To), v.Style.quoted(c.To))
	}
	if !bulk {
		return
	}
	if len(res.Updated) == 0 {
		v.printf("No tasks were updated.\n")
		return
	}
	v.printf("Updated %d task(s) to %s:\n", len(res.Updated), v.Style.Status(status))
	for _, c := range res.Updated {
		v.printf("  '%s': %s -> %s\n", c.ID, v.Style.Status(c.From), v.Style.Status(c.To))
	}
}

// Update prints the outcome of UpdateTask.
func (v View) Update(id string, res *UpdateResult) {
	if !res.Changed() {
		v.printf("No changes made to task '%s'\n", id)
		return
	}
	var changes []string
	if !slices.Equal(res.OldDependencies, res.NewDependencies) {
		changes = append(changes, fmt.Sprintf("dependencies: %s -> %s", formatList(res.OldDependencies), formatList(res.NewDependencies)))
	}
	if !slices.Equal(res.OldRequirements, res.NewRequirements) {
		changes = append(changes, fmt.Sprintf("requirements: %s -> %s", formatList(res.OldRequirements), formatList(res.NewRequirements)))
	}
	v.printf("Updated task '%s': %s\n", id, strings.Join(changes, ", "))
}

func formatList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "'" + s + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// Next prints the task to work on next with its sub-tasks or parent.
func (v View) Next(l *List, t *Task, ok bool) {
	if !ok {
		v.printf("No tasks available to work on (all dependencies not satisfied, parent constraints, or no pending/in-progress tasks).\n")
		return
	}
	v.printf("Next task to work on:\n%s\n", v.line(t))
	if len(t.Dependencies) > 0 {
		v.printf("Dependencies (all satisfied): %s\n", strings.Join(t.Dependencies, ", "))
	}
	if subs := l.SubTasks(t.ID); len(subs) > 0 {
		v.printf("\nSub-tasks:\n")
		for _, s := range subs {
			v.printf("    %s\n", v.line(s))
		}
	}
	if p, ok := l.Parent(t); ok {
		v.printf("\nParent task:\n    %s\n", v.line(p))
	}
}

// Dependencies prints the result of CheckDependencies.
func (v View) Dependencies(problems []string) {
	if len(problems) == 0 {
		v.printf("All dependencies are valid.\n")
		return
	}
	v.printf("Dependency validation errors found:\n")
	for _, p := range problems {
		v.printf("  - %s\n", p)
	}
}

// Filtered prints the result of Filter.
func (v View) Filtered(l *List, f Filter, tasks []*Task) {
	if len(tasks) == 0 {
		v.printf("No tasks match the specified filters.\n")
		return
	}
	v.printf("Filtered Tasks from %s:\n", l.Path)
	if f.Status != "" {
		v.printf("  Status: %s\n", f.Status)
	}
	if len(f.Requirements) > 0 {
		v.printf("  Requirements: %s\n", strings.Join(f.Requirements, ", "))
	}
	if len(f.Dependencies) > 0 {
		v.printf("  Dependencies: %s\n", strings.Join(f.Dependencies, ", "))
	}
	v.printf("%s\n", rule60)
	v.tree(tasks)
}

// SearchResults prints the result of Search.
func (v View) SearchResults(l *List, keywords []string, tasks []*Task) {
	if len(tasks) == 0 {
		v.printf("No tasks found containing keywords: %s\n", strings.Join(keywords, ", "))
		return
	}
	v.printf("Search Results from %s:\n  Keywords: %s\n%s\n", l.Path, strings.Join(keywords, ", "), rule60)
	v.tree(tasks)
}

// Ready prints the result of ReadyTasks.
func (v View) Ready(l *List, tasks []*Task) {
	if len(tasks) == 0 {
		v.printf("No tasks are ready to work on (all dependencies not satisfied or parent constraints).\n")
		return
	}
	v.printf("Ready Tasks from %s:\n%s\n", l.Path, rule60)
	v.tree(tasks)
}

// Progress prints the ledger entry of file with each task's history.
func (v View) Progress(file string, e *FileEntry) {
	if e == nil {
		v.printf("No progress data available for this file.\n")
		return
	}
	v.printf("Progress Report for: %s\n%s\n", file, strings.Repeat("=", 60))
	v.printf("Total Tasks: %d\n", e.TotalTasks)
	v.printf("Completed (done+review+deferred): %d\n", e.Completed)
	v.printf("  Done: %d\n  Review: %d\n  Deferred: %d\n", e.Done, e.Review, e.Deferred)
	v.printf("In Progress: %d\nPending: %d\n", e.InProgress, e.Pending)
	v.printf("Completion Percentage: %s%%\n", formatPercent(e.Percentage))
	v.printf("Last Modified: %s\n\n", e.LastModified)

	if len(e.Tasks) == 0 {
		v.printf("No detailed task history available.\n")
		return
	}
	v.printf("Task Status History:\n%s\n", rule40)
	ids := make([]string, 0, len(e.Tasks))
	for id := range e.Tasks {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, CompareIDs)
	for _, id := range ids {
		h := e.Tasks[id]
		v.printf("\nTask %s: %s\n", id, h.Description)
		if len(h.StatusHistory) == 0 {
			v.printf("  No status history available\n")
			continue
		}
		v.printf("  Status History:\n")
		for _, s := range h.StatusHistory {
			stamp := s.Timestamp
			if ts, err := parseTimestamp(s.Timestamp); err == nil {
				stamp = ts.Format("2006-01-02 15:04:05")
			}
			v.printf("    %s: %s\n", stamp, s.Status)
		}
	}
}

func formatPercent(p float64) string {
	if p == math.Trunc(p) {
		return strconv.FormatFloat(p, 'f', 1, 64)
	}
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// Unmet prints unmet tracking conditions. hook adds the nudge telling the
// agent to keep working.
func (v View) Unmet(unmet []Unmet, hook bool) {
	v.printf("Completion conditions not met:\n")
	for i, u := range unmet {
		v.printf("\nCondition %d:\n  Required tasks: %s\n", i+1, strings.Join(u.Condition.TasksToComplete, ", "))
		if len(u.Issues) > 0 {
			v.printf("  Issues:\n")
			for _, issue := range u.Issues {
				v.printf("    - %s\n", issue)
			}
		}
		if u.CountIssue != "" {
			v.printf("  Total count issue: %s\n", u.CountIssue)
		}
	}
	if hook {
		v.printf("\nIMPORTANCE: Please continue working on the remaining tasks to meet the completion conditions.\n")
	}
}

// ConditionAdded confirms a new tracking condition.
func (v View) ConditionAdded(c Condition) {
	v.printf("Added tracking condition for tasks: %s\nValid until: %s\n", strings.Join(c.TasksToComplete, ", "), c.ValidBefore)
	if c.ExpectCompleted != nil {
		v.printf("Expected total completed tasks: %d\n", *c.ExpectCompleted)
	}
}
