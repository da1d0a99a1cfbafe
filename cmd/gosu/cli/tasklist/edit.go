package tasklist

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Change is one status transition.
type Change struct {
	ID   string
	From Status
	To   Status
}

// StatusResult describes what SetStatus did.
type StatusResult struct {
	// Updated lists the requested tasks that were changed, in request order.
	Updated []Change
	// Skipped holds one warning per task that was left alone.
	Skipped []string
	// Parents lists parents promoted because all their sub-tasks agree.
	Parents []Change
}

// SetStatus sets every task in ids to status. A pending sub-task cannot
// start while its parent is pending or done: with a single id that is an
// error, with several the task is skipped with a warning.
func (l *List) SetStatus(ids []string, status Status) (*StatusResult, error) {
	for _, id := range ids {
		if _, err := l.mustGet(id); err != nil {
			return nil, err
		}
	}

	res := &StatusResult{}
	for _, id := range ids {
		t := l.tasks[id]
		if p, ok := l.Parent(t); ok && t.Status == StatusPending && status != StatusPending && p.Status.blocksSubTasks() {
			if len(ids) == 1 {
				return nil, newError(ErrParentBlocked, fmt.Sprintf(
					"Cannot change sub-task '%s' from pending to '%s' while parent task '%s' is '%s'. Please set parent task to 'in-progress' first.",
					id, status, p.ID, p.Status))
			}
			res.Skipped = append(res.Skipped, fmt.Sprintf(
				"Skipping task '%s' - cannot change from pending to '%s' while parent task '%s' is '%s'",
				id, status, p.ID, p.Status))
			continue
		}
		res.Updated = append(res.Updated, Change{ID: id, From: t.Status, To: status})
		l.setCheckbox(t, status)
	}

	var parents []string
	for _, c := range res.Updated {
		if pid := ParentID(c.ID); pid != "" && !slices.Contains(parents, pid) {
			parents = append(parents, pid)
		}
	}
	slices.SortFunc(parents, CompareIDs)
	for _, pid := range parents {
		if c, ok := l.promoteParent(pid); ok {
			res.Parents = append(res.Parents, c)
		}
	}
	return res, nil
}

// promoteParent gives the parent the status its direct sub-tasks share, if
// they all share one.
func (l *List) promoteParent(id string) (Change, bool) {
	p, ok := l.tasks[id]
	if !ok {
		return Change{}, false
	}
	subs := l.SubTasks(id)
	if len(subs) == 0 {
		return Change{}, false
	}
	status := subs[0].Status
	for _, s := range subs[1:] {
		if s.Status != status {
			return Change{}, false
		}
	}
	if p.Status == status {
		return Change{}, false
	}
	c := Change{ID: id, From: p.Status, To: status}
	l.setCheckbox(p, status)
	return c, true
}

// setCheckbox rewrites the checkbox on t's line.
func (l *List) setCheckbox(t *Task, status Status) {
	t.Status = status
	idx := t.Line - 1
	if idx < 0 || idx >= len(l.lines) {
		return
	}
	line := l.lines[idx]
	if tl, ok := matchTaskLine(line); !ok || tl.id != t.ID {
		return
	}
	loc := checkboxPattern.FindStringIndex(line)
	l.lines[idx] = line[:loc[0]] + status.Checkbox() + line[loc[1]:]
}

// AddTask inserts a pending task. Sub-tasks go after their last
// lower-numbered sibling, or at the top of the parent's children; root
// tasks go after the last lower-numbered root task.
func (l *List) AddTask(id, description string, dependencies, requirements []string) error {
	if _, ok := l.tasks[id]; ok {
		return newError(ErrTaskExists, fmt.Sprintf("Task '%s' already exists.", id))
	}
	for _, dep := range dependencies {
		if _, ok := l.tasks[dep]; !ok {
			return newError(ErrDependencyNotFound, fmt.Sprintf("Dependency '%s' does not exist.", dep))
		}
	}

	indent := strings.Repeat(" ", Depth(id)*4)
	block := []string{fmt.Sprintf("%s- %s %s. %s\n", indent, StatusPending.Checkbox(), id, description)}
	if len(requirements) > 0 {
		block = append(block, fmt.Sprintf("%s  _Requirements: %s_\n", indent, strings.Join(requirements, ", ")))
	}
	if len(dependencies) > 0 {
		block = append(block, fmt.Sprintf("%s  _Dependencies: %s_\n", indent, strings.Join(dependencies, ", ")))
	}

	pos := l.insertPosition(id)
	var out []string
	if pos >= len(l.lines) {
		if n := len(l.lines); n > 0 {
			if !strings.HasSuffix(l.lines[n-1], "\n") {
				l.lines[n-1] += "\n"
			}
			out = append(out, "\n")
		}
		out = append(out, block...)
	} else {
		if pos > 0 {
			prev := l.lines[pos-1]
			if !strings.HasSuffix(prev, "\n") {
				l.lines[pos-1] = prev + "\n"
			}
			if strings.TrimSpace(prev) != "" {
				out = append(out, "\n")
			}
		}
		out = append(out, block...)
		out = append(out, "\n")
	}

	l.lines = slices.Insert(l.lines, pos, out...)
	l.reparse()
	return nil
}

func (l *List) insertPosition(id string) int {
	if !IsSubTask(id) {
		return l.rootInsertPosition(id)
	}

	parent, ok := l.tasks[ParentID(id)]
	if !ok {
		return len(l.lines)
	}
	start := parent.Line
	end := l.blockEnd(parent.Line - 1)

	// Below the parent's own lines when no lower sibling exists.
	pos := end
	for i := start; i < end; i++ {
		if _, ok := matchTaskLine(l.lines[i]); ok {
			pos = i
			break
		}
	}

	target := lastPart(id)
	for i := start; i < end; i++ {
		tl, ok := matchTaskLine(l.lines[i])
		if !ok || ParentID(tl.id) != parent.ID {
			continue
		}
		if lastPart(tl.id) >= target {
			break
		}
		pos = l.blockEnd(i)
	}
	return pos
}

func (l *List) rootInsertPosition(id string) int {
	target := lastPart(id)
	pos := -1
	for i, line := range l.lines {
		tl, ok := matchTaskLine(line)
		if !ok || tl.indent != 0 {
			continue
		}
		root, _, _ := strings.Cut(tl.id, ".")
		n, _ := strconv.Atoi(root)
		if n >= target {
			if pos < 0 {
				// No lower root task: go in front of this one.
				return i
			}
			break
		}
		pos = l.blockEnd(i)
	}
	if pos < 0 {
		return len(l.lines)
	}
	return pos
}

func lastPart(id string) int {
	n, _ := strconv.Atoi(id[strings.LastIndex(id, ".")+1:])
	return n
}

// blockEnd returns the index just past the task starting at line index
// start: the next task line indented no deeper than it, or the file end.
// Sub-tasks are part of the block.
func (l *List) blockEnd(start int) int {
	if start >= len(l.lines) {
		return len(l.lines)
	}
	first, ok := matchTaskLine(l.lines[start])
	if !ok {
		return start + 1
	}
	for i := start + 1; i < len(l.lines); i++ {
		if tl, ok := matchTaskLine(l.lines[i]); ok && tl.indent <= first.indent {
			return i
		}
	}
	return len(l.lines)
}

// ownEnd returns the index just past the task's own lines, stopping at the
// next task line of any depth.
func (l *List) ownEnd(start int) int {
	for i := start + 1; i < len(l.lines); i++ {
		if _, ok := matchTaskLine(l.lines[i]); ok {
			return i
		}
	}
	return len(l.lines)
}

// TaskUpdate lists the edits UpdateTask applies.
type TaskUpdate struct {
	AddDependencies    []string
	RemoveDependencies []string
	ClearDependencies  bool
	AddRequirements    []string
	RemoveRequirements []string
	ClearRequirements  bool
}

// UpdateResult holds a task's lists before and after UpdateTask.
type UpdateResult struct {
	OldDependencies, NewDependencies []string
	OldRequirements, NewRequirements []string
}

// Changed reports whether either list changed.
func (r *UpdateResult) Changed() bool {
	return !slices.Equal(r.OldDependencies, r.NewDependencies) ||
		!slices.Equal(r.OldRequirements, r.NewRequirements)
}

// UpdateTask edits a task's dependencies and requirements and rewrites its
// _Requirements_ and _Dependencies_ lines. Sub-tasks and other content lines
// are kept.
func (l *List) UpdateTask(id string, u TaskUpdate) (*UpdateResult, error) {
	t, err := l.mustGet(id)
	if err != nil {
		return nil, err
	}
	if u.ClearDependencies && (len(u.AddDependencies) > 0 || len(u.RemoveDependencies) > 0) {
		return nil, newError(ErrInvalidUpdate, "Cannot use --clear-dependencies with --add-dependencies or --remove-dependencies")
	}
	if u.ClearRequirements && (len(u.AddRequirements) > 0 || len(u.RemoveRequirements) > 0) {
		return nil, newError(ErrInvalidUpdate, "Cannot use --clear-requirements with --add-requirements or --remove-requirements")
	}
	for _, dep := range u.AddDependencies {
		other, ok := l.tasks[dep]
		switch {
		case !ok:
			return nil, newError(ErrDependencyNotFound, fmt.Sprintf("Dependency '%s' does not exist.", dep))
		case dep == id:
			return nil, newError(ErrInvalidUpdate, fmt.Sprintf("Task '%s' cannot depend on itself.", id))
		case slices.Contains(other.Dependencies, id):
			return nil, newError(ErrInvalidUpdate, fmt.Sprintf("Adding dependency '%s' would create a circular dependency.", dep))
		}
	}
	for _, dep := range u.RemoveDependencies {
		if !slices.Contains(t.Dependencies, dep) {
			return nil, newError(ErrInvalidUpdate, fmt.Sprintf("Dependency '%s' is not currently in task '%s'.", dep, id))
		}
	}
	for _, req := range u.RemoveRequirements {
		if !slices.Contains(t.Requirements, req) {
			return nil, newError(ErrInvalidUpdate, fmt.Sprintf("Requirement '%s' is not currently in task '%s'.", req, id))
		}
	}

	res := &UpdateResult{
		OldDependencies: slices.Clone(t.Dependencies),
		OldRequirements: slices.Clone(t.Requirements),
		NewDependencies: applyEdit(t.Dependencies, u.AddDependencies, u.RemoveDependencies, u.ClearDependencies),
		NewRequirements: applyEdit(t.Requirements, u.AddRequirements, u.RemoveRequirements, u.ClearRequirements),
	}
	if !res.Changed() {
		return res, nil
	}

	l.rewriteSideband(t, res.NewRequirements, res.NewDependencies)
	l.reparse()
	return res, nil
}

func applyEdit(current, add, remove []string, clear bool) []string {
	if clear {
		return []string{}
	}
	out := slices.Clone(current)
	for _, v := range add {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return slices.DeleteFunc(out, func(v string) bool {
		return slices.Contains(remove, v)
	})
}

func isSideband(line string) bool {
	return requirementsPattern.MatchString(line) || dependenciesPattern.MatchString(line)
}

// rewriteSideband replaces the sideband lines in t's own block. New lines
// go where the first old one was, or after the last non-blank line.
func (l *List) rewriteSideband(t *Task, requirements, dependencies []string) {
	start := t.Line - 1
	end := l.ownEnd(start)

	indent := strings.Repeat(" ", t.Indent+2)
	var sideband []string
	if len(requirements) > 0 {
		sideband = append(sideband, fmt.Sprintf("%s_Requirements: %s_\n", indent, strings.Join(requirements, ", ")))
	}
	if len(dependencies) > 0 {
		sideband = append(sideband, fmt.Sprintf("%s_Dependencies: %s_\n", indent, strings.Join(dependencies, ", ")))
	}

	insertAt := -1
	kept := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		if i > start && isSideband(l.lines[i]) {
			if insertAt < 0 {
				insertAt = len(kept)
			}
			continue
		}
		kept = append(kept, l.lines[i])
	}
	if insertAt < 0 {
		insertAt = len(kept)
		for insertAt > 1 && strings.TrimSpace(kept[insertAt-1]) == "" {
			insertAt--
		}
		if !strings.HasSuffix(kept[insertAt-1], "\n") {
			kept[insertAt-1] += "\n"
		}
	}
	kept = slices.Insert(kept, insertAt, sideband...)

	l.lines = slices.Replace(l.lines, start, end, kept...)
}

// DeleteTasks removes the tasks and all their sub-tasks. It refuses when a
// task outside the deleted set depends on one inside it.
func (l *List) DeleteTasks(ids []string) error {
	doomed := make(map[string]bool)
	for _, id := range ids {
		if _, err := l.mustGet(id); err != nil {
			return err
		}
		doomed[id] = true
		for _, sub := range l.descendants(id) {
			doomed[sub.ID] = true
		}
	}

	var conflicts []string
	for _, t := range l.Tasks() {
		if doomed[t.ID] {
			continue
		}
		for _, dep := range t.Dependencies {
			if doomed[dep] {
				conflicts = append(conflicts, fmt.Sprintf("  Task '%s' depends on '%s'", t.ID, dep))
			}
		}
	}
	if len(conflicts) > 0 {
		return newError(ErrHasDependents, "Cannot delete tasks that have dependencies:\n"+strings.Join(conflicts, "\n"))
	}

	drop := make(map[int]bool)
	for id := range doomed {
		start := l.tasks[id].Line - 1
		end := l.blockEnd(start)
		for i := start; i < end; i++ {
			drop[i] = true
		}
	}
	kept := l.lines[:0:0]
	for i, line := range l.lines {
		if !drop[i] {
			kept = append(kept, line)
		}
	}
	l.lines = kept
	l.reparse()
	return nil
}
