// Package tasklist reads and edits markdown task lists such as
//
//	- [ ] 1. Set up the project
//	  _Requirements: FR1, NFR2_
//	  - [x] 1.1. Create the repository
//	    _Dependencies: 2_
//
// Tasks are identified by dotted numeric ids; the dots define the hierarchy.
// Progress is recorded in a JSON ledger next to the working directory.
package tasklist

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	taskLinePattern     = regexp.MustCompile(`^(\s*)-\s*(\[[ \-x\+\*]\])\s*(\d+(?:\.\d+)*)\.?\s*(.*)$`)
	checkboxPattern     = regexp.MustCompile(`\[[ \-x\+\*]\]`)
	requirementsPattern = regexp.MustCompile(`_Requirements:\s*([^_]+)_`)
	dependenciesPattern = regexp.MustCompile(`_Dependencies:\s*([^_]+)_`)
)

// Task is one checklist item and the lines that follow it.
type Task struct {
	ID           string
	Description  string
	Status       Status
	Requirements []string
	Dependencies []string
	// Line is the 1-based line number of the task line.
	Line int
	// Indent is the number of whitespace characters before the "-".
	Indent int
	// Content is the task line plus its continuation lines.
	Content string
}

// List is a parsed task file. Mutating methods change the in-memory lines;
// Save writes them back.
type List struct {
	Path  string
	lines []string // each keeps its trailing newline, if any
	tasks map[string]*Task
}

// Load reads and parses the task file at path.
func Load(path string) (*List, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied task file
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newError(ErrFileNotFound, fmt.Sprintf("File '%s' not found.", path))
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(path, data), nil
}

// Parse builds a List from file content.
func Parse(path string, data []byte) *List {
	l := &List{Path: path, lines: splitLines(string(data))}
	l.reparse()
	return l
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Bytes returns the current file content.
func (l *List) Bytes() []byte {
	return []byte(strings.Join(l.lines, ""))
}

// Save writes the current content back to Path.
func (l *List) Save() error {
	info, err := os.Stat(l.Path)
	mode := os.FileMode(0o644)
	if err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(l.Path, l.Bytes(), mode); err != nil {
		return fmt.Errorf("writing %s: %w", l.Path, err)
	}
	return nil
}

type taskLine struct {
	indent      int
	checkbox    string
	id          string
	description string
}

func matchTaskLine(line string) (taskLine, bool) {
	m := taskLinePattern.FindStringSubmatch(strings.TrimRight(line, "\n"))
	if m == nil {
		return taskLine{}, false
	}
	return taskLine{indent: len(m[1]), checkbox: m[2], id: m[3], description: m[4]}, true
}

// reparse rebuilds the task index from the lines.
func (l *List) reparse() {
	l.tasks = make(map[string]*Task)

	var current *Task
	var content []string
	flush := func() {
		if current == nil {
			return
		}
		current.Content = strings.TrimRight(strings.Join(content, ""), "\r\n")
		l.tasks[current.ID] = current
	}

	for i, line := range l.lines {
		if tl, ok := matchTaskLine(line); ok {
			flush()
			current = &Task{
				ID:           tl.id,
				Description:  strings.TrimSpace(tl.description),
				Status:       StatusFromCheckbox(tl.checkbox),
				Requirements: []string{},
				Dependencies: []string{},
				Line:         i + 1,
				Indent:       tl.indent,
			}
			content = []string{line}
			continue
		}
		if current == nil {
			continue
		}
		content = append(content, line)

		stripped := strings.TrimSpace(line)
		if current.Description == "" && stripped != "" &&
			!strings.HasPrefix(stripped, "-") &&
			!strings.HasPrefix(stripped, "_Requirements:") &&
			!strings.HasPrefix(stripped, "_Dependencies:") {
			current.Description = stripped
		}
		if m := requirementsPattern.FindStringSubmatch(line); m != nil {
			current.Requirements = append(current.Requirements, splitList(m[1])...)
		}
		if m := dependenciesPattern.FindStringSubmatch(line); m != nil {
			current.Dependencies = append(current.Dependencies, splitList(m[1])...)
		}
	}
	flush()
}

func splitList(s string) []string {
	parts := strings.Split(strings.TrimSpace(s), ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// Task returns the task with id.
func (l *List) Task(id string) (*Task, bool) {
	t, ok := l.tasks[id]
	return t, ok
}

// Len returns the number of tasks.
func (l *List) Len() int { return len(l.tasks) }

// Tasks returns all tasks ordered by id.
func (l *List) Tasks() []*Task {
	return l.sorted(func(*Task) bool { return true })
}

func (l *List) sorted(keep func(*Task) bool) []*Task {
	out := make([]*Task, 0, len(l.tasks))
	for _, t := range l.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b *Task) int { return CompareIDs(a.ID, b.ID) })
	return out
}

func (l *List) mustGet(id string) (*Task, error) {
	t, ok := l.tasks[id]
	if !ok {
		return nil, newError(ErrTaskNotFound, fmt.Sprintf("Task '%s' not found.", id))
	}
	return t, nil
}

// CompareIDs orders dotted ids numerically part by part: 2 < 10, 1 < 1.1 < 1.2.
func CompareIDs(a, b string) int {
	pa, pb := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(pa) && i < len(pb); i++ {
		na, errA := strconv.Atoi(pa[i])
		nb, errB := strconv.Atoi(pb[i])
		if errA != nil || errB != nil {
			if c := strings.Compare(pa[i], pb[i]); c != 0 {
				return c
			}
			continue
		}
		if na != nb {
			if na < nb {
				return -1
			}
			return 1
		}
	}
	return len(pa) - len(pb)
}

// IsSubTask reports whether id has a parent.
func IsSubTask(id string) bool {
	return strings.Contains(id, ".")
}

// ParentID returns the id one level up, or "" for a root task.
func ParentID(id string) string {
	i := strings.LastIndex(id, ".")
	if i < 0 {
		return ""
	}
	return id[:i]
}

// Depth is the number of dots in id.
func Depth(id string) int {
	return strings.Count(id, ".")
}

// Parent returns t's parent task, if it exists in the list.
func (l *List) Parent(t *Task) (*Task, bool) {
	if !IsSubTask(t.ID) {
		return nil, false
	}
	p, ok := l.tasks[ParentID(t.ID)]
	return p, ok
}

// SubTasks returns the direct sub-tasks of id, ordered.
func (l *List) SubTasks(id string) []*Task {
	return l.sorted(func(t *Task) bool {
		return ParentID(t.ID) == id
	})
}

// descendants returns every task below id, at any depth.
func (l *List) descendants(id string) []*Task {
	prefix := id + "."
	return l.sorted(func(t *Task) bool {
		return strings.HasPrefix(t.ID, prefix)
	})
}
