package tasklist

import (
	"fmt"
	"strings"
)

// Status is the state of a task, stored in the file as a checkbox.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
	StatusReview     Status = "review"
	StatusDeferred   Status = "deferred"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusDone, StatusReview, StatusDeferred}

var checkboxes = map[Status]string{
	StatusPending:    "[ ]",
	StatusInProgress: "[-]",
	StatusDone:       "[x]",
	StatusReview:     "[+]",
	StatusDeferred:   "[*]",
}

// StatusNames returns the statuses as strings, for flag help and errors.
func StatusNames() []string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}
	return names
}

// ParseStatus converts a status name. The error wraps ErrInvalidStatus.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := checkboxes[st]; !ok {
		return "", newError(ErrInvalidStatus,
			fmt.Sprintf("Invalid status '%s'. Valid statuses: %s", s, strings.Join(StatusNames(), ", ")))
	}
	return st, nil
}

// StatusFromCheckbox maps "[ ]", "[-]", "[x]", "[+]" and "[*]" to a status.
// Anything else is pending.
func StatusFromCheckbox(box string) Status {
	for st, b := range checkboxes {
		if b == box {
			return st
		}
	}
	return StatusPending
}

// Checkbox returns the markdown checkbox for s.
func (s Status) Checkbox() string {
	if b, ok := checkboxes[s]; ok {
		return b
	}
	return checkboxes[StatusPending]
}

// Completed reports whether s counts towards progress: done, review or deferred.
func (s Status) Completed() bool {
	return s == StatusDone || s == StatusReview || s == StatusDeferred
}

// unblocks reports whether a dependency in status s lets dependents start.
func (s Status) unblocks() bool {
	return s == StatusDone || s == StatusReview
}

// blocksSubTasks reports whether a parent in status s keeps its pending
// sub-tasks from starting.
func (s Status) blocksSubTasks() bool {
	return s == StatusPending || s == StatusDone
}
