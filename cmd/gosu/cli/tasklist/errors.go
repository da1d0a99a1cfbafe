package tasklist

import "errors"

// Sentinel errors; returned errors wrap these with the details.
var (
	ErrFileNotFound       = errors.New("task file not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrTaskExists         = errors.New("task already exists")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrDependencyNotFound = errors.New("dependency does not exist")
	ErrParentBlocked      = errors.New("parent task does not allow this change")
	ErrHasDependents      = errors.New("cannot delete tasks that have dependencies")
	ErrInvalidUpdate      = errors.New("invalid task update")
	ErrInvalidTracking    = errors.New("invalid tracking condition")
)

// Error is a user-facing failure. Msg is printed as is; Err is the sentinel
// callers can test with errors.Is.
type Error struct {
	Err error
	Msg string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Err }

func newError(sentinel error, msg string) error {
	return &Error{Err: sentinel, Msg: msg}
}
