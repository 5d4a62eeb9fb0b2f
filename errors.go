package eisenhower

import "errors"

var (
	ErrNotFound = errors.New("not found")

	ErrSessionNotFound = errors.New("session not found")
	ErrLastSession     = errors.New("cannot delete the last session")
	ErrNoActiveSession = errors.New("no active session")
	ErrTaskNotFound    = errors.New("task not found")
	ErrSessionMismatch = errors.New("task does not belong to the current session")
	ErrNoteNotFound    = errors.New("note not found")

	ErrEmptyName       = errors.New("session name is required")
	ErrDuplicateName   = errors.New("a session with this name already exists")
	ErrEmptyTitle      = errors.New("title is required")
	ErrInvalidPriority = errors.New("invalid priority")
)
