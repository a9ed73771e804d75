package history

import "errors"

var (
	// ErrEmptyHistory is returned when popping or undoing would remove the
	// baseline, or when a log has nothing left to undo.
	ErrEmptyHistory = errors.New("history: no history to undo")
	// ErrIndexOutOfRange is returned for door slots outside the door list.
	ErrIndexOutOfRange = errors.New("history: index out of range")
	// ErrMissingReference is returned when a required entity or collaborator
	// is unset; the dependent operation is skipped.
	ErrMissingReference = errors.New("history: missing reference")
	// ErrHistoryDesync is returned when the live entities no longer match a
	// snapshot. The snapshot is left in place and nothing is written.
	ErrHistoryDesync = errors.New("history: snapshot does not match live entities")
)
