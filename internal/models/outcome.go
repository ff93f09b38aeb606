package models

// Outcome messages on success.
const (
	MsgLoadComplete   = "load complete"
	MsgSaveComplete   = "save complete"
	MsgDeleteComplete = "delete complete"
)

// LoadOutcome is the result of a load. Payload holds the empty default unless
// Succeeded is true. Err wraps one of the apperr sentinels on failure.
type LoadOutcome[T any] struct {
	Succeeded bool
	Payload   T
	Message   string
	Err       error
}

// SaveOutcome is the result of a save.
type SaveOutcome struct {
	Succeeded bool
	Message   string
	Err       error
}
