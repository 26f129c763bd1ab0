package schedule

import "errors"

// ErrNoFeasibleSlot is returned when no-show rescheduling could not place a
// single team anywhere.
var ErrNoFeasibleSlot = errors.New("no gaps available for no-show teams")

// ConfigError reports invalid numeric or time configuration. The operation
// aborts without mutating anything; the caller must fix the input.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return e.Msg
}

// NotFoundError reports a referenced team or schedule that does not exist.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string {
	return e.Msg
}
