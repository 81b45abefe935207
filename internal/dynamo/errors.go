package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for integration runs.
var (
	// ErrInvalidSettings indicates a step size or time span that cannot be integrated.
	ErrInvalidSettings = errors.New("dynamo: invalid integration settings")

	// ErrChannelRange indicates a projection channel outside the state vector.
	ErrChannelRange = errors.New("dynamo: channel index out of range")
)

// SettingsError wraps ErrInvalidSettings with the offending setting.
type SettingsError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *SettingsError) Error() string {
	return fmt.Sprintf("%s: %s=%g %s", ErrInvalidSettings, e.Field, e.Value, e.Reason)
}

func (e *SettingsError) Unwrap() error {
	return ErrInvalidSettings
}

// CheckChannel returns ErrChannelRange unless 0 <= i < len(State).
func CheckChannel(i int) error {
	if i < 0 || i >= len(State{}) {
		return fmt.Errorf("%w: %d", ErrChannelRange, i)
	}
	return nil
}
