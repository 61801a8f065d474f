package combat

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRoster  = errors.New("invalid roster")
	ErrUnknownAbility = errors.New("unknown passive ability")
)

// InvalidRosterError rejects a battle before the loop starts.
type InvalidRosterError struct {
	Side   Side
	Reason string
	Err    error
}

func (e *InvalidRosterError) Error() string {
	return fmt.Sprintf("invalid %s roster: %s", e.Side, e.Reason)
}

// Is lets errors.Is match ErrInvalidRoster.
func (e *InvalidRosterError) Is(target error) bool {
	return target == ErrInvalidRoster
}

func (e *InvalidRosterError) Unwrap() error {
	return e.Err
}
