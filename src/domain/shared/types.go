package shared

import (
	"fmt"
	"strings"
)

// ID types keep domain entities distinct while remaining simple strings at runtime.
type (
	PlayerID       string
	TeamID         string
	UnitID         string
	BattleID       string
	SeasonID       string
	IdempotencyKey string
)

// Validate ensures IDs are not blank. Failures wrap ErrInvalidInput.
func (id PlayerID) Validate() error {
	if strings.TrimSpace(string(id)) == "" {
		return fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	return nil
}

func (id TeamID) Validate() error {
	if strings.TrimSpace(string(id)) == "" {
		return fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	return nil
}

func (id UnitID) Validate() error {
	if strings.TrimSpace(string(id)) == "" {
		return fmt.Errorf("%w: unit id is required", ErrInvalidInput)
	}
	return nil
}

func (id BattleID) Validate() error {
	if strings.TrimSpace(string(id)) == "" {
		return fmt.Errorf("%w: battle id is required", ErrInvalidInput)
	}
	return nil
}

func (id SeasonID) Validate() error {
	if strings.TrimSpace(string(id)) == "" {
		return fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	return nil
}

func (key IdempotencyKey) Validate() error {
	if strings.TrimSpace(string(key)) == "" {
		return fmt.Errorf("%w: idempotency key is required", ErrInvalidInput)
	}
	return nil
}
