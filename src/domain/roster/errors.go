package roster

import "errors"

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamEmpty        = errors.New("team has no units")
	ErrTeamTooLarge     = errors.New("team exceeds size cap")
	ErrDuplicateUnit    = errors.New("unit listed twice")
	ErrUnitNameRequired = errors.New("unit name is required")
	ErrUnknownRarity    = errors.New("unknown rarity")
	ErrInvalidStats     = errors.New("invalid unit stats")
)
