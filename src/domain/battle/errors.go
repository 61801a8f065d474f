package battle

import "errors"

var (
	ErrBattleNotFound = errors.New("battle not found")
	ErrUnresolved     = errors.New("battle result is not resolved")
	ErrSameTeam       = errors.New("a team cannot battle itself")
)
