package player

import "errors"

var (
	ErrPlayerNotFound   = errors.New("player not found")
	ErrAccountSuspended = errors.New("player account suspended")
)
