package shared

import "errors"

var (
	ErrDuplicate    = errors.New("duplicate operation")
	ErrNotFound     = errors.New("entity not found")
	ErrConflict     = errors.New("entity conflict")
	ErrInvalidInput = errors.New("invalid input")
)
