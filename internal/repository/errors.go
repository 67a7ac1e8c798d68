package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict covers unique violations and lost conditional updates.
	ErrConflict = errors.New("conflict")
)
