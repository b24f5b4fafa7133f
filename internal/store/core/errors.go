package core

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")

	// ErrNoStoredProc indica que la función SQL optimizada no existe en el
	// schema (SQLSTATE 42883). El caller debe usar el camino de fallback.
	ErrNoStoredProc = errors.New("stored procedure not available")
)
