package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNoBundle = errors.New("no reconciled bundle yet")
)
