package source

import "errors"

// Sentinel kinds for source errors.
var (
	ErrTableUnavailable = errors.New("table unavailable")
	ErrSnapshotLoad     = errors.New("snapshot load failed")
)
