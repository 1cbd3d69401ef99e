package config

import "errors"

// Errors callers can match with errors.Is to tell a malformed
// configuration apart from a failed load.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
