package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound     = errors.New("player not found")
	ErrInvalidLimit = errors.New("invalid ranking limit")
	ErrUnknownTable = errors.New("unknown table")
	ErrNoSnapshot   = errors.New("no result published")
)
