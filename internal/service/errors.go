package service

import "errors"

// Service-level errors surfaced to the API layer.
var (
	// ErrNotInGroup is returned when the acting user belongs to no group
	// and therefore cannot own or see daily tasks.
	ErrNotInGroup = errors.New("user is not in any group")
)
