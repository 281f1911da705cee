package services

import "errors"

// Define common service errors
var (
	// ErrInternal marks a storage or engine fault. The wrapped chain keeps the
	// original cause for logging; it never reaches a response body.
	ErrInternal = errors.New("internal error")
)
