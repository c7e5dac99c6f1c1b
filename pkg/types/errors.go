package types

import "errors"

// Domain errors for type validation
var (
	ErrEmptyTrigger      = errors.New("trigger cannot be empty")
	ErrInvalidTrigger    = errors.New("trigger cannot contain whitespace")
	ErrEmptyURL          = errors.New("url cannot be empty")
	ErrNegativeRelevance = errors.New("relevance must be >= 0")
)
