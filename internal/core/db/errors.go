package db

import (
	"errors"
	"fmt"
)

// ErrDuplicateCategory is returned when a category title collides
// case-insensitively with an existing one.
var ErrDuplicateCategory = errors.New("category already exists")

// ValidationError reports a missing required field or identifier. These are
// caller mistakes and are never retried.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}
