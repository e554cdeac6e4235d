package utils

import "github.com/google/uuid"

// NewID returns a random id usable as a primary key.
func NewID() string { return uuid.NewString() }
