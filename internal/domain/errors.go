package domain

import "errors"

// ErrDuplicate is returned by repositories when a unique constraint is hit
// (in practice: the username index).
var ErrDuplicate = errors.New("duplicate key")
