// Package repository contains data access abstractions. Implementations live
// in subpackages (e.g. postgres) and hold no business logic.
package repository

import "errors"

// ErrConflict is returned by conditional writes when the row no longer
// matches the expected state (lost-update protection on status transitions).
var ErrConflict = errors.New("row state changed concurrently")

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
