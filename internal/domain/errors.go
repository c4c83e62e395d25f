package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness constraint was violated (slug or label).
	ErrConflict = errors.New("already exists")
	// ErrCategoryInUse indicates a category still referenced by products; such
	// categories cannot be deleted.
	ErrCategoryInUse = errors.New("category still has products")
	// ErrValidation indicates an entity failed a data-layer constraint.
	ErrValidation = errors.New("invalid entity")
)
