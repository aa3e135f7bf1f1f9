package shelf

import (
	"errors"

	"github.com/aweris/shelf/internal/object"
)

var (
	// ErrNotFound reports a missing path, or a path resolving to a
	// container where a value was expected (and vice versa). Object
	// stores return it for unknown hashes and refs.
	ErrNotFound = object.ErrNotFound

	// ErrInvalidPath reports an empty path or a path with an empty
	// segment.
	ErrInvalidPath = errors.New("invalid path")

	// ErrConcurrentModification reports that the branch ref advanced
	// underneath an in-flight commit.
	ErrConcurrentModification = object.ErrRefConflict

	// ErrCorrupt reports a stored object or snapshot whose shape is
	// inconsistent with what its position requires.
	ErrCorrupt = object.ErrCorrupt
)
