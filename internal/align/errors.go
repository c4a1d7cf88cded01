package align

import "errors"

var (
	// ErrEmptyAlignment is returned when an intersection across streams
	// leaves no shots. A union can not produce it.
	ErrEmptyAlignment = errors.New("no shot is valid in every stream")

	// ErrDuplicateStream is returned when two streams share an identifier.
	ErrDuplicateStream = errors.New("duplicate stream identifier")

	// ErrInvalidStream is returned for a stream missing one of its parts.
	ErrInvalidStream = errors.New("invalid stream")
)
