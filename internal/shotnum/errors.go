package shotnum

import "errors"

// Request failures. Callers should match with errors.Is; the returned errors
// wrap these with the offending values.
var (
	// ErrInvalidRequest reports a request with no usable shot numbers, either
	// because every value was non-positive or because none of them exist in
	// storage when intersecting.
	ErrInvalidRequest = errors.New("invalid shot number request")

	// ErrOutOfRange reports a row index outside [0, row count).
	ErrOutOfRange = errors.New("row index out of range")

	// ErrMalformedRequest reports a request that is not a well-formed
	// integer scalar, list or range.
	ErrMalformedRequest = errors.New("malformed request")

	// ErrTagMismatch reports a tag column whose length differs from the
	// shot-number column.
	ErrTagMismatch = errors.New("tag column length does not match shot column")
)
