package materialize

import "errors"

var (
	// ErrFieldCollision is returned when two sources produce the same
	// output field, or one source describes a field inconsistently.
	ErrFieldCollision = errors.New("output field produced more than once")

	// ErrNoLane is returned when a source reads from a lane the alignment
	// does not have.
	ErrNoLane = errors.New("no such lane in alignment")

	// ErrShortFetch is returned when a fetcher returns fewer rows or
	// fields than were asked for.
	ErrShortFetch = errors.New("fetch returned incomplete data")
)
