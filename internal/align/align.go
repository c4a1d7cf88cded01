package align

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"

	"github.com/robert-malhotra/go-lapd/internal/shotnum"
)

// Policy selects how the shared axis is built from the streams' valid shots.
type Policy uint8

const (
	// Intersect keeps only the shots valid in every stream.
	Intersect Policy = iota
	// Union keeps every shot valid in any stream.
	Union
)

func (p Policy) String() string {
	switch p {
	case Intersect:
		return "intersect"
	case Union:
		return "union"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// Lookup finds the physical row holding a shot. *shotnum.Store implements it.
type Lookup interface {
	Lookup(shot uint32) (int, bool)
}

// Stream is one participant of an alignment: its resolution against the
// user's request and the store the resolution came from.
type Stream struct {
	ID         string
	Store      Lookup
	Resolution *shotnum.Resolution
}

// Lane is one stream's view of the shared axis. Valid has the length of the
// shared axis; Rows holds the physical rows behind the true positions.
type Lane struct {
	ID    string
	Rows  []int
	Valid []bool
}

// Result is a shared shot axis plus one lane per stream, primary first.
type Result struct {
	Shots []uint32
	Lanes []Lane
}

// Len returns the length of the shared axis.
func (r *Result) Len() int {
	return len(r.Shots)
}

// Lane returns the lane of the given stream.
func (r *Result) Lane(id string) (*Lane, bool) {
	for i := range r.Lanes {
		if r.Lanes[i].ID == id {
			return &r.Lanes[i], true
		}
	}
	return nil, false
}

// FromResolution wraps a single resolution as a one-lane result, keeping its
// axis as is. Shots the resolution marked invalid stay on the axis.
func FromResolution(id string, res *shotnum.Resolution) *Result {
	return &Result{
		Shots: append([]uint32(nil), res.Shots...),
		Lanes: []Lane{{
			ID:    id,
			Rows:  append([]int(nil), res.Rows...),
			Valid: append([]bool(nil), res.Valid...),
		}},
	}
}

// Align reconciles the primary stream with the secondaries under policy.
//
// The shared axis is the intersection or union of the valid shots of every
// stream, ascending, regardless of how each stream was resolved. Each lane
// is then rebuilt by looking the axis up in the stream's store; the rows of
// the input resolutions are never reused.
func Align(primary Stream, secondaries []Stream, policy Policy) (*Result, error) {
	streams := make([]Stream, 0, len(secondaries)+1)
	streams = append(streams, primary)
	streams = append(streams, secondaries...)

	seen := make(map[string]struct{}, len(streams))
	sets := make([]*roaring.Bitmap, len(streams))
	for i, s := range streams {
		if s.ID == "" || s.Store == nil || s.Resolution == nil {
			return nil, fmt.Errorf("%w: stream %d (%q)", ErrInvalidStream, i, s.ID)
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateStream, s.ID)
		}
		seen[s.ID] = struct{}{}
		sets[i] = validSet(s.Resolution)
	}

	var shared *roaring.Bitmap
	switch policy {
	case Intersect:
		shared = roaring.FastAnd(sets...)
		if shared.IsEmpty() {
			return nil, fmt.Errorf("%w: %d streams", ErrEmptyAlignment, len(streams))
		}
	case Union:
		shared = roaring.FastOr(sets...)
	default:
		return nil, fmt.Errorf("unknown alignment policy %v", policy)
	}

	res := &Result{
		Shots: shared.ToArray(),
		Lanes: make([]Lane, len(streams)),
	}
	for i, s := range streams {
		res.Lanes[i] = project(s, res.Shots)
	}
	return res, nil
}

// validSet collects the shots a resolution marks valid.
func validSet(res *shotnum.Resolution) *roaring.Bitmap {
	bm := roaring.New()
	for i, ok := range res.Valid {
		if ok {
			bm.Add(res.Shots[i])
		}
	}
	return bm
}

// project looks every shot of the axis up in the stream's store.
func project(s Stream, axis []uint32) Lane {
	lane := Lane{
		ID:    s.ID,
		Rows:  make([]int, 0, len(axis)),
		Valid: make([]bool, len(axis)),
	}
	for i, sn := range axis {
		if row, ok := s.Store.Lookup(sn); ok {
			lane.Valid[i] = true
			lane.Rows = append(lane.Rows, row)
		}
	}
	return lane
}
