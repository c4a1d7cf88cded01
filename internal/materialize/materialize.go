package materialize

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/robert-malhotra/go-lapd/internal/align"
)

// Option configures Materialize.
type Option func(*options)

type options struct {
	workers int
	blanks  []Descriptor
}

// WithWorkers bounds the number of sources fetched concurrently.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithBlankField adds an output field that stays missing unless a source
// produces it.
func WithBlankField(name string, kind Kind, width int) Option {
	return func(o *options) {
		o.blanks = append(o.blanks, Descriptor{Name: name, Kind: kind, Width: max(width, 1)})
	}
}

// Materialize fetches the rows named by each source's lane and assembles
// them along the shared axis of res.
func Materialize(ctx context.Context, res *align.Result, sources []Source, opts ...Option) (*Records, error) {
	o := options{workers: 1}
	for _, opt := range opts {
		opt(&o)
	}

	fields, err := layout(sources, o.blanks)
	if err != nil {
		return nil, err
	}

	lanes := make([]*align.Lane, len(sources))
	for i, src := range sources {
		lane, ok := res.Lane(src.Lane)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNoLane, src.Lane)
		}
		if src.Fetcher == nil && len(src.Layout) > 0 {
			return nil, fmt.Errorf("lane %q: source has no fetcher", src.Lane)
		}
		lanes[i] = lane
	}

	recs := newRecords(append([]uint32(nil), res.Shots...), fields)
	for i := range res.Lanes {
		recs.valid[res.Lanes[i].ID] = append([]bool(nil), res.Lanes[i].Valid...)
	}

	// Sources own disjoint output fields, so they fill the records without
	// coordinating.
	p := pool.New().WithMaxGoroutines(o.workers).WithContext(ctx).WithCancelOnError()
	for i, src := range sources {
		lane := lanes[i]
		p.Go(func(ctx context.Context) error {
			return fill(ctx, recs, src, lane)
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return recs, nil
}

// fill fetches one source and places its rows at the lane's valid positions.
func fill(ctx context.Context, recs *Records, src Source, lane *align.Lane) error {
	if len(lane.Rows) == 0 || len(src.Layout) == 0 {
		return nil
	}

	block, err := src.Fetcher.Fetch(ctx, lane.Rows, src.Layout)
	if err != nil {
		return fmt.Errorf("lane %q: %w", src.Lane, err)
	}
	for _, f := range src.Layout {
		col, ok := block[f.Source]
		if !ok || col.Rows() < len(lane.Rows) {
			return fmt.Errorf("%w: lane %q field %q", ErrShortFetch, src.Lane, f.Source)
		}
	}

	k := 0
	for i, ok := range lane.Valid {
		if !ok {
			continue
		}
		for _, f := range src.Layout {
			recs.place(f, block[f.Source], k, i)
		}
		k++
	}
	return nil
}

// layout derives the record layout: shotnum, then every source's output
// fields in order, then the blank fields no source produces.
func layout(sources []Source, blanks []Descriptor) ([]Descriptor, error) {
	fields := []Descriptor{{Name: ShotField, Kind: Int, Width: 1}}
	owner := map[string]int{ShotField: -1}
	index := map[string]int{ShotField: 0}

	for si, src := range sources {
		for _, f := range src.Layout {
			d := Descriptor{Name: f.Name, Kind: f.Kind, Width: f.width()}
			if o, seen := owner[f.Name]; seen {
				if o != si {
					return nil, fmt.Errorf("%w: %q", ErrFieldCollision, f.Name)
				}
				if fields[index[f.Name]] != d {
					return nil, fmt.Errorf("%w: %q described as both %v and %v",
						ErrFieldCollision, f.Name, fields[index[f.Name]], d)
				}
				continue
			}
			owner[f.Name] = si
			index[f.Name] = len(fields)
			fields = append(fields, d)
		}
	}

	for _, b := range blanks {
		if _, seen := owner[b.Name]; seen {
			continue
		}
		owner[b.Name] = -1
		fields = append(fields, b)
	}
	return fields, nil
}
