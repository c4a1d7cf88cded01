package hdfstore

import (
	"context"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-lapd/internal/materialize"
)

// signalTable is a numeric dataset read as rows of samples.
type signalTable struct {
	g       *guard
	ds      dataset
	rows    int
	samples int
	kind    valueKind
}

func newSignalTable(g *guard, ds dataset) (*signalTable, error) {
	t, err := ds.GoType()
	if err != nil {
		return nil, errors.Wrapf(err, "%s", ds.Path())
	}
	kind, err := kindOf(t)
	if err != nil || kind == stringValues {
		return nil, errors.Wrapf(ErrShape, "%s does not hold numeric samples", ds.Path())
	}

	st := &signalTable{g: g, ds: ds, kind: kind}
	switch shape := ds.Shape(); len(shape) {
	case 1:
		st.rows, st.samples = int(shape[0]), 1
	case 2:
		st.rows, st.samples = int(shape[0]), int(shape[1])
	default:
		return nil, errors.Wrapf(ErrShape, "%s has rank %d", ds.Path(), len(shape))
	}
	return st, nil
}

func (t *signalTable) Path() string     { return t.ds.Path() }
func (t *signalTable) Rows() int        { return t.rows }
func (t *signalTable) Fields() []string { return []string{SignalField} }

func (t *signalTable) HasField(name string) bool {
	return name == SignalField
}

func (t *signalTable) Uint32s(field string) ([]uint32, error) {
	return nil, errors.Wrapf(ErrNoField, "%s: signal tables carry no shot numbers", t.Path())
}

func (t *signalTable) Strings(field string) ([]string, error) {
	return nil, errors.Wrapf(ErrNoField, "%s: signal tables carry no strings", t.Path())
}

func (t *signalTable) Fetch(ctx context.Context, rows []int, fields []materialize.Field) (materialize.Block, error) {
	for _, f := range fields {
		if f.Source != SignalField {
			return nil, errors.Wrapf(ErrNoField, "%s: %q", t.Path(), f.Source)
		}
	}
	return fetchRuns(ctx, t.g, t.Path(), t.rows, rows, func(start, count int) (materialize.Block, error) {
		from := []uint64{uint64(start)}
		n := []uint64{uint64(count)}
		if len(t.ds.Shape()) == 2 {
			from = append(from, 0)
			n = append(n, uint64(t.samples))
		}
		col := &materialize.Column{Width: t.samples}
		var err error
		if t.kind == floatValues {
			col.Floats = make([]float64, 0, count*t.samples)
			err = t.ds.ReadSlice(from, n, &col.Floats)
		} else {
			col.Ints = make([]int64, 0, count*t.samples)
			err = t.ds.ReadSlice(from, n, &col.Ints)
		}
		if err != nil {
			return nil, err
		}
		return materialize.Block{SignalField: col}, nil
	})
}

// Floating reports whether t is a signal table of floating-point samples.
func Floating(t Table) bool {
	st, ok := t.(*signalTable)
	return ok && st.kind == floatValues
}

// Samples returns the number of samples per row of a signal table, or 1
// for any other table.
func Samples(t Table) int {
	if st, ok := t.(*signalTable); ok {
		return st.samples
	}
	return 1
}
