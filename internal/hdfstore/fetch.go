package hdfstore

import (
	"context"
	"slices"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-lapd/internal/materialize"
)

// span is a contiguous run of rows.
type span struct {
	start, count int
}

// spans splits ascending, duplicate-free rows into contiguous runs.
func spans(rows []int) []span {
	var out []span
	for i := 0; i < len(rows); {
		j := i + 1
		for j < len(rows) && rows[j] == rows[j-1]+1 {
			j++
		}
		out = append(out, span{start: rows[i], count: j - i})
		i = j
	}
	return out
}

// readFunc reads count rows from start. It runs with the file locked.
type readFunc func(start, count int) (materialize.Block, error)

// fetchRuns reads the given rows of an n-row table run by run and returns
// them in the order of rows. The context is checked between runs.
func fetchRuns(ctx context.Context, g *guard, path string, n int, rows []int, read readFunc) (materialize.Block, error) {
	uniq := slices.Clone(rows)
	slices.Sort(uniq)
	uniq = slices.Compact(uniq)
	if len(uniq) == 0 {
		return materialize.Block{}, nil
	}
	if uniq[0] < 0 || uniq[len(uniq)-1] >= n {
		return nil, errors.Wrapf(ErrRowRange, "%s: rows %d..%d of %d", path, uniq[0], uniq[len(uniq)-1], n)
	}

	var merged materialize.Block
	for _, s := range spans(uniq) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var part materialize.Block
		err := g.do(func() error {
			var err error
			part, err = read(s.start, s.count)
			return err
		})
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s rows %d..%d", path, s.start, s.start+s.count-1)
		}
		merged = appendBlock(merged, part)
	}

	out := make(materialize.Block, len(merged))
	for name, col := range merged {
		out[name] = gather(col, uniq, rows)
	}
	return out, nil
}

// appendBlock appends the rows of part to dst.
func appendBlock(dst, part materialize.Block) materialize.Block {
	if dst == nil {
		return part
	}
	for name, col := range part {
		d, ok := dst[name]
		if !ok {
			dst[name] = col
			continue
		}
		d.Ints = append(d.Ints, col.Ints...)
		d.Floats = append(d.Floats, col.Floats...)
		d.Strings = append(d.Strings, col.Strings...)
	}
	return dst
}

// gather reorders col, which holds the rows in uniq, into the order of rows.
func gather(col *materialize.Column, uniq, rows []int) *materialize.Column {
	w := max(col.Width, 1)
	out := &materialize.Column{Width: col.Width}
	switch {
	case col.Ints != nil:
		out.Ints = make([]int64, 0, len(rows)*w)
	case col.Floats != nil:
		out.Floats = make([]float64, 0, len(rows)*w)
	default:
		out.Strings = make([]string, 0, len(rows)*w)
	}
	for _, r := range rows {
		i, _ := slices.BinarySearch(uniq, r)
		lo, hi := i*w, (i+1)*w
		switch {
		case col.Ints != nil:
			out.Ints = append(out.Ints, col.Ints[lo:hi]...)
		case col.Floats != nil:
			out.Floats = append(out.Floats, col.Floats[lo:hi]...)
		default:
			out.Strings = append(out.Strings, col.Strings[lo:hi]...)
		}
	}
	return out
}
