package shotnum

import (
	"cmp"
	"fmt"
	"slices"
)

// Resolution is the outcome of resolving one request against one Store.
//
// Shots is the proposed output axis, ascending. Valid runs parallel to Shots
// and is true where the shot is backed by a stored row. Rows holds the
// physical rows for the true positions only, in the same order.
type Resolution struct {
	Rows  []int
	Shots []uint32
	Valid []bool
}

// Len returns the length of the output axis.
func (r *Resolution) Len() int {
	return len(r.Shots)
}

// CountValid returns the number of true entries in the mask.
func (r *Resolution) CountValid() int {
	n := 0
	for _, v := range r.Valid {
		if v {
			n++
		}
	}
	return n
}

// ValidShots returns the shots backed by a stored row, ascending.
func (r *Resolution) ValidShots() []uint32 {
	out := make([]uint32, 0, len(r.Rows))
	for i, v := range r.Valid {
		if v {
			out = append(out, r.Shots[i])
		}
	}
	return out
}

// ResolveShots resolves a shot-number request against store.
//
// Non-positive values are discarded; a request left empty fails with
// ErrInvalidRequest. With intersect set, the output axis keeps only the
// stored shots and fails with ErrInvalidRequest if none survive. Otherwise
// the axis is the whole normalized request and Valid marks the stored shots.
func ResolveShots(store *Store, req Request, intersect bool) (*Resolution, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	// A range intersected with storage only ever yields stored shots, so
	// walk the index instead of expanding the span.
	if intersect && req.kind == KindRange {
		return resolveSpan(store, req)
	}

	shots, err := normalizeShots(req, store)
	if err != nil {
		return nil, err
	}

	res := &Resolution{}
	if intersect {
		res.Shots = make([]uint32, 0, len(shots))
		res.Rows = make([]int, 0, len(shots))
		for _, sn := range shots {
			if row, ok := store.Lookup(sn); ok {
				res.Shots = append(res.Shots, sn)
				res.Rows = append(res.Rows, row)
			}
		}
		if len(res.Shots) == 0 {
			return nil, fmt.Errorf("%w: none of the %d requested shots are stored", ErrInvalidRequest, len(shots))
		}
		res.Valid = trues(len(res.Shots))
		return res, nil
	}

	res.Shots = shots
	res.Valid = make([]bool, len(shots))
	res.Rows = make([]int, 0, len(shots))
	for i, sn := range shots {
		if row, ok := store.Lookup(sn); ok {
			res.Valid[i] = true
			res.Rows = append(res.Rows, row)
		}
	}
	return res, nil
}

// resolveSpan intersects a range request with the stored shots.
func resolveSpan(store *Store, req Request) (*Resolution, error) {
	start, stop, step := req.span.shotBounds(store)
	start, stop, ok := clipShots(start, stop, step)
	if !ok {
		return nil, fmt.Errorf("%w: range %s names no storable shot numbers", ErrInvalidRequest, req)
	}

	// Both bounds lie in 0..MaxUint32+1 once clipped.
	var lo, hi int64
	if step > 0 {
		lo, hi = start, stop
	} else {
		lo, hi = stop+1, start+1
	}

	res := &Resolution{}
	for _, e := range store.between(lo, hi) {
		if (int64(e.shot)-start)%step != 0 {
			continue
		}
		res.Shots = append(res.Shots, e.shot)
		res.Rows = append(res.Rows, e.row)
	}
	if len(res.Shots) == 0 {
		return nil, fmt.Errorf("%w: range %s matches no stored shots", ErrInvalidRequest, req)
	}
	res.Valid = trues(len(res.Shots))
	return res, nil
}

// ResolveIndices resolves a row-index request against store. Positions
// address the rows visible through the store; shots are read back from the
// column. The output is ordered by shot number and every entry is valid.
func ResolveIndices(store *Store, req Request) (*Resolution, error) {
	pos, err := normalizeIndices(req, store.RowCount())
	if err != nil {
		return nil, err
	}

	picked := make([]entry, len(pos))
	for i, p := range pos {
		picked[i] = entry{shot: store.ShotAt(p), row: store.RowAt(p)}
	}
	slices.SortStableFunc(picked, func(a, b entry) int {
		return cmp.Compare(a.shot, b.shot)
	})
	picked = slices.CompactFunc(picked, func(a, b entry) bool {
		return a.shot == b.shot
	})

	res := &Resolution{
		Rows:  make([]int, len(picked)),
		Shots: make([]uint32, len(picked)),
		Valid: trues(len(picked)),
	}
	for i, e := range picked {
		res.Rows[i] = e.row
		res.Shots[i] = e.shot
	}
	return res, nil
}

func trues(n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = true
	}
	return out
}
