package shotnum

import (
	"cmp"
	"fmt"
	"slices"
)

// entry pairs a shot number with the physical row storing it.
type entry struct {
	shot uint32
	row  int
}

// Store is a read-only view over one dataset's shot-number column.
//
// When built with WithTags, the store only sees the rows whose tag equals
// the active tag. Positions handed to ResolveIndices address that view;
// every row returned by the store is still a physical row of the dataset.
type Store struct {
	column []uint32
	tag    string

	// view lists the physical rows visible through the store, ascending.
	// It is nil when every row is visible.
	view []int

	// index is sorted by shot, one entry per distinct shot.
	index []entry
}

// StoreOption configures a Store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	tags      []string
	active    string
	hasFilter bool
}

// WithTags restricts the store to the rows whose tag equals active. tags
// must run parallel to the shot column.
func WithTags(tags []string, active string) StoreOption {
	return func(c *storeConfig) {
		c.tags = tags
		c.active = active
		c.hasFilter = true
	}
}

// NewStore builds the row index for a shot-number column. The column is
// copied; the caller may reuse it afterwards.
//
// Shot numbers are expected to be unique. If a shot appears more than once
// the first row holding it wins.
func NewStore(column []uint32, opts ...StoreOption) (*Store, error) {
	var cfg storeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Store{column: slices.Clone(column)}

	if cfg.hasFilter {
		if len(cfg.tags) != len(column) {
			return nil, fmt.Errorf("%w: %d tags for %d shots", ErrTagMismatch, len(cfg.tags), len(column))
		}
		s.tag = cfg.active
		s.view = make([]int, 0, len(column))
		for row, t := range cfg.tags {
			if t == cfg.active {
				s.view = append(s.view, row)
			}
		}
	}

	n := s.RowCount()
	s.index = make([]entry, 0, n)
	for i := range n {
		row := s.physical(i)
		s.index = append(s.index, entry{shot: s.column[row], row: row})
	}
	// Stable sort keeps the earliest row first among equal shots.
	slices.SortStableFunc(s.index, func(a, b entry) int {
		return cmp.Compare(a.shot, b.shot)
	})
	s.index = slices.CompactFunc(s.index, func(a, b entry) bool {
		return a.shot == b.shot
	})

	return s, nil
}

// physical maps a view position to a physical row.
func (s *Store) physical(pos int) int {
	if s.view == nil {
		return pos
	}
	return s.view[pos]
}

// RowCount returns the number of rows visible through the store.
func (s *Store) RowCount() int {
	if s.view == nil {
		return len(s.column)
	}
	return len(s.view)
}

// PhysicalRows returns the total number of rows in the underlying column.
func (s *Store) PhysicalRows() int {
	return len(s.column)
}

// Tag returns the active tag, or "" for an unfiltered store.
func (s *Store) Tag() string {
	return s.tag
}

// RowAt returns the physical row behind view position pos.
func (s *Store) RowAt(pos int) int {
	return s.physical(pos)
}

// ShotAt returns the shot number stored at view position pos.
func (s *Store) ShotAt(pos int) uint32 {
	return s.column[s.physical(pos)]
}

// Lookup returns the physical row holding shot.
func (s *Store) Lookup(shot uint32) (int, bool) {
	i, found := slices.BinarySearchFunc(s.index, shot, func(e entry, t uint32) int {
		return cmp.Compare(e.shot, t)
	})
	if !found {
		return 0, false
	}
	return s.index[i].row, true
}

// Contains reports whether shot is stored.
func (s *Store) Contains(shot uint32) bool {
	_, ok := s.Lookup(shot)
	return ok
}

// Shots returns the distinct stored shot numbers in ascending order.
func (s *Store) Shots() []uint32 {
	out := make([]uint32, len(s.index))
	for i, e := range s.index {
		out[i] = e.shot
	}
	return out
}

// MinShot returns the smallest stored shot number, or 0 for an empty store.
func (s *Store) MinShot() uint32 {
	if len(s.index) == 0 {
		return 0
	}
	return s.index[0].shot
}

// MaxShot returns the largest stored shot number, or 0 for an empty store.
func (s *Store) MaxShot() uint32 {
	if len(s.index) == 0 {
		return 0
	}
	return s.index[len(s.index)-1].shot
}

// between returns the index entries with lo <= shot < hi.
func (s *Store) between(lo, hi int64) []entry {
	from, _ := slices.BinarySearchFunc(s.index, lo, func(e entry, t int64) int {
		return cmp.Compare(int64(e.shot), t)
	})
	to, _ := slices.BinarySearchFunc(s.index, hi, func(e entry, t int64) int {
		return cmp.Compare(int64(e.shot), t)
	})
	if to < from {
		return nil
	}
	return s.index[from:to]
}
