package shotnum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLookup(t *testing.T) {
	st := mustStore(t, gapped())

	tests := []struct {
		shot uint32
		row  int
		ok   bool
	}{
		{1, 0, true},
		{30, 29, true},
		{31, 0, false},
		{35, 0, false},
		{40, 0, false},
		{41, 30, true},
		{60, 49, true},
		{61, 0, false},
		{0, 0, false},
	}

	for _, tt := range tests {
		row, ok := st.Lookup(tt.shot)
		assert.Equal(t, tt.ok, ok, "shot %d", tt.shot)
		if tt.ok {
			assert.Equal(t, tt.row, row, "shot %d", tt.shot)
		}
	}

	assert.EqualValues(t, 1, st.MinShot())
	assert.EqualValues(t, 60, st.MaxShot())
	assert.Len(t, st.Shots(), 50)
}

func TestStoreDuplicateShotKeepsFirstRow(t *testing.T) {
	st := mustStore(t, []uint32{1, 2, 2, 3})

	row, ok := st.Lookup(2)
	require.True(t, ok)
	assert.Equal(t, 1, row)
	assert.Equal(t, []uint32{1, 2, 3}, st.Shots())
}

func TestStoreCopiesColumn(t *testing.T) {
	column := []uint32{1, 2, 3}
	st := mustStore(t, column)
	column[0] = 9

	assert.EqualValues(t, 1, st.ShotAt(0))
	assert.True(t, st.Contains(1))
	assert.False(t, st.Contains(9))
}

func TestStoreTags(t *testing.T) {
	column := []uint32{1, 1, 2, 3, 3}
	tags := []string{"cfg A", "cfg B", "cfg A", "cfg A", "cfg B"}

	st := mustStore(t, column, WithTags(tags, "cfg B"))
	assert.Equal(t, "cfg B", st.Tag())
	assert.Equal(t, 2, st.RowCount())
	assert.Equal(t, []uint32{1, 3}, st.Shots())

	row, ok := st.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, 4, row)
	assert.False(t, st.Contains(2))

	empty := mustStore(t, column, WithTags(tags, "cfg C"))
	assert.Zero(t, empty.RowCount())
	_, err := ResolveShots(empty, All(), true)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestStoreTagMismatch(t *testing.T) {
	_, err := NewStore([]uint32{1, 2}, WithTags([]string{"a"}, "a"))
	assert.ErrorIs(t, err, ErrTagMismatch)
}
