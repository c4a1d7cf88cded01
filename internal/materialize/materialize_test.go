package materialize

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-lapd/internal/align"
)

// table is an in-memory fetcher over named columns.
type table struct {
	cols    map[string]*Column
	fetched atomic.Int64
}

func (tb *table) Fetch(_ context.Context, rows []int, fields []Field) (Block, error) {
	tb.fetched.Add(int64(len(rows)))
	out := make(Block, len(fields))
	for _, f := range fields {
		src, ok := tb.cols[f.Source]
		if !ok {
			return nil, errors.New("no column " + f.Source)
		}
		w := max(src.Width, 1)
		col := &Column{Width: src.Width}
		for _, r := range rows {
			switch {
			case src.Ints != nil:
				col.Ints = append(col.Ints, src.Ints[r*w:(r+1)*w]...)
			case src.Floats != nil:
				col.Floats = append(col.Floats, src.Floats[r*w:(r+1)*w]...)
			default:
				col.Strings = append(col.Strings, src.Strings[r*w:(r+1)*w]...)
			}
		}
		out[f.Source] = col
	}
	return out, nil
}

func alignment() *align.Result {
	return &align.Result{
		Shots: []uint32{1, 2, 3, 4},
		Lanes: []align.Lane{
			{ID: "digi", Rows: []int{0, 1, 2}, Valid: []bool{true, true, true, false}},
			{ID: "motion", Rows: []int{1, 0}, Valid: []bool{false, true, false, true}},
			{ID: "wave", Rows: []int{2, 0, 1, 0}, Valid: []bool{true, true, true, true}},
		},
	}
}

func digitizer() *table {
	return &table{cols: map[string]*Column{
		"signal": {Width: 2, Ints: []int64{10, 11, 20, 21, 30, 31}},
	}}
}

func motion() *table {
	return &table{cols: map[string]*Column{
		"x": {Ints: []int64{100, 200}},
		"y": {Floats: []float64{1.5, 2.5}},
		"z": {Floats: []float64{-1, -2}},
	}}
}

func waveform() *table {
	return &table{cols: map[string]*Column{
		"Command index": {Ints: []int64{0, 1, 2}},
	}}
}

var (
	signalLayout = Layout{{Name: "signal", Source: "signal", Kind: Int, Width: 2}}
	xyzLayout    = Layout{
		{Name: "xyz", Source: "x", Kind: Float, Width: 3, Index: 0},
		{Name: "xyz", Source: "y", Kind: Float, Width: 3, Index: 1},
		{Name: "xyz", Source: "z", Kind: Float, Width: 3, Index: 2},
	}
	commandLayout = Layout{{
		Name: "command", Source: "Command index", Kind: String,
		Labels: []string{"FREQ 1", "FREQ 2"},
	}}
)

func TestMaterialize(t *testing.T) {
	digi, mot, wave := digitizer(), motion(), waveform()
	sources := []Source{
		{Lane: "digi", Layout: signalLayout, Fetcher: digi},
		{Lane: "motion", Layout: xyzLayout, Fetcher: mot},
		{Lane: "wave", Layout: commandLayout, Fetcher: wave},
	}

	recs, err := Materialize(context.Background(), alignment(), sources, WithWorkers(3))
	require.NoError(t, err)

	assert.Equal(t, 4, recs.Len())
	assert.Equal(t, []uint32{1, 2, 3, 4}, recs.Shots())
	assert.Equal(t, []Descriptor{
		{Name: "shotnum", Kind: Int, Width: 1},
		{Name: "signal", Kind: Int, Width: 2},
		{Name: "xyz", Kind: Float, Width: 3},
		{Name: "command", Kind: String, Width: 1},
	}, recs.Fields())

	for i := range 4 {
		assert.Equal(t, []int64{int64(i + 1)}, recs.Ints("shotnum", i))
	}

	assert.Equal(t, []int64{10, 11}, recs.Ints("signal", 0))
	assert.Equal(t, []int64{30, 31}, recs.Ints("signal", 2))
	assert.Equal(t, []int64{MissingInt, MissingInt}, recs.Ints("signal", 3))
	assert.True(t, recs.Missing("signal", 3))

	assert.True(t, recs.Missing("xyz", 0))
	assert.Equal(t, []float64{200, 2.5, -2}, recs.Floats("xyz", 1))
	assert.Equal(t, []float64{100, 1.5, -1}, recs.Floats("xyz", 3))
	assert.True(t, math.IsNaN(recs.Matrix("xyz").At(2, 1)))

	assert.Equal(t, []string{""}, recs.Strings("command", 0))
	assert.Equal(t, []string{"FREQ 1"}, recs.Strings("command", 1))
	assert.Equal(t, []string{"FREQ 2"}, recs.Strings("command", 2))
	assert.Equal(t, []string{"FREQ 1"}, recs.Strings("command", 3))

	assert.Equal(t, []bool{false, true, false, true}, recs.Valid("motion"))
	assert.Equal(t, []string{"digi", "motion", "wave"}, recs.Lanes())

	// Only the rows a lane names are read.
	assert.EqualValues(t, 3, digi.fetched.Load())
	assert.EqualValues(t, 2, mot.fetched.Load())
}

func TestMaterializeBlankField(t *testing.T) {
	sources := []Source{{Lane: "digi", Layout: signalLayout, Fetcher: digitizer()}}

	recs, err := Materialize(context.Background(), alignment(), sources,
		WithBlankField("xyz", Float, 3),
		WithBlankField("signal", Float, 9))
	require.NoError(t, err)

	d, ok := recs.Field("xyz")
	require.True(t, ok)
	assert.Equal(t, Descriptor{Name: "xyz", Kind: Float, Width: 3}, d)
	for i := range recs.Len() {
		assert.True(t, recs.Missing("xyz", i))
	}

	// A source that produces a blank field wins.
	d, ok = recs.Field("signal")
	require.True(t, ok)
	assert.Equal(t, Int, d.Kind)
}

func TestMaterializeFieldCollision(t *testing.T) {
	res := alignment()

	_, err := Materialize(context.Background(), res, []Source{
		{Lane: "digi", Layout: signalLayout, Fetcher: digitizer()},
		{Lane: "wave", Layout: Layout{{Name: "signal", Source: "Command index", Kind: Int}}, Fetcher: waveform()},
	})
	assert.ErrorIs(t, err, ErrFieldCollision)

	_, err = Materialize(context.Background(), res, []Source{
		{Lane: "motion", Layout: Layout{
			{Name: "xyz", Source: "x", Kind: Float, Width: 3},
			{Name: "xyz", Source: "y", Kind: Int, Width: 3, Index: 1},
		}, Fetcher: motion()},
	})
	assert.ErrorIs(t, err, ErrFieldCollision)

	_, err = Materialize(context.Background(), res, []Source{
		{Lane: "digi", Layout: Layout{{Name: "shotnum", Source: "signal", Kind: Int}}, Fetcher: digitizer()},
	})
	assert.ErrorIs(t, err, ErrFieldCollision)
}

func TestMaterializeErrors(t *testing.T) {
	res := alignment()

	_, err := Materialize(context.Background(), res, []Source{
		{Lane: "nope", Layout: signalLayout, Fetcher: digitizer()},
	})
	assert.ErrorIs(t, err, ErrNoLane)

	short := FetcherFunc(func(context.Context, []int, []Field) (Block, error) {
		return Block{"signal": {Width: 2, Ints: []int64{1, 2}}}, nil
	})
	_, err = Materialize(context.Background(), res, []Source{
		{Lane: "digi", Layout: signalLayout, Fetcher: short},
	})
	assert.ErrorIs(t, err, ErrShortFetch)

	boom := errors.New("boom")
	failing := FetcherFunc(func(context.Context, []int, []Field) (Block, error) {
		return nil, boom
	})
	_, err = Materialize(context.Background(), res, []Source{
		{Lane: "digi", Layout: signalLayout, Fetcher: failing},
	})
	assert.ErrorIs(t, err, boom)
}

func TestMaterializeEmptyAxis(t *testing.T) {
	res := &align.Result{Lanes: []align.Lane{{ID: "digi"}}}

	recs, err := Materialize(context.Background(), res,
		[]Source{{Lane: "digi", Layout: signalLayout, Fetcher: digitizer()}},
		WithBlankField("xyz", Float, 3))
	require.NoError(t, err)
	assert.Zero(t, recs.Len())
	assert.Nil(t, recs.Matrix("xyz"))
}
