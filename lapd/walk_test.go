package lapd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalk(t *testing.T) {
	f := openRun(t)

	walk := func(prefix string) (groups, datasets []string) {
		err := Walk(f, prefix, func(it Item) error {
			if it.Dataset {
				datasets = append(datasets, it.Path)
			} else {
				groups = append(groups, it.Path)
			}
			return nil
		})
		require.NoError(t, err)
		return groups, datasets
	}

	groups, datasets := walk(sis + "/")
	assert.Equal(t, []string{sis}, groups)
	assert.Equal(t, []string{
		sis + "/config01 [0:0]",
		sis + "/config01 [0:0] headers",
		sis + "/config01 [0:1]",
		sis + "/config01 [0:1] headers",
		sis + "/config01 [1:2]",
		sis + "/config01 [1:2] headers",
		sis + "/config01 [1:3]",
		sis + "/config01 [1:3] headers",
	}, datasets)

	// Compound tables are leaves.
	groups, datasets = walk(motor + "/")
	assert.Equal(t, []string{motor, motor + "/probe drive 1"}, groups)
	assert.Equal(t, []string{motor + "/XY[2]: langmuir"}, datasets)
}

func TestWalkStop(t *testing.T) {
	f := openRun(t)

	n := 0
	err := Walk(f, "", func(Item) error {
		n++
		if n == 3 {
			return ErrStopWalk
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	boom := errors.New("boom")
	err = Walk(f, "", func(Item) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.True(t, IsStopWalk(ErrStopWalk))
	assert.False(t, IsStopWalk(boom))
}

func TestAttrPaths(t *testing.T) {
	tests := []struct {
		in, obj, attr string
	}{
		{"/@root_attr", "/", "root_attr"},
		{"/data@units", "/data", "units"},
		{"Raw data + config/@Description", "/Raw data + config", "Description"},
		{"/a@b@c", "/a@b", "c"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			obj, attr, err := ParseAttrPath(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.obj, obj)
			assert.Equal(t, tt.attr, attr)
		})
	}

	for _, bad := range []string{"", "/data", "/data@"} {
		_, _, err := ParseAttrPath(bad)
		assert.ErrorIs(t, err, ErrInvalidPath, bad)
	}

	assert.Equal(t, "/@x", JoinAttrPath("/", "x"))
	assert.Equal(t, "/a/b@x", JoinAttrPath("a/b/", "x"))
	assert.Equal(t, "/", CleanPath(""))
	assert.Equal(t, "/a/b", CleanPath("a//b/"))
	assert.Equal(t, "/Raw data + config/Waveform/wave A", DevicePath("Waveform", "wave A"))
}
