package filemap

import (
	"errors"
	"path"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-lapd/internal/materialize"
)

// tree is an in-memory HDF5 hierarchy.
type tree struct {
	groups   map[string][]string
	datasets map[string][]string
	attrs    map[string]map[string][]string
}

func newTree() *tree {
	return &tree{
		groups:   map[string][]string{"/": nil},
		datasets: map[string][]string{},
		attrs:    map[string]map[string][]string{},
	}
}

func (t *tree) group(p string, attrs map[string][]string) *tree {
	parent, name := path.Dir(p), path.Base(p)
	if _, ok := t.groups[parent]; !ok {
		t.group(parent, nil)
	}
	if !slices.Contains(t.groups[parent], name) {
		t.groups[parent] = append(t.groups[parent], name)
	}
	if _, ok := t.groups[p]; !ok {
		t.groups[p] = nil
	}
	if attrs != nil {
		t.attrs[p] = attrs
	}
	return t
}

func (t *tree) dataset(p string) *tree {
	parent := path.Dir(p)
	if _, ok := t.groups[parent]; !ok {
		t.group(parent, nil)
	}
	t.datasets[parent] = append(t.datasets[parent], path.Base(p))
	return t
}

func (t *tree) List(p string) ([]string, []string, error) {
	g, ok := t.groups[p]
	if !ok {
		return nil, nil, errors.New("no group " + p)
	}
	groups, datasets := slices.Clone(g), slices.Clone(t.datasets[p])
	slices.Sort(groups)
	slices.Sort(datasets)
	return groups, datasets, nil
}

func (t *tree) Attr(p, name string) ([]string, bool, error) {
	v, ok := t.attrs[p][name]
	return v, ok, nil
}

const (
	sis   = RawGroup + "/SIS 3301"
	wave  = RawGroup + "/Waveform"
	motor = RawGroup + "/6K Compumotor"
)

func lapdTree() *tree {
	t := newTree()
	t.group(RawGroup, map[string][]string{"Description": {"line one\nline two\n"}})

	t.dataset(sis + "/config01 [0:0]").
		dataset(sis + "/config01 [0:0] headers").
		dataset(sis + "/config01 [1:2]").
		dataset(sis + "/config01 [1:2] headers").
		dataset(sis + "/config02 [0:0]"). // no headers: ignored
		dataset(sis + "/Calibration")

	t.group(wave+"/wave A", map[string][]string{
		"IP address":            {"192.168.7.3"},
		"Generator type":        {"Agilent 33220A"},
		"Waveform command list": {"FREQ 100.0\n  FREQ 200.0 \n\nFREQ 300.0\n"},
	})
	t.group(wave+"/wave B", map[string][]string{
		"IP address":            {"192.168.7.4"},
		"Generator type":        {"Agilent 33220A"},
		"Waveform command list": {"FREQ 1.0"},
	})
	t.dataset(wave + "/Run time list")

	t.group(motor+"/probe drive 1", map[string][]string{
		"Probe name": {"langmuir"},
		"Receptacle": {"2"},
	})
	t.dataset(motor + "/XY[2]: langmuir")

	t.group(RawGroup+"/Magnetic field", nil)
	return t
}

func TestBuild(t *testing.T) {
	m, err := Build(lapdTree())
	require.NoError(t, err)

	assert.Equal(t, []string{"line one", "line two"}, m.Description)
	assert.Equal(t, []string{"SIS 3301"}, m.Digitizers())
	assert.Equal(t, []string{"6K Compumotor", "Waveform"}, m.Controls())
	assert.Equal(t, []string{"Magnetic field"}, m.Unknown())
}

func TestBuildNotLaPD(t *testing.T) {
	tr := newTree().dataset("/data")
	_, err := Build(tr)
	assert.ErrorIs(t, err, ErrNotLaPD)
}

func TestDigitizer(t *testing.T) {
	m, err := Build(lapdTree())
	require.NoError(t, err)

	d, err := m.Digitizer("")
	require.NoError(t, err)
	assert.Equal(t, "SIS 3301", d.Name)
	assert.Equal(t, []string{"config01"}, d.Configs())
	assert.Len(t, d.Channels("config01"), 2)

	adc, err := d.ADC("")
	require.NoError(t, err)
	assert.Equal(t, ADC{Name: "SIS 3301", Bits: 14, SampleRate: 100e6}, adc)
	_, err = d.ADC("SIS 3302")
	assert.ErrorIs(t, err, ErrUnknownDevice)

	ch, err := d.Channel("", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, Channel{
		Config:  "config01",
		Board:   1,
		Channel: 2,
		Dataset: sis + "/config01 [1:2]",
		Header:  sis + "/config01 [1:2] headers",
	}, ch)

	_, err = d.Channel("config01", 3, 3)
	assert.ErrorIs(t, err, ErrNoDataset)
	_, err = d.Channel("config02", 0, 0)
	assert.ErrorIs(t, err, ErrUnknownConfig)

	_, err = m.Digitizer("SIS crate")
	assert.ErrorIs(t, err, ErrUnknownDevice)
}

func TestDigitizerAmbiguousConfig(t *testing.T) {
	tr := lapdTree().
		dataset(sis + "/config03 [0:0]").
		dataset(sis + "/config03 [0:0] headers")
	m, err := Build(tr)
	require.NoError(t, err)

	d, err := m.Digitizer("SIS 3301")
	require.NoError(t, err)
	assert.Equal(t, []string{"config01", "config03"}, d.Configs())

	_, err = d.Channel("", 0, 0)
	assert.ErrorIs(t, err, ErrAmbiguousConfig)

	ch, err := d.Channel("config03", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "config03", ch.Config)
}

func TestHeaderGroup(t *testing.T) {
	tr := lapdTree()
	tr.dataset(sis + "/config04 [2:1]").group(sis+"/config04 [2:1] headers", nil)
	tr.group(wave+"/Run time list", nil)
	m, err := Build(tr)
	require.NoError(t, err)

	d, err := m.Digitizer("")
	require.NoError(t, err)
	ch, err := d.Channel("config04", 2, 1)
	require.NoError(t, err)
	assert.Equal(t, sis+"/config04 [2:1] headers", ch.Header)

	c, err := m.Control("Waveform")
	require.NoError(t, err)
	assert.Equal(t, []string{"wave A", "wave B"}, c.Configs(), "the run time list is not a configuration")
}

func TestWaveformControl(t *testing.T) {
	m, err := Build(lapdTree())
	require.NoError(t, err)

	c, err := m.Control("Waveform")
	require.NoError(t, err)
	assert.Equal(t, Waveform, c.Type)
	assert.Equal(t, []string{"wave A", "wave B"}, c.Configs())

	_, err = c.Config("")
	assert.ErrorIs(t, err, ErrAmbiguousConfig)
	_, err = c.Config("wave C")
	assert.ErrorIs(t, err, ErrUnknownConfig)

	cfg, err := c.Config("wave A")
	require.NoError(t, err)
	assert.Equal(t, wave+"/Run time list", cfg.Table)
	assert.Equal(t, "Shot number", cfg.ShotField)
	assert.Equal(t, "Configuration name", cfg.TagField)
	assert.Equal(t, "wave A", cfg.Tag)
	assert.Equal(t, "192.168.7.3", cfg.Attrs["IP address"])
	assert.Equal(t, []string{"FREQ 100.0", "FREQ 200.0", "", "FREQ 300.0"}, cfg.Commands)
	assert.Equal(t, materialize.Layout{{
		Name: "command", Source: "Command index", Kind: materialize.String, Width: 1,
		Labels: cfg.Commands,
	}}, cfg.Layout)
}

func TestMotionControl(t *testing.T) {
	m, err := Build(lapdTree())
	require.NoError(t, err)

	c, err := m.Control("6K Compumotor")
	require.NoError(t, err)
	assert.Equal(t, Motion, c.Type)

	cfg, err := c.Config("")
	require.NoError(t, err)
	assert.Equal(t, "probe drive 1", cfg.Name)
	assert.Equal(t, motor+"/XY[2]: langmuir", cfg.Table)
	assert.Empty(t, cfg.TagField)
	require.Len(t, cfg.Layout, 3)
	for i, f := range cfg.Layout {
		assert.Equal(t, "xyz", f.Name)
		assert.Equal(t, i, f.Index)
		assert.Equal(t, 3, f.Width)
	}

	_, err = m.Control("Magnetic field")
	assert.ErrorIs(t, err, ErrUnknownDevice)
}

func TestItems(t *testing.T) {
	m, err := Build(lapdTree())
	require.NoError(t, err)

	all := m.Items("")
	assert.Contains(t, all, Item{Path: RawGroup})
	assert.Contains(t, all, Item{Path: sis + "/Calibration", Dataset: true})
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Path, all[i].Path)
	}

	motion := m.Items(motor)
	assert.Equal(t, []Item{
		{Path: motor},
		{Path: motor + "/XY[2]: langmuir", Dataset: true},
		{Path: motor + "/probe drive 1"},
	}, motion)
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\r\nb\r\n"))
	assert.Equal(t, []string{"a", "", "b"}, splitLines(" a \n\n b"))
}
