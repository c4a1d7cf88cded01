package filemap

import (
	"path"
	"slices"
	"strings"

	"github.com/armon/go-radix"
	"github.com/pkg/errors"
)

// RawGroup is the group holding every device of a LaPD file.
const RawGroup = "/Raw data + config"

// Tree is the read access the mapper needs to an HDF5 file.
// *hdfstore.File implements it.
type Tree interface {
	// List returns the groups and datasets directly under path.
	List(path string) (groups, datasets []string, err error)
	// Attr reads an attribute as strings; ok is false if it is absent.
	Attr(path, name string) (values []string, ok bool, err error)
}

// Item is one group or dataset of the file.
type Item struct {
	Path    string
	Dataset bool
}

// Map is the device layout of one LaPD file.
type Map struct {
	// Description is the experiment description, one entry per line.
	Description []string

	digitizers map[string]*Digitizer
	controls   map[string]*Control
	unknown    []string
	items      *radix.Tree
}

// Build maps the devices of a LaPD file.
func Build(t Tree) (*Map, error) {
	groups, _, err := t.List("/")
	if err != nil {
		return nil, errors.WithMessage(err, "listing file root")
	}
	if !slices.Contains(groups, path.Base(RawGroup)) {
		return nil, errors.Wrapf(ErrNotLaPD, "missing group %q", RawGroup)
	}

	m := &Map{
		digitizers: make(map[string]*Digitizer),
		controls:   make(map[string]*Control),
		items:      radix.New(),
	}

	if descr, ok, err := t.Attr(RawGroup, "Description"); err == nil && ok {
		for _, d := range descr {
			m.Description = append(m.Description, splitLines(d)...)
		}
	}

	devices, _, err := t.List(RawGroup)
	if err != nil {
		return nil, errors.WithMessagef(err, "listing %s", RawGroup)
	}
	for _, name := range devices {
		devPath := path.Join(RawGroup, name)
		switch name {
		case sis3301:
			d, err := buildSIS3301(t, devPath)
			if err != nil {
				return nil, err
			}
			m.digitizers[name] = d
		case waveformDevice:
			c, err := buildWaveform(t, devPath)
			if err != nil {
				return nil, err
			}
			m.controls[name] = c
		case compumotor6K:
			c, err := buildCompumotor(t, devPath)
			if err != nil {
				return nil, err
			}
			m.controls[name] = c
		default:
			m.unknown = append(m.unknown, name)
		}
	}

	if err := m.index(t, "/"); err != nil {
		return nil, err
	}
	return m, nil
}

// index records every item under p in the radix tree.
func (m *Map) index(t Tree, p string) error {
	groups, datasets, err := t.List(p)
	if err != nil {
		return errors.WithMessagef(err, "listing %s", p)
	}
	for _, ds := range datasets {
		m.items.Insert(path.Join(p, ds), true)
	}
	for _, g := range groups {
		child := path.Join(p, g)
		m.items.Insert(child, false)
		if err := m.index(t, child); err != nil {
			return err
		}
	}
	return nil
}

// Items returns every group and dataset whose path starts with prefix, in
// lexical order. An empty prefix lists the whole file.
func (m *Map) Items(prefix string) []Item {
	var out []Item
	m.items.WalkPrefix(prefix, func(p string, v interface{}) bool {
		out = append(out, Item{Path: p, Dataset: v.(bool)})
		return false
	})
	return out
}

// Digitizers returns the names of the mapped digitizers, sorted.
func (m *Map) Digitizers() []string {
	return sortedKeys(m.digitizers)
}

// Controls returns the names of the mapped control devices, sorted.
func (m *Map) Controls() []string {
	return sortedKeys(m.controls)
}

// Unknown returns the device groups the mapper does not recognise.
func (m *Map) Unknown() []string {
	return slices.Clone(m.unknown)
}

// Digitizer returns the named digitizer. An empty name selects the only
// digitizer of the file.
func (m *Map) Digitizer(name string) (*Digitizer, error) {
	if name == "" {
		switch len(m.digitizers) {
		case 0:
			return nil, errors.Wrap(ErrUnknownDevice, "file has no digitizer")
		case 1:
			for _, d := range m.digitizers {
				return d, nil
			}
		default:
			return nil, errors.Wrapf(ErrAmbiguousConfig, "digitizers %v", m.Digitizers())
		}
	}
	d, ok := m.digitizers[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownDevice, "digitizer %q", name)
	}
	return d, nil
}

// Control returns the named control device.
func (m *Map) Control(name string) (*Control, error) {
	c, ok := m.controls[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownDevice, "control %q", name)
	}
	return c, nil
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// attr reads a single-valued string attribute, "" when absent.
func attr(t Tree, p, name string) (string, error) {
	vs, ok, err := t.Attr(p, name)
	if err != nil {
		return "", errors.WithMessagef(err, "attribute %q of %s", name, p)
	}
	if !ok || len(vs) == 0 {
		return "", nil
	}
	return strings.Join(vs, "\n"), nil
}
