package lapd

import (
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/robert-malhotra/go-lapd/internal/filemap"
	"github.com/robert-malhotra/go-lapd/internal/hdfstore"
)

const rawGroup = filemap.RawGroup

// backend is the storage a File reads through. *hdfstore.File implements
// it.
type backend interface {
	filemap.Tree
	Table(path string) (hdfstore.Table, error)
	SignalTable(path string) (hdfstore.Table, error)
	Close() error
}

// File is an open LaPD HDF5 file.
type File struct {
	path    string
	src     backend
	fmap    *filemap.Map
	log     zerolog.Logger
	workers int
	closed  atomic.Bool
}

// Open opens a LaPD file for reading and maps its devices.
func Open(path string, opts ...Option) (*File, error) {
	h, err := hdfstore.Open(path)
	if err != nil {
		return nil, err
	}
	f, err := newFile(path, h, opts...)
	if err != nil {
		h.Close()
		return nil, err
	}
	return f, nil
}

func newFile(path string, src backend, opts ...Option) (*File, error) {
	o := defaultFileOptions()
	for _, opt := range opts {
		opt(o)
	}

	m, err := filemap.Build(src)
	if err != nil {
		return nil, errors.WithMessagef(err, "mapping %s", path)
	}
	f := &File{path: path, src: src, fmap: m, log: o.log, workers: o.workers}
	f.log.Debug().
		Str("file", path).
		Strs("digitizers", m.Digitizers()).
		Strs("controls", m.Controls()).
		Msg("mapped file")
	for _, name := range m.Unknown() {
		f.log.Debug().Str("file", path).Str("device", name).Msg("unmapped device")
	}
	return f, nil
}

// Close closes the file. It is safe to call more than once.
func (f *File) Close() error {
	if f.closed.Swap(true) {
		return nil
	}
	return f.src.Close()
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Description returns the experiment description, one entry per line.
func (f *File) Description() []string {
	return append([]string(nil), f.fmap.Description...)
}

// ListDigitizers returns the names of the file's digitizers.
func (f *File) ListDigitizers() []string {
	return f.fmap.Digitizers()
}

// ListControls returns the names of the file's control devices.
func (f *File) ListControls() []string {
	return f.fmap.Controls()
}

// ListUnknown returns the device groups that are neither digitizers nor
// control devices.
func (f *File) ListUnknown() []string {
	return f.fmap.Unknown()
}

// ListFileItems returns the path of every group and dataset in the file.
func (f *File) ListFileItems() []string {
	items := f.fmap.Items("")
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Path
	}
	return out
}

// Digitizer is a mapped digitizer: its adcs and the channels of each
// active configuration.
type Digitizer = filemap.Digitizer

// ControlDevice is a mapped control device and its configurations.
type ControlDevice = filemap.Control

// Digitizer returns the named digitizer; an empty name selects the only
// one.
func (f *File) Digitizer(name string) (*Digitizer, error) {
	return f.fmap.Digitizer(name)
}

// Control returns the named control device.
func (f *File) Control(name string) (*ControlDevice, error) {
	return f.fmap.Control(name)
}

// Attr reads the attribute at an attribute path such as
// "/Raw data + config@Description".
func (f *File) Attr(attrPath string) ([]string, error) {
	if f.closed.Load() {
		return nil, ErrClosed
	}
	obj, name, err := ParseAttrPath(attrPath)
	if err != nil {
		return nil, err
	}
	vs, ok, err := f.src.Attr(obj, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(ErrNoAttribute, "%s", attrPath)
	}
	return vs, nil
}
