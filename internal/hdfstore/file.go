package hdfstore

import (
	"reflect"
	"slices"
	"sync"

	"github.com/pkg/errors"
	"github.com/robert-malhotra/go-hdf5/hdf5"
)

// guard serializes access to one HDF5 handle.
type guard struct {
	mu     sync.Mutex
	closed bool
}

// do runs fn with the handle locked.
func (g *guard) do(fn func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ErrClosed
	}
	return fn()
}

// dataset is the part of *hdf5.Dataset a table reads through.
type dataset interface {
	Path() string
	Shape() []uint64
	GoType() (reflect.Type, error)
	Read(dest interface{}) error
	ReadSlice(start, count []uint64, dest interface{}) error
	Attr(name string) *hdf5.Attribute
}

// File is an HDF5 file opened for reading.
type File struct {
	*guard
	h5   *hdf5.File
	path string
}

// Open opens an HDF5 file for reading.
func Open(path string) (*File, error) {
	h5, err := hdf5.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	return &File{guard: &guard{}, h5: h5, path: path}, nil
}

// Path returns the path the file was opened from.
func (f *File) Path() string {
	return f.path
}

// Close closes the file. Tables opened from it stop working.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	return f.h5.Close()
}

// openGroup resolves a group path. The caller holds the lock.
func (f *File) openGroup(path string) (*hdf5.Group, error) {
	path = hdf5.CleanPath(path)
	if path == "/" {
		return f.h5.Root(), nil
	}
	return f.h5.OpenGroup(path)
}

// List returns the names of the groups and of the datasets directly under
// the group at path, each sorted.
func (f *File) List(path string) (groups, datasets []string, err error) {
	err = f.do(func() error {
		g, err := f.openGroup(path)
		if err != nil {
			return errors.Wrapf(err, "opening group %s", path)
		}
		members, err := g.MembersInfo()
		if err != nil {
			return errors.Wrapf(err, "listing %s", path)
		}
		for _, m := range members {
			switch m.Type {
			case hdf5.ObjectTypeGroup:
				groups = append(groups, m.Name)
			case hdf5.ObjectTypeDataset:
				datasets = append(datasets, m.Name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	slices.Sort(groups)
	slices.Sort(datasets)
	return groups, datasets, nil
}

// Attr reads an attribute of the group or dataset at path as strings.
// Numeric attributes are formatted. ok is false when the attribute does
// not exist.
func (f *File) Attr(path, name string) (values []string, ok bool, err error) {
	err = f.do(func() error {
		var attr *hdf5.Attribute
		if g, gerr := f.openGroup(path); gerr == nil {
			attr = g.Attr(name)
		} else if ds, derr := f.h5.OpenDataset(path); derr == nil {
			attr = ds.Attr(name)
		} else {
			return errors.Wrapf(gerr, "opening %s", path)
		}
		if attr == nil {
			return nil
		}
		ok = true
		v, verr := attr.Value()
		if verr != nil {
			return errors.Wrapf(verr, "reading attribute %q of %s", name, path)
		}
		values = stringsOf(v)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return values, ok, nil
}

// Table opens the table at path: a compound dataset or a group of columns.
func (f *File) Table(path string) (Table, error) {
	var t Table
	err := f.do(func() error {
		if ds, err := f.h5.OpenDataset(path); err == nil {
			t, err = newCompoundTable(f.guard, ds)
			return err
		}
		g, err := f.openGroup(path)
		if err != nil {
			return errors.Wrapf(ErrNotTable, "%s", path)
		}
		t, err = newColumnTable(f.guard, g)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// SignalTable opens the numeric dataset at path as a signal table.
func (f *File) SignalTable(path string) (Table, error) {
	var t Table
	err := f.do(func() error {
		ds, err := f.h5.OpenDataset(path)
		if err != nil {
			return errors.Wrapf(err, "opening dataset %s", path)
		}
		t, err = newSignalTable(f.guard, ds)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Exists reports whether path names a group or dataset.
func (f *File) Exists(path string) bool {
	err := f.do(func() error {
		if _, err := f.openGroup(path); err == nil {
			return nil
		}
		_, err := f.h5.OpenDataset(path)
		return err
	})
	return err == nil
}
