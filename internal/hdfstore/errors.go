package hdfstore

import "github.com/pkg/errors"

var (
	// ErrNotTable is returned when a path holds neither a compound dataset
	// nor a group of columns.
	ErrNotTable = errors.New("not a table")

	// ErrNoField is returned when a table has no field of the given name.
	ErrNoField = errors.New("no such field")

	// ErrShape is returned for columns of unequal length or datasets of
	// unsupported rank.
	ErrShape = errors.New("unsupported table shape")

	// ErrRowRange is returned when a fetch names a row outside the table.
	ErrRowRange = errors.New("row out of range")

	// ErrClosed is returned by operations on a closed file.
	ErrClosed = errors.New("file is closed")
)

// LabelsAttr names the attribute that maps the integer codes of a tag
// column to tag names.
const LabelsAttr = "labels"

// SignalField is the field name of a signal table.
const SignalField = "signal"
