package filemap

import "github.com/pkg/errors"

var (
	// ErrNotLaPD is returned for files without a "Raw data + config" group.
	ErrNotLaPD = errors.New("not a LaPD HDF5 file")

	// ErrUnknownDevice is returned for a digitizer, adc or control device
	// the file does not have.
	ErrUnknownDevice = errors.New("unknown device")

	// ErrUnknownConfig is returned for a configuration a device does not
	// have, or has no data for.
	ErrUnknownConfig = errors.New("unknown configuration")

	// ErrAmbiguousConfig is returned when a configuration (or device) must
	// be named because several are active.
	ErrAmbiguousConfig = errors.New("ambiguous configuration")

	// ErrNoDataset is returned when no dataset exists for a board and
	// channel.
	ErrNoDataset = errors.New("no dataset for board and channel")
)
