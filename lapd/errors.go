package lapd

import (
	"errors"

	"github.com/robert-malhotra/go-lapd/internal/align"
	"github.com/robert-malhotra/go-lapd/internal/filemap"
	"github.com/robert-malhotra/go-lapd/internal/hdfstore"
	"github.com/robert-malhotra/go-lapd/internal/materialize"
	"github.com/robert-malhotra/go-lapd/internal/shotnum"
)

// Request errors
var (
	ErrInvalidRequest   = shotnum.ErrInvalidRequest
	ErrOutOfRange       = shotnum.ErrOutOfRange
	ErrMalformedRequest = shotnum.ErrMalformedRequest
)

// Alignment and record errors
var (
	ErrEmptyAlignment  = align.ErrEmptyAlignment
	ErrDuplicateStream = align.ErrDuplicateStream
	ErrFieldCollision  = materialize.ErrFieldCollision
)

// File errors
var (
	ErrNotLaPD         = filemap.ErrNotLaPD
	ErrUnknownDevice   = filemap.ErrUnknownDevice
	ErrUnknownConfig   = filemap.ErrUnknownConfig
	ErrAmbiguousConfig = filemap.ErrAmbiguousConfig
	ErrNoDataset       = filemap.ErrNoDataset
	ErrNoField         = hdfstore.ErrNoField
	ErrClosed          = hdfstore.ErrClosed
	ErrInvalidPath     = errors.New("invalid path")
	ErrNoAttribute     = errors.New("attribute not found")
	ErrBadControl      = errors.New("malformed control")
)
