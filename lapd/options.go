package lapd

import (
	"github.com/rs/zerolog"

	"github.com/robert-malhotra/go-lapd/internal/shotnum"
)

// Option configures an open file.
type Option func(*fileOptions)

type fileOptions struct {
	log     zerolog.Logger
	workers int
}

func defaultFileOptions() *fileOptions {
	return &fileOptions{
		log:     zerolog.Nop(),
		workers: 1,
	}
}

// WithLogger sets the logger reads report to. Files log nothing by default.
func WithLogger(log zerolog.Logger) Option {
	return func(o *fileOptions) {
		o.log = log
	}
}

// WithWorkers sets how many datasets a read fetches concurrently.
func WithWorkers(n int) Option {
	return func(o *fileOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}

// ReadOption configures ReadData and ReadControls.
type ReadOption func(*readOptions)

type readOptions struct {
	index, shots       shotnum.Request
	hasIndex, hasShots bool

	digitizer string
	adc       string
	config    string
	controls  []Control

	intersection bool
}

func defaultReadOptions() *readOptions {
	return &readOptions{intersection: true}
}

// WithIndex selects rows by index. It takes precedence over WithShots.
func WithIndex(req Request) ReadOption {
	return func(o *readOptions) {
		o.index, o.hasIndex = req, true
	}
}

// WithShots selects rows by shot number.
func WithShots(req Request) ReadOption {
	return func(o *readOptions) {
		o.shots, o.hasShots = req, true
	}
}

// WithDigitizer names the digitizer to read. By default the file's only
// digitizer is used.
func WithDigitizer(name string) ReadOption {
	return func(o *readOptions) {
		o.digitizer = name
	}
}

// WithADC names the analog-digital converter of the digitizer.
func WithADC(name string) ReadOption {
	return func(o *readOptions) {
		o.adc = name
	}
}

// WithConfig names the digitizer configuration. By default the only active
// configuration is used.
func WithConfig(name string) ReadOption {
	return func(o *readOptions) {
		o.config = name
	}
}

// WithControls adds control devices to a digitizer read.
func WithControls(controls ...Control) ReadOption {
	return func(o *readOptions) {
		o.controls = append(o.controls, controls...)
	}
}

// WithIntersection selects whether the output keeps only shots every
// stream stored (the default) or every shot some stream stored.
func WithIntersection(on bool) ReadOption {
	return func(o *readOptions) {
		o.intersection = on
	}
}
