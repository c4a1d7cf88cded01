package lapd

import "github.com/robert-malhotra/go-lapd/internal/shotnum"

// Request selects rows by shot number or by index: a single value, a list,
// a range or everything.
type Request = shotnum.Request

// Span is a range request with optional bounds.
type Span = shotnum.Span

// Scalar requests a single value.
func Scalar(v int64) Request { return shotnum.Scalar(v) }

// List requests the given values.
func List(vs ...int64) Request { return shotnum.List(vs...) }

// Range requests start, start+step, ... up to but excluding stop.
func Range(start, stop, step int64) Request { return shotnum.Range(start, stop, step) }

// Slice requests a range with optional bounds.
func Slice(s Span) Request { return shotnum.Slice(s) }

// All requests every row.
func All() Request { return shotnum.All() }

// ParseRequest parses "5", "1,3,9", "10:40:3" or ":".
func ParseRequest(s string) (Request, error) { return shotnum.ParseRequest(s) }
