package lapd

import "github.com/robert-malhotra/go-lapd/internal/filemap"

// Item is one group or dataset of a file.
type Item = filemap.Item

// WalkFunc is called for each item during Walk. Return nil to continue,
// ErrStopWalk to stop without an error, or any other error to stop and
// return it.
type WalkFunc func(item Item) error

// Walk visits every item whose path starts with prefix, in lexical path
// order. An empty prefix visits the whole file.
//
// Example:
//
//	lapd.Walk(f, lapd.DevicePath("6K Compumotor"), func(it lapd.Item) error {
//	    if it.Dataset {
//	        fmt.Println(it.Path)
//	    }
//	    return nil
//	})
func Walk(f *File, prefix string, fn WalkFunc) error {
	if f.closed.Load() {
		return ErrClosed
	}
	if prefix != "" {
		prefix = CleanPath(prefix)
	}
	for _, it := range f.fmap.Items(prefix) {
		if err := fn(it); err != nil {
			if IsStopWalk(err) {
				return nil
			}
			return err
		}
	}
	return nil
}

// ErrStopWalk can be returned from a WalkFunc to stop walking without an
// error.
var ErrStopWalk = &walkStopError{}

type walkStopError struct{}

func (e *walkStopError) Error() string { return "walk stopped" }

// IsStopWalk reports whether err is ErrStopWalk.
func IsStopWalk(err error) bool {
	_, ok := err.(*walkStopError)
	return ok
}
