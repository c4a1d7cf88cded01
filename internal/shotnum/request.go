package shotnum

import (
	"fmt"
	"iter"
	"math"
	"slices"
	"strconv"
	"strings"
)

// MaxExpand bounds the number of values a range request may expand to when
// the full requested axis has to be materialized.
const MaxExpand = 1 << 24

// Kind identifies the shape of a Request.
type Kind uint8

const (
	kindInvalid Kind = iota
	KindScalar
	KindList
	KindRange
	KindAll
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindRange:
		return "range"
	case KindAll:
		return "all"
	default:
		return "invalid"
	}
}

// Span is a stepped, stop-exclusive range. Unset bounds default to the
// extent of the store the request is resolved against.
type Span struct {
	Start, Stop, Step int64
	HasStart, HasStop bool
}

// Request is a shot-number or row-index request. The zero value is not a
// valid request.
type Request struct {
	kind   Kind
	values []int64
	span   Span
}

// Scalar requests a single value.
func Scalar(v int64) Request {
	return Request{kind: KindScalar, values: []int64{v}}
}

// List requests the given values. Order and duplicates do not matter.
func List(vs ...int64) Request {
	return Request{kind: KindList, values: slices.Clone(vs)}
}

// Range requests start, start+step, ... up to but excluding stop.
func Range(start, stop, step int64) Request {
	return Slice(Span{Start: start, Stop: stop, Step: step, HasStart: true, HasStop: true})
}

// Slice requests a span whose bounds may be left open.
func Slice(s Span) Request {
	if s.Step == 0 && !s.HasStart && !s.HasStop {
		s.Step = 1
	}
	return Request{kind: KindRange, span: s}
}

// All requests every stored shot, or every row.
func All() Request {
	return Request{kind: KindAll}
}

// Kind returns the request shape.
func (r Request) Kind() Kind { return r.kind }

// Values returns a copy of the scalar or list values.
func (r Request) Values() []int64 { return slices.Clone(r.values) }

// Span returns the range bounds of a KindRange request.
func (r Request) Span() Span { return r.span }

func (r Request) String() string {
	switch r.kind {
	case KindScalar:
		return strconv.FormatInt(r.values[0], 10)
	case KindList:
		parts := make([]string, len(r.values))
		for i, v := range r.values {
			parts[i] = strconv.FormatInt(v, 10)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case KindRange:
		var b strings.Builder
		if r.span.HasStart {
			b.WriteString(strconv.FormatInt(r.span.Start, 10))
		}
		b.WriteByte(':')
		if r.span.HasStop {
			b.WriteString(strconv.FormatInt(r.span.Stop, 10))
		}
		if r.span.Step != 1 {
			b.WriteByte(':')
			b.WriteString(strconv.FormatInt(r.span.Step, 10))
		}
		return b.String()
	case KindAll:
		return ":"
	default:
		return "<invalid>"
	}
}

// ParseRequest parses the textual request grammar used on the command line:
//
//   - "" or ":"      all
//   - "7"            scalar
//   - "1,5,9"        list
//   - "10:40", "10:40:3", ":20", "5:" ranges with optional bounds and step
//
// Any token that is not an integer fails with ErrMalformedRequest.
func ParseRequest(s string) (Request, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == ":" || s == "::" {
		return All(), nil
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) > 3 {
			return Request{}, fmt.Errorf("%w: %q has too many ':' separators", ErrMalformedRequest, s)
		}
		span := Span{Step: 1}
		var err error
		if p := strings.TrimSpace(parts[0]); p != "" {
			if span.Start, err = parseInt(p); err != nil {
				return Request{}, err
			}
			span.HasStart = true
		}
		if p := strings.TrimSpace(parts[1]); p != "" {
			if span.Stop, err = parseInt(p); err != nil {
				return Request{}, err
			}
			span.HasStop = true
		}
		if len(parts) == 3 {
			if p := strings.TrimSpace(parts[2]); p != "" {
				if span.Step, err = parseInt(p); err != nil {
					return Request{}, err
				}
			}
		}
		if span.Step == 0 {
			return Request{}, fmt.Errorf("%w: range step cannot be zero", ErrMalformedRequest)
		}
		return Slice(span), nil
	}

	if strings.Contains(s, ",") {
		var vs []int64
		for _, p := range strings.Split(s, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			v, err := parseInt(p)
			if err != nil {
				return Request{}, err
			}
			vs = append(vs, v)
		}
		return List(vs...), nil
	}

	v, err := parseInt(s)
	if err != nil {
		return Request{}, err
	}
	return Scalar(v), nil
}

func parseInt(tok string) (int64, error) {
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrMalformedRequest, tok)
	}
	return v, nil
}

// validate rejects shapes that cannot be resolved at all.
func (r Request) validate() error {
	switch r.kind {
	case KindScalar, KindList, KindAll:
		return nil
	case KindRange:
		if r.span.Step == 0 {
			return fmt.Errorf("%w: range step cannot be zero", ErrMalformedRequest)
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported request shape", ErrMalformedRequest)
	}
}

// shotBounds fills open range bounds from the store extent.
func (s Span) shotBounds(st *Store) (start, stop, step int64) {
	step = s.Step
	lo, hi := int64(1), int64(0)
	if st.RowCount() > 0 {
		lo, hi = int64(st.MinShot()), int64(st.MaxShot())
	}
	if step > 0 {
		start, stop = lo, hi+1
	} else {
		start, stop = hi, lo-1
	}
	if s.HasStart {
		start = s.Start
	}
	if s.HasStop {
		stop = s.Stop
	}
	return start, stop, step
}

// values lazily yields start, start+step, ... excluding stop.
func values(start, stop, step int64) iter.Seq[int64] {
	n := count(start, stop, step)
	return func(yield func(int64) bool) {
		v := start
		for range n {
			if !yield(v) {
				return
			}
			v += step
		}
	}
}

// count returns how many values a span yields.
func count(start, stop, step int64) int64 {
	var d uint64
	switch {
	case step > 0 && stop > start:
		d = uint64(stop) - uint64(start)
	case step < 0 && stop < start:
		d = uint64(start) - uint64(stop)
	default:
		return 0
	}
	return int64(min(ceilDiv(d, magnitude(step)), math.MaxInt64))
}

func magnitude(step int64) uint64 {
	if step < 0 {
		return -uint64(step)
	}
	return uint64(step)
}

func ceilDiv(d, m uint64) uint64 {
	q := d / m
	if d%m != 0 {
		q++
	}
	return q
}

// clipShots narrows a span to the storable shot numbers 1..MaxUint32
// without changing which of them it names. Offsets are taken on uint64, so
// bounds anywhere in int64 are safe. ok is false when the span names none.
func clipShots(start, stop, step int64) (int64, int64, bool) {
	m := magnitude(step)
	if step > 0 {
		if start < 1 {
			k := ceilDiv(uint64(1)-uint64(start), m)
			start = int64(uint64(start) + k*m)
		}
		stop = min(stop, math.MaxUint32+1)
		return start, stop, start < stop
	}
	if start > math.MaxUint32 {
		k := ceilDiv(uint64(start)-math.MaxUint32, m)
		start = int64(uint64(start) - k*m)
	}
	stop = max(stop, 0)
	return start, stop, start > stop
}

// normalizeShots returns the ascending, duplicate-free positive shot
// numbers named by r.
func normalizeShots(r Request, st *Store) ([]uint32, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	var shots []uint32
	switch r.kind {
	case KindAll:
		shots = st.Shots()

	case KindScalar, KindList:
		shots = make([]uint32, 0, len(r.values))
		for _, v := range r.values {
			if v <= 0 {
				continue
			}
			if v > math.MaxUint32 {
				return nil, fmt.Errorf("%w: shot number %d exceeds the storable range", ErrMalformedRequest, v)
			}
			shots = append(shots, uint32(v))
		}
		slices.Sort(shots)
		shots = slices.Compact(shots)

	case KindRange:
		start, stop, step := r.span.shotBounds(st)
		start, stop, ok := clipShots(start, stop, step)
		if !ok {
			break
		}
		if n := count(start, stop, step); n > MaxExpand {
			return nil, fmt.Errorf("%w: range %s expands to %d shots", ErrMalformedRequest, r, n)
		}
		for v := range values(start, stop, step) {
			shots = append(shots, uint32(v))
		}
		slices.Sort(shots)
	}

	if len(shots) == 0 {
		return nil, fmt.Errorf("%w: %s names no positive shot numbers", ErrInvalidRequest, r)
	}
	return shots, nil
}

// normalizeIndices returns the ascending, duplicate-free view positions
// named by r against a store of n rows. Scalars and lists must be in range;
// ranges follow slice semantics and clamp.
func normalizeIndices(r Request, n int) ([]int, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	var pos []int
	switch r.kind {
	case KindAll:
		pos = make([]int, n)
		for i := range n {
			pos[i] = i
		}

	case KindScalar, KindList:
		pos = make([]int, 0, len(r.values))
		for _, v := range r.values {
			i := v
			if i < 0 {
				i += int64(n)
			}
			if i < 0 || i >= int64(n) {
				return nil, fmt.Errorf("%w: index %d with %d rows", ErrOutOfRange, v, n)
			}
			pos = append(pos, int(i))
		}
		slices.Sort(pos)
		pos = slices.Compact(pos)

	case KindRange:
		start, stop, step := r.span.clamp(int64(n))
		for v := range values(start, stop, step) {
			pos = append(pos, int(v))
		}
		slices.Sort(pos)
	}

	if len(pos) == 0 {
		return nil, fmt.Errorf("%w: %s selects no rows of %d", ErrOutOfRange, r, n)
	}
	return pos, nil
}

// clamp adjusts span bounds to a sequence of length n the way slicing does.
func (s Span) clamp(n int64) (start, stop, step int64) {
	step = s.Step
	adjust := func(v int64, set bool, forward, backward int64) int64 {
		if !set {
			if step > 0 {
				return forward
			}
			return backward
		}
		if v < 0 {
			v += n
			if v < 0 {
				if step > 0 {
					return 0
				}
				return -1
			}
			return v
		}
		if v >= n {
			if step > 0 {
				return n
			}
			return n - 1
		}
		return v
	}
	start = adjust(s.Start, s.HasStart, 0, n-1)
	stop = adjust(s.Stop, s.HasStop, n, -1)
	return start, stop, step
}
