package materialize

import (
	"context"
	"fmt"
	"strconv"
)

// MissingInt fills integer fields at positions no stored row backs.
const MissingInt int64 = -99999

// ShotField names the output field holding the shared shot axis.
const ShotField = "shotnum"

// Kind is the element type of an output field.
type Kind uint8

const (
	Int Kind = iota
	Float
	String
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Field maps one storage field onto (part of) an output field.
//
// Width is the width of the output field; Index is the first slot the
// storage field fills. Several Fields of one source may target the same
// output field at different slots, such as x, y and z filling xyz.
// When Labels is set, integer storage values are codes into Labels.
type Field struct {
	Name   string
	Source string
	Kind   Kind
	Width  int
	Index  int
	Labels []string
}

func (f Field) width() int {
	return max(f.Width, 1)
}

// Layout is the field mapping of one source.
type Layout []Field

// Descriptor describes one field of a record set.
type Descriptor struct {
	Name  string
	Kind  Kind
	Width int
}

// Column holds fetched values of one storage field, row-major with Width
// values per row. Exactly one of the value slices is populated.
type Column struct {
	Width   int
	Ints    []int64
	Floats  []float64
	Strings []string
}

// Rows returns the number of rows in the column.
func (c *Column) Rows() int {
	w := max(c.Width, 1)
	switch {
	case c.Ints != nil:
		return len(c.Ints) / w
	case c.Floats != nil:
		return len(c.Floats) / w
	default:
		return len(c.Strings) / w
	}
}

// Block is a set of fetched columns keyed by storage field name.
type Block map[string]*Column

// Fetcher reads physical rows of one dataset. Rows come in the order they
// must be returned in and need not be ascending.
type Fetcher interface {
	Fetch(ctx context.Context, rows []int, fields []Field) (Block, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, rows []int, fields []Field) (Block, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, rows []int, fields []Field) (Block, error) {
	return f(ctx, rows, fields)
}

// Source is one stream taking part in materialization. Several sources may
// read from the same lane.
type Source struct {
	Lane    string
	Layout  Layout
	Fetcher Fetcher
}

// intAt returns value j of row r as an integer.
func (c *Column) intAt(r, j int) int64 {
	i := r*max(c.Width, 1) + j
	switch {
	case c.Ints != nil:
		return c.Ints[i]
	case c.Floats != nil:
		return int64(c.Floats[i])
	default:
		v, err := strconv.ParseInt(c.Strings[i], 10, 64)
		if err != nil {
			return MissingInt
		}
		return v
	}
}

// floatAt returns value j of row r as a float.
func (c *Column) floatAt(r, j int) float64 {
	i := r*max(c.Width, 1) + j
	switch {
	case c.Floats != nil:
		return c.Floats[i]
	case c.Ints != nil:
		return float64(c.Ints[i])
	default:
		v, err := strconv.ParseFloat(c.Strings[i], 64)
		if err != nil {
			return nan
		}
		return v
	}
}

// stringAt returns value j of row r as a string, translating integer codes
// through labels when given.
func (c *Column) stringAt(r, j int, labels []string) string {
	i := r*max(c.Width, 1) + j
	switch {
	case c.Strings != nil:
		return c.Strings[i]
	case c.Ints != nil:
		if labels != nil {
			code := c.Ints[i]
			if code < 0 || code >= int64(len(labels)) {
				return ""
			}
			return labels[code]
		}
		return strconv.FormatInt(c.Ints[i], 10)
	default:
		return strconv.FormatFloat(c.Floats[i], 'g', -1, 64)
	}
}
