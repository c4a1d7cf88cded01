package hdfstore

import (
	"context"
	"reflect"
	"slices"

	"github.com/pkg/errors"
	"github.com/robert-malhotra/go-hdf5/hdf5"

	"github.com/robert-malhotra/go-lapd/internal/materialize"
)

// Table is a row-addressable view of one HDF5 dataset or column group.
type Table interface {
	materialize.Fetcher

	// Path returns the HDF5 path of the table.
	Path() string
	// Rows returns the number of rows.
	Rows() int
	// Fields returns the field names, sorted.
	Fields() []string
	// HasField reports whether the table has the named field.
	HasField(name string) bool
	// Uint32s reads a whole field as shot numbers.
	Uint32s(field string) ([]uint32, error)
	// Strings reads a whole field as strings.
	Strings(field string) ([]string, error)
}

// compoundTable is a 1-D compound dataset.
type compoundTable struct {
	g      *guard
	ds     dataset
	rows   int
	fields []string
}

func newCompoundTable(g *guard, ds dataset) (*compoundTable, error) {
	t, err := ds.GoType()
	if err != nil {
		return nil, errors.Wrapf(err, "%s", ds.Path())
	}
	shape := ds.Shape()
	if t.Kind() != reflect.Struct || len(shape) != 1 {
		return nil, errors.Wrapf(ErrNotTable, "%s is not a 1-D compound dataset", ds.Path())
	}

	ct := &compoundTable{g: g, ds: ds, rows: int(shape[0])}
	if ct.rows == 0 {
		return ct, nil
	}
	var first []map[string]interface{}
	if err := ds.ReadSlice([]uint64{0}, []uint64{1}, &first); err != nil {
		return nil, errors.Wrapf(err, "reading first row of %s", ds.Path())
	}
	if len(first) == 1 {
		for name := range first[0] {
			ct.fields = append(ct.fields, name)
		}
	}
	slices.Sort(ct.fields)
	return ct, nil
}

func (t *compoundTable) Path() string     { return t.ds.Path() }
func (t *compoundTable) Rows() int        { return t.rows }
func (t *compoundTable) Fields() []string { return slices.Clone(t.fields) }

func (t *compoundTable) HasField(name string) bool {
	_, found := slices.BinarySearch(t.fields, name)
	return found
}

// readAll reads every record of the dataset.
func (t *compoundTable) readAll(field string) ([]map[string]interface{}, error) {
	if !t.HasField(field) {
		return nil, errors.Wrapf(ErrNoField, "%s: %q", t.Path(), field)
	}
	var recs []map[string]interface{}
	err := t.g.do(func() error {
		return t.ds.Read(&recs)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", t.Path())
	}
	return recs, nil
}

func (t *compoundTable) Uint32s(field string) ([]uint32, error) {
	recs, err := t.readAll(field)
	if err != nil {
		return nil, err
	}
	return shotColumn(t.Path(), field, len(recs), func(i int) (int64, bool) {
		return toInt64(recs[i][field])
	})
}

func (t *compoundTable) Strings(field string) ([]string, error) {
	recs, err := t.readAll(field)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = toString(r[field])
	}
	return out, nil
}

func (t *compoundTable) Fetch(ctx context.Context, rows []int, fields []materialize.Field) (materialize.Block, error) {
	for _, f := range fields {
		if !t.HasField(f.Source) {
			return nil, errors.Wrapf(ErrNoField, "%s: %q", t.Path(), f.Source)
		}
	}
	return fetchRuns(ctx, t.g, t.Path(), t.rows, rows, func(start, count int) (materialize.Block, error) {
		var recs []map[string]interface{}
		if err := t.ds.ReadSlice([]uint64{uint64(start)}, []uint64{uint64(count)}, &recs); err != nil {
			return nil, err
		}
		block := make(materialize.Block, len(fields))
		for _, f := range fields {
			if _, done := block[f.Source]; done {
				continue
			}
			col := &materialize.Column{Width: 1}
			for _, r := range recs {
				appendValue(col, r[f.Source])
			}
			block[f.Source] = col
		}
		return block, nil
	})
}

// appendValue appends one decoded compound member to col, choosing the
// column representation from the first value.
func appendValue(col *materialize.Column, v interface{}) {
	switch {
	case col.Strings != nil:
		col.Strings = append(col.Strings, toString(v))
	case col.Floats != nil:
		f, _ := toFloat64(v)
		col.Floats = append(col.Floats, f)
	case col.Ints != nil:
		n, ok := toInt64(v)
		if !ok {
			n = materialize.MissingInt
		}
		col.Ints = append(col.Ints, n)
	default:
		switch v.(type) {
		case string, []byte:
			col.Strings = []string{toString(v)}
		default:
			if isFloat(v) {
				f, _ := toFloat64(v)
				col.Floats = []float64{f}
				return
			}
			n, ok := toInt64(v)
			if !ok {
				n = materialize.MissingInt
			}
			col.Ints = []int64{n}
		}
	}
}

// column is one 1-D dataset of a column group.
type column struct {
	ds     dataset
	kind   valueKind
	labels []string
}

// columnTable is a group of equal-length 1-D datasets.
type columnTable struct {
	g      *guard
	path   string
	rows   int
	fields []string
	cols   map[string]*column
}

func newColumnTable(g *guard, grp *hdf5.Group) (*columnTable, error) {
	members, err := grp.MembersInfo()
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", grp.Path())
	}

	ct := &columnTable{g: g, path: grp.Path(), rows: -1, cols: make(map[string]*column)}
	for _, m := range members {
		if m.Type != hdf5.ObjectTypeDataset {
			continue
		}
		ds, err := grp.OpenDataset(m.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "opening column %q of %s", m.Name, grp.Path())
		}
		col, err := newColumn(ds)
		if err != nil {
			return nil, err
		}
		n := int(ds.Shape()[0])
		if ct.rows >= 0 && n != ct.rows {
			return nil, errors.Wrapf(ErrShape, "%s: column %q has %d rows, expected %d", grp.Path(), m.Name, n, ct.rows)
		}
		ct.rows = n
		ct.cols[m.Name] = col
		ct.fields = append(ct.fields, m.Name)
	}
	if len(ct.fields) == 0 {
		return nil, errors.Wrapf(ErrNotTable, "%s has no columns", grp.Path())
	}
	slices.Sort(ct.fields)
	return ct, nil
}

func newColumn(ds dataset) (*column, error) {
	if len(ds.Shape()) != 1 {
		return nil, errors.Wrapf(ErrShape, "%s is not 1-D", ds.Path())
	}
	t, err := ds.GoType()
	if err != nil {
		return nil, errors.Wrapf(err, "%s", ds.Path())
	}
	kind, err := kindOf(t)
	if err != nil {
		return nil, errors.WithMessage(err, ds.Path())
	}
	col := &column{ds: ds, kind: kind}
	if attr := ds.Attr(LabelsAttr); attr != nil && kind == intValues {
		labels, err := attr.ReadString()
		if err != nil {
			return nil, errors.Wrapf(err, "reading labels of %s", ds.Path())
		}
		col.labels = labels
	}
	return col, nil
}

func (t *columnTable) Path() string     { return t.path }
func (t *columnTable) Rows() int        { return t.rows }
func (t *columnTable) Fields() []string { return slices.Clone(t.fields) }

func (t *columnTable) HasField(name string) bool {
	_, ok := t.cols[name]
	return ok
}

func (t *columnTable) column(field string) (*column, error) {
	col, ok := t.cols[field]
	if !ok {
		return nil, errors.Wrapf(ErrNoField, "%s: %q", t.path, field)
	}
	return col, nil
}

func (t *columnTable) Uint32s(field string) ([]uint32, error) {
	col, err := t.column(field)
	if err != nil {
		return nil, err
	}
	var vals []int64
	err = t.g.do(func() error {
		return col.ds.Read(&vals)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", col.ds.Path())
	}
	return shotColumn(t.path, field, len(vals), func(i int) (int64, bool) {
		return vals[i], true
	})
}

func (t *columnTable) Strings(field string) ([]string, error) {
	col, err := t.column(field)
	if err != nil {
		return nil, err
	}
	var out []string
	err = t.g.do(func() error {
		block, err := col.read(0, t.rows, true)
		if err != nil {
			return err
		}
		out = stringsOfColumn(block)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", col.ds.Path())
	}
	return out, nil
}

func (t *columnTable) Fetch(ctx context.Context, rows []int, fields []materialize.Field) (materialize.Block, error) {
	cols := make(map[string]*column, len(fields))
	labeled := make(map[string]bool, len(fields))
	for _, f := range fields {
		col, err := t.column(f.Source)
		if err != nil {
			return nil, err
		}
		cols[f.Source] = col
		// Codes are only translated here when the layout does not
		// translate them itself.
		labeled[f.Source] = f.Labels == nil
	}
	return fetchRuns(ctx, t.g, t.path, t.rows, rows, func(start, count int) (materialize.Block, error) {
		block := make(materialize.Block, len(cols))
		for name, col := range cols {
			c, err := col.read(start, count, labeled[name])
			if err != nil {
				return nil, errors.WithMessagef(err, "column %q", name)
			}
			block[name] = c
		}
		return block, nil
	})
}

// read reads count values from start. Integer codes are translated through
// the labels when useLabels is set and the column has labels.
func (c *column) read(start, count int, useLabels bool) (*materialize.Column, error) {
	from, n := []uint64{uint64(start)}, []uint64{uint64(count)}
	out := &materialize.Column{Width: 1}
	switch c.kind {
	case floatValues:
		out.Floats = make([]float64, 0, count)
		if err := c.ds.ReadSlice(from, n, &out.Floats); err != nil {
			return nil, err
		}
	case stringValues:
		out.Strings = make([]string, 0, count)
		if err := c.ds.ReadSlice(from, n, &out.Strings); err != nil {
			return nil, err
		}
	default:
		out.Ints = make([]int64, 0, count)
		if err := c.ds.ReadSlice(from, n, &out.Ints); err != nil {
			return nil, err
		}
		if useLabels && c.labels != nil {
			out.Strings = make([]string, len(out.Ints))
			for i, code := range out.Ints {
				if code >= 0 && code < int64(len(c.labels)) {
					out.Strings[i] = c.labels[code]
				}
			}
			out.Ints = nil
		}
	}
	return out, nil
}

func stringsOfColumn(c *materialize.Column) []string {
	switch {
	case c.Strings != nil:
		return c.Strings
	case c.Floats != nil:
		out := make([]string, len(c.Floats))
		for i, v := range c.Floats {
			out[i] = toString(v)
		}
		return out
	default:
		out := make([]string, len(c.Ints))
		for i, v := range c.Ints {
			out[i] = toString(v)
		}
		return out
	}
}
