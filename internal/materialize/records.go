package materialize

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

var nan = math.NaN()

// Records is a composite record set: one record per shot of the shared
// axis, with the fields of every source merged by position.
type Records struct {
	shots  []uint32
	fields []Descriptor
	byName map[string]int

	ints    map[string][]int64
	floats  map[string]*mat.Dense
	strings map[string][]string

	valid map[string][]bool
}

func newRecords(shots []uint32, fields []Descriptor) *Records {
	r := &Records{
		shots:   shots,
		fields:  fields,
		byName:  make(map[string]int, len(fields)),
		ints:    make(map[string][]int64),
		floats:  make(map[string]*mat.Dense),
		strings: make(map[string][]string),
		valid:   make(map[string][]bool),
	}
	n := len(shots)
	for i, f := range fields {
		r.byName[f.Name] = i
		size := n * f.Width
		switch f.Kind {
		case Int:
			col := make([]int64, size)
			for j := range col {
				col[j] = MissingInt
			}
			r.ints[f.Name] = col
		case Float:
			if n == 0 {
				continue
			}
			data := make([]float64, size)
			for j := range data {
				data[j] = nan
			}
			r.floats[f.Name] = mat.NewDense(n, f.Width, data)
		case String:
			r.strings[f.Name] = make([]string, size)
		}
	}
	shotCol := r.ints[ShotField]
	for i, sn := range shots {
		shotCol[i] = int64(sn)
	}
	return r
}

// Len returns the number of records.
func (r *Records) Len() int {
	return len(r.shots)
}

// Shots returns the shot number of every record.
func (r *Records) Shots() []uint32 {
	return slices.Clone(r.shots)
}

// Fields returns the record layout, shotnum first.
func (r *Records) Fields() []Descriptor {
	return slices.Clone(r.fields)
}

// Field returns the descriptor of the named field.
func (r *Records) Field(name string) (Descriptor, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return r.fields[i], true
}

// Ints returns the values of an integer field at record i.
func (r *Records) Ints(name string, i int) []int64 {
	col, ok := r.ints[name]
	if !ok {
		return nil
	}
	w := r.fields[r.byName[name]].Width
	return slices.Clone(col[i*w : (i+1)*w])
}

// Floats returns the values of a float field at record i.
func (r *Records) Floats(name string, i int) []float64 {
	m, ok := r.floats[name]
	if !ok {
		return nil
	}
	return mat.Row(nil, i, m)
}

// Matrix returns a float field as a records × width matrix. It returns nil
// for non-float fields and for an empty record set.
func (r *Records) Matrix(name string) *mat.Dense {
	return r.floats[name]
}

// Strings returns the values of a string field at record i.
func (r *Records) Strings(name string, i int) []string {
	col, ok := r.strings[name]
	if !ok {
		return nil
	}
	w := r.fields[r.byName[name]].Width
	return slices.Clone(col[i*w : (i+1)*w])
}

// Missing reports whether every slot of a field at record i holds the
// missing value.
func (r *Records) Missing(name string, i int) bool {
	idx, ok := r.byName[name]
	if !ok {
		return true
	}
	switch r.fields[idx].Kind {
	case Int:
		for _, v := range r.Ints(name, i) {
			if v != MissingInt {
				return false
			}
		}
	case Float:
		for _, v := range r.Floats(name, i) {
			if !math.IsNaN(v) {
				return false
			}
		}
	case String:
		for _, v := range r.Strings(name, i) {
			if v != "" {
				return false
			}
		}
	}
	return true
}

// Valid returns the validity mask of a lane along the records, or nil for
// an unknown lane.
func (r *Records) Valid(lane string) []bool {
	return slices.Clone(r.valid[lane])
}

// Lanes returns the lanes that contributed to the records, sorted.
func (r *Records) Lanes() []string {
	out := make([]string, 0, len(r.valid))
	for id := range r.valid {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// place writes row k of col into record i at the slots f targets.
func (r *Records) place(f Field, col *Column, k, i int) {
	w := r.fields[r.byName[f.Name]].Width
	cw := max(col.Width, 1)
	for j := 0; j < cw && f.Index+j < w; j++ {
		slot := f.Index + j
		switch f.Kind {
		case Int:
			r.ints[f.Name][i*w+slot] = col.intAt(k, j)
		case Float:
			r.floats[f.Name].Set(i, slot, col.floatAt(k, j))
		case String:
			r.strings[f.Name][i*w+slot] = col.stringAt(k, j, f.Labels)
		}
	}
}
