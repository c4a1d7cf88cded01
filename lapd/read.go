package lapd

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/robert-malhotra/go-lapd/internal/filemap"
	"github.com/robert-malhotra/go-lapd/internal/hdfstore"
	"github.com/robert-malhotra/go-lapd/internal/materialize"
	"github.com/robert-malhotra/go-lapd/internal/shotnum"
)

// Output field names.
const (
	ShotField   = materialize.ShotField
	SignalField = "signal"
	XYZField    = "xyz"
)

// MissingInt marks integer fields at positions without a stored row.
const MissingInt = materialize.MissingInt

// Records is a set of aligned records, one per output shot.
type Records = materialize.Records

// Field describes one output field of a record set.
type Field = materialize.Descriptor

// Field kinds.
const (
	IntField    = materialize.Int
	FloatField  = materialize.Float
	StringField = materialize.String
)

// Info describes where a read came from.
type Info struct {
	File    string
	Request string // id tagging the read's log entries

	Digitizer     string
	Config        string
	Dataset       string
	ADC           string
	Bits          int
	SampleRate    float64 // Hz
	Board         int
	Channel       int
	VoltageOffset float64 // NaN when the header carries no offset

	Controls     []Control
	Intersection bool

	// ProbeName and Port come from the motion control of the read, if any.
	ProbeName   string
	Port        string
	SignalUnits string // empty for raw digitizer counts
}

// Data is the result of a read.
type Data struct {
	*Records
	Info Info
}

// ReadData reads one digitizer channel, aligned with the controls given by
// WithControls.
//
// Rows are selected by WithIndex, else by WithShots, else every row is
// read. Without controls the selected rows are returned as resolved: a
// shot request read without intersection keeps requested shots the
// digitizer never recorded, with missing signals. With controls, every
// control is resolved against the digitizer's output shots and the streams
// are aligned on the intersection (the default) or the union of the shots
// they stored.
func (f *File) ReadData(ctx context.Context, board, channel int, opts ...ReadOption) (*Data, error) {
	if f.closed.Load() {
		return nil, ErrClosed
	}
	o := defaultReadOptions()
	for _, opt := range opts {
		opt(o)
	}
	id := uuid.NewString()
	log := f.log.With().Str("request", id).Logger()

	dig, err := f.fmap.Digitizer(o.digitizer)
	if err != nil {
		return nil, err
	}
	adc, err := dig.ADC(o.adc)
	if err != nil {
		return nil, err
	}
	ch, err := dig.Channel(o.config, board, channel)
	if err != nil {
		return nil, err
	}

	header, err := f.src.Table(ch.Header)
	if err != nil {
		return nil, err
	}
	shots, err := header.Uint32s(filemap.HeaderShotField)
	if err != nil {
		return nil, err
	}
	signal, err := f.src.SignalTable(ch.Dataset)
	if err != nil {
		return nil, err
	}
	if signal.Rows() < header.Rows() {
		return nil, errors.Wrapf(hdfstore.ErrShape, "%s has %d rows but its header has %d",
			ch.Dataset, signal.Rows(), header.Rows())
	}
	store, err := shotnum.NewStore(shots)
	if err != nil {
		return nil, err
	}
	kind := materialize.Int
	if hdfstore.Floating(signal) {
		kind = materialize.Float
	}
	primary := &stream{
		id:    dig.Name,
		table: signal,
		store: store,
		layout: materialize.Layout{{
			Name:   SignalField,
			Source: hdfstore.SignalField,
			Kind:   kind,
			Width:  hdfstore.Samples(signal),
		}},
	}

	res, err := o.resolve(store)
	if err != nil {
		return nil, err
	}
	controls, named, err := f.openControls(o.controls)
	if err != nil {
		return nil, err
	}
	aligned, err := alignStreams(primary, res, controls, o.intersection)
	if err != nil {
		return nil, err
	}

	sources := []materialize.Source{primary.source()}
	for _, c := range controls {
		sources = append(sources, c.source())
	}
	recs, err := materialize.Materialize(ctx, aligned, sources,
		materialize.WithWorkers(f.workers),
		materialize.WithBlankField(XYZField, materialize.Float, 3))
	if err != nil {
		return nil, err
	}

	lane, _ := aligned.Lane(primary.id)
	probe, port := f.probe(named)
	data := &Data{
		Records: recs,
		Info: Info{
			File:          f.path,
			Request:       id,
			Digitizer:     dig.Name,
			Config:        ch.Config,
			Dataset:       ch.Dataset,
			ADC:           adc.Name,
			Bits:          adc.Bits,
			SampleRate:    adc.SampleRate,
			Board:         board,
			Channel:       channel,
			VoltageOffset: voltageOffset(ctx, header, lane.Rows, log),
			Controls:      named,
			Intersection:  o.intersection,
			ProbeName:     probe,
			Port:          port,
		},
	}
	log.Debug().
		Str("dataset", ch.Dataset).
		Int("records", recs.Len()).
		Int("controls", len(controls)).
		Bool("intersection", o.intersection).
		Msg("read data")
	return data, nil
}

// ReadControls reads control devices only. The first control takes the
// place of the digitizer: WithIndex and WithShots select its rows, and the
// other controls are aligned with it.
func (f *File) ReadControls(ctx context.Context, controls []Control, opts ...ReadOption) (*Data, error) {
	if f.closed.Load() {
		return nil, ErrClosed
	}
	if len(controls) == 0 {
		return nil, errors.Wrap(ErrBadControl, "no controls given")
	}
	o := defaultReadOptions()
	for _, opt := range opts {
		opt(o)
	}
	id := uuid.NewString()
	log := f.log.With().Str("request", id).Logger()

	streams, named, err := f.openControls(controls)
	if err != nil {
		return nil, err
	}
	if !o.hasIndex && !o.hasShots {
		o.shots, o.hasShots = shotnum.All(), true
	}
	res, err := o.resolve(streams[0].store)
	if err != nil {
		return nil, err
	}
	aligned, err := alignStreams(streams[0], res, streams[1:], o.intersection)
	if err != nil {
		return nil, err
	}

	sources := make([]materialize.Source, len(streams))
	for i, s := range streams {
		sources[i] = s.source()
	}
	recs, err := materialize.Materialize(ctx, aligned, sources, materialize.WithWorkers(f.workers))
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("records", recs.Len()).
		Int("controls", len(streams)).
		Bool("intersection", o.intersection).
		Msg("read controls")
	probe, port := f.probe(named)
	return &Data{
		Records: recs,
		Info: Info{
			File:          f.path,
			Request:       id,
			VoltageOffset: math.NaN(),
			Controls:      named,
			Intersection:  o.intersection,
			ProbeName:     probe,
			Port:          port,
		},
	}, nil
}

// probe returns the probe name and receptacle of the first motion control
// in named.
func (f *File) probe(named []Control) (name, port string) {
	for _, n := range named {
		c, err := f.fmap.Control(n.Name)
		if err != nil || c.Type != filemap.Motion {
			continue
		}
		if cfg, err := c.Config(n.Config); err == nil {
			return cfg.Attrs["Probe name"], cfg.Attrs["Receptacle"]
		}
	}
	return "", ""
}

// voltageOffset reads the digitizer offset from the first header row the
// read used.
func voltageOffset(ctx context.Context, header hdfstore.Table, rows []int, log zerolog.Logger) float64 {
	if !header.HasField(filemap.HeaderOffsetField) {
		log.Warn().Str("table", header.Path()).Msg("header has no Offset field, voltage offset unknown")
		return math.NaN()
	}
	if len(rows) == 0 {
		return math.NaN()
	}
	field := materialize.Field{
		Name:   filemap.HeaderOffsetField,
		Source: filemap.HeaderOffsetField,
		Kind:   materialize.Float,
	}
	block, err := header.Fetch(ctx, rows[:1], []materialize.Field{field})
	if err != nil {
		log.Warn().Err(err).Str("table", header.Path()).Msg("reading voltage offset")
		return math.NaN()
	}
	col := block[filemap.HeaderOffsetField]
	switch {
	case col == nil:
		return math.NaN()
	case len(col.Floats) > 0:
		return col.Floats[0]
	case len(col.Ints) > 0:
		return float64(col.Ints[0])
	default:
		return math.NaN()
	}
}
