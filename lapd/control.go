package lapd

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-lapd/internal/align"
	"github.com/robert-malhotra/go-lapd/internal/filemap"
	"github.com/robert-malhotra/go-lapd/internal/hdfstore"
	"github.com/robert-malhotra/go-lapd/internal/materialize"
	"github.com/robert-malhotra/go-lapd/internal/shotnum"
)

// Control names a control device and one of its configurations. An empty
// Config selects the device's only configuration.
type Control struct {
	Name   string
	Config string
}

func (c Control) String() string {
	if c.Config == "" {
		return c.Name
	}
	return c.Name + ":" + c.Config
}

// ParseControl parses "name" or "name:config".
func ParseControl(s string) (Control, error) {
	name, config, _ := strings.Cut(s, ":")
	c := Control{Name: strings.TrimSpace(name), Config: strings.TrimSpace(config)}
	if c.Name == "" {
		return Control{}, errors.Wrapf(ErrBadControl, "%q", s)
	}
	return c, nil
}

// stream is an opened shot-indexed table taking part in a read.
type stream struct {
	id     string
	table  hdfstore.Table
	store  *shotnum.Store
	layout materialize.Layout
}

func (s *stream) source() materialize.Source {
	return materialize.Source{Lane: s.id, Layout: s.layout, Fetcher: s.table}
}

// openControl opens the table of a control configuration and indexes its
// shot numbers, filtered to the configuration's rows when the table is
// shared.
func (f *File) openControl(c Control) (*stream, *filemap.ControlConfig, error) {
	dev, err := f.fmap.Control(c.Name)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := dev.Config(c.Config)
	if err != nil {
		return nil, nil, err
	}

	table, err := f.src.Table(cfg.Table)
	if err != nil {
		return nil, nil, errors.WithMessagef(err, "control %s", c)
	}
	shots, err := table.Uint32s(cfg.ShotField)
	if err != nil {
		return nil, nil, errors.WithMessagef(err, "control %s", c)
	}
	var opts []shotnum.StoreOption
	if cfg.TagField != "" {
		tags, err := table.Strings(cfg.TagField)
		if err != nil {
			return nil, nil, errors.WithMessagef(err, "control %s", c)
		}
		opts = append(opts, shotnum.WithTags(tags, cfg.Tag))
	}
	store, err := shotnum.NewStore(shots, opts...)
	if err != nil {
		return nil, nil, errors.WithMessagef(err, "control %s", c)
	}

	return &stream{
		id:     dev.Name + ":" + cfg.Name,
		table:  table,
		store:  store,
		layout: cfg.Layout,
	}, cfg, nil
}

// openControls opens every control and returns them with the canonical
// form of each control argument.
func (f *File) openControls(cs []Control) ([]*stream, []Control, error) {
	streams := make([]*stream, 0, len(cs))
	named := make([]Control, 0, len(cs))
	for _, c := range cs {
		s, cfg, err := f.openControl(c)
		if err != nil {
			return nil, nil, err
		}
		streams = append(streams, s)
		named = append(named, Control{Name: c.Name, Config: cfg.Name})
	}
	return streams, named, nil
}

// alignStreams lines the secondaries up with the primary resolution. Each
// secondary is resolved against the primary's output shots; a read with
// no secondaries keeps the primary resolution as it is.
func alignStreams(primary *stream, res *shotnum.Resolution, secondaries []*stream, intersect bool) (*align.Result, error) {
	if len(secondaries) == 0 {
		return align.FromResolution(primary.id, res), nil
	}

	want := make([]int64, len(res.Shots))
	for i, sn := range res.Shots {
		want[i] = int64(sn)
	}
	req := shotnum.List(want...)

	others := make([]align.Stream, len(secondaries))
	for i, s := range secondaries {
		sres, err := shotnum.ResolveShots(s.store, req, false)
		if err != nil {
			return nil, errors.WithMessagef(err, "resolving %s", s.id)
		}
		others[i] = align.Stream{ID: s.id, Store: s.store, Resolution: sres}
	}

	policy := align.Union
	if intersect {
		policy = align.Intersect
	}
	return align.Align(align.Stream{ID: primary.id, Store: primary.store, Resolution: res}, others, policy)
}

// resolve applies the row selection of o to the primary store.
func (o *readOptions) resolve(store *shotnum.Store) (*shotnum.Resolution, error) {
	switch {
	case o.hasIndex:
		return shotnum.ResolveIndices(store, o.index)
	case o.hasShots:
		return shotnum.ResolveShots(store, o.shots, o.intersection)
	default:
		return shotnum.ResolveIndices(store, shotnum.All())
	}
}
