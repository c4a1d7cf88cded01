package filemap

import (
	"fmt"
	"path"
	"strings"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-lapd/internal/materialize"
)

const (
	waveformDevice = "Waveform"
	compumotor6K   = "6K Compumotor"

	runTimeList = "Run time list"
)

// ControlType classifies control devices by what they record.
type ControlType string

const (
	Waveform ControlType = "waveform"
	Motion   ControlType = "motion"
)

// ControlConfig is one configuration of a control device.
type ControlConfig struct {
	Name string
	// Table is the path of the dataset recording this configuration.
	Table     string
	ShotField string
	// TagField names the column telling configurations apart when they
	// share a table; empty when the table holds this configuration only.
	TagField string
	Tag      string
	// Attrs holds the configuration group attributes.
	Attrs map[string]string
	// Commands is the command list of a waveform configuration.
	Commands []string
	// Layout maps the table fields onto output fields.
	Layout materialize.Layout
}

// Control is a mapped control device.
type Control struct {
	Name    string
	Path    string
	Type    ControlType
	configs map[string]*ControlConfig
}

// Configs returns the configuration names, sorted.
func (c *Control) Configs() []string {
	return sortedKeys(c.configs)
}

// Config returns the named configuration. An empty name selects the only
// configuration of the device.
func (c *Control) Config(name string) (*ControlConfig, error) {
	if name == "" {
		switch len(c.configs) {
		case 0:
			return nil, errors.Wrapf(ErrUnknownConfig, "%s has no configuration", c.Name)
		case 1:
			for _, cfg := range c.configs {
				return cfg, nil
			}
		default:
			return nil, errors.Wrapf(ErrAmbiguousConfig, "%s has configurations %v", c.Name, c.Configs())
		}
	}
	cfg, ok := c.configs[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownConfig, "%s configuration %q", c.Name, name)
	}
	return cfg, nil
}

// configAttrs reads the listed attributes of a configuration group.
func configAttrs(t Tree, p string, names ...string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	for _, n := range names {
		v, err := attr(t, p, n)
		if err != nil {
			return nil, err
		}
		out[n] = v
	}
	return out, nil
}

func buildWaveform(t Tree, devPath string) (*Control, error) {
	groups, _, err := t.List(devPath)
	if err != nil {
		return nil, errors.WithMessagef(err, "listing %s", devPath)
	}

	c := &Control{Name: waveformDevice, Path: devPath, Type: Waveform, configs: make(map[string]*ControlConfig)}
	for _, name := range groups {
		if name == runTimeList {
			continue
		}
		cfgPath := path.Join(devPath, name)
		attrs, err := configAttrs(t, cfgPath, "IP address", "Generator type", "Waveform command list")
		if err != nil {
			return nil, err
		}

		commands := splitLines(attrs["Waveform command list"])

		c.configs[name] = &ControlConfig{
			Name:      name,
			Table:     path.Join(devPath, runTimeList),
			ShotField: "Shot number",
			TagField:  "Configuration name",
			Tag:       name,
			Attrs:     attrs,
			Commands:  commands,
			Layout: materialize.Layout{{
				Name:   "command",
				Source: "Command index",
				Kind:   materialize.String,
				Width:  1,
				Labels: commands,
			}},
		}
	}
	return c, nil
}

func buildCompumotor(t Tree, devPath string) (*Control, error) {
	groups, _, err := t.List(devPath)
	if err != nil {
		return nil, errors.WithMessagef(err, "listing %s", devPath)
	}

	c := &Control{Name: compumotor6K, Path: devPath, Type: Motion, configs: make(map[string]*ControlConfig)}
	for _, name := range groups {
		cfgPath := path.Join(devPath, name)
		attrs, err := configAttrs(t, cfgPath, "Probe name", "Receptacle")
		if err != nil {
			return nil, err
		}
		if attrs["Probe name"] == "" || attrs["Receptacle"] == "" {
			continue
		}

		xyz := func(axis string, i int) materialize.Field {
			return materialize.Field{Name: "xyz", Source: axis, Kind: materialize.Float, Width: 3, Index: i}
		}
		c.configs[name] = &ControlConfig{
			Name:      name,
			Table:     path.Join(devPath, fmt.Sprintf("XY[%s]: %s", attrs["Receptacle"], attrs["Probe name"])),
			ShotField: "Shot number",
			Attrs:     attrs,
			Layout:    materialize.Layout{xyz("x", 0), xyz("y", 1), xyz("z", 2)},
		}
	}
	return c, nil
}

// splitLines splits text into trimmed lines. Command indices point into
// the result, so blank lines inside the text are kept.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}
