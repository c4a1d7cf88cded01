package filemap

import (
	"path"
	"regexp"
	"slices"
	"strconv"

	"github.com/pkg/errors"
)

const sis3301 = "SIS 3301"

// Digitizer header fields.
const (
	HeaderShotField   = "Shot"
	HeaderOffsetField = "Offset"
)

// channelName matches digitizer dataset names such as "config01 [0:3]".
var channelName = regexp.MustCompile(`^(.+) \[(\d+):(\d+)\]$`)

// ADC describes one analog-digital converter of a digitizer.
type ADC struct {
	Name       string
	Bits       int
	SampleRate float64 // Hz
}

// Channel is one recorded board/channel of a digitizer configuration.
type Channel struct {
	Config  string
	Board   int
	Channel int
	// Dataset is the path of the signal dataset, rows × samples.
	Dataset string
	// Header is the path of the header table carrying the shot numbers.
	Header string
}

// Digitizer is a mapped digitizer device.
type Digitizer struct {
	Name string
	Path string
	ADCs []ADC

	// configs maps each active configuration to its channels.
	configs map[string][]Channel
}

func buildSIS3301(t Tree, devPath string) (*Digitizer, error) {
	groups, datasets, err := t.List(devPath)
	if err != nil {
		return nil, errors.WithMessagef(err, "listing %s", devPath)
	}

	d := &Digitizer{
		Name:    sis3301,
		Path:    devPath,
		ADCs:    []ADC{{Name: sis3301, Bits: 14, SampleRate: 100e6}},
		configs: make(map[string][]Channel),
	}
	for _, name := range datasets {
		match := channelName.FindStringSubmatch(name)
		if match == nil {
			continue
		}
		// Headers are a compound dataset or a group of columns.
		header := name + " headers"
		if !slices.Contains(datasets, header) && !slices.Contains(groups, header) {
			continue
		}
		board, _ := strconv.Atoi(match[2])
		ch, _ := strconv.Atoi(match[3])
		d.configs[match[1]] = append(d.configs[match[1]], Channel{
			Config:  match[1],
			Board:   board,
			Channel: ch,
			Dataset: path.Join(devPath, name),
			Header:  path.Join(devPath, header),
		})
	}
	return d, nil
}

// Configs returns the active configurations, sorted. A configuration is
// active when it recorded at least one channel.
func (d *Digitizer) Configs() []string {
	return sortedKeys(d.configs)
}

// Channels returns the channels recorded under config.
func (d *Digitizer) Channels(config string) []Channel {
	return slices.Clone(d.configs[config])
}

// ADC returns the named converter; an empty name selects the first one.
func (d *Digitizer) ADC(name string) (ADC, error) {
	if name == "" && len(d.ADCs) > 0 {
		return d.ADCs[0], nil
	}
	for _, a := range d.ADCs {
		if a.Name == name {
			return a, nil
		}
	}
	return ADC{}, errors.Wrapf(ErrUnknownDevice, "%s has no adc %q", d.Name, name)
}

// Channel finds the dataset recorded for board and channel under config.
// An empty config selects the only active configuration.
func (d *Digitizer) Channel(config string, board, channel int) (Channel, error) {
	if config == "" {
		active := d.Configs()
		switch len(active) {
		case 0:
			return Channel{}, errors.Wrapf(ErrUnknownConfig, "%s has no active configuration", d.Name)
		case 1:
			config = active[0]
		default:
			return Channel{}, errors.Wrapf(ErrAmbiguousConfig, "%s has active configurations %v", d.Name, active)
		}
	}
	chans, ok := d.configs[config]
	if !ok {
		return Channel{}, errors.Wrapf(ErrUnknownConfig, "%s configuration %q", d.Name, config)
	}
	for _, c := range chans {
		if c.Board == board && c.Channel == channel {
			return c, nil
		}
	}
	return Channel{}, errors.Wrapf(ErrNoDataset, "%s %q board %d channel %d", d.Name, config, board, channel)
}
