package main

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-lapd/lapd"
)

// maxCells bounds how many values of a wide field a table cell shows.
const maxCells = 4

type fileInfo struct {
	File        string          `json:"file"`
	Description []string        `json:"description,omitempty"`
	Digitizers  []digitizerInfo `json:"digitizers"`
	Controls    []controlInfo   `json:"controls"`
	Unknown     []string        `json:"unknown,omitempty"`
}

type digitizerInfo struct {
	Name    string              `json:"name"`
	ADCs    []string            `json:"adcs"`
	Configs map[string][]string `json:"configs"`
}

type controlInfo struct {
	Name    string            `json:"name"`
	Type    string            `json:"type"`
	Configs map[string]string `json:"configs"` // config name to table path
}

func describe(f *lapd.File) *fileInfo {
	info := &fileInfo{File: f.Path(), Description: f.Description(), Unknown: f.ListUnknown()}
	for _, name := range f.ListDigitizers() {
		d, err := f.Digitizer(name)
		if err != nil {
			continue
		}
		di := digitizerInfo{Name: d.Name, Configs: make(map[string][]string)}
		for _, a := range d.ADCs {
			di.ADCs = append(di.ADCs, a.Name)
		}
		for _, cfg := range d.Configs() {
			for _, ch := range d.Channels(cfg) {
				di.Configs[cfg] = append(di.Configs[cfg], fmt.Sprintf("%d:%d", ch.Board, ch.Channel))
			}
		}
		info.Digitizers = append(info.Digitizers, di)
	}
	for _, name := range f.ListControls() {
		c, err := f.Control(name)
		if err != nil {
			continue
		}
		ci := controlInfo{Name: c.Name, Type: string(c.Type), Configs: make(map[string]string)}
		for _, cfgName := range c.Configs() {
			if cfg, err := c.Config(cfgName); err == nil {
				ci.Configs[cfgName] = cfg.Table
			}
		}
		info.Controls = append(info.Controls, ci)
	}
	return info
}

func (a *Action) show(v interface{}) error {
	w := a.cmd.OutOrStdout()
	switch a.cfg.Output.Format {
	case "json":
		if d, ok := v.(*lapd.Data); ok {
			v = dataJSON(d)
		}
		return writeJSON(w, v)
	case "table", "":
		return writeTable(w, v)
	default:
		return errors.Errorf("unknown output format %q", a.cfg.Output.Format)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(v)
}

func writeTable(w io.Writer, v interface{}) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	switch vv := v.(type) {
	case *lapd.Data:
		writeRecords(tw, vv)
	case *fileInfo:
		writeFileInfo(tw, vv)
	case []lapd.Item:
		for _, it := range vv {
			kind := "group"
			if it.Dataset {
				kind = "dataset"
			}
			fmt.Fprintf(tw, "%s\t%s\n", kind, it.Path)
		}
	default:
		return errors.Errorf("cannot show %T as a table", v)
	}
	return tw.Flush()
}

func writeFileInfo(w io.Writer, info *fileInfo) {
	fmt.Fprintf(w, "File:\t%s\n", info.File)
	for _, line := range info.Description {
		fmt.Fprintf(w, "\t%s\n", line)
	}
	for _, d := range info.Digitizers {
		fmt.Fprintf(w, "Digitizer:\t%s\tadcs %s\n", d.Name, strings.Join(d.ADCs, ", "))
		for _, cfg := range sortedKeys(d.Configs) {
			fmt.Fprintf(w, "\t%s\t%s\n", cfg, strings.Join(d.Configs[cfg], " "))
		}
	}
	for _, c := range info.Controls {
		fmt.Fprintf(w, "Control:\t%s\t%s\n", c.Name, c.Type)
		for _, cfg := range sortedKeys(c.Configs) {
			fmt.Fprintf(w, "\t%s\t%s\n", cfg, c.Configs[cfg])
		}
	}
	for _, u := range info.Unknown {
		fmt.Fprintf(w, "Unknown:\t%s\n", u)
	}
}

func writeRecords(w io.Writer, d *lapd.Data) {
	fields := d.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	fmt.Fprintln(w, strings.Join(names, "\t"))

	cells := make([]string, len(fields))
	for i := range d.Len() {
		for j, f := range fields {
			cells[j] = cell(values(d.Records, f, i))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
}

// cell formats the values of one field of one record.
func cell(vs []interface{}) string {
	strs := make([]string, 0, min(len(vs), maxCells))
	for i, v := range vs {
		if i == maxCells {
			strs = append(strs, "...")
			break
		}
		if v == nil {
			strs = append(strs, "-")
			continue
		}
		strs = append(strs, fmt.Sprint(v))
	}
	if len(vs) == 1 {
		return strs[0]
	}
	s := "[" + strings.Join(strs, " ") + "]"
	if len(vs) > maxCells {
		s += " (" + strconv.Itoa(len(vs)) + ")"
	}
	return s
}

// values returns the values of field f at record i with missing values as
// nil.
func values(r *lapd.Records, f lapd.Field, i int) []interface{} {
	var out []interface{}
	switch f.Kind {
	case lapd.IntField:
		for _, v := range r.Ints(f.Name, i) {
			if v == lapd.MissingInt && f.Name != lapd.ShotField {
				out = append(out, nil)
			} else {
				out = append(out, v)
			}
		}
	case lapd.FloatField:
		for _, v := range r.Floats(f.Name, i) {
			if math.IsNaN(v) {
				out = append(out, nil)
			} else {
				out = append(out, v)
			}
		}
	case lapd.StringField:
		for _, v := range r.Strings(f.Name, i) {
			if v == "" {
				out = append(out, nil)
			} else {
				out = append(out, v)
			}
		}
	}
	return out
}

type infoJSON struct {
	File          string         `json:"file"`
	Request       string         `json:"request"`
	Digitizer     string         `json:"digitizer,omitempty"`
	Config        string         `json:"config,omitempty"`
	Dataset       string         `json:"dataset,omitempty"`
	ADC           string         `json:"adc,omitempty"`
	Bits          int            `json:"bits,omitempty"`
	SampleRate    float64        `json:"sample_rate,omitempty"`
	Board         int            `json:"board"`
	Channel       int            `json:"channel"`
	VoltageOffset *float64       `json:"voltage_offset"`
	Controls      []lapd.Control `json:"controls"`
	Intersection  bool           `json:"intersection"`
	ProbeName     string         `json:"probe_name"`
	Port          string         `json:"port"`
	SignalUnits   string         `json:"signal_units"`
}

type fieldJSON struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Width int    `json:"width"`
}

type dataDoc struct {
	Info    infoJSON                 `json:"info"`
	Fields  []fieldJSON              `json:"fields"`
	Records []map[string]interface{} `json:"records"`
}

// dataJSON converts a read into a document JSON can encode: missing
// values become null.
func dataJSON(d *lapd.Data) *dataDoc {
	in := d.Info
	doc := &dataDoc{
		Info: infoJSON{
			File:         in.File,
			Request:      in.Request,
			Digitizer:    in.Digitizer,
			Config:       in.Config,
			Dataset:      in.Dataset,
			ADC:          in.ADC,
			Bits:         in.Bits,
			SampleRate:   in.SampleRate,
			Board:        in.Board,
			Channel:      in.Channel,
			Controls:     in.Controls,
			Intersection: in.Intersection,
			ProbeName:    in.ProbeName,
			Port:         in.Port,
			SignalUnits:  in.SignalUnits,
		},
		Records: make([]map[string]interface{}, d.Len()),
	}
	if !math.IsNaN(in.VoltageOffset) {
		off := in.VoltageOffset
		doc.Info.VoltageOffset = &off
	}

	fields := d.Fields()
	for _, f := range fields {
		doc.Fields = append(doc.Fields, fieldJSON{Name: f.Name, Kind: f.Kind.String(), Width: f.Width})
	}
	for i := range doc.Records {
		rec := make(map[string]interface{}, len(fields))
		for _, f := range fields {
			vs := values(d.Records, f, i)
			if f.Width == 1 && len(vs) == 1 {
				rec[f.Name] = vs[0]
			} else {
				rec[f.Name] = vs
			}
		}
		doc.Records[i] = rec
	}
	return doc
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
