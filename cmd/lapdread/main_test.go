package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runFile is the LaPD run written by testdata/generate.py. SIS 3301
// channel 1:2 recorded shots 10 11 13 with signals 7 8 9 and offset 0.5.
var runFile, _ = filepath.Abs("../../testdata/lapd_run.h5")

// run executes the command line and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var out, errs bytes.Buffer
	root := newRoot()
	root.SetOut(&out)
	root.SetErr(&errs)
	root.SetArgs(append(args, "--quiet"))
	err := root.Execute()
	return out.String(), err
}

func TestInfo(t *testing.T) {
	out, err := run(t, "info", runFile)
	require.NoError(t, err)
	assert.Contains(t, out, "SIS 3301")
	assert.Contains(t, out, "config01")
	assert.Contains(t, out, "1:2")
}

func TestItems(t *testing.T) {
	path := runFile
	out, err := run(t, "items", path, "/Raw data + config/SIS 3301/config01 [1:2] headers")
	require.NoError(t, err)
	assert.Contains(t, out, "dataset")
	assert.Contains(t, out, "config01 [1:2] headers")
	assert.NotContains(t, out, "headers/")
	assert.NotContains(t, out, "config01 [1:2]\n")
}

func TestReadDataJSON(t *testing.T) {
	out, err := run(t, "read-data", runFile, "1", "2", "--shots", "10:13", "--format", "json")
	require.NoError(t, err)

	var doc struct {
		Info struct {
			Board         int      `json:"board"`
			Channel       int      `json:"channel"`
			VoltageOffset *float64 `json:"voltage_offset"`
			ProbeName     string   `json:"probe_name"`
		} `json:"info"`
		Records []map[string]interface{} `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 1, doc.Info.Board)
	assert.Equal(t, 2, doc.Info.Channel)
	require.NotNil(t, doc.Info.VoltageOffset)
	assert.Equal(t, 0.5, *doc.Info.VoltageOffset)
	assert.Empty(t, doc.Info.ProbeName)

	require.Len(t, doc.Records, 2)
	assert.EqualValues(t, 10, doc.Records[0]["shotnum"])
	assert.EqualValues(t, 7, doc.Records[0]["signal"])
	assert.Equal(t, []interface{}{nil, nil, nil}, doc.Records[1]["xyz"])
}

func TestReadControlsJSON(t *testing.T) {
	out, err := run(t, "read-controls", runFile, "6K Compumotor", "--format", "json")
	require.NoError(t, err)

	var doc struct {
		Info struct {
			ProbeName   string `json:"probe_name"`
			Port        string `json:"port"`
			SignalUnits string `json:"signal_units"`
		} `json:"info"`
		Records []map[string]interface{} `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "langmuir", doc.Info.ProbeName)
	assert.Equal(t, "2", doc.Info.Port)
	assert.Empty(t, doc.Info.SignalUnits)
	require.Len(t, doc.Records, 4)
	assert.EqualValues(t, 2, doc.Records[0]["shotnum"])
}

func TestReadDataTable(t *testing.T) {
	out, err := run(t, "read-data", runFile, "1", "2", "--shots", "12,13", "--union")
	require.NoError(t, err)
	assert.Contains(t, out, "shotnum")
	assert.Contains(t, out, "[- - -]")
	assert.Regexp(t, `(?m)^12\s+-\s+`, out)
	assert.Regexp(t, `(?m)^13\s+9\s+`, out)
}

func TestReadDataErrors(t *testing.T) {
	path := runFile

	_, err := run(t, "read-data", path, "x", "2")
	assert.Error(t, err)
	_, err = run(t, "read-data", path, "1", "2", "--shots", "1:2:0")
	assert.Error(t, err)
	_, err = run(t, "read-data", path, "1", "2", "--control", "Waveform")
	assert.Error(t, err)
	_, err = run(t, "read-data", path, "1", "2", "--format", "xml")
	assert.Error(t, err)
	_, err = run(t, "read-controls", path, "Waveform")
	assert.Error(t, err)
}

func TestCell(t *testing.T) {
	assert.Equal(t, "5", cell([]interface{}{int64(5)}))
	assert.Equal(t, "-", cell([]interface{}{nil}))
	assert.Equal(t, "[1 - 3]", cell([]interface{}{1, nil, 3}))
	assert.Equal(t, "[1 2 3 4 ...] (6)", cell([]interface{}{1, 2, 3, 4, 5, 6}))
}
