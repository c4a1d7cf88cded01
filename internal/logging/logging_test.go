package logging

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "WARN", Format: FormatJSON, Writer: &buf})
	require.NoError(t, err)

	log.Info().Msg("dropped")
	log.Warn().Str("field", "Offset").Msg("missing header field")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "Offset", line["field"])
	assert.Equal(t, "missing header field", line["message"])
	assert.Contains(t, line, "time")
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Writer: &buf})
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	log.Info().Int("rows", 3).Msg("read")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "read")
	assert.Contains(t, buf.String(), "rows=3")
}

func TestNewErrors(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
	_, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}
