package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesComponentField(t *testing.T) {
	t.Setenv("APP_ENV", "")
	var buf bytes.Buffer
	require.NoError(t, Configure(Options{Level: "debug", Format: "json", Writer: &buf}))
	t.Cleanup(func() { _ = Configure(Options{}) })

	l := New("registry")
	l.Info().Str("ride_id", "r-1").Msg("ride added")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "registry", entry["component"])
	assert.Equal(t, "r-1", entry["ride_id"])
	assert.Equal(t, "ride added", entry["message"])
}

func TestConfigure_Level(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Configure(Options{Level: "warn", Writer: &buf}))
	t.Cleanup(func() { _ = Configure(Options{}) })

	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	l := New("test")
	l.Info().Msg("hidden")
	assert.Empty(t, buf.String())
}

func TestConfigure_BadLevel(t *testing.T) {
	assert.Error(t, Configure(Options{Level: "loud"}))
}
