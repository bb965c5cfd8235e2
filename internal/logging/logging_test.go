package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectLevel(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want zerolog.Level
	}{
		{name: "default", opts: Options{}, want: zerolog.InfoLevel},
		{name: "configured level", opts: Options{Level: "warn"}, want: zerolog.WarnLevel},
		{name: "verbose wins over level", opts: Options{Level: "error", Verbose: true}, want: zerolog.DebugLevel},
		{name: "quiet wins over level", opts: Options{Level: "debug", Quiet: true}, want: zerolog.WarnLevel},
		{name: "verbose wins over quiet", opts: Options{Verbose: true, Quiet: true}, want: zerolog.DebugLevel},
		{name: "invalid level falls back to info", opts: Options{Level: "loud"}, want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, selectLevel(tt.opts))
		})
	}
}

func TestInitWithWriterEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := InitWithWriter(Options{Level: "debug"}, &buf)

	logger.Info().Str("component", "test").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "test", entry["component"])
	assert.Contains(t, entry, "time")
}

func TestInitWithWriterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := InitWithWriter(Options{Quiet: true}, &buf)

	logger.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNewLogFileWriterCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "logs", "out.log")

	w, err := newLogFileWriter(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	_, err = w.Write([]byte("entry\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.FileExists(t, path)
}
