package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel("info") })

	t.Run("sets debug level", func(t *testing.T) {
		SetLevel("debug")
		require.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	})

	t.Run("sets warn level", func(t *testing.T) {
		SetLevel("warn")
		require.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	})

	t.Run("sets error level", func(t *testing.T) {
		SetLevel("error")
		require.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())
	})

	t.Run("defaults to info for unknown level", func(t *testing.T) {
		SetLevel("verbose")
		require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})
}

func TestSetOutput(t *testing.T) {
	SetLevel("info")
	var buf bytes.Buffer
	SetOutput(&buf)

	Log.Info().Str("habit", "read").Msg("logged")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "logged", record["message"])
	require.Equal(t, "read", record["habit"])
}

func TestSetupWithFile(t *testing.T) {
	SetLevel("info")
	file := filepath.Join(t.TempDir(), "forge.log")
	Setup(true, file)

	Log.Info().Msg("to file")
	require.FileExists(t, file)
}
