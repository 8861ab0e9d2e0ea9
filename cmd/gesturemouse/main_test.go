package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/gesturemouse/internal/config"
)

func TestStatusURL(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{"127.0.0.1:8765", "http://127.0.0.1:8765/api/status"},
		{":8765", "http://127.0.0.1:8765/api/status"},
		{"0.0.0.0:9000", "http://127.0.0.1:9000/api/status"},
		{"localhost:80", "http://localhost:80/api/status"},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, statusURL(tt.addr))
		})
	}
}

func TestLoadConfig_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("GESTUREMOUSE_CAMERA", "3")
	t.Setenv("GESTUREMOUSE_HTTP_ADDR", ":9000")
	t.Setenv("GESTUREMOUSE_LOG_LEVEL", "warn")

	rootCmd.SetArgs([]string{"version", "--log-level", "debug"})
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, 3, cfg.Camera)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Mirror)
}

func TestApplyRunFlags(t *testing.T) {
	require.NoError(t, runCmd.ParseFlags([]string{"--camera", "2", "--no-mirror", "--tray", "--http", "127.0.0.1:8765"}))

	c := config.Default()
	applyRunFlags(runCmd, c)

	assert.Equal(t, 2, c.Camera)
	assert.False(t, c.Mirror)
	assert.True(t, c.Tray)
	assert.False(t, c.Headless)
	assert.Equal(t, "127.0.0.1:8765", c.HTTPAddr)
	assert.Equal(t, 640, c.Width)
}

func TestOpenJournal_Missing(t *testing.T) {
	t.Setenv("GESTUREMOUSE_JOURNAL", t.TempDir()+"/absent.db")

	rootCmd.SetArgs([]string{"journal", "sessions"})
	err := rootCmd.Execute()
	assert.Error(t, err)
}
