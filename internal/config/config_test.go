package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("GESTUREMOUSE_CAMERA", "2")
	t.Setenv("GESTUREMOUSE_WIDTH", "1280")
	t.Setenv("GESTUREMOUSE_HEIGHT", "720")
	t.Setenv("GESTUREMOUSE_MIRROR", "false")
	t.Setenv("GESTUREMOUSE_HEADLESS", "true")
	t.Setenv("GESTUREMOUSE_JOURNAL", "/tmp/journal.db")
	t.Setenv("GESTUREMOUSE_HTTP_ADDR", ":9090")
	t.Setenv("GESTUREMOUSE_LOG_LEVEL", "debug")
	t.Setenv("GESTUREMOUSE_LOG_DEV", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Camera)
	assert.Equal(t, 1280, cfg.Width)
	assert.Equal(t, 720, cfg.Height)
	assert.False(t, cfg.Mirror)
	assert.True(t, cfg.Headless)
	assert.False(t, cfg.Tray)
	assert.Equal(t, "/tmp/journal.db", cfg.Journal)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogDev)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric camera", "GESTUREMOUSE_CAMERA", "front"},
		{"negative camera", "GESTUREMOUSE_CAMERA", "-1"},
		{"zero width", "GESTUREMOUSE_WIDTH", "0"},
		{"width within margins", "GESTUREMOUSE_WIDTH", "200"},
		{"height within margins", "GESTUREMOUSE_HEIGHT", "150"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate_FrameSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantErr       bool
	}{
		{"default", 640, 480, false},
		{"smallest usable", 201, 201, false},
		{"width at twice the margin", 200, 480, true},
		{"height at twice the margin", 640, 200, true},
		{"negative", -640, 480, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Width, cfg.Height = tt.width, tt.height
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
