package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	v := New(filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, "user123", cfg.API.UserID)
	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, "json", cfg.Server.Backend)
	assert.Equal(t, "notes", cfg.UI.Page)
	assert.True(t, cfg.UI.AltScreen)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: http://notes.internal:8080
  timeout: 3s
server:
  backend: bbolt
ui:
  page: lectures
`), 0o644))
	t.Setenv("CAREVO_API_USER_ID", "student-7")

	v := New(path)
	require.NoError(t, Read(v))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "http://notes.internal:8080", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, "student-7", cfg.API.UserID)
	assert.Equal(t, "bbolt", cfg.Server.Backend)
	assert.Equal(t, "lectures", cfg.UI.Page)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"server.backend": "sqlite",
		"ui.page":        "videos",
		"api.base_url":   " ",
	}
	for key, value := range tests {
		key, value := key, value
		t.Run(key, func(t *testing.T) {
			v := New(filepath.Join(t.TempDir(), "absent.yaml"))
			v.Set(key, value)

			_, err := Load(v)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestReadExplicitMissingFileFails(t *testing.T) {
	v := New(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, Read(v))
}
