package main

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/carevo/internal/catalog"
	"github.com/csheth/carevo/internal/config"
)

func newTestApp(t *testing.T) (*app, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return &app{}, filepath.Join(dir, "carevo.log")
}

func TestSetupAppliesFlags(t *testing.T) {
	a, logFile := newTestApp(t)
	cmd := newRootCmd(a)
	require.NoError(t, cmd.ParseFlags([]string{
		"--api", "http://notes.test:9000",
		"--user", "s42",
		"--timeout", "3s",
		"--page", "Lectures",
		"--no-alt-screen",
		"--log-file", logFile,
	}))

	require.NoError(t, a.setup(cmd))
	assert.Equal(t, "http://notes.test:9000", a.cfg.API.BaseURL)
	assert.Equal(t, "s42", a.cfg.API.UserID)
	assert.Equal(t, 3*time.Second, a.cfg.API.Timeout)
	assert.Equal(t, "lectures", a.cfg.UI.Page)
	assert.False(t, a.cfg.UI.AltScreen)
	assert.Equal(t, logFile, a.cfg.Log.File)
	require.NotNil(t, a.logger)
}

func TestSetupUsesDefaultsWithoutFlags(t *testing.T) {
	a, logFile := newTestApp(t)
	cmd := newRootCmd(a)
	require.NoError(t, cmd.ParseFlags([]string{"--log-file", logFile}))

	require.NoError(t, a.setup(cmd))
	assert.Equal(t, "http://localhost:5000", a.cfg.API.BaseURL)
	assert.Equal(t, "notes", a.cfg.UI.Page)
	assert.True(t, a.cfg.UI.AltScreen)
	assert.Equal(t, "json", a.cfg.Server.Backend)
}

func TestServeRejectsUnknownBackend(t *testing.T) {
	a, logFile := newTestApp(t)
	serve := newServeCmd(a)
	root := newRootCmd(a)
	root.AddCommand(serve)
	require.NoError(t, serve.ParseFlags([]string{"--backend", "mongo", "--log-file", logFile}))

	err := a.setup(serve)
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestFindCandidatesOffline(t *testing.T) {
	a, logFile := newTestApp(t)
	cmd := newRootCmd(a)
	require.NoError(t, cmd.ParseFlags([]string{"--log-file", logFile}))
	require.NoError(t, a.setup(cmd))

	items, err := a.findCandidates(t.Context(), true)
	require.NoError(t, err)
	require.NotEmpty(t, items)

	seen := map[catalog.Key]bool{}
	for _, item := range items {
		if seen[item.Key()] {
			t.Fatalf("duplicate candidate %q", item.Title)
		}
		seen[item.Key()] = true
	}
}

func TestDedupeKeepsFirst(t *testing.T) {
	items := []catalog.Item{
		{ID: 3, Title: "DBMS", Likes: 10},
		{Title: "Compiler Design"},
		{ID: 3, Title: "DBMS", Likes: 1},
	}
	got := dedupe(items)
	require.Len(t, got, 2)
	assert.Equal(t, 10, got[0].Likes)
}

func TestFindLabel(t *testing.T) {
	item := catalog.Item{Title: "DBMS", Subtitle: "Normal forms", Author: "A. Rao"}
	assert.Equal(t, "DBMS · Normal forms · A. Rao", findLabel(item))
	assert.Equal(t, "DBMS", findLabel(catalog.Item{Title: "DBMS"}))
}
