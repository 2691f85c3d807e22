package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Repository {
	t.Helper()
	dir := t.TempDir()

	jsonRepo, err := Open(BackendJSON, filepath.Join(dir, "notes.json"))
	require.NoError(t, err)
	boltRepo, err := Open(BackendBbolt, filepath.Join(dir, "notes.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = jsonRepo.Close()
		_ = boltRepo.Close()
	})
	return map[string]Repository{"json": jsonRepo, "bbolt": boltRepo}
}

func TestRepositoryCreateAssignsNextID(t *testing.T) {
	for name, repo := range backends(t) {
		repo := repo
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			first, err := repo.Create(ctx, Note{Title: " DBMS ", DriveLink: "http://drive/1"})
			require.NoError(t, err)
			second, err := repo.Create(ctx, Note{Title: "AI/ML", DriveLink: "http://drive/2", Category: "trending"})
			require.NoError(t, err)

			assert.Equal(t, 1, first.ID)
			assert.Equal(t, 2, second.ID)
			assert.Equal(t, "DBMS", first.Title)
			assert.Equal(t, "recent", first.Category)
			assert.Equal(t, []string{}, first.LikedBy)

			notes, err := repo.List(ctx)
			require.NoError(t, err)
			require.Len(t, notes, 2)
			assert.Equal(t, "trending", notes[1].Category)
		})
	}
}

func TestRepositoryGetAndUpdate(t *testing.T) {
	for name, repo := range backends(t) {
		repo := repo
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			created, err := repo.Create(ctx, Note{Title: "OS", DriveLink: "http://drive/os"})
			require.NoError(t, err)

			created.Likes = 1
			created.LikedBy = []string{"user123"}
			created.Starred = true
			_, err = repo.Update(ctx, created)
			require.NoError(t, err)

			got, err := repo.Get(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, 1, got.Likes)
			assert.True(t, got.Starred)
			assert.Equal(t, []string{"user123"}, got.LikedBy)

			_, err = repo.Get(ctx, 404)
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = repo.Update(ctx, Note{ID: 404, Title: "missing"})
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestJSONRepositoryReadsExistingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "notes.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
  {"id": 4, "title": "Four", "drive_link": "x"},
  {"id": 2, "title": "Two", "drive_link": "y", "likes": 3, "liked_by": ["a","b","c"]}
]`), 0o644))

	repo, err := NewJSONRepository(path)
	require.NoError(t, err)

	notes, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, 2, notes[0].ID)

	created, err := repo.Create(context.Background(), Note{Title: "Five", DriveLink: "z"})
	require.NoError(t, err)
	assert.Equal(t, 5, created.ID)
}

func TestJSONRepositoryMissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	repo, err := NewJSONRepository(filepath.Join(t.TempDir(), "nested", "notes.json"))
	require.NoError(t, err)

	notes, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	t.Parallel()

	_, err := Open("sqlite", filepath.Join(t.TempDir(), "x"))
	assert.Error(t, err)
}
