// Package store persists notes for the API server.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	BackendJSON  = "json"
	BackendBbolt = "bbolt"
)

// ErrNotFound is returned when a note id is unknown.
var ErrNotFound = errors.New("note not found")

// Note is the stored form of a note.
type Note struct {
	ID        int      `json:"id"`
	Title     string   `json:"title"`
	Subtitle  string   `json:"subtitle"`
	Author    string   `json:"author"`
	Image     string   `json:"image"`
	Tag       string   `json:"tag"`
	DriveLink string   `json:"drive_link"`
	Category  string   `json:"category"`
	Likes     int      `json:"likes"`
	Starred   bool     `json:"starred"`
	LikedBy   []string `json:"liked_by"`
}

// Repository stores notes. Implementations are safe for concurrent use.
type Repository interface {
	// List returns every note in id order.
	List(ctx context.Context) ([]Note, error)
	Get(ctx context.Context, id int) (Note, error)
	// Create assigns the next id (highest existing id plus one) and stores the note.
	Create(ctx context.Context, note Note) (Note, error)
	// Update replaces an existing note.
	Update(ctx context.Context, note Note) (Note, error)
	Close() error
}

// Open returns the repository for backend at path.
func Open(backend, path string) (Repository, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendJSON:
		repo, err := NewJSONRepository(path)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case BackendBbolt:
		repo, err := NewBboltRepository(path)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown repository backend %q", backend)
	}
}

func cloneNote(n Note) Note {
	n.LikedBy = append([]string{}, n.LikedBy...)
	return n
}

func normalizeNote(n Note) Note {
	n.Title = strings.TrimSpace(n.Title)
	n.DriveLink = strings.TrimSpace(n.DriveLink)
	if n.Category == "" {
		n.Category = "recent"
	}
	if n.LikedBy == nil {
		n.LikedBy = []string{}
	}
	if n.Likes < 0 {
		n.Likes = 0
	}
	return n
}
