package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// JSONRepository keeps notes in a single indented JSON array, rewritten on every
// mutation.
type JSONRepository struct {
	path string
	mu   sync.Mutex
}

// NewJSONRepository uses the file at path. The file is created on first write.
func NewJSONRepository(path string) (*JSONRepository, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("notes file path is required")
	}
	return &JSONRepository{path: path}, nil
}

func (r *JSONRepository) List(ctx context.Context) ([]Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *JSONRepository) Get(ctx context.Context, id int) (Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	notes, err := r.load()
	if err != nil {
		return Note{}, err
	}
	for _, note := range notes {
		if note.ID == id {
			return note, nil
		}
	}
	return Note{}, ErrNotFound
}

func (r *JSONRepository) Create(ctx context.Context, note Note) (Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	notes, err := r.load()
	if err != nil {
		return Note{}, err
	}
	next := 1
	for _, existing := range notes {
		if existing.ID >= next {
			next = existing.ID + 1
		}
	}
	note = normalizeNote(note)
	note.ID = next
	notes = append(notes, note)
	if err := r.write(notes); err != nil {
		return Note{}, err
	}
	return cloneNote(note), nil
}

func (r *JSONRepository) Update(ctx context.Context, note Note) (Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	notes, err := r.load()
	if err != nil {
		return Note{}, err
	}
	for i := range notes {
		if notes[i].ID != note.ID {
			continue
		}
		notes[i] = normalizeNote(note)
		if err := r.write(notes); err != nil {
			return Note{}, err
		}
		return cloneNote(notes[i]), nil
	}
	return Note{}, ErrNotFound
}

func (r *JSONRepository) Close() error { return nil }

func (r *JSONRepository) load() ([]Note, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var notes []Note
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, err
	}
	for i := range notes {
		notes[i] = normalizeNote(notes[i])
	}
	sort.SliceStable(notes, func(i, j int) bool { return notes[i].ID < notes[j].ID })
	return notes, nil
}

func (r *JSONRepository) write(notes []Note) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0o644)
}
