package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketNotes = []byte("notes")

// BboltRepository keeps one JSON value per note in a bucket keyed by big-endian id.
type BboltRepository struct {
	db *bolt.DB
}

// NewBboltRepository opens or creates the database at path.
func NewBboltRepository(path string) (*BboltRepository, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("repository db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketNotes)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BboltRepository{db: db}, nil
}

func idKey(id int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(id))
	return key
}

func (r *BboltRepository) List(ctx context.Context) ([]Note, error) {
	out := make([]Note, 0)
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotes)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var note Note
			if err := json.Unmarshal(v, &note); err != nil {
				return err
			}
			out = append(out, normalizeNote(note))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BboltRepository) Get(ctx context.Context, id int) (Note, error) {
	var (
		out Note
		ok  bool
	)
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotes)
		if b == nil {
			return nil
		}
		raw := b.Get(idKey(id))
		if len(raw) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			return err
		}
		ok = true
		return nil
	})
	if err != nil {
		return Note{}, err
	}
	if !ok {
		return Note{}, ErrNotFound
	}
	return normalizeNote(out), nil
}

func (r *BboltRepository) Create(ctx context.Context, note Note) (Note, error) {
	note = normalizeNote(note)
	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotes)
		if b == nil {
			return errors.New("notes bucket missing")
		}
		note.ID = 1
		if last, _ := b.Cursor().Last(); last != nil {
			note.ID = int(binary.BigEndian.Uint64(last)) + 1
		}
		raw, err := json.Marshal(note)
		if err != nil {
			return err
		}
		return b.Put(idKey(note.ID), raw)
	})
	if err != nil {
		return Note{}, err
	}
	return cloneNote(note), nil
}

func (r *BboltRepository) Update(ctx context.Context, note Note) (Note, error) {
	note = normalizeNote(note)
	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotes)
		if b == nil {
			return errors.New("notes bucket missing")
		}
		key := idKey(note.ID)
		if b.Get(key) == nil {
			return ErrNotFound
		}
		raw, err := json.Marshal(note)
		if err != nil {
			return err
		}
		return b.Put(key, raw)
	})
	if err != nil {
		return Note{}, err
	}
	return cloneNote(note), nil
}

func (r *BboltRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
