package catalog

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Notes    map[Category][]Item          `yaml:"notes"`
	Lectures map[Category][]lectureRecord `yaml:"lectures"`
}

// lectureRecord mirrors the lecture card vocabulary used in the seed file.
type lectureRecord struct {
	Title      string `yaml:"title"`
	Subject    string `yaml:"subject"`
	Instructor string `yaml:"instructor"`
	Duration   string `yaml:"duration"`
	Views      string `yaml:"views"`
	Likes      string `yaml:"likes"`
	Thumbnail  string `yaml:"thumbnail"`
	Date       string `yaml:"date"`
	Live       bool   `yaml:"live"`
	Time       string `yaml:"time"`
}

func (r lectureRecord) item(category Category) Item {
	return Item{
		Title:    r.Title,
		Subtitle: r.Subject,
		Author:   r.Instructor,
		Image:    r.Thumbnail,
		Category: category,
		Likes:    ParseCount(r.Likes),
		Duration: r.Duration,
		Views:    r.Views,
		Date:     r.Date,
		Live:     r.Live,
		Schedule: r.Time,
	}
}

// NoteOrder is the concatenation order for the notes page.
var NoteOrder = []Category{Trending, Recent, Recommended}

// LectureOrder is the concatenation order for the lectures page.
var LectureOrder = []Category{Live, Upcoming, Recent, Popular}

// ParseCount keeps only the digits of a display label, so "1,024" becomes 1024.
// Labels without digits count as zero.
func ParseCount(label string) int {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, label)
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

func loadSeed(data []byte) (seedFile, error) {
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return seedFile{}, fmt.Errorf("decode seed data: %w", err)
	}
	return seed, nil
}

// SeedNotes returns a notes store filled with the bundled sample notes.
func SeedNotes() (*Store, error) {
	seed, err := loadSeed(seedYAML)
	if err != nil {
		return nil, err
	}
	store := NewStore(NoteOrder...)
	for _, category := range NoteOrder {
		if err := store.Load(category, seed.Notes[category]); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// SeedLectures returns a lectures store filled with the bundled sample lectures.
func SeedLectures() (*Store, error) {
	seed, err := loadSeed(seedYAML)
	if err != nil {
		return nil, err
	}
	store := NewStore(LectureOrder...)
	for _, category := range LectureOrder {
		records := seed.Lectures[category]
		items := make([]Item, 0, len(records))
		for _, record := range records {
			items = append(items, record.item(category))
		}
		if err := store.Load(category, items); err != nil {
			return nil, err
		}
	}
	return store, nil
}
