package catalog

import (
	"strconv"
	"strings"
)

// Category names a collection inside a Store.
type Category string

const (
	Trending    Category = "trending"
	Recent      Category = "recent"
	Recommended Category = "recommended"

	Live     Category = "live"
	Upcoming Category = "upcoming"
	Popular  Category = "popular"
)

// NoteCategories lists the categories an uploaded note may target.
var NoteCategories = []Category{Recent, Trending, Recommended}

// ParseNoteCategory maps free text onto an upload category. Anything unknown lands in
// Recent, matching how the API defaults missing categories.
func ParseNoteCategory(value string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(value))) {
	case Trending:
		return Trending
	case Recommended:
		return Recommended
	default:
		return Recent
	}
}

// Item is a note or lecture card. Lecture-only fields stay empty for notes.
type Item struct {
	ID       int      `json:"id,omitempty" yaml:"id,omitempty"`
	Title    string   `json:"title" yaml:"title"`
	Subtitle string   `json:"subtitle" yaml:"subtitle"`
	Author   string   `json:"author" yaml:"author"`
	Image    string   `json:"image" yaml:"image"`
	Tag      string   `json:"tag,omitempty" yaml:"tag,omitempty"`
	Link     string   `json:"drive_link,omitempty" yaml:"link,omitempty"`
	Category Category `json:"category,omitempty" yaml:"category,omitempty"`
	Likes    int      `json:"likes" yaml:"likes"`
	Liked    bool     `json:"liked,omitempty" yaml:"liked,omitempty"`
	Starred  bool     `json:"starred" yaml:"starred"`

	Duration string `json:"duration,omitempty" yaml:"duration,omitempty"`
	Views    string `json:"views,omitempty" yaml:"views,omitempty"`
	Date     string `json:"date,omitempty" yaml:"date,omitempty"`
	Live     bool   `json:"live,omitempty" yaml:"live,omitempty"`
	Schedule string `json:"schedule,omitempty" yaml:"schedule,omitempty"`
}

// Key correlates copies of one logical item across collections.
type Key string

// Key returns the id-based key for persisted items and the exact title otherwise.
// Distinct unsaved items that share a title collapse onto one key.
func (i Item) Key() Key {
	if i.ID != 0 {
		return Key("id:" + strconv.Itoa(i.ID))
	}
	return Key("title:" + i.Title)
}

// Persisted reports whether the server has assigned an id.
func (i Item) Persisted() bool {
	return i.ID != 0
}
