package tui

import (
	"time"

	"github.com/csheth/carevo/internal/catalog"
	"github.com/csheth/carevo/internal/dashboard"
)

type stage int

const (
	stageBrowse stage = iota
	stageSearch
	stageDetail
	stageUpload
	stagePalette
)

const (
	pageNotes = iota
	pageLectures
)

const (
	defaultDebounce   = 300 * time.Millisecond
	defaultJobTimeout = 15 * time.Second
)

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
)

const heroTagline = "Notes and lectures for your semester."

// debounceMsg fires once the search input has been quiet for the debounce window.
type debounceMsg struct {
	page int
	seq  int
	text string
}

type toastExpiredMsg struct {
	page int
	id   string
}

type searchResultMsg struct {
	page  int
	query string
	items []catalog.Item
	err   error
}

type likeResultMsg struct {
	page   int
	effect dashboard.LikeEffect
	result dashboard.LikeResult
	err    error
}

type starResultMsg struct {
	page    int
	effect  dashboard.StarEffect
	starred bool
	err     error
}

type uploadResultMsg struct {
	page int
	item catalog.Item
	err  error
}

type noteResultMsg struct {
	key  catalog.Key
	item catalog.Item
	err  error
}

type clipboardMsg struct {
	text string
	err  error
}
