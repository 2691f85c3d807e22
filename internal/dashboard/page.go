// Package dashboard holds the per-page state container. A Page is mutated only through
// its methods; network work is described by Effects that the caller runs and reports
// back through the matching Resolve method.
package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/csheth/carevo/internal/catalog"
	"github.com/csheth/carevo/internal/search"
	"github.com/csheth/carevo/internal/view"
)

// ErrValidation marks user input that was rejected before any request was made.
var ErrValidation = errors.New("validation failed")

// Mode is the page's search state.
type Mode int

const (
	Browsing Mode = iota
	Searching
)

func (m Mode) String() string {
	if m == Searching {
		return "searching"
	}
	return "browsing"
}

// Page is the state of one dashboard page.
type Page struct {
	spec   view.PageSpec
	store  *catalog.Store
	logger *zap.Logger
	newID  func() string

	filter view.Filter
	sort   view.SortMode

	mode      Mode
	input     string
	query     string
	searching bool
	server    []catalog.Item
	serverOK  bool

	toast *Toast
}

// Option customises a Page.
type Option func(*Page)

// WithLogger sets the logger used for failures.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Page) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithIDs replaces the toast id generator.
func WithIDs(fn func() string) Option {
	return func(p *Page) {
		if fn != nil {
			p.newID = fn
		}
	}
}

// New returns a browsing page over store with the All filter and default sort.
func New(spec view.PageSpec, store *catalog.Store, opts ...Option) *Page {
	p := &Page{
		spec:   spec,
		store:  store,
		logger: zap.NewNop(),
		newID:  uuid.NewString,
		filter: view.FilterAll,
		sort:   view.SortDefault,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(zap.String("page", spec.Name))
	return p
}

// Spec returns the page description.
func (p *Page) Spec() view.PageSpec { return p.spec }

// SetFilter selects a tab.
func (p *Page) SetFilter(filter view.Filter) error {
	if !p.spec.HasFilter(filter) {
		return fmt.Errorf("%w: unknown filter %q", ErrValidation, filter)
	}
	p.filter = filter
	return nil
}

// SetSort selects a sort mode.
func (p *Page) SetSort(mode view.SortMode) error {
	if !p.spec.HasSort(mode) {
		return fmt.Errorf("%w: unknown sort mode %q", ErrValidation, mode)
	}
	p.sort = mode
	return nil
}

// Type records the raw search input. Blank input returns the page to Browsing at once
// and reports false. Otherwise it reports true and the caller must restart the
// debounce timer for this input.
func (p *Page) Type(text string) bool {
	p.input = text
	if search.Active(text) {
		return true
	}
	p.mode = Browsing
	p.query = ""
	p.searching = false
	p.server = nil
	p.serverOK = false
	return false
}

// Input returns the latest raw search input.
func (p *Page) Input() string { return p.input }

// Commit is called when the debounce fires for text. Input that has since changed or
// gone blank is ignored. Pages with remote search return a SearchEffect.
func (p *Page) Commit(text string) Effect {
	if text != p.input || !search.Active(text) {
		return nil
	}
	p.mode = Searching
	p.query = search.Normalize(text)
	p.server = nil
	p.serverOK = false
	if !p.spec.RemoteSearch {
		p.searching = false
		return nil
	}
	p.searching = true
	return SearchEffect{Query: p.query}
}

// ResolveSearch stores the server's answer for query. Responses are stored even when
// the user has moved on to a newer query, but only the answer for the current query
// ends the searching state.
func (p *Page) ResolveSearch(query string, items []catalog.Item, err error) {
	if query == p.query {
		p.searching = false
	}
	if err != nil {
		p.logger.Warn("remote search failed", zap.String("query", query), zap.Error(err))
		p.server = nil
		p.serverOK = false
		return
	}
	if query != p.query {
		p.logger.Debug("applying stale search response",
			zap.String("query", query), zap.String("current", p.query))
	}
	p.server = append([]catalog.Item(nil), items...)
	p.serverOK = true
}

func (p *Page) lookup(key catalog.Key) (catalog.Item, bool) {
	if item, ok := p.store.Lookup(key); ok {
		return item, true
	}
	for _, item := range p.server {
		if item.Key() == key {
			return item, true
		}
	}
	return catalog.Item{}, false
}

func (p *Page) apply(key catalog.Key, outcome catalog.Outcome) {
	touched := p.store.Apply(key, outcome)
	touched += catalog.ApplyAll(p.server, key, outcome)
	p.logger.Debug("interaction applied",
		zap.String("key", string(key)),
		zap.Bool("authoritative", outcome.Authoritative()),
		zap.Int("touched", touched))
}

// ToggleLike starts a like toggle. Persisted items return a LikeEffect; unsaved items
// are flipped locally right away and nil is returned.
func (p *Page) ToggleLike(key catalog.Key) Effect {
	item, ok := p.lookup(key)
	if !ok {
		return nil
	}
	if item.Persisted() {
		return LikeEffect{Key: key, ID: item.ID}
	}
	p.apply(key, catalog.OptimisticLike{})
	p.notifyLike(key)
	return nil
}

// ResolveLike applies the server's like state, or the optimistic flip when the request
// failed.
func (p *Page) ResolveLike(effect LikeEffect, result LikeResult, err error) {
	if err != nil {
		p.logger.Warn("like request failed", zap.Int("id", effect.ID), zap.Error(err))
		p.apply(effect.Key, catalog.OptimisticLike{})
	} else {
		p.apply(effect.Key, catalog.ConfirmedLike{Liked: result.Liked, Likes: result.Likes})
	}
	p.notifyLike(effect.Key)
}

func (p *Page) notifyLike(key catalog.Key) {
	item, ok := p.lookup(key)
	if !ok {
		return
	}
	if item.Liked {
		p.notify(ToastSuccess, "Liked")
	} else {
		p.notify(ToastSuccess, "Unliked")
	}
}

// ToggleStar starts a star toggle. The requested state is the negation of the item's
// current state.
func (p *Page) ToggleStar(key catalog.Key) Effect {
	item, ok := p.lookup(key)
	if !ok {
		return nil
	}
	want := !item.Starred
	if item.Persisted() {
		return StarEffect{Key: key, ID: item.ID, Starred: want}
	}
	p.apply(key, catalog.OptimisticStar{Starred: want})
	p.notifyStar(want)
	return nil
}

// ResolveStar applies the starred flag the server returned. On failure the requested
// state is applied locally.
func (p *Page) ResolveStar(effect StarEffect, starred bool, err error) {
	if err != nil {
		p.logger.Warn("star request failed", zap.Int("id", effect.ID), zap.Error(err))
		p.apply(effect.Key, catalog.OptimisticStar{Starred: effect.Starred})
		p.notifyStar(effect.Starred)
		return
	}
	p.apply(effect.Key, catalog.ConfirmedStar{Starred: starred})
	p.notifyStar(starred)
}

func (p *Page) notifyStar(starred bool) {
	if starred {
		p.notify(ToastSuccess, "Starred")
	} else {
		p.notify(ToastSuccess, "Unstarred")
	}
}

// Draft is an upload form submission.
type Draft struct {
	Title    string
	Subtitle string
	Author   string
	Image    string
	Tag      string
	Link     string
	Category catalog.Category
}

// Item converts the draft into an unsaved note.
func (d Draft) Item() catalog.Item {
	return catalog.Item{
		Title:    strings.TrimSpace(d.Title),
		Subtitle: strings.TrimSpace(d.Subtitle),
		Author:   strings.TrimSpace(d.Author),
		Image:    strings.TrimSpace(d.Image),
		Tag:      strings.TrimSpace(d.Tag),
		Link:     strings.TrimSpace(d.Link),
		Category: catalog.ParseNoteCategory(string(d.Category)),
	}
}

// Upload validates draft and returns the effect that creates it on the server.
func (p *Page) Upload(draft Draft) (Effect, error) {
	if !p.spec.Uploads {
		return nil, fmt.Errorf("%w: %s page does not accept uploads", ErrValidation, p.spec.Name)
	}
	if strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.Link) == "" {
		p.notify(ToastError, "Title and Drive link are required")
		return nil, fmt.Errorf("%w: title and link are required", ErrValidation)
	}
	return UploadEffect{Draft: draft}, nil
}

// ResolveUpload prepends a created note to its category, defaulting to recent.
func (p *Page) ResolveUpload(item catalog.Item, err error) {
	if err != nil {
		p.logger.Warn("upload failed", zap.Error(err))
		p.notify(ToastError, "Upload failed")
		return
	}
	category := catalog.ParseNoteCategory(string(item.Category))
	item.Category = category
	if addErr := p.store.Add(category, item); addErr != nil {
		p.logger.Error("store rejected uploaded note", zap.Error(addErr))
		p.notify(ToastError, "Upload failed")
		return
	}
	p.notify(ToastSuccess, "Note uploaded")
}
