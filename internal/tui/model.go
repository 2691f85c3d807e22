package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/csheth/carevo/internal/catalog"
	"github.com/csheth/carevo/internal/dashboard"
	"github.com/csheth/carevo/internal/search"
	"github.com/csheth/carevo/internal/view"
)

// Config wires runtime options into the TUI program.
type Config struct {
	// Client talks to the notes API. Without one every request fails and the pages
	// fall back to local behaviour.
	Client Client
	// Notes and Lectures default to the bundled sample data.
	Notes    *catalog.Store
	Lectures *catalog.Store
	Logger   *zap.Logger
	// StartPage is "notes" or "lectures".
	StartPage  string
	Debounce   time.Duration
	JobTimeout time.Duration
	Clipboard  func(string) error
	// IDs replaces the toast id generator.
	IDs func() string
}

type pageState struct {
	page   *dashboard.Page
	cursor int
	// seq identifies the latest debounce tick; older ticks are dropped.
	seq int
	// toastID is the toast whose dismiss timer is already scheduled.
	toastID string
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Debounce <= 0 {
		config.Debounce = defaultDebounce
	}
	if config.Clipboard == nil {
		config.Clipboard = clipboard.WriteAll
	}
	notes := config.Notes
	if notes == nil {
		notes = seedOrEmpty(catalog.SeedNotes, catalog.NoteOrder, logger)
	}
	lectures := config.Lectures
	if lectures == nil {
		lectures = seedOrEmpty(catalog.SeedLectures, catalog.LectureOrder, logger)
	}
	opts := []dashboard.Option{dashboard.WithLogger(logger), dashboard.WithIDs(config.IDs)}

	searchInput := textinput.New()
	searchInput.Prompt = "/ "
	searchInput.CharLimit = 120
	searchInput.Width = 60

	paletteInput := textinput.New()
	paletteInput.Placeholder = "Type to filter commands…"
	paletteInput.CharLimit = 60
	paletteInput.Width = 50

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	body := viewport.New(80, 20)
	detail := viewport.New(80, 20)
	detail.MouseWheelEnabled = true

	m := &model{
		config: config,
		logger: logger,
		stage:  stageBrowse,
		keys:   newKeyMap(),
		help:   help.New(),
		layout: newPageLayout(),
		pages: []*pageState{
			pageNotes:    {page: dashboard.New(view.NotesSpec(), notes, opts...)},
			pageLectures: {page: dashboard.New(view.LecturesSpec(), lectures, opts...)},
		},
		searchInput:  searchInput,
		paletteInput: paletteInput,
		upload:       newUploadForm(),
		body:         body,
		detail:       detail,
		spinner:      spin,
		jobs:         newJobBus(logger, config.JobTimeout),
		running:      map[string]jobSnapshot{},
		infoMessage:  "Press / to search, tab to change section, p to switch page.",
	}
	if strings.EqualFold(strings.TrimSpace(config.StartPage), view.LecturesSpec().Name) {
		m.current = pageLectures
	}
	m.syncPage()
	return m
}

func seedOrEmpty(seed func() (*catalog.Store, error), order []catalog.Category, logger *zap.Logger) *catalog.Store {
	store, err := seed()
	if err != nil {
		logger.Error("load sample data", zap.Error(err))
		return catalog.NewStore(order...)
	}
	return store
}

type model struct {
	config Config
	logger *zap.Logger
	stage  stage
	keys   keyMap
	help   help.Model
	layout pageLayout

	pages   []*pageState
	current int

	searchInput  textinput.Model
	paletteInput textinput.Model
	paletteIndex int
	upload       uploadForm
	body         viewport.Model
	detail       viewport.Model
	detailItem   catalog.Item
	spinner      spinner.Model

	jobs    *jobBus
	running map[string]jobSnapshot
	lastJob *jobSnapshot

	cursorLine   int
	helpVisible  bool
	infoMessage  string
	errorMessage string
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		var cmd tea.Cmd
		if m.stage == stageDetail {
			m.detail, cmd = m.detail.Update(msg)
		} else {
			m.body, cmd = m.body.Update(msg)
		}
		return m, cmd
	case spinner.TickMsg:
		if len(m.running) == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case debounceMsg:
		ps := m.pages[msg.page]
		if msg.seq != ps.seq {
			return m, nil
		}
		effect := ps.page.Commit(msg.text)
		ps.cursor = 0
		return m, m.runEffect(msg.page, effect)
	case toastExpiredMsg:
		ps := m.pages[msg.page]
		ps.page.DismissToast(msg.id)
		if ps.toastID == msg.id {
			ps.toastID = ""
		}
		return m, nil
	case jobSignalMsg:
		first := len(m.running) == 0
		m.running[msg.Snapshot.ID] = msg.Snapshot
		if first {
			return m, m.spinner.Tick
		}
		return m, nil
	case jobResultEnvelope:
		delete(m.running, msg.Snapshot.ID)
		snapshot := msg.Snapshot
		m.lastJob = &snapshot
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case searchResultMsg:
		// failures are logged by the page and render like an empty answer
		m.pages[msg.page].page.ResolveSearch(msg.query, msg.items, msg.err)
		m.clampCursor(msg.page)
		return m, nil
	case noteResultMsg:
		m.applyNoteRefresh(msg)
		return m, nil
	case likeResultMsg:
		m.pages[msg.page].page.ResolveLike(msg.effect, msg.result, msg.err)
		m.refreshDetail()
		return m, m.toastCmd(msg.page)
	case starResultMsg:
		m.pages[msg.page].page.ResolveStar(msg.effect, msg.starred, msg.err)
		m.clampCursor(msg.page)
		m.refreshDetail()
		return m, m.toastCmd(msg.page)
	case uploadResultMsg:
		m.pages[msg.page].page.ResolveUpload(msg.item, msg.err)
		if msg.err != nil {
			m.errorMessage = "Upload failed: " + msg.err.Error()
		} else {
			m.errorMessage = ""
			m.infoMessage = fmt.Sprintf("Uploaded %q.", msg.item.Title)
		}
		return m, m.toastCmd(msg.page)
	case clipboardMsg:
		if msg.err != nil {
			m.errorMessage = "Copy failed: " + msg.err.Error()
			return m, nil
		}
		m.errorMessage = ""
		m.infoMessage = "Copied " + msg.text
		return m, nil
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.stage {
	case stageSearch:
		return m.handleSearchKey(msg)
	case stageDetail:
		return m.handleDetailKey(msg)
	case stageUpload:
		return m.handleUploadKey(msg)
	case stagePalette:
		return m.handlePaletteKey(msg)
	default:
		return m.handleBrowseKey(msg)
	}
}

func (m *model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ps := m.pages[m.current]
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Search):
		m.stage = stageSearch
		return m, m.searchInput.Focus()
	case key.Matches(msg, m.keys.Clear):
		return m, m.clearSearch()
	case key.Matches(msg, m.keys.Back):
		if search.Active(ps.page.Input()) {
			return m, m.clearSearch()
		}
		m.helpVisible = false
	case key.Matches(msg, m.keys.NextFilter):
		m.cycleFilter(1)
	case key.Matches(msg, m.keys.PrevFilter):
		m.cycleFilter(-1)
	case key.Matches(msg, m.keys.Sort):
		m.cycleSort()
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Like):
		return m, m.toggleLike()
	case key.Matches(msg, m.keys.Star):
		return m, m.toggleStar()
	case key.Matches(msg, m.keys.Copy):
		return m, m.copySelected()
	case key.Matches(msg, m.keys.Open):
		return m, m.openDetail()
	case key.Matches(msg, m.keys.Upload):
		return m, m.openUpload()
	case key.Matches(msg, m.keys.Page):
		m.switchPage()
	case key.Matches(msg, m.keys.Palette):
		return m, m.openPalette()
	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
	}
	return m, nil
}

func (m *model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), msg.Type == tea.KeyEnter:
		m.searchInput.Blur()
		m.stage = stageBrowse
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		return m, m.clearSearch()
	case msg.Type == tea.KeyDown:
		m.moveCursor(1)
		return m, nil
	case msg.Type == tea.KeyUp:
		m.moveCursor(-1)
		return m, nil
	}
	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if value := m.searchInput.Value(); value != before {
		return m, tea.Batch(cmd, m.typeSearch(value))
	}
	return m, cmd
}

func (m *model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Open), msg.String() == "q":
		m.stage = stageBrowse
		return m, nil
	case key.Matches(msg, m.keys.Like):
		return m, m.likeKey(m.detailItem.Key())
	case key.Matches(msg, m.keys.Star):
		return m, m.starKey(m.detailItem.Key())
	case key.Matches(msg, m.keys.Copy):
		return m, copyCmd(m.config.Clipboard, copyText(m.detailItem))
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *model) handleUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		m.upload.Reset()
		m.stage = stageBrowse
		m.infoMessage = "Upload canceled."
		return m, nil
	case msg.Type == tea.KeyTab, msg.Type == tea.KeyDown:
		return m, m.upload.Move(1)
	case msg.Type == tea.KeyShiftTab, msg.Type == tea.KeyUp:
		return m, m.upload.Move(-1)
	case msg.Type == tea.KeyCtrlS, msg.Type == tea.KeyEnter && m.upload.OnLastField():
		return m, m.submitUpload()
	case msg.Type == tea.KeyEnter:
		return m, m.upload.Move(1)
	}
	return m, m.upload.Update(msg)
}

func (m *model) resize(width, height int) {
	m.layout.Update(width, height)
	m.body.Width = m.layout.contentWidth
	m.body.Height = m.layout.bodyHeight
	m.detail.Width = m.layout.contentWidth
	m.detail.Height = m.layout.detailHeight
	m.help.Width = width
	inputWidth := m.layout.contentWidth - 4
	if inputWidth > 60 {
		inputWidth = 60
	}
	m.searchInput.Width = inputWidth
	if m.stage == stageDetail {
		m.refreshDetail()
	}
}

// syncPage points the shared widgets at the current page.
func (m *model) syncPage() {
	ps := m.pages[m.current]
	spec := ps.page.Spec()
	m.searchInput.Placeholder = fmt.Sprintf("Search %s…", spec.Name)
	m.searchInput.SetValue(ps.page.Input())
	m.keys.Upload.SetEnabled(spec.Uploads)
}

func (m *model) switchPage() {
	m.searchInput.Blur()
	m.current = (m.current + 1) % len(m.pages)
	m.stage = stageBrowse
	m.body.GotoTop()
	m.syncPage()
	m.infoMessage = fmt.Sprintf("Switched to %s.", m.pageTitle())
}

func (m *model) pageTitle() string {
	return capitalize(m.pages[m.current].page.Spec().Name)
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// typeSearch records the input and restarts the debounce timer.
func (m *model) typeSearch(text string) tea.Cmd {
	idx := m.current
	ps := m.pages[idx]
	ps.seq++
	ps.cursor = 0
	if !ps.page.Type(text) {
		return nil
	}
	seq := ps.seq
	return tea.Tick(m.config.Debounce, func(time.Time) tea.Msg {
		return debounceMsg{page: idx, seq: seq, text: text}
	})
}

func (m *model) clearSearch() tea.Cmd {
	m.searchInput.SetValue("")
	return m.typeSearch("")
}

func (m *model) cycleFilter(delta int) {
	ps := m.pages[m.current]
	filters := ps.page.Spec().Filters
	if len(filters) < 2 {
		return
	}
	next := filters[nextIndex(indexOf(filters, ps.page.Snapshot().Filter), delta, len(filters))]
	if err := ps.page.SetFilter(next); err != nil {
		m.errorMessage = err.Error()
		return
	}
	ps.cursor = 0
	m.body.GotoTop()
}

func (m *model) cycleSort() {
	ps := m.pages[m.current]
	sorts := ps.page.Spec().Sorts
	if len(sorts) < 2 {
		return
	}
	next := sorts[nextIndex(indexOf(sorts, ps.page.Snapshot().Sort), 1, len(sorts))]
	if err := ps.page.SetSort(next); err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.infoMessage = "Sorted by " + next.Label() + "."
}

func indexOf[T comparable](values []T, target T) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return 0
}

func nextIndex(current, delta, n int) int {
	return ((current+delta)%n + n) % n
}

func visibleItems(snap dashboard.Snapshot) []catalog.Item {
	if snap.Mode == dashboard.Searching {
		return snap.Results
	}
	var items []catalog.Item
	for _, section := range snap.Sections {
		items = append(items, section.Items...)
	}
	return items
}

func (m *model) moveCursor(delta int) {
	ps := m.pages[m.current]
	ps.cursor += delta
	m.clampCursor(m.current)
}

func (m *model) clampCursor(page int) {
	ps := m.pages[page]
	n := len(visibleItems(ps.page.Snapshot()))
	if ps.cursor >= n {
		ps.cursor = n - 1
	}
	if ps.cursor < 0 {
		ps.cursor = 0
	}
}

func (m *model) selected() (catalog.Item, bool) {
	ps := m.pages[m.current]
	items := visibleItems(ps.page.Snapshot())
	if ps.cursor < 0 || ps.cursor >= len(items) {
		return catalog.Item{}, false
	}
	return items[ps.cursor], true
}

func (m *model) toggleLike() tea.Cmd {
	item, ok := m.selected()
	if !ok {
		m.infoMessage = "Nothing selected."
		return nil
	}
	return m.likeKey(item.Key())
}

func (m *model) likeKey(key catalog.Key) tea.Cmd {
	idx := m.current
	effect := m.pages[idx].page.ToggleLike(key)
	m.refreshDetail()
	return tea.Batch(m.runEffect(idx, effect), m.toastCmd(idx))
}

func (m *model) toggleStar() tea.Cmd {
	item, ok := m.selected()
	if !ok {
		m.infoMessage = "Nothing selected."
		return nil
	}
	return m.starKey(item.Key())
}

func (m *model) starKey(key catalog.Key) tea.Cmd {
	idx := m.current
	effect := m.pages[idx].page.ToggleStar(key)
	m.clampCursor(idx)
	m.refreshDetail()
	return tea.Batch(m.runEffect(idx, effect), m.toastCmd(idx))
}

// toastCmd schedules dismissal of the page's current toast once per toast.
func (m *model) toastCmd(page int) tea.Cmd {
	ps := m.pages[page]
	toast, ok := ps.page.Toast()
	if !ok || toast.ID == ps.toastID {
		return nil
	}
	ps.toastID = toast.ID
	id := toast.ID
	return tea.Tick(dashboard.ToastLifetime, func(time.Time) tea.Msg {
		return toastExpiredMsg{page: page, id: id}
	})
}

func copyText(item catalog.Item) string {
	if item.Link != "" {
		return item.Link
	}
	return item.Title
}

func (m *model) copySelected() tea.Cmd {
	item, ok := m.selected()
	if !ok {
		m.infoMessage = "Nothing selected."
		return nil
	}
	return copyCmd(m.config.Clipboard, copyText(item))
}

// openDetail shows the selected card and, for saved notes, fetches the server's copy.
func (m *model) openDetail() tea.Cmd {
	item, ok := m.selected()
	if !ok {
		m.infoMessage = "Nothing selected."
		return nil
	}
	m.detailItem = item
	m.stage = stageDetail
	m.detail.GotoTop()
	m.renderDetail()
	if !item.Persisted() || m.config.Client == nil || !m.pages[m.current].page.Spec().RemoteSearch {
		return nil
	}
	return m.jobs.Start(jobKindDetail, noteJob(m.config.Client, item.Key(), item.ID))
}

// applyNoteRefresh replaces the open detail with the fetched note. The local liked
// flag is kept since the API does not report it per user.
func (m *model) applyNoteRefresh(msg noteResultMsg) {
	if msg.err != nil {
		m.logger.Debug("refresh note detail", zap.Error(msg.err))
		return
	}
	if m.stage != stageDetail || m.detailItem.Key() != msg.key {
		return
	}
	fresh := msg.item
	fresh.Liked = m.detailItem.Liked
	if fresh.Category == "" {
		fresh.Category = m.detailItem.Category
	}
	m.detailItem = fresh
	m.renderDetail()
}

// refreshDetail picks up like and star changes for the open detail pane.
func (m *model) refreshDetail() {
	if m.stage != stageDetail {
		return
	}
	key := m.detailItem.Key()
	for _, item := range visibleItems(m.pages[m.current].page.Snapshot()) {
		if item.Key() == key {
			m.detailItem = item
			break
		}
	}
	m.renderDetail()
}

func (m *model) renderDetail() {
	content, err := RenderDetail(m.detailItem, m.detail.Width)
	if err != nil {
		m.logger.Warn("render detail", zap.Error(err))
		content = DetailMarkdown(m.detailItem)
	}
	m.detail.SetContent(content)
}

func (m *model) openUpload() tea.Cmd {
	if !m.pages[m.current].page.Spec().Uploads {
		m.infoMessage = "Uploads are only available on the notes page."
		return nil
	}
	m.upload.Reset()
	m.stage = stageUpload
	m.errorMessage = ""
	return m.upload.Focus()
}

func (m *model) submitUpload() tea.Cmd {
	idx := m.current
	effect, err := m.pages[idx].page.Upload(m.upload.Draft())
	if err != nil {
		m.logger.Debug("upload rejected", zap.Error(err))
		return m.toastCmd(idx)
	}
	m.upload.Reset()
	m.stage = stageBrowse
	m.infoMessage = "Uploading note…"
	return tea.Batch(m.runEffect(idx, effect), m.toastCmd(idx))
}

var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Underline(true)
	subtitleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	subjectStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	liveStyle          = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	starStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	likeStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))

	heroAccentColor        = lipgloss.Color("#ff8c00")
	heroSecondaryTextColor = lipgloss.Color("#ffb347")

	taglineStyle       = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	activeTabStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(heroAccentColor).Padding(0, 1)
	inactiveTabStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4")).Padding(0, 1)
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle           = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(1, 2)
	helpBoxStyle       = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#7f5af0")).Padding(1, 2)
	currentLineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))
	toastSuccessStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#a3be8c")).Padding(0, 1)
	toastErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#fff4d0")).Background(lipgloss.Color("#bf616a")).Padding(0, 1)
	searchBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
	searchFocusedStyle = searchBoxStyle.Copy().BorderForeground(heroAccentColor)
)
