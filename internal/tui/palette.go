package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type paletteAction int

const (
	actionSwitchPage paletteAction = iota
	actionNextFilter
	actionCycleSort
	actionSearch
	actionClearSearch
	actionOpenDetail
	actionLike
	actionStar
	actionCopyLink
	actionUpload
	actionToggleHelp
	actionQuit
)

type paletteCommand struct {
	action      paletteAction
	title       string
	shortcut    string
	description string
}

var paletteCommands = []paletteCommand{
	{action: actionSwitchPage, title: "Switch page", shortcut: "p", description: "Toggle between notes and lectures."},
	{action: actionNextFilter, title: "Next tab", shortcut: "tab", description: "Show the next section filter."},
	{action: actionCycleSort, title: "Cycle sort", shortcut: "o", description: "Order sections by likes or views."},
	{action: actionSearch, title: "Search", shortcut: "/", description: "Focus the search box."},
	{action: actionClearSearch, title: "Clear search", shortcut: "ctrl+u", description: "Drop the query and go back to browsing."},
	{action: actionOpenDetail, title: "Open details", shortcut: "enter", description: "Show everything about the selected card."},
	{action: actionLike, title: "Like", shortcut: "l", description: "Like or unlike the selected card."},
	{action: actionStar, title: "Star", shortcut: "s", description: "Star or unstar the selected card."},
	{action: actionCopyLink, title: "Copy link", shortcut: "y", description: "Copy the selected note's Drive link."},
	{action: actionUpload, title: "Upload note", shortcut: "u", description: "Share a Drive link with everyone."},
	{action: actionToggleHelp, title: "Toggle cheatsheet", shortcut: "?", description: "Show or hide every key binding."},
	{action: actionQuit, title: "Quit", shortcut: "q", description: "Leave carevo."},
}

func (m *model) commandAvailable(action paletteAction) bool {
	ps := m.pages[m.current]
	switch action {
	case actionUpload:
		return ps.page.Spec().Uploads
	case actionClearSearch:
		return ps.page.Input() != ""
	case actionOpenDetail, actionLike, actionStar, actionCopyLink:
		_, ok := m.selected()
		return ok
	case actionNextFilter:
		return len(ps.page.Spec().Filters) > 1
	case actionCycleSort:
		return len(ps.page.Spec().Sorts) > 1
	default:
		return true
	}
}

func (m *model) filteredCommands() []paletteCommand {
	query := strings.ToLower(strings.TrimSpace(m.paletteInput.Value()))
	var out []paletteCommand
	for _, cmd := range paletteCommands {
		if !m.commandAvailable(cmd.action) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(cmd.title), query) &&
			!strings.Contains(strings.ToLower(cmd.description), query) {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

func (m *model) openPalette() tea.Cmd {
	m.stage = stagePalette
	m.paletteIndex = 0
	m.paletteInput.SetValue("")
	return m.paletteInput.Focus()
}

func (m *model) closePalette() {
	m.paletteInput.Blur()
	m.stage = stageBrowse
}

func (m *model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	commands := m.filteredCommands()
	switch {
	case key.Matches(msg, m.keys.Back):
		m.closePalette()
		return m, nil
	case msg.Type == tea.KeyUp:
		if m.paletteIndex > 0 {
			m.paletteIndex--
		}
		return m, nil
	case msg.Type == tea.KeyDown:
		if m.paletteIndex < len(commands)-1 {
			m.paletteIndex++
		}
		return m, nil
	case msg.Type == tea.KeyEnter:
		if len(commands) == 0 {
			return m, nil
		}
		idx := m.paletteIndex
		if idx >= len(commands) {
			idx = len(commands) - 1
		}
		m.closePalette()
		return m, m.runCommand(commands[idx].action)
	}
	var cmd tea.Cmd
	m.paletteInput, cmd = m.paletteInput.Update(msg)
	m.paletteIndex = 0
	return m, cmd
}

func (m *model) runCommand(action paletteAction) tea.Cmd {
	switch action {
	case actionSwitchPage:
		m.switchPage()
	case actionNextFilter:
		m.cycleFilter(1)
	case actionCycleSort:
		m.cycleSort()
	case actionSearch:
		m.stage = stageSearch
		return m.searchInput.Focus()
	case actionClearSearch:
		return m.clearSearch()
	case actionOpenDetail:
		return m.openDetail()
	case actionLike:
		return m.toggleLike()
	case actionStar:
		return m.toggleStar()
	case actionCopyLink:
		return m.copySelected()
	case actionUpload:
		return m.openUpload()
	case actionToggleHelp:
		m.helpVisible = !m.helpVisible
	case actionQuit:
		return tea.Quit
	}
	return nil
}

func (m *model) viewPalette() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Command Palette"))
	b.WriteString("\n")
	b.WriteString(m.paletteInput.View())
	b.WriteString("\n\n")
	commands := m.filteredCommands()
	if len(commands) == 0 {
		b.WriteString(helperStyle.Render("No commands match this filter."))
	}
	for i, cmd := range commands {
		label := "  " + cmd.title + "  [" + cmd.shortcut + "]"
		desc := helperStyle.Render("   " + cmd.description)
		if i == m.paletteIndex {
			label = currentLineStyle.Render("▸ " + cmd.title + "  [" + cmd.shortcut + "]")
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(desc)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helperStyle.Render("Enter to run, Esc to cancel."))
	return helpBoxStyle.Render(b.String())
}
