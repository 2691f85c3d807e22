package tui

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/carevo/internal/dashboard"
)

func (m *model) View() string {
	switch m.stage {
	case stageDetail:
		return m.viewDetail()
	case stageUpload:
		return joinNonEmpty([]string{m.heroView(), m.upload.View(), m.toastView(), m.messagesView()})
	case stagePalette:
		return joinNonEmpty([]string{m.heroView(), m.viewPalette()})
	default:
		return m.viewDashboard()
	}
}

func (m *model) viewDashboard() string {
	ps := m.pages[m.current]
	snap := ps.page.Snapshot()
	content, cursorLine := m.bodyContent(snap, ps.cursor)
	m.body.SetContent(content)
	m.cursorLine = cursorLine
	m.ensureCursorVisible()

	parts := []string{
		m.heroView(),
		m.controlsView(snap),
		m.searchView(),
		m.body.View(),
		m.toastView(),
		m.messagesView(),
		m.sessionMeterView(snap),
	}
	if m.helpVisible {
		parts = append(parts, m.keyLegendView())
	} else {
		parts = append(parts, m.help.View(m.keys))
	}
	return joinLines(parts)
}

func (m *model) viewDetail() string {
	hints := []string{
		keyStyle.Render("esc") + keyDescStyle.Render(" back"),
		keyStyle.Render("l") + keyDescStyle.Render(" like"),
		keyStyle.Render("s") + keyDescStyle.Render(" star"),
		keyStyle.Render("y") + keyDescStyle.Render(" copy link"),
	}
	return joinLines([]string{
		m.heroView(),
		m.detail.View(),
		m.toastView(),
		m.messagesView(),
		strings.Join(hints, "  "),
	})
}

func (m *model) heroView() string {
	var tabs []string
	for i, ps := range m.pages {
		label := capitalize(ps.page.Spec().Name)
		if i == m.current {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	title := titleStyle.Render("carevo")
	row := lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", strings.Join(tabs, " "))
	return lipgloss.JoinVertical(lipgloss.Left, row, taglineStyle.Render(heroTagline))
}

func (m *model) controlsView(snap dashboard.Snapshot) string {
	spec := m.pages[m.current].page.Spec()
	var tabs []string
	for _, filter := range spec.Filters {
		if filter == snap.Filter {
			tabs = append(tabs, activeTabStyle.Render(string(filter)))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(string(filter)))
		}
	}
	sortLabel := helperStyle.Render("Sort: ") + keyDescStyle.Render(snap.Sort.Label())
	return strings.Join(tabs, "") + "   " + sortLabel
}

func (m *model) searchView() string {
	style := searchBoxStyle
	if m.stage == stageSearch {
		style = searchFocusedStyle
	}
	return style.Render(m.searchInput.View())
}

func (m *model) toastView() string {
	toast, ok := m.pages[m.current].page.Toast()
	if !ok {
		return ""
	}
	if toast.Kind == dashboard.ToastError {
		return toastErrorStyle.Render("✗ " + toast.Message)
	}
	return toastSuccessStyle.Render("✓ " + toast.Message)
}

func (m *model) messagesView() string {
	if m.errorMessage != "" {
		return errorStyle.Render(m.errorMessage)
	}
	if m.infoMessage == "" {
		return ""
	}
	message := m.infoMessage
	if len(m.running) > 0 {
		message = fmt.Sprintf("%s %s", m.spinner.View(), message)
	}
	return helperStyle.Render(message)
}

func (m *model) modeLabel(snap dashboard.Snapshot) string {
	switch {
	case m.stage == stageSearch:
		return "TYPING"
	case snap.Mode == dashboard.Searching:
		return "SEARCH"
	default:
		return "BROWSE"
	}
}

func (m *model) sessionMeterView(snap dashboard.Snapshot) string {
	stats := []string{
		m.pageTitle(),
		fmt.Sprintf("Mode %s", m.modeLabel(snap)),
	}
	if snap.Mode == dashboard.Searching {
		stats = append(stats, fmt.Sprintf("%d results", snap.ResultCount))
	} else {
		stats = append(stats, fmt.Sprintf("%d sections", len(snap.Sections)))
	}
	if jobBadges := m.jobStatusBadges(); len(jobBadges) > 0 {
		stats = append(stats, jobBadges...)
	}
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) jobStatusBadges() []string {
	if len(m.running) > 0 {
		kinds := make([]string, 0, len(m.running))
		for _, snapshot := range m.running {
			kinds = append(kinds, string(snapshot.Kind))
		}
		sort.Strings(kinds)
		return []string{fmt.Sprintf("%s %s", m.spinner.View(), strings.Join(kinds, ", "))}
	}
	if m.lastJob != nil && m.lastJob.Status == jobStatusFailed {
		return []string{fmt.Sprintf("last %s failed", m.lastJob.Kind)}
	}
	return nil
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	var hints []keyHint
	for _, group := range m.keys.FullHelp() {
		for _, binding := range group {
			if !binding.Enabled() {
				continue
			}
			hints = append(hints, keyHint{Key: binding.Help().Key, Description: binding.Help().Desc})
		}
	}
	rows := []string{sectionHeaderStyle.Render("Keyboard Cheatsheet")}
	const columns = 3
	for i := 0; i < len(hints); i += columns {
		end := i + columns
		if end > len(hints) {
			end = len(hints)
		}
		var cells []string
		for _, hint := range hints[i:end] {
			key := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Render(" " + padRight(hint.Description, 16))
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

func joinLines(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n")
}

var ansiEscapeCodes = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

func stripStyles(text string) string {
	return ansiEscapeCodes.ReplaceAllString(text, "")
}
