package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/truncate"

	"github.com/csheth/carevo/internal/catalog"
	"github.com/csheth/carevo/internal/dashboard"
	"github.com/csheth/carevo/internal/view"
)

type pageLayout struct {
	windowWidth  int
	windowHeight int
	contentWidth int
	bodyHeight   int
	detailHeight int
}

func newPageLayout() pageLayout {
	return pageLayout{
		contentWidth: 80,
		bodyHeight:   20,
		detailHeight: 20,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.contentWidth = innerWidth
	// header, tabs, search box, toast, status bar and help line
	const chrome = 12
	body := height - chrome
	if body < 6 {
		body = 6
	}
	l.bodyHeight = body
	detail := height - 6
	if detail < 6 {
		detail = 6
	}
	l.detailHeight = detail
}

type contentBuilder struct {
	builder strings.Builder
	lines   int
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
	cb.lines += strings.Count(s, "\n")
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
	if r == '\n' {
		cb.lines++
	}
}

func (cb *contentBuilder) String() string {
	return cb.builder.String()
}

func (cb *contentBuilder) Line() int {
	return cb.lines
}

// bodyContent renders the sections or search results and reports the line holding
// the cursor.
func (m *model) bodyContent(snap dashboard.Snapshot, cursor int) (string, int) {
	cb := &contentBuilder{}
	width := m.layout.contentWidth
	cursorLine := 0
	idx := 0
	writeItems := func(items []catalog.Item) {
		for _, item := range items {
			line := cardLine(item, width-2)
			if idx == cursor {
				cursorLine = cb.Line()
				cb.WriteString(currentLineStyle.Render("▸ " + stripStyles(line)))
			} else {
				cb.WriteString("  " + line)
			}
			cb.WriteRune('\n')
			idx++
		}
	}

	if snap.Mode == dashboard.Searching {
		header := fmt.Sprintf("Results for %q (%d)", snap.Query, snap.ResultCount)
		cb.WriteString(sectionHeaderStyle.Render(header))
		if snap.Searching {
			cb.WriteString(" " + helperStyle.Render(m.spinner.View()+" asking the server…"))
		}
		cb.WriteRune('\n')
		if len(snap.Results) == 0 {
			cb.WriteString(helperStyle.Render("No matches found. Try another keyword."))
			cb.WriteRune('\n')
			return cb.String(), 0
		}
		writeItems(snap.Results)
		return cb.String(), cursorLine
	}

	for i, section := range snap.Sections {
		if i > 0 {
			cb.WriteRune('\n')
		}
		cb.WriteString(sectionHeaderStyle.Render(section.Title))
		if section.Capped {
			cb.WriteString(" " + helperStyle.Render(fmt.Sprintf("(%d of %d, tab to see all)", len(section.Items), section.Total)))
		}
		cb.WriteRune('\n')
		if len(section.Items) == 0 {
			cb.WriteString(helperStyle.Render("  " + emptySectionText(section)))
			cb.WriteRune('\n')
			continue
		}
		writeItems(section.Items)
	}
	if len(snap.Sections) == 0 {
		cb.WriteString(helperStyle.Render("Nothing to show here."))
		cb.WriteRune('\n')
	}
	return cb.String(), cursorLine
}

func emptySectionText(section view.Section) string {
	if section.Name == "important" {
		return "Star a note with s to pin it here."
	}
	return "Nothing here yet."
}

func cardLine(item catalog.Item, width int) string {
	star := "☆"
	if item.Starred {
		star = starStyle.Render("★")
	}
	heart := "♡"
	if item.Liked {
		heart = likeStyle.Render("♥")
	}
	parts := []string{star}
	if item.Live {
		parts = append(parts, liveStyle.Render("● LIVE"))
	}
	parts = append(parts, subtitleStyle.Render(item.Title))
	if item.Subtitle != "" {
		parts = append(parts, subjectStyle.Render(item.Subtitle))
	}
	if item.Author != "" {
		parts = append(parts, helperStyle.Render(item.Author))
	}
	var meta []string
	if item.Schedule != "" {
		meta = append(meta, item.Schedule)
	}
	if item.Duration != "" {
		meta = append(meta, item.Duration)
	}
	if item.Views != "" {
		meta = append(meta, item.Views+" views")
	}
	if item.Tag != "" {
		meta = append(meta, "#"+item.Tag)
	}
	meta = append(meta, fmt.Sprintf("%s %d", heart, item.Likes))
	line := strings.Join(parts, " ") + "  " + helperStyle.Render(strings.Join(meta, " · "))
	if width <= 0 {
		return line
	}
	return truncate.StringWithTail(line, uint(width), "…")
}

// ensureCursorVisible scrolls the body so the cursor line stays on screen.
func (m *model) ensureCursorVisible() {
	height := m.body.Height
	if height <= 0 {
		return
	}
	offset := m.body.YOffset
	switch {
	case m.cursorLine < offset:
		m.body.SetYOffset(m.cursorLine)
	case m.cursorLine >= offset+height:
		m.body.SetYOffset(m.cursorLine - height + 1)
	}
}
