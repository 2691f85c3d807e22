package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/csheth/carevo/internal/catalog"
)

// DetailMarkdown describes an item as a markdown document.
func DetailMarkdown(item catalog.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", item.Title)
	if item.Subtitle != "" {
		fmt.Fprintf(&b, "**%s**\n\n", item.Subtitle)
	}
	if item.Author != "" {
		fmt.Fprintf(&b, "_by %s_\n\n", item.Author)
	}

	var facts []string
	if item.Live {
		facts = append(facts, "**LIVE NOW**")
	}
	if item.Schedule != "" {
		facts = append(facts, "Starts: "+item.Schedule)
	}
	if item.Date != "" {
		facts = append(facts, "Recorded: "+item.Date)
	}
	if item.Duration != "" {
		facts = append(facts, "Duration: "+item.Duration)
	}
	if item.Views != "" {
		facts = append(facts, "Views: "+item.Views)
	}
	if item.Tag != "" {
		facts = append(facts, "Tag: `"+item.Tag+"`")
	}
	if item.Category != "" {
		facts = append(facts, "Section: "+string(item.Category))
	}
	facts = append(facts, fmt.Sprintf("Likes: %d%s", item.Likes, likedMark(item.Liked)))
	if item.Starred {
		facts = append(facts, "Starred ★")
	}
	for _, fact := range facts {
		fmt.Fprintf(&b, "- %s\n", fact)
	}
	if item.Link != "" {
		fmt.Fprintf(&b, "\n[Open in Drive](%s)\n", item.Link)
	}
	return b.String()
}

func likedMark(liked bool) string {
	if liked {
		return " (you liked this)"
	}
	return ""
}

// RenderDetail renders DetailMarkdown for a terminal of the given width.
func RenderDetail(item catalog.Item, width int) (string, error) {
	if width < minViewportWidth {
		width = minViewportWidth
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.ANSI256),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := renderer.Render(DetailMarkdown(item))
	if err != nil {
		return "", fmt.Errorf("render detail: %w", err)
	}
	return out, nil
}
