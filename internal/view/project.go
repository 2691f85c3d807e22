// Package view derives the visible sections of a page from the catalog, the selected
// filter and the sort mode.
package view

import (
	"sort"
	"strconv"
	"strings"

	"github.com/csheth/carevo/internal/catalog"
)

// Source is the read side of a catalog store.
type Source interface {
	Union(categories ...catalog.Category) []catalog.Item
}

// Section is one rendered section.
type Section struct {
	Name  string
	Title string
	Tab   Filter
	Items []catalog.Item
	// Total counts the items before the preview cap.
	Total  int
	Capped bool
}

// Project computes the visible sections for filter and mode in render order.
func Project(spec PageSpec, source Source, filter Filter, mode SortMode) []Section {
	visible := make(map[string]bool)
	for _, name := range spec.VisibleSections(filter) {
		visible[name] = true
	}

	var sections []Section
	for _, s := range spec.Sections {
		if !visible[s.Name] {
			continue
		}
		items := source.Union(s.Sources...)
		if s.StarredOnly {
			items = starred(items)
		}
		if s.HideEmpty && len(items) == 0 {
			continue
		}
		if !s.Unsorted {
			items = Sort(items, mode)
		}
		section := Section{Name: s.Name, Title: s.Title, Tab: s.Tab, Total: len(items)}
		if spec.PreviewCap > 0 && filter != s.Tab && len(items) > spec.PreviewCap {
			items = items[:spec.PreviewCap]
			section.Capped = true
		}
		section.Items = items
		sections = append(sections, section)
	}
	return sections
}

func starred(items []catalog.Item) []catalog.Item {
	out := make([]catalog.Item, 0, len(items))
	for _, item := range items {
		if item.Starred {
			out = append(out, item)
		}
	}
	return out
}

// Sort returns a sorted copy of items. The default mode keeps insertion order; numeric
// modes sort stably, descending for -high and ascending for -low.
func Sort(items []catalog.Item, mode SortMode) []catalog.Item {
	out := append([]catalog.Item(nil), items...)
	var value func(catalog.Item) float64
	switch mode {
	case SortLikesHigh, SortLikesLow:
		value = func(item catalog.Item) float64 { return float64(item.Likes) }
	case SortViewsHigh, SortViewsLow:
		value = func(item catalog.Item) float64 { return NumericValue(item.Views) }
	default:
		return out
	}
	descending := mode == SortLikesHigh || mode == SortViewsHigh
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return value(out[i]) > value(out[j])
		}
		return value(out[i]) < value(out[j])
	})
	return out
}

// NumericValue drops every character except digits and '.' and parses what is left as
// a float. Suffix multipliers are ignored, so "1.2K" is 1.2 and ranks below "890".
// A second point ends the parse, so "1.2.3" is 1.2.
func NumericValue(label string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, label)
	return parseFloatPrefix(cleaned)
}

// parseFloatPrefix mimics a lenient float parse: the longest valid prefix wins.
func parseFloatPrefix(s string) float64 {
	end := 0
	dot := false
	digits := false
	for end < len(s) {
		c := s[end]
		if c == '.' {
			if dot {
				break
			}
			dot = true
		} else {
			digits = true
		}
		end++
	}
	if !digits {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0
	}
	return v
}
