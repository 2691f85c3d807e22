package view

import "github.com/csheth/carevo/internal/catalog"

// Filter is a tab name on a page.
type Filter string

// FilterAll shows every section on any page.
const FilterAll Filter = "All"

// SortMode orders items inside a section.
type SortMode string

const (
	SortDefault   SortMode = "default"
	SortLikesHigh SortMode = "likes-high"
	SortLikesLow  SortMode = "likes-low"
	SortViewsHigh SortMode = "views-high"
	SortViewsLow  SortMode = "views-low"
)

// Label is the human name of a sort mode.
func (m SortMode) Label() string {
	switch m {
	case SortLikesHigh:
		return "Most Likes"
	case SortLikesLow:
		return "Least Likes"
	case SortViewsHigh:
		return "Most Views"
	case SortViewsLow:
		return "Least Views"
	default:
		return "Default"
	}
}

// SectionSpec describes one named section of a page.
type SectionSpec struct {
	Name  string
	Title string
	// Tab is the filter that shows this section uncapped.
	Tab Filter
	// Sources are concatenated in order to build the section.
	Sources []catalog.Category
	// StarredOnly keeps only starred items from Sources.
	StarredOnly bool
	// Unsorted sections ignore the sort mode.
	Unsorted bool
	// HideEmpty drops the section when it has no items.
	HideEmpty bool
}

// PageSpec is the static description of a dashboard page.
type PageSpec struct {
	Name     string
	Filters  []Filter
	Sorts    []SortMode
	Sections []SectionSpec
	// Visible maps a filter to the section names it shows. Filters missing from the
	// table show every section.
	Visible map[Filter][]string
	// PreviewCap limits sections whose tab is not selected. Zero disables the cap.
	PreviewCap int
	// SearchBase lists the collections searched locally.
	SearchBase []catalog.Category
	// RemoteSearch pages ask the server for matches before merging local ones.
	RemoteSearch bool
	// SortResults pages order search results by the current sort mode.
	SortResults bool
	// Uploads pages accept new items.
	Uploads bool
}

// HasFilter reports whether f is one of the page's tabs.
func (p PageSpec) HasFilter(f Filter) bool {
	for _, candidate := range p.Filters {
		if candidate == f {
			return true
		}
	}
	return false
}

// HasSort reports whether m is offered on the page.
func (p PageSpec) HasSort(m SortMode) bool {
	for _, candidate := range p.Sorts {
		if candidate == m {
			return true
		}
	}
	return false
}

// VisibleSections returns the section names shown for filter, in render order.
func (p PageSpec) VisibleSections(filter Filter) []string {
	names, ok := p.Visible[filter]
	if !ok || filter == FilterAll {
		names = make([]string, 0, len(p.Sections))
		for _, section := range p.Sections {
			names = append(names, section.Name)
		}
		return names
	}
	shown := make(map[string]bool, len(names))
	for _, name := range names {
		shown[name] = true
	}
	out := make([]string, 0, len(names))
	for _, section := range p.Sections {
		if shown[section.Name] {
			out = append(out, section.Name)
		}
	}
	return out
}

// NotesSpec is the notes page.
func NotesSpec() PageSpec {
	return PageSpec{
		Name:    "notes",
		Filters: []Filter{FilterAll, "Trending", "Recent", "Recommended", "Important"},
		Sorts:   []SortMode{SortDefault, SortLikesHigh, SortLikesLow},
		Sections: []SectionSpec{
			{Name: "recommended", Title: "Recommended For You", Tab: "Recommended", Sources: []catalog.Category{catalog.Recommended}},
			{Name: "trending", Title: "Trending Notes", Tab: "Trending", Sources: []catalog.Category{catalog.Trending}},
			{Name: "recent", Title: "Recently Uploaded Notes", Tab: "Recent", Sources: []catalog.Category{catalog.Recent}},
			{
				Name:        "important",
				Title:       "Important Notes",
				Tab:         "Important",
				Sources:     []catalog.Category{catalog.Trending, catalog.Recent, catalog.Recommended},
				StarredOnly: true,
			},
		},
		Visible: map[Filter][]string{
			"Trending":    {"trending"},
			"Recent":      {"recent"},
			"Recommended": {"recommended"},
			"Important":   {"important"},
		},
		PreviewCap:   4,
		SearchBase:   []catalog.Category{catalog.Trending, catalog.Recent, catalog.Recommended},
		RemoteSearch: true,
		Uploads:      true,
	}
}

// LecturesSpec is the lectures page.
func LecturesSpec() PageSpec {
	return PageSpec{
		Name:    "lectures",
		Filters: []Filter{FilterAll, "Live", "Recorded", "Upcoming", "My Subjects"},
		Sorts:   []SortMode{SortDefault, SortViewsHigh, SortViewsLow, SortLikesHigh, SortLikesLow},
		Sections: []SectionSpec{
			{Name: "live", Title: "Live Now", Tab: "Live", Sources: []catalog.Category{catalog.Live}, HideEmpty: true},
			{Name: "upcoming", Title: "Upcoming Lectures", Tab: "Upcoming", Sources: []catalog.Category{catalog.Upcoming}, Unsorted: true, HideEmpty: true},
			{Name: "recent", Title: "Recent Lectures", Tab: "Recorded", Sources: []catalog.Category{catalog.Recent}},
			{Name: "popular", Title: "My Subjects", Tab: "My Subjects", Sources: []catalog.Category{catalog.Popular}},
		},
		Visible: map[Filter][]string{
			"Live":        {"live"},
			"Recorded":    {"recent", "popular"},
			"Upcoming":    {"upcoming"},
			"My Subjects": {"popular"},
		},
		SearchBase:  []catalog.Category{catalog.Live, catalog.Recent, catalog.Popular},
		SortResults: true,
	}
}
