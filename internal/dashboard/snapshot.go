package dashboard

import (
	"github.com/csheth/carevo/internal/catalog"
	"github.com/csheth/carevo/internal/search"
	"github.com/csheth/carevo/internal/view"
)

// Snapshot is a read-only projection of a Page.
type Snapshot struct {
	Page   string
	Mode   Mode
	Input  string
	Query  string
	Filter view.Filter
	Sort   view.SortMode
	// Sections is filled while browsing.
	Sections []view.Section
	// Results is filled while searching.
	Results     []catalog.Item
	ResultCount int
	Searching   bool
	Toast       *Toast
}

// Snapshot computes the current projection.
func (p *Page) Snapshot() Snapshot {
	snap := Snapshot{
		Page:      p.spec.Name,
		Mode:      p.mode,
		Input:     p.input,
		Query:     p.query,
		Filter:    p.filter,
		Sort:      p.sort,
		Searching: p.searching,
	}
	if p.toast != nil {
		t := *p.toast
		snap.Toast = &t
	}
	if p.mode == Browsing {
		snap.Sections = view.Project(p.spec, p.store, p.filter, p.sort)
		return snap
	}
	local := p.store.Union(p.spec.SearchBase...)
	results := search.Merge(p.query, local, p.server, p.serverOK)
	if p.spec.SortResults {
		results = view.Sort(results, p.sort)
	}
	snap.Results = results
	snap.ResultCount = len(results)
	return snap
}
