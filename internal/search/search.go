// Package search matches free-text queries against catalog items and merges remote
// results with local ones.
package search

import (
	"strings"

	"github.com/csheth/carevo/internal/catalog"
)

// Normalize trims the query. An empty result means search is inactive.
func Normalize(query string) string {
	return strings.TrimSpace(query)
}

// Active reports whether query contains anything besides whitespace.
func Active(query string) bool {
	return Normalize(query) != ""
}

// Matches reports whether any of title, subtitle or author contains query, ignoring case.
func Matches(query string, item catalog.Item) bool {
	q := strings.ToLower(Normalize(query))
	if q == "" {
		return false
	}
	for _, field := range []string{item.Title, item.Subtitle, item.Author} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Filter returns the items matching query in their original order.
func Filter(query string, items []catalog.Item) []catalog.Item {
	if !Active(query) {
		return nil
	}
	var out []catalog.Item
	for _, item := range items {
		if Matches(query, item) {
			out = append(out, item)
		}
	}
	return out
}

// Merge lists server results first, in the order returned, followed by local matches
// whose lower-cased title does not equal any server result title. When serverOK is
// false the server slice is ignored and the result is pure local matching.
func Merge(query string, local, server []catalog.Item, serverOK bool) []catalog.Item {
	if !Active(query) {
		return nil
	}
	matches := Filter(query, local)
	if !serverOK {
		return matches
	}

	out := make([]catalog.Item, 0, len(server)+len(matches))
	seen := make(map[string]struct{}, len(server))
	for _, item := range server {
		out = append(out, item)
		seen[strings.ToLower(item.Title)] = struct{}{}
	}
	for _, item := range matches {
		if _, dup := seen[strings.ToLower(item.Title)]; dup {
			continue
		}
		out = append(out, item)
	}
	return out
}
