package store

import (
	"strings"

	"github.com/lucky0011198/AVR-GARMENT/internal/domain"
)

// Filter derives the view a search query produces: parties whose name
// matches keep all their items, otherwise only the items that match are
// kept, and parties left with no items are dropped. Matching is a
// case-insensitive substring test over the party name, the item's text
// fields, its size specs, and the user name and id of every allocation
// entry. An empty (or all-whitespace) query returns the source slice
// unchanged.
func Filter(parties []domain.Party, query string) []domain.Party {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return parties
	}

	var out []domain.Party
	for _, p := range parties {
		if contains(p.Name, q) {
			out = append(out, p)
			continue
		}
		var matched []domain.Item
		for _, it := range p.Items {
			if itemMatches(it, q) {
				matched = append(matched, it)
			}
		}
		if len(matched) > 0 {
			filtered := p
			filtered.Items = matched
			out = append(out, filtered)
		}
	}
	return out
}

func itemMatches(it domain.Item, q string) bool {
	for _, field := range []string{it.ID, it.Name, it.Description, it.Received, it.Cut, it.Collected} {
		if contains(field, q) {
			return true
		}
	}
	for _, size := range it.Sizes {
		if contains(size, q) {
			return true
		}
	}
	for _, entry := range it.Allocations {
		if contains(entry.User.Name, q) || contains(entry.User.ID, q) {
			return true
		}
	}
	return false
}

func contains(s, q string) bool {
	return strings.Contains(strings.ToLower(s), q)
}
