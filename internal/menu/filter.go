// Package menu contains pure helpers over a fetched menu snapshot.
package menu

import (
	"strings"

	"cuisineberg/internal/domain"
)

// Filter returns the items whose name contains query, case-insensitively,
// keeping the input order. An empty query returns the input unmodified.
// Safe to call on every keystroke.
func Filter(items []domain.MenuItem, query string) []domain.MenuItem {
	if query == "" {
		return items
	}
	needle := strings.ToLower(query)
	out := make([]domain.MenuItem, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), needle) {
			out = append(out, item)
		}
	}
	return out
}
