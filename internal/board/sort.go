package board

import (
	"sort"
	"strings"

	"github.com/salesdeck/crm-backend/internal/leads"
)

// SortKey selects the ordering of the filtered lead collection.
type SortKey string

const (
	SortByScore   SortKey = "score"
	SortByValue   SortKey = "value"
	SortByUpdated SortKey = "updated"
	SortByCreated SortKey = "created"
	SortByName    SortKey = "name"
)

// Valid reports whether k is a known sort key.
func (k SortKey) Valid() bool {
	switch k {
	case SortByScore, SortByValue, SortByUpdated, SortByCreated, SortByName:
		return true
	}
	return false
}

// SortLeads returns a new slice ordered by the key. Numeric and date keys
// sort descending, name sorts ascending (case-insensitive). The sort is
// stable: equal keys keep their relative input order, so stage columns
// stay deterministic.
func SortLeads(in []*leads.Lead, key SortKey) []*leads.Lead {
	out := append([]*leads.Lead(nil), in...)

	var less func(a, b *leads.Lead) bool
	switch key {
	case SortByValue:
		less = func(a, b *leads.Lead) bool { return a.Value > b.Value }
	case SortByUpdated:
		less = func(a, b *leads.Lead) bool { return a.UpdatedAt.After(b.UpdatedAt) }
	case SortByCreated:
		less = func(a, b *leads.Lead) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortByName:
		less = func(a, b *leads.Lead) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	default: // SortByScore
		less = func(a, b *leads.Lead) bool { return a.Score > b.Score }
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
