package marketplace

import (
	"fmt"
	"sort"
	"strings"
)

// applyGigFilter narrows and orders gigs without modifying the input slice.
// Search is checked for emptiness after trimming, but matched as typed.
func applyGigFilter(gigs []Gig, f GigFilter) ([]Gig, error) {
	less, err := gigOrdering(f.Sort)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(f.Search)
	hasSearch := strings.TrimSpace(f.Search) != ""

	out := make([]Gig, 0, len(gigs))
	for _, g := range gigs {
		if f.UserID != "" && g.UserID != f.UserID {
			continue
		}
		if f.Category != "" && g.Category != f.Category {
			continue
		}
		if hasSearch && !strings.Contains(strings.ToLower(g.Title), search) {
			continue
		}
		if f.Min != nil && g.Price < *f.Min {
			continue
		}
		if f.Max != nil && g.Price > *f.Max {
			continue
		}
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, nil
}

func gigOrdering(key SortKey) (func(a, b Gig) bool, error) {
	switch key {
	case "", SortCreatedAt:
		return func(a, b Gig) bool { return a.CreatedAt.After(b.CreatedAt) }, nil
	case SortSales:
		return func(a, b Gig) bool { return a.Sales > b.Sales }, nil
	case SortRating:
		return func(a, b Gig) bool { return a.Rating() > b.Rating() }, nil
	case SortPriceAsc:
		return func(a, b Gig) bool { return a.Price < b.Price }, nil
	case SortPriceDesc:
		return func(a, b Gig) bool { return a.Price > b.Price }, nil
	default:
		return nil, fmt.Errorf("%w: unknown sort %q", ErrInvalidInput, key)
	}
}
