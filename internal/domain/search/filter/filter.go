// Package filter defines the structured filters for storefront search.
package filter

// Filters narrows a filtered search. All fields are optional and combine
// independently; the zero value matches every product.
type Filters struct {
	available     *bool
	minPriceCents *uint64
	maxPriceCents *uint64
}

// New creates an empty filter set.
func New() Filters {
	return Filters{}
}

// WithAvailable returns a copy filtering by availability
// (true = in stock only, false = out of stock only).
func (f Filters) WithAvailable(v bool) Filters {
	f.available = &v
	return f
}

// WithMinPriceCents returns a copy with an inclusive lower price bound.
func (f Filters) WithMinPriceCents(v uint64) Filters {
	f.minPriceCents = &v
	return f
}

// WithMaxPriceCents returns a copy with an inclusive upper price bound.
func (f Filters) WithMaxPriceCents(v uint64) Filters {
	f.maxPriceCents = &v
	return f
}

// Available returns the availability filter and whether it is set.
func (f Filters) Available() (bool, bool) {
	if f.available == nil {
		return false, false
	}
	return *f.available, true
}

// MinPriceCents returns the lower price bound and whether it is set.
func (f Filters) MinPriceCents() (uint64, bool) {
	if f.minPriceCents == nil {
		return 0, false
	}
	return *f.minPriceCents, true
}

// MaxPriceCents returns the upper price bound and whether it is set.
func (f Filters) MaxPriceCents() (uint64, bool) {
	if f.maxPriceCents == nil {
		return 0, false
	}
	return *f.maxPriceCents, true
}

// HasPriceRange reports whether either price bound is set.
func (f Filters) HasPriceRange() bool {
	return f.minPriceCents != nil || f.maxPriceCents != nil
}

// IsEmpty reports whether no filter is set.
func (f Filters) IsEmpty() bool {
	return f.available == nil && f.minPriceCents == nil && f.maxPriceCents == nil
}
