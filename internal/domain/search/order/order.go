// Package order defines the sort order for storefront search.
package order

// Order is the result sort strategy.
type Order string

// Sort order constants. The string values double as URL parameter values.
const (
	Relevance Order = "relevance"
	PriceAsc  Order = "price-ascending"
	PriceDesc Order = "price-descending"
)

// Parse converts a URL parameter value to an Order.
// Unknown values fall back to Relevance.
func Parse(s string) Order {
	switch s {
	case "price-ascending", "price_asc":
		return PriceAsc
	case "price-descending", "price_desc":
		return PriceDesc
	default:
		return Relevance
	}
}

// IsValid reports whether the order is one of the supported values.
func (o Order) IsValid() bool {
	return o == Relevance || o == PriceAsc || o == PriceDesc
}

// String returns the URL parameter value.
func (o Order) String() string { return string(o) }
