package index

import (
	"math"
	"strings"

	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/nakedpineapple/storesearch/internal/domain"
	"github.com/nakedpineapple/storesearch/internal/domain/search/filter"
)

// minFuzzyTermLen gates fuzzy matching: below this length edit distance 1
// produces too many false positives, so short terms fall back to exact
// (storefront) or prefix (suggestion) matching.
const minFuzzyTermLen = 3

// splitQuery normalizes a raw query (trim, lowercase) and splits it into
// whitespace-delimited terms.
func splitQuery(q string) (normalized string, terms []string) {
	normalized = strings.ToLower(strings.TrimSpace(q))
	return normalized, strings.Fields(normalized)
}

// termClauses builds the per-term disjuncts for full-length matching:
// exact term on title, fuzzy on title and description when the term is
// long enough, and always an exact match on tags.
func termClauses(term string) []query.Query {
	clauses := []query.Query{exactQuery(term, fieldTitleText)}
	if len(term) >= minFuzzyTermLen {
		clauses = append(clauses,
			fuzzyQuery(term, fieldTitleText),
			fuzzyQuery(term, fieldDescriptionText),
		)
	}
	return append(clauses, exactQuery(term, fieldTagsText))
}

// suggestionQuery builds the typeahead query. Short terms use prefix
// matching on title and tags, which works better for partial typing than
// fuzzy at that length; longer terms use the full clause set. All clauses
// across all terms combine as one disjunction: matching any term makes a
// document a candidate, more matches raise its score.
func suggestionQuery(terms []string) query.Query {
	var clauses []query.Query
	for _, term := range terms {
		if len(term) < minFuzzyTermLen {
			clauses = append(clauses,
				prefixQuery(term, fieldTitleText),
				prefixQuery(term, fieldTagsText),
			)
			continue
		}
		clauses = append(clauses, termClauses(term)...)
	}
	return query.NewDisjunctionQuery(clauses)
}

// storefrontQuery builds the filtered search query: the free-text
// disjunction (or match-all for a blank query) required together with
// doc_type == product and any availability/price filters.
func storefrontQuery(terms []string, f filter.Filters) query.Query {
	var text query.Query
	if len(terms) == 0 {
		text = query.NewMatchAllQuery()
	} else {
		var clauses []query.Query
		for _, term := range terms {
			clauses = append(clauses, termClauses(term)...)
		}
		text = query.NewDisjunctionQuery(clauses)
	}

	conjuncts := []query.Query{text, docTypeQuery(domain.DocTypeProduct)}

	if available, ok := f.Available(); ok {
		conjuncts = append(conjuncts, availableQuery(available))
	}

	if f.HasPriceRange() {
		minCents, _ := f.MinPriceCents()
		maxPrice := math.MaxFloat64
		if maxCents, ok := f.MaxPriceCents(); ok {
			maxPrice = float64(maxCents)
		}
		conjuncts = append(conjuncts, priceRangeQuery(float64(minCents), maxPrice))
	}

	return query.NewConjunctionQuery(conjuncts)
}

// facetQuery builds the aggregate-pass query: the same free-text matching
// on titles, restricted to products, deliberately ignoring availability
// and price filters so facet counts describe the whole match set.
func facetQuery(terms []string) query.Query {
	product := docTypeQuery(domain.DocTypeProduct)
	if len(terms) == 0 {
		return product
	}

	var clauses []query.Query
	for _, term := range terms {
		clauses = append(clauses, exactQuery(term, fieldTitleText))
		if len(term) >= minFuzzyTermLen {
			clauses = append(clauses, fuzzyQuery(term, fieldTitleText))
		}
	}

	return query.NewConjunctionQuery([]query.Query{
		product,
		query.NewDisjunctionQuery(clauses),
	})
}

func exactQuery(term, field string) query.Query {
	q := query.NewTermQuery(term)
	q.SetField(field)
	return q
}

func fuzzyQuery(term, field string) query.Query {
	q := query.NewFuzzyQuery(term)
	q.SetField(field)
	q.SetFuzziness(1)
	return q
}

func prefixQuery(term, field string) query.Query {
	q := query.NewPrefixQuery(term)
	q.SetField(field)
	return q
}

func docTypeQuery(t domain.DocType) query.Query {
	q := query.NewTermQuery(string(t))
	q.SetField(fieldDocType)
	return q
}

func availableQuery(v bool) query.Query {
	q := query.NewBoolFieldQuery(v)
	q.SetField(fieldAvailable)
	return q
}

func priceRangeQuery(minPrice, maxPrice float64) query.Query {
	inclusive := true
	q := query.NewNumericRangeInclusiveQuery(&minPrice, &maxPrice, &inclusive, &inclusive)
	q.SetField(fieldPriceCents)
	return q
}
