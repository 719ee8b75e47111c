package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// stripHTML removes tags and decodes the common entities from catalog
// description HTML, leaving plain text for storage and matching.
func stripHTML(html string) string {
	var b strings.Builder
	b.Grow(len(html))

	inTag := false
	for _, c := range html {
		switch {
		case c == '<':
			inTag = true
		case c == '>':
			inTag = false
		case !inTag:
			b.WriteRune(c)
		}
	}

	r := strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
	return r.Replace(b.String())
}

// formatPrice renders a decimal amount as a display price string.
func formatPrice(amount string) string {
	n, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return "$" + amount
	}
	return fmt.Sprintf("$%.2f", n)
}

// parsePriceCents converts a decimal amount to cents ("24.99" -> 2499).
// Unparseable or negative amounts become 0.
func parsePriceCents(amount string) uint64 {
	n, err := strconv.ParseFloat(amount, 64)
	if err != nil || n < 0 {
		return 0
	}
	return uint64(math.Round(n * 100))
}
