package product

import (
	"fmt"
	"strings"
)

const searchBaseQuery = `
SELECT p.id::text, p.title, p.slug, COALESCE(p.description, ''), p.unit_price, p.inventory, p.is_active, p.category_id::text, p.created_at, p.updated_at,
       c.id::text, c.title, c.slug, COALESCE(c.description, ''), c.created_at, c.updated_at
FROM products p
JOIN categories c ON c.id = p.category_id
WHERE TRUE`

// likeEscaper neutralizes LIKE wildcards inside search words so they match
// literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildSearchQuery composes the product search SQL from the optional criteria.
//
// Search text is split into words, each contributing its own ILIKE predicate,
// so a product matches only when its description contains every word. Tag ids
// each contribute their own EXISTS predicate: a product must carry every
// requested tag. Folding the tag ids into a single membership test would relax
// the intersection to a union, which is not what the filter UI promises.
//
// Ids are compared as text so an unknown or malformed id yields an empty
// result set instead of a cast error.
func buildSearchQuery(f Filter) (string, []interface{}) {
	var (
		sb   strings.Builder
		args []interface{}
	)
	sb.WriteString(searchBaseQuery)

	for _, word := range strings.Fields(f.Search) {
		args = append(args, likeEscaper.Replace(word))
		fmt.Fprintf(&sb, "\n  AND p.description ILIKE '%%' || $%d || '%%'", len(args))
	}

	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		fmt.Fprintf(&sb, "\n  AND p.category_id::text = $%d", len(args))
	}

	for _, tagID := range f.TagIDs {
		args = append(args, tagID)
		fmt.Fprintf(&sb, "\n  AND EXISTS (SELECT 1 FROM product_tags pt WHERE pt.product_id = p.id AND pt.tag_id::text = $%d)", len(args))
	}

	sb.WriteString("\nORDER BY p.title ASC")
	return sb.String(), args
}
