// Package enrich orchestrates the per-record enrichment: both heritage
// lookups, the successor fallback on a joint miss, and the merge of the five
// enrichment columns into each record.
package enrich

import (
	"context"

	"monumenten/internal/erfgoed"
)

// MonumentLookup answers whether a verblijfsobject is a rijksmonument.
type MonumentLookup interface {
	Lookup(ctx context.Context, id string) (erfgoed.MonumentResult, error)
}

// GezichtLookup answers whether a verblijfsobject lies in a beschermd
// gezicht.
type GezichtLookup interface {
	Lookup(ctx context.Context, id string) (erfgoed.GezichtResult, error)
}

// SuccessorFinder resolves a historical identifier to its currently valid
// successor at the same address, or empty when there is none.
type SuccessorFinder interface {
	FindSuccessor(ctx context.Context, id string) (string, error)
}
