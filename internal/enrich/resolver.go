package enrich

import (
	"context"

	"go.uber.org/zap"

	"monumenten/internal/erfgoed"
)

// Resolution is the merged outcome for one identifier.
type Resolution struct {
	Monument erfgoed.MonumentResult
	Gezicht  erfgoed.GezichtResult
	// FallbackID is the successor identifier the results were taken from,
	// empty when the original identifier was used.
	FallbackID string
	// Degraded is set when any lookup failed and was downgraded to a
	// negative result. The output table conflates this with a genuine
	// negative; the audit log does not.
	Degraded bool
}

// Resolver implements the two-tier resolution strategy: both lookups against
// the original identifier, and only on a joint miss a successor resolution
// followed by both lookups against the successor.
type Resolver struct {
	monumenten MonumentLookup
	gezichten  GezichtLookup
	// successors may be nil, which disables the fallback tier.
	successors SuccessorFinder
	log        *zap.Logger
}

// NewResolver wires up a resolver.
func NewResolver(m MonumentLookup, g GezichtLookup, s SuccessorFinder, log *zap.Logger) *Resolver {
	return &Resolver{monumenten: m, gezichten: g, successors: s, log: log}
}

// Resolve never fails: lookup errors are logged and downgraded to negative
// results so the pipeline always completes.
func (r *Resolver) Resolve(ctx context.Context, id string) Resolution {
	var res Resolution
	res.Monument, res.Gezicht, res.Degraded = r.lookupBoth(ctx, id)

	if res.Monument.IsRijksmonument || res.Gezicht.IsBeschermdGezicht || r.successors == nil {
		return res
	}

	successor, err := r.successors.FindSuccessor(ctx, id)
	if err != nil {
		r.log.Warn("successor resolution failed",
			zap.String("identificatie", id),
			zap.Error(err))
		res.Degraded = true
		return res
	}
	if successor == "" {
		return res
	}

	r.log.Info("successor found for verblijfsobject",
		zap.String("identificatie", id),
		zap.String("opvolger", successor))

	res.FallbackID = successor
	monument, gezicht, degraded := r.lookupBoth(ctx, successor)
	res.Monument = monument
	res.Gezicht = gezicht
	res.Degraded = res.Degraded || degraded
	return res
}

func (r *Resolver) lookupBoth(ctx context.Context, id string) (erfgoed.MonumentResult, erfgoed.GezichtResult, bool) {
	degraded := false

	monument, err := r.monumenten.Lookup(ctx, id)
	if err != nil {
		r.log.Warn("rijksmonument lookup downgraded to negative",
			zap.String("identificatie", id),
			zap.Error(err))
		monument = erfgoed.MonumentResult{}
		degraded = true
	}

	gezicht, err := r.gezichten.Lookup(ctx, id)
	if err != nil {
		r.log.Warn("beschermd gezicht lookup downgraded to negative",
			zap.String("identificatie", id),
			zap.Error(err))
		gezicht = erfgoed.GezichtResult{}
		degraded = true
	}

	return monument, gezicht, degraded
}
