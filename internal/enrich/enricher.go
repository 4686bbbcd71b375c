package enrich

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"monumenten/internal/table"
)

// Columns are the enrichment columns, appended to the input header in this
// order.
var Columns = []string{
	"is_rijksmonument",
	"rijksmonument_url",
	"is_beschermd_gezicht",
	"beschermd_gezicht_naam",
	"fallback_bag_verblijfsobject_id",
}

// Enricher runs the resolution for every record and merges the outcome into
// the table.
type Enricher struct {
	resolver *Resolver
	log      *zap.Logger
}

// NewEnricher creates an enricher.
func NewEnricher(resolver *Resolver, log *zap.Logger) *Enricher {
	return &Enricher{resolver: resolver, log: log}
}

// Run processes the records strictly in order, one at a time, appending the
// enrichment columns to the table. Lookup failures never abort the run; only
// cancellation does.
func (e *Enricher) Run(ctx context.Context, t *table.Table, idColumn string) error {
	t.Columns = append(t.Columns, Columns...)

	for _, rec := range t.Records {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("enrichment interrupted: %w", err)
		}

		id := rec[idColumn]
		res := e.resolver.Resolve(ctx, id)

		rec["is_rijksmonument"] = table.FormatBool(res.Monument.IsRijksmonument)
		rec["rijksmonument_url"] = res.Monument.URL
		rec["is_beschermd_gezicht"] = table.FormatBool(res.Gezicht.IsBeschermdGezicht)
		rec["beschermd_gezicht_naam"] = res.Gezicht.Naam
		rec["fallback_bag_verblijfsobject_id"] = res.FallbackID

		e.log.Info("verblijfsobject verwerkt",
			zap.String("identificatie", id),
			zap.Bool("rijksmonument", res.Monument.IsRijksmonument),
			zap.Bool("beschermd_gezicht", res.Gezicht.IsBeschermdGezicht),
			zap.Bool("fallback", res.FallbackID != ""),
			zap.String("fallback_identificatie", res.FallbackID),
			zap.Bool("degraded", res.Degraded))
	}
	return nil
}
