// Package erfgoed implements the two heritage lookups: rijksmonument status
// from the RCE cultureel-erfgoed dataset and beschermd-gezicht membership
// from the gezicht boundaries combined with the unit geometry.
package erfgoed

import (
	"context"
	"fmt"

	"monumenten/internal/sparql"
)

// Juridische status "rijksmonument" in the RCE dataset.
const rijksmonumentStatus = "rn:b2d9a59a-fe1e-4552-9a05-3c2acddff864"

const monumentURLTemplate = "https://www.monumenten.nl/monument/%s"

const rijksmonumentQueryTemplate = `
PREFIX ceo:<https://linkeddata.cultureelerfgoed.nl/def/ceo#>
PREFIX bag:<http://bag.basisregistraties.overheid.nl/bag/id/>
PREFIX rn:<https://data.cultureelerfgoed.nl/term/id/rn/>
SELECT DISTINCT ?identificatie ?nummer
WHERE {
    ?monument ceo:heeftJuridischeStatus ` + rijksmonumentStatus + ` ;
              ceo:rijksmonumentnummer ?nummer ;
              ceo:heeftBasisregistratieRelatie ?basisregistratieRelatie .
    ?basisregistratieRelatie ceo:heeftBAGRelatie ?bagRelatie .
    ?bagRelatie ceo:verblijfsobjectIdentificatie ?identificatie .
    VALUES ?identificatie { %q }
}
`

// MonumentResult is the outcome of one rijksmonument lookup.
type MonumentResult struct {
	IsRijksmonument bool
	// URL points at the public monument page; empty when not a monument.
	URL string
}

// MonumentClient looks up rijksmonument status per verblijfsobject.
type MonumentClient struct {
	sparql *sparql.Client
}

// NewMonumentClient creates a lookup against the given RCE endpoint client.
func NewMonumentClient(c *sparql.Client) *MonumentClient {
	return &MonumentClient{sparql: c}
}

// Lookup queries the endpoint for the identifier. No rows means the unit is
// not a rijksmonument; that is a valid negative result, not an error.
func (m *MonumentClient) Lookup(ctx context.Context, id string) (MonumentResult, error) {
	rows, err := m.sparql.Select(ctx, fmt.Sprintf(rijksmonumentQueryTemplate, id))
	if err != nil {
		return MonumentResult{}, fmt.Errorf("rijksmonument lookup for %s: %w", id, err)
	}
	if len(rows) == 0 {
		return MonumentResult{}, nil
	}
	nummer := rows[0]["nummer"]
	if nummer == "" {
		return MonumentResult{}, fmt.Errorf("rijksmonument lookup for %s: result row without nummer", id)
	}
	return MonumentResult{
		IsRijksmonument: true,
		URL:             fmt.Sprintf(monumentURLTemplate, nummer),
	}, nil
}
