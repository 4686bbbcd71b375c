package erfgoed

import (
	"context"
	"fmt"

	"monumenten/internal/geo"
	"monumenten/internal/sparql"
)

// Gezichtsstatus "vastgesteld" in the RCE dataset; only established gezichten
// count for protection.
const gezichtStatus = "rn:fd968529-bf70-4afa-8564-7c6c2fcfcc54"

const gezichtenQuery = `
PREFIX ceo:<https://linkeddata.cultureelerfgoed.nl/def/ceo#>
PREFIX rn:<https://data.cultureelerfgoed.nl/term/id/rn/>
PREFIX geo: <http://www.opengis.net/ont/geosparql#>
SELECT DISTINCT ?gezicht ?naam ?gezichtWKT
WHERE {
  ?gezicht
      ceo:heeftGeometrie ?gezichtGeometrie ;
      ceo:heeftGezichtsstatus ` + gezichtStatus + `;
      ceo:heeftNaam/ceo:naam ?naam.
  ?gezichtGeometrie geo:asWKT ?gezichtWKT.
}
`

const verblijfsobjectGeometryQueryTemplate = `
PREFIX sor: <https://data.kkg.kadaster.nl/sor/model/def/>
PREFIX nen3610: <https://data.kkg.kadaster.nl/nen3610/model/def/>
PREFIX geo: <http://www.opengis.net/ont/geosparql#>
SELECT DISTINCT ?identificatie ?verblijfsobjectWKT
WHERE {
  ?verblijfsobject sor:geregistreerdMet/nen3610:identificatie ?identificatie .
  ?verblijfsobject geo:hasGeometry/geo:asWKT ?verblijfsobjectWKT.
  FILTER (?identificatie IN ( %q ))
}
`

// GezichtResult is the outcome of one protected-area lookup.
type GezichtResult struct {
	IsBeschermdGezicht bool
	// Naam is the gezicht name; empty when the unit is outside every
	// gezicht.
	Naam string
}

// Gezicht is one protected townscape: a name plus its boundary polygons in
// RD New coordinates.
type Gezicht struct {
	Naam     string
	Polygons []geo.Polygon
}

// GezichtIndex answers point-in-gezicht queries. Loaded once at startup; the
// boundary set is small (a few hundred polygons nationwide).
type GezichtIndex struct {
	gezichten []Gezicht
}

// NewGezichtIndex builds an index over the given gezichten.
func NewGezichtIndex(gezichten []Gezicht) *GezichtIndex {
	return &GezichtIndex{gezichten: gezichten}
}

// Len returns the number of gezichten in the index.
func (idx *GezichtIndex) Len() int { return len(idx.gezichten) }

// Find returns the name of the first gezicht containing the point.
func (idx *GezichtIndex) Find(pt geo.Point) (string, bool) {
	for _, g := range idx.gezichten {
		for _, poly := range g.Polygons {
			if poly.Contains(pt) {
				return g.Naam, true
			}
		}
	}
	return "", false
}

// LoadGezichtenSPARQL fetches all established gezicht boundaries from the
// RCE endpoint and builds the index. This runs once, before any row is
// processed; failure here aborts the run.
func LoadGezichtenSPARQL(ctx context.Context, c *sparql.Client) (*GezichtIndex, error) {
	rows, err := c.Select(ctx, gezichtenQuery)
	if err != nil {
		return nil, fmt.Errorf("load beschermde gezichten: %w", err)
	}
	gezichten := make([]Gezicht, 0, len(rows))
	for _, row := range rows {
		polygons, err := geo.ParsePolygonsRD(row["gezichtWKT"])
		if err != nil {
			return nil, fmt.Errorf("parse boundary of gezicht %q: %w", row["naam"], err)
		}
		gezichten = append(gezichten, Gezicht{Naam: row["naam"], Polygons: polygons})
	}
	return NewGezichtIndex(gezichten), nil
}

// GezichtClient determines protected-area membership per verblijfsobject by
// fetching the unit's point geometry from the Kadaster endpoint and testing
// it against the gezicht boundaries.
type GezichtClient struct {
	kadaster *sparql.Client
	index    *GezichtIndex
}

// NewGezichtClient creates a lookup from a Kadaster endpoint client and a
// loaded boundary index.
func NewGezichtClient(kadaster *sparql.Client, index *GezichtIndex) *GezichtClient {
	return &GezichtClient{kadaster: kadaster, index: index}
}

// Lookup resolves the unit geometry and tests gezicht membership. An
// identifier unknown to the Kadaster dataset yields a negative result; a
// failing endpoint yields an error for the caller to downgrade.
func (g *GezichtClient) Lookup(ctx context.Context, id string) (GezichtResult, error) {
	rows, err := g.kadaster.Select(ctx, fmt.Sprintf(verblijfsobjectGeometryQueryTemplate, id))
	if err != nil {
		return GezichtResult{}, fmt.Errorf("verblijfsobject geometry for %s: %w", id, err)
	}
	if len(rows) == 0 {
		return GezichtResult{}, nil
	}
	pt, err := geo.ParsePointRD(rows[0]["verblijfsobjectWKT"])
	if err != nil {
		return GezichtResult{}, fmt.Errorf("verblijfsobject geometry for %s: %w", id, err)
	}
	if naam, ok := g.index.Find(pt); ok {
		return GezichtResult{IsBeschermdGezicht: true, Naam: naam}, nil
	}
	return GezichtResult{}, nil
}
