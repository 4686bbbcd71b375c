package erfgoed

import (
	"fmt"
	"strings"

	shp "github.com/jonas-p/go-shp"

	"monumenten/internal/geo"
)

// LoadGezichtenShapefile builds the gezicht index from a local boundary
// shapefile instead of the SPARQL endpoint. The layer must be in RD New
// (EPSG:28992), which is what the RCE publishes its downloads in; nameField
// is the DBF attribute carrying the gezicht name.
func LoadGezichtenShapefile(path, nameField string) (*GezichtIndex, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gezichten shapefile %s: %w", path, err)
	}
	defer r.Close()

	nameIdx := -1
	for i, f := range r.Fields() {
		if strings.EqualFold(f.String(), nameField) {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return nil, fmt.Errorf("gezichten shapefile %s has no %q attribute", path, nameField)
	}

	var gezichten []Gezicht
	for r.Next() {
		idx, shape := r.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			// Skip non-polygon geometries (shouldn't exist in a boundary layer)
			continue
		}

		// Split the flat points slice into rings.
		numParts := len(poly.Parts)
		rings := make([]geo.Ring, numParts)
		for partIdx := 0; partIdx < numParts; partIdx++ {
			start := poly.Parts[partIdx]
			end := int32(len(poly.Points))
			if partIdx+1 < numParts {
				end = poly.Parts[partIdx+1]
			}
			ring := make(geo.Ring, 0, int(end-start))
			for i := start; i < end; i++ {
				pt := poly.Points[i]
				ring = append(ring, geo.Point{X: pt.X, Y: pt.Y})
			}
			rings[partIdx] = ring
		}

		gezichten = append(gezichten, Gezicht{
			Naam:     r.ReadAttribute(idx, nameIdx),
			Polygons: []geo.Polygon{geo.NewPolygon(rings)},
		})
	}
	return NewGezichtIndex(gezichten), nil
}
