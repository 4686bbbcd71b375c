// Package geo provides the small amount of geometry the enrichment pipeline
// needs: WKT parsing for the heritage datasets, point-in-polygon testing and
// conversion from WGS-84 to the Dutch RD New grid (EPSG:28992).
package geo

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a position in RD New coordinates (metres).
type Point struct {
	X float64
	Y float64
}

// Ring is a closed sequence of points. Shapefile and WKT rings repeat the
// first point at the end; Contains does not require that.
type Ring []Point

// Polygon is one polygon with optional interior (hole) rings, plus its
// bounding box for quick rejection.
type Polygon struct {
	Rings []Ring

	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// NewPolygon builds a polygon from its rings and computes the bounding box.
func NewPolygon(rings []Ring) Polygon {
	p := Polygon{Rings: rings}
	first := true
	for _, ring := range rings {
		for _, pt := range ring {
			if first {
				p.MinX, p.MaxX = pt.X, pt.X
				p.MinY, p.MaxY = pt.Y, pt.Y
				first = false
				continue
			}
			if pt.X < p.MinX {
				p.MinX = pt.X
			}
			if pt.X > p.MaxX {
				p.MaxX = pt.X
			}
			if pt.Y < p.MinY {
				p.MinY = pt.Y
			}
			if pt.Y > p.MaxY {
				p.MaxY = pt.Y
			}
		}
	}
	return p
}

// Contains reports whether the point lies inside the polygon, using the
// even-odd ray-casting rule across all rings so holes are excluded.
func (p Polygon) Contains(pt Point) bool {
	if pt.X < p.MinX || pt.X > p.MaxX || pt.Y < p.MinY || pt.Y > p.MaxY {
		return false // quick bbox reject
	}
	inside := false
	for _, ring := range p.Rings {
		j := len(ring) - 1
		for i := 0; i < len(ring); i++ {
			xi, yi := ring[i].X, ring[i].Y
			xj, yj := ring[j].X, ring[j].Y
			if ((yi > pt.Y) != (yj > pt.Y)) && pt.X < (xj-xi)*(pt.Y-yi)/(yj-yi)+xi {
				inside = !inside
			}
			j = i
		}
	}
	return inside
}

// ParsePointRD parses a WKT POINT literal and returns it in RD New
// coordinates. Literals carrying an EPSG:28992 CRS prefix are taken as-is;
// anything else is assumed to be WGS-84 lon/lat and projected.
func ParsePointRD(wkt string) (Point, error) {
	crs, geom := splitCRS(wkt)
	body, err := geometryBody(geom, "POINT")
	if err != nil {
		return Point{}, err
	}
	coords, err := parseCoords(body)
	if err != nil {
		return Point{}, err
	}
	if len(coords) != 1 {
		return Point{}, fmt.Errorf("point literal has %d positions", len(coords))
	}
	pt := coords[0]
	if isRD(crs) {
		return pt, nil
	}
	x, y := WGS84ToRD(pt.Y, pt.X) // lon/lat order in WKT
	return Point{X: x, Y: y}, nil
}

// ParsePolygonsRD parses a WKT POLYGON or MULTIPOLYGON literal into RD New
// polygons, projecting WGS-84 coordinates when the literal has no EPSG:28992
// CRS prefix.
func ParsePolygonsRD(wkt string) ([]Polygon, error) {
	crs, geom := splitCRS(wkt)
	upper := strings.ToUpper(strings.TrimSpace(geom))

	var bodies []string
	switch {
	case strings.HasPrefix(upper, "MULTIPOLYGON"):
		body, err := geometryBody(geom, "MULTIPOLYGON")
		if err != nil {
			return nil, err
		}
		gs, err := groups(body)
		if err != nil {
			return nil, err
		}
		bodies = gs
	case strings.HasPrefix(upper, "POLYGON"):
		body, err := geometryBody(geom, "POLYGON")
		if err != nil {
			return nil, err
		}
		bodies = []string{body}
	default:
		return nil, fmt.Errorf("unsupported geometry %q", firstWord(geom))
	}

	polygons := make([]Polygon, 0, len(bodies))
	for _, body := range bodies {
		ringGroups, err := groups(body)
		if err != nil {
			return nil, err
		}
		rings := make([]Ring, 0, len(ringGroups))
		for _, rg := range ringGroups {
			coords, err := parseCoords(rg)
			if err != nil {
				return nil, err
			}
			ring := make(Ring, len(coords))
			for i, pt := range coords {
				if isRD(crs) {
					ring[i] = pt
				} else {
					x, y := WGS84ToRD(pt.Y, pt.X)
					ring[i] = Point{X: x, Y: y}
				}
			}
			rings = append(rings, ring)
		}
		polygons = append(polygons, NewPolygon(rings))
	}
	return polygons, nil
}

// splitCRS separates the optional <crs-uri> prefix GeoSPARQL literals carry
// from the geometry text.
func splitCRS(wkt string) (crs, geom string) {
	s := strings.TrimSpace(wkt)
	if strings.HasPrefix(s, "<") {
		if end := strings.Index(s, ">"); end > 0 {
			return s[1:end], strings.TrimSpace(s[end+1:])
		}
	}
	return "", s
}

func isRD(crs string) bool {
	return strings.Contains(crs, "28992")
}

// geometryBody strips the keyword and the outermost parentheses, returning
// the inner text of the geometry.
func geometryBody(geom, keyword string) (string, error) {
	s := strings.TrimSpace(geom)
	if !strings.HasPrefix(strings.ToUpper(s), keyword) {
		return "", fmt.Errorf("expected %s literal, got %q", keyword, firstWord(s))
	}
	s = strings.TrimSpace(s[len(keyword):])
	gs, err := groups(s)
	if err != nil {
		return "", err
	}
	if len(gs) != 1 {
		return "", fmt.Errorf("malformed %s literal", keyword)
	}
	return gs[0], nil
}

// groups returns the contents of each top-level parenthesized group in s.
func groups(s string) ([]string, error) {
	var out []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			if depth == 0 {
				start = i + 1
			}
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parentheses in geometry")
			}
			if depth == 0 {
				out = append(out, s[start:i])
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parentheses in geometry")
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty geometry")
	}
	return out, nil
}

// parseCoords parses a comma-separated list of "x y" positions. A third
// (height) ordinate is tolerated and dropped.
func parseCoords(s string) ([]Point, error) {
	parts := strings.Split(s, ",")
	points := make([]Point, 0, len(parts))
	for _, part := range parts {
		fields := strings.Fields(part)
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed coordinate %q", strings.TrimSpace(part))
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed ordinate %q", fields[0])
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed ordinate %q", fields[1])
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points, nil
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
