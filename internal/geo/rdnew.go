package geo

// WGS-84 → RD New (EPSG:28992), the Dutch national grid. The heritage-register
// polygons and the BAG geometry endpoints are in this CRS; Kadaster GeoSPARQL
// results come back as WGS-84 lon/lat and need converting before
// point-in-polygon testing.
//
// Implements the RDNAPTRANS approximation polynomials (Schreutelkamp & Strang
// van Hees), accurate to well under a metre anywhere in the Netherlands, which
// is plenty for deciding whether a building sits inside a protected townscape.

const (
	rdBaseX = 155000.0 // Amersfoort, OLV tower
	rdBaseY = 463000.0

	phi0Deg    = 52.15517440
	lambda0Deg = 5.38720621
)

// Polynomial terms: coefficient applied to dPhi^P * dLambda^Q.
type rdTerm struct {
	P, Q int
	C    float64
}

var rdTermsX = []rdTerm{
	{0, 1, 190094.945},
	{1, 1, -11832.228},
	{2, 1, -114.221},
	{0, 3, -32.391},
	{1, 0, -0.705},
	{3, 1, -2.340},
	{1, 3, -0.608},
	{0, 2, -0.008},
	{2, 3, 0.148},
}

var rdTermsY = []rdTerm{
	{1, 0, 309056.544},
	{0, 2, 3638.893},
	{2, 0, 73.077},
	{1, 2, -157.984},
	{3, 0, 59.788},
	{0, 1, 0.433},
	{2, 2, -6.439},
	{1, 1, -0.032},
	{0, 4, 0.092},
	{1, 4, -0.054},
}

// WGS84ToRD converts latitude/longitude in decimal degrees (WGS-84) to
// RD New easting/northing in metres.
func WGS84ToRD(latDeg, lonDeg float64) (x, y float64) {
	dPhi := 0.36 * (latDeg - phi0Deg)
	dLambda := 0.36 * (lonDeg - lambda0Deg)

	x = rdBaseX
	for _, t := range rdTermsX {
		x += t.C * pow(dPhi, t.P) * pow(dLambda, t.Q)
	}
	y = rdBaseY
	for _, t := range rdTermsY {
		y += t.C * pow(dPhi, t.P) * pow(dLambda, t.Q)
	}
	return x, y
}

// pow is an integer power; math.Pow is overkill for exponents this small.
func pow(base float64, exp int) float64 {
	v := 1.0
	for i := 0; i < exp; i++ {
		v *= base
	}
	return v
}
