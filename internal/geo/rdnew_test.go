package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWGS84ToRD_BasePoint(t *testing.T) {
	// The OLV tower in Amersfoort is the origin of the approximation and
	// must map onto the false origin exactly.
	x, y := WGS84ToRD(52.15517440, 5.38720621)
	assert.InDelta(t, 155000.0, x, 0.001)
	assert.InDelta(t, 463000.0, y, 0.001)
}

func TestWGS84ToRD_Westertoren(t *testing.T) {
	// Reference point from the RDNAPTRANS approximation publication.
	x, y := WGS84ToRD(52.37453253, 4.88352559)
	assert.InDelta(t, 120700.7, x, 2.0)
	assert.InDelta(t, 487525.5, y, 2.0)
}

func TestWGS84ToRD_Orientation(t *testing.T) {
	x0, y0 := WGS84ToRD(52.0, 5.0)

	// North increases Y, east increases X.
	_, yN := WGS84ToRD(52.1, 5.0)
	xE, _ := WGS84ToRD(52.0, 5.1)
	assert.Greater(t, yN, y0)
	assert.Greater(t, xE, x0)

	// One degree of latitude is on the order of 111 km.
	_, y1 := WGS84ToRD(53.0, 5.0)
	assert.InDelta(t, 111000.0, y1-y0, 1000.0)
}
