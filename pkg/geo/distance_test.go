package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm_Symmetry(t *testing.T) {
	pairs := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
	}{
		{"delhi to gurgaon", 28.6139, 77.2090, 28.4595, 77.0266},
		{"equator crossing", -1.2921, 36.8219, 1.3521, 103.8198},
		{"antimeridian", 64.0, 179.5, 64.0, -179.5},
	}

	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			forward := DistanceKm(p.lat1, p.lon1, p.lat2, p.lon2)
			backward := DistanceKm(p.lat2, p.lon2, p.lat1, p.lon1)
			assert.InDelta(t, forward, backward, 1e-9)
		})
	}
}

func TestDistanceKm_Identity(t *testing.T) {
	assert.Zero(t, DistanceKm(28.6139, 77.2090, 28.6139, 77.2090))
	assert.Zero(t, DistanceKm(0, 0, 0, 0))
}

func TestDistanceKm_KnownDistances(t *testing.T) {
	// Connaught Place to Gurgaon is roughly 25 km as the crow flies.
	d := DistanceKm(28.6139, 77.2090, 28.4595, 77.0266)
	assert.InDelta(t, 24.8, d, 1.0)

	// One degree of latitude is about 111.19 km on a 6371 km sphere.
	d = DistanceKm(0, 0, 1, 0)
	assert.InDelta(t, 111.19, d, 0.1)
}

func TestRoundKm(t *testing.T) {
	assert.Equal(t, 12.35, RoundKm(12.3456))
	assert.Equal(t, 12.34, RoundKm(12.344))
	assert.Equal(t, 0.0, RoundKm(0))
}

func TestValidCoordinate(t *testing.T) {
	assert.True(t, ValidCoordinate(28.6139, 77.2090))
	assert.True(t, ValidCoordinate(-90, 180))
	assert.False(t, ValidCoordinate(90.1, 0))
	assert.False(t, ValidCoordinate(0, -180.5))
}
