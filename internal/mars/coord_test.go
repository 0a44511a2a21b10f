package mars

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCoordinate_Normalizes(t *testing.T) {
	tests := []struct {
		name             string
		lat, lon         float64
		wantLat, wantLon float64
	}{
		{"in range", 12.5, 44.0, 12.5, 44.0},
		{"lat clamped north", 95, 10, 90, 10},
		{"lat clamped south", -120, 10, -90, 10},
		{"lon wrapped positive", 0, 365, 0, 5},
		{"lon wrapped negative", 0, -10, 0, 350},
		{"lon full turn", 0, 720, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCoordinate(tt.lat, tt.lon)
			assert.Equal(t, tt.wantLat, c.Lat)
			assert.Equal(t, tt.wantLon, c.Lon)
		})
	}
}

func TestNewCoordinate_UsableAsMapKey(t *testing.T) {
	seen := map[Coordinate]int{}
	seen[NewCoordinate(10, -350)]++
	seen[NewCoordinate(10, 10)]++
	seen[NewCoordinate(10, 370)]++
	assert.Len(t, seen, 1)
	assert.Equal(t, 3, seen[NewCoordinate(10, 10)])
}

func TestCoordinate_Offset(t *testing.T) {
	origin := NewCoordinate(0, 100)

	north := origin.Offset(0, 1)
	assert.InDelta(t, 1.0, north.Lat, 1e-9)
	assert.InDelta(t, 100.0, north.Lon, 1e-9)

	east := origin.Offset(90, 1)
	assert.InDelta(t, 0.0, east.Lat, 1e-9)
	assert.InDelta(t, 101.0, east.Lon, 1e-9)

	// Away from the equator an eastward step covers more longitude.
	highLat := NewCoordinate(60, 100).Offset(90, 1)
	assert.InDelta(t, 100+1/math.Cos(60*math.Pi/180), highLat.Lon, 1e-9)
}

func TestCoordinate_String(t *testing.T) {
	assert.Equal(t, "14.6000°S 175.5000°E", NewCoordinate(-14.6, 175.5).String())
	assert.Equal(t, "72.1000°N 310.0000°E", NewCoordinate(72.1, 310).String())
}
