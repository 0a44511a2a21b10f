package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/colony-weather-sim/internal/mars"
)

func TestSettlement_StormHandleLifecycle(t *testing.T) {
	s := New("Alpha Base", mars.NewCoordinate(-14.6, 175.5), -2.5)

	assert.Equal(t, None, s.Storm())

	s.SetStorm(StormHandle(7))
	assert.Equal(t, StormHandle(7), s.Storm())

	s.SetStorm(None)
	assert.Equal(t, None, s.Storm())
}

func TestSettlement_Status(t *testing.T) {
	s := New("Port Ares", mars.NewCoordinate(2.3, 28.5), 0.8)
	assert.Empty(t, s.Status())

	s.SetStatus("Port Ares: local dust storm, 120 km across, winds 45 m/s")
	assert.Equal(t, "Port Ares: local dust storm, 120 km across, winds 45 m/s", s.Status())
}

func TestRegistry_Lookup(t *testing.T) {
	alpha := New("Alpha Base", mars.NewCoordinate(-14.6, 175.5), -2.5)
	borealis := New("Borealis Station", mars.NewCoordinate(72.1, 310.0), -4.2)
	r := NewRegistry(alpha, borealis)

	assert.Len(t, r.All(), 2)

	got, ok := r.At(mars.NewCoordinate(-14.6, 175.5))
	require.True(t, ok)
	assert.Same(t, alpha, got)

	_, ok = r.At(mars.NewCoordinate(0, 0))
	assert.False(t, ok)

	elev, ok := r.ElevationAt(mars.NewCoordinate(72.1, 310.0))
	require.True(t, ok)
	assert.Equal(t, -4.2, elev)

	_, ok = r.ElevationAt(mars.NewCoordinate(1, 1))
	assert.False(t, ok)
}
