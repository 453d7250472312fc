package geodesy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPolarToCartesianAxisAligned(t *testing.T) {
	// theta=0 (north), elevation=0: all range on the Y axis.
	c := PolarToCartesian(Polar{Rho: 1000, Theta: 0, Elevation: 0})
	require.InDelta(t, 0, c.X, 1e-9)
	require.InDelta(t, 1000, c.Y, 1e-9)
	require.InDelta(t, 0, c.Z, 1e-9)
}

func TestGeocentricToGeodesicPoleBranch(t *testing.T) {
	g, err := GeocentricToGeodesic(Cartesian{X: 0, Y: 0, Z: B + 100})
	require.NoError(t, err)
	require.InDelta(t, math.Pi/2, g.LatRad, 1e-9)
	require.InDelta(t, 100, g.Height, 1e-6)
}

func TestRoundTripNearSite(t *testing.T) {
	site := Site{LatRad: 41.0 * math.Pi / 180, LonRad: 2.0 * math.Pi / 180, Height: 27.25}

	// A point directly above the site, 1000m up, round-trips to
	// approximately the site's own lat/lon.
	local := Cartesian{X: 0, Y: 0, Z: 1000}
	geocentric := RadarCartesianToGeocentric(site, local)
	g, err := GeocentricToGeodesic(geocentric)
	require.NoError(t, err)
	require.InDelta(t, site.LatRad, g.LatRad, 1e-6)
	require.InDelta(t, site.LonRad, g.LonRad, 1e-6)
	require.InDelta(t, site.Height+1000, g.Height, 1e-2)
}

func TestProjectConvergesForArbitrarySites(t *testing.T) {
	sites := []Site{
		{LatRad: 0.1, LonRad: 0.2, Height: 50},
		{LatRad: -0.5, LonRad: 1.0, Height: 1000},
		{LatRad: 1.3, LonRad: -2.5, Height: 0},
	}
	for _, s := range sites {
		g, err := Project(s, 50000, 0.5, 0.1)
		require.NoError(t, err)
		require.False(t, math.IsNaN(g.LatRad))
		require.False(t, math.IsNaN(g.LonRad))
	}
}
