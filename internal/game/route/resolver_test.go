package route

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/mapnav/internal/game/admin"
	"github.com/udisondev/mapnav/internal/game/costmatrix"
	"github.com/udisondev/mapnav/internal/game/geo"
	"github.com/udisondev/mapnav/internal/game/hexgrid"
	"github.com/udisondev/mapnav/internal/game/pathfind"
	"github.com/udisondev/mapnav/internal/testutil"
)

func newResolver(t *testing.T, rows []string, settings Settings, opts ...Option) *Resolver {
	t.Helper()
	mask, m := testutil.Terrain(t, rows...)
	r, err := New(settings, mask, m, opts...)
	require.NoError(t, err)
	return r
}

func center(r *Resolver, x, y int) geo.Vector2 {
	return geo.ToGeo(geo.GridPoint{X: x, Y: y}, r.Matrix().Width(), r.Matrix().Height())
}

func ground(r *Resolver, sx, sy, ex, ey int) RasterRequest {
	return RasterRequest{
		Start:      center(r, sx, sy),
		End:        center(r, ex, ey),
		Capability: geo.CapabilityGround,
	}
}

var land3x3 = []string{"...", "...", "..."}

func TestNewRejectsMissingCollaborators(t *testing.T) {
	mask, err := geo.MaskFromRows(land3x3)
	require.NoError(t, err)
	m, err := costmatrix.New(3, 3, mask, nil)
	require.NoError(t, err)

	_, err = New(DefaultSettings(), nil, m)
	assert.True(t, errors.Is(err, costmatrix.ErrNilMask))

	_, err = New(DefaultSettings(), mask, nil)
	assert.Error(t, err)
}

func TestRasterThreeByThree(t *testing.T) {
	s := DefaultSettings()
	s.Formula = pathfind.FormulaMaxDXDY
	r := newResolver(t, land3x3, s)

	req := ground(r, 0, 0, 2, 2)
	route, outcome := r.FindRasterRoute(req)
	require.NotNil(t, route)
	assert.Equal(t, pathfind.OutcomeFound, outcome)

	assert.Len(t, route.Points, 5)
	assert.InDelta(t, 4.0, route.Cost, 1e-9)
	assert.Equal(t, geo.GridPoint{X: 0, Y: 0}, route.Cells[0])
	assert.Equal(t, geo.GridPoint{X: 2, Y: 2}, route.Cells[4])
	assert.Equal(t, req.Start, route.Points[0])
	assert.Equal(t, req.End, route.Points[4])
	assert.False(t, route.Snapped)
	assert.Equal(t, r.Matrix().Version(), route.Version)
}

func TestRasterDetourAroundBlockedCenter(t *testing.T) {
	s := DefaultSettings()
	s.Diagonals = true
	r := newResolver(t, land3x3, s)

	open, _ := r.FindRasterRoute(ground(r, 0, 0, 2, 2))
	require.NotNil(t, open)
	assert.InDelta(t, 2*math.Sqrt2, open.Cost, 1e-9)

	require.NoError(t, r.SetCustomRouteCost(center(r, 1, 1), geo.BlockedCost))
	detour, _ := r.FindRasterRoute(ground(r, 0, 0, 2, 2))
	require.NotNil(t, detour)
	assert.NotContains(t, detour.Cells, geo.GridPoint{X: 1, Y: 1})
	// No corner cutting past the blocked cell leaves only straight moves.
	assert.InDelta(t, 4.0, detour.Cost, 1e-9)
	assert.Less(t, detour.Cost, geo.BlockedCost)
}

func TestRasterStartEqualsEnd(t *testing.T) {
	r := newResolver(t, land3x3, DefaultSettings())

	route, outcome := r.FindRasterRoute(ground(r, 1, 1, 1, 1))
	assert.Nil(t, route)
	assert.Equal(t, pathfind.OutcomeInvalid, outcome)
}

func TestRasterLimits(t *testing.T) {
	r := newResolver(t, testutil.Land(11, 1), DefaultSettings())

	req := ground(r, 0, 0, 10, 0)
	req.MaxSteps = 1
	route, outcome := r.FindRasterRoute(req)
	assert.Nil(t, route)
	assert.Equal(t, pathfind.OutcomeLimitExceeded, outcome)

	req = ground(r, 0, 0, 10, 0)
	req.MaxSearchCost = 3
	route, outcome = r.FindRasterRoute(req)
	assert.Nil(t, route)
	assert.Equal(t, pathfind.OutcomeLimitExceeded, outcome)

	// Sentinel limits fall back to the defaults.
	req = ground(r, 0, 0, 10, 0)
	req.MaxSearchCost = -1
	req.MaxSteps = -1
	route, _ = r.FindRasterRoute(req)
	require.NotNil(t, route)
	assert.InDelta(t, 10.0, route.Cost, 1e-9)
}

func TestRasterUnreachable(t *testing.T) {
	r := newResolver(t, []string{"..~.."}, DefaultSettings())

	route, outcome := r.FindRasterRoute(ground(r, 0, 0, 4, 0))
	assert.Nil(t, route)
	assert.Equal(t, pathfind.OutcomeExhausted, outcome)

	// The same map is open to an agent that crosses both.
	req := ground(r, 0, 0, 4, 0)
	req.Capability = geo.CapabilityAny
	route, _ = r.FindRasterRoute(req)
	require.NotNil(t, route)
	assert.Len(t, route.Cells, 5)
}

func TestRasterAltitudeFilter(t *testing.T) {
	mask, err := geo.MaskFromRows([]string{"...", "..."})
	require.NoError(t, err)
	mask.SetAltitude(1, 0, 900)
	mask.SetAltitude(1, 1, 900)
	m, err := costmatrix.New(3, 2, mask, mask)
	require.NoError(t, err)
	r, err := New(DefaultSettings(), mask, m)
	require.NoError(t, err)

	req := ground(r, 0, 0, 2, 0)
	route, _ := r.FindRasterRoute(req)
	require.NotNil(t, route)

	req.Altitude = geo.AltitudeRange{Min: 0, Max: 500}
	route, outcome := r.FindRasterRoute(req)
	assert.Nil(t, route)
	assert.Equal(t, pathfind.OutcomeExhausted, outcome)
}

func TestRasterHookAddsCost(t *testing.T) {
	r := newResolver(t, []string{"..."}, DefaultSettings())

	req := ground(r, 0, 0, 2, 0)
	var seen []geo.Vector2
	req.OnCrossPosition = func(p geo.Vector2) float64 {
		seen = append(seen, p)
		return 2
	}
	route, _ := r.FindRasterRoute(req)
	require.NotNil(t, route)
	assert.InDelta(t, 6.0, route.Cost, 1e-9)
	assert.Contains(t, seen, center(r, 1, 0))
}

func TestRasterEndpointsExact(t *testing.T) {
	r := newResolver(t, []string{"..~"}, DefaultSettings())
	require.NoError(t, r.SetCustomRouteCost(center(r, 2, 0), 1))

	land := ground(r, 0, 0, 1, 0)
	land.Start.X += 0.01
	land.End.X += 0.05
	route, _ := r.FindRasterRoute(land)
	require.NotNil(t, route)
	assert.Equal(t, land.Start, route.Points[0])
	assert.Equal(t, land.End, route.Points[len(route.Points)-1])

	// The destination is water opened by a custom cost: terrain does not
	// suit a ground agent, so the path ends on the cell center.
	water := ground(r, 0, 0, 2, 0)
	water.End.X += 0.05
	route, _ = r.FindRasterRoute(water)
	require.NotNil(t, route)
	assert.Equal(t, center(r, 2, 0), route.Points[len(route.Points)-1])
}

func TestRasterWrapAround(t *testing.T) {
	rows := testutil.Land(10, 1)

	flat := newResolver(t, rows, DefaultSettings())
	route, _ := flat.FindRasterRoute(ground(flat, 0, 0, 9, 0))
	require.NotNil(t, route)
	assert.InDelta(t, 9.0, route.Cost, 1e-9)

	s := DefaultSettings()
	s.WrapHorizontally = true
	wrapped := newResolver(t, rows, s)
	route, _ = wrapped.FindRasterRoute(ground(wrapped, 0, 0, 9, 0))
	require.NotNil(t, route)
	assert.InDelta(t, 1.0, route.Cost, 1e-9)
	assert.Equal(t, []geo.GridPoint{{X: 0, Y: 0}, {X: 9, Y: 0}}, route.Cells)
	// The second point is shifted across the seam instead of spanning the map.
	require.Len(t, route.Points, 2)
	assert.InDelta(t, -0.45, route.Points[0].X, 1e-9)
	assert.InDelta(t, -0.55, route.Points[1].X, 1e-9)
}

func TestUnwrapAccumulates(t *testing.T) {
	points := []geo.Vector2{{X: 0.45}, {X: -0.45}, {X: -0.35}, {X: 0.45}}
	unwrap(points)
	assert.InDelta(t, 0.45, points[0].X, 1e-9)
	assert.InDelta(t, 0.55, points[1].X, 1e-9)
	assert.InDelta(t, 0.65, points[2].X, 1e-9)
	assert.InDelta(t, 0.45, points[3].X, 1e-9)
}

func TestWrapX(t *testing.T) {
	assert.InDelta(t, -0.45, wrapX(geo.Vector2{X: 0.55}).X, 1e-9)
	assert.InDelta(t, 0.45, wrapX(geo.Vector2{X: -0.55}).X, 1e-9)
	assert.InDelta(t, 0.2, wrapX(geo.Vector2{X: 0.2}).X, 1e-9)
}

type seamLocator struct{ seam float64 }

func (l seamLocator) CountryAt(p geo.Vector2) int {
	if math.Abs(p.X-l.seam) < 1e-9 {
		return -1
	}
	return 0
}

func (l seamLocator) ProvinceAt(p geo.Vector2) int { return l.CountryAt(p) }

func TestGroundNudge(t *testing.T) {
	probe := newResolver(t, []string{"..."}, DefaultSettings())
	end := center(probe, 2, 0)

	r := newResolver(t, []string{"..."}, DefaultSettings(), WithLocator(seamLocator{seam: end.X}))
	route, _ := r.FindRasterRoute(ground(r, 0, 0, 2, 0))
	require.NotNil(t, route)

	last := route.Points[len(route.Points)-1]
	prev := route.Points[len(route.Points)-2]
	want := end.Lerp(center(r, 1, 0), 0.1)
	assert.InDelta(t, want.X, last.X, 1e-9)
	assert.Equal(t, center(r, 1, 0), prev)

	// Water agents are never nudged.
	req := ground(r, 0, 0, 2, 0)
	req.Capability = geo.CapabilityAny
	route, _ = r.FindRasterRoute(req)
	require.NotNil(t, route)
	assert.Equal(t, end, route.Points[len(route.Points)-1])
}

func TestWaterSnapWithinRadius(t *testing.T) {
	r := newResolver(t, []string{
		"~~~~....",
		"~~~~....",
		"~~~~....",
	}, DefaultSettings())

	req := RasterRequest{
		Start:      center(r, 0, 1),
		End:        center(r, 6, 1),
		Capability: geo.CapabilityWater,
	}
	route, _ := r.FindRasterRoute(req)
	require.NotNil(t, route)
	assert.True(t, route.Snapped)
	assert.Equal(t, geo.GridPoint{X: 3, Y: 1}, route.Cells[len(route.Cells)-1])
	assert.Equal(t, center(r, 3, 1), route.Points[len(route.Points)-1])
	assert.InDelta(t, 3.0, route.Cost, 1e-9)
}

func TestWaterSnapPrefersCoast(t *testing.T) {
	atlas, err := admin.GenerateGridAtlas(1, 1, 1)
	require.NoError(t, err)
	r := newResolver(t, []string{
		"~~~~~~~~",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
	}, DefaultSettings(), WithAtlas(atlas))

	req := RasterRequest{
		Start:      center(r, 7, 0),
		End:        center(r, 3, 3),
		Capability: geo.CapabilityWater,
	}
	route, _ := r.FindRasterRoute(req)
	require.NotNil(t, route)
	assert.True(t, route.Snapped)
	// The region's corner vertex at (-0.5,-0.5) borders (1,0); the plain
	// radius scan would have chosen (3,0).
	assert.Equal(t, geo.GridPoint{X: 1, Y: 0}, route.Cells[len(route.Cells)-1])
	assert.InDelta(t, 6.0, route.Cost, 1e-9)
}

func TestWaterSnapWalksTowardStart(t *testing.T) {
	s := DefaultSettings()
	s.SnapRadius = 1
	s.SnapStep = 0.1
	r := newResolver(t, []string{"~~........"}, s)

	req := RasterRequest{
		Start:      center(r, 0, 0),
		End:        center(r, 9, 0),
		Capability: geo.CapabilityWater,
	}
	route, _ := r.FindRasterRoute(req)
	require.NotNil(t, route)
	assert.True(t, route.Snapped)
	assert.Equal(t, geo.GridPoint{X: 1, Y: 0}, route.Cells[len(route.Cells)-1])
}

func TestWaterSnapFails(t *testing.T) {
	s := DefaultSettings()
	s.SnapRadius = 1
	s.SnapStep = 0.1
	s.SnapAttempts = 3
	r := newResolver(t, []string{"~........."}, s)

	req := RasterRequest{
		Start:      center(r, 0, 0),
		End:        center(r, 9, 0),
		Capability: geo.CapabilityWater,
	}
	route, outcome := r.FindRasterRoute(req)
	assert.Nil(t, route)
	assert.Equal(t, pathfind.OutcomeInvalid, outcome)
}

func TestRasterDeterministic(t *testing.T) {
	s := DefaultSettings()
	s.Diagonals = true
	r := newResolver(t, []string{
		"........",
		"..~~~...",
		"....~...",
		"..~.~...",
		"........",
	}, s)

	first, _ := r.FindRasterRoute(ground(r, 0, 0, 7, 4))
	require.NotNil(t, first)
	for range 5 {
		again, _ := r.FindRasterRoute(ground(r, 0, 0, 7, 4))
		require.NotNil(t, again)
		assert.Equal(t, first.Cells, again.Cells)
		assert.Equal(t, first.Cost, again.Cost)
	}
}

func newHexResolver(t *testing.T, rows, cols int) *Resolver {
	t.Helper()
	grid, err := hexgrid.New(rows, cols, 1)
	require.NoError(t, err)
	return newResolver(t, testutil.Land(4, 4), DefaultSettings(), WithHexGrid(grid))
}

func TestHexTwoCells(t *testing.T) {
	r := newHexResolver(t, 1, 2)

	route, outcome := r.FindHexRoute(HexRequest{Start: 0, End: 1, Capability: geo.CapabilityGround})
	require.NotNil(t, route)
	assert.Equal(t, pathfind.OutcomeFound, outcome)
	assert.Equal(t, []int{0, 1}, route.Cells)
	assert.InDelta(t, 1.0, route.Cost, 1e-9)
	assert.Equal(t, r.HexGrid().Version(), route.Version)
}

func TestHexDirectionalAsymmetry(t *testing.T) {
	r := newHexResolver(t, 1, 2)
	require.NoError(t, r.SetSideCost(0, hexgrid.SideTopRight, geo.BlockedCost))

	route, outcome := r.FindHexRoute(HexRequest{Start: 0, End: 1, Capability: geo.CapabilityGround})
	assert.Nil(t, route)
	assert.Equal(t, pathfind.OutcomeExhausted, outcome)

	route, _ = r.FindHexRoute(HexRequest{Start: 1, End: 0, Capability: geo.CapabilityGround})
	require.NotNil(t, route)
	assert.Equal(t, []int{1, 0}, route.Cells)
	assert.InDelta(t, 1.0, route.Cost, 1e-9)
}

func TestHexFilters(t *testing.T) {
	r := newHexResolver(t, 1, 3)
	require.NoError(t, r.HexGrid().SetAltitude(1, 500))

	route, _ := r.FindHexRoute(HexRequest{Start: 0, End: 2, Capability: geo.CapabilityGround})
	require.NotNil(t, route)
	assert.Equal(t, []int{0, 1, 2}, route.Cells)

	route, _ = r.FindHexRoute(HexRequest{
		Start: 0, End: 2,
		Capability: geo.CapabilityGround,
		Altitude:   geo.AltitudeRange{Min: 0, Max: 100},
	})
	assert.Nil(t, route)

	route, _ = r.FindHexRoute(HexRequest{Start: 0, End: 2, Capability: geo.CapabilityWater})
	assert.Nil(t, route)
}

func TestHexHookAndSides(t *testing.T) {
	r := newHexResolver(t, 1, 2)

	route, _ := r.FindHexRoute(HexRequest{
		Start: 0, End: 1,
		Capability:  geo.CapabilityGround,
		OnCrossCell: func(cell int) float64 { return float64(cell) * 5 },
	})
	require.NotNil(t, route)
	assert.InDelta(t, 6.0, route.Cost, 1e-9)

	require.NoError(t, r.SetAllSidesCost(0, 3))
	route, _ = r.FindHexRoute(HexRequest{Start: 0, End: 1, Capability: geo.CapabilityGround})
	require.NotNil(t, route)
	assert.InDelta(t, 3.0, route.Cost, 1e-9)
}

func TestHexInvalid(t *testing.T) {
	r := newHexResolver(t, 1, 2)

	for _, req := range []HexRequest{
		{Start: 0, End: 0},
		{Start: -1, End: 1},
		{Start: 0, End: 2},
	} {
		route, outcome := r.FindHexRoute(req)
		assert.Nil(t, route)
		assert.Equal(t, pathfind.OutcomeInvalid, outcome)
	}

	bare := newResolver(t, land3x3, DefaultSettings())
	route, _ := bare.FindHexRoute(HexRequest{Start: 0, End: 1})
	assert.Nil(t, route)
	assert.True(t, errors.Is(bare.SetSideCost(0, hexgrid.SideTop, 1), ErrNoHexGrid))
	assert.True(t, errors.Is(bare.SetAllSidesCost(0, 1), ErrNoHexGrid))
}

func newAtlasResolver(t *testing.T, countriesX int) *Resolver {
	t.Helper()
	atlas, err := admin.GenerateGridAtlas(countriesX, 1, 1)
	require.NoError(t, err)
	return newResolver(t, []string{"......", "......"}, DefaultSettings(), WithAtlas(atlas))
}

func TestAdminThreeCountries(t *testing.T) {
	r := newAtlasResolver(t, 3)

	route, outcome := r.FindAdminRoute(AdminRequest{Kind: admin.KindCountry, Start: 0, End: 2})
	require.NotNil(t, route)
	assert.Equal(t, pathfind.OutcomeFound, outcome)
	assert.Equal(t, []int{0, 1, 2}, route.Entities)
	assert.InDelta(t, 2.0, route.Cost, 1e-9)

	require.NoError(t, r.SetCrossCost(admin.KindCountry, 1, 4))
	route, _ = r.FindAdminRoute(AdminRequest{
		Kind: admin.KindCountry, Start: 0, End: 2,
		OnCrossEntity: func(entity int) float64 { return 0.5 },
	})
	require.NotNil(t, route)
	assert.InDelta(t, 5.5+1.5, route.Cost, 1e-9)

	route, outcome = r.FindAdminRoute(AdminRequest{Kind: admin.KindCountry, Start: 0, End: 2, MaxSearchCost: 3})
	assert.Nil(t, route)
	assert.Equal(t, pathfind.OutcomeLimitExceeded, outcome)
}

func TestAdminBlockedEntity(t *testing.T) {
	r := newAtlasResolver(t, 3)
	require.NoError(t, r.SetCrossCost(admin.KindCountry, 1, geo.BlockedCost))

	route, outcome := r.FindAdminRoute(AdminRequest{Kind: admin.KindCountry, Start: 0, End: 2})
	assert.Nil(t, route)
	assert.Equal(t, pathfind.OutcomeExhausted, outcome)
}

func TestAdminProvinces(t *testing.T) {
	atlas, err := admin.GenerateGridAtlas(1, 1, 3)
	require.NoError(t, err)
	r := newResolver(t, land3x3, DefaultSettings(), WithAtlas(atlas))

	// Provinces are laid out row by row: 0 is bottom-left, 8 top-right.
	route, _ := r.FindAdminRoute(AdminRequest{Kind: admin.KindProvince, Start: 0, End: 8})
	require.NotNil(t, route)
	assert.Len(t, route.Entities, 5)
	assert.InDelta(t, 4.0, route.Cost, 1e-9)
}

func TestAdminInvalid(t *testing.T) {
	r := newAtlasResolver(t, 2)

	route, outcome := r.FindAdminRoute(AdminRequest{Kind: admin.KindCountry, Start: 0, End: 5})
	assert.Nil(t, route)
	assert.Equal(t, pathfind.OutcomeInvalid, outcome)

	bare := newResolver(t, land3x3, DefaultSettings())
	route, _ = bare.FindAdminRoute(AdminRequest{Start: 0, End: 1})
	assert.Nil(t, route)
	assert.True(t, errors.Is(bare.SetCrossCost(admin.KindCountry, 0, 1), ErrNoAtlas))
}
