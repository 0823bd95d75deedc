package route

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/mapnav/internal/game/admin"
	"github.com/udisondev/mapnav/internal/game/pathfind"
)

// entityDijkstra returns the cheapest cost from src to every entity of g.
func entityDijkstra(g *admin.Graph, src int) []float64 {
	dist := make([]float64, g.Len())
	done := make([]bool, g.Len())
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[src] = 0
	for range g.Len() {
		u := -1
		for i := range dist {
			if !done[i] && (u < 0 || dist[i] < dist[u]) {
				u = i
			}
		}
		if u < 0 || math.IsInf(dist[u], 1) {
			break
		}
		done[u] = true
		for _, n := range g.NeighborsOf(u) {
			if d := dist[u] + g.CrossCost(n, nil); d < dist[n] {
				dist[n] = d
			}
		}
	}
	return dist
}

func TestAdminProvinceDetour(t *testing.T) {
	atlas, err := admin.GenerateGridAtlas(1, 1, 3)
	require.NoError(t, err)
	r := newResolver(t, land3x3, DefaultSettings(), WithAtlas(atlas))

	// Free provinces along the middle row do not beat the direct bottom row.
	for _, p := range []int{3, 4, 5} {
		require.NoError(t, r.SetCrossCost(admin.KindProvince, p, 0))
	}
	route, _ := r.FindAdminRoute(AdminRequest{Kind: admin.KindProvince, Start: 0, End: 2})
	require.NotNil(t, route)
	assert.Equal(t, []int{0, 1, 2}, route.Entities)
	assert.InDelta(t, 2.0, route.Cost, 1e-9)

	require.NoError(t, r.SetCrossCost(admin.KindProvince, 1, 5))
	route, _ = r.FindAdminRoute(AdminRequest{Kind: admin.KindProvince, Start: 0, End: 2})
	require.NotNil(t, route)
	assert.Equal(t, []int{0, 3, 4, 5, 2}, route.Entities)
	assert.InDelta(t, 4.0, route.Cost, 1e-9)
}

func TestAdminRejectsNegativeCrossCost(t *testing.T) {
	r := newAtlasResolver(t, 3)
	before := r.Atlas().Countries.Version()

	err := r.SetCrossCost(admin.KindCountry, 1, -5)
	assert.True(t, errors.Is(err, admin.ErrInvalidCost))
	assert.Equal(t, before, r.Atlas().Countries.Version())

	route, _ := r.FindAdminRoute(AdminRequest{Kind: admin.KindCountry, Start: 0, End: 2})
	require.NotNil(t, route)
	assert.InDelta(t, 2.0, route.Cost, 1e-9)
}

func TestAdminOptimalAgainstDijkstra(t *testing.T) {
	atlas, err := admin.GenerateGridAtlas(2, 2, 3)
	require.NoError(t, err)
	r := newResolver(t, land3x3, DefaultSettings(), WithAtlas(atlas))
	provinces := atlas.Provinces

	rng := rand.New(rand.NewSource(7))
	for range 20 {
		for i := range provinces.Len() {
			require.NoError(t, r.SetCrossCost(admin.KindProvince, i, rng.Float64()*3))
		}
		start, end := rng.Intn(provinces.Len()), rng.Intn(provinces.Len())
		if start == end {
			continue
		}
		want := entityDijkstra(provinces, start)[end]

		route, outcome := r.FindAdminRoute(AdminRequest{Kind: admin.KindProvince, Start: start, End: end})
		require.Equal(t, pathfind.OutcomeFound, outcome)
		assert.InDelta(t, want, route.Cost, 1e-9, "%d -> %d", start, end)
	}
}
