package route

import (
	"github.com/udisondev/mapnav/internal/game/admin"
	"github.com/udisondev/mapnav/internal/game/costmatrix"
	"github.com/udisondev/mapnav/internal/game/geo"
	"github.com/udisondev/mapnav/internal/game/hexgrid"
	"github.com/udisondev/mapnav/internal/game/pathfind"
)

var (
	orthogonal = [4]geo.GridPoint{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}
	diagonal   = [4]geo.GridPoint{{X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
)

// rasterGraph adapts a cost matrix view to the search.
type rasterGraph struct {
	view      costmatrix.View
	formula   pathfind.Formula
	diagonals bool
	diagCost  float64
	wrap      bool
}

// step moves p by d, wrapping X when enabled.
func (g *rasterGraph) step(p, d geo.GridPoint) geo.GridPoint {
	q := geo.GridPoint{X: p.X + d.X, Y: p.Y + d.Y}
	if g.wrap {
		w := g.view.Width()
		q.X = ((q.X % w) + w) % w
	}
	return q
}

func (g *rasterGraph) open(p geo.GridPoint) bool {
	_, ok := g.view.Cost(p)
	return ok
}

func (g *rasterGraph) Neighbors(p geo.GridPoint, buf []pathfind.Edge[geo.GridPoint]) []pathfind.Edge[geo.GridPoint] {
	for _, d := range orthogonal {
		q := g.step(p, d)
		if c, ok := g.view.Cost(q); ok {
			buf = append(buf, pathfind.Edge[geo.GridPoint]{To: q, Cost: c})
		}
	}
	if !g.diagonals {
		return buf
	}
	for _, d := range diagonal {
		q := g.step(p, d)
		c, ok := g.view.Cost(q)
		if !ok {
			continue
		}
		// No corner cutting: both orthogonal cells must be open.
		if !g.open(g.step(p, geo.GridPoint{X: d.X})) || !g.open(g.step(p, geo.GridPoint{Y: d.Y})) {
			continue
		}
		buf = append(buf, pathfind.Edge[geo.GridPoint]{To: q, Cost: c * g.diagCost})
	}
	return buf
}

func (g *rasterGraph) Heuristic(p, goal geo.GridPoint) float64 {
	dx := geo.Abs(p.X - goal.X)
	if g.wrap {
		dx = min(dx, g.view.Width()-dx)
	}
	dy := geo.Abs(p.Y - goal.Y)
	return g.formula.Estimate(float64(dx), float64(dy), g.heuristicDiagCost()) * g.view.MinStepCost()
}

// heuristicDiagCost is the diagonal factor the octile formula may assume.
// Without diagonal moves a diagonal costs two straight steps.
func (g *rasterGraph) heuristicDiagCost() float64 {
	if !g.diagonals {
		return 2
	}
	return g.diagCost
}

// hexGraph adapts the hex grid to the search. Capability and altitude are
// evaluated per cell once per query.
type hexGraph struct {
	grid       *hexgrid.Grid
	mask       geo.WaterMask
	capability geo.Capability
	altitude   geo.AltitudeRange

	passable []int8 // 0 unknown, 1 open, -1 closed
}

func newHexGraph(grid *hexgrid.Grid, mask geo.WaterMask, capability geo.Capability, altitude geo.AltitudeRange) *hexGraph {
	return &hexGraph{
		grid:       grid,
		mask:       mask,
		capability: capability,
		altitude:   altitude,
		passable:   make([]int8, grid.Len()),
	}
}

func (g *hexGraph) open(index int) bool {
	switch g.passable[index] {
	case 1:
		return true
	case -1:
		return false
	}
	ok := g.evaluate(index)
	if ok {
		g.passable[index] = 1
	} else {
		g.passable[index] = -1
	}
	return ok
}

func (g *hexGraph) evaluate(index int) bool {
	water := g.mask.IsWater(g.grid.Cell(index).Center)
	if !g.capability.Allows(geo.TerrainOf(water)) {
		return false
	}
	if water || g.altitude.Unbounded() {
		return true
	}
	return g.altitude.Contains(g.grid.Altitude(index))
}

func (g *hexGraph) Neighbors(index int, buf []pathfind.Edge[int]) []pathfind.Edge[int] {
	for s, n := range g.grid.Cell(index).Neighbors {
		if n < 0 {
			continue
		}
		c := g.grid.CrossCost(index, hexgrid.Side(s))
		if c >= geo.BlockedCost || !g.open(n) {
			continue
		}
		buf = append(buf, pathfind.Edge[int]{To: n, Cost: c})
	}
	return buf
}

func (g *hexGraph) Heuristic(index, goal int) float64 {
	return float64(g.grid.Distance(index, goal)) * g.grid.MinSideCost()
}

// adminGraph adapts one admin layer to the search.
type adminGraph struct {
	graph *admin.Graph
	hook  func(entity int) float64
}

func (g *adminGraph) Neighbors(index int, buf []pathfind.Edge[int]) []pathfind.Edge[int] {
	for _, n := range g.graph.NeighborsOf(index) {
		c := g.graph.CrossCost(n, g.hook)
		if c >= geo.BlockedCost {
			continue
		}
		buf = append(buf, pathfind.Edge[int]{To: n, Cost: c})
	}
	return buf
}

func (g *adminGraph) Heuristic(index, goal int) float64 {
	return g.graph.Estimate(index, goal)
}
