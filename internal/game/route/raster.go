package route

import (
	"math"

	"github.com/udisondev/mapnav/internal/game/geo"
	"github.com/udisondev/mapnav/internal/game/pathfind"
)

// RasterRequest is a route query over the raster cost matrix.
type RasterRequest struct {
	Start, End geo.Vector2
	Capability geo.Capability
	Altitude   geo.AltitudeRange

	// MaxSearchCost and MaxSteps fall back to Settings when <= 0.
	MaxSearchCost float64
	MaxSteps      int

	// OnCrossPosition adds cost for entering the cell centered at a
	// position. Must not return negative values.
	OnCrossPosition func(position geo.Vector2) float64
}

// RasterRoute is a found raster route.
type RasterRoute struct {
	// Points are geographic positions; the first is the exact start and the
	// last is the exact destination when its terrain suits the capability.
	Points []geo.Vector2
	// Cells are the matrix cells the route walks through.
	Cells    []geo.GridPoint
	Cost     float64
	Expanded int
	// Version of the cost matrix the route was computed against.
	Version uint64
	// Snapped is set when a water-only destination was moved to water.
	Snapped bool
}

// FindRasterRoute searches the raster cost matrix. It returns nil when no
// route exists, together with the reason.
func (r *Resolver) FindRasterRoute(req RasterRequest) (*RasterRoute, pathfind.Outcome) {
	r.matrix.Build(req.Capability, req.Altitude)
	view := r.matrix.View()
	w, h := view.Width(), view.Height()

	start := geo.ToMatrix(req.Start, w, h)
	goal := geo.ToMatrix(req.End, w, h)
	end := req.End
	snapped := false

	if req.Capability.WaterOnly() && view.Terrain(goal)&geo.TerrainWater == 0 {
		cell, ok := r.snapToWater(view, req.Start, req.End)
		if !ok {
			r.log.Warn("water destination snapping failed", "end", req.End)
			return nil, pathfind.OutcomeInvalid
		}
		goal = cell
		end = geo.ToGeo(cell, w, h)
		snapped = true
	}

	g := &rasterGraph{
		view:      view,
		formula:   r.settings.Formula,
		diagonals: r.settings.Diagonals,
		diagCost:  r.settings.DiagonalCost,
		wrap:      r.settings.WrapHorizontally,
	}
	if g.diagCost <= 0 {
		g.diagCost = math.Sqrt2
	}
	opts := pathfind.Options[geo.GridPoint]{
		MaxSearchCost: r.maxCost(req.MaxSearchCost),
		MaxSteps:      r.maxSteps(req.MaxSteps),
	}
	if req.OnCrossPosition != nil {
		opts.Hook = func(_, to geo.GridPoint) float64 {
			return req.OnCrossPosition(geo.ToGeo(to, w, h))
		}
	}

	res := pathfind.Search(g, start, goal, opts)
	r.log.Debug("raster route",
		"start", start, "goal", goal,
		"outcome", res.Outcome,
		"expanded", res.Expanded,
		"cost", res.Cost)
	if !res.Found() {
		return nil, res.Outcome
	}

	points := make([]geo.Vector2, len(res.Path))
	for i, p := range res.Path {
		points[i] = geo.ToGeo(p, w, h)
	}
	last := len(points) - 1
	// Exact endpoints replace the end cell centers rather than sitting next to them.
	points[0] = req.Start
	if snapped || view.Terrain(goal) != 0 {
		points[last] = end
	}

	if r.settings.WrapHorizontally {
		unwrap(points)
	}
	if req.Capability.GroundOnly() {
		r.nudgeIntoEntity(points)
	}

	return &RasterRoute{
		Points:   points,
		Cells:    res.Path,
		Cost:     res.Cost,
		Expanded: res.Expanded,
		Version:  view.Version,
		Snapped:  snapped,
	}, res.Outcome
}

// unwrap shifts points by ±1 wherever consecutive points jump across the
// ±0.5 seam, so straight segments never span the whole map.
func unwrap(points []geo.Vector2) {
	for i := 1; i < len(points); i++ {
		d := points[i].X - points[i-1].X
		switch {
		case d > 0.5:
			points[i].X -= 1
		case d < -0.5:
			points[i].X += 1
		}
	}
}

// wrapX maps x back into [-0.5, 0.5).
func wrapX(p geo.Vector2) geo.Vector2 {
	p.X -= math.Floor(p.X + 0.5)
	return p
}

// nudgeIntoEntity pulls the last point toward the previous one in 10% steps
// until it lies inside a country. Points on a frontier seam otherwise report
// no entity.
func (r *Resolver) nudgeIntoEntity(points []geo.Vector2) {
	if r.locator == nil || len(points) < 2 {
		return
	}
	last := len(points) - 1
	end := points[last]
	if r.locator.CountryAt(wrapX(end)) >= 0 {
		return
	}
	prev := points[last-1]
	for k := 1; k <= r.settings.GroundNudgeAttempts; k++ {
		candidate := end.Lerp(prev, 0.1*float64(k))
		if r.locator.CountryAt(wrapX(candidate)) >= 0 {
			points[last] = candidate
			return
		}
	}
	r.log.Debug("ground destination outside every country", "end", end)
}
