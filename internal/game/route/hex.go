package route

import (
	"github.com/udisondev/mapnav/internal/game/geo"
	"github.com/udisondev/mapnav/internal/game/pathfind"
)

// HexRequest is a route query over the hex grid.
type HexRequest struct {
	Start, End int
	Capability geo.Capability
	Altitude   geo.AltitudeRange

	MaxSearchCost float64
	MaxSteps      int

	// OnCrossCell adds cost for entering a cell.
	OnCrossCell func(cell int) float64
}

// HexRoute is a found hex route.
type HexRoute struct {
	Cells    []int
	Cost     float64
	Expanded int
	Version  uint64
}

// FindHexRoute searches the hex grid. It returns nil when no route exists
// or no grid is attached.
func (r *Resolver) FindHexRoute(req HexRequest) (*HexRoute, pathfind.Outcome) {
	if r.hex == nil || !r.hex.Valid(req.Start) || !r.hex.Valid(req.End) {
		r.log.Debug("hex route rejected", "start", req.Start, "end", req.End, "grid", r.hex != nil)
		return nil, pathfind.OutcomeInvalid
	}

	opts := pathfind.Options[int]{
		MaxSearchCost: r.maxCost(req.MaxSearchCost),
		MaxSteps:      r.maxSteps(req.MaxSteps),
	}
	if req.OnCrossCell != nil {
		opts.Hook = func(_, to int) float64 { return req.OnCrossCell(to) }
	}

	version := r.hex.Version()
	res := pathfind.Search(newHexGraph(r.hex, r.mask, req.Capability, req.Altitude), req.Start, req.End, opts)
	r.log.Debug("hex route",
		"start", req.Start, "end", req.End,
		"outcome", res.Outcome,
		"expanded", res.Expanded,
		"cost", res.Cost)
	if !res.Found() {
		return nil, res.Outcome
	}
	return &HexRoute{
		Cells:    res.Path,
		Cost:     res.Cost,
		Expanded: res.Expanded,
		Version:  version,
	}, res.Outcome
}
