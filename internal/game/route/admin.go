package route

import (
	"github.com/udisondev/mapnav/internal/game/admin"
	"github.com/udisondev/mapnav/internal/game/pathfind"
)

// AdminRequest is a route query over countries or provinces.
type AdminRequest struct {
	Kind       admin.Kind
	Start, End int

	MaxSearchCost float64
	MaxSteps      int

	// OnCrossEntity adds cost for entering an entity.
	OnCrossEntity func(entity int) float64
}

// AdminRoute is a found admin route. Cost is the sum of the cross costs of
// every entity entered after the start.
type AdminRoute struct {
	Kind     admin.Kind
	Entities []int
	Cost     float64
	Expanded int
	Version  uint64
}

// FindAdminRoute searches the country or province graph.
func (r *Resolver) FindAdminRoute(req AdminRequest) (*AdminRoute, pathfind.Outcome) {
	var layer *admin.Graph
	if r.atlas != nil {
		layer = r.atlas.Layer(req.Kind)
	}
	if layer == nil || !layer.Valid(req.Start) || !layer.Valid(req.End) {
		r.log.Debug("admin route rejected", "kind", req.Kind, "start", req.Start, "end", req.End)
		return nil, pathfind.OutcomeInvalid
	}

	g := &adminGraph{graph: layer, hook: req.OnCrossEntity}
	opts := pathfind.Options[int]{
		MaxSearchCost: r.maxCost(req.MaxSearchCost),
		MaxSteps:      r.maxSteps(req.MaxSteps),
	}

	version := layer.Version()
	res := pathfind.Search(g, req.Start, req.End, opts)
	r.log.Debug("admin route",
		"kind", req.Kind,
		"start", req.Start, "end", req.End,
		"outcome", res.Outcome,
		"expanded", res.Expanded,
		"cost", res.Cost)
	if !res.Found() {
		return nil, res.Outcome
	}
	return &AdminRoute{
		Kind:     req.Kind,
		Entities: res.Path,
		Cost:     res.Cost,
		Expanded: res.Expanded,
		Version:  version,
	}, res.Outcome
}
