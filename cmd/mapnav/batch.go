package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/mapnav/internal/game/admin"
	"github.com/udisondev/mapnav/internal/game/geo"
	"github.com/udisondev/mapnav/internal/game/hexgrid"
	"github.com/udisondev/mapnav/internal/game/pathfind"
	"github.com/udisondev/mapnav/internal/game/route"
)

// Batch is a YAML file of cost edits followed by route queries.
type Batch struct {
	Edits   []Edit  `yaml:"edits"`
	Queries []Query `yaml:"queries"`
}

// Edit is one cost-editing operation.
type Edit struct {
	// Op is one of position, line, country, province, side, all_sides,
	// cross_country, cross_province, reset.
	Op    string     `yaml:"op"`
	From  [2]float64 `yaml:"from"` // position, line
	To    [2]float64 `yaml:"to"`   // line
	Index int        `yaml:"index"`
	Side  string     `yaml:"side"`
	Cost  float64    `yaml:"cost"`
}

// Query is one route query.
type Query struct {
	ID   string `yaml:"id"` // generated when empty
	Kind string `yaml:"kind"`

	// raster
	Start [2]float64 `yaml:"start"`
	End   [2]float64 `yaml:"end"`

	// hex, country, province
	StartIndex int `yaml:"start_index"`
	EndIndex   int `yaml:"end_index"`

	Capability    string  `yaml:"capability"`
	MinAltitude   float64 `yaml:"min_altitude"`
	MaxAltitude   float64 `yaml:"max_altitude"`
	MaxSearchCost float64 `yaml:"max_search_cost"`
	MaxSteps      int     `yaml:"max_steps"`
}

// Result summarizes one answered query.
type Result struct {
	ID       string
	Kind     string
	Outcome  pathfind.Outcome
	Length   int
	Cost     float64
	Expanded int
}

// Report is the outcome of a batch run.
type Report struct {
	Edits   int
	Results []Result
}

// Found returns the number of queries that produced a route.
func (r Report) Found() int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == pathfind.OutcomeFound {
			n++
		}
	}
	return n
}

// Expanded returns the total number of expanded search nodes.
func (r Report) Expanded() int {
	n := 0
	for _, res := range r.Results {
		n += res.Expanded
	}
	return n
}

// LoadBatch reads a batch file.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch %s: %w", path, err)
	}
	var b Batch
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing batch %s: %w", path, err)
	}
	for i := range b.Queries {
		if b.Queries[i].ID == "" {
			b.Queries[i].ID = uuid.NewString()
		}
	}
	return &b, nil
}

// Run applies the edits and answers the queries one at a time. The engine
// is single-threaded, so there is no fan-out.
func (b *Batch) Run(ctx context.Context, r *route.Resolver) (Report, error) {
	var rep Report
	for i, e := range b.Edits {
		if err := applyEdit(r, e); err != nil {
			return rep, fmt.Errorf("edit %d (%s): %w", i, e.Op, err)
		}
		rep.Edits++
	}

	for _, q := range b.Queries {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		res, err := runQuery(r, q)
		if err != nil {
			return rep, fmt.Errorf("query %s: %w", q.ID, err)
		}
		slog.Info("route",
			"id", res.ID,
			"kind", res.Kind,
			"outcome", res.Outcome,
			"length", res.Length,
			"cost", res.Cost,
			"expanded", res.Expanded)
		rep.Results = append(rep.Results, res)
	}
	return rep, nil
}

func vec(v [2]float64) geo.Vector2 { return geo.Vector2{X: v[0], Y: v[1]} }

func applyEdit(r *route.Resolver, e Edit) error {
	switch e.Op {
	case "position":
		return r.SetCustomRouteCost(vec(e.From), e.Cost)
	case "line":
		r.SetLineRouteCost(vec(e.From), vec(e.To), e.Cost)
		return nil
	case "country":
		_, err := r.SetCountryRouteCost(e.Index, e.Cost)
		return err
	case "province":
		_, err := r.SetProvinceRouteCost(e.Index, e.Cost)
		return err
	case "side":
		side, err := hexgrid.ParseSide(e.Side)
		if err != nil {
			return err
		}
		return r.SetSideCost(e.Index, side, e.Cost)
	case "all_sides":
		return r.SetAllSidesCost(e.Index, e.Cost)
	case "cross_country":
		return r.SetCrossCost(admin.KindCountry, e.Index, e.Cost)
	case "cross_province":
		return r.SetCrossCost(admin.KindProvince, e.Index, e.Cost)
	case "reset":
		r.ResetCustomRouteCosts()
		return nil
	default:
		return fmt.Errorf("unknown edit op %q", e.Op)
	}
}

func runQuery(r *route.Resolver, q Query) (Result, error) {
	res := Result{ID: q.ID, Kind: q.Kind}
	capability, err := geo.ParseCapability(q.Capability)
	if err != nil {
		return res, err
	}
	altitude := geo.AltitudeRange{Min: q.MinAltitude, Max: q.MaxAltitude}

	switch q.Kind {
	case "raster":
		rt, outcome := r.FindRasterRoute(route.RasterRequest{
			Start:         vec(q.Start),
			End:           vec(q.End),
			Capability:    capability,
			Altitude:      altitude,
			MaxSearchCost: q.MaxSearchCost,
			MaxSteps:      q.MaxSteps,
		})
		res.Outcome = outcome
		if rt != nil {
			res.Length, res.Cost, res.Expanded = len(rt.Points), rt.Cost, rt.Expanded
		}
	case "hex":
		rt, outcome := r.FindHexRoute(route.HexRequest{
			Start:         q.StartIndex,
			End:           q.EndIndex,
			Capability:    capability,
			Altitude:      altitude,
			MaxSearchCost: q.MaxSearchCost,
			MaxSteps:      q.MaxSteps,
		})
		res.Outcome = outcome
		if rt != nil {
			res.Length, res.Cost, res.Expanded = len(rt.Cells), rt.Cost, rt.Expanded
		}
	default:
		kind, err := admin.ParseKind(q.Kind)
		if err != nil {
			return res, err
		}
		rt, outcome := r.FindAdminRoute(route.AdminRequest{
			Kind:          kind,
			Start:         q.StartIndex,
			End:           q.EndIndex,
			MaxSearchCost: q.MaxSearchCost,
			MaxSteps:      q.MaxSteps,
		})
		res.Outcome = outcome
		if rt != nil {
			res.Length, res.Cost, res.Expanded = len(rt.Entities), rt.Cost, rt.Expanded
		}
	}
	return res, nil
}
