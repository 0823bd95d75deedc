// Package admin models countries and provinces as a routing graph whose
// edges come from shared region frontiers.
package admin

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync/atomic"

	"github.com/udisondev/mapnav/internal/game/geo"
)

var (
	// ErrIndexOutOfRange is returned for unknown entity or region indices.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrInvalidCost is returned for negative cross costs.
	ErrInvalidCost = errors.New("invalid cost")
)

// Kind distinguishes the two admin layers.
type Kind uint8

const (
	KindCountry Kind = iota
	KindProvince
)

func (k Kind) String() string {
	if k == KindProvince {
		return "province"
	}
	return "country"
}

// ParseKind converts "country" or "province" to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "country":
		return KindCountry, nil
	case "province":
		return KindProvince, nil
	default:
		return 0, fmt.Errorf("unknown admin kind %q", s)
	}
}

// RegionRef addresses a region by entity and region index.
type RegionRef struct {
	Entity int
	Region int
}

// Region is one polygon of an entity.
type Region struct {
	Points geo.Polygon
	// Neighbours are regions of other entities sharing a frontier segment.
	Neighbours []RegionRef
}

// Entity is a country or province.
type Entity struct {
	Index int
	Name  string
	// Parent is the country index of a province, -1 for countries.
	Parent    int
	Regions   []Region
	CrossCost float64
}

// Center returns the center of the entity's first region.
func (e *Entity) Center() geo.Vector2 {
	if len(e.Regions) == 0 {
		return geo.Vector2{}
	}
	return e.Regions[0].Points.Center()
}

// Graph is the adjacency graph over one admin layer. Entity adjacency is
// derived lazily from region neighbours and cached until geometry changes.
// Not safe for concurrent mutation.
type Graph struct {
	kind     Kind
	entities []Entity

	adjacency [][]int // nil until built
	maxHop    float64 // longest center distance between adjacent entities
	version   atomic.Uint64
}

// NewGraph takes ownership of entities, reindexes them and computes region
// neighbours from their frontiers.
func NewGraph(kind Kind, entities []Entity) *Graph {
	for i := range entities {
		entities[i].Index = i
	}
	g := &Graph{kind: kind, entities: entities}
	ComputeNeighbours(g.entities)
	return g
}

// Kind returns the admin layer of the graph.
func (g *Graph) Kind() Kind { return g.kind }

// Len returns the number of entities.
func (g *Graph) Len() int { return len(g.entities) }

// Valid reports whether index names an entity.
func (g *Graph) Valid(index int) bool {
	return index >= 0 && index < len(g.entities)
}

// Entity returns the entity at index. Panics on an invalid index.
func (g *Graph) Entity(index int) *Entity { return &g.entities[index] }

// Version increases on every geometry or cost edit.
func (g *Graph) Version() uint64 { return g.version.Load() }

// Invalidate drops the cached adjacency.
func (g *Graph) Invalidate() {
	g.adjacency = nil
	g.version.Add(1)
}

// NeighborsOf returns the entities sharing a border with index, ascending.
func (g *Graph) NeighborsOf(index int) []int {
	if !g.Valid(index) {
		return nil
	}
	g.ensureAdjacency()
	return g.adjacency[index]
}

func (g *Graph) ensureAdjacency() {
	if g.adjacency != nil {
		return
	}
	adj := make([][]int, len(g.entities))
	g.maxHop = 0
	for i := range g.entities {
		e := &g.entities[i]
		var list []int
		for _, r := range e.Regions {
			for _, ref := range r.Neighbours {
				if ref.Entity != i && !slices.Contains(list, ref.Entity) {
					list = append(list, ref.Entity)
				}
			}
		}
		slices.Sort(list)
		adj[i] = list
		for _, n := range list {
			g.maxHop = math.Max(g.maxHop, e.Center().Dist(g.entities[n].Center()))
		}
	}
	g.adjacency = adj
}

// CrossCost returns the cost of entering index: 1 + the entity's cross cost
// plus whatever the optional hook adds.
func (g *Graph) CrossCost(index int, hook func(entity int) float64) float64 {
	cost := 1 + g.entities[index].CrossCost
	if hook != nil {
		cost += hook(index)
	}
	return cost
}

// SetCrossCost sets the configured cost of crossing an entity. Negative
// costs are rejected so every hop costs at least 1, which Estimate relies on.
func (g *Graph) SetCrossCost(index int, cost float64) error {
	if !g.Valid(index) {
		return fmt.Errorf("set %s cross cost %d: %w", g.kind, index, ErrIndexOutOfRange)
	}
	if cost < 0 || math.IsNaN(cost) {
		return fmt.Errorf("set %s cross cost %d: %v: %w", g.kind, index, cost, ErrInvalidCost)
	}
	g.entities[index].CrossCost = cost
	g.version.Add(1)
	return nil
}

// SetRegionPoints replaces a region's frontier, recomputes region
// neighbours and invalidates the adjacency cache.
func (g *Graph) SetRegionPoints(entity, region int, points geo.Polygon) error {
	if !g.Valid(entity) || region < 0 || region >= len(g.entities[entity].Regions) {
		return fmt.Errorf("set %s %d region %d: %w", g.kind, entity, region, ErrIndexOutOfRange)
	}
	g.entities[entity].Regions[region].Points = points
	ComputeNeighbours(g.entities)
	g.Invalidate()
	return nil
}

// Estimate is an admissible lower bound on the cost from a to b: every hop
// costs at least 1 and moves the center by at most the longest hop.
func (g *Graph) Estimate(a, b int) float64 {
	g.ensureAdjacency()
	if g.maxHop == 0 {
		return 0
	}
	return g.entities[a].Center().Dist(g.entities[b].Center()) / g.maxHop
}

// EntityAt returns the entity whose region contains p, or -1.
func (g *Graph) EntityAt(p geo.Vector2) int {
	ref, ok := g.RegionAt(p)
	if !ok {
		return -1
	}
	return ref.Entity
}

// RegionAt returns the region containing p.
func (g *Graph) RegionAt(p geo.Vector2) (RegionRef, bool) {
	for i := range g.entities {
		for j, r := range g.entities[i].Regions {
			lo, hi := r.Points.Bounds()
			if p.X < lo.X || p.X > hi.X || p.Y < lo.Y || p.Y > hi.Y {
				continue
			}
			if r.Points.Contains(p) {
				return RegionRef{Entity: i, Region: j}, true
			}
		}
	}
	return RegionRef{}, false
}

// Region returns the region addressed by ref.
func (g *Graph) Region(ref RegionRef) (*Region, bool) {
	if !g.Valid(ref.Entity) || ref.Region < 0 || ref.Region >= len(g.entities[ref.Entity].Regions) {
		return nil, false
	}
	return &g.entities[ref.Entity].Regions[ref.Region], true
}
