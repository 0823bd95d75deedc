package admin

import (
	"cmp"
	"math"
	"slices"

	"github.com/udisondev/mapnav/internal/game/geo"
)

// frontierPrecision quantizes vertices so frontiers digitized separately
// still match.
const frontierPrecision = 1e6

type vertexKey struct{ x, y int64 }

type segmentKey struct{ a, b vertexKey }

func keyOf(p geo.Vector2) vertexKey {
	return vertexKey{
		x: int64(math.Round(p.X * frontierPrecision)),
		y: int64(math.Round(p.Y * frontierPrecision)),
	}
}

func segmentOf(p, q geo.Vector2) segmentKey {
	a, b := keyOf(p), keyOf(q)
	if b.x < a.x || (b.x == a.x && b.y < a.y) {
		a, b = b, a
	}
	return segmentKey{a, b}
}

// ComputeNeighbours links every pair of regions, across different
// entities, that share at least one polygon segment.
func ComputeNeighbours(entities []Entity) {
	owners := make(map[segmentKey][]RegionRef)
	for i := range entities {
		for j := range entities[i].Regions {
			r := &entities[i].Regions[j]
			r.Neighbours = r.Neighbours[:0]
			n := len(r.Points)
			for k := range n {
				seg := segmentOf(r.Points[k], r.Points[(k+1)%n])
				owners[seg] = append(owners[seg], RegionRef{Entity: i, Region: j})
			}
		}
	}

	for _, refs := range owners {
		for _, a := range refs {
			for _, b := range refs {
				if a.Entity == b.Entity {
					continue
				}
				r := &entities[a.Entity].Regions[a.Region]
				if !containsRef(r.Neighbours, b) {
					r.Neighbours = append(r.Neighbours, b)
				}
			}
		}
	}

	for i := range entities {
		for j := range entities[i].Regions {
			slices.SortFunc(entities[i].Regions[j].Neighbours, func(a, b RegionRef) int {
				return cmp.Or(cmp.Compare(a.Entity, b.Entity), cmp.Compare(a.Region, b.Region))
			})
		}
	}
}

func containsRef(refs []RegionRef, ref RegionRef) bool {
	for _, r := range refs {
		if r == ref {
			return true
		}
	}
	return false
}
