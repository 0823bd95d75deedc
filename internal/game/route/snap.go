package route

import (
	"math"

	"github.com/udisondev/mapnav/internal/game/costmatrix"
	"github.com/udisondev/mapnav/internal/game/geo"
)

func isWaterCell(view costmatrix.View, p geo.GridPoint) bool {
	return view.Terrain(p)&geo.TerrainWater != 0
}

// snapToWater finds a water cell for a water-only destination that landed
// on land. Tried in order: the coast of the destination country region,
// every cell within SnapRadius, then a walk from the destination toward
// the start.
func (r *Resolver) snapToWater(view costmatrix.View, start, end geo.Vector2) (geo.GridPoint, bool) {
	w, h := view.Width(), view.Height()
	goal := geo.ToMatrix(end, w, h)

	within := func(p geo.GridPoint) bool {
		return max(geo.Abs(p.X-goal.X), geo.Abs(p.Y-goal.Y)) <= r.settings.SnapRadius
	}

	best, bestDist := geo.GridPoint{}, math.Inf(1)
	consider := func(p geo.GridPoint) {
		if !within(p) || !isWaterCell(view, p) {
			return
		}
		if d := geo.ToGeo(p, w, h).Dist(end); d < bestDist {
			best, bestDist = p, d
		}
	}

	if r.atlas != nil && r.atlas.Countries != nil {
		if ref, ok := r.atlas.Countries.RegionAt(end); ok {
			region, _ := r.atlas.Countries.Region(ref)
			for _, v := range region.Points {
				if !r.mask.IsWaterBox(v, 3) {
					continue
				}
				c := geo.ToMatrix(v, w, h)
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						consider(geo.GridPoint{X: c.X + dx, Y: c.Y + dy})
					}
				}
			}
			if !math.IsInf(bestDist, 1) {
				return best, true
			}
		}
	}

	for dy := -r.settings.SnapRadius; dy <= r.settings.SnapRadius; dy++ {
		for dx := -r.settings.SnapRadius; dx <= r.settings.SnapRadius; dx++ {
			consider(geo.GridPoint{X: goal.X + dx, Y: goal.Y + dy})
		}
	}
	if !math.IsInf(bestDist, 1) {
		return best, true
	}

	span := end.Dist(start)
	if span == 0 || r.settings.SnapStep <= 0 {
		return geo.GridPoint{}, false
	}
	for k := 1; k <= r.settings.SnapAttempts; k++ {
		t := math.Min(1, float64(k)*r.settings.SnapStep/span)
		c := geo.ToMatrix(end.Lerp(start, t), w, h)
		if isWaterCell(view, c) {
			return c, true
		}
		if t == 1 {
			break
		}
	}
	return geo.GridPoint{}, false
}
