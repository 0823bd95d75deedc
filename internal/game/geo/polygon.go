package geo

import "math"

// Polygon is a closed ring of geographic points (last point connects to first).
type Polygon []Vector2

// Contains reports whether p lies inside the polygon (even-odd rule).
func (poly Polygon) Contains(p Vector2) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// Bounds returns the axis-aligned bounding box of the polygon.
func (poly Polygon) Bounds() (min, max Vector2) {
	if len(poly) == 0 {
		return Vector2{}, Vector2{}
	}
	min = Vector2{math.Inf(1), math.Inf(1)}
	max = Vector2{math.Inf(-1), math.Inf(-1)}
	for _, p := range poly {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// Center returns the vertex average of the polygon.
func (poly Polygon) Center() Vector2 {
	if len(poly) == 0 {
		return Vector2{}
	}
	var c Vector2
	for _, p := range poly {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(poly)))
}

// Cells returns every matrix cell whose center lies inside the polygon.
func (poly Polygon) Cells(width, height int) []GridPoint {
	if len(poly) < 3 {
		return nil
	}
	lo, hi := poly.Bounds()
	minP := ToMatrix(lo, width, height)
	maxP := ToMatrix(hi, width, height)

	var cells []GridPoint
	for y := minP.Y; y <= maxP.Y; y++ {
		for x := minP.X; x <= maxP.X; x++ {
			p := GridPoint{x, y}
			if poly.Contains(ToGeo(p, width, height)) {
				cells = append(cells, p)
			}
		}
	}
	return cells
}
