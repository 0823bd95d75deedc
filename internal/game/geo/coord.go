// Package geo holds the geographic primitives shared by every routing layer:
// map coordinates in [-0.5, 0.5], matrix cells, terrain classes and the
// water mask and elevation collaborators.
package geo

import (
	"fmt"
	"math"
)

// Vector2 is a geographic position. Both axes span [-0.5, 0.5].
type Vector2 struct {
	X, Y float64
}

// Add returns v+o.
func (v Vector2) Add(o Vector2) Vector2 { return Vector2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vector2) Sub(o Vector2) Vector2 { return Vector2{v.X - o.X, v.Y - o.Y} }

// Scale returns v*s.
func (v Vector2) Scale(s float64) Vector2 { return Vector2{v.X * s, v.Y * s} }

// Lerp interpolates between v (t=0) and o (t=1).
func (v Vector2) Lerp(o Vector2, t float64) Vector2 {
	return Vector2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// Dist returns the Euclidean distance between v and o.
func (v Vector2) Dist(o Vector2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

func (v Vector2) String() string {
	return fmt.Sprintf("(%.5f,%.5f)", v.X, v.Y)
}

// GridPoint is an integer coordinate in the raster matrix, the hex grid
// (x=column, y=row) or an admin entity index (x=index, y=0).
type GridPoint struct {
	X, Y int
}

// Index returns the linear index y*width+x.
func (p GridPoint) Index(width int) int {
	return p.Y*width + p.X
}

// PointOf converts a linear index back to a GridPoint.
func PointOf(index, width int) GridPoint {
	return GridPoint{X: index % width, Y: index / width}
}

// InBounds reports whether p lies inside a width×height matrix.
func (p GridPoint) InBounds(width, height int) bool {
	return p.X >= 0 && p.X < width && p.Y >= 0 && p.Y < height
}

func (p GridPoint) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// MatrixX converts a geographic X to a matrix column (not clamped).
func MatrixX(geoX float64, width int) int {
	return int(math.Floor((geoX + 0.5) * float64(width)))
}

// MatrixY converts a geographic Y to a matrix row (not clamped).
func MatrixY(geoY float64, height int) int {
	return int(math.Floor((geoY + 0.5) * float64(height)))
}

// ToMatrix converts a geographic position to matrix coordinates clamped to bounds.
func ToMatrix(v Vector2, width, height int) GridPoint {
	return GridPoint{
		X: clampInt(MatrixX(v.X, width), 0, width-1),
		Y: clampInt(MatrixY(v.Y, height), 0, height-1),
	}
}

// ToGeo converts matrix coordinates to the geographic center of the cell.
func ToGeo(p GridPoint, width, height int) Vector2 {
	return Vector2{
		X: (float64(p.X)+0.5)/float64(width) - 0.5,
		Y: (float64(p.Y)+0.5)/float64(height) - 0.5,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Abs returns |x|.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
