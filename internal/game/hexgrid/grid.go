// Package hexgrid models a flat-top hexagonal cell grid with directional,
// per-side crossing costs. Columns alternate: odd columns sit half a cell
// higher than even ones. Row 0 is the bottom of the map.
package hexgrid

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/udisondev/mapnav/internal/game/geo"
)

var (
	// ErrIndexOutOfRange is returned for unknown cell indices or sides.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrInvalidCost is returned for negative side costs.
	ErrInvalidCost = errors.New("invalid cost")
)

// Side is a hex edge in clockwise order starting at the top-left edge.
type Side uint8

const (
	SideTopLeft Side = iota
	SideTop
	SideTopRight
	SideBottomRight
	SideBottom
	SideBottomLeft
)

// SideCount is the number of sides of a cell.
const SideCount = 6

var sideNames = [SideCount]string{"top_left", "top", "top_right", "bottom_right", "bottom", "bottom_left"}

func (s Side) String() string {
	if int(s) < SideCount {
		return sideNames[s]
	}
	return fmt.Sprintf("side(%d)", uint8(s))
}

// ParseSide converts a side name such as "top_right" to a Side.
func ParseSide(name string) (Side, error) {
	for i, n := range sideNames {
		if n == name {
			return Side(i), nil
		}
	}
	return 0, fmt.Errorf("unknown hex side %q", name)
}

// Opposite returns the side facing s on the neighboring cell.
func (s Side) Opposite() Side {
	return (s + 3) % SideCount
}

// neighborOffsets holds (dRow, dCol) per side for even and odd columns.
var neighborOffsets = [2][SideCount][2]int{
	{{0, -1}, {1, 0}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}}, // even column
	{{1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 0}, {0, -1}},   // odd column
}

// Cell is one hexagon. Topology is fixed after the grid is created.
type Cell struct {
	Index  int
	Row    int
	Column int
	Center geo.Vector2
	// Points are the vertices; side i runs from Points[i] to Points[(i+1)%6].
	Points [SideCount]geo.Vector2
	// Neighbors holds the neighbor cell index per side, -1 at grid edges.
	Neighbors [SideCount]int
}

// CellCost is the mutable cost record of a cell. SideCost[s] is charged
// when leaving the cell through side s; the neighbor's opposite side is
// independent, so one-way barriers are possible.
type CellCost struct {
	SideCost [SideCount]float64
	Altitude float64
}

// Grid is the cell arena plus the parallel cost records.
// Not safe for concurrent mutation.
type Grid struct {
	rows, columns int
	cellW, cellH  float64
	cells         []Cell
	costs         []CellCost
	defaultCost   float64
	minSideCost   float64
	version       atomic.Uint64
}

// New builds a rows×columns grid covering the whole map, every side costing
// defaultSideCost.
func New(rows, columns int, defaultSideCost float64) (*Grid, error) {
	if rows <= 0 || columns <= 0 {
		return nil, fmt.Errorf("hex grid %dx%d: %w", rows, columns, geo.ErrInvalidDimensions)
	}
	if defaultSideCost < 0 {
		return nil, fmt.Errorf("hex grid default side cost %v: %w", defaultSideCost, ErrInvalidCost)
	}

	g := &Grid{
		rows:        rows,
		columns:     columns,
		cellW:       1 / (0.75*float64(columns) + 0.25),
		cellH:       1 / (float64(rows) + 0.5),
		cells:       make([]Cell, rows*columns),
		costs:       make([]CellCost, rows*columns),
		defaultCost: defaultSideCost,
		minSideCost: defaultSideCost,
	}

	for r := range rows {
		for c := range columns {
			i := r*columns + c
			cell := &g.cells[i]
			cell.Index = i
			cell.Row = r
			cell.Column = c
			cell.Center = g.center(r, c)
			cell.Points = g.vertices(cell.Center)
			for s := range SideCount {
				off := neighborOffsets[c&1][s]
				cell.Neighbors[s] = g.IndexOf(r+off[0], c+off[1])
				g.costs[i].SideCost[s] = defaultSideCost
			}
		}
	}
	return g, nil
}

func (g *Grid) center(row, col int) geo.Vector2 {
	y := -0.5 + g.cellH/2 + float64(row)*g.cellH
	if col&1 == 1 {
		y += g.cellH / 2
	}
	return geo.Vector2{
		X: -0.5 + g.cellW/2 + float64(col)*0.75*g.cellW,
		Y: y,
	}
}

// vertices returns the six corners starting at the left vertex, clockwise.
func (g *Grid) vertices(c geo.Vector2) [SideCount]geo.Vector2 {
	var pts [SideCount]geo.Vector2
	sin60 := math.Sqrt(3) / 2
	for i := range SideCount {
		a := math.Pi - float64(i)*math.Pi/3 // 180°, 120°, 60°, 0°, -60°, -120°
		pts[i] = geo.Vector2{
			X: c.X + g.cellW/2*math.Cos(a),
			Y: c.Y + g.cellH/2*math.Sin(a)/sin60,
		}
	}
	return pts
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Columns returns the number of columns.
func (g *Grid) Columns() int { return g.columns }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// Version increases on every cost edit.
func (g *Grid) Version() uint64 { return g.version.Load() }

// IndexOf returns the cell index at (row, column), or -1 outside the grid.
func (g *Grid) IndexOf(row, column int) int {
	if row < 0 || row >= g.rows || column < 0 || column >= g.columns {
		return -1
	}
	return row*g.columns + column
}

// Valid reports whether index names a cell.
func (g *Grid) Valid(index int) bool {
	return index >= 0 && index < len(g.cells)
}

// Cell returns the cell at index. Panics on an invalid index.
func (g *Grid) Cell(index int) *Cell {
	return &g.cells[index]
}

// Neighbor is a neighboring cell reached through a side.
type Neighbor struct {
	Side Side
	Cell int
}

// NeighborsOf lists up to six neighbors of a cell, omitting grid edges.
func (g *Grid) NeighborsOf(index int) []Neighbor {
	if !g.Valid(index) {
		return nil
	}
	out := make([]Neighbor, 0, SideCount)
	for s, n := range g.cells[index].Neighbors {
		if n >= 0 {
			out = append(out, Neighbor{Side: Side(s), Cell: n})
		}
	}
	return out
}

// CrossCost returns the cost of leaving a cell through side. Values at or
// above geo.BlockedCost mean the side is closed.
func (g *Grid) CrossCost(index int, side Side) float64 {
	return g.costs[index].SideCost[side]
}

// Altitude returns the altitude of a cell.
func (g *Grid) Altitude(index int) float64 {
	return g.costs[index].Altitude
}

// CostRecord returns a copy of a cell's cost record.
func (g *Grid) CostRecord(index int) (CellCost, bool) {
	if !g.Valid(index) {
		return CellCost{}, false
	}
	return g.costs[index], true
}

// SetSideCost sets the cost of leaving index through side. The neighbor's
// cost for crossing back is not touched.
func (g *Grid) SetSideCost(index int, side Side, cost float64) error {
	if !g.Valid(index) || int(side) >= SideCount {
		return fmt.Errorf("set side cost cell %d side %v: %w", index, side, ErrIndexOutOfRange)
	}
	if cost < 0 {
		return fmt.Errorf("set side cost cell %d: %v: %w", index, cost, ErrInvalidCost)
	}
	g.costs[index].SideCost[side] = cost
	g.minSideCost = math.Min(g.minSideCost, cost)
	g.version.Add(1)
	return nil
}

// SetAllSidesCost sets the cost of leaving index through any side.
func (g *Grid) SetAllSidesCost(index int, cost float64) error {
	if !g.Valid(index) {
		return fmt.Errorf("set all sides cost cell %d: %w", index, ErrIndexOutOfRange)
	}
	if cost < 0 {
		return fmt.Errorf("set all sides cost cell %d: %v: %w", index, cost, ErrInvalidCost)
	}
	for s := range SideCount {
		g.costs[index].SideCost[s] = cost
	}
	g.minSideCost = math.Min(g.minSideCost, cost)
	g.version.Add(1)
	return nil
}

// SetAltitude sets the altitude of a cell.
func (g *Grid) SetAltitude(index int, altitude float64) error {
	if !g.Valid(index) {
		return fmt.Errorf("set altitude cell %d: %w", index, ErrIndexOutOfRange)
	}
	g.costs[index].Altitude = altitude
	g.version.Add(1)
	return nil
}

// DefaultSideCost returns the side cost cells were created with.
func (g *Grid) DefaultSideCost() float64 { return g.defaultCost }

// MinSideCost is a lower bound for any side cost ever set on the grid.
func (g *Grid) MinSideCost() float64 { return g.minSideCost }

// Distance returns the number of hex steps between two cells.
func (g *Grid) Distance(a, b int) int {
	ax, ay, az := g.cube(a)
	bx, by, bz := g.cube(b)
	return max(geo.Abs(ax-bx), geo.Abs(ay-by), geo.Abs(az-bz))
}

// cube converts a cell's offset coordinates to cube coordinates.
func (g *Grid) cube(index int) (x, y, z int) {
	c := &g.cells[index]
	x = c.Column
	z = -c.Row - (c.Column+(c.Column&1))/2
	y = -x - z
	return x, y, z
}

// CellAt returns the cell containing a geographic position, or -1.
func (g *Grid) CellAt(p geo.Vector2) int {
	if p.X < -0.5 || p.X > 0.5 || p.Y < -0.5 || p.Y > 0.5 {
		return -1
	}
	col := int(math.Round((p.X + 0.5 - g.cellW/2) / (0.75 * g.cellW)))
	row := int(math.Round((p.Y + 0.5 - g.cellH/2) / g.cellH))

	best, bestDist := -1, math.Inf(1)
	for c := col - 1; c <= col+1; c++ {
		for r := row - 1; r <= row+1; r++ {
			i := g.IndexOf(r, c)
			if i < 0 {
				continue
			}
			cell := &g.cells[i]
			if geo.Polygon(cell.Points[:]).Contains(p) {
				return i
			}
			if d := cell.Center.Dist(p); d < bestDist {
				best, bestDist = i, d
			}
		}
	}
	// Map corners are not covered by any hexagon; use the nearest cell.
	return best
}

// ResetCosts restores every side to the default cost and every altitude to 0.
func (g *Grid) ResetCosts() {
	for i := range g.costs {
		for s := range SideCount {
			g.costs[i].SideCost[s] = g.defaultCost
		}
		g.costs[i].Altitude = 0
	}
	g.minSideCost = g.defaultCost
	g.version.Add(1)
}

// SampleAltitude sets every cell's altitude from src at the cell center.
func (g *Grid) SampleAltitude(src geo.ElevationSource) {
	for i := range g.cells {
		g.costs[i].Altitude = src.Altitude(g.cells[i].Center)
	}
	g.version.Add(1)
}
