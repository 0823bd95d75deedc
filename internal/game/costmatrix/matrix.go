// Package costmatrix holds the raster terrain-cost matrix and the sparse
// custom cost overlay applied on top of it.
package costmatrix

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/udisondev/mapnav/internal/game/geo"
)

var (
	// ErrIndexOutOfRange is returned when editing a cell outside the matrix.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNilMask is returned when no water mask is supplied.
	ErrNilMask = errors.New("nil water mask")
)

// BuildKey identifies the inputs the terrain layer was built for.
type BuildKey struct {
	Capability geo.Capability
	Altitude   geo.AltitudeRange
}

// terrain is one immutable build of the terrain layer.
type terrain struct {
	key   BuildKey
	cells []byte // terrain bits already masked by capability
}

// Matrix is the raster cost matrix: a terrain layer rebuilt per capability and
// altitude range, plus a custom cost overlay of the same dimensions.
//
// Not safe for concurrent mutation; callers serialize edits and searches.
// Rebuilds replace the terrain layer atomically.
type Matrix struct {
	width, height int
	mask          geo.WaterMask
	elevation     geo.ElevationSource

	terrain atomic.Pointer[terrain]
	version atomic.Uint64

	overlay     []float64 // geo.NoOverride where unset
	overrides   int
	minOverride float64
}

// New creates a matrix sampling mask (required) and elevation (optional).
func New(width, height int, mask geo.WaterMask, elevation geo.ElevationSource) (*Matrix, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("cost matrix %dx%d: %w", width, height, geo.ErrInvalidDimensions)
	}
	if mask == nil {
		return nil, fmt.Errorf("cost matrix: %w", ErrNilMask)
	}
	m := &Matrix{
		width:     width,
		height:    height,
		mask:      mask,
		elevation: elevation,
		overlay:   make([]float64, width*height),
	}
	m.clearOverlay()
	return m, nil
}

// Width returns the number of matrix columns.
func (m *Matrix) Width() int { return m.width }

// Height returns the number of matrix rows.
func (m *Matrix) Height() int { return m.height }

// Version increases on every rebuild or overlay edit.
func (m *Matrix) Version() uint64 { return m.version.Load() }

// Build makes sure the terrain layer matches capability and altitude range.
// Returns true if the layer was rebuilt, false if the memoized one was kept.
func (m *Matrix) Build(capability geo.Capability, altitude geo.AltitudeRange) bool {
	key := BuildKey{Capability: capability, Altitude: altitude}
	if t := m.terrain.Load(); t != nil && t.key == key {
		return false
	}

	cells := make([]byte, m.width*m.height)
	for y := range m.height {
		for x := range m.width {
			p := geo.GridPoint{X: x, Y: y}
			center := geo.ToGeo(p, m.width, m.height)
			water := m.mask.IsWater(center)
			bits := geo.TerrainOf(water)
			// Altitude limits land agents only; water is crossed at surface level.
			if !water && m.elevation != nil && !altitude.Contains(m.elevation.Altitude(center)) {
				bits = 0
			}
			cells[p.Index(m.width)] = bits & byte(capability)
		}
	}

	m.terrain.Store(&terrain{key: key, cells: cells})
	m.version.Add(1)
	return true
}

// Invalidate drops the terrain layer so the next Build resamples the mask.
// Call after the water mask or elevation source changed.
func (m *Matrix) Invalidate() {
	m.terrain.Store(nil)
	m.version.Add(1)
}

// Key returns the inputs of the current terrain layer and whether one exists.
func (m *Matrix) Key() (BuildKey, bool) {
	t := m.terrain.Load()
	if t == nil {
		return BuildKey{}, false
	}
	return t.key, true
}

// SetOverride sets a custom cost for one cell. cost < 0 clears it.
func (m *Matrix) SetOverride(p geo.GridPoint, cost float64) error {
	if !p.InBounds(m.width, m.height) {
		return fmt.Errorf("set override at %v: %w", p, ErrIndexOutOfRange)
	}
	m.setOverride(p.Index(m.width), cost)
	m.version.Add(1)
	return nil
}

// SetOverrides sets the same custom cost for many cells. Cells outside the
// matrix are skipped; the number of cells changed is returned.
func (m *Matrix) SetOverrides(points []geo.GridPoint, cost float64) int {
	n := 0
	for _, p := range points {
		if !p.InBounds(m.width, m.height) {
			continue
		}
		m.setOverride(p.Index(m.width), cost)
		n++
	}
	if n > 0 {
		m.version.Add(1)
	}
	return n
}

func (m *Matrix) setOverride(i int, cost float64) {
	had := m.overlay[i] >= 0
	if cost < 0 {
		m.overlay[i] = geo.NoOverride
		if had {
			m.overrides--
		}
		return
	}
	m.overlay[i] = cost
	if !had {
		m.overrides++
	}
	m.minOverride = math.Min(m.minOverride, cost)
}

// Reset removes every custom cost.
func (m *Matrix) Reset() {
	m.clearOverlay()
	m.version.Add(1)
}

func (m *Matrix) clearOverlay() {
	for i := range m.overlay {
		m.overlay[i] = geo.NoOverride
	}
	m.overrides = 0
	m.minOverride = math.Inf(1)
}

// OverrideAt returns the custom cost of a cell, if any.
func (m *Matrix) OverrideAt(p geo.GridPoint) (float64, bool) {
	if !p.InBounds(m.width, m.height) {
		return 0, false
	}
	c := m.overlay[p.Index(m.width)]
	return c, c >= 0
}

// OverrideCount returns the number of cells with a custom cost.
func (m *Matrix) OverrideCount() int { return m.overrides }

// Override is one custom cost cell.
type Override struct {
	Point geo.GridPoint
	Cost  float64
}

// Overrides lists every custom cost in index order.
func (m *Matrix) Overrides() []Override {
	out := make([]Override, 0, m.overrides)
	for i, c := range m.overlay {
		if c >= 0 {
			out = append(out, Override{Point: geo.PointOf(i, m.width), Cost: c})
		}
	}
	return out
}

// MinStepCost is a lower bound for entering any cell. Heuristics scale by it
// to stay admissible when overrides are cheaper than the default step.
func (m *Matrix) MinStepCost() float64 {
	return math.Min(geo.DefaultStepCost, m.minOverride)
}

// View captures the matrix for one search: the terrain layer current at the
// time of the call and the live overlay.
func (m *Matrix) View() View {
	v := View{
		width:   m.width,
		height:  m.height,
		overlay: m.overlay,
		minStep: m.MinStepCost(),
		Version: m.version.Load(),
	}
	if t := m.terrain.Load(); t != nil {
		v.cells = t.cells
	}
	return v
}

// View is a read-only handle used during a search.
type View struct {
	width, height int
	cells         []byte
	overlay       []float64
	minStep       float64
	Version       uint64
}

// Width returns the number of matrix columns.
func (v View) Width() int { return v.width }

// Height returns the number of matrix rows.
func (v View) Height() int { return v.height }

// MinStepCost returns the lower bound for entering any cell.
func (v View) MinStepCost() float64 { return v.minStep }

// Terrain returns the capability-masked terrain bits of a cell. Cells outside
// the matrix, or before any Build, report 0.
func (v View) Terrain(p geo.GridPoint) byte {
	if v.cells == nil || !p.InBounds(v.width, v.height) {
		return 0
	}
	return v.cells[p.Index(v.width)]
}

// Cost returns the cost of entering a cell and whether it can be entered.
// A custom cost takes precedence over the terrain bits; a custom cost of
// geo.BlockedCost or more closes the cell. Cells outside the matrix are
// never passable.
func (v View) Cost(p geo.GridPoint) (float64, bool) {
	if !p.InBounds(v.width, v.height) {
		return 0, false
	}
	i := p.Index(v.width)
	if c := v.overlay[i]; c >= 0 {
		return c, c < geo.BlockedCost
	}
	if v.cells != nil && v.cells[i] != 0 {
		return geo.DefaultStepCost, true
	}
	return 0, false
}
