package geo

import (
	"errors"
	"fmt"
)

// WaterMask answers water/land queries for geographic positions.
type WaterMask interface {
	// IsWater reports whether the position is water.
	IsWater(position Vector2) bool
	// IsWaterBox reports whether any sample in a box of boxSize mask
	// cells centered on position is water. Tolerates single-pixel noise.
	IsWaterBox(position Vector2, boxSize int) bool
}

// ElevationSource returns terrain altitude for geographic positions.
type ElevationSource interface {
	Altitude(position Vector2) float64
}

// ErrInvalidDimensions is returned for non-positive grid sizes.
var ErrInvalidDimensions = errors.New("invalid dimensions")

// BitmapMask is a WaterMask and ElevationSource backed by an explicit grid.
// Row y covers geographic Y from y/height-0.5 upward.
type BitmapMask struct {
	width, height int
	water         []bool
	altitude      []float64
}

// NewBitmapMask creates an all-land mask at altitude 0.
func NewBitmapMask(width, height int) (*BitmapMask, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("bitmap mask %dx%d: %w", width, height, ErrInvalidDimensions)
	}
	return &BitmapMask{
		width:    width,
		height:   height,
		water:    make([]bool, width*height),
		altitude: make([]float64, width*height),
	}, nil
}

// MaskFromRows builds a mask from text rows: '~' is water, anything else land.
// rows[0] is matrix row 0. All rows must have the same length.
func MaskFromRows(rows []string) (*BitmapMask, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("mask from rows: %w", ErrInvalidDimensions)
	}
	m, err := NewBitmapMask(len(rows[0]), len(rows))
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		if len(row) != m.width {
			return nil, fmt.Errorf("mask row %d has %d cells, want %d: %w", y, len(row), m.width, ErrInvalidDimensions)
		}
		for x := range len(row) {
			m.water[y*m.width+x] = row[x] == '~'
		}
	}
	return m, nil
}

// Width returns the mask width in cells.
func (m *BitmapMask) Width() int { return m.width }

// Height returns the mask height in cells.
func (m *BitmapMask) Height() int { return m.height }

// SetWater marks cell (x,y) as water or land. Out-of-range cells are ignored.
func (m *BitmapMask) SetWater(x, y int, water bool) {
	if !(GridPoint{x, y}).InBounds(m.width, m.height) {
		return
	}
	m.water[y*m.width+x] = water
}

// SetAltitude sets the altitude of cell (x,y). Out-of-range cells are ignored.
func (m *BitmapMask) SetAltitude(x, y int, altitude float64) {
	if !(GridPoint{x, y}).InBounds(m.width, m.height) {
		return
	}
	m.altitude[y*m.width+x] = altitude
}

// IsWater implements WaterMask.
func (m *BitmapMask) IsWater(position Vector2) bool {
	p := ToMatrix(position, m.width, m.height)
	return m.water[p.Index(m.width)]
}

// IsWaterBox implements WaterMask.
func (m *BitmapMask) IsWaterBox(position Vector2, boxSize int) bool {
	c := ToMatrix(position, m.width, m.height)
	half := boxSize / 2
	for y := c.Y - half; y <= c.Y+half; y++ {
		for x := c.X - half; x <= c.X+half; x++ {
			if !(GridPoint{x, y}).InBounds(m.width, m.height) {
				continue
			}
			if m.water[y*m.width+x] {
				return true
			}
		}
	}
	return false
}

// Altitude implements ElevationSource.
func (m *BitmapMask) Altitude(position Vector2) float64 {
	p := ToMatrix(position, m.width, m.height)
	return m.altitude[p.Index(m.width)]
}
