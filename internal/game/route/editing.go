package route

import (
	"fmt"

	"github.com/udisondev/mapnav/internal/game/admin"
	"github.com/udisondev/mapnav/internal/game/costmatrix"
	"github.com/udisondev/mapnav/internal/game/geo"
	"github.com/udisondev/mapnav/internal/game/hexgrid"
)

// SetSideCost sets the cost of leaving a hex cell through one side.
// A cost of geo.BlockedCost or more closes the side in that direction only.
func (r *Resolver) SetSideCost(cell int, side hexgrid.Side, cost float64) error {
	if r.hex == nil {
		return ErrNoHexGrid
	}
	return r.hex.SetSideCost(cell, side, cost)
}

// SetAllSidesCost sets the cost of leaving a hex cell through any side.
func (r *Resolver) SetAllSidesCost(cell int, cost float64) error {
	if r.hex == nil {
		return ErrNoHexGrid
	}
	return r.hex.SetAllSidesCost(cell, cost)
}

// SetCustomRouteCost sets the raster cost of the cell at a position.
// A negative cost clears it.
func (r *Resolver) SetCustomRouteCost(position geo.Vector2, cost float64) error {
	w, h := r.matrix.Width(), r.matrix.Height()
	p := geo.GridPoint{X: geo.MatrixX(position.X, w), Y: geo.MatrixY(position.Y, h)}
	if err := r.matrix.SetOverride(p, cost); err != nil {
		return fmt.Errorf("set custom route cost at %v: %w", position, err)
	}
	return nil
}

// SetCustomRouteCostAt sets the same raster cost at many positions and
// returns the number of cells changed. Positions off the map are skipped.
func (r *Resolver) SetCustomRouteCostAt(positions []geo.Vector2, cost float64) int {
	w, h := r.matrix.Width(), r.matrix.Height()
	points := make([]geo.GridPoint, len(positions))
	for i, pos := range positions {
		points[i] = geo.GridPoint{X: geo.MatrixX(pos.X, w), Y: geo.MatrixY(pos.Y, h)}
	}
	return r.matrix.SetOverrides(points, cost)
}

// SetRegionRouteCost sets the raster cost of every cell inside one region.
func (r *Resolver) SetRegionRouteCost(kind admin.Kind, ref admin.RegionRef, cost float64) (int, error) {
	layer, err := r.layer(kind)
	if err != nil {
		return 0, err
	}
	region, ok := layer.Region(ref)
	if !ok {
		return 0, fmt.Errorf("set %s region %d/%d route cost: %w", kind, ref.Entity, ref.Region, admin.ErrIndexOutOfRange)
	}
	return r.matrix.SetOverrides(region.Points.Cells(r.matrix.Width(), r.matrix.Height()), cost), nil
}

// SetCountryRouteCost sets the raster cost of every cell inside a country.
func (r *Resolver) SetCountryRouteCost(country int, cost float64) (int, error) {
	return r.setEntityRouteCost(admin.KindCountry, country, cost)
}

// SetProvinceRouteCost sets the raster cost of every cell inside a province.
func (r *Resolver) SetProvinceRouteCost(province int, cost float64) (int, error) {
	return r.setEntityRouteCost(admin.KindProvince, province, cost)
}

func (r *Resolver) setEntityRouteCost(kind admin.Kind, index int, cost float64) (int, error) {
	layer, err := r.layer(kind)
	if err != nil {
		return 0, err
	}
	if !layer.Valid(index) {
		return 0, fmt.Errorf("set %s %d route cost: %w", kind, index, admin.ErrIndexOutOfRange)
	}
	w, h := r.matrix.Width(), r.matrix.Height()
	n := 0
	for _, region := range layer.Entity(index).Regions {
		n += r.matrix.SetOverrides(region.Points.Cells(w, h), cost)
	}
	return n, nil
}

// SetLineRouteCost sets the raster cost of every cell on the line between
// two positions. With geo.BlockedCost it draws a barrier no route crosses.
func (r *Resolver) SetLineRouteCost(from, to geo.Vector2, cost float64) int {
	w, h := r.matrix.Width(), r.matrix.Height()
	a, b := geo.ToMatrix(from, w, h), geo.ToMatrix(to, w, h)
	var points []geo.GridPoint
	for it := geo.NewLineIterator(a.X, a.Y, b.X, b.Y); it.Next(); {
		points = append(points, it.Point())
	}
	return r.matrix.SetOverrides(points, cost)
}

// ResetCustomRouteCosts removes every raster custom cost.
func (r *Resolver) ResetCustomRouteCosts() {
	r.matrix.Reset()
}

// CustomRouteCosts lists the raster custom costs.
func (r *Resolver) CustomRouteCosts() []costmatrix.Override {
	return r.matrix.Overrides()
}

// SetCrossCost sets the configured cost of crossing a country or province.
func (r *Resolver) SetCrossCost(kind admin.Kind, index int, cost float64) error {
	layer, err := r.layer(kind)
	if err != nil {
		return err
	}
	return layer.SetCrossCost(index, cost)
}

func (r *Resolver) layer(kind admin.Kind) (*admin.Graph, error) {
	if r.atlas == nil {
		return nil, ErrNoAtlas
	}
	layer := r.atlas.Layer(kind)
	if layer == nil {
		return nil, fmt.Errorf("%s layer: %w", kind, ErrNoAtlas)
	}
	return layer, nil
}
