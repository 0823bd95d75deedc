package route

import (
	"errors"
	"fmt"

	"github.com/udisondev/mapnav/internal/game/admin"
	"github.com/udisondev/mapnav/internal/game/costmatrix"
	"github.com/udisondev/mapnav/internal/game/hexgrid"
)

// SideCost is a hex side whose cost differs from the grid default.
type SideCost struct {
	Cell int
	Side hexgrid.Side
	Cost float64
}

// CellAltitude is a hex cell with a non-zero altitude.
type CellAltitude struct {
	Cell     int
	Altitude float64
}

// CrossCost is an admin entity with a non-zero cross cost.
type CrossCost struct {
	Kind   admin.Kind
	Entity int
	Cost   float64
}

// CostSnapshot is every authored cost, detached from the live structures.
type CostSnapshot struct {
	SideCosts  []SideCost
	Altitudes  []CellAltitude
	Overrides  []costmatrix.Override
	CrossCosts []CrossCost
}

// Len returns the number of records in the snapshot.
func (s CostSnapshot) Len() int {
	return len(s.SideCosts) + len(s.Altitudes) + len(s.Overrides) + len(s.CrossCosts)
}

// ExportCosts captures the current custom costs.
func (r *Resolver) ExportCosts() CostSnapshot {
	s := CostSnapshot{Overrides: r.matrix.Overrides()}

	if r.hex != nil {
		def := r.hex.DefaultSideCost()
		for i := range r.hex.Len() {
			rec, _ := r.hex.CostRecord(i)
			for side, c := range rec.SideCost {
				if c != def {
					s.SideCosts = append(s.SideCosts, SideCost{Cell: i, Side: hexgrid.Side(side), Cost: c})
				}
			}
			if rec.Altitude != 0 {
				s.Altitudes = append(s.Altitudes, CellAltitude{Cell: i, Altitude: rec.Altitude})
			}
		}
	}

	if r.atlas != nil {
		for _, kind := range []admin.Kind{admin.KindCountry, admin.KindProvince} {
			layer := r.atlas.Layer(kind)
			if layer == nil {
				continue
			}
			for i := range layer.Len() {
				if c := layer.Entity(i).CrossCost; c != 0 {
					s.CrossCosts = append(s.CrossCosts, CrossCost{Kind: kind, Entity: i, Cost: c})
				}
			}
		}
	}
	return s
}

// ImportCosts replaces every custom cost with the snapshot. Records that do
// not fit the current structures are skipped and reported together.
func (r *Resolver) ImportCosts(s CostSnapshot) error {
	var errs []error

	r.matrix.Reset()
	for _, o := range s.Overrides {
		if err := r.matrix.SetOverride(o.Point, o.Cost); err != nil {
			errs = append(errs, err)
		}
	}

	if r.hex != nil {
		r.hex.ResetCosts()
		for _, sc := range s.SideCosts {
			if err := r.hex.SetSideCost(sc.Cell, sc.Side, sc.Cost); err != nil {
				errs = append(errs, err)
			}
		}
		for _, a := range s.Altitudes {
			if err := r.hex.SetAltitude(a.Cell, a.Altitude); err != nil {
				errs = append(errs, err)
			}
		}
	} else if len(s.SideCosts)+len(s.Altitudes) > 0 {
		errs = append(errs, ErrNoHexGrid)
	}

	if r.atlas != nil {
		for _, kind := range []admin.Kind{admin.KindCountry, admin.KindProvince} {
			if layer := r.atlas.Layer(kind); layer != nil {
				for i := range layer.Len() {
					if layer.Entity(i).CrossCost != 0 {
						if err := layer.SetCrossCost(i, 0); err != nil {
							errs = append(errs, err)
						}
					}
				}
			}
		}
		for _, cc := range s.CrossCosts {
			if err := r.SetCrossCost(cc.Kind, cc.Entity, cc.Cost); err != nil {
				errs = append(errs, err)
			}
		}
	} else if len(s.CrossCosts) > 0 {
		errs = append(errs, ErrNoAtlas)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("import costs: %w", err)
	}
	r.log.Info("costs imported", "records", s.Len())
	return nil
}
