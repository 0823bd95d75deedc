package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/mapnav/internal/game/admin"
	"github.com/udisondev/mapnav/internal/game/costmatrix"
	"github.com/udisondev/mapnav/internal/game/geo"
	"github.com/udisondev/mapnav/internal/game/hexgrid"
	"github.com/udisondev/mapnav/internal/game/route"
)

// CostRepository persists authored route costs: hex side costs and
// altitudes, raster custom costs and admin entity cross costs.
type CostRepository struct {
	db *pgxpool.Pool
}

// NewCostRepository creates a new CostRepository.
func NewCostRepository(db *pgxpool.Pool) *CostRepository {
	return &CostRepository{db: db}
}

// SaveSnapshot replaces every stored cost with the snapshot in a single
// transaction.
func (r *CostRepository) SaveSnapshot(ctx context.Context, s route.CostSnapshot) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "error", err)
		}
	}()

	for _, table := range []string{"hex_side_costs", "hex_cell_altitudes", "raster_overrides", "entity_cross_costs"} {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	sides := make([][]any, 0, len(s.SideCosts))
	for _, sc := range s.SideCosts {
		sides = append(sides, []any{int32(sc.Cell), int16(sc.Side), sc.Cost})
	}
	altitudes := make([][]any, 0, len(s.Altitudes))
	for _, a := range s.Altitudes {
		altitudes = append(altitudes, []any{int32(a.Cell), a.Altitude})
	}
	overrides := make([][]any, 0, len(s.Overrides))
	for _, o := range s.Overrides {
		overrides = append(overrides, []any{int32(o.Point.X), int32(o.Point.Y), o.Cost})
	}
	crosses := make([][]any, 0, len(s.CrossCosts))
	for _, cc := range s.CrossCosts {
		crosses = append(crosses, []any{int16(cc.Kind), int32(cc.Entity), cc.Cost})
	}

	copies := []struct {
		table   string
		columns []string
		rows    [][]any
	}{
		{"hex_side_costs", []string{"cell_index", "side", "cost"}, sides},
		{"hex_cell_altitudes", []string{"cell_index", "altitude"}, altitudes},
		{"raster_overrides", []string{"x", "y", "cost"}, overrides},
		{"entity_cross_costs", []string{"kind", "entity_index", "cost"}, crosses},
	}
	for _, c := range copies {
		if len(c.rows) == 0 {
			continue
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{c.table}, c.columns, pgx.CopyFromRows(c.rows)); err != nil {
			return fmt.Errorf("inserting %s: %w", c.table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit cost snapshot: %w", err)
	}

	slog.Info("cost snapshot saved",
		"sideCosts", len(s.SideCosts),
		"altitudes", len(s.Altitudes),
		"overrides", len(s.Overrides),
		"crossCosts", len(s.CrossCosts))
	return nil
}

// LoadSnapshot reads every stored cost, ordered the way
// route.Resolver.ExportCosts produces them.
func (r *CostRepository) LoadSnapshot(ctx context.Context) (route.CostSnapshot, error) {
	var s route.CostSnapshot

	err := r.scan(ctx, `SELECT cell_index, side, cost FROM hex_side_costs ORDER BY cell_index, side`,
		func(rows pgx.Rows) error {
			var (
				cell int32
				side int16
				cost float64
			)
			if err := rows.Scan(&cell, &side, &cost); err != nil {
				return err
			}
			s.SideCosts = append(s.SideCosts, route.SideCost{Cell: int(cell), Side: hexgrid.Side(side), Cost: cost})
			return nil
		})
	if err != nil {
		return s, fmt.Errorf("loading hex side costs: %w", err)
	}

	err = r.scan(ctx, `SELECT cell_index, altitude FROM hex_cell_altitudes ORDER BY cell_index`,
		func(rows pgx.Rows) error {
			var (
				cell     int32
				altitude float64
			)
			if err := rows.Scan(&cell, &altitude); err != nil {
				return err
			}
			s.Altitudes = append(s.Altitudes, route.CellAltitude{Cell: int(cell), Altitude: altitude})
			return nil
		})
	if err != nil {
		return s, fmt.Errorf("loading hex altitudes: %w", err)
	}

	err = r.scan(ctx, `SELECT x, y, cost FROM raster_overrides ORDER BY y, x`,
		func(rows pgx.Rows) error {
			var (
				x, y int32
				cost float64
			)
			if err := rows.Scan(&x, &y, &cost); err != nil {
				return err
			}
			s.Overrides = append(s.Overrides, costmatrix.Override{Point: geo.GridPoint{X: int(x), Y: int(y)}, Cost: cost})
			return nil
		})
	if err != nil {
		return s, fmt.Errorf("loading raster overrides: %w", err)
	}

	err = r.scan(ctx, `SELECT kind, entity_index, cost FROM entity_cross_costs ORDER BY kind, entity_index`,
		func(rows pgx.Rows) error {
			var (
				kind   int16
				entity int32
				cost   float64
			)
			if err := rows.Scan(&kind, &entity, &cost); err != nil {
				return err
			}
			s.CrossCosts = append(s.CrossCosts, route.CrossCost{Kind: admin.Kind(kind), Entity: int(entity), Cost: cost})
			return nil
		})
	if err != nil {
		return s, fmt.Errorf("loading entity cross costs: %w", err)
	}

	slog.Debug("cost snapshot loaded", "records", s.Len())
	return s, nil
}

func (r *CostRepository) scan(ctx context.Context, query string, fn func(pgx.Rows) error) error {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
	}
	return rows.Err()
}
