package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/mapnav/internal/config"
	"github.com/udisondev/mapnav/internal/game/admin"
	"github.com/udisondev/mapnav/internal/game/costmatrix"
	"github.com/udisondev/mapnav/internal/game/geo"
	"github.com/udisondev/mapnav/internal/game/hexgrid"
	"github.com/udisondev/mapnav/internal/game/pathfind"
	"github.com/udisondev/mapnav/internal/game/route"
)

// world is everything a resolver routes over.
type world struct {
	mask   *geo.NoiseMask
	matrix *costmatrix.Matrix
	hex    *hexgrid.Grid
	atlas  *admin.Atlas
}

// buildWorld samples the terrain into the matrix and the hex grid and
// generates the atlas concurrently. The parts share only the read-only mask.
func buildWorld(ctx context.Context, cfg config.MapNav) (*world, error) {
	start := time.Now()
	w := &world{
		mask: geo.NewNoiseMask(geo.NoiseConfig{
			Seed:        cfg.World.Seed,
			SeaLevel:    cfg.World.SeaLevel,
			Frequency:   cfg.World.Frequency,
			Octaves:     cfg.World.Octaves,
			MaxAltitude: cfg.World.MaxAltitude,
			CellSize:    1 / float64(cfg.Pathfinding.MatrixWidth),
		}),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		m, err := costmatrix.New(cfg.Pathfinding.MatrixWidth, cfg.Pathfinding.MatrixHeight, w.mask, w.mask)
		if err != nil {
			return err
		}
		if gctx.Err() != nil {
			return gctx.Err()
		}
		// Warm the terrain layer most queries use.
		m.Build(geo.CapabilityGround, geo.AltitudeRange{})
		w.matrix = m
		return nil
	})

	g.Go(func() error {
		grid, err := hexgrid.New(cfg.HexGrid.Rows, cfg.HexGrid.Columns, cfg.HexGrid.DefaultSideCost)
		if err != nil {
			return err
		}
		grid.SampleAltitude(w.mask)
		w.hex = grid
		return nil
	})

	g.Go(func() error {
		atlas, err := admin.GenerateGridAtlas(cfg.World.CountriesX, cfg.World.CountriesY, cfg.World.ProvincesPerSide)
		if err != nil {
			return err
		}
		w.atlas = atlas
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("building world: %w", err)
	}
	slog.Debug("world sampled", "took", time.Since(start))
	return w, nil
}

// settingsFrom maps the pathfinding config onto resolver settings. An
// unknown heuristic falls back to Euclidean with a warning.
func settingsFrom(p config.Pathfinding) route.Settings {
	s := route.DefaultSettings()
	formula, err := pathfind.ParseFormula(p.Heuristic)
	if err != nil {
		slog.Warn("unknown heuristic, using euclidean", "heuristic", p.Heuristic)
		formula = pathfind.FormulaEuclidean
	}
	s.Formula = formula
	s.MaxSearchCost = p.MaxSearchCost
	s.MaxSteps = p.MaxSteps
	s.Diagonals = p.Diagonals
	if p.DiagonalCost > 0 {
		s.DiagonalCost = p.DiagonalCost
	}
	s.WrapHorizontally = p.WrapHorizontally
	s.SnapRadius = p.SnapRadius
	s.SnapAttempts = p.SnapAttempts
	if p.SnapStep > 0 {
		s.SnapStep = p.SnapStep
	}
	return s
}
