package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/udisondev/mapnav/internal/config"
	"github.com/udisondev/mapnav/internal/db"
	"github.com/udisondev/mapnav/internal/game/route"
)

const (
	ConfigPath  = "config/mapnav.yaml"
	QueriesPath = "config/queries.yaml"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mapnav", flag.ContinueOnError)
	cfgPath := fs.String("config", config.Path(ConfigPath), "config file")
	queriesPath := fs.String("queries", QueriesPath, "query batch file")
	save := fs.Bool("save", false, "store the edited costs in the database after the batch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadMapNav(*cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("mapnav starting", "log_level", cfg.LogLevel, "config", *cfgPath)

	w, err := buildWorld(ctx, cfg)
	if err != nil {
		return fmt.Errorf("building world: %w", err)
	}
	slog.Info("world built",
		"matrix", fmt.Sprintf("%dx%d", w.matrix.Width(), w.matrix.Height()),
		"matrix_cells", humanize.Comma(int64(w.matrix.Width()*w.matrix.Height())),
		"hex_cells", humanize.Comma(int64(w.hex.Len())),
		"countries", w.atlas.Countries.Len(),
		"provinces", w.atlas.Provinces.Len())

	resolver, err := route.New(settingsFrom(cfg.Pathfinding), w.mask, w.matrix,
		route.WithHexGrid(w.hex),
		route.WithAtlas(w.atlas),
	)
	if err != nil {
		return fmt.Errorf("creating resolver: %w", err)
	}

	var repo *db.CostRepository
	if cfg.Database.Enabled {
		database, err := db.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()

		applied, err := db.RunMigrations(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied", "versions", applied)

		repo = db.NewCostRepository(database.Pool())
		snap, err := repo.LoadSnapshot(ctx)
		if err != nil {
			return fmt.Errorf("loading costs: %w", err)
		}
		if snap.Len() > 0 {
			if err := resolver.ImportCosts(snap); err != nil {
				// Stale records are reported but the rest still applies.
				slog.Warn("restoring costs", "err", err)
			}
		}
	}

	batch, err := LoadBatch(*queriesPath)
	if err != nil {
		return fmt.Errorf("loading queries: %w", err)
	}
	report, err := batch.Run(ctx, resolver)
	if err != nil {
		return fmt.Errorf("running batch: %w", err)
	}
	slog.Info("batch finished",
		"edits", report.Edits,
		"queries", len(report.Results),
		"found", report.Found(),
		"expanded", humanize.Comma(int64(report.Expanded())))

	if *save {
		if repo == nil {
			return fmt.Errorf("saving costs: database disabled")
		}
		if err := repo.SaveSnapshot(ctx, resolver.ExportCosts()); err != nil {
			return fmt.Errorf("saving costs: %w", err)
		}
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
