// Package route turns route requests into searches over the raster cost
// matrix, the hex grid or the admin entity graphs, and post-processes the
// raw paths into caller-facing results.
package route

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/udisondev/mapnav/internal/game/admin"
	"github.com/udisondev/mapnav/internal/game/costmatrix"
	"github.com/udisondev/mapnav/internal/game/geo"
	"github.com/udisondev/mapnav/internal/game/hexgrid"
	"github.com/udisondev/mapnav/internal/game/pathfind"
)

var (
	// ErrNoHexGrid is returned by hex operations when no grid is attached.
	ErrNoHexGrid = errors.New("no hex grid")
	// ErrNoAtlas is returned by admin operations when no atlas is attached.
	ErrNoAtlas = errors.New("no admin atlas")
)

// Locator resolves geographic positions to admin entities (-1 if none).
type Locator interface {
	CountryAt(p geo.Vector2) int
	ProvinceAt(p geo.Vector2) int
}

// Settings are the map-wide defaults and tuning knobs.
type Settings struct {
	// MaxSearchCost and MaxSteps apply when a request passes <= 0.
	MaxSearchCost float64
	MaxSteps      int

	Formula      pathfind.Formula
	Diagonals    bool
	DiagonalCost float64

	// WrapHorizontally lets raster routes cross the ±0.5 seam.
	WrapHorizontally bool

	// SnapRadius is the search radius, in matrix cells, for water snapping.
	SnapRadius int
	// SnapAttempts and SnapStep drive the fallback walk toward the start.
	SnapAttempts int
	SnapStep     float64

	// GroundNudgeAttempts bounds the 10% steps pulling a ground route's end
	// back inside an admin entity.
	GroundNudgeAttempts int
}

// DefaultSettings returns the defaults used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		MaxSearchCost:       200000,
		MaxSteps:            2000000,
		Formula:             pathfind.FormulaEuclidean,
		DiagonalCost:        math.Sqrt2,
		SnapRadius:          5,
		SnapAttempts:        10,
		SnapStep:            0.005,
		GroundNudgeAttempts: 10,
	}
}

// Resolver answers route queries. It owns no search state between calls;
// the cost matrix, hex grid and atlas it references are shared and must not
// be edited while a query runs.
type Resolver struct {
	settings Settings
	mask     geo.WaterMask
	matrix   *costmatrix.Matrix
	hex      *hexgrid.Grid
	atlas    *admin.Atlas
	locator  Locator
	log      *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHexGrid enables hex routes and side cost editing.
func WithHexGrid(g *hexgrid.Grid) Option {
	return func(r *Resolver) { r.hex = g }
}

// WithAtlas enables admin routes, region cost editing and uses the atlas as
// the default Locator.
func WithAtlas(a *admin.Atlas) Option {
	return func(r *Resolver) {
		r.atlas = a
		if r.locator == nil {
			r.locator = a
		}
	}
}

// WithLocator overrides the Locator.
func WithLocator(l Locator) Option {
	return func(r *Resolver) { r.locator = l }
}

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.log = l }
}

// New creates a Resolver over a water mask and a cost matrix.
func New(settings Settings, mask geo.WaterMask, matrix *costmatrix.Matrix, opts ...Option) (*Resolver, error) {
	if mask == nil {
		return nil, fmt.Errorf("route resolver: %w", costmatrix.ErrNilMask)
	}
	if matrix == nil {
		return nil, errors.New("route resolver: nil cost matrix")
	}
	r := &Resolver{
		settings: settings,
		mask:     mask,
		matrix:   matrix,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	r.log = r.log.With("component", "route")
	return r, nil
}

// Settings returns the resolver defaults.
func (r *Resolver) Settings() Settings { return r.settings }

// Matrix returns the raster cost matrix.
func (r *Resolver) Matrix() *costmatrix.Matrix { return r.matrix }

// HexGrid returns the attached hex grid, or nil.
func (r *Resolver) HexGrid() *hexgrid.Grid { return r.hex }

// Atlas returns the attached atlas, or nil.
func (r *Resolver) Atlas() *admin.Atlas { return r.atlas }

func (r *Resolver) maxCost(requested float64) float64 {
	if requested <= 0 {
		return r.settings.MaxSearchCost
	}
	return requested
}

func (r *Resolver) maxSteps(requested int) int {
	if requested <= 0 {
		return r.settings.MaxSteps
	}
	return requested
}
