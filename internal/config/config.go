package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "MAPNAV_CONFIG"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// MapNav holds all configuration for the route engine.
type MapNav struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	Pathfinding Pathfinding    `yaml:"pathfinding"`
	HexGrid     HexGrid        `yaml:"hexgrid"`
	World       World          `yaml:"world"`
	Database    DatabaseConfig `yaml:"database"`
}

// Pathfinding configures the raster matrix and search defaults.
type Pathfinding struct {
	MatrixWidth  int `yaml:"matrix_width"`
	MatrixHeight int `yaml:"matrix_height"`

	// Used when a query passes a limit <= 0.
	MaxSearchCost float64 `yaml:"max_search_cost"`
	MaxSteps      int     `yaml:"max_steps"`

	Heuristic        string  `yaml:"heuristic"` // euclidean, manhattan, maxdxdy, diagonal_shortcut
	Diagonals        bool    `yaml:"diagonals"`
	DiagonalCost     float64 `yaml:"diagonal_cost"`
	WrapHorizontally bool    `yaml:"wrap_horizontally"`

	// Water destination snapping
	SnapRadius   int     `yaml:"snap_radius"` // matrix cells
	SnapAttempts int     `yaml:"snap_attempts"`
	SnapStep     float64 `yaml:"snap_step"` // geographic units per attempt
}

// HexGrid configures the hex grid model.
type HexGrid struct {
	Rows            int     `yaml:"rows"`
	Columns         int     `yaml:"columns"`
	DefaultSideCost float64 `yaml:"default_side_cost"`
}

// World configures the synthetic world: noise terrain and grid atlas.
type World struct {
	Seed        int64   `yaml:"seed"`
	SeaLevel    float64 `yaml:"sea_level"` // normalized noise threshold, 0..1
	Frequency   float64 `yaml:"frequency"`
	Octaves     int     `yaml:"octaves"`
	MaxAltitude float64 `yaml:"max_altitude"`

	CountriesX       int `yaml:"countries_x"`
	CountriesY       int `yaml:"countries_y"`
	ProvincesPerSide int `yaml:"provinces_per_side"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int32  `yaml:"max_conns"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultMapNav returns MapNav config with sensible defaults.
func DefaultMapNav() MapNav {
	return MapNav{
		LogLevel: "info",
		Pathfinding: Pathfinding{
			MatrixWidth:   512,
			MatrixHeight:  256,
			MaxSearchCost: 200000,
			MaxSteps:      2000000,
			Heuristic:     "euclidean",
			DiagonalCost:  1.41421356,
			SnapRadius:    5,
			SnapAttempts:  10,
			SnapStep:      0.005,
		},
		HexGrid: HexGrid{
			Rows:            64,
			Columns:         96,
			DefaultSideCost: 1,
		},
		World: World{
			Seed:             1,
			SeaLevel:         0.45,
			Frequency:        3,
			Octaves:          4,
			MaxAltitude:      3000,
			CountriesX:       6,
			CountriesY:       4,
			ProvincesPerSide: 3,
		},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "mapnav",
			Password: "mapnav",
			DBName:   "mapnav",
			SSLMode:  "disable",
			MaxConns: 4,
		},
	}
}

// Validate rejects configurations the engine cannot be built from.
func (c MapNav) Validate() error {
	p, h, w := c.Pathfinding, c.HexGrid, c.World
	switch {
	case p.MatrixWidth <= 0 || p.MatrixHeight <= 0:
		return fmt.Errorf("%w: matrix %dx%d", ErrInvalid, p.MatrixWidth, p.MatrixHeight)
	case h.Rows <= 0 || h.Columns <= 0:
		return fmt.Errorf("%w: hex grid %dx%d", ErrInvalid, h.Rows, h.Columns)
	case h.DefaultSideCost < 0:
		return fmt.Errorf("%w: hex default side cost %v", ErrInvalid, h.DefaultSideCost)
	case w.CountriesX <= 0 || w.CountriesY <= 0 || w.ProvincesPerSide <= 0:
		return fmt.Errorf("%w: atlas %dx%d/%d", ErrInvalid, w.CountriesX, w.CountriesY, w.ProvincesPerSide)
	case p.SnapRadius < 0 || p.SnapAttempts < 0:
		return fmt.Errorf("%w: negative snapping limits", ErrInvalid)
	}
	return nil
}

// Path returns the config path from MAPNAV_CONFIG, or fallback.
func Path(fallback string) string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return fallback
}

// LoadMapNav loads config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadMapNav(path string) (MapNav, error) {
	cfg := DefaultMapNav()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
