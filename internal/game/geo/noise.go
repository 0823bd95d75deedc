package geo

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// NoiseConfig holds parameters for a procedural water mask.
type NoiseConfig struct {
	Seed      int64
	SeaLevel  float64 // elevation threshold for water (0.0–1.0)
	Frequency float64 // base noise frequency across the map
	Octaves   int
	// MaxAltitude scales the normalized elevation into altitude units.
	MaxAltitude float64
	// CellSize is the sample spacing used by IsWaterBox.
	CellSize float64
}

// DefaultNoiseConfig returns a mostly-land world with scattered seas.
func DefaultNoiseConfig() NoiseConfig {
	return NoiseConfig{
		Seed:        42,
		SeaLevel:    0.35,
		Frequency:   6,
		Octaves:     4,
		MaxAltitude: 1000,
		CellSize:    1.0 / 2048,
	}
}

// NoiseMask derives water and altitude from layered simplex noise.
// Deterministic for a fixed config.
type NoiseMask struct {
	cfg   NoiseConfig
	noise opensimplex.Noise
}

// NewNoiseMask creates a procedural mask.
func NewNoiseMask(cfg NoiseConfig) *NoiseMask {
	if cfg.Octaves <= 0 {
		cfg.Octaves = 1
	}
	if cfg.CellSize <= 0 {
		cfg.CellSize = DefaultNoiseConfig().CellSize
	}
	return &NoiseMask{cfg: cfg, noise: opensimplex.NewNormalized(cfg.Seed)}
}

// elevation returns normalized elevation in [0,1).
func (m *NoiseMask) elevation(p Vector2) float64 {
	var sum, norm float64
	amp, freq := 1.0, m.cfg.Frequency
	for range m.cfg.Octaves {
		sum += amp * m.noise.Eval2(p.X*freq, p.Y*freq)
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	return sum / norm
}

// IsWater implements WaterMask.
func (m *NoiseMask) IsWater(position Vector2) bool {
	return m.elevation(position) < m.cfg.SeaLevel
}

// IsWaterBox implements WaterMask.
func (m *NoiseMask) IsWaterBox(position Vector2, boxSize int) bool {
	half := boxSize / 2
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			p := Vector2{
				X: position.X + float64(dx)*m.cfg.CellSize,
				Y: position.Y + float64(dy)*m.cfg.CellSize,
			}
			if m.IsWater(p) {
				return true
			}
		}
	}
	return false
}

// Altitude implements ElevationSource. Water reports 0.
func (m *NoiseMask) Altitude(position Vector2) float64 {
	e := m.elevation(position)
	if e < m.cfg.SeaLevel {
		return 0
	}
	return (e - m.cfg.SeaLevel) / (1 - m.cfg.SeaLevel) * m.cfg.MaxAltitude
}
