package geo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskFromRows(t *testing.T) {
	m, err := MaskFromRows([]string{
		"..~",
		"...",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, m.Width())
	assert.Equal(t, 2, m.Height())

	assert.True(t, m.IsWater(ToGeo(GridPoint{2, 0}, 3, 2)))
	assert.False(t, m.IsWater(ToGeo(GridPoint{0, 0}, 3, 2)))
	assert.False(t, m.IsWater(ToGeo(GridPoint{2, 1}, 3, 2)))
}

func TestMaskFromRowsRagged(t *testing.T) {
	_, err := MaskFromRows([]string{"...", ".."})
	assert.True(t, errors.Is(err, ErrInvalidDimensions))

	_, err = NewBitmapMask(0, 4)
	assert.True(t, errors.Is(err, ErrInvalidDimensions))
}

func TestIsWaterBox(t *testing.T) {
	m, err := MaskFromRows([]string{
		".....",
		".....",
		"...~.",
		".....",
		".....",
	})
	require.NoError(t, err)

	center := ToGeo(GridPoint{2, 2}, 5, 5)
	assert.False(t, m.IsWater(center))
	assert.False(t, m.IsWaterBox(center, 1))
	assert.True(t, m.IsWaterBox(center, 3))
}

func TestBitmapAltitude(t *testing.T) {
	m, err := NewBitmapMask(2, 2)
	require.NoError(t, err)
	m.SetAltitude(1, 1, 250)
	m.SetAltitude(5, 5, 999) // ignored

	assert.Equal(t, 250.0, m.Altitude(ToGeo(GridPoint{1, 1}, 2, 2)))
	assert.Equal(t, 0.0, m.Altitude(ToGeo(GridPoint{0, 1}, 2, 2)))
}

func TestNoiseMaskSampleRanges(t *testing.T) {
	cfg := DefaultNoiseConfig()
	a := NewNoiseMask(cfg)
	b := NewNoiseMask(cfg)

	for i := range 50 {
		p := Vector2{X: float64(i)/50 - 0.5, Y: float64(i%7)/7 - 0.5}
		assert.Equal(t, a.IsWater(p), b.IsWater(p))
		assert.Equal(t, a.Altitude(p), b.Altitude(p))
		if a.IsWater(p) {
			assert.Equal(t, 0.0, a.Altitude(p))
			assert.True(t, a.IsWaterBox(p, 3))
		} else {
			assert.GreaterOrEqual(t, a.Altitude(p), 0.0)
			assert.LessOrEqual(t, a.Altitude(p), cfg.MaxAltitude)
		}
	}
}
