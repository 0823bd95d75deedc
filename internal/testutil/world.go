package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/mapnav/internal/game/costmatrix"
	"github.com/udisondev/mapnav/internal/game/geo"
)

// Terrain builds a bitmap mask from text rows ('~' water, rows[0] is y=0)
// and a cost matrix of the same size sampling it for water and altitude.
func Terrain(t testing.TB, rows ...string) (*geo.BitmapMask, *costmatrix.Matrix) {
	t.Helper()
	mask, err := geo.MaskFromRows(rows)
	require.NoError(t, err)
	m, err := costmatrix.New(mask.Width(), mask.Height(), mask, mask)
	require.NoError(t, err)
	return mask, m
}

// Land returns width×height rows of land for Terrain.
func Land(width, height int) []string {
	row := make([]byte, width)
	for i := range row {
		row[i] = '.'
	}
	rows := make([]string, height)
	for i := range rows {
		rows[i] = string(row)
	}
	return rows
}
