package pathfind

import (
	"fmt"
	"math"

	"github.com/udisondev/mapnav/internal/game/geo"
)

// Formula selects the distance estimate used to guide the search.
type Formula uint8

const (
	// FormulaEuclidean is the straight-line distance.
	FormulaEuclidean Formula = iota
	// FormulaManhattan is |dx|+|dy|. Admissible only without diagonal moves.
	FormulaManhattan
	// FormulaMaxDXDY is max(|dx|,|dy|).
	FormulaMaxDXDY
	// FormulaDiagonalShortcut charges diagonal cost for the diagonal part of
	// the distance and 1 for the straight remainder (octile distance).
	FormulaDiagonalShortcut
)

var formulaNames = map[Formula]string{
	FormulaEuclidean:        "euclidean",
	FormulaManhattan:        "manhattan",
	FormulaMaxDXDY:          "maxdxdy",
	FormulaDiagonalShortcut: "diagonal_shortcut",
}

func (f Formula) String() string {
	if s, ok := formulaNames[f]; ok {
		return s
	}
	return fmt.Sprintf("formula(%d)", uint8(f))
}

// ParseFormula converts a config name to a Formula.
func ParseFormula(s string) (Formula, error) {
	if s == "" {
		return FormulaEuclidean, nil
	}
	for f, name := range formulaNames {
		if name == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown heuristic formula %q", s)
}

// Estimate returns the distance for absolute axis deltas dx, dy.
// diagonalCost is only used by FormulaDiagonalShortcut.
func (f Formula) Estimate(dx, dy, diagonalCost float64) float64 {
	dx, dy = math.Abs(dx), math.Abs(dy)
	switch f {
	case FormulaManhattan:
		return dx + dy
	case FormulaMaxDXDY:
		return math.Max(dx, dy)
	case FormulaDiagonalShortcut:
		diag := math.Min(dx, dy)
		straight := dx + dy
		return diagonalCost*diag + (straight - 2*diag)
	default:
		return math.Sqrt(dx*dx + dy*dy)
	}
}

// Between estimates the distance between two grid points.
func (f Formula) Between(a, b geo.GridPoint, diagonalCost float64) float64 {
	return f.Estimate(float64(a.X-b.X), float64(a.Y-b.Y), diagonalCost)
}
