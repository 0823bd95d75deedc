package admin

import (
	"fmt"

	"github.com/udisondev/mapnav/internal/game/geo"
)

// Atlas bundles the country and province layers and answers point lookups.
type Atlas struct {
	Countries *Graph
	Provinces *Graph
}

// Layer returns the graph for kind.
func (a *Atlas) Layer(kind Kind) *Graph {
	if kind == KindProvince {
		return a.Provinces
	}
	return a.Countries
}

// CountryAt returns the country index at p, or -1.
func (a *Atlas) CountryAt(p geo.Vector2) int {
	if a.Countries == nil {
		return -1
	}
	return a.Countries.EntityAt(p)
}

// ProvinceAt returns the province index at p, or -1.
func (a *Atlas) ProvinceAt(p geo.Vector2) int {
	if a.Provinces == nil {
		return -1
	}
	return a.Provinces.EntityAt(p)
}

// GenerateGridAtlas tiles the map with countriesX×countriesY rectangular
// countries, each split into provincesPerSide² provinces. Neighbouring
// tiles share frontier segments, so adjacency falls out of the geometry.
func GenerateGridAtlas(countriesX, countriesY, provincesPerSide int) (*Atlas, error) {
	if countriesX <= 0 || countriesY <= 0 || provincesPerSide <= 0 {
		return nil, fmt.Errorf("grid atlas %dx%d/%d: %w", countriesX, countriesY, provincesPerSide, geo.ErrInvalidDimensions)
	}

	// Province tiles are laid out on the fine grid; country frontiers are
	// traced through the same fine vertices so segments line up.
	fineX := countriesX * provincesPerSide
	fineY := countriesY * provincesPerSide
	vertex := func(i, j int) geo.Vector2 {
		return geo.Vector2{X: float64(i)/float64(fineX) - 0.5, Y: float64(j)/float64(fineY) - 0.5}
	}

	countries := make([]Entity, 0, countriesX*countriesY)
	provinces := make([]Entity, 0, fineX*fineY)
	for cy := range countriesY {
		for cx := range countriesX {
			ci := len(countries)
			x0, y0 := cx*provincesPerSide, cy*provincesPerSide
			countries = append(countries, Entity{
				Name:    fmt.Sprintf("country-%d-%d", cx, cy),
				Parent:  -1,
				Regions: []Region{{Points: tracedRect(vertex, x0, y0, provincesPerSide)}},
			})
			for py := range provincesPerSide {
				for px := range provincesPerSide {
					provinces = append(provinces, Entity{
						Name:    fmt.Sprintf("province-%d-%d", x0+px, y0+py),
						Parent:  ci,
						Regions: []Region{{Points: tracedRect(vertex, x0+px, y0+py, 1)}},
					})
				}
			}
		}
	}

	return &Atlas{
		Countries: NewGraph(KindCountry, countries),
		Provinces: NewGraph(KindProvince, provinces),
	}, nil
}

// tracedRect returns a size×size square on the fine vertex lattice with
// every lattice vertex along its border, counter-clockwise.
func tracedRect(vertex func(i, j int) geo.Vector2, x0, y0, size int) geo.Polygon {
	pts := make(geo.Polygon, 0, 4*size)
	for i := range size {
		pts = append(pts, vertex(x0+i, y0))
	}
	for j := range size {
		pts = append(pts, vertex(x0+size, y0+j))
	}
	for i := range size {
		pts = append(pts, vertex(x0+size-i, y0+size))
	}
	for j := range size {
		pts = append(pts, vertex(x0, y0+size-j))
	}
	return pts
}
