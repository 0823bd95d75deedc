package geo

import "fmt"

// Terrain bitmask constants.
// 2-bit mask stored per cost matrix cell.
const (
	TerrainGround byte = 1 << 0 // 0x01
	TerrainWater  byte = 1 << 1 // 0x02
	TerrainAll    byte = TerrainGround | TerrainWater
)

// Cost conventions shared by the raster, hex and admin graphs.
const (
	// BlockedCost closes a hex side or a raster cell. Any cost above the
	// query's max search cost is treated as impassable, so this only has to
	// be larger than every sane search limit.
	BlockedCost = 10000.0

	// NoOverride marks a custom cost overlay cell without a value.
	NoOverride = -1.0

	// DefaultStepCost is the cost of entering a passable cell without overrides.
	DefaultStepCost = 1.0
)

// Capability describes which terrain classes an agent may cross.
type Capability byte

const (
	CapabilityGround = Capability(TerrainGround)
	CapabilityWater  = Capability(TerrainWater)
	CapabilityAny    = Capability(TerrainAll)
)

// Allows reports whether a cell with the given terrain bits is crossable.
func (c Capability) Allows(terrain byte) bool {
	return byte(c)&terrain != 0
}

// WaterOnly reports whether the capability excludes ground cells.
func (c Capability) WaterOnly() bool {
	return c == CapabilityWater
}

// GroundOnly reports whether the capability excludes water cells.
func (c Capability) GroundOnly() bool {
	return c == CapabilityGround
}

func (c Capability) String() string {
	switch c {
	case CapabilityGround:
		return "ground"
	case CapabilityWater:
		return "water"
	case CapabilityAny:
		return "any"
	default:
		return fmt.Sprintf("capability(%d)", byte(c))
	}
}

// ParseCapability converts "ground", "water" or "any" to a Capability.
func ParseCapability(s string) (Capability, error) {
	switch s {
	case "ground":
		return CapabilityGround, nil
	case "water":
		return CapabilityWater, nil
	case "any", "":
		return CapabilityAny, nil
	default:
		return 0, fmt.Errorf("unknown capability %q", s)
	}
}

// TerrainOf returns the terrain bits for a water/land sample.
func TerrainOf(water bool) byte {
	if water {
		return TerrainWater
	}
	return TerrainGround
}

// AltitudeRange filters cells by altitude. The zero value accepts everything.
type AltitudeRange struct {
	Min, Max float64
}

// Unbounded reports whether the range applies no filter.
func (r AltitudeRange) Unbounded() bool {
	return r.Min == 0 && r.Max == 0
}

// Contains reports whether altitude passes the filter.
func (r AltitudeRange) Contains(altitude float64) bool {
	if r.Unbounded() {
		return true
	}
	return altitude >= r.Min && altitude <= r.Max
}
