package engine

import "fmt"

// FeatureType represents the kind of a static map feature
type FeatureType string

const (
	Planet        FeatureType = "planet"
	Asteroid      FeatureType = "asteroid"
	StrongGravity FeatureType = "strong_gravity"
	WeakGravity   FeatureType = "weak_gravity"
	MapBoundary   FeatureType = "map_boundary"
	Base          FeatureType = "base"

	// Rule constants
	MaxTakeoffBurn = 1
	LandingBurn    = 1
	OrbitSpeed     = 1
)

// Crash reasons are matched literally by callers
const (
	CrashOffMap              = "Off map"
	CrashNotLanded           = "Cannot take off: not landed at base"
	CrashTakeoffTooLarge     = "Cannot take off: acceleration too large"
	CrashNoBase              = "Cannot take off: no base at current position"
	CrashNotInOrbit          = "Cannot land: not in orbit"
	CrashLandingFuel         = "Landing requires expending exactly 1 fuel point"
	CrashNoBaseAtDestination = "Cannot land: no base at destination"
	CrashMustTakeOff         = "Ship is landed and must take off first"
)

// Vector is a displacement in axial hex coordinates
type Vector struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// Add returns the componentwise sum
func (v Vector) Add(o Vector) Vector {
	return Vector{DX: v.DX + o.DX, DY: v.DY + o.DY}
}

// Length returns the hex distance covered by the vector (cube-coordinate formula)
func (v Vector) Length() int {
	return (abs(v.DX) + abs(v.DY) + abs(v.DX+v.DY)) / 2
}

// IsZero reports whether the vector is (0,0)
func (v Vector) IsZero() bool {
	return v.DX == 0 && v.DY == 0
}

func (v Vector) String() string {
	return fmt.Sprintf("Vector(%d, %d)", v.DX, v.DY)
}

// Position is a hex on the map. Landed is part of the identity: the same hex on a
// base surface and in free space are different states.
type Position struct {
	X      int  `json:"x"`
	Y      int  `json:"y"`
	Landed bool `json:"landed,omitempty"`
}

// Add moves the position by v, keeping the landed flag
func (p Position) Add(v Vector) Position {
	return Position{X: p.X + v.DX, Y: p.Y + v.DY, Landed: p.Landed}
}

// Sub returns the vector leading from o to p
func (p Position) Sub(o Position) Vector {
	return Vector{DX: p.X - o.X, DY: p.Y - o.Y}
}

// Hex returns the coordinates without the landed flag
func (p Position) Hex() Position {
	return Position{X: p.X, Y: p.Y}
}

// WithLanded returns a copy with the landed flag overwritten
func (p Position) WithLanded(landed bool) Position {
	p.Landed = landed
	return p
}

func (p Position) String() string {
	if p.Landed {
		return fmt.Sprintf("Pos(%d, %d, landed)", p.X, p.Y)
	}
	return fmt.Sprintf("Pos(%d, %d)", p.X, p.Y)
}

// MapFeature is a static map element created once at game setup
type MapFeature struct {
	Name             string      `json:"name"`
	Type             FeatureType `json:"type"`
	Position         Position    `json:"position"`
	GravityDirection *Vector     `json:"gravity_direction,omitempty"` // Required for gravity hexes
	PlanetName       string      `json:"planet_name,omitempty"`       // Owning astral body
}

// IsGravity reports whether the feature is a strong or weak gravity hex
func (f MapFeature) IsGravity() bool {
	return f.Type == StrongGravity || f.Type == WeakGravity
}

// Ship is a named vessel and where it starts the game
type Ship struct {
	Name             string   `json:"name"`
	StartingPosition Position `json:"starting_position"`
}

// Action is one player decision for one ship in one turn
type Action struct {
	Acceleration Vector   `json:"acceleration"`
	WeakGravity  []Vector `json:"weak_gravity,omitempty"` // Chosen weak gravity to apply this turn
	Landing      bool     `json:"landing,omitempty"`
	TakingOff    bool     `json:"taking_off,omitempty"`
}

// ShipState is the snapshot a turn starts from
type ShipState struct {
	Name          string   `json:"name"`
	Position      Position `json:"position"`
	Vector        Vector   `json:"vector"`
	StrongGravity []Vector `json:"strong_gravity"` // Carried from the previous turn
}

// Turn is the immutable record of one resolved ship turn
type Turn struct {
	ShipName string `json:"ship_name"`
	Number   int    `json:"number"`
	Action   Action `json:"action"`

	StartPosition      Position `json:"start_position"`
	StartVector        Vector   `json:"start_vector"`
	StartStrongGravity []Vector `json:"start_strong_gravity"`

	NewPosition      Position `json:"new_position"`
	NewVector        Vector   `json:"new_vector"`
	NewStrongGravity []Vector `json:"new_strong_gravity"` // Applied automatically next turn
	NewWeakGravity   []Vector `json:"new_weak_gravity"`   // Options for next turn

	Path        []Position `json:"path"`
	Crashed     bool       `json:"crashed"`
	CrashReason string     `json:"crash_reason,omitempty"`
	OffMap      bool       `json:"off_map"`
	InOrbit     bool       `json:"in_orbit"`
}

// EndState returns the snapshot the ship's next turn starts from
func (t Turn) EndState() ShipState {
	return ShipState{
		Name:          t.ShipName,
		Position:      t.NewPosition,
		Vector:        t.NewVector,
		StrongGravity: cloneVectors(t.NewStrongGravity),
	}
}

// Order pairs a ship with the action it takes in a movement phase
type Order struct {
	ShipName string `json:"ship_name"`
	Action   Action `json:"action"`
}
