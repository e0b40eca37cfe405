package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidFeature = errors.New("invalid map feature")

// Gravity strengths for astral bodies
const (
	GravityStrong = "strong"
	GravityWeak   = "weak"
	GravityNone   = "none"

	MaxBoundaryRadius = 200
)

// Body is shorthand for an astral body: the body itself, its ring of gravity hexes
// pointing back at it and any bases on that ring.
type Body struct {
	Name     string   `json:"name"`
	Center   Position `json:"center"`
	Gravity  string   `json:"gravity,omitempty"`  // strong (default), weak or none
	Bases    []int    `json:"bases,omitempty"`    // Ring direction indexes 0..5
	Asteroid bool     `json:"asteroid,omitempty"` // Asteroid instead of planet
}

// Scenario is a game setup loaded from JSON
type Scenario struct {
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	Bodies         []Body       `json:"bodies,omitempty"`
	Features       []MapFeature `json:"features,omitempty"`
	BoundaryRadius int          `json:"boundary_radius,omitempty"` // Ring of map boundary hexes around the origin
	Ships          []Ship       `json:"ships,omitempty"`
}

// ValidateFeatures checks the static map features a game is built on
func ValidateFeatures(features []MapFeature) error {
	for i, f := range features {
		switch f.Type {
		case Planet, Asteroid, MapBoundary, Base:
		case StrongGravity, WeakGravity:
			if f.GravityDirection == nil {
				return fmt.Errorf("%w: feature %d (%s) is a gravity hex without a gravity direction", ErrInvalidFeature, i+1, f.Name)
			}
			if f.GravityDirection.IsZero() {
				return fmt.Errorf("%w: feature %d (%s) has a zero gravity direction", ErrInvalidFeature, i+1, f.Name)
			}
		default:
			return fmt.Errorf("%w: feature %d (%s) has unknown type '%s'", ErrInvalidFeature, i+1, f.Name, f.Type)
		}
	}
	return nil
}

// Expand returns the features described by the body
func (b Body) Expand() []MapFeature {
	bodyType := Planet
	if b.Asteroid {
		bodyType = Asteroid
	}

	center := b.Center.Hex()
	features := []MapFeature{{
		Name:       b.Name,
		Type:       bodyType,
		Position:   center,
		PlanetName: b.Name,
	}}

	gravityType := StrongGravity
	switch b.Gravity {
	case GravityWeak:
		gravityType = WeakGravity
	case GravityNone:
		gravityType = ""
	}

	if gravityType != "" {
		for i, d := range Directions {
			pull := Vector{DX: -d.DX, DY: -d.DY}
			features = append(features, MapFeature{
				Name:             fmt.Sprintf("%s Gravity %d", b.Name, i+1),
				Type:             gravityType,
				Position:         center.Add(d),
				GravityDirection: &pull,
				PlanetName:       b.Name,
			})
		}
	}

	for _, idx := range b.Bases {
		features = append(features, MapFeature{
			Name:       fmt.Sprintf("%s Base %d", b.Name, idx+1),
			Type:       Base,
			Position:   center.Add(Directions[idx]),
			PlanetName: b.Name,
		})
	}

	return features
}

// AllFeatures returns the explicit features followed by the expanded bodies and the boundary ring
func (s *Scenario) AllFeatures() []MapFeature {
	features := append([]MapFeature(nil), s.Features...)
	for _, b := range s.Bodies {
		features = append(features, b.Expand()...)
	}
	if s.BoundaryRadius > 0 {
		for _, pos := range Ring(Position{}, s.BoundaryRadius) {
			features = append(features, MapFeature{Name: "Edge", Type: MapBoundary, Position: pos})
		}
	}
	return features
}

// NewGame creates a game from the scenario's map and roster
func (s *Scenario) NewGame() (*Game, error) {
	return NewGame(s.AllFeatures(), s.Ships...)
}

// ValidateScenario validates a scenario for correctness and playability
func ValidateScenario(s *Scenario) error {
	if s == nil {
		return fmt.Errorf("scenario validation: scenario is nil")
	}
	if s.Name == "" {
		return fmt.Errorf("scenario validation: name is required")
	}
	if s.BoundaryRadius < 0 || s.BoundaryRadius > MaxBoundaryRadius {
		return fmt.Errorf("scenario validation: boundary_radius must be between 0 and %d, got %d", MaxBoundaryRadius, s.BoundaryRadius)
	}

	bodyNames := make(map[string]bool)
	for i, b := range s.Bodies {
		if b.Name == "" {
			return fmt.Errorf("scenario validation: body %d must have a name", i+1)
		}
		if bodyNames[b.Name] {
			return fmt.Errorf("scenario validation: duplicate body name '%s'", b.Name)
		}
		bodyNames[b.Name] = true

		switch b.Gravity {
		case "", GravityStrong, GravityWeak, GravityNone:
		default:
			return fmt.Errorf("scenario validation: body '%s' has invalid gravity '%s'", b.Name, b.Gravity)
		}

		seen := make(map[int]bool)
		for _, idx := range b.Bases {
			if idx < 0 || idx >= len(Directions) {
				return fmt.Errorf("scenario validation: body '%s' base index must be between 0 and 5, got %d", b.Name, idx)
			}
			if seen[idx] {
				return fmt.Errorf("scenario validation: body '%s' lists base %d twice", b.Name, idx)
			}
			seen[idx] = true
		}
	}

	features := s.AllFeatures()
	if err := ValidateFeatures(features); err != nil {
		return fmt.Errorf("scenario validation: %v", err)
	}

	shipNames := make(map[string]bool)
	for i, ship := range s.Ships {
		if ship.Name == "" {
			return fmt.Errorf("scenario validation: ship %d must have a name", i+1)
		}
		if shipNames[ship.Name] {
			return fmt.Errorf("scenario validation: duplicate ship name '%s'", ship.Name)
		}
		shipNames[ship.Name] = true

		pos := ship.StartingPosition
		if pos.Landed && !HasFeatureAt(features, pos, Base) {
			return fmt.Errorf("scenario validation: ship '%s' starts landed at (%d, %d) but there is no base there", ship.Name, pos.X, pos.Y)
		}
		if crashed, reason := CheckCollision([]Position{pos}, features); crashed {
			return fmt.Errorf("scenario validation: ship '%s' starts inside an obstacle: %s", ship.Name, reason)
		}
		if s.BoundaryRadius > 0 && HexDistance(Position{}, pos) >= s.BoundaryRadius {
			return fmt.Errorf("scenario validation: ship '%s' starts outside the map boundary", ship.Name)
		}
	}

	return nil
}

// LoadScenario loads a scenario from a JSON file
func LoadScenario(filename string) (*Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := json.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	if err := ValidateScenario(&scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// LoadScenarioByName loads a scenario by name from dir
func LoadScenarioByName(dir, name string) (*Scenario, error) {
	if !strings.HasSuffix(name, ".json") {
		name = name + ".json"
	}

	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("scenario file '%s' not found", name)
	}

	scenario, err := LoadScenario(path)
	if err != nil {
		return nil, fmt.Errorf("invalid scenario '%s': %v", name, err)
	}
	return scenario, nil
}

// DefaultScenario returns a small built-in map: one planet with a base and a ship parked on it
func DefaultScenario() *Scenario {
	return &Scenario{
		Name:        "default",
		Description: "A single planet with one base inside a small map",
		Bodies: []Body{
			{Name: "Terra", Center: Position{X: 0, Y: 0}, Bases: []int{0}},
		},
		BoundaryRadius: 12,
		Ships: []Ship{
			{Name: "Pioneer", StartingPosition: Position{X: 1, Y: 0, Landed: true}},
		},
	}
}
