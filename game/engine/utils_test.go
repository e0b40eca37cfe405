package engine

import (
	"reflect"
	"testing"
)

func TestPath_SamePosition(t *testing.T) {
	p := Position{X: 5, Y: 5}
	path := Path(p, p)
	if len(path) != 1 || path[0] != p {
		t.Errorf("Expected [%v], got %v", p, path)
	}
}

func TestPath(t *testing.T) {
	tests := []struct {
		name     string
		start    Position
		end      Position
		expected []Position
	}{
		{
			name:     "horizontal",
			start:    Position{0, 0, false},
			end:      Position{3, 0, false},
			expected: []Position{{0, 0, false}, {1, 0, false}, {2, 0, false}, {3, 0, false}},
		},
		{
			name:     "vertical",
			start:    Position{0, 0, false},
			end:      Position{0, 3, false},
			expected: []Position{{0, 0, false}, {0, 1, false}, {0, 2, false}, {0, 3, false}},
		},
		{
			name:     "diagonal skips rounded duplicates",
			start:    Position{0, 0, false},
			end:      Position{2, 2, false},
			expected: []Position{{0, 0, false}, {1, 1, false}, {2, 2, false}},
		},
		{
			// y = 0.5 at the midpoint rounds to 0 (half to even)
			name:     "ties round half to even",
			start:    Position{0, 0, false},
			end:      Position{3, 1, false},
			expected: []Position{{0, 0, false}, {1, 0, false}, {2, 0, false}, {2, 1, false}, {3, 1, false}},
		},
		{
			name:     "negative tie rounds to zero",
			start:    Position{0, 0, false},
			end:      Position{2, -1, false},
			expected: []Position{{0, 0, false}, {1, 0, false}, {2, -1, false}},
		},
		{
			name:     "negative coordinates",
			start:    Position{-5, -5, false},
			end:      Position{-7, -5, false},
			expected: []Position{{-5, -5, false}, {-6, -5, false}, {-7, -5, false}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := Path(test.start, test.end)
			if !reflect.DeepEqual(path, test.expected) {
				t.Errorf("Path(%v, %v): expected %v, got %v", test.start, test.end, test.expected, path)
			}
		})
	}
}

func TestPath_EndpointsAndNoDuplicates(t *testing.T) {
	ends := []Position{{7, 7, false}, {-4, 9, false}, {10, -3, false}, {1, -1, false}, {-6, -2, false}}
	start := Position{X: 1, Y: 2}

	for _, end := range ends {
		path := Path(start, end)
		if path[0] != start {
			t.Errorf("Path to %v: expected start %v, got %v", end, start, path[0])
		}
		if path[len(path)-1] != end {
			t.Errorf("Path to %v: expected end %v, got %v", end, end, path[len(path)-1])
		}
		for i := 1; i < len(path); i++ {
			if path[i] == path[i-1] {
				t.Errorf("Path to %v: duplicate hex %v at %d", end, path[i], i)
			}
		}
		if !reflect.DeepEqual(path, Path(start, end)) {
			t.Errorf("Path to %v is not deterministic", end)
		}
	}
}

func TestPath_KeepsExactEndpoint(t *testing.T) {
	start := Position{X: 1, Y: 0, Landed: true}
	end := Position{X: 2, Y: 0}

	path := Path(start, end)
	if len(path) != 2 {
		t.Fatalf("Expected 2 hexes, got %v", path)
	}
	if path[0] != start || path[1] != end {
		t.Errorf("Expected exact endpoints, got %v", path)
	}
}

func TestFeatureQueries(t *testing.T) {
	dir := Vector{DX: -1, DY: 0}
	features := []MapFeature{
		{Name: "Venus", Type: Planet, Position: Position{X: 0, Y: 0}},
		{Name: "Venus Gravity", Type: StrongGravity, Position: Position{X: 1, Y: 0}, GravityDirection: &dir, PlanetName: "Venus"},
		{Name: "Venus Base", Type: Base, Position: Position{X: 1, Y: 0}, PlanetName: "Venus"},
		{Name: "Rock", Type: Asteroid, Position: Position{X: 4, Y: 4}},
	}

	at := FeaturesAt(features, Position{X: 1, Y: 0, Landed: true})
	if len(at) != 2 || at[0].Name != "Venus Gravity" || at[1].Name != "Venus Base" {
		t.Errorf("Expected gravity then base at (1,0), got %+v", at)
	}

	if got := FeaturesOfType(features, Asteroid); len(got) != 1 || got[0].Name != "Rock" {
		t.Errorf("Expected the asteroid, got %+v", got)
	}

	if got := FeaturesAtOfType(features, Position{X: 1, Y: 0}, Base); len(got) != 1 {
		t.Errorf("Expected one base at (1,0), got %+v", got)
	}

	if !HasFeatureAt(features, Position{X: 1, Y: 0, Landed: true}, Base) {
		t.Error("Expected base lookup to ignore the landed flag")
	}
	if HasFeatureAt(features, Position{X: 2, Y: 0}, Base) {
		t.Error("Expected no base at (2,0)")
	}
	if got := FeaturesAt(features, Position{X: 9, Y: 9}); len(got) != 0 {
		t.Errorf("Expected no features, got %+v", got)
	}
}

func TestRing(t *testing.T) {
	center := Position{X: 2, Y: -1}

	if ring := Ring(center, 0); len(ring) != 1 || ring[0] != center {
		t.Errorf("Expected radius 0 ring to be the center, got %v", ring)
	}

	for radius := 1; radius <= 4; radius++ {
		ring := Ring(center, radius)
		if len(ring) != 6*radius {
			t.Errorf("Radius %d: expected %d hexes, got %d", radius, 6*radius, len(ring))
		}
		seen := make(map[Position]bool)
		for _, pos := range ring {
			if d := HexDistance(center, pos); d != radius {
				t.Errorf("Radius %d: %v is at distance %d", radius, pos, d)
			}
			if seen[pos] {
				t.Errorf("Radius %d: duplicate hex %v", radius, pos)
			}
			seen[pos] = true
		}
	}
}

func TestSumVectors(t *testing.T) {
	sum := SumVectors([]Vector{{1, 0}, {-1, 0}, {0, 2}})
	if sum != (Vector{DX: 0, DY: 2}) {
		t.Errorf("Expected Vector(0, 2), got %v", sum)
	}
	if !SumVectors(nil).IsZero() {
		t.Error("Expected empty sum to be zero")
	}
}
