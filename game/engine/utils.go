package engine

import "math"

// Directions are the six unit vectors to the neighbours of a hex, counter-clockwise
var Directions = [6]Vector{
	{DX: 1, DY: 0},
	{DX: 1, DY: -1},
	{DX: 0, DY: -1},
	{DX: -1, DY: 0},
	{DX: -1, DY: 1},
	{DX: 0, DY: 1},
}

// Path returns the hexes traversed moving from start to end, both inclusive.
// Interpolated coordinates are rounded half-to-even.
func Path(start, end Position) []Position {
	path := []Position{start}
	if start == end {
		return path
	}

	delta := end.Sub(start)
	steps := max(abs(delta.DX), abs(delta.DY), abs(delta.DX+delta.DY))

	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		pos := Position{
			X:      int(math.RoundToEven(float64(start.X) + float64(delta.DX)*t)),
			Y:      int(math.RoundToEven(float64(start.Y) + float64(delta.DY)*t)),
			Landed: start.Landed,
		}
		if i == steps {
			pos = end
		}
		if pos.Hex() != path[len(path)-1].Hex() {
			path = append(path, pos)
		} else if i == steps {
			path[len(path)-1] = pos
		}
	}

	return path
}

// FeaturesAt returns the features on the hex of pos, in input order
func FeaturesAt(features []MapFeature, pos Position) []MapFeature {
	var result []MapFeature
	hex := pos.Hex()
	for _, f := range features {
		if f.Position.Hex() == hex {
			result = append(result, f)
		}
	}
	return result
}

// FeaturesOfType returns the features of the given type, in input order
func FeaturesOfType(features []MapFeature, featureType FeatureType) []MapFeature {
	var result []MapFeature
	for _, f := range features {
		if f.Type == featureType {
			result = append(result, f)
		}
	}
	return result
}

// FeaturesAtOfType returns the features of the given type on the hex of pos
func FeaturesAtOfType(features []MapFeature, pos Position, featureType FeatureType) []MapFeature {
	var result []MapFeature
	hex := pos.Hex()
	for _, f := range features {
		if f.Type == featureType && f.Position.Hex() == hex {
			result = append(result, f)
		}
	}
	return result
}

// HasFeatureAt reports whether a feature of the given type sits on the hex of pos
func HasFeatureAt(features []MapFeature, pos Position, featureType FeatureType) bool {
	hex := pos.Hex()
	for _, f := range features {
		if f.Type == featureType && f.Position.Hex() == hex {
			return true
		}
	}
	return false
}

// gravityBodiesAt returns the names of the bodies whose gravity reaches the hex of pos
func gravityBodiesAt(features []MapFeature, pos Position) map[string]bool {
	hex := pos.Hex()
	bodies := make(map[string]bool)
	for _, f := range features {
		if f.IsGravity() && f.PlanetName != "" && f.Position.Hex() == hex {
			bodies[f.PlanetName] = true
		}
	}
	return bodies
}

// HexDistance returns the hex distance between two positions
func HexDistance(from, to Position) int {
	return to.Sub(from).Length()
}

// Ring returns the hexes at exactly radius steps from center
func Ring(center Position, radius int) []Position {
	if radius <= 0 {
		return []Position{center.Hex()}
	}

	ring := make([]Position, 0, 6*radius)
	pos := center.Hex()
	for i := 0; i < radius; i++ {
		pos = pos.Add(Directions[4])
	}
	for side := 0; side < 6; side++ {
		for step := 0; step < radius; step++ {
			ring = append(ring, pos)
			pos = pos.Add(Directions[side])
		}
	}
	return ring
}

// SumVectors adds all vectors together
func SumVectors(vectors []Vector) Vector {
	var total Vector
	for _, v := range vectors {
		total = total.Add(v)
	}
	return total
}

func cloneVectors(vectors []Vector) []Vector {
	if vectors == nil {
		return []Vector{}
	}
	out := make([]Vector, len(vectors))
	copy(out, vectors)
	return out
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
