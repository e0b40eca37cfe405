package engine

import "fmt"

// CheckCollision reports whether a path crashes into an astral body or leaves the map.
// Planets are checked on every hex including the start, asteroids on every hex entered,
// and map boundaries on the final hex only. The first rule that matches wins.
func CheckCollision(path []Position, features []MapFeature) (bool, string) {
	if len(path) == 0 {
		return false, ""
	}

	planets := FeaturesOfType(features, Planet)
	for _, pos := range path {
		for _, planet := range planets {
			if pos.Hex() == planet.Position.Hex() {
				return true, fmt.Sprintf("Crashed into %s", planet.Name)
			}
		}
	}

	asteroids := FeaturesOfType(features, Asteroid)
	for _, pos := range path[1:] {
		for _, asteroid := range asteroids {
			if pos.Hex() == asteroid.Position.Hex() {
				return true, fmt.Sprintf("Crashed into asteroid %s", asteroid.Name)
			}
		}
	}

	if HasFeatureAt(features, path[len(path)-1], MapBoundary) {
		return true, CrashOffMap
	}

	return false, ""
}

// GravityEffects collects the gravity of every hex entered along the path.
// The start hex never counts. Vectors accumulate in path order.
func GravityEffects(path []Position, features []MapFeature) (strong, weak []Vector) {
	strong = []Vector{}
	weak = []Vector{}
	if len(path) < 2 {
		return strong, weak
	}

	for _, pos := range path[1:] {
		for _, f := range FeaturesAt(features, pos) {
			if f.GravityDirection == nil {
				continue
			}
			switch f.Type {
			case StrongGravity:
				strong = append(strong, *f.GravityDirection)
			case WeakGravity:
				weak = append(weak, *f.GravityDirection)
			}
		}
	}

	return strong, weak
}
