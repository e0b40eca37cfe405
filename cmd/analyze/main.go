// Command analyze prints quick, human-readable heuristics about the scenario
// files in the project's configs directory. It summarizes the bodies and their
// gravity, counts bases, measures travel distances between bases, and
// highlights ships with no first burn that survives the drift after it.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/wricardo/triplanetary/game/engine"
)

// driftTurns is how many unpowered turns are simulated per ship
const driftTurns = 10

// BodyReport summarizes one astral body
type BodyReport struct {
	Name     string
	Center   engine.Position
	Gravity  string
	Asteroid bool
	Bases    int
	FromSun  int
}

// ShipReport summarizes where a ship starts and which one-hex burns it survives
type ShipReport struct {
	Name         string
	Start        engine.Position
	NearestBody  string
	BodyDistance int
	SafeBurns    int    // Directions that survive the burn and the drift after it
	FirstCrash   string // Crash reason of the first direction that did not
}

// BaseLeg is the hex distance between bases on two different bodies
type BaseLeg struct {
	From, To string
	Distance int
}

// Analysis is the full report for one scenario
type Analysis struct {
	Name           string
	BoundaryRadius int
	Features       int
	GravityHexes   int
	Bodies         []BodyReport
	Ships          []ShipReport
	Legs           []BaseLeg
}

func main() {
	scenarioDir := "configs"
	if len(os.Args) > 1 {
		scenarioDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(scenarioDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding scenario files: %v\n", err)
		os.Exit(1)
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		if err := analyzeFile(os.Stdout, file); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}

func analyzeFile(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	var scenario engine.Scenario
	if err := json.Unmarshal(data, &scenario); err != nil {
		return fmt.Errorf("parsing JSON: %w", err)
	}

	printAnalysis(w, analyze(&scenario))
	return nil
}

func analyze(s *engine.Scenario) Analysis {
	features := s.AllFeatures()
	a := Analysis{
		Name:           s.Name,
		BoundaryRadius: s.BoundaryRadius,
		Features:       len(features),
		GravityHexes:   len(engine.FeaturesOfType(features, engine.StrongGravity)) + len(engine.FeaturesOfType(features, engine.WeakGravity)),
	}

	for _, b := range s.Bodies {
		gravity := b.Gravity
		if gravity == "" {
			gravity = engine.GravityStrong
		}
		a.Bodies = append(a.Bodies, BodyReport{
			Name:     b.Name,
			Center:   b.Center,
			Gravity:  gravity,
			Asteroid: b.Asteroid,
			Bases:    len(b.Bases),
			FromSun:  engine.HexDistance(engine.Position{}, b.Center),
		})
	}

	for _, ship := range s.Ships {
		a.Ships = append(a.Ships, analyzeShip(ship, s.Bodies, features))
	}

	a.Legs = baseLegs(features)
	return a
}

func analyzeShip(ship engine.Ship, bodies []engine.Body, features []engine.MapFeature) ShipReport {
	report := ShipReport{Name: ship.Name, Start: ship.StartingPosition, BodyDistance: -1}

	for _, b := range bodies {
		d := engine.HexDistance(ship.StartingPosition, b.Center)
		if report.BodyDistance < 0 || d < report.BodyDistance {
			report.NearestBody = b.Name
			report.BodyDistance = d
		}
	}

	start := engine.ShipState{Name: ship.Name, Position: ship.StartingPosition}
	for _, d := range engine.Directions {
		if reason := drift(start, d, features); reason != "" {
			if report.FirstCrash == "" {
				report.FirstCrash = reason
			}
			continue
		}
		report.SafeBurns++
	}
	return report
}

// drift burns one hex in direction d (taking off if landed) and then coasts.
// It returns the crash reason, or "" if the ship survives every turn.
func drift(state engine.ShipState, d engine.Vector, features []engine.MapFeature) string {
	landed := state.Position.Landed
	turn := engine.ResolveTurn(state, engine.Action{Acceleration: d, TakingOff: landed}, features)
	if turn.Crashed {
		return turn.CrashReason
	}
	// Takeoff skips collision checks, so check the launch hex here
	if landed {
		if crashed, reason := engine.CheckCollision(turn.Path, features); crashed {
			return reason
		}
	}

	state = turn.EndState()
	for i := 1; i < driftTurns; i++ {
		turn = engine.ResolveTurn(state, engine.Action{}, features)
		if turn.Crashed {
			return turn.CrashReason
		}
		state = turn.EndState()
	}
	return ""
}

// baseLegs returns the shortest base-to-base distance for every pair of bodies with bases
func baseLegs(features []engine.MapFeature) []BaseLeg {
	byBody := make(map[string][]engine.Position)
	for _, f := range engine.FeaturesOfType(features, engine.Base) {
		byBody[f.PlanetName] = append(byBody[f.PlanetName], f.Position)
	}

	names := make([]string, 0, len(byBody))
	for name := range byBody {
		names = append(names, name)
	}
	sort.Strings(names)

	var legs []BaseLeg
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			best := -1
			for _, from := range byBody[names[i]] {
				for _, to := range byBody[names[j]] {
					if d := engine.HexDistance(from, to); best < 0 || d < best {
						best = d
					}
				}
			}
			legs = append(legs, BaseLeg{From: names[i], To: names[j], Distance: best})
		}
	}
	return legs
}

func printAnalysis(w io.Writer, a Analysis) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	if a.BoundaryRadius > 0 {
		fmt.Fprintf(w, "Boundary Radius: %d\n", a.BoundaryRadius)
	} else {
		fmt.Fprintf(w, "Boundary Radius: unbounded\n")
	}
	fmt.Fprintf(w, "Total Features: %d\n", a.Features)
	fmt.Fprintf(w, "Gravity Hexes: %d\n", a.GravityHexes)

	fmt.Fprintf(w, "Bodies: %d\n", len(a.Bodies))
	for _, b := range a.Bodies {
		kind := "planet"
		if b.Asteroid {
			kind = "asteroid"
		}
		fmt.Fprintf(w, "   %s (%s) at (%d, %d): %s gravity, %d bases, %d hexes from center\n",
			b.Name, kind, b.Center.X, b.Center.Y, b.Gravity, b.Bases, b.FromSun)
	}

	for _, leg := range a.Legs {
		fmt.Fprintf(w, "   Base leg %s -> %s: %d hexes\n", leg.From, leg.To, leg.Distance)
	}

	fmt.Fprintf(w, "Ships: %d\n", len(a.Ships))
	trapped := 0
	for _, s := range a.Ships {
		fmt.Fprintf(w, "   %s at %s", s.Name, s.Start)
		if s.NearestBody != "" {
			fmt.Fprintf(w, ", %d hexes from %s", s.BodyDistance, s.NearestBody)
		}
		fmt.Fprintln(w)

		if s.SafeBurns == 0 {
			trapped++
			fmt.Fprintf(w, "⚠️  CRITICAL: %s has no safe first burn: %s\n", s.Name, s.FirstCrash)
			continue
		}
		fmt.Fprintf(w, "   %d of %d first burns survive %d turns\n", s.SafeBurns, len(engine.Directions), driftTurns)
	}

	if trapped == 0 {
		fmt.Fprintf(w, "✅ Every ship has at least one safe first burn\n")
	}
}
