// Command validate checks the scenario JSON files in a directory (default
// "configs", or the first argument). It checks:
//   - JSON structure and required fields
//   - Body, feature and ship rules enforced by the engine
//   - Presence of at least one ship
//   - Bodies lying inside the map boundary
//   - Launch safety: every landed ship has a takeoff that survives the next turn
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/triplanetary/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateScenario loads and validates a single scenario file
func validateScenario(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var scenario engine.Scenario
	if err := json.Unmarshal(data, &scenario); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := engine.ValidateScenario(&scenario); err != nil {
		result.fail("%v", err)
		return result
	}

	if len(scenario.Ships) == 0 {
		result.fail("Must have at least 1 ship")
	}

	if scenario.BoundaryRadius > 0 {
		for _, b := range scenario.Bodies {
			if engine.HexDistance(engine.Position{}, b.Center) >= scenario.BoundaryRadius-1 {
				result.fail("Body '%s' at %s touches the map boundary (radius %d)", b.Name, b.Center, scenario.BoundaryRadius)
			}
		}
	}

	if result.Valid {
		launch := validateLaunches(&scenario)
		if !launch.Valid {
			result.Valid = false
		}
		result.Errors = append(result.Errors, launch.Errors...)
	}

	if result.Valid {
		features := scenario.AllFeatures()
		result.info("Name: %s", scenario.Name)
		result.info("Bodies: %d", len(scenario.Bodies))
		result.info("Features: %d (%d bases, %d gravity hexes)",
			len(features),
			len(engine.FeaturesOfType(features, engine.Base)),
			len(engine.FeaturesOfType(features, engine.StrongGravity))+len(engine.FeaturesOfType(features, engine.WeakGravity)))
		result.info("Ships: %d", len(scenario.Ships))
		if scenario.BoundaryRadius > 0 {
			result.info("Boundary radius: %d", scenario.BoundaryRadius)
		} else {
			result.info("Boundary radius: unbounded")
		}
	}

	return result
}

// validateLaunches checks that every landed ship can take off in at least one
// direction without hitting anything on the takeoff or the coast that follows
func validateLaunches(scenario *engine.Scenario) ValidationResult {
	result := ValidationResult{Valid: true}
	features := scenario.AllFeatures()

	landed := 0
	for _, ship := range scenario.Ships {
		if !ship.StartingPosition.Landed {
			continue
		}
		landed++

		if safeLaunches(ship, features) == 0 {
			result.fail("Ship '%s' has no safe takeoff from %s", ship.Name, ship.StartingPosition)
		}
	}

	if result.Valid && landed > 0 {
		result.info("Launch: all %d landed ships have a safe takeoff", landed)
	}
	return result
}

// safeLaunches counts the takeoff directions that survive takeoff plus one coast turn
func safeLaunches(ship engine.Ship, features []engine.MapFeature) int {
	start := engine.ShipState{Name: ship.Name, Position: ship.StartingPosition}

	safe := 0
	for _, d := range engine.Directions {
		takeoff := engine.ResolveTurn(start, engine.Action{Acceleration: d, TakingOff: true}, features)
		if takeoff.Crashed {
			continue
		}
		if crashed, _ := engine.CheckCollision(takeoff.Path, features); crashed {
			continue
		}
		coast := engine.ResolveTurn(takeoff.EndState(), engine.Action{}, features)
		if coast.Crashed {
			continue
		}
		safe++
	}
	return safe
}

// main validates every *.json file in the scenario directory, printing a
// concise report and exiting with non-zero status if any are invalid.
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
	if len(files) == 0 {
		fmt.Printf("No scenario files found in %s\n", scenarioDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateScenario(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All scenarios are valid!")
	} else {
		fmt.Println("❌ Some scenarios have errors")
		os.Exit(1)
	}
}
