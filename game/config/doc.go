// Package config provides scenario management for the Triplanetary server.
//
// The config package handles:
//   - Loading scenarios from JSON files
//   - Scenario validation through the engine
//   - Default scenario selection
//   - Scenario discovery and listing
//
// Scenario Format:
//
// Scenarios are stored as JSON files in the configs directory. Each scenario
// defines astral bodies (expanded into a planet, its gravity ring and bases),
// any extra map features, the radius of the map boundary and the starting
// ship roster.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	scenario, err := manager.LoadScenario("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	scenarios, err := manager.ListScenarios()
//
// The default scenario is classic.json when present, otherwise the first
// valid file in the directory, otherwise a built-in single planet map.
package config
