package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/triplanetary/game/engine"
)

func testScenario() *engine.Scenario {
	return &engine.Scenario{
		Name: "Test Scenario",
		Bodies: []engine.Body{
			{Name: "Terra", Center: engine.Position{X: 0, Y: 0}, Bases: []int{0}},
			{Name: "Luna", Center: engine.Position{X: 6, Y: -3}, Gravity: engine.GravityWeak, Bases: []int{3}},
		},
		Ships: []engine.Ship{
			{Name: "Pioneer", StartingPosition: engine.Position{X: 1, Y: 0, Landed: true}},
			{Name: "Corsair", StartingPosition: engine.Position{X: -3, Y: 0}},
		},
	}
}

func TestAnalyze_Summary(t *testing.T) {
	a := analyze(testScenario())

	if a.Name != "Test Scenario" {
		t.Errorf("Expected name 'Test Scenario', got '%s'", a.Name)
	}

	// 2 planets + 12 gravity hexes + 2 bases
	if a.Features != 16 {
		t.Errorf("Expected 16 features, got %d", a.Features)
	}
	if a.GravityHexes != 12 {
		t.Errorf("Expected 12 gravity hexes, got %d", a.GravityHexes)
	}

	if len(a.Bodies) != 2 {
		t.Fatalf("Expected 2 bodies, got %d", len(a.Bodies))
	}
	if a.Bodies[0].Gravity != engine.GravityStrong {
		t.Errorf("Expected default gravity to be strong, got %s", a.Bodies[0].Gravity)
	}
	if a.Bodies[1].Gravity != engine.GravityWeak {
		t.Errorf("Expected Luna gravity to be weak, got %s", a.Bodies[1].Gravity)
	}
	if a.Bodies[1].FromSun != 6 {
		t.Errorf("Expected Luna 6 hexes from center, got %d", a.Bodies[1].FromSun)
	}
}

func TestAnalyze_BaseLegs(t *testing.T) {
	a := analyze(testScenario())

	if len(a.Legs) != 1 {
		t.Fatalf("Expected 1 base leg, got %d", len(a.Legs))
	}

	// Terra base at (1,0), Luna base at (5,-3)
	leg := a.Legs[0]
	if leg.From != "Luna" || leg.To != "Terra" || leg.Distance != 4 {
		t.Errorf("Unexpected leg: %+v", leg)
	}
}

func TestAnalyzeShip_Landed(t *testing.T) {
	s := testScenario()
	report := analyzeShip(s.Ships[0], s.Bodies, s.AllFeatures())

	if report.NearestBody != "Terra" || report.BodyDistance != 1 {
		t.Errorf("Expected Terra at distance 1, got %s at %d", report.NearestBody, report.BodyDistance)
	}

	// Taking off toward the planet is the only direction that crashes.
	// The two tangential takeoffs fall into orbit.
	if report.SafeBurns != 5 {
		t.Errorf("Expected 5 safe burns, got %d", report.SafeBurns)
	}
	if report.FirstCrash != "Crashed into Terra" {
		t.Errorf("Expected crash into Terra, got '%s'", report.FirstCrash)
	}
}

func TestAnalyzeShip_FallsIntoPlanet(t *testing.T) {
	s := testScenario()
	report := analyzeShip(s.Ships[1], s.Bodies, s.AllFeatures())

	if report.BodyDistance != 3 {
		t.Errorf("Expected distance 3, got %d", report.BodyDistance)
	}

	// Burning toward Terra picks up its gravity and falls through the planet
	if report.SafeBurns != 5 {
		t.Errorf("Expected 5 safe burns, got %d", report.SafeBurns)
	}
	if report.FirstCrash != "Crashed into Terra" {
		t.Errorf("Expected crash into Terra, got '%s'", report.FirstCrash)
	}
}

func TestAnalyzeShip_NoBodies(t *testing.T) {
	ship := engine.Ship{Name: "Drifter", StartingPosition: engine.Position{X: 0, Y: 0}}
	report := analyzeShip(ship, nil, nil)

	if report.NearestBody != "" || report.BodyDistance != -1 {
		t.Errorf("Expected no nearest body, got %s at %d", report.NearestBody, report.BodyDistance)
	}
	if report.SafeBurns != len(engine.Directions) {
		t.Errorf("Expected every burn to be safe in empty space, got %d", report.SafeBurns)
	}
}

func TestDrift_OffMap(t *testing.T) {
	features := (&engine.Scenario{Name: "small", BoundaryRadius: 3}).AllFeatures()
	state := engine.ShipState{Name: "A", Position: engine.Position{X: 0, Y: 0}}

	if reason := drift(state, engine.Directions[0], features); reason != engine.CrashOffMap {
		t.Errorf("Expected off map crash, got '%s'", reason)
	}
}

func TestAnalyzeFile(t *testing.T) {
	content := `{
		"name": "File Scenario",
		"bodies": [{"name": "Terra", "center": {"x": 0, "y": 0}, "bases": [0]}],
		"boundary_radius": 20,
		"ships": [{"name": "Pioneer", "starting_position": {"x": 1, "y": 0, "landed": true}}]
	}`
	path := filepath.Join(t.TempDir(), "file.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write scenario: %v", err)
	}

	var out bytes.Buffer
	if err := analyzeFile(&out, path); err != nil {
		t.Fatalf("analyzeFile failed: %v", err)
	}

	output := out.String()
	for _, want := range []string{
		"Name: File Scenario",
		"Boundary Radius: 20",
		"Terra (planet) at (0, 0): strong gravity, 1 bases",
		"Pioneer at Pos(1, 0, landed), 1 hexes from Terra",
		"5 of 6 first burns survive 10 turns",
		"Every ship has at least one safe first burn",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestAnalyzeFile_InvalidFile(t *testing.T) {
	var out bytes.Buffer
	if err := analyzeFile(&out, filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestAnalyzeFile_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"name": invalid}`), 0644); err != nil {
		t.Fatalf("Failed to write scenario: %v", err)
	}

	var out bytes.Buffer
	err := analyzeFile(&out, path)
	if err == nil || !strings.Contains(err.Error(), "parsing JSON") {
		t.Errorf("Expected parse error, got %v", err)
	}
}

func TestPrintAnalysis_Trapped(t *testing.T) {
	a := Analysis{
		Name:  "Trapped",
		Ships: []ShipReport{{Name: "Stuck", Start: engine.Position{X: 1, Y: 0, Landed: true}, FirstCrash: "Crashed into Terra"}},
	}

	var out bytes.Buffer
	printAnalysis(&out, a)

	output := out.String()
	if !strings.Contains(output, "Boundary Radius: unbounded") {
		t.Errorf("Expected unbounded radius, got:\n%s", output)
	}
	if !strings.Contains(output, "CRITICAL: Stuck has no safe first burn: Crashed into Terra") {
		t.Errorf("Expected critical warning, got:\n%s", output)
	}
	if strings.Contains(output, "Every ship has at least one safe first burn") {
		t.Errorf("Did not expect the all clear line, got:\n%s", output)
	}
}
