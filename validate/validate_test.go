package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validScenario = `{
	"name": "Test Scenario",
	"description": "Terra with a base and a landed ship",
	"bodies": [
		{"name": "Terra", "center": {"x": 0, "y": 0}, "bases": [0]}
	],
	"boundary_radius": 10,
	"ships": [
		{"name": "Pioneer", "starting_position": {"x": 1, "y": 0, "landed": true}},
		{"name": "Corsair", "starting_position": {"x": 4, "y": -2}}
	]
}`

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write scenario: %v", err)
	}
	return path
}

func TestValidateScenario_Valid(t *testing.T) {
	path := writeScenario(t, validScenario)

	result := validateScenario(path)
	if !result.Valid {
		t.Fatalf("Expected valid scenario, but got errors: %v", result.Errors)
	}

	if result.File != "scenario.json" {
		t.Errorf("Expected file name scenario.json, got %s", result.File)
	}

	wantInfo := []string{
		"✓ Name: Test Scenario",
		"✓ Bodies: 1",
		"✓ Ships: 2",
		"✓ Boundary radius: 10",
		"✓ Launch: all 1 landed ships have a safe takeoff",
	}
	for _, want := range wantInfo {
		if !containsLine(result.Errors, want) {
			t.Errorf("Expected info line %q, got %v", want, result.Errors)
		}
	}

	// 1 planet + 6 gravity hexes + 1 base + 60 boundary hexes
	if !containsLine(result.Errors, "✓ Features: 68 (1 bases, 6 gravity hexes)") {
		t.Errorf("Unexpected feature summary: %v", result.Errors)
	}
}

func TestValidateScenario_MissingFile(t *testing.T) {
	result := validateScenario(filepath.Join(t.TempDir(), "missing.json"))
	if result.Valid {
		t.Error("Expected invalid result for missing file")
	}
	if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], "Failed to read file") {
		t.Errorf("Expected read error, got %v", result.Errors)
	}
}

func TestValidateScenario_InvalidJSON(t *testing.T) {
	path := writeScenario(t, `{"name": "test", invalid json}`)

	result := validateScenario(path)
	if result.Valid {
		t.Error("Expected invalid JSON to fail validation")
	}
	if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], "Invalid JSON") {
		t.Errorf("Expected JSON error, got %v", result.Errors)
	}
}

func TestValidateScenario_EngineRules(t *testing.T) {
	tests := []struct {
		name     string
		scenario string
		want     string
	}{
		{
			name:     "missing name",
			scenario: `{"ships": [{"name": "A", "starting_position": {"x": 3, "y": 3}}]}`,
			want:     "name is required",
		},
		{
			name: "landed without base",
			scenario: `{"name": "s", "bodies": [{"name": "Terra", "center": {"x": 0, "y": 0}}],
				"ships": [{"name": "A", "starting_position": {"x": 1, "y": 0, "landed": true}}]}`,
			want: "no base there",
		},
		{
			name: "ship inside planet",
			scenario: `{"name": "s", "bodies": [{"name": "Terra", "center": {"x": 0, "y": 0}}],
				"ships": [{"name": "A", "starting_position": {"x": 0, "y": 0}}]}`,
			want: "starts inside an obstacle",
		},
		{
			name: "duplicate ship",
			scenario: `{"name": "s", "ships": [
				{"name": "A", "starting_position": {"x": 3, "y": 3}},
				{"name": "A", "starting_position": {"x": 4, "y": 3}}]}`,
			want: "duplicate ship name",
		},
		{
			name: "bad base index",
			scenario: `{"name": "s", "bodies": [{"name": "Terra", "center": {"x": 0, "y": 0}, "bases": [6]}],
				"ships": [{"name": "A", "starting_position": {"x": 3, "y": 3}}]}`,
			want: "base index must be between 0 and 5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateScenario(writeScenario(t, tt.scenario))
			if result.Valid {
				t.Fatalf("Expected %s to fail validation", tt.name)
			}
			if !containsSubstring(result.Errors, tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, result.Errors)
			}
		})
	}
}

func TestValidateScenario_NoShips(t *testing.T) {
	path := writeScenario(t, `{"name": "Empty", "bodies": [{"name": "Terra", "center": {"x": 0, "y": 0}}]}`)

	result := validateScenario(path)
	if result.Valid {
		t.Error("Expected scenario without ships to fail")
	}
	if !containsSubstring(result.Errors, "at least 1 ship") {
		t.Errorf("Expected ship count error, got %v", result.Errors)
	}
}

func TestValidateScenario_BodyOnBoundary(t *testing.T) {
	path := writeScenario(t, `{
		"name": "Edge",
		"bodies": [{"name": "Luna", "center": {"x": 5, "y": 0}}],
		"boundary_radius": 6,
		"ships": [{"name": "A", "starting_position": {"x": 0, "y": 0}}]
	}`)

	result := validateScenario(path)
	if result.Valid {
		t.Error("Expected body next to the boundary to fail")
	}
	if !containsSubstring(result.Errors, "Body 'Luna'") {
		t.Errorf("Expected boundary error for Luna, got %v", result.Errors)
	}
}

func TestValidateScenario_NoSafeLaunch(t *testing.T) {
	// Every neighbour of the base except the planet holds an asteroid
	path := writeScenario(t, `{
		"name": "Boxed In",
		"bodies": [{"name": "Terra", "center": {"x": 0, "y": 0}, "bases": [0]}],
		"features": [
			{"name": "Rock 1", "type": "asteroid", "position": {"x": 2, "y": 0}},
			{"name": "Rock 2", "type": "asteroid", "position": {"x": 2, "y": -1}},
			{"name": "Rock 3", "type": "asteroid", "position": {"x": 1, "y": -1}},
			{"name": "Rock 4", "type": "asteroid", "position": {"x": 0, "y": 1}},
			{"name": "Rock 5", "type": "asteroid", "position": {"x": 1, "y": 1}}
		],
		"boundary_radius": 10,
		"ships": [{"name": "Pioneer", "starting_position": {"x": 1, "y": 0, "landed": true}}]
	}`)

	result := validateScenario(path)
	if result.Valid {
		t.Fatal("Expected boxed in base to fail the launch check")
	}
	if !containsSubstring(result.Errors, "Ship 'Pioneer' has no safe takeoff") {
		t.Errorf("Expected launch error, got %v", result.Errors)
	}
}

func TestValidateScenario_Unbounded(t *testing.T) {
	path := writeScenario(t, `{"name": "Open", "ships": [{"name": "A", "starting_position": {"x": 0, "y": 0}}]}`)

	result := validateScenario(path)
	if !result.Valid {
		t.Fatalf("Expected valid scenario, got %v", result.Errors)
	}
	if !containsLine(result.Errors, "✓ Boundary radius: unbounded") {
		t.Errorf("Expected unbounded info, got %v", result.Errors)
	}
}

func TestValidateScenario_RepositoryScenarios(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "configs", "*.json"))
	if err != nil {
		t.Fatalf("Failed to list scenarios: %v", err)
	}
	if len(files) == 0 {
		t.Skip("no scenario files found")
	}

	for _, file := range files {
		result := validateScenario(file)
		if !result.Valid {
			t.Errorf("%s should be valid, got %v", result.File, result.Errors)
		}
	}
}

func containsLine(lines []string, want string) bool {
	for _, line := range lines {
		if line == want {
			return true
		}
	}
	return false
}

func containsSubstring(lines []string, substr string) bool {
	for _, line := range lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
