package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wricardo/triplanetary/game/engine"
	"github.com/wricardo/triplanetary/game/service"
)

var (
	ErrScenarioNotFound = service.ErrScenarioNotFound
	ErrInvalidScenario  = service.ErrInvalidScenario
)

// Manager handles scenario loading and caching
type Manager struct {
	scenarioDir     string
	defaultScenario *engine.Scenario
	scenarios       map[string]*engine.Scenario
	mu              sync.RWMutex
}

// NewManager creates a new scenario manager
func NewManager(scenarioDir string) (*Manager, error) {
	if _, err := os.Stat(scenarioDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("scenario directory does not exist: %s", scenarioDir)
	}

	m := &Manager{
		scenarioDir: scenarioDir,
		scenarios:   make(map[string]*engine.Scenario),
	}

	if err := m.loadDefaultScenario(); err != nil {
		return nil, fmt.Errorf("failed to load default scenario: %w", err)
	}

	return m, nil
}

// LoadScenario loads a scenario by name, with or without the .json extension
func (m *Manager) LoadScenario(name string) (*engine.Scenario, error) {
	key, err := scenarioKey(name)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	if scenario, exists := m.scenarios[key]; exists {
		m.mu.RUnlock()
		return scenario, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if scenario, exists := m.scenarios[key]; exists {
		return scenario, nil
	}

	data, err := os.ReadFile(filepath.Join(m.scenarioDir, key+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrScenarioNotFound
		}
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario engine.Scenario
	if err := json.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}

	if err := engine.ValidateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	m.scenarios[key] = &scenario
	return &scenario, nil
}

// ListScenarios returns information about every valid scenario file
func (m *Manager) ListScenarios() ([]*service.ScenarioInfo, error) {
	entries, err := os.ReadDir(m.scenarioDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	scenarios := []*service.ScenarioInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		scenario, err := m.LoadScenario(id)
		if err != nil {
			// Skip invalid scenarios
			continue
		}

		scenarios = append(scenarios, service.NewScenarioInfo(entry.Name(), id, scenario))
	}

	return scenarios, nil
}

// GetDefault returns the default scenario
func (m *Manager) GetDefault() *engine.Scenario {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultScenario
}

// SetDefault sets the default scenario by name
func (m *Manager) SetDefault(name string) error {
	scenario, err := m.LoadScenario(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultScenario = scenario
	return nil
}

// RefreshCache drops every cached scenario and reloads the default from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.scenarios = make(map[string]*engine.Scenario)
	m.mu.Unlock()

	return m.loadDefaultScenario()
}

// loadDefaultScenario prefers classic.json, then the first valid file, then the built-in map
func (m *Manager) loadDefaultScenario() error {
	scenario, err := m.LoadScenario("classic")
	if err != nil {
		scenarios, listErr := m.ListScenarios()
		if listErr != nil || len(scenarios) == 0 {
			m.setDefault(engine.DefaultScenario())
			return nil
		}

		scenario, err = m.LoadScenario(scenarios[0].ScenarioID)
		if err != nil {
			m.setDefault(engine.DefaultScenario())
			return nil
		}
	}

	m.setDefault(scenario)
	return nil
}

func (m *Manager) setDefault(scenario *engine.Scenario) {
	m.mu.Lock()
	m.defaultScenario = scenario
	m.mu.Unlock()
}

// scenarioKey strips the .json extension and rejects names that would leave the scenario directory
func scenarioKey(name string) (string, error) {
	key := strings.TrimSuffix(name, ".json")
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("%w: bad file name '%s'", ErrInvalidScenario, name)
	}
	return key, nil
}

// SaveScenario validates a scenario and writes it to disk
func (m *Manager) SaveScenario(name string, scenario *engine.Scenario) error {
	if err := engine.ValidateScenario(scenario); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	key, err := scenarioKey(name)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(scenario, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}

	if err := os.WriteFile(filepath.Join(m.scenarioDir, key+".json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write scenario file: %w", err)
	}

	m.mu.Lock()
	m.scenarios[key] = scenario
	m.mu.Unlock()

	return nil
}
