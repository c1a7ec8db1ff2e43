// Package config loads and stores named rulesets. A ruleset is a JSON file
// in the config directory holding display metadata plus the engine rules a
// new game starts from. Loaded rulesets are cached; SaveConfig writes
// through the cache to disk.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Omega97/token-tactics/game/engine"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Ruleset is one stored configuration: display metadata plus the rules a
// session created from it starts with.
type Ruleset struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Rules       engine.Rules `json:"rules"`
}

// Validate checks the ruleset for values the engine would misbehave on.
func (r *Ruleset) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.Rules.LifeCap < 1 {
		return fmt.Errorf("life_cap must be at least 1, got %d", r.Rules.LifeCap)
	}
	if r.Rules.ActionRange < 1 {
		return fmt.Errorf("action_range must be at least 1, got %d", r.Rules.ActionRange)
	}
	for _, c := range []struct {
		name string
		val  int
	}{
		{"heal_self_cost", r.Rules.HealSelfCost},
		{"gift_heart_cost", r.Rules.GiftHeartCost},
		{"upgrade_cost", r.Rules.UpgradeCost},
		{"capture_cost", r.Rules.CaptureCost},
	} {
		if c.val < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", c.name, c.val)
		}
	}
	if r.Rules.MinBoardSize < 2 {
		return fmt.Errorf("min_board_size must be at least 2, got %d", r.Rules.MinBoardSize)
	}
	if r.Rules.Density <= 0 {
		return fmt.Errorf("density must be positive, got %g", r.Rules.Density)
	}
	return nil
}

// Info describes a stored ruleset for listings.
type Info struct {
	Filename    string       `json:"filename"`
	ConfigID    string       `json:"config_id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Rules       engine.Rules `json:"rules"`
}

// Manager handles ruleset loading and caching
type Manager struct {
	configDir      string
	defaultRuleset *Ruleset
	rulesets       map[string]*Ruleset
	mu             sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		rulesets:  make(map[string]*Ruleset),
	}

	if err := m.loadDefaultRuleset(); err != nil {
		return nil, fmt.Errorf("failed to load default ruleset: %w", err)
	}

	return m, nil
}

// LoadConfig loads a ruleset by name
func (m *Manager) LoadConfig(name string) (*Ruleset, error) {
	m.mu.RLock()
	if ruleset, exists := m.rulesets[name]; exists {
		m.mu.RUnlock()
		return ruleset, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if ruleset, exists := m.rulesets[name]; exists {
		return ruleset, nil
	}

	configPath := filepath.Join(m.configDir, ensureJSONExt(name))
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read ruleset file: %w", err)
	}

	var ruleset Ruleset
	if err := json.Unmarshal(data, &ruleset); err != nil {
		return nil, fmt.Errorf("failed to parse ruleset: %w", err)
	}
	if err := ruleset.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	m.rulesets[name] = &ruleset
	return &ruleset, nil
}

// ListConfigs returns information about all available rulesets
func (m *Manager) ListConfigs() ([]*Info, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var infos []*Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		ruleset, err := m.LoadConfig(name)
		if err != nil {
			// Skip invalid rulesets
			continue
		}

		infos = append(infos, &Info{
			Filename:    entry.Name(),
			ConfigID:    name,
			Name:        ruleset.Name,
			Description: ruleset.Description,
			Rules:       ruleset.Rules,
		})
	}

	return infos, nil
}

// GetDefault returns the default ruleset
func (m *Manager) GetDefault() *Ruleset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultRuleset
}

// SetDefault sets the default ruleset by name
func (m *Manager) SetDefault(name string) error {
	ruleset, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultRuleset = ruleset
	return nil
}

// RefreshCache reloads all cached rulesets from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.rulesets = make(map[string]*Ruleset)
	m.mu.Unlock()

	return m.loadDefaultRuleset()
}

// SaveConfig saves a ruleset to disk
func (m *Manager) SaveConfig(name string, ruleset *Ruleset) error {
	if err := ruleset.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	configPath := filepath.Join(m.configDir, ensureJSONExt(name))
	data, err := json.MarshalIndent(ruleset, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ruleset: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write ruleset file: %w", err)
	}

	m.mu.Lock()
	m.rulesets[name] = ruleset
	m.mu.Unlock()

	return nil
}

// loadDefaultRuleset loads classic.json when present, the first valid
// ruleset otherwise, and falls back to the built-in classic rules when the
// directory holds nothing usable.
func (m *Manager) loadDefaultRuleset() error {
	ruleset, err := m.LoadConfig("classic")
	if err != nil {
		infos, listErr := m.ListConfigs()
		if listErr != nil || len(infos) == 0 {
			m.defaultRuleset = BuiltinClassic()
			return nil
		}
		ruleset, err = m.LoadConfig(infos[0].ConfigID)
		if err != nil {
			m.defaultRuleset = BuiltinClassic()
			return nil
		}
	}

	m.defaultRuleset = ruleset
	return nil
}

// BuiltinClassic is the compiled-in fallback ruleset, identical to the
// standard classic.json.
func BuiltinClassic() *Ruleset {
	return &Ruleset{
		Name:        "classic",
		Description: "Standard rules",
		Rules:       engine.DefaultRules(),
	}
}

func ensureJSONExt(name string) string {
	if strings.HasSuffix(name, ".json") {
		return name
	}
	return name + ".json"
}
