package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stratagem/techtree/internal/tech"
)

// Scenario defines a conformance test scenario: an inline technology set,
// an initial unlocked set and point balance, and a sequence of steps with
// expected outcomes.
type Scenario struct {
	// Name uniquely identifies this scenario. It doubles as the golden
	// file name, so keep it filesystem-friendly.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Technologies declares the registry contents.
	Technologies []TechSpec `yaml:"technologies"`

	// Unlocked lists ids unlocked before the first step.
	Unlocked []string `yaml:"unlocked,omitempty"`

	// Points is the science-point budget applied to every step unless a
	// step overrides it.
	Points int `yaml:"points"`

	// Steps is the main flow - operations with expected outcomes.
	Steps []Step `yaml:"steps"`
}

// TechSpec declares one technology inline.
type TechSpec struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name,omitempty"`
	Description string      `yaml:"description,omitempty"`
	Requires    RequireSpec `yaml:"requires,omitempty"`
	Cost        int         `yaml:"cost"`
}

// RequireSpec declares a prerequisite condition. Kind defaults to "all".
type RequireSpec struct {
	Kind string   `yaml:"kind,omitempty"`
	IDs  []string `yaml:"ids,omitempty"`
}

// Step operations.
const (
	OpUnlock = "unlock"
	OpList   = "list"
	OpPath   = "path"
	OpRemove = "remove"
)

var validOps = map[string]bool{
	OpUnlock: true,
	OpList:   true,
	OpPath:   true,
	OpRemove: true,
}

// Step is one operation in the flow.
type Step struct {
	// Op is one of unlock, list, path, remove.
	Op string `yaml:"op"`

	// Tech is the target id. Required for unlock, path, and remove.
	Tech string `yaml:"tech,omitempty"`

	// Points overrides the scenario budget for this step only.
	Points *int `yaml:"points,omitempty"`

	// Expect specifies the expected outcome. If nil, the step only
	// contributes to the trace.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies an expected step outcome. Only the fields relevant to
// the step's op are consulted.
type Expect struct {
	// OK is the expected boolean result of unlock, or success of remove.
	OK *bool `yaml:"ok,omitempty"`

	// IDs is the exact expected result of list (order-insensitive; both
	// sides are compared sorted).
	IDs []string `yaml:"ids,omitempty"`

	// Found is the expected presence result of path.
	Found *bool `yaml:"found,omitempty"`

	// Path is the exact expected route of path.
	Path []string `yaml:"path,omitempty"`

	// Error is the expected error code of remove ("DEPENDENCY_EXISTS").
	Error string `yaml:"error,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos fail loudly instead of silently skewing expectations.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarioDir loads every .yaml file in dir, sorted by file name.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	scenarios := make([]*Scenario, 0, len(names))
	for _, name := range names {
		s, err := LoadScenario(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, ts := range s.Technologies {
		if ts.ID == "" {
			return fmt.Errorf("technology %d: id is required", i)
		}
		if ts.Requires.Kind != "" && !tech.ValidKinds[tech.Kind(ts.Requires.Kind)] {
			return fmt.Errorf("technology %q: unknown requires.kind %q", ts.ID, ts.Requires.Kind)
		}
		if ts.Cost < 0 {
			return fmt.Errorf("technology %q: cost must be non-negative", ts.ID)
		}
	}

	for i, step := range s.Steps {
		if !validOps[step.Op] {
			return fmt.Errorf("step %d: unknown op %q", i, step.Op)
		}
		if step.Op != OpList && step.Tech == "" {
			return fmt.Errorf("step %d: op %q requires tech", i, step.Op)
		}
	}

	return nil
}
