package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/roach88/contacts/internal/state"
)

// Scenario is one scripted run against a fresh store.
type Scenario struct {
	// Name uniquely identifies this scenario; it also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Seed is an optional seed file (YAML, JSON or CUE).
	// Relative paths are resolved against the scenario file's directory.
	// Without a seed the store starts from seed.Default().
	Seed string `yaml:"seed,omitempty"`

	// FlowToken is the prefix for generated flow tokens.
	// Defaults to "test-flow".
	FlowToken string `yaml:"flow_token,omitempty"`

	// Steps run in order.
	Steps []Step `yaml:"steps"`

	// Assertions check the final state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step sends one event or runs one query. Exactly one of Event and Query is set.
type Step struct {
	Event    string `yaml:"event,omitempty"`
	Query    string `yaml:"query,omitempty"`
	Data     any    `yaml:"data,omitempty"`
	Identity int64  `yaml:"identity,omitempty"`

	// Expect is optional. Without it, a step only has to not fail.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect describes the outcome of a step.
type Expect struct {
	// Changed is whether the event should change the state (events only).
	Changed *bool `yaml:"changed,omitempty"`

	// Error is the expected error code, e.g. CONTACT_NOT_FOUND.
	// Empty means the step must succeed.
	Error string `yaml:"error,omitempty"`

	// Result is the expected query result (queries only).
	// A map is matched field-by-field against a contact.
	Result any `yaml:"result,omitempty"`
}

// Assertion checks the final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// ContactID and Field select a contact field (contact_field).
	ContactID int64  `yaml:"contact_id,omitempty"`
	Field     string `yaml:"field,omitempty"`

	// Value is the expected field value (contact_field, state_name).
	Value string `yaml:"value,omitempty"`

	// Count is the expected number (notify_count, contact_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertContactField = "contact_field"
	AssertNotifyCount  = "notify_count"
	AssertStateName    = "state_name"
	AssertContactCount = "contact_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos fail loudly. A relative Seed is
// resolved against the scenario file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Seed != "" && !filepath.IsAbs(scenario.Seed) {
		scenario.Seed = filepath.Join(filepath.Dir(path), scenario.Seed)
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML. Seed paths are left as written.
func ParseScenario(data []byte) (*Scenario, error) {
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

// validateScenario checks that required fields are present and valid.
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

	for i, step := range s.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return nil
}

func validateStep(step Step) error {
	switch {
	case step.Event == "" && step.Query == "":
		return fmt.Errorf("one of event or query is required")
	case step.Event != "" && step.Query != "":
		return fmt.Errorf("event and query are mutually exclusive")
	}
	if step.Expect == nil {
		return nil
	}
	if step.Query != "" && step.Expect.Changed != nil {
		return fmt.Errorf("expect.changed only applies to events")
	}
	if step.Event != "" && step.Expect.Result != nil {
		return fmt.Errorf("expect.result only applies to queries")
	}
	if code := step.Expect.Error; code != "" && !knownErrorCode(code) {
		return fmt.Errorf("unknown error code %q", code)
	}
	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertContactField:
		if _, ok := contactFields[a.Field]; !ok {
			return fmt.Errorf("contact_field: unknown field %q", a.Field)
		}
	case AssertNotifyCount, AssertStateName, AssertContactCount:
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func knownErrorCode(code string) bool {
	return lo.Contains(state.ErrorCodes, state.ErrorCode(code))
}
