package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/formkit/internal/model"
)

// Scenario is a scripted builder session.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Steps run in order against a fresh application context.
	Steps []Step `yaml:"steps"`

	// Assertions are evaluated after the last step.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one builder or filler operation. Which members apply depends
// on Op.
type Step struct {
	Op string `yaml:"op"`

	// As names the created form or added field for later reference.
	As string `yaml:"as,omitempty"`

	// create
	Title string `yaml:"title,omitempty"`

	// add_field
	Type        string   `yaml:"type,omitempty"`
	Label       string   `yaml:"label,omitempty"`
	Placeholder string   `yaml:"placeholder,omitempty"`
	Required    bool     `yaml:"required,omitempty"`
	Options     []string `yaml:"options,omitempty"`

	// update_field, remove_field, select
	Field string     `yaml:"field,omitempty"`
	Patch *StepPatch `yaml:"patch,omitempty"`

	// reorder
	From *int `yaml:"from,omitempty"`
	To   *int `yaml:"to,omitempty"`

	// load, submit
	Form string `yaml:"form,omitempty"`

	// submit
	Values map[string]any `yaml:"values,omitempty"`
	Expect string         `yaml:"expect,omitempty"`
}

// StepPatch is the YAML form of a field patch.
type StepPatch struct {
	Label       *string   `yaml:"label,omitempty"`
	Placeholder *string   `yaml:"placeholder,omitempty"`
	Required    *bool     `yaml:"required,omitempty"`
	HelpText    *string   `yaml:"help_text,omitempty"`
	Options     *[]string `yaml:"options,omitempty"`
	MinLength   *int      `yaml:"min_length,omitempty"`
	MaxLength   *int      `yaml:"max_length,omitempty"`
	Pattern     *string   `yaml:"pattern,omitempty"`
}

// fieldPatch converts p to a model.FieldPatch. Any validation member
// replaces the whole validation object.
func (p StepPatch) fieldPatch() model.FieldPatch {
	fp := model.FieldPatch{
		Label:       p.Label,
		Placeholder: p.Placeholder,
		Required:    p.Required,
		HelpText:    p.HelpText,
		Options:     p.Options,
	}
	if p.MinLength != nil || p.MaxLength != nil || p.Pattern != nil {
		v := &model.Validation{MinLength: p.MinLength, MaxLength: p.MaxLength}
		if p.Pattern != nil {
			v.Pattern = *p.Pattern
		}
		fp.Validation = v
	}
	return fp
}

// Step operations.
const (
	OpCreate      = "create"
	OpAddField    = "add_field"
	OpUpdateField = "update_field"
	OpRemoveField = "remove_field"
	OpReorder     = "reorder"
	OpUndo        = "undo"
	OpRedo        = "redo"
	OpSave        = "save"
	OpLoad        = "load"
	OpSelect      = "select"
	OpSubmit      = "submit"
)

// Submission expectations.
const (
	ExpectAccepted = "accepted"
	ExpectRejected = "rejected"
)

// Assertion validates final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Labels are the expected field labels (field_labels).
	Labels []string `yaml:"labels,omitempty"`

	// Index and Len are the expected history cursor and length (history).
	Index *int `yaml:"index,omitempty"`
	Len   *int `yaml:"len,omitempty"`

	// Form is a form alias or id (response_count).
	Form string `yaml:"form,omitempty"`

	// Count is the expected count (saved_count, response_count).
	Count *int `yaml:"count,omitempty"`

	// Value is the expected flag (can_undo, can_redo).
	Value *bool `yaml:"value,omitempty"`
}

// Assertion type constants.
const (
	AssertFieldLabels   = "field_labels"
	AssertHistory       = "history"
	AssertSavedCount    = "saved_count"
	AssertResponseCount = "response_count"
	AssertCanUndo       = "can_undo"
	AssertCanRedo       = "can_redo"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
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
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateStep checks the members a step's operation needs.
func validateStep(index int, s *Step) error {
	switch s.Op {
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	case OpCreate, OpUndo, OpRedo, OpSave:
	case OpAddField:
		if s.Type == "" {
			return fmt.Errorf("steps[%d]: type is required for add_field", index)
		}
	case OpUpdateField:
		if s.Field == "" || s.Patch == nil {
			return fmt.Errorf("steps[%d]: field and patch are required for update_field", index)
		}
	case OpRemoveField:
		if s.Field == "" {
			return fmt.Errorf("steps[%d]: field is required for remove_field", index)
		}
	case OpSelect:
	case OpReorder:
		if s.From == nil || s.To == nil {
			return fmt.Errorf("steps[%d]: from and to are required for reorder", index)
		}
	case OpLoad:
		if s.Form == "" {
			return fmt.Errorf("steps[%d]: form is required for load", index)
		}
	case OpSubmit:
		if s.Form == "" {
			return fmt.Errorf("steps[%d]: form is required for submit", index)
		}
		if s.Expect != "" && s.Expect != ExpectAccepted && s.Expect != ExpectRejected {
			return fmt.Errorf("steps[%d]: expect must be %q or %q", index, ExpectAccepted, ExpectRejected)
		}
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, s.Op)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertFieldLabels:
		if a.Labels == nil {
			return fmt.Errorf("assertions[%d]: labels is required for field_labels", index)
		}
	case AssertHistory:
		if a.Index == nil || a.Len == nil {
			return fmt.Errorf("assertions[%d]: index and len are required for history", index)
		}
	case AssertSavedCount:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for saved_count", index)
		}
	case AssertResponseCount:
		if a.Form == "" || a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: form and non-negative count are required for response_count", index)
		}
	case AssertCanUndo, AssertCanRedo:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
