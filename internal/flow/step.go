package flow

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Op names an interaction the sequencer can perform against the driver.
type Op string

const (
	OpFill     Op = "fill"
	OpClick    Op = "click"
	OpSelect   Op = "select" // open a dropdown (Target) then click an option (Value as locator)
	OpNavigate Op = "navigate"
	OpUpload   Op = "upload"
)

// Interaction is one fill/click/select operation with a target locator and
// optional value. Within bounds the wait for the target to become
// actionable; zero falls back to the sequencer default.
type Interaction struct {
	Op     Op            `yaml:"op" validate:"required,oneof=fill click select navigate upload"`
	Target string        `yaml:"target" validate:"required"`
	Value  string        `yaml:"value,omitempty"`
	Within time.Duration `yaml:"within,omitempty"`
}

// Fill returns a fill interaction.
func Fill(target, value string) Interaction {
	return Interaction{Op: OpFill, Target: target, Value: value}
}

// Click returns a click interaction.
func Click(target string) Interaction {
	return Interaction{Op: OpClick, Target: target}
}

// Select returns a dropdown interaction: click the trigger, then the option.
func Select(trigger, option string) Interaction {
	return Interaction{Op: OpSelect, Target: trigger, Value: option}
}

// Navigate returns a navigation interaction. Target is the URL.
func Navigate(url string) Interaction {
	return Interaction{Op: OpNavigate, Target: url}
}

// Upload returns a file-upload interaction. Value is the local file path.
func Upload(target, path string) Interaction {
	return Interaction{Op: OpUpload, Target: target, Value: path}
}

// OptionalChallenge models a best-effort UI challenge (the signup
// reCAPTCHA): Probe decides within its bound whether the challenge is
// present at all. Absent means not applicable and the step moves on;
// present means Actions must succeed like any required interaction.
type OptionalChallenge struct {
	Probe   ReadinessCheck `yaml:"probe" validate:"required"`
	Actions []Interaction  `yaml:"actions,omitempty" validate:"dive"`
}

// WorkflowStep is one named, atomic unit of UI work. From the caller's
// perspective it either fully completes (postcondition observed) or fails;
// there is no partial rollback of already-performed interactions.
type WorkflowStep struct {
	Name          string             `yaml:"name" validate:"required"`
	Precondition  *ReadinessCheck    `yaml:"precondition,omitempty"`
	Optional      *OptionalChallenge `yaml:"optional,omitempty"`
	Actions       []Interaction      `yaml:"actions,omitempty" validate:"dive"`
	Postcondition *ReadinessCheck    `yaml:"postcondition,omitempty"`
}

// Scenario is a named ordered sequence of steps. Each step's
// postcondition is in effect the next step's precondition.
type Scenario struct {
	Name  string         `yaml:"name" validate:"required"`
	Steps []WorkflowStep `yaml:"steps" validate:"required,min=1,dive"`
}

// State tracks where a step is in its lifecycle.
type State string

const (
	StateIdle                  State = "idle"
	StateAwaitingPrecondition  State = "awaiting_precondition"
	StateActing                State = "acting"
	StateAwaitingPostcondition State = "awaiting_postcondition"
	StateDone                  State = "done"
	StateFailed                State = "failed"
)

// Result records one step's terminal outcome for scenario summaries.
type Result struct {
	Step    string
	State   State
	Elapsed time.Duration
	Err     error
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks scenario structure: step names, known ops, coherent
// checks, positive bounds. Run it on anything loaded from YAML before
// handing it to a sequencer.
func (s *Scenario) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	for i, step := range s.Steps {
		if err := validateCheck(step.Precondition); err != nil {
			return fmt.Errorf("scenario %q step %d (%s) precondition: %w", s.Name, i, step.Name, err)
		}
		if step.Optional != nil {
			probe := step.Optional.Probe
			if err := validateCheck(&probe); err != nil {
				return fmt.Errorf("scenario %q step %d (%s) optional probe: %w", s.Name, i, step.Name, err)
			}
		}
		if err := validateCheck(step.Postcondition); err != nil {
			return fmt.Errorf("scenario %q step %d (%s) postcondition: %w", s.Name, i, step.Name, err)
		}
		for j, action := range step.Actions {
			if err := validateInteraction(action); err != nil {
				return fmt.Errorf("scenario %q step %d (%s) action %d: %w", s.Name, i, step.Name, j, err)
			}
		}
	}
	return nil
}

func validateCheck(c *ReadinessCheck) error {
	if c == nil {
		return nil
	}
	if c.Within < 0 {
		return fmt.Errorf("bound must not be negative, got %s", c.Within)
	}
	switch c.Kind {
	case CheckElementVisible:
		if c.Selector == "" {
			return fmt.Errorf("element_visible requires a selector")
		}
	case CheckTextPresent:
		if c.Text == "" {
			return fmt.Errorf("text_present requires text")
		}
	case CheckSelectorCount:
		if c.Selector == "" {
			return fmt.Errorf("selector_count requires a selector")
		}
		if c.Count < 0 {
			return fmt.Errorf("selector_count requires a non-negative count")
		}
	default:
		return fmt.Errorf("unknown check kind %q", c.Kind)
	}
	return nil
}

func validateInteraction(a Interaction) error {
	if a.Within < 0 {
		return fmt.Errorf("bound must not be negative, got %s", a.Within)
	}
	switch a.Op {
	case OpFill, OpUpload, OpSelect:
		if a.Value == "" {
			return fmt.Errorf("%s requires a value", a.Op)
		}
	case OpClick, OpNavigate:
	default:
		return fmt.Errorf("unknown op %q", a.Op)
	}
	return nil
}
