package flow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validScenario() Scenario {
	return Scenario{
		Name: "signup",
		Steps: []WorkflowStep{
			{
				Name:          "open signup",
				Precondition:  ptr(ElementVisible("button#signup-btn", 20*time.Second)),
				Actions:       []Interaction{Click("button#signup-btn")},
				Postcondition: ptr(TextPresent("Get Started", 10*time.Second)),
			},
		},
	}
}

func TestScenarioValidateOK(t *testing.T) {
	s := validScenario()
	require.NoError(t, s.Validate())
}

func TestScenarioValidateRequiresName(t *testing.T) {
	s := validScenario()
	s.Name = ""
	require.Error(t, s.Validate())
}

func TestScenarioValidateRequiresSteps(t *testing.T) {
	s := validScenario()
	s.Steps = nil
	require.Error(t, s.Validate())
}

func TestScenarioValidateStepName(t *testing.T) {
	s := validScenario()
	s.Steps[0].Name = ""
	require.Error(t, s.Validate())
}

func TestScenarioValidateCheckCoherence(t *testing.T) {
	tests := []struct {
		name  string
		check ReadinessCheck
	}{
		{"visible without selector", ReadinessCheck{Kind: CheckElementVisible}},
		{"text without text", ReadinessCheck{Kind: CheckTextPresent}},
		{"count without selector", ReadinessCheck{Kind: CheckSelectorCount, Count: 2}},
		{"negative count", ReadinessCheck{Kind: CheckSelectorCount, Selector: ".x", Count: -1}},
		{"unknown kind", ReadinessCheck{Kind: "hover", Selector: ".x"}},
		{"negative bound", ReadinessCheck{Kind: CheckElementVisible, Selector: ".x", Within: -time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validScenario()
			s.Steps[0].Precondition = &tt.check
			require.Error(t, s.Validate())
		})
	}
}

func TestScenarioValidateInteractions(t *testing.T) {
	tests := []struct {
		name   string
		action Interaction
	}{
		{"fill without value", Interaction{Op: OpFill, Target: "#x"}},
		{"upload without value", Interaction{Op: OpUpload, Target: "#x"}},
		{"select without option", Interaction{Op: OpSelect, Target: "#x"}},
		{"unknown op", Interaction{Op: "hover", Target: "#x"}},
		{"missing target", Interaction{Op: OpClick}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validScenario()
			s.Steps[0].Actions = []Interaction{tt.action}
			require.Error(t, s.Validate())
		})
	}
}

func TestScenarioValidateOptionalProbe(t *testing.T) {
	s := validScenario()
	s.Steps[0].Optional = &OptionalChallenge{
		Probe: ReadinessCheck{Kind: CheckElementVisible}, // missing selector
	}
	require.Error(t, s.Validate())
}
