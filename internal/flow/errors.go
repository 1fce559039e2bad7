package flow

import (
	"fmt"
	"time"

	"github.com/meray2212/sparkrock/internal/errs"
)

// Phase names the part of a step that failed.
type Phase string

const (
	PhasePrecondition  Phase = "precondition"
	PhaseAction        Phase = "action"
	PhasePostcondition Phase = "postcondition"
)

// StepError attributes a step failure: which named step, which phase,
// which interaction (for action failures), and the bound that was
// exceeded. Interactions performed before the failure are not undone.
type StepError struct {
	Step        string
	Phase       Phase
	Interaction int  // index into the step's actions; -1 outside the action phase
	Challenge   bool // true when the failing interaction belonged to the optional challenge
	Bound       time.Duration
	Err         error
}

func (e *StepError) Error() string {
	switch e.Phase {
	case PhaseAction:
		where := "interaction"
		if e.Challenge {
			where = "challenge interaction"
		}
		return fmt.Sprintf("step %q: %s %d failed within %s: %v", e.Step, where, e.Interaction, e.Bound, e.Err)
	case PhasePostcondition:
		return fmt.Sprintf("step %q: postcondition not observed within %s: %v", e.Step, e.Bound, e.Err)
	default:
		return fmt.Sprintf("step %q: precondition not satisfied within %s: %v", e.Step, e.Bound, e.Err)
	}
}

func (e *StepError) Unwrap() error {
	var code errs.Code
	switch e.Phase {
	case PhaseAction:
		code = errs.ActionTimeout
	case PhasePostcondition:
		code = errs.PostconditionTimeout
	default:
		code = errs.PreconditionTimeout
	}
	return errs.Wrap(code, e.Error(), e.Err)
}
