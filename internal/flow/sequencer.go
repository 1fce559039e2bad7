package flow

import (
	"context"
	"log/slog"
	"time"

	"github.com/meray2212/sparkrock/internal/obs"
)

// Sequencer executes workflow steps against a driver. It never retries a
// failed step; re-running a whole scenario is the caller's call, which
// keeps failure attribution precise and avoids masking transient
// application bugs as success.
type Sequencer struct {
	driver         Driver
	log            *slog.Logger
	defaultTimeout time.Duration
}

// NewSequencer returns a Sequencer over the given driver. defaultTimeout
// applies wherever a check or interaction declares no bound of its own.
func NewSequencer(driver Driver, defaultTimeout time.Duration) *Sequencer {
	if defaultTimeout <= 0 {
		defaultTimeout = 20 * time.Second
	}
	return &Sequencer{
		driver:         driver,
		log:            obs.Pkg("flow"),
		defaultTimeout: defaultTimeout,
	}
}

// Driver exposes the underlying driver for scenario-level oracle reads
// (e.g. asserting a profile field after the steps complete).
func (s *Sequencer) Driver() Driver {
	return s.driver
}

// Run executes one step: wait for the precondition, resolve the optional
// challenge, perform the actions in declared order, wait for the
// postcondition. Any bounded wait that elapses fails the step with a
// *StepError naming the phase; actions already performed stay performed.
func (s *Sequencer) Run(ctx context.Context, step WorkflowStep) error {
	ctx = obs.WithStep(ctx, step.Name)
	log := obs.From(ctx)

	if step.Precondition != nil {
		bound := s.boundOr(step.Precondition.Within)
		log.Debug("awaiting precondition", "state", StateAwaitingPrecondition, "check", step.Precondition.String(), "bound", bound)
		if err := s.driver.WaitFor(ctx, *step.Precondition, bound); err != nil {
			return &StepError{Step: step.Name, Phase: PhasePrecondition, Interaction: -1, Bound: bound, Err: err}
		}
	}

	if step.Optional != nil {
		if err := s.runChallenge(ctx, step); err != nil {
			return err
		}
	}

	for i, action := range step.Actions {
		log.Debug("acting", "state", StateActing, "index", i, "op", action.Op, "target", action.Target)
		if err := s.perform(ctx, action); err != nil {
			return &StepError{Step: step.Name, Phase: PhaseAction, Interaction: i, Bound: s.boundOr(action.Within), Err: err}
		}
	}

	if step.Postcondition != nil {
		bound := s.boundOr(step.Postcondition.Within)
		log.Debug("awaiting postcondition", "state", StateAwaitingPostcondition, "check", step.Postcondition.String(), "bound", bound)
		if err := s.driver.WaitFor(ctx, *step.Postcondition, bound); err != nil {
			return &StepError{Step: step.Name, Phase: PhasePostcondition, Interaction: -1, Bound: bound, Err: err}
		}
	}

	log.Debug("step complete", "state", StateDone)
	return nil
}

// runChallenge probes for the optional challenge. An absent challenge is
// "not applicable", never a failure; a present one must be answered.
func (s *Sequencer) runChallenge(ctx context.Context, step WorkflowStep) error {
	log := obs.From(ctx)
	probe := step.Optional.Probe
	bound := s.boundOr(probe.Within)

	if err := s.driver.WaitFor(ctx, probe, bound); err != nil {
		log.Debug("optional challenge not applicable", "check", probe.String())
		return nil
	}

	for i, action := range step.Optional.Actions {
		log.Debug("answering challenge", "index", i, "op", action.Op, "target", action.Target)
		if err := s.perform(ctx, action); err != nil {
			return &StepError{Step: step.Name, Phase: PhaseAction, Interaction: i, Challenge: true, Bound: s.boundOr(action.Within), Err: err}
		}
	}
	return nil
}

// perform waits for the interaction target to be actionable, then issues
// the operation. Navigation has no target element to wait on.
func (s *Sequencer) perform(ctx context.Context, action Interaction) error {
	bound := s.boundOr(action.Within)

	switch action.Op {
	case OpNavigate:
		return s.driver.Navigate(ctx, action.Target)
	case OpFill:
		if err := s.driver.WaitFor(ctx, ElementVisible(action.Target, bound), bound); err != nil {
			return err
		}
		return s.driver.Fill(ctx, action.Target, action.Value)
	case OpClick:
		if err := s.driver.WaitFor(ctx, ElementVisible(action.Target, bound), bound); err != nil {
			return err
		}
		return s.driver.Click(ctx, action.Target)
	case OpSelect:
		if err := s.driver.WaitFor(ctx, ElementVisible(action.Target, bound), bound); err != nil {
			return err
		}
		if err := s.driver.Click(ctx, action.Target); err != nil {
			return err
		}
		if err := s.driver.WaitFor(ctx, ElementVisible(action.Value, bound), bound); err != nil {
			return err
		}
		return s.driver.Click(ctx, action.Value)
	case OpUpload:
		if err := s.driver.WaitFor(ctx, ElementVisible(action.Target, bound), bound); err != nil {
			return err
		}
		return s.driver.UploadFile(ctx, action.Target, action.Value)
	default:
		return &UnknownOpError{Op: action.Op}
	}
}

// RunAll executes the scenario's steps in order, stopping at the first
// failure. The returned results cover every attempted step; on failure the
// last result carries the error.
func (s *Sequencer) RunAll(ctx context.Context, scenario Scenario) ([]Result, error) {
	ctx = obs.WithRun(ctx, scenario.Name)
	log := obs.From(ctx)
	log.Info("scenario starting", "steps", len(scenario.Steps))

	results := make([]Result, 0, len(scenario.Steps))
	for _, step := range scenario.Steps {
		start := time.Now()
		err := s.Run(ctx, step)
		elapsed := time.Since(start)

		if err != nil {
			results = append(results, Result{Step: step.Name, State: StateFailed, Elapsed: elapsed, Err: err})
			log.Error("scenario failed", "step", step.Name, "elapsed", elapsed, "error", err)
			return results, err
		}
		results = append(results, Result{Step: step.Name, State: StateDone, Elapsed: elapsed})
	}

	log.Info("scenario complete")
	return results, nil
}

func (s *Sequencer) boundOr(within time.Duration) time.Duration {
	if within > 0 {
		return within
	}
	return s.defaultTimeout
}

// UnknownOpError reports an interaction op the sequencer cannot perform.
type UnknownOpError struct {
	Op Op
}

func (e *UnknownOpError) Error() string {
	return "flow: unknown interaction op " + string(e.Op)
}
