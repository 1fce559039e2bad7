// Package flow is the action sequencer: it executes declarative
// precondition / actions / postcondition steps against an abstract
// browser driver with bounded waits and typed failure attribution.
// Workflows become data (a Scenario of WorkflowSteps) instead of
// imperative scripts with ad-hoc sleeps.
package flow

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Driver is the browser capability set the sequencer issues commands to.
// Any automation backend satisfying it is acceptable; the harness ships a
// Playwright adapter and an in-memory scripted driver for tests.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	WaitFor(ctx context.Context, check ReadinessCheck, timeout time.Duration) error
	Fill(ctx context.Context, locator, value string) error
	Click(ctx context.Context, locator string) error
	GetText(ctx context.Context, locator string) (string, error)
	GetAttribute(ctx context.Context, locator, name string) (string, error)
	UploadFile(ctx context.Context, locator, path string) error
}

// CheckKind discriminates the readiness conditions a step can wait on.
type CheckKind string

const (
	CheckElementVisible CheckKind = "element_visible"
	CheckTextPresent    CheckKind = "text_present"
	CheckSelectorCount  CheckKind = "selector_count"
)

// ReadinessCheck is a polled condition with a timeout bound, used as a
// step precondition or postcondition.
type ReadinessCheck struct {
	Kind     CheckKind     `yaml:"kind" validate:"required,oneof=element_visible text_present selector_count"`
	Selector string        `yaml:"selector,omitempty"`
	Text     string        `yaml:"text,omitempty"`
	Count    int           `yaml:"count,omitempty"`
	Within   time.Duration `yaml:"within,omitempty"`
}

// ElementVisible waits for the first element matching selector to be visible.
func ElementVisible(selector string, within time.Duration) ReadinessCheck {
	return ReadinessCheck{Kind: CheckElementVisible, Selector: selector, Within: within}
}

// TextPresent waits for the given text to appear anywhere on the page.
func TextPresent(text string, within time.Duration) ReadinessCheck {
	return ReadinessCheck{Kind: CheckTextPresent, Text: text, Within: within}
}

// SelectorCount waits for selector to match exactly count elements.
func SelectorCount(selector string, count int, within time.Duration) ReadinessCheck {
	return ReadinessCheck{Kind: CheckSelectorCount, Selector: selector, Count: count, Within: within}
}

func (c ReadinessCheck) String() string {
	switch c.Kind {
	case CheckTextPresent:
		return fmt.Sprintf("text %q present", c.Text)
	case CheckSelectorCount:
		return fmt.Sprintf("%q matches %d elements", c.Selector, c.Count)
	default:
		return fmt.Sprintf("%q visible", c.Selector)
	}
}

// PollUntil drives a condition to completion by polling it at the given
// cadence until it reports true, the timeout elapses, or ctx is done.
// Drivers without native waiting build their WaitFor on top of this; the
// limiter keeps polling from hammering the backend.
func PollUntil(ctx context.Context, interval, timeout time.Duration, cond func(context.Context) (bool, error)) error {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	deadline := time.Now().Add(timeout)
	limiter := rate.NewLimiter(rate.Every(interval), 1)

	for {
		ok, err := cond(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return context.DeadlineExceeded
		}
		waitCtx, cancel := context.WithDeadline(ctx, deadline)
		err = limiter.Wait(waitCtx)
		cancel()
		if err != nil {
			// Deadline hit while pacing; one last observation keeps
			// short timeouts from flaking.
			ok, condErr := cond(ctx)
			if condErr != nil {
				return condErr
			}
			if ok {
				return nil
			}
			return context.DeadlineExceeded
		}
	}
}
