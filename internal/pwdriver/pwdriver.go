// Package pwdriver backs the flow.Driver interface with a real Chromium
// session via Playwright. It is the only package that talks to the
// browser; everything above it stays scripted and testable in memory.
package pwdriver

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/meray2212/sparkrock/internal/flow"
	"github.com/meray2212/sparkrock/internal/obs"
)

// Options configures the browser session.
type Options struct {
	Headless bool
	// NavTimeout bounds page loads; zero means 30s.
	NavTimeout time.Duration
	// PollInterval paces selector-count polling; zero means 250ms.
	PollInterval time.Duration
}

// Driver drives a single Chromium page. Not safe for concurrent use; one
// journey owns one Driver.
type Driver struct {
	pw           *playwright.Playwright
	browser      playwright.Browser
	page         playwright.Page
	pollInterval time.Duration
}

var _ flow.Driver = (*Driver)(nil)

// Launch starts Playwright, launches Chromium, and opens a page. Callers
// must Close on every exit path.
func Launch(opts Options) (*Driver, error) {
	navTimeout := opts.NavTimeout
	if navTimeout <= 0 {
		navTimeout = 30 * time.Second
	}
	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = 250 * time.Millisecond
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launching chromium: %w", err)
	}

	page, err := browser.NewPage()
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("creating page: %w", err)
	}
	page.SetDefaultNavigationTimeout(float64(navTimeout.Milliseconds()))

	obs.Pkg("pwdriver").Info("chromium launched", "headless", opts.Headless)
	return &Driver{pw: pw, browser: browser, page: page, pollInterval: pollInterval}, nil
}

// Close tears down the page, browser, and Playwright process.
func (d *Driver) Close() error {
	var firstErr error
	if d.browser != nil {
		if err := d.browser.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if d.pw != nil {
		if err := d.pw.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Navigate loads url and waits for DOMContentLoaded.
func (d *Driver) Navigate(_ context.Context, url string) error {
	_, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

// WaitFor blocks until the readiness check holds or timeout elapses.
func (d *Driver) WaitFor(ctx context.Context, check flow.ReadinessCheck, timeout time.Duration) error {
	switch check.Kind {
	case flow.CheckTextPresent:
		return d.waitVisible("text="+check.Text, timeout)
	case flow.CheckSelectorCount:
		return d.waitCount(ctx, check.Selector, check.Count, timeout)
	default:
		return d.waitVisible(check.Selector, timeout)
	}
}

func (d *Driver) waitVisible(locator string, timeout time.Duration) error {
	err := d.page.Locator(locator).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("waiting for %q: %w", locator, err)
	}
	return nil
}

func (d *Driver) waitCount(ctx context.Context, selector string, want int, timeout time.Duration) error {
	locator := d.page.Locator(selector)
	err := flow.PollUntil(ctx, d.pollInterval, timeout, func(context.Context) (bool, error) {
		count, err := locator.Count()
		if err != nil {
			return false, fmt.Errorf("counting %q: %w", selector, err)
		}
		return count == want, nil
	})
	if err != nil {
		return fmt.Errorf("waiting for %d matches of %q: %w", want, selector, err)
	}
	return nil
}

// Fill types value into the first match of locator.
func (d *Driver) Fill(_ context.Context, locator, value string) error {
	if err := d.page.Locator(locator).First().Fill(value); err != nil {
		return fmt.Errorf("filling %q: %w", locator, err)
	}
	return nil
}

// Click clicks the first match of locator.
func (d *Driver) Click(_ context.Context, locator string) error {
	if err := d.page.Locator(locator).First().Click(); err != nil {
		return fmt.Errorf("clicking %q: %w", locator, err)
	}
	return nil
}

// GetText returns the text content of the first match of locator.
func (d *Driver) GetText(_ context.Context, locator string) (string, error) {
	text, err := d.page.Locator(locator).First().TextContent()
	if err != nil {
		return "", fmt.Errorf("reading text of %q: %w", locator, err)
	}
	return text, nil
}

// GetAttribute returns an attribute of the first match of locator.
func (d *Driver) GetAttribute(_ context.Context, locator, name string) (string, error) {
	value, err := d.page.Locator(locator).First().GetAttribute(name)
	if err != nil {
		return "", fmt.Errorf("reading attribute %q of %q: %w", name, locator, err)
	}
	return value, nil
}

// UploadFile attaches a local file to the first match of locator.
func (d *Driver) UploadFile(_ context.Context, locator, path string) error {
	if err := d.page.Locator(locator).First().SetInputFiles(path); err != nil {
		return fmt.Errorf("uploading %s to %q: %w", path, locator, err)
	}
	return nil
}
