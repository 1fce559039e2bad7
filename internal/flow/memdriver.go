package flow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MemDriver is an in-memory scripted Driver for tests. Elements are keyed
// by locator and can be shown immediately, shown after a delay (to
// exercise bounded waits), or wired with click handlers that mutate the
// page the way a real UI transition would. Every performed interaction is
// recorded so tests can assert exactly what ran before a failure.
type MemDriver struct {
	mu sync.Mutex

	// PollInterval paces WaitFor polling. Tests keep it short.
	PollInterval time.Duration

	currentURL string
	elements   map[string]*MemElement
	pageTexts  map[string]struct{}
	onClick    map[string]func(*MemDriver)
	performed  []PerformedAction
}

// MemElement is one scripted element.
type MemElement struct {
	Visible     bool
	VisibleFrom time.Time // zero means no delayed appearance
	Text        string
	Attrs       map[string]string
	Matches     int // how many elements the locator matches; 0 defaults to 1
}

// PerformedAction records one interaction the driver executed.
type PerformedAction struct {
	Op     Op
	Target string
	Value  string
}

// NewMemDriver returns an empty scripted driver.
func NewMemDriver() *MemDriver {
	return &MemDriver{
		PollInterval: 5 * time.Millisecond,
		elements:     make(map[string]*MemElement),
		pageTexts:    make(map[string]struct{}),
		onClick:      make(map[string]func(*MemDriver)),
	}
}

// ShowElement makes locator visible immediately.
func (d *MemDriver) ShowElement(locator string) *MemElement {
	d.mu.Lock()
	defer d.mu.Unlock()
	el := d.ensureLocked(locator)
	el.Visible = true
	el.VisibleFrom = time.Time{}
	return el
}

// ShowElementAfter makes locator visible once delay has elapsed.
func (d *MemDriver) ShowElementAfter(locator string, delay time.Duration) *MemElement {
	d.mu.Lock()
	defer d.mu.Unlock()
	el := d.ensureLocked(locator)
	el.Visible = true
	el.VisibleFrom = time.Now().Add(delay)
	return el
}

// HideElement removes locator from the page.
func (d *MemDriver) HideElement(locator string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.elements, locator)
}

// SetElementText sets the visible text of locator, creating it hidden if absent.
func (d *MemDriver) SetElementText(locator, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ensureLocked(locator).Text = text
}

// SetElementAttr sets an attribute on locator, creating it hidden if absent.
func (d *MemDriver) SetElementAttr(locator, name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el := d.ensureLocked(locator)
	if el.Attrs == nil {
		el.Attrs = make(map[string]string)
	}
	el.Attrs[name] = value
}

// AddPageText makes a text fragment discoverable by TextPresent checks.
func (d *MemDriver) AddPageText(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pageTexts[text] = struct{}{}
}

// OnClick registers a handler that runs after a successful click on
// locator, scripting the page transition the click would cause.
func (d *MemDriver) OnClick(locator string, fn func(*MemDriver)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onClick[locator] = fn
}

// Performed returns the interactions executed so far, in order.
func (d *MemDriver) Performed() []PerformedAction {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]PerformedAction, len(d.performed))
	copy(out, d.performed)
	return out
}

// CurrentURL returns the last navigated URL.
func (d *MemDriver) CurrentURL() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.currentURL
}

func (d *MemDriver) ensureLocked(locator string) *MemElement {
	el, ok := d.elements[locator]
	if !ok {
		el = &MemElement{}
		d.elements[locator] = el
	}
	return el
}

func (d *MemDriver) visibleLocked(locator string) bool {
	el, ok := d.elements[locator]
	if !ok || !el.Visible {
		return false
	}
	if !el.VisibleFrom.IsZero() && time.Now().Before(el.VisibleFrom) {
		return false
	}
	return true
}

func (d *MemDriver) matchesLocked(locator string) int {
	if !d.visibleLocked(locator) {
		return 0
	}
	el := d.elements[locator]
	if el.Matches > 0 {
		return el.Matches
	}
	return 1
}

func (d *MemDriver) textPresentLocked(text string) bool {
	if _, ok := d.pageTexts[text]; ok {
		return true
	}
	for locator, el := range d.elements {
		if !d.visibleLocked(locator) {
			continue
		}
		if el.Text != "" && strings.Contains(el.Text, text) {
			return true
		}
	}
	return false
}

func (d *MemDriver) satisfied(check ReadinessCheck) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch check.Kind {
	case CheckTextPresent:
		return d.textPresentLocked(check.Text)
	case CheckSelectorCount:
		return d.matchesLocked(check.Selector) == check.Count
	default:
		return d.visibleLocked(check.Selector)
	}
}

// Navigate records the URL change.
func (d *MemDriver) Navigate(_ context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.currentURL = url
	d.performed = append(d.performed, PerformedAction{Op: OpNavigate, Target: url})
	return nil
}

// WaitFor polls the scripted page until the check holds or timeout elapses.
func (d *MemDriver) WaitFor(ctx context.Context, check ReadinessCheck, timeout time.Duration) error {
	err := PollUntil(ctx, d.PollInterval, timeout, func(context.Context) (bool, error) {
		return d.satisfied(check), nil
	})
	if err != nil {
		return fmt.Errorf("waiting for %s: %w", check.String(), err)
	}
	return nil
}

// Fill sets the value attribute of a visible element.
func (d *MemDriver) Fill(_ context.Context, locator, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.visibleLocked(locator) {
		return fmt.Errorf("fill: locator %q not visible", locator)
	}
	el := d.elements[locator]
	if el.Attrs == nil {
		el.Attrs = make(map[string]string)
	}
	el.Attrs["value"] = value
	d.performed = append(d.performed, PerformedAction{Op: OpFill, Target: locator, Value: value})
	return nil
}

// Click records the click and runs any scripted transition.
func (d *MemDriver) Click(_ context.Context, locator string) error {
	d.mu.Lock()
	if !d.visibleLocked(locator) {
		d.mu.Unlock()
		return fmt.Errorf("click: locator %q not visible", locator)
	}
	d.performed = append(d.performed, PerformedAction{Op: OpClick, Target: locator})
	fn := d.onClick[locator]
	d.mu.Unlock()

	if fn != nil {
		fn(d)
	}
	return nil
}

// GetText returns a visible element's text.
func (d *MemDriver) GetText(_ context.Context, locator string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.visibleLocked(locator) {
		return "", fmt.Errorf("get text: locator %q not visible", locator)
	}
	return d.elements[locator].Text, nil
}

// GetAttribute returns a visible element's attribute value.
func (d *MemDriver) GetAttribute(_ context.Context, locator, name string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.visibleLocked(locator) {
		return "", fmt.Errorf("get attribute: locator %q not visible", locator)
	}
	return d.elements[locator].Attrs[name], nil
}

// UploadFile records the upload path on the element.
func (d *MemDriver) UploadFile(_ context.Context, locator, path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.visibleLocked(locator) {
		return fmt.Errorf("upload: locator %q not visible", locator)
	}
	el := d.elements[locator]
	if el.Attrs == nil {
		el.Attrs = make(map[string]string)
	}
	el.Attrs["files"] = path
	d.performed = append(d.performed, PerformedAction{Op: OpUpload, Target: locator, Value: path})
	return nil
}
