// Package fixture generates synthetic test identities for onboarding
// scenarios: unique signup emails, sanitized company names, and the CSV
// payload the bulk-invite upload expects.
//
// A Generator is explicitly constructed and owns its own uniqueness
// registry; uniqueness holds within one generator (one process run), not
// across concurrently running harness processes.
package fixture

import (
	crand "crypto/rand"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/meray2212/sparkrock/internal/errs"
)

// Default identity values shared by every scenario. Keeping them fixed
// makes dashboard assertions (full name, profile email) deterministic.
const (
	DefaultFirstName = "Automation"
	DefaultLastName  = "Tester"
	DefaultPassword  = "StrongPass123!"
	DefaultPhone     = "98765321"
)

const (
	defaultDomain      = "example.com"
	defaultLocalLen    = 8
	defaultMaxAttempts = 1000
)

const localPartAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// ExhaustedError reports that the collision retry budget was spent without
// producing a fresh address. It only fires when the randomness source is
// broken or the registry is absurdly full.
type ExhaustedError struct {
	Attempts int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("fixture: gave up generating a unique email after %d attempts", e.Attempts)
}

func (e *ExhaustedError) Unwrap() error {
	return errs.New(errs.Exhausted, "email collision budget exceeded")
}

// Generator produces unique synthetic identities for one harness run.
type Generator struct {
	mu          sync.Mutex
	rand        io.Reader
	domain      string
	localLen    int
	maxAttempts int
	issued      map[string]struct{}
}

// NewGenerator returns a Generator with crypto/rand randomness and the
// default domain, local-part length, and retry budget.
func NewGenerator() *Generator {
	return NewGeneratorWithSource(crand.Reader)
}

// NewGeneratorWithSource returns a Generator drawing randomness from src.
// Tests use this to script collisions and exhaustion.
func NewGeneratorWithSource(src io.Reader) *Generator {
	return &Generator{
		rand:        src,
		domain:      defaultDomain,
		localLen:    defaultLocalLen,
		maxAttempts: defaultMaxAttempts,
		issued:      make(map[string]struct{}),
	}
}

// Email generates a random lowercase-alphanumeric local part at the fixed
// length, qualifies it with the generator's domain, and registers it. On
// collision with a previously issued address it regenerates, up to the
// retry budget.
func (g *Generator) Email() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.emailLocked()
}

func (g *Generator) emailLocked() (string, error) {
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		local, err := g.randomLocalPart()
		if err != nil {
			return "", errs.Wrap(errs.Internal, "reading randomness for email local part", err)
		}
		email := local + "@" + g.domain
		if _, dup := g.issued[email]; dup {
			continue
		}
		g.issued[email] = struct{}{}
		return email, nil
	}
	return "", &ExhaustedError{Attempts: g.maxAttempts}
}

func (g *Generator) randomLocalPart() (string, error) {
	buf := make([]byte, g.localLen)
	if _, err := io.ReadFull(g.rand, buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = localPartAlphabet[int(b)%len(localPartAlphabet)]
	}
	return string(buf), nil
}

// Issued returns how many unique emails the generator has handed out.
func (g *Generator) Issued() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.issued)
}

var (
	companyStripPattern    = regexp.MustCompile(`[^A-Za-z0-9 ]+`)
	companyCollapsePattern = regexp.MustCompile(`\s+`)
)

// SanitizeCompanyName strips every character outside [A-Za-z0-9 ],
// collapses whitespace runs to single spaces, and trims the ends.
// Applying it twice yields the same result as once.
func SanitizeCompanyName(raw string) string {
	clean := companyStripPattern.ReplaceAllString(raw, "")
	clean = companyCollapsePattern.ReplaceAllString(clean, " ")
	return strings.TrimSpace(clean)
}

// Raw company names in the shape a business registry would hold them,
// punctuation included. CompanyName sanitizes whichever one it draws.
var rawCompanyNames = []string{
	"Johnson, Smith & Associates, Inc.",
	"O'Connor-Hayes Logistics Ltd.",
	"Whitfield & Sons (Holdings) LLC",
	"Delacroix, Moreau et Fils S.A.",
	"Nakamura-Ito Trading Co., Ltd.",
	"Brightwater Financial Group, PLC",
	"Keller, Vance & Partners LLP",
	"Ashford-Reyes Imports, Inc.",
	"Mercer & Blackwood Consulting Co.",
	"Hartley, Nguyen and Webb Pty Ltd",
}

// CompanyName draws a realistic raw business name and returns its
// sanitized form, suitable for the company registration form.
func (g *Generator) CompanyName() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	buf := make([]byte, 1)
	if _, err := io.ReadFull(g.rand, buf); err != nil {
		return "", errs.Wrap(errs.Internal, "reading randomness for company name", err)
	}
	raw := rawCompanyNames[int(buf[0])%len(rawCompanyNames)]
	return SanitizeCompanyName(raw), nil
}

// Phone returns the fixed-format contact number used on the company form.
func (g *Generator) Phone() string {
	return DefaultPhone
}
