package onboarding

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/meray2212/sparkrock/internal/errs"
	"github.com/meray2212/sparkrock/internal/fixture"
	"github.com/meray2212/sparkrock/internal/flow"
	"github.com/meray2212/sparkrock/internal/identity"
	"github.com/meray2212/sparkrock/internal/obs"
)

// Harness wires the fixture generator, the identity client, and a
// sequencer into runnable onboarding journeys. Each journey owns its
// driver session end to end; the caller tears the driver down on every
// exit path.
type Harness struct {
	seq      *flow.Sequencer
	fixtures *fixture.Generator
	identity *identity.Client
	homeURL  string
	bounds   Bounds
}

// NewHarness assembles a Harness. bounds zero-values fall back to
// DefaultBounds.
func NewHarness(seq *flow.Sequencer, fixtures *fixture.Generator, identityClient *identity.Client, homeURL string, bounds Bounds) *Harness {
	if bounds == (Bounds{}) {
		bounds = DefaultBounds()
	}
	return &Harness{
		seq:      seq,
		fixtures: fixtures,
		identity: identityClient,
		homeURL:  homeURL,
		bounds:   bounds,
	}
}

// RegisterCompanyReport summarizes a register-company run.
type RegisterCompanyReport struct {
	Email       string
	CompanyName string
	Results     []flow.Result
}

// RegisterCompany runs the full journey: signup, email verification via
// the identity API, company registration, survey, and dashboard
// verification including the profile email oracle.
func (h *Harness) RegisterCompany(ctx context.Context) (*RegisterCompanyReport, error) {
	email, err := h.fixtures.Email()
	if err != nil {
		return nil, err
	}
	companyName, err := h.fixtures.CompanyName()
	if err != nil {
		return nil, err
	}
	report := &RegisterCompanyReport{Email: email, CompanyName: companyName}

	signup := flow.Scenario{Name: "register-company signup", Steps: append(
		[]flow.WorkflowStep{{
			Name:          "open home",
			Actions:       []flow.Interaction{flow.Navigate(h.homeURL)},
			Postcondition: check(flow.ElementVisible(signupButton, h.bounds.Nav)),
		}},
		SignupSteps(email, fixture.DefaultFirstName, fixture.DefaultLastName, fixture.DefaultPassword, h.bounds)...,
	)}
	results, err := h.seq.RunAll(ctx, signup)
	report.Results = append(report.Results, results...)
	if err != nil {
		return report, err
	}

	token, err := h.identity.ResendRegistrationEmail(ctx, email)
	if err != nil {
		return report, err
	}

	onboard := flow.Scenario{Name: "register-company onboarding"}
	onboard.Steps = append(onboard.Steps, VerifyEmailStep(h.identity.VerificationURL(token), h.bounds))
	onboard.Steps = append(onboard.Steps, CompanySteps(companyName, h.fixtures.Phone(), h.bounds)...)
	onboard.Steps = append(onboard.Steps, SurveySteps(h.bounds)...)
	onboard.Steps = append(onboard.Steps, DashboardSteps(h.bounds)...)
	onboard.Steps = append(onboard.Steps, OpenMyAccountStep(h.bounds))

	results, err = h.seq.RunAll(ctx, onboard)
	report.Results = append(report.Results, results...)
	if err != nil {
		return report, err
	}

	if err := h.verifyProfile(ctx, email); err != nil {
		return report, err
	}
	return report, nil
}

// verifyProfile reads the registered identity back from the dashboard.
func (h *Harness) verifyProfile(ctx context.Context, email string) error {
	driver := h.seq.Driver()

	fullName, err := driver.GetText(ctx, userFullName)
	if err != nil {
		return errs.Wrap(errs.Internal, "reading user name badge", err)
	}
	wantName := fixture.DefaultFirstName + " " + fixture.DefaultLastName
	if strings.TrimSpace(fullName) != wantName {
		return errs.New(errs.Internal, fmt.Sprintf("user badge shows %q, registered %q", fullName, wantName))
	}

	profile, err := driver.GetAttribute(ctx, profileEmail, "value")
	if err != nil {
		return errs.Wrap(errs.Internal, "reading profile email", err)
	}
	if profile != email {
		return errs.New(errs.Internal, fmt.Sprintf("profile email %q does not match signup email %q", profile, email))
	}
	return nil
}

// BulkInviteReport summarizes a bulk-invite run.
type BulkInviteReport struct {
	Emails  []string
	CSVPath string
	Results []flow.Result
}

// BulkInvite logs in, generates batchSize unique invite addresses, uploads
// them as CSV, and verifies each invited member shows the Team Member role
// with an "Invite sent" status.
func (h *Harness) BulkInvite(ctx context.Context, adminEmail, adminPassword string, batchSize int) (*BulkInviteReport, error) {
	batch, err := h.fixtures.BulkEmailBatch(batchSize)
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "bulk-invite-*")
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "creating bulk invite temp dir", err)
	}
	csvPath := filepath.Join(dir, "bulk_invite.csv")
	if err := batch.WriteFile(csvPath); err != nil {
		return nil, err
	}
	report := &BulkInviteReport{Emails: batch.Emails, CSVPath: csvPath}

	scenario := flow.Scenario{Name: "bulk-invite"}
	scenario.Steps = append(scenario.Steps, LoginSteps(h.homeURL, adminEmail, adminPassword, h.bounds)...)
	scenario.Steps = append(scenario.Steps,
		MembersNavigateStep(h.bounds),
		OpenBulkInviteStep(h.bounds),
		UploadInvitesStep(csvPath, h.bounds),
	)

	results, err := h.seq.RunAll(ctx, scenario)
	report.Results = append(report.Results, results...)
	if err != nil {
		return report, err
	}

	for _, invited := range batch.Emails {
		results, err := h.VerifyInvitedMember(ctx, invited)
		report.Results = append(report.Results, results...)
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

// VerifyInvitedMember runs one per-email verification step and checks the
// assigned role through the driver oracle.
func (h *Harness) VerifyInvitedMember(ctx context.Context, email string) ([]flow.Result, error) {
	scenario := flow.Scenario{
		Name:  "verify-invite " + email,
		Steps: []flow.WorkflowStep{MemberVerifyStep(email, h.bounds)},
	}
	results, err := h.seq.RunAll(ctx, scenario)
	if err != nil {
		return results, err
	}

	role, err := h.seq.Driver().GetText(ctx, memberRoleLabel)
	if err != nil {
		return results, errs.Wrap(errs.Internal, "reading invited member role", err)
	}
	if !strings.Contains(role, teamMemberRole) {
		return results, errs.New(errs.Internal, fmt.Sprintf("invited member %s has role %q, want %q", email, role, teamMemberRole))
	}
	obs.From(ctx).Info("invite verified", "email", email, "role", teamMemberRole)
	return results, nil
}
