package onboarding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meray2212/sparkrock/internal/fixture"
	"github.com/meray2212/sparkrock/internal/flow"
	"github.com/meray2212/sparkrock/internal/identity"
)

func testBounds() Bounds {
	return Bounds{
		Nav:       200 * time.Millisecond,
		Form:      200 * time.Millisecond,
		Challenge: 50 * time.Millisecond,
		OTP:       200 * time.Millisecond,
		Dashboard: 200 * time.Millisecond,
	}
}

// scriptLoginPages wires the MemDriver with the login + OTP surface.
func scriptLoginPages(d *flow.MemDriver) {
	d.AddPageText(loginText)
	d.ShowElement(loginEmail)
	d.ShowElement(loginPassword)
	d.ShowElement(loginButton)

	d.OnClick(loginButton, func(d *flow.MemDriver) {
		d.ShowElement(otpNextButton)
	})
	d.OnClick(otpNextButton, func(d *flow.MemDriver) {
		boxes := d.ShowElement(otpInputs)
		boxes.Matches = otpDigitCount
		for i := 1; i <= otpDigitCount; i++ {
			d.ShowElement(fmt.Sprintf("xpath=(%s)[%d]", otpInputs, i))
		}
		d.ShowElement(otpConfirm)
	})
	d.OnClick(otpConfirm, func(d *flow.MemDriver) {
		d.AddPageText(homeText)
	})
}

// scriptMembersPages wires the members section and bulk invite modal.
func scriptMembersPages(d *flow.MemDriver) {
	d.ShowElement(membersMenu)
	d.OnClick(membersMenu, func(d *flow.MemDriver) {
		d.ShowElement(inviteButton)
	})
	d.OnClick(inviteButton, func(d *flow.MemDriver) {
		d.ShowElement(bulkTabButton)
	})
	d.OnClick(bulkTabButton, func(d *flow.MemDriver) {
		d.ShowElement(uploadCSVTitle)
	})
	d.OnClick(uploadCSVTitle, func(d *flow.MemDriver) {
		d.ShowElement(fileInput)
		d.ShowElement(sendInvites)
	})
	d.OnClick(sendInvites, func(d *flow.MemDriver) {
		d.ShowElement(memberSearch)
		d.SetElementText(memberRoleLabel, teamMemberRole)
		d.ShowElement(memberRoleLabel)
		d.SetElementText(inviteSentChip, inviteSentText)
		d.ShowElement(inviteSentChip)
	})
}

func TestBulkInviteEndToEnd(t *testing.T) {
	d := flow.NewMemDriver()
	scriptLoginPages(d)
	scriptMembersPages(d)

	seq := flow.NewSequencer(d, 200*time.Millisecond)
	gen := fixture.NewGenerator()
	h := NewHarness(seq, gen, identity.NewClient("http://127.0.0.1:0", "http://app.test"), "http://app.test", testBounds())

	report, err := h.BulkInvite(context.Background(), "admin@autotest.io", "Admin@123", 2)
	require.NoError(t, err)
	require.Len(t, report.Emails, 2)
	require.NotEqual(t, report.Emails[0], report.Emails[1])

	for _, r := range report.Results {
		require.Equal(t, flow.StateDone, r.State, "step %q", r.Step)
	}

	// The uploaded CSV round-trips to the generated batch.
	uploaded := ""
	for _, action := range d.Performed() {
		if action.Op == flow.OpUpload {
			uploaded = action.Value
		}
	}
	require.Equal(t, report.CSVPath, uploaded)

	batch, err := os.ReadFile(report.CSVPath)
	require.NoError(t, err)
	parsed, err := fixture.ParseBatchCSV(batch)
	require.NoError(t, err)
	require.Equal(t, report.Emails, parsed)
}

func TestBulkInviteFailureAttribution(t *testing.T) {
	d := flow.NewMemDriver()
	scriptLoginPages(d)
	d.ShowElement(membersMenu)
	// invite button never appears.

	seq := flow.NewSequencer(d, 200*time.Millisecond)
	h := NewHarness(seq, fixture.NewGenerator(), identity.NewClient("http://127.0.0.1:0", "http://app.test"), "http://app.test", testBounds())

	report, err := h.BulkInvite(context.Background(), "admin@autotest.io", "Admin@123", 2)
	require.Error(t, err)

	var stepErr *flow.StepError
	require.ErrorAs(t, err, &stepErr)
	require.Equal(t, "open bulk invite", stepErr.Step)
	require.Equal(t, flow.PhasePrecondition, stepErr.Phase)

	last := report.Results[len(report.Results)-1]
	require.Equal(t, flow.StateFailed, last.State)
	for _, r := range report.Results[:len(report.Results)-1] {
		require.Equal(t, flow.StateDone, r.State, "step %q", r.Step)
	}
}

func TestBulkInviteWrongRoleFailsOracle(t *testing.T) {
	d := flow.NewMemDriver()
	scriptLoginPages(d)
	scriptMembersPages(d)
	d.OnClick(sendInvites, func(d *flow.MemDriver) {
		d.ShowElement(memberSearch)
		d.SetElementText(memberRoleLabel, "Accountant")
		d.ShowElement(memberRoleLabel)
		d.SetElementText(inviteSentChip, inviteSentText)
		d.ShowElement(inviteSentChip)
	})

	seq := flow.NewSequencer(d, 200*time.Millisecond)
	h := NewHarness(seq, fixture.NewGenerator(), identity.NewClient("http://127.0.0.1:0", "http://app.test"), "http://app.test", testBounds())

	_, err := h.BulkInvite(context.Background(), "admin@autotest.io", "Admin@123", 1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Accountant")
}

// signupEmailFilled returns the value last typed into the signup email
// field, read back from the driver's action log.
func signupEmailFilled(d *flow.MemDriver) string {
	filled := ""
	for _, action := range d.Performed() {
		if action.Op == flow.OpFill && action.Target == signupEmailInput {
			filled = action.Value
		}
	}
	return filled
}

// scriptOnboardingPages wires signup, company, survey, and dashboard
// surfaces. The profile page echoes back whatever email was typed at
// signup, like the real application does.
func scriptOnboardingPages(d *flow.MemDriver) {
	d.ShowElement(signupButton)
	d.OnClick(signupButton, func(d *flow.MemDriver) {
		d.AddPageText(getStartedText)
		d.ShowElement(signupEmailInput)
		d.ShowElement(firstNameInput)
		d.ShowElement(lastNameInput)
		d.ShowElement(passwordInput)
		d.ShowElement(repeatPasswordInput)
		d.ShowElement(sourceCombobox)
		d.ShowElement(sourceSocialMedia)
		d.ShowElement(getStartedSubmit)
	})

	// Company form appears once the verification link is followed; the
	// scripted page keeps it reachable after signup submit.
	d.OnClick(getStartedSubmit, func(d *flow.MemDriver) {
		d.ShowElement(companyNameInput)
		d.ShowElement(contactNumberInput)
		d.ShowElement(termsCheckbox)
		d.ShowElement(companySizeTrigger)
		d.ShowElement(companySizeOption)
		d.ShowElement(registerSubmit)
	})
	d.OnClick(registerSubmit, func(d *flow.MemDriver) {
		d.ShowElement(teamDropdown)
		d.ShowElement(teamEngineering)
		d.ShowElement(roleDropdown)
		d.ShowElement(roleManager)
		d.ShowElement(surveySaveButton)
	})
	d.OnClick(surveySaveButton, func(d *flow.MemDriver) {
		d.AddPageText(surveyDoneText)
		for _, label := range primaryNavLabels {
			d.AddPageText(label)
		}
		d.ShowElement(moreButton)
		d.ShowElement(settingsButton)
		d.SetElementText(userFullName, fixture.DefaultFirstName+" "+fixture.DefaultLastName)
		d.ShowElement(userFullName)
		d.ShowElement(myAccountLink)
	})
	d.OnClick(moreButton, func(d *flow.MemDriver) {
		for _, label := range moreNavLabels {
			d.AddPageText(label)
		}
	})
	d.OnClick(settingsButton, func(d *flow.MemDriver) {
		for _, label := range settingsNavLabels {
			d.AddPageText(label)
		}
	})
	d.OnClick(myAccountLink, func(d *flow.MemDriver) {
		d.SetElementAttr(profileEmail, "value", signupEmailFilled(d))
		d.ShowElement(profileEmail)
	})
}

func TestRegisterCompanyEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/identity/v1/auth/resend-registration-email", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"tok-e2e"}`))
	}))
	defer server.Close()

	d := flow.NewMemDriver()
	scriptOnboardingPages(d)

	seq := flow.NewSequencer(d, 200*time.Millisecond)
	gen := fixture.NewGenerator()
	client := identity.NewClient(server.URL, "http://app.test")
	h := NewHarness(seq, gen, client, "http://app.test", testBounds())

	report, err := h.RegisterCompany(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, report.Email)
	require.Equal(t, report.Email, signupEmailFilled(d))
	require.Equal(t, report.CompanyName, fixture.SanitizeCompanyName(report.CompanyName))

	for _, r := range report.Results {
		require.Equal(t, flow.StateDone, r.State, "step %q", r.Step)
	}
	require.Equal(t, "http://app.test/email-verified/#tok-e2e", d.CurrentURL())
}

func TestRegisterCompanyAPIFailureSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	d := flow.NewMemDriver()
	scriptOnboardingPages(d)

	seq := flow.NewSequencer(d, 200*time.Millisecond)
	h := NewHarness(seq, fixture.NewGenerator(), identity.NewClient(server.URL, "http://app.test"), "http://app.test", testBounds())

	report, err := h.RegisterCompany(context.Background())
	require.Error(t, err)

	var apiErr *identity.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusTooManyRequests, apiErr.Status)

	// The signup phase completed before the API call failed.
	require.NotEmpty(t, report.Results)
	for _, r := range report.Results {
		require.Equal(t, flow.StateDone, r.State, "step %q", r.Step)
	}
}
