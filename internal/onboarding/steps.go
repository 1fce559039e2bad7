package onboarding

import (
	"fmt"
	"time"

	"github.com/meray2212/sparkrock/internal/flow"
)

// Bounds parameterizes the per-step waits. The original scripts carried
// two diverging sets of hardcoded durations; keeping them explicit here is
// the single source of truth.
type Bounds struct {
	Nav       time.Duration // page/menu loads
	Form      time.Duration // form fields becoming actionable
	Challenge time.Duration // optional reCAPTCHA probe
	OTP       time.Duration // login/OTP transitions
	Dashboard time.Duration // post-onboarding dashboard render
}

// DefaultBounds mirrors the production waits: 20s navigation, 10s forms,
// 60s around OTP, 30s dashboard.
func DefaultBounds() Bounds {
	return Bounds{
		Nav:       20 * time.Second,
		Form:      10 * time.Second,
		Challenge: 5 * time.Second,
		OTP:       60 * time.Second,
		Dashboard: 30 * time.Second,
	}
}

func check(c flow.ReadinessCheck) *flow.ReadinessCheck {
	return &c
}

// SignupSteps opens the signup form and submits it for the given email.
// The reCAPTCHA is an optional challenge: absent means not applicable.
func SignupSteps(email, firstName, lastName, password string, b Bounds) []flow.WorkflowStep {
	return []flow.WorkflowStep{
		{
			Name:          "open signup",
			Precondition:  check(flow.ElementVisible(signupButton, b.Nav)),
			Actions:       []flow.Interaction{flow.Click(signupButton)},
			Postcondition: check(flow.TextPresent(getStartedText, b.Form)),
		},
		{
			Name: "submit signup form",
			Optional: &flow.OptionalChallenge{
				Probe:   flow.ElementVisible(recaptchaIframe, b.Challenge),
				Actions: []flow.Interaction{flow.Click(recaptchaAnchor)},
			},
			Actions: []flow.Interaction{
				flow.Fill(signupEmailInput, email),
				flow.Fill(firstNameInput, firstName),
				flow.Fill(lastNameInput, lastName),
				flow.Fill(passwordInput, password),
				flow.Fill(repeatPasswordInput, password),
				flow.Select(sourceCombobox, sourceSocialMedia),
				flow.Click(getStartedSubmit),
			},
		},
	}
}

// VerifyEmailStep follows the verification redirect built from the API
// token and lands on the company registration form.
func VerifyEmailStep(redirectURL string, b Bounds) flow.WorkflowStep {
	return flow.WorkflowStep{
		Name:          "follow email verification link",
		Actions:       []flow.Interaction{flow.Navigate(redirectURL)},
		Postcondition: check(flow.ElementVisible(companyNameInput, b.Nav)),
	}
}

// LoginSteps authenticates with email, password, and the test OTP code.
func LoginSteps(homeURL, email, password string, b Bounds) []flow.WorkflowStep {
	steps := []flow.WorkflowStep{
		{
			Name:          "open login",
			Actions:       []flow.Interaction{flow.Navigate(homeURL)},
			Postcondition: check(flow.TextPresent(loginText, b.Nav)),
		},
		{
			Name: "submit credentials",
			Actions: []flow.Interaction{
				flow.Fill(loginEmail, email),
				flow.Fill(loginPassword, password),
				flow.Click(loginButton),
			},
			Postcondition: check(flow.ElementVisible(otpNextButton, b.OTP)),
		},
	}

	otpActions := make([]flow.Interaction, 0, otpDigitCount+1)
	for i := 1; i <= otpDigitCount; i++ {
		otpActions = append(otpActions, flow.Fill(fmt.Sprintf("xpath=(%s)[%d]", otpInputs, i), otpDefaultCode))
	}
	otpActions = append(otpActions, flow.Click(otpConfirm))

	steps = append(steps,
		flow.WorkflowStep{
			Name:          "request otp",
			Actions:       []flow.Interaction{flow.Click(otpNextButton)},
			Postcondition: check(flow.SelectorCount(otpInputs, otpDigitCount, b.Form)),
		},
		flow.WorkflowStep{
			Name:          "confirm otp",
			Actions:       otpActions,
			Postcondition: check(flow.TextPresent(homeText, b.OTP)),
		},
	)
	return steps
}

// CompanySteps fills the business registration form.
func CompanySteps(companyName, phone string, b Bounds) []flow.WorkflowStep {
	return []flow.WorkflowStep{
		{
			Name:         "register company",
			Precondition: check(flow.ElementVisible(companyNameInput, b.Nav)),
			Actions: []flow.Interaction{
				flow.Fill(companyNameInput, companyName),
				flow.Fill(contactNumberInput, phone),
				flow.Click(termsCheckbox),
				flow.Select(companySizeTrigger, companySizeOption),
				flow.Click(registerSubmit),
			},
		},
	}
}

// SurveySteps completes the team/role survey and waits for the dashboard
// onboarding banner.
func SurveySteps(b Bounds) []flow.WorkflowStep {
	return []flow.WorkflowStep{
		{
			Name: "complete survey",
			Actions: []flow.Interaction{
				flow.Select(teamDropdown, teamEngineering),
				flow.Select(roleDropdown, roleManager),
				flow.Click(surveySaveButton),
			},
			Postcondition: check(flow.TextPresent(surveyDoneText, b.Nav)),
		},
	}
}

// DashboardSteps asserts the admin navigation surface: the primary menu,
// the More submenu, the Settings submenu, and the user name badge.
func DashboardSteps(b Bounds) []flow.WorkflowStep {
	steps := []flow.WorkflowStep{
		{
			Name:         "dashboard ready",
			Precondition: check(flow.TextPresent(surveyDoneText, b.Dashboard)),
		},
	}
	for _, label := range primaryNavLabels {
		steps = append(steps, navAssertStep(label, b))
	}

	steps = append(steps, flow.WorkflowStep{
		Name:    "open more menu",
		Actions: []flow.Interaction{flow.Click(moreButton)},
	})
	for _, label := range moreNavLabels {
		steps = append(steps, navAssertStep(label, b))
	}

	steps = append(steps, flow.WorkflowStep{
		Name:    "open settings menu",
		Actions: []flow.Interaction{flow.Click(settingsButton)},
	})
	for _, label := range settingsNavLabels {
		steps = append(steps, navAssertStep(label, b))
	}

	steps = append(steps, flow.WorkflowStep{
		Name:         "user badge visible",
		Precondition: check(flow.ElementVisible(userFullName, b.Nav)),
	})
	return steps
}

func navAssertStep(label string, b Bounds) flow.WorkflowStep {
	return flow.WorkflowStep{
		Name:         "see " + label,
		Precondition: check(flow.TextPresent(label, b.Nav)),
	}
}

// OpenMyAccountStep navigates to the profile page where the registered
// email can be read back.
func OpenMyAccountStep(b Bounds) flow.WorkflowStep {
	return flow.WorkflowStep{
		Name:          "open my account",
		Actions:       []flow.Interaction{flow.Click(myAccountLink)},
		Postcondition: check(flow.ElementVisible(profileEmail, b.Dashboard)),
	}
}

// MembersNavigateStep opens the Members & Teams section.
func MembersNavigateStep(b Bounds) flow.WorkflowStep {
	return flow.WorkflowStep{
		Name:         "open members and teams",
		Precondition: check(flow.ElementVisible(membersMenu, b.Nav)),
		Actions:      []flow.Interaction{flow.Click(membersMenu)},
	}
}

// OpenBulkInviteStep opens the invite modal and switches to the bulk tab.
func OpenBulkInviteStep(b Bounds) flow.WorkflowStep {
	return flow.WorkflowStep{
		Name:         "open bulk invite",
		Precondition: check(flow.ElementVisible(inviteButton, b.Nav)),
		Actions: []flow.Interaction{
			flow.Click(inviteButton),
			flow.Click(bulkTabButton),
		},
		Postcondition: check(flow.ElementVisible(uploadCSVTitle, b.Nav)),
	}
}

// UploadInvitesStep uploads the generated CSV and sends the invites.
func UploadInvitesStep(csvPath string, b Bounds) flow.WorkflowStep {
	return flow.WorkflowStep{
		Name: "upload invite csv",
		Actions: []flow.Interaction{
			flow.Click(uploadCSVTitle),
			flow.Upload(fileInput, csvPath),
			flow.Click(sendInvites),
		},
	}
}

// MemberVerifyStep searches for an invited address and waits for its
// "Invite sent" chip. The assigned role is read back separately through
// the driver as an oracle check.
func MemberVerifyStep(email string, b Bounds) flow.WorkflowStep {
	return flow.WorkflowStep{
		Name:          "verify invite for " + email,
		Precondition:  check(flow.ElementVisible(memberSearch, b.Nav)),
		Actions:       []flow.Interaction{flow.Fill(memberSearch, email)},
		Postcondition: check(flow.TextPresent(inviteSentText, b.Nav)),
	}
}
