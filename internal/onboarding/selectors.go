// Package onboarding expresses the application's onboarding journeys as
// declarative workflow steps: signup, email verification, company
// registration, survey, dashboard verification, and bulk member invites.
// Selectors and bounds live here so the sequencer stays app-agnostic.
package onboarding

// Landing and signup.
const (
	signupButton        = "button#signup-btn"
	getStartedText      = "Get Started"
	recaptchaIframe     = "iframe[title='reCAPTCHA']"
	recaptchaAnchor     = "#recaptcha-anchor"
	signupEmailInput    = "xpath=(//input[@id='signUp-1-1'])[1]"
	firstNameInput      = "input[name='firstName']"
	lastNameInput       = "input[name='lastName']"
	passwordInput       = "input[name='password']"
	repeatPasswordInput = "input[name='repeatPassword']"
	sourceCombobox      = "//div[contains(@class, 'MuiSelect-outlined') and @role='combobox']"
	sourceSocialMedia   = "//li[normalize-space()='Social Media']"
	getStartedSubmit    = "button#get-started-submit-btn"
)

// Login and OTP.
const (
	loginText      = "Log in"
	loginEmail     = "input[name='email']"
	loginPassword  = "input[name='password']"
	loginButton    = "xpath=//button[@id='login-btn']"
	otpNextButton  = "button:has-text('Next')"
	otpInputs      = "//input[contains(@class,'MuiOutlinedInput-input') and @type='text']"
	otpConfirm     = "xpath=(//button[normalize-space()='Confirm'])[1]"
	homeText       = "Home"
	otpDigitCount  = 6
	otpDefaultCode = "5"
)

// Company registration.
const (
	companyNameInput   = "input[name='name']"
	contactNumberInput = "input[name='contactNumber']"
	termsCheckbox      = "input.PrivateSwitchBase-input[type='checkbox']"
	companySizeTrigger = "(//div[@id='company-size'])[1]"
	companySizeOption  = "//p[normalize-space()='51 to 250 employees']"
	registerSubmit     = "button#register-business-submit-btn"
)

// Survey.
const (
	teamDropdown     = "//label[contains(text(), 'Select a team')]/following-sibling::div//div[@role='combobox']"
	teamEngineering  = "//li[@role='option' and @data-value='Engineering / IT']"
	roleDropdown     = "//label[contains(text(), 'Select a role')]/following-sibling::div//div[@role='combobox']"
	roleManager      = "//li[text()='Manager']"
	surveySaveButton = "(//button[normalize-space()='Save'])[1]"
	surveyDoneText   = "Get started"
)

// Dashboard.
const (
	moreButton     = "//span[normalize-space()='More']"
	settingsButton = "//span[normalize-space()='Settings']"
	userFullName   = "xpath=//span[@id='user-full-name']"
	myAccountLink  = "//span[contains(text(),'My account')]"
	profileEmail   = "//input[@id='email-input']"
)

// Members and bulk invite.
const (
	membersMenu     = "//span[text()='Members & Teams']"
	inviteButton    = "//button[@id='invite-btn']"
	bulkTabButton   = "//button[@id='tab-bulk']"
	uploadCSVTitle  = "//p[@title='Upload CSV file']"
	fileInput       = "input[type='file']"
	sendInvites     = "button:has-text('Send invites')"
	memberSearch    = "//input[@id='members-search-input']"
	memberRoleLabel = "//p[contains(@class, 'MuiTypography-body1') and (text()='Team Member' or text()='Admin' or text()='Accountant')]"
	inviteSentChip  = "//span[contains(@class, 'MuiChip-label') and text()='Invite sent']"
	inviteSentText  = "Invite sent"
	teamMemberRole  = "Team Member"
)

// Navigation labels asserted on the admin dashboard, grouped by the menu
// that reveals them.
var (
	primaryNavLabels = []string{
		"Home", "Card expenses", "Cards", "Requests", "Transactions",
		"Statements", "Accounting export", "Members & Teams",
	}
	moreNavLabels = []string{
		"Invoices", "Reimbursements", "Budgets", "Approval policies",
		"Submission policies", "Receipts inbox",
	}
	settingsNavLabels = []string{
		"Billing", "Subscription plans",
	}
)
