// Package identity talks to the application's identity API. The harness
// uses it to bypass real email delivery: triggering a verification-email
// resend returns the token directly, from which the email-verified
// redirect URL is built.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/meray2212/sparkrock/internal/errs"
	"github.com/meray2212/sparkrock/internal/logutil"
	"github.com/meray2212/sparkrock/internal/obs"
)

const (
	resendPath      = "/identity/v1/auth/resend-registration-email"
	maxLoggedBody   = 2048
	defaultHTTPWait = 30 * time.Second
)

// APIError reports a non-200 response from the identity API, carrying the
// status and body for triage.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity: resend-registration-email returned %d: %s",
		e.Status, logutil.TruncateForLog(e.Body, maxLoggedBody))
}

func (e *APIError) Unwrap() error {
	return errs.New(errs.APIFailure, fmt.Sprintf("identity API returned %d", e.Status))
}

// Client is a thin client for the identity endpoints the harness needs.
type Client struct {
	httpClient *http.Client
	apiBaseURL string
	homeURL    string
}

// NewClient returns a Client targeting the given API and app base URLs.
func NewClient(apiBaseURL, homeURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultHTTPWait},
		apiBaseURL: strings.TrimRight(apiBaseURL, "/"),
		homeURL:    strings.TrimRight(homeURL, "/"),
	}
}

// NewClientWithHTTP returns a Client using the provided http.Client.
func NewClientWithHTTP(apiBaseURL, homeURL string, httpClient *http.Client) *Client {
	c := NewClient(apiBaseURL, homeURL)
	c.httpClient = httpClient
	return c
}

// ResendRegistrationEmail asks the API to resend the verification email
// for the address and returns the verification token from the response.
func (c *Client) ResendRegistrationEmail(ctx context.Context, email string) (string, error) {
	payload, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return "", errs.Wrap(errs.Internal, "encoding resend-registration-email payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBaseURL+resendPath, bytes.NewReader(payload))
	if err != nil {
		return "", errs.Wrap(errs.Internal, "building resend-registration-email request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errs.Wrap(errs.APIFailure, "posting resend-registration-email", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errs.Wrap(errs.APIFailure, "reading resend-registration-email response", err)
	}

	obs.From(ctx).Debug("resend-registration-email response",
		"status", resp.StatusCode,
		"body", logutil.FormatBodyForLog(resp.Header.Get("Content-Type"), body, maxLoggedBody))

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	token := gjson.GetBytes(body, "token").String()
	if token == "" {
		return "", errs.New(errs.APIFailure, "resend-registration-email response carried no token")
	}
	return token, nil
}

// VerificationURL builds the email-verified redirect for a token. The
// token rides in the hash fragment so it stays out of server access logs.
func (c *Client) VerificationURL(token string) string {
	return c.homeURL + "/email-verified/#" + token
}
