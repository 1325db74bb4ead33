package directory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const sessionHeader = "X-Session"

// Client talks to the directory's REST API. It is safe for concurrent use.
type Client struct {
	client *resty.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.Endpoint, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Project", cfg.ProjectID).
		SetHeader("X-Key", cfg.APIKey)

	return &Client{client: cli}
}

type challengeRequest struct {
	AccountID string `json:"userId"`
	Email     string `json:"email"`
}

type challengeResponse struct {
	AccountID string `json:"userId"`
}

// CreateChallenge asks the directory to deliver a one-time passcode to email.
// The returned identifier is the one the directory actually bound the
// challenge to; when an account already exists for the email it differs from
// the requested identifier.
func (c *Client) CreateChallenge(ctx context.Context, accountID, email string) (string, error) {
	var (
		out    challengeResponse
		apiErr Error
	)

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(challengeRequest{AccountID: accountID, Email: email}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1/account/tokens")
	if err != nil {
		return "", fmt.Errorf("create challenge request: %w", err)
	}
	if resp.IsError() {
		apiErr.Status = resp.StatusCode()
		return "", &apiErr
	}

	return out.AccountID, nil
}

type sessionRequest struct {
	AccountID string `json:"userId"`
	Secret    string `json:"secret"`
}

// CreateSession exchanges an identifier and passcode for a session credential.
func (c *Client) CreateSession(ctx context.Context, accountID, passcode string) (*Session, error) {
	var (
		out    Session
		apiErr Error
	)

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(sessionRequest{AccountID: accountID, Secret: passcode}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1/account/sessions/token")
	if err != nil {
		return nil, fmt.Errorf("create session request: %w", err)
	}
	if resp.IsError() {
		apiErr.Status = resp.StatusCode()
		return nil, &apiErr
	}

	return &out, nil
}

// CurrentIdentity resolves the authoritative account behind a session secret.
func (c *Client) CurrentIdentity(ctx context.Context, secret string) (*Identity, error) {
	var (
		out    Identity
		apiErr Error
	)

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader(sessionHeader, secret).
		SetResult(&out).
		SetError(&apiErr).
		Get("/v1/account")
	if err != nil {
		return nil, fmt.Errorf("current identity request: %w", err)
	}
	if resp.IsError() {
		apiErr.Status = resp.StatusCode()
		return nil, &apiErr
	}

	return &out, nil
}

// DeleteSession invalidates the session behind the secret.
func (c *Client) DeleteSession(ctx context.Context, secret string) error {
	var apiErr Error

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader(sessionHeader, secret).
		SetError(&apiErr).
		Delete("/v1/account/sessions/current")
	if err != nil {
		return fmt.Errorf("delete session request: %w", err)
	}
	if resp.IsError() {
		apiErr.Status = resp.StatusCode()
		return &apiErr
	}

	return nil
}
