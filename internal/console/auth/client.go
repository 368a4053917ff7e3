// Package auth is the console-side client for the session endpoints. It
// satisfies the session store's Authenticator interface so the store can be
// wired against the live API or a test double interchangeably.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/medrefer/medrefer/internal/domain/account"
	"github.com/medrefer/medrefer/internal/platform/session"
)

type Client struct {
	http *resty.Client
}

func NewClient(baseURL string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second)
	return &Client{http: c}
}

type loginResponse struct {
	Account *account.Account `json:"account"`
	Token   string           `json:"token"`
}

type apiError struct {
	Message string `json:"message"`
}

// Login exchanges credentials for an account and a session token.
func (c *Client) Login(ctx context.Context, email, password string) (*account.Account, string, error) {
	var out loginResponse
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/auth/login")
	if err != nil {
		return nil, "", err
	}
	if resp.IsError() {
		return nil, "", loginError(resp.StatusCode(), apiErr.Message)
	}
	if out.Account == nil || out.Token == "" {
		return nil, "", fmt.Errorf("login response missing account or token")
	}
	return out.Account, out.Token, nil
}

// Fetch re-reads the account bound to the session token. A 401 or 403 is
// reported as session.ErrUnauthorized so the store knows to destroy the
// session instead of retrying.
func (c *Client) Fetch(ctx context.Context, token string) (*account.Account, error) {
	var acct account.Account
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&acct).
		SetError(&apiErr).
		Post("/auth/refresh")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
			return nil, fmt.Errorf("%w (status %d)", session.ErrUnauthorized, resp.StatusCode())
		}
		return nil, loginError(resp.StatusCode(), apiErr.Message)
	}
	return &acct, nil
}

// Logout invalidates the session token.
func (c *Client) Logout(ctx context.Context, token string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		Post("/auth/logout")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("logout failed (status %d)", resp.StatusCode())
	}
	return nil
}

func loginError(status int, message string) error {
	if message == "" {
		message = "request failed"
	}
	return fmt.Errorf("auth api: %s (status %d)", message, status)
}
