// Package approvals drives the approval administration screens: paging
// through pending users and hospitals, resolving each to approved or
// rejected, and keeping aggregate counts alongside.
package approvals

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/medrefer/medrefer/internal/domain/approval"
)

// API is the slice of the approval service the workflow consumes.
type API interface {
	ListPending(ctx context.Context, kind approval.Kind, page, limit int) ([]*approval.PendingItem, int, error)
	Approve(ctx context.Context, kind approval.Kind, id uuid.UUID, message string) error
	Reject(ctx context.Context, kind approval.Kind, id uuid.UUID, reason string) error
	Stats(ctx context.Context) (*approval.Stats, error)
}

// Client talks to the approval administration REST API.
type Client struct {
	http *resty.Client
}

// NewClient builds a client for the given API base URL, authenticating with
// the session token.
func NewClient(baseURL, sessionToken string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(sessionToken).
		SetTimeout(15 * time.Second)
	return &Client{http: c}
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type listEnvelope struct {
	envelope
	Data struct {
		Items      []*approval.PendingItem `json:"items"`
		Total      int                     `json:"total"`
		Page       int                     `json:"page"`
		TotalPages int                     `json:"total_pages"`
	} `json:"data"`
}

type statsEnvelope struct {
	envelope
	Data approval.Stats `json:"data"`
}

func pathForKind(kind approval.Kind) (string, error) {
	switch kind {
	case approval.KindUser:
		return "/approvals/users", nil
	case approval.KindHospital:
		return "/approvals/hospitals", nil
	default:
		return "", fmt.Errorf("unknown approval kind %q", kind)
	}
}

func (c *Client) ListPending(ctx context.Context, kind approval.Kind, page, limit int) ([]*approval.PendingItem, int, error) {
	path, err := pathForKind(kind)
	if err != nil {
		return nil, 0, err
	}

	var out listEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("page", fmt.Sprint(page)).
		SetQueryParam("limit", fmt.Sprint(limit)).
		SetResult(&out).
		SetError(&out).
		Get(path)
	if err != nil {
		return nil, 0, err
	}
	if resp.IsError() || !out.Success {
		return nil, 0, apiError(resp.StatusCode(), out.Message)
	}
	return out.Data.Items, out.Data.TotalPages, nil
}

func (c *Client) Approve(ctx context.Context, kind approval.Kind, id uuid.UUID, message string) error {
	path, err := pathForKind(kind)
	if err != nil {
		return err
	}
	return c.post(ctx, fmt.Sprintf("%s/%s/approve", path, id), map[string]string{"message": message})
}

func (c *Client) Reject(ctx context.Context, kind approval.Kind, id uuid.UUID, reason string) error {
	path, err := pathForKind(kind)
	if err != nil {
		return err
	}
	return c.post(ctx, fmt.Sprintf("%s/%s/reject", path, id), map[string]string{"reason": reason})
}

func (c *Client) post(ctx context.Context, path string, body map[string]string) error {
	var out envelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&out).
		Post(path)
	if err != nil {
		return err
	}
	if resp.IsError() || !out.Success {
		return apiError(resp.StatusCode(), out.Message)
	}
	return nil
}

func (c *Client) Stats(ctx context.Context) (*approval.Stats, error) {
	var out statsEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&out).
		Get("/approvals/stats")
	if err != nil {
		return nil, err
	}
	if resp.IsError() || !out.Success {
		return nil, apiError(resp.StatusCode(), out.Message)
	}
	return &out.Data, nil
}

func apiError(status int, message string) error {
	if message == "" {
		message = "request failed"
	}
	return fmt.Errorf("approval api: %s (status %d)", message, status)
}
