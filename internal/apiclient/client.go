// Package apiclient talks to the clinic API on behalf of a signed-in staff
// member. It implements dashboard.Store.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-recall/internal/dashboard"
	"github.com/BruksfildServices01/clinic-recall/internal/domain/recall"
	"github.com/BruksfildServices01/clinic-recall/internal/httperr"
	"github.com/BruksfildServices01/clinic-recall/internal/httpresp"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
)

var _ dashboard.Store = (*Client)(nil)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
}

// IsCode reports whether err is an APIError carrying code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
}

func New(baseURL, token string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	return &Client{
		baseURL: u,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// Token is the bearer token in use, empty before Login.
func (c *Client) Token() string {
	return c.token
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return err
	}

	c.token = out.Token
	return nil
}

// ======================================================
// RECALLS
// ======================================================

func (c *Client) ListRecalls(ctx context.Context) ([]recall.Candidate, error) {
	var out httpresp.ListResponse[recall.Candidate]
	if err := c.do(ctx, http.MethodGet, "/api/me/recalls", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) DismissRecall(ctx context.Context, patientID string) error {
	path := "/api/me/recalls/" + url.PathEscape(patientID) + "/dismiss"
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// ======================================================
// NOTIFICATIONS
// ======================================================

func (c *Client) FetchUnread(ctx context.Context) ([]models.Notification, error) {
	var out httpresp.ListResponse[models.Notification]
	if err := c.do(ctx, http.MethodGet, "/api/me/notifications/unread", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) MarkRead(ctx context.Context, ids []uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/api/me/notifications/read", map[string]any{"ids": ids}, nil)
}

// ======================================================
// TRANSPORT
// ======================================================

func (c *Client) endpoint(path string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String()
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var e httperr.HTTPError
		if json.NewDecoder(resp.Body).Decode(&e) == nil {
			apiErr.Code = e.Code
			apiErr.Message = e.Message
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
