// Package backend is the HTTP client for the awards REST backend.
package backend

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

	"github.com/vervelak/lastwar-alliance-manager/internal/metrics"
	"github.com/vervelak/lastwar-alliance-manager/internal/model"
)

// Credentials are the operator's own headers, forwarded verbatim so the
// backend sees the same session the browser holds.
type Credentials struct {
	Cookie        string
	Authorization string
}

// StatusError is returned when the backend answers with a non-success status.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: backend status %d", e.Endpoint, e.Code)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

type Client struct {
	baseURL string
	client  *http.Client
}

// New returns a client for baseURL. A zero timeout leaves calls unbounded.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) CheckAuth(ctx context.Context, cred Credentials) (*model.AuthStatus, error) {
	var st model.AuthStatus
	if err := c.do(ctx, "check_auth", http.MethodGet, "/api/check-auth", cred, nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Logout fails only when the backend cannot be reached; the response is not inspected.
func (c *Client) Logout(ctx context.Context, cred Credentials) error {
	err := c.do(ctx, "logout", http.MethodPost, "/api/logout", cred, nil, nil)
	var se *StatusError
	if errors.As(err, &se) {
		return nil
	}
	return err
}

func (c *Client) Members(ctx context.Context, cred Credentials) ([]model.Member, error) {
	var members []model.Member
	if err := c.do(ctx, "members", http.MethodGet, "/api/members", cred, nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (c *Client) WeekAwards(ctx context.Context, cred Credentials, weekDate string) ([]model.Award, error) {
	var awards []model.Award
	path := "/api/awards?" + url.Values{"week": {weekDate}}.Encode()
	if err := c.do(ctx, "week_awards", http.MethodGet, path, cred, nil, &awards); err != nil {
		return nil, err
	}
	return awards, nil
}

func (c *Client) History(ctx context.Context, cred Credentials) ([]model.HistoryRecord, error) {
	var records []model.HistoryRecord
	if err := c.do(ctx, "history", http.MethodGet, "/api/awards", cred, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SaveAwards replaces the whole week on the backend with req.Awards.
func (c *Client) SaveAwards(ctx context.Context, cred Credentials, req model.SaveAwardsRequest) error {
	if req.Awards == nil {
		req.Awards = []model.Award{}
	}
	return c.do(ctx, "save_awards", http.MethodPost, "/api/awards", cred, req, nil)
}

func (c *Client) ClearAwards(ctx context.Context, cred Credentials, weekDate string) error {
	return c.do(ctx, "clear_awards", http.MethodDelete, "/api/awards/"+url.PathEscape(weekDate), cred, nil, nil)
}

func (c *Client) do(ctx context.Context, endpoint, method, path string, cred Credentials, in, out any) error {
	start := time.Now()
	code := 0
	defer func() { metrics.RecordBackend(endpoint, code, time.Since(start).Seconds()) }()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", endpoint, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cred.Cookie != "" {
		req.Header.Set("Cookie", cred.Cookie)
	}
	if cred.Authorization != "" {
		req.Header.Set("Authorization", cred.Authorization)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	code = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode, Body: string(data)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", endpoint, err)
	}
	return nil
}
