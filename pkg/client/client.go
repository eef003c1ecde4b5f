// Package client is the polling console's view of the admin panel API:
// a thin request/response client plus a Poller that owns the refresh loops.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"mcadmin/internal/actions"
	"mcadmin/internal/auth"
	"mcadmin/internal/models"
)

// ErrUnauthorized is returned on any 401; the caller is expected to go back
// through the login entry point.
var ErrUnauthorized = errors.New("authentication required")

// APIError is any other non-2xx response, carrying the backend's detail
// message when it sent one.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("request failed (%d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("request failed (%d)", e.Status)
}

const requestTimeout = 10 * time.Second

type Client struct {
	base *url.URL
	http *http.Client
	csrf string
}

func New(baseURL string) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		base: base,
		http: &http.Client{Jar: jar, Timeout: requestTimeout},
	}, nil
}

// Login authenticates and remembers the CSRF token for later mutations.
func (c *Client) Login(ctx context.Context, password string) error {
	form := url.Values{"password": {password}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve("/login"), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp models.LoginResponse
	if err := c.do(req, &resp); err != nil {
		return err
	}
	c.csrf = resp.CSRFToken
	return nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.postJSON(ctx, "/logout", nil, nil)
}

func (c *Client) Status(ctx context.Context) (*models.StatusSnapshot, error) {
	var snap models.StatusSnapshot
	if err := c.getJSON(ctx, "/api/status", &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *Client) Logs(ctx context.Context, tail int) ([]string, error) {
	var resp models.LogResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/api/logs?tail=%d", tail), &resp); err != nil {
		return nil, err
	}
	return resp.Lines, nil
}

func (c *Client) Whitelist(ctx context.Context) ([]string, error) {
	var resp models.WhitelistResponse
	if err := c.getJSON(ctx, "/api/whitelist", &resp); err != nil {
		return nil, err
	}
	return resp.Names, nil
}

func (c *Client) Jobs(ctx context.Context) ([]models.Job, error) {
	var resp models.JobListResponse
	if err := c.getJSON(ctx, "/api/jobs", &resp); err != nil {
		return nil, err
	}
	return resp.Jobs, nil
}

func (c *Client) Job(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	if err := c.getJSON(ctx, "/api/jobs/"+url.PathEscape(id), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// ServerAction submits one of the server-control actions and returns the id
// of the job tracking it.
func (c *Client) ServerAction(ctx context.Context, kind actions.Kind) (string, error) {
	if !kind.Known() || !kind.Exclusive() {
		return "", &actions.ValidationError{Message: fmt.Sprintf("not a server action: %s", kind)}
	}
	verb := strings.TrimPrefix(string(kind), "server.")
	var resp models.JobSubmitResponse
	if err := c.postJSON(ctx, "/api/actions/"+verb, nil, &resp); err != nil {
		return "", err
	}
	return resp.JobID, nil
}

// PlayerAction validates the name locally first: a bad name never reaches
// the backend and no job is created anywhere.
func (c *Client) PlayerAction(ctx context.Context, kind actions.Kind, name string, op bool) (string, error) {
	if !kind.TargetsPlayer() {
		return "", &actions.ValidationError{Message: fmt.Sprintf("not a player action: %s", kind)}
	}
	name, err := actions.ValidatePlayerName(name)
	if err != nil {
		return "", err
	}

	path := "/api/players/" + strings.TrimPrefix(string(kind), "player.")
	if kind == actions.PlayerOnboard {
		path = "/api/onboard"
	}
	var resp models.JobSubmitResponse
	if err := c.postJSON(ctx, path, models.PlayerRequest{Name: name, Op: op}, &resp); err != nil {
		return "", err
	}
	return resp.JobID, nil
}

// Onboard whitelists a new player and optionally ops them in one step.
func (c *Client) Onboard(ctx context.Context, name string, op bool) (string, error) {
	return c.PlayerAction(ctx, actions.PlayerOnboard, name, op)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(path), nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(path), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(auth.CSRFHeader, c.csrf)
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var body struct {
			Detail string `json:"detail"`
		}
		if json.NewDecoder(resp.Body).Decode(&body) == nil {
			apiErr.Detail = body.Detail
		}
		return apiErr
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) resolve(path string) string {
	ref, _ := url.Parse(path)
	return c.base.ResolveReference(ref).String()
}
