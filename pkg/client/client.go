// Package client is a typed HTTP client for the campus projects API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/noah-isme/campus-projects-api/pkg/api"
)

const defaultTimeout = 30 * time.Second

// APIError is the decoded {code, message} body of a non-2xx response.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: %s (%d): %s", e.Code, e.Status, e.Message)
}

// IsNotFound reports whether err is an API 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Download is a file served by the API.
type Download struct {
	Filename    string
	ContentType string
	Inline      bool
	Data        []byte
}

// Client talks to one API base URL.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	token   string
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithToken sends the identity token as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New parses baseURL and builds a client.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	c := &Client{baseURL: u, http: &http.Client{Timeout: defaultTimeout}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetToken replaces the bearer token, usually after the identity provider
// refreshed it.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}
	req, err := c.newRequest(ctx, method, path, query, body, contentType)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) download(ctx context.Context, path string, query url.Values) (*Download, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", req.URL.Path, err)
	}
	dl := &Download{ContentType: resp.Header.Get("Content-Type"), Data: data}
	if disposition, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		dl.Inline = disposition == "inline"
		dl.Filename = params["filename"]
	}
	return dl, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Code = ""
		apiErr.Message = strings.TrimSpace(string(data))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
	}
	return apiErr
}

// Identity flow

var (
	// ErrNotRegistered is returned by SignIn when no user row exists for uid.
	ErrNotRegistered = errors.New("user is not registered")
	// ErrRoleMismatch is returned by SignIn when the stored role differs
	// from the role the caller signed in as.
	ErrRoleMismatch = errors.New("user role does not match")
)

// SignIn loads the persisted user for an identity-provider uid and checks
// it holds expectedRole.
func (c *Client) SignIn(ctx context.Context, uid string, expectedRole api.UserRole) (*api.User, error) {
	user, err := c.GetUser(ctx, uid)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrNotRegistered
		}
		return nil, err
	}
	if user.Role != expectedRole {
		return user, fmt.Errorf("%w: signed in as %s, registered as %s", ErrRoleMismatch, expectedRole, user.Role)
	}
	return user, nil
}
