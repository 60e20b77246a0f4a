// Package gateway is the HTTP client every service call goes through.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/harentsoaR/carelink/internal/session"
)

// PatientLoginPath is where an authorization failure sends the application,
// whichever role the session had.
const PatientLoginPath = "/patient/login"

type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	// Simulator answers requests whose network round trip failed. It is only
	// consulted when Simulate is set.
	Simulator http.Handler
	Simulate  bool
	Logger    *log.Logger
}

// Client wraps the backend API. It attaches the session's bearer token to
// every call and tears the session down on a 401.
type Client struct {
	baseURL   string
	http      *http.Client
	session   *session.Session
	simulator http.Handler
	simulate  bool
	logger    *log.Logger
}

func New(cfg Config, sess *session.Session) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		http:      httpClient,
		session:   sess,
		simulator: cfg.Simulator,
		simulate:  cfg.Simulate && cfg.Simulator != nil,
		logger:    logger,
	}
}

// Simulating reports whether failed calls fall back to the mock backend.
func (c *Client) Simulating() bool { return c.simulate }

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
	}
	token := c.session.Token()

	req, err := c.newRequest(ctx, method, c.baseURL+path, payload, token)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if c.simulate {
			c.logger.Printf("Using mock response for: %s %s", path, method)
			return c.simulated(ctx, method, path, payload, token, out)
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	err = c.decode(method, path, resp.StatusCode, resp.Body, out)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	if apiErr.StatusCode == http.StatusUnauthorized {
		if err := c.session.ClearTo(PatientLoginPath); err != nil {
			c.logger.Printf("gateway: clear session: %v", err)
		}
	}
	c.logger.Printf("API Error: status=%d message=%q endpoint=%s method=%s",
		apiErr.StatusCode, apiErr.Message, path, method)
	return apiErr
}

// simulated serves the request with the mock backend. Its answers skip the
// 401 teardown.
func (c *Client) simulated(ctx context.Context, method, path string, payload []byte, token string, out any) error {
	req, err := c.newRequest(ctx, method, path, payload, token)
	if err != nil {
		return err
	}
	rec := httptest.NewRecorder()
	c.simulator.ServeHTTP(rec, req)
	if err := ctx.Err(); err != nil {
		return err
	}

	err = c.decode(method, path, rec.Code, rec.Body, out)
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		apiErr.Simulated = true
	}
	return err
}

func (c *Client) newRequest(ctx context.Context, method, url string, payload []byte, token string) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, url, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// decode fills out from a 2xx body, or returns the failure as an APIError.
func (c *Client) decode(method, path string, status int, body io.Reader, out any) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	if status < 200 || status > 299 {
		var e struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &e)
		msg := e.Message
		if msg == "" {
			msg = e.Error
		}
		return &APIError{StatusCode: status, Message: msg, Method: method, Path: path}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
