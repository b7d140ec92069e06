package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultTimeout bounds every backend call
	DefaultTimeout = 10 * time.Second

	// RequestIDHeader carries a per-call id for correlating backend logs
	RequestIDHeader = "X-Request-ID"

	greetingPath     = "/api/hello"
	initiatePath     = "/api/initiate-consent"
	statusPathPrefix = "/api/consent-status/"

	maxResponseBytes = 1 << 20
)

// GreetingResponse is the body of GET /api/hello
type GreetingResponse struct {
	Message string `json:"message"`
}

// InitiateResponse is the body of POST /api/initiate-consent
type InitiateResponse struct {
	ID  string `json:"id,omitempty"`
	URL string `json:"url,omitempty"`
}

// StatusResponse is the body of GET /api/consent-status/{id}
type StatusResponse struct {
	Status string `json:"status,omitempty"`
}

// Backend is the consent backend as seen by the client
type Backend interface {
	Greeting(ctx context.Context) (*GreetingResponse, error)
	InitiateConsent(ctx context.Context) (*InitiateResponse, error)
	ConsentStatus(ctx context.Context, id string) (*StatusResponse, error)
}

// API talks to the consent backend over HTTP
type API struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// APIOption configures an API
type APIOption func(*API)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(c *http.Client) APIOption {
	return func(a *API) {
		a.httpClient = c
	}
}

// WithTimeout sets the per-call deadline
func WithTimeout(d time.Duration) APIOption {
	return func(a *API) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// NewAPI creates an API for the backend at baseURL
func NewAPI(baseURL string, opts ...APIOption) *API {
	a := &API{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BaseURL returns the backend address without a trailing slash
func (a *API) BaseURL() string {
	return a.baseURL
}

// Greeting fetches the backend greeting
func (a *API) Greeting(ctx context.Context) (*GreetingResponse, error) {
	var out GreetingResponse
	if err := a.do(ctx, OpGreeting, http.MethodGet, greetingPath, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InitiateConsent asks the backend to start a new consent flow
func (a *API) InitiateConsent(ctx context.Context) (*InitiateResponse, error) {
	var out InitiateResponse
	if err := a.do(ctx, OpInitiate, http.MethodPost, initiatePath, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConsentStatus fetches the status of consent id
func (a *API) ConsentStatus(ctx context.Context, id string) (*StatusResponse, error) {
	if id == "" {
		return nil, ErrConsentNotStarted
	}
	var out StatusResponse
	if err := a.do(ctx, OpStatus, http.MethodGet, statusPathPrefix+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs one request and decodes the JSON body into out.
// Non-2xx responses are still decoded; callers decide on field presence.
func (a *API) do(ctx context.Context, op, method, path string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	target := a.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return &NetworkError{Op: op, URL: target, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	LogDebug("%s %s (request %s)", method, target, requestID)
	start := time.Now()

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, URL: target, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &NetworkError{Op: op, URL: target, Err: fmt.Errorf("read body: %w", err)}
	}
	LogDebug("%s %s -> %d in %s (request %s)", method, target, resp.StatusCode, time.Since(start).Round(time.Millisecond), requestID)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		LogWarn("%s returned HTTP %d (request %s)", op, resp.StatusCode, requestID)
	}

	// null, arrays and scalars decode without error but carry no fields
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || trimmed[0] != '{' {
		return &MalformedResponseError{Op: op, Err: fmt.Errorf("response body is not a JSON object: %q", truncate(trimmed, 64))}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &MalformedResponseError{Op: op, Err: err}
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
