package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// Response is a canned backend reply
type Response struct {
	Status int
	Body   string
	// Delay holds the reply back; the request context still cancels it.
	Delay time.Duration
}

// JSONResponse builds a Response with v encoded as the body
func JSONResponse(status int, v interface{}) Response {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testutil: marshal response: %v", err))
	}
	return Response{Status: status, Body: string(data)}
}

// RecordedRequest describes one request the fake backend served
type RecordedRequest struct {
	Method    string
	Path      string
	ConsentID string
	RequestID string
}

// FakeBackend is an in-process stand-in for the consent backend. By default
// it behaves like the Flask consent backend: a fixed greeting, sequential
// consent ids, and PENDING status for ids it has issued.
type FakeBackend struct {
	server *httptest.Server

	mu       sync.Mutex
	greeting *Response
	initiate *Response
	statuses map[string]Response
	issued   map[string]bool
	nextID   int
	requests []RecordedRequest
}

// NewFakeBackend starts a fake backend that is closed when t finishes
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	f := &FakeBackend{
		statuses: make(map[string]Response),
		issued:   make(map[string]bool),
	}

	r := chi.NewRouter()
	r.Get("/api/hello", f.handleGreeting)
	r.Post("/api/initiate-consent", f.handleInitiate)
	r.Get("/api/consent-status/{id}", f.handleStatus)

	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the base URL of the fake backend
func (f *FakeBackend) URL() string {
	return f.server.URL
}

// Close shuts the server down so later calls fail at the network level
func (f *FakeBackend) Close() {
	f.server.Close()
}

// SetGreeting overrides the GET /api/hello reply
func (f *FakeBackend) SetGreeting(r Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.greeting = &r
}

// SetInitiate overrides the POST /api/initiate-consent reply
func (f *FakeBackend) SetInitiate(r Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initiate = &r
}

// SetStatus overrides the GET /api/consent-status/{id} reply for id
func (f *FakeBackend) SetStatus(id string, r Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = r
}

// Requests returns every request served so far
func (f *FakeBackend) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// Count returns how many requests matched method and path
func (f *FakeBackend) Count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, req := range f.requests {
		if req.Method == method && req.Path == path {
			n++
		}
	}
	return n
}

func (f *FakeBackend) record(r *http.Request, consentID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, RecordedRequest{
		Method:    r.Method,
		Path:      r.URL.Path,
		ConsentID: consentID,
		RequestID: r.Header.Get("X-Request-ID"),
	})
}

func (f *FakeBackend) handleGreeting(w http.ResponseWriter, r *http.Request) {
	f.record(r, "")
	f.mu.Lock()
	resp := f.greeting
	f.mu.Unlock()
	if resp == nil {
		def := JSONResponse(http.StatusOK, map[string]string{"message": "Hello from Flask!"})
		resp = &def
	}
	write(w, r, *resp)
}

func (f *FakeBackend) handleInitiate(w http.ResponseWriter, r *http.Request) {
	f.record(r, "")
	f.mu.Lock()
	resp := f.initiate
	if resp == nil {
		f.nextID++
		id := fmt.Sprintf("consent-%03d", f.nextID)
		f.issued[id] = true
		def := JSONResponse(http.StatusOK, map[string]string{
			"id":  id,
			"url": f.server.URL + "/approve/" + id,
		})
		resp = &def
	}
	f.mu.Unlock()
	write(w, r, *resp)
}

func (f *FakeBackend) handleStatus(w http.ResponseWriter, r *http.Request) {
	// chi matches on the raw path when it holds escaped slashes
	id := chi.URLParam(r, "id")
	if unescaped, err := url.PathUnescape(id); err == nil {
		id = unescaped
	}
	f.record(r, id)
	f.mu.Lock()
	resp, ok := f.statuses[id]
	if !ok {
		if f.issued[id] {
			resp = JSONResponse(http.StatusOK, map[string]string{"consent_id": id, "status": "PENDING"})
		} else {
			resp = JSONResponse(http.StatusNotFound, map[string]string{"error": "Consent not found"})
		}
	}
	f.mu.Unlock()
	write(w, r, resp)
}

func write(w http.ResponseWriter, r *http.Request, resp Response) {
	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-r.Context().Done():
			return
		}
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(resp.Body))
}
