// Package testutil provides testing utilities for the Entrez client.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"
)

// MockResponse defines the behavior of a mock E-utilities endpoint.
type MockResponse struct {
	StatusCode int
	Body       string
	Delay      time.Duration
}

// MockEntrez is a configurable mock E-utilities server for testing. It
// serves /epost.fcgi and /efetch.fcgi and records every request it sees.
type MockEntrez struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	PostCount  int
	FetchCount int
	Requests   []RecordedRequest
}

// RecordedRequest captures one request's endpoint and parameters.
type RecordedRequest struct {
	Path   string
	Params url.Values
}

// NewMockEntrez creates a new mock E-utilities server.
func NewMockEntrez() *MockEntrez {
	mock := &MockEntrez{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		if r.Method == http.MethodPost {
			if err := r.ParseForm(); err == nil {
				params = r.PostForm
			}
		}

		mock.mu.Lock()
		switch r.URL.Path {
		case "/epost.fcgi":
			mock.PostCount++
		case "/efetch.fcgi":
			mock.FetchCount++
		}
		mock.Requests = append(mock.Requests, RecordedRequest{Path: r.URL.Path, Params: params})
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL, usable as the client's BaseURL.
func (m *MockEntrez) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockEntrez) Close() {
	m.server.Close()
}

// Reset clears all tracking state.
func (m *MockEntrez) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PostCount = 0
	m.FetchCount = 0
	m.Requests = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockEntrez) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockEntrez) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			fmt.Fprint(w, resp.Body)
		}
	})
}

// RequestCount returns the total number of requests received.
func (m *MockEntrez) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Requests)
}

// LastRequest returns the most recent recorded request, or nil.
func (m *MockEntrez) LastRequest() *RecordedRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.Requests) == 0 {
		return nil
	}
	req := m.Requests[len(m.Requests)-1]
	return &req
}

// FetchRequests returns the recorded efetch requests in order.
func (m *MockEntrez) FetchRequests() []RecordedRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []RecordedRequest
	for _, req := range m.Requests {
		if req.Path == "/efetch.fcgi" {
			out = append(out, req)
		}
	}
	return out
}

// defaultHandler answers epost with a healthy session and efetch with an
// empty payload.
func (m *MockEntrez) defaultHandler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/epost.fcgi":
		w.Header().Set("Content-Type", "text/xml")
		fmt.Fprint(w, EPostBody("1", "MCID_mock"))
	default:
		w.WriteHeader(http.StatusOK)
	}
}

// EPostBody builds a minimal ePostResult document.
func EPostBody(queryKey, webEnv string) string {
	return fmt.Sprintf(`<?xml version="1.0"?>
<ePostResult>
  <QueryKey>%s</QueryKey>
  <WebEnv>%s</WebEnv>
</ePostResult>`, queryKey, webEnv)
}

// NewEPostResponse creates a healthy epost response.
func NewEPostResponse(queryKey, webEnv string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       EPostBody(queryKey, webEnv),
	}
}

// NewServerErrorResponse creates a 500 response, retriable under the
// client's policy.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       "server error",
	}
}

// NewNotFoundResponse creates a 404 response. The client treats it as
// transient because the retriable range spans 400-599.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       "not found",
	}
}
