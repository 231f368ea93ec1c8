// Package testutil provides testing utilities for the monbillet client.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// TokenHeader is the header the mock records on every request.
const TokenHeader = "X-Monbillet-Api-Token"

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockAPI is a configurable mock monbillet API server for testing. Paths
// are matched relative to BaseURL, without the query string.
type MockAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount int
	LastToken    string
	LastQuery    string
	Paths        []string
}

// NewMockAPI creates a new mock API server.
func NewMockAPI() *MockAPI {
	mock := &MockAPI{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/v1/")

		mock.mu.Lock()
		mock.RequestCount++
		mock.LastToken = r.Header.Get(TokenHeader)
		mock.LastQuery = r.URL.RawQuery
		mock.Paths = append(mock.Paths, path)
		handler, exists := mock.handlers[path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, `{"error": "no such resource %s"}`, path)
	}))

	return mock
}

// BaseURL returns the API root to configure the client with.
func (m *MockAPI) BaseURL() string {
	return m.server.URL + "/api/v1/"
}

// Close shuts down the mock server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastToken = ""
	m.LastQuery = ""
	m.Paths = nil
}

// SetHandler sets a custom handler for a path such as "events/summer".
func (m *MockAPI) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetLastToken returns the token header of the most recent request.
func (m *MockAPI) GetLastToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastToken
}

// GetLastQuery returns the raw query of the most recent request.
func (m *MockAPI) GetLastQuery() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastQuery
}

// NewJSONResponse creates a 200 OK response carrying body.
func NewJSONResponse(body string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewNoContentResponse creates a 204 No Content response.
func NewNoContentResponse() MockResponse {
	return MockResponse{StatusCode: http.StatusNoContent}
}

// NewErrorResponse creates an error response with the given status.
func NewErrorResponse(status int) MockResponse {
	return MockResponse{
		StatusCode: status,
		Body:       fmt.Sprintf(`{"error": %q}`, http.StatusText(status)),
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// EventsBody returns a typical events list payload.
func EventsBody() string {
	return `{"events":[` +
		`{"id":"summer-fest","title":"Summer Fest","dateFirstShow":"2024-06-01T20:00:00+02:00","dateLastShow":"2024-06-03T23:00:00+02:00",` +
		`"shows":[{"id":"show-1","dateHappens":"2024-06-01 20:00:00"},{"id":"show-2","dateHappens":null}]},` +
		`{"id":"winter-gala","title":"Winter Gala","dateFirstShow":"2024-12-20","dateLastShow":null}` +
		`]}`
}

// EventBody returns a typical single-event payload for id.
func EventBody(id string) string {
	return fmt.Sprintf(`{"event":{"id":%q,"title":"Summer Fest","dateFirstShow":"2024-06-01T20:00:00+02:00",`+
		`"shows":[{"id":"show-1","dateHappens":"2024-06-01T20:00:00+02:00"}]}}`, id)
}

// EventGroupsBody returns a typical event group list payload.
func EventGroupsBody() string {
	return `{"event-groups":[{"id":"festivals","title":"Festivals","events":[` +
		`{"id":"summer-fest","dateFirstShow":"2024-06-01T20:00:00+02:00"}]}]}`
}

// EventGroupBody returns a typical single event group payload for id.
func EventGroupBody(id string) string {
	return fmt.Sprintf(`{"event-groups":{"id":%q,"title":"Festivals","events":[`+
		`{"id":"summer-fest","dateLastShow":"2024-06-03T23:00:00+02:00"}]}}`, id)
}
