// Package testutil provides testing utilities for the catalog client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockAPI is a configurable mock catalog API for testing.
//
// Without custom handlers it serves a catalog of Total generated entries under
// /api/v2/pokemon: list pages honoring limit/offset with PokeAPI-style next
// links, and details by id or name.
type MockAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Total is the catalog size served by the default handler.
	Total int

	// Tracking
	RequestCount      int
	PathCounts        map[string]int
	LastRequestHeader http.Header
}

// Prefix is the path under which the default catalog is served.
const Prefix = "/api/v2/pokemon"

// NewMockAPI creates a new mock API server with a catalog of total entries.
func NewMockAPI(total int) *MockAPI {
	mock := &MockAPI{
		handlers:   make(map[string]func(w http.ResponseWriter, r *http.Request)),
		Total:      total,
		PathCounts: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.PathCounts[r.URL.RequestURI()]++
		mock.LastRequestHeader = r.Header.Clone()
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

// URL returns the mock server URL.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// BaseURL returns the API base URL, i.e. URL() + "/api/v2".
func (m *MockAPI) BaseURL() string {
	return m.server.URL + "/api/v2"
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
	m.PathCounts = make(map[string]int)
	m.LastRequestHeader = nil
}

// SetHandler sets a custom handler for a specific path.
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

// GetPathCount returns how often a request URI (path plus query) was requested.
func (m *MockAPI) GetPathCount(requestURI string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PathCounts[requestURI]
}

// GetLastRequestHeader returns the headers of the most recent request.
func (m *MockAPI) GetLastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequestHeader
}

// defaultHandler serves the generated catalog.
func (m *MockAPI) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	rest, ok := strings.CutPrefix(r.URL.Path, Prefix)
	if !ok {
		http.NotFound(w, r)
		return
	}
	rest = strings.Trim(rest, "/")

	if rest == "" {
		limit := queryInt(r, "limit", 20)
		offset := queryInt(r, "offset", 0)
		w.Write(ListPageJSON(m.URL(), m.Total, limit, offset))
		return
	}

	id, err := strconv.Atoi(rest)
	if err != nil {
		id = idForName(rest, m.Total)
	}
	if id <= 0 || id > m.Total {
		http.Error(w, `{"detail":"Not found."}`, http.StatusNotFound)
		return
	}
	w.Write(DetailJSON(id))
}

func queryInt(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return v
}

// EntryName returns the generated name for id.
func EntryName(id int) string {
	return fmt.Sprintf("mon-%d", id)
}

func idForName(name string, total int) int {
	n, ok := strings.CutPrefix(name, "mon-")
	if !ok {
		return 0
	}
	id, err := strconv.Atoi(n)
	if err != nil || id > total {
		return 0
	}
	return id
}

type listEntry struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type listPage struct {
	Count    int         `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  []listEntry `json:"results"`
}

// ListPageJSON renders a PokeAPI-style list page for a catalog of total entries.
func ListPageJSON(serverURL string, total, limit, offset int) []byte {
	page := listPage{Count: total, Results: []listEntry{}}
	for id := offset + 1; id <= total && id <= offset+limit; id++ {
		page.Results = append(page.Results, listEntry{
			Name: EntryName(id),
			URL:  fmt.Sprintf("%s%s/%d/", serverURL, Prefix, id),
		})
	}
	if offset+limit < total {
		next := fmt.Sprintf("%s%s?offset=%d&limit=%d", serverURL, Prefix, offset+limit, limit)
		page.Next = &next
	}
	if offset > 0 {
		prevOffset := max(offset-limit, 0)
		prev := fmt.Sprintf("%s%s?offset=%d&limit=%d", serverURL, Prefix, prevOffset, limit)
		page.Previous = &prev
	}
	data, _ := json.Marshal(page)
	return data
}

// DetailJSON renders a detail record for id. Odd ids carry two types.
func DetailJSON(id int) []byte {
	types := []map[string]any{
		{"slot": 1, "type": map[string]string{"name": "grass", "url": "https://pokeapi.co/api/v2/type/12/"}},
	}
	if id%2 == 1 {
		types = append(types, map[string]any{
			"slot": 2, "type": map[string]string{"name": "poison", "url": "https://pokeapi.co/api/v2/type/4/"},
		})
	}
	statNames := []string{"hp", "attack", "defense", "special-attack", "special-defense", "speed"}
	stats := make([]map[string]any, 0, len(statNames))
	for i, name := range statNames {
		stats = append(stats, map[string]any{
			"base_stat": 40 + i*5,
			"effort":    0,
			"stat":      map[string]string{"name": name, "url": ""},
		})
	}
	detail := map[string]any{
		"id":              id,
		"name":            EntryName(id),
		"height":          7,
		"weight":          69,
		"base_experience": 64,
		"types":           types,
		"stats":           stats,
		"abilities": []map[string]any{
			{"slot": 1, "is_hidden": false, "ability": map[string]string{"name": "overgrow", "url": ""}},
			{"slot": 3, "is_hidden": true, "ability": map[string]string{"name": "chlorophyll", "url": ""}},
		},
		"sprites": map[string]any{"front_default": nil, "front_shiny": nil, "back_default": nil},
	}
	data, _ := json.Marshal(detail)
	return data
}
