package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"competitors/graph"
	"competitors/lookup"
	"competitors/query"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRunner struct {
	mu    sync.Mutex
	calls []query.Request
	err   error
}

func (r *fakeRunner) Run(_ context.Context, req query.Request) (*query.Result, error) {
	r.mu.Lock()
	r.calls = append(r.calls, req)
	r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}

	codes := [2]string{"94033019", "94034090"}
	mode := query.ModeDefault
	if len(req.Codes) == 2 {
		codes = [2]string{req.Codes[0], req.Codes[1]}
		mode = query.ModeCodes
	}
	return &query.Result{
		ID:    "q-1",
		Mode:  mode,
		Codes: codes,
		Competitors: map[string][]graph.Link{
			"Acme": {{From: "Acme", To: codes[0], Weight: 5}, {From: "Acme", To: codes[1], Weight: 3}},
		},
		Companies:  []string{"Acme"},
		Highlights: []query.Highlight{{Company: "Acme", Commodities: 2}},
	}, nil
}

func (r *fakeRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.data[key]
	return data, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = make(map[string][]byte)
	}
	c.data[key] = data
	return nil
}

func testTable() *lookup.Table {
	return lookup.FromEntries([]lookup.Entry{
		{Code: "94033019", Unit: "p/st", Description: "Wooden office furniture"},
		{Code: "94034090", Unit: "p/st", Description: "Wooden kitchen furniture"},
	})
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := New(Options{Runner: &fakeRunner{}})
	w := get(t, s.Handler(), "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCompetitorRoutes(t *testing.T) {
	runner := &fakeRunner{}
	s := New(Options{Runner: runner})

	t.Run("codes", func(t *testing.T) {
		w := get(t, s.Handler(), "/competitors/10000000/20000000")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"id": "q-1",
			"mode": "codes",
			"codes": ["10000000", "20000000"],
			"descriptions": [
				{"code": "", "unit": "", "description": "", "found": false},
				{"code": "", "unit": "", "description": "", "found": false}
			],
			"competitors": {"Acme": [["Acme", "10000000", 5], ["Acme", "20000000", 3]]}
		}`, w.Body.String())
	})

	t.Run("default", func(t *testing.T) {
		w := get(t, s.Handler(), "/competitors")
		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "default", body["mode"])
	})

	t.Run("company", func(t *testing.T) {
		w := get(t, s.Handler(), "/companies/Acme%20Ltd/competitors")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, query.Request{Company: "Acme Ltd"}, runner.calls[len(runner.calls)-1])
	})
}

func TestCompetitorErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"unresolvable", fmt.Errorf("%w: %q", query.ErrNotImplemented, "Solo"), http.StatusNotImplemented, "not_implemented"},
		{"malformed weight", fmt.Errorf("rank: %w", graph.ErrMalformedWeight), http.StatusInternalServerError, "malformed_weight"},
		{"other", fmt.Errorf("disk gone"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Options{Runner: &fakeRunner{err: tt.err}})
			w := get(t, s.Handler(), "/companies/Solo/competitors")
			assert.Equal(t, tt.wantCode, w.Code)

			var env ErrorEnvelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			assert.Equal(t, tt.wantErr, env.Error.Code)
			assert.Equal(t, tt.err.Error(), env.Error.Message)
		})
	}
}

func TestCompetitorCache(t *testing.T) {
	runner := &fakeRunner{}
	cache := &memoryCache{}
	s := New(Options{Runner: runner, Cache: cache, CacheTTL: time.Minute})

	first := get(t, s.Handler(), "/competitors/1/2")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get("X-Cache"))

	second := get(t, s.Handler(), "/competitors/1/2")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "hit", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, runner.count())

	get(t, s.Handler(), "/competitors/2/1")
	assert.Equal(t, 2, runner.count())
}

func TestLookupRoutes(t *testing.T) {
	s := New(Options{Runner: &fakeRunner{}, Lookup: testTable()})

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantLen  int
	}{
		{"code", "/lookup/codes/94033019", http.StatusOK, 1},
		{"unknown code placeholder", "/lookup/codes/12345678", http.StatusOK, 1},
		{"invalid code", "/lookup/codes/123", http.StatusBadRequest, 0},
		{"search", "/lookup/search?q=wooden", http.StatusOK, 2},
		{"search no hits", "/lookup/search?q=horse", http.StatusOK, 0},
		{"invalid search", "/lookup/search?q=two+words", http.StatusBadRequest, 0},
		{"chapter", "/lookup/chapters/94", http.StatusOK, 2},
		{"invalid chapter", "/lookup/chapters/940", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, s.Handler(), tt.path)
			require.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode != http.StatusOK {
				var env ErrorEnvelope
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
				assert.Equal(t, "invalid_input", env.Error.Code)
				return
			}
			var body struct {
				Entries []lookup.Entry `json:"entries"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Len(t, body.Entries, tt.wantLen)
		})
	}
}

func TestLookupDisabled(t *testing.T) {
	s := New(Options{Runner: &fakeRunner{}})
	w := get(t, s.Handler(), "/lookup/codes/94033019")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORS(t *testing.T) {
	s := New(Options{Runner: &fakeRunner{}, CORSOrigins: []string{"http://localhost:5173"}})

	req := httptest.NewRequest(http.MethodOptions, "/competitors", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestWebSocketQuerySummary(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	s := New(Options{Runner: &fakeRunner{}, Hub: hub})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var hello BroadcastMessage
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, MessageSystem, hello.Type)
	assert.Equal(t, 1, hub.ClientCount())

	resp, err := http.Get(srv.URL + "/competitors/1/2")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var msg struct {
		Type    string       `json:"type"`
		Payload QuerySummary `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MessageQuerySummary, msg.Type)
	assert.Equal(t, QuerySummary{
		ID:          "q-1",
		Mode:        "codes",
		Codes:       [2]string{"1", "2"},
		Competitors: 1,
		Highlights:  []string{"Acme"},
	}, msg.Payload)
}

func TestHubBroadcastNeverBlocks(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Broadcast(MessageQuerySummary, i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked without a running hub")
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "not a url")
	assert.Error(t, err)
}
