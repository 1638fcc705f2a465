package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/mjovanc/codesnippets/internal/models"
	"github.com/mjovanc/codesnippets/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// --- parseInterval unit tests ---

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil, Config{})

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", 2 * time.Second},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=40s", 2 * time.Second},
		{"interval_ms_too_large", "/ws?interval_ms=40000", 2 * time.Second},
		{"interval_invalid_string", "/ws?interval=bogus", 2 * time.Second},
		{"both_present_interval_wins", "/ws?interval=3s&interval_ms=150", 3 * time.Second},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.u, nil)
			c, _ := gin.CreateTestContext(w)
			c.Request = req
			got := h.parseInterval(c)
			if got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

// --- websocket integration tests ---

func TestWebSocket_SnippetStream_InitialAndPeriodic(t *testing.T) {
	snippets := &mockSnippets{listResp: []models.Snippet{
		{ID: "s-1", Title: "first", Code: "a"},
		{ID: "s-2", Code: "b"},
	}}
	s := &service.Service{Snippets: snippets}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil, Config{})
	r.GET("/ws", h.wsConnect)

	srv := httptest.NewServer(r)
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	q := u.Query()
	q.Set("interval_ms", "20") // fast ticks for the test
	u.RawQuery = q.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	type envelope struct {
		Type  string          `json:"type"`
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}

	// Read the initial listing
	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if env.Type != "snippets" || len(env.Data) == 0 {
		t.Fatalf("bad envelope: %+v", env)
	}
	var listing []models.Snippet
	if err := json.Unmarshal(env.Data, &listing); err != nil {
		t.Fatalf("unmarshal listing: %v", err)
	}
	if len(listing) != 2 || listing[0].ID != "s-1" {
		t.Fatalf("unexpected listing: %+v", listing)
	}

	// Read a subsequent tick
	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	env = envelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read second: %v", err)
	}
	if env.Type != "snippets" {
		t.Fatalf("expected type=snippets, got %+v", env)
	}
}

func TestWebSocket_InitialListError_Closes(t *testing.T) {
	snippets := &mockSnippets{listErr: errTest}
	s := &service.Service{Snippets: snippets}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil, Config{})
	r.GET("/ws", h.wsConnect)

	srv := httptest.NewServer(r)
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	// The server should close right after the failed initial send.
	_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var raw json.RawMessage
	if err := conn.ReadJSON(&raw); err == nil {
		t.Fatalf("expected read error (closed), got message: %s", string(raw))
	}
}
