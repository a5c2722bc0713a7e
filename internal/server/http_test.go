package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pfrederiksen/chess-tools/internal/logger"
)

func newTestHandler(spaceHost string) http.Handler {
	return Handler(NewChessServer(ChessTools{}), NewMathServer(), spaceHost)
}

func TestHandler_Index(t *testing.T) {
	tests := []struct {
		name      string
		spaceHost string
		want      string
	}{
		{"request host", "", "http://example.test/chess/mcp"},
		{"space host trimmed", "  https://user-chess.hf.space/ ", "https://user-chess.hf.space/chess/mcp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://example.test/", nil)
			rec := httptest.NewRecorder()
			newTestHandler(tt.spaceHost).ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			body := rec.Body.String()
			if !strings.Contains(body, tt.want) {
				t.Errorf("index missing %q:\n%s", tt.want, body)
			}
			if !strings.Contains(body, "/math/mcp") {
				t.Error("index missing math endpoint")
			}
		})
	}
}

func TestHandler_Routes(t *testing.T) {
	h := newTestHandler("")
	logger.IncrCounter("test.counter")

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/healthz", http.StatusOK, "ok"},
		{"/static/style.css", http.StatusOK, "font-family"},
		{"/metrics", http.StatusOK, `"counters"`},
		{"/nope", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", rec.Body.String(), tt.wantBody)
			}
		})
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	var snap map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("metrics is not JSON: %v", err)
	}
}

func TestHandler_MCPEndpoints(t *testing.T) {
	ts := httptest.NewServer(newTestHandler(""))
	defer ts.Close()

	tests := []struct {
		path string
		tool string
	}{
		{"/chess/mcp", "get_tournament_details"},
		{"/echo/mcp", "analyze_latest_game"},
		{"/math/mcp", "add_two"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			ctx := context.Background()
			client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
			cs, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: ts.URL + tt.path}, nil)
			if err != nil {
				t.Fatalf("Connect() error = %v", err)
			}
			defer cs.Close()

			if !toolNames(t, cs)[tt.tool] {
				t.Errorf("tool %q not listed at %s", tt.tool, tt.path)
			}
		})
	}
}

func TestHandler_MathOverHTTP(t *testing.T) {
	ts := httptest.NewServer(newTestHandler(""))
	defer ts.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(context.Background(), &mcp.StreamableClientTransport{Endpoint: ts.URL + "/math/mcp"}, nil)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer cs.Close()

	var out IntResult
	decodeResult(t, callTool(t, cs, "multiply", map[string]any{"a": 3, "b": 4}), &out)
	if out.Result != 12 {
		t.Errorf("multiply(3, 4) = %d, want 12", out.Result)
	}
}

func TestBaseURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://localhost:10000/", nil)
	if got := baseURL(req, ""); got != "http://localhost:10000" {
		t.Errorf("baseURL() = %q", got)
	}
	req.Header.Set("X-Forwarded-Proto", "https")
	if got := baseURL(req, ""); got != "https://localhost:10000" {
		t.Errorf("baseURL() behind proxy = %q", got)
	}
	if got := baseURL(req, "https://space.example//"); got != "https://space.example" {
		t.Errorf("baseURL() with space host = %q", got)
	}
}
