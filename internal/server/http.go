package server

import (
	"embed"
	"encoding/json"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pfrederiksen/chess-tools/internal/logger"
)

var (
	//go:embed templates/*.html
	templateFS embed.FS

	//go:embed all:static/*
	staticFS embed.FS

	indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))
)

// Endpoint describes one MCP endpoint listed on the index page.
type Endpoint struct {
	Name string
	Path string
}

var endpoints = []Endpoint{
	{Name: ChessServerName, Path: "/chess/mcp"},
	{Name: MathServerName, Path: "/math/mcp"},
}

// Handler serves the index page, static assets, health and metrics, and the
// streamable HTTP MCP endpoints. spaceHost overrides the advertised base URL.
func Handler(chess, math *mcp.Server, spaceHost string) http.Handler {
	mux := http.NewServeMux()

	static, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		data := struct {
			BaseURL   string
			Endpoints []Endpoint
		}{
			BaseURL:   baseURL(r, spaceHost),
			Endpoints: endpoints,
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTemplate.Execute(w, data); err != nil {
			logger.Error("Rendering index", nil, err)
		}
	})

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(logger.GetMetricsSnapshot()); err != nil {
			logger.Error("Encoding metrics", nil, err)
		}
	})

	chessHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return chess }, nil)
	mux.Handle("/chess/mcp", chessHandler)
	mux.Handle("/echo/mcp", chessHandler)

	mathHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return math },
		&mcp.StreamableHTTPOptions{Stateless: true})
	mux.Handle("/math/mcp", mathHandler)

	return logRequests(mux)
}

// baseURL is the URL clients should use to reach this server.
func baseURL(r *http.Request, spaceHost string) string {
	if host := strings.TrimRight(strings.TrimSpace(spaceHost), "/"); host != "" {
		return host
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// Flush keeps streaming responses working through the recorder.
func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.IncrCounter("http.requests")
		logger.Debug("HTTP request", logger.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"status":  rec.status,
			"elapsed": time.Since(start).String(),
		})
	})
}
