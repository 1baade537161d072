// Package api provides the HTTP API for browsing stored start layouts.
// GET endpoints are public (read-only).
// POST /api/v1/generate requires a bearer token and is rate limited.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/startlayout/internal/persistence"
)

// GenerateFunc runs a fresh layout with the given seed (0 = random), stores
// it and returns its run id.
type GenerateFunc func(seed int64) (string, error)

// Server serves stored layouts over HTTP.
type Server struct {
	DB       *persistence.DB
	Generate GenerateFunc // nil disables POST /api/v1/generate
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	// Generation is CPU bound. Each client may generate GenerateBudget
	// tiles per GenerateWindow; one request costs GenerateCost tiles.
	GenerateCost   int
	GenerateBudget int
	GenerateWindow time.Duration
}

// Handler builds the routing table.
func (s *Server) Handler() http.Handler {
	cost, budget, window := s.GenerateCost, s.GenerateBudget, s.GenerateWindow
	if cost <= 0 {
		cost = 1
	}
	if budget <= 0 {
		budget = 30 * cost
	}
	if window <= 0 {
		window = time.Hour
	}
	generateLimiter := NewRateLimiter(budget, window)

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/runs", s.handleRuns)
	mux.HandleFunc("/api/v1/run/", s.handleRunRoutes)

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/generate", s.adminOnly(generateLimiter.Charge(cost, s.handleGenerate)))

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "", "generate", s.Generate != nil)

	go func() {
		if err := http.ListenAndServe(addr, s.Handler()); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS env var to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no STARTGEN_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	lastRun, err := s.DB.GetMeta("last_run")
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"name":     "startlayout",
		"last_run": lastRun,
		"generate": s.Generate != nil && s.AdminKey != "",
	})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	runs, err := s.DB.RecentRuns(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []persistence.Run{}
	}
	writeJSON(w, runs)
}

// handleRunRoutes dispatches between run detail (GET /api/v1/run/:id) and
// its resources (GET /api/v1/run/:id/resources?name=...).
func (s *Server) handleRunRoutes(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/run/"), "/"), "/")
	if parts[0] == "" {
		http.Error(w, "missing run id", http.StatusBadRequest)
		return
	}
	id := parts[0]

	run, err := s.DB.LoadRun(id)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	switch {
	case len(parts) == 1:
		s.handleRunDetail(w, run)
	case len(parts) == 2 && parts[1] == "resources":
		s.handleRunResources(w, r, run)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleRunDetail(w http.ResponseWriter, run *persistence.Run) {
	type startEntry struct {
		Nation    string `json:"nation"`
		X         int    `json:"x"`
		Y         int    `json:"y"`
		CityState bool   `json:"city_state"`
		Region    int    `json:"region"`
	}

	starts, err := s.DB.LoadStarts(run.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	entries := make([]startEntry, 0, len(starts))
	for _, st := range starts {
		entries = append(entries, startEntry{
			Nation:    st.Nation,
			X:         st.X,
			Y:         st.Y,
			CityState: st.CityState,
			Region:    st.Region,
		})
	}

	writeJSON(w, map[string]any{
		"run":    run,
		"starts": entries,
	})
}

func (s *Server) handleRunResources(w http.ResponseWriter, r *http.Request, run *persistence.Run) {
	type tileEntry struct {
		X        int      `json:"x"`
		Y        int      `json:"y"`
		Terrain  string   `json:"terrain"`
		Features []string `json:"features,omitempty"`
		Resource string   `json:"resource"`
		Amount   int      `json:"amount,omitempty"`
	}

	tiles, err := s.DB.LoadResources(run.ID, r.URL.Query().Get("name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	entries := make([]tileEntry, 0, len(tiles))
	for _, t := range tiles {
		entries = append(entries, tileEntry{
			X:        t.X,
			Y:        t.Y,
			Terrain:  t.Terrain,
			Features: t.Features(),
			Resource: t.Resource,
			Amount:   t.Amount,
		})
	}
	writeJSON(w, entries)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if s.Generate == nil {
		http.Error(w, "generation disabled", http.StatusServiceUnavailable)
		return
	}

	var req struct {
		Seed int64 `json:"seed"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
	}

	id, err := s.Generate(req.Seed)
	if err != nil {
		slog.Error("generation via API failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	slog.Info("layout generated via API", "run", id, "seed", req.Seed)
	writeJSON(w, map[string]any{"run": id})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
