// Package stub is a development stand-in for the prediction backend. It
// serves the dashboard and admin endpoints from JSON fixtures, keeps
// watchlist/source/report state in memory, and enforces the same auth rules
// as the real server so the terminal client can be exercised offline.
package stub

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"augur/internal/api"
	"augur/internal/util"
)

// Options configures a stub Server.
type Options struct {
	FixtureDir  string
	AdminSecret string
	// AuthPerMinute bounds login/signup attempts; 0 disables limiting.
	AuthPerMinute int
	AuthBurst     int
	Log           *slog.Logger
}

// Server implements the backend API against fixtures and in-memory state.
type Server struct {
	fixtures *FixtureSet
	secret   string
	log      *slog.Logger
	limiter  *util.RateLimiter

	mu        sync.Mutex
	users     map[string]string // email -> password
	sessions  map[string]string // token -> email
	watchlist []string
	sources   []api.Source
	nextID    int64
	reports   []api.Report
}

// NewServer loads fixtures and seeds the in-memory state.
func NewServer(opts Options) (*Server, error) {
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	fixtures, err := LoadFixtures(opts.FixtureDir, opts.Log)
	if err != nil {
		return nil, err
	}
	s := &Server{
		fixtures: fixtures,
		secret:   opts.AdminSecret,
		log:      opts.Log,
		users:    make(map[string]string),
		sessions: make(map[string]string),
		watchlist: []string{
			"AAPL", "NVDA", "TSLA",
		},
		sources: []api.Source{
			{ID: 1, Name: "Reuters Markets", Type: "rss", URL: "https://feeds.reuters.com/markets", Enabled: true},
			{ID: 2, Name: "Finance Channel", Type: "telegram", Channel: "@finance_daily", Enabled: true},
		},
		nextID: 3,
		reports: []api.Report{
			{Filename: "q2-outlook.pdf", Language: "en", UploadedAt: "2026-07-01T09:00:00Z", SizeBytes: 48213},
		},
	}
	if opts.AuthPerMinute > 0 {
		s.limiter = util.NewRateLimiter(opts.AuthPerMinute, opts.AuthBurst)
	}
	return s, nil
}

// Close releases the fixture watcher.
func (s *Server) Close() error {
	return s.fixtures.Close()
}

// Handler returns the routed http.Handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/prices", s.fixtureHandler("prices", defaultPrices))
		r.Get("/stocks", s.fixtureHandler("stocks", defaultStocks))
		r.Get("/predictions", s.fixtureHandler("predictions", defaultPredictions))
		r.Get("/performance", s.fixtureHandler("performance", defaultPerformance))
		r.Get("/performance-v2/agents", s.fixtureHandler("agents", defaultAgents))
		r.Get("/trades/today", s.fixtureHandler("trades", defaultTrades))
		r.Get("/trades/portfolio", s.fixtureHandler("portfolio", defaultPortfolio))
		r.Get("/briefing/today", s.fixtureHandler("briefing", defaultBriefing))

		r.Get("/watchlist", s.handleWatchlist)
		r.Put("/watchlist/{symbol}", s.handleAddWatchlist)
		r.Delete("/watchlist/{symbol}", s.handleRemoveWatchlist)

		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/logout", s.handleLogout)
		r.Get("/auth/me", s.handleMe)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/system-health", s.fixtureHandler("system-health", defaultSystemHealth))
			r.Get("/reports", s.handleReports)
			r.Post("/reports/upload", s.handleUploadReport)
			r.Get("/sources", s.handleSources)
			r.Post("/sources", s.handleCreateSource)
			r.Post("/sources/manual", s.handleManualSource)
			r.Patch("/sources/{id}", s.handleUpdateSource)
			r.Delete("/sources/{id}", s.handleDeleteSource)
			r.Post("/sources/{id}/fetch", s.handleFetchSource)
		})
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// requireAdmin accepts the shared secret via the x-admin-secret header or the
// admin_secret cookie, matching what browsers and the client both send.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.secret == "" {
			next.ServeHTTP(w, r)
			return
		}
		got := r.Header.Get("x-admin-secret")
		if got == "" {
			if c, err := r.Cookie("admin_secret"); err == nil {
				got = c.Value
			}
		}
		if got != s.secret {
			writeError(w, http.StatusUnauthorized, "admin secret required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// fixtureHandler serves the named fixture, falling back to a built-in body.
func (s *Server) fixtureHandler(section string, fallback any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if body := s.fixtures.Get(section); body != nil {
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)
			return
		}
		writeJSON(w, fallback)
	}
}

// --- watchlist ---

func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	symbols := append([]string(nil), s.watchlist...)
	s.mu.Unlock()
	writeJSON(w, api.WatchlistResponse{Symbols: symbols})
}

func (s *Server) handleAddWatchlist(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol required")
		return
	}
	s.mu.Lock()
	found := false
	for _, sym := range s.watchlist {
		if sym == symbol {
			found = true
			break
		}
	}
	if !found {
		s.watchlist = append(s.watchlist, symbol)
		sort.Strings(s.watchlist)
	}
	symbols := append([]string(nil), s.watchlist...)
	s.mu.Unlock()
	writeJSON(w, api.WatchlistResponse{Symbols: symbols})
}

func (s *Server) handleRemoveWatchlist(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))
	s.mu.Lock()
	kept := s.watchlist[:0]
	for _, sym := range s.watchlist {
		if sym != symbol {
			kept = append(kept, sym)
		}
	}
	s.watchlist = kept
	symbols := append([]string(nil), s.watchlist...)
	s.mu.Unlock()
	writeJSON(w, api.WatchlistResponse{Symbols: symbols})
}

// --- auth ---

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.throttled(w) {
		return
	}
	var creds api.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.mu.Lock()
	pass, ok := s.users[creds.Email]
	s.mu.Unlock()
	if !ok || pass != creds.Password {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	s.startSession(w, creds.Email)
	writeJSON(w, api.User{Email: creds.Email})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if s.throttled(w) {
		return
	}
	var creds api.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if creds.Email == "" || !strings.Contains(creds.Email, "@") {
		writeError(w, http.StatusBadRequest, "valid email required")
		return
	}
	if len(creds.Password) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	s.mu.Lock()
	if _, exists := s.users[creds.Email]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "account already exists")
		return
	}
	s.users[creds.Email] = creds.Password
	s.mu.Unlock()
	s.startSession(w, creds.Email)
	writeJSON(w, api.User{Email: creds.Email, CreatedAt: time.Now().UTC().Format(time.RFC3339)})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie("session"); err == nil {
		s.mu.Lock()
		delete(s.sessions, c.Value)
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: "session", Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie("session")
	if err != nil {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}
	s.mu.Lock()
	email, ok := s.sessions[c.Value]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}
	writeJSON(w, api.User{Email: email})
}

func (s *Server) startSession(w http.ResponseWriter, email string) {
	buf := make([]byte, 16)
	rand.Read(buf)
	token := hex.EncodeToString(buf)
	s.mu.Lock()
	s.sessions[token] = email
	s.mu.Unlock()
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
}

// throttled writes a 429 and reports true when the auth limiter is exhausted.
func (s *Server) throttled(w http.ResponseWriter) bool {
	if s.limiter == nil || s.limiter.Allow() {
		return false
	}
	writeError(w, http.StatusTooManyRequests, "too many attempts, slow down")
	return true
}

// --- admin: reports ---

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	reports := append([]api.Report(nil), s.reports...)
	s.mu.Unlock()
	writeJSON(w, api.ReportsResponse{Reports: reports})
}

func (s *Server) handleUploadReport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("report")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing report file")
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".docx", ".txt", ".md":
	default:
		writeError(w, http.StatusBadRequest, "unsupported file type")
		return
	}

	buf := make([]byte, 64<<10)
	n, _ := file.Read(buf)
	lang := detectLanguage(string(buf[:n]))

	s.mu.Lock()
	s.reports = append(s.reports, api.Report{
		Filename:   name,
		Language:   lang,
		UploadedAt: time.Now().UTC().Format(time.RFC3339),
		SizeBytes:  header.Size,
	})
	s.mu.Unlock()

	writeJSON(w, api.UploadReportResult{Filename: name, Language: lang})
}

// --- admin: sources ---

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	sources := append([]api.Source(nil), s.sources...)
	s.mu.Unlock()
	writeJSON(w, api.SourcesResponse{Sources: sources})
}

func (s *Server) handleCreateSource(w http.ResponseWriter, r *http.Request) {
	var src api.Source
	if err := json.NewDecoder(r.Body).Decode(&src); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if src.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	switch src.Type {
	case "rss", "web":
		if src.URL == "" {
			writeError(w, http.StatusBadRequest, "url required")
			return
		}
	case "telegram":
		if src.Channel == "" {
			writeError(w, http.StatusBadRequest, "channel required")
			return
		}
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown source type %q", src.Type))
		return
	}
	s.mu.Lock()
	src.ID = s.nextID
	s.nextID++
	s.sources = append(s.sources, src)
	s.mu.Unlock()
	writeJSON(w, src)
}

func (s *Server) handleUpdateSource(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid source id")
		return
	}
	var patch api.Source
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sources {
		if s.sources[i].ID != id {
			continue
		}
		if patch.Name != "" {
			s.sources[i].Name = patch.Name
		}
		if patch.URL != "" {
			s.sources[i].URL = patch.URL
		}
		if patch.Channel != "" {
			s.sources[i].Channel = patch.Channel
		}
		s.sources[i].Enabled = patch.Enabled
		writeJSON(w, s.sources[i])
		return
	}
	writeError(w, http.StatusNotFound, "source not found")
}

func (s *Server) handleDeleteSource(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid source id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sources {
		if s.sources[i].ID == id {
			s.sources = append(s.sources[:i], s.sources[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "source not found")
}

func (s *Server) handleFetchSource(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid source id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sources {
		if s.sources[i].ID != id {
			continue
		}
		if !s.sources[i].Enabled {
			writeJSON(w, api.FetchResult{
				OK:         false,
				SourceName: s.sources[i].Name,
				Error:      "source is disabled",
			})
			return
		}
		s.sources[i].LastFetch = time.Now().UTC().Format(time.RFC3339)
		writeJSON(w, api.FetchResult{
			OK:              true,
			ArticlesFetched: 12,
			ArticlesNew:     3,
			SourceName:      s.sources[i].Name,
		})
		return
	}
	writeError(w, http.StatusNotFound, "source not found")
}

func (s *Server) handleManualSource(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	text := r.FormValue("text")
	sourceName := r.FormValue("source_name")
	if sourceName == "" {
		writeError(w, http.StatusBadRequest, "source_name required")
		return
	}
	if file, _, err := r.FormFile("file"); err == nil {
		buf := make([]byte, 64<<10)
		n, _ := file.Read(buf)
		file.Close()
		text += "\n" + string(buf[:n])
	}
	if strings.TrimSpace(text) == "" {
		writeError(w, http.StatusBadRequest, "text or file required")
		return
	}
	writeJSON(w, api.ManualSourceResult{
		OK:             true,
		SymbolsMatched: matchSymbols(text),
		Language:       detectLanguage(text),
		Sentiment:      "neutral",
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

var symbolRe = regexp.MustCompile(`\b[A-Z]{2,5}\b`)

// knownSymbols bounds what the manual-source matcher will report.
var knownSymbols = map[string]bool{
	"AAPL": true, "MSFT": true, "NVDA": true, "TSLA": true,
	"GOOG": true, "AMZN": true, "META": true, "SBER": true,
}

func matchSymbols(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range symbolRe.FindAllString(text, -1) {
		if knownSymbols[m] && !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	if out == nil {
		out = []string{}
	}
	sort.Strings(out)
	return out
}

// detectLanguage flags text containing Cyrillic as Russian.
func detectLanguage(text string) string {
	for _, r := range text {
		if r >= 0x0400 && r <= 0x04FF {
			return "ru"
		}
	}
	return "en"
}
