// Package api is the HTTP JSON client for the stock-prediction dashboard
// backend. One method per dashboard section; every method issues exactly one
// request and never retries on its own.
package api

// --- end-user dashboard sections ---

// Price is one row of the prices panel.
type Price struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	ChangePct float64 `json:"change_pct"`
	UpdatedAt string  `json:"updated_at"`
}

// PricesResponse is the body of GET /api/prices.
type PricesResponse struct {
	Prices []Price `json:"prices"`
}

// Stock describes one instrument tracked by the platform.
type Stock struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Sector string `json:"sector,omitempty"`
}

// StocksResponse is the body of GET /api/stocks.
type StocksResponse struct {
	Stocks []Stock `json:"stocks"`
}

// Prediction is one consensus prediction row.
type Prediction struct {
	Symbol     string  `json:"symbol"`
	Direction  string  `json:"direction"` // up | down | hold
	Confidence float64 `json:"confidence"`
	Consensus  float64 `json:"consensus"`
	Agents     int     `json:"agents"`
	Horizon    string  `json:"horizon,omitempty"`
	MadeAt     string  `json:"made_at"`
}

// PredictionsResponse is the body of GET /api/predictions.
type PredictionsResponse struct {
	Predictions []Prediction `json:"predictions"`
}

// PerformanceRow is one aggregate accuracy row (legacy /api/performance).
type PerformanceRow struct {
	Date      string  `json:"date"`
	Evaluated int     `json:"evaluated"`
	Correct   int     `json:"correct"`
	Accuracy  float64 `json:"accuracy"`
}

// PerformanceResponse is the body of GET /api/performance.
type PerformanceResponse struct {
	Rows []PerformanceRow `json:"rows"`
}

// AgentDaily is one per-agent accuracy row (performance-v2).
type AgentDaily struct {
	Agent       string  `json:"agent"`
	Date        string  `json:"date"`
	Predictions int     `json:"predictions"`
	Accuracy    float64 `json:"accuracy"`
	Weight      float64 `json:"weight,omitempty"`
}

// AgentPerformanceResponse is the body of GET /api/performance-v2/agents.
type AgentPerformanceResponse struct {
	Agents []AgentDaily `json:"agents"`
}

// Trade is one recommended or executed trade row.
type Trade struct {
	Symbol string  `json:"symbol"`
	Action string  `json:"action"` // buy | sell | hold
	Qty    float64 `json:"qty,omitempty"`
	Price  float64 `json:"price"`
	Time   string  `json:"time"`
	Reason string  `json:"reason,omitempty"`
}

// TradesResponse is the body of GET /api/trades/today.
type TradesResponse struct {
	Trades []Trade `json:"trades"`
}

// Position is one open portfolio position.
type Position struct {
	Symbol    string  `json:"symbol"`
	Qty       float64 `json:"qty"`
	AvgPrice  float64 `json:"avg_price"`
	LastPrice float64 `json:"last_price"`
	PnLPct    float64 `json:"pnl_pct"`
}

// PortfolioResponse is the body of GET /api/trades/portfolio.
type PortfolioResponse struct {
	Cash      float64    `json:"cash"`
	Equity    float64    `json:"equity"`
	Positions []Position `json:"positions"`
}

// WatchlistResponse is the body of GET /api/watchlist.
type WatchlistResponse struct {
	Symbols []string `json:"symbols"`
}

// Briefing is the daily morning briefing.
type Briefing struct {
	Date       string   `json:"date"`
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights,omitempty"`
}

// --- admin sections ---

// AuditEntry is one admin audit-log line.
type AuditEntry struct {
	Time   string `json:"time"`
	Actor  string `json:"actor"`
	Action string `json:"action"`
	Detail string `json:"detail,omitempty"`
}

// SystemHealth is the body of GET /api/admin/system-health. Both fields are
// optional on the wire.
type SystemHealth struct {
	AuditLog              []AuditEntry `json:"audit_log,omitempty"`
	AgentPerformanceDaily []AgentDaily `json:"agent_performance_daily,omitempty"`
}

// Report is one uploaded research report.
type Report struct {
	Filename   string `json:"filename"`
	Language   string `json:"language"`
	UploadedAt string `json:"uploaded_at,omitempty"`
	SizeBytes  int64  `json:"size_bytes,omitempty"`
}

// ReportsResponse is the body of GET /api/admin/reports.
type ReportsResponse struct {
	Reports []Report `json:"reports"`
}

// UploadReportResult is returned by POST /api/admin/reports/upload.
type UploadReportResult struct {
	Filename string `json:"filename"`
	Language string `json:"language"`
}

// Source is one configured news source.
type Source struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"` // rss | web | telegram
	URL       string `json:"url,omitempty"`
	Channel   string `json:"channel,omitempty"`
	Enabled   bool   `json:"enabled"`
	LastFetch string `json:"last_fetch,omitempty"`
}

// SourcesResponse is the body of GET /api/admin/sources.
type SourcesResponse struct {
	Sources []Source `json:"sources"`
}

// FetchResult is returned by POST /api/admin/sources/{id}/fetch.
type FetchResult struct {
	OK              bool   `json:"ok"`
	ArticlesFetched int    `json:"articles_fetched"`
	ArticlesNew     int    `json:"articles_new"`
	SourceName      string `json:"source_name"`
	Error           string `json:"error,omitempty"`
}

// ManualSourceResult is returned by POST /api/admin/sources/manual.
type ManualSourceResult struct {
	OK             bool     `json:"ok"`
	SymbolsMatched []string `json:"symbols_matched"`
	Language       string   `json:"language"`
	Sentiment      string   `json:"sentiment"`
	Error          string   `json:"error,omitempty"`
}

// --- auth ---

// Credentials is the body of POST /api/auth/{login,signup}.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the body of GET /api/auth/me.
type User struct {
	Email     string `json:"email"`
	CreatedAt string `json:"created_at,omitempty"`
}
