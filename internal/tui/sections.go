package tui

import (
	"context"
	"encoding/json"

	"augur/internal/api"
	"augur/internal/render"
)

// sectionDef binds one panel id to its fetch and renderer. The generic bind
// helper keeps the payload typed end to end: what fetch returns is exactly
// what render receives, and what the snapshot cache decodes back.
type sectionDef struct {
	fetch     func(ctx context.Context, c *api.Client) (any, error)
	render    func(r render.Renderer, payload any) string
	decode    func(data []byte) (any, error)
	cacheable bool
}

func bind[T any](
	fetch func(context.Context, *api.Client) (T, error),
	draw func(render.Renderer, T) string,
) sectionDef {
	return sectionDef{
		fetch: func(ctx context.Context, c *api.Client) (any, error) {
			return fetch(ctx, c)
		},
		render: func(r render.Renderer, payload any) string {
			v, ok := payload.(T)
			if !ok {
				return r.Empty()
			}
			return draw(r, v)
		},
		decode: func(data []byte) (any, error) {
			var v T
			if err := json.Unmarshal(data, &v); err != nil {
				return nil, err
			}
			return v, nil
		},
		cacheable: true,
	}
}

// perfPayload joins the legacy aggregate rows with the per-agent breakdown
// shown on the same panel.
type perfPayload struct {
	Rows   []api.PerformanceRow `json:"rows"`
	Agents []api.AgentDaily     `json:"agents"`
}

var sectionDefs = map[string]sectionDef{
	"prices": bind(
		func(ctx context.Context, c *api.Client) ([]api.Price, error) { return c.Prices(ctx) },
		func(r render.Renderer, rows []api.Price) string { return r.Prices(rows) },
	),
	"predictions": bind(
		func(ctx context.Context, c *api.Client) ([]api.Prediction, error) { return c.Predictions(ctx) },
		func(r render.Renderer, rows []api.Prediction) string { return r.Predictions(rows) },
	),
	"performance": bind(
		func(ctx context.Context, c *api.Client) (perfPayload, error) {
			rows, err := c.Performance(ctx)
			if err != nil {
				return perfPayload{}, err
			}
			agents, err := c.AgentPerformance(ctx)
			if err != nil {
				return perfPayload{}, err
			}
			return perfPayload{Rows: rows, Agents: agents}, nil
		},
		func(r render.Renderer, p perfPayload) string { return r.Performance(p.Rows, p.Agents) },
	),
	"trades": bind(
		func(ctx context.Context, c *api.Client) ([]api.Trade, error) { return c.TradesToday(ctx) },
		func(r render.Renderer, rows []api.Trade) string { return r.Trades(rows) },
	),
	"portfolio": bind(
		func(ctx context.Context, c *api.Client) (*api.PortfolioResponse, error) { return c.Portfolio(ctx) },
		func(r render.Renderer, p *api.PortfolioResponse) string { return r.Portfolio(p) },
	),
	"watchlist": bind(
		func(ctx context.Context, c *api.Client) ([]string, error) { return c.Watchlist(ctx) },
		func(r render.Renderer, symbols []string) string { return r.Watchlist(symbols) },
	),
	"briefing": bind(
		func(ctx context.Context, c *api.Client) (*api.Briefing, error) { return c.BriefingToday(ctx) },
		func(r render.Renderer, br *api.Briefing) string { return r.Briefing(br) },
	),

	// Admin panels are never served from the snapshot cache: stale audit or
	// source state is worse than an error.
	"health": noCache(bind(
		func(ctx context.Context, c *api.Client) (*api.SystemHealth, error) { return c.SystemHealth(ctx) },
		func(r render.Renderer, h *api.SystemHealth) string { return r.SystemHealth(h) },
	)),
	"kb": noCache(bind(
		func(ctx context.Context, c *api.Client) ([]api.Stock, error) { return c.Stocks(ctx) },
		func(r render.Renderer, rows []api.Stock) string { return r.Stocks(rows) },
	)),
	"reports": noCache(bind(
		func(ctx context.Context, c *api.Client) ([]api.Report, error) { return c.Reports(ctx) },
		func(r render.Renderer, rows []api.Report) string { return r.Reports(rows) },
	)),
	"sources": noCache(bind(
		func(ctx context.Context, c *api.Client) ([]api.Source, error) { return c.Sources(ctx) },
		func(r render.Renderer, rows []api.Source) string { return r.Sources(rows) },
	)),
	"telegram": noCache(bind(
		func(ctx context.Context, c *api.Client) ([]api.Source, error) {
			all, err := c.Sources(ctx)
			if err != nil {
				return nil, err
			}
			var tg []api.Source
			for _, s := range all {
				if s.Type == "telegram" {
					tg = append(tg, s)
				}
			}
			return tg, nil
		},
		func(r render.Renderer, rows []api.Source) string { return r.Sources(rows) },
	)),
}

func noCache(def sectionDef) sectionDef {
	def.cacheable = false
	return def
}

// sectionState is the per-panel fetch lifecycle. A panel shows exactly one
// of: loading, error, stale cached payload, or fresh payload.
type sectionState struct {
	loading   bool
	err       error
	payload   any
	stale     bool
	fetchedAt string
}
