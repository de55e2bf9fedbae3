package api

import (
	"context"
	"net/url"
	"strings"
)

// Prices returns the latest price row per tracked symbol.
func (c *Client) Prices(ctx context.Context) ([]Price, error) {
	var resp PricesResponse
	if err := c.get(ctx, "/api/prices", &resp); err != nil {
		return nil, err
	}
	return resp.Prices, nil
}

// Stocks returns the tracked instrument catalog.
func (c *Client) Stocks(ctx context.Context) ([]Stock, error) {
	var resp StocksResponse
	if err := c.get(ctx, "/api/stocks", &resp); err != nil {
		return nil, err
	}
	return resp.Stocks, nil
}

// Predictions returns today's consensus predictions.
func (c *Client) Predictions(ctx context.Context) ([]Prediction, error) {
	var resp PredictionsResponse
	if err := c.get(ctx, "/api/predictions", &resp); err != nil {
		return nil, err
	}
	return resp.Predictions, nil
}

// Performance returns the aggregate accuracy history.
func (c *Client) Performance(ctx context.Context) ([]PerformanceRow, error) {
	var resp PerformanceResponse
	if err := c.get(ctx, "/api/performance", &resp); err != nil {
		return nil, err
	}
	return resp.Rows, nil
}

// AgentPerformance returns per-agent accuracy rows from the v2 endpoint.
func (c *Client) AgentPerformance(ctx context.Context) ([]AgentDaily, error) {
	var resp AgentPerformanceResponse
	if err := c.get(ctx, "/api/performance-v2/agents", &resp); err != nil {
		return nil, err
	}
	return resp.Agents, nil
}

// TradesToday returns today's trade recommendations.
func (c *Client) TradesToday(ctx context.Context) ([]Trade, error) {
	var resp TradesResponse
	if err := c.get(ctx, "/api/trades/today", &resp); err != nil {
		return nil, err
	}
	return resp.Trades, nil
}

// Portfolio returns the simulated portfolio state.
func (c *Client) Portfolio(ctx context.Context) (*PortfolioResponse, error) {
	var resp PortfolioResponse
	if err := c.get(ctx, "/api/trades/portfolio", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Watchlist returns the user's watchlist symbols.
func (c *Client) Watchlist(ctx context.Context) ([]string, error) {
	var resp WatchlistResponse
	if err := c.get(ctx, "/api/watchlist", &resp); err != nil {
		return nil, err
	}
	return resp.Symbols, nil
}

// AddToWatchlist adds a symbol to the watchlist.
func (c *Client) AddToWatchlist(ctx context.Context, symbol string) error {
	return c.sendJSON(ctx, "PUT", "/api/watchlist/"+url.PathEscape(strings.ToUpper(symbol)), nil, nil)
}

// RemoveFromWatchlist removes a symbol from the watchlist.
func (c *Client) RemoveFromWatchlist(ctx context.Context, symbol string) error {
	return c.delete(ctx, "/api/watchlist/"+url.PathEscape(strings.ToUpper(symbol)))
}

// BriefingToday returns the daily morning briefing.
func (c *Client) BriefingToday(ctx context.Context) (*Briefing, error) {
	var resp Briefing
	if err := c.get(ctx, "/api/briefing/today", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
