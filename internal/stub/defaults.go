package stub

import "augur/internal/api"

// Built-in bodies served when no fixture file covers a section.

var defaultPrices = api.PricesResponse{Prices: []api.Price{
	{Symbol: "AAPL", Price: 232.14, ChangePct: 1.2, UpdatedAt: "2026-08-27T14:30:00Z"},
	{Symbol: "NVDA", Price: 131.88, ChangePct: -0.8, UpdatedAt: "2026-08-27T14:30:00Z"},
	{Symbol: "TSLA", Price: 248.50, ChangePct: 2.4, UpdatedAt: "2026-08-27T14:30:00Z"},
}}

var defaultStocks = api.StocksResponse{Stocks: []api.Stock{
	{Symbol: "AAPL", Name: "Apple Inc.", Sector: "Technology"},
	{Symbol: "NVDA", Name: "NVIDIA Corp.", Sector: "Technology"},
	{Symbol: "TSLA", Name: "Tesla Inc.", Sector: "Automotive"},
	{Symbol: "SBER", Name: "Sberbank", Sector: "Financials"},
}}

var defaultPredictions = api.PredictionsResponse{Predictions: []api.Prediction{
	{Symbol: "AAPL", Direction: "up", Confidence: 0.72, Consensus: 0.65, Agents: 5, Horizon: "1d", MadeAt: "2026-08-27T09:00:00Z"},
	{Symbol: "NVDA", Direction: "down", Confidence: 0.58, Consensus: 0.51, Agents: 5, Horizon: "1d", MadeAt: "2026-08-27T09:00:00Z"},
}}

var defaultPerformance = api.PerformanceResponse{Rows: []api.PerformanceRow{
	{Date: "2026-08-26", Evaluated: 20, Correct: 13, Accuracy: 0.65},
	{Date: "2026-08-25", Evaluated: 18, Correct: 10, Accuracy: 0.556},
}}

var defaultAgents = api.AgentPerformanceResponse{Agents: []api.AgentDaily{
	{Agent: "momentum", Date: "2026-08-26", Predictions: 10, Accuracy: 0.7, Weight: 1.2},
	{Agent: "sentiment", Date: "2026-08-26", Predictions: 10, Accuracy: 0.6, Weight: 0.9},
}}

var defaultTrades = api.TradesResponse{Trades: []api.Trade{
	{Symbol: "AAPL", Action: "buy", Qty: 10, Price: 230.10, Time: "2026-08-27T13:45:00Z", Reason: "consensus up"},
}}

var defaultPortfolio = api.PortfolioResponse{
	Cash:   25000.00,
	Equity: 31250.40,
	Positions: []api.Position{
		{Symbol: "AAPL", Qty: 10, AvgPrice: 230.10, LastPrice: 232.14, PnLPct: 0.89},
	},
}

var defaultBriefing = api.Briefing{
	Date:    "2026-08-27",
	Summary: "Markets opened higher on strong tech earnings.",
	Highlights: []string{
		"AAPL consensus up, 5 agents agree",
		"NVDA lowered on chip export news",
	},
}

var defaultSystemHealth = api.SystemHealth{
	AuditLog: []api.AuditEntry{
		{Time: "2026-08-27T08:00:00Z", Actor: "scheduler", Action: "fetch_sources", Detail: "2 sources, 14 articles"},
		{Time: "2026-08-27T09:00:00Z", Actor: "scheduler", Action: "run_predictions", Detail: "2 symbols"},
	},
	AgentPerformanceDaily: defaultAgents.Agents,
}
