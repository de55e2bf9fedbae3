package viewstate

// AdminCatalog lists the admin console panels in display order.
var AdminCatalog = Catalog{
	{ID: "health", Label: "System Health"},
	{ID: "kb", Label: "Knowledge Base"},
	{ID: "reports", Label: "Reports"},
	{ID: "sources", Label: "Sources"},
	{ID: "telegram", Label: "Telegram"},
}

// DashboardCatalog lists the end-user dashboard panels in display order.
// Prices is the landing panel and cannot be hidden.
var DashboardCatalog = Catalog{
	{ID: "prices", Label: "Prices", Locked: true},
	{ID: "predictions", Label: "Predictions"},
	{ID: "performance", Label: "Performance"},
	{ID: "trades", Label: "Trades"},
	{ID: "portfolio", Label: "Portfolio"},
	{ID: "watchlist", Label: "Watchlist"},
	{ID: "briefing", Label: "Briefing"},
}
