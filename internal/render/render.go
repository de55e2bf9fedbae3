// Package render maps typed API responses to styled terminal content, one
// renderer per dashboard section. Each renderer produces exactly one of
// success, empty-state, or error content for the region that owns it.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"augur/internal/api"
	"augur/internal/i18n"
)

// Styles groups the lipgloss styles used by the section renderers.
type Styles struct {
	Header    lipgloss.Style
	ColHeader lipgloss.Style
	Dim       lipgloss.Style
	Gain      lipgloss.Style
	Loss      lipgloss.Style
	Symbol    lipgloss.Style
	ErrorText lipgloss.Style
	Banner    lipgloss.Style
}

// NewStyles builds the style set for a theme name ("dark" or "light").
func NewStyles(theme string) Styles {
	dim := lipgloss.Color("245")
	if theme == "light" {
		dim = lipgloss.Color("240")
	}
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		ColHeader: lipgloss.NewStyle().Foreground(dim),
		Dim:       lipgloss.NewStyle().Foreground(dim),
		Gain:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Loss:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Symbol:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		ErrorText: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Banner:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("3")),
	}
}

// Renderer renders section content with a fixed language and style set.
type Renderer struct {
	Lang   i18n.Lang
	Styles Styles
}

// Error renders the error state shared by all regions: the server's message
// verbatim when it sent one, a localized generic text otherwise, plus the
// manual retry hint.
func (r Renderer) Error(err error) string {
	var apiErr *api.Error
	msg := i18n.T(r.Lang, i18n.ErrNetwork)
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			msg = apiErr.Message
		} else {
			msg = i18n.T(r.Lang, i18n.ErrGeneric)
		}
	}
	return r.Styles.ErrorText.Render("  "+msg) + "\n" + r.Styles.Dim.Render("  "+i18n.T(r.Lang, i18n.RetryHint))
}

// Empty renders the shared empty-state content.
func (r Renderer) Empty() string {
	return r.Styles.Dim.Render("  " + i18n.T(r.Lang, i18n.EmptyState))
}

// StaleBanner renders the offline banner shown above cached content.
func (r Renderer) StaleBanner(fetchedAt string, width int) string {
	return r.Styles.Banner.Render(padOrTrunc(" "+i18n.T(r.Lang, i18n.StaleBanner, fetchedAt)+" ", width))
}

func (r Renderer) changeStyle(pct float64) lipgloss.Style {
	switch {
	case pct > 0:
		return r.Styles.Gain
	case pct < 0:
		return r.Styles.Loss
	default:
		return r.Styles.Dim
	}
}

// Prices renders the prices table.
func (r Renderer) Prices(rows []api.Price) string {
	if len(rows) == 0 {
		return r.Empty()
	}
	var b strings.Builder
	b.WriteString(r.Styles.ColHeader.Render(fmt.Sprintf("  %-8s %10s %8s  %s", "Symbol", "Price", "Chg", "Updated")))
	b.WriteString("\n")
	for _, p := range rows {
		b.WriteString(r.Styles.Symbol.Render(fmt.Sprintf("  %-8s", p.Symbol)))
		b.WriteString(fmt.Sprintf(" %10s ", FormatPrice(p.Price)))
		b.WriteString(r.changeStyle(p.ChangePct).Render(fmt.Sprintf("%8s", FormatChange(p.ChangePct))))
		b.WriteString(r.Styles.Dim.Render("  " + p.UpdatedAt))
		b.WriteString("\n")
	}
	return b.String()
}

// PricesInteractive renders the prices table with a selection cursor and
// watchlist markers ("*" in front of watched symbols).
func (r Renderer) PricesInteractive(rows []api.Price, selected int, watch map[string]bool) string {
	if len(rows) == 0 {
		return r.Empty()
	}
	var b strings.Builder
	b.WriteString(r.Styles.ColHeader.Render(fmt.Sprintf("    %-8s %10s %8s  %s", "Symbol", "Price", "Chg", "Updated")))
	b.WriteString("\n")
	for i, p := range rows {
		cursor := "  "
		if i == selected {
			cursor = "> "
		}
		mark := " "
		if watch[p.Symbol] {
			mark = "*"
		}
		b.WriteString(cursor + mark)
		b.WriteString(r.Styles.Symbol.Render(fmt.Sprintf(" %-8s", p.Symbol)))
		b.WriteString(fmt.Sprintf(" %10s ", FormatPrice(p.Price)))
		b.WriteString(r.changeStyle(p.ChangePct).Render(fmt.Sprintf("%8s", FormatChange(p.ChangePct))))
		b.WriteString(r.Styles.Dim.Render("  " + p.UpdatedAt))
		b.WriteString("\n")
	}
	return b.String()
}

// SourcesInteractive renders the sources table with a selection cursor.
func (r Renderer) SourcesInteractive(rows []api.Source, selected int) string {
	if len(rows) == 0 {
		return r.Empty()
	}
	var b strings.Builder
	b.WriteString(r.Styles.ColHeader.Render(fmt.Sprintf("    %-4s %-20s %-9s %-7s %s", "ID", "Name", "Type", "State", "Target")))
	b.WriteString("\n")
	for i, s := range rows {
		cursor := "  "
		if i == selected {
			cursor = "> "
		}
		state := "off"
		style := r.Styles.Dim
		if s.Enabled {
			state, style = "on", r.Styles.Gain
		}
		target := s.URL
		if s.Type == "telegram" {
			target = s.Channel
		}
		b.WriteString(cursor)
		b.WriteString(fmt.Sprintf("%-4d %-20s %-9s ", s.ID, s.Name, s.Type))
		b.WriteString(style.Render(fmt.Sprintf("%-7s", state)))
		b.WriteString(r.Styles.Dim.Render(" " + target))
		b.WriteString("\n")
	}
	return b.String()
}

// Stocks renders the tracked-instruments table.
func (r Renderer) Stocks(rows []api.Stock) string {
	if len(rows) == 0 {
		return r.Empty()
	}
	var b strings.Builder
	b.WriteString(r.Styles.ColHeader.Render(fmt.Sprintf("  %-8s %-28s %s", "Symbol", "Name", "Sector")))
	b.WriteString("\n")
	for _, s := range rows {
		b.WriteString(r.Styles.Symbol.Render(fmt.Sprintf("  %-8s", s.Symbol)))
		b.WriteString(fmt.Sprintf(" %-28s", s.Name))
		b.WriteString(r.Styles.Dim.Render(" " + s.Sector))
		b.WriteString("\n")
	}
	return b.String()
}

// Predictions renders the consensus predictions table.
func (r Renderer) Predictions(rows []api.Prediction) string {
	if len(rows) == 0 {
		return r.Empty()
	}
	var b strings.Builder
	b.WriteString(r.Styles.ColHeader.Render(fmt.Sprintf("  %-8s %-5s %6s %6s %7s  %s", "Symbol", "Dir", "Conf", "Cons", "Agents", "Made")))
	b.WriteString("\n")
	for _, p := range rows {
		b.WriteString(r.Styles.Symbol.Render(fmt.Sprintf("  %-8s", p.Symbol)))
		dir := p.Direction
		style := r.Styles.Dim
		switch p.Direction {
		case "up":
			dir, style = "▲ up", r.Styles.Gain
		case "down":
			dir, style = "▼ dn", r.Styles.Loss
		}
		b.WriteString(style.Render(fmt.Sprintf(" %-5s", dir)))
		b.WriteString(fmt.Sprintf(" %6s %6s %7d", FormatRatio(p.Confidence), FormatRatio(p.Consensus), p.Agents))
		b.WriteString(r.Styles.Dim.Render("  " + p.MadeAt))
		b.WriteString("\n")
	}
	return b.String()
}

// Performance renders aggregate accuracy plus the per-agent breakdown.
func (r Renderer) Performance(rows []api.PerformanceRow, agents []api.AgentDaily) string {
	if len(rows) == 0 && len(agents) == 0 {
		return r.Empty()
	}
	var b strings.Builder
	if len(rows) > 0 {
		b.WriteString(r.Styles.ColHeader.Render(fmt.Sprintf("  %-12s %9s %8s %9s", "Date", "Evaluated", "Correct", "Accuracy")))
		b.WriteString("\n")
		for _, row := range rows {
			b.WriteString(fmt.Sprintf("  %-12s %9s %8s ", row.Date, FormatInt(row.Evaluated), FormatInt(row.Correct)))
			style := r.Styles.Loss
			if row.Accuracy >= 0.5 {
				style = r.Styles.Gain
			}
			b.WriteString(style.Render(fmt.Sprintf("%9s", FormatRatio(row.Accuracy))))
			b.WriteString("\n")
		}
	}
	if len(agents) > 0 {
		b.WriteString("\n")
		b.WriteString(r.Styles.Header.Render("  Agents"))
		b.WriteString("\n")
		b.WriteString(r.Styles.ColHeader.Render(fmt.Sprintf("  %-16s %-12s %6s %9s %7s", "Agent", "Date", "Preds", "Accuracy", "Weight")))
		b.WriteString("\n")
		for _, a := range agents {
			b.WriteString(fmt.Sprintf("  %-16s %-12s %6s %9s %7.2f\n",
				a.Agent, a.Date, FormatInt(a.Predictions), FormatRatio(a.Accuracy), a.Weight))
		}
	}
	return b.String()
}

// Trades renders today's trade recommendations.
func (r Renderer) Trades(rows []api.Trade) string {
	if len(rows) == 0 {
		return r.Empty()
	}
	var b strings.Builder
	b.WriteString(r.Styles.ColHeader.Render(fmt.Sprintf("  %-10s %-8s %-5s %8s %10s  %s", "Time", "Symbol", "Act", "Qty", "Price", "Reason")))
	b.WriteString("\n")
	for _, t := range rows {
		b.WriteString(r.Styles.Dim.Render(fmt.Sprintf("  %-10s", t.Time)))
		b.WriteString(r.Styles.Symbol.Render(fmt.Sprintf(" %-8s", t.Symbol)))
		style := r.Styles.Dim
		switch t.Action {
		case "buy":
			style = r.Styles.Gain
		case "sell":
			style = r.Styles.Loss
		}
		b.WriteString(style.Render(fmt.Sprintf(" %-5s", t.Action)))
		b.WriteString(fmt.Sprintf(" %8.0f %10s", t.Qty, FormatPrice(t.Price)))
		b.WriteString(r.Styles.Dim.Render("  " + t.Reason))
		b.WriteString("\n")
	}
	return b.String()
}

// Portfolio renders the cash/equity header and open positions.
func (r Renderer) Portfolio(p *api.PortfolioResponse) string {
	if p == nil || (len(p.Positions) == 0 && p.Cash == 0 && p.Equity == 0) {
		return r.Empty()
	}
	var b strings.Builder
	b.WriteString(r.Styles.Header.Render(fmt.Sprintf("  Equity %s   Cash %s", FormatMoney(p.Equity), FormatMoney(p.Cash))))
	b.WriteString("\n\n")
	if len(p.Positions) == 0 {
		b.WriteString(r.Empty())
		return b.String()
	}
	b.WriteString(r.Styles.ColHeader.Render(fmt.Sprintf("  %-8s %8s %10s %10s %8s", "Symbol", "Qty", "Avg", "Last", "PnL")))
	b.WriteString("\n")
	for _, pos := range p.Positions {
		b.WriteString(r.Styles.Symbol.Render(fmt.Sprintf("  %-8s", pos.Symbol)))
		b.WriteString(fmt.Sprintf(" %8.0f %10s %10s ", pos.Qty, FormatPrice(pos.AvgPrice), FormatPrice(pos.LastPrice)))
		b.WriteString(r.changeStyle(pos.PnLPct).Render(fmt.Sprintf("%8s", FormatChange(pos.PnLPct))))
		b.WriteString("\n")
	}
	return b.String()
}

// Watchlist renders the watchlist symbols.
func (r Renderer) Watchlist(symbols []string) string {
	if len(symbols) == 0 {
		return r.Empty()
	}
	var b strings.Builder
	for _, s := range symbols {
		b.WriteString(r.Styles.Symbol.Render("  " + s))
		b.WriteString("\n")
	}
	return b.String()
}

// Briefing renders the morning briefing card.
func (r Renderer) Briefing(br *api.Briefing) string {
	if br == nil || br.Summary == "" {
		return r.Empty()
	}
	var b strings.Builder
	b.WriteString(r.Styles.Header.Render("  " + br.Date))
	b.WriteString("\n\n  ")
	b.WriteString(br.Summary)
	b.WriteString("\n")
	for _, h := range br.Highlights {
		b.WriteString(r.Styles.Dim.Render("  • " + h))
		b.WriteString("\n")
	}
	return b.String()
}

// SystemHealth renders the admin health panel: audit log plus agent daily
// performance, either of which may be absent.
func (r Renderer) SystemHealth(h *api.SystemHealth) string {
	if h == nil || (len(h.AuditLog) == 0 && len(h.AgentPerformanceDaily) == 0) {
		return r.Empty()
	}
	var b strings.Builder
	if len(h.AuditLog) > 0 {
		b.WriteString(r.Styles.Header.Render("  Audit log"))
		b.WriteString("\n")
		for _, e := range h.AuditLog {
			b.WriteString(r.Styles.Dim.Render("  " + e.Time))
			b.WriteString(fmt.Sprintf("  %-12s %s %s\n", e.Actor, e.Action, e.Detail))
		}
	}
	if len(h.AgentPerformanceDaily) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(r.Styles.Header.Render("  Agent performance (daily)"))
		b.WriteString("\n")
		for _, a := range h.AgentPerformanceDaily {
			b.WriteString(fmt.Sprintf("  %-16s %-12s %9s\n", a.Agent, a.Date, FormatRatio(a.Accuracy)))
		}
	}
	return b.String()
}

// Reports renders the uploaded reports list.
func (r Renderer) Reports(rows []api.Report) string {
	if len(rows) == 0 {
		return r.Empty()
	}
	var b strings.Builder
	b.WriteString(r.Styles.ColHeader.Render(fmt.Sprintf("  %-32s %-4s %10s  %s", "Filename", "Lang", "Size", "Uploaded")))
	b.WriteString("\n")
	for _, rep := range rows {
		b.WriteString(fmt.Sprintf("  %-32s %-4s %10s", rep.Filename, rep.Language, FormatMoney(float64(rep.SizeBytes))))
		b.WriteString(r.Styles.Dim.Render("  " + rep.UploadedAt))
		b.WriteString("\n")
	}
	return b.String()
}

// Sources renders the configured news sources.
func (r Renderer) Sources(rows []api.Source) string {
	if len(rows) == 0 {
		return r.Empty()
	}
	var b strings.Builder
	b.WriteString(r.Styles.ColHeader.Render(fmt.Sprintf("  %-4s %-20s %-9s %-7s %s", "ID", "Name", "Type", "State", "Target")))
	b.WriteString("\n")
	for _, s := range rows {
		state := "off"
		style := r.Styles.Dim
		if s.Enabled {
			state, style = "on", r.Styles.Gain
		}
		target := s.URL
		if s.Type == "telegram" {
			target = s.Channel
		}
		b.WriteString(fmt.Sprintf("  %-4d %-20s %-9s ", s.ID, s.Name, s.Type))
		b.WriteString(style.Render(fmt.Sprintf("%-7s", state)))
		b.WriteString(r.Styles.Dim.Render(" " + target))
		b.WriteString("\n")
	}
	return b.String()
}
