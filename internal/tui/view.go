package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"augur/internal/api"
	"augur/internal/i18n"
	"augur/internal/viewstate"
)

var (
	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")).Padding(0, 1)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	headerBarStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	noticeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	formTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	formErrStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	checkedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lockedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.renderTabs()
	status := m.renderStatusLine()
	footer := m.renderFooter()

	var body string
	switch m.view {
	case viewSettings:
		body = m.renderSettings()
	case viewForm:
		body = m.renderForm()
	default:
		body = m.viewport.View()
	}

	return header + "\n" + status + "\n" + body + "\n" + footer
}

// syncViewport re-renders the active section into the viewport.
func (m *Model) syncViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderSection(m.active()))
}

func (m *Model) renderSection(id string) string {
	st := m.state(id)
	switch {
	case st.err != nil:
		return "\n" + m.rend.Error(st.err)
	case st.loading && st.payload == nil:
		return "\n" + m.rend.Styles.Dim.Render("  Loading...")
	case st.payload == nil:
		return "\n" + m.rend.Empty()
	}

	def := sectionDefs[id]
	switch id {
	case "prices":
		if rows, ok := st.payload.([]api.Price); ok {
			return "\n" + m.rend.PricesInteractive(rows, m.selected[id], m.watchlist)
		}
	case "sources", "telegram":
		if rows, ok := st.payload.([]api.Source); ok {
			return "\n" + m.rend.SourcesInteractive(rows, m.selected[id])
		}
	}
	return "\n" + def.render(m.rend, st.payload)
}

func (m *Model) renderTabs() string {
	cat := m.catalog()
	hidden := m.hidden()
	var tabs []string
	for _, p := range cat {
		if hidden[p.ID] {
			continue
		}
		if p.ID == m.active() {
			tabs = append(tabs, tabActiveStyle.Render(p.Label))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(p.Label))
		}
	}
	bar := strings.Join(tabs, "")

	right := " " + i18n.T(m.lang, i18n.LoggedOut) + " "
	if u := m.sess.User(); u != nil {
		right = " " + i18n.T(m.lang, i18n.LoggedInAs, u.Email) + " "
	}
	if m.admin {
		right = " ADMIN " + right
	}

	gap := m.width - lipgloss.Width(bar) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return headerBarStyle.Render(bar+strings.Repeat(" ", gap)) + headerBarStyle.Render(right)
}

// renderStatusLine shows, in priority order: the stale-cache banner for the
// active section, a transient notice, or nothing.
func (m *Model) renderStatusLine() string {
	st := m.state(m.active())
	if st.stale && st.err == nil {
		return m.rend.StaleBanner(st.fetchedAt, m.width)
	}
	if m.notice != "" {
		return noticeStyle.Render(" " + m.notice)
	}
	return ""
}

func (m *Model) renderFooter() string {
	var left string
	switch m.view {
	case viewSettings:
		left = " up/dn move  space toggle  esc back"
	case viewForm:
		left = " tab next field  enter submit  esc cancel"
	default:
		left = " q quit  tab panels  r retry  s settings  a admin  o sign in/out  t theme  L lang"
		if !m.prefs.HintDismissed(hintFooterID) {
			left += "  ? dismiss"
		}
		switch m.active() {
		case "prices":
			left = " up/dn select  space watch " + left
		case "sources", "telegram":
			left = " n new  e on/off  f fetch  x del  m manual " + left
		case "reports":
			left = " u upload " + left
		}
	}
	return footerStyle.Render(padOrTrunc(left, m.width))
}

func (m *Model) renderSettings() string {
	cat := m.catalog()
	vis := viewstate.ComputeVisibility(cat, m.hidden())

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(formTitleStyle.Render("  Visible panels"))
	b.WriteString("\n\n")
	for i, p := range cat {
		cursor := "  "
		if i == m.settingsIdx {
			cursor = "> "
		}
		box := "[ ]"
		style := lipgloss.NewStyle()
		if vis[p.ID] {
			box = "[x]"
			style = checkedStyle
		}
		label := p.Label
		if p.Locked {
			label += " (always shown)"
			style = lockedStyle
		}
		b.WriteString(fmt.Sprintf("  %s%s %s\n", cursor, style.Render(box), label))
	}
	return m.padBody(b.String())
}

func (m *Model) renderForm() string {
	f := m.form
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(formTitleStyle.Render("  " + f.title))
	b.WriteString("\n\n")
	for i := range f.inputs {
		b.WriteString(fmt.Sprintf("  %s\n  %s\n\n", f.labels[i], f.inputs[i].View()))
	}
	if f.submitLabel != "" {
		b.WriteString(formTitleStyle.Render("  [ " + f.submitLabel + " ]"))
		b.WriteString("\n\n")
	}
	if f.errText != "" {
		b.WriteString(formErrStyle.Render("  " + f.errText))
		b.WriteString("\n")
	}
	return m.padBody(b.String())
}

// padBody pads content to the viewport height so the footer stays pinned.
func (m *Model) padBody(s string) string {
	s = strings.TrimSuffix(s, "\n")
	for lines := strings.Count(s, "\n"); lines < m.viewport.Height-1; lines++ {
		s += "\n"
	}
	return s
}

func padOrTrunc(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return ansi.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-w)
}
