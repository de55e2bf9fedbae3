package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"augur/internal/api"
	"augur/internal/i18n"
	"augur/internal/prefs"
	"augur/internal/render"
	"augur/internal/session"
	"augur/internal/viewstate"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := m.height - 3 // tab bar + stale banner slot + footer
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.MouseWheelEnabled = true
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.syncViewport()
		return m, nil

	case tickMsg:
		var cmd tea.Cmd
		if m.view == viewSections {
			cmd = m.loadSection(m.active())
		}
		return m, tea.Batch(cmd, tickCmd(m.refresh))

	case sectionLoadedMsg:
		if msg.token != m.tokens[msg.id] {
			m.log.Debug("discarding stale response", "section", msg.id,
				"token", msg.token, "current", m.tokens[msg.id])
			return m, nil
		}
		st := m.state(msg.id)
		st.loading = false
		st.err = msg.err
		st.stale = msg.stale
		st.fetchedAt = msg.fetchedAt
		if msg.err == nil {
			st.payload = msg.payload
			m.clampSelection(msg.id)
		}
		if msg.id == m.active() {
			m.syncViewport()
		}
		return m, nil

	case probedMsg:
		return m, nil

	case authResultMsg:
		if msg.errText != "" {
			if m.form != nil {
				m.form.errText = msg.errText
			}
			return m, nil
		}
		m.form = nil
		m.view = viewSections
		if u := m.sess.User(); u != nil {
			m.notice = i18n.T(m.lang, i18n.LoggedInAs, u.Email)
		}
		return m, m.loadSection(m.active())

	case loggedOutMsg:
		m.notice = i18n.T(m.lang, i18n.LoggedOut)
		return m, nil

	case adminSecretMsg:
		if err := m.prefs.SetAdminSecret(msg.secret); err != nil {
			m.log.Warn("storing admin secret", "error", err)
		}
		m.client.SetAdminSecret(msg.secret)
		m.form = nil
		m.view = viewSections
		m.admin = true
		return m, m.loadSection(m.active())

	case watchlistSetMsg:
		m.watchlist = msg.symbols
		return m, nil

	case watchlistToggledMsg:
		if msg.err != nil {
			if msg.symbol != "" {
				// Revert the optimistic flip.
				if msg.added {
					delete(m.watchlist, msg.symbol)
				} else {
					m.watchlist[msg.symbol] = true
				}
			}
			m.notice = m.errNotice(msg.err)
			m.syncViewport()
			return m, nil
		}
		var cmd tea.Cmd
		if m.active() == "watchlist" {
			cmd = m.loadSection("watchlist")
		}
		m.syncViewport()
		return m, cmd

	case sourceOpMsg:
		if msg.err != nil {
			m.notice = m.errNotice(msg.err)
			return m, nil
		}
		m.notice = msg.notice
		m.form = nil
		if m.view == viewForm {
			m.view = viewSections
		}
		return m, m.loadSection(m.active())
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch m.view {
	case viewForm:
		return m.handleFormKey(msg)
	case viewSettings:
		return m.handleSettingsKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab", "right":
		return m, m.cycleTab(1)
	case "shift+tab", "left":
		return m, m.cycleTab(-1)

	case "r":
		return m, m.loadSection(m.active())

	case "s":
		m.view = viewSettings
		m.settingsIdx = 0
		return m, nil

	case "a":
		if m.admin {
			m.admin = false
			return m, m.loadSection(m.active())
		}
		if secret := m.prefs.AdminSecret(); secret != "" {
			m.client.SetAdminSecret(secret)
			m.admin = true
			return m, m.loadSection(m.active())
		}
		m.form = m.adminSecretForm()
		m.view = viewForm
		return m, nil

	case "t":
		if m.theme == "dark" {
			m.theme = "light"
		} else {
			m.theme = "dark"
		}
		if err := m.prefs.SetString(prefs.KeyTheme, m.theme); err != nil {
			m.log.Warn("persisting theme", "error", err)
		}
		m.rend = render.Renderer{Lang: m.lang, Styles: render.NewStyles(m.theme)}
		m.syncViewport()
		return m, nil

	case "L":
		if m.lang == i18n.EN {
			m.lang = i18n.RU
		} else {
			m.lang = i18n.EN
		}
		if err := m.prefs.SetString(prefs.KeyLanguage, string(m.lang)); err != nil {
			m.log.Warn("persisting language", "error", err)
		}
		m.rend = render.Renderer{Lang: m.lang, Styles: render.NewStyles(m.theme)}
		m.syncViewport()
		return m, nil

	case "o":
		if m.sess.LoggedIn() {
			return m, m.logoutCmd()
		}
		m.form = m.loginForm(session.ModeLogin)
		m.view = viewForm
		return m, nil

	case "O":
		if !m.sess.LoggedIn() {
			m.form = m.loginForm(session.ModeSignup)
			m.view = viewForm
		}
		return m, nil

	case "?":
		if err := m.prefs.DismissHint(hintFooterID); err != nil {
			m.log.Warn("dismissing hint", "error", err)
		}
		return m, nil

	case "up", "down":
		if n := m.rowCount(m.active()); n > 0 {
			idx := m.selected[m.active()]
			if msg.String() == "up" && idx > 0 {
				idx--
			}
			if msg.String() == "down" && idx < n-1 {
				idx++
			}
			m.selected[m.active()] = idx
			m.syncViewport()
			return m, nil
		}

	case " ":
		if m.active() == "prices" {
			return m, m.togglePriceWatchlist()
		}

	case "n":
		if m.active() == "sources" || m.active() == "telegram" {
			m.form = m.sourceForm()
			m.view = viewForm
			return m, nil
		}

	case "m":
		if m.active() == "sources" || m.active() == "telegram" {
			m.form = m.manualForm()
			m.view = viewForm
			return m, nil
		}

	case "u":
		if m.active() == "reports" {
			m.form = m.uploadForm()
			m.view = viewForm
			return m, nil
		}

	case "e":
		if src, ok := m.selectedSource(); ok {
			src.Enabled = !src.Enabled
			return m, m.updateSourceCmd(src)
		}

	case "f":
		if src, ok := m.selectedSource(); ok {
			m.notice = "fetching " + src.Name + "..."
			return m, m.fetchSourceCmd(src.ID)
		}

	case "x":
		if src, ok := m.selectedSource(); ok {
			return m, m.deleteSourceCmd(src.ID)
		}
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.form = nil
		m.view = viewSections
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	inputCmd, submitCmd := m.form.update(msg, m.lang)
	if submitCmd != nil {
		return m, submitCmd
	}
	return m, inputCmd
}

func (m *Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cat := m.catalog()
	switch msg.String() {
	case "esc", "s", "q":
		m.view = viewSections
		m.syncViewport()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "up":
		if m.settingsIdx > 0 {
			m.settingsIdx--
		}
		return m, nil
	case "down":
		if m.settingsIdx < len(cat)-1 {
			m.settingsIdx++
		}
		return m, nil
	case " ", "enter":
		return m, m.toggleVisibility(cat[m.settingsIdx].ID)
	}
	return m, nil
}

// toggleVisibility flips one panel's checkbox. Rejected toggles (locked
// panel, last visible panel) leave the stored set unchanged so the checkbox
// snaps back on the next render.
func (m *Model) toggleVisibility(id string) tea.Cmd {
	cat := m.catalog()
	hidden := m.hidden()
	vis := viewstate.ComputeVisibility(cat, hidden)

	next, corrected := viewstate.Toggle(cat, hidden, id, !vis[id])
	if corrected {
		m.notice = i18n.T(m.lang, i18n.PanelLocked)
	}

	var key string
	if m.admin {
		m.adminHidden = next
		key = prefs.KeyAdminHidden
	} else {
		m.dashHidden = next
		key = prefs.KeyDashboardHidden
	}
	if err := m.prefs.SetStrings(key, next.IDs(cat)); err != nil {
		m.log.Warn("persisting hidden tabs", "error", err)
	}

	active := viewstate.ResolveActive(cat, next, m.active())
	if active != m.active() {
		m.setActive(active)
		return m.loadSection(active)
	}
	return nil
}

// cycleTab moves to the next/previous visible panel in catalog order.
func (m *Model) cycleTab(delta int) tea.Cmd {
	cat := m.catalog()
	hidden := m.hidden()
	var visible []string
	for _, p := range cat {
		if !hidden[p.ID] {
			visible = append(visible, p.ID)
		}
	}
	if len(visible) == 0 {
		return nil
	}
	cur := 0
	for i, id := range visible {
		if id == m.active() {
			cur = i
			break
		}
	}
	cur = (cur + delta + len(visible)) % len(visible)
	m.setActive(visible[cur])
	m.syncViewport()
	return m.loadSection(visible[cur])
}

// togglePriceWatchlist optimistically flips the selected price row's
// watchlist membership, reverting on server error.
func (m *Model) togglePriceWatchlist() tea.Cmd {
	st := m.state("prices")
	rows, ok := st.payload.([]api.Price)
	if !ok || len(rows) == 0 {
		return nil
	}
	idx := m.selected["prices"]
	if idx >= len(rows) {
		idx = len(rows) - 1
	}
	symbol := rows[idx].Symbol

	add := !m.watchlist[symbol]
	if add {
		m.watchlist[symbol] = true
	} else {
		delete(m.watchlist, symbol)
	}
	m.syncViewport()
	return m.toggleWatchlistCmd(symbol, add)
}

func (m *Model) selectedSource() (api.Source, bool) {
	id := m.active()
	if id != "sources" && id != "telegram" {
		return api.Source{}, false
	}
	st := m.state(id)
	rows, ok := st.payload.([]api.Source)
	if !ok || len(rows) == 0 {
		return api.Source{}, false
	}
	idx := m.selected[id]
	if idx >= len(rows) {
		idx = len(rows) - 1
	}
	return rows[idx], true
}

func (m *Model) rowCount(id string) int {
	st := m.state(id)
	switch rows := st.payload.(type) {
	case []api.Price:
		return len(rows)
	case []api.Source:
		return len(rows)
	}
	return 0
}

func (m *Model) clampSelection(id string) {
	if n := m.rowCount(id); m.selected[id] >= n && n > 0 {
		m.selected[id] = n - 1
	}
}

// errNotice formats an error the same way section bodies do: server message
// verbatim, localized text otherwise.
func (m *Model) errNotice(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return i18n.T(m.lang, i18n.ErrNetwork)
}
