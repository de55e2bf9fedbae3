package tui

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zalando/go-keyring"

	"augur/internal/api"
	"augur/internal/i18n"
	"augur/internal/prefs"
	"augur/internal/session"
	"augur/internal/viewstate"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	keyring.MockInit() // keep the admin secret out of the host keyring

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := api.NewClient("http://127.0.0.1:1", "", log)
	if err != nil {
		t.Fatal(err)
	}
	store := prefs.NewStore(filepath.Join(t.TempDir(), "prefs.json"))
	m := New(Options{
		Client:  client,
		Session: session.NewManager(client, log),
		Prefs:   store,
		Log:     log,
	})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func keyMsg(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStaleResponseDiscarded(t *testing.T) {
	m := newTestModel(t)

	// Two requests in flight for the same panel.
	m.loadSection("prices")
	m.loadSection("prices")

	old := []api.Price{{Symbol: "OLD"}}
	fresh := []api.Price{{Symbol: "NEW"}}

	m.Update(sectionLoadedMsg{id: "prices", token: 1, payload: old})
	if m.state("prices").payload != nil {
		t.Fatal("response with superseded token should be discarded")
	}

	m.Update(sectionLoadedMsg{id: "prices", token: 2, payload: fresh})
	rows, ok := m.state("prices").payload.([]api.Price)
	if !ok || rows[0].Symbol != "NEW" {
		t.Errorf("payload = %+v, want fresh rows", m.state("prices").payload)
	}
}

func TestStaleErrorAfterSuccessDiscarded(t *testing.T) {
	m := newTestModel(t)

	m.loadSection("prices")
	m.loadSection("prices")
	m.Update(sectionLoadedMsg{id: "prices", token: 2, payload: []api.Price{{Symbol: "X"}}})
	m.Update(sectionLoadedMsg{id: "prices", token: 1, err: errors.New("late failure")})

	if m.state("prices").err != nil {
		t.Error("late error with old token must not overwrite fresh data")
	}
}

func TestHideActivePanelMovesActive(t *testing.T) {
	m := newTestModel(t)
	m.dashActive = "predictions"

	m.toggleVisibility("predictions")

	if m.dashHidden["predictions"] != true {
		t.Fatal("predictions should be hidden")
	}
	if m.dashActive != "prices" {
		t.Errorf("active = %q, want prices (first visible)", m.dashActive)
	}
	// Persisted.
	if got := m.prefs.GetStrings(prefs.KeyDashboardHidden); len(got) != 1 || got[0] != "predictions" {
		t.Errorf("persisted hidden = %v", got)
	}
	if got := m.prefs.GetString(prefs.KeyDashboardActive, ""); got != "prices" {
		t.Errorf("persisted active = %q", got)
	}
}

func TestLockedPanelSnapsBack(t *testing.T) {
	m := newTestModel(t)

	m.toggleVisibility("prices")

	vis := viewstate.ComputeVisibility(viewstate.DashboardCatalog, m.dashHidden)
	if !vis["prices"] {
		t.Error("locked panel must stay visible")
	}
	if want := i18n.T(i18n.EN, i18n.PanelLocked); m.notice != want {
		t.Errorf("notice = %q, want localized %q", m.notice, want)
	}
}

func TestCycleTabSkipsHidden(t *testing.T) {
	m := newTestModel(t)
	m.toggleVisibility("predictions")
	m.dashActive = "prices"

	m.cycleTab(1)
	if m.dashActive != "performance" {
		t.Errorf("active = %q, want performance (predictions hidden)", m.dashActive)
	}

	m.cycleTab(-1)
	if m.dashActive != "prices" {
		t.Errorf("active = %q, want prices", m.dashActive)
	}
}

func TestCycleTabWraps(t *testing.T) {
	m := newTestModel(t)
	m.dashActive = "prices"
	m.cycleTab(-1)
	if m.dashActive != "briefing" {
		t.Errorf("active = %q, want briefing (wrap backwards)", m.dashActive)
	}
}

func TestOptimisticWatchlistToggleAndRevert(t *testing.T) {
	m := newTestModel(t)
	m.state("prices").payload = []api.Price{{Symbol: "AAPL"}, {Symbol: "NVDA"}}
	m.selected["prices"] = 1

	cmd := m.togglePriceWatchlist()
	if cmd == nil {
		t.Fatal("expected a toggle command")
	}
	if !m.watchlist["NVDA"] {
		t.Fatal("optimistic add should flip membership immediately")
	}

	// Server rejects: membership reverts.
	m.Update(watchlistToggledMsg{symbol: "NVDA", added: true, err: errors.New("boom")})
	if m.watchlist["NVDA"] {
		t.Error("failed add should revert")
	}
}

func TestAdminToggleRequiresSecret(t *testing.T) {
	m := newTestModel(t)

	m.handleKey(keyMsg("a"))
	if m.admin {
		t.Fatal("admin mode must not open without a secret")
	}
	if m.view != viewForm || m.form == nil {
		t.Fatal("expected the admin secret form")
	}

	m.Update(adminSecretMsg{secret: "hunter2"})
	if !m.admin {
		t.Error("admin mode should open once the secret is provided")
	}
	if m.view != viewSections {
		t.Error("form should close")
	}
	if m.active() == "" {
		t.Error("admin console needs an active panel")
	}
}

func TestAdminCatalogIndependentOfDashboard(t *testing.T) {
	m := newTestModel(t)
	m.admin = true
	m.adminActive = "health"

	m.toggleVisibility("health")
	if m.adminActive == "health" {
		t.Error("hidden admin panel should yield the active slot")
	}
	// Dashboard state untouched.
	if len(m.dashHidden) != 0 {
		t.Errorf("dashboard hidden set changed: %v", m.dashHidden)
	}
}

// The shared form differs between login and signup only in its labels.
func TestLoginFormModeLabels(t *testing.T) {
	m := newTestModel(t)
	login := m.loginForm(session.ModeLogin)
	signup := m.loginForm(session.ModeSignup)

	if login.title == signup.title {
		t.Error("login and signup should carry distinct titles")
	}
	if login.submitLabel != i18n.T(i18n.EN, i18n.LoginSubmit) {
		t.Errorf("login submit label = %q", login.submitLabel)
	}
	if signup.submitLabel != i18n.T(i18n.EN, i18n.SignupSubmit) {
		t.Errorf("signup submit label = %q", signup.submitLabel)
	}
}

func TestAuthResultKeepsFormOnError(t *testing.T) {
	m := newTestModel(t)
	m.form = m.loginForm(session.ModeLogin)
	m.view = viewForm

	m.Update(authResultMsg{errText: "invalid email or password"})
	if m.view != viewForm || m.form == nil {
		t.Fatal("failed auth should keep the form open")
	}
	if m.form.errText != "invalid email or password" {
		t.Errorf("form error = %q", m.form.errText)
	}

	m.Update(authResultMsg{errText: ""})
	if m.view != viewSections || m.form != nil {
		t.Error("successful auth should close the form")
	}
}

func TestSectionErrorRendered(t *testing.T) {
	m := newTestModel(t)
	m.loadSection("prices")
	m.Update(sectionLoadedMsg{id: "prices", token: m.tokens["prices"], err: &api.Error{Status: 500, Message: "db down"}})

	body := m.renderSection("prices")
	if !contains(body, "db down") {
		t.Errorf("error body should carry the server message verbatim:\n%s", body)
	}
}

func TestStaleSnapshotBanner(t *testing.T) {
	m := newTestModel(t)
	m.loadSection("prices")
	m.Update(sectionLoadedMsg{
		id: "prices", token: m.tokens["prices"],
		payload: []api.Price{{Symbol: "AAPL"}}, stale: true, fetchedAt: "2026-08-26 09:00",
	})

	st := m.state("prices")
	if !st.stale {
		t.Fatal("state should be marked stale")
	}
	line := m.renderStatusLine()
	if !contains(line, "2026-08-26 09:00") {
		t.Errorf("status line should show the snapshot time: %q", line)
	}
}

func TestViewRenders(t *testing.T) {
	m := newTestModel(t)
	m.Update(sectionLoadedMsg{id: "prices", token: m.tokens["prices"], payload: []api.Price{{Symbol: "AAPL", Price: 230.1}}})
	out := m.View()
	if !contains(out, "Prices") {
		t.Error("tab bar should name the Prices panel")
	}
}

func contains(s, sub string) bool {
	return strings.Contains(s, sub)
}
