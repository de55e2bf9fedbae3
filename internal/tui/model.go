// Package tui is the terminal dashboard. One Model owns all UI state; every
// network call runs as a tea.Cmd and reports back through a message carrying
// the request token of the panel that started it, so responses that arrive
// after the user moved on are discarded instead of overwriting newer data.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"augur/internal/api"
	"augur/internal/cache"
	"augur/internal/i18n"
	"augur/internal/prefs"
	"augur/internal/render"
	"augur/internal/session"
	"augur/internal/viewstate"
)

type viewMode int

const (
	viewSections viewMode = iota
	viewSettings
	viewForm
)

const hintFooterID = "footer_keys"

// Messages.
type tickMsg time.Time

type sectionLoadedMsg struct {
	id      string
	token   uint64
	payload any
	err     error
	// Filled from the snapshot cache when the fetch failed off-line.
	stale     bool
	fetchedAt string
}

type probedMsg struct{}

type authResultMsg struct {
	errText string
}

type loggedOutMsg struct{}

type adminSecretMsg struct {
	secret string
}

type watchlistToggledMsg struct {
	symbol string
	added  bool
	err    error
}

type sourceOpMsg struct {
	notice string
	err    error
}

// Model is the application state. All mutation happens in Update.
type Model struct {
	client *api.Client
	sess   *session.Manager
	prefs  *prefs.Store
	cache  *cache.Store
	log    *slog.Logger

	lang  i18n.Lang
	theme string
	rend  render.Renderer

	admin       bool
	dashHidden  viewstate.HiddenSet
	adminHidden viewstate.HiddenSet
	dashActive  string
	adminActive string

	states map[string]*sectionState
	tokens map[string]uint64

	// Row selection on list panels (prices, sources).
	selected map[string]int

	// Watchlist membership mirror for the optimistic toggle on prices.
	watchlist map[string]bool

	view        viewMode
	form        *form
	settingsIdx int
	notice      string

	viewport      viewport.Model
	ready         bool
	width, height int
	refresh       time.Duration
}

// Options wires the Model's collaborators.
type Options struct {
	Client  *api.Client
	Session *session.Manager
	Prefs   *prefs.Store
	Cache   *cache.Store // nil disables offline fallback
	Log     *slog.Logger
	Refresh time.Duration
}

// New builds the initial model from persisted preferences. Malformed or
// missing preferences degrade to defaults without surfacing errors.
func New(opts Options) *Model {
	if opts.Refresh <= 0 {
		opts.Refresh = 30 * time.Second
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	p := opts.Prefs

	lang := i18n.ParseLang(p.Language())
	theme := p.Theme()

	dashHidden := viewstate.NewHiddenSet(p.GetStrings(prefs.KeyDashboardHidden))
	adminHidden := viewstate.NewHiddenSet(p.GetStrings(prefs.KeyAdminHidden))

	m := &Model{
		client:      opts.Client,
		sess:        opts.Session,
		prefs:       p,
		cache:       opts.Cache,
		log:         opts.Log,
		lang:        lang,
		theme:       theme,
		rend:        render.Renderer{Lang: lang, Styles: render.NewStyles(theme)},
		dashHidden:  dashHidden,
		adminHidden: adminHidden,
		dashActive:  viewstate.ResolveActive(viewstate.DashboardCatalog, dashHidden, p.GetString(prefs.KeyDashboardActive, "")),
		adminActive: viewstate.ResolveActive(viewstate.AdminCatalog, adminHidden, p.GetString(prefs.KeyAdminActive, "")),
		states:      make(map[string]*sectionState),
		tokens:      make(map[string]uint64),
		selected:    make(map[string]int),
		watchlist:   make(map[string]bool),
		refresh:     opts.Refresh,
	}
	return m
}

// catalog returns the panel catalog of the console in view.
func (m *Model) catalog() viewstate.Catalog {
	if m.admin {
		return viewstate.AdminCatalog
	}
	return viewstate.DashboardCatalog
}

func (m *Model) hidden() viewstate.HiddenSet {
	if m.admin {
		return m.adminHidden
	}
	return m.dashHidden
}

func (m *Model) active() string {
	if m.admin {
		return m.adminActive
	}
	return m.dashActive
}

func (m *Model) setActive(id string) {
	if m.admin {
		m.adminActive = id
		if err := m.prefs.SetString(prefs.KeyAdminActive, id); err != nil {
			m.log.Warn("persisting active tab", "error", err)
		}
		return
	}
	m.dashActive = id
	if err := m.prefs.SetString(prefs.KeyDashboardActive, id); err != nil {
		m.log.Warn("persisting active tab", "error", err)
	}
}

func (m *Model) state(id string) *sectionState {
	st, ok := m.states[id]
	if !ok {
		st = &sectionState{}
		m.states[id] = st
	}
	return st
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.refresh),
		m.probeCmd(),
		m.loadSection(m.active()),
		m.loadWatchlistSet(),
	)
}

// loadSection starts a fetch for one panel and bumps its request token. A
// response carrying an older token is ignored in Update.
func (m *Model) loadSection(id string) tea.Cmd {
	def, ok := sectionDefs[id]
	if !ok {
		return nil
	}
	m.tokens[id]++
	token := m.tokens[id]
	st := m.state(id)
	st.loading = true

	client := m.client
	cacheStore := m.cache
	log := m.log

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		payload, err := def.fetch(ctx, client)
		if err == nil {
			if def.cacheable && cacheStore != nil {
				if data, mErr := json.Marshal(payload); mErr == nil {
					if pErr := cacheStore.Put(ctx, id, data); pErr != nil {
						log.Warn("caching snapshot", "section", id, "error", pErr)
					}
				}
			}
			return sectionLoadedMsg{id: id, token: token, payload: payload}
		}

		// Server-sent errors are shown as-is. Anything else is treated as
		// off-line: fall back to the latest cached snapshot when one exists.
		var apiErr *api.Error
		if !errors.As(err, &apiErr) && def.cacheable && cacheStore != nil {
			if snap, cErr := cacheStore.Latest(ctx, id); cErr == nil && snap != nil {
				if payload, dErr := def.decode(snap.Payload); dErr == nil {
					return sectionLoadedMsg{
						id: id, token: token, payload: payload,
						stale: true, fetchedAt: snap.FetchedAt.Local().Format("2006-01-02 15:04"),
					}
				}
			}
		}
		return sectionLoadedMsg{id: id, token: token, err: err}
	}
}

func (m *Model) probeCmd() tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sess.Probe(ctx)
		return probedMsg{}
	}
}

func (m *Model) submitAuthCmd(mode session.Mode, creds api.Credentials) tea.Cmd {
	sess := m.sess
	lang := m.lang
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return authResultMsg{errText: sess.Submit(ctx, mode, lang, creds)}
	}
}

func (m *Model) logoutCmd() tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sess.Logout(ctx)
		return loggedOutMsg{}
	}
}

func (m *Model) loadWatchlistSet() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		symbols, err := client.Watchlist(ctx)
		if err != nil {
			return watchlistToggledMsg{err: err}
		}
		set := make(map[string]bool, len(symbols))
		for _, s := range symbols {
			set[s] = true
		}
		return watchlistSetMsg{symbols: set}
	}
}

type watchlistSetMsg struct {
	symbols map[string]bool
}

func (m *Model) toggleWatchlistCmd(symbol string, add bool) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		var err error
		if add {
			err = client.AddToWatchlist(ctx, symbol)
		} else {
			err = client.RemoveFromWatchlist(ctx, symbol)
		}
		return watchlistToggledMsg{symbol: symbol, added: add, err: err}
	}
}

func (m *Model) createSourceCmd(src api.Source) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		created, err := client.CreateSource(ctx, src)
		if err != nil {
			return sourceOpMsg{err: err}
		}
		return sourceOpMsg{notice: fmt.Sprintf("source %q created", created.Name)}
	}
}

func (m *Model) updateSourceCmd(src api.Source) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		updated, err := client.UpdateSource(ctx, src.ID, src)
		if err != nil {
			return sourceOpMsg{err: err}
		}
		state := "disabled"
		if updated.Enabled {
			state = "enabled"
		}
		return sourceOpMsg{notice: fmt.Sprintf("source %q %s", updated.Name, state)}
	}
}

func (m *Model) deleteSourceCmd(id int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := client.DeleteSource(ctx, id); err != nil {
			return sourceOpMsg{err: err}
		}
		return sourceOpMsg{notice: "source deleted"}
	}
}

func (m *Model) fetchSourceCmd(id int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		res, err := client.FetchSource(ctx, id)
		if err != nil {
			return sourceOpMsg{err: err}
		}
		if !res.OK {
			return sourceOpMsg{notice: "fetch failed: " + res.Error}
		}
		return sourceOpMsg{notice: fmt.Sprintf("%s: %d fetched, %d new", res.SourceName, res.ArticlesFetched, res.ArticlesNew)}
	}
}

func (m *Model) uploadReportCmd(path string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		file, err := os.Open(path)
		if err != nil {
			return sourceOpMsg{err: err}
		}
		defer file.Close()
		res, err := client.UploadReport(ctx, path, file)
		if err != nil {
			return sourceOpMsg{err: err}
		}
		return sourceOpMsg{notice: fmt.Sprintf("uploaded %s (%s)", res.Filename, res.Language)}
	}
}

func (m *Model) manualSubmitCmd(sourceName, text, path string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		sub := api.ManualSubmission{Text: text, SourceName: sourceName}
		if path != "" {
			file, err := os.Open(path)
			if err != nil {
				return sourceOpMsg{err: err}
			}
			defer file.Close()
			sub.Filename = path
			sub.File = file
		}
		res, err := client.SubmitManualSource(ctx, sub)
		if err != nil {
			return sourceOpMsg{err: err}
		}
		if !res.OK {
			return sourceOpMsg{notice: "submission failed: " + res.Error}
		}
		return sourceOpMsg{notice: fmt.Sprintf("matched %v, language %s, sentiment %s", res.SymbolsMatched, res.Language, res.Sentiment)}
	}
}
