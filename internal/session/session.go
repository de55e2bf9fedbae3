// Package session mirrors the server-side login session into client state.
// The server is the source of truth; this is only a display-oriented mirror
// refreshed by probing /api/auth/me.
package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"augur/internal/api"
	"augur/internal/i18n"
)

// Mode selects between the login and signup variants of the shared form.
// Only labels, the submitted endpoint, and the signup password-length check
// differ.
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

// MinPasswordLen is the client-side minimum enforced on signup only.
const MinPasswordLen = 8

// Manager tracks whether the user is signed in.
type Manager struct {
	client *api.Client
	log    *slog.Logger

	loggedIn bool
	user     *api.User
}

// NewManager creates a Manager around the given API client.
func NewManager(client *api.Client, log *slog.Logger) *Manager {
	return &Manager{client: client, log: log}
}

// LoggedIn reports the mirrored login state.
func (m *Manager) LoggedIn() bool { return m.loggedIn }

// User returns the signed-in user, or nil.
func (m *Manager) User() *api.User { return m.user }

// Probe refreshes the mirror from /api/auth/me. A 2xx marks the user signed
// in; any failure — 401, 500, network — marks them signed out. The two are
// indistinguishable to the user, so Probe never returns an error.
func (m *Manager) Probe(ctx context.Context) {
	user, err := m.client.Me(ctx)
	if err != nil {
		m.loggedIn = false
		m.user = nil
		m.log.Debug("session probe: signed out", "reason", err)
		return
	}
	m.loggedIn = true
	m.user = user
}

// Submit runs the shared login/signup form. It returns a localized message
// key suitable for inline display when the attempt fails; empty string means
// success. Signup enforces the minimum password length before any request.
func (m *Manager) Submit(ctx context.Context, mode Mode, lang i18n.Lang, creds api.Credentials) string {
	if mode == ModeSignup && len(creds.Password) < MinPasswordLen {
		return i18n.T(lang, i18n.PasswordTooShort, MinPasswordLen)
	}

	var (
		user *api.User
		err  error
	)
	if mode == ModeSignup {
		user, err = m.client.Signup(ctx, creds)
	} else {
		user, err = m.client.Login(ctx, creds)
	}
	if err != nil {
		m.loggedIn = false
		m.user = nil
		return failureMessage(lang, err)
	}

	m.loggedIn = true
	m.user = user
	return ""
}

// Logout ends the server session and resets the mirror. The mirror is reset
// even when the request fails; a dangling server session expires on its own.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.client.Logout(ctx); err != nil {
		m.log.Warn("logout request failed", "error", err)
	}
	m.loggedIn = false
	m.user = nil
}

// failureMessage maps an auth failure to a localized message. Rate limiting
// gets its own message; server-reported messages show verbatim; everything
// else collapses to the generic text.
func failureMessage(lang i18n.Lang, err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if apiErr.Status == http.StatusTooManyRequests {
			return i18n.T(lang, i18n.ErrRateLimited)
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return i18n.T(lang, i18n.ErrGeneric)
	}
	return i18n.T(lang, i18n.ErrNetwork)
}
