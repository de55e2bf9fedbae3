package session

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"augur/internal/api"
	"augur/internal/i18n"
)

func newManager(t *testing.T, handler http.Handler) *Manager {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := api.NewClient(srv.URL, "", log)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return NewManager(client, log)
}

func TestProbeLoggedIn(t *testing.T) {
	m := newManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"email": "user@example.com"}`))
	}))

	m.Probe(context.Background())
	if !m.LoggedIn() {
		t.Fatal("LoggedIn = false after 2xx probe")
	}
	if m.User().Email != "user@example.com" {
		t.Errorf("User.Email = %q", m.User().Email)
	}
}

// A 401 from /api/auth/me means signed out, never an error surface.
func TestProbe401IsLoggedOut(t *testing.T) {
	m := newManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "no session"}`))
	}))

	m.Probe(context.Background())
	if m.LoggedIn() {
		t.Error("LoggedIn = true after 401 probe")
	}
	if m.User() != nil {
		t.Error("User non-nil after 401 probe")
	}
}

func TestProbeNetworkFailureIsLoggedOut(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := api.NewClient("http://127.0.0.1:1", "", log)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	m := NewManager(client, log)

	m.Probe(context.Background())
	if m.LoggedIn() {
		t.Error("LoggedIn = true after unreachable probe")
	}
}

func TestSubmitLoginSuccess(t *testing.T) {
	m := newManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("path = %q, want /api/auth/login", r.URL.Path)
		}
		w.Write([]byte(`{"email": "user@example.com"}`))
	}))

	msg := m.Submit(context.Background(), ModeLogin, i18n.EN, api.Credentials{Email: "user@example.com", Password: "pw"})
	if msg != "" {
		t.Fatalf("Submit returned message %q, want success", msg)
	}
	if !m.LoggedIn() {
		t.Error("LoggedIn = false after successful login")
	}
}

func TestSubmitSignupShortPasswordBlockedClientSide(t *testing.T) {
	called := false
	m := newManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	msg := m.Submit(context.Background(), ModeSignup, i18n.EN, api.Credentials{Email: "a@b.c", Password: "short"})
	if msg == "" {
		t.Fatal("short signup password accepted")
	}
	if called {
		t.Error("network call made despite client-side rejection")
	}
	if !strings.Contains(msg, "8") {
		t.Errorf("message %q does not name the minimum length", msg)
	}
}

// Login has no length check; short passwords go to the server.
func TestSubmitLoginShortPasswordGoesToServer(t *testing.T) {
	called := false
	m := newManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte(`{"email": "a@b.c"}`))
	}))

	if msg := m.Submit(context.Background(), ModeLogin, i18n.EN, api.Credentials{Email: "a@b.c", Password: "pw"}); msg != "" {
		t.Fatalf("Submit = %q, want success", msg)
	}
	if !called {
		t.Error("login with short password never reached the server")
	}
}

func TestSubmitRateLimitedDistinctMessage(t *testing.T) {
	m := newManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "rate limited"}`))
	}))

	msg := m.Submit(context.Background(), ModeLogin, i18n.EN, api.Credentials{Email: "a@b.c", Password: "password1"})
	want := i18n.T(i18n.EN, i18n.ErrRateLimited)
	if msg != want {
		t.Errorf("429 message = %q, want %q", msg, want)
	}
}

func TestSubmitServerMessageVerbatim(t *testing.T) {
	m := newManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "invalid credentials"}`))
	}))

	msg := m.Submit(context.Background(), ModeLogin, i18n.EN, api.Credentials{Email: "a@b.c", Password: "password1"})
	if msg != "invalid credentials" {
		t.Errorf("message = %q, want server text verbatim", msg)
	}
}

func TestLogoutResetsEvenOnServerError(t *testing.T) {
	m := newManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/me" {
			w.Write([]byte(`{"email": "a@b.c"}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))

	m.Probe(context.Background())
	if !m.LoggedIn() {
		t.Fatal("precondition: not logged in")
	}
	m.Logout(context.Background())
	if m.LoggedIn() {
		t.Error("LoggedIn = true after logout with server error")
	}
}
