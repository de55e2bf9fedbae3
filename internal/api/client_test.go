package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL, "topsecret", testLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c, srv
}

func TestServerErrorMessageVerbatim(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "db down"}`))
	}))

	_, err := c.Reports(context.Background())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("Status = %d, want 500", apiErr.Status)
	}
	if apiErr.Message != "db down" {
		t.Errorf("Message = %q, want %q", apiErr.Message, "db down")
	}
}

func TestServerErrorWithoutBody(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := c.Prices(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiErr.Message != "" {
		t.Errorf("Message = %q, want empty", apiErr.Message)
	}
	if !strings.Contains(apiErr.Error(), "502") {
		t.Errorf("Error() = %q, want status in text", apiErr.Error())
	}
}

func TestAdminSecretHeaderAndCookie(t *testing.T) {
	var gotHeader, gotCookie string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("x-admin-secret")
		if ck, err := r.Cookie("admin_secret"); err == nil {
			gotCookie = ck.Value
		}
		w.Write([]byte(`{"reports": []}`))
	}))

	if _, err := c.Reports(context.Background()); err != nil {
		t.Fatalf("Reports: %v", err)
	}
	if gotHeader != "topsecret" {
		t.Errorf("x-admin-secret = %q, want %q", gotHeader, "topsecret")
	}
	if gotCookie != "topsecret" {
		t.Errorf("admin_secret cookie = %q, want %q", gotCookie, "topsecret")
	}
}

func TestNonAdminCallOmitsSecret(t *testing.T) {
	var gotHeader string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("x-admin-secret")
		w.Write([]byte(`{"prices": []}`))
	}))

	if _, err := c.Prices(context.Background()); err != nil {
		t.Fatalf("Prices: %v", err)
	}
	if gotHeader != "" {
		t.Errorf("x-admin-secret leaked on non-admin call: %q", gotHeader)
	}
}

func TestUploadReportMultipart(t *testing.T) {
	var gotField, gotName, gotBody string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		f, hdr, err := r.FormFile("report")
		if err == nil {
			gotField = "report"
			gotName = hdr.Filename
			data, _ := io.ReadAll(f)
			gotBody = string(data)
			f.Close()
		}
		w.Write([]byte(`{"filename": "q3.pdf", "language": "en"}`))
	}))

	res, err := c.UploadReport(context.Background(), "/tmp/q3.pdf", strings.NewReader("pdfdata"))
	if err != nil {
		t.Fatalf("UploadReport: %v", err)
	}
	if gotField != "report" || gotName != "q3.pdf" || gotBody != "pdfdata" {
		t.Errorf("multipart = (%q, %q, %q), want (report, q3.pdf, pdfdata)", gotField, gotName, gotBody)
	}
	if res.Filename != "q3.pdf" || res.Language != "en" {
		t.Errorf("result = %+v", res)
	}
}

func TestSubmitManualSourceFields(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		if got := r.FormValue("text"); got != "AAPL beats estimates" {
			t.Errorf("text = %q", got)
		}
		if got := r.FormValue("source_name"); got != "analyst note" {
			t.Errorf("source_name = %q", got)
		}
		w.Write([]byte(`{"ok": true, "symbols_matched": ["AAPL"], "language": "en", "sentiment": "positive"}`))
	}))

	res, err := c.SubmitManualSource(context.Background(), ManualSubmission{
		Text:       "AAPL beats estimates",
		SourceName: "analyst note",
	})
	if err != nil {
		t.Fatalf("SubmitManualSource: %v", err)
	}
	if !res.OK || len(res.SymbolsMatched) != 1 || res.SymbolsMatched[0] != "AAPL" {
		t.Errorf("result = %+v", res)
	}
}

func TestSessionCookiePersistsAcrossCalls(t *testing.T) {
	var sawSession bool
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
		w.Write([]byte(`{"email": "a@b.c"}`))
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("session"); err == nil && ck.Value == "abc" {
			sawSession = true
			w.Write([]byte(`{"email": "a@b.c"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "no session"}`))
	})
	c, _ := newTestClient(t, mux)

	if _, err := c.Login(context.Background(), Credentials{Email: "a@b.c", Password: "pw"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("Me after login: %v", err)
	}
	if !sawSession {
		t.Error("session cookie not echoed on second call")
	}
}

func TestNetworkErrorIsNotAPIError(t *testing.T) {
	c, err := NewClient("http://127.0.0.1:1", "", testLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = c.Prices(context.Background())
	if err == nil {
		t.Fatal("expected network error")
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		t.Errorf("network failure mapped to *Error: %v", err)
	}
}
