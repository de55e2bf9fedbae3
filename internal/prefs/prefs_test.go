package prefs

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "prefs.json"))
	s.noKeyring = true
	return s
}

func TestStringRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if got := s.GetString(KeyTheme, "dark"); got != "dark" {
		t.Errorf("default theme = %q, want %q", got, "dark")
	}
	if err := s.SetString(KeyTheme, "light"); err != nil {
		t.Fatalf("SetString: %v", err)
	}
	if got := s.GetString(KeyTheme, "dark"); got != "light" {
		t.Errorf("theme = %q, want %q", got, "light")
	}
}

func TestStringsRoundTrip(t *testing.T) {
	s := newTestStore(t)

	hidden := []string{"kb", "telegram"}
	if err := s.SetStrings(KeyAdminHidden, hidden); err != nil {
		t.Fatalf("SetStrings: %v", err)
	}
	if got := s.GetStrings(KeyAdminHidden); !reflect.DeepEqual(got, hidden) {
		t.Errorf("GetStrings = %v, want %v", got, hidden)
	}
}

func TestCorruptFileDegradesToDefaults(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.path, []byte("{not json!!"), 0o600); err != nil {
		t.Fatal(err)
	}

	if got := s.GetString(KeyLanguage, "en"); got != "en" {
		t.Errorf("language from corrupt file = %q, want default %q", got, "en")
	}
	if got := s.GetStrings(KeyAdminHidden); len(got) != 0 {
		t.Errorf("hidden set from corrupt file = %v, want empty", got)
	}

	// Saving over a corrupt file recovers it.
	if err := s.SetString(KeyLanguage, "ru"); err != nil {
		t.Fatalf("SetString over corrupt file: %v", err)
	}
	if got := s.GetString(KeyLanguage, "en"); got != "ru" {
		t.Errorf("language after recovery = %q, want %q", got, "ru")
	}
}

func TestCorruptValueDegradesPerKey(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		t.Fatal(err)
	}
	// hidden set stored as a number instead of a list; theme intact.
	body := []byte(`{"admin_hidden_tabs": 42, "theme": "light"}`)
	if err := os.WriteFile(s.path, body, 0o600); err != nil {
		t.Fatal(err)
	}

	if got := s.GetStrings(KeyAdminHidden); len(got) != 0 {
		t.Errorf("malformed hidden set = %v, want empty", got)
	}
	if got := s.GetString(KeyTheme, "dark"); got != "light" {
		t.Errorf("theme alongside malformed key = %q, want %q", got, "light")
	}
}

func TestDismissedHints(t *testing.T) {
	s := newTestStore(t)

	if s.HintDismissed("welcome") {
		t.Error("hint dismissed before any dismissal")
	}
	if err := s.DismissHint("welcome"); err != nil {
		t.Fatalf("DismissHint: %v", err)
	}
	if err := s.DismissHint("welcome"); err != nil {
		t.Fatalf("DismissHint repeat: %v", err)
	}
	if !s.HintDismissed("welcome") {
		t.Error("hint not dismissed after DismissHint")
	}
	if got := s.GetStrings(KeyDismissedHints); len(got) != 1 {
		t.Errorf("dismissed hints = %v, want single entry", got)
	}
}

func TestAdminSecretFileFallback(t *testing.T) {
	s := newTestStore(t)

	if got := s.AdminSecret(); got != "" {
		t.Errorf("secret before set = %q, want empty", got)
	}
	if err := s.SetAdminSecret("s3cret"); err != nil {
		t.Fatalf("SetAdminSecret: %v", err)
	}
	if got := s.AdminSecret(); got != "s3cret" {
		t.Errorf("secret = %q, want %q", got, "s3cret")
	}
	if err := s.ClearAdminSecret(); err != nil {
		t.Fatalf("ClearAdminSecret: %v", err)
	}
	if got := s.AdminSecret(); got != "" {
		t.Errorf("secret after clear = %q, want empty", got)
	}
}
