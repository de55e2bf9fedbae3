// Package prefs persists user preferences (theme, language, hidden panels,
// the admin secret) as a JSON key-value file under the user config dir.
// Reads never fail: an absent, unreadable, or malformed value degrades to the
// caller-supplied default. Writes are synchronous and atomic.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
)

// Preference keys. The hidden/active keys exist once per panel catalog.
const (
	KeyTheme    = "theme"
	KeyLanguage = "language"

	KeyAdminHidden     = "admin_hidden_tabs"
	KeyAdminActive     = "admin_active_tab"
	KeyDashboardHidden = "dashboard_hidden_tabs"
	KeyDashboardActive = "dashboard_active_tab"

	KeyDismissedHints = "dismissed_hints"

	// Fallback slot for the admin secret when no OS keyring is available.
	keyAdminSecret = "admin_secret"
)

const (
	keyringService = "augur"
	keyringUser    = "admin-secret"
)

// Store reads and writes preferences at a fixed file path.
type Store struct {
	path string

	// noKeyring forces the file fallback for the admin secret (tests).
	noKeyring bool
}

// NewStore creates a Store rooted at path. The file is created lazily on the
// first save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the preferences path under the user config dir, e.g.
// ~/.config/augur/prefs.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "augur", "prefs.json"), nil
}

// load reads the whole file into a raw key map. Any failure — missing file,
// bad JSON — yields an empty map.
func (s *Store) load() map[string]json.RawMessage {
	m := make(map[string]json.RawMessage)
	data, err := os.ReadFile(s.path)
	if err != nil {
		return m
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return make(map[string]json.RawMessage)
	}
	return m
}

// save writes the key map atomically (temp file + rename).
func (s *Store) save(m map[string]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// GetString returns the string stored under key, or def when the key is
// absent or holds a non-string value.
func (s *Store) GetString(key, def string) string {
	raw, ok := s.load()[key]
	if !ok {
		return def
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return def
	}
	return v
}

// SetString stores a string under key.
func (s *Store) SetString(key, value string) error {
	m := s.load()
	raw, _ := json.Marshal(value)
	m[key] = raw
	return s.save(m)
}

// GetStrings returns the string list stored under key. An absent or
// malformed value yields an empty list.
func (s *Store) GetStrings(key string) []string {
	raw, ok := s.load()[key]
	if !ok {
		return nil
	}
	var v []string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// SetStrings stores a string list under key.
func (s *Store) SetStrings(key string, values []string) error {
	m := s.load()
	if values == nil {
		values = []string{}
	}
	raw, _ := json.Marshal(values)
	m[key] = raw
	return s.save(m)
}

// Delete removes a key. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	m := s.load()
	if _, ok := m[key]; !ok {
		return nil
	}
	delete(m, key)
	return s.save(m)
}

// Theme returns the stored theme, defaulting to "dark".
func (s *Store) Theme() string { return s.GetString(KeyTheme, "dark") }

// Language returns the stored language code, defaulting to "en".
func (s *Store) Language() string { return s.GetString(KeyLanguage, "en") }

// DismissHint records a hint id as dismissed. Duplicate dismissals collapse.
func (s *Store) DismissHint(id string) error {
	hints := s.GetStrings(KeyDismissedHints)
	for _, h := range hints {
		if h == id {
			return nil
		}
	}
	return s.SetStrings(KeyDismissedHints, append(hints, id))
}

// HintDismissed reports whether a hint id was dismissed before.
func (s *Store) HintDismissed(id string) bool {
	for _, h := range s.GetStrings(KeyDismissedHints) {
		if h == id {
			return true
		}
	}
	return false
}

// AdminSecret returns the stored admin secret, preferring the OS keyring and
// falling back to the prefs file. Empty string means no secret is stored.
func (s *Store) AdminSecret() string {
	if !s.noKeyring {
		if v, err := keyring.Get(keyringService, keyringUser); err == nil {
			return v
		}
	}
	return s.GetString(keyAdminSecret, "")
}

// SetAdminSecret stores the admin secret in the OS keyring when possible,
// otherwise in the prefs file.
func (s *Store) SetAdminSecret(secret string) error {
	if !s.noKeyring {
		if err := keyring.Set(keyringService, keyringUser, secret); err == nil {
			// Drop any stale file copy so the keyring is authoritative.
			return s.Delete(keyAdminSecret)
		}
	}
	return s.SetString(keyAdminSecret, secret)
}

// ClearAdminSecret removes the admin secret from both storage locations.
func (s *Store) ClearAdminSecret() error {
	if !s.noKeyring {
		_ = keyring.Delete(keyringService, keyringUser)
	}
	return s.Delete(keyAdminSecret)
}
