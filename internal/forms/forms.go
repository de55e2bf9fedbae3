// Package forms validates user input client-side before any network call is
// made. Validation here is a UX convenience only; the server remains the
// authoritative validator.
package forms

import (
	"path/filepath"
	"strings"

	"augur/internal/i18n"
)

// FieldError points at the offending control with a localized message.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

// Allowed file extensions, lower-case with leading dot.
var (
	ReportExtensions     = []string{".pdf", ".docx", ".txt", ".md"}
	ManualFileExtensions = []string{".txt", ".pdf"}
)

// extAllowed reports whether the filename's extension is in allowed
// (case-insensitive).
func extAllowed(filename string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// ValidateReportUpload checks a report filename against the allowed types.
// The rejection message names the allowed extensions.
func ValidateReportUpload(lang i18n.Lang, filename string) *FieldError {
	if strings.TrimSpace(filename) == "" {
		return &FieldError{Field: "report", Message: i18n.T(lang, i18n.FieldRequired, "report")}
	}
	if !extAllowed(filename, ReportExtensions) {
		return &FieldError{Field: "report", Message: i18n.T(lang, i18n.FileTypeBad, strings.Join(ReportExtensions, ", "))}
	}
	return nil
}

// SourceForm is the input of the source create/edit form. Type discriminates
// which other fields are required.
type SourceForm struct {
	Name    string
	Type    string // rss | web | telegram
	URL     string
	Channel string
}

// ValidateSource enforces the per-type required field combinations:
// rss and web sources need a URL, telegram sources need a channel.
func ValidateSource(lang i18n.Lang, f SourceForm) *FieldError {
	if strings.TrimSpace(f.Name) == "" {
		return &FieldError{Field: "name", Message: i18n.T(lang, i18n.FieldRequired, "name")}
	}
	switch f.Type {
	case "rss", "web":
		if strings.TrimSpace(f.URL) == "" {
			return &FieldError{Field: "url", Message: i18n.T(lang, i18n.URLRequired)}
		}
	case "telegram":
		if strings.TrimSpace(f.Channel) == "" {
			return &FieldError{Field: "channel", Message: i18n.T(lang, i18n.ChannelRequired)}
		}
	default:
		return &FieldError{Field: "type", Message: i18n.T(lang, i18n.FieldRequired, "type")}
	}
	return nil
}

// ValidateManualSubmission checks the manual-source form: a source name is
// always required, and either text or an allowed file must be provided.
func ValidateManualSubmission(lang i18n.Lang, text, sourceName, filename string) *FieldError {
	if strings.TrimSpace(sourceName) == "" {
		return &FieldError{Field: "source_name", Message: i18n.T(lang, i18n.FieldRequired, "source_name")}
	}
	hasText := strings.TrimSpace(text) != ""
	hasFile := strings.TrimSpace(filename) != ""
	if !hasText && !hasFile {
		return &FieldError{Field: "text", Message: i18n.T(lang, i18n.TextOrFileBad)}
	}
	if hasFile && !extAllowed(filename, ManualFileExtensions) {
		return &FieldError{Field: "file", Message: i18n.T(lang, i18n.FileTypeBad, strings.Join(ManualFileExtensions, ", "))}
	}
	return nil
}
