package tui

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"augur/internal/api"
	"augur/internal/forms"
	"augur/internal/i18n"
	"augur/internal/session"
)

// form is a vertical stack of labeled text inputs with client-side
// validation. Validation runs before submit builds its command; a non-empty
// message keeps the form open with the message shown inline.
type form struct {
	title       string
	labels      []string
	inputs      []textinput.Model
	focus       int
	errText     string
	submitLabel string
	validate    func(values []string, lang i18n.Lang) string
	submit      func(values []string) tea.Cmd
}

func newForm(title string, labels []string, secret map[int]bool) *form {
	inputs := make([]textinput.Model, len(labels))
	for i := range labels {
		in := textinput.New()
		in.CharLimit = 256
		if secret[i] {
			in.EchoMode = textinput.EchoPassword
		}
		inputs[i] = in
	}
	if len(inputs) > 0 {
		inputs[0].Focus()
	}
	return &form{title: title, labels: labels, inputs: inputs}
}

func (f *form) values() []string {
	vals := make([]string, len(f.inputs))
	for i := range f.inputs {
		vals[i] = strings.TrimSpace(f.inputs[i].Value())
	}
	return vals
}

func (f *form) setFocus(idx int) {
	for i := range f.inputs {
		if i == idx {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	f.focus = idx
}

// update handles one key. The second return is non-nil when the form
// submitted; the caller closes the form and runs the command.
func (f *form) update(msg tea.KeyMsg, lang i18n.Lang) (tea.Cmd, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		f.setFocus((f.focus + 1) % len(f.inputs))
		return nil, nil
	case "shift+tab", "up":
		f.setFocus((f.focus + len(f.inputs) - 1) % len(f.inputs))
		return nil, nil
	case "enter":
		if f.focus < len(f.inputs)-1 {
			f.setFocus(f.focus + 1)
			return nil, nil
		}
		vals := f.values()
		if f.validate != nil {
			if msg := f.validate(vals, lang); msg != "" {
				f.errText = msg
				return nil, nil
			}
		}
		f.errText = ""
		return nil, f.submit(vals)
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd, nil
}

// --- form constructors ---

func (m *Model) loginForm(mode session.Mode) *form {
	title := i18n.T(m.lang, i18n.LoginTitle)
	submitLabel := i18n.T(m.lang, i18n.LoginSubmit)
	if mode == session.ModeSignup {
		title = i18n.T(m.lang, i18n.SignupTitle)
		submitLabel = i18n.T(m.lang, i18n.SignupSubmit)
	}
	f := newForm(title,
		[]string{i18n.T(m.lang, i18n.FieldEmail), i18n.T(m.lang, i18n.FieldPassword)},
		map[int]bool{1: true})
	f.submitLabel = submitLabel
	f.submit = func(vals []string) tea.Cmd {
		return m.submitAuthCmd(mode, api.Credentials{Email: vals[0], Password: vals[1]})
	}
	return f
}

func (m *Model) adminSecretForm() *form {
	f := newForm("Admin secret", []string{"Secret"}, map[int]bool{0: true})
	f.validate = func(vals []string, lang i18n.Lang) string {
		if vals[0] == "" {
			return i18n.T(lang, i18n.FieldRequired, "Secret")
		}
		return ""
	}
	f.submit = func(vals []string) tea.Cmd {
		return func() tea.Msg { return adminSecretMsg{secret: vals[0]} }
	}
	return f
}

func (m *Model) sourceForm() *form {
	f := newForm("New source", []string{"Name", "Type (rss|web|telegram)", "URL", "Channel"}, nil)
	f.validate = func(vals []string, lang i18n.Lang) string {
		if err := forms.ValidateSource(lang, forms.SourceForm{
			Name: vals[0], Type: vals[1], URL: vals[2], Channel: vals[3],
		}); err != nil {
			return err.Message
		}
		return ""
	}
	f.submit = func(vals []string) tea.Cmd {
		src := api.Source{Name: vals[0], Type: vals[1], URL: vals[2], Channel: vals[3], Enabled: true}
		return m.createSourceCmd(src)
	}
	return f
}

func (m *Model) uploadForm() *form {
	f := newForm("Upload report", []string{"File path"}, nil)
	f.validate = func(vals []string, lang i18n.Lang) string {
		if vals[0] == "" {
			return i18n.T(lang, i18n.FieldRequired, "File path")
		}
		if err := forms.ValidateReportUpload(lang, filepath.Base(vals[0])); err != nil {
			return err.Message
		}
		if _, err := os.Stat(vals[0]); err != nil {
			return err.Error()
		}
		return ""
	}
	f.submit = func(vals []string) tea.Cmd {
		return m.uploadReportCmd(vals[0])
	}
	return f
}

func (m *Model) manualForm() *form {
	f := newForm("Manual submission", []string{"Source name", "Text", "File path (optional)"}, nil)
	f.validate = func(vals []string, lang i18n.Lang) string {
		filename := ""
		if vals[2] != "" {
			filename = filepath.Base(vals[2])
			if _, err := os.Stat(vals[2]); err != nil {
				return err.Error()
			}
		}
		if err := forms.ValidateManualSubmission(lang, vals[1], vals[0], filename); err != nil {
			return err.Message
		}
		return ""
	}
	f.submit = func(vals []string) tea.Cmd {
		return m.manualSubmitCmd(vals[0], vals[1], vals[2])
	}
	return f
}
