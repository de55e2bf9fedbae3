// Package i18n holds the localized user-facing message tables. English and
// Russian are supported; unknown languages and missing keys fall back to
// English so a bad language preference never blanks the UI.
package i18n

import "fmt"

// Lang is a two-letter language code.
type Lang string

const (
	EN Lang = "en"
	RU Lang = "ru"
)

// Message keys used across the UI.
const (
	ErrGeneric     = "err_generic"
	ErrNetwork     = "err_network"
	ErrRateLimited = "err_rate_limited"

	EmptyState  = "empty_state"
	StaleBanner = "stale_banner"
	RetryHint   = "retry_hint"
	PanelLocked = "panel_locked"

	LoginTitle       = "login_title"
	SignupTitle      = "signup_title"
	FieldEmail       = "field_email"
	FieldPassword    = "field_password"
	LoginSubmit      = "login_submit"
	SignupSubmit     = "signup_submit"
	LoggedInAs       = "logged_in_as"
	LoggedOut        = "logged_out"
	PasswordTooShort = "password_too_short"

	FieldRequired   = "field_required"
	FileTypeBad     = "file_type_bad"
	TextOrFileBad   = "text_or_file_bad"
	URLRequired     = "url_required"
	ChannelRequired = "channel_required"
)

var tables = map[Lang]map[string]string{
	EN: {
		ErrGeneric:     "Something went wrong",
		ErrNetwork:     "Could not reach the server",
		ErrRateLimited: "Too many attempts — please wait a minute and try again",

		EmptyState:  "No data yet",
		StaleBanner: "offline — showing cached data from %s",
		RetryHint:   "press r to retry",
		PanelLocked: "This panel cannot be hidden",

		LoginTitle:       "Sign in",
		SignupTitle:      "Create account",
		FieldEmail:       "Email",
		FieldPassword:    "Password",
		LoginSubmit:      "Sign in",
		SignupSubmit:     "Sign up",
		LoggedInAs:       "Signed in as %s",
		LoggedOut:        "Not signed in",
		PasswordTooShort: "Password must be at least %d characters",

		FieldRequired:   "%s is required",
		FileTypeBad:     "File type not allowed; allowed types: %s",
		TextOrFileBad:   "Provide text or attach a file",
		URLRequired:     "URL is required for this source type",
		ChannelRequired: "Channel is required for Telegram sources",
	},
	RU: {
		ErrGeneric:     "Что-то пошло не так",
		ErrNetwork:     "Не удалось связаться с сервером",
		ErrRateLimited: "Слишком много попыток — подождите минуту и повторите",

		EmptyState:  "Данных пока нет",
		StaleBanner: "офлайн — показаны данные из кэша от %s",
		RetryHint:   "нажмите r для повтора",
		PanelLocked: "Эту панель нельзя скрыть",

		LoginTitle:       "Вход",
		SignupTitle:      "Регистрация",
		FieldEmail:       "Эл. почта",
		FieldPassword:    "Пароль",
		LoginSubmit:      "Войти",
		SignupSubmit:     "Зарегистрироваться",
		LoggedInAs:       "Вы вошли как %s",
		LoggedOut:        "Вход не выполнен",
		PasswordTooShort: "Пароль должен быть не короче %d символов",

		FieldRequired:   "Поле «%s» обязательно",
		FileTypeBad:     "Недопустимый тип файла; допустимые типы: %s",
		TextOrFileBad:   "Введите текст или прикрепите файл",
		URLRequired:     "Для этого типа источника требуется URL",
		ChannelRequired: "Для Telegram-источников требуется канал",
	},
}

// ParseLang normalises a stored language code, defaulting to English.
func ParseLang(code string) Lang {
	switch Lang(code) {
	case RU:
		return RU
	default:
		return EN
	}
}

// T looks up key in the table for lang and formats it with args. Missing
// entries fall back to English, then to the key itself.
func T(lang Lang, key string, args ...any) string {
	msg, ok := tables[lang][key]
	if !ok {
		msg, ok = tables[EN][key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
