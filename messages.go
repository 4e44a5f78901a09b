package authlane

import (
	"errors"
	"fmt"
)

// Failure defines a public type used by authlane APIs.
//
// Failure instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// Failure is the user-facing shape of a rejected request: a localized
// message plus the HTTP-style status code the caller should respond with.
type Failure struct {
	Message string `json:"message"`
	Lang    string `json:"lang"`
	Code    int    `json:"code"`
}

const (
	failureCodeDefault  = 400
	failureCodeCatchAll = 401
	failureCodeThrottle = 429
)

type messageEntry struct {
	text string
	code int
}

// Message catalogs per language. Sentinels missing from a language fall back
// to "en"; languages missing entirely fall back to "en" as a whole.
var messageCatalog = map[string]map[error]messageEntry{
	"en": {
		ErrInvalidInput:       {text: "invalid email address", code: failureCodeDefault},
		ErrUserNotFound:       {text: "user not found", code: failureCodeDefault},
		ErrUserNotVerified:    {text: "user not verified", code: failureCodeDefault},
		ErrEmailNotVerified:   {text: "email not verified", code: failureCodeDefault},
		ErrUserNotActivated:   {text: "user not activated", code: failureCodeDefault},
		ErrLoginNotAllowed:    {text: "login not allowed", code: failureCodeDefault},
		ErrInvalidCredentials: {text: "wrong password", code: failureCodeDefault},
		ErrOTPInvalid:         {text: "wrong otp", code: failureCodeDefault},
		ErrCaptchaInvalid:     {text: "invalid captcha", code: failureCodeDefault},
		ErrSuspiciousLogin:    {text: "suspicious login detected, check your email", code: failureCodeDefault},
		ErrNoIPFound:          {text: "no ip found", code: failureCodeDefault},
		ErrRateLimited:        {text: "too many requests", code: failureCodeThrottle},
		ErrCodeNotFound:       {text: "code not found or expired", code: failureCodeDefault},
	},
}

var catalogOrder = []error{
	ErrInvalidInput,
	ErrUserNotFound,
	ErrUserNotVerified,
	ErrEmailNotVerified,
	ErrUserNotActivated,
	ErrLoginNotAllowed,
	ErrInvalidCredentials,
	ErrOTPInvalid,
	ErrCaptchaInvalid,
	ErrSuspiciousLogin,
	ErrNoIPFound,
	ErrRateLimited,
	ErrCodeNotFound,
}

// Localize describes the localize operation and its observable behavior.
//
// Localize may return an error when input validation, dependency calls, or security checks fail.
// Localize does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Unrecognized errors pass through with their raw message and the catch-all
// code.
func Localize(err error, lang string) Failure {
	if err == nil {
		return Failure{Lang: lang}
	}
	if lang == "" {
		lang = "en"
	}

	var denied *LoginDeniedError
	if errors.As(err, &denied) {
		entry, ok := lookupMessage(denied.Err, lang)
		code := failureCodeDefault
		if ok {
			code = entry.code
		}
		return Failure{Message: denied.Message, Lang: lang, Code: code}
	}

	for _, sentinel := range catalogOrder {
		if errors.Is(err, sentinel) {
			entry, _ := lookupMessage(sentinel, lang)
			return Failure{Message: entry.text, Lang: lang, Code: entry.code}
		}
	}

	return Failure{Message: err.Error(), Lang: lang, Code: failureCodeCatchAll}
}

func lookupMessage(sentinel error, lang string) (messageEntry, bool) {
	if byLang, ok := messageCatalog[lang]; ok {
		if entry, ok := byLang[sentinel]; ok {
			return entry, true
		}
	}
	entry, ok := messageCatalog["en"][sentinel]
	return entry, ok
}

func baseMessage(sentinel error, lang string) string {
	entry, ok := lookupMessage(sentinel, lang)
	if !ok {
		return sentinel.Error()
	}
	return entry.text
}

// attemptsSuffix is the lockout-policy message fragment appended to failed
// credential and OTP checks.
func attemptsSuffix(lang string, remaining int) string {
	switch {
	case remaining <= 0:
		return " - " + baseMessage(ErrLoginNotAllowed, lang)
	case remaining == 1:
		return fmt.Sprintf(" - you have %d attempt left", remaining)
	default:
		return fmt.Sprintf(" - you have %d attempts left", remaining)
	}
}
