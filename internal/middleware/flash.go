package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/diewo77/go-pharmacy/i18n"
)

const flashCookie = "flash"

// FlashMessage is a one-shot notice shown on the next rendered page.
type FlashMessage struct {
	Kind    string // success or error
	Message string
}

type flashKey struct{}

// Flash queues a translated success message. code may also be a literal text.
func Flash(w http.ResponseWriter, r *http.Request, code string) {
	setFlash(w, r, "success", code)
}

// FlashError queues a translated error message.
func FlashError(w http.ResponseWriter, r *http.Request, code string) {
	setFlash(w, r, "error", code)
}

func setFlash(w http.ResponseWriter, r *http.Request, kind, code string) {
	msg := i18n.T(i18n.LangFromContext(r.Context()), code)
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + "|" + msg),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Flashes moves a pending flash cookie into the request context and expires
// the cookie so the message is shown once.
func Flashes(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(flashCookie); err == nil && c.Value != "" {
			http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
			if raw, err := url.QueryUnescape(c.Value); err == nil {
				kind, msg, ok := strings.Cut(raw, "|")
				if !ok {
					kind, msg = "success", raw
				}
				r = r.WithContext(context.WithValue(r.Context(), flashKey{}, &FlashMessage{Kind: kind, Message: msg}))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// FlashFrom returns the flash for this request, or nil.
func FlashFrom(r *http.Request) *FlashMessage {
	f, _ := r.Context().Value(flashKey{}).(*FlashMessage)
	return f
}
