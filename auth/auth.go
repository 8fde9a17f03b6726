package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/go-pharmacy/httpx"
	"github.com/diewo77/go-pharmacy/internal/models"
	"github.com/diewo77/go-pharmacy/internal/session"
	"github.com/rs/zerolog"
)

type ctxKey string

const (
	sessionCookieName = "session"
	sessionCtxKey     = ctxKey("session")
)

// Manager ties the signed session cookie to a session store.
type Manager struct {
	store  session.Store
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewManager returns a manager signing cookies with secret. ttl applies to
// tokens that carry no expiry of their own.
func NewManager(store session.Store, secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{store: store, secret: []byte(secret), ttl: ttl, secure: secure, now: time.Now}
}

func (m *Manager) sign(id string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// CreateSession stores a new session for token and user and sets the cookie.
func (m *Manager) CreateSession(ctx context.Context, w http.ResponseWriter, token string, user models.User) (*session.Session, error) {
	s := session.New(token, user, m.ttl, m.now())
	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    s.ID + "." + m.sign(s.ID),
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  s.ExpiresAt,
	})
	return s, nil
}

// Save persists changes to an existing session.
func (m *Manager) Save(ctx context.Context, s *session.Session) error {
	return m.store.Save(ctx, s)
}

// Destroy deletes the current session, if any, and clears the cookie.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) {
	if id, ok := m.ParseCookie(r); ok {
		if err := m.store.Delete(r.Context(), id); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("delete session")
		}
	}
	ClearSession(w)
}

// ClearSession deletes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// ParseCookie validates the cookie signature and returns the session id.
func (m *Manager) ParseCookie(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	id, sig, ok := strings.Cut(c.Value, ".")
	if !ok || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(m.sign(id))) {
		return "", false
	}
	return id, true
}

// WithSession stores the session in context.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, s)
}

// SessionFromContext returns the session attached by Middleware.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionCtxKey).(*session.Session)
	return s, ok && s != nil
}

// UserFromContext returns the logged-in user snapshot.
func UserFromContext(ctx context.Context) (models.User, bool) {
	s, ok := SessionFromContext(ctx)
	if !ok {
		return models.User{}, false
	}
	return s.User, true
}

// TokenFromContext returns the backend token of the current session.
func TokenFromContext(ctx context.Context) string {
	if s, ok := SessionFromContext(ctx); ok {
		return s.Token
	}
	return ""
}

// Middleware attaches the session to the request context if the cookie is
// valid and the session still exists.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := m.ParseCookie(r); ok {
			s, err := m.store.Get(r.Context(), id)
			switch {
			case err == nil && !s.Expired(m.now()):
				r = r.WithContext(WithSession(r.Context(), s))
			case err == nil, errors.Is(err, session.ErrNotFound):
				ClearSession(w)
			default:
				zerolog.Ctx(r.Context()).Error().Err(err).Msg("load session")
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth redirects to /login (HTML) or returns 401 JSON when the request
// has no session token.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if TokenFromContext(r.Context()) == "" {
			if httpx.WantsJSON(r) {
				httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
