package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/diewo77/go-pharmacy/internal/models"
	"github.com/diewo77/go-pharmacy/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu sync.Mutex
	m  map[string]session.Session
}

func newMemStore() *memStore { return &memStore{m: map[string]session.Session{}} }

func (s *memStore) Get(_ context.Context, id string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return &v, nil
}

func (s *memStore) Save(_ context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sess.ID] = *sess
	return nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}

func login(t *testing.T, m *Manager) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	_, err := m.CreateSession(context.Background(), rec, "backend-token", models.User{ID: "u1", Name: "Kamala", UserType: models.UserTypeClient})
	require.NoError(t, err)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestMiddlewareAttachesSession(t *testing.T) {
	m := NewManager(newMemStore(), "secret", time.Hour, false)
	cookie := login(t, m)

	var got models.User
	var token string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserFromContext(r.Context())
		token = TokenFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "Kamala", got.Name)
	assert.Equal(t, "backend-token", token)
}

func TestTamperedCookieIgnored(t *testing.T) {
	m := NewManager(newMemStore(), "secret", time.Hour, false)
	cookie := login(t, m)
	cookie.Value = "other-id" + cookie.Value[len(cookie.Value)-44:]

	_, ok := m.ParseCookie(func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		return req
	}())
	assert.False(t, ok)

	other := NewManager(newMemStore(), "different", time.Hour, false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(login(t, m))
	_, ok = other.ParseCookie(req)
	assert.False(t, ok)
}

func TestRequireAuth(t *testing.T) {
	m := NewManager(newMemStore(), "secret", time.Hour, false)
	reached := false
	h := m.Middleware(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	})))

	t.Run("anonymous html redirects", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/quotations", nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
		assert.False(t, reached)
	})

	t.Run("anonymous json is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/quotations", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
	})

	t.Run("logged in passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/quotations", nil)
		req.AddCookie(login(t, m))
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.True(t, reached)
	})
}

func TestDestroyDeletesSession(t *testing.T) {
	store := newMemStore()
	m := NewManager(store, "secret", time.Hour, false)
	cookie := login(t, m)
	require.Len(t, store.m, 1)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	m.Destroy(rec, req)

	assert.Empty(t, store.m)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, "", cleared[0].Value)
}

func TestExpiredSessionIsCleared(t *testing.T) {
	store := newMemStore()
	m := NewManager(store, "secret", time.Hour, false)
	cookie := login(t, m)
	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	var attached bool
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, attached = SessionFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.False(t, attached)
	require.NotEmpty(t, rec.Result().Cookies())
}
