package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/go-pharmacy/auth"
	"github.com/diewo77/go-pharmacy/httpx"
	"github.com/diewo77/go-pharmacy/internal/middleware"
	"github.com/diewo77/go-pharmacy/internal/models"
	"github.com/diewo77/go-pharmacy/internal/pharmacy"
	"github.com/diewo77/go-pharmacy/validation"
	"github.com/rs/zerolog"
)

type AuthHandler struct {
	api      *pharmacy.Client
	sessions *auth.Manager
	now      func() time.Time
}

func NewAuthHandler(api *pharmacy.Client, sessions *auth.Manager) *AuthHandler {
	return &AuthHandler{api: api, sessions: sessions, now: time.Now}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if u, ok := auth.UserFromContext(r.Context()); ok {
			http.Redirect(w, r, u.HomePath(), http.StatusSeeOther)
			return
		}
		render(w, r, http.StatusOK, "login.html", nil)
		return
	}

	cred := models.Credentials{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	v := make(validation.Violations)
	validation.Required("email", cred.Email, v)
	validation.Email("email", cred.Email, v)
	validation.Required("password", cred.Password, v)
	validation.MinLength("password", cred.Password, 6, "password_min_6", v)
	if !v.Empty() {
		render(w, r, http.StatusUnprocessableEntity, "login.html", map[string]any{"Email": cred.Email, "Errors": v})
		return
	}

	res, err := h.api.Login(r.Context(), cred)
	if err != nil {
		zerolog.Ctx(r.Context()).Info().Err(err).Msg("login rejected")
		status := pharmacy.StatusCode(err)
		if status == 0 {
			status = http.StatusBadGateway
		}
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, status, pharmacy.Message(err), nil)
			return
		}
		render(w, r, status, "login.html", map[string]any{"Email": cred.Email, "Error": pharmacy.Message(err)})
		return
	}
	user := res.User
	if user == nil {
		if user, err = h.api.WithToken(res.AccessToken).Profile(r.Context()); err != nil {
			fail(w, r, err, "/login")
			return
		}
	}
	if _, err := h.sessions.CreateSession(r.Context(), w, res.AccessToken, *user); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("create session")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	zerolog.Ctx(r.Context()).Info().Str("user", user.ID).Str("type", string(user.UserType)).Msg("login")
	done(w, r, http.StatusOK, user, "flash.login_ok", user.HomePath())
}

// registrationForm holds the raw register fields so the form can be re-rendered.
type registrationForm struct {
	Name, Email, Password, Confirm, Address, ContactNo, DateOfBirth string
}

func (f registrationForm) validate(now time.Time) validation.Violations {
	v := make(validation.Violations)
	validation.Required("name", f.Name, v)
	validation.MinLength("name", f.Name, 2, "too_short", v)
	validation.Required("email", f.Email, v)
	validation.Email("email", f.Email, v)
	validation.Required("password", f.Password, v)
	validation.MinLength("password", f.Password, 8, "password_min_8", v)
	validation.StrongPassword("password", f.Password, v)
	validation.Required("confirm", f.Confirm, v)
	validation.Match("confirm", f.Password, f.Confirm, v)
	validation.Required("address", f.Address, v)
	validation.Required("contactNo", f.ContactNo, v)
	validation.TenDigits("contactNo", f.ContactNo, v)
	validation.Required("dateOfBirth", f.DateOfBirth, v)
	validation.PastDate("dateOfBirth", f.DateOfBirth, now, v)
	return v
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		render(w, r, http.StatusOK, "register.html", map[string]any{"Form": registrationForm{}})
		return
	}
	f := registrationForm{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Email:       strings.TrimSpace(r.FormValue("email")),
		Password:    r.FormValue("password"),
		Confirm:     r.FormValue("confirm"),
		Address:     strings.TrimSpace(r.FormValue("address")),
		ContactNo:   strings.TrimSpace(r.FormValue("contactNo")),
		DateOfBirth: r.FormValue("dateOfBirth"),
	}
	if v := f.validate(h.now()); !v.Empty() {
		f.Password, f.Confirm = "", ""
		render(w, r, http.StatusUnprocessableEntity, "register.html", map[string]any{"Form": f, "Errors": v})
		return
	}
	dob, _ := models.ParseDate(f.DateOfBirth)
	u, err := h.api.Register(r.Context(), models.Registration{
		Name:        f.Name,
		Email:       f.Email,
		Password:    f.Password,
		Address:     f.Address,
		ContactNo:   f.ContactNo,
		DateOfBirth: dob,
		UserType:    models.UserTypeClient,
	})
	if err != nil {
		f.Password, f.Confirm = "", ""
		status := pharmacy.StatusCode(err)
		if status == 0 {
			status = http.StatusBadGateway
		}
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, status, pharmacy.Message(err), nil)
			return
		}
		render(w, r, status, "register.html", map[string]any{"Form": f, "Error": pharmacy.Message(err)})
		return
	}
	zerolog.Ctx(r.Context()).Info().Str("user", u.ID).Msg("registered")
	done(w, r, http.StatusCreated, u, "flash.register_ok", "/login")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Destroy(w, r)
	middleware.Flash(w, r, "flash.logout_ok")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
