package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/go-pharmacy/auth"
	"github.com/diewo77/go-pharmacy/internal/models"
	"github.com/diewo77/go-pharmacy/internal/pharmacy"
	"github.com/diewo77/go-pharmacy/validation"
	"github.com/rs/zerolog"
)

type ProfileHandler struct {
	api      *pharmacy.Client
	sessions *auth.Manager
	now      func() time.Time
}

func NewProfileHandler(api *pharmacy.Client, sessions *auth.Manager) *ProfileHandler {
	return &ProfileHandler{api: api, sessions: sessions, now: time.Now}
}

type profileForm struct {
	Name, Email, Address, ContactNo, DateOfBirth string
}

func profileFormFrom(u models.User) profileForm {
	f := profileForm{Name: u.Name, Email: u.Email, Address: u.Address, ContactNo: u.ContactNo}
	if u.DateOfBirth != nil {
		f.DateOfBirth = u.DateOfBirth.String()
	}
	return f
}

// Edit shows the profile form filled from the backend's current record.
func (h *ProfileHandler) Edit(w http.ResponseWriter, r *http.Request) {
	u, err := client(h.api, r).Profile(r.Context())
	if err != nil {
		fail(w, r, err, "/")
		return
	}
	render(w, r, http.StatusOK, "profile.html", map[string]any{"Form": profileFormFrom(*u)})
}

// Update sends the editable fields and refreshes the session's user snapshot.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.UserFromContext(r.Context())
	f := profileForm{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Email:       current.Email,
		Address:     strings.TrimSpace(r.FormValue("address")),
		ContactNo:   strings.TrimSpace(r.FormValue("contactNo")),
		DateOfBirth: r.FormValue("dateOfBirth"),
	}
	v := make(validation.Violations)
	validation.Required("name", f.Name, v)
	validation.Required("email", f.Email, v)
	validation.Required("address", f.Address, v)
	validation.Pattern("contactNo", f.ContactNo, validation.ContactPattern, "invalid_contact", v)
	validation.Required("dateOfBirth", f.DateOfBirth, v)
	validation.PastDate("dateOfBirth", f.DateOfBirth, h.now(), v)
	if !v.Empty() {
		render(w, r, http.StatusUnprocessableEntity, "profile.html", map[string]any{"Form": f, "Errors": v})
		return
	}

	dob, _ := models.ParseDate(f.DateOfBirth)
	u, err := client(h.api, r).UpdateProfile(r.Context(), models.ProfileUpdate{
		Name:        f.Name,
		Address:     f.Address,
		ContactNo:   f.ContactNo,
		DateOfBirth: dob,
	})
	if err != nil {
		fail(w, r, err, "/profile")
		return
	}
	if s, ok := auth.SessionFromContext(r.Context()); ok {
		s.User = *u
		if err := h.sessions.Save(r.Context(), s); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("refresh session user")
		}
	}
	done(w, r, http.StatusOK, u, "flash.profile_updated", "/profile")
}
