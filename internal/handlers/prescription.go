package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/go-pharmacy/auth"
	"github.com/diewo77/go-pharmacy/httpx"
	"github.com/diewo77/go-pharmacy/internal/blob"
	"github.com/diewo77/go-pharmacy/internal/middleware"
	"github.com/diewo77/go-pharmacy/internal/models"
	"github.com/diewo77/go-pharmacy/internal/pharmacy"
	"github.com/diewo77/go-pharmacy/internal/services"
	"github.com/diewo77/go-pharmacy/validation"
	"github.com/rs/zerolog"
)

// PrescriptionHandler serves the client home page: the prescription form,
// its draft images and the drug list.
type PrescriptionHandler struct {
	api      *pharmacy.Client
	sessions *auth.Manager
	blobs    blob.Store
	maxBytes int64
}

func NewPrescriptionHandler(api *pharmacy.Client, sessions *auth.Manager, blobs blob.Store, maxBytes int64) *PrescriptionHandler {
	return &PrescriptionHandler{api: api, sessions: sessions, blobs: blobs, maxBytes: maxBytes}
}

func (h *PrescriptionHandler) service(r *http.Request) *services.PrescriptionService {
	return services.NewPrescriptionService(client(h.api, r), h.blobs)
}

func (h *PrescriptionHandler) renderHome(w http.ResponseWriter, r *http.Request, status int, items []models.LineItem, notes string, v validation.Violations) {
	s, _ := auth.SessionFromContext(r.Context())
	drugs, err := client(h.api, r).ListDrugs(r.Context())
	data := map[string]any{
		"Rows":   formRows(items, lineRows),
		"Notes":  notes,
		"Errors": v,
	}
	if err != nil {
		if pharmacy.IsUnauthorized(err) {
			fail(w, r, err, "/login")
			return
		}
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("drug list unavailable")
		data["Error"] = pharmacy.Message(err)
	}
	set := services.NewImageSet(s.DraftImages)
	data["Drugs"] = drugs
	data["Images"] = set.URLs()
	data["ImagesFull"] = set.Full()
	data["MaxImages"] = services.MaxImages
	render(w, r, status, "home.html", data)
}

// Home renders the prescription form and the drug catalog.
func (h *PrescriptionHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.renderHome(w, r, http.StatusOK, nil, "", nil)
}

// Create submits the drafted prescription with the session's images.
func (h *PrescriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	v := make(validation.Violations)
	items := parseItems(r, v)
	notes := strings.TrimSpace(r.FormValue("notes"))
	if !v.Empty() {
		h.renderHome(w, r, http.StatusUnprocessableEntity, items, notes, v)
		return
	}
	s, _ := auth.SessionFromContext(r.Context())
	p, err := h.service(r).Create(r.Context(), items, services.NewImageSet(s.DraftImages), notes)
	if err != nil {
		if code, ok := itemsError(err); ok {
			v.Add("items", code)
			h.renderHome(w, r, http.StatusUnprocessableEntity, items, notes, v)
			return
		}
		fail(w, r, err, "/")
		return
	}
	s.DraftImages = nil
	if err := h.sessions.Save(r.Context(), s); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("clear draft images")
	}
	done(w, r, http.StatusCreated, p, "flash.prescription_created", "/")
}

// UploadImage stores one image and appends it to the session draft.
func (h *PrescriptionHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.SessionFromContext(r.Context())
	set := services.NewImageSet(s.DraftImages)
	if set.Full() {
		h.imageError(w, r, http.StatusConflict, "flash.image_limit")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		h.imageError(w, r, http.StatusRequestEntityTooLarge, "flash.image_missing")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		h.imageError(w, r, http.StatusBadRequest, "flash.image_missing")
		return
	}
	defer file.Close()

	url, err := h.service(r).UploadImage(r.Context(), set, header.Filename, file)
	switch {
	case errors.Is(err, services.ErrImageLimit):
		h.imageError(w, r, http.StatusConflict, "flash.image_limit")
		return
	case errors.Is(err, blob.ErrEmpty):
		h.imageError(w, r, http.StatusBadRequest, "flash.image_missing")
		return
	case err != nil:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("image upload")
		h.imageError(w, r, http.StatusInternalServerError, "Upload failed")
		return
	}
	s.DraftImages = set.URLs()
	if err := h.sessions.Save(r.Context(), s); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("save draft images")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	done(w, r, http.StatusCreated, map[string]any{"url": url, "images": s.DraftImages}, "flash.image_uploaded", "/")
}

// RemoveImage drops a draft image by position.
func (h *PrescriptionHandler) RemoveImage(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(r.PathValue("index"))
	s, _ := auth.SessionFromContext(r.Context())
	set := services.NewImageSet(s.DraftImages)
	if err != nil || !set.Remove(i) {
		http.NotFound(w, r)
		return
	}
	s.DraftImages = set.URLs()
	if err := h.sessions.Save(r.Context(), s); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("save draft images")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	done(w, r, http.StatusOK, map[string]any{"images": s.DraftImages}, "flash.image_removed", "/")
}

func (h *PrescriptionHandler) imageError(w http.ResponseWriter, r *http.Request, status int, code string) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, status, code, nil)
		return
	}
	middleware.FlashError(w, r, code)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
