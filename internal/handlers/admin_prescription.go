package handlers

import (
	"net/http"
	"strings"

	"github.com/diewo77/go-pharmacy/httpx"
	"github.com/diewo77/go-pharmacy/internal/models"
	"github.com/diewo77/go-pharmacy/internal/pharmacy"
)

// AdminPrescriptionHandler manages submitted prescriptions.
type AdminPrescriptionHandler struct {
	api *pharmacy.Client
}

func NewAdminPrescriptionHandler(api *pharmacy.Client) *AdminPrescriptionHandler {
	return &AdminPrescriptionHandler{api: api}
}

func (h *AdminPrescriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	ps, err := client(h.api, r).ListPrescriptions(r.Context())
	if err != nil {
		fail(w, r, err, "/admin")
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, ps)
		return
	}
	render(w, r, http.StatusOK, "admin/prescriptions/index.html", map[string]any{
		"Prescriptions": ps,
		"Statuses":      []models.PrescriptionStatus{models.PrescriptionOpen, models.PrescriptionClosed},
	})
}

// UpdateStatus changes a prescription's status from the list's select.
func (h *AdminPrescriptionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	status := models.PrescriptionStatus(strings.TrimSpace(r.FormValue("status")))
	if !status.Valid() {
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusUnprocessableEntity, "validation", map[string]string{"status": "invalid_status"})
			return
		}
		http.Error(w, "Unknown status", http.StatusUnprocessableEntity)
		return
	}
	patch := models.PrescriptionPatch{Status: status, Notes: strings.TrimSpace(r.FormValue("notes"))}
	p, err := client(h.api, r).UpdatePrescription(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		fail(w, r, err, "/admin/prescriptions")
		return
	}
	done(w, r, http.StatusOK, p, "flash.prescription_updated", "/admin/prescriptions")
}

func (h *AdminPrescriptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := client(h.api, r).DeletePrescription(r.Context(), r.PathValue("id")); err != nil {
		fail(w, r, err, "/admin/prescriptions")
		return
	}
	done(w, r, http.StatusOK, map[string]string{"status": "deleted"}, "flash.prescription_deleted", "/admin/prescriptions")
}

// Images shows the uploaded images of one prescription.
func (h *AdminPrescriptionHandler) Images(w http.ResponseWriter, r *http.Request) {
	p, err := client(h.api, r).GetPrescription(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, err, "/admin/prescriptions")
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, p.Images)
		return
	}
	render(w, r, http.StatusOK, "admin/prescriptions/images.html", map[string]any{"Prescription": p})
}
