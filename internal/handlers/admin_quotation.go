package handlers

import (
	"net/http"
	"strings"

	"github.com/diewo77/go-pharmacy/httpx"
	"github.com/diewo77/go-pharmacy/internal/models"
	"github.com/diewo77/go-pharmacy/internal/pharmacy"
	"github.com/diewo77/go-pharmacy/internal/services"
	"github.com/diewo77/go-pharmacy/validation"
	"github.com/rs/zerolog"
)

// AdminQuotationHandler is the pharmacist's quotation management.
type AdminQuotationHandler struct {
	api *pharmacy.Client
}

func NewAdminQuotationHandler(api *pharmacy.Client) *AdminQuotationHandler {
	return &AdminQuotationHandler{api: api}
}

func (h *AdminQuotationHandler) service(r *http.Request) *services.QuotationService {
	return services.NewQuotationService(client(h.api, r))
}

// List renders every quotation alongside the prescriptions a new one can
// start from.
func (h *AdminQuotationHandler) List(w http.ResponseWriter, r *http.Request) {
	ws, err := h.service(r).LoadWorkspace(r.Context())
	if err != nil && pharmacy.IsUnauthorized(err) {
		fail(w, r, err, "/login")
		return
	}
	if httpx.WantsJSON(r) {
		if err != nil {
			fail(w, r, err, "/admin")
			return
		}
		httpx.JSON(w, http.StatusOK, ws.Quotations)
		return
	}
	data := map[string]any{"Workspace": ws, "States": statesOf(ws.Quotations)}
	if err != nil {
		data["Error"] = pharmacy.Message(err)
	}
	render(w, r, http.StatusOK, "admin/quotations/index.html", data)
}

func (h *AdminQuotationHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, d services.QuotationDraft, v validation.Violations, loadErr string) {
	ws, err := h.service(r).LoadWorkspace(r.Context())
	if err != nil {
		if pharmacy.IsUnauthorized(err) {
			fail(w, r, err, "/login")
			return
		}
		loadErr = pharmacy.Message(err)
	}
	preview, perr := services.ComputeTotal(d.Items, services.NewCatalog(ws.Drugs))
	render(w, r, status, "admin/quotations/form.html", map[string]any{
		"Draft":        d,
		"Rows":         formRows(d.Items, lineRows),
		"Workspace":    ws,
		"Preview":      preview,
		"PreviewValid": perr == nil && len(d.Items) > 0,
		"Errors":       v,
		"Error":        loadErr,
	})
}

// New starts a draft, pre-filled from ?prescription=<id> when given.
func (h *AdminQuotationHandler) New(w http.ResponseWriter, r *http.Request) {
	var d services.QuotationDraft
	if pid := r.URL.Query().Get("prescription"); pid != "" {
		p, err := client(h.api, r).GetPrescription(r.Context(), pid)
		if err != nil {
			fail(w, r, err, "/admin/quotations")
			return
		}
		d = services.DraftFromPrescription(*p)
	}
	h.renderForm(w, r, http.StatusOK, d, nil, "")
}

// readDraft parses the quotation form into a draft.
func (h *AdminQuotationHandler) readDraft(r *http.Request) (services.QuotationDraft, validation.Violations) {
	v := make(validation.Violations)
	if err := r.ParseForm(); err != nil {
		v["body"] = "invalid_form"
	}
	d := services.QuotationDraft{
		ID:           r.PathValue("id"),
		Prescription: strings.TrimSpace(r.FormValue("prescription")),
		Pharmacist:   strings.TrimSpace(r.FormValue("pharmacist")),
		Client:       strings.TrimSpace(r.FormValue("client")),
	}
	d.Items = parseItems(r, v)
	// A new quotation starts from a prescription; existing ones may have none.
	if d.ID == "" && d.Prescription == "" {
		v.Add("prescription", "select_prescription")
	}
	if d.Pharmacist == "" {
		v.Add("pharmacist", "select_pharmacist")
	}
	if len(d.Items) < services.MinQuotationItems {
		v.Add("items", "too_few_items")
	}
	return d, v
}

func (h *AdminQuotationHandler) save(w http.ResponseWriter, r *http.Request, back, code string, status int) {
	d, v := h.readDraft(r)
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, d, v, "")
		return
	}
	if d.Client == "" && d.Prescription != "" {
		p, err := client(h.api, r).GetPrescription(r.Context(), d.Prescription)
		if err != nil {
			fail(w, r, err, back)
			return
		}
		d.Client = p.Client.ID
	}
	res, err := h.service(r).Save(r.Context(), d)
	if err != nil && res == nil {
		if c, ok := itemsError(err); ok {
			v.Add("items", c)
			h.renderForm(w, r, http.StatusUnprocessableEntity, d, v, "")
			return
		}
		fail(w, r, err, back)
		return
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("quotation list refresh failed")
	}
	done(w, r, status, res, code, "/admin/quotations/"+res.Quotation.ID)
}

func (h *AdminQuotationHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, "/admin/quotations/new", "flash.quotation_created", http.StatusCreated)
}

func (h *AdminQuotationHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, "/admin/quotations/"+r.PathValue("id")+"/edit", "flash.quotation_updated", http.StatusOK)
}

func (h *AdminQuotationHandler) View(w http.ResponseWriter, r *http.Request) {
	q, err := client(h.api, r).GetQuotation(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, err, "/admin/quotations")
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, q)
		return
	}
	render(w, r, http.StatusOK, "admin/quotations/view.html", map[string]any{"Quotation": q})
}

func (h *AdminQuotationHandler) Edit(w http.ResponseWriter, r *http.Request) {
	q, err := client(h.api, r).GetQuotation(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, err, "/admin/quotations")
		return
	}
	h.renderForm(w, r, http.StatusOK, services.DraftFromQuotation(*q), nil, "")
}

func (h *AdminQuotationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := client(h.api, r).DeleteQuotation(r.Context(), r.PathValue("id")); err != nil {
		fail(w, r, err, "/admin/quotations")
		return
	}
	done(w, r, http.StatusOK, map[string]string{"status": "deleted"}, "flash.quotation_deleted", "/admin/quotations")
}

// statesOf counts quotations per state for the list summary.
func statesOf(qs []models.Quotation) map[string]int {
	out := map[string]int{}
	for _, q := range qs {
		out[string(q.State)]++
	}
	return out
}
