package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/diewo77/go-pharmacy/auth"
	"github.com/diewo77/go-pharmacy/gate"
	"github.com/diewo77/go-pharmacy/httpx"
	"github.com/diewo77/go-pharmacy/i18n"
	"github.com/diewo77/go-pharmacy/internal/middleware"
	"github.com/diewo77/go-pharmacy/internal/pharmacy"
	"github.com/diewo77/go-pharmacy/internal/services"
	"github.com/rs/zerolog"
)

// Authorizer checks the current request's user against a resource.
type Authorizer interface {
	Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error
	Can(ctx context.Context, action gate.Action, resourceType string, resource any) bool
}

// MyQuotationHandler lists and accepts the current user's quotations.
type MyQuotationHandler struct {
	api  *pharmacy.Client
	gate Authorizer
}

func NewMyQuotationHandler(api *pharmacy.Client, ag Authorizer) *MyQuotationHandler {
	return &MyQuotationHandler{api: api, gate: ag}
}

func (h *MyQuotationHandler) List(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())
	qs, err := services.NewQuotationService(client(h.api, r)).MyQuotations(r.Context(), u.ID)
	if err != nil {
		fail(w, r, err, "/")
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, qs)
		return
	}
	render(w, r, http.StatusOK, "quotations/index.html", map[string]any{"Quotations": qs})
}

func (h *MyQuotationHandler) View(w http.ResponseWriter, r *http.Request) {
	q, err := client(h.api, r).GetQuotation(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, err, "/quotations")
		return
	}
	if !h.gate.Can(r.Context(), gate.ActionView, "quotation", q) {
		http.NotFound(w, r)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, q)
		return
	}
	render(w, r, http.StatusOK, "quotations/view.html", map[string]any{
		"Quotation": q,
		"CanAccept": services.CanAccept(*q),
	})
}

// Accept approves a pending quotation owned by the current user.
func (h *MyQuotationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())
	id := r.PathValue("id")
	api := client(h.api, r)

	q, err := api.GetQuotation(r.Context(), id)
	if err != nil {
		fail(w, r, err, "/quotations")
		return
	}
	if err := h.gate.Authorize(r.Context(), gate.ActionApprove, "quotation", q); err != nil {
		zerolog.Ctx(r.Context()).Info().Str("quotation", id).Str("user", u.ID).Msg("accept refused")
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
			return
		}
		middleware.FlashError(w, r, "flash.forbidden")
		http.Redirect(w, r, "/quotations", http.StatusSeeOther)
		return
	}

	qs, err := services.NewQuotationService(api).Accept(r.Context(), q, u.ID)
	if errors.Is(err, services.ErrNotPending) {
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusConflict, "quotation_not_pending",
				i18n.T(i18n.LangFromContext(r.Context()), "flash.quotation_not_pending"))
			return
		}
		middleware.FlashError(w, r, "flash.quotation_not_pending")
		http.Redirect(w, r, "/quotations", http.StatusSeeOther)
		return
	}
	if err != nil {
		fail(w, r, err, "/quotations")
		return
	}
	done(w, r, http.StatusOK, qs, "flash.quotation_accepted", "/quotations")
}
