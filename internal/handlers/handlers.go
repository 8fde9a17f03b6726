// Package handlers serves the console pages. Handlers never hold a backend
// token themselves: every request gets a client carrying the session token.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/go-pharmacy/auth"
	"github.com/diewo77/go-pharmacy/httpx"
	"github.com/diewo77/go-pharmacy/internal/middleware"
	"github.com/diewo77/go-pharmacy/internal/models"
	"github.com/diewo77/go-pharmacy/internal/pharmacy"
	"github.com/diewo77/go-pharmacy/internal/services"
	"github.com/diewo77/go-pharmacy/validation"
	"github.com/diewo77/go-pharmacy/view"
	"github.com/rs/zerolog"
)

// lineRows is how many drug rows the item forms offer.
const lineRows = 10

// LineRow is one row of a drug/quantity form.
type LineRow struct {
	DrugID   string
	Quantity int
}

// formRows pads items to n editable rows.
func formRows(items []models.LineItem, n int) []LineRow {
	if len(items) > n {
		n = len(items)
	}
	rows := make([]LineRow, n)
	for i, it := range items {
		rows[i] = LineRow{DrugID: it.Drug.ID, Quantity: it.Quantity}
	}
	return rows
}

// parseItems reads the parallel drug/quantity form fields. Rows without a
// drug are skipped. A missing quantity counts as 1.
func parseItems(r *http.Request, v validation.Violations) []models.LineItem {
	drugs := r.Form["drug"]
	qtys := r.Form["quantity"]
	var items []models.LineItem
	for i, id := range drugs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		q := 1
		if i < len(qtys) && strings.TrimSpace(qtys[i]) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(qtys[i]))
			if err != nil {
				n = 0
			}
			validation.PositiveInt("items", n, v)
			q = max(n, 1)
		}
		items = append(items, models.LineItem{Drug: models.RefTo[models.Drug](id), Quantity: q})
	}
	if len(items) > services.MaxQuotationItems {
		v.Add("items", "too_many_items")
	}
	return items
}

// client returns the backend client bound to the session token.
func client(api *pharmacy.Client, r *http.Request) *pharmacy.Client {
	return api.WithToken(auth.TokenFromContext(r.Context()))
}

// itemsError maps a line item rule to its form code.
func itemsError(err error) (string, bool) {
	switch {
	case errors.Is(err, services.ErrLineItemCount):
		return "too_few_items", true
	case errors.Is(err, services.ErrInvalidQuantity):
		return "must_be_positive", true
	case errors.Is(err, services.ErrUnknownDrug):
		return "flash.unknown_drug", true
	}
	return "", false
}

// fail reports a backend error. An expired token ends the session; JSON
// callers get the backend status and message, pages get a flash and a
// redirect to back.
func fail(w http.ResponseWriter, r *http.Request, err error, back string) {
	zerolog.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("backend call failed")
	status := pharmacy.StatusCode(err)
	if status == 0 {
		status = http.StatusBadGateway
	}
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, status, pharmacy.Message(err), nil)
		return
	}
	if pharmacy.IsUnauthorized(err) {
		auth.ClearSession(w)
		middleware.FlashError(w, r, "flash.session_expired")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if pharmacy.IsNotFound(err) && r.Method == http.MethodGet {
		http.NotFound(w, r)
		return
	}
	middleware.FlashError(w, r, pharmacy.Message(err))
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// done finishes a successful mutation: JSON callers get payload, pages get a
// flash and a redirect.
func done(w http.ResponseWriter, r *http.Request, status int, payload any, code, next string) {
	if httpx.WantsJSON(r) {
		httpx.JSON(w, status, payload)
		return
	}
	middleware.Flash(w, r, code)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// render writes a page. A form with violations answers JSON callers with a
// 422 body instead of HTML.
func render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if v, ok := data["Errors"].(validation.Violations); ok && !v.Empty() && httpx.WantsJSON(r) {
		httpx.JSONError(w, status, "validation", v)
		return
	}
	if err := view.RenderStatus(w, r, status, name, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("render failed")
	}
}
