package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/diewo77/go-pharmacy/internal/export"
	"github.com/diewo77/go-pharmacy/internal/pharmacy"
	"github.com/rs/zerolog"
)

// ExportHandler streams XLSX workbooks of backend lists.
type ExportHandler struct {
	api *pharmacy.Client
	now func() time.Time
}

func NewExportHandler(api *pharmacy.Client) *ExportHandler {
	return &ExportHandler{api: api, now: time.Now}
}

func (h *ExportHandler) write(w http.ResponseWriter, r *http.Request, name string, body []byte, err error) {
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("export", name).Msg("build workbook")
		http.Error(w, "Export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-%s.xlsx"`, name, h.now().Format("20060102")))
	_, _ = w.Write(body)
}

func (h *ExportHandler) Drugs(w http.ResponseWriter, r *http.Request) {
	drugs, err := client(h.api, r).ListDrugs(r.Context())
	if err != nil {
		fail(w, r, err, "/admin/drugs")
		return
	}
	body, err := export.Drugs(drugs)
	h.write(w, r, "drugs", body, err)
}

func (h *ExportHandler) Quotations(w http.ResponseWriter, r *http.Request) {
	qs, err := client(h.api, r).ListQuotations(r.Context())
	if err != nil {
		fail(w, r, err, "/admin/quotations")
		return
	}
	body, err := export.Quotations(qs)
	h.write(w, r, "quotations", body, err)
}
