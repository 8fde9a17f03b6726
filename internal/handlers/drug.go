package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/go-pharmacy/httpx"
	"github.com/diewo77/go-pharmacy/internal/models"
	"github.com/diewo77/go-pharmacy/internal/pharmacy"
	"github.com/diewo77/go-pharmacy/validation"
)

type DrugHandler struct {
	api *pharmacy.Client
}

func NewDrugHandler(api *pharmacy.Client) *DrugHandler {
	return &DrugHandler{api: api}
}

type drugForm struct {
	ID             string
	Name           string  `json:"name"`
	Amount         float64 `json:"amount"`
	Unit           string  `json:"unit"`
	IsAvailable    bool    `json:"isAvailable"`
	ExpirationDate string  `json:"expirationDate"`
	Description    string  `json:"description"`
}

func drugFormFrom(d models.Drug) drugForm {
	f := drugForm{ID: d.ID, Name: d.Name, Amount: d.Amount, Unit: d.Unit, IsAvailable: d.IsAvailable, Description: d.Description}
	if d.ExpirationDate != nil {
		f.ExpirationDate = d.ExpirationDate.String()
	}
	return f
}

// readDrugForm accepts a JSON body or a posted form.
func readDrugForm(r *http.Request) (drugForm, validation.Violations) {
	var f drugForm
	v := make(validation.Violations)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			v["body"] = "invalid_json"
			return f, v
		}
	} else {
		f.Name = r.FormValue("name")
		amount, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("amount")), 64)
		if err != nil && r.FormValue("amount") != "" {
			v["amount"] = "must_be_positive"
		}
		f.Amount = amount
		f.Unit = r.FormValue("unit")
		f.IsAvailable = r.FormValue("isAvailable") == "on" || r.FormValue("isAvailable") == "true"
		f.ExpirationDate = r.FormValue("expirationDate")
		f.Description = r.FormValue("description")
	}
	f.Name = strings.TrimSpace(f.Name)
	f.Unit = strings.TrimSpace(f.Unit)
	f.ExpirationDate = strings.TrimSpace(f.ExpirationDate)
	validation.Required("name", f.Name, v)
	validation.Required("unit", f.Unit, v)
	validation.OneOf("unit", f.Unit, models.DrugUnits, v)
	if _, ok := v["amount"]; !ok {
		validation.PositiveFloat("amount", f.Amount, v)
	}
	validation.Date("expirationDate", f.ExpirationDate, v)
	return f, v
}

func (f drugForm) input() models.DrugInput {
	exp, _ := models.ParseDate(f.ExpirationDate)
	return models.DrugInput{
		Name:           f.Name,
		Amount:         f.Amount,
		Unit:           f.Unit,
		IsAvailable:    f.IsAvailable,
		ExpirationDate: exp,
		Description:    strings.TrimSpace(f.Description),
	}
}

func (h *DrugHandler) List(w http.ResponseWriter, r *http.Request) {
	drugs, err := client(h.api, r).ListDrugs(r.Context())
	if err != nil {
		fail(w, r, err, "/admin")
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, drugs)
		return
	}
	render(w, r, http.StatusOK, "admin/drugs/index.html", map[string]any{"Drugs": drugs})
}

func renderDrugForm(w http.ResponseWriter, r *http.Request, status int, f drugForm, v validation.Violations) {
	render(w, r, status, "admin/drugs/form.html", map[string]any{"Form": f, "Errors": v, "Units": models.DrugUnits})
}

func (h *DrugHandler) New(w http.ResponseWriter, r *http.Request) {
	renderDrugForm(w, r, http.StatusOK, drugForm{IsAvailable: true}, nil)
}

func (h *DrugHandler) Create(w http.ResponseWriter, r *http.Request) {
	f, v := readDrugForm(r)
	if !v.Empty() {
		renderDrugForm(w, r, http.StatusUnprocessableEntity, f, v)
		return
	}
	d, err := client(h.api, r).CreateDrug(r.Context(), f.input())
	if err != nil {
		fail(w, r, err, "/admin/drugs/new")
		return
	}
	done(w, r, http.StatusCreated, d, "flash.drug_created", "/admin/drugs")
}

func (h *DrugHandler) Edit(w http.ResponseWriter, r *http.Request) {
	d, err := client(h.api, r).GetDrug(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, err, "/admin/drugs")
		return
	}
	renderDrugForm(w, r, http.StatusOK, drugFormFrom(*d), nil)
}

func (h *DrugHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	f, v := readDrugForm(r)
	f.ID = id
	if !v.Empty() {
		renderDrugForm(w, r, http.StatusUnprocessableEntity, f, v)
		return
	}
	d, err := client(h.api, r).UpdateDrug(r.Context(), id, f.input())
	if err != nil {
		fail(w, r, err, "/admin/drugs/"+id+"/edit")
		return
	}
	done(w, r, http.StatusOK, d, "flash.drug_updated", "/admin/drugs")
}

func (h *DrugHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := client(h.api, r).DeleteDrug(r.Context(), r.PathValue("id")); err != nil {
		fail(w, r, err, "/admin/drugs")
		return
	}
	done(w, r, http.StatusOK, map[string]string{"status": "deleted"}, "flash.drug_deleted", "/admin/drugs")
}
