package fakebackend

import (
	"net/http"
	"strings"

	"github.com/diewo77/go-pharmacy/internal/models"
)

type lineItemOut struct {
	Drug     any `json:"drug"`
	Quantity int `json:"quantity"`
}

type prescriptionOut struct {
	ID                 string                    `json:"_id"`
	Client             any                       `json:"client"`
	Drugs              []lineItemOut             `json:"drugs"`
	Images             []string                  `json:"images"`
	AssignedPharmacist any                       `json:"assignedPharmacist,omitempty"`
	Status             models.PrescriptionStatus `json:"status"`
	Notes              string                    `json:"notes,omitempty"`
}

type quotationOut struct {
	ID           string                `json:"_id"`
	Pharmacist   any                   `json:"pharmacist"`
	Client       any                   `json:"client,omitempty"`
	Drugs        []lineItemOut         `json:"drugs"`
	TotalCost    float64               `json:"totalCost"`
	Prescription string                `json:"prescription,omitempty"`
	State        models.QuotationState `json:"state"`
}

// The populate helpers expect s.mu to be held.

func (s *Server) userRef(id string) any {
	if a, ok := s.accounts[id]; ok {
		return a.user
	}
	if id == "" {
		return nil
	}
	return id
}

func (s *Server) items(in []models.LineItem) []lineItemOut {
	out := make([]lineItemOut, 0, len(in))
	for _, it := range in {
		var d any = it.Drug.ID
		if drug, ok := s.drugs[it.Drug.ID]; ok {
			d = drug
		}
		out = append(out, lineItemOut{Drug: d, Quantity: it.Quantity})
	}
	return out
}

func (s *Server) prescriptionView(p models.Prescription) prescriptionOut {
	out := prescriptionOut{
		ID:     p.ID,
		Client: s.userRef(p.Client.ID),
		Drugs:  s.items(p.Drugs),
		Images: p.Images,
		Status: p.Status,
		Notes:  p.Notes,
	}
	if out.Images == nil {
		out.Images = []string{}
	}
	if p.AssignedPharmacist != nil {
		out.AssignedPharmacist = s.userRef(p.AssignedPharmacist.ID)
	}
	return out
}

func (s *Server) quotationView(q models.Quotation) quotationOut {
	out := quotationOut{
		ID:         q.ID,
		Pharmacist: s.userRef(q.Pharmacist.ID),
		Drugs:      s.items(q.Drugs),
		TotalCost:  q.TotalCost,
		State:      q.State,
	}
	if q.Client != nil {
		out.Client = s.userRef(q.Client.ID)
	}
	if q.Prescription != nil {
		out.Prescription = q.Prescription.ID
	}
	return out
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var cred models.Credentials
	if !decode(r, &cred) {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if strings.EqualFold(a.user.Email, cred.Email) && a.password == cred.Password {
			writeJSON(w, http.StatusCreated, map[string]any{"access_token": s.issue(a.user.ID)})
			return
		}
	}
	writeError(w, http.StatusUnauthorized, "Invalid credentials")
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var reg models.Registration
	if !decode(r, &reg) {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	var problems []string
	if reg.Email == "" {
		problems = append(problems, "email should not be empty")
	}
	if len(reg.Password) < 6 {
		problems = append(problems, "password must be longer than or equal to 6 characters")
	}
	if len(problems) > 0 {
		writeError(w, http.StatusBadRequest, problems)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if strings.EqualFold(a.user.Email, reg.Email) {
			writeError(w, http.StatusConflict, "Email already exists")
			return
		}
	}
	u := models.User{
		ID:          s.nextID(),
		Name:        reg.Name,
		Email:       reg.Email,
		UserType:    reg.UserType,
		ContactNo:   reg.ContactNo,
		Address:     reg.Address,
		DateOfBirth: reg.DateOfBirth,
	}
	s.accounts[u.ID] = &account{user: u, password: reg.Password}
	s.order = append(s.order, u.ID)
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) listDrugs(w http.ResponseWriter, _ *http.Request, _ *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Drug{}
	for _, id := range s.order {
		if d, ok := s.drugs[id]; ok {
			out = append(out, d)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getDrug(w http.ResponseWriter, r *http.Request, _ *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drugs[r.PathValue("id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Drug not found")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) createDrug(w http.ResponseWriter, r *http.Request, _ *account) {
	var in models.DrugInput
	if !decode(r, &in) || in.Name == "" {
		writeError(w, http.StatusBadRequest, []string{"name should not be empty"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d := drugFrom(s.nextID(), in)
	s.drugs[d.ID] = d
	s.order = append(s.order, d.ID)
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) updateDrug(w http.ResponseWriter, r *http.Request, _ *account) {
	var in models.DrugInput
	if !decode(r, &in) {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := r.PathValue("id")
	if _, ok := s.drugs[id]; !ok {
		writeError(w, http.StatusNotFound, "Drug not found")
		return
	}
	d := drugFrom(id, in)
	s.drugs[id] = d
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) deleteDrug(w http.ResponseWriter, r *http.Request, _ *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := r.PathValue("id")
	if _, ok := s.drugs[id]; !ok {
		writeError(w, http.StatusNotFound, "Drug not found")
		return
	}
	delete(s.drugs, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Drug deleted"})
}

func drugFrom(id string, in models.DrugInput) models.Drug {
	return models.Drug{
		ID:             id,
		Name:           in.Name,
		Amount:         in.Amount,
		Unit:           in.Unit,
		IsAvailable:    in.IsAvailable,
		ExpirationDate: in.ExpirationDate,
		Description:    in.Description,
	}
}

func (s *Server) listPrescriptions(w http.ResponseWriter, _ *http.Request, me *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []prescriptionOut{}
	for _, id := range s.order {
		p, ok := s.prescriptions[id]
		if !ok {
			continue
		}
		if me.user.IsClient() && p.Client.ID != me.user.ID {
			continue
		}
		out = append(out, s.prescriptionView(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getPrescription(w http.ResponseWriter, r *http.Request, _ *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prescriptions[r.PathValue("id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Prescription not found")
		return
	}
	writeJSON(w, http.StatusOK, s.prescriptionView(p))
}

func (s *Server) createPrescription(w http.ResponseWriter, r *http.Request, me *account) {
	var in models.PrescriptionInput
	if !decode(r, &in) {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := models.Prescription{
		ID:     s.nextID(),
		Client: models.RefTo[models.User](me.user.ID),
		Drugs:  models.StripRefs(in.Drugs),
		Images: in.Images,
		Status: models.PrescriptionOpen,
		Notes:  in.Notes,
	}
	s.prescriptions[p.ID] = p
	s.order = append(s.order, p.ID)
	writeJSON(w, http.StatusCreated, s.prescriptionView(p))
}

func (s *Server) updatePrescription(w http.ResponseWriter, r *http.Request, _ *account) {
	var patch models.PrescriptionPatch
	if !decode(r, &patch) {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if patch.Status != "" && !patch.Status.Valid() {
		writeError(w, http.StatusBadRequest, []string{"status must be one of the following values: open, closed"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := r.PathValue("id")
	p, ok := s.prescriptions[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Prescription not found")
		return
	}
	if patch.Status != "" {
		p.Status = patch.Status
	}
	if patch.Notes != "" {
		p.Notes = patch.Notes
	}
	s.prescriptions[id] = p
	writeJSON(w, http.StatusOK, s.prescriptionView(p))
}

func (s *Server) deletePrescription(w http.ResponseWriter, r *http.Request, _ *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := r.PathValue("id")
	if _, ok := s.prescriptions[id]; !ok {
		writeError(w, http.StatusNotFound, "Prescription not found")
		return
	}
	delete(s.prescriptions, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Prescription deleted"})
}

func (s *Server) listQuotations(w http.ResponseWriter, _ *http.Request, _ *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []quotationOut{}
	for _, id := range s.order {
		if q, ok := s.quotations[id]; ok {
			out = append(out, s.quotationView(q))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getQuotation(w http.ResponseWriter, r *http.Request, _ *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quotations[r.PathValue("id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Quotation not found")
		return
	}
	writeJSON(w, http.StatusOK, s.quotationView(q))
}

func (s *Server) quotationFrom(id string, in models.QuotationInput, state models.QuotationState) models.Quotation {
	q := models.Quotation{
		ID:         id,
		Pharmacist: models.RefTo[models.User](in.Pharmacist),
		Drugs:      models.StripRefs(in.Drugs),
		TotalCost:  in.TotalCost,
		State:      state,
	}
	if in.Client != "" {
		c := models.RefTo[models.User](in.Client)
		q.Client = &c
	}
	if in.Prescription != "" {
		p := models.RefTo[models.Prescription](in.Prescription)
		q.Prescription = &p
	}
	return q
}

func (s *Server) createQuotation(w http.ResponseWriter, r *http.Request, _ *account) {
	var in models.QuotationInput
	if !decode(r, &in) {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if in.Pharmacist == "" || len(in.Drugs) == 0 {
		writeError(w, http.StatusBadRequest, []string{"pharmacist should not be empty", "drugs should not be empty"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.quotationFrom(s.nextID(), in, models.QuotationPending)
	s.quotations[q.ID] = q
	s.order = append(s.order, q.ID)
	writeJSON(w, http.StatusCreated, s.quotationView(q))
}

func (s *Server) updateQuotation(w http.ResponseWriter, r *http.Request, _ *account) {
	var in models.QuotationInput
	if !decode(r, &in) {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := r.PathValue("id")
	old, ok := s.quotations[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Quotation not found")
		return
	}
	q := s.quotationFrom(id, in, old.State)
	s.quotations[id] = q
	writeJSON(w, http.StatusOK, s.quotationView(q))
}

func (s *Server) deleteQuotation(w http.ResponseWriter, r *http.Request, _ *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := r.PathValue("id")
	if _, ok := s.quotations[id]; !ok {
		writeError(w, http.StatusNotFound, "Quotation not found")
		return
	}
	delete(s.quotations, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Quotation deleted"})
}

func (s *Server) updateQuotationState(w http.ResponseWriter, r *http.Request, _ *account) {
	var patch models.StatePatch
	if !decode(r, &patch) {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if patch.State != models.QuotationPending && patch.State != models.QuotationApproved {
		writeError(w, http.StatusBadRequest, []string{"state must be one of the following values: pending, approved"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := r.PathValue("id")
	q, ok := s.quotations[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Quotation not found")
		return
	}
	q.State = patch.State
	s.quotations[id] = q
	writeJSON(w, http.StatusOK, s.quotationView(q))
}

func (s *Server) listUsers(w http.ResponseWriter, _ *http.Request, _ *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.User{}
	for _, id := range s.order {
		if a, ok := s.accounts[id]; ok {
			out = append(out, a.user)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getProfile(w http.ResponseWriter, _ *http.Request, me *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, me.user)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request, me *account) {
	var in models.ProfileUpdate
	if !decode(r, &in) {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	me.user.Name = in.Name
	me.user.Address = in.Address
	me.user.ContactNo = in.ContactNo
	me.user.DateOfBirth = in.DateOfBirth
	writeJSON(w, http.StatusOK, me.user)
}
