package models

// QuotationState is driven by user action.
type QuotationState string

const (
	QuotationPending  QuotationState = "pending"
	QuotationApproved QuotationState = "approved"
)

// Quotation is a pharmacist's priced offer for a prescription.
type Quotation struct {
	ID           string             `json:"_id,omitempty"`
	Pharmacist   Ref[User]          `json:"pharmacist"`
	Client       *Ref[User]         `json:"client,omitempty"`
	Drugs        []LineItem         `json:"drugs"`
	TotalCost    float64            `json:"totalCost"`
	Prescription *Ref[Prescription] `json:"prescription,omitempty"`
	State        QuotationState     `json:"state"`
}

// PharmacistName returns the populated pharmacist name or "".
func (q Quotation) PharmacistName() string {
	if q.Pharmacist.Value == nil {
		return ""
	}
	return q.Pharmacist.Value.Name
}

// ClientName returns the populated client name or "".
func (q Quotation) ClientName() string {
	if q.Client == nil || q.Client.Value == nil {
		return ""
	}
	return q.Client.Value.Name
}

// PrescriptionID returns the source prescription id or "".
func (q Quotation) PrescriptionID() string {
	if q.Prescription == nil {
		return ""
	}
	return q.Prescription.ID
}

// QuotationInput is the create and update body. TotalCost is always computed
// by the console right before sending.
type QuotationInput struct {
	Pharmacist   string     `json:"pharmacist"`
	Client       string     `json:"client,omitempty"`
	Drugs        []LineItem `json:"drugs"`
	TotalCost    float64    `json:"totalCost"`
	Prescription string     `json:"prescription,omitempty"`
}

// StatePatch is the body of PATCH /quotations/:id/state.
type StatePatch struct {
	State QuotationState `json:"state"`
}

// ForPharmacist keeps quotations whose pharmacist reference is pharmacistID.
func ForPharmacist(qs []Quotation, pharmacistID string) []Quotation {
	out := make([]Quotation, 0, len(qs))
	for _, q := range qs {
		if q.Pharmacist.ID == pharmacistID {
			out = append(out, q)
		}
	}
	return out
}

// OwnerID is the authoring pharmacist.
func (q Quotation) OwnerID() string { return q.Pharmacist.ID }
