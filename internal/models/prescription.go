package models

import "time"

// PrescriptionStatus is open until staff close it.
type PrescriptionStatus string

const (
	PrescriptionOpen   PrescriptionStatus = "open"
	PrescriptionClosed PrescriptionStatus = "closed"
)

// Valid reports whether s is a known status.
func (s PrescriptionStatus) Valid() bool {
	return s == PrescriptionOpen || s == PrescriptionClosed
}

// Prescription is a client's drug request.
type Prescription struct {
	ID                 string             `json:"_id,omitempty"`
	Client             Ref[User]          `json:"client"`
	Drugs              []LineItem         `json:"drugs"`
	Images             []string           `json:"images"`
	AssignedPharmacist *Ref[User]         `json:"assignedPharmacist,omitempty"`
	Status             PrescriptionStatus `json:"status"`
	Notes              string             `json:"notes,omitempty"`
	CreatedAt          *time.Time         `json:"createdAt,omitempty"`
}

// ClientName returns the populated client name or "".
func (p Prescription) ClientName() string {
	if p.Client.Value == nil {
		return ""
	}
	return p.Client.Value.Name
}

// PharmacistName returns the assigned pharmacist name or "".
func (p Prescription) PharmacistName() string {
	if p.AssignedPharmacist == nil || p.AssignedPharmacist.Value == nil {
		return ""
	}
	return p.AssignedPharmacist.Value.Name
}

// PrescriptionInput is the create body.
type PrescriptionInput struct {
	Drugs  []LineItem `json:"drugs"`
	Images []string   `json:"images"`
	Notes  string     `json:"notes,omitempty"`
}

// PrescriptionPatch is the partial update body.
type PrescriptionPatch struct {
	Status PrescriptionStatus `json:"status,omitempty"`
	Notes  string             `json:"notes,omitempty"`
}
