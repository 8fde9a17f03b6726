package pharmacy

import (
	"context"
	"net/http"
	"net/url"

	"github.com/diewo77/go-pharmacy/internal/models"
)

func (c *Client) ListPrescriptions(ctx context.Context) ([]models.Prescription, error) {
	var out []models.Prescription
	if err := c.do(ctx, http.MethodGet, "prescriptions", "/prescriptions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPrescription(ctx context.Context, id string) (*models.Prescription, error) {
	var p models.Prescription
	if err := c.do(ctx, http.MethodGet, "prescriptions", "/prescriptions/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreatePrescription(ctx context.Context, in models.PrescriptionInput) (*models.Prescription, error) {
	in.Drugs = models.StripRefs(in.Drugs)
	if in.Images == nil {
		in.Images = []string{}
	}
	var p models.Prescription
	if err := c.do(ctx, http.MethodPost, "prescriptions", "/prescriptions", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePrescription applies a partial update with PATCH.
func (c *Client) UpdatePrescription(ctx context.Context, id string, patch models.PrescriptionPatch) (*models.Prescription, error) {
	var p models.Prescription
	if err := c.do(ctx, http.MethodPatch, "prescriptions", "/prescriptions/"+url.PathEscape(id), patch, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeletePrescription(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "prescriptions", "/prescriptions/"+url.PathEscape(id), nil, nil)
}
