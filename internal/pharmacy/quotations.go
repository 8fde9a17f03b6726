package pharmacy

import (
	"context"
	"net/http"
	"net/url"

	"github.com/diewo77/go-pharmacy/internal/models"
)

func (c *Client) ListQuotations(ctx context.Context) ([]models.Quotation, error) {
	var out []models.Quotation
	if err := c.do(ctx, http.MethodGet, "quotations", "/quotations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetQuotation(ctx context.Context, id string) (*models.Quotation, error) {
	var q models.Quotation
	if err := c.do(ctx, http.MethodGet, "quotations", "/quotations/"+url.PathEscape(id), nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (c *Client) CreateQuotation(ctx context.Context, in models.QuotationInput) (*models.Quotation, error) {
	in.Drugs = models.StripRefs(in.Drugs)
	var q models.Quotation
	if err := c.do(ctx, http.MethodPost, "quotations", "/quotations", in, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// UpdateQuotation sends the full editable body with PATCH.
func (c *Client) UpdateQuotation(ctx context.Context, id string, in models.QuotationInput) (*models.Quotation, error) {
	in.Drugs = models.StripRefs(in.Drugs)
	var q models.Quotation
	if err := c.do(ctx, http.MethodPatch, "quotations", "/quotations/"+url.PathEscape(id), in, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (c *Client) DeleteQuotation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "quotations", "/quotations/"+url.PathEscape(id), nil, nil)
}

// UpdateQuotationState issues PATCH /quotations/:id/state.
func (c *Client) UpdateQuotationState(ctx context.Context, id string, state models.QuotationState) (*models.Quotation, error) {
	var q models.Quotation
	path := "/quotations/" + url.PathEscape(id) + "/state"
	if err := c.do(ctx, http.MethodPatch, "quotations", path, models.StatePatch{State: state}, &q); err != nil {
		return nil, err
	}
	return &q, nil
}
