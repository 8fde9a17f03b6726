package pharmacy

import (
	"context"
	"net/http"
	"net/url"

	"github.com/diewo77/go-pharmacy/internal/models"
)

func (c *Client) ListDrugs(ctx context.Context) ([]models.Drug, error) {
	var out []models.Drug
	if err := c.do(ctx, http.MethodGet, "drugs", "/drugs", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetDrug(ctx context.Context, id string) (*models.Drug, error) {
	var d models.Drug
	if err := c.do(ctx, http.MethodGet, "drugs", "/drugs/"+url.PathEscape(id), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) CreateDrug(ctx context.Context, in models.DrugInput) (*models.Drug, error) {
	var d models.Drug
	if err := c.do(ctx, http.MethodPost, "drugs", "/drugs", in, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateDrug replaces a drug with PUT.
func (c *Client) UpdateDrug(ctx context.Context, id string, in models.DrugInput) (*models.Drug, error) {
	var d models.Drug
	if err := c.do(ctx, http.MethodPut, "drugs", "/drugs/"+url.PathEscape(id), in, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) DeleteDrug(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "drugs", "/drugs/"+url.PathEscape(id), nil, nil)
}
