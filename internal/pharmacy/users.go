package pharmacy

import (
	"context"
	"net/http"

	"github.com/diewo77/go-pharmacy/internal/models"
)

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.do(ctx, http.MethodGet, "users", "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Profile returns the user the token belongs to.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "users", "/users/profile", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateProfile(ctx context.Context, in models.ProfileUpdate) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPut, "users", "/users/profile", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
