package pharmacy

import (
	"context"
	"net/http"

	"github.com/diewo77/go-pharmacy/internal/models"
)

// LoginResult is the body of a successful login.
type LoginResult struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user,omitempty"`
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, cred models.Credentials) (*LoginResult, error) {
	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "auth", "/auth/login", cred, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPost, "auth", "/auth/register", reg, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
