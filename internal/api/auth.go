package api

import (
	"context"
	"net/http"

	"github.com/Shiv-727-nov/E-commerce/internal/domain"
)

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// signInResponse is the flat auth envelope: the token alongside the
// identity fields.
type signInResponse struct {
	Token string      `json:"token"`
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

func (c *Client) SignIn(ctx context.Context, req SignInRequest) (domain.Session, error) {
	var resp signInResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signin", nil, req, &resp); err != nil {
		return domain.Session{}, err
	}
	return domain.Session{
		Token: resp.Token,
		User: domain.User{
			ID:    resp.ID,
			Name:  resp.Name,
			Email: resp.Email,
			Role:  resp.Role,
		},
	}, nil
}

// SignUp registers a new account. It does not authenticate; the caller
// signs in afterwards.
func (c *Client) SignUp(ctx context.Context, req SignUpRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/signup", nil, req, nil)
}
