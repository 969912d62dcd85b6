package studyapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Credentials identifies an account to the backend.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for an access token. The token is
// returned raw so the caller decides where to store it.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	token, err := c.authRequest(ctx, "/auth/login", creds)
	if errors.Is(err, ErrUnauthorized) {
		// On this endpoint a 401 means the credentials were wrong,
		// not that a token was missing.
		return "", fmt.Errorf("invalid email or password")
	}
	return token, err
}

// Signup registers a new account and returns its first access token.
func (c *Client) Signup(ctx context.Context, creds Credentials) (string, error) {
	return c.authRequest(ctx, "/auth/signup", creds)
}

func (c *Client) authRequest(ctx context.Context, path string, creds Credentials) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(ctx, http.MethodPost, path, creds, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", &ErrInvalidPayload{Err: errors.New("no access token in response")}
	}
	return out.AccessToken, nil
}
