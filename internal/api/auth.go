// ABOUTME: Account operations against the auth base URL
// ABOUTME: Login and Register return the user record; Logout revokes an API key

package api

import (
	"context"
	"net/http"
)

// Login exchanges a username and password for a user record with a fresh
// API key.
func (c *Client) Login(ctx context.Context, username, password string) (*User, error) {
	return c.authenticate(ctx, "login", "login failed", c.authURL+"/auth/login", loginRequest{
		Username: username,
		Password: password,
	})
}

// Register creates an account and returns its user record.
func (c *Client) Register(ctx context.Context, username, email, password string) (*User, error) {
	return c.authenticate(ctx, "register", "registration failed", c.authURL+"/auth/register", registerRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
}

func (c *Client) authenticate(ctx context.Context, op, message, rawURL string, payload any) (*User, error) {
	status, data, err := c.send(ctx, op, http.MethodPost, rawURL, nil, payload)
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, newRequestFailed(op, message, status, data)
	}

	var user User
	if err := c.decode(op, status, data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout revokes apiKey. The response body is ignored.
func (c *Client) Logout(ctx context.Context, apiKey string) error {
	const op = "logout"

	header := http.Header{}
	header.Set(APIKeyHeader, apiKey)

	status, data, err := c.send(ctx, op, http.MethodPost, c.authURL+"/auth/logout", header, nil)
	if err != nil {
		return err
	}
	if !isSuccess(status) {
		return newRequestFailed(op, "logout failed", status, data)
	}
	return nil
}
