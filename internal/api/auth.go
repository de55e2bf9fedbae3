package api

import "context"

// Login authenticates with email/password. On success the server sets a
// session cookie which the client's jar carries on subsequent calls.
func (c *Client) Login(ctx context.Context, creds Credentials) (*User, error) {
	var resp User
	if err := c.postJSON(ctx, "/api/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup registers a new account and signs it in.
func (c *Client) Signup(ctx context.Context, creds Credentials) (*User, error) {
	var resp User
	if err := c.postJSON(ctx, "/api/auth/signup", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout invalidates the server session.
func (c *Client) Logout(ctx context.Context) error {
	return c.postJSON(ctx, "/api/auth/logout", nil, nil)
}

// Me returns the signed-in user, or an *Error with status 401 when the
// session is absent or expired.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp User
	if err := c.get(ctx, "/api/auth/me", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
