package upstream

import (
	"context"
	"errors"
	"net/http"

	"incognitify/portal/internal/session"
)

// FetchCurrentUser implements session.UserFetcher against /users/me.
func (c *Client) FetchCurrentUser(ctx context.Context, token string) (session.User, error) {
	resp, err := c.Me(ctx, token)
	if err != nil {
		return session.User{}, err
	}
	if err := CheckStatus(resp); err != nil {
		return session.User{}, err
	}
	var user session.User
	if err := resp.Decode(&user); err != nil {
		return session.User{}, err
	}
	return user, nil
}

// SendVerificationEmail implements guard.VerificationSender.
func (c *Client) SendVerificationEmail(ctx context.Context, token string) error {
	resp, err := c.SendVerification(ctx, token)
	if err != nil {
		return err
	}
	return CheckStatus(resp)
}

// CheckStatus maps 401 to session.ErrUnauthorized and any other non-2xx
// answer to *session.StatusError.
func CheckStatus(resp Response) error {
	if resp.Status == http.StatusUnauthorized {
		return session.ErrUnauthorized
	}
	if resp.OK() {
		return nil
	}
	return &session.StatusError{Status: resp.Status, Message: resp.Message()}
}

// Message pulls a human-readable message out of an upstream body.
func (resp Response) Message() string {
	if !resp.IsJSON() {
		return http.StatusText(resp.Status)
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := resp.Decode(&body); err != nil {
		return http.StatusText(resp.Status)
	}
	if body.Message != "" {
		return body.Message
	}
	if body.Error != "" {
		return body.Error
	}
	return http.StatusText(resp.Status)
}

// ErrNoToken means the upstream accepted a login but sent no token.
var ErrNoToken = errors.New("login response carried no token")

// Authenticate logs in and returns the bearer token.
func (c *Client) Authenticate(ctx context.Context, req LoginRequest) (session.LoginResult, error) {
	resp, err := c.Login(ctx, req)
	if err != nil {
		return session.LoginResult{}, err
	}
	if err := CheckStatus(resp); err != nil {
		return session.LoginResult{}, err
	}
	var result session.LoginResult
	if err := resp.Decode(&result); err != nil {
		return session.LoginResult{}, err
	}
	if _, ok := result.BearerToken(); !ok {
		return session.LoginResult{}, ErrNoToken
	}
	return result, nil
}
