package service

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"AstralLink/tools/errs"

	"github.com/pkg/errors"
)

// ExternalIdentity is the payload answered by the identity exchange endpoint.
type ExternalIdentity struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Picture      string `json:"picture"`
	SessionToken string `json:"session_token"`
}

// IdentityClient exchanges a one-shot session_id against the external auth
// provider for a user profile plus opaque session token.
type IdentityClient struct {
	URL  string
	HTTP *http.Client
}

func NewIdentityClient(url string) *IdentityClient {
	return &IdentityClient{
		URL:  url,
		HTTP: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *IdentityClient) Exchange(ctx context.Context, sessionID string) (*ExternalIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build exchange request")
	}
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "identity exchange call")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.ErrArgs.WithDetail("identity exchange rejected: " + resp.Status)
	}

	var ident ExternalIdentity
	if err := json.NewDecoder(resp.Body).Decode(&ident); err != nil {
		return nil, errors.Wrap(err, "decode identity payload")
	}
	if ident.Email == "" || ident.SessionToken == "" {
		return nil, errs.ErrArgs.WithDetail("identity payload incomplete")
	}
	return &ident, nil
}
