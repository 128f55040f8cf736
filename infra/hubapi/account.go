package hubapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/volunteerhub/hubterm/app"
	"github.com/volunteerhub/hubterm/domain"
)

// accountService implements app.AccountService. The user's id comes from
// the access token itself; the profile query fills in display fields.
type accountService struct {
	client *Client
}

// NewAccountService wraps a client as an account service.
func NewAccountService(c *Client) app.AccountService {
	return &accountService{client: c}
}

const profileQuery = `
query GetUserProfile($userId: ID!) {
  getUserProfile(userId: $userId) {
    userId
    username
    fullName
  }
}`

func (s *accountService) CurrentUser(ctx context.Context) (app.Profile, error) {
	token, err := s.client.tokenProvider.AccessToken()
	if err != nil {
		return app.Profile{}, fmt.Errorf("auth: %w", err)
	}
	userID, err := subjectFromToken(token)
	if err != nil {
		return app.Profile{}, err
	}

	var out struct {
		GetUserProfile struct {
			UserID   any    `json:"userId"`
			Username string `json:"username"`
			FullName string `json:"fullName"`
		} `json:"getUserProfile"`
	}
	if err := s.client.Query(ctx, profileQuery, map[string]any{"userId": userID}, &out); err != nil {
		// A missing profile is not fatal: the token still identifies the
		// user, only display fields are lost.
		return app.Profile{ID: userID}, nil
	}
	profile := app.Profile{
		ID:       userID,
		Username: out.GetUserProfile.Username,
		Name:     out.GetUserProfile.FullName,
	}
	if id := domain.NormalizeID(out.GetUserProfile.UserID); id != "" {
		profile.ID = id
	}
	return profile, nil
}

// subjectFromToken extracts the user id from a JWT's sub claim without
// verifying the signature. Verification is the server's job; the client
// only needs to know who the token says it is.
func subjectFromToken(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("malformed access token")
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("decoding token claims: %w", err)
	}
	var claims struct {
		Sub any `json:"sub"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return "", fmt.Errorf("parsing token claims: %w", err)
	}
	sub := domain.NormalizeID(claims.Sub)
	if sub == "" {
		return "", fmt.Errorf("access token has no subject")
	}
	return sub, nil
}
