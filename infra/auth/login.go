package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Credentials are the email/password pair for the platform's login endpoint.
type Credentials struct {
	Email    string
	Password string
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}

// EnsureLogin guarantees a usable access token exists at tokenPath.
// A cached token that has not expired is reused; otherwise prompt is
// called for credentials and a fresh token is fetched and cached.
func EnsureLogin(ctx context.Context, serverURL, tokenPath string, prompt func() (Credentials, error)) error {
	if token, err := readToken(tokenPath); err == nil && tokenUsable(token) {
		return nil
	}

	creds, err := prompt()
	if err != nil {
		return err
	}

	token, err := Login(ctx, serverURL, creds)
	if err != nil {
		return err
	}
	return writeToken(tokenPath, token)
}

// Login exchanges credentials for an access token.
func Login(ctx context.Context, serverURL string, creds Credentials) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"email":    creds.Email,
		"password": creds.Password,
	})
	if err != nil {
		return "", fmt.Errorf("encoding login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverURL+"/api/auth/login", strings.NewReader(string(payload)))
	if err != nil {
		return "", fmt.Errorf("creating login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := (&http.Client{Timeout: 15 * time.Second}).Do(req)
	if err != nil {
		return "", fmt.Errorf("logging in: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading login response: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", errors.New("login failed: invalid email or password")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("login failed: %d %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var lr loginResponse
	if err := json.Unmarshal(data, &lr); err != nil {
		return "", fmt.Errorf("parsing login response: %w", err)
	}
	if strings.TrimSpace(lr.AccessToken) == "" {
		return "", errors.New("login response missing access token")
	}
	return strings.TrimSpace(lr.AccessToken), nil
}

// tokenUsable reports whether the cached token is worth reusing. Tokens
// are JWTs; an expired or garbled one forces a fresh login instead of a
// guaranteed 401 on first use.
func tokenUsable(token string) bool {
	if token == "" {
		return false
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}
	var claims struct {
		Exp int64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return false
	}
	if claims.Exp == 0 {
		return true
	}
	// A minute of slack so a token does not expire mid-session startup.
	return time.Now().Add(time.Minute).Unix() < claims.Exp
}

func readToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func writeToken(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	return os.WriteFile(path, []byte(strings.TrimSpace(token)), 0o600)
}
