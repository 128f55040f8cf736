package hubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/volunteerhub/hubterm/infra/auth"
)

// Client is a thin GraphQL-over-HTTP wrapper for the VolunteerHub API.
// It handles endpoint construction, bearer token injection, and the
// GraphQL response envelope.
type Client struct {
	baseURL       string
	tokenProvider auth.TokenProvider
	http          *http.Client
}

// NewClient creates a VolunteerHub API client. baseURL is the server root
// (the /graphql suffix is appended here).
func NewClient(baseURL string, tp auth.TokenProvider) *Client {
	return &Client{
		baseURL:       baseURL,
		tokenProvider: tp,
		http:          &http.Client{},
	}
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

type gqlError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

// Query executes one GraphQL operation and unmarshals the data payload
// into out (which may be nil for fire-and-forget mutations). GraphQL-level
// errors surface as *Error carrying the structured code when the server
// emits one.
func (c *Client) Query(ctx context.Context, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(gqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	token, err := c.tokenProvider.AccessToken()
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/graphql", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to graphql: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Status: resp.StatusCode, Message: httpErrorMessage(resp.StatusCode, data)}
	}

	var envelope gqlEnvelope
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber() // Ids round-trip as json.Number, never float64.
	if err := dec.Decode(&envelope); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}

	if len(envelope.Errors) > 0 {
		first := envelope.Errors[0]
		return &Error{Status: resp.StatusCode, Code: first.Extensions.Code, Message: first.Message}
	}

	if out == nil {
		return nil
	}
	outDec := json.NewDecoder(bytes.NewReader(envelope.Data))
	outDec.UseNumber()
	if err := outDec.Decode(out); err != nil {
		return fmt.Errorf("parsing data: %w", err)
	}
	return nil
}

func httpErrorMessage(status int, body []byte) string {
	var shaped struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &shaped); err == nil && shaped.Message != "" {
		return shaped.Message
	}
	return fmt.Sprintf("API returned %d: %s", status, string(body))
}
