package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application-level configuration.
type Config struct {
	ServerURL   string // e.g. "https://hub.example.org"
	TokenPath   string // Path to file containing the access token
	EventID     string // Event to open on startup, overrides saved state
	UIStatePath string // Path to persisted UI state
}

// Load reads configuration from environment variables.
//
//	HUBTERM_SERVER — VolunteerHub server URL (default: http://localhost:8080)
//	HUBTERM_TOKEN  — Path to token file (default: ~/.config/hubterm/token)
//	HUBTERM_EVENT  — Event id to open on startup (optional)
//	HUBTERM_STATE  — Path to UI state file (default: ~/.config/hubterm/state.json)
func Load() (Config, error) {
	server := os.Getenv("HUBTERM_SERVER")
	if server == "" {
		server = "http://localhost:8080"
	}
	parsed, err := url.Parse(server)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Config{}, fmt.Errorf("invalid HUBTERM_SERVER: must be an absolute URL")
	}
	if parsed.Scheme != "https" && !isLoopback(parsed.Hostname()) {
		return Config{}, fmt.Errorf("invalid HUBTERM_SERVER: https is required for non-local servers")
	}
	server = strings.TrimRight(parsed.String(), "/")

	tokenPath := os.Getenv("HUBTERM_TOKEN")
	statePath := os.Getenv("HUBTERM_STATE")
	if tokenPath == "" || statePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("cannot determine home directory: %w", err)
		}
		if tokenPath == "" {
			tokenPath = filepath.Join(home, ".config", "hubterm", "token")
		}
		if statePath == "" {
			statePath = filepath.Join(home, ".config", "hubterm", "state.json")
		}
	}

	return Config{
		ServerURL:   server,
		TokenPath:   tokenPath,
		EventID:     os.Getenv("HUBTERM_EVENT"),
		UIStatePath: statePath,
	}, nil
}

func isLoopback(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

// UIState is the slice of UI state that survives restarts.
type UIState struct {
	EventID string `json:"event_id"` // Last opened event wall
}

// LoadUIState reads persisted UI state. A missing file is not an error;
// it returns the zero state.
func LoadUIState(path string) (UIState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return UIState{}, nil
		}
		return UIState{}, fmt.Errorf("reading ui state: %w", err)
	}
	var st UIState
	if err := json.Unmarshal(data, &st); err != nil {
		return UIState{}, fmt.Errorf("parsing ui state: %w", err)
	}
	return st, nil
}

// SaveUIState persists UI state, creating the directory as needed.
func SaveUIState(path string, st UIState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("serializing ui state: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
