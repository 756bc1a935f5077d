// ABOUTME: OAuth configuration and token management for the ServiceM8 API
// ABOUTME: Handles OAuth flow, token storage at XDG paths, and auto-refresh
package servicem8

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"golang.org/x/oauth2"
)

// Endpoint is the ServiceM8 OAuth2 endpoint.
var Endpoint = oauth2.Endpoint{
	AuthURL:  "https://go.servicem8.com/oauth/authorize",
	TokenURL: "https://go.servicem8.com/oauth/access_token",
}

// NewOAuthConfig creates the OAuth2 config for the ServiceM8 API. App
// credentials come from the environment; users register their own app in the
// ServiceM8 developer portal.
func NewOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     os.Getenv("SERVICEM8_APP_ID"),
		ClientSecret: os.Getenv("SERVICEM8_APP_SECRET"),
		RedirectURL:  "http://localhost:8484/oauth/callback",
		Scopes: []string{
			"read_jobs",
			"read_job_notes",
			"read_customers",
		},
		Endpoint: Endpoint,
	}
}

// TokenPath returns the XDG-compliant path for storing OAuth tokens.
func TokenPath() string {
	return filepath.Join(xdg.DataHome, "probuild-command", "servicem8-credentials.json")
}

// SaveToken saves an OAuth token to the XDG data directory.
func SaveToken(token *oauth2.Token) error {
	path := TokenPath()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	return nil
}

// LoadToken loads an OAuth token from the XDG data directory.
func LoadToken() (*oauth2.Token, error) {
	path := TokenPath()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var token oauth2.Token
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}

	return &token, nil
}

// GetConfig returns the OAuth config, failing early when the app
// credentials are missing.
func GetConfig(_ context.Context) (*oauth2.Config, error) {
	config := NewOAuthConfig()

	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, fmt.Errorf("ServiceM8 credentials not configured. Set SERVICEM8_APP_ID and SERVICEM8_APP_SECRET environment variables")
	}

	return config, nil
}
