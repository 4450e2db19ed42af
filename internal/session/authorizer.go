package session

import (
	"context"
	"fmt"
	"os"

	"sheets_bridge/internal/sheets"

	"golang.org/x/oauth2/google"
)

// ScopeSpreadsheets grants read and write access to spreadsheets
const ScopeSpreadsheets = "https://www.googleapis.com/auth/spreadsheets"

// Authorizer exchanges stored credential material for bearer-token credentials
type Authorizer interface {
	Authorize(ctx context.Context, material []byte, scopes ...string) (*google.Credentials, error)
}

// GoogleAuthorizer accepts service-account and authorized-user JSON
type GoogleAuthorizer struct{}

// Authorize parses material as a Google credentials file
func (GoogleAuthorizer) Authorize(ctx context.Context, material []byte, scopes ...string) (*google.Credentials, error) {
	if len(material) == 0 {
		return nil, fmt.Errorf("credential material is empty")
	}
	creds, err := google.CredentialsFromJSON(ctx, material, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	return creds, nil
}

// Loader reads the credential material a reference points to
type Loader func(credentialRef string) ([]byte, error)

// FileLoader treats the reference as a file path
func FileLoader(credentialRef string) ([]byte, error) {
	data, err := os.ReadFile(credentialRef)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return data, nil
}

// BackendFactory constructs a backend handle from authorized credentials
type BackendFactory func(ctx context.Context, creds *google.Credentials, applicationName string) (sheets.Backend, error)

// GoogleBackend builds a sheets.Client sharing tracker across rebuilds
func GoogleBackend(tracker *sheets.CallTracker) BackendFactory {
	return func(ctx context.Context, creds *google.Credentials, applicationName string) (sheets.Backend, error) {
		return sheets.NewClient(ctx, creds.TokenSource, applicationName, tracker)
	}
}
