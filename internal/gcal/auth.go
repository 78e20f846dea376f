package gcal

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

// OAuthScopes contains only Calendar scopes
var OAuthScopes = []string{
	calendar.CalendarScope,
}

// loadServiceAccountJSON loads service account credentials from the
// environment or a file. The environment variable takes precedence so
// container deployments never need a credentials file on disk.
func loadServiceAccountJSON(credentialsFile string) ([]byte, error) {
	if credJSON := os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"); credJSON != "" {
		return []byte(credJSON), nil
	}

	if credentialsFile != "" {
		if data, err := os.ReadFile(credentialsFile); err == nil {
			return data, nil
		}
	}

	// Try default service_account.json in current directory
	if data, err := os.ReadFile("./service_account.json"); err == nil {
		return data, nil
	}

	return nil, fmt.Errorf("no service account credentials found - please provide service_account.json or set GOOGLE_SERVICE_ACCOUNT_JSON env var")
}

func serviceAccountTokenSource(ctx context.Context, credJSON []byte) (oauth2.TokenSource, error) {
	conf, err := google.JWTConfigFromJSON(credJSON, OAuthScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}
	return conf.TokenSource(ctx), nil
}
