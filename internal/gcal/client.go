package gcal

import (
	"context"
	"fmt"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Client wraps the Google Calendar API client
type Client struct {
	service *calendar.Service
}

// NewClient creates a Google Calendar client authenticated with a service account.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	credJSON, err := loadServiceAccountJSON(credentialsFile)
	if err != nil {
		return nil, err
	}

	tokenSource, err := serviceAccountTokenSource(ctx, credJSON)
	if err != nil {
		return nil, err
	}

	service, err := calendar.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &Client{service: service}, nil
}

// IsAuthenticated returns true if the client has a working calendar service
func (c *Client) IsAuthenticated() bool {
	return c.service != nil
}
