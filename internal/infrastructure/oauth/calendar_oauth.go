package oauth

import (
	"context"
	"fmt"
	"os"

	"barberbook-service/pkg/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

// CalendarAuth handles service-account authentication for the Calendar API
type CalendarAuth struct {
	credentialsFile string
	logger          logger.Logger
}

// NewCalendarAuth creates a new Calendar auth handler
func NewCalendarAuth(credentialsFile string, logger logger.Logger) *CalendarAuth {
	return &CalendarAuth{
		credentialsFile: credentialsFile,
		logger:          logger,
	}
}

// Configured reports whether a credentials file was provided
func (a *CalendarAuth) Configured() bool {
	return a.credentialsFile != ""
}

// TokenSource returns a token source for the Calendar scope built from the
// service-account key file
func (a *CalendarAuth) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	data, err := os.ReadFile(a.credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	conf, err := google.JWTConfigFromJSON(data, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account key: %w", err)
	}

	a.logger.Info("Calendar service account loaded", "clientEmail", conf.Email)

	return conf.TokenSource(ctx), nil
}
