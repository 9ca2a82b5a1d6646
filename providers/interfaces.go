package providers

import (
	"time"

	"forecastapi.app/models"
)

// GeocodeProvider resolves free-text location names to coordinates
type GeocodeProvider interface {
	Resolve(location string) (*models.ResolvedLocation, error)
}

// ForecastProvider fetches a raw multi-day forecast for a coordinate pair
type ForecastProvider interface {
	Fetch(latitude, longitude float64, days int) (*models.ForecastPayload, error)
}

// FileLogger defines the interface for provider request logging
type FileLogger interface {
	LogRequest(providerName, target string)
	LogResponse(providerName, target string, duration time.Duration)
	LogError(providerName, target string, err error, duration time.Duration)
}

// EmailProvider defines the interface for email providers
type EmailProvider interface {
	SendEmail(to, subject, body string, isHTML bool) error
}
