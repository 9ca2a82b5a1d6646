package service

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"forecastapi.app/config"
	"forecastapi.app/errors"
	"forecastapi.app/models"
	"forecastapi.app/providers"
)

const (
	minForecastDays = 1
	maxForecastDays = 14
)

// WeatherService orchestrates a forecast lookup: resolve the location,
// fetch the raw forecast and transform it into the stable report shape.
type WeatherService struct {
	resolver   providers.GeocodeProvider
	forecaster providers.ForecastProvider
	config     *config.WeatherConfig
}

// NewWeatherService creates a weather service over the given providers
func NewWeatherService(resolver providers.GeocodeProvider, forecaster providers.ForecastProvider, cfg *config.WeatherConfig) *WeatherService {
	return &WeatherService{
		resolver:   resolver,
		forecaster: forecaster,
		config:     cfg,
	}
}

// GetForecast returns the transformed forecast for a free-text location.
// days is clamped to [1,14]. An empty location, or one matching the
// configured default name, short-circuits to the default coordinates
// without touching the resolver or its cache.
func (s *WeatherService) GetForecast(location string, days int) (*models.WeatherReport, error) {
	if days < minForecastDays {
		days = minForecastDays
	}
	if days > maxForecastDays {
		days = maxForecastDays
	}

	resolved := s.resolveLocation(location)
	if !resolved.HasCoordinates() {
		if resolved.Name != "" {
			return nil, errors.NewNotFoundError(fmt.Sprintf("Could not find coordinates for the specified location: %s", resolved.Name))
		}
		return nil, errors.NewNotFoundError("Could not find coordinates for the specified location")
	}

	payload, err := s.forecaster.Fetch(*resolved.Latitude, *resolved.Longitude, days)
	if err != nil {
		return nil, err
	}

	report := TransformForecast(payload, resolved.Name, days, time.Now())
	if report == nil {
		return nil, errors.NewProcessingError("failed to process forecast data")
	}
	return report, nil
}

// resolveLocation never returns an error: resolver failures collapse into
// the coordinate-less shape carrying the trimmed input as the name.
func (s *WeatherService) resolveLocation(location string) *models.ResolvedLocation {
	trimmed := strings.TrimSpace(location)
	if trimmed == "" || strings.EqualFold(trimmed, s.config.DefaultLocationName) {
		lat := s.config.DefaultLatitude
		lon := s.config.DefaultLongitude
		return &models.ResolvedLocation{
			Latitude:  &lat,
			Longitude: &lon,
			Name:      s.config.DefaultLocationName,
		}
	}

	resolved, err := s.resolver.Resolve(trimmed)
	if err != nil {
		slog.Warn("location resolution failed", "location", trimmed, "error", err)
		return &models.ResolvedLocation{Name: trimmed}
	}
	return resolved
}
