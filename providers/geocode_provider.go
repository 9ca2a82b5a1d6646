package providers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"forecastapi.app/config"
	"forecastapi.app/errors"
	"forecastapi.app/models"
)

// OpenMeteoGeocodeProvider implements GeocodeProvider for the Open-Meteo
// geocoding API
type OpenMeteoGeocodeProvider struct {
	baseURL string
	client  *http.Client
}

// NewOpenMeteoGeocodeProvider creates a new Open-Meteo geocoding provider
func NewOpenMeteoGeocodeProvider(config *config.WeatherConfig) *OpenMeteoGeocodeProvider {
	return &OpenMeteoGeocodeProvider{
		baseURL: config.GeocodingBaseURL,
		client:  &http.Client{Timeout: config.GeocodeTimeout()},
	}
}

// Resolve looks up the best match for a location name. A transport failure or
// non-success status returns an error so the caching layer never memoizes a
// failed lookup. A response with no results returns a coordinate-less
// resolution carrying the input text as the name.
func (p *OpenMeteoGeocodeProvider) Resolve(location string) (*models.ResolvedLocation, error) {
	if location == "" {
		return nil, errors.NewValidationError("location cannot be empty")
	}

	params := url.Values{}
	params.Set("name", location)
	params.Set("count", "1")
	params.Set("language", "en")
	params.Set("format", "json")
	requestURL := fmt.Sprintf("%s/search?%s", p.baseURL, params.Encode())

	resp, err := p.client.Get(requestURL)
	if err != nil {
		return nil, errors.NewExternalAPIError("failed to get geocoding data", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewUpstreamStatusError(
			fmt.Sprintf("geocoding API returned status code %d", resp.StatusCode), resp.StatusCode)
	}

	var result models.GeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.NewExternalAPIError("failed to decode geocoding data", err)
	}

	if len(result.Results) == 0 {
		// "No match" is a legitimate provider answer, not an error. The
		// coordinate-less shape keeps it out of the cache.
		return &models.ResolvedLocation{Name: location}, nil
	}

	first := result.Results[0]
	if first.Latitude == nil || first.Longitude == nil {
		return &models.ResolvedLocation{Name: location}, nil
	}

	return &models.ResolvedLocation{
		Latitude:  first.Latitude,
		Longitude: first.Longitude,
		Name:      buildDisplayName(first, location),
	}, nil
}

// buildDisplayName joins the non-empty parts of {place, region, country} with
// ", ", falling back to the original input when all parts are empty
func buildDisplayName(result models.GeocodeResult, fallback string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{result.Name, result.Admin1, result.Country} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return fallback
	}
	return strings.Join(parts, ", ")
}
