package providers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"forecastapi.app/config"
	"forecastapi.app/errors"
	"forecastapi.app/models"
)

// Fixed field sets requested from the forecast endpoint. Part of the cache key:
// changing them must invalidate previously cached payloads.
const (
	dailyFields  = "temperature_2m_max,temperature_2m_min,sunrise,sunset,weather_code"
	hourlyFields = "temperature_2m,relative_humidity_2m,apparent_temperature,precipitation_probability," +
		"precipitation,weather_code,surface_pressure,cloud_cover,visibility," +
		"wind_speed_10m,wind_direction_10m,wind_gusts_10m,is_day"
)

// OpenMeteoForecastProvider implements ForecastProvider for the Open-Meteo
// forecast API
type OpenMeteoForecastProvider struct {
	baseURL string
	client  *http.Client
}

// NewOpenMeteoForecastProvider creates a new Open-Meteo forecast provider
func NewOpenMeteoForecastProvider(config *config.WeatherConfig) *OpenMeteoForecastProvider {
	return &OpenMeteoForecastProvider{
		baseURL: config.ForecastBaseURL,
		client:  &http.Client{Timeout: config.ForecastTimeout()},
	}
}

// Fetch retrieves the raw forecast payload for a coordinate pair. Non-success
// statuses and transport failures return an error carrying the upstream status
// where known; a success with an empty or undecodable body is reported as
// invalid data instead.
func (p *OpenMeteoForecastProvider) Fetch(latitude, longitude float64, days int) (*models.ForecastPayload, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	params.Set("daily", dailyFields)
	params.Set("hourly", hourlyFields)
	params.Set("timezone", "auto")
	params.Set("forecast_days", strconv.Itoa(days))
	requestURL := fmt.Sprintf("%s/forecast?%s", p.baseURL, params.Encode())

	resp, err := p.client.Get(requestURL)
	if err != nil {
		return nil, errors.NewExternalAPIError("failed to get forecast data", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewUpstreamStatusError(
			fmt.Sprintf("forecast API returned status code %d", resp.StatusCode), resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewExternalAPIError("failed to read forecast response", err)
	}
	if len(body) == 0 {
		return nil, errors.NewInvalidDataError("forecast provider returned an empty body")
	}

	var payload models.ForecastPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.NewInvalidDataError("forecast provider returned undecodable JSON")
	}

	return &payload, nil
}
