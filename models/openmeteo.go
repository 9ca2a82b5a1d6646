package models

// Typed shapes of the Open-Meteo geocoding and forecast payloads. Pointer
// fields distinguish a value the provider omitted from a genuine zero.

// GeocodeResult is one match returned by the geocoding endpoint
type GeocodeResult struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Admin1    string   `json:"admin1"`
	Country   string   `json:"country"`
}

// GeocodeResponse is the geocoding endpoint's response envelope
type GeocodeResponse struct {
	Results []GeocodeResult `json:"results"`
}

// HourlySeries holds the parallel hourly arrays of a forecast payload.
// All value arrays are indexed by the Time array.
type HourlySeries struct {
	Time                     []string   `json:"time"`
	Temperature              []*float64 `json:"temperature_2m"`
	RelativeHumidity         []*float64 `json:"relative_humidity_2m"`
	ApparentTemperature      []*float64 `json:"apparent_temperature"`
	PrecipitationProbability []*float64 `json:"precipitation_probability"`
	Precipitation            []*float64 `json:"precipitation"`
	WeatherCode              []*int     `json:"weather_code"`
	SurfacePressure          []*float64 `json:"surface_pressure"`
	CloudCover               []*float64 `json:"cloud_cover"`
	Visibility               []*float64 `json:"visibility"`
	WindSpeed                []*float64 `json:"wind_speed_10m"`
	WindDirection            []*float64 `json:"wind_direction_10m"`
	WindGusts                []*float64 `json:"wind_gusts_10m"`
	IsDay                    []*int     `json:"is_day"`
}

// DailySeries holds the parallel daily arrays of a forecast payload
type DailySeries struct {
	Time           []string   `json:"time"`
	TemperatureMax []*float64 `json:"temperature_2m_max"`
	TemperatureMin []*float64 `json:"temperature_2m_min"`
	Sunrise        []string   `json:"sunrise"`
	Sunset         []string   `json:"sunset"`
	WeatherCode    []*int     `json:"weather_code"`
}

// ForecastPayload is the raw forecast response for one (lat, lon, days) request
type ForecastPayload struct {
	Latitude             float64      `json:"latitude"`
	Longitude            float64      `json:"longitude"`
	Timezone             string       `json:"timezone"`
	TimezoneAbbreviation string       `json:"timezone_abbreviation"`
	UTCOffsetSeconds     int          `json:"utc_offset_seconds"`
	Hourly               HourlySeries `json:"hourly"`
	Daily                DailySeries  `json:"daily"`
}
