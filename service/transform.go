package service

import (
	"log/slog"
	"time"

	"forecastapi.app/models"
)

// Open-Meteo timestamp layouts: minute-resolution local time for the hourly
// series and sun times, date-only for the daily series.
const (
	hourlyTimeLayout = "2006-01-02T15:04"
	dailyTimeLayout  = "2006-01-02"
)

// TransformForecast reshapes a raw forecast payload into the stable report
// shape. locationName is the resolved display name, requestedDays bounds the
// daily sequence and now anchors the current-sample search. Returns nil when
// the payload is missing required fields or carries unusable timestamps; the
// caller surfaces that as a processing failure.
func TransformForecast(payload *models.ForecastPayload, locationName string, requestedDays int, now time.Time) *models.WeatherReport {
	if len(payload.Hourly.Time) == 0 {
		slog.Error("forecast payload hourly time data missing")
		return nil
	}

	zone := time.FixedZone(payload.TimezoneAbbreviation, payload.UTCOffsetSeconds)
	idx := currentHourIndex(payload.Hourly.Time, zone, now)

	temp := floatAt(payload.Hourly.Temperature, idx)
	code := intAt(payload.Hourly.WeatherCode, idx)
	todayMin := floatAt(payload.Daily.TemperatureMin, 0)
	todayMax := floatAt(payload.Daily.TemperatureMax, 0)
	if temp == nil || code == nil || todayMin == nil || todayMax == nil {
		slog.Error("forecast payload missing required fields for current conditions",
			"current_hour_index", idx,
			"hourly_time_count", len(payload.Hourly.Time),
			"daily_time_count", len(payload.Daily.Time))
		return nil
	}

	// The hourly series omits is_day in some provider configurations; the
	// daytime variant is the documented default.
	isDay := 1
	if v := intAt(payload.Hourly.IsDay, idx); v != nil {
		isDay = *v
	}
	description, icon := MapWMOCode(*code, isDay)

	currentTime, err := time.ParseInLocation(hourlyTimeLayout, payload.Hourly.Time[idx], zone)
	if err != nil {
		slog.Error("unparseable current-sample timestamp", "value", payload.Hourly.Time[idx], "error", err)
		return nil
	}
	if len(payload.Daily.Sunrise) == 0 || len(payload.Daily.Sunset) == 0 {
		slog.Error("forecast payload missing sunrise/sunset for today")
		return nil
	}
	sunrise, err := time.ParseInLocation(hourlyTimeLayout, payload.Daily.Sunrise[0], zone)
	if err != nil {
		slog.Error("unparseable sunrise timestamp", "value", payload.Daily.Sunrise[0], "error", err)
		return nil
	}
	sunset, err := time.ParseInLocation(hourlyTimeLayout, payload.Daily.Sunset[0], zone)
	if err != nil {
		slog.Error("unparseable sunset timestamp", "value", payload.Daily.Sunset[0], "error", err)
		return nil
	}

	report := &models.WeatherReport{
		Main: models.ReportMain{
			Temp:      temp,
			FeelsLike: floatAt(payload.Hourly.ApparentTemperature, idx),
			TempMin:   todayMin,
			TempMax:   todayMax,
			Pressure:  floatAt(payload.Hourly.SurfacePressure, idx),
			Humidity:  floatAt(payload.Hourly.RelativeHumidity, idx),
		},
		Weather: []models.WeatherCondition{
			{
				ID:          *code,
				Main:        description,
				Description: description,
				Icon:        icon,
			},
		},
		Base:       "stations",
		Visibility: floatAt(payload.Hourly.Visibility, idx),
		Wind: models.ReportWind{
			Speed: floatAt(payload.Hourly.WindSpeed, idx),
			Deg:   floatAt(payload.Hourly.WindDirection, idx),
			Gust:  floatAt(payload.Hourly.WindGusts, idx),
		},
		Clouds: models.ReportClouds{
			All: floatAt(payload.Hourly.CloudCover, idx),
		},
		DT: currentTime.Unix(),
		Sys: models.ReportSys{
			TimezoneAbbreviation: payload.TimezoneAbbreviation,
			Sunrise:              sunrise.Unix(),
			Sunset:               sunset.Unix(),
		},
		Timezone:      payload.UTCOffsetSeconds,
		Name:          locationName,
		Cod:           200,
		DailyForecast: []models.DailySummary{},
	}

	dayCount := len(payload.Daily.Time)
	if requestedDays < dayCount {
		dayCount = requestedDays
	}
	for i := 0; i < dayCount; i++ {
		if payload.Daily.Time[i] == "" {
			continue
		}

		dailyCode := 0
		if v := intAt(payload.Daily.WeatherCode, i); v != nil {
			dailyCode = *v
		}
		// Daily summaries carry no day/night flag; force the daytime icon
		dailyDesc, dailyIcon := MapWMOCode(dailyCode, 1)

		date, err := time.ParseInLocation(dailyTimeLayout, payload.Daily.Time[i], zone)
		if err != nil {
			slog.Error("unparseable daily date", "value", payload.Daily.Time[i], "error", err)
			return nil
		}
		daySunrise, err := parseSunTime(payload.Daily.Sunrise, i, zone)
		if err != nil {
			slog.Error("unparseable daily sunrise", "index", i, "error", err)
			return nil
		}
		daySunset, err := parseSunTime(payload.Daily.Sunset, i, zone)
		if err != nil {
			slog.Error("unparseable daily sunset", "index", i, "error", err)
			return nil
		}

		report.DailyForecast = append(report.DailyForecast, models.DailySummary{
			DT:      date.Unix(),
			DateStr: payload.Daily.Time[i],
			TempMin: floatAt(payload.Daily.TemperatureMin, i),
			TempMax: floatAt(payload.Daily.TemperatureMax, i),
			Sunrise: daySunrise,
			Sunset:  daySunset,
			Weather: models.WeatherCondition{
				ID:          dailyCode,
				Main:        dailyDesc,
				Description: dailyDesc,
				Icon:        dailyIcon,
			},
		})
	}

	return report
}

// currentHourIndex finds the first hourly sample at or after now, skipping
// entries whose timestamps do not parse. Falls back to the last entry when
// every sample is in the past.
func currentHourIndex(times []string, zone *time.Location, now time.Time) int {
	idx := 0
	for i, iso := range times {
		t, err := time.ParseInLocation(hourlyTimeLayout, iso, zone)
		if err != nil {
			continue
		}
		if !t.Before(now) {
			return i
		}
		if i == len(times)-1 {
			idx = i
		}
	}
	return idx
}

func parseSunTime(values []string, i int, zone *time.Location) (int64, error) {
	if i >= len(values) {
		return 0, &time.ParseError{Layout: hourlyTimeLayout, Value: "", Message: "missing value"}
	}
	t, err := time.ParseInLocation(hourlyTimeLayout, values[i], zone)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

func floatAt(values []*float64, i int) *float64 {
	if i >= 0 && i < len(values) {
		return values[i]
	}
	return nil
}

func intAt(values []*int, i int) *int {
	if i >= 0 && i < len(values) {
		return values[i]
	}
	return nil
}
