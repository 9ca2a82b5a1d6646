package providers

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"forecastapi.app/models"
	"forecastapi.app/providers/cache"
)

// ForecastCacheProxy is a read-through cache over a forecast provider. Only a
// successfully completed fetch is stored; provider failures pass through
// uncached so a later call retries against the provider.
type ForecastCacheProxy struct {
	realProvider ForecastProvider
	cache        cache.GenericCacheInterface
	cacheTTL     time.Duration
}

func NewForecastCacheProxy(realProvider ForecastProvider, cache cache.GenericCacheInterface, cacheTTL time.Duration) *ForecastCacheProxy {
	return &ForecastCacheProxy{
		realProvider: realProvider,
		cache:        cache,
		cacheTTL:     cacheTTL,
	}
}

func (p *ForecastCacheProxy) Fetch(latitude, longitude float64, days int) (*models.ForecastPayload, error) {
	ctx := context.Background()
	cacheKey := ForecastCacheKey(latitude, longitude, days)

	if data, found := p.cache.Get(ctx, cacheKey); found {
		var cached models.ForecastPayload
		if err := json.Unmarshal(data, &cached); err == nil {
			slog.Debug("forecast cache hit", "latitude", latitude, "longitude", longitude, "days", days)
			return &cached, nil
		}
		slog.Warn("discarding undecodable forecast cache entry", "key", cacheKey)
	}

	payload, err := p.realProvider.Fetch(latitude, longitude, days)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(payload); err == nil {
		p.cache.Set(ctx, cacheKey, data, p.cacheTTL)
	}

	return payload, nil
}

// forecastKeyParams is the canonical serialization the cache key is derived
// from. It covers every input that shapes the provider response, including the
// fixed field sets.
type forecastKeyParams struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Daily        string  `json:"daily"`
	Hourly       string  `json:"hourly"`
	Timezone     string  `json:"timezone"`
	ForecastDays int     `json:"forecast_days"`
}

// ForecastCacheKey builds the deterministic cache key for one forecast request
func ForecastCacheKey(latitude, longitude float64, days int) string {
	params := forecastKeyParams{
		Latitude:     latitude,
		Longitude:    longitude,
		Daily:        dailyFields,
		Hourly:       hourlyFields,
		Timezone:     "auto",
		ForecastDays: days,
	}
	encoded, _ := json.Marshal(params)
	return fmt.Sprintf("weather_forecast_%x", md5.Sum(encoded))
}
