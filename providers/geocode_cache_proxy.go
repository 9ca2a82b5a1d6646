package providers

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"forecastapi.app/models"
	"forecastapi.app/providers/cache"
)

// GeocodeCacheProxy is a read-through cache over a geocoding provider.
// Only resolutions carrying coordinates are memoized: provider errors pass
// through uncached and no-match results are recomputed on every call, so a
// failed lookup never poisons the cache.
type GeocodeCacheProxy struct {
	realProvider GeocodeProvider
	cache        cache.GenericCacheInterface
	cacheTTL     time.Duration
}

func NewGeocodeCacheProxy(realProvider GeocodeProvider, cache cache.GenericCacheInterface, cacheTTL time.Duration) *GeocodeCacheProxy {
	return &GeocodeCacheProxy{
		realProvider: realProvider,
		cache:        cache,
		cacheTTL:     cacheTTL,
	}
}

func (p *GeocodeCacheProxy) Resolve(location string) (*models.ResolvedLocation, error) {
	ctx := context.Background()
	cacheKey := geocodeCacheKey(location)

	if data, found := p.cache.Get(ctx, cacheKey); found {
		var cached models.ResolvedLocation
		if err := json.Unmarshal(data, &cached); err == nil {
			slog.Debug("geocode cache hit", "location", location)
			return &cached, nil
		}
		slog.Warn("discarding undecodable geocode cache entry", "key", cacheKey)
	}

	resolved, err := p.realProvider.Resolve(location)
	if err != nil {
		return nil, err
	}

	if resolved.HasCoordinates() {
		if data, err := json.Marshal(resolved); err == nil {
			p.cache.Set(ctx, cacheKey, data, p.cacheTTL)
		}
	}

	return resolved, nil
}

// geocodeCacheKey builds the cache key from the case-normalized location text
func geocodeCacheKey(location string) string {
	normalized := strings.ToLower(strings.TrimSpace(location))
	return fmt.Sprintf("geocode_%x", md5.Sum([]byte(normalized)))
}
