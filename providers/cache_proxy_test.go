package providers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "forecastapi.app/errors"
	"forecastapi.app/models"
	"forecastapi.app/providers/cache"
)

type stubGeocodeProvider struct {
	calls  int
	result *models.ResolvedLocation
	err    error
}

func (s *stubGeocodeProvider) Resolve(string) (*models.ResolvedLocation, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubForecastProvider struct {
	calls  int
	result *models.ForecastPayload
	err    error
}

func (s *stubForecastProvider) Fetch(float64, float64, int) (*models.ForecastPayload, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func resolvedLondon() *models.ResolvedLocation {
	lat, lon := 51.50853, -0.12574
	return &models.ResolvedLocation{Latitude: &lat, Longitude: &lon, Name: "London, England, United Kingdom"}
}

func TestGeocodeCacheProxy_MemoizesSuccessfulResolution(t *testing.T) {
	memCache := cache.NewMemoryCache()
	defer memCache.Stop()

	stub := &stubGeocodeProvider{result: resolvedLondon()}
	proxy := NewGeocodeCacheProxy(stub, memCache, time.Hour)

	first, err := proxy.Resolve("London")
	require.NoError(t, err)
	second, err := proxy.Resolve("London")
	require.NoError(t, err)

	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, *first.Latitude, *second.Latitude)
}

func TestGeocodeCacheProxy_NormalizesCacheKey(t *testing.T) {
	memCache := cache.NewMemoryCache()
	defer memCache.Stop()

	stub := &stubGeocodeProvider{result: resolvedLondon()}
	proxy := NewGeocodeCacheProxy(stub, memCache, time.Hour)

	_, err := proxy.Resolve("London")
	require.NoError(t, err)
	_, err = proxy.Resolve("  LONDON  ")
	require.NoError(t, err)

	// Trimmed, case-insensitive variants share one entry
	assert.Equal(t, 1, stub.calls)
}

func TestGeocodeCacheProxy_DoesNotMemoizeCoordinatelessResult(t *testing.T) {
	memCache := cache.NewMemoryCache()
	defer memCache.Stop()

	stub := &stubGeocodeProvider{result: &models.ResolvedLocation{Name: "Nonexistentplace123"}}
	proxy := NewGeocodeCacheProxy(stub, memCache, time.Hour)

	_, err := proxy.Resolve("Nonexistentplace123")
	require.NoError(t, err)
	_, err = proxy.Resolve("Nonexistentplace123")
	require.NoError(t, err)

	assert.Equal(t, 2, stub.calls)
	_, found := memCache.Get(context.Background(), geocodeCacheKey("Nonexistentplace123"))
	assert.False(t, found)
}

func TestGeocodeCacheProxy_DoesNotMemoizeFailure(t *testing.T) {
	memCache := cache.NewMemoryCache()
	defer memCache.Stop()

	stub := &stubGeocodeProvider{err: apperrors.NewUpstreamStatusError("geocoding API returned status code 500", 500)}
	proxy := NewGeocodeCacheProxy(stub, memCache, time.Hour)

	_, err := proxy.Resolve("London")
	require.Error(t, err)
	_, err = proxy.Resolve("London")
	require.Error(t, err)

	// Each call retried against the provider
	assert.Equal(t, 2, stub.calls)
}

func TestForecastCacheProxy_MemoizesSuccessfulFetch(t *testing.T) {
	memCache := cache.NewMemoryCache()
	defer memCache.Stop()

	stub := &stubForecastProvider{result: &models.ForecastPayload{TimezoneAbbreviation: "EEST", UTCOffsetSeconds: 10800}}
	proxy := NewForecastCacheProxy(stub, memCache, 15*time.Minute)

	first, err := proxy.Fetch(59.44, 24.75, 3)
	require.NoError(t, err)
	second, err := proxy.Fetch(59.44, 24.75, 3)
	require.NoError(t, err)

	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, first.TimezoneAbbreviation, second.TimezoneAbbreviation)
}

func TestForecastCacheProxy_KeyVariesWithInputs(t *testing.T) {
	keyA := ForecastCacheKey(59.44, 24.75, 3)
	assert.Equal(t, keyA, ForecastCacheKey(59.44, 24.75, 3))
	assert.NotEqual(t, keyA, ForecastCacheKey(59.44, 24.75, 4))
	assert.NotEqual(t, keyA, ForecastCacheKey(59.45, 24.75, 3))
	assert.NotEqual(t, keyA, ForecastCacheKey(59.44, 24.76, 3))
}

func TestForecastCacheProxy_DoesNotMemoizeFailure(t *testing.T) {
	memCache := cache.NewMemoryCache()
	defer memCache.Stop()

	stub := &stubForecastProvider{err: apperrors.NewUpstreamStatusError("forecast API returned status code 503", 503)}
	proxy := NewForecastCacheProxy(stub, memCache, 15*time.Minute)

	_, err := proxy.Fetch(59.44, 24.75, 1)
	require.Error(t, err)
	_, err = proxy.Fetch(59.44, 24.75, 1)
	require.Error(t, err)

	assert.Equal(t, 2, stub.calls)
	_, found := memCache.Get(context.Background(), ForecastCacheKey(59.44, 24.75, 1))
	assert.False(t, found)
}
