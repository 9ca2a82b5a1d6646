package providers

import (
	"fmt"
	"time"

	"forecastapi.app/models"
)

// GeocodeLoggerDecorator logs every geocoding provider call
type GeocodeLoggerDecorator struct {
	wrappedProvider GeocodeProvider
	logger          FileLogger
	providerName    string
}

func NewGeocodeLoggerDecorator(provider GeocodeProvider, logger FileLogger, providerName string) GeocodeProvider {
	return &GeocodeLoggerDecorator{
		wrappedProvider: provider,
		logger:          logger,
		providerName:    providerName,
	}
}

func (d *GeocodeLoggerDecorator) Resolve(location string) (*models.ResolvedLocation, error) {
	d.logger.LogRequest(d.providerName, location)
	startTime := time.Now()

	resolved, err := d.wrappedProvider.Resolve(location)
	duration := time.Since(startTime)

	if err != nil {
		d.logger.LogError(d.providerName, location, err, duration)
		return nil, err
	}

	d.logger.LogResponse(d.providerName, location, duration)
	return resolved, nil
}

// ForecastLoggerDecorator logs every forecast provider call
type ForecastLoggerDecorator struct {
	wrappedProvider ForecastProvider
	logger          FileLogger
	providerName    string
}

func NewForecastLoggerDecorator(provider ForecastProvider, logger FileLogger, providerName string) ForecastProvider {
	return &ForecastLoggerDecorator{
		wrappedProvider: provider,
		logger:          logger,
		providerName:    providerName,
	}
}

func (d *ForecastLoggerDecorator) Fetch(latitude, longitude float64, days int) (*models.ForecastPayload, error) {
	target := fmt.Sprintf("%.6f,%.6f days=%d", latitude, longitude, days)
	d.logger.LogRequest(d.providerName, target)
	startTime := time.Now()

	payload, err := d.wrappedProvider.Fetch(latitude, longitude, days)
	duration := time.Since(startTime)

	if err != nil {
		d.logger.LogError(d.providerName, target, err, duration)
		return nil, err
	}

	d.logger.LogResponse(d.providerName, target, duration)
	return payload, nil
}
