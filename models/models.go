// Package models defines data structures used throughout the application
package models

import (
	"time"

	"gorm.io/gorm"
)

// ResolvedLocation is the outcome of geocoding a free-text location. Latitude
// and longitude are either both present or both nil; a nil pair marks a lookup
// that produced no usable coordinates, with Name carrying the original input.
type ResolvedLocation struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Name      string   `json:"name"`
}

// HasCoordinates reports whether the resolution produced a usable coordinate pair
func (l *ResolvedLocation) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// WeatherCondition describes a single weather state with its WMO code,
// human-readable description and icon token
type WeatherCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// ReportMain holds the current temperature and atmosphere readings
type ReportMain struct {
	Temp      *float64 `json:"temp"`
	FeelsLike *float64 `json:"feels_like"`
	TempMin   *float64 `json:"temp_min"`
	TempMax   *float64 `json:"temp_max"`
	Pressure  *float64 `json:"pressure"`
	Humidity  *float64 `json:"humidity"`
}

// ReportWind holds the current wind readings
type ReportWind struct {
	Speed *float64 `json:"speed"`
	Deg   *float64 `json:"deg"`
	Gust  *float64 `json:"gust"`
}

// ReportClouds holds the current cloud cover percentage
type ReportClouds struct {
	All *float64 `json:"all"`
}

// ReportSys holds timezone and sun times for the current day
type ReportSys struct {
	TimezoneAbbreviation string `json:"timezone_abbreviation"`
	Sunrise              int64  `json:"sunrise"`
	Sunset               int64  `json:"sunset"`
}

// DailySummary is one day of the forecast sequence
type DailySummary struct {
	DT      int64            `json:"dt"`
	DateStr string           `json:"date_str"`
	TempMin *float64         `json:"temp_min"`
	TempMax *float64         `json:"temp_max"`
	Sunrise int64            `json:"sunrise"`
	Sunset  int64            `json:"sunset"`
	Weather WeatherCondition `json:"weather"`
}

// WeatherReport is the stable response shape returned to clients: a current
// snapshot plus an ordered per-day forecast sequence
type WeatherReport struct {
	Main          ReportMain         `json:"main"`
	Weather       []WeatherCondition `json:"weather"`
	Base          string             `json:"base"`
	Visibility    *float64           `json:"visibility"`
	Wind          ReportWind         `json:"wind"`
	Clouds        ReportClouds       `json:"clouds"`
	DT            int64              `json:"dt"`
	Sys           ReportSys          `json:"sys"`
	Timezone      int                `json:"timezone"`
	Name          string             `json:"name"`
	Cod           int                `json:"cod"`
	DailyForecast []DailySummary     `json:"daily_forecast"`
}

// Subscription represents a user's forecast notification subscription
type Subscription struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"index;not null"`
	Location  string         `json:"location" gorm:"not null"`
	Frequency string         `json:"frequency" gorm:"not null"`
	Confirmed bool           `json:"confirmed" gorm:"default:false"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Token represents a confirmation or unsubscribe token
type Token struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Token          string         `json:"token" gorm:"uniqueIndex;not null"`
	SubscriptionID uint           `json:"subscription_id" gorm:"index;not null"`
	Subscription   Subscription   `json:"-" gorm:"foreignKey:SubscriptionID"`
	Type           string         `json:"type" gorm:"not null"` // "confirmation" or "unsubscribe"
	ExpiresAt      time.Time      `json:"expires_at"`
	CreatedAt      time.Time      `json:"created_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// SubscriptionRequest represents data required to create a subscription
type SubscriptionRequest struct {
	Email     string `json:"email" form:"email" binding:"required,email"`
	Location  string `json:"location" form:"location" binding:"required"`
	Frequency string `json:"frequency" form:"frequency" binding:"required,oneof=hourly daily"`
}

// ErrorResponse represents an error message structure for API responses
type ErrorResponse struct {
	Error string `json:"error"`
}
