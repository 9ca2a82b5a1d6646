package service

import (
	"time"

	"forecastapi.app/models"
)

// WeatherServiceInterface defines the interface for forecast lookups
type WeatherServiceInterface interface {
	GetForecast(location string, days int) (*models.WeatherReport, error)
}

// SubscriptionManagerInterface handles subscription creation and removal
type SubscriptionManagerInterface interface {
	Subscribe(req *models.SubscriptionRequest) error
	Unsubscribe(token string) error
}

// ConfirmationServiceInterface handles subscription confirmations
type ConfirmationServiceInterface interface {
	ConfirmSubscription(token string) error
}

// NotificationServiceInterface handles sending scheduled forecast updates
type NotificationServiceInterface interface {
	SendForecastUpdate(frequency string) error
}

// SubscriptionServiceInterface combines the subscription-facing interfaces
type SubscriptionServiceInterface interface {
	SubscriptionManagerInterface
	ConfirmationServiceInterface
	NotificationServiceInterface
}

// EmailServiceInterface defines the interface for email operations
type EmailServiceInterface interface {
	SendConfirmationEmail(email, confirmURL, location string) error
	SendWelcomeEmail(email, location, frequency, unsubscribeURL string) error
	SendUnsubscribeConfirmationEmail(email, location string) error
	SendForecastUpdateEmail(email, location string, report *models.WeatherReport, unsubscribeURL string) error
}

// SubscriptionRepositoryInterface defines the interface for subscription data operations
type SubscriptionRepositoryInterface interface {
	FindByEmail(email, location string) (*models.Subscription, error)
	FindByID(id uint) (*models.Subscription, error)
	Create(subscription *models.Subscription) error
	Update(subscription *models.Subscription) error
	Delete(subscription *models.Subscription) error
	GetSubscriptionsForUpdates(frequency string) ([]models.Subscription, error)
}

// TokenRepositoryInterface defines the interface for token operations
type TokenRepositoryInterface interface {
	CreateToken(subscriptionID uint, tokenType string, expiresIn time.Duration) (*models.Token, error)
	FindByToken(tokenStr string) (*models.Token, error)
	FindBySubscriptionIDAndType(subscriptionID uint, tokenType string) (*models.Token, error)
	DeleteToken(token *models.Token) error
	DeleteExpiredTokens() error
}

// Ensure implementations satisfy interfaces
var _ WeatherServiceInterface = (*WeatherService)(nil)
var _ SubscriptionServiceInterface = (*SubscriptionService)(nil)
var _ EmailServiceInterface = (*EmailService)(nil)
