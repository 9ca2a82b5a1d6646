package service

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"forecastapi.app/config"
	"forecastapi.app/errors"
	"forecastapi.app/models"
)

// SubscriptionService handles subscription-related business logic
type SubscriptionService struct {
	db               *gorm.DB
	subscriptionRepo SubscriptionRepositoryInterface
	tokenRepo        TokenRepositoryInterface
	emailService     EmailServiceInterface
	weatherService   WeatherServiceInterface
	config           *config.Config
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(
	db *gorm.DB,
	subscriptionRepo SubscriptionRepositoryInterface,
	tokenRepo TokenRepositoryInterface,
	emailService EmailServiceInterface,
	weatherService WeatherServiceInterface,
	config *config.Config,
) *SubscriptionService {
	return &SubscriptionService{
		db:               db,
		subscriptionRepo: subscriptionRepo,
		tokenRepo:        tokenRepo,
		emailService:     emailService,
		weatherService:   weatherService,
		config:           config,
	}
}

// Subscribe creates a new forecast subscription or updates an existing one
func (s *SubscriptionService) Subscribe(req *models.SubscriptionRequest) error {
	if err := s.validateSubscriptionRequest(req); err != nil {
		return err
	}

	existing, err := s.subscriptionRepo.FindByEmail(req.Email, req.Location)
	if err != nil {
		return errors.NewDatabaseError("failed to check existing subscription", err)
	}

	if existing != nil && existing.Confirmed {
		return errors.NewAlreadyExistsError("email already subscribed")
	}

	subscription, err := s.createOrUpdateSubscription(existing, req)
	if err != nil {
		return err
	}

	return s.sendConfirmationEmail(subscription)
}

func (s *SubscriptionService) validateSubscriptionRequest(req *models.SubscriptionRequest) error {
	if req.Email == "" {
		return errors.NewValidationError("email is required")
	}
	if req.Location == "" {
		return errors.NewValidationError("location is required")
	}
	if req.Frequency != "hourly" && req.Frequency != "daily" {
		return errors.NewValidationError("frequency must be either 'hourly' or 'daily'")
	}
	return nil
}

func (s *SubscriptionService) createOrUpdateSubscription(existing *models.Subscription, req *models.SubscriptionRequest) (*models.Subscription, error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, errors.NewDatabaseError("failed to begin transaction", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var subscription *models.Subscription
	if existing != nil {
		subscription = existing
		subscription.Frequency = req.Frequency
		if err := tx.Save(subscription).Error; err != nil {
			tx.Rollback()
			return nil, errors.NewDatabaseError("failed to update subscription", err)
		}
	} else {
		subscription = &models.Subscription{
			Email:     req.Email,
			Location:  req.Location,
			Frequency: req.Frequency,
			Confirmed: false,
		}
		if err := tx.Create(subscription).Error; err != nil {
			tx.Rollback()
			return nil, errors.NewDatabaseError("failed to create subscription", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, errors.NewDatabaseError("failed to commit transaction", err)
	}

	return subscription, nil
}

func (s *SubscriptionService) sendConfirmationEmail(subscription *models.Subscription) error {
	token, err := s.tokenRepo.CreateToken(subscription.ID, "confirmation", 24*time.Hour)
	if err != nil {
		return errors.NewDatabaseError("failed to create confirmation token", err)
	}

	confirmURL := fmt.Sprintf("%s/api/confirm/%s", s.config.AppBaseURL, token.Token)

	return s.emailService.SendConfirmationEmail(subscription.Email, confirmURL, subscription.Location)
}

// ConfirmSubscription validates and confirms a subscription using a token
func (s *SubscriptionService) ConfirmSubscription(tokenStr string) error {
	if tokenStr == "" {
		return errors.NewValidationError("token cannot be empty")
	}

	token, err := s.tokenRepo.FindByToken(tokenStr)
	if err != nil {
		return errors.NewTokenError("token not found or expired")
	}

	if token.Type != "confirmation" {
		return errors.NewTokenError("invalid token type")
	}

	subscription, err := s.subscriptionRepo.FindByID(token.SubscriptionID)
	if err != nil {
		return errors.NewDatabaseError("failed to find subscription", err)
	}

	return s.processConfirmation(subscription, token)
}

func (s *SubscriptionService) processConfirmation(subscription *models.Subscription, token *models.Token) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return errors.NewDatabaseError("failed to begin transaction", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	subscription.Confirmed = true
	if err := tx.Save(subscription).Error; err != nil {
		tx.Rollback()
		return errors.NewDatabaseError("failed to update subscription", err)
	}

	if err := tx.Delete(token).Error; err != nil {
		tx.Rollback()
		return errors.NewDatabaseError("failed to delete token", err)
	}

	unsubscribeToken, err := s.tokenRepo.CreateToken(subscription.ID, "unsubscribe", 365*24*time.Hour)
	if err != nil {
		tx.Rollback()
		return errors.NewDatabaseError("failed to create unsubscribe token", err)
	}

	if err := tx.Commit().Error; err != nil {
		return errors.NewDatabaseError("failed to commit transaction", err)
	}

	unsubscribeURL := fmt.Sprintf("%s/api/unsubscribe/%s", s.config.AppBaseURL, unsubscribeToken.Token)

	// Best effort; confirmation already succeeded
	if err := s.emailService.SendWelcomeEmail(subscription.Email, subscription.Location, subscription.Frequency, unsubscribeURL); err != nil {
		slog.Warn("failed to send welcome email", "email", subscription.Email, "error", err)
	}

	return nil
}

// Unsubscribe removes a subscription using an unsubscribe token
func (s *SubscriptionService) Unsubscribe(tokenStr string) error {
	if tokenStr == "" {
		return errors.NewValidationError("token cannot be empty")
	}

	token, err := s.tokenRepo.FindByToken(tokenStr)
	if err != nil {
		return errors.NewTokenError("token not found or expired")
	}

	if token.Type != "unsubscribe" {
		return errors.NewTokenError("invalid token type")
	}

	subscription, err := s.subscriptionRepo.FindByID(token.SubscriptionID)
	if err != nil {
		return errors.NewDatabaseError("failed to find subscription", err)
	}

	return s.processUnsubscription(subscription, token)
}

func (s *SubscriptionService) processUnsubscription(subscription *models.Subscription, token *models.Token) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return errors.NewDatabaseError("failed to begin transaction", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Delete(subscription).Error; err != nil {
		tx.Rollback()
		return errors.NewDatabaseError("failed to delete subscription", err)
	}

	if err := tx.Delete(token).Error; err != nil {
		tx.Rollback()
		return errors.NewDatabaseError("failed to delete token", err)
	}

	if err := tx.Commit().Error; err != nil {
		return errors.NewDatabaseError("failed to commit transaction", err)
	}

	// Best effort; the subscription is already gone
	if err := s.emailService.SendUnsubscribeConfirmationEmail(subscription.Email, subscription.Location); err != nil {
		slog.Warn("failed to send unsubscribe confirmation email", "email", subscription.Email, "error", err)
	}

	return nil
}

// SendForecastUpdate sends forecast updates to all subscribers of the specified frequency
func (s *SubscriptionService) SendForecastUpdate(frequency string) error {
	if frequency != "hourly" && frequency != "daily" {
		return errors.NewValidationError("frequency must be either 'hourly' or 'daily'")
	}

	subscriptions, err := s.subscriptionRepo.GetSubscriptionsForUpdates(frequency)
	if err != nil {
		return errors.NewDatabaseError("failed to get subscriptions for updates", err)
	}

	slog.Debug("sending forecast updates", "frequency", frequency, "count", len(subscriptions))

	for _, subscription := range subscriptions {
		if err := s.sendForecastUpdateToSubscriber(subscription); err != nil {
			slog.Warn("failed to send forecast update", "email", subscription.Email, "error", err)
			continue
		}
	}

	return nil
}

func (s *SubscriptionService) sendForecastUpdateToSubscriber(subscription models.Subscription) error {
	report, err := s.weatherService.GetForecast(subscription.Location, 1)
	if err != nil {
		return fmt.Errorf("failed to get forecast for %s: %w", subscription.Location, err)
	}

	token, err := s.tokenRepo.FindBySubscriptionIDAndType(subscription.ID, "unsubscribe")
	if err != nil {
		token, err = s.tokenRepo.CreateToken(subscription.ID, "unsubscribe", 365*24*time.Hour)
		if err != nil {
			return fmt.Errorf("failed to create unsubscribe token: %w", err)
		}
	}

	unsubscribeURL := fmt.Sprintf("%s/api/unsubscribe/%s", s.config.AppBaseURL, token.Token)

	return s.emailService.SendForecastUpdateEmail(subscription.Email, subscription.Location, report, unsubscribeURL)
}
