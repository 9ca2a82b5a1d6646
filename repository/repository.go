// Package repository implements data access layer for the application
package repository

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"forecastapi.app/models"
)

// SubscriptionRepository handles data access operations for subscriptions
type SubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new repository for subscription data
func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// FindByEmail retrieves a subscription by email and location
func (r *SubscriptionRepository) FindByEmail(email, location string) (*models.Subscription, error) {
	var subscription models.Subscription
	result := r.db.Where("email = ? AND location = ?", email, location).First(&subscription)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &subscription, nil
}

// FindByID retrieves a subscription by its ID
func (r *SubscriptionRepository) FindByID(id uint) (*models.Subscription, error) {
	var subscription models.Subscription
	if result := r.db.First(&subscription, id); result.Error != nil {
		return nil, result.Error
	}
	return &subscription, nil
}

// Create persists a new subscription to the database
func (r *SubscriptionRepository) Create(subscription *models.Subscription) error {
	return r.db.Create(subscription).Error
}

// Update modifies an existing subscription
func (r *SubscriptionRepository) Update(subscription *models.Subscription) error {
	return r.db.Save(subscription).Error
}

// Delete removes a subscription from the database
func (r *SubscriptionRepository) Delete(subscription *models.Subscription) error {
	return r.db.Delete(subscription).Error
}

// GetSubscriptionsForUpdates retrieves all confirmed subscriptions for a specific frequency
func (r *SubscriptionRepository) GetSubscriptionsForUpdates(frequency string) ([]models.Subscription, error) {
	var subscriptions []models.Subscription
	result := r.db.Where("frequency = ? AND confirmed = ?", frequency, true).Find(&subscriptions)
	if result.Error != nil {
		return nil, result.Error
	}
	return subscriptions, nil
}

// TokenRepository handles data access operations for confirmation and
// unsubscribe tokens
type TokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new repository for token operations
func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// CreateToken generates and stores a new token for a subscription
func (r *TokenRepository) CreateToken(subscriptionID uint, tokenType string, expiresIn time.Duration) (*models.Token, error) {
	token := &models.Token{
		Token:          uuid.New().String(),
		SubscriptionID: subscriptionID,
		Type:           tokenType,
		ExpiresAt:      time.Now().Add(expiresIn),
	}

	if result := r.db.Create(token); result.Error != nil {
		return nil, result.Error
	}
	return token, nil
}

// FindByToken retrieves an unexpired token by its string value
func (r *TokenRepository) FindByToken(tokenStr string) (*models.Token, error) {
	var token models.Token
	result := r.db.Where("token = ? AND expires_at > ?", tokenStr, time.Now()).First(&token)
	if result.Error != nil {
		return nil, result.Error
	}
	return &token, nil
}

// FindBySubscriptionIDAndType retrieves an unexpired token of the given type
// for a subscription
func (r *TokenRepository) FindBySubscriptionIDAndType(subscriptionID uint, tokenType string) (*models.Token, error) {
	var token models.Token
	result := r.db.Where("subscription_id = ? AND type = ? AND expires_at > ?",
		subscriptionID, tokenType, time.Now()).First(&token)
	if result.Error != nil {
		return nil, result.Error
	}
	return &token, nil
}

// DeleteToken removes a token from the database
func (r *TokenRepository) DeleteToken(token *models.Token) error {
	return r.db.Delete(token).Error
}

// DeleteExpiredTokens removes all expired tokens from the database
func (r *TokenRepository) DeleteExpiredTokens() error {
	result := r.db.Where("expires_at < ?", time.Now()).Delete(&models.Token{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		slog.Debug("deleted expired tokens", "count", result.RowsAffected)
	}
	return nil
}
