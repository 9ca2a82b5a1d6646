package service

import (
	"fmt"
	"log/slog"

	"forecastapi.app/errors"
	"forecastapi.app/models"
	"forecastapi.app/providers"
)

// EmailService handles email operations using a provider
type EmailService struct {
	provider providers.EmailProvider
}

// NewEmailService creates a new email service with the specified provider
func NewEmailService(provider providers.EmailProvider) *EmailService {
	return &EmailService{
		provider: provider,
	}
}

// SendConfirmationEmail sends an email with a confirmation link
func (s *EmailService) SendConfirmationEmail(email, confirmURL, location string) error {
	if email == "" {
		return errors.NewValidationError("email cannot be empty")
	}
	if confirmURL == "" {
		return errors.NewValidationError("confirmation URL cannot be empty")
	}
	if location == "" {
		return errors.NewValidationError("location cannot be empty")
	}

	subject := fmt.Sprintf("Confirm your forecast subscription for %s", location)
	htmlContent := fmt.Sprintf(
		"<p>Please confirm your subscription to forecast updates for %s by clicking the following link:</p>"+
			"<p><a href=\"%s\">Confirm Subscription</a></p>"+
			"<p>This link will expire in 24 hours.</p>",
		location, confirmURL,
	)

	return s.provider.SendEmail(email, subject, htmlContent, true)
}

// SendWelcomeEmail sends a welcome email after subscription confirmation
func (s *EmailService) SendWelcomeEmail(email, location, frequency, unsubscribeURL string) error {
	if email == "" {
		return errors.NewValidationError("email cannot be empty")
	}
	if location == "" {
		return errors.NewValidationError("location cannot be empty")
	}
	if frequency == "" {
		return errors.NewValidationError("frequency cannot be empty")
	}
	if unsubscribeURL == "" {
		return errors.NewValidationError("unsubscribe URL cannot be empty")
	}

	subject := fmt.Sprintf("Welcome to Forecast Updates for %s", location)
	frequencyText := "every hour"
	if frequency == "daily" {
		frequencyText = "every day"
	}

	htmlContent := fmt.Sprintf(
		"<p>Thank you for subscribing to %s forecast updates for %s.</p>"+
			"<p>You will receive updates %s.</p>"+
			"<p>To unsubscribe, <a href=\"%s\">click here</a>.</p>",
		frequency, location, frequencyText, unsubscribeURL,
	)

	return s.provider.SendEmail(email, subject, htmlContent, true)
}

// SendUnsubscribeConfirmationEmail sends a confirmation after unsubscribing
func (s *EmailService) SendUnsubscribeConfirmationEmail(email, location string) error {
	if email == "" {
		return errors.NewValidationError("email cannot be empty")
	}
	if location == "" {
		return errors.NewValidationError("location cannot be empty")
	}

	subject := fmt.Sprintf("You have unsubscribed from forecast updates for %s", location)
	htmlContent := fmt.Sprintf(
		"<p>You have successfully unsubscribed from forecast updates for %s.</p>",
		location,
	)

	return s.provider.SendEmail(email, subject, htmlContent, true)
}

// SendForecastUpdateEmail sends a forecast update email to a subscriber
func (s *EmailService) SendForecastUpdateEmail(email, location string, report *models.WeatherReport, unsubscribeURL string) error {
	if email == "" {
		return errors.NewValidationError("email cannot be empty")
	}
	if location == "" {
		return errors.NewValidationError("location cannot be empty")
	}
	if report == nil {
		return errors.NewValidationError("forecast report cannot be nil")
	}
	if unsubscribeURL == "" {
		return errors.NewValidationError("unsubscribe URL cannot be empty")
	}

	description := ""
	if len(report.Weather) > 0 {
		description = report.Weather[0].Description
	}

	htmlContent := fmt.Sprintf(
		"<h2>Current conditions for %s</h2>"+
			"<p><strong>Temperature:</strong> %s°C</p>"+
			"<p><strong>Humidity:</strong> %s%%</p>"+
			"<p><strong>Conditions:</strong> %s</p>",
		report.Name, formatReading(report.Main.Temp), formatReading(report.Main.Humidity), description,
	)
	for _, day := range report.DailyForecast {
		htmlContent += fmt.Sprintf(
			"<p><strong>%s:</strong> %s, %s°C to %s°C</p>",
			day.DateStr, day.Weather.Description, formatReading(day.TempMin), formatReading(day.TempMax),
		)
	}
	htmlContent += fmt.Sprintf("<p>To unsubscribe, <a href=\"%s\">click here</a>.</p>", unsubscribeURL)

	subject := fmt.Sprintf("Forecast Update for %s", location)
	if err := s.provider.SendEmail(email, subject, htmlContent, true); err != nil {
		slog.Error("failed to send forecast update email", "email", email, "error", err)
		return err
	}
	return nil
}

func formatReading(v *float64) string {
	if v == nil {
		return "?"
	}
	return fmt.Sprintf("%.1f", *v)
}
