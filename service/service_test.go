package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"forecastapi.app/config"
	apperrors "forecastapi.app/errors"
	"forecastapi.app/models"
)

type mockGeocodeProvider struct {
	mock.Mock
}

func (m *mockGeocodeProvider) Resolve(location string) (*models.ResolvedLocation, error) {
	args := m.Called(location)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ResolvedLocation), nil
}

type mockForecastProvider struct {
	mock.Mock
}

func (m *mockForecastProvider) Fetch(latitude, longitude float64, days int) (*models.ForecastPayload, error) {
	args := m.Called(latitude, longitude, days)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ForecastPayload), nil
}

type mockEmailProvider struct {
	mock.Mock
}

func (m *mockEmailProvider) SendEmail(to, subject, body string, isHTML bool) error {
	args := m.Called(to, subject, body, isHTML)
	return args.Error(0)
}

func testWeatherConfig() *config.WeatherConfig {
	return &config.WeatherConfig{
		DefaultLocationName: "Tallinn, Estonia",
		DefaultLatitude:     59.436962,
		DefaultLongitude:    24.753574,
	}
}

func TestWeatherService_GetForecast_DefaultLocationSkipsResolver(t *testing.T) {
	tests := []struct {
		name     string
		location string
	}{
		{"empty location", ""},
		{"whitespace only", "   "},
		{"exact default name", "Tallinn, Estonia"},
		{"case-insensitive default name", "tallinn, ESTONIA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := new(mockGeocodeProvider)
			forecaster := new(mockForecastProvider)
			weatherService := NewWeatherService(resolver, forecaster, testWeatherConfig())

			forecaster.On("Fetch", 59.436962, 24.753574, 3).Return(testPayload(), nil)

			report, err := weatherService.GetForecast(tt.location, 3)

			assert.NoError(t, err)
			require.NotNil(t, report)
			assert.Equal(t, "Tallinn, Estonia", report.Name)
			resolver.AssertNotCalled(t, "Resolve", mock.Anything)
			forecaster.AssertExpectations(t)
		})
	}
}

func TestWeatherService_GetForecast_ClampsDays(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		fetched   int
	}{
		{"zero becomes one", 0, 1},
		{"negative becomes one", -5, 1},
		{"in range unchanged", 7, 7},
		{"above maximum capped", 100, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := new(mockGeocodeProvider)
			forecaster := new(mockForecastProvider)
			weatherService := NewWeatherService(resolver, forecaster, testWeatherConfig())

			forecaster.On("Fetch", 59.436962, 24.753574, tt.fetched).Return(testPayload(), nil)

			_, err := weatherService.GetForecast("", tt.requested)

			assert.NoError(t, err)
			forecaster.AssertExpectations(t)
		})
	}
}

func TestWeatherService_GetForecast_ResolvedLocation(t *testing.T) {
	resolver := new(mockGeocodeProvider)
	forecaster := new(mockForecastProvider)
	weatherService := NewWeatherService(resolver, forecaster, testWeatherConfig())

	lat, lon := 51.5074, -0.1278
	resolver.On("Resolve", "London").Return(&models.ResolvedLocation{
		Latitude:  &lat,
		Longitude: &lon,
		Name:      "London, England, United Kingdom",
	}, nil)
	forecaster.On("Fetch", lat, lon, 1).Return(testPayload(), nil)

	report, err := weatherService.GetForecast("  London  ", 1)

	assert.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, "London, England, United Kingdom", report.Name)
	resolver.AssertExpectations(t)
	forecaster.AssertExpectations(t)
}

func TestWeatherService_GetForecast_NoCoordinates(t *testing.T) {
	resolver := new(mockGeocodeProvider)
	forecaster := new(mockForecastProvider)
	weatherService := NewWeatherService(resolver, forecaster, testWeatherConfig())

	resolver.On("Resolve", "Nonexistentplace123").Return(&models.ResolvedLocation{Name: "Nonexistentplace123"}, nil)

	report, err := weatherService.GetForecast("Nonexistentplace123", 1)

	assert.Error(t, err)
	assert.Nil(t, report)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.NotFoundError, appErr.Type)
	assert.Contains(t, appErr.Message, "Could not find coordinates for the specified location: Nonexistentplace123")
	forecaster.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
}

func TestWeatherService_GetForecast_ResolverFailureBecomesNotFound(t *testing.T) {
	resolver := new(mockGeocodeProvider)
	forecaster := new(mockForecastProvider)
	weatherService := NewWeatherService(resolver, forecaster, testWeatherConfig())

	resolver.On("Resolve", "London").Return(nil, apperrors.NewExternalAPIError("geocoding request failed", errors.New("timeout")))

	report, err := weatherService.GetForecast("London", 1)

	assert.Error(t, err)
	assert.Nil(t, report)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.NotFoundError, appErr.Type)
	assert.Contains(t, appErr.Message, "London")
	forecaster.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
}

func TestWeatherService_GetForecast_ForecastErrorPassesThrough(t *testing.T) {
	resolver := new(mockGeocodeProvider)
	forecaster := new(mockForecastProvider)
	weatherService := NewWeatherService(resolver, forecaster, testWeatherConfig())

	upstreamErr := apperrors.NewUpstreamStatusError("forecast provider request failed", 503)
	forecaster.On("Fetch", 59.436962, 24.753574, 1).Return(nil, upstreamErr)

	report, err := weatherService.GetForecast("", 1)

	assert.Nil(t, report)
	assert.Equal(t, upstreamErr, err)
}

func TestWeatherService_GetForecast_TransformFailure(t *testing.T) {
	resolver := new(mockGeocodeProvider)
	forecaster := new(mockForecastProvider)
	weatherService := NewWeatherService(resolver, forecaster, testWeatherConfig())

	broken := testPayload()
	broken.Hourly.Temperature = nil
	forecaster.On("Fetch", 59.436962, 24.753574, 1).Return(broken, nil)

	report, err := weatherService.GetForecast("", 1)

	assert.Error(t, err)
	assert.Nil(t, report)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ProcessingError, appErr.Type)
}

func TestEmailService_SendConfirmationEmail(t *testing.T) {
	mockProvider := new(mockEmailProvider)
	emailService := NewEmailService(mockProvider)

	mockProvider.On("SendEmail", "test@example.com", "Confirm your forecast subscription for London", mock.AnythingOfType("string"), true).Return(nil)

	err := emailService.SendConfirmationEmail("test@example.com", "http://example.com/confirm/token", "London")

	assert.NoError(t, err)
	mockProvider.AssertExpectations(t)
}

func TestEmailService_SendConfirmationEmail_EmptyEmail(t *testing.T) {
	mockProvider := new(mockEmailProvider)
	emailService := NewEmailService(mockProvider)

	err := emailService.SendConfirmationEmail("", "http://example.com/confirm/token", "London")

	assert.Error(t, err)

	var appErr *apperrors.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ValidationError, appErr.Type)
}

func TestEmailService_SendForecastUpdateEmail(t *testing.T) {
	mockProvider := new(mockEmailProvider)
	emailService := NewEmailService(mockProvider)

	temp := 19.4
	humidity := 65.0
	report := &models.WeatherReport{
		Name: "London, England, United Kingdom",
		Main: models.ReportMain{Temp: &temp, Humidity: &humidity},
		Weather: []models.WeatherCondition{
			{ID: 61, Description: "Slight rain", Icon: "10d"},
		},
	}

	var sentBody string
	mockProvider.On("SendEmail", "test@example.com", "Forecast Update for London", mock.AnythingOfType("string"), true).
		Run(func(args mock.Arguments) { sentBody = args.String(2) }).
		Return(nil)

	err := emailService.SendForecastUpdateEmail("test@example.com", "London", report, "http://example.com/unsubscribe/token")

	assert.NoError(t, err)
	assert.Contains(t, sentBody, "19.4")
	assert.Contains(t, sentBody, "Slight rain")
	assert.Contains(t, sentBody, "http://example.com/unsubscribe/token")
	mockProvider.AssertExpectations(t)
}

// Mock implementations for SubscriptionService tests
type mockSubscriptionRepository struct {
	mock.Mock
}

func (m *mockSubscriptionRepository) FindByEmail(email, location string) (*models.Subscription, error) {
	args := m.Called(email, location)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), nil
}

func (m *mockSubscriptionRepository) FindByID(id uint) (*models.Subscription, error) {
	args := m.Called(id)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), nil
}

func (m *mockSubscriptionRepository) Create(subscription *models.Subscription) error {
	args := m.Called(subscription)
	subscription.ID = 1
	return args.Error(0)
}

func (m *mockSubscriptionRepository) Update(subscription *models.Subscription) error {
	args := m.Called(subscription)
	return args.Error(0)
}

func (m *mockSubscriptionRepository) Delete(subscription *models.Subscription) error {
	args := m.Called(subscription)
	return args.Error(0)
}

func (m *mockSubscriptionRepository) GetSubscriptionsForUpdates(frequency string) ([]models.Subscription, error) {
	args := m.Called(frequency)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subscription), nil
}

type mockTokenRepository struct {
	mock.Mock
}

func (m *mockTokenRepository) CreateToken(subscriptionID uint, tokenType string, expiresIn time.Duration) (*models.Token, error) {
	args := m.Called(subscriptionID, tokenType, expiresIn)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Token), nil
}

func (m *mockTokenRepository) FindByToken(tokenStr string) (*models.Token, error) {
	args := m.Called(tokenStr)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Token), nil
}

func (m *mockTokenRepository) FindBySubscriptionIDAndType(subscriptionID uint, tokenType string) (*models.Token, error) {
	args := m.Called(subscriptionID, tokenType)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Token), nil
}

func (m *mockTokenRepository) DeleteToken(token *models.Token) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *mockTokenRepository) DeleteExpiredTokens() error {
	args := m.Called()
	return args.Error(0)
}

type mockEmailService struct {
	mock.Mock
}

func (m *mockEmailService) SendConfirmationEmail(email, confirmURL, location string) error {
	args := m.Called(email, confirmURL, location)
	return args.Error(0)
}

func (m *mockEmailService) SendWelcomeEmail(email, location, frequency, unsubscribeURL string) error {
	args := m.Called(email, location, frequency, unsubscribeURL)
	return args.Error(0)
}

func (m *mockEmailService) SendUnsubscribeConfirmationEmail(email, location string) error {
	args := m.Called(email, location)
	return args.Error(0)
}

func (m *mockEmailService) SendForecastUpdateEmail(email, location string, report *models.WeatherReport, unsubscribeURL string) error {
	args := m.Called(email, location, report, unsubscribeURL)
	return args.Error(0)
}

type mockWeatherService struct {
	mock.Mock
}

func (m *mockWeatherService) GetForecast(location string, days int) (*models.WeatherReport, error) {
	args := m.Called(location, days)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WeatherReport), nil
}

func newSubscriptionTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Subscription{}, &models.Token{}))
	return db
}

func TestSubscriptionService_Subscribe_Success(t *testing.T) {
	db := newSubscriptionTestDB(t)

	mockSubRepo := new(mockSubscriptionRepository)
	mockTokenRepo := new(mockTokenRepository)
	mockEmails := new(mockEmailService)
	mockWeather := new(mockWeatherService)

	cfg := &config.Config{AppBaseURL: "http://localhost:8080"}

	subscriptionService := NewSubscriptionService(db, mockSubRepo, mockTokenRepo, mockEmails, mockWeather, cfg)

	req := &models.SubscriptionRequest{
		Email:     "test@example.com",
		Location:  "London",
		Frequency: "daily",
	}

	mockSubRepo.On("FindByEmail", "test@example.com", "London").Return((*models.Subscription)(nil), nil)
	mockTokenRepo.On("CreateToken", uint(1), "confirmation", 24*time.Hour).Return(&models.Token{
		ID:    1,
		Token: "test-token",
	}, nil)
	mockEmails.On("SendConfirmationEmail", "test@example.com", "http://localhost:8080/api/confirm/test-token", "London").Return(nil)

	err := subscriptionService.Subscribe(req)

	assert.NoError(t, err)
	mockSubRepo.AssertExpectations(t)
	mockTokenRepo.AssertExpectations(t)
	mockEmails.AssertExpectations(t)
}

func TestSubscriptionService_Subscribe_ValidationError(t *testing.T) {
	db := newSubscriptionTestDB(t)
	subscriptionService := NewSubscriptionService(db, nil, nil, nil, nil, &config.Config{})

	req := &models.SubscriptionRequest{
		Email:     "",
		Location:  "London",
		Frequency: "daily",
	}

	err := subscriptionService.Subscribe(req)

	assert.Error(t, err)

	var appErr *apperrors.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ValidationError, appErr.Type)
	assert.Contains(t, appErr.Message, "email is required")
}

func TestSubscriptionService_Subscribe_AlreadyExists(t *testing.T) {
	db := newSubscriptionTestDB(t)
	mockSubRepo := new(mockSubscriptionRepository)

	subscriptionService := NewSubscriptionService(db, mockSubRepo, nil, nil, nil, &config.Config{})

	req := &models.SubscriptionRequest{
		Email:     "existing@example.com",
		Location:  "London",
		Frequency: "daily",
	}

	existingSub := &models.Subscription{
		ID:        1,
		Email:     "existing@example.com",
		Location:  "London",
		Confirmed: true,
	}

	mockSubRepo.On("FindByEmail", "existing@example.com", "London").Return(existingSub, nil)

	err := subscriptionService.Subscribe(req)

	assert.Error(t, err)

	var appErr *apperrors.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.AlreadyExistsError, appErr.Type)
	mockSubRepo.AssertExpectations(t)
}

func TestSubscriptionService_ConfirmSubscription_WrongTokenType(t *testing.T) {
	db := newSubscriptionTestDB(t)
	mockTokenRepo := new(mockTokenRepository)

	subscriptionService := NewSubscriptionService(db, nil, mockTokenRepo, nil, nil, &config.Config{})

	mockTokenRepo.On("FindByToken", "some-token").Return(&models.Token{
		ID:    1,
		Token: "some-token",
		Type:  "unsubscribe",
	}, nil)

	err := subscriptionService.ConfirmSubscription("some-token")

	assert.Error(t, err)

	var appErr *apperrors.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.TokenError, appErr.Type)
	mockTokenRepo.AssertExpectations(t)
}

func TestSubscriptionService_SendForecastUpdate_InvalidFrequency(t *testing.T) {
	db := newSubscriptionTestDB(t)
	subscriptionService := NewSubscriptionService(db, nil, nil, nil, nil, &config.Config{})

	err := subscriptionService.SendForecastUpdate("weekly")

	assert.Error(t, err)

	var appErr *apperrors.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ValidationError, appErr.Type)
}

func TestSubscriptionService_SendForecastUpdate_SendsToSubscribers(t *testing.T) {
	db := newSubscriptionTestDB(t)

	mockSubRepo := new(mockSubscriptionRepository)
	mockTokenRepo := new(mockTokenRepository)
	mockEmails := new(mockEmailService)
	mockWeather := new(mockWeatherService)

	cfg := &config.Config{AppBaseURL: "http://localhost:8080"}
	subscriptionService := NewSubscriptionService(db, mockSubRepo, mockTokenRepo, mockEmails, mockWeather, cfg)

	subs := []models.Subscription{
		{ID: 1, Email: "a@example.com", Location: "London", Frequency: "daily", Confirmed: true},
		{ID: 2, Email: "b@example.com", Location: "Paris", Frequency: "daily", Confirmed: true},
	}
	report := &models.WeatherReport{Name: "London"}

	mockSubRepo.On("GetSubscriptionsForUpdates", "daily").Return(subs, nil)
	mockWeather.On("GetForecast", "London", 1).Return(report, nil)
	mockWeather.On("GetForecast", "Paris", 1).Return(nil, apperrors.NewNotFoundError("no coordinates"))
	mockTokenRepo.On("FindBySubscriptionIDAndType", uint(1), "unsubscribe").Return(&models.Token{Token: "tok-1"}, nil)
	mockEmails.On("SendForecastUpdateEmail", "a@example.com", "London", report, "http://localhost:8080/api/unsubscribe/tok-1").Return(nil)

	// Second subscriber fails on forecast lookup; update continues past it
	err := subscriptionService.SendForecastUpdate("daily")

	assert.NoError(t, err)
	mockSubRepo.AssertExpectations(t)
	mockWeather.AssertExpectations(t)
	mockEmails.AssertExpectations(t)
}
