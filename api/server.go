package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"forecastapi.app/config"
	apperrors "forecastapi.app/errors"
	"forecastapi.app/models"
	"forecastapi.app/service"
)

// Server represents the HTTP server and API handler
type Server struct {
	router              *gin.Engine
	db                  *gorm.DB
	config              *config.Config
	weatherService      service.WeatherServiceInterface
	subscriptionService service.SubscriptionServiceInterface
}

// NewServer creates and configures a new HTTP server
func NewServer(
	db *gorm.DB,
	config *config.Config,
	weatherService service.WeatherServiceInterface,
	subscriptionService service.SubscriptionServiceInterface,
) *Server {
	router := gin.Default()

	server := &Server{
		router:              router,
		db:                  db,
		config:              config,
		weatherService:      weatherService,
		subscriptionService: subscriptionService,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/weather", s.getWeather)
		api.POST("/subscribe", s.subscribe)
		api.GET("/confirm/:token", s.confirmSubscription)
		api.GET("/unsubscribe/:token", s.unsubscribe)
	}

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.ServeStaticFiles()
}

// Start begins the HTTP server
func (s *Server) Start() error {
	return s.router.Run(fmt.Sprintf(":%d", s.config.Server.Port))
}

// GetRouter returns the router for testing purposes
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

func (s *Server) getWeather(c *gin.Context) {
	location := c.Query("location")

	// A malformed value falls through as zero and is clamped to one day
	days, err := strconv.Atoi(c.DefaultQuery("days", "1"))
	if err != nil {
		days = 0
	}

	report, err := s.weatherService.GetForecast(location, days)
	if err != nil {
		slog.Error("forecast lookup failed", "location", location, "days", days, "error", err)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (s *Server) subscribe(c *gin.Context) {
	var req models.SubscriptionRequest

	if err := c.ShouldBind(&req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				slog.Warn("subscription field failed validation", "field", fe.Field(), "rule", fe.Tag())
			}
		} else {
			slog.Error("request binding error", "error", err)
		}
		s.handleError(c, apperrors.NewValidationError("invalid request format"))
		return
	}

	if err := s.subscriptionService.Subscribe(&req); err != nil {
		slog.Error("subscription error", "error", err, "email", req.Email, "location", req.Location)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription successful. Confirmation email sent."})
}

func (s *Server) confirmSubscription(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		s.handleError(c, apperrors.NewValidationError("token parameter is required"))
		return
	}

	if err := s.subscriptionService.ConfirmSubscription(token); err != nil {
		slog.Error("confirmation error", "error", err, "token", token)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription confirmed successfully"})
}

func (s *Server) unsubscribe(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		s.handleError(c, apperrors.NewValidationError("token parameter is required"))
		return
	}

	if err := s.subscriptionService.Unsubscribe(token); err != nil {
		slog.Error("unsubscribe error", "error", err, "token", token)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unsubscribed successfully"})
}

// handleError maps application errors to HTTP responses. Upstream provider
// statuses in the 4xx range pass through to the client; anything above 500,
// or an unknown status, collapses to 502.
func (s *Server) handleError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	var statusCode int
	var message string

	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ValidationError:
			statusCode = http.StatusBadRequest
			message = appErr.Message
		case apperrors.NotFoundError:
			statusCode = http.StatusNotFound
			message = appErr.Message
		case apperrors.AlreadyExistsError:
			statusCode = http.StatusConflict
			message = appErr.Message
		case apperrors.TokenError:
			statusCode = http.StatusBadRequest
			message = appErr.Message
		case apperrors.ExternalAPIError:
			statusCode, message = upstreamStatus(appErr.StatusCode)
		case apperrors.InvalidDataError:
			statusCode = http.StatusBadGateway
			message = "Received invalid data from weather provider."
		case apperrors.ProcessingError:
			statusCode = http.StatusInternalServerError
			message = "Failed to process weather data."
		case apperrors.DatabaseError:
			statusCode = http.StatusInternalServerError
			message = "Internal server error"
		case apperrors.EmailError:
			statusCode = http.StatusServiceUnavailable
			message = "Unable to send email"
		default:
			statusCode = http.StatusInternalServerError
			message = "An internal server error occurred."
		}
	} else {
		statusCode = http.StatusInternalServerError
		message = "An internal server error occurred."
	}

	c.JSON(statusCode, models.ErrorResponse{Error: message})
}

func upstreamStatus(upstream int) (int, string) {
	if upstream >= 400 && upstream < 500 {
		return upstream, "Invalid request to weather provider."
	}
	if upstream == http.StatusInternalServerError {
		return http.StatusInternalServerError, "Failed to fetch weather data from provider."
	}
	return http.StatusBadGateway, "Failed to fetch weather data from provider."
}
