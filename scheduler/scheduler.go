// Package scheduler implements background job scheduling
package scheduler

import (
	"log/slog"
	"time"

	"forecastapi.app/config"
	"forecastapi.app/service"
)

// Scheduler manages periodic tasks: forecast update emails per frequency and
// expired token cleanup.
type Scheduler struct {
	config              *config.SchedulerConfig
	subscriptionService service.SubscriptionServiceInterface
	tokenRepo           service.TokenRepositoryInterface
	stop                chan struct{}
}

// NewScheduler creates and configures a new task scheduler
func NewScheduler(cfg *config.SchedulerConfig, subscriptionService service.SubscriptionServiceInterface, tokenRepo service.TokenRepositoryInterface) *Scheduler {
	return &Scheduler{
		config:              cfg,
		subscriptionService: subscriptionService,
		tokenRepo:           tokenRepo,
		stop:                make(chan struct{}),
	}
}

// Start begins the scheduler's operations
func (s *Scheduler) Start() {
	go s.scheduleInterval(24*time.Hour, s.cleanupExpiredTokens)

	go s.scheduleInterval(time.Duration(s.config.HourlyInterval)*time.Minute, func() {
		if err := s.subscriptionService.SendForecastUpdate("hourly"); err != nil {
			slog.Error("failed to send hourly forecast updates", "error", err)
		}
	})

	go s.scheduleInterval(time.Duration(s.config.DailyInterval)*time.Minute, func() {
		if err := s.subscriptionService.SendForecastUpdate("daily"); err != nil {
			slog.Error("failed to send daily forecast updates", "error", err)
		}
	})
}

// Stop terminates all scheduled jobs
func (s *Scheduler) Stop() {
	close(s.stop)
}

func (s *Scheduler) scheduleInterval(interval time.Duration, job func()) {
	job()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			job()
		case <-s.stop:
			return
		}
	}
}

func (s *Scheduler) cleanupExpiredTokens() {
	if err := s.tokenRepo.DeleteExpiredTokens(); err != nil {
		slog.Error("failed to clean up expired tokens", "error", err)
	}
}
