package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/antonkh/space-weather-forecast/internal/forecast"
)

// Scheduler periodically syncs all forecast sources.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *forecast.Service
	interval  time.Duration
}

// New creates a new Scheduler.
func New(interval time.Duration, service *forecast.Service) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	_, err := s.scheduler.Every(interval).Do(func() {
		log.Println("scheduler: running forecast sync job")

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		run, err := s.service.SyncAll(ctx)
		if err != nil {
			log.Printf("scheduler: sync failed: %v", err)
			return
		}
		for _, r := range run.Results {
			if r.Error != "" {
				log.Printf("scheduler: source %s failed: %s", r.Source, r.Error)
			} else {
				log.Printf("scheduler: source %s synced %d days", r.Source, r.Days)
			}
		}
		log.Println("scheduler: completed forecast sync job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
