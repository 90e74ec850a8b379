package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/uvwatch/uv-index-aggregator/internal/uv"
)

// Aggregator is the slice of the uv service the prewarm job needs.
type Aggregator interface {
	Aggregate(ctx context.Context, coord uv.Coordinate, date, tz string) (*uv.AggregatedResponse, error)
}

// Scheduler periodically re-aggregates today's forecast for configured
// coordinates so interactive requests for tracked locations hit a warm
// cache.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Aggregator
	coords    []uv.Coordinate
	interval  time.Duration
}

// New creates a new Scheduler.
func New(coords []uv.Coordinate, interval time.Duration, service Aggregator) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		coords:    coords,
		interval:  interval,
	}
}

// Start schedules the periodic prewarm job and starts the underlying
// scheduler. With no coordinates configured it is a no-op.
func (s *Scheduler) Start() error {
	if len(s.coords) == 0 {
		log.Println("scheduler: no prewarm coordinates configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 10
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: running uv prewarm job")

		date := time.Now().UTC().Format("2006-01-02")

		var wg sync.WaitGroup
		for _, coord := range s.coords {
			coord := coord
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if _, err := s.service.Aggregate(ctx, coord, date, "auto"); err != nil {
					log.Printf("scheduler: prewarm failed for %.4f,%.4f: %v", coord.Lat, coord.Lon, err)
				}
			}()
		}
		wg.Wait()
		log.Println("scheduler: completed uv prewarm job")
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
