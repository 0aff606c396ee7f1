package service

import (
	"context"
	"log/slog"
	"time"
)

// HousekeepingTask removes stale in-process state and returns how many
// entries it dropped.
type HousekeepingTask struct {
	Name string
	Run  func(ctx context.Context) (int, error)
}

// HousekeepingService periodically runs cleanup tasks so in-memory
// denylists and rate limiter buckets don't grow without bound.
type HousekeepingService struct {
	Tasks    []HousekeepingTask
	Logger   *slog.Logger
	Interval time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 10 minutes.
func NewHousekeepingService(logger *slog.Logger, interval time.Duration, tasks ...HousekeepingTask) *HousekeepingService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &HousekeepingService{
		Tasks:    tasks,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs cleanup.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval, "tasks", len(s.Tasks))
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce runs every task once. A failing task does not stop the others.
// It returns the total number of entries removed.
func (s *HousekeepingService) RunOnce(ctx context.Context) int {
	var total int
	for _, t := range s.Tasks {
		n, err := t.Run(ctx)
		if err != nil {
			s.Logger.Error("housekeeping task failed", "task", t.Name, "error", err)
			continue
		}
		s.Logger.Debug("housekeeping task done", "task", t.Name, "removed", n)
		total += n
	}

	s.Logger.Debug("housekeeping cleanup completed", "removed", total)
	return total
}
