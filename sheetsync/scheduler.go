package sheetsync

import (
	"context"
	"os"
	"strconv"
	"time"
)

const defaultSyncInterval = 25 * time.Second

// Scheduler drives the worker on a fixed interval. One pass runs
// immediately at startup, then every interval until the context ends.
type Scheduler struct {
	Worker   *Worker
	Interval time.Duration
}

func NewScheduler(worker *Worker) *Scheduler {
	return &Scheduler{
		Worker:   worker,
		Interval: syncIntervalFromEnv(),
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	if s == nil || s.Worker == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		s.Worker.SyncAll(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.Interval):
		}
	}
}

func syncIntervalFromEnv() time.Duration {
	if raw := os.Getenv("SYNC_INTERVAL_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultSyncInterval
}
