// Package jobs holds the periodic jobs of the consumers binary.
package jobs

import (
	"context"
	"time"

	"jpo/internal/cache"
	"jpo/internal/logger"
	"jpo/internal/models"
	"jpo/internal/repository"
)

// CapacitySnapshot periodically rewrites the full per-open-day registration
// count hash in Valkey. The event handlers keep single entries fresh; this
// job repairs drift after missed events or cache restarts.
type CapacitySnapshot struct {
	repos    *repository.Repositories
	valkey   *cache.ValkeyClient
	interval time.Duration
}

func NewCapacitySnapshot(repos *repository.Repositories, valkey *cache.ValkeyClient, interval time.Duration) *CapacitySnapshot {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CapacitySnapshot{
		repos:    repos,
		valkey:   valkey,
		interval: interval,
	}
}

// Run blocks until ctx is cancelled, refreshing on every tick.
func (j *CapacitySnapshot) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.refresh(ctx)
		}
	}
}

func (j *CapacitySnapshot) refresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	openDays, err := j.repos.OpenDays.List(refreshCtx, models.OpenDayFilters{})
	if err != nil {
		logger.Get().Error("Failed to list open days for snapshot", "error", err)
		return
	}

	counts := make(map[int64]int, len(openDays))
	for _, od := range openDays {
		counts[od.JpoID] = od.RegisteredCount
	}

	if err := j.valkey.SetCapacitySnapshot(refreshCtx, counts); err != nil {
		logger.Get().Error("Failed to write capacity snapshot", "error", err)
		return
	}

	logger.Get().Debug("Capacity snapshot refreshed", "open_days", len(counts))
}
