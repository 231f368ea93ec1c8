package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/monbillet-client/pkg/client"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// warmTimeout bounds one warm-up run.
const warmTimeout = 2 * time.Minute

// startWarmer schedules warmCache on spec (standard 5-field cron syntax)
// and starts the scheduler. The caller stops it.
func startWarmer(spec string, mb *client.Client, logger zerolog.Logger) (*cron.Cron, error) {
	sched := cron.New()
	if _, err := sched.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
		defer cancel()
		warmCache(ctx, mb, logger)
	}); err != nil {
		return nil, fmt.Errorf("schedule cache warm-up: %w", err)
	}

	sched.Start()
	logger.Info().Str("schedule", spec).Msg("Cache warm-up scheduled")
	return sched, nil
}

// warmCache fetches the default event and event group lists so the cache
// holds fresh entries. Failures are logged and do not stop the run.
func warmCache(ctx context.Context, mb *client.Client, logger zerolog.Logger) {
	start := time.Now()
	lists := []struct {
		name  string
		fetch listFunc
	}{
		{"events", mb.Events},
		{"event-groups", mb.EventGroups},
	}

	failed := 0
	for _, l := range lists {
		if _, err := l.fetch(ctx, client.ListOptions{}); err != nil {
			failed++
			logger.Warn().Err(err).Str("endpoint", l.name).Msg("Cache warm-up failed")
		}
	}

	logger.Info().
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("Cache warm-up finished")
}
