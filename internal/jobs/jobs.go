// Package jobs runs the console's background maintenance.
package jobs

import (
	"context"
	"time"

	"github.com/diewo77/go-pharmacy/internal/metrics"
	"github.com/diewo77/go-pharmacy/internal/session"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler wraps a cron runner.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

func NewScheduler(log zerolog.Logger) *Scheduler {
	return &Scheduler{cron: cron.New(), log: log.With().Str("component", "jobs").Logger()}
}

// SchedulePurge registers PurgeSessions on a cron schedule, e.g. "@every 15m".
func (s *Scheduler) SchedulePurge(schedule string, p session.Purger, m *metrics.Metrics) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		PurgeSessions(ctx, p, m, s.log, time.Now())
	})
	return err
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop stops scheduling and waits for a running job.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// PurgeSessions removes expired sessions once.
func PurgeSessions(ctx context.Context, p session.Purger, m *metrics.Metrics, log zerolog.Logger, now time.Time) int64 {
	n, err := p.PurgeExpired(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("purge expired sessions")
		return 0
	}
	m.Purged(n)
	if n > 0 {
		log.Info().Int64("purged", n).Msg("expired sessions purged")
	}
	return n
}
