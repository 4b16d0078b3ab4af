package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/devconnector-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// EventPruner periodically deletes activity log entries older than the retention window.
type EventPruner struct {
	eventSvc  services.EventServiceProvider
	retention time.Duration
	schedule  string
	cron      *cron.Cron
	now       func() time.Time
}

// NewEventPruner creates a pruner. schedule accepts standard cron expressions
// and descriptors such as "@hourly".
func NewEventPruner(eventSvc services.EventServiceProvider, retention time.Duration, schedule string) *EventPruner {
	return &EventPruner{
		eventSvc:  eventSvc,
		retention: retention,
		schedule:  schedule,
		now:       time.Now,
	}
}

// Start registers the prune job and starts the cron runner.
func (p *EventPruner) Start() error {
	if p.retention <= 0 {
		return fmt.Errorf("event retention must be positive, got %s", p.retention)
	}

	c := cron.New()
	if _, err := c.AddFunc(p.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := p.RunOnce(ctx); err != nil {
			log.Error().Err(err).Msg("EventPruner: failed to prune events")
		}
	}); err != nil {
		return fmt.Errorf("invalid prune schedule %q: %w", p.schedule, err)
	}

	p.cron = c
	c.Start()
	log.Info().Str("schedule", p.schedule).Dur("retention", p.retention).Msg("Starting event pruner")
	return nil
}

// Stop halts the cron runner and waits for a running job to finish.
func (p *EventPruner) Stop() {
	if p.cron == nil {
		return
	}
	<-p.cron.Stop().Done()
	log.Info().Msg("Stopping event pruner")
}

// RunOnce deletes every event older than the retention window.
func (p *EventPruner) RunOnce(ctx context.Context) (int64, error) {
	cutoff := p.now().Add(-p.retention)
	n, err := p.eventSvc.PruneBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info().Int64("removed", n).Time("cutoff", cutoff).Msg("EventPruner: pruned old events")
	}
	return n, nil
}
