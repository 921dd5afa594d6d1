// Package sweeper releases lapsed on-hold dates on a fixed schedule, the
// server-side counterpart of the expiry rule the calendar applies on read.
package sweeper

import (
	"fmt"

	"venuecal/internal/events"
	"venuecal/internal/metrics"
	"venuecal/internal/models"
	"venuecal/internal/store"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Sweeper periodically removes on-hold records whose hold window has
// passed. Reads already treat lapsed holds as available, so the sweep only
// reclaims storage and emits the notification event.
type Sweeper struct {
	bookings *store.BookingStore
	eventBus *events.EventBus
	now      func() int64
	logger   *zerolog.Logger

	cron  *cron.Cron
	entry cron.EntryID
}

func New(bookings *store.BookingStore, eventBus *events.EventBus, now func() int64, logger *zerolog.Logger) *Sweeper {
	if now == nil {
		now = models.NowMillis
	}
	return &Sweeper{
		bookings: bookings,
		eventBus: eventBus,
		now:      now,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start schedules the sweep every intervalSeconds and runs one pass
// immediately so a restart does not leave stale holds until the first tick.
func (s *Sweeper) Start(intervalSeconds int) error {
	s.SweepOnce()

	id, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", intervalSeconds), s.SweepOnce)
	if err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}
	s.entry = id
	s.cron.Start()
	s.logger.Info().Int("interval_seconds", intervalSeconds).Msg("hold sweeper started")
	return nil
}

// Stop halts the schedule and waits for a running pass to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("hold sweeper stopped")
}

// SweepOnce runs a single expiry pass and returns the released dates.
func (s *Sweeper) SweepOnce() {
	removed := s.bookings.SweepExpired(s.now())
	if len(removed) == 0 {
		return
	}

	metrics.AddHoldsSwept(len(removed))
	s.logger.Info().Strs("dates", removed).Msg("expired holds released")

	if err := s.eventBus.PublishJSON(events.EventHoldSwept, events.SweepPayload{Dates: removed}); err != nil {
		s.logger.Error().Err(err).Msg("publish sweep event")
	}
}
