package export

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Sweeper periodically removes expired tokens from a TokenStore.
type Sweeper struct {
	store    *TokenStore
	schedule string
	logger   *slog.Logger
	onSweep  func(remaining int)
	cron     *cron.Cron
}

// NewSweeper schedules store.Sweep on a cron schedule such as "@every 15m".
// onSweep may be nil; it receives the remaining token count after each run.
func NewSweeper(store *TokenStore, schedule string, logger *slog.Logger, onSweep func(remaining int)) *Sweeper {
	return &Sweeper{
		store:    store,
		schedule: schedule,
		logger:   logger,
		onSweep:  onSweep,
		cron:     cron.New(),
	}
}

// Start registers the job and starts the scheduler. The scheduler stops when ctx is done.
func (s *Sweeper) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.schedule, s.run); err != nil {
		return fmt.Errorf("schedule export sweep %q: %w", s.schedule, err)
	}
	s.cron.Start()

	go func() {
		<-ctx.Done()
		<-s.cron.Stop().Done()
	}()
	return nil
}

func (s *Sweeper) run() {
	before := s.store.Len()
	remaining := s.store.Sweep()
	if removed := before - remaining; removed > 0 {
		s.logger.Info("expired export tokens removed", "removed", removed, "remaining", remaining)
	}
	if s.onSweep != nil {
		s.onSweep(remaining)
	}
}
