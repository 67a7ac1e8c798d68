package worker

import (
	"context"
	"time"

	"github.com/mayankmishra0403/printhub/internal/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Purger is anything holding entries that expire.
type Purger interface {
	PurgeExpired(now time.Time) int
}

// sizer is implemented by stores that can report how many entries they hold.
type sizer interface {
	Len() int
}

// Sweeper periodically removes expired verification codes from an
// in-process store.
type Sweeper struct {
	purger   Purger
	now      func() time.Time
	schedule string
	cron     *cron.Cron
}

func NewSweeper(p Purger, now func() time.Time) *Sweeper {
	if now == nil {
		now = time.Now
	}
	return &Sweeper{purger: p, now: now, schedule: "@every 1m"}
}

// RunOnce purges and returns how many entries were removed.
func (s *Sweeper) RunOnce() int {
	n := s.purger.PurgeExpired(s.now())
	if n == 0 {
		return 0
	}
	fields := []zap.Field{zap.Int("count", n)}
	if sz, ok := s.purger.(sizer); ok {
		fields = append(fields, zap.Int("remaining", sz.Len()))
	}
	logger.Log.Debug("purged expired verification codes", fields...)
	return n
}

func (s *Sweeper) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() { s.RunOnce() }); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	logger.Log.Info("verification sweeper started", zap.String("schedule", s.schedule))
	return nil
}

// Stop waits for a running sweep to finish or ctx to end.
func (s *Sweeper) Stop(ctx context.Context) {
	if s.cron == nil {
		return
	}
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	s.cron = nil
}
