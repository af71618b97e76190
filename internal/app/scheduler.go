package app

import (
	"context"
	"time"

	"github.com/AnubhavPadiyar/spotscout-server/internal/service"
	"go.uber.org/zap"
)

// SweepScheduler runs the expiry sweep on a recurring timer. The read
// path already sweeps opportunistically, so the ticker is an upper
// bound on how stale an unobserved deadline can get, not a correctness
// requirement.
type SweepScheduler struct {
	engine   *service.BookingService
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
}

func NewSweepScheduler(engine *service.BookingService, interval time.Duration, logger *zap.Logger) *SweepScheduler {
	return &SweepScheduler{
		engine:   engine,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start launches the sweep loop. The first sweep runs immediately.
func (s *SweepScheduler) Start(ctx context.Context) {
	s.logger.Info("starting expiry sweep scheduler", zap.Duration("interval", s.interval))
	go s.run(ctx)
}

// Stop terminates the sweep loop.
func (s *SweepScheduler) Stop() {
	close(s.stopChan)
}

func (s *SweepScheduler) run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			s.logger.Info("expiry sweep scheduler stopped")
			return
		case <-ctx.Done():
			s.logger.Info("expiry sweep scheduler cancelled")
			return
		}
	}
}

func (s *SweepScheduler) sweep(ctx context.Context) {
	transitions, err := s.engine.ReconcileExpirations(ctx)
	if err != nil {
		s.logger.Error("expiry sweep failed", zap.Error(err))
		return
	}
	if transitions > 0 {
		s.logger.Info("scheduled sweep settled bookings", zap.Int("transitions", transitions))
	}
}
