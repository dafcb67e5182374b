package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type OrphanScanner interface {
	FindOrphanedUnavailable(ctx context.Context) ([]string, error)
}

// ConsistencyMonitor periodically scans for listings stuck unavailable with
// no confirmed order holding them. It only reports; it never repairs.
type ConsistencyMonitor struct {
	scanner OrphanScanner
	logger  *zap.Logger
	cron    *cron.Cron
}

func NewConsistencyMonitor(scanner OrphanScanner, logger *zap.Logger) *ConsistencyMonitor {
	return &ConsistencyMonitor{
		scanner: scanner,
		logger:  logger,
		cron:    cron.New(),
	}
}

func (m *ConsistencyMonitor) Start(schedule string) error {
	_, err := m.cron.AddFunc(schedule, m.runOnce)
	if err != nil {
		return err
	}

	m.cron.Start()
	m.logger.Info("consistency monitor started", zap.String("schedule", schedule))
	return nil
}

func (m *ConsistencyMonitor) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.logger.Info("consistency monitor stopped")
}

func (m *ConsistencyMonitor) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	orphans, err := m.scanner.FindOrphanedUnavailable(ctx)
	if err != nil {
		m.logger.Error("consistency scan failed", zap.Error(err))
		return
	}

	if len(orphans) == 0 {
		m.logger.Debug("consistency scan clean")
		return
	}

	m.logger.Warn("listings unavailable with no confirmed order",
		zap.Int("count", len(orphans)),
		zap.Strings("listingIds", orphans))
}
