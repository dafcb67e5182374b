package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type mockScanner struct {
	FindOrphanedUnavailableFunc func(ctx context.Context) ([]string, error)
}

func (m *mockScanner) FindOrphanedUnavailable(ctx context.Context) ([]string, error) {
	return m.FindOrphanedUnavailableFunc(ctx)
}

func TestConsistencyMonitor_RunOnce(t *testing.T) {
	calls := 0
	scanner := &mockScanner{
		FindOrphanedUnavailableFunc: func(ctx context.Context) ([]string, error) {
			calls++
			return []string{"car-3"}, nil
		},
	}

	m := NewConsistencyMonitor(scanner, zap.NewNop())
	m.runOnce()

	assert.Equal(t, 1, calls)
}

func TestConsistencyMonitor_RunOnce_ScanFailure(t *testing.T) {
	scanner := &mockScanner{
		FindOrphanedUnavailableFunc: func(ctx context.Context) ([]string, error) {
			return nil, errors.New("connection refused")
		},
	}

	m := NewConsistencyMonitor(scanner, zap.NewNop())
	// Must not panic; the failure is logged and the next run tries again.
	m.runOnce()
}

func TestConsistencyMonitor_Start_InvalidSchedule(t *testing.T) {
	scanner := &mockScanner{
		FindOrphanedUnavailableFunc: func(ctx context.Context) ([]string, error) {
			return nil, nil
		},
	}

	m := NewConsistencyMonitor(scanner, zap.NewNop())
	err := m.Start("not-a-schedule")
	assert.Error(t, err)
}

func TestConsistencyMonitor_StartStop(t *testing.T) {
	scanner := &mockScanner{
		FindOrphanedUnavailableFunc: func(ctx context.Context) ([]string, error) {
			return nil, nil
		},
	}

	m := NewConsistencyMonitor(scanner, zap.NewNop())
	assert.NoError(t, m.Start("@every 1h"))
	m.Stop()
}
