package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Check pings one dependency.
type Check func(ctx context.Context) error

type namedCheck struct {
	name string
	fn   Check
}

// Monitor periodically pings the registered dependencies on a cron schedule.
type Monitor struct {
	checks []namedCheck

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	cron     *cron.Cron
	logger   *zap.Logger
}

func New(interval time.Duration, logger *zap.Logger) *Monitor {
	if interval < time.Second {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		interval: interval,
		cron:     cron.New(),
		logger:   logger,
	}
}

// Register adds a dependency check. Call before Start.
func (m *Monitor) Register(name string, check Check) {
	if check == nil {
		return
	}
	m.checks = append(m.checks, namedCheck{name: name, fn: check})
}

// Start runs one check round synchronously, then schedules the rest.
func (m *Monitor) Start() error {
	m.Refresh()
	schedule := fmt.Sprintf("@every %s", m.interval)
	if _, err := m.cron.AddFunc(schedule, m.Refresh); err != nil {
		return err
	}
	m.cron.Start()
	return nil
}

// Stop waits for a running check round to finish or ctx to expire.
func (m *Monitor) Stop(ctx context.Context) {
	stopCtx := m.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	services := make(map[string]bool, len(m.status.Services))
	for name, ok := range m.status.Services {
		services[name] = ok
	}
	status := m.status
	status.Services = services
	return status
}

// Refresh pings every dependency once.
func (m *Monitor) Refresh() {
	status := Status{
		Services:  make(map[string]bool, len(m.checks)),
		Online:    true,
		LastCheck: time.Now(),
	}
	for _, check := range m.checks {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := check.fn(ctx)
		cancel()
		if err != nil {
			m.logger.Warn("dependency check failed", zap.String("service", check.name), zap.Error(err))
			status.Online = false
		}
		status.Services[check.name] = err == nil
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}
