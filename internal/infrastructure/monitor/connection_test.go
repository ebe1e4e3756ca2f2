package monitor

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRefreshAggregatesChecks(t *testing.T) {
	m := New(time.Minute, nil)
	healthy := true
	m.Register("store", func(ctx context.Context) error { return nil })
	m.Register("redis", func(ctx context.Context) error {
		if healthy {
			return nil
		}
		return errors.New("down")
	})

	m.Refresh()
	if !m.GetStatus().Online {
		t.Fatal("expected online")
	}

	healthy = false
	m.Refresh()
	status := m.GetStatus()
	if status.Online {
		t.Fatal("expected offline")
	}
	if !status.Services["store"] || status.Services["redis"] {
		t.Fatalf("unexpected services %+v", status.Services)
	}
	if status.LastCheck.IsZero() {
		t.Fatal("expected last check timestamp")
	}
}

func TestStartStop(t *testing.T) {
	m := New(time.Hour, nil)
	calls := 0
	m.Register("store", func(ctx context.Context) error { calls++; return nil })

	if err := m.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	m.Stop(ctx)

	if calls != 1 || !m.GetStatus().Online {
		t.Fatalf("expected one synchronous check, got %d", calls)
	}
}

func TestRegisterIgnoresNil(t *testing.T) {
	m := New(0, nil)
	m.Register("nil", nil)
	m.Refresh()
	if status := m.GetStatus(); len(status.Services) != 0 || !status.Online {
		t.Fatal("nil check must be ignored")
	}
}
