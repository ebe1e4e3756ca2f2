package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestNewFallsBackToInfo(t *testing.T) {
	log, err := New(Config{Level: "not-a-level", Encoding: "console"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if log.Core().Enabled(-1) {
		t.Fatal("debug should be disabled at the fallback level")
	}
}

func TestWithRequestIDWithoutID(t *testing.T) {
	log, _ := New(Config{Level: "debug"})
	if WithRequestID(context.Background(), log) != log {
		t.Fatal("expected the base logger when no request id is set")
	}
	if WithRequestID(context.Background(), nil) != nil {
		t.Fatal("expected nil for nil base")
	}
}

func TestNewStampsServiceAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "info", Service: "planner", Environment: "test", Output: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx := ContextWithRequestID(context.Background(), "req-1")
	WithRequestID(ctx, log).Info("hello")
	_ = log.Sync()

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if entry["service"] != "planner" || entry["env"] != "test" || entry["request_id"] != "req-1" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if RequestID(ctx) != "req-1" {
		t.Fatalf("unexpected request id %q", RequestID(ctx))
	}
}
