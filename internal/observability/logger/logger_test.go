package logger

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smallbiznis/tokenmeter/pkg/telemetry/correlation"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContextAddsOnlyPresentFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	WithContext(context.Background(), base).Info("bare")
	ctx := correlation.WithID(context.Background(), "run-1")
	WithUser(WithContext(ctx, base), " user_1 ").Info("tagged")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if n := len(entries[0].Context); n != 0 {
		t.Fatalf("expected no fields on bare entry, got %d", n)
	}
	fields := entries[1].ContextMap()
	if fields["correlation_id"] != "run-1" || fields["user_id"] != "user_1" {
		t.Fatalf("unexpected fields: %v", fields)
	}
	if _, ok := fields["trace_id"]; ok {
		t.Fatalf("expected no trace_id without a span")
	}
}

func TestNewWritesJSONToOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokenmeter.log")
	log, err := New(nil, Config{ServiceName: "tokenmeter", Environment: "test", Output: path})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.Info("report generated")
	_ = log.Sync()

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(body)
	if !strings.Contains(line, `"msg":"report generated"`) || !strings.Contains(line, `"env":"test"`) {
		t.Fatalf("unexpected log line: %s", line)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(nil, Config{Level: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
