package correlation

import (
	"context"
	"testing"

	"github.com/oklog/ulid/v2"
)

func TestEnsureMintsOnce(t *testing.T) {
	ctx, id := Ensure(context.Background())
	if _, err := ulid.ParseStrict(id); err != nil {
		t.Fatalf("expected ulid, got %q: %v", id, err)
	}
	if got := FromContext(ctx); got != id {
		t.Fatalf("expected %q on context, got %q", id, got)
	}

	_, again := Ensure(ctx)
	if again != id {
		t.Fatalf("expected existing id %q to be kept, got %q", id, again)
	}
}

func TestWithIDIgnoresBlank(t *testing.T) {
	ctx := WithID(context.Background(), "  ")
	if got := FromContext(ctx); got != "" {
		t.Fatalf("expected no id, got %q", got)
	}
	if got := FromContext(WithID(ctx, " run-1 ")); got != "run-1" {
		t.Fatalf("expected trimmed id, got %q", got)
	}
}
