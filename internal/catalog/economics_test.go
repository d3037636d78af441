package catalog

import (
	"errors"
	"testing"
)

func TestLifetimeValue(t *testing.T) {
	got, err := LifetimeValue(19_900, 0.05)
	if err != nil {
		t.Fatalf("lifetime value: %v", err)
	}
	if got != 398_000 {
		t.Fatalf("expected 398000, got %d", got)
	}

	for _, churn := range []float64{0, -0.1, 1.5} {
		if _, err := LifetimeValue(19_900, churn); !errors.Is(err, ErrInvalidChurnRate) {
			t.Fatalf("churn %v: expected ErrInvalidChurnRate, got %v", churn, err)
		}
	}
}

func TestPaybackMonths(t *testing.T) {
	got, err := PaybackMonths(59_700, 19_900)
	if err != nil {
		t.Fatalf("payback: %v", err)
	}
	if got != 3 {
		t.Fatalf("expected 3 months, got %v", got)
	}
	if _, err := PaybackMonths(100, 0); !errors.Is(err, ErrInvalidRevenue) {
		t.Fatalf("expected ErrInvalidRevenue, got %v", err)
	}
}

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents    int64
		currency string
		want     string
	}{
		{123_456, "USD", "$1,234.56"},
		{-950, "usd", "-$9.50"},
		{5, "EUR", "€0.05"},
		{0, "GBP", "£0.00"},
		{100_000_000, "XYZ", "XYZ 1,000,000.00"},
	}
	for _, tt := range tests {
		if got := FormatCents(tt.cents, tt.currency); got != tt.want {
			t.Fatalf("FormatCents(%d, %q) = %q, want %q", tt.cents, tt.currency, got, tt.want)
		}
	}
}
