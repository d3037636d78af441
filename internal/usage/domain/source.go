package domain

import (
	"context"
	"errors"
	"time"
)

// ListRequest selects the events of one user inside [From, To).
// A zero From or To leaves that side unbounded.
type ListRequest struct {
	UserID string    `json:"user_id"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
	Action string    `json:"action"`
	Limit  int       `json:"limit"`
}

// Source supplies usage events. Implementations return events ascending by
// timestamp, but callers must not rely on it.
type Source interface {
	ListEvents(context.Context, ListRequest) ([]UsageEvent, error)
}

var (
	ErrInvalidUser      = errors.New("invalid_user")
	ErrInvalidTimeRange = errors.New("invalid_time_range")
)
