// Package domain contains the metered usage types read by the analytics engine.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// UsageEvent is one metered action. Events are immutable once recorded.
type UsageEvent struct {
	UserID    string    `json:"user_id"`
	Amount    int64     `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Cost      int64     `json:"cost"`
}

// UsageRecord is the row shape of the externally owned usage_records table.
type UsageRecord struct {
	ID         snowflake.ID      `gorm:"primaryKey"`
	UserID     string            `gorm:"type:text;not null;index"`
	Action     string            `gorm:"type:text;not null"`
	Amount     int64             `gorm:"not null"`
	CostCents  int64             `gorm:"not null;default:0"`
	RecordedAt time.Time         `gorm:"not null;index"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (UsageRecord) TableName() string { return "usage_records" }

// ToEvent converts a stored row into the engine's event shape.
func (r UsageRecord) ToEvent() UsageEvent {
	return UsageEvent{
		UserID:    r.UserID,
		Amount:    r.Amount,
		Timestamp: r.RecordedAt.UTC(),
		Action:    r.Action,
		Cost:      r.CostCents,
	}
}
