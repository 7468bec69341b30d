package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Append-only event stream consumed by the analytics collaborator.
type AnalyticsEvent struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Name      string            `gorm:"column:name;type:text;not null"`
	UserID    uint              `gorm:"column:user_id"`
	Metadata  datatypes.JSONMap `gorm:"column:metadata;type:jsonb"`
	CreatedAt time.Time         `gorm:"column:created_at"`
}

func (AnalyticsEvent) TableName() string {
	return "analytics_events"
}
