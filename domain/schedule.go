package domain

import (
	"time"
)

// CREATE TABLE public.notification_schedules (
//     id               BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     user_id          BIGINT NOT NULL UNIQUE,
//     delivery_time    VARCHAR(5) NOT NULL,  -- "HH:MM" local
//     timezone         TEXT NOT NULL,        -- IANA name
//     enabled          BOOLEAN DEFAULT TRUE,
//     next_delivery_at TIMESTAMPTZ NOT NULL,
//     created_at       TIMESTAMPTZ DEFAULT NOW(),
//     updated_at       TIMESTAMPTZ
// );

type NotificationSchedule struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement"`
	UserID         uint      `gorm:"column:user_id;not null;uniqueIndex"`
	DeliveryTime   string    `gorm:"column:delivery_time;type:varchar(5);not null"`
	Timezone       string    `gorm:"column:timezone;type:text;not null"`
	Enabled        bool      `gorm:"column:enabled;default:true"`
	NextDeliveryAt time.Time `gorm:"column:next_delivery_at;not null"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (NotificationSchedule) TableName() string {
	return "notification_schedules"
}

// Idempotency log for the scheduler: only the caller whose insert actually
// lands may notify the user for that date.
type WordDelivery struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	UserID      uint      `gorm:"column:user_id;not null;uniqueIndex:idx_delivery_user_date"`
	WordForDate string    `gorm:"column:word_for_date;type:varchar(10);not null;uniqueIndex:idx_delivery_user_date"`
	WordID      uint64    `gorm:"column:word_id;not null"`
	DeliveredAt time.Time `gorm:"column:delivered_at"`
}

func (WordDelivery) TableName() string {
	return "word_deliveries"
}
