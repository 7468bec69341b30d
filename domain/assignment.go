package domain

import (
	"time"
)

// CREATE TABLE public.daily_words (
//     id            BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     word_for_date VARCHAR(10) NOT NULL UNIQUE,
//     word_id       BIGINT NOT NULL,
//     created_at    TIMESTAMPTZ DEFAULT NOW()
// );
//
// One immutable row per calendar date. Once present it is authoritative;
// concurrent writers that lose the insert race must re-read it.

type DailyWordAssignment struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	WordForDate string    `gorm:"column:word_for_date;type:varchar(10);not null;uniqueIndex"`
	WordID      uint64    `gorm:"column:word_id;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (DailyWordAssignment) TableName() string {
	return "daily_words"
}

// CREATE TABLE public.user_words (
//     id                   BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     user_id              BIGINT NOT NULL,
//     word_for_date        VARCHAR(10) NOT NULL,
//     word_id              BIGINT NOT NULL,
//     requested_difficulty VARCHAR(10),
//     effective_difficulty VARCHAR(10),
//     created_at           TIMESTAMPTZ DEFAULT NOW(),
//     UNIQUE (user_id, word_for_date)
// );

type UserWordAssignment struct {
	ID                  uint64      `gorm:"primaryKey;autoIncrement"`
	UserID              uint        `gorm:"column:user_id;not null;uniqueIndex:idx_user_word_date"`
	WordForDate         string      `gorm:"column:word_for_date;type:varchar(10);not null;uniqueIndex:idx_user_word_date"`
	WordID              uint64      `gorm:"column:word_id;not null"`
	RequestedDifficulty *Difficulty `gorm:"column:requested_difficulty;type:varchar(10)"`
	EffectiveDifficulty *Difficulty `gorm:"column:effective_difficulty;type:varchar(10)"`
	CreatedAt           time.Time   `gorm:"column:created_at"`
}

func (UserWordAssignment) TableName() string {
	return "user_words"
}

// UsedFallback reports whether the delivered band differs from the one the
// user asked for. Derived, never stored.
func (a UserWordAssignment) UsedFallback() bool {
	if a.RequestedDifficulty == nil || a.EffectiveDifficulty == nil {
		return false
	}
	return *a.RequestedDifficulty != *a.EffectiveDifficulty
}
