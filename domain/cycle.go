package domain

import (
	"time"
)

// CREATE TABLE public.word_cycle_state (
//     id            BIGINT PRIMARY KEY,
//     current_cycle INT NOT NULL DEFAULT 1
// );
//
// Single row. Increment-only; old usage rows keep their old cycle number,
// so advancing the counter is the whole "reset".

type WordCycleState struct {
	ID           uint64 `gorm:"primaryKey"`
	CurrentCycle int    `gorm:"column:current_cycle;not null;default:1"`
}

func (WordCycleState) TableName() string {
	return "word_cycle_state"
}

// CREATE TABLE public.word_usage_log (
//     id       BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     word_id  BIGINT NOT NULL,
//     cycle    INT NOT NULL,
//     used_on  TEXT NOT NULL,
//     UNIQUE (word_id, cycle)
// );

type WordUsageLog struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	WordID    uint64    `gorm:"column:word_id;not null;uniqueIndex:idx_word_usage_cycle"`
	Cycle     int       `gorm:"column:cycle;not null;uniqueIndex:idx_word_usage_cycle"`
	UsedOn    string    `gorm:"column:used_on;type:varchar(10);not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (WordUsageLog) TableName() string {
	return "word_usage_log"
}

// Per-(user, difficulty) cycle counter for personalized selection.
type UserWordCycleState struct {
	ID           uint64     `gorm:"primaryKey;autoIncrement"`
	UserID       uint       `gorm:"column:user_id;not null;uniqueIndex:idx_user_cycle_band"`
	Difficulty   Difficulty `gorm:"column:difficulty;type:varchar(10);not null;uniqueIndex:idx_user_cycle_band"`
	CurrentCycle int        `gorm:"column:current_cycle;not null;default:1"`
}

func (UserWordCycleState) TableName() string {
	return "user_word_cycle_state"
}

type UserWordUsageLog struct {
	ID         uint64     `gorm:"primaryKey;autoIncrement"`
	UserID     uint       `gorm:"column:user_id;not null;uniqueIndex:idx_user_word_usage"`
	WordID     uint64     `gorm:"column:word_id;not null;uniqueIndex:idx_user_word_usage"`
	Difficulty Difficulty `gorm:"column:difficulty;type:varchar(10);not null;uniqueIndex:idx_user_word_usage"`
	Cycle      int        `gorm:"column:cycle;not null;uniqueIndex:idx_user_word_usage"`
	UsedOn     string     `gorm:"column:used_on;type:varchar(10);not null"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
}

func (UserWordUsageLog) TableName() string {
	return "user_word_usage_log"
}
