package domain

import (
	"time"
)

// CREATE TABLE public.word_pool (
//     id                BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     text              TEXT NOT NULL,
//     enabled           BOOLEAN DEFAULT TRUE,
//     tier              SMALLINT,
//     enrichment_status TEXT DEFAULT 'pending',
//     source            TEXT,
//     created_at        TIMESTAMPTZ DEFAULT NOW()
// );

// Enrichment statuses written by the dictionary-enrichment pipeline.
// A word is selectable only while pending or ready.
const (
	EnrichmentPending  = "pending"
	EnrichmentReady    = "ready"
	EnrichmentFailed   = "failed"
	EnrichmentNotFound = "not_found"
)

type WordPoolEntry struct {
	ID               uint64    `gorm:"primaryKey;autoIncrement"`
	Text             string    `gorm:"column:text;type:text;not null"`
	Enabled          bool      `gorm:"column:enabled;default:true"`
	Tier             *int      `gorm:"column:tier"`
	EnrichmentStatus string    `gorm:"column:enrichment_status;type:text;default:pending"`
	Source           string    `gorm:"column:source;type:text"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (WordPoolEntry) TableName() string {
	return "word_pool"
}

// Selectable reports whether the entry may be served today.
func (w WordPoolEntry) Selectable() bool {
	return w.Enabled && (w.EnrichmentStatus == EnrichmentPending || w.EnrichmentStatus == EnrichmentReady)
}
