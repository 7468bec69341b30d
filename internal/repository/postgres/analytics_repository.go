package postgres

import (
	"context"
	"fmt"
	"lexiDaily/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{
		DB: db,
	}
}

func (r *AnalyticsRepository) Record(ctx context.Context, event domain.AnalyticsEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	if err := r.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to record analytics event: %w", err)
	}

	return nil
}
