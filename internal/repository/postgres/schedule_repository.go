package postgres

import (
	"context"
	"errors"
	"fmt"
	"lexiDaily/domain"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScheduleRepository struct {
	DB *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{
		DB: db,
	}
}

func (r *ScheduleRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]domain.NotificationSchedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var schedules []domain.NotificationSchedule
	err := r.DB.WithContext(ctx).
		Where("enabled = ? AND next_delivery_at <= ?", true, now).
		Order("next_delivery_at ASC").
		Limit(limit).
		Find(&schedules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find due schedules: %w", err)
	}

	return schedules, nil
}

func (r *ScheduleRepository) FindByUser(ctx context.Context, userID uint) (domain.NotificationSchedule, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.NotificationSchedule{}, false, fmt.Errorf("context error: %w", err)
	}

	var schedule domain.NotificationSchedule
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NotificationSchedule{}, false, nil
		}
		return domain.NotificationSchedule{}, false, fmt.Errorf("failed to find schedule: %w", err)
	}

	return schedule, true, nil
}

// Upsert replaces the user's schedule settings, keyed by the unique user_id
// index.
func (r *ScheduleRepository) Upsert(ctx context.Context, schedule *domain.NotificationSchedule) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"delivery_time", "timezone", "enabled", "next_delivery_at", "updated_at",
		}),
	}).Create(schedule).Error
	if err != nil {
		return fmt.Errorf("failed to upsert schedule: %w", err)
	}

	return nil
}

func (r *ScheduleRepository) UpdateNextDelivery(ctx context.Context, id uint64, next time.Time) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.NotificationSchedule{}).
		Where("id = ?", id).
		Update("next_delivery_at", next)
	if result.Error != nil {
		return fmt.Errorf("failed to update next delivery: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrScheduleNotFound
	}

	return nil
}

func (r *ScheduleRepository) Disable(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.NotificationSchedule{}).
		Where("id = ?", id).
		Update("enabled", false)
	if result.Error != nil {
		return fmt.Errorf("failed to disable schedule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrScheduleNotFound
	}

	return nil
}

// DeliveryRepository is the scheduler's idempotency log: only the caller
// whose insert lands may notify the user for that date.
type DeliveryRepository struct {
	DB *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) *DeliveryRepository {
	return &DeliveryRepository{
		DB: db,
	}
}

func (r *DeliveryRepository) CreateIfAbsent(ctx context.Context, delivery *domain.WordDelivery) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(delivery)
	if result.Error != nil {
		return false, fmt.Errorf("failed to record delivery: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}
