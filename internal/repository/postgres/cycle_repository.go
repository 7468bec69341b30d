package postgres

import (
	"context"
	"fmt"
	"lexiDaily/domain"

	"gorm.io/gorm"
)

// CycleRepository holds the singleton global cycle counter.
type CycleRepository struct {
	DB *gorm.DB
}

func NewCycleRepository(db *gorm.DB) *CycleRepository {
	return &CycleRepository{
		DB: db,
	}
}

const globalCycleRowID = 1

func (r *CycleRepository) CurrentCycle(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	state := domain.WordCycleState{ID: globalCycleRowID, CurrentCycle: 1}
	err := r.DB.WithContext(ctx).
		Where(domain.WordCycleState{ID: globalCycleRowID}).
		FirstOrCreate(&state).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read cycle state: %w", err)
	}

	return state.CurrentCycle, nil
}

// AdvanceCycle is a single atomic increment. Two exhaustion races may both
// land and double-increment; cycle numbers are only membership tags, so
// that imprecision is tolerated rather than locked away.
func (r *CycleRepository) AdvanceCycle(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.WordCycleState{}).
		Where("id = ?", globalCycleRowID).
		UpdateColumn("current_cycle", gorm.Expr("current_cycle + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to advance cycle: %w", result.Error)
	}

	return nil
}

// UserCycleRepository tracks one counter per (user, difficulty band).
type UserCycleRepository struct {
	DB *gorm.DB
}

func NewUserCycleRepository(db *gorm.DB) *UserCycleRepository {
	return &UserCycleRepository{
		DB: db,
	}
}

func (r *UserCycleRepository) CurrentCycle(ctx context.Context, userID uint, difficulty domain.Difficulty) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	state := domain.UserWordCycleState{UserID: userID, Difficulty: difficulty, CurrentCycle: 1}
	err := r.DB.WithContext(ctx).
		Where(domain.UserWordCycleState{UserID: userID, Difficulty: difficulty}).
		FirstOrCreate(&state).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read user cycle state: %w", err)
	}

	return state.CurrentCycle, nil
}

func (r *UserCycleRepository) AdvanceCycle(ctx context.Context, userID uint, difficulty domain.Difficulty) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.UserWordCycleState{}).
		Where("user_id = ? AND difficulty = ?", userID, difficulty).
		UpdateColumn("current_cycle", gorm.Expr("current_cycle + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to advance user cycle: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// No counter row yet means the band was never read; seed it at 2 so
		// the advance is not lost.
		state := domain.UserWordCycleState{UserID: userID, Difficulty: difficulty, CurrentCycle: 2}
		if err := r.DB.WithContext(ctx).Create(&state).Error; err != nil {
			return fmt.Errorf("failed to seed user cycle state: %w", err)
		}
	}

	return nil
}
