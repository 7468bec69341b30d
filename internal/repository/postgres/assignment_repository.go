package postgres

import (
	"context"
	"errors"
	"fmt"
	"lexiDaily/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// errUsageTaken aborts an assignment transaction when a concurrent caller
// for another date already claimed the picked word in the same cycle. The
// unique index on the usage log is what enforces at-most-once per cycle.
var errUsageTaken = errors.New("word already used in this cycle")

// DailyWordRepository is the durable memo for the shared word of the day.
// Rows are write-once; concurrency is handled by the unique index on
// word_for_date plus insert-or-ignore.
type DailyWordRepository struct {
	DB *gorm.DB
}

func NewDailyWordRepository(db *gorm.DB) *DailyWordRepository {
	return &DailyWordRepository{
		DB: db,
	}
}

func (r *DailyWordRepository) FindByDate(ctx context.Context, date string) (domain.DailyWordAssignment, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.DailyWordAssignment{}, false, fmt.Errorf("context error: %w", err)
	}

	var assignment domain.DailyWordAssignment
	err := r.DB.WithContext(ctx).Where("word_for_date = ?", date).First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DailyWordAssignment{}, false, nil
		}
		return domain.DailyWordAssignment{}, false, fmt.Errorf("failed to find daily word: %w", err)
	}

	return assignment, true, nil
}

// CreateWithUsage writes the assignment and its usage row in one
// transaction. created=false signals a lost race on either unique index
// (the date key, or the word's per-cycle usage key claimed by another
// date); nothing was written and the caller must re-read the winner.
func (r *DailyWordRepository) CreateWithUsage(ctx context.Context, assignment *domain.DailyWordAssignment, usage *domain.WordUsageLog) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	created := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(assignment)
		if result.Error != nil {
			return fmt.Errorf("failed to create daily word: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil
		}

		usageResult := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(usage)
		if usageResult.Error != nil {
			return fmt.Errorf("failed to log word usage: %w", usageResult.Error)
		}
		if usageResult.RowsAffected == 0 {
			return errUsageTaken
		}

		created = true
		return nil
	})
	if errors.Is(err, errUsageTaken) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return created, nil
}

// UserWordRepository is the durable memo for personalized assignments,
// keyed (user, date).
type UserWordRepository struct {
	DB *gorm.DB
}

func NewUserWordRepository(db *gorm.DB) *UserWordRepository {
	return &UserWordRepository{
		DB: db,
	}
}

func (r *UserWordRepository) FindByUserAndDate(ctx context.Context, userID uint, date string) (domain.UserWordAssignment, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserWordAssignment{}, false, fmt.Errorf("context error: %w", err)
	}

	var assignment domain.UserWordAssignment
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND word_for_date = ?", userID, date).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserWordAssignment{}, false, nil
		}
		return domain.UserWordAssignment{}, false, fmt.Errorf("failed to find user word: %w", err)
	}

	return assignment, true, nil
}

// Create inserts an assignment with no usage row, used when the user simply
// mirrors the shared daily word (no personalization requested).
func (r *UserWordRepository) Create(ctx context.Context, assignment *domain.UserWordAssignment) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(assignment)
	if result.Error != nil {
		return false, fmt.Errorf("failed to create user word: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (r *UserWordRepository) CreateWithUsage(ctx context.Context, assignment *domain.UserWordAssignment, usage *domain.UserWordUsageLog) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	created := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(assignment)
		if result.Error != nil {
			return fmt.Errorf("failed to create user word: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil
		}

		usageResult := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(usage)
		if usageResult.Error != nil {
			return fmt.Errorf("failed to log user word usage: %w", usageResult.Error)
		}
		if usageResult.RowsAffected == 0 {
			return errUsageTaken
		}

		created = true
		return nil
	})
	if errors.Is(err, errUsageTaken) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return created, nil
}
