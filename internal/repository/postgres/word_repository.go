package postgres

import (
	"context"
	"errors"
	"fmt"
	"lexiDaily/domain"
	"math"

	"gorm.io/gorm"
)

type WordRepository struct {
	DB *gorm.DB
}

func NewWordRepository(db *gorm.DB) *WordRepository {
	return &WordRepository{
		DB: db,
	}
}

// selectable filters the pool down to words the enrichment collaborator has
// not rejected: enabled, status pending or ready.
func selectable(db *gorm.DB) *gorm.DB {
	return db.
		Where("enabled = ?", true).
		Where("enrichment_status IN ?", []string{domain.EnrichmentPending, domain.EnrichmentReady})
}

// inBand applies the fixed tier thresholds for a difficulty band. Null tiers
// land in the balanced band, matching domain.DifficultyForTier.
func inBand(difficulty domain.Difficulty) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch difficulty {
		case domain.DifficultyEasy:
			return db.Where("tier IS NOT NULL AND tier <= ?", domain.TierEasyMax)
		case domain.DifficultyAdvanced:
			return db.Where("tier > ?", domain.TierBalancedMax)
		default:
			return db.Where("tier IS NULL OR (tier > ? AND tier <= ?)", domain.TierEasyMax, domain.TierBalancedMax)
		}
	}
}

// shuffleOrder is the seeded deterministic pseudo-shuffle: same seed, same
// total order; different seeds reshuffle relative positions.
func shuffleOrder(seed int64) string {
	return fmt.Sprintf("(id * %d) %% %d ASC", seed, math.MaxInt32)
}

func (r *WordRepository) Create(ctx context.Context, word *domain.WordPoolEntry) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(word).Error; err != nil {
		return fmt.Errorf("failed to create word: %w", err)
	}

	return nil
}

func (r *WordRepository) FindByID(ctx context.Context, id uint64) (domain.WordPoolEntry, error) {
	if err := ctx.Err(); err != nil {
		return domain.WordPoolEntry{}, fmt.Errorf("context error: %w", err)
	}

	var word domain.WordPoolEntry

	err := r.DB.WithContext(ctx).First(&word, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.WordPoolEntry{}, domain.ErrWordNotFound
		}
		return domain.WordPoolEntry{}, fmt.Errorf("failed to find word: %w", err)
	}

	return word, nil
}

func (r *WordRepository) FindAll(ctx context.Context) ([]domain.WordPoolEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var words []domain.WordPoolEntry
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&words).Error; err != nil {
		return nil, fmt.Errorf("failed to find words: %w", err)
	}

	return words, nil
}

func (r *WordRepository) Update(ctx context.Context, word *domain.WordPoolEntry) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updateData := map[string]interface{}{
		"text":    word.Text,
		"enabled": word.Enabled,
		"tier":    word.Tier,
		"source":  word.Source,
	}

	result := r.DB.WithContext(ctx).Model(&domain.WordPoolEntry{}).Where("id = ?", word.ID).Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update word: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrWordNotFound
	}

	return nil
}

func (r *WordRepository) UpdateEnrichmentStatus(ctx context.Context, id uint64, status string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.WordPoolEntry{}).
		Where("id = ?", id).
		Update("enrichment_status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update enrichment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrWordNotFound
	}

	return nil
}

func (r *WordRepository) SetEnabled(ctx context.Context, id uint64, enabled bool) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.WordPoolEntry{}).
		Where("id = ?", id).
		Update("enabled", enabled)
	if result.Error != nil {
		return fmt.Errorf("failed to set enabled flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrWordNotFound
	}

	return nil
}

func (r *WordRepository) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Delete(&domain.WordPoolEntry{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete word: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrWordNotFound
	}

	return nil
}

func (r *WordRepository) CountEligible(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var count int64
	err := r.DB.WithContext(ctx).Model(&domain.WordPoolEntry{}).
		Scopes(selectable).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count eligible words: %w", err)
	}

	return count, nil
}

// PickUnused returns the winner of the seeded ordering among eligible words
// with no usage row in the given global cycle.
func (r *WordRepository) PickUnused(ctx context.Context, cycle int, seed int64) (domain.WordPoolEntry, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.WordPoolEntry{}, false, fmt.Errorf("context error: %w", err)
	}

	used := r.DB.Model(&domain.WordUsageLog{}).
		Select("word_id").
		Where("cycle = ?", cycle)

	var word domain.WordPoolEntry
	err := r.DB.WithContext(ctx).
		Scopes(selectable).
		Where("id NOT IN (?)", used).
		Order(shuffleOrder(seed)).
		First(&word).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.WordPoolEntry{}, false, nil
		}
		return domain.WordPoolEntry{}, false, fmt.Errorf("failed to pick word: %w", err)
	}

	return word, true, nil
}

// PickUnusedInBand is the personalized variant: eligible words in the band
// the user has not seen in that band's current cycle.
func (r *WordRepository) PickUnusedInBand(ctx context.Context, userID uint, difficulty domain.Difficulty, cycle int, seed int64) (domain.WordPoolEntry, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.WordPoolEntry{}, false, fmt.Errorf("context error: %w", err)
	}

	used := r.DB.Model(&domain.UserWordUsageLog{}).
		Select("word_id").
		Where("user_id = ? AND difficulty = ? AND cycle = ?", userID, difficulty, cycle)

	var word domain.WordPoolEntry
	err := r.DB.WithContext(ctx).
		Scopes(selectable, inBand(difficulty)).
		Where("id NOT IN (?)", used).
		Order(shuffleOrder(seed)).
		First(&word).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.WordPoolEntry{}, false, nil
		}
		return domain.WordPoolEntry{}, false, fmt.Errorf("failed to pick word in band: %w", err)
	}

	return word, true, nil
}
