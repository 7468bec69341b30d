package words

import (
	"context"
	"errors"
	"fmt"

	"lexiDaily/domain"
	"lexiDaily/pkg/logger"
)

// WordRepository contract interface
type WordRepository interface {
	Create(ctx context.Context, word *domain.WordPoolEntry) error
	FindByID(ctx context.Context, id uint64) (domain.WordPoolEntry, error)
	FindAll(ctx context.Context) ([]domain.WordPoolEntry, error)
	Update(ctx context.Context, word *domain.WordPoolEntry) error
	UpdateEnrichmentStatus(ctx context.Context, id uint64, status string) error
	SetEnabled(ctx context.Context, id uint64, enabled bool) error
	Delete(ctx context.Context, id uint64) error
}

type wordService struct {
	wordRepo WordRepository
}

func NewWordService(wordRepo WordRepository) *wordService {
	return &wordService{
		wordRepo: wordRepo,
	}
}

var validStatuses = map[string]bool{
	domain.EnrichmentPending:  true,
	domain.EnrichmentReady:    true,
	domain.EnrichmentFailed:   true,
	domain.EnrichmentNotFound: true,
}

func (s *wordService) GetAllWords(ctx context.Context) ([]domain.WordPoolEntry, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all words")
		return nil, fmt.Errorf("context error: %w", err)
	}

	words, err := s.wordRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all words", err)
		return nil, err
	}

	return words, nil
}

func (s *wordService) GetWordByID(ctx context.Context, id uint64) (domain.WordPoolEntry, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get word by id")
		return domain.WordPoolEntry{}, fmt.Errorf("context error: %w", err)
	}

	if id == 0 {
		logger.Error("Invalid word id")
		return domain.WordPoolEntry{}, errors.New("invalid word id")
	}

	word, err := s.wordRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find word", err)
		return domain.WordPoolEntry{}, err
	}

	return word, nil
}

func (s *wordService) CreateWord(ctx context.Context, word *domain.WordPoolEntry) (*domain.WordPoolEntry, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create word")
		return nil, fmt.Errorf("context error: %w", err)
	}

	// Validation
	if word.Text == "" {
		logger.Error("Invalid word data: text is required")
		return nil, errors.New("word text is required")
	}

	if word.Tier != nil && (*word.Tier < 1 || *word.Tier > 100) {
		logger.Error("Invalid word data: tier out of range")
		return nil, errors.New("word tier must be between 1 and 100")
	}

	if word.EnrichmentStatus == "" {
		word.EnrichmentStatus = domain.EnrichmentPending
	}

	if err := s.wordRepo.Create(ctx, word); err != nil {
		logger.Error("failed to create new word", err)
		return nil, fmt.Errorf("failed to create word: %w", err)
	}

	logger.Info("word created successfully", "word_id", word.ID)

	return word, nil
}

func (s *wordService) UpdateWord(ctx context.Context, word *domain.WordPoolEntry) (*domain.WordPoolEntry, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when updating word")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if word.ID == 0 {
		logger.Error("Invalid word data: ID is required")
		return nil, errors.New("word ID is required")
	}

	if word.Text == "" {
		logger.Error("Invalid word data: text is required")
		return nil, errors.New("word text is required")
	}

	if word.Tier != nil && (*word.Tier < 1 || *word.Tier > 100) {
		logger.Error("Invalid word data: tier out of range")
		return nil, errors.New("word tier must be between 1 and 100")
	}

	if err := s.wordRepo.Update(ctx, word); err != nil {
		logger.Error("failed to update word", err)
		return nil, err
	}

	updatedWord, err := s.wordRepo.FindByID(ctx, word.ID)
	if err != nil {
		logger.Error("failed to fetch updated word", err)
		return nil, fmt.Errorf("failed to fetch updated word: %w", err)
	}

	logger.Info("word updated successfully", "word_id", word.ID)

	return &updatedWord, nil
}

// UpdateEnrichmentStatus is the write path used by the enrichment pipeline
// collaborator. failed and not_found take the word out of selection without
// touching the enabled flag.
func (s *wordService) UpdateEnrichmentStatus(ctx context.Context, id uint64, status string) error {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when updating enrichment status")
		return fmt.Errorf("context error: %w", err)
	}

	if !validStatuses[status] {
		logger.Error("Invalid enrichment status", "status", status)
		return errors.New("invalid enrichment status")
	}

	if err := s.wordRepo.UpdateEnrichmentStatus(ctx, id, status); err != nil {
		logger.Error("failed to update enrichment status", err)
		return err
	}

	logger.Info("enrichment status updated", "word_id", id, "status", status)

	return nil
}

// DeleteWord removes a word from the pool outright. Historical usage and
// assignment rows keep their word_id; disabling is the softer alternative.
func (s *wordService) DeleteWord(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when deleting word")
		return fmt.Errorf("context error: %w", err)
	}

	if id == 0 {
		logger.Error("Invalid word id when deleting word")
		return errors.New("invalid word id")
	}

	if err := s.wordRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete word", err)
		return err
	}

	logger.Info("word deleted", "word_id", id)

	return nil
}

func (s *wordService) SetWordEnabled(ctx context.Context, id uint64, enabled bool) error {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when toggling word")
		return fmt.Errorf("context error: %w", err)
	}

	if id == 0 {
		logger.Error("Invalid word id when toggling word")
		return errors.New("invalid word id")
	}

	if err := s.wordRepo.SetEnabled(ctx, id, enabled); err != nil {
		logger.Error("failed to toggle word", err)
		return err
	}

	logger.Info("word toggled", "word_id", id, "enabled", enabled)

	return nil
}
