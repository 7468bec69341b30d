package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"lexiDaily/business/selection"
	"lexiDaily/domain"
	"lexiDaily/pkg/logger"
	"lexiDaily/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type SelectionService interface {
	GetOrAssignGlobalWord(ctx context.Context, date string) (selection.GlobalWordResult, error)
	GetOrAssignUserWord(ctx context.Context, userID uint, date string, requested *domain.Difficulty) (selection.UserWordResult, error)
}

type WordOfDayHandler struct {
	selectionService SelectionService
	validator        *validator.Validate
	timeout          time.Duration
}

func NewWordOfDayHandler(selectionService SelectionService) *WordOfDayHandler {
	return &WordOfDayHandler{
		selectionService: selectionService,
		validator:        validator.New(),
		timeout:          10 * time.Second,
	}
}

type GlobalWordResponse struct {
	WordID          uint64 `json:"word_id"`
	Word            string `json:"word"`
	Date            string `json:"date"`
	WasNewlyCreated bool   `json:"was_newly_created"`
}

type UserWordResponse struct {
	WordID              uint64  `json:"word_id"`
	Word                string  `json:"word"`
	Date                string  `json:"date"`
	WasNewlyCreated     bool    `json:"was_newly_created"`
	RequestedDifficulty *string `json:"requested_difficulty"`
	EffectiveDifficulty *string `json:"effective_difficulty"`
	UsedFallback        bool    `json:"used_fallback"`
}

func requestedDate(c echo.Context) string {
	if date := c.QueryParam("date"); date != "" {
		return date
	}
	return time.Now().UTC().Format("2006-01-02")
}

// GetGlobalWord serves the shared word of the day.
func (h *WordOfDayHandler) GetGlobalWord(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.SelectionLatency.Observe(time.Since(start).Seconds())
	}()

	date := requestedDate(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.selectionService.GetOrAssignGlobalWord(ctx, date)
	if err != nil {
		logger.Error("Failed to resolve global word", err)
		switch {
		case errors.Is(err, domain.ErrInvalidDate):
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		case errors.Is(err, domain.ErrPoolEmpty):
			return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
		}
	}

	return c.JSON(http.StatusOK, GlobalWordResponse{
		WordID:          result.WordID,
		Word:            result.Word,
		Date:            date,
		WasNewlyCreated: result.WasNewlyCreated,
	})
}

// GetUserWord serves the authenticated user's word, optionally personalized
// by a requested difficulty band.
func (h *WordOfDayHandler) GetUserWord(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.SelectionLatency.Observe(time.Since(start).Seconds())
	}()

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "missing user identity"})
	}

	date := requestedDate(c)

	var requested *domain.Difficulty
	if raw := c.QueryParam("difficulty"); raw != "" {
		difficulty, err := domain.ParseDifficulty(raw)
		if err != nil {
			logger.Error("Invalid difficulty", err)
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		requested = &difficulty
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.selectionService.GetOrAssignUserWord(ctx, userID, date, requested)
	if err != nil {
		logger.Error("Failed to resolve user word", err)
		switch {
		case errors.Is(err, domain.ErrInvalidDate):
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		case errors.Is(err, domain.ErrNoWordsForPreferences):
			// Legitimate outcome, not a fault: the difficulty-filtered pool
			// is exhausted today.
			return c.JSON(http.StatusConflict, ResponseError{Message: err.Error()})
		case errors.Is(err, domain.ErrPoolEmpty):
			return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
		}
	}

	return c.JSON(http.StatusOK, UserWordResponse{
		WordID:              result.WordID,
		Word:                result.Word,
		Date:                date,
		WasNewlyCreated:     result.WasNewlyCreated,
		RequestedDifficulty: difficultyString(result.RequestedDifficulty),
		EffectiveDifficulty: difficultyString(result.EffectiveDifficulty),
		UsedFallback:        result.UsedFallback,
	})
}

func difficultyString(d *domain.Difficulty) *string {
	if d == nil {
		return nil
	}
	s := string(*d)
	return &s
}
