package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"lexiDaily/domain"
	"lexiDaily/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type WordService interface {
	GetAllWords(ctx context.Context) ([]domain.WordPoolEntry, error)
	GetWordByID(ctx context.Context, id uint64) (domain.WordPoolEntry, error)
	CreateWord(ctx context.Context, word *domain.WordPoolEntry) (*domain.WordPoolEntry, error)
	UpdateWord(ctx context.Context, word *domain.WordPoolEntry) (*domain.WordPoolEntry, error)
	UpdateEnrichmentStatus(ctx context.Context, id uint64, status string) error
	SetWordEnabled(ctx context.Context, id uint64, enabled bool) error
	DeleteWord(ctx context.Context, id uint64) error
}

type WordAdminHandler struct {
	wordService WordService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewWordAdminHandler(wordService WordService) *WordAdminHandler {
	return &WordAdminHandler{
		wordService: wordService,
		validator:   validator.New(),
		timeout:     10 * time.Second,
	}
}

type CreateWordRequest struct {
	Text   string `json:"text" validate:"required"`
	Tier   *int   `json:"tier" validate:"omitempty,min=1,max=100"`
	Source string `json:"source"`
}

type UpdateWordRequest struct {
	Text    string `json:"text" validate:"required"`
	Tier    *int   `json:"tier" validate:"omitempty,min=1,max=100"`
	Source  string `json:"source"`
	Enabled *bool  `json:"enabled"`
}

type UpdateEnrichmentRequest struct {
	Status string `json:"status" validate:"required,oneof=pending ready failed not_found"`
}

type SetEnabledRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

func wordIDParam(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

func (h *WordAdminHandler) GetAllWords(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	words, err := h.wordService.GetAllWords(ctx)
	if err != nil {
		logger.Error("Failed to find all words", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(words))
}

func (h *WordAdminHandler) GetWordByID(c echo.Context) error {
	wordID, err := wordIDParam(c)
	if err != nil {
		logger.Error("Invalid word id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid word id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	word, err := h.wordService.GetWordByID(ctx, wordID)
	if err != nil {
		logger.Error("Failed to find word", err)
		if errors.Is(err, domain.ErrWordNotFound) || err.Error() == "invalid word id" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(word))
}

func (h *WordAdminHandler) CreateWord(c echo.Context) error {
	var req CreateWordRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate word request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	word := &domain.WordPoolEntry{
		Text:    req.Text,
		Tier:    req.Tier,
		Source:  req.Source,
		Enabled: true,
	}

	newWord, err := h.wordService.CreateWord(ctx, word)
	if err != nil {
		logger.Error("Failed to create word", err)
		if err.Error() == "word text is required" || err.Error() == "word tier must be between 1 and 100" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(newWord))
}

func (h *WordAdminHandler) UpdateWord(c echo.Context) error {
	wordID, err := wordIDParam(c)
	if err != nil {
		logger.Error("Invalid word id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid word id"})
	}

	var req UpdateWordRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate word request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	word := &domain.WordPoolEntry{
		ID:      wordID,
		Text:    req.Text,
		Tier:    req.Tier,
		Source:  req.Source,
		Enabled: enabled,
	}

	updatedWord, err := h.wordService.UpdateWord(ctx, word)
	if err != nil {
		logger.Error("Failed to update word", err)
		if errors.Is(err, domain.ErrWordNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		if err.Error() == "word text is required" || err.Error() == "word tier must be between 1 and 100" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(updatedWord))
}

func (h *WordAdminHandler) DeleteWord(c echo.Context) error {
	wordID, err := wordIDParam(c)
	if err != nil {
		logger.Error("Invalid word id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid word id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.wordService.DeleteWord(ctx, wordID); err != nil {
		logger.Error("Failed to delete word", err)
		if errors.Is(err, domain.ErrWordNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("word deleted"))
}

// UpdateEnrichment is the hook the enrichment pipeline calls back on:
// failed / not_found silently remove a word from selection.
func (h *WordAdminHandler) UpdateEnrichment(c echo.Context) error {
	wordID, err := wordIDParam(c)
	if err != nil {
		logger.Error("Invalid word id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid word id"})
	}

	var req UpdateEnrichmentRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate enrichment request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.wordService.UpdateEnrichmentStatus(ctx, wordID, req.Status); err != nil {
		logger.Error("Failed to update enrichment status", err)
		if errors.Is(err, domain.ErrWordNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("enrichment status updated"))
}

func (h *WordAdminHandler) SetEnabled(c echo.Context) error {
	wordID, err := wordIDParam(c)
	if err != nil {
		logger.Error("Invalid word id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid word id"})
	}

	var req SetEnabledRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.wordService.SetWordEnabled(ctx, wordID, *req.Enabled); err != nil {
		logger.Error("Failed to toggle word", err)
		if errors.Is(err, domain.ErrWordNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("word updated"))
}
