package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"lexiDaily/domain"
	"lexiDaily/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type SchedulerService interface {
	SetSchedule(ctx context.Context, userID uint, deliveryTime, timezone string, enabled bool) (domain.NotificationSchedule, error)
	GetSchedule(ctx context.Context, userID uint) (domain.NotificationSchedule, error)
}

type ScheduleHandler struct {
	schedulerService SchedulerService
	validator        *validator.Validate
	timeout          time.Duration
}

func NewScheduleHandler(schedulerService SchedulerService) *ScheduleHandler {
	return &ScheduleHandler{
		schedulerService: schedulerService,
		validator:        validator.New(),
		timeout:          10 * time.Second,
	}
}

type SetScheduleRequest struct {
	DeliveryTime string `json:"delivery_time" validate:"required"`
	Timezone     string `json:"timezone" validate:"required"`
	Enabled      *bool  `json:"enabled"`
}

func (h *ScheduleHandler) SetSchedule(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "missing user identity"})
	}

	var req SetScheduleRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind schedule request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate schedule request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	schedule, err := h.schedulerService.SetSchedule(ctx, userID, req.DeliveryTime, req.Timezone, enabled)
	if err != nil {
		logger.Error("Failed to save schedule", err)
		if errors.Is(err, domain.ErrInvalidDeliveryTime) || errors.Is(err, domain.ErrInvalidTimezone) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(schedule))
}

func (h *ScheduleHandler) GetSchedule(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "missing user identity"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	schedule, err := h.schedulerService.GetSchedule(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrScheduleNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to get schedule", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(schedule))
}
