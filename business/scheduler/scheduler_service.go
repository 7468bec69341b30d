package scheduler

import (
	"context"
	"fmt"
	"time"

	"lexiDaily/business/selection"
	"lexiDaily/domain"
	"lexiDaily/pkg/logger"
	"lexiDaily/pkg/metrics"

	"gorm.io/datatypes"
)

// ---- Repository interfaces ----

type ScheduleRepository interface {
	FindDue(ctx context.Context, now time.Time, limit int) ([]domain.NotificationSchedule, error)
	FindByUser(ctx context.Context, userID uint) (domain.NotificationSchedule, bool, error)
	Upsert(ctx context.Context, schedule *domain.NotificationSchedule) error
	UpdateNextDelivery(ctx context.Context, id uint64, next time.Time) error
	Disable(ctx context.Context, id uint64) error
}

type DeliveryRepository interface {
	CreateIfAbsent(ctx context.Context, delivery *domain.WordDelivery) (created bool, err error)
}

type GlobalWordProvider interface {
	GetOrAssignGlobalWord(ctx context.Context, date string) (selection.GlobalWordResult, error)
}

type PushRepository interface {
	Send(userID uint, word, date string) error
}

type AnalyticsRepository interface {
	Record(ctx context.Context, event domain.AnalyticsEvent) error
}

type Service struct {
	scheduleRepo ScheduleRepository
	deliveryRepo DeliveryRepository
	words        GlobalWordProvider
	pushRepo     PushRepository
	analytics    AnalyticsRepository
	batchSize    int
}

func NewService(
	scheduleRepo ScheduleRepository,
	deliveryRepo DeliveryRepository,
	words GlobalWordProvider,
	pushRepo PushRepository,
	analytics AnalyticsRepository,
	batchSize int,
) *Service {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Service{
		scheduleRepo: scheduleRepo,
		deliveryRepo: deliveryRepo,
		words:        words,
		pushRepo:     pushRepo,
		analytics:    analytics,
		batchSize:    batchSize,
	}
}

const (
	dateLayout         = "2006-01-02"
	deliveryTimeLayout = "15:04"
)

// RunDueSchedules drains every schedule whose next_delivery_at has passed,
// in bounded batches. Each schedule is advanced, or disabled when it cannot
// be, so a single broken row cannot wedge the scan.
func (s *Service) RunDueSchedules(ctx context.Context, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	for {
		due, err := s.scheduleRepo.FindDue(ctx, now, s.batchSize)
		if err != nil {
			return err
		}
		if len(due) == 0 {
			return nil
		}

		for _, schedule := range due {
			s.processSchedule(ctx, schedule, now)
		}

		if len(due) < s.batchSize {
			return nil
		}
	}
}

func (s *Service) processSchedule(ctx context.Context, schedule domain.NotificationSchedule, now time.Time) {
	loc, err := time.LoadLocation(schedule.Timezone)
	if err != nil {
		logger.Error("schedule has unknown timezone, using UTC", "schedule_id", schedule.ID, "timezone", schedule.Timezone)
		loc = time.UTC
	}

	// The user's calendar date at the instant the delivery was due.
	localDate := schedule.NextDeliveryAt.In(loc).Format(dateLayout)

	if err := s.deliver(ctx, schedule, localDate); err != nil {
		logger.Error("failed to deliver scheduled word", "schedule_id", schedule.ID, "date", localDate, "error", err.Error())
	}

	next, err := NextDeliveryAt(schedule.DeliveryTime, loc, now)
	if err != nil {
		// Leaving the row due would make FindDue return it on every pass.
		logger.Error("schedule has invalid delivery time, disabling", "schedule_id", schedule.ID, "delivery_time", schedule.DeliveryTime)
		if err := s.scheduleRepo.Disable(ctx, schedule.ID); err != nil {
			logger.Error("failed to disable schedule", "schedule_id", schedule.ID, "error", err.Error())
		}
		return
	}

	if err := s.scheduleRepo.UpdateNextDelivery(ctx, schedule.ID, next); err != nil {
		logger.Error("failed to advance schedule", "schedule_id", schedule.ID, "error", err.Error())
	}
}

func (s *Service) deliver(ctx context.Context, schedule domain.NotificationSchedule, date string) error {
	result, err := s.words.GetOrAssignGlobalWord(ctx, date)
	if err != nil {
		return err
	}

	delivery := domain.WordDelivery{
		UserID:      schedule.UserID,
		WordForDate: date,
		WordID:      result.WordID,
		DeliveredAt: time.Now(),
	}

	fresh, err := s.deliveryRepo.CreateIfAbsent(ctx, &delivery)
	if err != nil {
		return err
	}
	if !fresh {
		// The user already got this date's word through another path.
		return nil
	}

	metrics.ScheduledDeliveries.Inc()

	if err := s.pushRepo.Send(schedule.UserID, result.Word, date); err != nil {
		// Fire-and-forget: delivery failures are the gateway's concern.
		logger.Warn("push dispatch failed", "user_id", schedule.UserID, "date", date, "error", err.Error())
	}

	event := domain.AnalyticsEvent{
		Name:   "word_delivered",
		UserID: schedule.UserID,
		Metadata: datatypes.JSONMap{
			"word_id": result.WordID,
			"date":    date,
		},
	}
	if err := s.analytics.Record(ctx, event); err != nil {
		logger.Warn("failed to record delivery event", "user_id", schedule.UserID, "error", err.Error())
	}

	return nil
}

// SetSchedule creates or replaces the user's delivery schedule and computes
// the first next_delivery_at: today at HH:MM local if that is still ahead,
// otherwise tomorrow.
func (s *Service) SetSchedule(ctx context.Context, userID uint, deliveryTime, timezone string, enabled bool) (domain.NotificationSchedule, error) {
	if err := ctx.Err(); err != nil {
		return domain.NotificationSchedule{}, fmt.Errorf("context error: %w", err)
	}

	if _, _, err := parseDeliveryTime(deliveryTime); err != nil {
		return domain.NotificationSchedule{}, err
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return domain.NotificationSchedule{}, fmt.Errorf("%w: %q", domain.ErrInvalidTimezone, timezone)
	}

	next, err := nextOccurrence(deliveryTime, loc, time.Now())
	if err != nil {
		return domain.NotificationSchedule{}, err
	}

	schedule := domain.NotificationSchedule{
		UserID:         userID,
		DeliveryTime:   deliveryTime,
		Timezone:       timezone,
		Enabled:        enabled,
		NextDeliveryAt: next,
	}

	if err := s.scheduleRepo.Upsert(ctx, &schedule); err != nil {
		return domain.NotificationSchedule{}, err
	}

	logger.Info("schedule saved", "user_id", userID, "delivery_time", deliveryTime, "timezone", timezone)

	return schedule, nil
}

func (s *Service) GetSchedule(ctx context.Context, userID uint) (domain.NotificationSchedule, error) {
	if err := ctx.Err(); err != nil {
		return domain.NotificationSchedule{}, fmt.Errorf("context error: %w", err)
	}

	schedule, ok, err := s.scheduleRepo.FindByUser(ctx, userID)
	if err != nil {
		return domain.NotificationSchedule{}, err
	}
	if !ok {
		return domain.NotificationSchedule{}, domain.ErrScheduleNotFound
	}

	return schedule, nil
}

func parseDeliveryTime(deliveryTime string) (hour, minute int, err error) {
	t, err := time.Parse(deliveryTimeLayout, deliveryTime)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", domain.ErrInvalidDeliveryTime, deliveryTime)
	}
	return t.Hour(), t.Minute(), nil
}

// NextDeliveryAt computes tomorrow at HH:MM in the given location, as a UTC
// instant. time.Date in the location keeps this DST-aware; a flat +24h
// would drift by an hour across transitions.
func NextDeliveryAt(deliveryTime string, loc *time.Location, now time.Time) (time.Time, error) {
	hour, minute, err := parseDeliveryTime(deliveryTime)
	if err != nil {
		return time.Time{}, err
	}

	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day()+1, hour, minute, 0, 0, loc)

	return next.UTC(), nil
}

// nextOccurrence is NextDeliveryAt's first-run sibling: today if HH:MM is
// still ahead locally, else tomorrow.
func nextOccurrence(deliveryTime string, loc *time.Location, now time.Time) (time.Time, error) {
	hour, minute, err := parseDeliveryTime(deliveryTime)
	if err != nil {
		return time.Time{}, err
	}

	local := now.In(loc)
	candidate := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !candidate.After(now) {
		candidate = time.Date(local.Year(), local.Month(), local.Day()+1, hour, minute, 0, 0, loc)
	}

	return candidate.UTC(), nil
}
