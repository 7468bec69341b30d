package database

import (
	"fmt"
	"lexiDaily/domain"
	"lexiDaily/pkg/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func InitPostgres(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(
		&domain.WordPoolEntry{},
		&domain.WordCycleState{},
		&domain.WordUsageLog{},
		&domain.DailyWordAssignment{},
		&domain.UserWordCycleState{},
		&domain.UserWordUsageLog{},
		&domain.UserWordAssignment{},
		&domain.NotificationSchedule{},
		&domain.WordDelivery{},
		&domain.User{},
		&domain.AnalyticsEvent{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Seed the singleton global cycle row.
	state := domain.WordCycleState{ID: 1, CurrentCycle: 1}
	if err := db.Where(domain.WordCycleState{ID: 1}).FirstOrCreate(&state).Error; err != nil {
		return nil, fmt.Errorf("failed to seed cycle state: %w", err)
	}

	return db, nil
}
