package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Push      PushConfig
	Scheduler SchedulerConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type PushConfig struct {
	PushBaseUrl           string
	PushBasicAuthUsername string
	PushBasicAuthPassword string
}

type SchedulerConfig struct {
	Interval  time.Duration
	BatchSize int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	schedulerInterval, err := time.ParseDuration(getEnv("SCHEDULER_INTERVAL", "1m"))
	if err != nil {
		return nil, errors.New("invalid scheduler interval")
	}

	schedulerBatchSize, err := strconv.Atoi(getEnv("SCHEDULER_BATCH_SIZE", "100"))
	if err != nil {
		return nil, errors.New("invalid scheduler batch size")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "LexiDaily API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "lexidaily"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Push: PushConfig{
			PushBaseUrl:           getEnv("PUSH_BASE_URL", ""),
			PushBasicAuthUsername: getEnv("PUSH_BASIC_AUTH_USERNAME", ""),
			PushBasicAuthPassword: getEnv("PUSH_BASIC_AUTH_PASSWORD", ""),
		},
		Scheduler: SchedulerConfig{
			Interval:  schedulerInterval,
			BatchSize: schedulerBatchSize,
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}
