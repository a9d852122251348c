package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken     string
	DBDSN             string
	Environment       string
	MigrationsPath    string
	AdminTelegramID   int64
	BookingWindowDays int
}

// defaultBookingWindowDays за сколько дней назад (включая сегодня) можно
// регистрировать занятие
const defaultBookingWindowDays = 5

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		DBDSN:          os.Getenv("DB_DSN"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		Environment:    os.Getenv("ENV"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
	}

	// Дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "./migrations"
	}

	// Обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}

	// Администратор студии определяется по Telegram ID
	if raw := os.Getenv("ADMIN_TELEGRAM_ID"); raw != "" {
		adminID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_TELEGRAM_ID must be a number: %w", err)
		}
		cfg.AdminTelegramID = adminID
	}

	// Скользящее окно регистрации занятий
	cfg.BookingWindowDays = defaultBookingWindowDays
	if raw := os.Getenv("BOOKING_WINDOW_DAYS"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 1 {
			return nil, fmt.Errorf("BOOKING_WINDOW_DAYS must be a positive number, got %q", raw)
		}
		cfg.BookingWindowDays = days
	}

	return cfg, nil
}
