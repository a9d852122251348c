package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Freeeeeet/studio_bot/internal/app"
	"github.com/Freeeeeet/studio_bot/internal/config"
	"github.com/Freeeeeet/studio_bot/internal/controller"
	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/Freeeeeet/studio_bot/internal/repository"
	"github.com/Freeeeeet/studio_bot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting studio bot", zap.String("environment", cfg.Environment))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Подключение к БД
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	// Миграции
	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("Failed to close migrator", zap.Error(err))
	}

	// Репозитории
	sessionRepo := repository.NewSessionRepository(pool)
	rosterRepo := repository.NewRosterRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	// Сервисы
	catalog := model.DefaultCatalog()
	catalog.BookingWindowDays = cfg.BookingWindowDays
	userService := service.NewUserService(userRepo, cfg.AdminTelegramID, logger)
	admissionService := service.NewAdmissionService(sessionRepo, catalog, logger)
	rosterService := service.NewRosterService(rosterRepo, catalog, logger)
	statsService := service.NewStatsService(sessionRepo)

	// Telegram бот
	botInstance, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(
		botInstance,
		userService,
		admissionService,
		rosterService,
		statsService,
		catalog,
		logger,
	)

	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Fatal("Failed to register handlers", zap.Error(err))
	}

	// Фоновая очистка устаревших занятий
	scheduler := app.NewScheduler(sessionRepo, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logger.Info("Bot is running")
	botController.Start(ctx)

	logger.Info("Shutdown complete")
}
