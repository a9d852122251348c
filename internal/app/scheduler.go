package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// purgeHorizon занятия старше года удаляются из хранилища,
// статистика при этом сохраняет полный год истории
const purgeHorizon = 365 * 24 * time.Hour

// SessionPurger удаляет устаревшие занятия
type SessionPurger interface {
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	purger   SessionPurger
	logger   *zap.Logger
	stopChan chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(purger SessionPurger, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		purger:   purger,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	go s.runPurgeTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runPurgeTask раз в сутки удаляет занятия, вышедшие за горизонт хранения
func (s *Scheduler) runPurgeTask(ctx context.Context) {
	// Первый запуск сразу при старте
	s.purgeOldSessions(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.purgeOldSessions(ctx)
		case <-s.stopChan:
			s.logger.Info("Purge task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Purge task cancelled")
			return
		}
	}
}

func (s *Scheduler) purgeOldSessions(ctx context.Context) {
	before := time.Now().Add(-purgeHorizon)

	deleted, err := s.purger.DeleteOlderThan(ctx, before)
	if err != nil {
		s.logger.Error("Failed to purge old sessions", zap.Error(err))
		return
	}

	if deleted > 0 {
		s.logger.Info("Old sessions purged",
			zap.Int64("deleted", deleted),
			zap.Time("before", before),
		)
	}
}
