package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/studio_bot/internal/model"
)

// SessionStore хранилище занятий, которым пользуется AdmissionService.
// Реализуется repository.SessionRepository
type SessionStore interface {
	Create(ctx context.Context, session *model.Session) error
	GetByID(ctx context.Context, id string) (*model.Session, error)
	GetAll(ctx context.Context) ([]*model.Session, error)
	GetByOwnerID(ctx context.Context, ownerID int64) ([]*model.Session, error)
	Update(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, id string) error
}

// RosterStore хранилище списка учеников.
// Реализуется repository.RosterRepository
type RosterStore interface {
	Create(ctx context.Context, entry *model.RosterEntry) error
	List(ctx context.Context, filter model.RosterFilter) ([]*model.RosterEntry, error)
	ExistsDuplicate(ctx context.Context, studentName string, mode model.Mode, sessionType string) (bool, error)
	Delete(ctx context.Context, studentID string) error
}

// StatsStore агрегирующие запросы по занятиям для статистики.
// Реализуется repository.SessionRepository
type StatsStore interface {
	Recent(ctx context.Context, limit int) ([]*model.Session, error)
	RecentByOwner(ctx context.Context, ownerID int64, limit int) ([]*model.Session, error)
	CountInRange(ctx context.Context, from, to time.Time) (int, error)
	CountInRangeByOwner(ctx context.Context, ownerID int64, from, to time.Time) (int, error)
}
