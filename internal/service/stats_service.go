package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/studio_bot/internal/model"
)

// RecentSessionsLimit сколько последних занятий попадает в сводку
const RecentSessionsLimit = 5

// Stats сводка по занятиям: последние занятия и количество за текущий месяц
type Stats struct {
	RecentSessions []*model.Session
	TotalThisMonth int
}

// StatsService собирает сводки для участника и для студии в целом
type StatsService struct {
	store StatsStore
	now   func() time.Time
}

func NewStatsService(store StatsStore) *StatsService {
	return &StatsService{
		store: store,
		now:   time.Now,
	}
}

// MemberStats сводка по занятиям одного участника
func (s *StatsService) MemberStats(ctx context.Context, ownerID int64) (*Stats, error) {
	recent, err := s.store.RecentByOwner(ctx, ownerID, RecentSessionsLimit)
	if err != nil {
		return nil, fmt.Errorf("recent sessions: %w", err)
	}

	from, to := currentMonth(s.now())
	total, err := s.store.CountInRangeByOwner(ctx, ownerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}

	return &Stats{RecentSessions: recent, TotalThisMonth: total}, nil
}

// StudioStats сводка по всем занятиям студии, для администратора
func (s *StatsService) StudioStats(ctx context.Context) (*Stats, error) {
	recent, err := s.store.Recent(ctx, RecentSessionsLimit)
	if err != nil {
		return nil, fmt.Errorf("recent sessions: %w", err)
	}

	from, to := currentMonth(s.now())
	total, err := s.store.CountInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}

	return &Stats{RecentSessions: recent, TotalThisMonth: total}, nil
}

// currentMonth границы текущего месяца [from, to)
func currentMonth(now time.Time) (time.Time, time.Time) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return from, from.AddDate(0, 1, 0)
}
