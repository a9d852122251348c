package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/studio_bot/internal/model"
)

// fakeStatsStore реализация StatsStore поверх среза занятий
type fakeStatsStore struct {
	sessions []*model.Session
}

func (f *fakeStatsStore) Recent(_ context.Context, limit int) ([]*model.Session, error) {
	return f.recent(f.sessions, limit), nil
}

func (f *fakeStatsStore) RecentByOwner(_ context.Context, ownerID int64, limit int) ([]*model.Session, error) {
	var owned []*model.Session
	for _, s := range f.sessions {
		if s.OwnerID == ownerID {
			owned = append(owned, s)
		}
	}
	return f.recent(owned, limit), nil
}

func (f *fakeStatsStore) recent(sessions []*model.Session, limit int) []*model.Session {
	sorted := make([]*model.Session, len(sessions))
	copy(sorted, sessions)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].Date.After(sorted[i].Date) {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func (f *fakeStatsStore) CountInRange(_ context.Context, from, to time.Time) (int, error) {
	count := 0
	for _, s := range f.sessions {
		if !s.Date.Before(from) && s.Date.Before(to) {
			count++
		}
	}
	return count, nil
}

func (f *fakeStatsStore) CountInRangeByOwner(_ context.Context, ownerID int64, from, to time.Time) (int, error) {
	count := 0
	for _, s := range f.sessions {
		if s.OwnerID == ownerID && !s.Date.Before(from) && s.Date.Before(to) {
			count++
		}
	}
	return count, nil
}

func statsSession(ownerID int64, date time.Time) *model.Session {
	return &model.Session{
		OwnerID:   ownerID,
		Mode:      model.ModeOffline,
		Date:      date,
		StartTime: date.Add(10 * time.Hour),
		EndTime:   date.Add(11 * time.Hour),
	}
}

func TestStatsService(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)
	day := func(offset int) time.Time {
		return time.Date(2025, 3, 10+offset, 0, 0, 0, 0, time.Local)
	}

	store := &fakeStatsStore{sessions: []*model.Session{
		statsSession(1, day(0)),
		statsSession(1, day(-1)),
		statsSession(1, day(-2)),
		statsSession(1, day(-3)),
		statsSession(1, day(-4)),
		statsSession(1, day(-5)),
		statsSession(2, day(0)),
		// Прошлый месяц, в месячный счётчик не попадает
		statsSession(1, time.Date(2025, 2, 20, 0, 0, 0, 0, time.Local)),
	}}

	svc := NewStatsService(store)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	t.Run("member stats", func(t *testing.T) {
		stats, err := svc.MemberStats(ctx, 1)
		require.NoError(t, err)

		assert.Len(t, stats.RecentSessions, RecentSessionsLimit)
		assert.Equal(t, day(0), stats.RecentSessions[0].Date)
		assert.Equal(t, 6, stats.TotalThisMonth)
	})

	t.Run("studio stats", func(t *testing.T) {
		stats, err := svc.StudioStats(ctx)
		require.NoError(t, err)

		assert.Len(t, stats.RecentSessions, RecentSessionsLimit)
		assert.Equal(t, 7, stats.TotalThisMonth)
	})

	t.Run("member without sessions", func(t *testing.T) {
		stats, err := svc.MemberStats(ctx, 99)
		require.NoError(t, err)

		assert.Empty(t, stats.RecentSessions)
		assert.Zero(t, stats.TotalThisMonth)
	})
}
