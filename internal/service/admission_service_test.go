package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/Freeeeeet/studio_bot/internal/repository"
)

// fakeSessionStore in-memory реализация SessionStore для тестов
type fakeSessionStore struct {
	sessions  map[string]*model.Session
	createErr error
	updateErr error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*model.Session)}
}

func (f *fakeSessionStore) Create(_ context.Context, session *model.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionStore) GetByID(_ context.Context, id string) (*model.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (f *fakeSessionStore) GetAll(_ context.Context) ([]*model.Session, error) {
	var all []*model.Session
	for _, session := range f.sessions {
		all = append(all, session)
	}
	return all, nil
}

func (f *fakeSessionStore) GetByOwnerID(_ context.Context, ownerID int64) ([]*model.Session, error) {
	var owned []*model.Session
	for _, session := range f.sessions {
		if session.OwnerID == ownerID {
			owned = append(owned, session)
		}
	}
	return owned, nil
}

func (f *fakeSessionStore) Update(_ context.Context, session *model.Session) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.sessions[session.ID]; !ok {
		return repository.ErrNotFound
	}
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionStore) Delete(_ context.Context, id string) error {
	if _, ok := f.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.sessions, id)
	return nil
}

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)

func newTestAdmission(store *fakeSessionStore) *AdmissionService {
	svc := NewAdmissionService(store, model.DefaultCatalog(), zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func testCandidate(startHour, endHour int) SessionCandidate {
	day := testNow
	return SessionCandidate{
		OwnerID:     1,
		Mode:        model.ModeOffline,
		SessionType: "offlinepersonal",
		Student:     "Raj",
		Date:        day,
		StartTime:   time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, time.Local),
		EndTime:     time.Date(day.Year(), day.Month(), day.Day(), endHour, 0, 0, 0, time.Local),
	}
}

func TestSubmitNewSession_Success(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestAdmission(store)

	id, err := svc.SubmitNewSession(context.Background(), testCandidate(10, 11))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	saved := store.sessions[id]
	require.NotNil(t, saved)
	assert.Equal(t, "Raj", saved.Student)
	assert.Equal(t, model.ModeOffline, saved.Mode)
}

func TestSubmitNewSession_Conflict(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestAdmission(store)

	_, err := svc.SubmitNewSession(context.Background(), testCandidate(10, 11))
	require.NoError(t, err)

	// Тот же ключ, пересекающийся интервал
	_, err = svc.SubmitNewSession(context.Background(), testCandidate(10, 12))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlotTaken)

	var conflictErr *SlotConflictError
	require.ErrorAs(t, err, &conflictErr)
	require.NotNil(t, conflictErr.Conflicting)
	assert.Equal(t, "offlinepersonal", conflictErr.Conflicting.SessionType)
}

func TestSubmitNewSession_HalfOpenBoundary(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestAdmission(store)

	_, err := svc.SubmitNewSession(context.Background(), testCandidate(10, 11))
	require.NoError(t, err)

	// Занятие встык к окончанию существующего не конфликтует
	_, err = svc.SubmitNewSession(context.Background(), testCandidate(11, 12))
	require.NoError(t, err)

	// Занятие с тем же началом конфликтует
	_, err = svc.SubmitNewSession(context.Background(), testCandidate(10, 13))
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestSubmitNewSession_DifferentKeySameInterval(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestAdmission(store)

	_, err := svc.SubmitNewSession(context.Background(), testCandidate(10, 11))
	require.NoError(t, err)

	online := testCandidate(10, 11)
	online.Mode = model.ModeOnline
	online.SessionType = "onlinepersonal"

	_, err = svc.SubmitNewSession(context.Background(), online)
	assert.NoError(t, err)
}

func TestSubmitNewSession_Validation(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestAdmission(store)
	ctx := context.Background()

	t.Run("end before start", func(t *testing.T) {
		cand := testCandidate(11, 10)
		_, err := svc.SubmitNewSession(ctx, cand)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("end equals start", func(t *testing.T) {
		cand := testCandidate(10, 10)
		_, err := svc.SubmitNewSession(ctx, cand)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown session type for mode", func(t *testing.T) {
		cand := testCandidate(10, 11)
		cand.SessionType = "onlinepersonal" // режим offline
		_, err := svc.SubmitNewSession(ctx, cand)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("personal type without student", func(t *testing.T) {
		cand := testCandidate(10, 11)
		cand.Student = "  "
		_, err := svc.SubmitNewSession(ctx, cand)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("date outside booking window", func(t *testing.T) {
		cand := testCandidate(10, 11)
		cand.Date = testNow.AddDate(0, 0, -10)
		_, err := svc.SubmitNewSession(ctx, cand)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("future date", func(t *testing.T) {
		cand := testCandidate(10, 11)
		cand.Date = testNow.AddDate(0, 0, 1)
		_, err := svc.SubmitNewSession(ctx, cand)
		assert.ErrorIs(t, err, ErrValidation)
	})

	// Ничего не сохранилось
	assert.Empty(t, store.sessions)
}

func TestSubmitNewSession_GroupSessionBlankStudent(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestAdmission(store)

	cand := testCandidate(17, 18)
	cand.SessionType = "offlinegeneral"
	cand.Student = ""

	id, err := svc.SubmitNewSession(context.Background(), cand)
	require.NoError(t, err)
	assert.Equal(t, model.StudentNotApplicable, store.sessions[id].Student)
}

func TestSubmitNewSession_StoreConstraintConflict(t *testing.T) {
	store := newFakeSessionStore()
	store.createErr = repository.ErrSlotOccupied
	svc := newTestAdmission(store)

	_, err := svc.SubmitNewSession(context.Background(), testCandidate(10, 11))
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestSubmitSessionUpdate_StoreConstraintConflict(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestAdmission(store)
	ctx := context.Background()

	id, err := svc.SubmitNewSession(ctx, testCandidate(10, 11))
	require.NoError(t, err)

	// Параллельная заявка успела занять слот между сканом и записью
	store.updateErr = repository.ErrSlotOccupied
	newStart := time.Date(testNow.Year(), testNow.Month(), testNow.Day(), 9, 0, 0, 0, time.Local)
	newEnd := newStart.Add(time.Hour)
	err = svc.SubmitSessionUpdate(ctx, id, model.SessionUpdate{
		StartTime: &newStart,
		EndTime:   &newEnd,
	})
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestSubmitSessionUpdate_SelfExclusion(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestAdmission(store)
	ctx := context.Background()

	id, err := svc.SubmitNewSession(ctx, testCandidate(10, 11))
	require.NoError(t, err)

	// Обновление на тот же интервал не конфликтует само с собой
	start := store.sessions[id].StartTime
	end := store.sessions[id].EndTime
	err = svc.SubmitSessionUpdate(ctx, id, model.SessionUpdate{
		StartTime: &start,
		EndTime:   &end,
	})
	assert.NoError(t, err)
}

func TestSubmitSessionUpdate_MoveIntoOccupiedSlot(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestAdmission(store)
	ctx := context.Background()

	idA, err := svc.SubmitNewSession(ctx, testCandidate(10, 11))
	require.NoError(t, err)
	_, err = svc.SubmitNewSession(ctx, testCandidate(11, 12))
	require.NoError(t, err)

	// Сдвигаем A внутрь соседнего занятия
	newStart := time.Date(testNow.Year(), testNow.Month(), testNow.Day(), 11, 30, 0, 0, time.Local)
	newEnd := newStart.Add(30 * time.Minute)
	err = svc.SubmitSessionUpdate(ctx, idA, model.SessionUpdate{
		StartTime: &newStart,
		EndTime:   &newEnd,
	})
	assert.ErrorIs(t, err, ErrSlotTaken)

	// Неудачное обновление ничего не меняет
	assert.Equal(t, 10, store.sessions[idA].StartTime.Hour())
}

func TestSubmitSessionUpdate_KeyChangeRechecked(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestAdmission(store)
	ctx := context.Background()

	// Занятие ученицы Anya и занятие Raj в одном интервале
	anya := testCandidate(10, 11)
	anya.Student = "Anya"
	_, err := svc.SubmitNewSession(ctx, anya)
	require.NoError(t, err)

	idRaj, err := svc.SubmitNewSession(ctx, testCandidate(10, 11))
	require.NoError(t, err)

	// Смена только ученика переводит занятие в занятый слот и отклоняется,
	// даже без изменения времени
	newStudent := "Anya"
	err = svc.SubmitSessionUpdate(ctx, idRaj, model.SessionUpdate{Student: &newStudent})
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestSubmitSessionUpdate_PartialFieldsKeepStored(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestAdmission(store)
	ctx := context.Background()

	id, err := svc.SubmitNewSession(ctx, testCandidate(10, 11))
	require.NoError(t, err)

	newStart := time.Date(testNow.Year(), testNow.Month(), testNow.Day(), 9, 0, 0, 0, time.Local)
	newEnd := newStart.Add(time.Hour)
	err = svc.SubmitSessionUpdate(ctx, id, model.SessionUpdate{
		StartTime: &newStart,
		EndTime:   &newEnd,
	})
	require.NoError(t, err)

	// Незаполненные поля остались из сохранённой записи
	saved := store.sessions[id]
	assert.Equal(t, "Raj", saved.Student)
	assert.Equal(t, "offlinepersonal", saved.SessionType)
	assert.Equal(t, 9, saved.StartTime.Hour())
}

func TestSubmitNewSession_IntervalFollowsDate(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestAdmission(store)

	// Дата заявки и календарный день времени расходятся: сохраняется дата
	cand := testCandidate(10, 11)
	cand.Date = testNow.AddDate(0, 0, -2)

	id, err := svc.SubmitNewSession(context.Background(), cand)
	require.NoError(t, err)

	saved := store.sessions[id]
	assert.Equal(t, saved.Date.Day(), saved.StartTime.Day())
	assert.Equal(t, saved.Date.Month(), saved.StartTime.Month())
	assert.Equal(t, 10, saved.StartTime.Hour())
	assert.Equal(t, 11, saved.EndTime.Hour())
}

func TestSubmitSessionUpdate_DateOnlyMovesInterval(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestAdmission(store)
	ctx := context.Background()

	id, err := svc.SubmitNewSession(ctx, testCandidate(10, 11))
	require.NoError(t, err)

	// Перенос только даты сдвигает начало и конец на новый день,
	// сохраняя часы
	newDate := testNow.AddDate(0, 0, -1)
	err = svc.SubmitSessionUpdate(ctx, id, model.SessionUpdate{Date: &newDate})
	require.NoError(t, err)

	saved := store.sessions[id]
	assert.Equal(t, newDate.Day(), saved.StartTime.Day())
	assert.Equal(t, newDate.Day(), saved.EndTime.Day())
	assert.Equal(t, 10, saved.StartTime.Hour())
	assert.Equal(t, 11, saved.EndTime.Hour())
	assert.Equal(t, saved.Date.Day(), saved.StartTime.Day())
}

func TestSubmitSessionUpdate_DateOnlyIntoOccupiedDay(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestAdmission(store)
	ctx := context.Background()

	// Вчера слот 10-11 уже занят тем же ключом
	yesterday := testCandidate(10, 11)
	yesterday.Date = testNow.AddDate(0, 0, -1)
	_, err := svc.SubmitNewSession(ctx, yesterday)
	require.NoError(t, err)

	id, err := svc.SubmitNewSession(ctx, testCandidate(10, 11))
	require.NoError(t, err)

	newDate := testNow.AddDate(0, 0, -1)
	err = svc.SubmitSessionUpdate(ctx, id, model.SessionUpdate{Date: &newDate})
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestSessionsByOwner(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestAdmission(store)
	ctx := context.Background()

	_, err := svc.SubmitNewSession(ctx, testCandidate(10, 11))
	require.NoError(t, err)

	other := testCandidate(11, 12)
	other.OwnerID = 2
	_, err = svc.SubmitNewSession(ctx, other)
	require.NoError(t, err)

	sessions, err := svc.SessionsByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, int64(1), sessions[0].OwnerID)

	empty, err := svc.SessionsByOwner(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSubmitSessionUpdate_NotFound(t *testing.T) {
	svc := newTestAdmission(newFakeSessionStore())

	err := svc.SubmitSessionUpdate(context.Background(), "missing", model.SessionUpdate{})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSubmitSessionUpdate_InvalidEffectiveInterval(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestAdmission(store)
	ctx := context.Background()

	id, err := svc.SubmitNewSession(ctx, testCandidate(10, 11))
	require.NoError(t, err)

	// Новый конец раньше сохранённого начала
	badEnd := time.Date(testNow.Year(), testNow.Month(), testNow.Day(), 9, 0, 0, 0, time.Local)
	err = svc.SubmitSessionUpdate(ctx, id, model.SessionUpdate{EndTime: &badEnd})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRemoveSession(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestAdmission(store)
	ctx := context.Background()

	id, err := svc.SubmitNewSession(ctx, testCandidate(10, 11))
	require.NoError(t, err)

	require.NoError(t, svc.RemoveSession(ctx, id))
	assert.Empty(t, store.sessions)

	// Повторное удаление это ошибка, не no-op
	err = svc.RemoveSession(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestErrorMessage(t *testing.T) {
	conflict := &SlotConflictError{Conflicting: &model.Session{
		StartTime: time.Date(2025, 3, 10, 10, 0, 0, 0, time.Local),
		EndTime:   time.Date(2025, 3, 10, 11, 0, 0, 0, time.Local),
	}}
	assert.Contains(t, ErrorMessage(conflict), "10:00")
	assert.Contains(t, ErrorMessage(ErrSessionNotFound), "не найдено")
	assert.Contains(t, ErrorMessage(&ValidationError{Reason: "нет даты"}), "нет даты")
	assert.Contains(t, ErrorMessage(errors.New("boom")), "Произошла ошибка")
}
