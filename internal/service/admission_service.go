package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/Freeeeeet/studio_bot/internal/repository"
	"github.com/Freeeeeet/studio_bot/internal/schedule"
)

// SessionCandidate заявка на регистрацию занятия
type SessionCandidate struct {
	OwnerID     int64
	Mode        model.Mode
	SessionType string
	Student     string
	Date        time.Time
	StartTime   time.Time
	EndTime     time.Time
}

// AdmissionService проверяет заявки на занятия и поддерживает инвариант:
// два занятия с одним категориальным ключом не пересекаются по времени
type AdmissionService struct {
	store   SessionStore
	catalog *model.Catalog
	logger  *zap.Logger
	now     func() time.Time
}

func NewAdmissionService(store SessionStore, catalog *model.Catalog, logger *zap.Logger) *AdmissionService {
	return &AdmissionService{
		store:   store,
		catalog: catalog,
		logger:  logger,
		now:     time.Now,
	}
}

// SubmitNewSession валидирует заявку, проверяет пересечения со всеми
// существующими занятиями и сохраняет новое занятие. Возвращает его идентификатор
func (s *AdmissionService) SubmitNewSession(ctx context.Context, cand SessionCandidate) (string, error) {
	if err := s.validateCandidate(&cand); err != nil {
		return "", err
	}

	// Интервал лежит на дате занятия
	date := dateOnly(cand.Date)
	start := onDate(date, cand.StartTime)
	end := onDate(date, cand.EndTime)

	interval, err := schedule.NewInterval(start, end)
	if err != nil {
		return "", &ValidationError{Reason: "окончание занятия должно быть позже начала"}
	}

	existing, err := s.store.GetAll(ctx)
	if err != nil {
		return "", fmt.Errorf("load sessions: %w", err)
	}

	conflict := schedule.FindConflict(schedule.Candidate{
		Key: schedule.Key{
			Mode:        cand.Mode,
			SessionType: cand.SessionType,
			Student:     cand.Student,
		},
		Interval: interval,
	}, existing)
	if conflict != nil {
		return "", &SlotConflictError{Conflicting: conflict}
	}

	session := &model.Session{
		ID:          uuid.NewString(),
		OwnerID:     cand.OwnerID,
		Mode:        cand.Mode,
		SessionType: cand.SessionType,
		Student:     schedule.NormalizeStudent(cand.Student),
		Date:        date,
		StartTime:   start,
		EndTime:     end,
	}

	if err := s.store.Create(ctx, session); err != nil {
		// Констрейнт БД закрывает гонку check-then-act между параллельными заявками
		if errors.Is(err, repository.ErrSlotOccupied) {
			return "", &SlotConflictError{}
		}
		return "", fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("Session registered",
		zap.String("session_id", session.ID),
		zap.Int64("owner_id", session.OwnerID),
		zap.String("mode", string(session.Mode)),
		zap.String("session_type", session.SessionType),
		zap.String("student", session.Student),
		zap.Time("start", session.StartTime),
	)

	return session.ID, nil
}

// SubmitSessionUpdate накладывает частичное обновление на сохранённое занятие,
// заново проверяет пересечения (исключая само занятие) и сохраняет результат.
// Проверка выполняется при изменении любого из полей ключа или времени
func (s *AdmissionService) SubmitSessionUpdate(ctx context.Context, id string, updates model.SessionUpdate) error {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	if existing == nil {
		return ErrSessionNotFound
	}

	effective := updates.ApplyTo(existing)
	effective.Student = schedule.NormalizeStudent(effective.Student)
	effective.Date = dateOnly(effective.Date)
	// Перенос даты сдвигает время занятия вместе с ней: интервал всегда
	// лежит на дате занятия
	effective.StartTime = onDate(effective.Date, effective.StartTime)
	effective.EndTime = onDate(effective.Date, effective.EndTime)

	if !s.catalog.IsAllowedSessionType(effective.Mode, effective.SessionType) {
		return &ValidationError{Reason: fmt.Sprintf("тип занятия %q недоступен в режиме %q", effective.SessionType, effective.Mode)}
	}

	interval, err := schedule.NewInterval(effective.StartTime, effective.EndTime)
	if err != nil {
		return &ValidationError{Reason: "окончание занятия должно быть позже начала"}
	}

	if updates.TouchesSlot() {
		all, err := s.store.GetAll(ctx)
		if err != nil {
			return fmt.Errorf("load sessions: %w", err)
		}

		conflict := schedule.FindConflict(schedule.Candidate{
			Key:       schedule.KeyOf(&effective),
			Interval:  interval,
			ExcludeID: id,
		}, all)
		if conflict != nil {
			return &SlotConflictError{Conflicting: conflict}
		}
	}

	if err := s.store.Update(ctx, &effective); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotOccupied):
			return &SlotConflictError{}
		case errors.Is(err, repository.ErrNotFound):
			return ErrSessionNotFound
		}
		return fmt.Errorf("update session: %w", err)
	}

	s.logger.Info("Session updated",
		zap.String("session_id", id),
		zap.String("mode", string(effective.Mode)),
		zap.String("session_type", effective.SessionType),
		zap.Time("start", effective.StartTime),
	)

	return nil
}

// SessionsByOwner получает все занятия участника, свежие первыми
func (s *AdmissionService) SessionsByOwner(ctx context.Context, ownerID int64) ([]*model.Session, error) {
	sessions, err := s.store.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get sessions by owner: %w", err)
	}
	return sessions, nil
}

// GetSession получает занятие по идентификатору
func (s *AdmissionService) GetSession(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// RemoveSession удаляет занятие. Отсутствующий идентификатор это ошибка
func (s *AdmissionService) RemoveSession(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("delete session: %w", err)
	}

	s.logger.Info("Session removed", zap.String("session_id", id))
	return nil
}

// validateCandidate структурная валидация заявки до обращения к хранилищу
func (s *AdmissionService) validateCandidate(cand *SessionCandidate) error {
	if cand.Mode == "" {
		return &ValidationError{Reason: "не указан режим занятия"}
	}
	if cand.SessionType == "" {
		return &ValidationError{Reason: "не указан тип занятия"}
	}
	if !s.catalog.IsAllowedSessionType(cand.Mode, cand.SessionType) {
		return &ValidationError{Reason: fmt.Sprintf("тип занятия %q недоступен в режиме %q", cand.SessionType, cand.Mode)}
	}
	if s.catalog.IsPerStudent(cand.SessionType) && schedule.NormalizeStudent(cand.Student) == model.StudentNotApplicable {
		return &ValidationError{Reason: "для персонального занятия нужно выбрать ученика"}
	}
	if cand.Date.IsZero() {
		return &ValidationError{Reason: "не указана дата занятия"}
	}
	if cand.StartTime.IsZero() || cand.EndTime.IsZero() {
		return &ValidationError{Reason: "не указано время занятия"}
	}

	// Занятие регистрируется задним числом в пределах скользящего окна
	today := dateOnly(s.now())
	earliest := today.AddDate(0, 0, -s.catalog.BookingWindowDays)
	date := dateOnly(cand.Date)
	if date.Before(earliest) || date.After(today) {
		return &ValidationError{Reason: fmt.Sprintf("дата должна быть не раньше %s и не позже %s",
			earliest.Format("02.01.2006"), today.Format("02.01.2006"))}
	}

	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// onDate переносит время на указанный календарный день, сохраняя часы и минуты
func onDate(date, t time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), date.Location())
}
