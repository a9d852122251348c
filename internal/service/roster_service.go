package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/Freeeeeet/studio_bot/internal/repository"
)

// RosterCandidate заявка на добавление ученика в список студии
type RosterCandidate struct {
	Mode        model.Mode
	StudentName string
	SessionType string
}

// RosterService управляет списком учеников, доступных для выбора при записи
// на персональные занятия
type RosterService struct {
	store   RosterStore
	catalog *model.Catalog
	logger  *zap.Logger
}

func NewRosterService(store RosterStore, catalog *model.Catalog, logger *zap.Logger) *RosterService {
	return &RosterService{
		store:   store,
		catalog: catalog,
		logger:  logger,
	}
}

// AddStudent добавляет ученика, отклоняя дубликат по имени (без учёта
// регистра), режиму и типу занятия
func (s *RosterService) AddStudent(ctx context.Context, cand RosterCandidate) (string, error) {
	name := strings.TrimSpace(cand.StudentName)
	if name == "" {
		return "", &ValidationError{Reason: "не указано имя ученика"}
	}
	if cand.Mode == "" {
		return "", &ValidationError{Reason: "не указан режим занятия"}
	}
	if !s.catalog.IsAllowedSessionType(cand.Mode, cand.SessionType) {
		return "", &ValidationError{Reason: fmt.Sprintf("тип занятия %q недоступен в режиме %q", cand.SessionType, cand.Mode)}
	}
	if !s.catalog.IsPerStudent(cand.SessionType) {
		return "", &ValidationError{Reason: fmt.Sprintf("к типу занятия %q ученики не привязываются", cand.SessionType)}
	}

	exists, err := s.store.ExistsDuplicate(ctx, name, cand.Mode, cand.SessionType)
	if err != nil {
		return "", fmt.Errorf("check duplicate: %w", err)
	}
	if exists {
		return "", fmt.Errorf("%w: %s (%s, %s)", ErrDuplicateStudent, name, cand.Mode, cand.SessionType)
	}

	entry := &model.RosterEntry{
		StudentID:   uuid.NewString(),
		Mode:        cand.Mode,
		StudentName: name,
		SessionType: cand.SessionType,
	}

	if err := s.store.Create(ctx, entry); err != nil {
		// Индекс БД закрывает гонку между проверкой дубликата и записью
		if errors.Is(err, repository.ErrDuplicate) {
			return "", fmt.Errorf("%w: %s (%s, %s)", ErrDuplicateStudent, name, cand.Mode, cand.SessionType)
		}
		return "", fmt.Errorf("create roster entry: %w", err)
	}

	s.logger.Info("Student added to roster",
		zap.String("student_id", entry.StudentID),
		zap.String("student_name", entry.StudentName),
		zap.String("mode", string(entry.Mode)),
		zap.String("session_type", entry.SessionType),
	)

	return entry.StudentID, nil
}

// ListStudents получает учеников с необязательным фильтром
func (s *RosterService) ListStudents(ctx context.Context, filter model.RosterFilter) ([]*model.RosterEntry, error) {
	entries, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return entries, nil
}

// RemoveStudent удаляет ученика из списка
func (s *RosterService) RemoveStudent(ctx context.Context, studentID string) error {
	if err := s.store.Delete(ctx, studentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("delete roster entry: %w", err)
	}

	s.logger.Info("Student removed from roster", zap.String("student_id", studentID))
	return nil
}
