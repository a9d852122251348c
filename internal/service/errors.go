package service

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/studio_bot/internal/model"
)

// Типизированные ошибки сервисов
var (
	ErrValidation       = errors.New("validation failed")
	ErrSlotTaken        = errors.New("slot already booked")
	ErrSessionNotFound  = errors.New("session not found")
	ErrStudentNotFound  = errors.New("student not found")
	ErrDuplicateStudent = errors.New("student already exists")
)

// ValidationError некорректные или неполные входные данные
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// SlotConflictError слот уже занят. Conflicting содержит занятие, с которым
// пересёкся кандидат, и может быть nil, если конфликт отклонил констрейнт БД
type SlotConflictError struct {
	Conflicting *model.Session
}

func (e *SlotConflictError) Error() string {
	if e.Conflicting == nil {
		return "slot already booked"
	}
	return fmt.Sprintf("slot already booked: %s %s %s-%s",
		e.Conflicting.Mode,
		e.Conflicting.SessionType,
		e.Conflicting.StartTime.Format("15:04"),
		e.Conflicting.EndTime.Format("15:04"),
	)
}

func (e *SlotConflictError) Unwrap() error {
	return ErrSlotTaken
}

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	var validationErr *ValidationError
	var conflictErr *SlotConflictError

	switch {
	case errors.As(err, &conflictErr):
		if conflictErr.Conflicting != nil {
			return fmt.Sprintf("❌ Слот уже занят: %s - %s",
				conflictErr.Conflicting.StartTime.Format("15:04"),
				conflictErr.Conflicting.EndTime.Format("15:04"),
			)
		}
		return "❌ Слот уже занят"
	case errors.Is(err, ErrSlotTaken):
		return "❌ Слот уже занят"
	case errors.As(err, &validationErr):
		return "❌ Некорректные данные: " + validationErr.Reason
	case errors.Is(err, ErrValidation):
		return "❌ Некорректные данные"
	case errors.Is(err, ErrSessionNotFound):
		return "❌ Занятие не найдено"
	case errors.Is(err, ErrStudentNotFound):
		return "❌ Ученик не найден"
	case errors.Is(err, ErrDuplicateStudent):
		return "❌ Такой ученик уже есть в списке"
	default:
		return "❌ Произошла ошибка. Попробуйте позже"
	}
}
