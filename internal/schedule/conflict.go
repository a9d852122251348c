package schedule

import (
	"strings"

	"github.com/Freeeeeet/studio_bot/internal/model"
)

// Key категориальный ключ слота: два занятия считаются одним и тем же
// преподавательским слотом, если совпадают режим, тип занятия и ученик
type Key struct {
	Mode        model.Mode
	SessionType string
	Student     string
}

// NormalizeStudent приводит пустое имя ученика к значению "N/A"
func NormalizeStudent(student string) string {
	if strings.TrimSpace(student) == "" {
		return model.StudentNotApplicable
	}
	return student
}

// KeyOf собирает нормализованный ключ занятия
func KeyOf(s *model.Session) Key {
	return Key{
		Mode:        s.Mode,
		SessionType: s.SessionType,
		Student:     NormalizeStudent(s.Student),
	}
}

// Candidate кандидат на проверку пересечений. ExcludeID исключает из
// сканирования само обновляемое занятие, при создании остаётся пустым
type Candidate struct {
	Key       Key
	Interval  Interval
	ExcludeID string
}

// FindConflict ищет среди существующих занятий первое с тем же ключом и
// пересекающимся интервалом. Возвращает nil, если конфликта нет.
// Линейный скан: объёмы студии маленькие, индекс не нужен
func FindConflict(cand Candidate, existing []*model.Session) *model.Session {
	key := Key{
		Mode:        cand.Key.Mode,
		SessionType: cand.Key.SessionType,
		Student:     NormalizeStudent(cand.Key.Student),
	}

	for _, s := range existing {
		if cand.ExcludeID != "" && s.ID == cand.ExcludeID {
			continue
		}
		if KeyOf(s) != key {
			continue
		}

		occupied := Interval{Start: s.StartTime, End: s.EndTime}
		if cand.Interval.Overlaps(occupied) {
			return s
		}
	}

	return nil
}
