package model

import "time"

type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// StudentNotApplicable — значение поля Student для групповых занятий,
// у которых нет конкретного ученика
const StudentNotApplicable = "N/A"

type Session struct {
	ID          string    `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Mode        Mode      `json:"mode"`
	SessionType string    `json:"session_type"`
	Student     string    `json:"student"` // "N/A" если занятие не персональное
	Date        time.Time `json:"date"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SessionUpdate частичное обновление занятия. nil-поля не меняются,
// итоговая запись собирается поверх сохранённой
type SessionUpdate struct {
	Mode        *Mode      `json:"mode,omitempty"`
	SessionType *string    `json:"session_type,omitempty"`
	Student     *string    `json:"student,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
}

// ApplyTo накладывает заполненные поля обновления на копию занятия
func (u *SessionUpdate) ApplyTo(s *Session) Session {
	result := *s

	if u.Mode != nil {
		result.Mode = *u.Mode
	}
	if u.SessionType != nil {
		result.SessionType = *u.SessionType
	}
	if u.Student != nil {
		result.Student = *u.Student
	}
	if u.Date != nil {
		result.Date = *u.Date
	}
	if u.StartTime != nil {
		result.StartTime = *u.StartTime
	}
	if u.EndTime != nil {
		result.EndTime = *u.EndTime
	}

	return result
}

// TouchesSlot сообщает, меняет ли обновление категорию или время занятия.
// Для таких обновлений заново выполняется проверка пересечений
func (u *SessionUpdate) TouchesSlot() bool {
	return u.Mode != nil || u.SessionType != nil || u.Student != nil ||
		u.Date != nil || u.StartTime != nil || u.EndTime != nil
}
