package model

import "time"

// RosterEntry запись об ученике в списке студии. Используется как вариант
// выбора при записи на персональные занятия
type RosterEntry struct {
	StudentID   string    `json:"student_id"`
	Mode        Mode      `json:"mode"`
	StudentName string    `json:"student_name"`
	SessionType string    `json:"session_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// RosterFilter необязательный фильтр списка учеников
type RosterFilter struct {
	Mode        *Mode
	SessionType *string
}
