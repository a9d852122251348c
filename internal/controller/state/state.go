package state

// UserState текущее состояние участника в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного диалога

	// Состояния регистрации занятия
	StateBookMode     UserState = "book_mode"
	StateBookType     UserState = "book_type"
	StateBookStudent  UserState = "book_student"
	StateBookDate     UserState = "book_date"
	StateBookTimeSlot UserState = "book_time_slot"

	// Состояния переноса занятия
	StateRescheduleDate UserState = "reschedule_date"
	StateRescheduleSlot UserState = "reschedule_slot"

	// Состояния добавления ученика (администратор)
	StateAddStudentMode UserState = "add_student_mode"
	StateAddStudentName UserState = "add_student_name"
	StateAddStudentType UserState = "add_student_type"
)

// UserData хранит состояние и временные данные диалога
type UserData struct {
	State UserState
	Data  map[string]interface{}
}
