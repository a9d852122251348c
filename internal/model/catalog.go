package model

// Catalog справочник допустимых типов занятий и фиксированных слотов студии.
// Передаётся сервисам при создании, чтобы не зашивать списки в бизнес-логику
type Catalog struct {
	// SessionTypes допустимые типы занятий для каждого режима
	SessionTypes map[Mode][]string
	// PerStudent типы занятий, к которым привязывается конкретный ученик
	PerStudent map[string]bool
	// TimeSlots фиксированные часовые слоты, предлагаемые при записи
	TimeSlots []TimeSlot
	// BookingWindowDays сколько дней назад (включая сегодня) можно регистрировать занятие
	BookingWindowDays int
}

// TimeSlot часовой слот в расписании студии
type TimeSlot struct {
	Label     string
	StartHour int
	EndHour   int
}

// DefaultCatalog возвращает справочник студии по умолчанию
func DefaultCatalog() *Catalog {
	return &Catalog{
		SessionTypes: map[Mode][]string{
			ModeOnline: {
				"onlinepersonal",
				"onlineprenatal",
				"onlinegeneral",
			},
			ModeOffline: {
				"offlinepersonal",
				"offlineprenatal",
				"offlinegeneral",
				"offlinekids",
			},
		},
		PerStudent: map[string]bool{
			"onlinepersonal":  true,
			"onlineprenatal":  true,
			"offlinepersonal": true,
			"offlineprenatal": true,
		},
		TimeSlots: []TimeSlot{
			{Label: "6:00 - 7:00", StartHour: 6, EndHour: 7},
			{Label: "7:00 - 8:00", StartHour: 7, EndHour: 8},
			{Label: "8:00 - 9:00", StartHour: 8, EndHour: 9},
			{Label: "17:00 - 18:00", StartHour: 17, EndHour: 18},
			{Label: "18:00 - 19:00", StartHour: 18, EndHour: 19},
			{Label: "19:00 - 20:00", StartHour: 19, EndHour: 20},
		},
		BookingWindowDays: 5,
	}
}

// IsAllowedSessionType проверяет, что тип занятия допустим для режима
func (c *Catalog) IsAllowedSessionType(mode Mode, sessionType string) bool {
	for _, t := range c.SessionTypes[mode] {
		if t == sessionType {
			return true
		}
	}
	return false
}

// IsPerStudent сообщает, привязывается ли к типу занятия конкретный ученик
func (c *Catalog) IsPerStudent(sessionType string) bool {
	return c.PerStudent[sessionType]
}
