package schedule

import (
	"errors"
	"time"
)

// ErrInvalidInterval конец интервала должен быть строго позже начала
var ErrInvalidInterval = errors.New("interval end must be after start")

// Interval полуоткрытый интервал времени [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval создаёт интервал, отклоняя end <= start
func NewInterval(start, end time.Time) (Interval, error) {
	if !end.After(start) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps проверяет пересечение полуоткрытых интервалов.
// Занятие, начинающееся ровно в момент окончания другого, пересечением не считается
func (a Interval) Overlaps(b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}
