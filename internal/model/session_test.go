package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionUpdate_ApplyTo(t *testing.T) {
	stored := Session{
		ID:          "a",
		OwnerID:     1,
		Mode:        ModeOffline,
		SessionType: "offlinepersonal",
		Student:     "Raj",
		StartTime:   time.Date(2025, 3, 10, 10, 0, 0, 0, time.Local),
		EndTime:     time.Date(2025, 3, 10, 11, 0, 0, 0, time.Local),
	}

	newStart := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	update := SessionUpdate{StartTime: &newStart}

	effective := update.ApplyTo(&stored)

	// Заполненное поле перекрыто, остальные взяты из сохранённой записи
	assert.Equal(t, newStart, effective.StartTime)
	assert.Equal(t, "Raj", effective.Student)
	assert.Equal(t, "offlinepersonal", effective.SessionType)
	assert.Equal(t, stored.EndTime, effective.EndTime)

	// Исходная запись не изменилась
	assert.Equal(t, 10, stored.StartTime.Hour())
}

func TestSessionUpdate_TouchesSlot(t *testing.T) {
	assert.False(t, (&SessionUpdate{}).TouchesSlot())

	student := "Anya"
	assert.True(t, (&SessionUpdate{Student: &student}).TouchesSlot())

	mode := ModeOnline
	assert.True(t, (&SessionUpdate{Mode: &mode}).TouchesSlot())

	start := time.Now()
	assert.True(t, (&SessionUpdate{StartTime: &start}).TouchesSlot())
}
