package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalog_IsAllowedSessionType(t *testing.T) {
	catalog := DefaultCatalog()

	assert.True(t, catalog.IsAllowedSessionType(ModeOnline, "onlinepersonal"))
	assert.True(t, catalog.IsAllowedSessionType(ModeOffline, "offlinekids"))

	// Тип из другого режима не проходит
	assert.False(t, catalog.IsAllowedSessionType(ModeOnline, "offlinepersonal"))
	assert.False(t, catalog.IsAllowedSessionType(ModeOffline, "yoga"))
}

func TestCatalog_IsPerStudent(t *testing.T) {
	catalog := DefaultCatalog()

	assert.True(t, catalog.IsPerStudent("offlinepersonal"))
	assert.True(t, catalog.IsPerStudent("onlineprenatal"))
	assert.False(t, catalog.IsPerStudent("offlinegeneral"))
	assert.False(t, catalog.IsPerStudent("offlinekids"))
}
