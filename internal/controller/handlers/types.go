package handlers

import (
	"go.uber.org/zap"

	"github.com/Freeeeeet/studio_bot/internal/controller/state"
	appmodel "github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/Freeeeeet/studio_bot/internal/service"
)

// Ключи временных данных диалогов
const (
	dataKeyMode         = "mode"
	dataKeySessionType  = "session_type"
	dataKeyStudent      = "student"
	dataKeyDate         = "date"
	dataKeyRescheduleID = "reschedule_id"
)

type Handlers struct {
	userService      *service.UserService
	admissionService *service.AdmissionService
	rosterService    *service.RosterService
	statsService     *service.StatsService
	catalog          *appmodel.Catalog
	stateManager     *state.Manager
	logger           *zap.Logger
}

func NewHandlers(
	userService *service.UserService,
	admissionService *service.AdmissionService,
	rosterService *service.RosterService,
	statsService *service.StatsService,
	catalog *appmodel.Catalog,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		userService:      userService,
		admissionService: admissionService,
		rosterService:    rosterService,
		statsService:     statsService,
		catalog:          catalog,
		stateManager:     stateManager,
		logger:           logger,
	}
}
