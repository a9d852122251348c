package controller

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/studio_bot/internal/controller/handlers"
	"github.com/Freeeeeet/studio_bot/internal/controller/state"
	appmodel "github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/Freeeeeet/studio_bot/internal/service"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	userService *service.UserService,
	admissionService *service.AdmissionService,
	rosterService *service.RosterService,
	statsService *service.StatsService,
	catalog *appmodel.Catalog,
	logger *zap.Logger,
) *BotController {
	// Менеджер состояний для пошаговых диалогов
	stateManager := state.NewManager()

	cmdHandlers := handlers.NewHandlers(
		userService,
		admissionService,
		rosterService,
		statsService,
		catalog,
		stateManager,
		logger,
	)

	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/book", bot.MatchTypeExact, c.handlers.HandleBookStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mysessions", bot.MatchTypeExact, c.handlers.HandleMySessions)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/reschedule", bot.MatchTypePrefix, c.handlers.HandleRescheduleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/delsession", bot.MatchTypePrefix, c.handlers.HandleDeleteSession)

	// Команды администратора
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/stats", bot.MatchTypeExact, c.handlers.HandleStats)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/students", bot.MatchTypeExact, c.handlers.HandleStudents)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addstudent", bot.MatchTypeExact, c.handlers.HandleAddStudentStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/delstudent", bot.MatchTypePrefix, c.handlers.HandleDeleteStudent)

	// Текстовые сообщения для диалогов с состояниями
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "book", Description: "🧘 Зарегистрировать занятие"},
		{Command: "mysessions", Description: "📅 Мои последние занятия"},
		{Command: "reschedule", Description: "🔁 Перенести занятие"},
		{Command: "delsession", Description: "🗑 Удалить занятие"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "stats", Description: "📊 Статистика студии (админ)"},
		{Command: "students", Description: "👥 Список учеников (админ)"},
		{Command: "addstudent", Description: "➕ Добавить ученика (админ)"},
		{Command: "delstudent", Description: "➖ Удалить ученика (админ)"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	return nil
}

// Start запускает обработку обновлений
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Bot controller started")
	c.bot.Start(ctx)
}
