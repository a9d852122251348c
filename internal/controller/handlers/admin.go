package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/studio_bot/internal/controller/state"
	appmodel "github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/Freeeeeet/studio_bot/internal/service"
)

// HandleStats показывает статистику студии (администратор)
func (h *Handlers) HandleStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	if _, ok := h.requireAdmin(ctx, b, update); !ok {
		return
	}

	stats, err := h.statsService.StudioStats(ctx)
	if err != nil {
		h.logger.Error("Failed to get studio stats", zap.Error(err))
		h.reply(ctx, b, update.Message.Chat.ID, service.ErrorMessage(err))
		return
	}

	var sb strings.Builder
	sb.WriteString("📊 Статистика студии\n\n")
	fmt.Fprintf(&sb, "Занятий в этом месяце: %d\n\n", stats.TotalThisMonth)

	if len(stats.RecentSessions) > 0 {
		sb.WriteString("Последние занятия:\n")
		for i, s := range stats.RecentSessions {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, formatSession(s))
		}
	}

	h.reply(ctx, b, update.Message.Chat.ID, sb.String())
}

// HandleStudents показывает список учеников (администратор)
func (h *Handlers) HandleStudents(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	if _, ok := h.requireAdmin(ctx, b, update); !ok {
		return
	}

	entries, err := h.rosterService.ListStudents(ctx, appmodel.RosterFilter{})
	if err != nil {
		h.logger.Error("Failed to list students", zap.Error(err))
		h.reply(ctx, b, update.Message.Chat.ID, service.ErrorMessage(err))
		return
	}

	if len(entries) == 0 {
		h.reply(ctx, b, update.Message.Chat.ID, "Список учеников пуст. Добавьте ученика: /addstudent")
		return
	}

	var sb strings.Builder
	sb.WriteString("👥 Ученики студии:\n\n")
	for i, entry := range entries {
		fmt.Fprintf(&sb, "%d. %s • %s • %s\n   ID: %s\n",
			i+1, entry.StudentName, entry.Mode, entry.SessionType, entry.StudentID)
	}

	h.reply(ctx, b, update.Message.Chat.ID, sb.String())
}

// HandleAddStudentStart начинает диалог добавления ученика (администратор)
func (h *Handlers) HandleAddStudentStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	if _, ok := h.requireAdmin(ctx, b, update); !ok {
		return
	}

	telegramID := update.Message.From.ID
	h.stateManager.ClearState(telegramID)
	h.stateManager.SetState(telegramID, state.StateAddStudentMode)

	h.reply(ctx, b, update.Message.Chat.ID,
		"👥 Добавление ученика.\n\nВыберите режим:\n1. online\n2. offline\n\n/cancel для отмены.")
}

// handleAddStudentMode шаг выбора режима
func (h *Handlers) handleAddStudentMode(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	mode, err := parseMode(update.Message.Text)
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Не понял режим. Отправьте 1 (online) или 2 (offline).")
		return
	}

	h.stateManager.SetData(telegramID, dataKeyMode, mode)
	h.stateManager.SetState(telegramID, state.StateAddStudentName)

	h.reply(ctx, b, update.Message.Chat.ID, "Введите имя ученика.")
}

// handleAddStudentName шаг ввода имени
func (h *Handlers) handleAddStudentName(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	name := strings.TrimSpace(update.Message.Text)
	if name == "" {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Введите имя ученика.")
		return
	}

	modeValue, ok := h.stateManager.GetData(telegramID, dataKeyMode)
	if !ok {
		h.stateManager.ClearState(telegramID)
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Диалог прерван. Начните заново: /addstudent")
		return
	}
	mode := modeValue.(appmodel.Mode)

	h.stateManager.SetData(telegramID, dataKeyStudent, name)
	h.stateManager.SetState(telegramID, state.StateAddStudentType)

	// Ученики привязываются только к персональным типам занятий
	types := h.personalTypes(mode)
	h.reply(ctx, b, update.Message.Chat.ID,
		"Выберите тип занятия:\n"+formatSessionTypes(types)+"\nОтправьте номер.")
}

// handleAddStudentType последний шаг: тип занятия и сохранение
func (h *Handlers) handleAddStudentType(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	modeValue, okMode := h.stateManager.GetData(telegramID, dataKeyMode)
	nameValue, okName := h.stateManager.GetData(telegramID, dataKeyStudent)
	if !okMode || !okName {
		h.stateManager.ClearState(telegramID)
		h.reply(ctx, b, chatID, "❌ Диалог прерван. Начните заново: /addstudent")
		return
	}
	mode := modeValue.(appmodel.Mode)

	types := h.personalTypes(mode)
	sessionType, err := pickByNumber(update.Message.Text, types)
	if err != nil {
		h.reply(ctx, b, chatID, "❌ Отправьте номер типа занятия из списка:\n"+formatSessionTypes(types))
		return
	}

	id, err := h.rosterService.AddStudent(ctx, service.RosterCandidate{
		Mode:        mode,
		StudentName: nameValue.(string),
		SessionType: sessionType,
	})
	if err != nil {
		h.stateManager.ClearState(telegramID)
		h.reply(ctx, b, chatID, service.ErrorMessage(err))
		return
	}

	h.stateManager.ClearState(telegramID)
	h.reply(ctx, b, chatID, fmt.Sprintf("✅ Ученик добавлен.\nID: %s", id))
}

// HandleDeleteStudent обрабатывает команду /delstudent <id> (администратор)
func (h *Handlers) HandleDeleteStudent(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	if _, ok := h.requireAdmin(ctx, b, update); !ok {
		return
	}

	studentID := commandArgument(update.Message.Text)
	if studentID == "" {
		h.reply(ctx, b, update.Message.Chat.ID, "Укажите ученика: /delstudent <id>\nСписок: /students")
		return
	}

	if err := h.rosterService.RemoveStudent(ctx, studentID); err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, service.ErrorMessage(err))
		return
	}

	h.reply(ctx, b, update.Message.Chat.ID, "✅ Ученик удалён из списка.")
}

// personalTypes типы занятий режима, к которым привязывается ученик
func (h *Handlers) personalTypes(mode appmodel.Mode) []string {
	var types []string
	for _, t := range h.catalog.SessionTypes[mode] {
		if h.catalog.IsPerStudent(t) {
			types = append(types, t)
		}
	}
	return types
}
