package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/studio_bot/internal/controller/state"
	"github.com/Freeeeeet/studio_bot/internal/service"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	user, err := h.currentUser(ctx, update)
	if err != nil {
		h.logger.Error("Failed to register user", zap.Error(err))
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Это бот студии йоги: регистрация занятий и учёт посещений.\n\n"+
			"Доступные команды:\n"+
			"/book - Зарегистрировать занятие\n"+
			"/mysessions - Мои последние занятия\n"+
			"/reschedule - Перенести занятие\n"+
			"/delsession - Удалить занятие\n"+
			"/help - Справка",
		user.FirstName,
	)

	h.reply(ctx, b, update.Message.Chat.ID, welcomeText)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 Справка по командам:\n\n" +
		"Для участников:\n" +
		"/book - Зарегистрировать занятие\n" +
		"/mysessions - Мои последние занятия\n" +
		"/reschedule <id> - Перенести занятие\n" +
		"/delsession <id> - Удалить занятие\n" +
		"/cancel - Прервать текущий диалог\n\n" +
		"Для администратора:\n" +
		"/stats - Статистика студии\n" +
		"/students - Список учеников\n" +
		"/addstudent - Добавить ученика\n" +
		"/delstudent <id> - Удалить ученика"

	h.reply(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.")
		return
	}

	h.stateManager.ClearState(telegramID)
	h.reply(ctx, b, update.Message.Chat.ID, "✅ Операция отменена.\n\nИспользуйте /help для просмотра команд.")
}

// HandleMySessions показывает последние занятия участника
func (h *Handlers) HandleMySessions(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	user, err := h.currentUser(ctx, update)
	if err != nil {
		h.logger.Error("Failed to get user", zap.Error(err))
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}

	stats, err := h.statsService.MemberStats(ctx, user.ID)
	if err != nil {
		h.logger.Error("Failed to get member stats", zap.Error(err))
		h.reply(ctx, b, update.Message.Chat.ID, service.ErrorMessage(err))
		return
	}

	if len(stats.RecentSessions) == 0 {
		h.reply(ctx, b, update.Message.Chat.ID, "У вас пока нет занятий. Используйте /book для регистрации.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🧘 Ваши последние занятия:\n\n")
	for i, s := range stats.RecentSessions {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, formatSession(s))
	}
	fmt.Fprintf(&sb, "\nВсего занятий в этом месяце: %d", stats.TotalThisMonth)

	h.reply(ctx, b, update.Message.Chat.ID, sb.String())
}

// HandleDeleteSession обрабатывает команду /delsession <id>
func (h *Handlers) HandleDeleteSession(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	user, err := h.currentUser(ctx, update)
	if err != nil {
		h.logger.Error("Failed to get user", zap.Error(err))
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}

	sessionID := commandArgument(update.Message.Text)
	if sessionID == "" {
		h.replyOwnerSessions(ctx, b, update.Message.Chat.ID, user.ID,
			"Укажите занятие: /delsession <id>")
		return
	}

	session, err := h.admissionService.GetSession(ctx, sessionID)
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, service.ErrorMessage(err))
		return
	}

	// Участник удаляет свои занятия, администратор - любые
	if session.OwnerID != user.ID && !user.IsAdmin {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Это занятие принадлежит другому участнику.")
		return
	}

	if err := h.admissionService.RemoveSession(ctx, sessionID); err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, service.ErrorMessage(err))
		return
	}

	h.reply(ctx, b, update.Message.Chat.ID, "✅ Занятие удалено.")
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния диалога
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Команды обрабатываются своими handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	switch currentState {
	case state.StateBookMode:
		h.handleBookMode(ctx, b, update)
	case state.StateBookType:
		h.handleBookType(ctx, b, update)
	case state.StateBookStudent:
		h.handleBookStudent(ctx, b, update)
	case state.StateBookDate:
		h.handleBookDate(ctx, b, update)
	case state.StateBookTimeSlot:
		h.handleBookTimeSlot(ctx, b, update)
	case state.StateRescheduleDate:
		h.handleRescheduleDate(ctx, b, update)
	case state.StateRescheduleSlot:
		h.handleRescheduleSlot(ctx, b, update)
	case state.StateAddStudentMode:
		h.handleAddStudentMode(ctx, b, update)
	case state.StateAddStudentName:
		h.handleAddStudentName(ctx, b, update)
	case state.StateAddStudentType:
		h.handleAddStudentType(ctx, b, update)
	}
}

// requireAdmin получает участника и проверяет права администратора
func (h *Handlers) requireAdmin(ctx context.Context, b *bot.Bot, update *models.Update) (int64, bool) {
	user, err := h.currentUser(ctx, update)
	if err != nil {
		h.logger.Error("Failed to get user", zap.Error(err))
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return 0, false
	}

	if !user.IsAdmin {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Эта команда доступна только администратору студии.")
		return 0, false
	}

	return user.ID, true
}

// replyOwnerSessions показывает занятия участника с идентификаторами, чтобы
// было из чего выбрать id для команды
func (h *Handlers) replyOwnerSessions(ctx context.Context, b *bot.Bot, chatID, ownerID int64, header string) {
	sessions, err := h.admissionService.SessionsByOwner(ctx, ownerID)
	if err != nil {
		h.logger.Error("Failed to list owner sessions", zap.Error(err))
		h.reply(ctx, b, chatID, header)
		return
	}

	if len(sessions) == 0 {
		h.reply(ctx, b, chatID, header+"\n\nУ вас пока нет занятий. Используйте /book для регистрации.")
		return
	}

	var sb strings.Builder
	sb.WriteString(header + "\n\nВаши занятия:\n")
	for i, s := range sessions {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, formatSession(s))
	}
	h.reply(ctx, b, chatID, sb.String())
}

var errUnknownSelection = errors.New("unknown selection")
