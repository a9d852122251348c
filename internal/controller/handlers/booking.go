package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/studio_bot/internal/controller/state"
	appmodel "github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/Freeeeeet/studio_bot/internal/service"
)

// HandleBookStart начинает диалог регистрации занятия
func (h *Handlers) HandleBookStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	if _, err := h.currentUser(ctx, update); err != nil {
		h.logger.Error("Failed to register user", zap.Error(err))
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}

	telegramID := update.Message.From.ID
	h.stateManager.ClearState(telegramID)
	h.stateManager.SetState(telegramID, state.StateBookMode)

	h.reply(ctx, b, update.Message.Chat.ID,
		"🧘 Регистрация занятия.\n\nВыберите режим:\n1. online\n2. offline\n\nОтправьте номер или название. /cancel для отмены.")
}

// handleBookMode шаг выбора режима
func (h *Handlers) handleBookMode(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	mode, err := parseMode(update.Message.Text)
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Не понял режим. Отправьте 1 (online) или 2 (offline).")
		return
	}

	h.stateManager.SetData(telegramID, dataKeyMode, mode)
	h.stateManager.SetState(telegramID, state.StateBookType)

	types := h.catalog.SessionTypes[mode]
	h.reply(ctx, b, update.Message.Chat.ID,
		"Выберите тип занятия:\n"+formatSessionTypes(types)+"\nОтправьте номер.")
}

// handleBookType шаг выбора типа занятия
func (h *Handlers) handleBookType(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	modeValue, ok := h.stateManager.GetData(telegramID, dataKeyMode)
	if !ok {
		h.restartBooking(ctx, b, update)
		return
	}
	mode := modeValue.(appmodel.Mode)

	types := h.catalog.SessionTypes[mode]
	sessionType, err := pickByNumber(update.Message.Text, types)
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID,
			"❌ Отправьте номер типа занятия из списка:\n"+formatSessionTypes(types))
		return
	}

	h.stateManager.SetData(telegramID, dataKeySessionType, sessionType)

	if h.catalog.IsPerStudent(sessionType) {
		h.stateManager.SetState(telegramID, state.StateBookStudent)
		h.promptStudent(ctx, b, update.Message.Chat.ID, mode, sessionType)
		return
	}

	// Групповое занятие, ученик не привязывается
	h.stateManager.SetData(telegramID, dataKeyStudent, appmodel.StudentNotApplicable)
	h.stateManager.SetState(telegramID, state.StateBookDate)
	h.promptDate(ctx, b, update.Message.Chat.ID)
}

// promptStudent предлагает выбрать ученика из списка студии
func (h *Handlers) promptStudent(ctx context.Context, b *bot.Bot, chatID int64, mode appmodel.Mode, sessionType string) {
	entries, err := h.rosterService.ListStudents(ctx, appmodel.RosterFilter{
		Mode:        &mode,
		SessionType: &sessionType,
	})
	if err != nil {
		h.logger.Error("Failed to list students", zap.Error(err))
		h.reply(ctx, b, chatID, "❌ Не удалось загрузить список учеников. Попробуйте позже.")
		return
	}

	if len(entries) == 0 {
		h.reply(ctx, b, chatID, "Для этого типа занятий учеников пока нет. Введите имя ученика текстом.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Выберите ученика:\n")
	for i, entry := range entries {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, entry.StudentName)
	}
	sb.WriteString("\nОтправьте номер или имя.")
	h.reply(ctx, b, chatID, sb.String())
}

// handleBookStudent шаг выбора ученика
func (h *Handlers) handleBookStudent(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	modeValue, okMode := h.stateManager.GetData(telegramID, dataKeyMode)
	typeValue, okType := h.stateManager.GetData(telegramID, dataKeySessionType)
	if !okMode || !okType {
		h.restartBooking(ctx, b, update)
		return
	}
	mode := modeValue.(appmodel.Mode)
	sessionType := typeValue.(string)

	student := strings.TrimSpace(update.Message.Text)

	// Номер из списка учеников либо имя текстом
	if index, err := strconv.Atoi(student); err == nil {
		entries, err := h.rosterService.ListStudents(ctx, appmodel.RosterFilter{
			Mode:        &mode,
			SessionType: &sessionType,
		})
		if err == nil && index >= 1 && index <= len(entries) {
			student = entries[index-1].StudentName
		}
	}

	if student == "" {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Введите имя ученика.")
		return
	}

	h.stateManager.SetData(telegramID, dataKeyStudent, student)
	h.stateManager.SetState(telegramID, state.StateBookDate)
	h.promptDate(ctx, b, update.Message.Chat.ID)
}

func (h *Handlers) promptDate(ctx context.Context, b *bot.Bot, chatID int64) {
	h.reply(ctx, b, chatID,
		fmt.Sprintf("Введите дату занятия в формате ДД.ММ.ГГГГ.\nЗанятие можно зарегистрировать за последние %d дней.", h.catalog.BookingWindowDays))
}

// handleBookDate шаг выбора даты
func (h *Handlers) handleBookDate(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	date, err := parseDialogDate(update.Message.Text)
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Не понял дату. Формат: ДД.ММ.ГГГГ, например 05.03.2025.")
		return
	}

	h.stateManager.SetData(telegramID, dataKeyDate, date)
	h.stateManager.SetState(telegramID, state.StateBookTimeSlot)

	h.reply(ctx, b, update.Message.Chat.ID,
		"Выберите время:\n"+formatTimeSlots(h.catalog.TimeSlots)+"\nОтправьте номер слота.")
}

// handleBookTimeSlot последний шаг: выбор слота и отправка заявки
func (h *Handlers) handleBookTimeSlot(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	slot, err := pickSlotByNumber(update.Message.Text, h.catalog.TimeSlots)
	if err != nil {
		h.reply(ctx, b, chatID, "❌ Отправьте номер слота из списка:\n"+formatTimeSlots(h.catalog.TimeSlots))
		return
	}

	user, err := h.currentUser(ctx, update)
	if err != nil {
		h.logger.Error("Failed to get user", zap.Error(err))
		h.reply(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}

	modeValue, okMode := h.stateManager.GetData(telegramID, dataKeyMode)
	typeValue, okType := h.stateManager.GetData(telegramID, dataKeySessionType)
	studentValue, okStudent := h.stateManager.GetData(telegramID, dataKeyStudent)
	dateValue, okDate := h.stateManager.GetData(telegramID, dataKeyDate)
	if !okMode || !okType || !okStudent || !okDate {
		h.restartBooking(ctx, b, update)
		return
	}

	date := dateValue.(time.Time)
	start, end := slotTimes(date, slot)

	id, err := h.admissionService.SubmitNewSession(ctx, service.SessionCandidate{
		OwnerID:     user.ID,
		Mode:        modeValue.(appmodel.Mode),
		SessionType: typeValue.(string),
		Student:     studentValue.(string),
		Date:        date,
		StartTime:   start,
		EndTime:     end,
	})
	if err != nil {
		// Диалог не сбрасываем: участник может выбрать другой слот
		h.reply(ctx, b, chatID, service.ErrorMessage(err)+"\n\nВыберите другой слот или /cancel.")
		return
	}

	h.stateManager.ClearState(telegramID)
	h.reply(ctx, b, chatID, fmt.Sprintf("✅ Занятие зарегистрировано!\n%s, %s\nID: %s",
		date.Format(dateLayout), slot.Label, id))
}

// HandleRescheduleStart начинает диалог переноса занятия: /reschedule <id>
func (h *Handlers) HandleRescheduleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
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
			"Укажите занятие: /reschedule <id>")
		return
	}

	session, err := h.admissionService.GetSession(ctx, sessionID)
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, service.ErrorMessage(err))
		return
	}

	if session.OwnerID != user.ID && !user.IsAdmin {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Это занятие принадлежит другому участнику.")
		return
	}

	telegramID := update.Message.From.ID
	h.stateManager.ClearState(telegramID)
	h.stateManager.SetData(telegramID, dataKeyRescheduleID, sessionID)
	h.stateManager.SetState(telegramID, state.StateRescheduleDate)

	h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"🔁 Перенос занятия:\n%s\n\nВведите новую дату в формате ДД.ММ.ГГГГ.",
		formatSession(session)))
}

// handleRescheduleDate шаг выбора новой даты
func (h *Handlers) handleRescheduleDate(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	date, err := parseDialogDate(update.Message.Text)
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Не понял дату. Формат: ДД.ММ.ГГГГ.")
		return
	}

	h.stateManager.SetData(telegramID, dataKeyDate, date)
	h.stateManager.SetState(telegramID, state.StateRescheduleSlot)

	h.reply(ctx, b, update.Message.Chat.ID,
		"Выберите новое время:\n"+formatTimeSlots(h.catalog.TimeSlots)+"\nОтправьте номер слота.")
}

// handleRescheduleSlot последний шаг переноса
func (h *Handlers) handleRescheduleSlot(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	slot, err := pickSlotByNumber(update.Message.Text, h.catalog.TimeSlots)
	if err != nil {
		h.reply(ctx, b, chatID, "❌ Отправьте номер слота из списка:\n"+formatTimeSlots(h.catalog.TimeSlots))
		return
	}

	idValue, okID := h.stateManager.GetData(telegramID, dataKeyRescheduleID)
	dateValue, okDate := h.stateManager.GetData(telegramID, dataKeyDate)
	if !okID || !okDate {
		h.stateManager.ClearState(telegramID)
		h.reply(ctx, b, chatID, "❌ Диалог прерван. Начните заново: /reschedule <id>")
		return
	}

	date := dateValue.(time.Time)
	start, end := slotTimes(date, slot)

	err = h.admissionService.SubmitSessionUpdate(ctx, idValue.(string), appmodel.SessionUpdate{
		Date:      &date,
		StartTime: &start,
		EndTime:   &end,
	})
	if err != nil {
		h.reply(ctx, b, chatID, service.ErrorMessage(err)+"\n\nВыберите другой слот или /cancel.")
		return
	}

	h.stateManager.ClearState(telegramID)
	h.reply(ctx, b, chatID, fmt.Sprintf("✅ Занятие перенесено на %s, %s.", date.Format(dateLayout), slot.Label))
}

// restartBooking сбрасывает потерявший данные диалог
func (h *Handlers) restartBooking(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.stateManager.ClearState(update.Message.From.ID)
	h.reply(ctx, b, update.Message.Chat.ID, "❌ Диалог прерван. Начните заново: /book")
}

// parseMode разбирает выбор режима: номер или название
func parseMode(text string) (appmodel.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "1", "online", "онлайн":
		return appmodel.ModeOnline, nil
	case "2", "offline", "офлайн":
		return appmodel.ModeOffline, nil
	}
	return "", errUnknownSelection
}

// pickByNumber выбирает элемент списка по номеру (с единицы)
func pickByNumber(text string, options []string) (string, error) {
	index, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || index < 1 || index > len(options) {
		return "", errUnknownSelection
	}
	return options[index-1], nil
}

// pickSlotByNumber выбирает слот по номеру (с единицы)
func pickSlotByNumber(text string, slots []appmodel.TimeSlot) (appmodel.TimeSlot, error) {
	index, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || index < 1 || index > len(slots) {
		return appmodel.TimeSlot{}, errUnknownSelection
	}
	return slots[index-1], nil
}
