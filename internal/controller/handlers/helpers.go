package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	appmodel "github.com/Freeeeeet/studio_bot/internal/model"
)

const dateLayout = "02.01.2006"

// reply отправляет текстовое сообщение в чат
func (h *Handlers) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// currentUser регистрирует или получает участника по данным Telegram
func (h *Handlers) currentUser(ctx context.Context, update *models.Update) (*appmodel.User, error) {
	from := update.Message.From
	return h.userService.RegisterUser(
		ctx,
		from.ID,
		from.Username,
		from.FirstName,
		from.LastName,
		from.LanguageCode,
	)
}

// formatSession строка занятия для списков
func formatSession(s *appmodel.Session) string {
	student := ""
	if s.Student != appmodel.StudentNotApplicable {
		student = " • " + s.Student
	}
	return fmt.Sprintf("%s, %s - %s • %s%s\n   ID: %s",
		s.Date.Format(dateLayout),
		s.StartTime.Format("15:04"),
		s.EndTime.Format("15:04"),
		s.SessionType,
		student,
		s.ID,
	)
}

// parseDialogDate разбирает дату в формате ДД.ММ.ГГГГ
func parseDialogDate(text string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, strings.TrimSpace(text), time.Local)
}

// slotTimes вычисляет границы занятия для выбранного слота и даты
func slotTimes(date time.Time, slot appmodel.TimeSlot) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), slot.StartHour, 0, 0, 0, time.Local)
	end := time.Date(date.Year(), date.Month(), date.Day(), slot.EndHour, 0, 0, 0, time.Local)
	return start, end
}

// formatTimeSlots нумерованный список слотов для выбора
func formatTimeSlots(slots []appmodel.TimeSlot) string {
	var sb strings.Builder
	for i, slot := range slots {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, slot.Label)
	}
	return sb.String()
}

// formatSessionTypes нумерованный список типов занятий режима
func formatSessionTypes(types []string) string {
	var sb strings.Builder
	for i, t := range types {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, t)
	}
	return sb.String()
}

// commandArgument извлекает аргумент команды вида "/delsession <id>"
func commandArgument(text string) string {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
