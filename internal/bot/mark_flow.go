package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/samber/lo"

	"sambo-academy/internal/models"
)

const dateLayout = "02.01.2006"

func (b *Bot) showDateSelection(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "📅 Выберите дату занятия:\n\nМожно ввести дату в формате ДД.ММ.ГГГГ (например: 07.10.2025)")
	msg.ReplyMarkup = createDateKeyboard()
	b.send(msg)
}

func (b *Bot) handleDateSelection(ctx context.Context, chatID int64, session *UserSession, messageText string) {
	today := models.DateOf(b.now())

	var selectedDate time.Time
	switch messageText {
	case btnToday:
		selectedDate = today
	case btnYesterday:
		selectedDate = today.AddDate(0, 0, -1)
	default:
		parsed, err := time.Parse(dateLayout, strings.TrimSpace(messageText))
		if err != nil {
			b.sendError(chatID, "❌ Неверный формат даты. Используйте ДД.ММ.ГГГГ")
			return
		}
		selectedDate = parsed
	}
	session.SelectedDate = selectedDate

	roster, err := b.deps.Attendance.Roster(ctx, session.SelectedGroup.ID, selectedDate)
	if err != nil {
		b.replyError(chatID, err)
		b.resetSession(chatID, session)
		return
	}

	if session.Action == actionRoster {
		b.sendMessage(chatID, renderRoster(session.SelectedGroup, selectedDate, roster))
		b.resetSession(chatID, session)
		return
	}

	if len(roster) == 0 {
		b.sendMessage(chatID, "📭 В группе нет учеников")
		b.resetSession(chatID, session)
		return
	}
	session.Roster = roster
	session.Cursor = 0
	session.Items = nil
	session.State = StateMarkingStudent
	b.askStatus(chatID, session)
}

func (b *Bot) askStatus(chatID int64, session *UserSession) {
	entry := session.Roster[session.Cursor]
	text := fmt.Sprintf("(%d/%d) 👤 %s", session.Cursor+1, len(session.Roster), entry.FullName)
	if entry.IsBonusGroup {
		text += " (доп. группа)"
	}
	text += "\nСейчас: " + statusTitle(entry.Status)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createStatusKeyboard()
	b.send(msg)
}

func (b *Bot) handleStatusSelection(chatID int64, session *UserSession, messageText string) {
	entry := session.Roster[session.Cursor]
	studentID := entry.StudentID.String()

	switch messageText {
	case btnPresent:
		session.Items = append(session.Items, models.MarkItem{StudentID: studentID, Status: lo.ToPtr(string(models.StatusPresent))})
	case btnAbsent:
		session.Items = append(session.Items, models.MarkItem{StudentID: studentID, Status: lo.ToPtr(string(models.StatusAbsent))})
	case btnTransferred:
		session.Items = append(session.Items, models.MarkItem{StudentID: studentID, Status: lo.ToPtr(string(models.StatusTransferred))})
	case btnClear:
		if entry.Status != nil {
			session.Items = append(session.Items, models.MarkItem{StudentID: studentID})
		}
	case btnSkip:
	default:
		b.sendError(chatID, "❌ Выберите отметку кнопкой")
		return
	}

	session.Cursor++
	if session.Cursor < len(session.Roster) {
		b.askStatus(chatID, session)
		return
	}

	if len(session.Items) == 0 {
		b.sendMessage(chatID, "Изменений нет")
		b.resetSession(chatID, session)
		return
	}
	session.State = StateConfirmingMark
	b.showMarkConfirmation(chatID, session)
}

func (b *Bot) showMarkConfirmation(chatID int64, session *UserSession) {
	names := lo.SliceToMap(session.Roster, func(e models.RosterEntry) (string, string) {
		return e.StudentID.String(), e.FullName
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "📝 %s, %s\n\n", session.SelectedGroup.Name, session.SelectedDate.Format(dateLayout))
	for _, item := range session.Items {
		var status *models.AttendanceStatus
		if item.Status != nil {
			status = lo.ToPtr(models.AttendanceStatus(*item.Status))
		}
		fmt.Fprintf(&sb, "%s: %s\n", names[item.StudentID], statusTitle(status))
	}
	sb.WriteString("\nСохранить?")

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ReplyMarkup = createConfirmKeyboard()
	b.send(msg)
}

func (b *Bot) handleMarkConfirmation(ctx context.Context, chatID int64, session *UserSession, trainer *models.Trainer, messageText string) {
	if messageText != btnSave {
		b.sendError(chatID, "Нажмите «"+btnSave+"» или «"+btnCancel+"»")
		return
	}

	records, err := b.deps.Attendance.Mark(ctx, models.MarkRequest{
		GroupID:     session.SelectedGroup.ID,
		SessionDate: session.SelectedDate,
		MarkedBy:    trainer.ID,
		Items:       session.Items,
	})
	if err != nil {
		b.replyError(chatID, err)
		b.resetSession(chatID, session)
		return
	}

	b.sendMessage(chatID, fmt.Sprintf("✅ Посещаемость сохранена, отметок: %d", len(records)))
	b.resetSession(chatID, session)
}
