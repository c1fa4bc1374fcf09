package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"sambo-academy/internal/models"
)

const monthLayout = "01.2006"

var monthNames = [...]string{
	"", "Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

func (b *Bot) showMonthSelection(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "📅 Выберите месяц:\n\nМожно ввести месяц в формате ММ.ГГГГ (например: 10.2025)")
	msg.ReplyMarkup = createMonthKeyboard()
	b.send(msg)
}

func (b *Bot) handleMonthSelection(ctx context.Context, chatID int64, session *UserSession, messageText string) {
	current := models.MonthStart(b.now())

	var month time.Time
	switch messageText {
	case btnThisMonth:
		month = current
	case btnLastMonth:
		month = current.AddDate(0, -1, 0)
	default:
		parsed, err := time.Parse(monthLayout, strings.TrimSpace(messageText))
		if err != nil {
			b.sendError(chatID, "❌ Неверный формат месяца. Используйте ММ.ГГГГ")
			return
		}
		month = parsed
	}

	calendar, err := b.deps.Schedule.Calendar(ctx, session.SelectedGroup.ID, month.Year(), month.Month())
	if err != nil {
		b.replyError(chatID, err)
		b.resetSession(chatID, session)
		return
	}
	b.sendMessage(chatID, renderCalendar(calendar))
	b.resetSession(chatID, session)
}

func statusMark(status *models.AttendanceStatus) string {
	if status == nil {
		return "·"
	}
	switch *status {
	case models.StatusPresent:
		return "✅"
	case models.StatusAbsent:
		return "❌"
	case models.StatusTransferred:
		return "🔁"
	}
	return "?"
}

func statusTitle(status *models.AttendanceStatus) string {
	if status == nil {
		return "нет отметки"
	}
	switch *status {
	case models.StatusPresent:
		return "✅ был"
	case models.StatusAbsent:
		return "❌ не был"
	case models.StatusTransferred:
		return "🔁 перенос"
	}
	return string(*status)
}

func scheduleTitle(schedule models.ScheduleType) string {
	switch schedule {
	case models.ScheduleMonWedFri:
		return "пн/ср/пт"
	case models.ScheduleTueThu:
		return "вт/чт"
	}
	return "пн-пт"
}

func ageTitle(age models.AgeCategory) string {
	if age == models.AgeJunior {
		return "младшие"
	}
	return "старшие"
}

// renderCalendar prints one line per student with a mark for every training date of the month.
func renderCalendar(calendar *models.Calendar) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 %s: %s %d\n", calendar.GroupName, monthNames[calendar.Month], calendar.Year)

	if len(calendar.TrainingDates) == 0 {
		sb.WriteString("\nВ этом месяце нет занятий")
		return sb.String()
	}

	days := make([]string, 0, len(calendar.TrainingDates))
	for _, date := range calendar.TrainingDates {
		days = append(days, fmt.Sprintf("%02d", date.Day()))
	}
	fmt.Fprintf(&sb, "Даты: %s\n\n", strings.Join(days, " "))

	if len(calendar.Students) == 0 {
		sb.WriteString("В группе нет учеников")
		return sb.String()
	}
	for _, row := range calendar.Students {
		marks := make([]string, 0, len(row.Attendance))
		present := 0
		for _, cell := range row.Attendance {
			marks = append(marks, statusMark(cell.Status))
			if cell.Status != nil && *cell.Status == models.StatusPresent {
				present++
			}
		}
		fmt.Fprintf(&sb, "👤 %s (%d/%d)\n%s\n", row.FullName, present, len(row.Attendance), strings.Join(marks, " "))
	}
	return sb.String()
}

func renderRoster(group *models.Group, date time.Time, roster []models.RosterEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 %s, %s\n\n", group.Name, date.Format(dateLayout))
	if len(roster) == 0 {
		sb.WriteString("В группе нет учеников")
		return sb.String()
	}
	for i, entry := range roster {
		fmt.Fprintf(&sb, "%d. %s: %s", i+1, entry.FullName, statusTitle(entry.Status))
		if entry.IsBonusGroup {
			sb.WriteString(" (доп. группа)")
		}
		if entry.Notes != nil && *entry.Notes != "" {
			fmt.Fprintf(&sb, "\n   📝 %s", *entry.Notes)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
