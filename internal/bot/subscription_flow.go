package bot

import (
	"context"
	"fmt"
	"strings"

	"sambo-academy/internal/models"
)

func (b *Bot) showGroupSubscriptions(ctx context.Context, chatID int64, group *models.Group) {
	students, err := b.deps.Groups.GetStudents(ctx, group.ID)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	if len(students) == 0 {
		b.sendMessage(chatID, "📭 В группе нет учеников")
		return
	}

	now := b.now()
	var sb strings.Builder
	fmt.Fprintf(&sb, "🎫 Абонементы группы %s:\n\n", group.Name)
	for i, student := range students {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, student.FullName)

		sub, err := b.deps.Subscriptions.GetActive(ctx, student.ID)
		if err != nil {
			b.replyError(chatID, err)
			return
		}
		if sub == nil {
			sb.WriteString("   ❌ Нет активного абонемента\n")
			continue
		}

		status := "✅ Активен"
		if sub.IsExpired(now) {
			status = "⏰ Истек"
		}
		fmt.Fprintf(&sb, "   %d/%d занятий, %s\n", sub.RemainingSessions, sub.TotalSessions, status)
		fmt.Fprintf(&sb, "   📅 Действует до: %s\n", sub.ExpiryDate.Format(dateLayout))
	}
	b.sendMessage(chatID, sb.String())
}
