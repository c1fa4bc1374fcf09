package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"sambo-academy/internal/models"
)

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil || message.Chat == nil {
		return
	}
	chatID := message.Chat.ID
	b.logger.Debug("message", zap.Int64("chat_id", chatID), zap.String("text", message.Text))

	// one message per chat at a time
	session := b.getOrCreateSession(chatID)
	session.mu.Lock()
	defer session.mu.Unlock()

	if message.IsCommand() {
		switch message.Command() {
		case "start":
			b.handleStartCommand(ctx, chatID, message.From)
			return
		case "cancel":
			b.cancelOperation(chatID, session)
			return
		}
	}

	trainer, err := b.deps.Trainers.GetByTelegramID(ctx, int64(message.From.ID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			b.sendMessage(chatID, "Сначала зарегистрируйтесь командой /start")
			return
		}
		b.replyError(chatID, err)
		return
	}

	if message.Text == btnCancel {
		b.cancelOperation(chatID, session)
		return
	}

	if session.State != StateDefault {
		switch session.State {
		case StateSelectingGroup:
			b.handleGroupSelection(ctx, chatID, session, trainer, message.Text)
		case StateSelectingDate:
			b.handleDateSelection(ctx, chatID, session, message.Text)
		case StateSelectingMonth:
			b.handleMonthSelection(ctx, chatID, session, message.Text)
		case StateMarkingStudent:
			b.handleStatusSelection(chatID, session, message.Text)
		case StateConfirmingMark:
			b.handleMarkConfirmation(ctx, chatID, session, trainer, message.Text)
		}
		return
	}

	text := message.Text
	if message.IsCommand() {
		text = "/" + message.Command()
	}

	switch text {
	case btnGroups, "/groups":
		b.showGroups(ctx, chatID, trainer)
	case btnRoster, "/roster":
		b.startGroupSelection(ctx, chatID, session, trainer, actionRoster)
	case btnMark, "/mark":
		b.startGroupSelection(ctx, chatID, session, trainer, actionMark)
	case btnCalendar, "/calendar":
		b.startGroupSelection(ctx, chatID, session, trainer, actionCalendar)
	case btnSubscriptions, "/subscriptions":
		b.startGroupSelection(ctx, chatID, session, trainer, actionSubscriptions)
	default:
		b.sendWelcomeMessage(chatID, trainer)
	}
}

func (b *Bot) isAdmin(telegramID int64) bool {
	return lo.Contains(b.adminIDs, telegramID)
}

func displayName(user *tgbotapi.User) string {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" && user.UserName != "" {
		name = "@" + user.UserName
	}
	return name
}

func (b *Bot) handleStartCommand(ctx context.Context, chatID int64, from *tgbotapi.User) {
	telegramID := int64(from.ID)
	trainer, err := b.deps.Trainers.RegisterOrUpdate(ctx, telegramID, displayName(from), b.isAdmin(telegramID))
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	b.logger.Info("trainer registered",
		zap.String("trainer_id", trainer.ID.String()),
		zap.Int64("telegram_id", telegramID),
		zap.Bool("admin", trainer.IsAdmin),
	)
	b.sendWelcomeMessage(chatID, trainer)
}

func (b *Bot) sendWelcomeMessage(chatID int64, trainer *models.Trainer) {
	text := fmt.Sprintf("🥋 Добро пожаловать, %s!\n\nВыберите нужный раздел:", trainer.FullName)
	if trainer.IsAdmin {
		text += "\n\n👑 У вас права администратора."
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createMainKeyboard()
	b.send(msg)
}

func (b *Bot) showGroups(ctx context.Context, chatID int64, trainer *models.Trainer) {
	groups, err := b.deps.Groups.GetTrainerGroups(ctx, trainer.ID)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	if len(groups) == 0 {
		b.sendMessage(chatID, "📭 У вас пока нет групп")
		return
	}

	var sb strings.Builder
	sb.WriteString("👥 Ваши группы:\n\n")
	for i, group := range groups {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, group.Name)
		fmt.Fprintf(&sb, "   🗓 %s, %s\n", scheduleTitle(group.Schedule), ageTitle(group.AgeCategory))
		if group.DefaultTier != nil {
			fmt.Fprintf(&sb, "   🎫 абонемент по умолчанию: %d занятий\n", group.DefaultTier.Sessions())
		}
	}
	b.sendMessage(chatID, sb.String())
}

func (b *Bot) startGroupSelection(ctx context.Context, chatID int64, session *UserSession, trainer *models.Trainer, action sessionAction) {
	groups, err := b.deps.Groups.GetTrainerGroups(ctx, trainer.ID)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	if len(groups) == 0 {
		b.sendMessage(chatID, "📭 У вас пока нет групп")
		return
	}

	session.reset()
	session.State = StateSelectingGroup
	session.Action = action
	session.Groups = groups

	msg := tgbotapi.NewMessage(chatID, "👥 Выберите группу:")
	msg.ReplyMarkup = createGroupsKeyboard(groups)
	b.send(msg)
}

func (b *Bot) handleGroupSelection(ctx context.Context, chatID int64, session *UserSession, trainer *models.Trainer, messageText string) {
	group, ok := lo.Find(session.Groups, func(g *models.Group) bool { return g.Name == messageText })
	if !ok {
		b.sendError(chatID, "❌ Группа не найдена, выберите её кнопкой")
		return
	}
	if _, err := b.deps.Access.CanAccessGroup(ctx, trainer.ID, group.ID); err != nil {
		b.replyError(chatID, err)
		b.resetSession(chatID, session)
		return
	}
	session.SelectedGroup = group

	switch session.Action {
	case actionRoster, actionMark:
		session.State = StateSelectingDate
		b.showDateSelection(chatID)
	case actionCalendar:
		session.State = StateSelectingMonth
		b.showMonthSelection(chatID)
	case actionSubscriptions:
		b.showGroupSubscriptions(ctx, chatID, group)
		b.resetSession(chatID, session)
	default:
		b.resetSession(chatID, session)
	}
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("send message", zap.Error(err))
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendError(chatID int64, text string) {
	b.sendMessage(chatID, text)
}

// replyError tells the trainer what went wrong without leaking internals.
func (b *Bot) replyError(chatID int64, err error) {
	switch {
	case errors.Is(err, models.ErrForbidden):
		b.sendError(chatID, "⛔ Нет доступа к этой группе или ученику")
	case errors.Is(err, models.ErrNotFound):
		b.sendError(chatID, "❌ Не найдено")
	case errors.Is(err, models.ErrInvalidInput):
		b.sendError(chatID, "❌ Неверные данные: "+errors.Cause(err).Error())
	default:
		b.logger.Error("bot request failed", zap.Int64("chat_id", chatID), zap.Error(err))
		b.sendError(chatID, "❌ Что-то пошло не так, попробуйте позже")
	}
}

func (b *Bot) resetSession(chatID int64, session *UserSession) {
	session.reset()
	msg := tgbotapi.NewMessage(chatID, "Главное меню")
	msg.ReplyMarkup = createMainKeyboard()
	b.send(msg)
}

func (b *Bot) cancelOperation(chatID int64, session *UserSession) {
	session.reset()
	msg := tgbotapi.NewMessage(chatID, "❌ Операция отменена")
	msg.ReplyMarkup = createMainKeyboard()
	b.send(msg)
}
