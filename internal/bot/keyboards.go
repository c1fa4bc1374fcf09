package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"sambo-academy/internal/models"
)

const (
	btnGroups        = "👥 Мои группы"
	btnRoster        = "📋 Список на занятие"
	btnMark          = "✅ Отметить посещаемость"
	btnCalendar      = "📅 Календарь посещений"
	btnSubscriptions = "🎫 Абонементы группы"

	btnToday     = "Сегодня"
	btnYesterday = "Вчера"
	btnThisMonth = "Текущий месяц"
	btnLastMonth = "Прошлый месяц"

	btnPresent     = "✅ Был"
	btnAbsent      = "❌ Не был"
	btnTransferred = "🔁 Перенос"
	btnClear       = "🧹 Снять отметку"
	btnSkip        = "⏭ Пропустить"

	btnSave   = "💾 Сохранить"
	btnCancel = "❌ Отмена"
)

func createMainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnMark),
			tgbotapi.NewKeyboardButton(btnRoster),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCalendar),
			tgbotapi.NewKeyboardButton(btnSubscriptions),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnGroups),
		),
	)
}

func createGroupsKeyboard(groups []*models.Group) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	for _, group := range groups {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(group.Name)))
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)))
	return tgbotapi.NewReplyKeyboard(rows...)
}

func createDateKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnToday),
			tgbotapi.NewKeyboardButton(btnYesterday),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
}

func createMonthKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnThisMonth),
			tgbotapi.NewKeyboardButton(btnLastMonth),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
}

func createStatusKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnPresent),
			tgbotapi.NewKeyboardButton(btnAbsent),
			tgbotapi.NewKeyboardButton(btnTransferred),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnClear),
			tgbotapi.NewKeyboardButton(btnSkip),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
}

func createConfirmKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSave),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
}
