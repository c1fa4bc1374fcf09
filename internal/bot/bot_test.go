package bot

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"sambo-academy/internal/models"
	"sambo-academy/internal/repository"
	"sambo-academy/internal/repository/memory"
	access_service "sambo-academy/internal/service/access"
	attendance_service "sambo-academy/internal/service/attendance"
	group_service "sambo-academy/internal/service/group"
	payment_service "sambo-academy/internal/service/payment"
	schedule_service "sambo-academy/internal/service/schedule"
	subscription_service "sambo-academy/internal/service/subscription"
	trainer_service "sambo-academy/internal/service/trainer"
)

const (
	trainerTelegramID = 1001
	adminTelegramID   = 2002
)

type fakeAPI struct {
	sent []tgbotapi.MessageConfig
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) (tgbotapi.UpdatesChannel, error) {
	return make(chan tgbotapi.Update), nil
}

func (f *fakeAPI) StopReceivingUpdates() {}

func (f *fakeAPI) lastText() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].Text
}

func (f *fakeAPI) texts() []string {
	return lo.Map(f.sent, func(m tgbotapi.MessageConfig, _ int) string { return m.Text })
}

type BotSuite struct {
	suite.Suite

	ctx   context.Context
	store repository.Store
	api   *fakeAPI
	bot   *Bot
}

func TestBotSuite(t *testing.T) {
	suite.Run(t, new(BotSuite))
}

func (s *BotSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.api = &fakeAPI{}
	logger := zaptest.NewLogger(s.T())

	subscriptions := subscription_service.NewSubscriptionService(s.store, logger, models.DefaultExpiryDays)
	payments := payment_service.NewPaymentService(s.store, logger)
	s.bot = newBot(s.api, []int64{adminTelegramID}, Deps{
		Trainers:      trainer_service.NewTrainerService(s.store),
		Groups:        group_service.NewTrainingGroupService(s.store),
		Access:        access_service.NewChecker(s.store),
		Attendance:    attendance_service.NewAttendanceService(s.store, subscriptions, payments, logger),
		Subscriptions: subscriptions,
		Schedule:      schedule_service.NewScheduleService(s.store),
	}, logger)
	s.bot.now = func() time.Time { return time.Date(2025, time.October, 7, 18, 30, 0, 0, time.UTC) }
}

func message(from int, text string) *tgbotapi.Message {
	msg := &tgbotapi.Message{
		From: &tgbotapi.User{ID: from, FirstName: "Иван", LastName: "Петров"},
		Chat: &tgbotapi.Chat{ID: int64(from)},
		Text: text,
	}
	if len(text) > 0 && text[0] == '/' {
		msg.Entities = &[]tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}}
	}
	return msg
}

func (s *BotSuite) say(from int, text string) {
	s.bot.handleMessage(s.ctx, message(from, text))
}

func (s *BotSuite) register(telegramID int) *models.Trainer {
	s.say(telegramID, "/start")
	trainer, err := s.store.Trainers().GetByTelegramID(s.ctx, int64(telegramID))
	s.Require().NoError(err)
	return trainer
}

func (s *BotSuite) newGroup(trainer *models.Trainer, name string) *models.Group {
	group := &models.Group{
		Name:        name,
		TrainerID:   trainer.ID,
		AgeCategory: models.AgeSenior,
		Schedule:    models.ScheduleTueThu,
		IsActive:    true,
	}
	s.Require().NoError(s.store.Groups().Create(s.ctx, group))
	return group
}

func (s *BotSuite) newStudent(trainer *models.Trainer, group *models.Group, name string) *models.Student {
	student := &models.Student{
		FullName:  name,
		BirthDate: time.Date(2011, time.March, 2, 0, 0, 0, 0, time.UTC),
		GroupID:   group.ID,
		TrainerID: trainer.ID,
		IsActive:  true,
	}
	s.Require().NoError(s.store.Students().Create(s.ctx, student))
	return student
}

func (s *BotSuite) session(chatID int64) *UserSession {
	return s.bot.getOrCreateSession(chatID)
}

func (s *BotSuite) TestStartRegistersTrainer() {
	trainer := s.register(trainerTelegramID)
	s.Equal("Иван Петров", trainer.FullName)
	s.False(trainer.IsAdmin)
	s.Contains(s.api.lastText(), "Добро пожаловать")
}

func (s *BotSuite) TestStartGrantsAdminFromConfig() {
	admin := s.register(adminTelegramID)
	s.True(admin.IsAdmin)
	s.Contains(s.api.lastText(), "администратора")
}

func (s *BotSuite) TestUnregisteredUserIsAskedToStart() {
	s.say(trainerTelegramID, btnGroups)
	s.Contains(s.api.lastText(), "/start")
}

func (s *BotSuite) TestGroupsList() {
	trainer := s.register(trainerTelegramID)
	s.newGroup(trainer, "Старшая группа")

	s.say(trainerTelegramID, "/groups")
	s.Contains(s.api.lastText(), "Старшая группа")
	s.Contains(s.api.lastText(), "вт/чт")
}

func (s *BotSuite) TestMarkFlow() {
	trainer := s.register(trainerTelegramID)
	group := s.newGroup(trainer, "Старшая группа")
	student := s.newStudent(trainer, group, "Алексей Смирнов")
	pack := &models.Subscription{
		StudentID:         student.ID,
		Tier:              models.TierEight,
		TotalSessions:     8,
		RemainingSessions: 8,
		Price:             decimal.NewFromInt(4200),
		StartDate:         time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:        time.Date(2025, time.November, 30, 0, 0, 0, 0, time.UTC),
		IsActive:          true,
	}
	s.Require().NoError(s.store.Subscriptions().Create(s.ctx, pack))

	s.say(trainerTelegramID, btnMark)
	s.Equal(StateSelectingGroup, s.session(trainerTelegramID).State)

	s.say(trainerTelegramID, "Нет такой группы")
	s.Equal(StateSelectingGroup, s.session(trainerTelegramID).State)

	s.say(trainerTelegramID, group.Name)
	s.Equal(StateSelectingDate, s.session(trainerTelegramID).State)

	s.say(trainerTelegramID, btnToday)
	s.Equal(StateMarkingStudent, s.session(trainerTelegramID).State)
	s.Contains(s.api.lastText(), "Алексей Смирнов")

	s.say(trainerTelegramID, btnPresent)
	s.Equal(StateConfirmingMark, s.session(trainerTelegramID).State)

	s.say(trainerTelegramID, btnSave)
	s.Equal(StateDefault, s.session(trainerTelegramID).State)
	s.Contains(s.api.texts(), "✅ Посещаемость сохранена, отметок: 1")

	record, err := s.store.Attendance().GetForSession(s.ctx, student.ID, group.ID, time.Date(2025, time.October, 7, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Require().NotNil(record)
	s.Equal(models.StatusPresent, record.Status)
	s.Equal(trainer.ID, record.MarkedBy)

	stored, err := s.store.Subscriptions().GetByID(s.ctx, pack.ID)
	s.Require().NoError(err)
	s.Equal(7, stored.RemainingSessions)
}

func (s *BotSuite) TestMarkFlowSkipEverythingSavesNothing() {
	trainer := s.register(trainerTelegramID)
	group := s.newGroup(trainer, "Старшая группа")
	s.newStudent(trainer, group, "Алексей Смирнов")

	s.say(trainerTelegramID, "/mark")
	s.say(trainerTelegramID, group.Name)
	s.say(trainerTelegramID, "07.10.2025")
	s.say(trainerTelegramID, btnSkip)

	s.Equal(StateDefault, s.session(trainerTelegramID).State)
	s.Contains(s.api.texts(), "Изменений нет")
}

func (s *BotSuite) TestCancelResetsSession() {
	trainer := s.register(trainerTelegramID)
	s.newGroup(trainer, "Старшая группа")

	s.say(trainerTelegramID, "/calendar")
	s.Equal(StateSelectingGroup, s.session(trainerTelegramID).State)

	s.say(trainerTelegramID, btnCancel)
	s.Equal(StateDefault, s.session(trainerTelegramID).State)
	s.Contains(s.api.lastText(), "отменена")
}

func (s *BotSuite) TestCalendarFlow() {
	trainer := s.register(trainerTelegramID)
	group := s.newGroup(trainer, "Старшая группа")
	s.newStudent(trainer, group, "Алексей Смирнов")

	s.say(trainerTelegramID, "/calendar")
	s.say(trainerTelegramID, group.Name)
	s.Equal(StateSelectingMonth, s.session(trainerTelegramID).State)

	s.say(trainerTelegramID, "10.2025")
	s.Equal(StateDefault, s.session(trainerTelegramID).State)

	texts := s.api.texts()
	s.Require().GreaterOrEqual(len(texts), 2)
	calendar := texts[len(texts)-2]
	s.Contains(calendar, "Октябрь 2025")
	s.Contains(calendar, "Алексей Смирнов (0/9)")
}

func (s *BotSuite) TestSubscriptionsFlow() {
	trainer := s.register(trainerTelegramID)
	group := s.newGroup(trainer, "Старшая группа")
	s.newStudent(trainer, group, "Алексей Смирнов")

	s.say(trainerTelegramID, btnSubscriptions)
	s.say(trainerTelegramID, group.Name)

	s.Contains(s.api.texts()[len(s.api.texts())-2], "Нет активного абонемента")
}

func TestRenderCalendar(t *testing.T) {
	present := models.StatusPresent
	transferred := models.StatusTransferred
	calendar := &models.Calendar{
		GroupName: "Младшая группа",
		Year:      2025,
		Month:     time.October,
		TrainingDates: []time.Time{
			time.Date(2025, time.October, 7, 0, 0, 0, 0, time.UTC),
			time.Date(2025, time.October, 9, 0, 0, 0, 0, time.UTC),
		},
		Students: []models.CalendarRow{{
			FullName: "Борис Кузнецов",
			Attendance: []models.CalendarCell{
				{Day: 7, Status: &present},
				{Day: 9, Status: &transferred},
			},
		}},
	}

	out := renderCalendar(calendar)
	require.Contains(t, out, "Младшая группа: Октябрь 2025")
	assert.Contains(t, out, "Даты: 07 09")
	assert.Contains(t, out, "Борис Кузнецов (1/2)\n✅ 🔁")
}

func TestRenderCalendarWithoutDates(t *testing.T) {
	out := renderCalendar(&models.Calendar{GroupName: "Группа", Year: 2025, Month: time.January})
	assert.Contains(t, out, "нет занятий")
}
