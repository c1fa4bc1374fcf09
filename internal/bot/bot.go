package bot

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"sambo-academy/internal/models/config"
	"sambo-academy/internal/service"
)

// telegramAPI is the part of *tgbotapi.BotAPI the bot talks to.
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) (tgbotapi.UpdatesChannel, error)
	StopReceivingUpdates()
}

type Deps struct {
	Trainers      service.TrainerService
	Groups        service.GroupService
	Access        service.AccessChecker
	Attendance    service.AttendanceService
	Subscriptions service.SubscriptionService
	Schedule      service.ScheduleService
}

type Bot struct {
	api      telegramAPI
	deps     Deps
	adminIDs []int64
	logger   *zap.Logger
	now      func() time.Time

	userSessions map[int64]*UserSession // chatID -> session
	mu           sync.Mutex
}

func NewBot(cfg config.BotConfig, deps Deps, logger *zap.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, errors.New("bot token is not configured")
	}

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, errors.Wrap(err, "create bot api")
	}
	api.Debug = cfg.Debug

	logger.Info("bot initialized",
		zap.String("username", api.Self.UserName),
		zap.Bool("debug", cfg.Debug),
		zap.Int64s("admins", cfg.AdminIDs),
	)
	return newBot(api, cfg.AdminIDs, deps, logger), nil
}

func newBot(api telegramAPI, adminIDs []int64, deps Deps, logger *zap.Logger) *Bot {
	return &Bot{
		api:          api,
		deps:         deps,
		adminIDs:     adminIDs,
		logger:       logger.Named("bot"),
		now:          time.Now,
		userSessions: make(map[int64]*UserSession),
	}
}

// Start polls updates until ctx is done or Stop is called.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := b.api.GetUpdatesChan(u)
	if err != nil {
		return errors.Wrap(err, "get updates")
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}
