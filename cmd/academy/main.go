package main

import (
	"context"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"sambo-academy/internal/bot"
	"sambo-academy/internal/models/config"
	"sambo-academy/internal/repository"
	"sambo-academy/internal/repository/postgres"
	"sambo-academy/internal/service"
	access_service "sambo-academy/internal/service/access"
	attendance_service "sambo-academy/internal/service/attendance"
	group_service "sambo-academy/internal/service/group"
	payment_service "sambo-academy/internal/service/payment"
	schedule_service "sambo-academy/internal/service/schedule"
	subscription_service "sambo-academy/internal/service/subscription"
	trainer_service "sambo-academy/internal/service/trainer"
	"sambo-academy/internal/web"
	database "sambo-academy/pkg"
)

const startupTimeout = 2 * time.Minute

func main() {
	// Загружаем конфигурацию
	if err := config.Load(); err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	fx.New(
		fx.Supply(config.AppConfig),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.StartTimeout(startupTimeout),
		fx.Provide(
			newLogger,
			newDatabase,
			postgres.NewStore,
			newSubscriptionService,
			payment_service.NewPaymentService,
			attendance_service.NewAttendanceService,
			schedule_service.NewScheduleService,
			group_service.NewTrainingGroupService,
			trainer_service.NewTrainerService,
			access_service.NewChecker,
			newWebServer,
		),
		fx.Invoke(runWebServer, runBot),
	).Run()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zc = zap.NewProductionConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	zc.Level = level

	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("environment", cfg.Environment)), nil
}

// newDatabase connects and migrates before anything else starts.
func newDatabase(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	if err = database.Migrate(ctx, db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return db.Close()
		},
	})
	return db, nil
}

func newSubscriptionService(store repository.Store, cfg *config.Config, logger *zap.Logger) service.SubscriptionService {
	return subscription_service.NewSubscriptionService(store, logger, cfg.Subscription.ExpiryDays)
}

type coreServices struct {
	fx.In

	Trainers      service.TrainerService
	Groups        service.GroupService
	Access        service.AccessChecker
	Attendance    service.AttendanceService
	Subscriptions service.SubscriptionService
	Payments      service.PaymentService
	Schedule      service.ScheduleService
}

func newWebServer(cfg *config.Config, svc coreServices, logger *zap.Logger) *web.Server {
	return web.NewServer(cfg.HTTP, web.Deps{
		Access:        svc.Access,
		Groups:        svc.Groups,
		Attendance:    svc.Attendance,
		Subscriptions: svc.Subscriptions,
		Payments:      svc.Payments,
		Schedule:      svc.Schedule,
	}, logger.Named("http"))
}

func runWebServer(lc fx.Lifecycle, sd fx.Shutdowner, cfg *config.Config, server *web.Server, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := server.Start(); err != nil {
					logger.Error("http server stopped", zap.Error(err))
					_ = sd.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, cfg.HTTP.ShutdownTimeout)
			defer cancel()
			return server.Stop(ctx)
		},
	})
}

func runBot(lc fx.Lifecycle, sd fx.Shutdowner, cfg *config.Config, svc coreServices, logger *zap.Logger) error {
	if !cfg.Bot.Enabled {
		logger.Info("telegram bot disabled")
		return nil
	}

	telegramBot, err := bot.NewBot(cfg.Bot, bot.Deps{
		Trainers:      svc.Trainers,
		Groups:        svc.Groups,
		Access:        svc.Access,
		Attendance:    svc.Attendance,
		Subscriptions: svc.Subscriptions,
		Schedule:      svc.Schedule,
	}, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := telegramBot.Start(ctx); err != nil {
					logger.Error("telegram bot stopped", zap.Error(err))
					_ = sd.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			telegramBot.Stop()
			return nil
		},
	})
	return nil
}
