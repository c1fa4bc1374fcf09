package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"sambo-academy/internal/repository"
	attendance_repository "sambo-academy/internal/repository/attendance"
	group_repository "sambo-academy/internal/repository/group"
	payment_repository "sambo-academy/internal/repository/payment"
	settings_repository "sambo-academy/internal/repository/settings"
	student_repository "sambo-academy/internal/repository/student"
	subscription_repository "sambo-academy/internal/repository/subscription"
	trainer_repository "sambo-academy/internal/repository/trainer"
)

type store struct {
	db     *sqlx.DB
	tx     *sqlx.Tx
	logger *zap.Logger

	trainers      repository.TrainerRepository
	students      repository.StudentRepository
	groups        repository.GroupRepository
	subscriptions repository.SubscriptionRepository
	attendance    repository.AttendanceRepository
	payments      repository.PaymentRepository
	settings      repository.SettingsRepository
}

// NewStore returns a Store whose repositories run directly against db.
func NewStore(db *sqlx.DB, logger *zap.Logger) repository.Store {
	return bind(db, nil, db, logger)
}

func bind(db *sqlx.DB, tx *sqlx.Tx, ext sqlx.ExtContext, logger *zap.Logger) *store {
	return &store{
		db:            db,
		tx:            tx,
		logger:        logger,
		trainers:      trainer_repository.NewTrainerRepository(ext),
		students:      student_repository.NewStudentRepository(ext),
		groups:        group_repository.NewTrainingGroupRepository(ext),
		subscriptions: subscription_repository.NewSubscriptionRepository(ext),
		attendance:    attendance_repository.NewAttendanceRepository(ext),
		payments:      payment_repository.NewPaymentRepository(ext),
		settings:      settings_repository.NewSettingsRepository(ext),
	}
}

func (s *store) Trainers() repository.TrainerRepository           { return s.trainers }
func (s *store) Students() repository.StudentRepository           { return s.students }
func (s *store) Groups() repository.GroupRepository               { return s.groups }
func (s *store) Subscriptions() repository.SubscriptionRepository { return s.subscriptions }
func (s *store) Attendance() repository.AttendanceRepository      { return s.attendance }
func (s *store) Payments() repository.PaymentRepository           { return s.payments }
func (s *store) Settings() repository.SettingsRepository          { return s.settings }

func (s *store) WithTx(ctx context.Context, fn func(tx repository.Store) error) (err error) {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("rollback failed", zap.Error(rbErr))
			}
		}
	}()

	if err = fn(bind(s.db, tx, tx, s.logger)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}
