package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sambo-academy/internal/models"
)

// ActiveSubscriptionIndex is the partial unique index that keeps one active pack per student.
const ActiveSubscriptionIndex = "idx_one_active_subscription_per_student"

type TrainerRepository interface {
	Create(ctx context.Context, trainer *models.Trainer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Trainer, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.Trainer, error)
}

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error)
	// ListEligible returns active students attending the group as primary or bonus group, by name.
	ListEligible(ctx context.Context, groupID uuid.UUID) ([]*models.Student, error)
	// ListActiveByPrimaryGroup returns active students whose primary group is groupID.
	ListActiveByPrimaryGroup(ctx context.Context, groupID uuid.UUID) ([]*models.Student, error)
	GetAll(ctx context.Context) ([]*models.Student, error)
}

type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error)
	GetByTrainer(ctx context.Context, trainerID uuid.UUID) ([]*models.Group, error)
	UpdateDefaultTier(ctx context.Context, id uuid.UUID, tier models.Tier) error
}

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *models.Subscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	// GetActiveByStudentID returns every active row of the student, newest start date first.
	GetActiveByStudentID(ctx context.Context, studentID uuid.UUID) ([]*models.Subscription, error)
	GetHistoryByStudentID(ctx context.Context, studentID uuid.UUID) ([]*models.Subscription, error)
	// ConsumeSession atomically decrements remaining sessions with a floor of zero and deactivates
	// the pack when it reaches zero. consumed is false when nothing was left.
	ConsumeSession(ctx context.Context, id uuid.UUID) (sub *models.Subscription, consumed bool, err error)
	Deactivate(ctx context.Context, ids ...uuid.UUID) (int64, error)
	// StudentsWithDuplicateActive lists students holding more than one active row.
	StudentsWithDuplicateActive(ctx context.Context) ([]uuid.UUID, error)
}

type AttendanceRepository interface {
	Create(ctx context.Context, attendance *models.Attendance) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Attendance, error)
	// GetForSession returns nil, nil when no row exists for the triple.
	GetForSession(ctx context.Context, studentID, groupID uuid.UUID, sessionDate time.Time) (*models.Attendance, error)
	Update(ctx context.Context, attendance *models.Attendance) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByGroupAndRange(ctx context.Context, groupID uuid.UUID, from, to time.Time) ([]*models.Attendance, error)
	GetByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Attendance, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	// SumForMonth sums every payment of the student attributed to month (first day of the month).
	SumForMonth(ctx context.Context, studentID uuid.UUID, month time.Time) (decimal.Decimal, error)
	GetByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Payment, error)
	GetByMonth(ctx context.Context, month time.Time) ([]*models.Payment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus) error
}

type SettingsRepository interface {
	// Get returns ok=false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Store is the unit of work over every repository. Repositories returned by a Store passed to a
// WithTx callback share that transaction; WithTx on such a Store runs the callback inline.
type Store interface {
	Trainers() TrainerRepository
	Students() StudentRepository
	Groups() GroupRepository
	Subscriptions() SubscriptionRepository
	Attendance() AttendanceRepository
	Payments() PaymentRepository
	Settings() SettingsRepository

	WithTx(ctx context.Context, fn func(tx Store) error) error
}
