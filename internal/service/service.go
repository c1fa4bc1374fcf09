package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sambo-academy/internal/models"
	"sambo-academy/internal/repository"
)

type PricingResolver interface {
	// ResolvePrice returns the configured price of a pack, falling back to the compiled default.
	ResolvePrice(ctx context.Context, tier models.Tier, age models.AgeCategory) (decimal.Decimal, error)
}

// SubscriptionService owns the one-active-pack-per-student ledger.
type SubscriptionService interface {
	// GetActive returns nil, nil when the student has no active pack.
	GetActive(ctx context.Context, studentID uuid.UUID) (*models.Subscription, error)
	Get(ctx context.Context, subscriptionID uuid.UUID) (*models.Subscription, error)
	Create(ctx context.Context, req models.NewSubscription) (*models.Subscription, error)
	ConsumeOne(ctx context.Context, subscription *models.Subscription) (*models.Subscription, error)
	BulkRetier(ctx context.Context, groupID uuid.UUID, tier models.Tier) ([]*models.Subscription, error)
	ChangeGroupTier(ctx context.Context, groupID uuid.UUID, tier models.Tier) ([]*models.Subscription, error)
	Enroll(ctx context.Context, studentID uuid.UUID) (*models.Subscription, error)

	History(ctx context.Context, studentID uuid.UUID) ([]*models.Subscription, error)
	Usage(ctx context.Context, subscriptionID uuid.UUID) (*models.SubscriptionUsage, error)
	Revoke(ctx context.Context, subscriptionID uuid.UUID) error
	RepairDuplicates(ctx context.Context) (*models.RepairReport, error)

	// WithStore returns the same service bound to st, typically a transaction.
	WithStore(st repository.Store) SubscriptionService
}

type PaymentService interface {
	// GenerateCompensation emits the pending partial payment owed for a transferred session.
	GenerateCompensation(ctx context.Context, studentID uuid.UUID, group *models.Group, sessionDate time.Time, subscription *models.Subscription) (*models.Payment, error)
	SessionCost(ctx context.Context, studentID uuid.UUID, tier models.Tier, age models.AgeCategory, sessionDate time.Time) (decimal.Decimal, error)

	Get(ctx context.Context, paymentID uuid.UUID) (*models.Payment, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Payment, error)
	ListByMonth(ctx context.Context, year int, month time.Month) ([]*models.Payment, error)
	SetStatus(ctx context.Context, paymentID uuid.UUID, status models.PaymentStatus) (*models.Payment, error)

	WithStore(st repository.Store) PaymentService
}

// AttendanceService records attendance and keeps the ledger and payments in step with it.
type AttendanceService interface {
	Mark(ctx context.Context, req models.MarkRequest) ([]*models.Attendance, error)
	Roster(ctx context.Context, groupID uuid.UUID, date time.Time) ([]models.RosterEntry, error)
	GetRecord(ctx context.Context, attendanceID uuid.UUID) (*models.Attendance, error)
	DeleteRecord(ctx context.Context, attendanceID uuid.UUID) error
	UpdateNotes(ctx context.Context, attendanceID uuid.UUID, notes string) (*models.Attendance, error)
	StudentHistory(ctx context.Context, studentID uuid.UUID) ([]*models.Attendance, error)
}

type ScheduleService interface {
	Calendar(ctx context.Context, groupID uuid.UUID, year int, month time.Month) (*models.Calendar, error)
}

type GroupService interface {
	GetGroupByID(ctx context.Context, id uuid.UUID) (*models.Group, error)
	GetTrainerGroups(ctx context.Context, trainerID uuid.UUID) ([]*models.Group, error)
	GetStudents(ctx context.Context, groupID uuid.UUID) ([]*models.Student, error)
}

type TrainerService interface {
	// RegisterOrUpdate links a telegram account to a trainer, creating the trainer on first contact.
	RegisterOrUpdate(ctx context.Context, telegramID int64, fullName string, isAdmin bool) (*models.Trainer, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.Trainer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Trainer, error)
}

// AccessChecker answers whether an actor may act on a group or a student: admins may act on
// everything, trainers on what they own.
type AccessChecker interface {
	CanAccessGroup(ctx context.Context, trainerID, groupID uuid.UUID) (*models.Group, error)
	CanAccessStudent(ctx context.Context, trainerID, studentID uuid.UUID) (*models.Student, error)
	RequireAdmin(ctx context.Context, trainerID uuid.UUID) (*models.Trainer, error)
}
