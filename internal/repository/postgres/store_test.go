package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"sambo-academy/internal/models"
	"sambo-academy/internal/repository"
	database "sambo-academy/pkg"
)

// prepareStore migrates the database named by ACADEMY_TEST_DATABASE_URL and empties it.
func prepareStore(t *testing.T) repository.Store {
	t.Helper()
	url := os.Getenv("ACADEMY_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("ACADEMY_TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	db, err := sqlx.Connect("postgres", url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(ctx, db.DB))
	_, err = db.ExecContext(ctx, `TRUNCATE payments, attendances, subscriptions, students, groups, trainers CASCADE`)
	require.NoError(t, err)

	return NewStore(db, zaptest.NewLogger(t))
}

func seedStudent(t *testing.T, store repository.Store) (*models.Group, *models.Student) {
	t.Helper()
	ctx := context.Background()

	trainer := &models.Trainer{FullName: "Иван Петров", TelegramID: lo.ToPtr(int64(1001))}
	require.NoError(t, store.Trainers().Create(ctx, trainer))
	group := &models.Group{
		Name:        "Старшая группа",
		TrainerID:   trainer.ID,
		AgeCategory: models.AgeSenior,
		Schedule:    models.ScheduleTueThu,
		IsActive:    true,
	}
	require.NoError(t, store.Groups().Create(ctx, group))
	student := &models.Student{
		FullName:  "Алексей Смирнов",
		BirthDate: time.Date(2010, time.May, 4, 0, 0, 0, 0, time.UTC),
		GroupID:   group.ID,
		TrainerID: trainer.ID,
		IsActive:  true,
	}
	require.NoError(t, store.Students().Create(ctx, student))
	return group, student
}

func pack(student *models.Student, remaining int) *models.Subscription {
	start := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)
	return &models.Subscription{
		StudentID:         student.ID,
		Tier:              models.TierEight,
		TotalSessions:     8,
		RemainingSessions: remaining,
		Price:             decimal.RequireFromString("4200.00"),
		StartDate:         start,
		ExpiryDate:        start.AddDate(0, 0, models.DefaultExpiryDays),
		IsActive:          true,
	}
}

func TestStore_ActiveIndexConflict(t *testing.T) {
	ctx := context.Background()
	store := prepareStore(t)
	_, student := seedStudent(t, store)

	require.NoError(t, store.Subscriptions().Create(ctx, pack(student, 8)))
	err := store.Subscriptions().Create(ctx, pack(student, 8))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrConflict), err.Error())
}

func TestStore_ConsumeSessionFloor(t *testing.T) {
	ctx := context.Background()
	store := prepareStore(t)
	_, student := seedStudent(t, store)
	sub := pack(student, 1)
	require.NoError(t, store.Subscriptions().Create(ctx, sub))

	got, consumed, err := store.Subscriptions().ConsumeSession(ctx, sub.ID)
	require.NoError(t, err)
	assert.True(t, consumed)
	assert.Equal(t, 0, got.RemainingSessions)
	assert.False(t, got.IsActive)

	got, consumed, err = store.Subscriptions().ConsumeSession(ctx, sub.ID)
	require.NoError(t, err)
	assert.False(t, consumed)
	assert.Equal(t, 0, got.RemainingSessions)
}

func TestStore_WithTxRollback(t *testing.T) {
	ctx := context.Background()
	store := prepareStore(t)
	group, student := seedStudent(t, store)
	day := time.Date(2025, time.October, 7, 0, 0, 0, 0, time.UTC)
	boom := errors.New("boom")

	err := store.WithTx(ctx, func(tx repository.Store) error {
		record := &models.Attendance{
			StudentID:   student.ID,
			GroupID:     group.ID,
			SessionDate: day,
			Status:      models.StatusPresent,
			MarkedBy:    group.TrainerID,
		}
		if err := tx.Attendance().Create(ctx, record); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	existing, err := store.Attendance().GetForSession(ctx, student.ID, group.ID, day)
	require.NoError(t, err)
	assert.Nil(t, existing)
}

func TestStore_SumForMonth(t *testing.T) {
	ctx := context.Background()
	store := prepareStore(t)
	_, student := seedStudent(t, store)
	month := time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)

	sum, err := store.Payments().SumForMonth(ctx, student.ID, month)
	require.NoError(t, err)
	assert.True(t, sum.IsZero())

	for _, amount := range []string{"525.00", "3675.00"} {
		require.NoError(t, store.Payments().Create(ctx, &models.Payment{
			StudentID:    student.ID,
			Amount:       decimal.RequireFromString(amount),
			PaymentDate:  month,
			PaymentMonth: month.AddDate(0, 0, 14),
			Type:         models.PaymentPartial,
			Status:       models.PaymentPending,
		}))
	}

	sum, err = store.Payments().SumForMonth(ctx, student.ID, month)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(4200).Equal(sum), sum.String())
}
