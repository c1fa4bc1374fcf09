package payment_service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sambo-academy/internal/models"
	"sambo-academy/internal/repository/memory"
)

func TestSessionCost(t *testing.T) {
	ctx := context.Background()
	studentID := uuid.New()
	october := time.Date(2025, time.October, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		paid  []string
		tier  models.Tier
		age   models.AgeCategory
		price string
		want  string
	}{
		{name: "standard 8 senior", tier: models.TierEight, age: models.AgeSenior, want: "525.00"},
		{name: "standard 12 junior", tier: models.TierTwelve, age: models.AgeJunior, want: "350.00"},
		{name: "rounds half up", tier: models.TierTwelve, age: models.AgeSenior, price: "3800", want: "316.67"},
		{name: "actual payment wins", paid: []string{"3800"}, tier: models.TierEight, age: models.AgeSenior, want: "475.00"},
		{name: "payments are summed", paid: []string{"2000", "1000.50"}, tier: models.TierTwelve, age: models.AgeSenior, want: "250.04"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore()
			if tt.price != "" {
				require.NoError(t, store.Settings().Set(ctx, models.PriceSettingKey(tt.tier, tt.age), tt.price))
			}
			for _, amount := range tt.paid {
				require.NoError(t, store.Payments().Create(ctx, &models.Payment{
					StudentID:    studentID,
					Amount:       decimal.RequireFromString(amount),
					PaymentDate:  october,
					PaymentMonth: october,
					Type:         models.PaymentFull,
					Status:       models.PaymentPaid,
				}))
			}

			cost, err := NewPaymentService(store, zap.NewNop()).SessionCost(ctx, studentID, tt.tier, tt.age, october)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cost.StringFixed(2))
		})
	}
}

func TestGenerateCompensation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewPaymentService(store, zap.NewNop())
	group := &models.Group{ID: uuid.New(), AgeCategory: models.AgeJunior}
	sub := &models.Subscription{ID: uuid.New(), StudentID: uuid.New(), Tier: models.TierEight}

	payment, err := svc.GenerateCompensation(ctx, sub.StudentID, group, time.Date(2025, time.December, 31, 19, 0, 0, 0, time.UTC), sub)
	require.NoError(t, err)
	require.NotNil(t, payment)
	assert.Equal(t, "475.00", payment.Amount.StringFixed(2))
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), payment.PaymentMonth)
	assert.Equal(t, "Автоматическая компенсация за перенос от 31.12.2025", payment.Notes)

	none, err := svc.GenerateCompensation(ctx, sub.StudentID, group, time.Now(), nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestListAndSetStatus(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewPaymentService(store, zap.NewNop())
	studentID := uuid.New()
	payment := &models.Payment{
		StudentID:    studentID,
		Amount:       decimal.NewFromInt(525),
		PaymentDate:  time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC),
		PaymentMonth: time.Date(2025, time.November, 20, 0, 0, 0, 0, time.UTC),
		Type:         models.PaymentPartial,
		Status:       models.PaymentPending,
	}
	require.NoError(t, store.Payments().Create(ctx, payment))

	byMonth, err := svc.ListByMonth(ctx, 2025, time.November)
	require.NoError(t, err)
	require.Len(t, byMonth, 1)

	_, err = svc.ListByMonth(ctx, 2025, 13)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))

	updated, err := svc.SetStatus(ctx, payment.ID, models.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, updated.Status)

	byStudent, err := svc.ListByStudent(ctx, studentID)
	require.NoError(t, err)
	require.Len(t, byStudent, 1)
	assert.Equal(t, models.PaymentPaid, byStudent[0].Status)

	_, err = svc.SetStatus(ctx, uuid.New(), models.PaymentPaid)
	assert.True(t, errors.Is(err, models.ErrNotFound))
	_, err = svc.SetStatus(ctx, payment.ID, "refunded")
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}
