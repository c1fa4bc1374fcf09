package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTier(t *testing.T) {
	tier, err := ParseTier("12_sessions")
	require.NoError(t, err)
	assert.Equal(t, 12, tier.Sessions())
	assert.Equal(t, 8, TierEight.Sessions())

	_, err = ParseTier("unlimited")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestNextMonthStart(t *testing.T) {
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), NextMonthStart(time.Date(2025, time.December, 20, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), NextMonthStart(time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC), MonthStart(time.Date(2025, time.October, 31, 23, 59, 0, 0, time.UTC)))
}

func TestEffectiveStatus(t *testing.T) {
	november := time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)
	pending := Payment{Status: PaymentPending, PaymentMonth: november}
	paid := Payment{Status: PaymentPaid, PaymentMonth: november}

	assert.Equal(t, PaymentPending, pending.EffectiveStatus(time.Date(2025, time.November, 30, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, PaymentOverdue, pending.EffectiveStatus(time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, PaymentPaid, paid.EffectiveStatus(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)))
}

func TestSubscriptionExpiryAndUsage(t *testing.T) {
	sub := Subscription{
		TotalSessions:     8,
		RemainingSessions: 2,
		ExpiryDate:        time.Date(2025, time.November, 30, 0, 0, 0, 0, time.UTC),
	}
	assert.False(t, sub.IsExpired(time.Date(2025, time.November, 30, 20, 0, 0, 0, time.UTC)))
	assert.True(t, sub.IsExpired(time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)))

	usage := sub.Usage()
	assert.Equal(t, 6, usage.UsedSessions)
	assert.True(t, decimal.NewFromInt(75).Equal(usage.UsagePercentage))
}

func TestStudentMembership(t *testing.T) {
	primary, bonus := uuid.New(), uuid.New()
	student := Student{GroupID: primary, AdditionalGroupIDs: UUIDArray{bonus}}

	assert.True(t, student.BelongsTo(primary))
	assert.True(t, student.BelongsTo(bonus))
	assert.False(t, student.BelongsTo(uuid.New()))
	assert.False(t, student.IsBonusGroup(primary))
	assert.True(t, student.IsBonusGroup(bonus))
	assert.False(t, student.IsBonusGroup(uuid.New()))
}

func TestUUIDArray(t *testing.T) {
	ids := UUIDArray{uuid.MustParse("8f0d6d1e-2b7a-4a53-9a57-2f64f1c1d5a1")}
	value, err := ids.Value()
	require.NoError(t, err)

	var scanned UUIDArray
	require.NoError(t, scanned.Scan([]byte(value.(string))))
	assert.Equal(t, ids, scanned)

	empty, err := UUIDArray(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", empty)
}

func TestPriceSettingKey(t *testing.T) {
	assert.Equal(t, "subscription_8_senior_price", PriceSettingKey(TierEight, AgeSenior))
	assert.Equal(t, "subscription_12_junior_price", PriceSettingKey(TierTwelve, AgeJunior))
	assert.EqualValues(t, 4200, DefaultPrice(TierTwelve, AgeJunior))
}
