package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Tier is the size of a prepaid session pack.
type Tier string

const (
	TierEight  Tier = "8_sessions"
	TierTwelve Tier = "12_sessions"
)

// DefaultExpiryDays is how long a pack stays valid when the caller gives no expiry date.
const DefaultExpiryDays = 60

func ParseTier(s string) (Tier, error) {
	switch t := Tier(s); t {
	case TierEight, TierTwelve:
		return t, nil
	}
	return "", errors.Wrapf(ErrInvalidInput, "unknown subscription tier %q", s)
}

// Sessions is the number of sessions in the pack.
func (t Tier) Sessions() int {
	if t == TierTwelve {
		return 12
	}
	return 8
}

type Subscription struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	StudentID         uuid.UUID       `db:"student_id" json:"student_id"`
	Tier              Tier            `db:"tier" json:"tier"`
	TotalSessions     int             `db:"total_sessions" json:"total_sessions"`
	RemainingSessions int             `db:"remaining_sessions" json:"remaining_sessions"`
	Price             decimal.Decimal `db:"price" json:"price"`
	StartDate         time.Time       `db:"start_date" json:"start_date"`
	ExpiryDate        time.Time       `db:"expiry_date" json:"expiry_date"`
	IsActive          bool            `db:"is_active" json:"is_active"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
}

// IsExpired is computed on read; nothing deactivates a pack when its expiry date passes.
func (s *Subscription) IsExpired(now time.Time) bool {
	return DateOf(now).After(DateOf(s.ExpiryDate))
}

// NewSubscription contains information needed to issue a new pack.
type NewSubscription struct {
	StudentID   uuid.UUID
	Tier        Tier
	AgeCategory AgeCategory
	StartDate   time.Time  // zero means today
	ExpiryDate  *time.Time // nil means StartDate + DefaultExpiryDays
}

type SubscriptionUsage struct {
	SubscriptionID    uuid.UUID       `json:"subscription_id"`
	TotalSessions     int             `json:"total_sessions"`
	RemainingSessions int             `json:"remaining_sessions"`
	UsedSessions      int             `json:"used_sessions"`
	UsagePercentage   decimal.Decimal `json:"usage_percentage"`
}

func (s *Subscription) Usage() SubscriptionUsage {
	used := s.TotalSessions - s.RemainingSessions
	pct := decimal.Zero
	if s.TotalSessions > 0 {
		pct = decimal.NewFromInt(int64(used*100)).DivRound(decimal.NewFromInt(int64(s.TotalSessions)), 2)
	}
	return SubscriptionUsage{
		SubscriptionID:    s.ID,
		TotalSessions:     s.TotalSessions,
		RemainingSessions: s.RemainingSessions,
		UsedSessions:      used,
		UsagePercentage:   pct,
	}
}

// RepairReport summarizes a duplicate-active-subscription cleanup run.
type RepairReport struct {
	StudentsChecked        int `json:"students_checked"`
	StudentsWithDuplicates int `json:"students_with_duplicates"`
	Deactivated            int `json:"deactivated"`
}
