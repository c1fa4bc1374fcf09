package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentType string

const (
	PaymentFull     PaymentType = "full"
	PaymentPartial  PaymentType = "partial"
	PaymentDiscount PaymentType = "discount"
)

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentOverdue PaymentStatus = "overdue"
)

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch st := PaymentStatus(s); st {
	case PaymentPaid, PaymentPending, PaymentOverdue:
		return st, true
	}
	return "", false
}

type Payment struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	StudentID      uuid.UUID       `db:"student_id" json:"student_id"`
	SubscriptionID *uuid.UUID      `db:"subscription_id" json:"subscription_id,omitempty"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	PaymentDate    time.Time       `db:"payment_date" json:"payment_date"`
	PaymentMonth   time.Time       `db:"payment_month" json:"payment_month"` // always the 1st
	Type           PaymentType     `db:"payment_type" json:"payment_type"`
	Status         PaymentStatus   `db:"status" json:"status"`
	Notes          string          `db:"notes" json:"notes"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// EffectiveStatus reads a pending payment as overdue once its attributed month is over.
func (p *Payment) EffectiveStatus(now time.Time) PaymentStatus {
	if p.Status == PaymentPending && !DateOf(now).Before(NextMonthStart(p.PaymentMonth)) {
		return PaymentOverdue
	}
	return p.Status
}
