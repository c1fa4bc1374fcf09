package web

import (
	"time"

	"github.com/google/uuid"

	"sambo-academy/internal/models"
)

const dateLayout = "2006-01-02"

type markRequest struct {
	GroupID     string            `json:"group_id" validate:"required,uuid"`
	SessionDate string            `json:"session_date" validate:"required,datetime=2006-01-02"`
	Attendances []models.MarkItem `json:"attendances"`
}

func (r markRequest) toModel(markedBy uuid.UUID) models.MarkRequest {
	date, _ := time.Parse(dateLayout, r.SessionDate)
	return models.MarkRequest{
		GroupID:     uuid.MustParse(r.GroupID),
		SessionDate: date,
		MarkedBy:    markedBy,
		Items:       r.Attendances,
	}
}

type createSubscriptionRequest struct {
	StudentID  string `json:"student_id" validate:"required,uuid"`
	Tier       string `json:"tier" validate:"required,oneof=8_sessions 12_sessions"`
	StartDate  string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	ExpiryDate string `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r createSubscriptionRequest) toModel() (models.NewSubscription, error) {
	req := models.NewSubscription{
		StudentID: uuid.MustParse(r.StudentID),
		Tier:      models.Tier(r.Tier),
	}
	if r.StartDate != "" {
		req.StartDate, _ = time.Parse(dateLayout, r.StartDate)
	}
	if r.ExpiryDate != "" {
		expiry, _ := time.Parse(dateLayout, r.ExpiryDate)
		start := req.StartDate
		if start.IsZero() {
			start = models.DateOf(time.Now())
		}
		if expiry.Before(start) {
			return req, models.NewValidationError(nil, models.FieldError{Field: "expiry_date", Error: "must not be before start_date"})
		}
		req.ExpiryDate = &expiry
	}
	return req, nil
}

type tierRequest struct {
	Tier string `json:"tier" validate:"required,oneof=8_sessions 12_sessions"`
}

type notesRequest struct {
	Notes string `json:"notes" validate:"max=2000"`
}

type paymentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=paid pending overdue"`
}

type subscriptionResponse struct {
	*models.Subscription
	IsExpired bool `json:"is_expired"`
}

func newSubscriptionResponse(sub *models.Subscription, now time.Time) subscriptionResponse {
	return subscriptionResponse{Subscription: sub, IsExpired: sub.IsExpired(now)}
}

type paymentResponse struct {
	*models.Payment
	EffectiveStatus models.PaymentStatus `json:"effective_status"`
}

func newPaymentResponse(payment *models.Payment, now time.Time) paymentResponse {
	return paymentResponse{Payment: payment, EffectiveStatus: payment.EffectiveStatus(now)}
}
