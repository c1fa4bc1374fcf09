package payment_service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"sambo-academy/internal/models"
	"sambo-academy/internal/repository"
	"sambo-academy/internal/service"
	pricing_service "sambo-academy/internal/service/pricing"
)

// costPlaces is the currency precision session costs are rounded to, half up.
const costPlaces = 2

type paymentService struct {
	store   repository.Store
	pricing service.PricingResolver
	logger  *zap.Logger
}

func NewPaymentService(store repository.Store, logger *zap.Logger) service.PaymentService {
	return &paymentService{
		store:   store,
		pricing: pricing_service.NewPricingResolver(store.Settings()),
		logger:  logger,
	}
}

func (s *paymentService) WithStore(st repository.Store) service.PaymentService {
	return &paymentService{
		store:   st,
		pricing: pricing_service.NewPricingResolver(st.Settings()),
		logger:  s.logger,
	}
}

// SessionCost is the price of one session of the pack: what the student actually paid for the
// session's month when anything was paid, else the standard price, divided by the pack size.
func (s *paymentService) SessionCost(ctx context.Context, studentID uuid.UUID, tier models.Tier, age models.AgeCategory, sessionDate time.Time) (decimal.Decimal, error) {
	base, err := s.store.Payments().SumForMonth(ctx, studentID, models.MonthStart(sessionDate))
	if err != nil {
		return decimal.Zero, err
	}
	if !base.IsPositive() {
		base, err = s.pricing.ResolvePrice(ctx, tier, age)
		if err != nil {
			return decimal.Zero, err
		}
	}
	return base.DivRound(decimal.NewFromInt(int64(tier.Sessions())), costPlaces), nil
}

// GenerateCompensation does nothing and returns nil when the student has no active pack.
func (s *paymentService) GenerateCompensation(ctx context.Context, studentID uuid.UUID, group *models.Group, sessionDate time.Time, subscription *models.Subscription) (*models.Payment, error) {
	if subscription == nil {
		return nil, nil
	}

	sessionDate = models.DateOf(sessionDate)
	cost, err := s.SessionCost(ctx, studentID, subscription.Tier, group.AgeCategory, sessionDate)
	if err != nil {
		return nil, errors.Wrap(err, "compute session cost")
	}

	target := models.NextMonthStart(sessionDate)
	subscriptionID := subscription.ID
	payment := &models.Payment{
		StudentID:      studentID,
		SubscriptionID: &subscriptionID,
		Amount:         cost,
		PaymentDate:    target,
		PaymentMonth:   target,
		Type:           models.PaymentPartial,
		Status:         models.PaymentPending,
		Notes:          fmt.Sprintf("Автоматическая компенсация за перенос от %s", sessionDate.Format("02.01.2006")),
	}
	if err = s.store.Payments().Create(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Info("compensation payment created",
		zap.String("student_id", studentID.String()),
		zap.String("payment_id", payment.ID.String()),
		zap.String("amount", cost.StringFixed(costPlaces)),
		zap.Time("session_date", sessionDate),
		zap.Time("payment_month", target),
	)
	return payment, nil
}

func (s *paymentService) Get(ctx context.Context, paymentID uuid.UUID) (*models.Payment, error) {
	return s.store.Payments().GetByID(ctx, paymentID)
}

func (s *paymentService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Payment, error) {
	return s.store.Payments().GetByStudent(ctx, studentID)
}

func (s *paymentService) ListByMonth(ctx context.Context, year int, month time.Month) ([]*models.Payment, error) {
	if month < time.January || month > time.December {
		return nil, errors.Wrapf(models.ErrInvalidInput, "month %d out of range", month)
	}
	return s.store.Payments().GetByMonth(ctx, time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

func (s *paymentService) SetStatus(ctx context.Context, paymentID uuid.UUID, status models.PaymentStatus) (*models.Payment, error) {
	if _, ok := models.ParsePaymentStatus(string(status)); !ok {
		return nil, errors.Wrapf(models.ErrInvalidInput, "unknown payment status %q", status)
	}
	var payment *models.Payment
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Payments().UpdateStatus(ctx, paymentID, status); err != nil {
			return err
		}
		var err error
		payment, err = tx.Payments().GetByID(ctx, paymentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}
