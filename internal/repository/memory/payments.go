package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sambo-academy/internal/models"
)

type paymentRepository struct{ s *Store }

func copyPayment(p models.Payment) *models.Payment {
	p.SubscriptionID = clonePtr(p.SubscriptionID)
	return &p
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.s.do(func(st *state) error {
		if payment.ID == uuid.Nil {
			payment.ID = uuid.New()
		}
		if _, ok := st.payments[payment.ID]; ok {
			return conflict("create payment", "payments_pkey")
		}
		payment.PaymentMonth = models.MonthStart(payment.PaymentMonth)
		payment.CreatedAt = st.now()
		st.payments[payment.ID] = *copyPayment(*payment)
		return nil
	})
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var out *models.Payment
	err := r.s.do(func(st *state) error {
		row, ok := st.payments[id]
		if !ok {
			return notFound("get payment")
		}
		out = copyPayment(row)
		return nil
	})
	return out, err
}

func (r *paymentRepository) list(filter func(models.Payment) bool) []*models.Payment {
	out := []*models.Payment{}
	_ = r.s.do(func(st *state) error {
		for _, row := range st.payments {
			if filter(row) {
				out = append(out, copyPayment(row))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PaymentDate.Equal(out[j].PaymentDate) {
			return out[i].PaymentDate.After(out[j].PaymentDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *paymentRepository) SumForMonth(ctx context.Context, studentID uuid.UUID, month time.Time) (decimal.Decimal, error) {
	month = models.MonthStart(month)
	sum := decimal.Zero
	for _, p := range r.list(func(p models.Payment) bool {
		return p.StudentID == studentID && p.PaymentMonth.Equal(month)
	}) {
		sum = sum.Add(p.Amount)
	}
	return sum, nil
}

func (r *paymentRepository) GetByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Payment, error) {
	return r.list(func(p models.Payment) bool { return p.StudentID == studentID }), nil
}

func (r *paymentRepository) GetByMonth(ctx context.Context, month time.Time) ([]*models.Payment, error) {
	month = models.MonthStart(month)
	return r.list(func(p models.Payment) bool { return p.PaymentMonth.Equal(month) }), nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus) error {
	return r.s.do(func(st *state) error {
		row, ok := st.payments[id]
		if !ok {
			return notFound("update payment status")
		}
		row.Status = status
		st.payments[id] = row
		return nil
	})
}
