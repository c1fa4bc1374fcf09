package payment

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"sambo-academy/internal/models"
	"sambo-academy/internal/repository"
)

const columns = `id, student_id, subscription_id, amount, payment_date, payment_month,
	payment_type, status, notes, created_at`

type paymentRepository struct {
	db sqlx.ExtContext
}

func NewPaymentRepository(db sqlx.ExtContext) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments
		(id, student_id, subscription_id, amount, payment_date, payment_month, payment_type, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	err := r.db.QueryRowxContext(ctx, query,
		payment.ID,
		payment.StudentID,
		payment.SubscriptionID,
		payment.Amount,
		payment.PaymentDate,
		models.MonthStart(payment.PaymentMonth),
		payment.Type,
		payment.Status,
		payment.Notes,
	).Scan(&payment.CreatedAt)
	return repository.Wrap(err, "create payment")
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	query := `SELECT ` + columns + ` FROM payments WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, &payment, query, id); err != nil {
		return nil, repository.Wrap(err, "get payment")
	}
	return &payment, nil
}

func (r *paymentRepository) SumForMonth(ctx context.Context, studentID uuid.UUID, month time.Time) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	query := `SELECT SUM(amount) FROM payments WHERE student_id = $1 AND payment_month = $2`
	if err := sqlx.GetContext(ctx, r.db, &sum, query, studentID, models.MonthStart(month)); err != nil {
		return decimal.Zero, repository.Wrap(err, "sum month payments")
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

func (r *paymentRepository) GetByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Payment, error) {
	payments := []*models.Payment{}
	query := `SELECT ` + columns + ` FROM payments WHERE student_id = $1 ORDER BY payment_date DESC`
	if err := sqlx.SelectContext(ctx, r.db, &payments, query, studentID); err != nil {
		return nil, repository.Wrap(err, "list student payments")
	}
	return payments, nil
}

func (r *paymentRepository) GetByMonth(ctx context.Context, month time.Time) ([]*models.Payment, error) {
	payments := []*models.Payment{}
	query := `SELECT ` + columns + ` FROM payments WHERE payment_month = $1 ORDER BY payment_date DESC`
	if err := sqlx.SelectContext(ctx, r.db, &payments, query, models.MonthStart(month)); err != nil {
		return nil, repository.Wrap(err, "list month payments")
	}
	return payments, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE payments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return repository.Wrap(err, "update payment status")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return repository.Wrap(err, "update payment status")
	}
	if rowsAffected == 0 {
		return repository.Wrap(sql.ErrNoRows, "update payment status")
	}
	return nil
}
