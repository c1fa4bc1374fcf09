package subscription

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"sambo-academy/internal/models"
	"sambo-academy/internal/repository"
)

const columns = `id, student_id, tier, total_sessions, remaining_sessions, price,
	start_date, expiry_date, is_active, created_at`

type subscriptionRepository struct {
	db sqlx.ExtContext
}

func NewSubscriptionRepository(db sqlx.ExtContext) repository.SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, subscription *models.Subscription) error {
	query := `
        INSERT INTO subscriptions
        (id, student_id, tier, total_sessions, remaining_sessions, price, start_date, expiry_date, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING created_at
    `
	if subscription.ID == uuid.Nil {
		subscription.ID = uuid.New()
	}
	err := r.db.QueryRowxContext(ctx, query,
		subscription.ID,
		subscription.StudentID,
		subscription.Tier,
		subscription.TotalSessions,
		subscription.RemainingSessions,
		subscription.Price,
		subscription.StartDate,
		subscription.ExpiryDate,
		subscription.IsActive,
	).Scan(&subscription.CreatedAt)
	return repository.Wrap(err, "create subscription")
}

func (r *subscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	var subscription models.Subscription
	query := `SELECT ` + columns + ` FROM subscriptions WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, &subscription, query, id); err != nil {
		return nil, repository.Wrap(err, "get subscription")
	}
	return &subscription, nil
}

func (r *subscriptionRepository) GetActiveByStudentID(ctx context.Context, studentID uuid.UUID) ([]*models.Subscription, error) {
	subscriptions := []*models.Subscription{}
	query := `
		SELECT ` + columns + ` FROM subscriptions
		WHERE student_id = $1 AND is_active = true
		ORDER BY start_date DESC, created_at DESC`
	if err := sqlx.SelectContext(ctx, r.db, &subscriptions, query, studentID); err != nil {
		return nil, repository.Wrap(err, "get active subscriptions")
	}
	return subscriptions, nil
}

func (r *subscriptionRepository) GetHistoryByStudentID(ctx context.Context, studentID uuid.UUID) ([]*models.Subscription, error) {
	subscriptions := []*models.Subscription{}
	query := `SELECT ` + columns + ` FROM subscriptions WHERE student_id = $1 ORDER BY created_at DESC`
	if err := sqlx.SelectContext(ctx, r.db, &subscriptions, query, studentID); err != nil {
		return nil, repository.Wrap(err, "get subscription history")
	}
	return subscriptions, nil
}

// ConsumeSession relies on the row lock taken by UPDATE: a concurrent consumer waits, then
// re-evaluates remaining_sessions > 0 against the committed value.
func (r *subscriptionRepository) ConsumeSession(ctx context.Context, id uuid.UUID) (*models.Subscription, bool, error) {
	var subscription models.Subscription
	query := `
		UPDATE subscriptions
		SET remaining_sessions = remaining_sessions - 1,
		    is_active = CASE WHEN remaining_sessions - 1 = 0 THEN false ELSE is_active END
		WHERE id = $1 AND remaining_sessions > 0
		RETURNING ` + columns
	err := sqlx.GetContext(ctx, r.db, &subscription, query, id)
	if err == nil {
		return &subscription, true, nil
	}
	err = repository.Wrap(err, "consume session")
	if errors.Is(err, models.ErrNotFound) {
		current, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return nil, false, getErr
		}
		return current, false, nil
	}
	return nil, false, err
}

func (r *subscriptionRepository) Deactivate(ctx context.Context, ids ...uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `UPDATE subscriptions SET is_active = false WHERE is_active = true AND id = ANY($1)`
	result, err := r.db.ExecContext(ctx, query, pq.Array(ids))
	if err != nil {
		return 0, repository.Wrap(err, "deactivate subscriptions")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, repository.Wrap(err, "deactivate subscriptions")
	}
	return rowsAffected, nil
}

func (r *subscriptionRepository) StudentsWithDuplicateActive(ctx context.Context) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	query := `
		SELECT student_id FROM subscriptions
		WHERE is_active = true
		GROUP BY student_id
		HAVING COUNT(*) > 1`
	if err := sqlx.SelectContext(ctx, r.db, &ids, query); err != nil {
		return nil, repository.Wrap(err, "find duplicate active subscriptions")
	}
	return ids, nil
}
