package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"sambo-academy/internal/models"
	"sambo-academy/internal/repository"
)

type subscriptionRepository struct{ s *Store }

func (r *subscriptionRepository) Create(ctx context.Context, subscription *models.Subscription) error {
	return r.s.do(func(st *state) error {
		if subscription.ID == uuid.Nil {
			subscription.ID = uuid.New()
		}
		if _, ok := st.subscriptions[subscription.ID]; ok {
			return conflict("create subscription", "subscriptions_pkey")
		}
		if subscription.IsActive && r.s.shared.activeIndex {
			for _, row := range st.subscriptions {
				if row.StudentID == subscription.StudentID && row.IsActive {
					return conflict("create subscription", repository.ActiveSubscriptionIndex)
				}
			}
		}
		subscription.CreatedAt = st.now()
		st.subscriptions[subscription.ID] = *subscription
		return nil
	})
}

func (r *subscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	var out *models.Subscription
	err := r.s.do(func(st *state) error {
		row, ok := st.subscriptions[id]
		if !ok {
			return notFound("get subscription")
		}
		out = ptr(row)
		return nil
	})
	return out, err
}

func (r *subscriptionRepository) GetActiveByStudentID(ctx context.Context, studentID uuid.UUID) ([]*models.Subscription, error) {
	out, err := r.list(func(s models.Subscription) bool { return s.StudentID == studentID && s.IsActive })
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, err
}

func (r *subscriptionRepository) GetHistoryByStudentID(ctx context.Context, studentID uuid.UUID) ([]*models.Subscription, error) {
	out, err := r.list(func(s models.Subscription) bool { return s.StudentID == studentID })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

func (r *subscriptionRepository) list(filter func(models.Subscription) bool) ([]*models.Subscription, error) {
	out := []*models.Subscription{}
	err := r.s.do(func(st *state) error {
		for _, row := range st.subscriptions {
			if filter(row) {
				out = append(out, ptr(row))
			}
		}
		return nil
	})
	return out, err
}

func (r *subscriptionRepository) ConsumeSession(ctx context.Context, id uuid.UUID) (*models.Subscription, bool, error) {
	var (
		out      *models.Subscription
		consumed bool
	)
	err := r.s.do(func(st *state) error {
		row, ok := st.subscriptions[id]
		if !ok {
			return notFound("consume session")
		}
		if row.RemainingSessions > 0 {
			row.RemainingSessions--
			if row.RemainingSessions == 0 {
				row.IsActive = false
			}
			st.subscriptions[id] = row
			consumed = true
		}
		out = ptr(row)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, consumed, nil
}

func (r *subscriptionRepository) Deactivate(ctx context.Context, ids ...uuid.UUID) (int64, error) {
	var n int64
	err := r.s.do(func(st *state) error {
		for _, id := range ids {
			row, ok := st.subscriptions[id]
			if !ok || !row.IsActive {
				continue
			}
			row.IsActive = false
			st.subscriptions[id] = row
			n++
		}
		return nil
	})
	return n, err
}

func (r *subscriptionRepository) StudentsWithDuplicateActive(ctx context.Context) ([]uuid.UUID, error) {
	out := []uuid.UUID{}
	err := r.s.do(func(st *state) error {
		counts := map[uuid.UUID]int{}
		for _, row := range st.subscriptions {
			if row.IsActive {
				counts[row.StudentID]++
			}
		}
		for id, n := range counts {
			if n > 1 {
				out = append(out, id)
			}
		}
		return nil
	})
	return out, err
}
