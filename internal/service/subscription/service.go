package subscription_service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"sambo-academy/internal/models"
	"sambo-academy/internal/repository"
	"sambo-academy/internal/service"
	pricing_service "sambo-academy/internal/service/pricing"
)

type subscriptionService struct {
	store      repository.Store
	logger     *zap.Logger
	expiryDays int
	locks      *groupLocks
	now        func() time.Time
}

func NewSubscriptionService(store repository.Store, logger *zap.Logger, expiryDays int) service.SubscriptionService {
	if expiryDays <= 0 {
		expiryDays = models.DefaultExpiryDays
	}
	return &subscriptionService{
		store:      store,
		logger:     logger,
		expiryDays: expiryDays,
		locks:      &groupLocks{m: map[uuid.UUID]*sync.Mutex{}},
		now:        time.Now,
	}
}

func (s *subscriptionService) WithStore(st repository.Store) service.SubscriptionService {
	bound := *s
	bound.store = st
	return &bound
}

// GetActive picks the newest start date when several rows are active, which only happens on
// databases that predate the partial unique index.
func (s *subscriptionService) GetActive(ctx context.Context, studentID uuid.UUID) (*models.Subscription, error) {
	active, err := s.store.Subscriptions().GetActiveByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, nil
	}
	if len(active) > 1 {
		s.logger.Warn("student has several active subscriptions",
			zap.String("student_id", studentID.String()),
			zap.Int("count", len(active)),
		)
	}
	return active[0], nil
}

func (s *subscriptionService) Get(ctx context.Context, subscriptionID uuid.UUID) (*models.Subscription, error) {
	return s.store.Subscriptions().GetByID(ctx, subscriptionID)
}

func (s *subscriptionService) Create(ctx context.Context, req models.NewSubscription) (*models.Subscription, error) {
	if _, err := models.ParseTier(string(req.Tier)); err != nil {
		return nil, err
	}

	var created *models.Subscription
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		created, err = s.issue(ctx, tx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// issue deactivates every active pack of the student and only then inserts the new one.
func (s *subscriptionService) issue(ctx context.Context, tx repository.Store, req models.NewSubscription) (*models.Subscription, error) {
	age := req.AgeCategory
	if age == "" {
		student, err := tx.Students().GetByID(ctx, req.StudentID)
		if err != nil {
			return nil, err
		}
		group, err := tx.Groups().GetByID(ctx, student.GroupID)
		if err != nil {
			return nil, err
		}
		age = group.AgeCategory
	}

	deactivated, err := s.deactivateAll(ctx, tx, req.StudentID)
	if err != nil {
		return nil, err
	}

	price, err := pricing_service.NewPricingResolver(tx.Settings()).ResolvePrice(ctx, req.Tier, age)
	if err != nil {
		return nil, err
	}

	start := req.StartDate
	if start.IsZero() {
		start = s.now()
	}
	start = models.DateOf(start)
	expiry := start.AddDate(0, 0, s.expiryDays)
	if req.ExpiryDate != nil {
		expiry = models.DateOf(*req.ExpiryDate)
	}

	subscription := &models.Subscription{
		StudentID:         req.StudentID,
		Tier:              req.Tier,
		TotalSessions:     req.Tier.Sessions(),
		RemainingSessions: req.Tier.Sessions(),
		Price:             price,
		StartDate:         start,
		ExpiryDate:        expiry,
		IsActive:          true,
	}
	if err = tx.Subscriptions().Create(ctx, subscription); err != nil {
		return nil, err
	}

	s.logger.Info("subscription issued",
		zap.String("student_id", req.StudentID.String()),
		zap.String("subscription_id", subscription.ID.String()),
		zap.String("tier", string(req.Tier)),
		zap.String("price", price.StringFixed(2)),
		zap.Int64("deactivated", deactivated),
	)
	return subscription, nil
}

func (s *subscriptionService) deactivateAll(ctx context.Context, tx repository.Store, studentID uuid.UUID) (int64, error) {
	active, err := tx.Subscriptions().GetActiveByStudentID(ctx, studentID)
	if err != nil {
		return 0, err
	}
	ids := lo.Map(active, func(sub *models.Subscription, _ int) uuid.UUID { return sub.ID })
	return tx.Subscriptions().Deactivate(ctx, ids...)
}

// ConsumeOne returns the pack as stored after the call. A pack with nothing left is returned unchanged.
func (s *subscriptionService) ConsumeOne(ctx context.Context, subscription *models.Subscription) (*models.Subscription, error) {
	updated, consumed, err := s.store.Subscriptions().ConsumeSession(ctx, subscription.ID)
	if err != nil {
		return nil, err
	}
	if !consumed {
		s.logger.Debug("subscription exhausted, session not consumed",
			zap.String("subscription_id", subscription.ID.String()),
			zap.String("student_id", subscription.StudentID.String()),
		)
		return updated, nil
	}
	if !updated.IsActive {
		s.logger.Info("subscription used up",
			zap.String("subscription_id", updated.ID.String()),
			zap.String("student_id", updated.StudentID.String()),
		)
	}
	return updated, nil
}

// BulkRetier reissues packs for every active student whose primary group is groupID.
// Deactivations are committed before any replacement is inserted.
func (s *subscriptionService) BulkRetier(ctx context.Context, groupID uuid.UUID, tier models.Tier) ([]*models.Subscription, error) {
	if _, err := models.ParseTier(string(tier)); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(groupID)
	defer unlock()

	return s.retier(ctx, groupID, tier)
}

func (s *subscriptionService) retier(ctx context.Context, groupID uuid.UUID, tier models.Tier) ([]*models.Subscription, error) {
	group, err := s.store.Groups().GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	students, err := s.store.Students().ListActiveByPrimaryGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return []*models.Subscription{}, nil
	}

	var deactivated int64
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		for _, student := range students {
			n, err := s.deactivateAll(ctx, tx, student.ID)
			if err != nil {
				return errors.Wrapf(err, "deactivate subscriptions of student %s", student.ID)
			}
			deactivated += n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created := make([]*models.Subscription, 0, len(students))
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		for _, student := range students {
			sub, err := s.issue(ctx, tx, models.NewSubscription{
				StudentID:   student.ID,
				Tier:        tier,
				AgeCategory: group.AgeCategory,
			})
			if err != nil {
				return errors.Wrapf(err, "issue subscription for student %s", student.ID)
			}
			created = append(created, sub)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("group retiered",
		zap.String("group_id", groupID.String()),
		zap.String("tier", string(tier)),
		zap.Int("students", len(students)),
		zap.Int64("deactivated", deactivated),
	)
	return created, nil
}

func (s *subscriptionService) ChangeGroupTier(ctx context.Context, groupID uuid.UUID, tier models.Tier) ([]*models.Subscription, error) {
	if _, err := models.ParseTier(string(tier)); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(groupID)
	defer unlock()

	group, err := s.store.Groups().GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	// re-saving the current tier leaves issued packs untouched
	if group.DefaultTier != nil && *group.DefaultTier == tier {
		return []*models.Subscription{}, nil
	}

	if err = s.store.Groups().UpdateDefaultTier(ctx, groupID, tier); err != nil {
		return nil, err
	}
	return s.retier(ctx, groupID, tier)
}

// Enroll issues a pack at the default tier of the student's primary group. Returns nil when the
// group has no default tier.
func (s *subscriptionService) Enroll(ctx context.Context, studentID uuid.UUID) (*models.Subscription, error) {
	student, err := s.store.Students().GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	group, err := s.store.Groups().GetByID(ctx, student.GroupID)
	if err != nil {
		return nil, err
	}
	if group.DefaultTier == nil {
		return nil, nil
	}
	return s.Create(ctx, models.NewSubscription{
		StudentID:   studentID,
		Tier:        *group.DefaultTier,
		AgeCategory: group.AgeCategory,
	})
}

func (s *subscriptionService) History(ctx context.Context, studentID uuid.UUID) ([]*models.Subscription, error) {
	return s.store.Subscriptions().GetHistoryByStudentID(ctx, studentID)
}

func (s *subscriptionService) Usage(ctx context.Context, subscriptionID uuid.UUID) (*models.SubscriptionUsage, error) {
	subscription, err := s.store.Subscriptions().GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	usage := subscription.Usage()
	return &usage, nil
}

func (s *subscriptionService) Revoke(ctx context.Context, subscriptionID uuid.UUID) error {
	if _, err := s.store.Subscriptions().GetByID(ctx, subscriptionID); err != nil {
		return err
	}
	if _, err := s.store.Subscriptions().Deactivate(ctx, subscriptionID); err != nil {
		return err
	}
	s.logger.Info("subscription revoked", zap.String("subscription_id", subscriptionID.String()))
	return nil
}

// RepairDuplicates keeps the newest active pack of every student and deactivates the rest.
func (s *subscriptionService) RepairDuplicates(ctx context.Context) (*models.RepairReport, error) {
	report := &models.RepairReport{}
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		students, err := tx.Students().GetAll(ctx)
		if err != nil {
			return err
		}
		report.StudentsChecked = len(students)

		duplicated, err := tx.Subscriptions().StudentsWithDuplicateActive(ctx)
		if err != nil {
			return err
		}
		for _, studentID := range duplicated {
			active, err := tx.Subscriptions().GetActiveByStudentID(ctx, studentID)
			if err != nil {
				return err
			}
			if len(active) < 2 {
				continue
			}
			stale := lo.Map(active[1:], func(sub *models.Subscription, _ int) uuid.UUID { return sub.ID })
			n, err := tx.Subscriptions().Deactivate(ctx, stale...)
			if err != nil {
				return err
			}
			report.StudentsWithDuplicates++
			report.Deactivated += int(n)
			s.logger.Info("duplicate subscriptions deactivated",
				zap.String("student_id", studentID.String()),
				zap.String("kept", active[0].ID.String()),
				zap.Int64("deactivated", n),
			)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

type groupLocks struct {
	mu sync.Mutex
	m  map[uuid.UUID]*sync.Mutex
}

func (l *groupLocks) lock(groupID uuid.UUID) func() {
	l.mu.Lock()
	mu, ok := l.m[groupID]
	if !ok {
		mu = &sync.Mutex{}
		l.m[groupID] = mu
	}
	l.mu.Unlock()

	mu.Lock()
	return mu.Unlock
}
