// Package memory is an in-process Store with the same constraints as the postgres schema.
// It backs the service tests and the local demo mode of the server.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"sambo-academy/internal/models"
	"sambo-academy/internal/repository"
)

type Option func(*shared)

// WithoutActiveIndex disables the one-active-pack-per-student check, the way a database
// created before the partial unique index behaves.
func WithoutActiveIndex() Option {
	return func(s *shared) { s.activeIndex = false }
}

type state struct {
	trainers      map[uuid.UUID]models.Trainer
	students      map[uuid.UUID]models.Student
	groups        map[uuid.UUID]models.Group
	subscriptions map[uuid.UUID]models.Subscription
	attendance    map[uuid.UUID]models.Attendance
	payments      map[uuid.UUID]models.Payment
	settings      map[string]string
	lastCreated   time.Time
}

func newState() *state {
	return &state{
		trainers:      map[uuid.UUID]models.Trainer{},
		students:      map[uuid.UUID]models.Student{},
		groups:        map[uuid.UUID]models.Group{},
		subscriptions: map[uuid.UUID]models.Subscription{},
		attendance:    map[uuid.UUID]models.Attendance{},
		payments:      map[uuid.UUID]models.Payment{},
		settings:      map[string]string{},
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// clone is shallow per row: stored rows are never mutated in place, only replaced.
func (s *state) clone() *state {
	return &state{
		trainers:      copyMap(s.trainers),
		students:      copyMap(s.students),
		groups:        copyMap(s.groups),
		subscriptions: copyMap(s.subscriptions),
		attendance:    copyMap(s.attendance),
		payments:      copyMap(s.payments),
		settings:      copyMap(s.settings),
		lastCreated:   s.lastCreated,
	}
}

// now hands out strictly increasing creation times so ordering by created_at is stable.
func (s *state) now() time.Time {
	t := time.Now().UTC()
	if !t.After(s.lastCreated) {
		t = s.lastCreated.Add(time.Microsecond)
	}
	s.lastCreated = t
	return t
}

type shared struct {
	mu          sync.Mutex
	data        *state
	activeIndex bool
}

type Store struct {
	shared *shared
	inTx   bool
}

func NewStore(opts ...Option) *Store {
	s := &shared{data: newState(), activeIndex: true}
	for _, opt := range opts {
		opt(s)
	}
	return &Store{shared: s}
}

// do runs fn under the store lock. Inside WithTx the lock is already held.
func (s *Store) do(fn func(st *state) error) error {
	if !s.inTx {
		s.shared.mu.Lock()
		defer s.shared.mu.Unlock()
	}
	return fn(s.shared.data)
}

func (s *Store) Trainers() repository.TrainerRepository           { return &trainerRepository{s} }
func (s *Store) Students() repository.StudentRepository           { return &studentRepository{s} }
func (s *Store) Groups() repository.GroupRepository               { return &groupRepository{s} }
func (s *Store) Subscriptions() repository.SubscriptionRepository { return &subscriptionRepository{s} }
func (s *Store) Attendance() repository.AttendanceRepository      { return &attendanceRepository{s} }
func (s *Store) Payments() repository.PaymentRepository           { return &paymentRepository{s} }
func (s *Store) Settings() repository.SettingsRepository          { return &settingsRepository{s} }

// WithTx serializes transactions and restores the snapshot taken at begin when fn fails.
func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Store) error) (err error) {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "begin transaction")
	}

	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()

	snapshot := s.shared.data.clone()
	defer func() {
		if p := recover(); p != nil {
			s.shared.data = snapshot
			panic(p)
		}
		if err != nil {
			s.shared.data = snapshot
		}
	}()

	return fn(&Store{shared: s.shared, inTx: true})
}

func notFound(op string) error {
	return errors.Wrap(models.ErrNotFound, op)
}

func conflict(op, constraint string) error {
	return errors.Wrapf(models.ErrConflict, "%s: %s", op, constraint)
}

func ptr[T any](v T) *T { return &v }

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	return ptr(*p)
}
