package attendance_service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"sambo-academy/internal/models"
	"sambo-academy/internal/repository"
	"sambo-academy/internal/service"
)

type attendanceService struct {
	store         repository.Store
	subscriptions service.SubscriptionService
	payments      service.PaymentService
	logger        *zap.Logger
}

func NewAttendanceService(store repository.Store, subscriptions service.SubscriptionService, payments service.PaymentService, logger *zap.Logger) service.AttendanceService {
	return &attendanceService{
		store:         store,
		subscriptions: subscriptions,
		payments:      payments,
		logger:        logger,
	}
}

// marking holds the transaction-bound collaborators of one batch.
type marking struct {
	tx            repository.Store
	subscriptions service.SubscriptionService
	payments      service.PaymentService
	group         *models.Group
	sessionDate   time.Time
	markedBy      uuid.UUID
}

// Mark applies a batch for one group and session date in a single transaction. Entries with an
// unparseable student id or status, unknown students and students outside the group are skipped.
// Created and updated records are returned; deletions are not.
func (s *attendanceService) Mark(ctx context.Context, req models.MarkRequest) ([]*models.Attendance, error) {
	if req.SessionDate.IsZero() {
		return nil, errors.Wrap(models.ErrInvalidInput, "session date is required")
	}

	var result []*models.Attendance
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		group, err := tx.Groups().GetByID(ctx, req.GroupID)
		if err != nil {
			return err
		}

		m := &marking{
			tx:            tx,
			subscriptions: s.subscriptions.WithStore(tx),
			payments:      s.payments.WithStore(tx),
			group:         group,
			sessionDate:   models.DateOf(req.SessionDate),
			markedBy:      req.MarkedBy,
		}

		result = make([]*models.Attendance, 0, len(req.Items))
		for _, item := range req.Items {
			record, err := s.markOne(ctx, m, item)
			if err != nil {
				return err
			}
			if record != nil {
				result = append(result, record)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *attendanceService) markOne(ctx context.Context, m *marking, item models.MarkItem) (*models.Attendance, error) {
	studentID, err := uuid.Parse(strings.TrimSpace(item.StudentID))
	if err != nil {
		s.skip("invalid student id", item)
		return nil, nil
	}

	var incoming *models.AttendanceStatus
	if item.Status != nil {
		status, ok := models.ParseAttendanceStatus(*item.Status)
		if !ok {
			s.skip("unknown status", item)
			return nil, nil
		}
		incoming = &status
	}

	student, err := m.tx.Students().GetByID(ctx, studentID)
	if errors.Is(err, models.ErrNotFound) {
		s.skip("student not found", item)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !student.BelongsTo(m.group.ID) {
		s.skip("student is not a member of the group", item)
		return nil, nil
	}

	existing, err := m.tx.Attendance().GetForSession(ctx, studentID, m.group.ID, m.sessionDate)
	if err != nil {
		return nil, err
	}
	var stored *models.AttendanceStatus
	if existing != nil {
		stored = &existing.Status
	}

	act := decide(stored, incoming)
	s.logger.Debug("marking attendance",
		zap.String("student_id", studentID.String()),
		zap.String("group_id", m.group.ID.String()),
		zap.Time("session_date", m.sessionDate),
		zap.Stringer("action", act),
	)

	switch act {
	case actionNoop:
		return nil, nil
	case actionDelete:
		return nil, m.tx.Attendance().Delete(ctx, existing.ID)
	case actionCreate, actionCreateTransfer:
		return s.create(ctx, m, studentID, *incoming, item.Notes)
	case actionTouch, actionUpdate:
		return s.update(ctx, m, existing, *incoming, item.Notes)
	case actionTransfer:
		record, err := s.update(ctx, m, existing, *incoming, item.Notes)
		if err != nil {
			return nil, err
		}
		if err = s.compensate(ctx, m, studentID); err != nil {
			return nil, err
		}
		return record, nil
	}
	return nil, errors.Errorf("unhandled attendance action %s", act)
}

func (s *attendanceService) create(ctx context.Context, m *marking, studentID uuid.UUID, status models.AttendanceStatus, notes *string) (*models.Attendance, error) {
	subscription, err := m.subscriptions.GetActive(ctx, studentID)
	if err != nil {
		return nil, err
	}

	record := &models.Attendance{
		StudentID:   studentID,
		GroupID:     m.group.ID,
		SessionDate: m.sessionDate,
		Status:      status,
		MarkedBy:    m.markedBy,
		Notes:       lo.FromPtr(notes),
	}
	if subscription != nil {
		record.SubscriptionID = lo.ToPtr(subscription.ID)
	}
	if err = m.tx.Attendance().Create(ctx, record); err != nil {
		return nil, err
	}

	if subscription == nil {
		return record, nil
	}
	switch status {
	case models.StatusPresent:
		if _, err = m.subscriptions.ConsumeOne(ctx, subscription); err != nil {
			return nil, err
		}
	case models.StatusTransferred:
		if _, err = m.payments.GenerateCompensation(ctx, studentID, m.group, m.sessionDate, subscription); err != nil {
			return nil, err
		}
	}
	return record, nil
}

// update keeps the stored notes when the entry carries none.
func (s *attendanceService) update(ctx context.Context, m *marking, record *models.Attendance, status models.AttendanceStatus, notes *string) (*models.Attendance, error) {
	record.Status = status
	record.MarkedBy = m.markedBy
	if notes != nil {
		record.Notes = *notes
	}
	if err := m.tx.Attendance().Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *attendanceService) compensate(ctx context.Context, m *marking, studentID uuid.UUID) error {
	subscription, err := m.subscriptions.GetActive(ctx, studentID)
	if err != nil {
		return err
	}
	_, err = m.payments.GenerateCompensation(ctx, studentID, m.group, m.sessionDate, subscription)
	return err
}

func (s *attendanceService) skip(reason string, item models.MarkItem) {
	s.logger.Debug("attendance entry skipped",
		zap.String("reason", reason),
		zap.String("student_id", item.StudentID),
		zap.Stringp("status", item.Status),
	)
}

// Roster lists every active member of the group with what is recorded for date.
func (s *attendanceService) Roster(ctx context.Context, groupID uuid.UUID, date time.Time) ([]models.RosterEntry, error) {
	if _, err := s.store.Groups().GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	students, err := s.store.Students().ListEligible(ctx, groupID)
	if err != nil {
		return nil, err
	}
	date = models.DateOf(date)
	records, err := s.store.Attendance().GetByGroupAndRange(ctx, groupID, date, date)
	if err != nil {
		return nil, err
	}
	byStudent := lo.KeyBy(records, func(a *models.Attendance) uuid.UUID { return a.StudentID })

	roster := make([]models.RosterEntry, 0, len(students))
	for _, student := range students {
		entry := models.RosterEntry{
			StudentID:    student.ID,
			FullName:     student.FullName,
			BirthDate:    student.BirthDate,
			IsBonusGroup: student.IsBonusGroup(groupID),
		}
		if record, ok := byStudent[student.ID]; ok {
			entry.Status = lo.ToPtr(record.Status)
			entry.AttendanceID = lo.ToPtr(record.ID)
			entry.Notes = lo.ToPtr(record.Notes)
		}
		roster = append(roster, entry)
	}
	return roster, nil
}

func (s *attendanceService) GetRecord(ctx context.Context, attendanceID uuid.UUID) (*models.Attendance, error) {
	return s.store.Attendance().GetByID(ctx, attendanceID)
}

// DeleteRecord removes a record directly. Like clearing a mark, it never restores a session.
func (s *attendanceService) DeleteRecord(ctx context.Context, attendanceID uuid.UUID) error {
	return s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Attendance().GetByID(ctx, attendanceID); err != nil {
			return err
		}
		return tx.Attendance().Delete(ctx, attendanceID)
	})
}

func (s *attendanceService) UpdateNotes(ctx context.Context, attendanceID uuid.UUID, notes string) (*models.Attendance, error) {
	var record *models.Attendance
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		record, err = tx.Attendance().GetByID(ctx, attendanceID)
		if err != nil {
			return err
		}
		record.Notes = notes
		return tx.Attendance().Update(ctx, record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *attendanceService) StudentHistory(ctx context.Context, studentID uuid.UUID) ([]*models.Attendance, error) {
	if _, err := s.store.Students().GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.store.Attendance().GetByStudent(ctx, studentID)
}
