package schedule_service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"sambo-academy/internal/models"
	"sambo-academy/internal/repository"
	"sambo-academy/internal/service"
)

type scheduleService struct {
	store repository.Store
}

func NewScheduleService(store repository.Store) service.ScheduleService {
	return &scheduleService{store: store}
}

// TrainingDates expands a weekly pattern into the dates of one month, in order.
func TrainingDates(schedule models.ScheduleType, year int, month time.Month) []time.Time {
	weekdays := schedule.Weekdays()
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

	var dates []time.Time
	for day := first; day.Month() == month; day = day.AddDate(0, 0, 1) {
		if lo.Contains(weekdays, day.Weekday()) {
			dates = append(dates, day)
		}
	}
	return dates
}

// Calendar joins the month's training dates with recorded attendance for every active member.
func (s *scheduleService) Calendar(ctx context.Context, groupID uuid.UUID, year int, month time.Month) (*models.Calendar, error) {
	if month < time.January || month > time.December {
		return nil, errors.Wrapf(models.ErrInvalidInput, "month %d out of range", month)
	}

	group, err := s.store.Groups().GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	students, err := s.store.Students().ListEligible(ctx, groupID)
	if err != nil {
		return nil, err
	}

	dates := TrainingDates(group.Schedule, year, month)
	calendar := &models.Calendar{
		GroupID:       group.ID,
		GroupName:     group.Name,
		Year:          year,
		Month:         month,
		TrainingDates: dates,
		Students:      make([]models.CalendarRow, 0, len(students)),
	}
	if len(dates) == 0 {
		return calendar, nil
	}

	records, err := s.store.Attendance().GetByGroupAndRange(ctx, groupID, dates[0], dates[len(dates)-1])
	if err != nil {
		return nil, err
	}

	// student -> day of month -> status
	marks := make(map[uuid.UUID]map[int]models.AttendanceStatus)
	for _, record := range records {
		if marks[record.StudentID] == nil {
			marks[record.StudentID] = make(map[int]models.AttendanceStatus)
		}
		marks[record.StudentID][record.SessionDate.Day()] = record.Status
	}

	for _, student := range students {
		row := models.CalendarRow{
			StudentID:  student.ID,
			FullName:   student.FullName,
			Attendance: make([]models.CalendarCell, 0, len(dates)),
		}
		for _, date := range dates {
			cell := models.CalendarCell{Date: date, Day: date.Day()}
			if status, ok := marks[student.ID][date.Day()]; ok {
				cell.Status = lo.ToPtr(status)
			}
			row.Attendance = append(row.Attendance, cell)
		}
		calendar.Students = append(calendar.Students, row)
	}
	return calendar, nil
}
