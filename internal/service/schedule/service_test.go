package schedule_service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sambo-academy/internal/models"
	"sambo-academy/internal/repository/memory"
)

func days(dates []time.Time) []int {
	return lo.Map(dates, func(d time.Time, _ int) int { return d.Day() })
}

func TestTrainingDates(t *testing.T) {
	tests := []struct {
		name     string
		schedule models.ScheduleType
		year     int
		month    time.Month
		want     []int
	}{
		{
			name:     "mon wed fri",
			schedule: models.ScheduleMonWedFri,
			year:     2025, month: time.October,
			want: []int{1, 3, 6, 8, 10, 13, 15, 17, 20, 22, 24, 27, 29, 31},
		},
		{
			name:     "tue thu",
			schedule: models.ScheduleTueThu,
			year:     2025, month: time.October,
			want: []int{2, 7, 9, 14, 16, 21, 23, 28, 30},
		},
		{
			name:     "february of a leap year",
			schedule: models.ScheduleTueThu,
			year:     2024, month: time.February,
			want: []int{1, 6, 8, 13, 15, 20, 22, 27, 29},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, days(TrainingDates(tt.schedule, tt.year, tt.month)))
		})
	}

	assert.Len(t, TrainingDates("weekends_only", 2025, time.October), 23)
}

func TestCalendar(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	trainerID := uuid.New()
	group := &models.Group{Name: "Младшая группа", TrainerID: trainerID, AgeCategory: models.AgeJunior, Schedule: models.ScheduleTueThu, IsActive: true}
	other := &models.Group{Name: "Старшая группа", TrainerID: trainerID, AgeCategory: models.AgeSenior, Schedule: models.ScheduleMonWedFri, IsActive: true}
	require.NoError(t, store.Groups().Create(ctx, group))
	require.NoError(t, store.Groups().Create(ctx, other))

	anna := &models.Student{FullName: "Анна", GroupID: group.ID, TrainerID: trainerID, IsActive: true}
	boris := &models.Student{FullName: "Борис", GroupID: other.ID, AdditionalGroupIDs: models.UUIDArray{group.ID}, TrainerID: trainerID, IsActive: true}
	gone := &models.Student{FullName: "Глеб", GroupID: group.ID, TrainerID: trainerID, IsActive: false}
	for _, s := range []*models.Student{anna, boris, gone} {
		require.NoError(t, store.Students().Create(ctx, s))
	}

	marks := []models.Attendance{
		{StudentID: anna.ID, GroupID: group.ID, SessionDate: time.Date(2025, time.October, 7, 0, 0, 0, 0, time.UTC), Status: models.StatusPresent},
		{StudentID: boris.ID, GroupID: group.ID, SessionDate: time.Date(2025, time.October, 9, 0, 0, 0, 0, time.UTC), Status: models.StatusTransferred},
		{StudentID: anna.ID, GroupID: other.ID, SessionDate: time.Date(2025, time.October, 9, 0, 0, 0, 0, time.UTC), Status: models.StatusAbsent},
		{StudentID: anna.ID, GroupID: group.ID, SessionDate: time.Date(2025, time.November, 4, 0, 0, 0, 0, time.UTC), Status: models.StatusPresent},
	}
	for i := range marks {
		require.NoError(t, store.Attendance().Create(ctx, &marks[i]))
	}

	calendar, err := NewScheduleService(store).Calendar(ctx, group.ID, 2025, time.October)
	require.NoError(t, err)

	assert.Equal(t, "Младшая группа", calendar.GroupName)
	assert.Len(t, calendar.TrainingDates, 9)
	require.Len(t, calendar.Students, 2)
	assert.Equal(t, "Анна", calendar.Students[0].FullName)
	assert.Equal(t, "Борис", calendar.Students[1].FullName)

	statuses := func(row models.CalendarRow) map[int]models.AttendanceStatus {
		out := map[int]models.AttendanceStatus{}
		for _, cell := range row.Attendance {
			if cell.Status != nil {
				out[cell.Day] = *cell.Status
			}
		}
		return out
	}
	assert.Len(t, calendar.Students[0].Attendance, 9)
	assert.Equal(t, map[int]models.AttendanceStatus{7: models.StatusPresent}, statuses(calendar.Students[0]))
	assert.Equal(t, map[int]models.AttendanceStatus{9: models.StatusTransferred}, statuses(calendar.Students[1]))

	_, err = NewScheduleService(store).Calendar(ctx, uuid.New(), 2025, time.October)
	assert.True(t, errors.Is(err, models.ErrNotFound))
	_, err = NewScheduleService(store).Calendar(ctx, group.ID, 2025, 0)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}
