package attendance_service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sambo-academy/internal/models"
)

func TestDecide(t *testing.T) {
	present := models.StatusPresent
	absent := models.StatusAbsent
	transferred := models.StatusTransferred

	tests := []struct {
		name     string
		existing *models.AttendanceStatus
		incoming *models.AttendanceStatus
		want     action
	}{
		{name: "none/null", want: actionNoop},
		{name: "none/present", incoming: &present, want: actionCreate},
		{name: "none/absent", incoming: &absent, want: actionCreate},
		{name: "none/transferred", incoming: &transferred, want: actionCreateTransfer},
		{name: "present/null", existing: &present, want: actionDelete},
		{name: "transferred/null", existing: &transferred, want: actionDelete},
		{name: "present/present", existing: &present, incoming: &present, want: actionTouch},
		{name: "transferred/transferred", existing: &transferred, incoming: &transferred, want: actionTouch},
		{name: "present/transferred", existing: &present, incoming: &transferred, want: actionTransfer},
		{name: "absent/transferred", existing: &absent, incoming: &transferred, want: actionTransfer},
		{name: "transferred/present", existing: &transferred, incoming: &present, want: actionUpdate},
		{name: "transferred/absent", existing: &transferred, incoming: &absent, want: actionUpdate},
		{name: "absent/present", existing: &absent, incoming: &present, want: actionUpdate},
		{name: "present/absent", existing: &present, incoming: &absent, want: actionUpdate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decide(tt.existing, tt.incoming))
		})
	}
}
