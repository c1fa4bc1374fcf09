package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"sambo-academy/internal/models"
	"sambo-academy/internal/service"
)

type Handler struct {
	access        service.AccessChecker
	groups        service.GroupService
	attendance    service.AttendanceService
	subscriptions service.SubscriptionService
	payments      service.PaymentService
	schedule      service.ScheduleService
	now           func() time.Time
}

func NewHandler(deps Deps) *Handler {
	return &Handler{
		access:        deps.Access,
		groups:        deps.Groups,
		attendance:    deps.Attendance,
		subscriptions: deps.Subscriptions,
		payments:      deps.Payments,
		schedule:      deps.Schedule,
		now:           time.Now,
	}
}

func (h *Handler) Register(g *echo.Group) {
	g.GET("/groups", h.listGroups)
	g.GET("/groups/:id/students", h.groupStudents)
	g.GET("/groups/:id/roster", h.roster)
	g.GET("/groups/:id/calendar", h.calendar)
	g.PUT("/groups/:id/tier", h.changeGroupTier)

	g.POST("/attendance/mark", h.markAttendance)
	g.PATCH("/attendance/:id/notes", h.updateNotes)
	g.DELETE("/attendance/:id", h.deleteAttendance)

	g.GET("/students/:id/attendance", h.studentAttendance)
	g.GET("/students/:id/subscriptions", h.subscriptionHistory)
	g.GET("/students/:id/subscriptions/active", h.activeSubscription)
	g.POST("/students/:id/enroll", h.enroll)
	g.GET("/students/:id/payments", h.studentPayments)

	g.POST("/subscriptions", h.createSubscription)
	g.GET("/subscriptions/:id/usage", h.subscriptionUsage)
	g.DELETE("/subscriptions/:id", h.revokeSubscription)
	g.POST("/subscriptions/repair", h.repairSubscriptions)

	g.GET("/payments", h.monthPayments)
	g.PATCH("/payments/:id/status", h.setPaymentStatus)
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}

func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, models.NewValidationError(nil, models.FieldError{Field: "id", Error: "must be a uuid"})
	}
	return id, nil
}

// Groups

func (h *Handler) listGroups(c echo.Context) error {
	groups, err := h.groups.GetTrainerGroups(c.Request().Context(), contextTrainer(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, groups)
}

func (h *Handler) ownedGroup(c echo.Context) (*models.Group, error) {
	groupID, err := pathID(c)
	if err != nil {
		return nil, err
	}
	return h.access.CanAccessGroup(c.Request().Context(), contextTrainer(c), groupID)
}

func (h *Handler) groupStudents(c echo.Context) error {
	group, err := h.ownedGroup(c)
	if err != nil {
		return err
	}
	students, err := h.groups.GetStudents(c.Request().Context(), group.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, students)
}

func (h *Handler) roster(c echo.Context) error {
	group, err := h.ownedGroup(c)
	if err != nil {
		return err
	}
	date := models.DateOf(h.now())
	if raw := c.QueryParam("date"); raw != "" {
		if date, err = time.Parse(dateLayout, raw); err != nil {
			return models.NewValidationError(nil, models.FieldError{Field: "date", Error: "must be YYYY-MM-DD"})
		}
	}
	roster, err := h.attendance.Roster(c.Request().Context(), group.ID, date)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roster)
}

func (h *Handler) calendar(c echo.Context) error {
	group, err := h.ownedGroup(c)
	if err != nil {
		return err
	}
	now := h.now()
	year, month := now.Year(), int(now.Month())
	if raw := c.QueryParam("year"); raw != "" {
		if year, err = strconv.Atoi(raw); err != nil {
			return models.NewValidationError(nil, models.FieldError{Field: "year", Error: "must be a number"})
		}
	}
	if raw := c.QueryParam("month"); raw != "" {
		if month, err = strconv.Atoi(raw); err != nil {
			return models.NewValidationError(nil, models.FieldError{Field: "month", Error: "must be a number"})
		}
	}
	calendar, err := h.schedule.Calendar(c.Request().Context(), group.ID, year, time.Month(month))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, calendar)
}

func (h *Handler) changeGroupTier(c echo.Context) error {
	group, err := h.ownedGroup(c)
	if err != nil {
		return err
	}
	req := new(tierRequest)
	if err = bindAndValidate(c, req); err != nil {
		return err
	}
	created, err := h.subscriptions.ChangeGroupTier(c.Request().Context(), group.ID, models.Tier(req.Tier))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"group_id": group.ID, "tier": req.Tier, "subscriptions_created": len(created)})
}

// Attendance

func (h *Handler) markAttendance(c echo.Context) error {
	req := new(markRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	mark := req.toModel(contextTrainer(c))
	if _, err := h.access.CanAccessGroup(c.Request().Context(), mark.MarkedBy, mark.GroupID); err != nil {
		return err
	}
	records, err := h.attendance.Mark(c.Request().Context(), mark)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, records)
}

func (h *Handler) ownedRecord(c echo.Context) (*models.Attendance, error) {
	id, err := pathID(c)
	if err != nil {
		return nil, err
	}
	record, err := h.attendance.GetRecord(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	if _, err = h.access.CanAccessStudent(c.Request().Context(), contextTrainer(c), record.StudentID); err != nil {
		return nil, err
	}
	return record, nil
}

func (h *Handler) updateNotes(c echo.Context) error {
	record, err := h.ownedRecord(c)
	if err != nil {
		return err
	}
	req := new(notesRequest)
	if err = bindAndValidate(c, req); err != nil {
		return err
	}
	updated, err := h.attendance.UpdateNotes(c.Request().Context(), record.ID, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteAttendance(c echo.Context) error {
	record, err := h.ownedRecord(c)
	if err != nil {
		return err
	}
	if err = h.attendance.DeleteRecord(c.Request().Context(), record.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Students

func (h *Handler) ownedStudent(c echo.Context) (*models.Student, error) {
	studentID, err := pathID(c)
	if err != nil {
		return nil, err
	}
	return h.access.CanAccessStudent(c.Request().Context(), contextTrainer(c), studentID)
}

func (h *Handler) studentAttendance(c echo.Context) error {
	student, err := h.ownedStudent(c)
	if err != nil {
		return err
	}
	records, err := h.attendance.StudentHistory(c.Request().Context(), student.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, records)
}

func (h *Handler) subscriptionHistory(c echo.Context) error {
	student, err := h.ownedStudent(c)
	if err != nil {
		return err
	}
	history, err := h.subscriptions.History(c.Request().Context(), student.ID)
	if err != nil {
		return err
	}
	now := h.now()
	return c.JSON(http.StatusOK, lo.Map(history, func(sub *models.Subscription, _ int) subscriptionResponse {
		return newSubscriptionResponse(sub, now)
	}))
}

func (h *Handler) activeSubscription(c echo.Context) error {
	student, err := h.ownedStudent(c)
	if err != nil {
		return err
	}
	sub, err := h.subscriptions.GetActive(c.Request().Context(), student.ID)
	if err != nil {
		return err
	}
	if sub == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no active subscription")
	}
	return c.JSON(http.StatusOK, newSubscriptionResponse(sub, h.now()))
}

func (h *Handler) enroll(c echo.Context) error {
	student, err := h.ownedStudent(c)
	if err != nil {
		return err
	}
	sub, err := h.subscriptions.Enroll(c.Request().Context(), student.ID)
	if err != nil {
		return err
	}
	if sub == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusCreated, newSubscriptionResponse(sub, h.now()))
}

func (h *Handler) studentPayments(c echo.Context) error {
	student, err := h.ownedStudent(c)
	if err != nil {
		return err
	}
	payments, err := h.payments.ListByStudent(c.Request().Context(), student.ID)
	if err != nil {
		return err
	}
	now := h.now()
	return c.JSON(http.StatusOK, lo.Map(payments, func(p *models.Payment, _ int) paymentResponse {
		return newPaymentResponse(p, now)
	}))
}

// Subscriptions

func (h *Handler) createSubscription(c echo.Context) error {
	req := new(createSubscriptionRequest)
	if err := bindAndValidate(c, req); err != nil {
		return err
	}
	newSub, err := req.toModel()
	if err != nil {
		return err
	}
	if _, err = h.access.CanAccessStudent(c.Request().Context(), contextTrainer(c), newSub.StudentID); err != nil {
		return err
	}
	sub, err := h.subscriptions.Create(c.Request().Context(), newSub)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newSubscriptionResponse(sub, h.now()))
}

func (h *Handler) ownedSubscription(c echo.Context) (*models.Subscription, error) {
	id, err := pathID(c)
	if err != nil {
		return nil, err
	}
	sub, err := h.subscriptions.Get(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	if _, err = h.access.CanAccessStudent(c.Request().Context(), contextTrainer(c), sub.StudentID); err != nil {
		return nil, err
	}
	return sub, nil
}

func (h *Handler) subscriptionUsage(c echo.Context) error {
	sub, err := h.ownedSubscription(c)
	if err != nil {
		return err
	}
	usage, err := h.subscriptions.Usage(c.Request().Context(), sub.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usage)
}

func (h *Handler) revokeSubscription(c echo.Context) error {
	sub, err := h.ownedSubscription(c)
	if err != nil {
		return err
	}
	if err = h.subscriptions.Revoke(c.Request().Context(), sub.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) repairSubscriptions(c echo.Context) error {
	if _, err := h.access.RequireAdmin(c.Request().Context(), contextTrainer(c)); err != nil {
		return err
	}
	report, err := h.subscriptions.RepairDuplicates(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// Payments

func (h *Handler) monthPayments(c echo.Context) error {
	if _, err := h.access.RequireAdmin(c.Request().Context(), contextTrainer(c)); err != nil {
		return err
	}
	year, yErr := strconv.Atoi(c.QueryParam("year"))
	month, mErr := strconv.Atoi(c.QueryParam("month"))
	if yErr != nil || mErr != nil {
		return models.NewValidationError(nil,
			models.FieldError{Field: "year", Error: "required number"},
			models.FieldError{Field: "month", Error: "required number"},
		)
	}
	payments, err := h.payments.ListByMonth(c.Request().Context(), year, time.Month(month))
	if err != nil {
		return err
	}
	now := h.now()
	return c.JSON(http.StatusOK, lo.Map(payments, func(p *models.Payment, _ int) paymentResponse {
		return newPaymentResponse(p, now)
	}))
}

func (h *Handler) setPaymentStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	req := new(paymentStatusRequest)
	if err = bindAndValidate(c, req); err != nil {
		return err
	}
	payment, err := h.payments.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if _, err = h.access.CanAccessStudent(c.Request().Context(), contextTrainer(c), payment.StudentID); err != nil {
		return err
	}
	updated, err := h.payments.SetStatus(c.Request().Context(), id, models.PaymentStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPaymentResponse(updated, h.now()))
}
