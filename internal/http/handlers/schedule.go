package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/groomroute/backend/internal/db"
	"github.com/groomroute/backend/internal/models"
	"github.com/groomroute/backend/internal/service"
)

// @Summary Public availability slots
// @Tags schedule
// @Produce json
// @Param id path string true "Groomer ID"
// @Param date query string true "Date YYYY-MM-DD"
// @Param duration query int false "Duration in minutes (30-180, default 60)"
// @Success 200 {object} map[string]any
// @Router /api/groomers/{id}/slots [get]
func (h *Handler) Slots(c *gin.Context) {
	groomer, ok := h.loadGroomer(c)
	if !ok {
		return
	}
	loc, err := h.accountLocation(c.Request.Context(), accountID(c))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to resolve account timezone", err.Error())
		return
	}
	date, err := parseDate(c.Query("date"), loc)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD", nil)
		return
	}
	duration, _ := strconv.Atoi(c.DefaultQuery("duration", "0"))

	dayStart, dayEnd := dayBounds(date)
	existing, err := h.Store.ListAppointmentsForDay(c.Request.Context(), accountID(c), groomer.ID, dayStart, dayEnd, true)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load appointments", err.Error())
		return
	}

	summary, err := service.AvailableSlots(date, groomer.WorkStart, groomer.WorkEnd, duration,
		h.Cfg.SlotStepMinutes, h.Cfg.SlotBufferMinutes, existing)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Groomer working hours are malformed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":             date.Format(time.DateOnly),
		"groomer_id":       groomer.ID,
		"duration_minutes": summary.DurationMinutes,
		"available":        summary.Available,
		"candidate_count":  summary.CandidateCount,
		"available_count":  summary.AvailableCount,
	})
}

// @Summary Validate a manually entered time against working hours
// @Tags schedule
// @Produce json
// @Param id path string true "Groomer ID"
// @Param time query string true "Time HH:MM"
// @Param duration query int false "Duration in minutes"
// @Success 200 {object} service.HoursCheck
// @Router /api/groomers/{id}/hours/check [get]
func (h *Handler) HoursCheck(c *gin.Context) {
	groomer, ok := h.loadGroomer(c)
	if !ok {
		return
	}
	duration, _ := strconv.Atoi(c.DefaultQuery("duration", "0"))
	check, err := service.CheckWorkingHours(c.Query("time"), duration, groomer.WorkStart, groomer.WorkEnd)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "time must be HH:MM", err.Error())
		return
	}
	c.JSON(http.StatusOK, check)
}

// @Summary Conflict check for a candidate interval
// @Tags schedule
// @Produce json
// @Param id path string true "Groomer ID"
// @Param date query string true "Date YYYY-MM-DD"
// @Param start query string true "Start HH:MM"
// @Param duration query int false "Duration in minutes"
// @Param exclude query string false "Appointment id to ignore (edit flows)"
// @Success 200 {object} map[string]any
// @Router /api/groomers/{id}/conflicts [get]
func (h *Handler) Conflicts(c *gin.Context) {
	groomer, ok := h.loadGroomer(c)
	if !ok {
		return
	}
	loc, err := h.accountLocation(c.Request.Context(), accountID(c))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to resolve account timezone", err.Error())
		return
	}
	date, err := parseDate(c.Query("date"), loc)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD", nil)
		return
	}
	start, err := service.ClockOnDate(date, c.Query("start"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "start must be HH:MM", err.Error())
		return
	}
	duration := service.ClampDuration(atoiDefault(c.Query("duration"), 0))

	dayStart, dayEnd := dayBounds(date)
	existing, err := h.Store.ListAppointmentsForDay(c.Request.Context(), accountID(c), groomer.ID, dayStart, dayEnd, true)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load appointments", err.Error())
		return
	}

	// Internal conflict checks are buffer-free; only public availability
	// pads for travel time.
	conflict, with := service.HasConflict(start, duration, existing, 0, c.Query("exclude"))
	resp := gin.H{"conflict": conflict, "duration_minutes": duration}
	if with != nil {
		resp["conflicts_with"] = with.ID
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Large-dog capacity for a day
// @Tags schedule
// @Produce json
// @Param id path string true "Groomer ID"
// @Param date query string true "Date YYYY-MM-DD"
// @Param exclude query string false "Appointment id to ignore (edit flows)"
// @Success 200 {object} service.LargeDogReport
// @Router /api/groomers/{id}/large-dogs [get]
func (h *Handler) LargeDogs(c *gin.Context) {
	groomer, ok := h.loadGroomer(c)
	if !ok {
		return
	}
	loc, err := h.accountLocation(c.Request.Context(), accountID(c))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to resolve account timezone", err.Error())
		return
	}
	date, err := parseDate(c.Query("date"), loc)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD", nil)
		return
	}

	dayStart, dayEnd := dayBounds(date)
	appointments, err := h.Store.ListAppointmentsForDay(c.Request.Context(), accountID(c), groomer.ID, dayStart, dayEnd, true)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load appointments", err.Error())
		return
	}

	report := service.LargeDogCapacity(appointments, c.Query("exclude"), h.Cfg.LargeDogWeightLbs, groomer.LargeDogDailyLimit)
	c.JSON(http.StatusOK, report)
}

type ReorderRequest struct {
	Date           string   `json:"date" validate:"required"`
	AppointmentIDs []string `json:"appointment_ids" validate:"required,min=1"`
}

// @Summary Re-sequence a groomer's route for today
// @Tags schedule
// @Accept json
// @Produce json
// @Param id path string true "Groomer ID"
// @Success 200 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /api/groomers/{id}/reorder [post]
func (h *Handler) Reorder(c *gin.Context) {
	groomer, ok := h.loadGroomer(c)
	if !ok {
		return
	}
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	loc, err := h.accountLocation(c.Request.Context(), accountID(c))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to resolve account timezone", err.Error())
		return
	}
	date, err := parseDate(req.Date, loc)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD", nil)
		return
	}
	if !service.SameCalendarDay(date, time.Now(), loc) {
		writeError(c, http.StatusConflict, "POLICY_VIOLATION", "Routes can only be reordered for today", nil)
		return
	}
	if dup, ok := firstDuplicateID(req.AppointmentIDs); ok {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid appointment order", "duplicate appointment id "+dup)
		return
	}

	appointments, err := h.Store.GetAppointmentsByIDs(c.Request.Context(), accountID(c), groomer.ID, req.AppointmentIDs)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load appointments", err.Error())
		return
	}
	if len(appointments) != len(req.AppointmentIDs) {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "One or more appointments do not exist for this groomer", nil)
		return
	}

	items, err := service.PlanReorder(appointments, req.AppointmentIDs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotReorderable):
			writeError(c, http.StatusConflict, "POLICY_VIOLATION", "Route contains appointments that cannot be moved", err.Error())
		case errors.Is(err, service.ErrUnknownAppointment),
			errors.Is(err, service.ErrDuplicateID),
			errors.Is(err, service.ErrOrderIncomplete):
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid appointment order", err.Error())
		default:
			writeError(c, http.StatusInternalServerError, "REORDER_ERROR", "Failed to plan reorder", err.Error())
		}
		return
	}

	customerByAppt := make(map[string]string, len(appointments))
	for _, a := range appointments {
		customerByAppt[a.ID] = a.CustomerID
	}

	updates := make([]db.StartUpdate, 0, len(items))
	events := make([]models.CustomerEvent, 0, len(items))
	for _, item := range items {
		if !item.Changed {
			continue
		}
		updates = append(updates, db.StartUpdate{
			AppointmentID: item.AppointmentID,
			StartAt:       item.NewStart,
			Version:       item.Version,
		})
		events = append(events, models.CustomerEvent{
			ID:         uuid.NewString(),
			AccountID:  accountID(c),
			CustomerID: customerByAppt[item.AppointmentID],
			Actor:      "system",
			Action:     models.EventReorder,
			Reason: "moved from " + item.OldStart.In(loc).Format("15:04") +
				" to " + item.NewStart.In(loc).Format("15:04"),
			CreatedAt: time.Now().UTC(),
		})
	}
	if len(updates) > 0 {
		if err := h.Store.ApplyReorder(c.Request.Context(), accountID(c), updates, events); err != nil {
			if errors.Is(err, db.ErrVersionConflict) {
				writeError(c, http.StatusConflict, "CONFLICT", "Route changed concurrently, retry the reorder", nil)
				return
			}
			writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to persist reorder", err.Error())
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "changed": len(updates)})
}

// firstDuplicateID reports the first id that appears more than once. Checked
// before the row fetch so a duplicated id reads as a bad payload, not as a
// missing appointment.
func firstDuplicateID(ids []string) (string, bool) {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return id, true
		}
		seen[id] = struct{}{}
	}
	return "", false
}

func atoiDefault(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
