package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/groomroute/backend/internal/models"
	"github.com/groomroute/backend/internal/service"
)

// @Summary Break stats and the next-break suggestion for a day
// @Tags breaks
// @Produce json
// @Param id path string true "Groomer ID"
// @Param date query string false "Date YYYY-MM-DD, defaults to today"
// @Success 200 {object} map[string]any
// @Router /api/groomers/{id}/breaks [get]
func (h *Handler) BreaksOverview(c *gin.Context) {
	groomer, ok := h.loadGroomer(c)
	if !ok {
		return
	}
	loc, err := h.accountLocation(c.Request.Context(), accountID(c))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to resolve account timezone", err.Error())
		return
	}

	now := time.Now().In(loc)
	dateStr := c.DefaultQuery("date", now.Format(time.DateOnly))
	date, err := parseDate(dateStr, loc)
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
	breaks, err := h.Store.ListBreaksForDay(c.Request.Context(), accountID(c), groomer.ID, dateStr)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load breaks", err.Error())
		return
	}

	stats := service.SummarizeBreaks(breaks)
	suggestion := service.SuggestBreak(appointments, breaks, now, h.breakPolicy())
	c.JSON(http.StatusOK, gin.H{
		"date":       dateStr,
		"stats":      stats,
		"suggestion": suggestion,
	})
}

type CreateBreakRequest struct {
	Date          string  `json:"date" validate:"required"`
	Type          string  `json:"type" validate:"required"`
	PlannedStart  *string `json:"planned_start"` // HH:MM
	PlannedEnd    *string `json:"planned_end"`   // HH:MM
	Taken         bool    `json:"taken"`
	ActualStart   *string `json:"actual_start"` // HH:MM, required when taken
	ActualMinutes int     `json:"actual_minutes"`
}

// @Summary Record a planned or already-taken break
// @Tags breaks
// @Accept json
// @Produce json
// @Param id path string true "Groomer ID"
// @Success 201 {object} models.Break
// @Router /api/groomers/{id}/breaks [post]
func (h *Handler) CreateBreak(c *gin.Context) {
	groomer, ok := h.loadGroomer(c)
	if !ok {
		return
	}
	var req CreateBreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	breakType := models.BreakType(req.Type)
	if !breakType.Valid() {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "type must be REST, LUNCH or AD_HOC", nil)
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

	b := models.Break{
		ID:        uuid.NewString(),
		AccountID: accountID(c),
		GroomerID: groomer.ID,
		BreakDate: req.Date,
		Type:      breakType,
		Taken:     req.Taken,
	}
	if b.PlannedStart, err = clockPtrOnDate(date, req.PlannedStart); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "planned_start must be HH:MM", err.Error())
		return
	}
	if b.PlannedEnd, err = clockPtrOnDate(date, req.PlannedEnd); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "planned_end must be HH:MM", err.Error())
		return
	}
	if req.Taken {
		if req.ActualStart == nil || req.ActualMinutes <= 0 {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "taken breaks need actual_start and actual_minutes", nil)
			return
		}
		if b.ActualStart, err = clockPtrOnDate(date, req.ActualStart); err != nil {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "actual_start must be HH:MM", err.Error())
			return
		}
		b.ActualMinutes = req.ActualMinutes
	}

	if err := h.Store.CreateBreak(c.Request.Context(), b); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create break", err.Error())
		return
	}
	c.JSON(http.StatusCreated, b)
}

type CompleteBreakRequest struct {
	ActualStart   string `json:"actual_start" validate:"required"` // HH:MM
	ActualMinutes int    `json:"actual_minutes" validate:"required,gt=0"`
	Date          string `json:"date" validate:"required"`
}

// @Summary Mark a break as taken
// @Tags breaks
// @Accept json
// @Produce json
// @Param id path string true "Groomer ID"
// @Param breakID path string true "Break ID"
// @Success 200 {object} map[string]any
// @Router /api/groomers/{id}/breaks/{breakID}/complete [post]
func (h *Handler) CompleteBreak(c *gin.Context) {
	if _, ok := h.loadGroomer(c); !ok {
		return
	}
	var req CompleteBreakRequest
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
	start, err := service.ClockOnDate(date, req.ActualStart)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "actual_start must be HH:MM", err.Error())
		return
	}

	if err := h.Store.CompleteBreak(c.Request.Context(), accountID(c), c.Param("breakID"), start, req.ActualMinutes); err != nil {
		if isNoRows(err) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Break not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to complete break", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type RouteUpsertRequest struct {
	Date         string `json:"date" validate:"required"`
	Started      *bool  `json:"started"`
	HasAssistant *bool  `json:"has_assistant"`
}

// @Summary Record workday-start or assistant presence for a route day
// @Tags routes
// @Accept json
// @Produce json
// @Param id path string true "Groomer ID"
// @Success 200 {object} models.Route
// @Router /api/groomers/{id}/route [post]
func (h *Handler) RouteUpsert(c *gin.Context) {
	groomer, ok := h.loadGroomer(c)
	if !ok {
		return
	}
	var req RouteUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	if req.Started == nil && req.HasAssistant == nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "at least one of started or has_assistant is required", nil)
		return
	}
	if _, err := time.Parse(time.DateOnly, req.Date); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD", nil)
		return
	}

	route := models.Route{
		ID:           uuid.NewString(),
		AccountID:    accountID(c),
		GroomerID:    groomer.ID,
		RouteDate:    req.Date,
		HasAssistant: groomer.DefaultAssistant,
	}

	saved, err := h.Store.UpsertRoute(c.Request.Context(), route, req.Started, req.HasAssistant)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to upsert route", err.Error())
		return
	}
	c.JSON(http.StatusOK, saved)
}

func clockPtrOnDate(date time.Time, clock *string) (*time.Time, error) {
	if clock == nil || *clock == "" {
		return nil, nil
	}
	t, err := service.ClockOnDate(date, *clock)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
