package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/groomroute/backend/internal/models"
)

type SkipRequest struct {
	AppointmentID string `json:"appointment_id" validate:"required"`
	Reason        string `json:"reason" validate:"required"`
	Actor         string `json:"actor"`
	NoShow        bool   `json:"no_show"`
}

// @Summary Skip (cancel) an appointment and log the event
// @Tags customers
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} map[string]any
// @Router /api/customers/{id}/skip [post]
func (h *Handler) SkipAppointment(c *gin.Context) {
	var req SkipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	customer, err := h.Store.GetCustomer(c.Request.Context(), accountID(c), c.Param("id"))
	if err != nil {
		if isNoRows(err) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Customer not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load customer", err.Error())
		return
	}
	appointment, err := h.Store.GetAppointment(c.Request.Context(), accountID(c), req.AppointmentID)
	if err != nil {
		if isNoRows(err) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Appointment not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load appointment", err.Error())
		return
	}
	if appointment.CustomerID != customer.ID {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Appointment does not belong to this customer", nil)
		return
	}
	if !appointment.Status.CountsForSchedule() {
		writeError(c, http.StatusConflict, "POLICY_VIOLATION", "Appointment is already cancelled", nil)
		return
	}

	newStatus := models.StatusCancelled
	action := models.EventSkip
	cancellations, noShows := 1, 0
	if req.NoShow {
		newStatus = models.StatusNoShow
		action = models.EventNoShow
		cancellations, noShows = 0, 1
	}
	actor := req.Actor
	if actor == "" {
		actor = "system"
	}

	event := models.CustomerEvent{
		ID:         uuid.NewString(),
		AccountID:  accountID(c),
		CustomerID: customer.ID,
		Actor:      actor,
		Action:     action,
		Reason:     req.Reason,
		CreatedAt:  time.Now().UTC(),
	}

	err = h.Store.WithTx(c.Request.Context(), func(tx pgx.Tx) error {
		if err := h.Store.UpdateAppointmentStatus(c.Request.Context(), tx, accountID(c), appointment.ID, newStatus); err != nil {
			return err
		}
		if err := h.Store.IncrementCustomerStrikes(c.Request.Context(), tx, accountID(c), customer.ID, cancellations, noShows); err != nil {
			return err
		}
		return h.Store.InsertCustomerEvent(c.Request.Context(), tx, event)
	})
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to record skip", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointment_id": appointment.ID,
		"status":         newStatus,
		"event":          event,
	})
}

// @Summary Structured skip/cancel history for a customer
// @Tags customers
// @Produce json
// @Param id path string true "Customer ID"
// @Param limit query int false "Max events, default 50"
// @Success 200 {object} map[string]any
// @Router /api/customers/{id}/events [get]
func (h *Handler) CustomerEvents(c *gin.Context) {
	if _, err := h.Store.GetCustomer(c.Request.Context(), accountID(c), c.Param("id")); err != nil {
		if isNoRows(err) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Customer not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load customer", err.Error())
		return
	}

	limit := atoiDefault(c.Query("limit"), 50)
	events, err := h.Store.ListCustomerEvents(c.Request.Context(), accountID(c), c.Param("id"), limit)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list events", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": events, "limit": limit})
}
