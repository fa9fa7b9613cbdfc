package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/groomroute/backend/internal/geocode"
	"github.com/groomroute/backend/internal/models"
	"github.com/groomroute/backend/internal/service"
)

// @Summary Resolved service area for a groomer on a date
// @Tags areas
// @Produce json
// @Param id path string true "Groomer ID"
// @Param date query string true "Date YYYY-MM-DD"
// @Success 200 {object} map[string]any
// @Router /api/groomers/{id}/area [get]
func (h *Handler) GroomerArea(c *gin.Context) {
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

	defaults, overrides, err := h.areaSchedule(c, groomer.ID, date, date)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load area assignments", err.Error())
		return
	}

	areaID, found := service.ResolveAreaForDate(defaults, overrides, date)
	if !found {
		c.JSON(http.StatusOK, gin.H{"date": c.Query("date"), "area": nil})
		return
	}
	area, err := h.Store.GetArea(c.Request.Context(), accountID(c), areaID)
	if err != nil {
		if isNoRows(err) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Assigned area no longer exists", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load area", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": c.Query("date"), "area": area})
}

// @Summary Next date a groomer covers an area
// @Tags areas
// @Produce json
// @Param id path string true "Groomer ID"
// @Param areaID path string true "Area ID"
// @Param from query string false "Start date YYYY-MM-DD, defaults to today"
// @Param horizon query int false "Scan horizon in days"
// @Success 200 {object} map[string]any
// @Router /api/groomers/{id}/areas/{areaID}/next-date [get]
func (h *Handler) NextAreaDate(c *gin.Context) {
	groomer, ok := h.loadGroomer(c)
	if !ok {
		return
	}
	loc, err := h.accountLocation(c.Request.Context(), accountID(c))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to resolve account timezone", err.Error())
		return
	}

	areaID := c.Param("areaID")
	if _, err := h.Store.GetArea(c.Request.Context(), accountID(c), areaID); err != nil {
		if isNoRows(err) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Area not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load area", err.Error())
		return
	}

	from := time.Now().In(loc)
	if raw := c.Query("from"); raw != "" {
		from, err = parseDate(raw, loc)
		if err != nil {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "from must be YYYY-MM-DD", nil)
			return
		}
	}
	horizon := atoiDefault(c.Query("horizon"), h.Cfg.AreaScanHorizonDays)

	defaults, overrides, err := h.areaSchedule(c, groomer.ID, from, from.AddDate(0, 0, horizon))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load area assignments", err.Error())
		return
	}

	next, found := service.FindNextAreaDayDate(defaults, overrides, areaID, from, horizon)
	if !found {
		c.JSON(http.StatusOK, gin.H{"area_id": areaID, "next_date": nil, "horizon_days": horizon})
		return
	}
	c.JSON(http.StatusOK, gin.H{"area_id": areaID, "next_date": next.Format(time.DateOnly), "horizon_days": horizon})
}

// @Summary Resolved areas for a groomer over a date range
// @Tags areas
// @Produce json
// @Param id path string true "Groomer ID"
// @Param from query string true "Start date YYYY-MM-DD"
// @Param to query string true "End date YYYY-MM-DD"
// @Success 200 {object} map[string]any
// @Router /api/groomers/{id}/areas [get]
func (h *Handler) GroomerAreaRange(c *gin.Context) {
	groomer, ok := h.loadGroomer(c)
	if !ok {
		return
	}
	loc, err := h.accountLocation(c.Request.Context(), accountID(c))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to resolve account timezone", err.Error())
		return
	}
	from, err := parseDate(c.Query("from"), loc)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "from must be YYYY-MM-DD", nil)
		return
	}
	to, err := parseDate(c.Query("to"), loc)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "to must be YYYY-MM-DD", nil)
		return
	}
	if to.Before(from) {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "to must not precede from", nil)
		return
	}

	defaults, overrides, err := h.areaSchedule(c, groomer.ID, from, to)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load area assignments", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": service.AreasForDateRange(defaults, overrides, from, to)})
}

type MatchAreaRequest struct {
	Geocode bool `json:"geocode"`
}

// @Summary Match a customer to a service area and persist the assignment
// @Tags areas
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} map[string]any
// @Router /api/customers/{id}/match-area [post]
func (h *Handler) MatchCustomerArea(c *gin.Context) {
	var req MatchAreaRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
			return
		}
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

	geocoded := false
	if req.Geocode && (customer.Lat == nil || customer.Lng == nil) && customer.Address != "" {
		result, err := h.Geocoder.Geocode(c.Request.Context(), customer.Address)
		switch {
		case err == nil:
			if updateErr := h.Store.UpdateCustomerLocation(c.Request.Context(), accountID(c), customer.ID, result.Lat, result.Lng); updateErr != nil {
				writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to store coordinates", updateErr.Error())
				return
			}
			customer.Lat, customer.Lng = &result.Lat, &result.Lng
			geocoded = true
		case errors.Is(err, geocode.ErrNotFound):
			// Matching falls back to zip-only; nullable coordinates are fine.
			h.Logger.Warn().Str("customer_id", customer.ID).Msg("address did not geocode")
		default:
			writeError(c, http.StatusBadGateway, "GEOCODE_ERROR", "Geocoding failed", err.Error())
			return
		}
	}

	areas, err := h.Store.ListAreas(c.Request.Context(), accountID(c))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load areas", err.Error())
		return
	}

	match := service.FindMatchingArea(areas, service.Location{
		ZipCode: customer.ZipCode,
		Lat:     customer.Lat,
		Lng:     customer.Lng,
	})
	if match == nil {
		if err := h.Store.UpdateCustomerArea(c.Request.Context(), accountID(c), customer.ID, nil); err != nil {
			writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to clear area assignment", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"matched": false, "geocoded": geocoded, "area": nil})
		return
	}

	if err := h.Store.UpdateCustomerArea(c.Request.Context(), accountID(c), customer.ID, &match.ID); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to assign area", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"matched": true, "geocoded": geocoded, "area": match})
}

// areaSchedule loads the weekday defaults plus any overrides between two
// dates for one groomer.
func (h *Handler) areaSchedule(c *gin.Context, groomerID string, from, to time.Time) ([]models.AreaDayAssignment, []models.AreaDayOverride, error) {
	defaults, err := h.Store.ListAreaDayAssignments(c.Request.Context(), accountID(c), groomerID)
	if err != nil {
		return nil, nil, err
	}
	overrides, err := h.Store.ListAreaDayOverrides(c.Request.Context(), accountID(c), groomerID,
		from.Format(time.DateOnly), to.Format(time.DateOnly))
	if err != nil {
		return nil, nil, err
	}
	return defaults, overrides, nil
}
