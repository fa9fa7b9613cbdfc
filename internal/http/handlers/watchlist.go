package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/groomroute/backend/internal/service"
)

// @Summary Ranked waitlist fill-in suggestions for a groomer's day
// @Tags watchlist
// @Produce json
// @Param groomer_id query string true "Groomer ID"
// @Param date query string true "Target date YYYY-MM-DD"
// @Param limit query int false "Max suggestions, default 10"
// @Param min_reliability query string false "Minimum reliability tier (A-D)"
// @Param value_tiers query string false "Comma-separated allowed value tiers"
// @Param max_distance query number false "Maximum miles from scheduled stops"
// @Success 200 {object} map[string]any
// @Router /api/watchlist/suggestions [get]
func (h *Handler) WatchlistSuggestions(c *gin.Context) {
	groomerID := strings.TrimSpace(c.Query("groomer_id"))
	if groomerID == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "groomer_id is required", nil)
		return
	}
	groomer, err := h.Store.GetGroomer(c.Request.Context(), accountID(c), groomerID)
	if err != nil {
		if isNoRows(err) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Groomer not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load groomer", err.Error())
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

	params := service.WatchlistParams{
		TargetDate: date,
		WorkStart:  groomer.WorkStart,
		WorkEnd:    groomer.WorkEnd,
		Limit:      atoiDefault(c.Query("limit"), 10),
	}

	if raw := strings.ToUpper(strings.TrimSpace(c.Query("min_reliability"))); raw != "" {
		switch tier := service.ReliabilityTier(raw); tier {
		case service.ReliabilityA, service.ReliabilityB, service.ReliabilityC, service.ReliabilityD:
			params.MinReliability = tier
		default:
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "min_reliability must be A, B, C or D", nil)
			return
		}
	}
	if raw := strings.TrimSpace(c.Query("value_tiers")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			switch tier := service.ValueTier(strings.ToUpper(strings.TrimSpace(part))); tier {
			case service.ValueHigh, service.ValueMedium, service.ValueLow:
				params.ValueTiers = append(params.ValueTiers, tier)
			default:
				writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "value_tiers must be HIGH, MEDIUM or LOW", nil)
				return
			}
		}
	}
	if raw := strings.TrimSpace(c.Query("max_distance")); raw != "" {
		maxD, err := strconv.ParseFloat(raw, 64)
		if err != nil || maxD <= 0 {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "max_distance must be a positive number", nil)
			return
		}
		params.MaxDistanceMiles = &maxD
	}

	defaults, overrides, err := h.areaSchedule(c, groomer.ID, date, date)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load area assignments", err.Error())
		return
	}
	if areaID, found := service.ResolveAreaForDate(defaults, overrides, date); found {
		params.GroomerAreaID = areaID
	}

	dayStart, dayEnd := dayBounds(date)
	stops, err := h.Store.DayStopCustomers(c.Request.Context(), accountID(c), groomer.ID, dayStart, dayEnd)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load scheduled stops", err.Error())
		return
	}
	stopLocations := make([]service.Location, 0, len(stops))
	for _, s := range stops {
		stopLocations = append(stopLocations, service.Location{ZipCode: s.ZipCode, Lat: s.Lat, Lng: s.Lng})
	}

	rows, err := h.Store.ListWaitlistCandidates(c.Request.Context(), accountID(c))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load waitlist", err.Error())
		return
	}
	candidates := make([]service.WatchlistCandidate, 0, len(rows))
	for _, r := range rows {
		candidates = append(candidates, service.WatchlistCandidate{Entry: r.Entry, Customer: r.Customer})
	}

	suggestions := service.RankWatchlist(candidates, stopLocations, params, h.watchlistWeights())
	c.JSON(http.StatusOK, gin.H{
		"groomer_id":  groomer.ID,
		"date":        c.Query("date"),
		"area_id":     params.GroomerAreaID,
		"suggestions": suggestions,
	})
}
