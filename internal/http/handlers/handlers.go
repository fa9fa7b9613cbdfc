package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/groomroute/backend/internal/config"
	"github.com/groomroute/backend/internal/db"
	"github.com/groomroute/backend/internal/geocode"
	"github.com/groomroute/backend/internal/http/middleware"
	"github.com/groomroute/backend/internal/models"
	"github.com/groomroute/backend/internal/service"
)

type Handler struct {
	Store     *db.Store
	Geocoder  geocode.Geocoder
	Validator *validator.Validate
	Logger    zerolog.Logger
	Cfg       config.Config
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

func accountID(c *gin.Context) string {
	return c.GetString(middleware.AccountIDKey)
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// accountLocation loads the tenant's timezone; every date-boundary
// computation runs in it, never in the process-local zone.
func (h *Handler) accountLocation(ctx context.Context, accountID string) (*time.Location, error) {
	account, err := h.Store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(account.Timezone)
}

// parseDate parses a YYYY-MM-DD value as midnight in the given location.
func parseDate(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, value, loc)
}

// dayBounds returns [midnight, next midnight) for a date in the account
// timezone.
func dayBounds(date time.Time) (time.Time, time.Time) {
	return date, date.AddDate(0, 0, 1)
}

func (h *Handler) breakPolicy() service.BreakPolicy {
	return service.BreakPolicy{
		RestAfterWorkedMinutes:  h.Cfg.BreakAfterWorkedMinutes,
		RestAfterWeightLbs:      h.Cfg.BreakAfterWeightLbs,
		LunchAfterWorkedMinutes: h.Cfg.LunchAfterWorkedMinutes,
		RestMinutes:             h.Cfg.BreakMinutesShort,
		LunchMinutes:            h.Cfg.BreakMinutesLunch,
	}
}

func (h *Handler) watchlistWeights() service.WatchlistWeights {
	return service.WatchlistWeights{
		Day:         h.Cfg.WatchlistWeightDay,
		Time:        h.Cfg.WatchlistWeightTime,
		Area:        h.Cfg.WatchlistWeightArea,
		Proximity:   h.Cfg.WatchlistWeightProximity,
		Value:       h.Cfg.WatchlistWeightValue,
		Reliability: h.Cfg.WatchlistWeightReliability,
	}
}

// loadGroomer fetches a groomer scoped to the account, mapping a miss to a
// not-found response. Returns false when the response was already written.
func (h *Handler) loadGroomer(c *gin.Context) (models.Groomer, bool) {
	groomer, err := h.Store.GetGroomer(c.Request.Context(), accountID(c), c.Param("id"))
	if err != nil {
		if isNoRows(err) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Groomer not found", nil)
		} else {
			writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load groomer", err.Error())
		}
		return models.Groomer{}, false
	}
	return groomer, true
}
