package service

import (
	"strings"
	"time"

	"github.com/groomroute/backend/internal/models"
	"github.com/groomroute/backend/internal/utils"
)

// Location is a customer position as known at match time. Zip and
// coordinates are independently optional; geocoding failures upstream leave
// Lat/Lng nil.
type Location struct {
	ZipCode string
	Lat     *float64
	Lng     *float64
}

// FindMatchingArea resolves the first area the location belongs to. Zip
// membership is checked across all areas before any radius containment, so a
// zip match always wins over a geographic one. Within each pass the supplied
// order decides ties; callers pass areas in a deterministic order
// (alphabetical by name from storage).
func FindMatchingArea(areas []models.ServiceArea, loc Location) *models.ServiceArea {
	zip := strings.TrimSpace(loc.ZipCode)
	if zip != "" {
		for i := range areas {
			for _, z := range areas[i].ZipCodes {
				if strings.TrimSpace(z) == zip {
					return &areas[i]
				}
			}
		}
	}

	if loc.Lat == nil || loc.Lng == nil {
		return nil
	}
	for i := range areas {
		a := areas[i]
		if a.CenterLat == nil || a.CenterLng == nil || a.RadiusMiles == nil {
			continue
		}
		d := utils.HaversineMiles(*loc.Lat, *loc.Lng, *a.CenterLat, *a.CenterLng)
		if d <= *a.RadiusMiles {
			return &areas[i]
		}
	}
	return nil
}

// ResolveAreaForDate returns the area a groomer covers on one calendar date.
// A date-specific override replaces the weekday default for that date only.
// The date must already be in the account's timezone.
func ResolveAreaForDate(defaults []models.AreaDayAssignment, overrides []models.AreaDayOverride, date time.Time) (string, bool) {
	day := date.Format(time.DateOnly)
	for _, o := range overrides {
		if o.Date == day {
			return o.AreaID, true
		}
	}
	weekday := int(date.Weekday())
	for _, d := range defaults {
		if d.Weekday == weekday {
			return d.AreaID, true
		}
	}
	return "", false
}

// DateArea is one resolved (date, area) pair within a range.
type DateArea struct {
	Date   string `json:"date"` // YYYY-MM-DD
	AreaID string `json:"area_id"`
}

// AreasForDateRange expands weekday defaults over [from, to] inclusive,
// letting per-date overrides replace the default on their date. Dates with
// neither an override nor a default for their weekday are omitted.
func AreasForDateRange(defaults []models.AreaDayAssignment, overrides []models.AreaDayOverride, from, to time.Time) []DateArea {
	var out []DateArea
	for d := truncateToMidnight(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		if areaID, ok := ResolveAreaForDate(defaults, overrides, d); ok {
			out = append(out, DateArea{Date: d.Format(time.DateOnly), AreaID: areaID})
		}
	}
	return out
}

// FindNextAreaDayDate scans forward from the start date (inclusive, truncated
// to midnight) and returns the first date on which the groomer covers the
// target area, honoring overrides. Returns false when no date within
// horizonDays matches.
func FindNextAreaDayDate(defaults []models.AreaDayAssignment, overrides []models.AreaDayOverride, areaID string, from time.Time, horizonDays int) (time.Time, bool) {
	if horizonDays <= 0 {
		horizonDays = 30
	}
	d := truncateToMidnight(from)
	for i := 0; i < horizonDays; i++ {
		if got, ok := ResolveAreaForDate(defaults, overrides, d); ok && got == areaID {
			return d, true
		}
		d = d.AddDate(0, 0, 1)
	}
	return time.Time{}, false
}

func truncateToMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
