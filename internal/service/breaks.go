package service

import (
	"time"

	"github.com/groomroute/backend/internal/models"
)

// BreakPolicy holds the rest-suggestion thresholds. Exertion is approximated
// by cumulative pet weight groomed since the last break, not wall-clock time
// alone; the work is physical and heavy dogs cost more than long gaps.
type BreakPolicy struct {
	RestAfterWorkedMinutes  int
	RestAfterWeightLbs      float64
	LunchAfterWorkedMinutes int
	RestMinutes             int
	LunchMinutes            int
}

type BreakStats struct {
	TakenCount   int        `json:"taken_count"`
	TotalMinutes int        `json:"total_minutes"`
	LastBreakEnd *time.Time `json:"last_break_end"`
}

type BreakSuggestion struct {
	Recommended bool             `json:"recommended"`
	Type        models.BreakType `json:"type,omitempty"`
	Minutes     int              `json:"minutes,omitempty"`
	Reason      string           `json:"reason,omitempty"`
}

// SummarizeBreaks aggregates the breaks already taken today.
func SummarizeBreaks(breaks []models.Break) BreakStats {
	var stats BreakStats
	for _, b := range breaks {
		if !b.Taken || b.ActualStart == nil {
			continue
		}
		stats.TakenCount++
		stats.TotalMinutes += b.ActualMinutes
		end := b.ActualStart.Add(time.Duration(b.ActualMinutes) * time.Minute)
		if stats.LastBreakEnd == nil || end.After(*stats.LastBreakEnd) {
			e := end
			stats.LastBreakEnd = &e
		}
	}
	return stats
}

// SuggestBreak derives a single recommendation from the day so far. Pure:
// identical inputs always yield the identical suggestion.
//
// Worked minutes are appointment minutes elapsed between the last break's end
// (or the first appointment) and now; groomed weight is the summed pet weight
// of appointments finished in that window. Lunch wins over a rest suggestion
// once enough of the whole day has been worked and none was taken.
func SuggestBreak(appointments []models.Appointment, breaks []models.Break, now time.Time, policy BreakPolicy) BreakSuggestion {
	stats := SummarizeBreaks(breaks)

	working := make([]models.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if a.Status.CountsForSchedule() && a.StartAt.Before(now) {
			working = append(working, a)
		}
	}
	if len(working) == 0 {
		return BreakSuggestion{}
	}

	anchor := working[0].StartAt
	for _, a := range working {
		if a.StartAt.Before(anchor) {
			anchor = a.StartAt
		}
	}
	dayStart := anchor
	if stats.LastBreakEnd != nil && stats.LastBreakEnd.After(anchor) {
		anchor = *stats.LastBreakEnd
	}

	sinceBreak := workedMinutesBetween(working, anchor, now)
	sinceDayStart := workedMinutesBetween(working, dayStart, now)

	var groomedWeight float64
	for _, a := range working {
		end := a.EndAt()
		if !end.After(now) && end.After(anchor) {
			groomedWeight += a.PetWeightLbs
		}
	}

	lunchTaken := false
	for _, b := range breaks {
		if b.Taken && b.Type == models.BreakLunch {
			lunchTaken = true
		}
	}

	if !lunchTaken && sinceDayStart >= policy.LunchAfterWorkedMinutes && now.Hour() >= 11 {
		return BreakSuggestion{
			Recommended: true,
			Type:        models.BreakLunch,
			Minutes:     policy.LunchMinutes,
			Reason:      "no lunch yet after a long stretch of work",
		}
	}
	if groomedWeight >= policy.RestAfterWeightLbs {
		return BreakSuggestion{
			Recommended: true,
			Type:        models.BreakRest,
			Minutes:     policy.RestMinutes,
			Reason:      "heavy cumulative pet weight since the last break",
		}
	}
	if sinceBreak >= policy.RestAfterWorkedMinutes {
		return BreakSuggestion{
			Recommended: true,
			Type:        models.BreakRest,
			Minutes:     policy.RestMinutes,
			Reason:      "long continuous work since the last break",
		}
	}
	return BreakSuggestion{}
}

// workedMinutesBetween sums the portions of appointment intervals that fall
// inside [from, to).
func workedMinutesBetween(appointments []models.Appointment, from, to time.Time) int {
	var total time.Duration
	for _, a := range appointments {
		start, end := a.StartAt, a.EndAt()
		if start.Before(from) {
			start = from
		}
		if end.After(to) {
			end = to
		}
		if end.After(start) {
			total += end.Sub(start)
		}
	}
	return int(total / time.Minute)
}
