package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/groomroute/backend/internal/models"
)

const (
	DefaultDurationMinutes = 60
	MinDurationMinutes     = 30
	MaxDurationMinutes     = 180
)

// ClampDuration forces a requested duration into the bookable range,
// substituting the default when the caller passed nothing.
func ClampDuration(minutes int) int {
	if minutes == 0 {
		return DefaultDurationMinutes
	}
	if minutes < MinDurationMinutes {
		return MinDurationMinutes
	}
	if minutes > MaxDurationMinutes {
		return MaxDurationMinutes
	}
	return minutes
}

// Overlaps reports whether two half-open intervals [s1,e1) and [s2,e2)
// intersect. Touching endpoints do not conflict.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// HasConflict checks a candidate interval against existing appointments.
// Cancelled and no-show appointments never occupy their slot. The buffer is
// added after each existing appointment's end only, never before its start.
// excludeID lets edit flows ignore the appointment being moved.
func HasConflict(start time.Time, durationMinutes int, existing []models.Appointment, buffer time.Duration, excludeID string) (bool, *models.Appointment) {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	for i := range existing {
		a := existing[i]
		if a.ID == excludeID || !a.Status.CountsForSchedule() {
			continue
		}
		if Overlaps(start, end, a.StartAt, a.EndAt().Add(buffer)) {
			return true, &existing[i]
		}
	}
	return false, nil
}

// Slot is one offered availability window.
type Slot struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	StartLabel string    `json:"start_label"` // HH:MM in the account timezone
}

// SlotSummary is the slot list plus the counts the booking page shows.
type SlotSummary struct {
	Available       []Slot `json:"available"`
	CandidateCount  int    `json:"candidate_count"`
	AvailableCount  int    `json:"available_count"`
	DurationMinutes int    `json:"duration_minutes"`
}

// AvailableSlots enumerates candidate starts every stepMinutes from the
// groomer's opening time and keeps those that fit entirely inside working
// hours and clear every existing appointment plus the travel buffer. date is
// midnight of the target day in the account timezone.
func AvailableSlots(date time.Time, workStart, workEnd string, durationMinutes, stepMinutes int, bufferMinutes int, existing []models.Appointment) (SlotSummary, error) {
	durationMinutes = ClampDuration(durationMinutes)
	if stepMinutes <= 0 {
		stepMinutes = 30
	}

	open, err := ClockOnDate(date, workStart)
	if err != nil {
		return SlotSummary{}, fmt.Errorf("work start: %w", err)
	}
	close, err := ClockOnDate(date, workEnd)
	if err != nil {
		return SlotSummary{}, fmt.Errorf("work end: %w", err)
	}

	summary := SlotSummary{DurationMinutes: durationMinutes}
	buffer := time.Duration(bufferMinutes) * time.Minute
	duration := time.Duration(durationMinutes) * time.Minute

	for t := open; !t.Add(duration).After(close); t = t.Add(time.Duration(stepMinutes) * time.Minute) {
		summary.CandidateCount++
		if conflict, _ := HasConflict(t, durationMinutes, existing, buffer, ""); conflict {
			continue
		}
		summary.Available = append(summary.Available, Slot{
			Start:      t,
			End:        t.Add(duration),
			StartLabel: t.Format("15:04"),
		})
	}
	summary.AvailableCount = len(summary.Available)
	return summary, nil
}

// ParseClock parses an HH:MM 24-hour string into minutes past midnight.
func ParseClock(value string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", value)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", value)
	}
	return h*60 + m, nil
}

// ClockOnDate places an HH:MM clock value onto a calendar date, keeping the
// date's location.
func ClockOnDate(date time.Time, clock string) (time.Time, error) {
	mins, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), mins/60, mins%60, 0, 0, date.Location()), nil
}
