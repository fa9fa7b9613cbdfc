package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/groomroute/backend/internal/models"
)

var (
	ErrUnknownAppointment = errors.New("appointment not in route")
	ErrNotReorderable     = errors.New("appointment cannot be reordered")
	ErrDuplicateID        = errors.New("duplicate appointment id in order")
	ErrOrderIncomplete    = errors.New("order must name every fetched appointment exactly once")
)

// ReorderItem is the per-appointment outcome of a route re-sequencing.
type ReorderItem struct {
	AppointmentID string    `json:"appointment_id"`
	OldStart      time.Time `json:"old_start"`
	NewStart      time.Time `json:"new_start"`
	Version       int       `json:"-"`
	Changed       bool      `json:"changed"`
}

// PlanReorder reassigns the day's existing time slots to the caller-supplied
// stop order. The slot set is the fetched appointments' current starts sorted
// ascending; slot i goes to the appointment at position i of orderedIDs. The
// multiset of start times is unchanged; only the appointment-to-slot mapping
// moves. Any unknown, duplicated, or non-reorderable id fails the whole plan.
func PlanReorder(appointments []models.Appointment, orderedIDs []string) ([]ReorderItem, error) {
	if len(orderedIDs) != len(appointments) {
		return nil, ErrOrderIncomplete
	}

	byID := make(map[string]models.Appointment, len(appointments))
	for _, a := range appointments {
		if !a.Status.Reorderable() {
			return nil, fmt.Errorf("%w: %s is %s", ErrNotReorderable, a.ID, a.Status)
		}
		byID[a.ID] = a
	}

	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAppointment, id)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		seen[id] = true
	}

	slots := make([]time.Time, 0, len(appointments))
	for _, a := range appointments {
		slots = append(slots, a.StartAt)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Before(slots[j]) })

	items := make([]ReorderItem, 0, len(orderedIDs))
	for i, id := range orderedIDs {
		a := byID[id]
		items = append(items, ReorderItem{
			AppointmentID: id,
			OldStart:      a.StartAt,
			NewStart:      slots[i],
			Version:       a.Version,
			Changed:       !a.StartAt.Equal(slots[i]),
		})
	}
	return items, nil
}

// SameCalendarDay reports whether two instants fall on the same calendar date
// in the given location. Reorders are only allowed for the current day in the
// account's timezone.
func SameCalendarDay(a, b time.Time, loc *time.Location) bool {
	return a.In(loc).Format(time.DateOnly) == b.In(loc).Format(time.DateOnly)
}
