package service

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/groomroute/backend/internal/models"
)

func routeAppointments(t *testing.T) []models.Appointment {
	t.Helper()
	return []models.Appointment{
		{ID: "A", StartAt: mustTime(t, "2026-08-31 09:00"), ServiceMinutes: 60, Status: models.StatusScheduled, Version: 1},
		{ID: "B", StartAt: mustTime(t, "2026-08-31 10:00"), ServiceMinutes: 60, Status: models.StatusScheduled, Version: 4},
		{ID: "C", StartAt: mustTime(t, "2026-08-31 11:00"), ServiceMinutes: 60, Status: models.StatusConfirmed, Version: 2},
	}
}

func TestPlanReorderSlotSwap(t *testing.T) {
	items, err := PlanReorder(routeAppointments(t), []string{"C", "A", "B"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{"C": "09:00", "A": "10:00", "B": "11:00"}
	for _, item := range items {
		if got := item.NewStart.Format("15:04"); got != want[item.AppointmentID] {
			t.Fatalf("%s: expected %s, got %s", item.AppointmentID, want[item.AppointmentID], got)
		}
		if !item.Changed {
			t.Fatalf("%s: expected changed", item.AppointmentID)
		}
	}
}

func TestPlanReorderPreservesSlotMultiset(t *testing.T) {
	appointments := routeAppointments(t)
	items, err := PlanReorder(appointments, []string{"B", "C", "A"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var before, after []time.Time
	for _, a := range appointments {
		before = append(before, a.StartAt)
	}
	for _, item := range items {
		after = append(after, item.NewStart)
	}
	sort.Slice(before, func(i, j int) bool { return before[i].Before(before[j]) })
	sort.Slice(after, func(i, j int) bool { return after[i].Before(after[j]) })
	for i := range before {
		if !before[i].Equal(after[i]) {
			t.Fatalf("slot multiset changed at %d: %s vs %s", i, before[i], after[i])
		}
	}
}

func TestPlanReorderIdentityOrderUnchanged(t *testing.T) {
	items, err := PlanReorder(routeAppointments(t), []string{"A", "B", "C"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, item := range items {
		if item.Changed {
			t.Fatalf("%s: expected unchanged", item.AppointmentID)
		}
	}
}

func TestPlanReorderIdempotent(t *testing.T) {
	appointments := routeAppointments(t)
	first, err := PlanReorder(appointments, []string{"C", "A", "B"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Apply and re-plan with the same requested order: same final times.
	moved := make([]models.Appointment, len(appointments))
	copy(moved, appointments)
	for i := range moved {
		for _, item := range first {
			if moved[i].ID == item.AppointmentID {
				moved[i].StartAt = item.NewStart
			}
		}
	}
	second, err := PlanReorder(moved, []string{"C", "A", "B"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range second {
		if !second[i].NewStart.Equal(first[i].NewStart) {
			t.Fatalf("retry diverged for %s", second[i].AppointmentID)
		}
		if second[i].Changed {
			t.Fatalf("retry should be a no-op for %s", second[i].AppointmentID)
		}
	}
}

func TestPlanReorderRejectsUnknownID(t *testing.T) {
	_, err := PlanReorder(routeAppointments(t), []string{"A", "B", "Z"})
	if !errors.Is(err, ErrUnknownAppointment) {
		t.Fatalf("expected ErrUnknownAppointment, got %v", err)
	}
}

func TestPlanReorderRejectsDuplicates(t *testing.T) {
	_, err := PlanReorder(routeAppointments(t), []string{"A", "A", "B"})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestPlanReorderRejectsIncompleteOrder(t *testing.T) {
	_, err := PlanReorder(routeAppointments(t), []string{"A", "B"})
	if !errors.Is(err, ErrOrderIncomplete) {
		t.Fatalf("expected ErrOrderIncomplete, got %v", err)
	}
}

func TestPlanReorderRejectsTerminalStatuses(t *testing.T) {
	for _, status := range []models.AppointmentStatus{models.StatusCancelled, models.StatusNoShow, models.StatusCompleted} {
		appointments := routeAppointments(t)
		appointments[1].Status = status
		_, err := PlanReorder(appointments, []string{"A", "B", "C"})
		if !errors.Is(err, ErrNotReorderable) {
			t.Fatalf("status %s: expected ErrNotReorderable, got %v", status, err)
		}
	}
}

func TestSameCalendarDay(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	// 06:30 UTC on Sep 1 is still Aug 31 in Los Angeles.
	a := time.Date(2026, 9, 1, 6, 30, 0, 0, time.UTC)
	b := time.Date(2026, 8, 31, 12, 0, 0, 0, la)
	if !SameCalendarDay(a, b, la) {
		t.Fatal("expected same LA calendar day")
	}
	if SameCalendarDay(a, b, time.UTC) {
		t.Fatal("expected different UTC calendar days")
	}
}
