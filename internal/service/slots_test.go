package service

import (
	"testing"
	"time"

	"github.com/groomroute/backend/internal/models"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return parsed
}

func TestOverlapsSymmetry(t *testing.T) {
	s1 := mustTime(t, "2026-08-31 09:00")
	e1 := mustTime(t, "2026-08-31 10:30")
	s2 := mustTime(t, "2026-08-31 10:00")
	e2 := mustTime(t, "2026-08-31 11:00")

	if !Overlaps(s1, e1, s2, e2) || !Overlaps(s2, e2, s1, e1) {
		t.Fatal("expected symmetric overlap")
	}
}

func TestOverlapsBackToBack(t *testing.T) {
	s1 := mustTime(t, "2026-08-31 09:00")
	e1 := mustTime(t, "2026-08-31 10:00")
	s2 := mustTime(t, "2026-08-31 10:00")
	e2 := mustTime(t, "2026-08-31 11:00")

	if Overlaps(s1, e1, s2, e2) || Overlaps(s2, e2, s1, e1) {
		t.Fatal("back-to-back intervals must not conflict")
	}
}

func TestHasConflictSkipsCancelledAndExcluded(t *testing.T) {
	existing := []models.Appointment{
		{ID: "a1", StartAt: mustTime(t, "2026-08-31 09:00"), ServiceMinutes: 60, Status: models.StatusCancelled},
		{ID: "a2", StartAt: mustTime(t, "2026-08-31 09:30"), ServiceMinutes: 60, Status: models.StatusScheduled},
	}

	conflict, with := HasConflict(mustTime(t, "2026-08-31 09:00"), 60, existing, 0, "")
	if !conflict || with.ID != "a2" {
		t.Fatalf("expected conflict with a2, got %v %+v", conflict, with)
	}

	conflict, _ = HasConflict(mustTime(t, "2026-08-31 09:00"), 60, existing, 0, "a2")
	if conflict {
		t.Fatal("expected no conflict once a2 is excluded")
	}
}

func TestHasConflictBufferIsOneDirectional(t *testing.T) {
	existing := []models.Appointment{
		{ID: "a1", StartAt: mustTime(t, "2026-08-31 10:00"), ServiceMinutes: 60, Status: models.StatusScheduled},
	}
	buffer := 15 * time.Minute

	// 11:00 start collides with the 15-minute tail buffer after 11:00 end.
	if conflict, _ := HasConflict(mustTime(t, "2026-08-31 11:00"), 60, existing, buffer, ""); !conflict {
		t.Fatal("expected buffer after the appointment to conflict")
	}
	// 09:00-10:00 touches the start; no buffer is applied before.
	if conflict, _ := HasConflict(mustTime(t, "2026-08-31 09:00"), 60, existing, buffer, ""); conflict {
		t.Fatal("expected no buffer before the appointment")
	}
}

func TestAvailableSlotsLastStart(t *testing.T) {
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	summary, err := AvailableSlots(date, "09:00", "17:00", 60, 30, 15, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := summary.Available[len(summary.Available)-1]
	if last.StartLabel != "16:00" {
		t.Fatalf("expected last 60-minute slot at 16:00, got %s", last.StartLabel)
	}

	summary, err = AvailableSlots(date, "09:00", "17:00", 90, 30, 15, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last = summary.Available[len(summary.Available)-1]
	if last.StartLabel != "15:30" {
		t.Fatalf("expected last 90-minute slot at 15:30, got %s", last.StartLabel)
	}
}

func TestAvailableSlotsAppliesBuffer(t *testing.T) {
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	existing := []models.Appointment{
		{ID: "a1", StartAt: date.Add(10 * time.Hour), ServiceMinutes: 60, Status: models.StatusScheduled},
	}

	summary, err := AvailableSlots(date, "09:00", "12:00", 60, 30, 15, existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 09:00 fits. 10:00 and 10:30 hit the appointment, 11:00 hits its
	// 15-minute buffer. Nothing else fits before noon.
	if len(summary.Available) != 1 || summary.Available[0].StartLabel != "09:00" {
		t.Fatalf("expected only 09:00, got %+v", summary.Available)
	}
	if summary.CandidateCount != 5 {
		t.Fatalf("expected 5 candidates, got %d", summary.CandidateCount)
	}
}

func TestAvailableSlotsDurationClamp(t *testing.T) {
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	summary, err := AvailableSlots(date, "09:00", "17:00", 15, 30, 15, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.DurationMinutes != MinDurationMinutes {
		t.Fatalf("expected clamp to %d, got %d", MinDurationMinutes, summary.DurationMinutes)
	}

	summary, _ = AvailableSlots(date, "09:00", "17:00", 500, 30, 15, nil)
	if summary.DurationMinutes != MaxDurationMinutes {
		t.Fatalf("expected clamp to %d, got %d", MaxDurationMinutes, summary.DurationMinutes)
	}

	summary, _ = AvailableSlots(date, "09:00", "17:00", 0, 30, 15, nil)
	if summary.DurationMinutes != DefaultDurationMinutes {
		t.Fatalf("expected default %d, got %d", DefaultDurationMinutes, summary.DurationMinutes)
	}
}

func TestParseClock(t *testing.T) {
	mins, err := ParseClock("09:30")
	if err != nil || mins != 570 {
		t.Fatalf("expected 570, got %d err=%v", mins, err)
	}
	for _, bad := range []string{"9am", "25:00", "09:70", ""} {
		if _, err := ParseClock(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
