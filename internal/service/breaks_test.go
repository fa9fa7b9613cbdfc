package service

import (
	"testing"

	"github.com/groomroute/backend/internal/models"
)

func testPolicy() BreakPolicy {
	return BreakPolicy{
		RestAfterWorkedMinutes:  180,
		RestAfterWeightLbs:      300,
		LunchAfterWorkedMinutes: 300,
		RestMinutes:             15,
		LunchMinutes:            30,
	}
}

func appt(t *testing.T, id, start string, minutes int, weight float64) models.Appointment {
	t.Helper()
	return models.Appointment{
		ID:             id,
		StartAt:        mustTime(t, start),
		ServiceMinutes: minutes,
		Status:         models.StatusScheduled,
		PetWeightLbs:   weight,
	}
}

func takenBreak(t *testing.T, breakType models.BreakType, start string, minutes int) models.Break {
	t.Helper()
	at := mustTime(t, start)
	return models.Break{ID: "b-" + start, Type: breakType, Taken: true, ActualStart: &at, ActualMinutes: minutes}
}

func TestSummarizeBreaks(t *testing.T) {
	breaks := []models.Break{
		takenBreak(t, models.BreakRest, "2026-08-31 10:30", 15),
		takenBreak(t, models.BreakLunch, "2026-08-31 12:00", 30),
		{ID: "planned", Type: models.BreakRest, Taken: false},
	}
	stats := SummarizeBreaks(breaks)
	if stats.TakenCount != 2 || stats.TotalMinutes != 45 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.LastBreakEnd == nil || stats.LastBreakEnd.Format("15:04") != "12:30" {
		t.Fatalf("expected last break end 12:30, got %v", stats.LastBreakEnd)
	}
}

func TestSuggestBreakNoWorkYet(t *testing.T) {
	appointments := []models.Appointment{appt(t, "a1", "2026-08-31 13:00", 60, 40)}
	got := SuggestBreak(appointments, nil, mustTime(t, "2026-08-31 08:00"), testPolicy())
	if got.Recommended {
		t.Fatalf("expected no suggestion before any work, got %+v", got)
	}
}

func TestSuggestBreakLongStretch(t *testing.T) {
	appointments := []models.Appointment{
		appt(t, "a1", "2026-08-31 08:00", 90, 20),
		appt(t, "a2", "2026-08-31 09:30", 90, 25),
	}
	got := SuggestBreak(appointments, nil, mustTime(t, "2026-08-31 11:00"), testPolicy())
	if !got.Recommended || got.Type != models.BreakRest {
		t.Fatalf("expected rest suggestion after 180 worked minutes, got %+v", got)
	}
}

func TestSuggestBreakHeavyDogsBeatClock(t *testing.T) {
	// Only 120 worked minutes, but two very heavy dogs finished.
	appointments := []models.Appointment{
		appt(t, "a1", "2026-08-31 08:00", 60, 160),
		appt(t, "a2", "2026-08-31 09:00", 60, 150),
	}
	got := SuggestBreak(appointments, nil, mustTime(t, "2026-08-31 10:00"), testPolicy())
	if !got.Recommended || got.Type != models.BreakRest {
		t.Fatalf("expected weight-driven rest suggestion, got %+v", got)
	}

	// The same schedule with light dogs earns no suggestion.
	appointments[0].PetWeightLbs = 12
	appointments[1].PetWeightLbs = 18
	got = SuggestBreak(appointments, nil, mustTime(t, "2026-08-31 10:00"), testPolicy())
	if got.Recommended {
		t.Fatalf("expected no suggestion for light dogs, got %+v", got)
	}
}

func TestSuggestBreakResetsAfterBreak(t *testing.T) {
	appointments := []models.Appointment{
		appt(t, "a1", "2026-08-31 08:00", 180, 40),
		appt(t, "a2", "2026-08-31 11:15", 60, 30),
	}
	breaks := []models.Break{takenBreak(t, models.BreakRest, "2026-08-31 11:00", 15)}

	got := SuggestBreak(appointments, breaks, mustTime(t, "2026-08-31 11:45"), testPolicy())
	if got.Recommended {
		t.Fatalf("expected counters to reset after the 11:00 break, got %+v", got)
	}
}

func TestSuggestBreakLunchPriority(t *testing.T) {
	appointments := []models.Appointment{
		appt(t, "a1", "2026-08-31 07:00", 180, 40),
		appt(t, "a2", "2026-08-31 10:00", 180, 40),
	}
	got := SuggestBreak(appointments, nil, mustTime(t, "2026-08-31 13:00"), testPolicy())
	if !got.Recommended || got.Type != models.BreakLunch {
		t.Fatalf("expected lunch suggestion, got %+v", got)
	}

	// Once lunch is taken the same day can still earn a rest.
	breaks := []models.Break{takenBreak(t, models.BreakLunch, "2026-08-31 13:00", 30)}
	appointments = append(appointments, appt(t, "a3", "2026-08-31 13:30", 180, 40))
	got = SuggestBreak(appointments, breaks, mustTime(t, "2026-08-31 16:30"), testPolicy())
	if !got.Recommended || got.Type != models.BreakRest {
		t.Fatalf("expected rest after lunch, got %+v", got)
	}
}

func TestSuggestBreakDeterministic(t *testing.T) {
	appointments := []models.Appointment{
		appt(t, "a1", "2026-08-31 08:00", 120, 55),
		appt(t, "a2", "2026-08-31 10:00", 120, 65),
	}
	now := mustTime(t, "2026-08-31 12:00")
	first := SuggestBreak(appointments, nil, now, testPolicy())
	second := SuggestBreak(appointments, nil, now, testPolicy())
	if first != second {
		t.Fatalf("expected identical suggestions, got %+v vs %+v", first, second)
	}
}
