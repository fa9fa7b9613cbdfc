package service

import (
	"github.com/groomroute/backend/internal/models"
)

// HoursVerdict classifies a manually entered time against working hours.
// The four outcomes are mutually exclusive and cover every input.
type HoursVerdict string

const (
	WithinHours     HoursVerdict = "WITHIN_HOURS"
	BeforeWorkday   HoursVerdict = "BEFORE_WORKDAY"
	AtOrAfterClose  HoursVerdict = "AT_OR_AFTER_CLOSE"
	EndsAfterClose  HoursVerdict = "ENDS_AFTER_CLOSE"
)

type HoursCheck struct {
	Verdict        HoursVerdict `json:"verdict"`
	MinutesOutside int          `json:"minutes_outside"`
}

// CheckWorkingHours classifies a candidate HH:MM start (optionally with a
// duration) against the groomer's working hours and reports how far outside
// them the violation lands, in minutes.
func CheckWorkingHours(start string, durationMinutes int, workStart, workEnd string) (HoursCheck, error) {
	st, err := ParseClock(start)
	if err != nil {
		return HoursCheck{}, err
	}
	open, err := ParseClock(workStart)
	if err != nil {
		return HoursCheck{}, err
	}
	close, err := ParseClock(workEnd)
	if err != nil {
		return HoursCheck{}, err
	}

	if st < open {
		return HoursCheck{Verdict: BeforeWorkday, MinutesOutside: open - st}, nil
	}
	if st >= close {
		return HoursCheck{Verdict: AtOrAfterClose, MinutesOutside: st - close}, nil
	}
	if durationMinutes > 0 && st+durationMinutes > close {
		return HoursCheck{Verdict: EndsAfterClose, MinutesOutside: st + durationMinutes - close}, nil
	}
	return HoursCheck{Verdict: WithinHours}, nil
}

// LargeDogReport describes how close a groomer's day is to the large-dog cap.
// A nil limit means uncapped, in which case RemainingSlots is nil too.
type LargeDogReport struct {
	LargeDogCount  int  `json:"large_dog_count"`
	Limit          *int `json:"limit"`
	AtLimit        bool `json:"at_limit"`
	OverLimit      bool `json:"over_limit"`
	RemainingSlots *int `json:"remaining_slots"`
}

// LargeDogCapacity counts non-cancelled appointments whose pet weighs more
// than weightThreshold pounds, excluding excludeID for edit flows, and
// compares against the groomer's daily limit.
func LargeDogCapacity(appointments []models.Appointment, excludeID string, weightThreshold float64, limit *int) LargeDogReport {
	report := LargeDogReport{Limit: limit}
	for _, a := range appointments {
		if a.ID == excludeID || !a.Status.CountsForSchedule() {
			continue
		}
		if a.PetWeightLbs > weightThreshold {
			report.LargeDogCount++
		}
	}
	if limit == nil {
		return report
	}
	report.AtLimit = report.LargeDogCount >= *limit
	report.OverLimit = report.LargeDogCount > *limit
	remaining := *limit - report.LargeDogCount
	if remaining < 0 {
		remaining = 0
	}
	report.RemainingSlots = &remaining
	return report
}
