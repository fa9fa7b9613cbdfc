package models

import "time"

// AppointmentStatus is the closed set of appointment lifecycle states.
// Appointments are never deleted; they transition status instead.
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "SCHEDULED"
	StatusConfirmed  AppointmentStatus = "CONFIRMED"
	StatusInProgress AppointmentStatus = "IN_PROGRESS"
	StatusCompleted  AppointmentStatus = "COMPLETED"
	StatusCancelled  AppointmentStatus = "CANCELLED"
	StatusNoShow     AppointmentStatus = "NO_SHOW"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// CountsForSchedule reports whether an appointment in this status occupies
// its time slot for conflict and availability purposes.
func (s AppointmentStatus) CountsForSchedule() bool {
	return s != StatusCancelled && s != StatusNoShow
}

// Reorderable reports whether an appointment in this status may still be
// moved to a different slot on its day.
func (s AppointmentStatus) Reorderable() bool {
	return s.CountsForSchedule() && s != StatusCompleted
}

type BreakType string

const (
	BreakRest  BreakType = "REST"
	BreakLunch BreakType = "LUNCH"
	BreakAdHoc BreakType = "AD_HOC"
)

func (t BreakType) Valid() bool {
	switch t {
	case BreakRest, BreakLunch, BreakAdHoc:
		return true
	}
	return false
}

type EventAction string

const (
	EventSkip    EventAction = "SKIP"
	EventCancel  EventAction = "CANCEL"
	EventNoShow  EventAction = "NO_SHOW"
	EventReorder EventAction = "REORDER"
)

func (a EventAction) Valid() bool {
	switch a {
	case EventSkip, EventCancel, EventNoShow, EventReorder:
		return true
	}
	return false
}

type Account struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}

type Groomer struct {
	ID                 string    `json:"id"`
	AccountID          string    `json:"account_id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	BookingSlug        string    `json:"booking_slug"`
	WorkStart          string    `json:"work_start"` // HH:MM
	WorkEnd            string    `json:"work_end"`   // HH:MM
	LargeDogDailyLimit *int      `json:"large_dog_daily_limit"`
	DefaultAssistant   bool      `json:"default_assistant"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type Customer struct {
	ID            string   `json:"id"`
	AccountID     string   `json:"account_id"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	ZipCode       string   `json:"zip_code"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	ServiceAreaID *string  `json:"service_area_id"`
	Cancellations int      `json:"cancellations"`
	NoShows       int      `json:"no_shows"`
	SpentCents    int64    `json:"spent_cents"`
	Notes         string   `json:"notes"`
}

type ServiceArea struct {
	ID          string   `json:"id"`
	AccountID   string   `json:"account_id"`
	Name        string   `json:"name"`
	Color       string   `json:"color"`
	ZipCodes    []string `json:"zip_codes"`
	CenterLat   *float64 `json:"center_lat"`
	CenterLng   *float64 `json:"center_lng"`
	RadiusMiles *float64 `json:"radius_miles"`
}

// AreaDayAssignment is the default weekly mapping of a groomer's weekday
// (0 = Sunday .. 6 = Saturday) to a service area. Unique per groomer+weekday.
type AreaDayAssignment struct {
	GroomerID string `json:"groomer_id"`
	Weekday   int    `json:"weekday"`
	AreaID    string `json:"area_id"`
}

// AreaDayOverride pins a groomer to an area on one calendar date, replacing
// the weekday default for that date only.
type AreaDayOverride struct {
	GroomerID string `json:"groomer_id"`
	Date      string `json:"date"` // YYYY-MM-DD
	AreaID    string `json:"area_id"`
}

type Appointment struct {
	ID             string            `json:"id"`
	AccountID      string            `json:"account_id"`
	GroomerID      string            `json:"groomer_id"`
	CustomerID     string            `json:"customer_id"`
	PetID          *string           `json:"pet_id"`
	StartAt        time.Time         `json:"start_at"`
	ServiceMinutes int               `json:"service_minutes"`
	Status         AppointmentStatus `json:"status"`
	PetWeightLbs   float64           `json:"pet_weight_lbs"`
	Notes          string            `json:"notes"`
	Version        int               `json:"version"`
}

// EndAt is the effective end of the appointment: start + service duration.
func (a Appointment) EndAt() time.Time {
	return a.StartAt.Add(time.Duration(a.ServiceMinutes) * time.Minute)
}

type Route struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"account_id"`
	GroomerID    string    `json:"groomer_id"`
	RouteDate    string    `json:"route_date"` // YYYY-MM-DD
	Started      bool      `json:"started"`
	HasAssistant bool      `json:"has_assistant"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Break struct {
	ID            string     `json:"id"`
	AccountID     string     `json:"account_id"`
	GroomerID     string     `json:"groomer_id"`
	BreakDate     string     `json:"break_date"` // YYYY-MM-DD
	Type          BreakType  `json:"type"`
	PlannedStart  *time.Time `json:"planned_start"`
	PlannedEnd    *time.Time `json:"planned_end"`
	Taken         bool       `json:"taken"`
	ActualStart   *time.Time `json:"actual_start"`
	ActualMinutes int        `json:"actual_minutes"`
}

type WaitlistEntry struct {
	ID                string `json:"id"`
	AccountID         string `json:"account_id"`
	CustomerID        string `json:"customer_id"`
	PreferredWeekdays []int  `json:"preferred_weekdays"`
	PreferredStart    string `json:"preferred_start"` // HH:MM, optional
	PreferredEnd      string `json:"preferred_end"`   // HH:MM, optional
	Active            bool   `json:"active"`
}

// CustomerEvent is one row of the structured audit log that replaces the
// legacy append-into-notes convention for skip/cancel history.
type CustomerEvent struct {
	ID         string      `json:"id"`
	AccountID  string      `json:"account_id"`
	CustomerID string      `json:"customer_id"`
	Actor      string      `json:"actor"`
	Action     EventAction `json:"action"`
	Reason     string      `json:"reason"`
	CreatedAt  time.Time   `json:"created_at"`
}
