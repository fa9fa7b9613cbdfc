package service

import (
	"sort"
	"time"

	"github.com/groomroute/backend/internal/models"
	"github.com/groomroute/backend/internal/utils"
)

// ReliabilityTier buckets a customer by cancellation and no-show history.
// A is best. Ordering matters for the minimum-tier filter.
type ReliabilityTier string

const (
	ReliabilityA ReliabilityTier = "A"
	ReliabilityB ReliabilityTier = "B"
	ReliabilityC ReliabilityTier = "C"
	ReliabilityD ReliabilityTier = "D"
)

var reliabilityRank = map[ReliabilityTier]int{
	ReliabilityA: 0,
	ReliabilityB: 1,
	ReliabilityC: 2,
	ReliabilityD: 3,
}

func ReliabilityTierFor(c models.Customer) ReliabilityTier {
	misses := c.Cancellations + c.NoShows
	switch {
	case misses <= 1:
		return ReliabilityA
	case misses <= 3:
		return ReliabilityB
	case misses <= 6:
		return ReliabilityC
	default:
		return ReliabilityD
	}
}

// ValueTier buckets a customer by lifetime spend.
type ValueTier string

const (
	ValueHigh   ValueTier = "HIGH"
	ValueMedium ValueTier = "MEDIUM"
	ValueLow    ValueTier = "LOW"
)

func ValueTierFor(c models.Customer) ValueTier {
	switch {
	case c.SpentCents >= 100_000:
		return ValueHigh
	case c.SpentCents >= 30_000:
		return ValueMedium
	default:
		return ValueLow
	}
}

// WatchlistWeights are the per-axis score multipliers, loaded from config.
type WatchlistWeights struct {
	Day         float64
	Time        float64
	Area        float64
	Proximity   float64
	Value       float64
	Reliability float64
}

// WatchlistParams are the request-level knobs: hard filters exclude before
// any scoring happens, never as soft penalties.
type WatchlistParams struct {
	TargetDate       time.Time // midnight in the account timezone
	WorkStart        string    // groomer HH:MM, for the time-preference axis
	WorkEnd          string
	GroomerAreaID    string // resolved area for the target date, "" if none
	Limit            int
	MinReliability   ReliabilityTier // "" disables the filter
	ValueTiers       []ValueTier     // empty allows all
	MaxDistanceMiles *float64
}

// WatchlistCandidate pairs a waitlist entry with its customer record.
type WatchlistCandidate struct {
	Entry    models.WaitlistEntry
	Customer models.Customer
}

// WatchlistSuggestion is one ranked fill-in candidate.
type WatchlistSuggestion struct {
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	Score         float64         `json:"score"`
	Reliability   ReliabilityTier `json:"reliability"`
	Value         ValueTier       `json:"value"`
	DistanceMiles *float64        `json:"distance_miles"`
	Reasons       []string        `json:"reasons"`
}

// RankWatchlist scores active waitlisted customers against the target day and
// returns the best fits, truncated to the limit. dayStops are the locations
// of customers already scheduled that day, used for the proximity axis and
// the distance filter. Deterministic for identical inputs: stable sort with a
// customer-id tie-break.
func RankWatchlist(candidates []WatchlistCandidate, dayStops []Location, params WatchlistParams, weights WatchlistWeights) []WatchlistSuggestion {
	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	var out []WatchlistSuggestion
	for _, cand := range candidates {
		if !cand.Entry.Active {
			continue
		}
		rel := ReliabilityTierFor(cand.Customer)
		if params.MinReliability != "" && reliabilityRank[rel] > reliabilityRank[params.MinReliability] {
			continue
		}
		val := ValueTierFor(cand.Customer)
		if len(params.ValueTiers) > 0 && !containsTier(params.ValueTiers, val) {
			continue
		}

		distance := nearestStopMiles(cand.Customer, dayStops)
		if params.MaxDistanceMiles != nil {
			if distance == nil || *distance > *params.MaxDistanceMiles {
				continue
			}
		}

		s := WatchlistSuggestion{
			CustomerID:    cand.Customer.ID,
			CustomerName:  cand.Customer.Name,
			Reliability:   rel,
			Value:         val,
			DistanceMiles: distance,
		}

		if matchesWeekday(cand.Entry.PreferredWeekdays, params.TargetDate) {
			s.Score += weights.Day
			s.Reasons = append(s.Reasons, "prefers this weekday")
		}
		if matchesTimeWindow(cand.Entry, params.WorkStart, params.WorkEnd) {
			s.Score += weights.Time
			s.Reasons = append(s.Reasons, "time window fits working hours")
		}
		if params.GroomerAreaID != "" && cand.Customer.ServiceAreaID != nil && *cand.Customer.ServiceAreaID == params.GroomerAreaID {
			s.Score += weights.Area
			s.Reasons = append(s.Reasons, "in the day's service area")
		}
		if distance != nil {
			closeness := 1 - *distance/10
			if closeness > 0 {
				s.Score += weights.Proximity * closeness
				s.Reasons = append(s.Reasons, "close to scheduled stops")
			}
		}
		s.Score += weights.Value * valueScore(val)
		s.Score += weights.Reliability * reliabilityScore(rel)

		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score == out[j].Score {
			return out[i].CustomerID < out[j].CustomerID
		}
		return out[i].Score > out[j].Score
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func containsTier(tiers []ValueTier, t ValueTier) bool {
	for _, v := range tiers {
		if v == t {
			return true
		}
	}
	return false
}

func matchesWeekday(preferred []int, date time.Time) bool {
	if len(preferred) == 0 {
		return false
	}
	weekday := int(date.Weekday())
	for _, d := range preferred {
		if d == weekday {
			return true
		}
	}
	return false
}

// matchesTimeWindow checks whether the entry's preferred window overlaps the
// groomer's working hours. An entry with no window is fully flexible.
func matchesTimeWindow(entry models.WaitlistEntry, workStart, workEnd string) bool {
	if entry.PreferredStart == "" || entry.PreferredEnd == "" {
		return true
	}
	ps, err := ParseClock(entry.PreferredStart)
	if err != nil {
		return false
	}
	pe, err := ParseClock(entry.PreferredEnd)
	if err != nil {
		return false
	}
	ws, err := ParseClock(workStart)
	if err != nil {
		return false
	}
	we, err := ParseClock(workEnd)
	if err != nil {
		return false
	}
	return ps < we && ws < pe
}

func nearestStopMiles(c models.Customer, stops []Location) *float64 {
	if c.Lat == nil || c.Lng == nil {
		return nil
	}
	var best *float64
	for _, s := range stops {
		if s.Lat == nil || s.Lng == nil {
			continue
		}
		d := utils.HaversineMiles(*c.Lat, *c.Lng, *s.Lat, *s.Lng)
		if best == nil || d < *best {
			v := d
			best = &v
		}
	}
	return best
}

func valueScore(v ValueTier) float64 {
	switch v {
	case ValueHigh:
		return 1.0
	case ValueMedium:
		return 0.6
	default:
		return 0.3
	}
}

func reliabilityScore(r ReliabilityTier) float64 {
	switch r {
	case ReliabilityA:
		return 1.0
	case ReliabilityB:
		return 0.7
	case ReliabilityC:
		return 0.4
	default:
		return 0.1
	}
}
