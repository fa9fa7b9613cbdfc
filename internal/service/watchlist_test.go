package service

import (
	"testing"
	"time"

	"github.com/groomroute/backend/internal/models"
)

func testWeights() WatchlistWeights {
	return WatchlistWeights{Day: 3, Time: 1, Area: 3, Proximity: 2, Value: 1.5, Reliability: 1.5}
}

func strPtr(s string) *string { return &s }

func testCandidate(id string, opts func(*WatchlistCandidate)) WatchlistCandidate {
	cand := WatchlistCandidate{
		Entry:    models.WaitlistEntry{ID: "w-" + id, CustomerID: id, Active: true},
		Customer: models.Customer{ID: id, Name: "Customer " + id},
	}
	if opts != nil {
		opts(&cand)
	}
	return cand
}

// Monday 2026-08-31.
func targetMonday() time.Time {
	return time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
}

func baseParams() WatchlistParams {
	return WatchlistParams{
		TargetDate:    targetMonday(),
		WorkStart:     "09:00",
		WorkEnd:       "17:00",
		GroomerAreaID: "north",
		Limit:         10,
	}
}

func TestRankWatchlistPrefersDayAndAreaMatch(t *testing.T) {
	candidates := []WatchlistCandidate{
		testCandidate("c1", func(c *WatchlistCandidate) {
			c.Entry.PreferredWeekdays = []int{1} // Monday
			c.Customer.ServiceAreaID = strPtr("north")
		}),
		testCandidate("c2", func(c *WatchlistCandidate) {
			c.Entry.PreferredWeekdays = []int{3}
			c.Customer.ServiceAreaID = strPtr("south")
		}),
	}

	got := RankWatchlist(candidates, nil, baseParams(), testWeights())
	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(got))
	}
	if got[0].CustomerID != "c1" {
		t.Fatalf("expected c1 ranked first, got %s", got[0].CustomerID)
	}
	if got[0].Score <= got[1].Score {
		t.Fatalf("expected strictly higher score for c1: %f vs %f", got[0].Score, got[1].Score)
	}
}

func TestRankWatchlistHardFilters(t *testing.T) {
	flaky := testCandidate("flaky", func(c *WatchlistCandidate) {
		c.Customer.Cancellations = 5
		c.Customer.NoShows = 5 // tier D
		c.Customer.SpentCents = 200_000
		c.Entry.PreferredWeekdays = []int{1}
		c.Customer.ServiceAreaID = strPtr("north")
	})
	modest := testCandidate("modest", func(c *WatchlistCandidate) {
		c.Customer.SpentCents = 10_000 // tier LOW
	})

	params := baseParams()
	params.MinReliability = ReliabilityB
	got := RankWatchlist([]WatchlistCandidate{flaky, modest}, nil, params, testWeights())
	if len(got) != 1 || got[0].CustomerID != "modest" {
		t.Fatalf("expected reliability filter to drop flaky regardless of score, got %+v", got)
	}

	params = baseParams()
	params.ValueTiers = []ValueTier{ValueHigh}
	got = RankWatchlist([]WatchlistCandidate{flaky, modest}, nil, params, testWeights())
	if len(got) != 1 || got[0].CustomerID != "flaky" {
		t.Fatalf("expected value filter to keep only HIGH, got %+v", got)
	}
}

func TestRankWatchlistMaxDistanceFilter(t *testing.T) {
	near := testCandidate("near", func(c *WatchlistCandidate) {
		c.Customer.Lat, c.Customer.Lng = ptr(47.61), ptr(-122.33)
	})
	far := testCandidate("far", func(c *WatchlistCandidate) {
		c.Customer.Lat, c.Customer.Lng = ptr(45.51), ptr(-122.67)
	})
	unknown := testCandidate("unknown", nil)

	stops := []Location{{Lat: ptr(47.62), Lng: ptr(-122.35)}}
	maxD := 20.0
	params := baseParams()
	params.MaxDistanceMiles = &maxD

	got := RankWatchlist([]WatchlistCandidate{near, far, unknown}, stops, params, testWeights())
	if len(got) != 1 || got[0].CustomerID != "near" {
		t.Fatalf("expected only the nearby customer, got %+v", got)
	}
	if got[0].DistanceMiles == nil || *got[0].DistanceMiles > 5 {
		t.Fatalf("unexpected distance: %v", got[0].DistanceMiles)
	}
}

func TestRankWatchlistSkipsInactive(t *testing.T) {
	inactive := testCandidate("c1", func(c *WatchlistCandidate) { c.Entry.Active = false })
	got := RankWatchlist([]WatchlistCandidate{inactive}, nil, baseParams(), testWeights())
	if len(got) != 0 {
		t.Fatalf("expected inactive entries dropped, got %+v", got)
	}
}

func TestRankWatchlistDeterministicTieBreak(t *testing.T) {
	// Identical candidates except id: tie broken by customer id ascending.
	a := testCandidate("aaa", nil)
	b := testCandidate("bbb", nil)

	got := RankWatchlist([]WatchlistCandidate{b, a}, nil, baseParams(), testWeights())
	if len(got) != 2 || got[0].CustomerID != "aaa" {
		t.Fatalf("expected id tie-break, got %+v", got)
	}

	again := RankWatchlist([]WatchlistCandidate{b, a}, nil, baseParams(), testWeights())
	for i := range got {
		if got[i].CustomerID != again[i].CustomerID || got[i].Score != again[i].Score {
			t.Fatalf("expected identical rankings across runs")
		}
	}
}

func TestRankWatchlistTruncatesToLimit(t *testing.T) {
	var candidates []WatchlistCandidate
	for _, id := range []string{"c1", "c2", "c3"} {
		candidates = append(candidates, testCandidate(id, nil))
	}
	params := baseParams()
	params.Limit = 2
	got := RankWatchlist(candidates, nil, params, testWeights())
	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(got))
	}
}

func TestTierBuckets(t *testing.T) {
	if got := ReliabilityTierFor(models.Customer{Cancellations: 1}); got != ReliabilityA {
		t.Fatalf("expected A, got %s", got)
	}
	if got := ReliabilityTierFor(models.Customer{Cancellations: 2, NoShows: 1}); got != ReliabilityB {
		t.Fatalf("expected B, got %s", got)
	}
	if got := ReliabilityTierFor(models.Customer{NoShows: 7}); got != ReliabilityD {
		t.Fatalf("expected D, got %s", got)
	}
	if got := ValueTierFor(models.Customer{SpentCents: 150_000}); got != ValueHigh {
		t.Fatalf("expected HIGH, got %s", got)
	}
	if got := ValueTierFor(models.Customer{SpentCents: 5_000}); got != ValueLow {
		t.Fatalf("expected LOW, got %s", got)
	}
}
