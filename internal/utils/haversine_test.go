package utils

import (
	"math"
	"testing"
)

func TestHaversineMilesKnownDistance(t *testing.T) {
	// Seattle to Portland, roughly 145 miles.
	d := HaversineMiles(47.6062, -122.3321, 45.5152, -122.6784)
	if d < 140 || d > 150 {
		t.Fatalf("expected ~145 miles, got %f", d)
	}
}

func TestHaversineMilesSymmetry(t *testing.T) {
	ab := HaversineMiles(40.7128, -74.0060, 34.0522, -118.2437)
	ba := HaversineMiles(34.0522, -118.2437, 40.7128, -74.0060)
	if math.Abs(ab-ba) > 1e-9 {
		t.Fatalf("expected symmetric distance, got %f vs %f", ab, ba)
	}
}

func TestHaversineMilesZero(t *testing.T) {
	if d := HaversineMiles(47.6062, -122.3321, 47.6062, -122.3321); d != 0 {
		t.Fatalf("expected zero distance, got %f", d)
	}
}
