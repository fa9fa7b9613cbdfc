package geocode

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("geocode not found")

// Result is a successful geocode. Callers treat coordinates as optional
// downstream regardless of why geocoding failed.
type Result struct {
	Lat              float64
	Lng              float64
	FormattedAddress string
	Confidence       float64
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (Result, error)
}
