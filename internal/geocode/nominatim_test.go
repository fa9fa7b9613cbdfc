package geocode

import "testing"

func TestParseNominatimItems(t *testing.T) {
	items := []nominatimItem{
		{
			Lat:         "47.6062",
			Lon:         "-122.3321",
			DisplayName: "Seattle, King County, Washington, United States",
			Importance:  0.81,
		},
	}
	res, err := parseNominatimItems(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Lat != 47.6062 || res.Lng != -122.3321 {
		t.Fatalf("unexpected coordinates: %+v", res)
	}
	if res.FormattedAddress != "Seattle, King County, Washington, United States" {
		t.Fatalf("unexpected formatted address: %s", res.FormattedAddress)
	}
	if res.Confidence != 0.81 {
		t.Fatalf("unexpected confidence: %f", res.Confidence)
	}
}

func TestParseNominatimItemsEmpty(t *testing.T) {
	if _, err := parseNominatimItems(nil); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestParseNominatimItemsBadCoordinates(t *testing.T) {
	items := []nominatimItem{{Lat: "north", Lon: "-122.3"}}
	if _, err := parseNominatimItems(items); err == nil {
		t.Fatal("expected parse error")
	}
}
