package geo

import (
	"math"
	"testing"
)

func almost(a, b, eps float64) bool {
	if a > b {
		return a-b < eps
	}
	return b-a < eps
}

func TestNew_Valid(t *testing.T) {
	c, err := New(43.65, -79.38)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Latitude != 43.65 || c.Longitude != -79.38 {
		t.Fatalf("unexpected coordinates: %+v", c)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lng     float64
		wantErr bool
	}{
		{"origin", 0, 0, false},
		{"north pole", 90, 0, false},
		{"south pole dateline", -90, -180, false},
		{"dateline east", 10, 180, false},
		{"lat too high", 90.0001, 0, true},
		{"lat too low", -91, 0, true},
		{"lng too high", 0, 180.5, true},
		{"lng too low", 0, -181, true},
		{"lat NaN", math.NaN(), 0, true},
		{"lng NaN", 0, math.NaN(), true},
		{"lat Inf", math.Inf(1), 0, true},
		{"lng -Inf", 0, math.Inf(-1), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Coordinates{Latitude: tc.lat, Longitude: tc.lng}.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestString(t *testing.T) {
	c := Coordinates{Latitude: 43.65, Longitude: -79.38}
	if got := c.String(); got != "43.65,-79.38" {
		t.Errorf("got %q, want %q", got, "43.65,-79.38")
	}
}

func TestHaversine_SamePoint(t *testing.T) {
	d := Haversine(40.7128, -74.0060, 40.7128, -74.0060)
	if d != 0 {
		t.Fatalf("want 0, got %f", d)
	}
}

func TestHaversine_NewYork_London(t *testing.T) {
	// NYC to London: ~5,570 km
	d := Haversine(40.7128, -74.0060, 51.5074, -0.1278)
	expected := 5_570_000.0
	if !almost(d, expected, 30_000) {
		t.Fatalf("want ~%.0fm, got %.0fm", expected, d)
	}
}

func TestHaversine_Antipodal(t *testing.T) {
	d := Haversine(0, 0, 0, 180)
	expected := math.Pi * EarthRadiusMeters
	if !almost(d, expected, 1) {
		t.Fatalf("want ~%.0fm, got %.0fm", expected, d)
	}
}

func TestDistanceTo(t *testing.T) {
	toronto := Coordinates{Latitude: 43.6532, Longitude: -79.3832}
	ottawa := Coordinates{Latitude: 45.4215, Longitude: -75.6972}
	d := toronto.DistanceTo(ottawa)
	if !almost(d, 352_000, 10_000) {
		t.Fatalf("want ~352km, got %.0fm", d)
	}
	if !almost(d, ottawa.DistanceTo(toronto), 1e-6) {
		t.Fatal("distance must be symmetric")
	}
}
