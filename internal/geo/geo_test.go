package geo

import (
	"math"
	"testing"
)

func TestIsInSafeZoneZeroDistance(t *testing.T) {
	points := [][2]float64{{0, 0}, {-6.2, 106.816666}, {90, 0}, {-90, 180}, {45.5, -179.9}}
	for _, p := range points {
		for _, r := range []float64{0, 1, 150, 1e7} {
			if !IsInSafeZone(p[0], p[1], p[0], p[1], r) {
				t.Fatalf("expected point %v to be inside its own zone with radius %v", p, r)
			}
		}
	}
}

func TestDistanceKnownValues(t *testing.T) {
	// one degree of latitude along a meridian
	got := Distance(0, 0, 1, 0)
	want := EarthRadiusMeters * math.Pi / 180
	if math.Abs(got-want) > 0.001 {
		t.Fatalf("expected %.3f, got %.3f", want, got)
	}

	// Monas to Bundaran HI, Jakarta: roughly 2.2 km
	got = Distance(-6.175392, 106.827153, -6.195007, 106.823009)
	if got < 2100 || got > 2300 {
		t.Fatalf("expected about 2.2km, got %.1f", got)
	}
}

func TestDistanceAntipodalIsStable(t *testing.T) {
	got := Distance(0, 0, 0, 180)
	if math.IsNaN(got) {
		t.Fatalf("antipodal distance is NaN")
	}
	want := math.Pi * EarthRadiusMeters
	if math.Abs(got-want) > 1 {
		t.Fatalf("expected half circumference %.1f, got %.1f", want, got)
	}

	got = Distance(45, 10, -45, -170)
	if math.IsNaN(got) || math.Abs(got-want) > 1 {
		t.Fatalf("expected half circumference for antipodes, got %.1f", got)
	}
}

func TestIsInSafeZoneMatchesDistance(t *testing.T) {
	cases := []struct {
		name   string
		lat    float64
		lng    float64
		radius float64
		inside bool
	}{
		{name: "near", lat: -6.2001, lng: 106.8167, radius: 100, inside: true},
		{name: "just outside", lat: -6.2010, lng: 106.8167, radius: 100, inside: false},
		{name: "far", lat: -7.25, lng: 112.75, radius: 5000, inside: false},
		{name: "large radius", lat: -7.25, lng: 112.75, radius: 1e6, inside: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := IsInSafeZone(tc.lat, tc.lng, -6.2, 106.8167, tc.radius)
			if got != tc.inside {
				t.Fatalf("expected inside=%v (distance %.1fm)", tc.inside, Distance(tc.lat, tc.lng, -6.2, 106.8167))
			}
			if got != (Distance(tc.lat, tc.lng, -6.2, 106.8167) <= tc.radius) {
				t.Fatalf("containment disagrees with distance")
			}
		})
	}
}

func TestEvaluateZones(t *testing.T) {
	zones := []Zone{
		{Name: "Sekolah", Latitude: -6.2, Longitude: 106.8, RadiusMeters: 200},
		{Name: "Kota", Latitude: -6.2, Longitude: 106.8, RadiusMeters: 20000},
	}

	if got := EvaluateZones(nil, zones); got.Status != StatusUnknown {
		t.Fatalf("expected unknown without point, got %v", got)
	}

	got := EvaluateZones(&Point{Latitude: -6.2, Longitude: 106.8}, zones)
	if got.Status != StatusInside || got.ZoneName != "Sekolah" {
		t.Fatalf("expected first matching zone, got %+v", got)
	}

	got = EvaluateZones(&Point{Latitude: -6.25, Longitude: 106.8}, zones)
	if got.Status != StatusInside || got.ZoneName != "Kota" {
		t.Fatalf("expected second zone, got %+v", got)
	}

	got = EvaluateZones(&Point{Latitude: 1.35, Longitude: 103.8}, zones)
	if got.Status != StatusOutside || got.ZoneName != "" {
		t.Fatalf("expected outside, got %+v", got)
	}

	if got := EvaluateZones(&Point{}, nil); got.Status != StatusOutside {
		t.Fatalf("expected outside with no zones, got %+v", got)
	}
}
