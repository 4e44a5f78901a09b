package geoip

import (
	"context"
	"testing"
)

func TestStaticResolver(t *testing.T) {
	r := NewStatic(map[string]string{
		"203.0.113.10": "US",
		"198.51.100.7": "FR",
	})

	country, err := r.Country(context.Background(), "203.0.113.10")
	if err != nil {
		t.Fatalf("Country failed: %v", err)
	}
	if country != "US" {
		t.Fatalf("country %q, want US", country)
	}

	country, err = r.Country(context.Background(), "192.0.2.1")
	if err != nil {
		t.Fatalf("Country failed: %v", err)
	}
	if country != "" {
		t.Fatalf("expected empty country for unknown IP, got %q", country)
	}
}

func TestStaticResolverCopiesTable(t *testing.T) {
	table := map[string]string{"203.0.113.10": "US"}
	r := NewStatic(table)

	table["203.0.113.10"] = "DE"

	country, err := r.Country(context.Background(), "203.0.113.10")
	if err != nil {
		t.Fatalf("Country failed: %v", err)
	}
	if country != "US" {
		t.Fatalf("resolver must not share the caller's map, got %q", country)
	}
}

func TestOpenMaxMindMissingFile(t *testing.T) {
	if _, err := OpenMaxMind("/nonexistent/GeoLite2-Country.mmdb"); err == nil {
		t.Fatal("expected error for missing database file")
	}
}

func TestMaxMindFromBytesRejectsGarbage(t *testing.T) {
	if _, err := NewMaxMindFromBytes([]byte("not a maxmind database")); err == nil {
		t.Fatal("expected error for invalid database bytes")
	}
}

func TestMaxMindUnparseableIP(t *testing.T) {
	// A nil reader errors; an initialized reader returns ("", nil) for
	// unparseable input. Exercise the guard path here.
	var m *MaxMind
	if _, err := m.Country(context.Background(), "not-an-ip"); err == nil {
		t.Fatal("expected error from uninitialized resolver")
	}
}
