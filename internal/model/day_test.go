package model

import (
	"errors"
	"testing"
	"time"
)

func TestDayOfUsesLocation(t *testing.T) {
	// 2026-02-09 23:30 in UTC-5 is already 2026-02-10 in UTC.
	loc := time.FixedZone("UTC-5", -5*60*60)
	at := time.Date(2026, 2, 9, 23, 30, 0, 0, loc)
	if got := DayOf(at).String(); got != "2026-02-09" {
		t.Fatalf("expected local day 2026-02-09, got %s", got)
	}
	if got := DayOf(at.UTC()).String(); got != "2026-02-10" {
		t.Fatalf("expected utc day 2026-02-10, got %s", got)
	}
}

func TestDayNonIntegerOffset(t *testing.T) {
	loc := time.FixedZone("IST", 5*60*60+30*60)
	at := time.Date(2026, 3, 1, 0, 15, 0, 0, loc)
	if got := DayOf(at).String(); got != "2026-03-01" {
		t.Fatalf("expected 2026-03-01, got %s", got)
	}
	if got := DayOf(at).AddDays(-1).String(); got != "2026-02-28" {
		t.Fatalf("expected 2026-02-28, got %s", got)
	}
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2026-12-31")
	if err != nil {
		t.Fatalf("parse day: %v", err)
	}
	if d.AddDays(1).String() != "2027-01-01" {
		t.Fatalf("unexpected next day: %s", d.AddDays(1))
	}
	if !d.Before(d.AddDays(1)) || d.AddDays(1).Before(d) {
		t.Fatal("unexpected ordering")
	}
	for _, bad := range []string{"", "2026-13-01", "2026-1-01", "31/12/2026"} {
		if _, err := ParseDay(bad); !errors.Is(err, ErrInvalidDay) {
			t.Fatalf("expected ErrInvalidDay for %q, got %v", bad, err)
		}
	}
}
