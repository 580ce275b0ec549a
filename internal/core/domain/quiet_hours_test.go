package domain_test

import (
	"testing"
	"time"

	"find-a-house/internal/core/domain"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 14, hour, minute, 0, 0, time.UTC)
}

func TestQuietHoursOvernight(t *testing.T) {
	q, err := domain.ParseQuietHours(true, "23:00", "07:00")
	if err != nil {
		t.Fatalf("ParseQuietHours: %v", err)
	}

	tests := []struct {
		when time.Time
		want bool
	}{
		{at(23, 0), true},
		{at(2, 30), true},
		{at(7, 0), true},
		{at(7, 1), false},
		{at(12, 0), false},
		{at(22, 59), false},
	}
	for _, tt := range tests {
		if got := q.Contains(tt.when); got != tt.want {
			t.Errorf("Contains(%s) = %v; want %v", tt.when.Format("15:04"), got, tt.want)
		}
	}
}

func TestQuietHoursSameDay(t *testing.T) {
	q, err := domain.ParseQuietHours(true, "13:00", "14:00")
	if err != nil {
		t.Fatalf("ParseQuietHours: %v", err)
	}
	if !q.Contains(at(13, 30)) {
		t.Error("13:30 should be inside 13:00-14:00")
	}
	if q.Contains(at(14, 30)) {
		t.Error("14:30 should be outside 13:00-14:00")
	}
}

func TestQuietHoursDisabled(t *testing.T) {
	q, err := domain.ParseQuietHours(false, "bogus", "bogus")
	if err != nil {
		t.Fatalf("disabled quiet hours must not parse bounds: %v", err)
	}
	if q.Contains(at(3, 0)) {
		t.Error("disabled quiet hours must never contain a time")
	}
}

func TestQuietHoursInvalid(t *testing.T) {
	if _, err := domain.ParseQuietHours(true, "25:00", "07:00"); err == nil {
		t.Error("expected error for 25:00")
	}
}

func TestSearchProfileValidate(t *testing.T) {
	p := domain.NewSearchProfile("city")
	p.MinPrice = 2000
	p.MaxPrice = 1500
	if err := p.Validate(); err == nil {
		t.Error("expected error when min price exceeds max price")
	}

	ok := domain.NewSearchProfile("open")
	if err := ok.Validate(); err != nil {
		t.Errorf("default profile should be valid: %v", err)
	}
}

func TestGenerateID(t *testing.T) {
	if got := domain.GenerateID("daft", "12345"); got != "daft_12345" {
		t.Errorf("GenerateID = %q; want %q", got, "daft_12345")
	}
}
