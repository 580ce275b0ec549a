package extract_test

import (
	"math"
	"testing"

	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/extract"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"€1,800 per month", 1800},
		{"€450 per week", 1949},
		{"1,800 EUR", 1800},
		{"", 0},
		{"Price on application", 0},
		{"€2,100", 2100},
		{"€1.950 pcm", 1950},
		{"€ 1 650 / month", 1650},
		{"€300 pw", 1299},
		{"€400 p/w", 1732},
		{"€1,200 per month (bills incl.)", 1200},
		{"€2130000000000000000 pw", 0},
		{"€99999999999999999 per week", 0},
		{"€12345678 per month", 0},
		{"€9,999,999 per month", 9999999},
		{"€12 345678 per month", 12},
	}
	for _, tt := range tests {
		if got := extract.ParsePrice(tt.in); got != tt.want {
			t.Errorf("ParsePrice(%q) = %d; want %d", tt.in, got, tt.want)
		}
	}
}

func TestToMonthlyBounds(t *testing.T) {
	tests := []struct {
		weekly int
		want   int
	}{
		{450, 1949},
		{1, 4},
		{0, 0},
		{-450, 0},
		{9999999, 43299996},
		{math.MaxInt, 0},
		{math.MaxInt / 400, 0},
	}
	for _, tt := range tests {
		if got := extract.ToMonthly(tt.weekly); got != tt.want {
			t.Errorf("ToMonthly(%d) = %d; want %d", tt.weekly, got, tt.want)
		}
	}
}

func TestParsePriceDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := extract.ParsePrice("€450 per week"); got != 1949 {
			t.Fatalf("run %d: got %d", i, got)
		}
	}
}

func TestBedrooms(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2 bed apartment", 2},
		{"Studio flat", 0},
		{"three bedroom house", 3},
		{"lovely home", domain.BedroomsUnknown},
		{"3-bed semi-detached", 3},
		{"1 Bedroom Apartment", 1},
		{"4 beds", 4},
		{"Two Bed Duplex", 2},
		{"", domain.BedroomsUnknown},
	}
	for _, tt := range tests {
		if got := extract.Bedrooms(tt.in); got != tt.want {
			t.Errorf("Bedrooms(%q) = %d; want %d", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeArea(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  rathmines ", "Rathmines"},
		{"Co. Dublin", "Dublin"},
		{"co dublin", "Dublin"},
		{"DUBLIN   2", "Dublin 2"},
		{"dublin 6w", "Dublin 6W"},
		{"dun  laoghaire", "Dun Laoghaire"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := extract.NormalizeArea(tt.in); got != tt.want {
			t.Errorf("NormalizeArea(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestAreaFromAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Apartment 4, Grand Canal Dock, Dublin 2", "Dublin 2"},
		{"Terenure Road East, Dublin6w", "Dublin 6W"},
		{"12 Leinster Road, Rathmines, D6", "Dublin 6"},
		{"Main Street, Ranelagh", "Ranelagh"},
		{"Somewhere, Co. Dublin", "Dublin"},
	}
	for _, tt := range tests {
		if got := extract.AreaFromAddress(tt.in); got != tt.want {
			t.Errorf("AreaFromAddress(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestContainsWord(t *testing.T) {
	tests := []struct {
		haystack, needle string
		want             bool
	}{
		{"Dublin 2", "dublin 2", true},
		{"Dublin 20", "Dublin 2", false},
		{"Dublin 12", "Dublin 2", false},
		{"Ranelagh, Dublin 6", "ranelagh", true},
		{"Cranelagh", "Ranelagh", false},
		{"anything", "", false},
	}
	for _, tt := range tests {
		if got := extract.ContainsWord(tt.haystack, tt.needle); got != tt.want {
			t.Errorf("ContainsWord(%q, %q) = %v; want %v", tt.haystack, tt.needle, got, tt.want)
		}
	}
}

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<p>Bright &amp; airy</p><p>Close to Luas</p>", "Bright & airy Close to Luas"},
		{"line one<br>line two", "line one line two"},
		{"  plain   text ", "plain text"},
	}
	for _, tt := range tests {
		if got := extract.HTMLToText(tt.in); got != tt.want {
			t.Errorf("HTMLToText(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
