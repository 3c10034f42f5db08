package scraper

import "testing"

func TestParseViewCount(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"876,754,415 views", 876754415},
		{"3,903,884 views", 3903884},
		{"3M", 3_000_000},
		{"1.2K", 1200},
		{"19m", 19_000_000},
		{"2B", 2_000_000_000},
		{"33", 33},
		{"33.0", 33},
		{"  412 Views ", 412},
		{"", 0},
		{"null", 0},
		{"no views", 0},
		{"K", 0},
	}

	for _, tt := range tests {
		if got := ParseViewCount(tt.in); got != tt.want {
			t.Errorf("ParseViewCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParsePublishedTime(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"5 hours ago", 0},
		{"1 day ago", 1},
		{"12 days ago", 12},
		{"2 weeks ago", 14},
		{"3 months ago", 90},
		{"1 year ago", 365},
		{"2 years ago", 730},
	}

	for _, tt := range tests {
		got := ParsePublishedTime(tt.in)
		if got == nil {
			t.Errorf("ParsePublishedTime(%q) = nil, want %d", tt.in, tt.want)
			continue
		}
		if *got != tt.want {
			t.Errorf("ParsePublishedTime(%q) = %d, want %d", tt.in, *got, tt.want)
		}
	}
}

func TestParsePublishedTime_Unparsable(t *testing.T) {
	for _, in := range []string{"", "Streamed live", "yesterday", "a month ago", "3 fortnights ago"} {
		if got := ParsePublishedTime(in); got != nil {
			t.Errorf("ParsePublishedTime(%q) = %d, want nil", in, *got)
		}
	}
}
