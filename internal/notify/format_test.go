package notify

import "testing"

func TestFormatViews(t *testing.T) {
	tests := []struct {
		views int64
		want  string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0K"},
		{1234, "1.2K"},
		{999_999, "1000.0K"},
		{1_000_000, "1.0M"},
		{3_400_000, "3.4M"},
		{876_754_415, "876.8M"},
	}

	for _, tt := range tests {
		if got := FormatViews(tt.views); got != tt.want {
			t.Errorf("FormatViews(%d) = %q, want %q", tt.views, got, tt.want)
		}
	}
}

func TestFormatRatio(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1.0, "+0%"},
		{1.5, "+50%"},
		{2.29, "+129%"},
		{4.0, "+300%"},
	}

	for _, tt := range tests {
		if got := FormatRatio(tt.ratio); got != tt.want {
			t.Errorf("FormatRatio(%.2f) = %q, want %q", tt.ratio, got, tt.want)
		}
	}
}
