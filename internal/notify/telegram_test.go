package notify

import (
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/uclone1/yt-competitor-monitor/internal/model"
)

func sampleReport(videosPerChannel ...int) *model.Report {
	report := &model.Report{
		RunID:       "test-run",
		GeneratedAt: time.Date(2026, time.March, 14, 13, 0, 0, 0, time.UTC),
	}
	for c, n := range videosPerChannel {
		result := model.AnalysisResult{
			ChannelName: fmt.Sprintf("Channel %d", c),
			Handle:      fmt.Sprintf("@channel%d", c),
			Subscribers: 150_000,
			AvgViews:    10_000,
		}
		for i := 0; i < n; i++ {
			result.Outperforming = append(result.Outperforming, model.ScoredVideo{
				VideoRecord: model.VideoRecord{
					ID:    fmt.Sprintf("c%dv%d", c, i),
					Title: fmt.Sprintf("Video %d of channel %d", i, c),
					Link:  fmt.Sprintf("https://www.youtube.com/watch?v=c%dv%d", c, i),
					Views: 25_000,
				},
				PerformanceRatio: 2.5,
				IsRecent:         i == 0,
			})
		}
		report.Results = append(report.Results, result)
		report.TotalOutperforming += n
	}
	report.ChannelsFetched = len(videosPerChannel)
	return report
}

func TestBuildTelegramMessage_Header(t *testing.T) {
	msg := BuildTelegramMessage(sampleReport(3, 1))

	if !strings.Contains(msg, "4 outperforming videos across 2 channels") {
		t.Errorf("missing summary line in:\n%s", msg)
	}
	if !strings.Contains(msg, "March 14, 2026") {
		t.Errorf("missing report date in:\n%s", msg)
	}
	if !strings.Contains(msg, "<b>Channel 0</b>") || !strings.Contains(msg, "(@channel0)") {
		t.Errorf("missing channel section in:\n%s", msg)
	}
}

func TestBuildTelegramMessage_EmptyReport(t *testing.T) {
	msg := BuildTelegramMessage(sampleReport())

	if !strings.Contains(msg, "No outperforming videos found today") {
		t.Errorf("missing baseline message in:\n%s", msg)
	}
}

func TestBuildTelegramMessage_TruncatesToTopFive(t *testing.T) {
	msg := BuildTelegramMessage(sampleReport(8))

	if !strings.Contains(msg, "... and 3 more") {
		t.Errorf("missing truncation note in:\n%s", msg)
	}
	if strings.Contains(msg, "Video 5 of channel 0") {
		t.Errorf("message should not list videos past the top 5:\n%s", msg)
	}
}

func TestBuildTelegramMessage_MarksRecentVideos(t *testing.T) {
	msg := BuildTelegramMessage(sampleReport(2))

	if !strings.Contains(msg, "🆕") {
		t.Errorf("missing recent marker in:\n%s", msg)
	}
}

func TestBuildTelegramMessage_EscapesHTML(t *testing.T) {
	report := sampleReport(1)
	report.Results[0].Outperforming[0].Title = "Go <3 & generics"

	msg := BuildTelegramMessage(report)

	if !strings.Contains(msg, "Go &lt;3 &amp; generics") {
		t.Errorf("title not escaped in:\n%s", msg)
	}
}

func TestBuildTelegramMessage_TruncatesTitlesOnRuneBoundary(t *testing.T) {
	// A multi-byte rune straddling the 60th byte must not be cut in half:
	// the Telegram API rejects messages with invalid UTF-8.
	report := sampleReport(1)
	report.Results[0].Outperforming[0].Title = strings.Repeat("a", 59) + "écran"

	msg := BuildTelegramMessage(report)

	if !utf8.ValidString(msg) {
		t.Fatal("message contains invalid UTF-8 after title truncation")
	}
	if !strings.Contains(msg, strings.Repeat("a", 59)+"é<") {
		t.Errorf("title not truncated at 60 runes in:\n%s", msg)
	}
	if strings.Contains(msg, "écran") {
		t.Errorf("title not truncated at all in:\n%s", msg)
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 3, "hel"},
		{"héllo", 2, "hé"},
		{"日本語のタイトル", 3, "日本語"},
		{"", 5, ""},
	}

	for _, tt := range tests {
		got := truncateRunes(tt.in, tt.n)
		if got != tt.want {
			t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncateRunes(%q, %d) produced invalid UTF-8", tt.in, tt.n)
		}
	}
}

func TestSplitMessage_ShortMessageUntouched(t *testing.T) {
	parts := SplitMessage("hello", 4000)
	if len(parts) != 1 || parts[0] != "hello" {
		t.Errorf("parts = %v, want [hello]", parts)
	}
}

func TestSplitMessage_LongReportSplitsOnSections(t *testing.T) {
	// 40 channels with 5 videos each comfortably exceeds the limit
	counts := make([]int, 40)
	for i := range counts {
		counts[i] = 5
	}
	msg := BuildTelegramMessage(sampleReport(counts...))
	if len(msg) <= telegramMessageLimit {
		t.Skip("sample message unexpectedly short")
	}

	parts := SplitMessage(msg, telegramMessageLimit)

	if len(parts) < 2 {
		t.Fatalf("parts = %d, want at least 2", len(parts))
	}
	for i, p := range parts {
		if len(p) > telegramMessageLimit {
			t.Errorf("part %d is %d chars, over the %d limit", i, len(p), telegramMessageLimit)
		}
	}
	if strings.Join(parts, "") != msg {
		t.Error("rejoined parts do not reproduce the original message")
	}
}
