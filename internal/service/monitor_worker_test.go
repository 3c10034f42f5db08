package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/uclone1/yt-competitor-monitor/internal/model"
)

type fakeFetcher struct {
	channels map[string]model.ChannelRecord
	calls    int
}

func (f *fakeFetcher) FetchChannel(ctx context.Context, handle string) (*model.ChannelRecord, error) {
	f.calls++
	ch, ok := f.channels[handle]
	if !ok {
		return nil, errors.New("fetch failed")
	}
	return &ch, nil
}

type fakeNotifier struct {
	reports []*model.Report
	err     error
}

func (f *fakeNotifier) Send(report *model.Report) error {
	f.reports = append(f.reports, report)
	return f.err
}

func newTestWorker(fetcher *fakeFetcher, notifiers []Notifier, handles ...string) *MonitorWorker {
	return NewMonitorWorker(
		fetcher,
		NewAnalyzerService(DefaultAnalyzerConfig()),
		nil, // no cache
		notifiers,
		handles,
		time.Hour,
		time.Millisecond,
	)
}

func TestTriggerRun_BuildsReport(t *testing.T) {
	fetcher := &fakeFetcher{channels: map[string]model.ChannelRecord{
		"@spiky": channelWithViews("spiky", 100, 100, 400),
		"@flat":  channelWithViews("flat", 100, 100, 100),
	}}
	notifier := &fakeNotifier{}
	w := newTestWorker(fetcher, []Notifier{notifier}, "@spiky", "@flat")

	report, err := w.TriggerRun(context.Background())
	if err != nil {
		t.Fatalf("TriggerRun: %v", err)
	}

	if report.RunID == "" {
		t.Error("report has no run ID")
	}
	if report.ChannelsFetched != 2 {
		t.Errorf("channels fetched = %d, want 2", report.ChannelsFetched)
	}
	if report.TotalOutperforming != 1 {
		t.Errorf("total outperforming = %d, want 1", report.TotalOutperforming)
	}
	if len(report.Results) != 1 || report.Results[0].ChannelName != "spiky" {
		t.Errorf("results = %+v, want only spiky", report.Results)
	}

	if len(notifier.reports) != 1 || notifier.reports[0] != report {
		t.Errorf("notifier got %d reports, want the run's report once", len(notifier.reports))
	}
	if got := w.LatestReport(); got != report {
		t.Error("LatestReport does not return the last run's report")
	}
}

func TestTriggerRun_SkipsFailedChannels(t *testing.T) {
	fetcher := &fakeFetcher{channels: map[string]model.ChannelRecord{
		"@ok": channelWithViews("ok", 100, 100, 400),
	}}
	w := newTestWorker(fetcher, nil, "@gone", "@ok")

	report, err := w.TriggerRun(context.Background())
	if err != nil {
		t.Fatalf("TriggerRun: %v", err)
	}

	if report.ChannelsFetched != 1 {
		t.Errorf("channels fetched = %d, want 1 (failed channel skipped)", report.ChannelsFetched)
	}
	if w.FetchErrorsTotal() != 1 {
		t.Errorf("fetch errors = %d, want 1", w.FetchErrorsTotal())
	}
}

func TestTriggerRun_RejectsOverlappingRuns(t *testing.T) {
	w := newTestWorker(&fakeFetcher{}, nil)

	w.running.Store(true)
	if _, err := w.TriggerRun(context.Background()); !errors.Is(err, ErrRunInProgress) {
		t.Errorf("err = %v, want ErrRunInProgress", err)
	}
	w.running.Store(false)

	if _, err := w.TriggerRun(context.Background()); err != nil {
		t.Errorf("TriggerRun after release: %v", err)
	}
}

func TestResultForHandle(t *testing.T) {
	fetcher := &fakeFetcher{channels: map[string]model.ChannelRecord{
		"@spiky": channelWithViews("spiky", 100, 100, 400),
	}}
	w := newTestWorker(fetcher, nil, "@spiky")

	if w.ResultForHandle("@spiky") != nil {
		t.Error("ResultForHandle should be nil before the first run")
	}

	if _, err := w.TriggerRun(context.Background()); err != nil {
		t.Fatalf("TriggerRun: %v", err)
	}

	got := w.ResultForHandle("@spiky")
	if got == nil {
		t.Fatal("ResultForHandle returned nil after a run")
	}
	if got.ChannelName != "spiky" || len(got.Outperforming) != 1 {
		t.Errorf("result = %+v, want spiky with 1 outperformer", got)
	}
	if w.ResultForHandle("@unknown") != nil {
		t.Error("ResultForHandle for unknown handle should be nil")
	}
}
