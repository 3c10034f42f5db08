package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/uclone1/yt-competitor-monitor/internal/model"
)

// DefaultRequestDelay is the pause between ScrapingDog API calls.
const DefaultRequestDelay = 1500 * time.Millisecond

// ErrRunInProgress is returned when a manual trigger overlaps a running pipeline.
var ErrRunInProgress = errors.New("monitoring run already in progress")

// ChannelFetcher supplies channel data for a handle. Implemented by
// scraper.Client.
type ChannelFetcher interface {
	FetchChannel(ctx context.Context, handle string) (*model.ChannelRecord, error)
}

// Notifier delivers a finished report to one notification channel.
type Notifier interface {
	Send(report *model.Report) error
}

// MonitorWorker is the periodic background job driving the whole pipeline:
// fetch every competitor channel, analyze for outperformers, keep the latest
// report for the API, and push it to the notifiers.
type MonitorWorker struct {
	fetcher      ChannelFetcher
	analyzer     *AnalyzerService
	cache        *CacheService
	notifiers    []Notifier
	handles      []string
	interval     time.Duration
	requestDelay time.Duration
	stopCh       chan struct{}

	running atomic.Bool

	mu         sync.RWMutex
	lastReport *model.Report

	// Exposed via CounterFunc/GaugeFunc collectors in the handler package.
	runsTotal           atomic.Uint64
	fetchErrorsTotal    atomic.Uint64
	channelsFetched     atomic.Uint64
	cacheHits           atomic.Uint64
	cacheMisses         atomic.Uint64
	lastRunDurationSecs atomic.Uint64
}

// NewMonitorWorker creates a worker that runs the pipeline every interval.
func NewMonitorWorker(
	fetcher ChannelFetcher,
	analyzer *AnalyzerService,
	cache *CacheService,
	notifiers []Notifier,
	handles []string,
	interval time.Duration,
	requestDelay time.Duration,
) *MonitorWorker {
	if requestDelay <= 0 {
		requestDelay = DefaultRequestDelay
	}
	return &MonitorWorker{
		fetcher:      fetcher,
		analyzer:     analyzer,
		cache:        cache,
		notifiers:    notifiers,
		handles:      handles,
		interval:     interval,
		requestDelay: requestDelay,
		stopCh:       make(chan struct{}),
	}
}

// Start begins the periodic monitoring loop. It runs one pipeline
// immediately, then every interval.
func (w *MonitorWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Int("channels", len(w.handles)).
		Msg("monitor-worker: starting")

	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx)
		case <-ctx.Done():
			log.Info().Msg("monitor-worker: stopping (context cancelled)")
			return
		case <-w.stopCh:
			log.Info().Msg("monitor-worker: stopping (stop signal)")
			return
		}
	}
}

// Stop signals the worker to stop.
func (w *MonitorWorker) Stop() {
	close(w.stopCh)
}

func (w *MonitorWorker) tick(ctx context.Context) {
	report, err := w.TriggerRun(ctx)
	if err != nil {
		log.Error().Err(err).Msg("monitor-worker: run failed")
		return
	}
	log.Info().
		Str("run_id", report.RunID).
		Int("channels_fetched", report.ChannelsFetched).
		Int("outperforming", report.TotalOutperforming).
		Msg("monitor-worker: tick complete")
}

// TriggerRun executes one full pipeline run. Only one run can be in flight
// at a time; overlapping calls get ErrRunInProgress.
func (w *MonitorWorker) TriggerRun(ctx context.Context) (*model.Report, error) {
	if !w.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer w.running.Store(false)

	start := time.Now()
	runID := uuid.NewString()
	log.Info().Str("run_id", runID).Msg("monitoring run started")

	channels := w.fetchChannels(ctx)
	results := w.analyzer.AnalyzeAll(channels)

	totalOutperforming := 0
	for _, r := range results {
		totalOutperforming += len(r.Outperforming)
	}

	report := &model.Report{
		RunID:              runID,
		GeneratedAt:        time.Now(),
		ChannelsFetched:    len(channels),
		TotalOutperforming: totalOutperforming,
		Results:            results,
	}

	w.mu.Lock()
	w.lastReport = report
	w.mu.Unlock()

	w.notify(report)

	elapsed := time.Since(start)
	w.runsTotal.Add(1)
	w.lastRunDurationSecs.Store(uint64(elapsed.Seconds()))

	log.Info().
		Str("run_id", runID).
		Dur("elapsed", elapsed.Round(time.Millisecond)).
		Int("outperforming", totalOutperforming).
		Msg("monitoring run finished")

	return report, nil
}

// fetchChannels fetches every configured handle with cache-aside lookups and
// inter-request pacing. Failed channels are skipped; a partial fetch is still
// a usable run.
func (w *MonitorWorker) fetchChannels(ctx context.Context) []model.ChannelRecord {
	var out []model.ChannelRecord

	for i, handle := range w.handles {
		record := w.lookupChannel(ctx, handle)
		if record != nil {
			out = append(out, *record)
			w.channelsFetched.Add(1)
		} else {
			log.Warn().Str("handle", handle).Msg("skipping channel, failed to fetch data")
		}

		// Pace API calls; cached lookups don't need it but the delay is
		// cheap compared to a fetch.
		if i < len(w.handles)-1 {
			select {
			case <-time.After(w.requestDelay):
			case <-ctx.Done():
				return out
			}
		}
	}

	log.Info().Int("fetched", len(out)).Int("requested", len(w.handles)).
		Msg("channel fetch complete")
	return out
}

// lookupChannel is the cache-aside read path: Redis first, scraper on miss,
// then populate the cache. Returns nil when the channel cannot be fetched.
func (w *MonitorWorker) lookupChannel(ctx context.Context, handle string) *model.ChannelRecord {
	if w.cache != nil {
		cached, err := w.cache.GetChannel(ctx, handle)
		if err != nil {
			log.Warn().Err(err).Str("handle", handle).Msg("cache: channel get error")
		} else if cached != nil {
			w.cacheHits.Add(1)
			return cached
		}
		w.cacheMisses.Add(1)
	}

	record, err := w.fetcher.FetchChannel(ctx, handle)
	if err != nil {
		w.fetchErrorsTotal.Add(1)
		log.Error().Err(err).Str("handle", handle).Msg("channel fetch failed")
		return nil
	}

	if w.cache != nil {
		if err := w.cache.SetChannel(ctx, handle, record); err != nil {
			log.Warn().Err(err).Str("handle", handle).Msg("cache: channel set error")
		}
	}
	return record
}

// InvalidateCache drops all cached channel data so the next run fetches
// fresh results from the API.
func (w *MonitorWorker) InvalidateCache(ctx context.Context) {
	if w.cache == nil {
		return
	}
	for _, handle := range w.handles {
		if err := w.cache.InvalidateChannel(ctx, handle); err != nil {
			log.Warn().Err(err).Str("handle", handle).Msg("cache: channel invalidate error")
		}
	}
}

func (w *MonitorWorker) notify(report *model.Report) {
	for _, n := range w.notifiers {
		if err := n.Send(report); err != nil {
			log.Error().Err(err).Msg("notification failed")
		}
	}
}

// LatestReport returns the most recent report, or nil before the first run
// completes.
func (w *MonitorWorker) LatestReport() *model.Report {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastReport
}

// ResultForHandle returns the latest analysis result for one channel handle,
// or nil when the handle had no outperforming videos (or no run happened yet).
func (w *MonitorWorker) ResultForHandle(handle string) *model.AnalysisResult {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.lastReport == nil {
		return nil
	}
	for i := range w.lastReport.Results {
		if w.lastReport.Results[i].Handle == handle {
			return &w.lastReport.Results[i]
		}
	}
	return nil
}

// Counter accessors for the Prometheus collectors.

func (w *MonitorWorker) RunsTotal() uint64           { return w.runsTotal.Load() }
func (w *MonitorWorker) FetchErrorsTotal() uint64    { return w.fetchErrorsTotal.Load() }
func (w *MonitorWorker) ChannelsFetchedTotal() uint64 { return w.channelsFetched.Load() }
func (w *MonitorWorker) CacheHits() uint64           { return w.cacheHits.Load() }
func (w *MonitorWorker) CacheMisses() uint64         { return w.cacheMisses.Load() }
func (w *MonitorWorker) LastRunDurationSecs() uint64 { return w.lastRunDurationSecs.Load() }
