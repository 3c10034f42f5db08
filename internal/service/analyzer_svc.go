package service

import (
	"math"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/uclone1/yt-competitor-monitor/internal/model"
)

const (
	// DefaultRecentDays is the window for flagging a video as recent.
	DefaultRecentDays = 90

	// DefaultMinPerformanceRatio is the minimum views/avg ratio for a video
	// to be considered at all. 1.0 means above average, 1.5 means 50% above
	// average, etc.
	DefaultMinPerformanceRatio = 1.0
)

// AnalyzerConfig holds the tunable thresholds of the analysis.
type AnalyzerConfig struct {
	RecentDays          int
	MinPerformanceRatio float64
}

// DefaultAnalyzerConfig returns the standard thresholds.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		RecentDays:          DefaultRecentDays,
		MinPerformanceRatio: DefaultMinPerformanceRatio,
	}
}

// AnalyzerService finds videos performing above their channel's average view
// count. It is a pure computation over already-fetched data: no I/O, no
// shared state, safe to call from any goroutine.
type AnalyzerService struct {
	cfg AnalyzerConfig
}

// NewAnalyzerService creates an analyzer with the given thresholds.
// Zero-valued thresholds fall back to the defaults.
func NewAnalyzerService(cfg AnalyzerConfig) *AnalyzerService {
	if cfg.RecentDays <= 0 {
		cfg.RecentDays = DefaultRecentDays
	}
	if cfg.MinPerformanceRatio <= 0 {
		cfg.MinPerformanceRatio = DefaultMinPerformanceRatio
	}
	return &AnalyzerService{cfg: cfg}
}

// AnalyzeChannel analyzes a single channel's videos. The algorithm:
//
//  1. Keep only videos with views > 0 ("valid" videos).
//  2. avg = sum(views) / count(valid)
//  3. ratio = views / avg for each valid video (0 when avg is 0).
//  4. Keep videos with ratio >= MinPerformanceRatio, flagging each as recent
//     when its age in days is known and <= RecentDays.
//  5. Sort by ratio descending (stable, ties keep fetch order).
//  6. Keep only videos strictly above average (ratio > 1.0).
//
// A channel with no videos, or none with a valid view count, yields an empty
// result with AvgViews 0. This never fails: every input shape produces a
// well-formed AnalysisResult.
func (s *AnalyzerService) AnalyzeChannel(ch model.ChannelRecord) model.AnalysisResult {
	result := model.AnalysisResult{
		ChannelName:   ch.ChannelName,
		Handle:        ch.Handle,
		Subscribers:   ch.Subscribers,
		Outperforming: []model.ScoredVideo{},
	}

	if len(ch.Videos) == 0 {
		log.Warn().Str("channel", ch.ChannelName).Msg("no videos found")
		return result
	}

	var valid []model.VideoRecord
	var totalViews int64
	for _, v := range ch.Videos {
		if v.Views > 0 {
			valid = append(valid, v)
			totalViews += v.Views
		}
	}

	if len(valid) == 0 {
		log.Warn().Str("channel", ch.ChannelName).Msg("no videos with valid view counts")
		return result
	}

	avg := float64(totalViews) / float64(len(valid))

	type candidate struct {
		video model.VideoRecord
		ratio float64
	}

	var candidates []candidate
	for _, v := range valid {
		var ratio float64
		if avg > 0 {
			ratio = float64(v.Views) / avg
		}
		if ratio >= s.cfg.MinPerformanceRatio {
			candidates = append(candidates, candidate{video: v, ratio: ratio})
		}
	}

	// Sort by raw ratio, highest first. Stable so equal ratios keep the
	// order the scraper returned them in.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ratio > candidates[j].ratio
	})

	// The min-ratio threshold above and this cut coincide at the default
	// config, but they are independent filters: with a threshold below 1.0
	// the cut still removes below-average videos, and with a threshold
	// above 1.0 the cut is a no-op.
	outperforming := result.Outperforming
	for _, c := range candidates {
		if c.ratio <= 1.0 {
			continue
		}
		outperforming = append(outperforming, model.ScoredVideo{
			VideoRecord:      c.video,
			PerformanceRatio: math.Round(c.ratio*100) / 100,
			IsRecent:         c.video.DaysAgo != nil && *c.video.DaysAgo <= s.cfg.RecentDays,
		})
	}

	result.AvgViews = int64(math.Round(avg))
	result.TotalVideosAnalyzed = len(valid)
	result.Outperforming = outperforming

	log.Info().
		Str("channel", ch.ChannelName).
		Int64("avg_views", result.AvgViews).
		Int("outperforming", len(outperforming)).
		Int("valid_videos", len(valid)).
		Msg("channel analyzed")

	return result
}

// AnalyzeAll analyzes every channel independently (one goroutine per channel)
// and returns only channels that have at least one outperforming video,
// sorted by outperforming count descending. Stable: channels with equal
// counts keep their input order.
func (s *AnalyzerService) AnalyzeAll(channels []model.ChannelRecord) []model.AnalysisResult {
	analyses := make([]model.AnalysisResult, len(channels))

	var wg sync.WaitGroup
	for i, ch := range channels {
		wg.Add(1)
		go func(i int, ch model.ChannelRecord) {
			defer wg.Done()
			analyses[i] = s.AnalyzeChannel(ch)
		}(i, ch)
	}
	wg.Wait()

	results := make([]model.AnalysisResult, 0, len(analyses))
	totalOutperforming := 0
	for _, a := range analyses {
		if len(a.Outperforming) > 0 {
			results = append(results, a)
			totalOutperforming += len(a.Outperforming)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return len(results[i].Outperforming) > len(results[j].Outperforming)
	})

	log.Info().
		Int("outperforming", totalOutperforming).
		Int("channels", len(results)).
		Msg("analysis complete")

	return results
}
