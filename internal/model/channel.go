package model

import (
	"time"
)

// ChannelRecord is one competitor channel as returned by a single scraper
// fetch: channel metadata plus the videos visible on the channel page.
type ChannelRecord struct {
	ChannelName      string        `json:"channelName"`
	Handle           string        `json:"handle"`
	Subscribers      int64         `json:"subscribers"`
	TotalVideosCount int64         `json:"totalVideosCount,omitempty"`
	Videos           []VideoRecord `json:"videos"`
}

// AnalysisResult is the outcome of analyzing one channel. Outperforming is
// ordered by performance ratio descending (stable on input order for ties)
// and contains only videos strictly above the channel average.
type AnalysisResult struct {
	ChannelName         string        `json:"channelName"`
	Handle              string        `json:"handle"`
	Subscribers         int64         `json:"subscribers"`
	AvgViews            int64         `json:"avgViews"`
	TotalVideosAnalyzed int           `json:"totalVideosAnalyzed"`
	Outperforming       []ScoredVideo `json:"outperformingVideos"`
}

// Report is one complete monitoring run: the aggregated analysis results
// (channels with outperforming videos, most hits first) plus run metadata.
type Report struct {
	RunID              string           `json:"runId"`
	GeneratedAt        time.Time        `json:"generatedAt"`
	ChannelsFetched    int              `json:"channelsFetched"`
	TotalOutperforming int              `json:"totalOutperforming"`
	Results            []AnalysisResult `json:"results"`
}
