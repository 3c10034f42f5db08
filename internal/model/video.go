package model

// VideoRecord is a single video as parsed from the channel scraper.
// Views <= 0 means the view count was missing or unparsable; DaysAgo is nil
// when the publish time could not be parsed.
type VideoRecord struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Link          string `json:"link"`
	Views         int64  `json:"views"`
	PublishedTime string `json:"publishedTime,omitempty"`
	DaysAgo       *int   `json:"daysAgo,omitempty"`
	Thumbnail     string `json:"thumbnail,omitempty"`
	Length        string `json:"length,omitempty"`
}

// ScoredVideo is a video that came out of the outperformance analysis.
// PerformanceRatio is views divided by the channel's average view count,
// rounded to 2 decimal places for display.
type ScoredVideo struct {
	VideoRecord
	PerformanceRatio float64 `json:"performanceRatio"`
	IsRecent         bool    `json:"isRecent"`
}
