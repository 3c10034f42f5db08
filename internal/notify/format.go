// Package notify delivers analysis reports to the configured notification
// channels: a styled HTML email and a Telegram chat.
package notify

import (
	"fmt"
	"strconv"
)

// FormatViews renders a view count in shorthand: 1.2K, 3.4M.
func FormatViews(views int64) string {
	switch {
	case views >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(views)/1_000_000)
	case views >= 1_000:
		return fmt.Sprintf("%.1fK", float64(views)/1_000)
	}
	return strconv.FormatInt(views, 10)
}

// FormatRatio renders a performance ratio as percent above average ("+129%").
func FormatRatio(ratio float64) string {
	return fmt.Sprintf("+%.0f%%", (ratio-1)*100)
}
