package scraper

import (
	"encoding/json"
	"strconv"
	"strings"
)

// flexString unmarshals a JSON field that may arrive as either a string or a
// number. ScrapingDog is inconsistent about this for counts.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(string(b))
	return nil
}

// ParseViewCount parses the view count formats ScrapingDog returns:
// "876,754,415 views", "3M", "1.2K", "33", 33. Returns 0 when unparsable.
func ParseViewCount(raw string) int64 {
	cleaned := strings.ToLower(raw)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, "views", "")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" || cleaned == "null" {
		return 0
	}

	// Shorthand like "3M", "1.2K", "19B"
	multipliers := map[byte]float64{'k': 1_000, 'm': 1_000_000, 'b': 1_000_000_000}
	if mult, ok := multipliers[cleaned[len(cleaned)-1]]; ok {
		n, err := strconv.ParseFloat(cleaned[:len(cleaned)-1], 64)
		if err != nil {
			return 0
		}
		return int64(n * mult)
	}

	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return int64(n)
}

// ParsePublishedTime converts relative publish times like "3 months ago",
// "1 day ago" or "2 years ago" into an approximate age in days. Returns nil
// when the string cannot be parsed.
func ParsePublishedTime(raw string) *int {
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(raw)))
	if len(parts) < 3 {
		return nil
	}

	n, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil
	}

	var days int
	unit := parts[1]
	switch {
	case strings.Contains(unit, "hour"):
		days = 0
	case strings.Contains(unit, "day"):
		days = n
	case strings.Contains(unit, "week"):
		days = n * 7
	case strings.Contains(unit, "month"):
		days = n * 30
	case strings.Contains(unit, "year"):
		days = n * 365
	default:
		return nil
	}
	return &days
}
