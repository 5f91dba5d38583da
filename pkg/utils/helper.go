package utils

import (
	"strconv"
	"time"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// DateRange is a half-open [Start, End) window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// SplitDateRanges cuts [start, end) into consecutive windows of at most chunkDays days.
func SplitDateRanges(start, end time.Time, chunkDays int) []DateRange {
	if chunkDays <= 0 || !start.Before(end) {
		return nil
	}

	var ranges []DateRange
	for cursor := start; cursor.Before(end); {
		next := cursor.AddDate(0, 0, chunkDays)
		if next.After(end) {
			next = end
		}
		ranges = append(ranges, DateRange{Start: cursor, End: next})
		cursor = next
	}

	return ranges
}
