package agg

import (
	"time"

	"github.com/huangsam/repopulse/schema"
)

// Period key layouts.
const (
	dayKeyFormat   = "2006-01-02"
	monthKeyFormat = "2006-01"
)

// ChoosePeriod picks the throughput granularity for a range spanning rangeDays
// whole days: up to a week is daily, up to 90 days is weekly, longer is monthly.
func ChoosePeriod(rangeDays int) schema.Granularity {
	switch {
	case rangeDays <= 7:
		return schema.Daily
	case rangeDays <= 90:
		return schema.Weekly
	default:
		return schema.Monthly
	}
}

// ChooseCycleTimePeriod picks the cycle time granularity: up to a week is daily,
// up to 30 days is weekly, longer is monthly.
func ChooseCycleTimePeriod(rangeDays int) schema.Granularity {
	switch {
	case rangeDays <= 7:
		return schema.Daily
	case rangeDays <= 30:
		return schema.Weekly
	default:
		return schema.Monthly
	}
}

// wholeDays returns the number of complete days in rng.
func wholeDays(rng schema.DateRange) int {
	return int(rng.End.Sub(rng.Start) / (24 * time.Hour))
}

// dayStart truncates t to midnight UTC.
func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// weekStart returns midnight UTC of the Monday on or before t.
func weekStart(t time.Time) time.Time {
	d := dayStart(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// periodKey formats the bucket containing t at granularity g.
func periodKey(t time.Time, g schema.Granularity) string {
	switch g {
	case schema.Weekly:
		return weekStart(t).Format(dayKeyFormat)
	case schema.Monthly:
		return t.UTC().Format(monthKeyFormat)
	default:
		return dayStart(t).Format(dayKeyFormat)
	}
}
