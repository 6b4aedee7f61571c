package agg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/huangsam/repopulse/schema"
)

func TestChoosePeriod(t *testing.T) {
	tests := []struct {
		days int
		want schema.Granularity
	}{
		{0, schema.Daily},
		{7, schema.Daily},
		{8, schema.Weekly},
		{30, schema.Weekly},
		{90, schema.Weekly},
		{91, schema.Monthly},
		{365, schema.Monthly},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ChoosePeriod(tt.days), "days=%d", tt.days)
	}
}

func TestChooseCycleTimePeriod(t *testing.T) {
	tests := []struct {
		days int
		want schema.Granularity
	}{
		{7, schema.Daily},
		{8, schema.Weekly},
		{30, schema.Weekly},
		{31, schema.Monthly},
		{90, schema.Monthly},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ChooseCycleTimePeriod(tt.days), "days=%d", tt.days)
	}
}

func TestWholeDays(t *testing.T) {
	assert.Equal(t, 30, wholeDays(marchRange))
	assert.Equal(t, 0, wholeDays(schema.DateRange{Start: march(1, 0), End: march(1, 23)}))
	assert.Equal(t, 7, wholeDays(schema.DateRange{Start: march(1, 0), End: march(8, 0)}))
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday", march(10, 15), march(10, 0)},
		{"sunday", march(9, 23), march(3, 0)},
		{"saturday", march(1, 12), time.Date(2025, time.February, 24, 0, 0, 0, 0, time.UTC)},
		{"wednesday", march(26, 0), march(24, 0)},
		{"non-utc input", time.Date(2025, time.March, 10, 0, 30, 0, 0, time.FixedZone("CET", 3600)), march(3, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := weekStart(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, time.Monday, got.Weekday())
		})
	}
}

func TestPeriodKey(t *testing.T) {
	ts := march(26, 18)
	assert.Equal(t, "2025-03-26", periodKey(ts, schema.Daily))
	assert.Equal(t, "2025-03-24", periodKey(ts, schema.Weekly))
	assert.Equal(t, "2025-03", periodKey(ts, schema.Monthly))
}
