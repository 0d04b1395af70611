package drift

import (
	"testing"
	"time"

	"github.com/snofokk/snofokk/internal/types"
)

func TestSeasonLabel(t *testing.T) {
	tests := []struct {
		name       string
		ts         time.Time
		startMonth time.Month
		expected   string
	}{
		{
			name:       "after season start",
			ts:         time.Date(2019, time.November, 12, 0, 0, 0, 0, time.UTC),
			startMonth: time.July,
			expected:   "2019/2020",
		},
		{
			name:       "before season start",
			ts:         time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC),
			startMonth: time.July,
			expected:   "2019/2020",
		},
		{
			name:       "exactly on season start",
			ts:         time.Date(2020, time.July, 1, 0, 0, 0, 0, time.UTC),
			startMonth: time.July,
			expected:   "2020/2021",
		},
		{
			name:       "september start month",
			ts:         time.Date(2020, time.August, 31, 0, 0, 0, 0, time.UTC),
			startMonth: time.September,
			expected:   "2019/2020",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := seasonLabel(tt.ts, tt.startMonth); got != tt.expected {
				t.Errorf("seasonLabel() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSegmentSeasonsOrdering(t *testing.T) {
	// Two winters of daily records, deliberately supplied out of order.
	var recs []types.WeatherRecord
	for _, start := range []time.Time{
		time.Date(2021, time.December, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, time.December, 1, 0, 0, 0, 0, time.UTC),
	} {
		for d := 0; d < 60; d++ {
			recs = append(recs, types.WeatherRecord{
				Timestamp: start.AddDate(0, 0, d),
			})
		}
	}
	series := &types.WeatherSeries{Records: recs}

	seasons := segmentSeasons(series, time.July)
	if len(seasons) != 2 {
		t.Fatalf("expected 2 seasons, got %d", len(seasons))
	}
	if seasons[0].label != "2020/2021" || seasons[1].label != "2021/2022" {
		t.Errorf("seasons out of order: %q, %q", seasons[0].label, seasons[1].label)
	}
	for _, s := range seasons {
		for i := 1; i < len(s.records); i++ {
			if s.records[i].Timestamp.Before(s.records[i-1].Timestamp) {
				t.Errorf("season %s records not sorted", s.label)
			}
		}
	}
}

func TestSegmentSeasonsDropsZeroTimestamps(t *testing.T) {
	series := &types.WeatherSeries{Records: []types.WeatherRecord{
		{},
		{Timestamp: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)},
	}}
	seasons := segmentSeasons(series, time.July)
	if len(seasons) != 1 || len(seasons[0].records) != 1 {
		t.Fatalf("expected a single season with one record, got %+v", seasons)
	}
}

func TestSeasonStep(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
		count    int
		expected time.Duration
	}{
		{name: "hourly", interval: time.Hour, count: 48, expected: time.Hour},
		{name: "daily", interval: 24 * time.Hour, count: 10, expected: 24 * time.Hour},
		{name: "single record falls back to hourly", interval: 0, count: 1, expected: time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := season{}
			start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
			for i := 0; i < tt.count; i++ {
				s.records = append(s.records, types.WeatherRecord{
					Timestamp: start.Add(time.Duration(i) * tt.interval),
				})
			}
			if got := s.step(); got != tt.expected {
				t.Errorf("step() = %v, want %v", got, tt.expected)
			}
		})
	}
}
