package drift

import (
	"fmt"
	"sort"
	"time"

	"github.com/snofokk/snofokk/internal/types"
)

// season is a contiguous slice of the input series belonging to one snow
// season. Records are held in timestamp order.
type season struct {
	label   string
	records []types.WeatherRecord
}

// seasonLabel maps a timestamp to its season label. A season starting in
// July labels everything from July 2019 through June 2020 as "2019/2020".
func seasonLabel(t time.Time, startMonth time.Month) string {
	y := t.Year()
	if t.Month() < startMonth {
		y--
	}
	return fmt.Sprintf("%d/%d", y, y+1)
}

// segmentSeasons partitions the series into seasons in chronological
// order. Input records are sorted by timestamp first so that accumulation
// order, and therefore floating-point results, are deterministic for a
// given input regardless of how the producer ordered it. Records with a
// zero timestamp cannot be assigned to a season and are dropped.
func segmentSeasons(series *types.WeatherSeries, startMonth time.Month) []season {
	recs := make([]types.WeatherRecord, 0, len(series.Records))
	for _, r := range series.Records {
		if !r.Timestamp.IsZero() {
			recs = append(recs, r)
		}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Timestamp.Before(recs[j].Timestamp)
	})

	var seasons []season
	for _, r := range recs {
		label := seasonLabel(r.Timestamp, startMonth)
		if len(seasons) == 0 || seasons[len(seasons)-1].label != label {
			seasons = append(seasons, season{label: label})
		}
		s := &seasons[len(seasons)-1]
		s.records = append(s.records, r)
	}
	return seasons
}

// coverage returns the fraction of the season's records that carry all
// three observations, and the number of whole days spanned by the valid
// records.
func (s *season) coverage() (float64, int) {
	if len(s.records) == 0 {
		return 0, 0
	}
	valid := 0
	var first, last time.Time
	for i := range s.records {
		if !s.records[i].Valid() {
			continue
		}
		if valid == 0 {
			first = s.records[i].Timestamp
		}
		last = s.records[i].Timestamp
		valid++
	}
	if valid == 0 {
		return 0, 0
	}
	days := int(last.Sub(first).Hours() / 24)
	return float64(valid) / float64(len(s.records)), days
}

// step estimates the native sampling interval of the season as the median
// gap between consecutive records. Falls back to one hour when the season
// is too short to measure.
func (s *season) step() time.Duration {
	if len(s.records) < 2 {
		return time.Hour
	}
	gaps := make([]time.Duration, 0, len(s.records)-1)
	for i := 1; i < len(s.records); i++ {
		if d := s.records[i].Timestamp.Sub(s.records[i-1].Timestamp); d > 0 {
			gaps = append(gaps, d)
		}
	}
	if len(gaps) == 0 {
		return time.Hour
	}
	sort.Slice(gaps, func(i, j int) bool { return gaps[i] < gaps[j] })
	return gaps[len(gaps)/2]
}
