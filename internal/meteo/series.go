package meteo

import (
	"fmt"
	"time"

	"github.com/snofokk/snofokk/internal/types"
)

// snowToWaterEquivalent converts open-meteo snowfall (cm of snow per
// hour) into millimetres of water equivalent, assuming the 7:1
// snow-to-liquid ratio the API documents.
func snowToWaterEquivalent(snowfallCM float64) float64 {
	return snowfallCM * 10 / 7
}

// toSeries converts an archive response into a WeatherSeries. A variable
// the API omitted entirely leaves the corresponding Has flag false so the
// estimator can reject the series with a schema error; a variable present
// but mismatched in length against the time axis is a malformed response.
func (r *archiveResponse) toSeries() (*types.WeatherSeries, error) {
	n := len(r.Hourly.Time)

	for _, v := range []struct {
		name   string
		values []*float64
	}{
		{"temperature_2m", r.Hourly.Temperature2M},
		{"wind_speed_10m", r.Hourly.WindSpeed10M},
		{"snowfall", r.Hourly.Snowfall},
	} {
		if v.values != nil && len(v.values) != n {
			return nil, fmt.Errorf("archive API returned %d %s values for %d timestamps",
				len(v.values), v.name, n)
		}
	}

	series := &types.WeatherSeries{
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		HasTemperature: r.Hourly.Temperature2M != nil,
		HasWindSpeed:   r.Hourly.WindSpeed10M != nil,
		HasSnowfall:    r.Hourly.Snowfall != nil,
		Records:        make([]types.WeatherRecord, 0, n),
	}

	for i := 0; i < n; i++ {
		ts, err := time.Parse(archiveTimeLayout, r.Hourly.Time[i])
		if err != nil {
			return nil, fmt.Errorf("unable to parse archive timestamp %q: %v", r.Hourly.Time[i], err)
		}
		rec := types.WeatherRecord{Timestamp: ts.UTC()}
		if series.HasTemperature {
			rec.Temperature = r.Hourly.Temperature2M[i]
		}
		if series.HasWindSpeed {
			rec.WindSpeed = r.Hourly.WindSpeed10M[i]
		}
		if series.HasSnowfall && r.Hourly.Snowfall[i] != nil {
			swe := snowToWaterEquivalent(*r.Hourly.Snowfall[i])
			rec.Snowfall = &swe
		}
		series.Records = append(series.Records, rec)
	}
	return series, nil
}
