package meteo

import (
	"time"
)

// Request describes one archive fetch: a geographic point and a date
// range. It replaces any ambient location/date state the caller may hold.
type Request struct {
	Latitude  float64
	Longitude float64
	Start     time.Time
	End       time.Time
}

// archiveResponse mirrors the open-meteo ERA5 archive API response for an
// hourly query. Readings the reanalysis could not produce arrive as JSON
// nulls, hence the pointer slices.
type archiveResponse struct {
	Latitude    float64      `json:"latitude"`
	Longitude   float64      `json:"longitude"`
	HourlyUnits hourlyUnits  `json:"hourly_units"`
	Hourly      hourlyArrays `json:"hourly"`
	Error       bool         `json:"error"`
	Reason      string       `json:"reason"`
}

type hourlyUnits struct {
	Time          string `json:"time"`
	Temperature2M string `json:"temperature_2m"`
	WindSpeed10M  string `json:"wind_speed_10m"`
	Snowfall      string `json:"snowfall"`
}

type hourlyArrays struct {
	Time          []string   `json:"time"`
	Temperature2M []*float64 `json:"temperature_2m"`
	WindSpeed10M  []*float64 `json:"wind_speed_10m"`
	Snowfall      []*float64 `json:"snowfall"`
}
