package types

import (
	"time"
)

// WeatherRecord is a single timestep of an archive weather series.
// Nil pointers represent missing observations for that timestep, so a
// record can carry a valid temperature alongside a missing wind speed.
type WeatherRecord struct {
	Timestamp   time.Time
	Temperature *float64 // air temperature at 2 m, °C
	WindSpeed   *float64 // wind speed at 10 m, m/s
	Snowfall    *float64 // snowfall water equivalent for the timestep, mm
}

// Valid reports whether the record carries all three observations.
func (r *WeatherRecord) Valid() bool {
	return r.Temperature != nil && r.WindSpeed != nil && r.Snowfall != nil
}

// WeatherSeries is an ordered, time-indexed weather series for a single
// geographic point. The Has* flags record which fields the producer was
// able to populate at all; a false flag means the upstream source did not
// return that variable, which is distinct from individual nil readings.
type WeatherSeries struct {
	Latitude       float64
	Longitude      float64
	HasTemperature bool
	HasWindSpeed   bool
	HasSnowfall    bool
	Records        []WeatherRecord
}

// Span returns the first and last timestamps of the series. Zero times
// are returned for an empty series.
func (s *WeatherSeries) Span() (time.Time, time.Time) {
	if len(s.Records) == 0 {
		return time.Time{}, time.Time{}
	}
	return s.Records[0].Timestamp, s.Records[len(s.Records)-1].Timestamp
}
