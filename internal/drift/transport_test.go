package drift

import (
	"math"
	"testing"
	"time"

	"github.com/snofokk/snofokk/internal/types"
)

func fp(v float64) *float64 { return &v }

// hourlySeason builds a season of hourly records with fixed conditions.
func hourlySeason(label string, start time.Time, hours int, temp, wind, snow float64) season {
	s := season{label: label}
	for i := 0; i < hours; i++ {
		s.records = append(s.records, types.WeatherRecord{
			Timestamp:   start.Add(time.Duration(i) * time.Hour),
			Temperature: fp(temp),
			WindSpeed:   fp(wind),
			Snowfall:    fp(snow),
		})
	}
	return s
}

func TestTransportRateMonotonic(t *testing.T) {
	prev := 0.0
	for _, u := range []float64{5, 8, 12, 20} {
		q := transportRate(u)
		if q <= prev {
			t.Errorf("transportRate(%v) = %v, not increasing", u, q)
		}
		prev = q
	}
}

func TestTransportRateKnownValue(t *testing.T) {
	// 10 m/s: 10^3.8 / 233847 ≈ 0.02698 kg/(m·s)
	got := transportRate(10)
	want := math.Pow(10, 3.8) / 233847.0
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("transportRate(10) = %v, want %v", got, want)
	}
}

func TestSeasonTransportBelowThreshold(t *testing.T) {
	start := time.Date(2019, time.December, 1, 0, 0, 0, 0, time.UTC)
	s := hourlySeason("2019/2020", start, 24*60, -5, 3.0, 0.5)

	qt, swe, hours, _ := seasonTransport(&s, DefaultParams())
	if qt != 0 {
		t.Errorf("expected zero transport below entrainment threshold, got %v", qt)
	}
	if hours != 0 {
		t.Errorf("expected zero transport hours, got %d", hours)
	}
	if swe <= 0 {
		t.Errorf("expected snowfall to accumulate, got %v", swe)
	}
}

func TestSeasonTransportWarmWindIgnored(t *testing.T) {
	// Strong wind but air too warm for snow: nothing to move.
	start := time.Date(2019, time.December, 1, 0, 0, 0, 0, time.UTC)
	s := hourlySeason("2019/2020", start, 24*30, 8, 12.0, 0)

	qt, swe, _, _ := seasonTransport(&s, DefaultParams())
	if qt != 0 || swe != 0 {
		t.Errorf("expected no transport and no swe above snow temperature, got qt=%v swe=%v", qt, swe)
	}
}

func TestSeasonTransportNoSnowfallNoTransport(t *testing.T) {
	// Cold and windy, but it never snows: supply bound holds transport at zero.
	start := time.Date(2019, time.December, 1, 0, 0, 0, 0, time.UTC)
	s := hourlySeason("2019/2020", start, 24*30, -10, 12.0, 0)

	qt, _, _, _ := seasonTransport(&s, DefaultParams())
	if qt != 0 {
		t.Errorf("expected zero transport without snowfall, got %v", qt)
	}
}

func TestSeasonTransportAccumulates(t *testing.T) {
	start := time.Date(2019, time.December, 1, 0, 0, 0, 0, time.UTC)
	s := hourlySeason("2019/2020", start, 24*100, -5, 8.0, 0.5)
	p := DefaultParams()

	qt, swe, hours, limited := seasonTransport(&s, p)
	if qt <= 0 {
		t.Fatalf("expected positive transport, got %v", qt)
	}
	if hours != 24*100 {
		t.Errorf("expected %d transport hours, got %d", 24*100, hours)
	}
	if swe != 24*100*0.5 {
		t.Errorf("expected swe %v, got %v", 24*100*0.5, swe)
	}
	if limited {
		t.Errorf("transport should be wind-limited in this scenario")
	}

	// Wind-potential value: rate(8) over every hour of the season.
	want := transportRate(8) * 3600 * 24 * 100
	if math.Abs(qt-want) > 1e-6*want {
		t.Errorf("qt = %v, want %v", qt, want)
	}
}

func TestSeasonTransportSnowfallLimited(t *testing.T) {
	// A trace of early snow followed by months of storm winds: the total
	// must saturate at the snowfall-limited bound.
	start := time.Date(2019, time.November, 1, 0, 0, 0, 0, time.UTC)
	s := hourlySeason("2019/2020", start, 24, -5, 3.0, 0.1)
	windy := hourlySeason("2019/2020", start.Add(24*time.Hour), 24*120, -5, 15.0, 0)
	s.records = append(s.records, windy.records...)
	p := DefaultParams()

	qt, swe, _, limited := seasonTransport(&s, p)
	if !limited {
		t.Fatalf("expected snowfall-limited transport")
	}
	bound := snowfallLimit(swe, p)
	if math.Abs(qt-bound) > 1e-9 {
		t.Errorf("qt = %v, want bound %v", qt, bound)
	}
}

func TestSnowfallLimitScaling(t *testing.T) {
	p := DefaultParams()
	if snowfallLimit(0, p) != 0 {
		t.Errorf("zero swe must give zero limit")
	}
	a, b := snowfallLimit(100, p), snowfallLimit(200, p)
	if math.Abs(b-2*a) > 1e-9 {
		t.Errorf("limit must scale linearly with swe: %v vs %v", a, b)
	}
}
