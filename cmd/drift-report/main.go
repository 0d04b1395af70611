package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"

	"github.com/snofokk/snofokk/internal/drift"
	"github.com/snofokk/snofokk/internal/log"
	"github.com/snofokk/snofokk/internal/meteo"
)

func main() {
	var (
		lat       = flag.Float64("lat", 0, "Latitude of the analysis point")
		lon       = flag.Float64("lon", 0, "Longitude of the analysis point")
		startStr  = flag.String("start", "", "Analysis start date (YYYY-MM-DD, default ten seasons back)")
		endStr    = flag.String("end", "", "Analysis end date (YYYY-MM-DD, default three days ago)")
		endpoint  = flag.String("api", "", "Archive API endpoint (default public open-meteo)")
		threshold = flag.Float64("threshold", 0, "Entrainment threshold wind speed in m/s (default 5.0)")
		csvOutput = flag.String("csv", "", "Optional CSV output file path")
		dbConnStr = flag.String("db", "", "Optional Postgres connection string to store the estimate")
		siteName  = flag.String("site", "", "Site name for the stored estimate (required with -db)")
		debug     = flag.Bool("debug", false, "Turn on debugging output")
	)
	flag.Parse()

	if *lat == 0 && *lon == 0 {
		fmt.Fprintln(os.Stderr, "Error: -lat and -lon are required")
		os.Exit(1)
	}
	if *dbConnStr != "" && *siteName == "" {
		fmt.Fprintln(os.Stderr, "Error: -site is required with -db")
		os.Exit(1)
	}

	if err := log.Init(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	end := time.Now().UTC().AddDate(0, 0, -3)
	if *endStr != "" {
		parsed, err := time.Parse("2006-01-02", *endStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid end date: %v\n", err)
			os.Exit(1)
		}
		end = parsed
	}
	start := time.Date(end.Year()-10, time.July, 1, 0, 0, 0, 0, time.UTC)
	if *startStr != "" {
		parsed, err := time.Parse("2006-01-02", *startStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid start date: %v\n", err)
			os.Exit(1)
		}
		start = parsed
	}

	params := drift.DefaultParams()
	if *threshold > 0 {
		params.ThresholdWindSpeed = *threshold
	}

	fmt.Printf("Snow Drift Transport Report\n")
	fmt.Printf("===========================\n\n")
	fmt.Printf("Configuration:\n")
	fmt.Printf("  Location:  %.4f, %.4f\n", *lat, *lon)
	fmt.Printf("  Range:     %s to %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	fmt.Printf("  Threshold: %.1f m/s\n\n", params.ThresholdWindSpeed)

	client := meteo.NewClient(*endpoint, log.GetSugaredLogger())
	series, err := client.FetchArchive(context.Background(), meteo.Request{
		Latitude:  *lat,
		Longitude: *lon,
		Start:     start,
		End:       end,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching archive weather: %v\n", err)
		os.Exit(1)
	}
	first, last := series.Span()
	fmt.Printf("Fetched %d hourly records spanning %s to %s\n\n",
		len(series.Records), first.Format("2006-01-02"), last.Format("2006-01-02"))

	result, err := drift.NewEstimator(params).Estimate(series)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error estimating drift transport: %v\n", err)
		os.Exit(1)
	}

	displayReport(result)

	if *csvOutput != "" {
		if err := writeCSV(*csvOutput, result); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nWrote %s\n", *csvOutput)
	}

	if *dbConnStr != "" {
		if err := storeEstimate(*dbConnStr, *siteName, *lat, *lon, result); err != nil {
			fmt.Fprintf(os.Stderr, "Error storing estimate: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nStored estimate for site %q\n", *siteName)
	}
}

func displayReport(result *drift.Result) {
	fmt.Printf("%-12s %14s %14s %10s %8s %10s %6s\n",
		"Season", "Qt (kg/m)", "Qt (t/m)", "Swe (mm)", "Hours", "Fence (m)", "Rows")
	fmt.Printf("%-12s %14s %14s %10s %8s %10s %6s\n",
		"------", "---------", "--------", "--------", "-----", "---------", "----")

	for i, s := range result.Seasons {
		f := result.Fences[i]
		control := ""
		if !s.Control {
			control = "  (low data quality)"
		}
		fmt.Printf("%-12s %14.1f %14.2f %10.1f %8d %10.1f %6d%s\n",
			s.Season, s.TransportKgPerM, s.TransportKgPerM/1000, s.SnowfallWE,
			s.TransportHours, f.RequiredHeightM, f.Rows, control)
	}

	fmt.Println()
	if math.IsNaN(result.OverallAvgKgPerM) {
		fmt.Printf("Overall average: n/a (no season passed the quality gate)\n")
	} else {
		fmt.Printf("Overall average: %.1f kg/m (%.2f t/m)\n",
			result.OverallAvgKgPerM, result.OverallAvgKgPerM/1000)
	}
}

func writeCSV(path string, result *drift.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"season", "qt_kg_per_m", "control", "transport_hours",
		"snowfall_we_mm", "coverage", "fence_height_m", "fence_rows"}); err != nil {
		return err
	}
	for i, s := range result.Seasons {
		fence := result.Fences[i]
		record := []string{
			s.Season,
			strconv.FormatFloat(s.TransportKgPerM, 'f', 2, 64),
			strconv.FormatBool(s.Control),
			strconv.Itoa(s.TransportHours),
			strconv.FormatFloat(s.SnowfallWE, 'f', 1, 64),
			strconv.FormatFloat(s.Coverage, 'f', 3, 64),
			strconv.FormatFloat(fence.RequiredHeightM, 'f', 1, 64),
			strconv.Itoa(fence.Rows),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// storeEstimate upserts the result into the drift_estimates cache table
// used by the service, so one-off reports and the daemon share a cache.
func storeEstimate(connStr, site string, lat, lon float64, result *drift.Result) error {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return err
	}

	seasons, err := json.Marshal(result.Seasons)
	if err != nil {
		return err
	}
	fences, err := json.Marshal(result.Fences)
	if err != nil {
		return err
	}

	var overall sql.NullFloat64
	if !math.IsNaN(result.OverallAvgKgPerM) {
		overall = sql.NullFloat64{Float64: result.OverallAvgKgPerM, Valid: true}
	}

	query := `
		INSERT INTO drift_estimates (created_at, updated_at, site_name, location, overall_avg_kg_per_m, seasons, fences)
		VALUES (NOW(), NOW(), $1, $2, $3, $4, $5)
		ON CONFLICT (site_name) DO UPDATE SET
			updated_at = NOW(),
			location = EXCLUDED.location,
			overall_avg_kg_per_m = EXCLUDED.overall_avg_kg_per_m,
			seasons = EXCLUDED.seasons,
			fences = EXCLUDED.fences
	`
	location := fmt.Sprintf("%.6f,%.6f", lat, lon)
	_, err = db.Exec(query, site, location, overall, seasons, fences)
	return err
}
