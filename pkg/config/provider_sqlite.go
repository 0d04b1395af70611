package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements ConfigProvider for SQLite configuration
// databases. Scalar settings live in a key/value table; sites get a table
// of their own.
type SQLiteProvider struct {
	db *sql.DB
}

// NewSQLiteProvider opens a SQLite configuration database
func NewSQLiteProvider(filename string) (*SQLiteProvider, error) {
	if _, err := os.Stat(filename); err != nil {
		return nil, fmt.Errorf("configuration database %s not accessible: %w", filename, err)
	}

	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, fmt.Errorf("error opening configuration database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to configuration database: %w", err)
	}

	return &SQLiteProvider{db: db}, nil
}

// LoadConfig loads the complete configuration from the database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	settings, err := s.loadSettings()
	if err != nil {
		return nil, err
	}

	sites, err := s.GetSites()
	if err != nil {
		return nil, err
	}

	config := &ConfigData{
		HTTP: HTTPData{
			ListenAddr: settings["http.listen_addr"],
			Port:       atoiOrZero(settings["http.port"]),
		},
		Meteo: MeteoData{APIEndpoint: settings["meteo.api_endpoint"]},
		Elhub: ElhubData{
			APIEndpoint: settings["elhub.api_endpoint"],
			Dataset:     settings["elhub.dataset"],
		},
		Map: MapData{GeoJSONPath: settings["map.geojson_path"]},
		Drift: DriftData{
			SeasonStartMonth:   atoiOrZero(settings["drift.season_start_month"]),
			ThresholdWindSpeed: atofOrZero(settings["drift.threshold_wind_speed"]),
			RelocationCoeff:    atofOrZero(settings["drift.relocation_coeff"]),
			FetchDistance:      atofOrZero(settings["drift.fetch_distance"]),
			RefreshInterval:    settings["drift.refresh_interval"],
		},
		Sites: sites,
	}

	if v, ok := settings["drift.snow_temp_max"]; ok {
		f := atofOrZero(v)
		config.Drift.SnowTempMax = &f
	}

	if connStr := settings["storage.timescaledb.connection_string"]; connStr != "" {
		config.Storage.TimescaleDB = &TimescaleDBData{ConnectionString: connStr}
	}

	return config, nil
}

func (s *SQLiteProvider) loadSettings() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("error reading settings table: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

// GetSites returns the configured sites
func (s *SQLiteProvider) GetSites() ([]SiteData, error) {
	rows, err := s.db.Query(`SELECT name, latitude, longitude, COALESCE(price_area, '') FROM sites ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error reading sites table: %w", err)
	}
	defer rows.Close()

	var sites []SiteData
	for rows.Next() {
		var site SiteData
		if err := rows.Scan(&site.Name, &site.Latitude, &site.Longitude, &site.PriceArea); err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

// GetStorageConfig returns the storage configuration
func (s *SQLiteProvider) GetStorageConfig() (*StorageData, error) {
	cfg, err := s.LoadConfig()
	if err != nil {
		return nil, err
	}
	return &cfg.Storage, nil
}

// IsReadOnly returns false; SQLite configuration can be edited in place
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database handle
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}

func atoiOrZero(v string) int {
	n, _ := strconv.Atoi(v)
	return n
}

func atofOrZero(v string) float64 {
	f, _ := strconv.ParseFloat(v, 64)
	return f
}
