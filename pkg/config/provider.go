// Package config provides configuration loading for snofokk from YAML
// files or SQLite databases behind a common provider interface.
package config

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetSites() ([]SiteData, error)
	GetStorageConfig() (*StorageData, error)

	// Configuration management
	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	HTTP    HTTPData    `json:"http,omitempty"`
	Storage StorageData `json:"storage,omitempty"`
	Meteo   MeteoData   `json:"meteo,omitempty"`
	Elhub   ElhubData   `json:"elhub,omitempty"`
	Map     MapData     `json:"map,omitempty"`
	Drift   DriftData   `json:"drift,omitempty"`
	Sites   []SiteData  `json:"sites"`
}

// HTTPData holds the REST server configuration
type HTTPData struct {
	ListenAddr string `json:"listen_addr,omitempty"`
	Port       int    `json:"port,omitempty"`
}

// StorageData holds the configuration for storage backends
type StorageData struct {
	TimescaleDB *TimescaleDBData `json:"timescaledb,omitempty"`
}

// TimescaleDBData holds the TimescaleDB connection configuration
type TimescaleDBData struct {
	ConnectionString string `json:"connection_string"`
}

// MeteoData holds the archive weather API configuration
type MeteoData struct {
	APIEndpoint string `json:"api_endpoint,omitempty"`
}

// ElhubData holds the Elhub energy-data API configuration
type ElhubData struct {
	APIEndpoint string `json:"api_endpoint,omitempty"`
	Dataset     string `json:"dataset,omitempty"`
}

// MapData holds the price-area map configuration
type MapData struct {
	GeoJSONPath string `json:"geojson_path,omitempty"`
}

// DriftData holds the snow transport model parameters. Zero values mean
// "use the model default". SnowTempMax is a pointer because 0 °C is a
// meaningful threshold, distinct from unset.
type DriftData struct {
	SeasonStartMonth   int      `json:"season_start_month,omitempty"`
	ThresholdWindSpeed float64  `json:"threshold_wind_speed,omitempty"`
	SnowTempMax        *float64 `json:"snow_temp_max,omitempty"`
	RelocationCoeff    float64  `json:"relocation_coeff,omitempty"`
	FetchDistance      float64  `json:"fetch_distance,omitempty"`
	RefreshInterval    string   `json:"refresh_interval,omitempty"`
}

// SiteData holds one monitored site for the drift cache controller
type SiteData struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	PriceArea string  `json:"price_area,omitempty"`
}
