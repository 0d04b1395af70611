package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
}

// yamlConfig is the YAML-tagged mirror of ConfigData
type yamlConfig struct {
	HTTP struct {
		ListenAddr string `yaml:"listen_addr"`
		Port       int    `yaml:"port"`
	} `yaml:"http"`
	Storage struct {
		TimescaleDB *struct {
			ConnectionString string `yaml:"connection-string"`
		} `yaml:"timescaledb"`
	} `yaml:"storage"`
	Meteo struct {
		APIEndpoint string `yaml:"api_endpoint"`
	} `yaml:"meteo"`
	Elhub struct {
		APIEndpoint string `yaml:"api_endpoint"`
		Dataset     string `yaml:"dataset"`
	} `yaml:"elhub"`
	Map struct {
		GeoJSONPath string `yaml:"geojson_path"`
	} `yaml:"map"`
	Drift struct {
		SeasonStartMonth   int      `yaml:"season_start_month"`
		ThresholdWindSpeed float64  `yaml:"threshold_wind_speed"`
		SnowTempMax        *float64 `yaml:"snow_temp_max"`
		RelocationCoeff    float64  `yaml:"relocation_coeff"`
		FetchDistance      float64  `yaml:"fetch_distance"`
		RefreshInterval    string   `yaml:"refresh_interval"`
	} `yaml:"drift"`
	Sites []struct {
		Name      string  `yaml:"name"`
		Latitude  float64 `yaml:"latitude"`
		Longitude float64 `yaml:"longitude"`
		PriceArea string  `yaml:"price_area"`
	} `yaml:"sites"`
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from the YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	var raw yamlConfig
	if err := yaml.Unmarshal(cfgFile, &raw); err != nil {
		return nil, err
	}

	config := &ConfigData{
		HTTP: HTTPData{
			ListenAddr: raw.HTTP.ListenAddr,
			Port:       raw.HTTP.Port,
		},
		Meteo: MeteoData{APIEndpoint: raw.Meteo.APIEndpoint},
		Elhub: ElhubData{
			APIEndpoint: raw.Elhub.APIEndpoint,
			Dataset:     raw.Elhub.Dataset,
		},
		Map: MapData{GeoJSONPath: raw.Map.GeoJSONPath},
		Drift: DriftData{
			SeasonStartMonth:   raw.Drift.SeasonStartMonth,
			ThresholdWindSpeed: raw.Drift.ThresholdWindSpeed,
			SnowTempMax:        raw.Drift.SnowTempMax,
			RelocationCoeff:    raw.Drift.RelocationCoeff,
			FetchDistance:      raw.Drift.FetchDistance,
			RefreshInterval:    raw.Drift.RefreshInterval,
		},
		Sites: make([]SiteData, len(raw.Sites)),
	}

	if raw.Storage.TimescaleDB != nil {
		config.Storage.TimescaleDB = &TimescaleDBData{
			ConnectionString: raw.Storage.TimescaleDB.ConnectionString,
		}
	}

	for i, site := range raw.Sites {
		config.Sites[i] = SiteData{
			Name:      site.Name,
			Latitude:  site.Latitude,
			Longitude: site.Longitude,
			PriceArea: site.PriceArea,
		}
	}

	return config, nil
}

// GetSites returns the configured sites
func (y *YAMLProvider) GetSites() ([]SiteData, error) {
	cfg, err := y.LoadConfig()
	if err != nil {
		return nil, err
	}
	return cfg.Sites, nil
}

// GetStorageConfig returns the storage configuration
func (y *YAMLProvider) GetStorageConfig() (*StorageData, error) {
	cfg, err := y.LoadConfig()
	if err != nil {
		return nil, err
	}
	return &cfg.Storage, nil
}

// IsReadOnly returns true; YAML files are not modified at runtime
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML providers
func (y *YAMLProvider) Close() error {
	return nil
}
