package database

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgtype"
	"gorm.io/gorm"

	"github.com/snofokk/snofokk/internal/drift"
	"github.com/snofokk/snofokk/internal/types"
)

// WeatherFetchRecord caches one archive API payload so repeated analyses
// of the same point and range skip the upstream fetch.
type WeatherFetchRecord struct {
	gorm.Model

	Location  string       `gorm:"uniqueIndex:idx_location_range,not null"`
	StartDate time.Time    `gorm:"uniqueIndex:idx_location_range,not null"`
	EndDate   time.Time    `gorm:"uniqueIndex:idx_location_range,not null"`
	Data      pgtype.JSONB `gorm:"type:jsonb;default:'{}';not null"`
}

func (WeatherFetchRecord) TableName() string {
	return "weather_fetches"
}

// DriftEstimateRecord holds the latest drift estimate for a configured
// site. The season and fence tables are stored as JSONB so the REST layer
// can serve them without recomputation.
type DriftEstimateRecord struct {
	gorm.Model

	SiteName         string       `gorm:"uniqueIndex,not null"`
	Location         string       `gorm:"not null"`
	PriceArea        string
	OverallAvgKgPerM *float64
	Seasons          pgtype.JSONB `gorm:"type:jsonb;default:'[]';not null"`
	Fences           pgtype.JSONB `gorm:"type:jsonb;default:'[]';not null"`
}

func (DriftEstimateRecord) TableName() string {
	return "drift_estimates"
}

// LocationString formats coordinates the way cache rows key on them.
func LocationString(lat, lon float64) string {
	return fmt.Sprintf("%.6f,%.6f", lat, lon)
}

// GetWeatherFetch returns the cached series for a location and range, or
// nil when that exact range has not been fetched before.
func (c *Client) GetWeatherFetch(location string, start, end time.Time) (*types.WeatherSeries, error) {
	var rec WeatherFetchRecord
	err := c.DB.Where("location = ? AND start_date = ? AND end_date = ?", location, start, end).First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	series := &types.WeatherSeries{}
	if err := json.Unmarshal(rec.Data.Bytes, series); err != nil {
		return nil, fmt.Errorf("error decoding cached weather payload: %w", err)
	}
	return series, nil
}

// UpsertWeatherFetch caches a fetched series so later analyses of the same
// location and range skip the upstream call.
func (c *Client) UpsertWeatherFetch(location string, start, end time.Time, series *types.WeatherSeries) error {
	data, err := jsonbFrom(series)
	if err != nil {
		return err
	}

	var existing WeatherFetchRecord
	err = c.DB.Where("location = ? AND start_date = ? AND end_date = ?", location, start, end).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return c.DB.Create(&WeatherFetchRecord{
			Location:  location,
			StartDate: start,
			EndDate:   end,
			Data:      data,
		}).Error
	}
	if err != nil {
		return err
	}

	existing.Data = data
	return c.DB.Save(&existing).Error
}

// UpsertDriftEstimate creates or replaces the cached estimate for a site.
// The NaN overall-average sentinel is stored as NULL.
func (c *Client) UpsertDriftEstimate(siteName, location, priceArea string, result *drift.Result) error {
	seasons, err := jsonbFrom(result.Seasons)
	if err != nil {
		return err
	}
	fences, err := jsonbFrom(result.Fences)
	if err != nil {
		return err
	}

	var overall *float64
	if !math.IsNaN(result.OverallAvgKgPerM) {
		v := result.OverallAvgKgPerM
		overall = &v
	}

	var existing DriftEstimateRecord
	err = c.DB.Where("site_name = ?", siteName).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return c.DB.Create(&DriftEstimateRecord{
			SiteName:         siteName,
			Location:         location,
			PriceArea:        priceArea,
			OverallAvgKgPerM: overall,
			Seasons:          seasons,
			Fences:           fences,
		}).Error
	}
	if err != nil {
		return err
	}

	existing.Location = location
	existing.PriceArea = priceArea
	existing.OverallAvgKgPerM = overall
	existing.Seasons = seasons
	existing.Fences = fences
	return c.DB.Save(&existing).Error
}

// GetDriftEstimates returns all cached site estimates ordered by site
// name.
func (c *Client) GetDriftEstimates() ([]DriftEstimateRecord, error) {
	var records []DriftEstimateRecord
	err := c.DB.Order("site_name").Find(&records).Error
	return records, err
}

func jsonbFrom(v interface{}) (pgtype.JSONB, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return pgtype.JSONB{}, fmt.Errorf("error encoding cache payload: %w", err)
	}
	j := pgtype.JSONB{}
	if err := j.Set(raw); err != nil {
		return pgtype.JSONB{}, err
	}
	return j, nil
}
