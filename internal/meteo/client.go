// Package meteo fetches historical weather series from the open-meteo
// ERA5 archive API and normalizes them into weather series for the drift
// estimator.
package meteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/snofokk/snofokk/internal/types"
)

// DefaultBaseURL is the public open-meteo archive endpoint.
const DefaultBaseURL = "https://archive-api.open-meteo.com"

// archiveTimeLayout is the timestamp format of the hourly time axis.
const archiveTimeLayout = "2006-01-02T15:04"

// Client is an open-meteo archive API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewClient creates an archive client. An empty baseURL selects the
// public open-meteo endpoint.
func NewClient(baseURL string, logger *zap.SugaredLogger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// FetchArchive retrieves the hourly temperature, wind and snowfall series
// for the requested point and date range.
func (c *Client) FetchArchive(ctx context.Context, r Request) (*types.WeatherSeries, error) {
	v := url.Values{}
	v.Set("latitude", fmt.Sprintf("%.6f", r.Latitude))
	v.Set("longitude", fmt.Sprintf("%.6f", r.Longitude))
	v.Set("start_date", r.Start.Format("2006-01-02"))
	v.Set("end_date", r.End.Format("2006-01-02"))
	v.Set("hourly", "temperature_2m,wind_speed_10m,snowfall")
	v.Set("wind_speed_unit", "ms")
	v.Set("timezone", "UTC")

	reqURL := c.baseURL + "/v1/archive?" + v.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating archive API request: %v", err)
	}

	c.logger.Debugf("Making request to open-meteo archive: %v", reqURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request to open-meteo archive: %v", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading archive API response body: %v", err)
	}

	response := &archiveResponse{}
	if err := json.Unmarshal(bodyBytes, response); err != nil {
		return nil, fmt.Errorf("unable to decode archive API response: %v", err)
	}
	if response.Error {
		return nil, fmt.Errorf("bad response from archive API: %s", response.Reason)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("archive API returned status %s", resp.Status)
	}

	series, err := response.toSeries()
	if err != nil {
		return nil, err
	}
	c.logger.Debugf("Fetched %d hourly records for %.4f,%.4f",
		len(series.Records), r.Latitude, r.Longitude)
	return series, nil
}
