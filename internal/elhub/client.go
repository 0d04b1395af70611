// Package elhub fetches metered energy volumes per price area from the
// Elhub energy-data API for the choropleth enrichment.
package elhub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the public Elhub energy-data API endpoint.
const DefaultBaseURL = "https://api.elhub.no"

// Client is an Elhub energy-data API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewClient creates an Elhub client. An empty baseURL selects the public
// endpoint.
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

// FetchAreaQuantities retrieves hourly metered volumes per price area for
// the given dataset and date range and reduces them to one mean value per
// area. Results are sorted by price area label so repeated calls are
// deterministic.
func (c *Client) FetchAreaQuantities(ctx context.Context, dataset string, start, end time.Time) ([]AreaQuantity, error) {
	v := url.Values{}
	v.Set("dataset", dataset)
	v.Set("startDate", start.Format("2006-01-02"))
	v.Set("endDate", end.Format("2006-01-02"))

	reqURL := c.baseURL + "/energy-data/v0/price-areas?" + v.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating Elhub API request: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debugf("Making request to Elhub: %v", reqURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request to Elhub: %v", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading Elhub response body: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Elhub API returned status %s", resp.Status)
	}

	response := &energyDataResponse{}
	if err := json.Unmarshal(bodyBytes, response); err != nil {
		return nil, fmt.Errorf("unable to decode Elhub response: %v", err)
	}

	quantities := make([]AreaQuantity, 0, len(response.Data))
	for _, area := range response.Data {
		records := area.Attributes.records()
		if len(records) == 0 {
			continue
		}
		var sum float64
		for _, r := range records {
			sum += r.QuantityKWh
		}
		mean := sum / float64(len(records))
		quantities = append(quantities, AreaQuantity{
			PriceArea:   NormalizeArea(area.ID),
			MeanKWh:     mean,
			MeanMWh:     mean / 1000,
			RecordCount: len(records),
		})
	}

	sort.Slice(quantities, func(i, j int) bool {
		return quantities[i].PriceArea < quantities[j].PriceArea
	})

	c.logger.Debugf("Fetched quantities for %d price areas", len(quantities))
	return quantities, nil
}

// NormalizeArea strips whitespace from a price area label so "NO 1" and
// "NO1" compare equal across the Elhub API and the GeoJSON properties.
func NormalizeArea(label string) string {
	return strings.ReplaceAll(label, " ", "")
}
