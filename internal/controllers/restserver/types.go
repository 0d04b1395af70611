package restserver

import (
	"encoding/json"
	"time"

	"github.com/snofokk/snofokk/internal/drift"
)

// snowDriftResponse is the analysis payload: the figure plus the two
// season-keyed tables and the overall average. The average is null when
// no season passed the quality gate. Values are kg/m; display rescaling
// to tonnes/m is the frontend's concern.
type snowDriftResponse struct {
	Figure           drift.Figure           `json:"figure"`
	Fence            []drift.FenceSpec      `json:"fence"`
	Yearly           []drift.SeasonEstimate `json:"yearly"`
	OverallAvgKgPerM *float64               `json:"overall_avg_kg_per_m"`
}

// locateResponse resolves a clicked coordinate to a price area
type locateResponse struct {
	PriceArea string `json:"price_area"`
}

// siteResponse is one cached site estimate
type siteResponse struct {
	SiteName         string          `json:"site_name"`
	Location         string          `json:"location"`
	PriceArea        string          `json:"price_area,omitempty"`
	OverallAvgKgPerM *float64        `json:"overall_avg_kg_per_m"`
	Yearly           json.RawMessage `json:"yearly"`
	Fence            json.RawMessage `json:"fence"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// errorResponse carries an API error message
type errorResponse struct {
	Error string `json:"error"`
}
