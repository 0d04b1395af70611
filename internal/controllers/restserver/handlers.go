package restserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/snofokk/snofokk/internal/drift"
	"github.com/snofokk/snofokk/internal/meteo"
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{controller: ctrl}
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, format string, args ...interface{}) {
	respondJSON(w, status, errorResponse{Error: fmt.Sprintf(format, args...)})
}

// parseCoordinates reads required lat/lon query parameters
func parseCoordinates(req *http.Request) (float64, float64, error) {
	lat, err := strconv.ParseFloat(req.URL.Query().Get("lat"), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid or missing lat parameter")
	}
	lon, err := strconv.ParseFloat(req.URL.Query().Get("lon"), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid or missing lon parameter")
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("coordinates out of range")
	}
	return lat, lon, nil
}

// parseDateRange reads optional start/end parameters. The default range
// covers the last ten snow seasons up to a few days ago, since the
// archive reanalysis lags realtime.
func parseDateRange(req *http.Request) (time.Time, time.Time, error) {
	end := time.Now().UTC().AddDate(0, 0, -3)
	if v := req.URL.Query().Get("end"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q, expected YYYY-MM-DD", v)
		}
		end = parsed
	}

	start := time.Date(end.Year()-10, time.July, 1, 0, 0, 0, 0, time.UTC)
	if v := req.URL.Query().Get("start"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q, expected YYYY-MM-DD", v)
		}
		start = parsed
	}

	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start date must precede end date")
	}
	return start, end, nil
}

// GetSnowDrift fetches the archive weather series for a coordinate and
// runs the drift estimation over it.
func (h *Handlers) GetSnowDrift(w http.ResponseWriter, req *http.Request) {
	lat, lon, err := parseCoordinates(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}
	start, end, err := parseDateRange(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}

	series, err := h.controller.meteoClient.FetchArchive(req.Context(), meteo.Request{
		Latitude:  lat,
		Longitude: lon,
		Start:     start,
		End:       end,
	})
	if err != nil {
		h.controller.logger.Errorf("archive fetch failed for %.4f,%.4f: %v", lat, lon, err)
		respondError(w, http.StatusBadGateway, "weather data source unavailable")
		return
	}

	result, err := h.controller.estimator.Estimate(series)
	if err != nil {
		var schemaErr *drift.SchemaError
		switch {
		case errors.As(err, &schemaErr):
			h.controller.logger.Errorf("archive response for %.4f,%.4f incomplete: %v", lat, lon, err)
			respondError(w, http.StatusBadGateway, "weather data source returned an incomplete series: %v", err)
		case errors.Is(err, drift.ErrInsufficientData):
			respondError(w, http.StatusUnprocessableEntity, "no seasons could be derived for the requested range")
		default:
			h.controller.logger.Errorf("drift estimation failed: %v", err)
			respondError(w, http.StatusInternalServerError, "drift estimation failed")
		}
		return
	}

	resp := snowDriftResponse{
		Figure: result.Figure,
		Fence:  result.Fences,
		Yearly: result.Seasons,
	}
	if !math.IsNaN(result.OverallAvgKgPerM) {
		resp.OverallAvgKgPerM = &result.OverallAvgKgPerM
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetAreas returns the per-price-area mean metered volumes for the range
func (h *Handlers) GetAreas(w http.ResponseWriter, req *http.Request) {
	start, end, err := parseDateRange(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}

	quantities, err := h.controller.elhubClient.FetchAreaQuantities(req.Context(), h.controller.dataset, start, end)
	if err != nil {
		h.controller.logger.Errorf("Elhub fetch failed: %v", err)
		respondError(w, http.StatusBadGateway, "energy data source unavailable")
		return
	}
	respondJSON(w, http.StatusOK, quantities)
}

// GetMap returns the price-area GeoJSON enriched with mean MWh values
func (h *Handlers) GetMap(w http.ResponseWriter, req *http.Request) {
	if h.controller.areas == nil {
		respondError(w, http.StatusServiceUnavailable, "price area map not configured")
		return
	}
	start, end, err := parseDateRange(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}

	quantities, err := h.controller.elhubClient.FetchAreaQuantities(req.Context(), h.controller.dataset, start, end)
	if err != nil {
		h.controller.logger.Errorf("Elhub fetch failed: %v", err)
		respondError(w, http.StatusBadGateway, "energy data source unavailable")
		return
	}

	byArea := make(map[string]float64, len(quantities))
	for _, q := range quantities {
		byArea[q.PriceArea] = q.MeanMWh
	}

	h.controller.areasMu.Lock()
	h.controller.areas.Enrich(byArea)
	raw, err := h.controller.areas.MarshalJSON()
	h.controller.areasMu.Unlock()
	if err != nil {
		h.controller.logger.Errorf("error encoding enriched GeoJSON: %v", err)
		respondError(w, http.StatusInternalServerError, "error encoding map data")
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(raw)
}

// GetLocate resolves a coordinate to the price area containing it. A
// point outside every area is an explicit 404, never a silent default.
func (h *Handlers) GetLocate(w http.ResponseWriter, req *http.Request) {
	if h.controller.areas == nil {
		respondError(w, http.StatusServiceUnavailable, "price area map not configured")
		return
	}
	lat, lon, err := parseCoordinates(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "%v", err)
		return
	}

	h.controller.areasMu.RLock()
	area, found := h.controller.areas.Locate(lat, lon)
	h.controller.areasMu.RUnlock()
	if !found {
		respondError(w, http.StatusNotFound, "no price area contains %.4f,%.4f", lat, lon)
		return
	}
	respondJSON(w, http.StatusOK, locateResponse{PriceArea: area})
}

// GetSites returns the cached drift estimates for configured sites
func (h *Handlers) GetSites(w http.ResponseWriter, req *http.Request) {
	if !h.controller.DBEnabled {
		respondError(w, http.StatusServiceUnavailable, "site cache database not configured")
		return
	}

	records, err := h.controller.DB.GetDriftEstimates()
	if err != nil {
		h.controller.logger.Errorf("error reading cached estimates: %v", err)
		respondError(w, http.StatusInternalServerError, "error reading cached estimates")
		return
	}

	sites := make([]siteResponse, 0, len(records))
	for _, rec := range records {
		sites = append(sites, siteResponse{
			SiteName:         rec.SiteName,
			Location:         rec.Location,
			PriceArea:        rec.PriceArea,
			OverallAvgKgPerM: rec.OverallAvgKgPerM,
			Yearly:           json.RawMessage(rec.Seasons.Bytes),
			Fence:            json.RawMessage(rec.Fences.Bytes),
			UpdatedAt:        rec.UpdatedAt,
		})
	}
	respondJSON(w, http.StatusOK, sites)
}

// GetHealth is a liveness probe
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
