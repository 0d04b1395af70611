package geo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

// Two unit-square areas side by side, labels with the stray spaces the
// source data carries.
const areasFixture = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {"ElSpotOmr": "NO 1"},
			"geometry": {
				"type": "Polygon",
				"coordinates": [[[0,0],[1,0],[1,1],[0,1],[0,0]]]
			}
		},
		{
			"type": "Feature",
			"properties": {"ElSpotOmr": "NO 2"},
			"geometry": {
				"type": "MultiPolygon",
				"coordinates": [[[[1,0],[2,0],[2,1],[1,1],[1,0]]]]
			}
		}
	]
}`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "areas.geojson")
	if err := os.WriteFile(path, []byte(areasFixture), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAreasNormalizesLabels(t *testing.T) {
	areas, err := LoadAreas(writeFixture(t), zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("LoadAreas() error: %v", err)
	}
	labels := areas.Labels()
	if len(labels) != 2 || labels[0] != "NO1" || labels[1] != "NO2" {
		t.Errorf("unexpected labels %v", labels)
	}
}

func TestLoadAreasMissingFile(t *testing.T) {
	if _, err := LoadAreas("/nonexistent/areas.geojson", zap.NewNop().Sugar()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLocate(t *testing.T) {
	areas, err := LoadAreas(writeFixture(t), zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		lat, lon float64
		area     string
		found    bool
	}{
		{name: "inside first area", lat: 0.5, lon: 0.5, area: "NO1", found: true},
		{name: "inside multipolygon area", lat: 0.5, lon: 1.5, area: "NO2", found: true},
		{name: "outside all areas", lat: 5, lon: 5, found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			area, found := areas.Locate(tt.lat, tt.lon)
			if found != tt.found || area != tt.area {
				t.Errorf("Locate(%v, %v) = (%q, %v), want (%q, %v)",
					tt.lat, tt.lon, area, found, tt.area, tt.found)
			}
		})
	}
}

func TestEnrich(t *testing.T) {
	areas, err := LoadAreas(writeFixture(t), zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}

	areas.Enrich(map[string]float64{"NO1": 123.4})

	raw, err := areas.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error: %v", err)
	}
	var fc struct {
		Features []struct {
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(raw, &fc); err != nil {
		t.Fatal(err)
	}
	if got := fc.Features[0].Properties["quantitymwh"]; got != 123.4 {
		t.Errorf("NO1 quantitymwh = %v, want 123.4", got)
	}
	// Areas without data default to zero, not a missing property.
	if got := fc.Features[1].Properties["quantitymwh"]; got != 0.0 {
		t.Errorf("NO2 quantitymwh = %v, want 0", got)
	}
}
