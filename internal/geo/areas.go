// Package geo loads the price-area GeoJSON, enriches it with metered
// energy quantities, and resolves coordinates to price areas.
package geo

import (
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"go.uber.org/zap"
)

// areaProperty is the GeoJSON property carrying the price area label.
const areaProperty = "ElSpotOmr"

// quantityProperty is the property the enrichment writes mean MWh into.
const quantityProperty = "quantitymwh"

// Areas holds the price-area polygons. Enrich writes the feature
// properties that Locate and Labels read, so callers running those
// concurrently must synchronize them.
type Areas struct {
	fc     *geojson.FeatureCollection
	logger *zap.SugaredLogger
}

// LoadAreas reads a price-area feature collection from a GeoJSON file and
// normalizes the area labels in place.
func LoadAreas(path string, logger *zap.SugaredLogger) (*Areas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading GeoJSON file %s: %w", path, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing GeoJSON file %s: %w", path, err)
	}

	for _, f := range fc.Features {
		label := strings.ReplaceAll(f.Properties.MustString(areaProperty, ""), " ", "")
		f.Properties[areaProperty] = label
	}

	logger.Debugf("Loaded %d price area features from %s", len(fc.Features), path)
	return &Areas{fc: fc, logger: logger}, nil
}

// Labels returns the price area labels in feature order.
func (a *Areas) Labels() []string {
	labels := make([]string, 0, len(a.fc.Features))
	for _, f := range a.fc.Features {
		labels = append(labels, f.Properties.MustString(areaProperty, ""))
	}
	return labels
}

// Enrich writes a mean-MWh property into every feature, defaulting to
// zero for areas absent from the quantity map.
func (a *Areas) Enrich(meanMWhByArea map[string]float64) {
	for _, f := range a.fc.Features {
		label := f.Properties.MustString(areaProperty, "")
		f.Properties[quantityProperty] = meanMWhByArea[label]
	}
}

// Locate resolves a coordinate to the price area containing it. The
// second return is false when the point falls outside every area, which
// callers must treat as a reportable condition rather than a default.
func (a *Areas) Locate(lat, lon float64) (string, bool) {
	point := orb.Point{lon, lat}
	for _, f := range a.fc.Features {
		if geometryContains(f.Geometry, point) {
			return f.Properties.MustString(areaProperty, ""), true
		}
	}
	return "", false
}

// MarshalJSON returns the (possibly enriched) feature collection as
// GeoJSON.
func (a *Areas) MarshalJSON() ([]byte, error) {
	return a.fc.MarshalJSON()
}

func geometryContains(g orb.Geometry, p orb.Point) bool {
	switch geom := g.(type) {
	case orb.Polygon:
		return planar.PolygonContains(geom, p)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(geom, p)
	case orb.Collection:
		for _, sub := range geom {
			if geometryContains(sub, p) {
				return true
			}
		}
	}
	return false
}
