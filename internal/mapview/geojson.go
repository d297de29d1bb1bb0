package mapview

import (
	"time"

	"github.com/couchcryptid/helpline-analytics-service/internal/domain"
)

// FeatureCollection is a GeoJSON FeatureCollection of call points.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single GeoJSON point feature.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry holds the point coordinates in GeoJSON [lon, lat] order.
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// GeoJSON converts records into a point FeatureCollection. Records without
// usable coordinates are skipped.
func GeoJSON(records []domain.CallRecord) FeatureCollection {
	features := make([]Feature, 0, len(records))
	for _, rec := range records {
		if !rec.Mappable() {
			continue
		}

		props := map[string]any{
			"id":       rec.ID,
			"category": rec.Category,
		}
		if rec.Jurisdiction != "" {
			props["jurisdiction"] = rec.Jurisdiction
		}
		if !rec.Time.IsZero() {
			props["time"] = rec.Time.Format(time.RFC3339)
		}

		features = append(features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: [2]float64{rec.Geo.Lon, rec.Geo.Lat},
			},
			Properties: props,
		})
	}

	return FeatureCollection{Type: "FeatureCollection", Features: features}
}
