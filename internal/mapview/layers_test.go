package mapview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/helpline-analytics-service/internal/domain"
)

func mapped(lat, lon float64, category, jurisdiction string) domain.CallRecord {
	return domain.CallRecord{
		Geo:          domain.Geo{Lat: lat, Lon: lon},
		Category:     category,
		Jurisdiction: jurisdiction,
		HasCoords:    true,
	}
}

func goaRecords() []domain.CallRecord {
	return []domain.CallRecord{
		mapped(15.4909, 73.8278, domain.CategoryCrime, "Panaji"),
		mapped(15.2832, 73.9862, domain.CategoryMedical, "Margao"),
		mapped(15.5937, 73.7384, domain.CategoryAccident, "Mapusa"),
		{Category: domain.CategoryOther}, // not mappable, must be skipped
	}
}

func TestScatter(t *testing.T) {
	spec := Scatter(goaRecords(), nil)

	assert.Equal(t, "scatter", spec.Layer)
	require.Len(t, spec.Points, 3, "unmappable record skipped")
	assert.Equal(t, "#EF4444", spec.Points[0].Color)
	assert.Equal(t, "#4F46E5", spec.Points[1].Color)
	assert.Equal(t, 73.8278, spec.Points[0].Lon)
	assert.Equal(t, 15.4909, spec.Points[0].Lat)
	assert.Positive(t, spec.RadiusMinPixels)
}

func TestScatter_PaletteOverride(t *testing.T) {
	palette := Palette(map[string]string{domain.CategoryCrime: "#000000"})

	spec := Scatter(goaRecords(), palette)

	assert.Equal(t, "#000000", spec.Points[0].Color)
	assert.Equal(t, "#4F46E5", spec.Points[1].Color, "untouched categories keep defaults")
}

func TestHeatmap(t *testing.T) {
	spec := Heatmap(goaRecords())

	assert.Equal(t, "heatmap", spec.Layer)
	require.Len(t, spec.Points, 3)
	for _, p := range spec.Points {
		assert.Equal(t, 1.0, p.Weight)
	}
}

func TestHexbin_AutoTuning(t *testing.T) {
	spec := Hexbin(goaRecords(), HexbinOptions{})

	assert.Equal(t, "hexbin", spec.Layer)
	assert.Len(t, spec.Positions, 3)
	assert.True(t, spec.Extruded)
	assert.Equal(t, defaultCoverage, spec.Coverage)
	assert.NotEmpty(t, spec.ColorRange)

	// Goa-sized extent (~35km) lands inside the radius clamp.
	assert.GreaterOrEqual(t, spec.RadiusMeters, float64(hexbinMinRadius))
	assert.LessOrEqual(t, spec.RadiusMeters, float64(hexbinMaxRadius))
	assert.GreaterOrEqual(t, spec.ElevationScale, float64(hexbinMinElevation))
	assert.LessOrEqual(t, spec.ElevationScale, float64(hexbinMaxElevation))
}

func TestHexbin_ExplicitOptionsWin(t *testing.T) {
	spec := Hexbin(goaRecords(), HexbinOptions{RadiusMeters: 750, ElevationScale: 12, Coverage: 0.9})

	assert.Equal(t, 750.0, spec.RadiusMeters)
	assert.Equal(t, 12.0, spec.ElevationScale)
	assert.Equal(t, 0.9, spec.Coverage)
}

func TestHexbin_TightClusterClampsRadius(t *testing.T) {
	// All points within a few meters: auto radius must clamp at the minimum.
	records := []domain.CallRecord{
		mapped(15.4909, 73.8278, "crime", ""),
		mapped(15.4910, 73.8279, "crime", ""),
	}

	spec := Hexbin(records, HexbinOptions{})

	assert.Equal(t, float64(hexbinMinRadius), spec.RadiusMeters)
}

func TestHexbin_Empty(t *testing.T) {
	spec := Hexbin(nil, HexbinOptions{})

	assert.Empty(t, spec.Positions)
	assert.Equal(t, float64(hexbinMinRadius), spec.RadiusMeters)
	assert.Equal(t, float64(hexbinMinElevation), spec.ElevationScale)
	assert.Equal(t, ViewState{}, spec.View)
}

func TestViewFor(t *testing.T) {
	spec := Scatter(goaRecords(), nil)

	assert.InDelta(t, 15.44, spec.View.Lat, 0.01)
	assert.InDelta(t, 73.86, spec.View.Lon, 0.01)
	assert.GreaterOrEqual(t, spec.View.Zoom, 3.0)
	assert.LessOrEqual(t, spec.View.Zoom, 15.0)
}

func TestGeoJSON(t *testing.T) {
	records := goaRecords()
	records[0].ID = "GA-1"

	fc := GeoJSON(records)

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 3)

	f := fc.Features[0]
	assert.Equal(t, "Feature", f.Type)
	assert.Equal(t, "Point", f.Geometry.Type)
	assert.Equal(t, [2]float64{73.8278, 15.4909}, f.Geometry.Coordinates, "GeoJSON is lon,lat")
	assert.Equal(t, "GA-1", f.Properties["id"])
	assert.Equal(t, "crime", f.Properties["category"])
	assert.Equal(t, "Panaji", f.Properties["jurisdiction"])
}
