// Package mapview builds map-layer rendering specifications from cleaned
// call records: scatter, heatmap, and 3D hexbin density. Binning and
// extrusion are delegated entirely to the client-side rendering library;
// this package only selects data and parameters.
package mapview

import (
	"math"

	"github.com/couchcryptid/helpline-analytics-service/internal/domain"
)

// defaultPalette maps call categories to marker colors.
var defaultPalette = map[string]string{
	domain.CategoryCrime:       "#EF4444",
	domain.CategoryMedical:     "#4F46E5",
	domain.CategoryAccident:    "#F59E0B",
	domain.CategoryWomenSafety: "#EC4899",
	domain.CategoryOther:       "#6B7280",
}

// hexbinColorRange is the density ramp, sparse to dense.
var hexbinColorRange = []string{
	"#FFF7EC", "#FEE8C8", "#FDBB84", "#FC8D59", "#E34A33", "#B30000",
}

// Hexbin auto-tuning bounds. Radius targets ~40 cells across the larger
// bounding-box axis; elevation scale shrinks as point count grows so dense
// datasets don't tower off-screen.
const (
	hexbinTargetCells  = 40
	hexbinMinRadius    = 100  // meters
	hexbinMaxRadius    = 2000 // meters
	hexbinMinElevation = 4
	hexbinMaxElevation = 50
	defaultCoverage    = 0.85

	metersPerDegreeLat = 111_000
)

// Palette returns the category color map with any operator overrides applied.
func Palette(overrides map[string]string) map[string]string {
	out := make(map[string]string, len(defaultPalette))
	for k, v := range defaultPalette {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// ViewState positions the map camera over the data.
type ViewState struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Zoom float64 `json:"zoom"`
}

// ScatterPoint is one marker in a scatter layer.
type ScatterPoint struct {
	Lon          float64 `json:"lon"`
	Lat          float64 `json:"lat"`
	Category     string  `json:"category"`
	Color        string  `json:"color"`
	Jurisdiction string  `json:"jurisdiction,omitempty"`
}

// ScatterSpec renders each call as a colored point.
type ScatterSpec struct {
	Layer           string         `json:"layer"` // "scatter"
	Points          []ScatterPoint `json:"points"`
	RadiusMinPixels int            `json:"radiusMinPixels"`
	View            ViewState      `json:"view"`
}

// WeightedPoint is one input to the heatmap kernel.
type WeightedPoint struct {
	Lon    float64 `json:"lon"`
	Lat    float64 `json:"lat"`
	Weight float64 `json:"weight"`
}

// HeatmapSpec renders call density as a smoothed intensity surface.
type HeatmapSpec struct {
	Layer        string          `json:"layer"` // "heatmap"
	Points       []WeightedPoint `json:"points"`
	RadiusPixels int             `json:"radiusPixels"`
	Intensity    float64         `json:"intensity"`
	View         ViewState       `json:"view"`
}

// HexbinOptions override the auto-tuned hexbin parameters. Zero values
// mean "tune from the data".
type HexbinOptions struct {
	RadiusMeters   float64
	ElevationScale float64
	Coverage       float64
}

// HexbinSpec renders call density as extruded hexagonal cells with height
// proportional to count.
type HexbinSpec struct {
	Layer          string       `json:"layer"` // "hexbin"
	Positions      [][2]float64 `json:"positions"` // [lon, lat]
	RadiusMeters   float64      `json:"radiusMeters"`
	ElevationScale float64      `json:"elevationScale"`
	Coverage       float64      `json:"coverage"`
	Extruded       bool         `json:"extruded"`
	ColorRange     []string     `json:"colorRange"`
	View           ViewState    `json:"view"`
}

// Scatter builds a scatter layer spec. Records without usable coordinates
// are skipped.
func Scatter(records []domain.CallRecord, palette map[string]string) ScatterSpec {
	if len(palette) == 0 {
		palette = defaultPalette
	}

	points := make([]ScatterPoint, 0, len(records))
	for _, rec := range records {
		if !rec.Mappable() {
			continue
		}
		color, ok := palette[rec.Category]
		if !ok {
			color = palette[domain.CategoryOther]
		}
		points = append(points, ScatterPoint{
			Lon:          rec.Geo.Lon,
			Lat:          rec.Geo.Lat,
			Category:     rec.Category,
			Color:        color,
			Jurisdiction: rec.Jurisdiction,
		})
	}

	return ScatterSpec{
		Layer:           "scatter",
		Points:          points,
		RadiusMinPixels: 3,
		View:            viewFor(records),
	}
}

// Heatmap builds a heatmap layer spec with unit weights.
func Heatmap(records []domain.CallRecord) HeatmapSpec {
	points := make([]WeightedPoint, 0, len(records))
	for _, rec := range records {
		if !rec.Mappable() {
			continue
		}
		points = append(points, WeightedPoint{Lon: rec.Geo.Lon, Lat: rec.Geo.Lat, Weight: 1})
	}

	return HeatmapSpec{
		Layer:        "heatmap",
		Points:       points,
		RadiusPixels: 40,
		Intensity:    1,
		View:         viewFor(records),
	}
}

// Hexbin builds the 3D density layer spec. Unset options are tuned from the
// data extent and point count; explicit values always win.
func Hexbin(records []domain.CallRecord, opts HexbinOptions) HexbinSpec {
	positions := make([][2]float64, 0, len(records))
	for _, rec := range records {
		if !rec.Mappable() {
			continue
		}
		positions = append(positions, [2]float64{rec.Geo.Lon, rec.Geo.Lat})
	}

	spec := HexbinSpec{
		Layer:          "hexbin",
		Positions:      positions,
		RadiusMeters:   opts.RadiusMeters,
		ElevationScale: opts.ElevationScale,
		Coverage:       opts.Coverage,
		Extruded:       true,
		ColorRange:     hexbinColorRange,
		View:           viewFor(records),
	}

	if spec.RadiusMeters <= 0 {
		spec.RadiusMeters = autoRadius(records)
	}
	if spec.ElevationScale <= 0 {
		spec.ElevationScale = autoElevationScale(len(positions))
	}
	if spec.Coverage <= 0 {
		spec.Coverage = defaultCoverage
	}

	return spec
}

// autoRadius derives a hexagon radius from the bounding-box extent so the
// larger axis fits roughly hexbinTargetCells cells.
func autoRadius(records []domain.CallRecord) float64 {
	b, ok := bounds(records)
	if !ok {
		return hexbinMinRadius
	}

	latSpan := (b.maxLat - b.minLat) * metersPerDegreeLat
	midLat := (b.minLat + b.maxLat) / 2
	lonSpan := (b.maxLon - b.minLon) * metersPerDegreeLat * math.Cos(midLat*math.Pi/180)

	span := math.Max(latSpan, lonSpan)
	radius := span / (2 * hexbinTargetCells)
	return clamp(radius, hexbinMinRadius, hexbinMaxRadius)
}

// autoElevationScale shrinks as point count grows: a handful of calls still
// produces visible columns, thousands stay in proportion.
func autoElevationScale(count int) float64 {
	if count == 0 {
		return hexbinMinElevation
	}
	return clamp(4000/float64(count), hexbinMinElevation, hexbinMaxElevation)
}

type box struct {
	minLat, maxLat, minLon, maxLon float64
}

func bounds(records []domain.CallRecord) (box, bool) {
	var b box
	found := false
	for _, rec := range records {
		if !rec.Mappable() {
			continue
		}
		if !found {
			b = box{rec.Geo.Lat, rec.Geo.Lat, rec.Geo.Lon, rec.Geo.Lon}
			found = true
			continue
		}
		b.minLat = math.Min(b.minLat, rec.Geo.Lat)
		b.maxLat = math.Max(b.maxLat, rec.Geo.Lat)
		b.minLon = math.Min(b.minLon, rec.Geo.Lon)
		b.maxLon = math.Max(b.maxLon, rec.Geo.Lon)
	}
	return b, found
}

// viewFor centers the camera on the bounding box with a zoom level sized to
// the data extent.
func viewFor(records []domain.CallRecord) ViewState {
	b, ok := bounds(records)
	if !ok {
		return ViewState{}
	}

	view := ViewState{
		Lat: (b.minLat + b.maxLat) / 2,
		Lon: (b.minLon + b.maxLon) / 2,
	}

	span := math.Max(b.maxLat-b.minLat, b.maxLon-b.minLon)
	if span <= 0 {
		view.Zoom = 13
		return view
	}
	view.Zoom = clamp(math.Log2(360/span), 3, 15)
	return view
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
