// Package chart turns aggregate results into render-ready chart
// configurations. The service never rasterizes anything; the dashboard
// frontend feeds these configs straight into its charting library.
package chart

import (
	"fmt"

	"github.com/couchcryptid/helpline-analytics-service/internal/analysis"
)

// defaultColors is the series palette, cycled when a chart needs more.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// Config defines how to render a chart.
type Config struct {
	ChartType  string   `json:"chartType"` // "line", "bar", "pie"
	Title      string   `json:"title"`
	XAxis      string   `json:"xAxis,omitempty"`
	YAxis      string   `json:"yAxis,omitempty"`
	Series     []Series `json:"series"`
	Colors     []string `json:"colors,omitempty"`
	ShowLegend bool     `json:"showLegend"`
	ShowGrid   bool     `json:"showGrid"`
}

// Series represents a data series in a chart.
type Series struct {
	Name string  `json:"name"`
	Data []Point `json:"data"`
}

// Point represents a single data point.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// DailyTrend builds the calls-per-day line chart.
func DailyTrend(daily []analysis.BucketCount) *Config {
	if len(daily) == 0 {
		return nil
	}

	points := make([]Point, 0, len(daily))
	for _, d := range daily {
		points = append(points, Point{Label: d.Key, Value: float64(d.Count)})
	}

	return &Config{
		ChartType: "line",
		Title:     "Calls by Day",
		XAxis:     "Date",
		YAxis:     "Calls",
		Series:    []Series{{Name: "Calls", Data: points}},
		Colors:    assignColors(1),
		ShowGrid:  true,
	}
}

// HourlyHistogram builds the 24-hour bar chart. The input always carries
// all 24 hours, so the chart is never built from an empty series.
func HourlyHistogram(hourly []analysis.HourCount) *Config {
	points := make([]Point, 0, len(hourly))
	for _, h := range hourly {
		points = append(points, Point{Label: fmt.Sprintf("%02d", h.Hour), Value: float64(h.Count)})
	}

	return &Config{
		ChartType: "bar",
		Title:     "Hourly Distribution",
		XAxis:     "Hour of day",
		YAxis:     "Calls",
		Series:    []Series{{Name: "Calls", Data: points}},
		Colors:    assignColors(1),
		ShowGrid:  true,
	}
}

// CategoryPie builds the calls-by-category pie chart.
func CategoryPie(dist []analysis.CategoryCount) *Config {
	if len(dist) == 0 {
		return nil
	}

	points := make([]Point, 0, len(dist))
	for _, c := range dist {
		points = append(points, Point{Label: c.Category, Value: float64(c.Count)})
	}

	return &Config{
		ChartType:  "pie",
		Title:      "Calls by Category",
		Series:     []Series{{Name: "Calls", Data: points}},
		Colors:     assignColors(len(points)),
		ShowLegend: true,
	}
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
