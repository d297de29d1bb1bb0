package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/helpline-analytics-service/internal/analysis"
)

func TestDailyTrend(t *testing.T) {
	daily := []analysis.BucketCount{
		{Key: "2025-03-14", Count: 3},
		{Key: "2025-03-15", Count: 2},
	}

	cfg := DailyTrend(daily)

	require.NotNil(t, cfg)
	assert.Equal(t, "line", cfg.ChartType)
	assert.Equal(t, "Date", cfg.XAxis)
	require.Len(t, cfg.Series, 1)
	require.Len(t, cfg.Series[0].Data, 2)
	assert.Equal(t, Point{Label: "2025-03-14", Value: 3}, cfg.Series[0].Data[0])
	assert.True(t, cfg.ShowGrid)
}

func TestDailyTrend_Empty(t *testing.T) {
	assert.Nil(t, DailyTrend(nil))
}

func TestHourlyHistogram(t *testing.T) {
	hourly := make([]analysis.HourCount, 24)
	for h := range hourly {
		hourly[h].Hour = h
	}
	hourly[22].Count = 5

	cfg := HourlyHistogram(hourly)

	require.NotNil(t, cfg)
	assert.Equal(t, "bar", cfg.ChartType)
	require.Len(t, cfg.Series[0].Data, 24)
	assert.Equal(t, "00", cfg.Series[0].Data[0].Label)
	assert.Equal(t, 5.0, cfg.Series[0].Data[22].Value)
}

func TestCategoryPie(t *testing.T) {
	dist := []analysis.CategoryCount{
		{Category: "crime", Count: 4, Pct: 57.14},
		{Category: "medical", Count: 3, Pct: 42.86},
	}

	cfg := CategoryPie(dist)

	require.NotNil(t, cfg)
	assert.Equal(t, "pie", cfg.ChartType)
	assert.True(t, cfg.ShowLegend)
	assert.False(t, cfg.ShowGrid)
	assert.Len(t, cfg.Colors, 2)
	assert.Equal(t, Point{Label: "crime", Value: 4}, cfg.Series[0].Data[0])
}

func TestCategoryPie_Empty(t *testing.T) {
	assert.Nil(t, CategoryPie(nil))
}
