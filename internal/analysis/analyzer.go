// Package analysis computes the dashboard's aggregate views over call
// records: categorical and jurisdictional distributions, daily and hourly
// trends, headline KPIs, and short text insights.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/couchcryptid/helpline-analytics-service/internal/domain"
)

// CategoryCount is one row of the category distribution.
type CategoryCount struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Pct      float64 `json:"pct"`
}

// BucketCount is a generic key/count pair (day, jurisdiction, weekday).
type BucketCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// HourCount is one hour of the 24-hour distribution.
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// KPIs are the headline numbers shown above the charts.
type KPIs struct {
	TotalCalls    int     `json:"total_calls"`
	AvgPerDay     float64 `json:"avg_per_day"`
	WithCoordsPct float64 `json:"with_coords_pct"`
	PeakHour      string  `json:"peak_hour"` // "22:00 - 23:00", or "N/A"
}

// CountByCategory returns counts and percentages per category, largest
// first (ties broken alphabetically for stable output).
func CountByCategory(records []domain.CallRecord) []CategoryCount {
	counts := make(map[string]int)
	for _, rec := range records {
		counts[rec.Category]++
	}

	out := make([]CategoryCount, 0, len(counts))
	for cat, n := range counts {
		out = append(out, CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})

	total := len(records)
	if total > 0 {
		for i := range out {
			out[i].Pct = roundTo2(float64(out[i].Count) / float64(total) * 100)
		}
	}
	return out
}

// CountByJurisdiction returns counts per jurisdiction, largest first.
// Records without a jurisdiction label are skipped.
func CountByJurisdiction(records []domain.CallRecord) []BucketCount {
	counts := make(map[string]int)
	for _, rec := range records {
		if rec.Jurisdiction == "" {
			continue
		}
		counts[rec.Jurisdiction]++
	}
	out := make([]BucketCount, 0, len(counts))
	for j, n := range counts {
		out = append(out, BucketCount{Key: j, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// CallsByDay returns per-day counts in chronological order. Records whose
// timestamp failed to parse are skipped.
func CallsByDay(records []domain.CallRecord) []BucketCount {
	counts := make(map[string]int)
	for _, rec := range records {
		if rec.Date == "" {
			continue
		}
		counts[rec.Date]++
	}
	out := make([]BucketCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, BucketCount{Key: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// CallsByHour returns counts for every hour 0–23, zero-filled so the chart
// x-axis is always complete.
func CallsByHour(records []domain.CallRecord) []HourCount {
	out := make([]HourCount, 24)
	for h := range out {
		out[h].Hour = h
	}
	for _, rec := range records {
		if rec.Hour < 0 || rec.Hour > 23 {
			continue
		}
		out[rec.Hour].Count++
	}
	return out
}

// weekdayOrder fixes the display order for CallsByWeekday.
var weekdayOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// CallsByWeekday returns counts for each weekday Monday through Sunday,
// zero-filled.
func CallsByWeekday(records []domain.CallRecord) []BucketCount {
	counts := make(map[string]int)
	for _, rec := range records {
		if rec.Weekday == "" {
			continue
		}
		counts[rec.Weekday]++
	}
	out := make([]BucketCount, 0, len(weekdayOrder))
	for _, day := range weekdayOrder {
		out = append(out, BucketCount{Key: day, Count: counts[day]})
	}
	return out
}

// ComputeKPIs derives the headline numbers. AvgPerDay divides by the number
// of distinct days present, not the calendar span, so sparse logs are not
// diluted by silent days.
func ComputeKPIs(records []domain.CallRecord) KPIs {
	k := KPIs{TotalCalls: len(records), PeakHour: "N/A"}
	if len(records) == 0 {
		return k
	}

	days := make(map[string]bool)
	withCoords := 0
	var hourCounts [24]int
	timed := false

	for _, rec := range records {
		if rec.Date != "" {
			days[rec.Date] = true
		}
		if rec.HasCoords {
			withCoords++
		}
		if rec.Hour >= 0 && rec.Hour <= 23 {
			hourCounts[rec.Hour]++
			timed = true
		}
	}

	if len(days) > 0 {
		k.AvgPerDay = roundTo2(float64(len(records)) / float64(len(days)))
	}
	k.WithCoordsPct = roundTo2(float64(withCoords) / float64(len(records)) * 100)

	if timed {
		peak := 0
		for h := 1; h < 24; h++ {
			if hourCounts[h] > hourCounts[peak] {
				peak = h
			}
		}
		k.PeakHour = fmt.Sprintf("%02d:00 - %02d:00", peak, (peak+1)%24)
	}
	return k
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
