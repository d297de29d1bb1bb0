package analysis

import (
	"fmt"

	"github.com/couchcryptid/helpline-analytics-service/internal/domain"
)

// timeSlot buckets the day into the four operational shifts the control
// room plans staffing around.
type timeSlot struct {
	label      string
	start, end int // [start, end)
}

var timeSlots = []timeSlot{
	{"Night (0-6)", 0, 6},
	{"Morning (6-12)", 6, 12},
	{"Afternoon (12-18)", 12, 18},
	{"Evening (18-24)", 18, 24},
}

// Insights produces short plain-text observations about the filtered
// record set: peak and trough days, peak hour, and the busiest shift.
func Insights(records []domain.CallRecord) []string {
	daily := CallsByDay(records)
	if len(daily) < 2 {
		return []string{"Not enough data for insights."}
	}

	peak, trough := daily[0], daily[0]
	for _, d := range daily[1:] {
		if d.Count > peak.Count {
			peak = d
		}
		if d.Count < trough.Count {
			trough = d
		}
	}

	out := []string{
		fmt.Sprintf("Highest traffic on %s with %d calls.", peak.Key, peak.Count),
		fmt.Sprintf("Lowest traffic on %s with %d calls.", trough.Key, trough.Count),
	}

	hourly := CallsByHour(records)
	peakHour := hourly[0]
	for _, h := range hourly[1:] {
		if h.Count > peakHour.Count {
			peakHour = h
		}
	}
	if peakHour.Count > 0 {
		out = append(out, fmt.Sprintf("Peak activity is around %02d:00 with %d calls.", peakHour.Hour, peakHour.Count))
		out = append(out, fmt.Sprintf("The busiest time slot is %s.", busiestSlot(hourly)))
	}

	return out
}

func busiestSlot(hourly []HourCount) string {
	best := timeSlots[0].label
	bestCount := -1
	for _, slot := range timeSlots {
		total := 0
		for h := slot.start; h < slot.end && h < len(hourly); h++ {
			total += hourly[h].Count
		}
		if total > bestCount {
			bestCount = total
			best = slot.label
		}
	}
	return best
}
