package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order when parsing call_ts. The dispatch
// export uses the first layout; the rest cover exports from other districts.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"02-01-2006 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02",
}

// ParseCallRow coerces a raw row into a CallRecord.
// Coordinates that fail to parse become NaN and HasCoords is false; a
// timestamp that fails to parse leaves Time zero, Date empty, and Hour -1.
// The row itself is never rejected here; dropping is the Cleaner's job.
func ParseCallRow(raw RawCallRow) CallRecord {
	lat := parseFloatOrNaN(raw.Lat)
	lon := parseFloatOrNaN(raw.Lon)
	ts := parseTimestamp(raw.Timestamp)

	rec := CallRecord{
		ID:           strings.TrimSpace(raw.CallID),
		Time:         ts,
		Geo:          Geo{Lat: lat, Lon: lon},
		Category:     NormalizeCategory(raw.Category),
		Jurisdiction: strings.TrimSpace(raw.Jurisdiction),
		HasCoords:    ValidCoordinates(lat, lon),
		Hour:         -1,
	}

	if rec.ID == "" {
		rec.ID = generateID(raw)
	}

	if !ts.IsZero() {
		rec.Date = ts.Format("2006-01-02")
		rec.Hour = ts.Hour()
		rec.Weekday = ts.Weekday().String()
	}

	return rec
}

// ValidCoordinates reports whether lat/lon are finite and inside
// geographic bounds. NaN and ±Inf fail the range checks.
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// NormalizeCategory maps a raw category cell to one of the known call
// categories. Matching is case-insensitive and tolerant of space/hyphen
// separators ("Women Safety" → women_safety). Unknown values map to "other"
// so the enum stays total without rejecting the row.
func NormalizeCategory(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.ReplaceAll(v, " ", "_")
	v = strings.ReplaceAll(v, "-", "_")

	switch v {
	case CategoryCrime, CategoryMedical, CategoryAccident, CategoryWomenSafety, CategoryOther:
		return v
	default:
		return CategoryOther
	}
}

// parseFloatOrNaN parses a string as float64, returning NaN on failure.
// NaN (rather than zero) keeps a blank cell from masquerading as the
// real coordinate (0, 0).
func parseFloatOrNaN(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseTimestamp tries each known layout, returning zero time if none match.
// Times without an explicit zone are taken as UTC.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// generateID produces a deterministic ID from the row's key fields for
// files that lack a call_id column. Reloading the same file yields the
// same IDs, so downstream consumers can diff snapshots.
func generateID(raw RawCallRow) string {
	input := fmt.Sprintf("%s|%s|%s|%s|%s",
		raw.Timestamp, raw.Lat, raw.Lon, raw.Category, raw.Jurisdiction)
	hash := sha256.Sum256([]byte(input))
	return "call-" + hex.EncodeToString(hash[:8])
}
