package domain

import (
	"time"
)

// RawCallRow is one row of a 112 call-log file after header normalization.
// All fields are the raw cell strings; coercion happens in ParseCallRow.
type RawCallRow struct {
	CallID       string
	Timestamp    string // call_ts column, e.g. "2025-03-14 22:41:09"
	Lat          string // caller_lat
	Lon          string // caller_lon
	Category     string
	Jurisdiction string
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Call categories as they appear in the 112 dispatch feed.
const (
	CategoryCrime       = "crime"
	CategoryMedical     = "medical"
	CategoryAccident    = "accident"
	CategoryWomenSafety = "women_safety"
	CategoryOther       = "other"
)

// Categories lists all known call categories in display order.
func Categories() []string {
	return []string{
		CategoryCrime,
		CategoryMedical,
		CategoryAccident,
		CategoryWomenSafety,
		CategoryOther,
	}
}

// CallRecord is the typed representation of an emergency-call record.
type CallRecord struct {
	ID           string    `json:"id"`
	Time         time.Time `json:"time,omitzero"`
	Geo          Geo       `json:"geo"`
	Category     string    `json:"category"`
	Jurisdiction string    `json:"jurisdiction,omitempty"`

	// HasCoords marks records whose coordinates parsed as finite floats
	// within geographic bounds. Only these rows are usable for mapping.
	HasCoords bool `json:"has_coords"`

	// Derived on parse for aggregation. Date is "" and Hour is -1 when the
	// timestamp failed to parse; such rows are skipped by time aggregates.
	Date    string `json:"date,omitempty"`
	Hour    int    `json:"hour"`
	Weekday string `json:"weekday,omitempty"`
}

// Mappable reports whether the record can be placed on a map.
func (r CallRecord) Mappable() bool {
	return r.HasCoords
}
