// Package domain models 112 emergency-helpline call records.
//
// # Data Source
//
// Call logs arrive as CSV (occasionally XLSX) exports from the 112 dispatch
// system, one row per call. Required columns after header normalization:
//
//	call_ts       timestamp, usually "2006-01-02 15:04:05" (UTC)
//	caller_lat    caller latitude in decimal degrees
//	caller_lon    caller longitude in decimal degrees
//	category      call category (see below)
//	jurisdiction  police-zone label, e.g. "Panaji", "Margao"
//
// An optional call_id column provides a stable record ID; when absent a
// deterministic hash of the row's key fields is used instead, so reloading
// the same file yields the same IDs.
//
// # Categories
//
// The dispatch feed uses five categories: crime, medical, accident,
// women_safety, other. Raw cells vary in casing and separators
// ("Women Safety", "women-safety"); [NormalizeCategory] folds them to the
// canonical snake_case form and maps anything unrecognized to "other".
//
// # Coordinates
//
// Coordinates are WGS-84 decimal degrees. Cells that are blank or
// non-numeric parse to NaN, which fails [ValidCoordinates] along with
// anything outside |lat| ≤ 90, |lon| ≤ 180. Such records are kept for
// categorical and time-based aggregates but are excluded from map layers
// by the dataset Cleaner.
//
// # Derived fields
//
// Date ("2006-01-02"), Hour (0–23), and Weekday are derived from call_ts at
// parse time for the trend aggregates. A timestamp that fails every known
// layout leaves them at their zero values (Date "", Hour -1) and the record
// is skipped by time aggregates, mirroring a coerced NaT upstream.
package domain
