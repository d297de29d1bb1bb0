package domain

import (
	"context"
	"log/slog"
)

// BackfillJurisdiction attempts to recover a missing jurisdiction label by
// reverse-geocoding the record's coordinates. If geocoder is nil, the record
// already has a jurisdiction, or the lookup fails, the record is returned
// unchanged (graceful degradation).
func BackfillJurisdiction(ctx context.Context, rec CallRecord, geocoder Geocoder, logger *slog.Logger) CallRecord {
	if geocoder == nil || rec.Jurisdiction != "" || !rec.HasCoords {
		return rec
	}

	result, err := geocoder.ReverseGeocode(ctx, rec.Geo.Lat, rec.Geo.Lon)
	if err != nil {
		logger.Warn("jurisdiction backfill failed",
			"record_id", rec.ID,
			"lat", rec.Geo.Lat,
			"lon", rec.Geo.Lon,
			"error", err,
		)
		return rec
	}

	if result.PlaceName != "" {
		rec.Jurisdiction = result.PlaceName
	}
	return rec
}
