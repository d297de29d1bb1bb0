package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubGeocoder struct {
	result GeocodingResult
	err    error
	calls  int
}

func (s *stubGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (GeocodingResult, error) {
	s.calls++
	return s.result, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBackfillJurisdiction(t *testing.T) {
	base := CallRecord{ID: "call-1", Geo: Geo{Lat: 15.49, Lon: 73.82}, HasCoords: true}

	t.Run("fills missing jurisdiction", func(t *testing.T) {
		geo := &stubGeocoder{result: GeocodingResult{PlaceName: "Panaji", FormattedAddress: "Panaji, Goa, India"}}

		rec := BackfillJurisdiction(context.Background(), base, geo, discardLogger())

		assert.Equal(t, "Panaji", rec.Jurisdiction)
		assert.Equal(t, 1, geo.calls)
	})

	t.Run("nil geocoder is a no-op", func(t *testing.T) {
		rec := BackfillJurisdiction(context.Background(), base, nil, discardLogger())
		assert.Empty(t, rec.Jurisdiction)
	})

	t.Run("existing jurisdiction untouched", func(t *testing.T) {
		geo := &stubGeocoder{result: GeocodingResult{PlaceName: "Margao"}}
		in := base
		in.Jurisdiction = "Panaji"

		rec := BackfillJurisdiction(context.Background(), in, geo, discardLogger())

		assert.Equal(t, "Panaji", rec.Jurisdiction)
		assert.Zero(t, geo.calls)
	})

	t.Run("no coordinates skips lookup", func(t *testing.T) {
		geo := &stubGeocoder{result: GeocodingResult{PlaceName: "Panaji"}}
		in := base
		in.HasCoords = false

		rec := BackfillJurisdiction(context.Background(), in, geo, discardLogger())

		assert.Empty(t, rec.Jurisdiction)
		assert.Zero(t, geo.calls)
	})

	t.Run("lookup error degrades gracefully", func(t *testing.T) {
		geo := &stubGeocoder{err: errors.New("rate limited")}

		rec := BackfillJurisdiction(context.Background(), base, geo, discardLogger())

		assert.Empty(t, rec.Jurisdiction)
	})

	t.Run("empty place name ignored", func(t *testing.T) {
		geo := &stubGeocoder{result: GeocodingResult{FormattedAddress: "somewhere"}}

		rec := BackfillJurisdiction(context.Background(), base, geo, discardLogger())

		assert.Empty(t, rec.Jurisdiction)
	})
}
