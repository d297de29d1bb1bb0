package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallRow(t *testing.T) {
	t.Run("complete row", func(t *testing.T) {
		raw := RawCallRow{
			CallID:       "GA-2025-000137",
			Timestamp:    "2025-03-14 22:41:09",
			Lat:          "15.4909",
			Lon:          "73.8278",
			Category:     "crime",
			Jurisdiction: "Panaji",
		}
		rec := ParseCallRow(raw)

		assert.Equal(t, "GA-2025-000137", rec.ID)
		assert.Equal(t, time.Date(2025, 3, 14, 22, 41, 9, 0, time.UTC), rec.Time)
		assert.Equal(t, 15.4909, rec.Geo.Lat)
		assert.Equal(t, 73.8278, rec.Geo.Lon)
		assert.Equal(t, CategoryCrime, rec.Category)
		assert.Equal(t, "Panaji", rec.Jurisdiction)
		assert.True(t, rec.HasCoords)
		assert.Equal(t, "2025-03-14", rec.Date)
		assert.Equal(t, 22, rec.Hour)
		assert.Equal(t, "Friday", rec.Weekday)
	})

	t.Run("non-numeric latitude", func(t *testing.T) {
		rec := ParseCallRow(RawCallRow{Timestamp: "2025-03-14 10:00:00", Lat: "NaN", Lon: "73.8", Category: "crime"})

		assert.True(t, math.IsNaN(rec.Geo.Lat))
		assert.False(t, rec.HasCoords)
		// Row is kept for categorical aggregates.
		assert.Equal(t, CategoryCrime, rec.Category)
	})

	t.Run("blank coordinates", func(t *testing.T) {
		rec := ParseCallRow(RawCallRow{Timestamp: "2025-03-14 10:00:00", Category: "medical"})

		assert.False(t, rec.HasCoords)
		assert.True(t, math.IsNaN(rec.Geo.Lat))
		assert.True(t, math.IsNaN(rec.Geo.Lon))
	})

	t.Run("unparseable timestamp", func(t *testing.T) {
		rec := ParseCallRow(RawCallRow{Timestamp: "yesterday-ish", Lat: "15.49", Lon: "73.82"})

		assert.True(t, rec.Time.IsZero())
		assert.Empty(t, rec.Date)
		assert.Equal(t, -1, rec.Hour)
		assert.Empty(t, rec.Weekday)
		assert.True(t, rec.HasCoords, "coordinates stay usable without a timestamp")
	})

	t.Run("alternate timestamp layouts", func(t *testing.T) {
		tests := []struct {
			name string
			ts   string
			want time.Time
		}{
			{"rfc3339", "2025-03-14T22:41:09Z", time.Date(2025, 3, 14, 22, 41, 9, 0, time.UTC)},
			{"no seconds", "2025-03-14 22:41", time.Date(2025, 3, 14, 22, 41, 0, 0, time.UTC)},
			{"dd-mm-yyyy", "14-03-2025 22:41:09", time.Date(2025, 3, 14, 22, 41, 9, 0, time.UTC)},
			{"date only", "2025-03-14", time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := ParseCallRow(RawCallRow{Timestamp: tt.ts, Lat: "15.49", Lon: "73.82"})
				assert.Equal(t, tt.want, rec.Time)
			})
		}
	})

	t.Run("generated ID is deterministic", func(t *testing.T) {
		raw := RawCallRow{Timestamp: "2025-03-14 10:00:00", Lat: "15.49", Lon: "73.82", Category: "medical", Jurisdiction: "Margao"}

		rec1 := ParseCallRow(raw)
		rec2 := ParseCallRow(raw)

		require.NotEmpty(t, rec1.ID)
		assert.Equal(t, rec1.ID, rec2.ID)
		assert.Contains(t, rec1.ID, "call-")
	})
}

func TestValidCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"goa", 15.49, 73.82, true},
		{"equator origin", 0, 0, true},
		{"lat too high", 90.1, 73.8, false},
		{"lat too low", -90.1, 73.8, false},
		{"lon too high", 15.49, 180.5, false},
		{"lon too low", 15.49, -180.5, false},
		{"nan lat", math.NaN(), 73.8, false},
		{"nan lon", 15.49, math.NaN(), false},
		{"positive inf", math.Inf(1), 73.8, false},
		{"negative inf", 15.49, math.Inf(-1), false},
		{"bounds inclusive", 90, -180, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidCoordinates(tt.lat, tt.lon))
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"crime", CategoryCrime},
		{"Crime", CategoryCrime},
		{"  MEDICAL ", CategoryMedical},
		{"accident", CategoryAccident},
		{"women_safety", CategoryWomenSafety},
		{"Women Safety", CategoryWomenSafety},
		{"women-safety", CategoryWomenSafety},
		{"other", CategoryOther},
		{"", CategoryOther},
		{"noise complaint", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCategory(tt.in))
		})
	}
}
