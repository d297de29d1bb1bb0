package dataset

import (
	"github.com/couchcryptid/helpline-analytics-service/internal/domain"
)

// Clean returns only records whose coordinates are present, finite, and
// within geographic bounds, the subset usable for map layers. Rows failing
// the filter are silently dropped; the count is returned for metrics, not
// reported per-row. No other validation happens here.
func Clean(records []domain.CallRecord) (kept []domain.CallRecord, dropped int) {
	kept = make([]domain.CallRecord, 0, len(records))
	for _, rec := range records {
		if !rec.HasCoords {
			dropped++
			continue
		}
		kept = append(kept, rec)
	}
	return kept, dropped
}
