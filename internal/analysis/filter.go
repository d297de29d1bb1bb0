package analysis

import (
	"strings"
	"time"

	"github.com/couchcryptid/helpline-analytics-service/internal/domain"
)

// Filter narrows a record set before aggregation or mapping. Dimensions are
// AND-combined; values within a dimension are OR-combined. Zero values mean
// no restriction.
type Filter struct {
	From          time.Time // inclusive; zero = open start
	To            time.Time // inclusive; zero = open end
	Categories    []string
	Jurisdictions []string
}

// IsEmpty reports whether the filter imposes no restriction.
func (f Filter) IsEmpty() bool {
	return f.From.IsZero() && f.To.IsZero() &&
		len(f.Categories) == 0 && len(f.Jurisdictions) == 0
}

// Apply returns the records matching the filter. Records whose timestamp
// failed to parse are excluded whenever a date bound is set, matching the
// dashboard's original date-mask behavior.
func (f Filter) Apply(records []domain.CallRecord) []domain.CallRecord {
	if f.IsEmpty() {
		return records
	}

	catSet := toLowerSet(f.Categories)
	jurSet := toLowerSet(f.Jurisdictions)
	dated := !f.From.IsZero() || !f.To.IsZero()

	out := make([]domain.CallRecord, 0, len(records))
	for _, rec := range records {
		if dated {
			if rec.Time.IsZero() {
				continue
			}
			if !f.From.IsZero() && rec.Time.Before(f.From) {
				continue
			}
			if !f.To.IsZero() && rec.Time.After(f.To) {
				continue
			}
		}
		if len(catSet) > 0 && !catSet[strings.ToLower(rec.Category)] {
			continue
		}
		if len(jurSet) > 0 && !jurSet[strings.ToLower(rec.Jurisdiction)] {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func toLowerSet(items []string) map[string]bool {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(strings.TrimSpace(item))] = true
	}
	return set
}
