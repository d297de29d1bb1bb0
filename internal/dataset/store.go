package dataset

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/couchcryptid/helpline-analytics-service/internal/domain"
	"github.com/couchcryptid/helpline-analytics-service/internal/observability"
)

// Snapshot is one immutable load of the call log. Handlers read a snapshot
// pointer and never mutate it; reloads swap in a fresh one.
type Snapshot struct {
	Records  []domain.CallRecord // every parsed row
	Mappable []domain.CallRecord // cleaned subset with usable coordinates
	Dropped  int                 // rows removed by the cleaner
	Meta     SourceMeta
}

// Store owns the active snapshot and the load-clean-enrich cycle.
type Store struct {
	path     string
	geocoder domain.Geocoder // nil disables jurisdiction backfill
	logger   *slog.Logger
	metrics  *observability.Metrics

	mu   sync.RWMutex
	snap *Snapshot
}

// NewStore creates a Store for the given call-log path. Pass a nil geocoder
// to disable jurisdiction backfill.
func NewStore(path string, geocoder domain.Geocoder, logger *slog.Logger, metrics *observability.Metrics) *Store {
	return &Store{
		path:     path,
		geocoder: geocoder,
		logger:   logger,
		metrics:  metrics,
	}
}

// Load reads the call log and swaps in a new snapshot. On failure the
// previous snapshot (if any) stays active.
func (s *Store) Load(ctx context.Context) error {
	records, meta, err := LoadFile(s.path)
	if err != nil {
		s.metrics.DatasetLoadFails.Inc()
		return err
	}

	if s.geocoder != nil {
		for i := range records {
			records[i] = domain.BackfillJurisdiction(ctx, records[i], s.geocoder, s.logger)
		}
	}

	mappable, dropped := Clean(records)

	snap := &Snapshot{
		Records:  records,
		Mappable: mappable,
		Dropped:  dropped,
		Meta:     meta,
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	s.metrics.DatasetLoads.Inc()
	s.metrics.RecordsLoaded.Set(float64(len(records)))
	s.metrics.MappableRecords.Set(float64(len(mappable)))
	s.metrics.RowsDropped.Add(float64(dropped))

	s.logger.Info("call log loaded",
		"path", meta.Path,
		"format", meta.Format,
		"records", len(records),
		"mappable", len(mappable),
		"dropped", dropped,
	)
	return nil
}

// Snapshot returns the active snapshot, or false when nothing has loaded yet.
func (s *Store) Snapshot() (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.snap != nil
}

// CheckReadiness reports whether a snapshot is available to serve.
func (s *Store) CheckReadiness(_ context.Context) error {
	if _, ok := s.Snapshot(); !ok {
		return errors.New("call log has not been loaded yet")
	}
	return nil
}
