// Package allocations maintains the resource allocation log: a small XLSX
// workbook where control-room operators record officers and resources
// assigned to jurisdictions. The workbook survives restarts and stays
// readable in a regular spreadsheet application.
package allocations

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/helpline-analytics-service/internal/domain"
)

const sheetName = "Allocations"

var headerRow = []string{
	"Timestamp", "Officer", "Rank", "Jurisdiction", "Resource Type", "Quantity", "Shift", "Remarks",
}

// Entry is one allocation record.
type Entry struct {
	Timestamp    time.Time `json:"timestamp"`
	Officer      string    `json:"officer"`
	Rank         string    `json:"rank"`
	Jurisdiction string    `json:"jurisdiction"`
	ResourceType string    `json:"resource_type"`
	Quantity     int       `json:"quantity"`
	Shift        string    `json:"shift"`
	Remarks      string    `json:"remarks,omitempty"`
}

// Validate checks the fields an operator must fill in.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Officer) == "" {
		return errors.New("officer is required")
	}
	if strings.TrimSpace(e.Jurisdiction) == "" {
		return errors.New("jurisdiction is required")
	}
	if strings.TrimSpace(e.ResourceType) == "" {
		return errors.New("resource_type is required")
	}
	if e.Quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	return nil
}

// Store reads and appends allocation entries in an XLSX workbook.
type Store struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

// NewStore creates a store backed by the workbook at path. The file is
// created on the first Add.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// List returns all entries in the workbook, oldest first. A missing file is
// an empty log, not an error.
func (s *Store) List() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return []Entry{}, nil
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open allocations workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read allocations sheet: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		entry, ok := parseRow(row)
		if !ok {
			s.logger.Warn("skipping malformed allocation row", "row", i+1)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Add validates and appends an entry. A zero timestamp is stamped with the
// current time.
func (s *Store) Add(entry Entry) (Entry, error) {
	if err := entry.Validate(); err != nil {
		return Entry{}, err
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = domain.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.openOrCreate()
	if err != nil {
		return Entry{}, err
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return Entry{}, fmt.Errorf("read allocations sheet: %w", err)
	}

	rowNum := len(rows) + 1
	values := []any{
		entry.Timestamp.UTC().Format(time.RFC3339),
		entry.Officer,
		entry.Rank,
		entry.Jurisdiction,
		entry.ResourceType,
		entry.Quantity,
		entry.Shift,
		entry.Remarks,
	}
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return Entry{}, fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return Entry{}, fmt.Errorf("write cell %s: %w", cell, err)
		}
	}

	if err := f.SaveAs(s.path); err != nil {
		return Entry{}, fmt.Errorf("save allocations workbook: %w", err)
	}

	s.logger.Info("allocation recorded",
		"officer", entry.Officer,
		"jurisdiction", entry.Jurisdiction,
		"resource_type", entry.ResourceType,
		"quantity", entry.Quantity,
	)
	return entry, nil
}

func (s *Store) openOrCreate() (*excelize.File, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		f := excelize.NewFile()
		if err := f.SetSheetName("Sheet1", sheetName); err != nil {
			return nil, fmt.Errorf("create allocations sheet: %w", err)
		}
		for col, name := range headerRow {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return nil, fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, name); err != nil {
				return nil, fmt.Errorf("write header %s: %w", cell, err)
			}
		}
		return f, nil
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open allocations workbook: %w", err)
	}
	return f, nil
}

func parseRow(row []string) (Entry, bool) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	ts, err := time.Parse(time.RFC3339, cell(0))
	if err != nil {
		return Entry{}, false
	}
	qty, err := strconv.Atoi(cell(5))
	if err != nil {
		return Entry{}, false
	}

	return Entry{
		Timestamp:    ts,
		Officer:      cell(1),
		Rank:         cell(2),
		Jurisdiction: cell(3),
		ResourceType: cell(4),
		Quantity:     qty,
		Shift:        cell(6),
		Remarks:      cell(7),
	}, true
}
