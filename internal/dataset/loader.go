package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/helpline-analytics-service/internal/domain"
)

// RequiredColumns must all be present (after header normalization) for a
// call-log file to load. call_id is optional; records without one get a
// deterministic generated ID.
var RequiredColumns = []string{"call_ts", "caller_lat", "caller_lon", "category", "jurisdiction"}

// SourceMeta describes where a snapshot came from.
type SourceMeta struct {
	Path        string    `json:"path"`
	Format      string    `json:"format"` // "csv" or "xlsx"
	Columns     []string  `json:"columns"`
	RecordCount int       `json:"record_count"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// LoadFile reads a call-log file (CSV or XLSX by extension) into records.
// It fails fast with a descriptive error when a required column is missing;
// individual malformed rows are coerced, never rejected, so the Cleaner can
// decide what is mappable.
func LoadFile(path string) ([]domain.CallRecord, SourceMeta, error) {
	var (
		rows   [][]string
		format string
		err    error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(path)
		format = "xlsx"
	default:
		rows, err = readCSV(path)
		format = "csv"
	}
	if err != nil {
		return nil, SourceMeta{}, err
	}

	records, columns, err := parseTable(rows)
	if err != nil {
		return nil, SourceMeta{}, fmt.Errorf("%s: %w", path, err)
	}

	meta := SourceMeta{
		Path:        path,
		Format:      format,
		Columns:     columns,
		RecordCount: len(records),
		LoadedAt:    domain.Now(),
	}
	return records, meta, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open call log: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows are handled per-cell
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// parseTable converts header + data rows into CallRecords.
func parseTable(rows [][]string) ([]domain.CallRecord, []string, error) {
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("empty file: no header row")
	}

	columns := make([]string, len(rows[0]))
	colIdx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		key := normalizeHeader(h)
		columns[i] = key
		if _, seen := colIdx[key]; !seen {
			colIdx[key] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := colIdx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	records := make([]domain.CallRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}
		raw := domain.RawCallRow{
			CallID:       cell(row, colIdx, "call_id"),
			Timestamp:    cell(row, colIdx, "call_ts"),
			Lat:          cell(row, colIdx, "caller_lat"),
			Lon:          cell(row, colIdx, "caller_lon"),
			Category:     cell(row, colIdx, "category"),
			Jurisdiction: cell(row, colIdx, "jurisdiction"),
		}
		records = append(records, domain.ParseCallRow(raw))
	}

	return records, columns, nil
}

// normalizeHeader folds "Caller Lat" → "caller_lat" so exports with cosmetic
// header variations still load.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "_")
	h = strings.ReplaceAll(h, "-", "_")
	return h
}

func cell(row []string, colIdx map[string]int, col string) string {
	i, ok := colIdx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
