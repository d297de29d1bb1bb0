// Package export renders the current analytics view as an XLSX workbook so
// supervisors can take a briefing snapshot offline.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/helpline-analytics-service/internal/analysis"
	"github.com/couchcryptid/helpline-analytics-service/internal/domain"
)

// Write builds the workbook for the given records and writes it to w.
// Sheets: Summary, Daily, Hourly, Categories, Jurisdictions.
func Write(w io.Writer, records []domain.CallRecord) error {
	f, err := workbook(records)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func workbook(records []domain.CallRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	// Summary replaces the default sheet so it opens first.
	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}

	kpis := analysis.ComputeKPIs(records)
	if err := writeSheet(f, "Summary", [][]any{
		{"Metric", "Value"},
		{"Total calls", kpis.TotalCalls},
		{"Average per day", kpis.AvgPerDay},
		{"With coordinates (%)", kpis.WithCoordsPct},
		{"Peak hour", kpis.PeakHour},
	}); err != nil {
		return nil, err
	}

	daily := [][]any{{"Date", "Calls"}}
	for _, d := range analysis.CallsByDay(records) {
		daily = append(daily, []any{d.Key, d.Count})
	}
	if err := writeSheet(f, "Daily", daily); err != nil {
		return nil, err
	}

	hourly := [][]any{{"Hour", "Calls"}}
	for _, h := range analysis.CallsByHour(records) {
		hourly = append(hourly, []any{fmt.Sprintf("%02d:00", h.Hour), h.Count})
	}
	if err := writeSheet(f, "Hourly", hourly); err != nil {
		return nil, err
	}

	categories := [][]any{{"Category", "Calls", "Percent"}}
	for _, c := range analysis.CountByCategory(records) {
		categories = append(categories, []any{c.Category, c.Count, c.Pct})
	}
	if err := writeSheet(f, "Categories", categories); err != nil {
		return nil, err
	}

	jurisdictions := [][]any{{"Jurisdiction", "Calls"}}
	for _, j := range analysis.CountByJurisdiction(records) {
		jurisdictions = append(jurisdictions, []any{j.Key, j.Count})
	}
	if err := writeSheet(f, "Jurisdictions", jurisdictions); err != nil {
		return nil, err
	}

	return f, nil
}

func writeSheet(f *excelize.File, name string, rows [][]any) error {
	if name != "Summary" {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(name, cell, v); err != nil {
				return fmt.Errorf("write %s!%s: %w", name, cell, err)
			}
		}
	}
	return nil
}
