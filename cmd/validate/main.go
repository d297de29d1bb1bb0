// Command validate runs offline integrity checks on a 112 call-log file
// before it is handed to the dashboard service: required columns, timestamp
// and coordinate parseability, category hygiene, and basic distribution
// stats. It exits non-zero when the log is unusable.
//
// Usage:
//
//	go run ./cmd/validate -file data/112_calls.csv [-max-dropped-pct 20]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/couchcryptid/helpline-analytics-service/internal/analysis"
	"github.com/couchcryptid/helpline-analytics-service/internal/dataset"
	"github.com/couchcryptid/helpline-analytics-service/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	file := flag.String("file", "", "call-log file to validate (CSV or XLSX)")
	maxDroppedPct := flag.Float64("max-dropped-pct", 20, "fail when more than this percentage of rows lacks usable coordinates")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*file, *maxDroppedPct); code != 0 {
		os.Exit(code)
	}
}

func run(path string, maxDroppedPct float64) int {
	fmt.Println("=== 112 Call Log Validation ===")
	fmt.Println()

	records, meta, err := dataset.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	fmt.Printf("File:    %s (%s)\n", meta.Path, meta.Format)
	fmt.Printf("Columns: %v\n", meta.Columns)
	fmt.Printf("Records: %d\n", len(records))

	mappable, dropped := dataset.Clean(records)

	phases := []*phase{
		validateVolume(records),
		validateCoordinates(records, dropped, maxDroppedPct),
		validateTimestamps(records),
		validateJurisdictions(records),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-40s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	printStats(records, mappable, dropped)

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func validateVolume(records []domain.CallRecord) *phase {
	p := &phase{name: "Phase 1: Volume"}
	if len(records) == 0 {
		p.errorf("no data rows")
	}
	return p
}

func validateCoordinates(records []domain.CallRecord, dropped int, maxDroppedPct float64) *phase {
	p := &phase{name: "Phase 2: Coordinates"}
	if len(records) == 0 {
		return p
	}

	droppedPct := float64(dropped) / float64(len(records)) * 100
	if droppedPct > maxDroppedPct {
		p.errorf("%.1f%% of rows lack usable coordinates (limit %.1f%%)", droppedPct, maxDroppedPct)
	}
	if dropped == len(records) {
		p.errorf("no row has usable coordinates; the map layers would be empty")
	}
	return p
}

func validateTimestamps(records []domain.CallRecord) *phase {
	p := &phase{name: "Phase 3: Timestamps"}

	unparsed := 0
	for i := range records {
		if records[i].Time.IsZero() {
			unparsed++
		}
	}
	if unparsed == len(records) && len(records) > 0 {
		p.errorf("no timestamp could be parsed; trend charts would be empty")
	} else if unparsed > 0 {
		p.errorf("%d of %d timestamps could not be parsed", unparsed, len(records))
	}
	return p
}

func validateJurisdictions(records []domain.CallRecord) *phase {
	p := &phase{name: "Phase 4: Jurisdiction labels"}
	if len(records) == 0 {
		return p
	}

	unlabeled := 0
	for i := range records {
		if records[i].Jurisdiction == "" {
			unlabeled++
		}
	}
	if unlabeled == len(records) {
		p.errorf("no record carries a jurisdiction label; per-station views would be empty")
	} else if pct := float64(unlabeled) / float64(len(records)) * 100; pct > 50 {
		p.errorf("%.1f%% of records lack a jurisdiction label", pct)
	}
	return p
}

func printStats(records, mappable []domain.CallRecord, dropped int) {
	fmt.Println("\n=== Stats ===")
	kpis := analysis.ComputeKPIs(records)
	fmt.Printf("Total: %d, mappable: %d, dropped: %d\n", len(records), len(mappable), dropped)
	fmt.Printf("Average per day: %.2f, peak hour: %s\n", kpis.AvgPerDay, kpis.PeakHour)

	fmt.Println("\nBy category:")
	for _, c := range analysis.CountByCategory(records) {
		fmt.Printf("  %-14s %5d  (%.1f%%)\n", c.Category, c.Count, c.Pct)
	}

	jurisdictions := analysis.CountByJurisdiction(records)
	fmt.Printf("\nBy jurisdiction (%d):\n", len(jurisdictions))
	for _, j := range jurisdictions {
		fmt.Printf("  %-14s %5d\n", j.Key, j.Count)
	}

	daily := analysis.CallsByDay(records)
	if len(daily) > 0 {
		fmt.Printf("\nDays covered: %d (%s to %s)\n", len(daily), daily[0].Key, daily[len(daily)-1].Key)
	}
}
