// Command gencalls generates a synthetic 112 call-log CSV for local
// development and load testing. For a given seed the draw sequence is fixed;
// timestamps shift with the current date so the log always looks recent.
//
// Usage:
//
//	go run ./cmd/gencalls -out data/112_calls.csv -n 5000 -days 30 -seed 42
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

type center struct {
	name     string
	lat, lon float64
}

// Jurisdiction centers roughly matching Goa police station locations.
var centers = []center{
	{"Panaji", 15.4909, 73.8278},
	{"Margao", 15.2832, 73.9862},
	{"Mapusa", 15.5937, 73.7384},
	{"Vasco", 15.3860, 73.8157},
	{"Ponda", 15.4027, 74.0078},
	{"Calangute", 15.5439, 73.7553},
}

// Category weights sum to 100.
var categories = []struct {
	name   string
	weight int
}{
	{"crime", 30},
	{"medical", 25},
	{"accident", 20},
	{"women_safety", 10},
	{"other", 15},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data/112_calls.csv", "output CSV path")
	n := flag.Int("n", 5000, "number of call records")
	days := flag.Int("days", 30, "spread calls over this many days ending today")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	if *n <= 0 || *days <= 0 {
		return fmt.Errorf("-n and -days must be positive")
	}

	rng := rand.New(rand.NewSource(*seed))
	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -*days)

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"call_id", "call_ts", "caller_lat", "caller_lon", "category", "jurisdiction"}); err != nil {
		return err
	}

	counts := map[string]int{}
	for i := 0; i < *n; i++ {
		row := makeRow(rng, i, start, *days)
		counts[row[4]]++
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	log.Printf("wrote %d calls to %s", *n, *out)
	for _, c := range categories {
		log.Printf("  %s: %d", c.name, counts[c.name])
	}
	return nil
}

func makeRow(rng *rand.Rand, i int, start time.Time, days int) []string {
	c := centers[rng.Intn(len(centers))]

	// Evenings are busier: bias the hour distribution toward 18-23.
	hour := rng.Intn(24)
	if rng.Intn(100) < 40 {
		hour = 18 + rng.Intn(6)
	}
	ts := start.AddDate(0, 0, rng.Intn(days)).
		Add(time.Duration(hour)*time.Hour +
			time.Duration(rng.Intn(60))*time.Minute +
			time.Duration(rng.Intn(60))*time.Second)

	lat := fmt.Sprintf("%.6f", c.lat+rng.NormFloat64()*0.02)
	lon := fmt.Sprintf("%.6f", c.lon+rng.NormFloat64()*0.02)
	jurisdiction := c.name

	// A slice of real logs always arrives dirty: drop coordinates on ~3% of
	// rows and the jurisdiction label on ~5%.
	if rng.Intn(100) < 3 {
		lat, lon = "", ""
	}
	if rng.Intn(100) < 5 {
		jurisdiction = ""
	}

	return []string{
		fmt.Sprintf("GA-%06d", i+1),
		ts.Format("2006-01-02 15:04:05"),
		lat,
		lon,
		pickCategory(rng),
		jurisdiction,
	}
}

func pickCategory(rng *rand.Rand) string {
	roll := rng.Intn(100)
	acc := 0
	for _, c := range categories {
		acc += c.weight
		if roll < acc {
			return c.name
		}
	}
	return "other"
}
