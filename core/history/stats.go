// Package history loads the historical search series and derives the
// distribution statistics used to put predictions in context.
package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Point is one observed day of the search series.
type Point struct {
	Date     time.Time
	Searches float64
}

// Stats summarizes the historical search distribution.
type Stats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
	P90    float64 `json:"p90"`
	P95    float64 `json:"p95"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// DefaultStats returns the documented fallback distribution used when
// no historical series is available.
func DefaultStats() Stats {
	return Stats{
		Mean:   2000,
		Median: 2000,
		Std:    500,
		P25:    1500,
		P75:    2500,
		P90:    3000,
		P95:    3500,
		Min:    1000,
		Max:    4000,
	}
}

// Compute derives Stats from a series of daily search volumes.
func Compute(series []float64) (Stats, error) {
	if len(series) == 0 {
		return Stats{}, fmt.Errorf("empty series")
	}
	sorted := make([]float64, len(series))
	copy(sorted, series)
	sort.Float64s(sorted)
	q := func(p float64) float64 { return stat.Quantile(p, stat.Empirical, sorted, nil) }
	return Stats{
		Mean:   stat.Mean(sorted, nil),
		Median: q(0.50),
		Std:    stat.StdDev(sorted, nil),
		P25:    q(0.25),
		P75:    q(0.75),
		P90:    q(0.90),
		P95:    q(0.95),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}, nil
}

// LoadCSV reads the historical series from a CSV file with a header
// row and columns Day,estimated_daily_searches. Rows are returned in
// ascending date order.
func LoadCSV(path string) ([]Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses the series from r; see LoadCSV for the format.
func ReadCSV(r io.Reader) ([]Point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	dayCol, valCol := -1, -1
	for i, h := range header {
		switch h {
		case "Day":
			dayCol = i
		case "estimated_daily_searches":
			valCol = i
		}
	}
	if dayCol < 0 || valCol < 0 {
		return nil, fmt.Errorf("missing Day/estimated_daily_searches columns")
	}
	var pts []Point
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		d, err := time.Parse("2006-01-02", rec[dayCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		v, err := strconv.ParseFloat(rec[valCol], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		pts = append(pts, Point{Date: d, Searches: v})
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].Date.Before(pts[j].Date) })
	return pts, nil
}

// Series extracts the search values from points, in order.
func Series(pts []Point) []float64 {
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.Searches
	}
	return out
}

// LagValues returns the last observed value and the value a week back,
// the seeds for the search lag features. An empty series falls back to
// the historical mean; a series shorter than seven points repeats the
// last value.
func LagValues(pts []Point, st Stats) (last, weekAgo float64) {
	last, weekAgo = st.Mean, st.Mean
	if n := len(pts); n > 0 {
		last = pts[n-1].Searches
		if n >= 7 {
			weekAgo = pts[n-7].Searches
		} else {
			weekAgo = last
		}
	}
	return last, weekAgo
}
