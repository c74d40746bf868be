package table

import (
	"math"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// ColumnSummary holds basic statistics for one numeric column
type ColumnSummary struct {
	Column int     `json:"column"`
	Header string  `json:"header"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Sum    float64 `json:"sum"`
	StdDev float64 `json:"std_dev"`
}

// Summarize computes statistics for every value column (the label column is
// skipped). Cells that are not numbers are ignored; columns without any
// numeric cell are omitted.
func Summarize(r *Renderer) []ColumnSummary {
	header := r.Header()
	rows := r.Rows()

	width := len(header)
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	var summaries []ColumnSummary
	for col := 1; col < width; col++ {
		var values stats.Float64Data
		for _, row := range rows {
			if col >= len(row) {
				continue
			}
			if v, ok := ParseNumber(row[col]); ok {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}

		s := ColumnSummary{Column: col, Count: len(values)}
		if col < len(header) {
			s.Header = header[col]
		}
		// errors are only returned for empty input, which is excluded above
		s.Min, _ = values.Min()
		s.Max, _ = values.Max()
		s.Mean, _ = values.Mean()
		s.Sum, _ = values.Sum()
		// sample deviation is undefined for a single value
		if len(values) > 1 {
			s.StdDev = stat.StdDev(values, nil)
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// ParseNumber parses a cell using either "." or "," as decimal separator.
// NaN and infinities are not numbers here.
func ParseNumber(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FormatDecimal renders a value in its shortest exact form with the
// requested separator
func FormatDecimal(v float64, comma bool) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if comma {
		s = strings.ReplaceAll(s, ".", ",")
	}
	return s
}

// FormatNumber renders a value with two decimals and the requested separator
func FormatNumber(v float64, comma bool) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if comma {
		s = strings.ReplaceAll(s, ".", ",")
	}
	return s
}
