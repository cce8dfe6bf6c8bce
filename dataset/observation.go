// Package dataset defines the daily price record and loads, filters and
// splits tables of them.
package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/YuminosukeSato/stockforecast/pkg/errors"
)

// Column identifies one of the seven positional columns of a price file.
type Column int

const (
	ColDate Column = iota
	ColOpen
	ColHigh
	ColLow
	ColClose
	ColAdjClose
	ColVolume
)

// NumColumns is the number of positional columns in a price file.
const NumColumns = 7

var columnNames = [NumColumns]string{"date", "open", "high", "low", "close", "adj_close", "volume"}

// DefaultMissingColumns are the columns checked by the missing-value filter.
// close is not among them; rows without a close are dropped later by the
// trainer and evaluator instead.
var DefaultMissingColumns = []Column{ColOpen, ColHigh, ColLow, ColAdjClose, ColVolume}

// DateLayout is the layout used when writing dates back out.
const DateLayout = "2006-01-02"

func (c Column) String() string {
	if c < 0 || int(c) >= NumColumns {
		return "column(" + strconv.Itoa(int(c)) + ")"
	}
	return columnNames[c]
}

// ParseColumn resolves a column name such as "open" or "adj_close".
func ParseColumn(name string) (Column, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, cn := range columnNames {
		if cn == n {
			return Column(i), nil
		}
	}
	return 0, errors.NewValidationError("column", "unknown column", name)
}

// Observation is one trading day. Missing numeric cells are NaN.
type Observation struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   float64
}

// Value returns the numeric value of c. ColDate has no numeric value and yields NaN.
func (o Observation) Value(c Column) float64 {
	switch c {
	case ColOpen:
		return o.Open
	case ColHigh:
		return o.High
	case ColLow:
		return o.Low
	case ColClose:
		return o.Close
	case ColAdjClose:
		return o.AdjClose
	case ColVolume:
		return o.Volume
	default:
		return math.NaN()
	}
}

// Values returns the numeric values of cols in order.
func (o Observation) Values(cols ...Column) []float64 {
	out := make([]float64, len(cols))
	for i, c := range cols {
		out[i] = o.Value(c)
	}
	return out
}

// HasMissing reports whether any of cols is NaN.
func (o Observation) HasMissing(cols ...Column) bool {
	for _, c := range cols {
		if math.IsNaN(o.Value(c)) {
			return true
		}
	}
	return false
}

// Record renders the observation back into the seven positional fields.
// Missing values are written as "null", matching the Yahoo export format.
func (o Observation) Record() []string {
	rec := make([]string, NumColumns)
	rec[ColDate] = o.Date.Format(DateLayout)
	for c := ColOpen; c <= ColVolume; c++ {
		v := o.Value(c)
		if math.IsNaN(v) {
			rec[c] = "null"
			continue
		}
		rec[c] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return rec
}
