package models

import (
	"math"
	"sort"
	"sync"
	"time"
)

// PriceObservation is a single historical bar as supplied by the data store.
type PriceObservation struct {
	Symbol    string    `json:"symbol" db:"symbol"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	Close     float64   `json:"close" db:"close"`
	Volume    *float64  `json:"volume,omitempty" db:"volume"`
}

// PricePoint is one timestamped value of a single series.
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// PricePanel is a time-indexed, symbol-keyed table of prices.
// Rows follow Timestamps (ascending), columns follow Symbols (lexical).
// Absent cells hold NaN.
type PricePanel struct {
	Symbols    []string    `json:"symbols"`
	Timestamps []time.Time `json:"timestamps"`
	Values     [][]float64 `json:"-"`

	indexOnce sync.Once
	index     map[string]int
}

// NewPricePanel allocates an all-absent panel for the given axes.
// Symbols are sorted and timestamps ordered ascending.
func NewPricePanel(symbols []string, timestamps []time.Time) *PricePanel {
	syms := make([]string, len(symbols))
	copy(syms, symbols)
	sort.Strings(syms)

	ts := make([]time.Time, len(timestamps))
	copy(ts, timestamps)
	sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })

	values := make([][]float64, len(ts))
	for i := range values {
		row := make([]float64, len(syms))
		for j := range row {
			row[j] = math.NaN()
		}
		values[i] = row
	}

	panel := &PricePanel{
		Symbols:    syms,
		Timestamps: ts,
		Values:     values,
	}
	panel.indexOnce.Do(panel.buildIndex)
	return panel
}

func (p *PricePanel) buildIndex() {
	p.index = make(map[string]int, len(p.Symbols))
	for i, s := range p.Symbols {
		p.index[s] = i
	}
}

// SymbolIndex returns the column of symbol, or -1 when unknown. It is safe
// for concurrent use, including on panels built without NewPricePanel.
func (p *PricePanel) SymbolIndex(symbol string) int {
	p.indexOnce.Do(p.buildIndex)
	if i, ok := p.index[symbol]; ok {
		return i
	}
	return -1
}

// Value returns the cell at (row, col) and whether it is present.
func (p *PricePanel) Value(row, col int) (float64, bool) {
	v := p.Values[row][col]
	return v, IsPresent(v)
}

// ColumnValues returns the raw column, absent cells included as NaN.
func (p *PricePanel) ColumnValues(col int) []float64 {
	out := make([]float64, len(p.Timestamps))
	for i := range p.Timestamps {
		out[i] = p.Values[i][col]
	}
	return out
}

// Series returns the present points of symbol in time order.
func (p *PricePanel) Series(symbol string) []PricePoint {
	col := p.SymbolIndex(symbol)
	if col < 0 {
		return nil
	}
	points := make([]PricePoint, 0, len(p.Timestamps))
	for i, ts := range p.Timestamps {
		if v, ok := p.Value(i, col); ok {
			points = append(points, PricePoint{Timestamp: ts, Value: v})
		}
	}
	return points
}

// Coverage is the share of rows in which symbol has a present value.
func (p *PricePanel) Coverage(symbol string) float64 {
	col := p.SymbolIndex(symbol)
	if col < 0 || len(p.Timestamps) == 0 {
		return 0
	}
	present := 0
	for i := range p.Timestamps {
		if _, ok := p.Value(i, col); ok {
			present++
		}
	}
	return float64(present) / float64(len(p.Timestamps))
}

// IsPresent reports whether v is a usable (finite) value.
func IsPresent(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
