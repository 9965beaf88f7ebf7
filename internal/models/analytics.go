package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// CorrelationMethod selects the pairwise correlation estimator.
type CorrelationMethod string

const (
	CorrelationPearson  CorrelationMethod = "pearson"
	CorrelationSpearman CorrelationMethod = "spearman"
	CorrelationKendall  CorrelationMethod = "kendall"
)

// ParseCorrelationMethod maps a configuration string to a CorrelationMethod.
func ParseCorrelationMethod(s string) (CorrelationMethod, error) {
	switch CorrelationMethod(s) {
	case CorrelationPearson, "":
		return CorrelationPearson, nil
	case CorrelationSpearman:
		return CorrelationSpearman, nil
	case CorrelationKendall:
		return CorrelationKendall, nil
	}
	return "", fmt.Errorf("unknown correlation method %q", s)
}

// CorrelationMatrix represents pairwise correlation results for a set of symbols.
// Matrix[i][j] is NaN when the two columns share no usable observations.
type CorrelationMatrix struct {
	Symbols []string          `json:"symbols"`
	Matrix  [][]float64       `json:"matrix"`
	Method  CorrelationMethod `json:"method"`
}

// Get returns the correlation between two symbols and whether it is present.
func (m *CorrelationMatrix) Get(symbol1, symbol2 string) (float64, bool) {
	i, j := -1, -1
	for k, s := range m.Symbols {
		if s == symbol1 {
			i = k
		}
		if s == symbol2 {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return math.NaN(), false
	}
	v := m.Matrix[i][j]
	return v, !math.IsNaN(v)
}

// MarshalJSON encodes absent cells as null.
func (m CorrelationMatrix) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"symbols":`)
	syms, err := json.Marshal(m.Symbols)
	if err != nil {
		return nil, err
	}
	buf.Write(syms)
	buf.WriteString(`,"matrix":[`)
	for i, row := range m.Matrix {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('[')
		for j, v := range row {
			if j > 0 {
				buf.WriteByte(',')
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				buf.WriteString("null")
				continue
			}
			buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		buf.WriteByte(']')
	}
	buf.WriteString(`],"method":`)
	method, err := json.Marshal(m.Method)
	if err != nil {
		return nil, err
	}
	buf.Write(method)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
