// Package export serialises computed kinship matrices.
//
// Two formats are supported:
//
//   - CSV: one row per unordered proband pair, the format downstream
//     statistics tooling ingests.
//   - JSON: the dense matrix with its vertex-to-row index, for programmatic
//     consumers.
//
// Both writers read through [kinship.Matrix.Get] and leave the sparse store
// intact, so several formats can be produced from one computation.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/kincut/kincut/pkg/kinship"
)

// Output format names.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatCSV:  true,
	FormatJSON: true,
}

// csvHeader matches the column names long used by kinship CSV consumers.
var csvHeader = []string{"Proband_1_id", "Proband_2_id", "Kinship"}

// WritePairsCSV writes one CSV row per unordered proband pair, self pairs
// included, ordered by ascending ids.
func WritePairsCSV(w io.Writer, m *kinship.Matrix) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	sinks := m.Sinks()
	for i, a := range sinks {
		for _, b := range sinks[i:] {
			phi, err := m.Get(a, b)
			if err != nil {
				return fmt.Errorf("kinship {%d, %d}: %w", a, b, err)
			}
			record := []string{
				strconv.Itoa(a),
				strconv.Itoa(b),
				strconv.FormatFloat(phi, 'g', -1, 64),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("write pair {%d, %d}: %w", a, b, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalPairsCSV returns the CSV export as bytes.
func MarshalPairsCSV(m *kinship.Matrix) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePairsCSV(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Dense is the JSON shape of a dense kinship matrix.
type Dense struct {
	// Sinks lists the proband ids in matrix row order.
	Sinks []int `json:"sinks"`

	// Index maps proband id to matrix row.
	Index map[int]int `json:"index"`

	// Matrix is the symmetric kinship matrix with both orientations filled.
	Matrix [][]float64 `json:"matrix"`
}

// DenseFrom builds the dense representation by reading through the matrix,
// leaving the sparse store intact.
func DenseFrom(m *kinship.Matrix) (Dense, error) {
	sinks := m.Sinks()
	out := Dense{
		Sinks:  sinks,
		Index:  make(map[int]int, len(sinks)),
		Matrix: make([][]float64, len(sinks)),
	}
	for i := range out.Matrix {
		out.Matrix[i] = make([]float64, len(sinks))
		out.Index[sinks[i]] = i
	}
	for i, a := range sinks {
		for j := i; j < len(sinks); j++ {
			phi, err := m.Get(a, sinks[j])
			if err != nil {
				return Dense{}, fmt.Errorf("kinship {%d, %d}: %w", a, sinks[j], err)
			}
			out.Matrix[i][j] = phi
			out.Matrix[j][i] = phi
		}
	}
	return out, nil
}

// WriteDenseJSON writes the dense matrix as indented JSON.
func WriteDenseJSON(w io.Writer, m *kinship.Matrix) error {
	dense, err := DenseFrom(m)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dense)
}

// MarshalDenseJSON returns the JSON export as bytes.
func MarshalDenseJSON(m *kinship.Matrix) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDenseJSON(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
