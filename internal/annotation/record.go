// Package annotation decomposes annotated table rows into aligned
// (gene, protein change) pairs.
package annotation

import (
	"iter"
	"strings"
)

// MissingValue stands in for an absent or empty table cell.
const MissingValue = "nan"

// Row is one row of a sample table. Each field may hold a comma-separated
// list, one value per overlapping annotation (ANN[*].GENE and ANN[*].HGVS_P).
type Row struct {
	GeneField   string
	ChangeField string
	Line        int // source line, 0 if unknown
}

// Pair is one gene and its reported protein change.
type Pair struct {
	Gene   string
	Change string
}

// RowReader is the interface for loaders that read sample tables.
type RowReader interface {
	// Next reads the next row.
	// Returns nil, nil when there are no more rows.
	Next() (*Row, error)

	// Close closes the reader and releases resources.
	Close() error
}

// RowError is implemented by row-level errors that leave the reader usable,
// so the caller may skip the row and keep reading.
type RowError interface {
	error
	Skippable() bool
}

// Pairs yields the (gene, change) pairs of a row in source order. The i-th
// gene pairs with the i-th change; pairing stops at the end of the shorter
// list because annotators may truncate one list before the other.
func Pairs(row Row) iter.Seq[Pair] {
	return func(yield func(Pair) bool) {
		genes := strings.Split(fieldValue(row.GeneField), ",")
		changes := strings.Split(fieldValue(row.ChangeField), ",")
		for i, gene := range genes {
			if i >= len(changes) {
				return
			}
			p := Pair{
				Gene:   strings.TrimSpace(gene),
				Change: strings.TrimSpace(changes[i]),
			}
			if !yield(p) {
				return
			}
		}
	}
}

// Collect returns all pairs of a row.
func Collect(row Row) []Pair {
	var pairs []Pair
	for p := range Pairs(row) {
		pairs = append(pairs, p)
	}
	return pairs
}

func fieldValue(s string) string {
	if s == "" {
		return MissingValue
	}
	return s
}
