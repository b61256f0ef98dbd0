// Package sample classifies the rows of per-sample annotation tables and
// groups the resulting mutations by sample.
package sample

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/vibe-mdr/internal/annotation"
	"github.com/inodb/vibe-mdr/internal/catalog"
	"github.com/inodb/vibe-mdr/internal/classify"
)

// Result holds the classified mutations of one sample.
type Result struct {
	Sample      string              `json:"sample"`
	Mutations   []classify.Mutation `json:"mutations"`
	HasFindings bool                `json:"has_findings"`
	SkippedRows int                 `json:"skipped_rows,omitempty"`
}

// NewResult returns an empty result for the named sample.
func NewResult(name string) *Result {
	return &Result{
		Sample:    name,
		Mutations: []classify.Mutation{},
	}
}

// Resistant returns the number of mutations in a resistant tier.
func (r *Result) Resistant() int {
	n := 0
	for _, m := range r.Mutations {
		if m.Tier.Resistant() {
			n++
		}
	}
	return n
}

// Aggregator classifies sample tables against a catalog.
type Aggregator struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// NewAggregator creates a new aggregator using the given catalog.
func NewAggregator(c *catalog.Catalog) *Aggregator {
	return &Aggregator{
		catalog: c,
		logger:  zap.NewNop(),
	}
}

// SetLogger sets the logger for warning and info messages.
func (a *Aggregator) SetLogger(l *zap.Logger) {
	a.logger = l
}

// Catalog returns the catalog used for classification.
func (a *Aggregator) Catalog() *catalog.Catalog {
	return a.catalog
}

// Aggregate classifies every row of a sample table in order.
func (a *Aggregator) Aggregate(name string, rows []annotation.Row) *Result {
	res := NewResult(name)
	for _, row := range rows {
		a.addRow(res, row)
	}
	return res
}

// AggregateReader classifies all rows read from r. Rows failing with a
// skippable annotation.RowError are counted and skipped; any other read
// error aborts the sample.
func (a *Aggregator) AggregateReader(name string, r annotation.RowReader) (*Result, error) {
	res := NewResult(name)
	for {
		row, err := r.Next()
		if err != nil {
			var rowErr annotation.RowError
			if errors.As(err, &rowErr) && rowErr.Skippable() {
				res.SkippedRows++
				a.logger.Warn("skipping malformed row",
					zap.String("sample", name),
					zap.Error(err))
				continue
			}
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if row == nil {
			break
		}
		a.addRow(res, *row)
	}

	if res.SkippedRows > 0 {
		a.logger.Info("sample had malformed rows",
			zap.String("sample", name),
			zap.Int("skipped", res.SkippedRows))
	}
	return res, nil
}

func (a *Aggregator) addRow(res *Result, row annotation.Row) {
	for p := range annotation.Pairs(row) {
		m, ok := classify.Classify(a.catalog, p.Gene, p.Change)
		if !ok {
			continue
		}
		res.Mutations = append(res.Mutations, m)
		res.HasFindings = true
	}
}
