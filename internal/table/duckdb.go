package table

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-mdr/internal/annotation"
)

// lineDelim is a delimiter that never occurs in SnpSift output, so the
// scanner yields each line as a single value.
const lineDelim = "\x01"

// LoadDuckDB reads a table through an in-memory DuckDB read_csv scan.
// Gzipped tables are decompressed by DuckDB. Quoting is disabled since
// SnpSift never quotes cells. Lines are scanned whole and split with the same
// header layout as Reader, so both engines agree on malformed rows: lines
// with more cells than the header are returned as skippable errors.
func LoadDuckDB(path string, cols Columns) (*RowSlice, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close()

	query := fmt.Sprintf(`SELECT line
		FROM read_csv(%s, columns={'line': 'VARCHAR'}, header=false,
			delim=%s, quote='', escape='')`,
		quoteLiteral(path), quoteLiteral(lineDelim))

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("scan table %s: %w", path, err)
	}
	defer rows.Close()

	rs := &RowSlice{}
	var (
		l          layout
		haveHeader bool
		lineNumber int
	)
	for rows.Next() {
		var raw sql.NullString
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		lineNumber++
		line := strings.TrimRight(raw.String, "\r")
		if line == "" {
			continue
		}

		if !haveHeader {
			if l, err = parseHeaderLine(line, lineNumber, cols); err != nil {
				return nil, err
			}
			haveHeader = true
			continue
		}

		row, err := l.row(line, lineNumber)
		if err != nil {
			rs.entries = append(rs.entries, sliceEntry{err: err})
			continue
		}
		rs.entries = append(rs.entries, sliceEntry{row: *row})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	if !haveHeader {
		return nil, &ParseError{Line: lineNumber, Message: "no header line found"}
	}

	return rs, nil
}

func quoteLiteral(s string) string {
	return `'` + strings.ReplaceAll(s, `'`, `''`) + `'`
}

// RowSlice serves rows that were loaded up front, interleaved with the
// row-level errors met while loading them.
type RowSlice struct {
	entries []sliceEntry
	next    int
}

type sliceEntry struct {
	row annotation.Row
	err error
}

// NewRowSlice returns a RowReader over rows.
func NewRowSlice(rows []annotation.Row) *RowSlice {
	rs := &RowSlice{entries: make([]sliceEntry, len(rows))}
	for i, r := range rows {
		rs.entries[i].row = r
	}
	return rs
}

// Rows returns the rows that loaded without error.
func (s *RowSlice) Rows() []annotation.Row {
	rows := make([]annotation.Row, 0, len(s.entries))
	for _, e := range s.entries {
		if e.err == nil {
			rows = append(rows, e.row)
		}
	}
	return rows
}

// Next returns the next row, or nil, nil when exhausted. Rows that failed
// to load are reported in place as their error.
func (s *RowSlice) Next() (*annotation.Row, error) {
	if s.next >= len(s.entries) {
		return nil, nil
	}
	e := &s.entries[s.next]
	s.next++
	if e.err != nil {
		return nil, e.err
	}
	return &e.row, nil
}

// Close is a no-op.
func (s *RowSlice) Close() error {
	return nil
}
