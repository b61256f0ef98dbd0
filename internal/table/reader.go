// Package table reads per-sample annotation tables produced by
// SnpSift extractFields (tab-separated, one header line).
package table

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/inodb/vibe-mdr/internal/annotation"
)

// Default column names written by SnpSift extractFields for snpEff ANN fields.
const (
	ColGene  = "ANN[*].GENE"
	ColHGVSp = "ANN[*].HGVS_P"
)

// Columns names the two table columns the classifier needs.
type Columns struct {
	Gene   string
	Change string
}

// DefaultColumns returns the SnpSift column names.
func DefaultColumns() Columns {
	return Columns{Gene: ColGene, Change: ColHGVSp}
}

// Reader reads annotation rows from a tab-separated table.
type Reader struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	layout     layout
}

// layout records where the required columns sit in the header.
type layout struct {
	headerLen int
	geneIdx   int
	changeIdx int
}

// Open creates a new Reader for the given file.
// Supports both plain and gzipped (.tsv.gz) tables.
func Open(path string, cols Columns) (*Reader, error) {
	if path == "-" {
		return NewReader(os.Stdin, cols)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}

	r := &Reader{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read table header: %w", err)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek table: %w", err)
	}

	if n == 2 && buf[0] == 0x1f && buf[1] == 0x8b {
		r.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		r.reader = bufio.NewReader(r.gzipReader)
	} else {
		r.reader = bufio.NewReader(file)
	}

	if err := r.parseHeader(cols); err != nil {
		r.Close()
		return nil, err
	}

	return r, nil
}

// NewReader creates a Reader from an io.Reader (e.g., stdin or a request body).
func NewReader(rd io.Reader, cols Columns) (*Reader, error) {
	r := &Reader{
		reader: bufio.NewReader(rd),
	}

	if err := r.parseHeader(cols); err != nil {
		return nil, err
	}

	return r, nil
}

// parseHeader reads the header line and locates the required columns.
func (r *Reader) parseHeader(cols Columns) error {
	for {
		line, err := r.readLine()
		if err == io.EOF {
			return &ParseError{Line: r.lineNumber, Message: "no header line found"}
		}
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}
		if line == "" {
			continue
		}

		l, err := parseHeaderLine(line, r.lineNumber, cols)
		if err != nil {
			return err
		}
		r.layout = l
		return nil
	}
}

// parseHeaderLine locates the required columns in a header line.
func parseHeaderLine(line string, lineNumber int, cols Columns) (layout, error) {
	// SnpSift prefixes the header with '#'
	line = strings.TrimPrefix(line, "#")
	header := strings.Split(line, "\t")

	l := layout{headerLen: len(header), geneIdx: -1, changeIdx: -1}
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case cols.Gene:
			l.geneIdx = i
		case cols.Change:
			l.changeIdx = i
		}
	}

	if l.geneIdx == -1 {
		return l, &ParseError{
			Line:    lineNumber,
			Message: fmt.Sprintf("required column '%s' not found in header", cols.Gene),
		}
	}
	if l.changeIdx == -1 {
		return l, &ParseError{
			Line:    lineNumber,
			Message: fmt.Sprintf("required column '%s' not found in header", cols.Change),
		}
	}
	return l, nil
}

// Next reads the next row.
// Returns nil, nil when there are no more rows.
func (r *Reader) Next() (*annotation.Row, error) {
	for {
		line, err := r.readLine()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if line == "" {
			continue
		}
		return r.layout.row(line, r.lineNumber)
	}
}

// row splits a data line into an annotation row. Lines with more cells
// than the header are skippable errors.
func (l layout) row(line string, lineNumber int) (*annotation.Row, error) {
	fields := strings.Split(line, "\t")
	if len(fields) > l.headerLen {
		return nil, &ParseError{
			Line:    lineNumber,
			Message: fmt.Sprintf("expected %d columns, found %d", l.headerLen, len(fields)),
			Row:     true,
		}
	}

	return &annotation.Row{
		GeneField:   cell(fields, l.geneIdx),
		ChangeField: cell(fields, l.changeIdx),
		Line:        lineNumber,
	}, nil
}

// cell returns the value at idx, substituting annotation.MissingValue for
// short rows and empty cells.
func cell(fields []string, idx int) string {
	if idx >= len(fields) {
		return annotation.MissingValue
	}
	v := strings.TrimSpace(fields[idx])
	if v == "" {
		return annotation.MissingValue
	}
	return v
}

// readLine returns the next line without its terminator. A final line
// without a newline is returned before io.EOF.
func (r *Reader) readLine() (string, error) {
	line, err := r.reader.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	r.lineNumber++
	return strings.TrimRight(line, "\r\n"), nil
}

// LineNumber returns the current line number being processed.
func (r *Reader) LineNumber() int {
	return r.lineNumber
}

// Close closes the reader and underlying file.
func (r *Reader) Close() error {
	if r.gzipReader != nil {
		r.gzipReader.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// ParseError represents an error during table parsing with line context.
type ParseError struct {
	Line    int
	Message string
	Row     bool // error is confined to a single data row
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("table parse error at line %d: %s", e.Line, e.Message)
}

// Skippable reports whether reading may continue after this error.
func (e *ParseError) Skippable() bool {
	return e.Row
}
