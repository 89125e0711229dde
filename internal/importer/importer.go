// Package importer turns bank and credit-card CSV exports into
// dialect-independent transactions.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hance08/tally/internal/model"
)

var (
	ErrEmptyFile     = errors.New("no file uploaded")
	ErrUnknownFormat = errors.New("unsupported CSV format")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Document is a parsed CSV upload with its detected dialect.
type Document struct {
	Dialect   *Dialect
	HasHeader bool
	Records   [][]string
}

// Row is a data row selected for import, keyed by its 1-based CSV line.
type Row struct {
	Line   int
	Fields []string
}

// Window is one batch of data rows plus the paging cursor.
type Window struct {
	Rows       []Row
	HasMore    bool
	NextOffset int
}

// Load reads the whole upload permissively (ragged rows and stray quotes
// are accepted) and detects its dialect from the first record.
func Load(data []byte) (*Document, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	records, err := ReadRecords(data)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	hasHeader := IsHeader(records[0])
	dialect, err := Detect(records[0], hasHeader)
	if err != nil {
		return nil, err
	}

	return &Document{
		Dialect:   dialect,
		HasHeader: hasHeader,
		Records:   records,
	}, nil
}

func ReadRecords(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, &FormatError{Reason: fmt.Sprintf("malformed CSV: %v", err)}
	}
	return records, nil
}

// IsHeader reports whether every cell of row fails to parse as a number.
func IsHeader(row []string) bool {
	for _, cell := range row {
		if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
			return false
		}
	}
	return true
}

// DataRows is the number of records after the header.
func (d *Document) DataRows() int {
	if d.HasHeader {
		return len(d.Records) - 1
	}
	return len(d.Records)
}

// Window selects up to size data rows starting at offset (0-based, header
// excluded). Rows that are empty or have an empty first cell are skipped but
// still count against size.
func (d *Document) Window(offset, size int) Window {
	if offset < 0 {
		offset = 0
	}
	start := offset
	if d.HasHeader {
		start++
	}
	end := min(start+size, len(d.Records))

	w := Window{}
	for i := start; i < end; i++ {
		rec := d.Records[i]
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		w.Rows = append(w.Rows, Row{Line: i + 1, Fields: rec})
	}

	if end < len(d.Records) {
		w.HasMore = true
		w.NextOffset = offset + size
	}
	return w
}

// Parse normalizes a data row using the document's dialect.
func (d *Document) Parse(row Row) (model.NormalizedTransaction, error) {
	txn, err := d.Dialect.Parse(row.Fields)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) && fe.Line == 0 {
			fe.Line = row.Line
		}
		return model.NormalizedTransaction{}, err
	}
	return txn, nil
}
