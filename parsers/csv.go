package parsers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Row is one parsed CSV record keyed by lower-cased, trimmed header name.
type Row map[string]string

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeReader makes DMS exports readable regardless of their encoding:
// UTF-8 (with or without BOM) passes through, anything else is treated as
// Windows-1252, which is what the legacy export jobs emit.
func decodeReader(data []byte) io.Reader {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return bytes.NewReader(data)
	}
	return transform.NewReader(bytes.NewReader(data), charmap.Windows1252.NewDecoder())
}

// ReadRows parses an entire CSV file into header-keyed rows. Individual
// malformed lines are skipped with a warning; a missing or empty header is
// a parse failure for the whole file.
func ReadRows(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	reader := csv.NewReader(decodeReader(data))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make([]string, len(header))
	for i, name := range header {
		cols[i] = strings.ToLower(strings.TrimSpace(name))
	}

	var rows []Row
	line := 1
	for {
		line++
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logrus.Warnf("skipping CSV line %d: %v", line, err)
			continue
		}

		row := make(Row, len(cols))
		empty := true
		for i, col := range cols {
			if col == "" || i >= len(rec) {
				continue
			}
			val := strings.TrimSpace(rec[i])
			if val != "" {
				empty = false
			}
			row[col] = val
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
