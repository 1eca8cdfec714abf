package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Warning is a non-fatal issue hit while reading one CSV row.
type Warning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Rows is the parsed file: one map per data row keyed by header, plus the
// detected encoding and any row-level warnings.
type Rows struct {
	Records  []map[string]string `json:"records"`
	Encoding string              `json:"encoding"`
	Warnings []Warning           `json:"warnings,omitempty"`
}

// Parse reads CSV bytes into header-keyed rows. The yearly archive files
// are messy: mixed encodings, ragged rows, lazy quoting. Rows with too
// few fields are padded, rows with too many are truncated, and rows the
// csv reader rejects outright are skipped; each case leaves a warning
// rather than failing the file.
func Parse(data []byte) (*Rows, error) {
	decoded, encName, err := DetectAndDecode(data)
	if err != nil {
		return nil, fmt.Errorf("encoding detection: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file: no header row")
		}
		return nil, fmt.Errorf("header row: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	result := &Rows{Encoding: encName}
	rowNum := 1 // header is row 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			result.Warnings = append(result.Warnings, Warning{
				Row:     rowNum,
				Message: fmt.Sprintf("parse error, row skipped: %v", err),
			})
			continue
		}

		if len(row) < len(headers) {
			result.Warnings = append(result.Warnings, Warning{
				Row:     rowNum,
				Message: fmt.Sprintf("%d of %d columns, padded", len(row), len(headers)),
			})
			padded := make([]string, len(headers))
			copy(padded, row)
			row = padded
		} else if len(row) > len(headers) {
			result.Warnings = append(result.Warnings, Warning{
				Row:     rowNum,
				Message: fmt.Sprintf("%d of %d columns, truncated", len(row), len(headers)),
			})
			row = row[:len(headers)]
		}

		record := make(map[string]string, len(headers))
		for i, h := range headers {
			record[h] = row[i]
		}
		result.Records = append(result.Records, record)
	}

	if len(result.Records) == 0 {
		return nil, errors.New("file contains no data rows")
	}
	return result, nil
}
