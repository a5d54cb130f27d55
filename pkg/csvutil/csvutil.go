// Package csvutil decodes header-addressed tabular files (CSV and XLSX) into typed records.
package csvutil

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeError reports a tabular file that could not be decoded.
// Line is 0 when the failure is not tied to a single row.
type DecodeError struct {
	Path string
	Line int
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("error in file %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("error in file %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type rawRecord struct {
	line   int
	fields []string
}

// Decode reads the whole file at path and converts every data row with parse.
// The first row is the header. Any failing row aborts the decode of the file.
func Decode[T any](path string, parse func(r *Row) (T, error)) ([]T, error) {
	records, err := readRecords(path)
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, &DecodeError{Path: path, Line: pe.Line, Err: pe.Err}
		}
		return nil, &DecodeError{Path: path, Err: err}
	}

	if len(records) == 0 {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("missing header")}
	}
	header, err := headerIndex(records[0].fields)
	if err != nil {
		return nil, &DecodeError{Path: path, Line: records[0].line, Err: err}
	}

	out := make([]T, 0, len(records)-1)
	for _, rec := range records[1:] {
		if isBlank(rec.fields) {
			continue
		}
		row := &Row{line: rec.line, header: header, fields: rec.fields}
		v, err := parse(row)
		if err == nil {
			err = row.Err()
		}
		if err != nil {
			return nil, &DecodeError{Path: path, Line: rec.line, Err: err}
		}
		out = append(out, v)
	}
	return out, nil
}

// IsTabular reports whether path carries an extension Decode understands.
func IsTabular(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx":
		return true
	default:
		return false
	}
}

func readRecords(path string) ([]rawRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSX(path)
	}
	return readCSV(path)
}

func readCSV(path string) ([]rawRecord, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(bytes.NewReader(trimAfterQuotes(data)))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var out []rawRecord
	for {
		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		line, _ := r.FieldPos(0)
		out = append(out, rawRecord{line: line, fields: rec})
	}
	return out, nil
}

// trimAfterQuotes drops blanks between a closing quote and the following delimiter or line
// end, so `"a" ,b` reads like `"a",b`. Newlines are never removed and line numbers stay put.
func trimAfterQuotes(data []byte) []byte {
	out := make([]byte, 0, len(data))
	quoted := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		out = append(out, c)
		if c != '"' {
			continue
		}
		quoted = !quoted
		if quoted {
			continue
		}
		j := i + 1
		for j < len(data) && (data[j] == ' ' || data[j] == '\t') {
			j++
		}
		if j > i+1 && (j == len(data) || data[j] == ',' || data[j] == '\n' || data[j] == '\r') {
			i = j - 1
		}
	}
	return out
}

func headerIndex(header []string) (map[string]int, error) {
	m := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if !utf8.ValidString(name) {
			return nil, fmt.Errorf("invalid header encoding")
		}
		if name == "" {
			continue
		}
		if _, dup := m[name]; dup {
			return nil, fmt.Errorf("duplicate header column: %s", name)
		}
		m[name] = i
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("missing header")
	}
	return m, nil
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
