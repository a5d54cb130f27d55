package csvutil

import (
	"fmt"
	"strconv"
	"strings"
)

// Row gives header-addressed access to one data row. Accessors trim every field and record
// the first conversion failure, which Decode reports once parse returns.
type Row struct {
	line   int
	header map[string]int
	fields []string
	err    error
}

// NewRow builds a Row from a header and its fields; meant for tests and in-memory sources.
func NewRow(line int, header, fields []string) *Row {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	return &Row{line: line, header: idx, fields: fields}
}

// Err returns the first accessor failure, if any.
func (r *Row) Err() error { return r.err }

func (r *Row) fail(name string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%s: %w", name, err)
	}
}

func (r *Row) get(name string) string {
	i, ok := r.header[name]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

// String returns the trimmed value; absent columns read as "".
func (r *Row) String(name string) string {
	return r.get(name)
}

// OptString returns nil for empty values.
func (r *Row) OptString(name string) *string {
	v := r.get(name)
	if v == "" {
		return nil
	}
	return &v
}

func (r *Row) Int64(name string) int64 {
	v := r.get(name)
	if v == "" {
		r.fail(name, fmt.Errorf("missing value"))
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		r.fail(name, err)
		return 0
	}
	return n
}

func (r *Row) Int32(name string) int32 {
	v := r.get(name)
	if v == "" {
		r.fail(name, fmt.Errorf("missing value"))
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		r.fail(name, err)
		return 0
	}
	return int32(n)
}

func (r *Row) OptInt32(name string) *int32 {
	v := r.get(name)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		r.fail(name, err)
		return nil
	}
	out := int32(n)
	return &out
}

func (r *Row) OptInt16(name string) *int16 {
	v := r.get(name)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 16)
	if err != nil {
		r.fail(name, err)
		return nil
	}
	out := int16(n)
	return &out
}

func (r *Row) Float64(name string) float64 {
	v := r.get(name)
	if v == "" {
		r.fail(name, fmt.Errorf("missing value"))
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(name, err)
		return 0
	}
	return f
}

// Bool accepts strconv.ParseBool spellings plus yes/no; empty is false.
func (r *Row) Bool(name string) bool {
	v := strings.ToLower(r.get(name))
	switch v {
	case "":
		return false
	case "yes", "y":
		return true
	case "no", "n":
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(name, err)
		return false
	}
	return b
}

// Time returns the value as unix seconds. See ParseTime for accepted layouts.
func (r *Row) Time(name string) int64 {
	t, err := ParseTime(r.get(name))
	if err != nil {
		r.fail(name, err)
		return 0
	}
	return t.Unix()
}

// JSONObject returns the normalised JSON object, or nil for an empty cell.
func (r *Row) JSONObject(name string) *string {
	v := r.get(name)
	if v == "" {
		return nil
	}
	normalized, err := parseJSONObjectField(v)
	if err != nil {
		r.fail(name, err)
		return nil
	}
	s := string(normalized)
	return &s
}
