package calc

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Result is what a calculator panel displays after a request resolves.
type Result struct {
	OK bool
	// Text is the indented JSON on success, or the error detail on failure.
	Text string
	// Rows is the key/value view of an object response; nil otherwise.
	Rows []Row
}

// Row is one key/value pair of an object response.
type Row struct {
	Key   string
	Value string
}

// FormatResult pretty-prints a response with two-space indentation.
// Bodies that are not valid JSON are returned as-is.
func FormatResult(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// ResultRows flattens an object response into rows sorted by key. Strings are
// shown unquoted; other values as compact JSON. Non-object responses yield nil.
func ResultRows(raw json.RawMessage) []Row {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]Row, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, Row{Key: k, Value: formatValue(obj[k])})
	}
	return rows
}

func formatValue(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return string(v)
	}
	return buf.String()
}
