// package formatter renders normalized entity lists for CLI output (table, CSV, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/campuskit/campusctl/internal/envelope"
	"github.com/campuskit/campusctl/internal/screens"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/tidwall/gjson"
)

// headers builds the column headers for a spec: ID, the field labels, Status.
func headers(spec screens.Spec) []string {
	cols := []string{"ID"}
	for _, f := range spec.Fields {
		if f.Kind == screens.FieldFlag {
			continue
		}
		cols = append(cols, f.Label)
	}
	return append(cols, "Status")
}

// row renders one record in header order.
func row(spec screens.Spec, rec gjson.Result) []string {
	cells := []string{rec.Get("id").String()}
	for _, f := range spec.Fields {
		if f.Kind == screens.FieldFlag {
			continue
		}
		cells = append(cells, rec.Get(f.Name).String())
	}

	status := "inactive"
	if envelope.Truthy(rec.Get("status").Value()) {
		status = "active"
	}
	return append(cells, status)
}

// ToCSV renders records as CSV with one column per form field plus ID and the
// coerced status.
func ToCSV(spec screens.Spec, records []gjson.Result) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers(spec)); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, rec := range records {
		if err := writer.Write(row(spec, rec)); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ToTable renders records as a bordered terminal table.
func ToTable(spec screens.Spec, records []gjson.Result) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers(spec)...)

	for _, rec := range records {
		t.Row(row(spec, rec)...)
	}

	return t.Render()
}

// ToJSON renders any value as JSON, optionally indented.
func ToJSON(v any, pretty bool) ([]byte, error) {
	var data []byte
	var err error

	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return data, nil
}

// RawList re-encodes normalized records as a JSON array, preserving each
// record byte-for-byte.
func RawList(records []gjson.Result) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, rec := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(rec.Raw)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}
