package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/goliatone/go-ezform/pkg/coerce"
	"github.com/goliatone/go-ezform/pkg/model"
)

// Encode serializes record in the session output format. JSON output maps
// NaN numbers to null; pretty output lists one "name: value" line per field
// in schema order followed by any keys the schema does not declare.
func (s *Session) Encode(fields []model.Field, record model.Record) ([]byte, error) {
	switch s.format {
	case OutputFormatPretty:
		return encodePretty(fields, record), nil
	case OutputFormatJSON, "":
		return encodeJSON(record)
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", s.format)
	}
}

func encodeJSON(record model.Record) ([]byte, error) {
	data, err := json.MarshalIndent(coerce.JSONSafe(record), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("tui: encode: %w", err)
	}
	return append(data, '\n'), nil
}

func encodePretty(fields []model.Field, record model.Record) []byte {
	var buf bytes.Buffer
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		seen[field.Name] = struct{}{}
		fmt.Fprintf(&buf, "%s: %s\n", field.Name, displayValue(record[field.Name]))
	}

	var extra []string
	for key := range record {
		if _, ok := seen[key]; !ok {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		fmt.Fprintf(&buf, "%s: %s\n", key, displayValue(record[key]))
	}
	return buf.Bytes()
}
