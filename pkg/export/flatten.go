package export

import (
	"bytes"
	"encoding/json"
	"strings"
)

// valueKind discriminates the two field shapes the flattener understands.
type valueKind int

const (
	scalarValue valueKind = iota
	nestedValue
)

// FieldValue is a single record field: either a scalar or a nested mapping
// (commonly {"rendered": "..."}). The shape is resolved once at decode time.
type FieldValue struct {
	kind   valueKind
	scalar string
	nested map[string]json.RawMessage
}

// Record is a raw API record, field name to value.
type Record map[string]FieldValue

// UnmarshalJSON decodes a field value, classifying it as nested mapping or
// scalar by its JSON shape.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		v.kind = nestedValue
		return json.Unmarshal(trimmed, &v.nested)
	}

	v.kind = scalarValue
	v.scalar = scalarString(trimmed)
	return nil
}

// String returns the flattened form of the value.
func (v FieldValue) String() string {
	switch v.kind {
	case nestedValue:
		return StripParagraphTags(v.rendered())
	default:
		return v.scalar
	}
}

// rendered extracts the "rendered" entry of a nested mapping, empty string
// if absent.
func (v FieldValue) rendered() string {
	raw, ok := v.nested["rendered"]
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	// Non-string rendered entry: fall back to its JSON text.
	return string(raw)
}

// scalarString converts a scalar JSON value to its string representation.
// JSON strings are unquoted; numbers, booleans and null keep their JSON text.
func scalarString(data []byte) string {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			return s
		}
	}
	return string(data)
}

var paragraphTags = strings.NewReplacer("<p>", "", "</p>", "")

// StripParagraphTags removes all literal <p> and </p> substrings, not just
// wrapping ones. No other sanitization is applied.
func StripParagraphTags(s string) string {
	return paragraphTags.Replace(s)
}

// Extract flattens the requested fields of a record into plain strings.
// Fields absent from the record produce no entry in the result.
func Extract(rec Record, fields []string) map[string]string {
	flat := make(map[string]string, len(fields))
	for _, field := range fields {
		value, ok := rec[field]
		if !ok {
			continue
		}
		flat[field] = value.String()
	}
	return flat
}
