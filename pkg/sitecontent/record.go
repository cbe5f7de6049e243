package sitecontent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// RawSection is a named section of a raw record. Value is whatever the
// datastore held: a map[string]any, a []any, a string or a json.Number.
type RawSection struct {
	Name  string
	Value any
}

// RawRecord is an unvalidated content payload. Sections keep the order in
// which they were read; when two sections write the same output field the
// later one wins.
type RawRecord struct {
	Sections []RawSection
}

// Len returns the number of sections.
func (r RawRecord) Len() int {
	return len(r.Sections)
}

// Names returns the section names in record order.
func (r RawRecord) Names() []string {
	names := make([]string, len(r.Sections))
	for i, s := range r.Sections {
		names[i] = s.Name
	}
	return names
}

// ParseRecord decodes a JSON object into a RawRecord, preserving key order.
// Numbers are kept as json.Number so counters like "15" and 15 read the same.
func ParseRecord(data []byte) (RawRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return RawRecord{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return RawRecord{}, fmt.Errorf("%w: expected object, got %v", ErrMalformedRecord, tok)
	}

	var record RawRecord
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return RawRecord{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
		name, ok := tok.(string)
		if !ok {
			return RawRecord{}, fmt.Errorf("%w: unexpected key %v", ErrMalformedRecord, tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return RawRecord{}, fmt.Errorf("%w: section %q: %v", ErrMalformedRecord, name, err)
		}
		record.Sections = append(record.Sections, RawSection{Name: name, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return RawRecord{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return RawRecord{}, fmt.Errorf("%w: trailing data after object", ErrMalformedRecord)
	}

	return record, nil
}

// MarshalJSON encodes the record as a JSON object in section order. A
// repeated name is written once per occurrence, as it was read.
func (r RawRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range r.Sections {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(s.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(s.Value)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", s.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RecordFromSections builds a RawRecord from datastore rows. Rows whose
// document does not parse are kept with a nil value, which normalizes to
// nothing.
func RecordFromSections(rows []*SectionRecord) RawRecord {
	record := RawRecord{Sections: make([]RawSection, 0, len(rows))}
	for _, row := range rows {
		if row == nil {
			continue
		}
		var value any
		if len(row.Content) > 0 {
			dec := json.NewDecoder(bytes.NewReader(row.Content))
			dec.UseNumber()
			if err := dec.Decode(&value); err != nil {
				value = nil
			}
		}
		record.Sections = append(record.Sections, RawSection{Name: row.Name, Value: value})
	}
	return record
}

// RecordFromContent re-encodes normalized content as a raw record whose
// section names match the output fields.
func RecordFromContent(c Content) (RawRecord, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return RawRecord{}, err
	}
	return ParseRecord(data)
}

// ValidateSection checks a section before it is written to a Repository.
// The name must be non-blank and free of path separators; the content must
// be a single JSON value.
func ValidateSection(name string, content json.RawMessage) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("%w: %q", ErrInvalidSectionName, name)
	}
	if !json.Valid(content) {
		return fmt.Errorf("%w: section %q is not valid JSON", ErrMalformedRecord, name)
	}
	return nil
}
