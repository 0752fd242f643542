package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Reserved metadata keys in the persisted JSON unit. Every other
// top-level key names a section. The version itself is not part of the
// unit; it lives in the unit's storage key.
const (
	KeyURL   = "__url__"
	KeyDate  = "__date__"
	KeyTitle = "__title__"

	reservedPrefix = "__"
)

// MarshalJSON writes the persisted unit: reserved metadata keys first,
// then the sections in insertion order. Empty metadata fields are
// omitted; readers treat absence as empty.
func (r PatchRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	n := 0
	put := func(key string, val any) error {
		if n > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return fmt.Errorf("marshal key %q: %w", key, err)
		}
		v, err := json.Marshal(val)
		if err != nil {
			return fmt.Errorf("marshal value for %q: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		n++
		return nil
	}
	if r.SourceURL != "" {
		if err := put(KeyURL, r.SourceURL); err != nil {
			return nil, err
		}
	}
	if r.Date != "" {
		if err := put(KeyDate, r.Date); err != nil {
			return nil, err
		}
	}
	if r.Title != "" {
		if err := put(KeyTitle, r.Title); err != nil {
			return nil, err
		}
	}
	var sectionErr error
	r.Sections.Each(func(name string, items []string) {
		if sectionErr != nil {
			return
		}
		if items == nil {
			items = []string{}
		}
		sectionErr = put(name, items)
	})
	if sectionErr != nil {
		return nil, sectionErr
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a persisted unit, keeping section order. Reserved
// keys it does not know are skipped so hand-annotated units stay
// readable.
func (r *PatchRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read unit: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("read unit: expected object, got %v", tok)
	}
	secs := NewSections()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("read unit key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("read unit key: unexpected token %v", keyTok)
		}
		if strings.HasPrefix(key, reservedPrefix) {
			var v any
			if err := dec.Decode(&v); err != nil {
				return fmt.Errorf("read metadata %q: %w", key, err)
			}
			s, _ := v.(string)
			switch key {
			case KeyURL:
				r.SourceURL = s
			case KeyDate:
				r.Date = s
			case KeyTitle:
				r.Title = s
			}
			continue
		}
		var items []string
		if err := dec.Decode(&items); err != nil {
			return fmt.Errorf("read section %q: %w", key, err)
		}
		secs.Append(key, items...)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("read unit close: %w", err)
	}
	r.Sections = secs
	return nil
}
