package analytics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueKind discriminates the scalar types a record field can hold.
type ValueKind int

const (
	// KindAbsent marks a field that is not present on a record.
	KindAbsent ValueKind = iota
	// KindString marks a textual value.
	KindString
	// KindNumber marks a native numeric value.
	KindNumber
)

// Value is a tagged scalar: string, number, or absent. Records carry no
// fixed schema, so every field access goes through this union.
type Value struct {
	kind ValueKind
	str  string
	num  float64
}

// String creates a textual value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number creates a native numeric value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Absent creates the "field not present" value.
func Absent() Value {
	return Value{kind: KindAbsent}
}

// Kind returns the discriminator of the value.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsAbsent reports whether the value marks a missing field.
func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

// IsEmpty reports whether the value is absent or an empty string.
func (v Value) IsEmpty() bool {
	return v.kind == KindAbsent || (v.kind == KindString && strings.TrimSpace(v.str) == "")
}

// Raw returns the display form of the value, used as a distribution key.
// Numbers render without a trailing fraction when integral.
func (v Value) Raw() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Float attempts numeric coercion. Native numbers pass through; strings
// are parsed. The second return is false when the value cannot be used
// numerically — callers skip such values rather than failing.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// MarshalJSON renders the underlying scalar (string, number, or null).
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	default:
		return []byte("null"), nil
	}
}

// Field is one named value inside a record.
type Field struct {
	Name  string
	Value Value
}

// Record is one schema-free observation: an insertion-ordered mapping
// from field name to scalar value. Any two records may have disjoint
// field sets. The engine never mutates records it is given.
type Record struct {
	fields []Field
	index  map[string]int
}

// NewRecord builds a record from fields in order. Later duplicates of a
// name overwrite the earlier value but keep its position.
func NewRecord(fields ...Field) Record {
	var r Record
	for _, f := range fields {
		r.Set(f.Name, f.Value)
	}
	return r
}

// Set stores a field, preserving the position of the first occurrence.
// It is used by loaders and tests to build records, never by the engine
// on records it received.
func (r *Record) Set(name string, v Value) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[name]; ok {
		r.fields[i].Value = v
		return
	}
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, Field{Name: name, Value: v})
}

// Get returns the value of a field, or Absent when the record does not
// carry it.
func (r Record) Get(name string) Value {
	if r.index == nil {
		return Absent()
	}
	i, ok := r.index[name]
	if !ok {
		return Absent()
	}
	return r.fields[i].Value
}

// Has reports whether the record carries the named field.
func (r Record) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Len returns the number of fields on the record.
func (r Record) Len() int {
	return len(r.fields)
}

// Fields returns the record's fields in insertion order. The returned
// slice is shared; callers must not modify it.
func (r Record) Fields() []Field {
	return r.fields
}

// Resolve returns the record's entity key: the first non-empty value
// among the candidate field names, or the fallback when none is present.
// Absent keys never raise — the fallback covers them.
func (r Record) Resolve(candidates []string, fallback string) string {
	for _, name := range candidates {
		if v := r.Get(name); !v.IsEmpty() {
			return v.Raw()
		}
	}
	return fallback
}

// MarshalJSON renders the record as a JSON object in field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		val, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a JSON object into a record, preserving the key
// order of the document. Numbers become native numeric values; null and
// absent keys are treated the same.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record must be a JSON object, got %v", tok)
	}

	*r = Record{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)

		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		switch val := valTok.(type) {
		case string:
			r.Set(key, String(val))
		case json.Number:
			f, err := val.Float64()
			if err != nil {
				return fmt.Errorf("field %q: %w", key, err)
			}
			r.Set(key, Number(f))
		case bool:
			r.Set(key, String(strconv.FormatBool(val)))
		case nil:
			// null is indistinguishable from a missing field
		case json.Delim:
			return fmt.Errorf("field %q: nested values are not supported", key)
		}
	}

	// Consume the closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
