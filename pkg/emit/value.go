package emit

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ValueKind discriminates the property value variants.
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindStringList
)

// Value is a tagged property value: a string, a number, or a list of
// strings. Escaping is exhaustive per variant, so every value that
// reaches the output file has passed through exactly one escaping path.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	list []string
}

// String wraps a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number wraps a numeric value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// StringList wraps a list-of-strings value.
func StringList(items []string) Value {
	return Value{kind: KindStringList, list: items}
}

// Kind returns the variant tag.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsZero reports whether the value carries nothing worth emitting: an
// empty string or an empty list. Numbers are always emitted.
func (v Value) IsZero() bool {
	switch v.kind {
	case KindString:
		return v.str == ""
	case KindStringList:
		return len(v.list) == 0
	default:
		return false
	}
}

// Render serializes the value for the bulk-load file format, escaping
// every string through the delimiter set.
func (v Value) Render(d Delimiters) string {
	switch v.kind {
	case KindString:
		return d.Escape(v.str)
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindStringList:
		escaped := make([]string, len(v.list))
		for i, item := range v.list {
			escaped[i] = d.Escape(item)
		}
		return strings.Join(escaped, d.Array)
	default:
		return ""
	}
}

type valueJSON struct {
	Kind ValueKind `json:"kind"`
	Str  string    `json:"str,omitempty"`
	Num  float64   `json:"num,omitempty"`
	List []string  `json:"list,omitempty"`
}

// MarshalJSON keeps the variant tag so staged records round-trip.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(valueJSON{Kind: v.kind, Str: v.str, Num: v.num, List: v.list})
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw valueJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = Value{kind: raw.Kind, str: raw.Str, num: raw.Num, list: raw.List}
	return nil
}

// Delimiters is the injectable delimiter set of the downstream bulk
// loader: field separator, array-element separator, record separator,
// and the quote character.
type Delimiters struct {
	Field  string
	Array  string
	Record string
	Quote  string
}

// DefaultDelimiters matches the loader invocation this pipeline feeds
// (field ";", array "|", newline records, double-quote quoting).
func DefaultDelimiters() Delimiters {
	return Delimiters{Field: ";", Array: "|", Record: "\n", Quote: `"`}
}

// Escape neutralizes every delimiter occurrence in s: separators are
// replaced with a space, quote characters are doubled.
func (d Delimiters) Escape(s string) string {
	for _, sep := range []string{d.Record, d.Field, d.Array} {
		if sep != "" {
			s = strings.ReplaceAll(s, sep, " ")
		}
	}
	if d.Quote != "" {
		s = strings.ReplaceAll(s, d.Quote, d.Quote+d.Quote)
	}
	return s
}
