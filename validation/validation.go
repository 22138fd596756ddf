package validation

import (
	"bytes"
	"encoding/json"
	"net/mail"
	"sort"
	"strconv"
	"strings"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// Email flags values that do not parse as a bare address. Empty values are
// left to Required.
func Email(field, value string, v Violations) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		v[field] = "invalid_email"
	}
}

func MinLength(field, value string, n int, v Violations) {
	if value != "" && len([]rune(value)) < n {
		v[field] = "too_short"
	}
}

// Violation codes reported by IDList.
const (
	CodeRequired    = "required"
	CodeNotIntList  = "must_be_list_of_integers"
	CodeNotPositive = "must_be_positive"
)

// IDList holds a raw JSON value that must turn out to be a list of ids.
// Decoding never fails; the shape is checked later by Values so that callers
// can decide when the check runs.
type IDList struct {
	raw json.RawMessage
	set bool
}

// IDs builds a present list from already typed ids.
func IDs(ids ...uint) IDList {
	if ids == nil {
		ids = []uint{}
	}
	b, _ := json.Marshal(ids)
	return IDList{raw: b, set: true}
}

// RawIDs wraps an arbitrary JSON value, mostly for tests and CLI input.
func RawIDs(raw string) IDList {
	return IDList{raw: json.RawMessage(raw), set: true}
}

func (l *IDList) UnmarshalJSON(b []byte) error {
	l.raw = append(l.raw[:0], b...)
	l.set = true
	return nil
}

func (l IDList) MarshalJSON() ([]byte, error) {
	if !l.set {
		return []byte("null"), nil
	}
	return l.raw, nil
}

// Present reports whether a non-null value was supplied.
func (l IDList) Present() bool {
	return l.set && !bytes.Equal(bytes.TrimSpace(l.raw), []byte("null"))
}

// Values returns the distinct ids sorted ascending. A missing or null value,
// a non-list, and a list holding anything but positive integers are each
// reported as a violation on field. An empty list is valid.
func (l IDList) Values(field string) ([]uint, Violations) {
	if !l.Present() {
		return nil, Violations{field: CodeRequired}
	}
	dec := json.NewDecoder(bytes.NewReader(l.raw))
	dec.UseNumber()
	var items []any
	if err := dec.Decode(&items); err != nil {
		return nil, Violations{field: CodeNotIntList}
	}
	seen := make(map[uint]struct{}, len(items))
	out := make([]uint, 0, len(items))
	for _, it := range items {
		num, ok := it.(json.Number)
		if !ok {
			return nil, Violations{field: CodeNotIntList}
		}
		n, err := strconv.ParseInt(num.String(), 10, 64)
		if err != nil {
			return nil, Violations{field: CodeNotIntList}
		}
		if n <= 0 {
			return nil, Violations{field: CodeNotPositive}
		}
		id := uint(n)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
