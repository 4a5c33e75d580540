package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// RawPayload is a loosely typed JSON object as sent by the booking forms.
type RawPayload map[string]json.RawMessage

// Lookup walks a dotted path ("extra_food.breakfast"). A missing key or a
// non-object along the way yields an absent value, never an error.
func (p RawPayload) Lookup(path string) Loose {
	cur := map[string]json.RawMessage(p)
	parts := strings.Split(path, ".")
	for i, part := range parts {
		raw, ok := cur[part]
		if !ok {
			return Loose{}
		}
		if i == len(parts)-1 {
			return Loose{raw: raw}
		}
		var next map[string]json.RawMessage
		if err := json.Unmarshal(raw, &next); err != nil || next == nil {
			return Loose{}
		}
		cur = next
	}
	return Loose{}
}

// Has reports whether the top-level key of path is present at all, null included.
func (p RawPayload) Has(path string) bool {
	head := path
	if i := strings.IndexByte(path, '.'); i >= 0 {
		head = path[:i]
	}
	_, ok := p[head]
	return ok
}

var (
	errNotNumber = errors.New("must be a number")
	errNotText   = errors.New("must be a string")
)

// Loose is a single JSON value that may be a string, number, bool, null or absent.
type Loose struct {
	raw json.RawMessage
}

func LooseOf(v any) Loose {
	raw, _ := json.Marshal(v)
	return Loose{raw: raw}
}

func (l Loose) trimmed() []byte {
	return bytes.TrimSpace(l.raw)
}

// Present is true when the key exists, even if its value is null.
func (l Loose) Present() bool {
	return l.raw != nil
}

// Missing is true for an absent key or an explicit null.
func (l Loose) Missing() bool {
	t := l.trimmed()
	return len(t) == 0 || string(t) == "null"
}

// Blank is Missing or a whitespace-only string.
func (l Loose) Blank() bool {
	if l.Missing() {
		return true
	}
	if s, ok := l.str(); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func (l Loose) str() (string, bool) {
	t := l.trimmed()
	if len(t) == 0 || t[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(t, &s); err != nil {
		return "", false
	}
	return s, true
}

// Text renders strings, numbers and bools as trimmed text.
func (l Loose) Text() (string, error) {
	if l.Missing() {
		return "", nil
	}
	if s, ok := l.str(); ok {
		return strings.TrimSpace(s), nil
	}
	t := l.trimmed()
	switch t[0] {
	case '{', '[':
		return "", errNotText
	}
	return string(t), nil
}

// Number accepts JSON numbers and numeric strings. NaN and infinities are rejected.
func (l Loose) Number() (float64, error) {
	if l.Missing() {
		return 0, errNotNumber
	}
	var text string
	if s, ok := l.str(); ok {
		text = strings.TrimSpace(s)
	} else {
		t := l.trimmed()
		if t[0] != '-' && (t[0] < '0' || t[0] > '9') {
			return 0, errNotNumber
		}
		text = string(t)
	}
	if text == "" {
		return 0, errNotNumber
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotNumber
	}
	return f, nil
}

// Truthy follows form conventions: "false", "0", "no", "off" and "" are false.
func (l Loose) Truthy() bool {
	if l.Missing() {
		return false
	}
	if s, ok := l.str(); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "", "false", "0", "no", "off":
			return false
		}
		return true
	}
	t := l.trimmed()
	switch string(t) {
	case "true":
		return true
	case "false":
		return false
	}
	if f, err := l.Number(); err == nil {
		return f != 0
	}
	return true
}
