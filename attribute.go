// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// File contains the in-memory attribute/attribute-list model.
package ldap

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Attribute holds one named, possibly multi-valued, possibly binary
// LDAP attribute as returned by a search.
type Attribute struct {
	Name     string
	IsBinary bool
	Values   [][]byte
}

// NewAttribute builds an Attribute, detecting the binary flag from the
// case-insensitive ";binary" substring in name.
func NewAttribute(name string) *Attribute {
	return &Attribute{
		Name:     name,
		IsBinary: strings.Contains(strings.ToLower(name), ";binary"),
	}
}

// AddValue appends a raw value, preserving insertion order.
func (a *Attribute) AddValue(v []byte) {
	a.Values = append(a.Values, v)
}

// StringValues returns the attribute's values as strings (raw UTF-8
// bytes, no escaping); used when the caller knows the attribute is
// textual.
func (a *Attribute) StringValues() []string {
	out := make([]string, len(a.Values))
	for i, v := range a.Values {
		out[i] = string(v)
	}
	return out
}

// StringValue returns the first value as a string, or "" if the
// attribute has no values.
func (a *Attribute) StringValue() string {
	if len(a.Values) == 0 {
		return ""
	}
	return string(a.Values[0])
}

// needsEscape reports whether b must be rendered as a backslash-hex
// escape in the ReadableValues projection: control bytes 0..8 and
// 10..31, except a single trailing NUL terminator.
func needsEscape(value []byte, i int) bool {
	b := value[i]
	if b > 8 && (b < 10 || b > 31) {
		return false
	}
	if b == 0 && i == len(value)-1 {
		return false
	}
	return true
}

// ReadableValues renders each value as base64 when IsBinary, a `\xx`
// escaped form when any byte is in {0..8,10..31} (except a lone
// trailing NUL), and raw UTF-8 otherwise.
func (a *Attribute) ReadableValues() []string {
	out := make([]string, len(a.Values))
	for i, v := range a.Values {
		out[i] = readableValue(v, a.IsBinary)
	}
	return out
}

func readableValue(v []byte, isBinary bool) string {
	if isBinary {
		return base64.StdEncoding.EncodeToString(v)
	}
	escape := false
	for i := range v {
		if needsEscape(v, i) {
			escape = true
			break
		}
	}
	if !escape {
		return string(v)
	}
	var sb strings.Builder
	for i, b := range v {
		if needsEscape(v, i) {
			fmt.Fprintf(&sb, "\\%02X", b)
		} else {
			sb.WriteByte(b)
		}
	}
	return sb.String()
}

// AttributeList is an ordered collection of Attribute with
// case-insensitive lookup by name.
type AttributeList struct {
	attrs []*Attribute
}

// Add appends attr to the list.
func (l *AttributeList) Add(attr *Attribute) {
	l.attrs = append(l.attrs, attr)
}

// All returns the attributes in insertion order.
func (l *AttributeList) All() []*Attribute {
	return l.attrs
}

// Len returns the number of attributes held.
func (l *AttributeList) Len() int {
	return len(l.attrs)
}

// Get returns the first attribute matching name case-insensitively, or
// nil. A list should not contain duplicate names except by caller
// mistake; the first match wins.
func (l *AttributeList) Get(name string) *Attribute {
	for _, a := range l.attrs {
		if strings.EqualFold(a.Name, name) {
			return a
		}
	}
	return nil
}

// GetValues returns the named attribute's string values, or nil.
func (l *AttributeList) GetValues(name string) []string {
	if a := l.Get(name); a != nil {
		return a.StringValues()
	}
	return nil
}

// GetValue returns the named attribute's first string value, or "".
func (l *AttributeList) GetValue(name string) string {
	if a := l.Get(name); a != nil {
		return a.StringValue()
	}
	return ""
}
