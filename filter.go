// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// File contains the RFC 4515 string filter compiler: CompileFilter
// turns a textual search filter into the Filter CHOICE structure RFC
// 4511 §4.5.1 defines, ready to be appended to a SearchRequest.
package ldap

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	ber "github.com/go-asn1-ber/asn1-ber"
)

// Filter CHOICE tags, RFC 4511 §4.5.1.
const (
	FilterAnd             = 0
	FilterOr              = 1
	FilterNot             = 2
	FilterEqualityMatch    = 3
	FilterSubstrings       = 4
	FilterGreaterOrEqual   = 5
	FilterLessOrEqual      = 6
	FilterPresent          = 7
	FilterApproxMatch      = 8
	FilterExtensibleMatch  = 9
)

const (
	filterSubstringInitial = 0
	filterSubstringAny     = 1
	filterSubstringFinal   = 2
)

// CompileFilter parses an RFC 4515 string filter and returns its BER
// Filter structure. An empty filter string compiles to a bare BER NULL,
// a sentinel a caller can detect to mean "no filter restriction".
func CompileFilter(filter string) (*ber.Packet, error) {
	if filter == "" {
		return ber.Encode(ClassUniversal, TypePrimitive, TagNull, nil, "Empty Filter"), nil
	}
	if !strings.HasPrefix(filter, "(") {
		filter = "(" + filter + ")"
	}
	p := &filterParser{s: filter}
	pkt, err := p.parseFilter()
	if err != nil {
		return nil, NewError(ErrorFilterCompile, err)
	}
	if p.pos != len(p.s) {
		return nil, NewError(ErrorFilterCompile, fmt.Errorf("ldap: unexpected trailing data at offset %d in %q", p.pos, filter))
	}
	return pkt, nil
}

type filterParser struct {
	s   string
	pos int
}

func (p *filterParser) parseFilter() (*ber.Packet, error) {
	if p.pos >= len(p.s) || p.s[p.pos] != '(' {
		return nil, fmt.Errorf("ldap: expected '(' at offset %d", p.pos)
	}
	p.pos++
	pkt, err := p.parseFilterComp()
	if err != nil {
		return nil, err
	}
	if p.pos >= len(p.s) || p.s[p.pos] != ')' {
		return nil, fmt.Errorf("ldap: expected ')' at offset %d", p.pos)
	}
	p.pos++
	return pkt, nil
}

func (p *filterParser) parseFilterComp() (*ber.Packet, error) {
	if p.pos >= len(p.s) {
		return nil, errors.New("ldap: unexpected end of filter")
	}
	switch p.s[p.pos] {
	case '&':
		p.pos++
		return p.parseFilterList(FilterAnd, "And")
	case '|':
		p.pos++
		return p.parseFilterList(FilterOr, "Or")
	case '!':
		p.pos++
		inner, err := p.parseFilter()
		if err != nil {
			return nil, err
		}
		pkt := ber.Encode(ClassContext, TypeConstructed, FilterNot, nil, "Not")
		pkt.AppendChild(inner)
		return pkt, nil
	default:
		return p.parseItem()
	}
}

func (p *filterParser) parseFilterList(tag ber.Tag, desc string) (*ber.Packet, error) {
	pkt := ber.Encode(ClassContext, TypeConstructed, tag, nil, desc)
	for p.pos < len(p.s) && p.s[p.pos] == '(' {
		child, err := p.parseFilter()
		if err != nil {
			return nil, err
		}
		pkt.AppendChild(child)
	}
	return pkt, nil
}

func isFilterOpByte(b byte) bool {
	return b == '=' || b == '~' || b == '<' || b == '>' || b == ':' || b == ')'
}

func (p *filterParser) parseItem() (*ber.Packet, error) {
	start := p.pos
	for p.pos < len(p.s) && !isFilterOpByte(p.s[p.pos]) {
		p.pos++
	}
	attr := p.s[start:p.pos]
	if p.pos >= len(p.s) {
		return nil, errors.New("ldap: unterminated filter item")
	}

	switch p.s[p.pos] {
	case '~':
		p.pos++
		if err := p.expect('='); err != nil {
			return nil, err
		}
		val, err := p.readFilterValue()
		if err != nil {
			return nil, err
		}
		return simpleAVA(FilterApproxMatch, "ApproxMatch", attr, val), nil
	case '<':
		p.pos++
		if err := p.expect('='); err != nil {
			return nil, err
		}
		val, err := p.readFilterValue()
		if err != nil {
			return nil, err
		}
		return simpleAVA(FilterLessOrEqual, "LessOrEqual", attr, val), nil
	case '>':
		p.pos++
		if err := p.expect('='); err != nil {
			return nil, err
		}
		val, err := p.readFilterValue()
		if err != nil {
			return nil, err
		}
		return simpleAVA(FilterGreaterOrEqual, "GreaterOrEqual", attr, val), nil
	case ':':
		return p.parseExtensible(attr)
	case '=':
		p.pos++
		return p.parseEqualitySubstringOrPresent(attr)
	default:
		return nil, fmt.Errorf("ldap: unexpected filter operator %q at offset %d", p.s[p.pos], p.pos)
	}
}

func (p *filterParser) expect(c byte) error {
	if p.pos >= len(p.s) || p.s[p.pos] != c {
		return fmt.Errorf("ldap: expected %q at offset %d", c, p.pos)
	}
	p.pos++
	return nil
}

// escapeWidth returns how many bytes of s starting at a '\' belong to
// that escape: a line fold ('\' + CR, LF, or CRLF) or a hex pair.
func escapeWidth(s string, i int) int {
	if i+1 < len(s) && (s[i+1] == '\r' || s[i+1] == '\n') {
		if s[i+1] == '\r' && i+2 < len(s) && s[i+2] == '\n' {
			return 3
		}
		return 2
	}
	return 3
}

// readFilterValue reads raw filter-value bytes up to the closing ')' of
// the current item, honoring \XX escapes (so an escaped ')' does not
// terminate early), and unescapes the result.
func (p *filterParser) readFilterValue() (string, error) {
	start := p.pos
	for p.pos < len(p.s) && p.s[p.pos] != ')' {
		if p.s[p.pos] == '\\' {
			p.pos += escapeWidth(p.s, p.pos)
			continue
		}
		p.pos++
	}
	if p.pos > len(p.s) {
		return "", errors.New("ldap: unterminated filter value")
	}
	return unescapeFilterValue(p.s[start:p.pos])
}

func (p *filterParser) parseEqualitySubstringOrPresent(attr string) (*ber.Packet, error) {
	start := p.pos
	for p.pos < len(p.s) && p.s[p.pos] != ')' {
		if p.s[p.pos] == '\\' {
			p.pos += escapeWidth(p.s, p.pos)
			continue
		}
		p.pos++
	}
	if p.pos > len(p.s) {
		return nil, errors.New("ldap: unterminated filter value")
	}
	raw := p.s[start:p.pos]

	if raw == "*" {
		return ber.NewString(ClassContext, TypePrimitive, FilterPresent, attr, "Present"), nil
	}
	if strings.Contains(raw, "*") {
		return buildSubstringFilter(attr, raw)
	}
	val, err := unescapeFilterValue(raw)
	if err != nil {
		return nil, err
	}
	return simpleAVA(FilterEqualityMatch, "EqualityMatch", attr, val), nil
}

func simpleAVA(tag ber.Tag, desc, attr, val string) *ber.Packet {
	pkt := ber.Encode(ClassContext, TypeConstructed, tag, nil, desc)
	pkt.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, attr, "Attribute"))
	pkt.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, val, "Value"))
	return pkt
}

// buildSubstringFilter splits raw on unescaped '*' boundaries into
// initial/any/final components, per RFC 4515's substring production.
func buildSubstringFilter(attr, raw string) (*ber.Packet, error) {
	segments, err := splitUnescapedStar(raw)
	if err != nil {
		return nil, err
	}
	pkt := ber.Encode(ClassContext, TypeConstructed, FilterSubstrings, nil, "SubstringFilter")
	pkt.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, attr, "Attribute"))
	seq := ber.Encode(ClassUniversal, TypeConstructed, TagSequence, nil, "Substrings")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		val, err := unescapeFilterValue(seg)
		if err != nil {
			return nil, err
		}
		var tag ber.Tag
		var desc string
		switch {
		case i == 0:
			tag, desc = filterSubstringInitial, "Initial"
		case i == len(segments)-1:
			tag, desc = filterSubstringFinal, "Final"
		default:
			tag, desc = filterSubstringAny, "Any"
		}
		seq.AppendChild(ber.NewString(ClassContext, TypePrimitive, tag, val, desc))
	}
	pkt.AppendChild(seq)
	return pkt, nil
}

func splitUnescapedStar(s string) ([]string, error) {
	var parts []string
	var cur strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			w := escapeWidth(s, i)
			if i+w > len(s) {
				return nil, errors.New("ldap: incomplete filter escape")
			}
			cur.WriteString(s[i : i+w])
			i += w - 1
			continue
		}
		if s[i] == '*' {
			parts = append(parts, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteByte(s[i])
	}
	parts = append(parts, cur.String())
	return parts, nil
}

func (p *filterParser) parseExtensible(attr string) (*ber.Packet, error) {
	dnAttributes := false
	matchingRule := ""
	terminated := false
	for p.pos < len(p.s) && p.s[p.pos] == ':' {
		p.pos++
		if p.pos < len(p.s) && p.s[p.pos] == '=' {
			p.pos++
			terminated = true
			break
		}
		start := p.pos
		for p.pos < len(p.s) && p.s[p.pos] != ':' {
			p.pos++
		}
		token := p.s[start:p.pos]
		if token == "dn" {
			dnAttributes = true
		} else {
			matchingRule = token
		}
	}
	if !terminated {
		return nil, errors.New("ldap: unterminated extensible match")
	}

	val, err := p.readFilterValue()
	if err != nil {
		return nil, err
	}
	pkt := ber.Encode(ClassContext, TypeConstructed, FilterExtensibleMatch, nil, "ExtensibleMatch")
	if matchingRule != "" {
		pkt.AppendChild(ber.NewString(ClassContext, TypePrimitive, 1, matchingRule, "MatchingRule"))
	}
	if attr != "" {
		pkt.AppendChild(ber.NewString(ClassContext, TypePrimitive, 2, attr, "Type"))
	}
	pkt.AppendChild(ber.NewString(ClassContext, TypePrimitive, 3, val, "MatchValue"))
	if dnAttributes {
		pkt.AppendChild(ber.NewBoolean(ClassContext, TypePrimitive, 4, true, "DNAttributes"))
	}
	return pkt, nil
}

// unescapeFilterValue reverses EscapeFilterValue's \XX hex escaping.
// unescapeFilterValue implements decodeTriplet: a '\' followed by two
// hex digits becomes that single byte, and a '\' followed by a CR,
// LF, or CRLF is a folded line break and is skipped entirely.
func unescapeFilterValue(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			sb.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && (s[i+1] == '\r' || s[i+1] == '\n') {
			i++
			if s[i] == '\r' && i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			continue
		}
		if i+2 >= len(s) {
			return "", errors.New("ldap: incomplete filter escape")
		}
		b, err := hex.DecodeString(s[i+1 : i+3])
		if err != nil {
			return "", fmt.Errorf("ldap: invalid filter escape: %w", err)
		}
		sb.Write(b)
		i += 2
	}
	return sb.String(), nil
}

// EscapeFilterValue escapes value's NUL, '(', ')', '\\', and '*' bytes
// as RFC 4515 requires, for safe inclusion in a string filter.
func EscapeFilterValue(value string) string {
	var sb strings.Builder
	for i := 0; i < len(value); i++ {
		switch value[i] {
		case '(', ')', '\\', '*', 0:
			fmt.Fprintf(&sb, "\\%02x", value[i])
		default:
			sb.WriteByte(value[i])
		}
	}
	return sb.String()
}
