// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// File contains the BER/ASN.1 tag table and the small set of primitive
// encode/decode helpers (length, integer, OID) the wire framing in
// message.go needs before it can hand a complete buffer to
// go-asn1-ber/asn1-ber for structural decoding.
package ldap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	ber "github.com/go-asn1-ber/asn1-ber"
)

// BER class and constructed/primitive type aliases, re-exported so
// other files in this package don't need to import asn1-ber directly
// just to call ber.Encode/ber.New*.
const (
	ClassUniversal   = ber.ClassUniversal
	ClassApplication = ber.ClassApplication
	ClassContext     = ber.ClassContext
	ClassPrivate     = ber.ClassPrivate

	TypePrimitive   = ber.TypePrimitive
	TypeConstructed = ber.TypeConstructed
)

// Universal tags, RFC 4511 / X.690.
const (
	TagBoolean     = ber.TagBoolean
	TagInteger     = ber.TagInteger
	TagOctetString = ber.TagOctetString
	TagNull        = ber.TagNULL
	TagObjectId    = ber.TagObjectIdentifier
	TagEnumerated  = ber.TagEnumerated
	TagSequence    = ber.TagSequence
	TagSet         = ber.TagSet
)

// LDAP application-class operation numbers (the "tag" argument to
// ber.Encode(ber.ClassApplication, ...)); combined with the class and
// constructed/primitive bits by the BER library, these produce exactly
// the full tag bytes. A decoded packet's Tag holds this number, so each
// operation checks its response against these constants.
const (
	ApplicationBindRequest           = 0
	ApplicationBindResponse          = 1
	ApplicationUnbindRequest         = 2
	ApplicationSearchRequest         = 3
	ApplicationSearchResultEntry     = 4
	ApplicationSearchResultDone      = 5
	ApplicationModifyRequest         = 6
	ApplicationModifyResponse        = 7
	ApplicationAddRequest            = 8
	ApplicationAddResponse           = 9
	ApplicationDelRequest            = 10
	ApplicationDelResponse           = 11
	ApplicationModifyDNRequest       = 12
	ApplicationModifyDNResponse      = 13
	ApplicationCompareRequest        = 14
	ApplicationCompareResponse       = 15
	ApplicationAbandonRequest        = 16
	ApplicationSearchResultReference = 19
	ApplicationExtendedRequest       = 23
	ApplicationExtendedResponse      = 24
)

// Full tag bytes, as they appear on the wire with the class and
// constructed/primitive bits included. go-asn1-ber's packet.Tag holds
// only the tag number (the Application* constants above), not these
// bytes.
const (
	TagBindRequest            = 0x60
	TagBindResponse           = 0x61
	TagUnbindRequest          = 0x42
	TagSearchRequest          = 0x63
	TagSearchResultEntry      = 0x64
	TagSearchResultDone       = 0x65
	TagSearchResultReference  = 0x73
	TagModifyRequest          = 0x66
	TagModifyResponse         = 0x67
	TagAddRequest             = 0x68
	TagAddResponse            = 0x69
	TagDelRequest             = 0x4A
	TagDelResponse            = 0x6B
	TagModifyDNRequest        = 0x6C
	TagModifyDNResponse       = 0x6D
	TagCompareRequest         = 0x6E
	TagCompareResponse        = 0x6F
	TagAbandonRequestWire     = 0x70
	TagExtendedRequest        = 0x77
	TagExtendedResponse       = 0x78
	TagControls               = 0xA0
)

// newEnvelope builds the outer `SEQUENCE { INTEGER seq, ... }` every LDAP
// message is wrapped in before being sent.
func newEnvelope(seq int64) *ber.Packet {
	envelope := ber.Encode(ber.ClassUniversal, ber.TypeConstructed, ber.TagSequence, nil, "LDAP Message")
	envelope.AppendChild(ber.NewInteger(ber.ClassUniversal, ber.TypePrimitive, ber.TagInteger, seq, "MessageID"))
	return envelope
}

// encodeLength implements BER's definite-length encoding: short form for
// n<128, long form (0x80|k, then k big-endian bytes) otherwise.
func encodeLength(n int) []byte {
	if n < 0 {
		panic("ldap: negative length")
	}
	if n < 128 {
		return []byte{byte(n)}
	}
	var raw []byte
	for v := n; v > 0; v >>= 8 {
		raw = append([]byte{byte(v)}, raw...)
	}
	return append([]byte{0x80 | byte(len(raw))}, raw...)
}

// decodeLength reads one length field starting at data[0], returning the
// decoded length and the number of bytes the length field itself occupied.
func decodeLength(data []byte) (length int, consumed int, err error) {
	if len(data) == 0 {
		return 0, 0, errors.New("ldap: truncated length")
	}
	first := data[0]
	if first&0x80 == 0 {
		return int(first), 1, nil
	}
	n := int(first &^ 0x80)
	if n == 0 || n > 4 {
		return 0, 0, fmt.Errorf("ldap: unsupported long-form length of %d bytes", n)
	}
	if len(data) < 1+n {
		return 0, 0, errors.New("ldap: truncated long-form length")
	}
	for _, b := range data[1 : 1+n] {
		length = length<<8 | int(b)
	}
	return length, 1 + n, nil
}

// encodeInteger implements BER's two's-complement, minimum
// length, big-endian integer encoding.
func encodeInteger(v int64) []byte {
	if v >= -128 && v <= 127 {
		return []byte{byte(v)}
	}
	var out []byte
	neg := v < 0
	for {
		out = append([]byte{byte(v)}, out...)
		v >>= 8
		if neg && v == -1 && out[0]&0x80 != 0 {
			break
		}
		if !neg && v == 0 && out[0]&0x80 == 0 {
			break
		}
	}
	return out
}

// decodeInteger reverses encodeInteger: big-endian, two's-complement,
// with sign extension driven by bit 7 of the first byte.
func decodeInteger(data []byte) int64 {
	if len(data) == 0 {
		return 0
	}
	var v int64
	if data[0]&0x80 != 0 {
		v = -1
	}
	for _, b := range data {
		v = v<<8 | int64(b)
	}
	return v
}

// encodeOID implements BER's base-128 subidentifier encoding
// with the first two subidentifiers combined as first*40+second.
func encodeOID(oid string) ([]byte, error) {
	parts := strings.Split(oid, ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("ldap: malformed OID %q", oid)
	}
	nums := make([]uint64, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ldap: malformed OID %q: %w", oid, err)
		}
		nums[i] = n
	}
	var out []byte
	out = append(out, encodeSubidentifier(nums[0]*40+nums[1])...)
	for _, n := range nums[2:] {
		out = append(out, encodeSubidentifier(n)...)
	}
	return out, nil
}

func encodeSubidentifier(n uint64) []byte {
	if n == 0 {
		return []byte{0}
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte(n & 0x7f)}, digits...)
		n >>= 7
	}
	for i := 0; i < len(digits)-1; i++ {
		digits[i] |= 0x80
	}
	return digits
}

// decodeOID reverses encodeOID, rendering the result in dotted-decimal.
func decodeOID(data []byte) string {
	var subs []uint64
	var cur uint64
	for _, b := range data {
		cur = cur<<7 | uint64(b&0x7f)
		if b&0x80 == 0 {
			subs = append(subs, cur)
			cur = 0
		}
	}
	if len(subs) == 0 {
		return ""
	}
	out := make([]string, 0, len(subs)+1)
	out = append(out, strconv.FormatUint(subs[0]/40, 10), strconv.FormatUint(subs[0]%40, 10))
	for _, s := range subs[1:] {
		out = append(out, strconv.FormatUint(s, 10))
	}
	return strings.Join(out, ".")
}
