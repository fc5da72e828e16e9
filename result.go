// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// File contains the search result model, plus typed
// extractors for the two Active Directory attributes administrative
// tooling cares about most: objectSid and objectGUID.
package ldap

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ResultEntry is one entry of a search response: a Distinguished Name
// plus its attributes. Its lifetime is bound to the owning ResultList.
type ResultEntry struct {
	DN         string
	Attributes AttributeList
}

// ObjectSid decodes the entry's binary "objectSid" attribute into its
// canonical "S-R-I-S-S-..." textual form, per the Microsoft SID binary
// structure (revision byte, sub-authority count byte, 6-byte big-endian
// authority, then that many 4-byte little-endian sub-authorities).
func (e *ResultEntry) ObjectSid() (string, error) {
	attr := e.Attributes.Get("objectSid")
	if attr == nil || len(attr.Values) == 0 {
		return "", fmt.Errorf("ldap: entry %q has no objectSid", e.DN)
	}
	return DecodeSID(attr.Values[0])
}

// ObjectGUID decodes the entry's binary "objectGUID" attribute into a
// uuid.UUID. Active Directory stores the GUID's first three fields
// little-endian ("mixed-endian"), which uuid.FromBytes does not expect,
// so the first 8 bytes are byte-swapped before parsing.
func (e *ResultEntry) ObjectGUID() (uuid.UUID, error) {
	attr := e.Attributes.Get("objectGUID")
	if attr == nil || len(attr.Values) == 0 {
		return uuid.Nil, fmt.Errorf("ldap: entry %q has no objectGUID", e.DN)
	}
	return DecodeGUID(attr.Values[0])
}

// DecodeSID implements the binary-to-text conversion used by ObjectSid,
// exposed standalone so callers decoding a raw value don't need a
// ResultEntry.
func DecodeSID(raw []byte) (string, error) {
	if len(raw) < 8 {
		return "", fmt.Errorf("ldap: objectSid too short (%d bytes)", len(raw))
	}
	revision := raw[0]
	subAuthorityCount := int(raw[1])
	if len(raw) != 8+4*subAuthorityCount {
		return "", fmt.Errorf("ldap: objectSid length mismatch: got %d bytes for %d sub-authorities", len(raw), subAuthorityCount)
	}
	var authority uint64
	for _, b := range raw[2:8] {
		authority = authority<<8 | uint64(b)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "S-%d-%d", revision, authority)
	for i := 0; i < subAuthorityCount; i++ {
		off := 8 + 4*i
		sub := uint32(raw[off]) | uint32(raw[off+1])<<8 | uint32(raw[off+2])<<16 | uint32(raw[off+3])<<24
		fmt.Fprintf(&sb, "-%d", sub)
	}
	return sb.String(), nil
}

// DecodeGUID parses a raw 16-byte mixed-endian Active Directory GUID.
func DecodeGUID(raw []byte) (uuid.UUID, error) {
	if len(raw) != 16 {
		return uuid.Nil, fmt.Errorf("ldap: objectGUID must be 16 bytes, got %d", len(raw))
	}
	swapped := make([]byte, 16)
	swapped[0], swapped[1], swapped[2], swapped[3] = raw[3], raw[2], raw[1], raw[0]
	swapped[4], swapped[5] = raw[5], raw[4]
	swapped[6], swapped[7] = raw[7], raw[6]
	copy(swapped[8:], raw[8:])
	return uuid.FromBytes(swapped)
}

// GUIDToADHex formats u in the 32-character uppercase hex, no dashes,
// mixed-endian form AD uses in wellKnownObjects values.
func GUIDToADHex(u uuid.UUID) string {
	raw := u[:]
	swapped := make([]byte, 16)
	swapped[0], swapped[1], swapped[2], swapped[3] = raw[3], raw[2], raw[1], raw[0]
	swapped[4], swapped[5] = raw[5], raw[4]
	swapped[6], swapped[7] = raw[7], raw[6]
	copy(swapped[8:], raw[8:])
	return strings.ToUpper(fmt.Sprintf("%x", swapped))
}

// ResultList is an ordered collection of ResultEntry populated by a
// single Search call and cleared at the start of each call.
type ResultList struct {
	Entries []*ResultEntry
}

func (r *ResultList) reset() {
	r.Entries = nil
}

func (r *ResultList) append(e *ResultEntry) {
	r.Entries = append(r.Entries, e)
}

// Len returns the number of entries currently held.
func (r *ResultList) Len() int {
	return len(r.Entries)
}
