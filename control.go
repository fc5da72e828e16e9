// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// File contains the generic Controls envelope plus the two controls
// this client knows how to build and read: RFC 2696 paged results, and
// Active Directory's Manage DSA IT control.
package ldap

import (
	"errors"
	"fmt"

	ber "github.com/go-asn1-ber/asn1-ber"
)

const (
	controlPagingOID      = "1.2.840.113556.1.4.319"
	controlManageDsaITOID = "2.16.840.1.113730.3.4.2"
)

// encodeControls wraps one or more already-built Control SEQUENCEs in
// the `[0] Controls` envelope that rides alongside a protocolOp inside
// an LDAPMessage.
func encodeControls(ctrls ...*ber.Packet) *ber.Packet {
	envelope := ber.Encode(ClassContext, TypeConstructed, 0, nil, "Controls")
	for _, c := range ctrls {
		envelope.AppendChild(c)
	}
	return envelope
}

// buildControl constructs one Control SEQUENCE { OCTSTR oid, BOOLEAN
// criticality OPTIONAL, OCTSTR controlValue OPTIONAL }.
func buildControl(oid string, critical bool, value []byte) *ber.Packet {
	pkt := ber.Encode(ClassUniversal, TypeConstructed, TagSequence, nil, "Control")
	pkt.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, oid, "Control Type"))
	if critical {
		pkt.AppendChild(ber.NewBoolean(ClassUniversal, TypePrimitive, TagBoolean, true, "Criticality"))
	}
	if value != nil {
		pkt.AppendChild(ber.Encode(ClassUniversal, TypePrimitive, TagOctetString, string(value), "Control Value"))
	}
	return pkt
}

// buildPagingControl builds the RFC 2696 paged-results control, whose
// controlValue is itself a BER-encoded SEQUENCE { INTEGER size, OCTSTR cookie }.
func buildPagingControl(pageSize uint32, cookie []byte) *ber.Packet {
	value := ber.Encode(ClassUniversal, TypeConstructed, TagSequence, nil, "Paged Results")
	value.AppendChild(ber.NewInteger(ClassUniversal, TypePrimitive, TagInteger, int64(pageSize), "Page Size"))
	value.AppendChild(ber.Encode(ClassUniversal, TypePrimitive, TagOctetString, string(cookie), "Cookie"))
	return buildControl(controlPagingOID, false, value.Bytes())
}

// buildManageDsaITControl builds the Manage DSA IT control (no value),
// used to operate on referral/alias objects themselves instead of
// following them.
func buildManageDsaITControl() *ber.Packet {
	return buildControl(controlManageDsaITOID, true, nil)
}

// requestControls builds the `[0] Controls` envelope for an outgoing
// request, prepending the Manage DSA IT control when the Client is so
// configured, and returns nil if the result would be empty.
func (c *Client) requestControls(extra ...*ber.Packet) *ber.Packet {
	var ctrls []*ber.Packet
	if c.manageDsaIT {
		ctrls = append(ctrls, buildManageDsaITControl())
	}
	ctrls = append(ctrls, extra...)
	if len(ctrls) == 0 {
		return nil
	}
	return encodeControls(ctrls...)
}

// findControl scans a decoded `[0] Controls` packet for the control
// matching oid, returning its Control SEQUENCE or nil.
func findControl(controls *ber.Packet, oid string) *ber.Packet {
	if controls == nil {
		return nil
	}
	for _, ctrl := range controls.Children {
		if len(ctrl.Children) == 0 {
			continue
		}
		if pString(ctrl.Children[0]) == oid {
			return ctrl
		}
	}
	return nil
}

// controlValueBytes returns a Control SEQUENCE's controlValue bytes,
// accounting for the optional criticality BOOLEAN shifting its index.
func controlValueBytes(ctrl *ber.Packet) []byte {
	for _, child := range ctrl.Children[1:] {
		if child.Tag == TagOctetString && child.ClassType == ClassUniversal {
			return pBytes(child)
		}
	}
	return nil
}

// decodePagingControl extracts the page size and cookie from a
// received paged-results control.
func decodePagingControl(ctrl *ber.Packet) (uint32, []byte, error) {
	raw := controlValueBytes(ctrl)
	if raw == nil {
		return 0, nil, errors.New("ldap: paging control missing value")
	}
	value := ber.DecodePacket(raw)
	if value == nil || len(value.Children) < 2 {
		return 0, nil, fmt.Errorf("ldap: malformed paging control value")
	}
	size := uint32(pInt64(value.Children[0]))
	cookie := pBytes(value.Children[1])
	return size, cookie, nil
}
