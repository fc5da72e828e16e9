// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldap

import (
	ber "github.com/go-asn1-ber/asn1-ber"
)

// Modify operation codes, RFC 4511 §4.6.
const (
	ModifyAdd     = 0
	ModifyDelete  = 1
	ModifyReplace = 2
)

// ModifyAttribute is one change entry of a Modify request: an
// operation applied to a named attribute's values (empty Values means
// "delete the entire attribute" when Operation is ModifyDelete).
type ModifyAttribute struct {
	Operation int
	Name      string
	Values    [][]byte
}

// Modify performs an RFC 4511 ModifyRequest against dn.
func (c *Client) Modify(dn string, changes []ModifyAttribute) error {
	op := ber.Encode(ClassApplication, TypeConstructed, ApplicationModifyRequest, nil, "Modify Request")
	op.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, dn, "DN"))

	changesPkt := ber.Encode(ClassUniversal, TypeConstructed, TagSequence, nil, "Changes")
	for _, ch := range changes {
		changePkt := ber.Encode(ClassUniversal, TypeConstructed, TagSequence, nil, "Change")
		changePkt.AppendChild(ber.NewInteger(ClassUniversal, TypePrimitive, TagEnumerated, int64(ch.Operation), "Operation"))

		attr := &Attribute{Name: ch.Name, Values: ch.Values}
		changePkt.AppendChild(encodeAttributeForAdd(attr))
		changesPkt.AppendChild(changePkt)
	}
	op.AppendChild(changesPkt)

	seq, err := c.sendOp(op, c.requestControls())
	if err != nil {
		return err
	}
	resp, err := c.receiveResponse(seq)
	if err != nil {
		return err
	}
	if resp.op.Tag != ApplicationModifyResponse {
		return NewError(ErrorProtocol, errUnexpectedResponse(ApplicationModifyResponse, resp.op.Tag))
	}
	return c.parseLDAPResult(resp.op)
}
