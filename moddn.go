// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldap

import (
	ber "github.com/go-asn1-ber/asn1-ber"
)

// ModifyDN performs an RFC 4511 ModifyDNRequest: dn is renamed to
// newRDN. If deleteOldRDN is true the old RDN's values are removed
// from the entry. If newSuperior is non-empty, the entry is also moved
// under that new parent.
func (c *Client) ModifyDN(dn, newRDN string, deleteOldRDN bool, newSuperior string) error {
	op := ber.Encode(ClassApplication, TypeConstructed, ApplicationModifyDNRequest, nil, "Modify DN Request")
	op.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, dn, "DN"))
	op.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, newRDN, "New RDN"))
	op.AppendChild(ber.NewBoolean(ClassUniversal, TypePrimitive, TagBoolean, deleteOldRDN, "Delete Old RDN"))
	if newSuperior != "" {
		op.AppendChild(ber.NewString(ClassContext, TypePrimitive, 0, newSuperior, "New Superior"))
	}

	seq, err := c.sendOp(op, c.requestControls())
	if err != nil {
		return err
	}
	resp, err := c.receiveResponse(seq)
	if err != nil {
		return err
	}
	if resp.op.Tag != ApplicationModifyDNResponse {
		return NewError(ErrorProtocol, errUnexpectedResponse(ApplicationModifyDNResponse, resp.op.Tag))
	}
	return c.parseLDAPResult(resp.op)
}
