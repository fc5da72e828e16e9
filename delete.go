// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldap

import (
	ber "github.com/go-asn1-ber/asn1-ber"
)

// Delete performs an RFC 4511 DelRequest, which carries no body beyond
// the DN itself and so is encoded as a primitive OCTET STRING under
// the DelRequest application tag rather than a constructed SEQUENCE.
func (c *Client) Delete(dn string) error {
	op := ber.Encode(ClassApplication, TypePrimitive, ApplicationDelRequest, dn, "Del Request")

	seq, err := c.sendOp(op, c.requestControls())
	if err != nil {
		return err
	}
	resp, err := c.receiveResponse(seq)
	if err != nil {
		return err
	}
	if resp.op.Tag != ApplicationDelResponse {
		return NewError(ErrorProtocol, errUnexpectedResponse(ApplicationDelResponse, resp.op.Tag))
	}
	return c.parseLDAPResult(resp.op)
}
