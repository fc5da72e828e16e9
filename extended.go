// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldap

import (
	ber "github.com/go-asn1-ber/asn1-ber"
)

// Extended performs an RFC 4511 ExtendedRequest identified by
// requestOID, with an optional requestValue, and returns the server's
// responseName and responseValue (either may be empty/nil if the
// server didn't send one).
func (c *Client) Extended(requestOID string, requestValue []byte) (string, []byte, error) {
	op := ber.Encode(ClassApplication, TypeConstructed, ApplicationExtendedRequest, nil, "Extended Request")
	op.AppendChild(ber.NewString(ClassContext, TypePrimitive, 0, requestOID, "Request Name"))
	if requestValue != nil {
		op.AppendChild(ber.Encode(ClassContext, TypePrimitive, 1, string(requestValue), "Request Value"))
	}

	seq, err := c.sendOp(op, nil)
	if err != nil {
		return "", nil, err
	}
	resp, err := c.receiveResponse(seq)
	if err != nil {
		return "", nil, err
	}
	if resp.op.Tag != ApplicationExtendedResponse {
		return "", nil, NewError(ErrorProtocol, errUnexpectedResponse(ApplicationExtendedResponse, resp.op.Tag))
	}
	if err := c.parseLDAPResult(resp.op); err != nil {
		return "", nil, err
	}

	c.extName = ""
	c.extValue = nil
	for _, child := range resp.op.Children {
		if child.ClassType != ClassContext {
			continue
		}
		switch child.Tag {
		case 10:
			c.extName = pString(child)
		case 11:
			c.extValue = pBytes(child)
		}
	}
	return c.extName, c.extValue, nil
}
