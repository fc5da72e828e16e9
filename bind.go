// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// File contains the simple Bind operation.
package ldap

import (
	ber "github.com/go-asn1-ber/asn1-ber"
)

// Bind performs a simple (username/password) bind, RFC 4511 §4.2, using
// the protocol version configured on the Client (3 unless WithVersion
// overrides it).
func (c *Client) Bind(username, password string) error {
	op := ber.Encode(ClassApplication, TypeConstructed, ApplicationBindRequest, nil, "Bind Request")
	op.AppendChild(ber.NewInteger(ClassUniversal, TypePrimitive, TagInteger, int64(c.version), "Version"))
	op.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, username, "User Name"))
	op.AppendChild(ber.NewString(ClassContext, TypePrimitive, 0, password, "Password"))

	return c.doBind(op)
}

// doBind sends a Bind request op and processes the response common to
// every bind mechanism.
func (c *Client) doBind(op *ber.Packet) error {
	seq, err := c.sendOp(op, nil)
	if err != nil {
		return err
	}
	resp, err := c.receiveResponse(seq)
	if err != nil {
		return err
	}
	if resp.op.Tag != ApplicationBindResponse {
		return NewError(ErrorProtocol, errUnexpectedResponse(ApplicationBindResponse, resp.op.Tag))
	}
	if err := c.parseLDAPResult(resp.op); err != nil {
		return err
	}
	c.bound = true
	return nil
}
