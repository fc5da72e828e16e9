// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldap

import (
	ber "github.com/go-asn1-ber/asn1-ber"
)

// Logout sends an UnbindRequest and closes the connection. UnbindRequest
// carries no response, so success is defined as the write succeeding;
// the connection is closed either way and a close error is not reported.
func (c *Client) Logout() error {
	if !c.tr.connected() {
		return nil
	}
	op := ber.Encode(ClassApplication, TypePrimitive, ApplicationUnbindRequest, nil, "Unbind Request")
	if _, err := c.sendOp(op, nil); err != nil {
		c.disconnect()
		return err
	}
	c.disconnect()
	return nil
}
