// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldap

import (
	"errors"

	ber "github.com/go-asn1-ber/asn1-ber"
)

// Compare performs an RFC 4511 CompareRequest, testing whether dn's
// attribute holds value. Unlike the other operations, compareTrue (6)
// and compareFalse (5) are normal outcomes, not errors, so Compare
// parses the result itself instead of going through parseLDAPResult.
// The boolean result only reflects resultCode == success (0);
// compareTrue is reported as (false, nil) rather than (true, nil).
func (c *Client) Compare(dn, attribute, value string) (bool, error) {
	op := ber.Encode(ClassApplication, TypeConstructed, ApplicationCompareRequest, nil, "Compare Request")
	op.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, dn, "DN"))

	ava := ber.Encode(ClassUniversal, TypeConstructed, TagSequence, nil, "AVA")
	ava.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, attribute, "Attribute"))
	ava.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, value, "Value"))
	op.AppendChild(ava)

	seq, err := c.sendOp(op, nil)
	if err != nil {
		return false, err
	}
	resp, err := c.receiveResponse(seq)
	if err != nil {
		return false, err
	}
	if resp.op.Tag != ApplicationCompareResponse {
		return false, NewError(ErrorProtocol, errUnexpectedResponse(ApplicationCompareResponse, resp.op.Tag))
	}
	if len(resp.op.Children) < 3 {
		return false, NewError(ErrorProtocol, errors.New("ldap: malformed CompareResponse"))
	}

	c.resultCode = int(pInt64(resp.op.Children[0]))
	c.responseDn = pString(resp.op.Children[1])
	c.resultString = pString(resp.op.Children[2])
	if c.resultString == "" {
		c.resultString = resultCodeName(c.resultCode)
	}

	switch c.resultCode {
	case LDAPResultSuccess:
		return true, nil
	case LDAPResultCompareTrue, LDAPResultCompareFalse:
		return false, nil
	default:
		return false, NewError(c.resultCode, errors.New(c.resultString))
	}
}
