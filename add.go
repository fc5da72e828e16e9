// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// File contains Add and the Active Directory-specific AddComputer
// convenience wrapper.
package ldap

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf16"

	ber "github.com/go-asn1-ber/asn1-ber"
)

// Add performs an RFC 4511 AddRequest, creating dn with the given
// attributes.
func (c *Client) Add(dn string, attributes []*Attribute) error {
	op := ber.Encode(ClassApplication, TypeConstructed, ApplicationAddRequest, nil, "Add Request")
	op.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, dn, "DN"))

	attrsPkt := ber.Encode(ClassUniversal, TypeConstructed, TagSequence, nil, "Attributes")
	for _, attr := range attributes {
		attrsPkt.AppendChild(encodeAttributeForAdd(attr))
	}
	op.AppendChild(attrsPkt)

	seq, err := c.sendOp(op, c.requestControls())
	if err != nil {
		return err
	}
	resp, err := c.receiveResponse(seq)
	if err != nil {
		return err
	}
	if resp.op.Tag != ApplicationAddResponse {
		return NewError(ErrorProtocol, errUnexpectedResponse(ApplicationAddResponse, resp.op.Tag))
	}
	return c.parseLDAPResult(resp.op)
}

func encodeAttributeForAdd(attr *Attribute) *ber.Packet {
	pkt := ber.Encode(ClassUniversal, TypeConstructed, TagSequence, nil, "Attribute")
	pkt.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, attr.Name, "Type"))
	values := ber.Encode(ClassUniversal, TypeConstructed, TagSet, nil, "Values")
	for _, v := range attr.Values {
		values.AppendChild(ber.Encode(ClassUniversal, TypePrimitive, TagOctetString, string(v), "Value"))
	}
	pkt.AppendChild(values)
	return pkt
}

func attrWithValue(name, value string) *Attribute {
	a := NewAttribute(name)
	a.AddValue([]byte(value))
	return a
}

func attrWithValues(name string, values []string) *Attribute {
	a := NewAttribute(name)
	for _, v := range values {
		a.AddValue([]byte(v))
	}
	return a
}

// workstationTrustAccount is the userAccountControl value AD expects
// for a plain computer account (ADS_UF_WORKSTATION_TRUST_ACCOUNT).
const workstationTrustAccount = "4096"

// AddComputer creates an Active Directory computer account named
// computerName under ouDN, setting its initial password. If an object
// already exists at the computer's DN: when deleteIfPresent is true it
// is deleted first and creation proceeds; otherwise AddComputer treats
// this as success rather than an error and returns (true, <descriptive
// message>, nil) without touching the existing object. A freshly
// created account returns (false, <descriptive message>, nil).
func (c *Client) AddComputer(computerName, ouDN, password string, deleteIfPresent bool) (bool, string, error) {
	dn := fmt.Sprintf("CN=%s,%s", computerName, ouDN)

	if _, err := c.SearchObject(dn, []string{"cn"}); err == nil {
		if !deleteIfPresent {
			return true, fmt.Sprintf("computer account %q already exists", computerName), nil
		}
		if err := c.Delete(dn); err != nil {
			return false, "", err
		}
	}

	attrs := []*Attribute{
		attrWithValue("cn", computerName),
		attrWithValues("objectClass", []string{"top", "person", "organizationalPerson", "user", "computer"}),
		attrWithValue("sAMAccountName", strings.ToUpper(computerName)+"$"),
		attrWithValue("userAccountControl", workstationTrustAccount),
	}
	pwdAttr := NewAttribute("unicodePwd")
	pwdAttr.AddValue(utf16LEQuoted(password))
	attrs = append(attrs, pwdAttr)

	if err := c.Add(dn, attrs); err != nil {
		return false, "", err
	}
	return false, fmt.Sprintf("computer account %q created", computerName), nil
}

// utf16LEQuoted implements the quoted UTF-16LE encoding Active
// Directory requires for the unicodePwd attribute.
func utf16LEQuoted(password string) []byte {
	quoted := "\"" + password + "\""
	units := utf16.Encode([]rune(quoted))
	buf := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(buf[i*2:], u)
	}
	return buf
}
