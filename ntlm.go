// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// File contains the NTLMSSP SASL bind mechanism, built on
// github.com/Azure/go-ntlmssp's pure-Go message construction. This is
// distinct from the GSSAPI/SSPI Kerberos bind the Non-goals exclude:
// NTLM here never touches a platform credential cache or a KDC, it
// only builds and parses the three NTLMSSP messages by hand.
package ldap

import (
	"fmt"

	ntlmssp "github.com/Azure/go-ntlmssp"
	ber "github.com/go-asn1-ber/asn1-ber"
)

// BindNtlm authenticates using NTLMSSP with the given domain, username
// and password.
func (c *Client) BindNtlm(domain, username, password string) error {
	negotiate, err := ntlmssp.NewNegotiateMessage(domain, "")
	if err != nil {
		return NewError(LDAPResultLocalError, err)
	}

	challenge, err := c.ntlmRoundTrip(negotiate)
	if err != nil {
		return err
	}
	if challenge == nil {
		c.bound = true
		return nil
	}

	authenticate, err := ntlmssp.ProcessChallenge(challenge, username, password)
	if err != nil {
		return NewError(LDAPResultLocalError, err)
	}
	return c.ntlmFinish(authenticate)
}

// BindNtlmUnauthenticated sends an unauthenticated NTLM negotiation,
// for servers configured to allow anonymous-equivalent NTLM binds.
func (c *Client) BindNtlmUnauthenticated(domain, username string) error {
	negotiate, err := ntlmssp.NewNegotiateMessage(domain, "")
	if err != nil {
		return NewError(LDAPResultLocalError, err)
	}
	challenge, err := c.ntlmRoundTrip(negotiate)
	if err != nil {
		return err
	}
	if challenge == nil {
		c.bound = true
		return nil
	}
	authenticate, err := ntlmssp.ProcessChallenge(challenge, username, "")
	if err != nil {
		return NewError(LDAPResultLocalError, err)
	}
	return c.ntlmFinish(authenticate)
}

// ntlmRoundTrip sends an NTLMSSP message as SASL credentials and
// returns the server's challenge bytes, or nil if the server answered
// with success directly (no second leg required).
func (c *Client) ntlmRoundTrip(msg []byte) ([]byte, error) {
	op := ber.Encode(ClassApplication, TypeConstructed, ApplicationBindRequest, nil, "Bind Request")
	op.AppendChild(ber.NewInteger(ClassUniversal, TypePrimitive, TagInteger, int64(c.version), "Version"))
	op.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, "", "User Name"))

	sasl := ber.Encode(ClassContext, TypeConstructed, 3, nil, "SASL Authentication")
	sasl.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, "NTLM", "Mechanism"))
	sasl.AppendChild(ber.Encode(ClassUniversal, TypePrimitive, TagOctetString, string(msg), "Credentials"))
	op.AppendChild(sasl)

	seq, err := c.sendOp(op, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.receiveResponse(seq)
	if err != nil {
		return nil, err
	}
	if resp.op.Tag != ApplicationBindResponse {
		return nil, NewError(ErrorProtocol, errUnexpectedResponse(ApplicationBindResponse, resp.op.Tag))
	}
	if err := c.parseLDAPResult(resp.op); err != nil {
		return nil, err
	}
	if c.resultCode == LDAPResultSuccess {
		return nil, nil
	}
	if c.resultCode != LDAPResultSaslBindInProgress {
		return nil, NewError(ErrorProtocol, fmt.Errorf("ldap: server did not request an NTLM challenge"))
	}
	creds := saslCreds(resp.op)
	if creds == "" {
		return nil, NewError(ErrorProtocol, fmt.Errorf("ldap: NTLM challenge missing serverSaslCreds"))
	}
	return []byte(creds), nil
}

// ntlmFinish sends the final NTLMSSP authenticate message and expects
// a success response.
func (c *Client) ntlmFinish(msg []byte) error {
	op := ber.Encode(ClassApplication, TypeConstructed, ApplicationBindRequest, nil, "Bind Request")
	op.AppendChild(ber.NewInteger(ClassUniversal, TypePrimitive, TagInteger, int64(c.version), "Version"))
	op.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, "", "User Name"))

	sasl := ber.Encode(ClassContext, TypeConstructed, 3, nil, "SASL Authentication")
	sasl.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, "NTLM", "Mechanism"))
	sasl.AppendChild(ber.Encode(ClassUniversal, TypePrimitive, TagOctetString, string(msg), "Credentials"))
	op.AppendChild(sasl)

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
