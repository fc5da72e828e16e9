// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// File contains the DIGEST-MD5 SASL bind mechanism, RFC 2831.
package ldap

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	ber "github.com/go-asn1-ber/asn1-ber"
)

// digestChallenge is a parsed RFC 2831 digest-challenge. Unknown
// directives are ignored; parsing is whitespace-tolerant and does not
// depend on directive order, since the RFC does not constrain it.
type digestChallenge struct {
	realm     string
	nonce     string
	qop       string
	charset   string
	algorithm string
}

// parseDigestChallenge parses a comma-separated list of key=value (or
// key="value") directives, respecting quoted commas.
func parseDigestChallenge(s string) digestChallenge {
	ch := digestChallenge{qop: "auth"}
	for _, kv := range splitDirectives(s) {
		eq := strings.IndexByte(kv, '=')
		if eq < 0 {
			continue
		}
		key := strings.TrimSpace(kv[:eq])
		val := strings.TrimSpace(kv[eq+1:])
		val = strings.Trim(val, `"`)
		switch strings.ToLower(key) {
		case "realm":
			ch.realm = val
		case "nonce":
			ch.nonce = val
		case "qop":
			// qop-options is itself a comma-separated list; "auth" is
			// the only quality of protection this client implements.
			for _, opt := range strings.Split(val, ",") {
				if strings.TrimSpace(opt) == "auth" {
					ch.qop = "auth"
				}
			}
		case "charset":
			ch.charset = val
		case "algorithm":
			ch.algorithm = val
		}
	}
	return ch
}

// splitDirectives splits s on unquoted commas.
func splitDirectives(s string) []string {
	var parts []string
	var cur strings.Builder
	inQuotes := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			cur.WriteByte(c)
		case c == ',' && !inQuotes:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	parts = append(parts, cur.String())
	return parts
}

func md5hex(parts ...string) string {
	h := md5.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte(":"))
		}
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func md5sum(b []byte) []byte {
	sum := md5.Sum(b)
	return sum[:]
}

// randomCnonce returns a 16-hex-character client nonce.
func randomCnonce() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// digestResponse computes RFC 2831's "response" field for the given
// challenge, using digest-uri "ldap/<host>".
func digestResponse(username, password, host string, ch digestChallenge, cnonce string) string {
	digestURI := "ldap/" + host
	nc := "00000001"

	ha1Input := md5sum([]byte(username + ":" + ch.realm + ":" + password))
	ha1 := md5hex(string(ha1Input), ch.nonce, cnonce)
	ha2 := md5hex("AUTHENTICATE:" + digestURI)
	return md5hex(ha1, ch.nonce, nc, cnonce, ch.qop, ha2)
}

// BindSaslDigestMd5 authenticates with the DIGEST-MD5 SASL mechanism,
// RFC 2831: the server's challenge is answered with a response computed
// from username, password, and the connection's target host.
func (c *Client) BindSaslDigestMd5(username, password string) error {
	op := ber.Encode(ClassApplication, TypeConstructed, ApplicationBindRequest, nil, "Bind Request")
	op.AppendChild(ber.NewInteger(ClassUniversal, TypePrimitive, TagInteger, int64(c.version), "Version"))
	op.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, "", "User Name"))

	sasl := ber.Encode(ClassContext, TypeConstructed, 3, nil, "SASL Authentication")
	sasl.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, "DIGEST-MD5", "Mechanism"))
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
	if c.resultCode != LDAPResultSaslBindInProgress {
		return NewError(ErrorProtocol, fmt.Errorf("ldap: server did not request a DIGEST-MD5 challenge"))
	}

	challenge := saslCreds(resp.op)
	if challenge == "" {
		return NewError(ErrorProtocol, fmt.Errorf("ldap: DIGEST-MD5 challenge missing serverSaslCreds"))
	}
	ch := parseDigestChallenge(challenge)
	if ch.nonce == "" {
		return NewError(ErrorProtocol, fmt.Errorf("ldap: DIGEST-MD5 challenge missing nonce"))
	}

	cnonce, err := randomCnonce()
	if err != nil {
		return NewError(LDAPResultLocalError, err)
	}
	response := digestResponse(username, password, c.host, ch, cnonce)

	var credParts []string
	credParts = append(credParts, fmt.Sprintf("username=%q", username))
	if ch.realm != "" {
		credParts = append(credParts, fmt.Sprintf("realm=%q", ch.realm))
	}
	credParts = append(credParts, fmt.Sprintf("nonce=%q", ch.nonce))
	credParts = append(credParts, fmt.Sprintf("cnonce=%q", cnonce))
	credParts = append(credParts, "nc=00000001")
	credParts = append(credParts, fmt.Sprintf("qop=%s", ch.qop))
	credParts = append(credParts, fmt.Sprintf("digest-uri=%q", "ldap/"+c.host))
	credParts = append(credParts, fmt.Sprintf("response=%s", response))
	credParts = append(credParts, "charset=utf-8")
	credentials := strings.Join(credParts, ",")

	op2 := ber.Encode(ClassApplication, TypeConstructed, ApplicationBindRequest, nil, "Bind Request")
	op2.AppendChild(ber.NewInteger(ClassUniversal, TypePrimitive, TagInteger, int64(c.version), "Version"))
	op2.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, "", "User Name"))

	sasl2 := ber.Encode(ClassContext, TypeConstructed, 3, nil, "SASL Authentication")
	sasl2.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, "DIGEST-MD5", "Mechanism"))
	sasl2.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, credentials, "Credentials"))
	op2.AppendChild(sasl2)

	seq2, err := c.sendOp(op2, nil)
	if err != nil {
		return err
	}
	resp2, err := c.receiveResponse(seq2)
	if err != nil {
		return err
	}
	if resp2.op.Tag != ApplicationBindResponse {
		return NewError(ErrorProtocol, errUnexpectedResponse(ApplicationBindResponse, resp2.op.Tag))
	}
	if err := c.parseLDAPResult(resp2.op); err != nil {
		return err
	}
	c.bound = true
	return nil
}

// saslCreds extracts a BindResponse's optional serverSaslCreds [7]
// OCTET STRING, returning "" if absent.
func saslCreds(op *ber.Packet) string {
	for _, child := range op.Children {
		if child.Tag == 7 {
			return pString(child)
		}
	}
	return ""
}
