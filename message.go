// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// File contains packet framing, response decoding, and LDAPResult
// parsing.
package ldap

import (
	"errors"
	"fmt"

	ber "github.com/go-asn1-ber/asn1-ber"
)

// pInt64 extracts an integer value from a decoded packet, tolerating
// whichever concrete numeric type the BER library chose to store.
func pInt64(p *ber.Packet) int64 {
	switch v := p.Value.(type) {
	case int64:
		return v
	case uint64:
		return int64(v)
	case int:
		return int64(v)
	default:
		return decodeInteger(p.Data.Bytes())
	}
}

// pString extracts a string value from a decoded packet, falling back
// to the raw content bytes if the library left Value unset.
func pString(p *ber.Packet) string {
	if s, ok := p.Value.(string); ok {
		return s
	}
	return string(p.Data.Bytes())
}

// pBytes returns a packet's raw content bytes.
func pBytes(p *ber.Packet) []byte {
	return p.Data.Bytes()
}

// sendOp wraps op (and, if non-nil, controls) in the SEQUENCE{ INTEGER
// seq, op, controls? } envelope, writes it, and returns the seq used.
func (c *Client) sendOp(op *ber.Packet, controls *ber.Packet) (int64, error) {
	c.seq++
	seq := c.seq
	envelope := newEnvelope(seq)
	envelope.AppendChild(op)
	if controls != nil {
		envelope.AppendChild(controls)
	}
	if c.Debug {
		ber.WritePacket(c.debugWriter(), envelope)
	}
	if err := c.tr.writeAll(envelope.Bytes()); err != nil {
		c.disconnect()
		return 0, NewError(ErrorNetwork, err)
	}
	return seq, nil
}

// receiveFrame reads one tag byte (must be 0x30), one length byte
// (and, if long-form, its continuation bytes), then exactly that many
// content bytes. Returns the complete raw frame (tag+length+content).
func (c *Client) receiveFrame() ([]byte, error) {
	tagByte, err := c.tr.readExact(1)
	if err != nil {
		c.disconnect()
		return nil, NewError(ErrorNetwork, err)
	}
	if tagByte[0] != 0x30 {
		c.disconnect()
		return nil, NewError(ErrorProtocol, fmt.Errorf("ldap: expected SEQUENCE tag 0x30, got 0x%02x", tagByte[0]))
	}

	lengthByte, err := c.tr.readExact(1)
	if err != nil {
		c.disconnect()
		return nil, NewError(ErrorNetwork, err)
	}

	var lengthBytes []byte
	declaredLen, consumed, err := decodeLength(lengthByte)
	if err != nil {
		// Long form: lengthByte[0] told us how many more length bytes
		// follow; read them and redo the computation.
		if lengthByte[0]&0x80 == 0 {
			c.disconnect()
			return nil, NewError(ErrorProtocol, err)
		}
		n := int(lengthByte[0] &^ 0x80)
		if n == 0 || n > 4 {
			c.disconnect()
			return nil, NewError(ErrorProtocol, fmt.Errorf("ldap: unsupported long-form length of %d bytes", n))
		}
		more, err := c.tr.readExact(n)
		if err != nil {
			c.disconnect()
			return nil, NewError(ErrorNetwork, err)
		}
		lengthBytes = append(lengthBytes, lengthByte[0])
		lengthBytes = append(lengthBytes, more...)
		declaredLen, consumed, err = decodeLength(lengthBytes)
		if err != nil {
			c.disconnect()
			return nil, NewError(ErrorProtocol, err)
		}
		_ = consumed
	} else {
		lengthBytes = lengthByte
	}

	content, err := c.tr.readExact(declaredLen)
	if err != nil {
		c.disconnect()
		return nil, NewError(ErrorNetwork, err)
	}

	frame := make([]byte, 0, 1+len(lengthBytes)+len(content))
	frame = append(frame, tagByte[0])
	frame = append(frame, lengthBytes...)
	frame = append(frame, content...)
	return frame, nil
}

// response is one decoded LDAPMessage: the protocolOp packet (its Tag
// is the response code), and the message-level controls, if any.
type response struct {
	op       *ber.Packet
	controls *ber.Packet
}

// receiveResponse reads one framed response and verifies it matches
// wantSeq.
func (c *Client) receiveResponse(wantSeq int64) (*response, error) {
	frame, err := c.receiveFrame()
	if err != nil {
		return nil, err
	}
	c.fullResult = frame

	envelope := ber.DecodePacket(frame)
	if envelope == nil || len(envelope.Children) < 2 {
		c.disconnect()
		return nil, NewError(ErrorProtocol, errors.New("ldap: malformed LDAPMessage"))
	}
	if c.Debug {
		ber.WritePacket(c.debugWriter(), envelope)
	}

	gotSeq := pInt64(envelope.Children[0])
	if gotSeq != wantSeq {
		c.disconnect()
		return nil, NewError(ErrorProtocol, fmt.Errorf("ldap: response message id %d does not match request %d", gotSeq, wantSeq))
	}

	resp := &response{op: envelope.Children[1]}
	if len(envelope.Children) >= 3 {
		resp.controls = envelope.Children[2]
	}
	c.responseCode = int(resp.op.Tag)
	return resp, nil
}

// parseLDAPResult fills in the client's last-result fields from a
// standard LDAPResult-shaped response body: ENUM resultCode, OCTSTR
// matchedDN, OCTSTR diagnosticMessage, optional [CTC 3] referrals.
func (c *Client) parseLDAPResult(op *ber.Packet) error {
	if len(op.Children) < 3 {
		c.resultCode = ErrorProtocol
		c.resultString = "malformed LDAPResult"
		return NewError(ErrorProtocol, errors.New("ldap: malformed LDAPResult: expected 3 children"))
	}

	c.resultCode = int(pInt64(op.Children[0]))
	c.responseDn = pString(op.Children[1])
	c.resultString = pString(op.Children[2])
	c.referrals = nil

	if c.resultString == "" {
		c.resultString = resultCodeName(c.resultCode)
	}

	if c.resultCode == LDAPResultReferral && len(op.Children) >= 4 && op.Children[3].Tag == 3 {
		for _, child := range op.Children[3].Children {
			c.referrals = append(c.referrals, pString(child))
		}
	}

	if c.resultCode != LDAPResultSuccess && c.resultCode != LDAPResultSaslBindInProgress {
		return NewError(c.resultCode, errors.New(c.resultString))
	}
	return nil
}

// errUnexpectedResponse builds the error for a response whose
// protocolOp tag doesn't match what the operation expected.
func errUnexpectedResponse(want, got ber.Tag) error {
	return fmt.Errorf("ldap: expected response tag %d, got %d", want, got)
}

// disconnect tears down the transport and resets the bound/seq/cached
// RootDSE state: a fresh connection always starts back at seq 0,
// unbound, and the next GetWellKnownObjectDN call rediscovers the root
// DN instead of using a cached one.
func (c *Client) disconnect() {
	if c.tr != nil {
		c.tr.close()
	}
	c.tr = nil
	c.bound = false
	c.seq = 0
	c.rootDN = ""
}
