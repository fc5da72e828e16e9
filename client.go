// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldap

import (
	"crypto/tls"
	"io"
	"os"
	"time"

	ber "github.com/go-asn1-ber/asn1-ber"
)

// Search scope and alias-dereference constants, RFC 4511 §4.5.1.
const (
	ScopeBaseObject   = 0
	ScopeSingleLevel  = 1
	ScopeWholeSubtree = 2
)

const (
	NeverDerefAliases   = 0
	DerefInSearching    = 1
	DerefFindingBaseObj = 2
	DerefAlways         = 3
)

// Option configures a Client at construction time.
type Option func(*Client)

// WithTimeout sets the per-operation network timeout. Zero disables
// deadlines.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithTLS causes Login to dial directly over TLS using cfg (nil for
// defaults).
func WithTLS(cfg *tls.Config) Option {
	return func(c *Client) {
		c.useTLS = true
		c.tlsConfig = cfg
	}
}

// WithVersion sets the LDAP protocol version sent by Bind; 3 unless
// overridden.
func WithVersion(v int) Option {
	return func(c *Client) { c.version = v }
}

// WithDebug turns on packet tracing to w.
func WithDebug(w io.Writer) Option {
	return func(c *Client) {
		c.Debug = true
		c.debugOut = w
	}
}

// WithPageSize sets the page size Search requests via the paging
// control; 0 disables paging.
func WithPageSize(n uint32) Option {
	return func(c *Client) { c.searchPageSize = n }
}

// WithManageDsaIT causes Search, Add, Modify, Delete and ModifyDN
// requests to carry the Manage DSA IT control, so they operate on
// referral and alias objects themselves instead of following them.
func WithManageDsaIT(enabled bool) Option {
	return func(c *Client) { c.manageDsaIT = enabled }
}

// Client is a single LDAP connection and its configuration. It is not
// safe for concurrent use: callers needing concurrency should use one
// Client per goroutine.
type Client struct {
	// Debug, when true, writes every outgoing and incoming packet's
	// BER structure to the writer configured by WithDebug (os.Stderr
	// if none was given).
	Debug bool

	host      string
	port      string
	timeout   time.Duration
	version   int
	useTLS    bool
	tlsConfig *tls.Config
	debugOut  io.Writer

	searchScope     int
	searchAliases   int
	searchSizeLimit int
	searchTimeLimit int
	searchPageSize  uint32
	manageDsaIT     bool

	tr     *transport
	seq    int64
	bound  bool
	rootDN string

	// Fields populated by the most recently completed operation.
	resultCode   int
	resultString string
	responseCode int
	responseDn   string
	referrals    []string
	fullResult   []byte
	extName      string
	extValue     []byte
}

// NewClient builds an unconnected Client; call Login to open the
// connection.
func NewClient(opts ...Option) *Client {
	c := &Client{version: 3}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) debugWriter() io.Writer {
	if c.debugOut != nil {
		return c.debugOut
	}
	return os.Stderr
}

// Login opens the transport to host:port. It does not bind; call Bind,
// BindSaslDigestMd5, BindNtlm, or BindNtlmUnauthenticated afterward to
// authenticate.
func (c *Client) Login(host, port string) error {
	if c.tr.connected() {
		c.disconnect()
	}
	tr, err := openTransport(host, port, c.timeout, c.useTLS, c.tlsConfig)
	if err != nil {
		return NewError(ErrorNetwork, err)
	}
	c.host = host
	c.port = port
	c.tr = tr
	c.seq = 0
	c.bound = false
	return nil
}

// StartTLS issues an RFC 4511 StartTLS extended operation and, on
// success, upgrades the existing plaintext connection in place.
func (c *Client) StartTLS(tlsConfig *tls.Config) error {
	const startTLSOID = "1.3.6.1.4.1.1466.20037"
	op := ber.Encode(ClassApplication, TypeConstructed, ApplicationExtendedRequest, nil, "Extended Request")
	op.AppendChild(ber.NewString(ClassContext, TypePrimitive, 0, startTLSOID, "StartTLS OID"))

	seq, err := c.sendOp(op, nil)
	if err != nil {
		return err
	}
	resp, err := c.receiveResponse(seq)
	if err != nil {
		return err
	}
	if resp.op.Tag != ApplicationExtendedResponse {
		return NewError(ErrorProtocol, errUnexpectedResponse(ApplicationExtendedResponse, resp.op.Tag))
	}
	if err := c.parseLDAPResult(resp.op); err != nil {
		return err
	}
	if err := c.tr.upgradeTLS(tlsConfig); err != nil {
		c.disconnect()
		return NewError(ErrorNetwork, err)
	}
	c.useTLS = true
	c.tlsConfig = tlsConfig
	return nil
}

// Connected reports whether the client is bound. Per its historical
// signature it accepts an andBound parameter, but (matching the
// behavior callers have long depended on) the argument does not affect
// the result: it always checks bound, never the raw transport state.
func (c *Client) Connected(andBound bool) bool {
	_ = andBound
	return c.bound
}

// Close terminates the connection without sending an Unbind request.
// Callers that want a clean LDAP-level shutdown should call Logout.
func (c *Client) Close() error {
	if c.tr == nil {
		return nil
	}
	err := c.tr.close()
	c.tr = nil
	c.bound = false
	return err
}

// LastResultCode returns the LDAPResult resultCode of the most recently
// completed operation.
func (c *Client) LastResultCode() int { return c.resultCode }

// LastResultString returns the diagnosticMessage (or a synthesized name
// for the result code, if the server left it empty) of the most
// recently completed operation.
func (c *Client) LastResultString() string { return c.resultString }

// LastReferrals returns any referral URLs attached to the most recently
// completed operation's result.
func (c *Client) LastReferrals() []string { return c.referrals }

// LastRawResponse returns the raw bytes of the most recently received
// response frame, for callers that need to inspect it directly.
func (c *Client) LastRawResponse() []byte { return c.fullResult }
