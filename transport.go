// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// File contains the transport adapter: a thin connect/read-exact/
// write-all/close wrapper over net.Conn.
package ldap

import (
	"crypto/tls"
	"io"
	"net"
	"time"
)

// transport is the opaque byte-stream the client state machine speaks
// over. It owns exactly one net.Conn at a time.
type transport struct {
	conn    net.Conn
	timeout time.Duration
}

// openTransport dials host:port, optionally wrapping the connection in
// TLS, honoring the given dial timeout.
func openTransport(host, port string, timeout time.Duration, useTLS bool, tlsConfig *tls.Config) (*transport, error) {
	addr := net.JoinHostPort(host, port)
	dialer := &net.Dialer{Timeout: timeout}

	var conn net.Conn
	var err error
	if useTLS {
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, tlsConfig)
	} else {
		conn, err = dialer.Dial("tcp", addr)
	}
	if err != nil {
		return nil, err
	}
	return &transport{conn: conn, timeout: timeout}, nil
}

// connected reports whether the transport currently holds an open
// connection.
func (t *transport) connected() bool {
	return t != nil && t.conn != nil
}

// writeAll writes the full buffer, respecting the configured timeout.
func (t *transport) writeAll(buf []byte) error {
	if t.timeout > 0 {
		if err := t.conn.SetWriteDeadline(time.Now().Add(t.timeout)); err != nil {
			return err
		}
	}
	for len(buf) > 0 {
		n, err := t.conn.Write(buf)
		if err != nil {
			return err
		}
		buf = buf[n:]
	}
	return nil
}

// readExact reads exactly n bytes, respecting the configured timeout.
func (t *transport) readExact(n int) ([]byte, error) {
	if t.timeout > 0 {
		if err := t.conn.SetReadDeadline(time.Now().Add(t.timeout)); err != nil {
			return nil, err
		}
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(t.conn, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// close closes the underlying connection. Idempotent.
func (t *transport) close() error {
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

// upgradeTLS replaces the transport's plain connection with a TLS
// client connection over the same socket, for StartTLS.
func (t *transport) upgradeTLS(tlsConfig *tls.Config) error {
	tlsConn := tls.Client(t.conn, tlsConfig)
	if err := tlsConn.Handshake(); err != nil {
		return err
	}
	t.conn = tlsConn
	return nil
}
