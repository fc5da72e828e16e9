// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ldap implements a synchronous LDAP v2/v3 client: bind, search,
// compare, add, modify, rename, delete, and extended operations over a
// single TCP or TLS connection.
//
// The client sends one request at a time and waits for its matching
// response before sending the next; callers that need concurrency should
// use one *Client per goroutine. See Client for the full operation set.
package ldap
