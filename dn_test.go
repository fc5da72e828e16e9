// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDNBasic(t *testing.T) {
	dn, err := ParseDN("CN=User1,OU=Users,OU=London,DC=xyz,DC=local")
	require.NoError(t, err)
	require.Len(t, dn.RDNs, 5)
	assert.Equal(t, "CN", dn.RDNs[0].Attributes[0].Type)
	assert.Equal(t, "User1", dn.RDNs[0].Attributes[0].Value)
	assert.Equal(t, "DC", dn.RDNs[4].Attributes[0].Type)
	assert.Equal(t, "local", dn.RDNs[4].Attributes[0].Value)
}

func TestParseDNEscaped(t *testing.T) {
	dn, err := ParseDN(`CN=Smith\, John,DC=example,DC=com`)
	require.NoError(t, err)
	assert.Equal(t, "Smith, John", dn.RDNs[0].Attributes[0].Value)
}

func TestParseDNHexEscape(t *testing.T) {
	dn, err := ParseDN(`CN=Sales\20Team,DC=example,DC=com`)
	require.NoError(t, err)
	assert.Equal(t, "Sales Team", dn.RDNs[0].Attributes[0].Value)
}

func TestParseDNMultiValuedRDN(t *testing.T) {
	dn, err := ParseDN("CN=Bob+UID=bob,DC=example,DC=com")
	require.NoError(t, err)
	require.Len(t, dn.RDNs[0].Attributes, 2)
	assert.Equal(t, "CN", dn.RDNs[0].Attributes[0].Type)
	assert.Equal(t, "UID", dn.RDNs[0].Attributes[1].Type)
}

func TestDNStringRoundTrip(t *testing.T) {
	dn, err := ParseDN("cn=Bob,dc=example,dc=com")
	require.NoError(t, err)
	reparsed, err := ParseDN(dn.String())
	require.NoError(t, err)
	assert.True(t, dn.Equal(reparsed))
}

func TestDNIsSubordinateAndStrip(t *testing.T) {
	child, err := ParseDN("CN=Bob,OU=Users,DC=example,DC=com")
	require.NoError(t, err)
	base, err := ParseDN("DC=example,DC=com")
	require.NoError(t, err)
	assert.True(t, child.IsSubordinate(base))

	require.NoError(t, child.Strip(base))
	assert.Equal(t, "CN=Bob,OU=Users", child.String())
}

func TestDNToCN(t *testing.T) {
	cn, err := DNToCN("CN=User1,OU=Users,OU=London,DC=xyz,DC=local")
	require.NoError(t, err)
	assert.Equal(t, "xyz.local/london/users/user1", cn)
}

func TestDNToCNNoOUs(t *testing.T) {
	cn, err := DNToCN("DC=xyz,DC=local")
	require.NoError(t, err)
	assert.Equal(t, "xyz.local", cn)
}

func TestDNToCNRejectsOUAfterDC(t *testing.T) {
	_, err := DNToCN("DC=local,OU=Users")
	assert.Error(t, err)
}
