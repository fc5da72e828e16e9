// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// File contains RootDSE discovery and Active Directory's well-known
// container lookup (the `wellKnownObjects` attribute, MS-ADTS §6.1.1.4.5.1).
package ldap

import (
	"errors"
	"fmt"
	"strings"
)

// WellKnownContainerGUIDs maps the well-known container names AD
// administrative tooling most commonly looks up to their fixed GUIDs,
// in the uppercase no-dash hex form used by wellKnownObjects values and
// returned by GUIDToADHex.
var WellKnownContainerGUIDs = map[string]string{
	"Computers":                 "AA312825768811D1ADED00C04FD8D5CD",
	"DeletedObjects":            "18E2EA80684F11D2B9AA00C04F79F805",
	"DomainControllers":         "A361B2FFFFD211D1AA4B00C04FD7D83A",
	"ForeignSecurityPrincipals": "22B70C67D56E4EFB91E9300FCA3DC1AA",
	"Infrastructure":            "2FBAC1870ADE11D297C400C04FD8D5CD",
	"LostAndFound":              "AB8153B7768811D1ADED00C04FD8D5CD",
	"MicrosoftProgramData":      "F4BE92A4C777485E878E9421D53087DB",
	"NtdsQuotas":                "6227F0AF1FC2410D8E3BB10615BB5B0F",
	"ProgramData":               "09460C08AE1E4A4EA0F64AEE7DAA1E5A",
	"Systems":                   "AB1D30F3768811D1ADED00C04FD8D5CD",
	"Users":                     "A9D1CA15768811D1ADED00C04FD8D5CD",
	"ManagedServiceAccounts":    "1EB93889E40C45DF9F0C64D23BBB6192",
}

// DiscoverRootDN reads the RootDSE's rootDomainNamingContext and caches
// it on the Client for use by GetWellKnownObjectDN.
func (c *Client) DiscoverRootDN() (string, error) {
	entry, err := c.SearchObject("", []string{"rootDomainNamingContext"})
	if err != nil {
		return "", err
	}
	dn := entry.Attributes.GetValue("rootDomainNamingContext")
	if dn == "" {
		return "", NewError(LDAPResultNoSuchAttribute, errors.New("ldap: RootDSE has no rootDomainNamingContext"))
	}
	c.rootDN = dn
	return dn, nil
}

// GetWellKnownObjectDN resolves a well-known container GUID (see
// WellKnownContainerGUIDs) to its current DN by reading the domain
// root's wellKnownObjects attribute, whose values take the form
// "B:32:<32-hex-char GUID>:<DN>".
func (c *Client) GetWellKnownObjectDN(guidHex string) (string, error) {
	if c.rootDN == "" {
		if _, err := c.DiscoverRootDN(); err != nil {
			return "", err
		}
	}
	entry, err := c.SearchObject(c.rootDN, []string{"wellKnownObjects"})
	if err != nil {
		return "", err
	}
	attr := entry.Attributes.Get("wellKnownObjects")
	if attr == nil {
		return "", NewError(LDAPResultNoSuchAttribute, errors.New("ldap: no wellKnownObjects attribute on domain root"))
	}
	for _, v := range attr.Values {
		parts := strings.SplitN(string(v), ":", 4)
		if len(parts) != 4 {
			continue
		}
		if strings.EqualFold(parts[2], guidHex) {
			return parts[3], nil
		}
	}
	return "", NewError(LDAPResultNoSuchObject, fmt.Errorf("ldap: no well-known object found for GUID %s", guidHex))
}
