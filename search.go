// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// File contains Search and its convenience wrappers SearchFirst and
// SearchObject, including the RFC 2696 paged-results loop.
package ldap

import (
	"errors"
	"fmt"

	ber "github.com/go-asn1-ber/asn1-ber"
)

// Search performs an RFC 4511 SearchRequest against baseDN, compiling
// filter with CompileFilter and requesting attributes (nil or empty
// means all user attributes). Scope, alias dereferencing, size/time
// limits, and page size come from the Client's configuration. If a
// page size is configured, Search transparently loops, feeding each
// response's paging cookie into the next request, and returns the
// combined entries from every page.
func (c *Client) Search(baseDN, filter string, attributes []string) (*ResultList, error) {
	results := &ResultList{}
	results.reset()

	var cookie []byte
	for {
		filterPkt, err := CompileFilter(filter)
		if err != nil {
			return nil, err
		}

		op := ber.Encode(ClassApplication, TypeConstructed, ApplicationSearchRequest, nil, "Search Request")
		op.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, baseDN, "Base DN"))
		op.AppendChild(ber.NewInteger(ClassUniversal, TypePrimitive, TagEnumerated, int64(c.searchScope), "Scope"))
		op.AppendChild(ber.NewInteger(ClassUniversal, TypePrimitive, TagEnumerated, int64(c.searchAliases), "Deref Aliases"))
		op.AppendChild(ber.NewInteger(ClassUniversal, TypePrimitive, TagInteger, int64(c.searchSizeLimit), "Size Limit"))
		op.AppendChild(ber.NewInteger(ClassUniversal, TypePrimitive, TagInteger, int64(c.searchTimeLimit), "Time Limit"))
		op.AppendChild(ber.NewBoolean(ClassUniversal, TypePrimitive, TagBoolean, false, "Types Only"))
		op.AppendChild(filterPkt)

		attrsPkt := ber.Encode(ClassUniversal, TypeConstructed, TagSequence, nil, "Attributes")
		for _, a := range attributes {
			attrsPkt.AppendChild(ber.NewString(ClassUniversal, TypePrimitive, TagOctetString, a, "Attribute"))
		}
		op.AppendChild(attrsPkt)

		var extraControls []*ber.Packet
		if c.searchPageSize > 0 {
			extraControls = append(extraControls, buildPagingControl(c.searchPageSize, cookie))
		}

		seq, err := c.sendOp(op, c.requestControls(extraControls...))
		if err != nil {
			return nil, err
		}

		cookie = nil
		for {
			resp, err := c.receiveResponse(seq)
			if err != nil {
				return results, err
			}
			switch resp.op.Tag {
			case ApplicationSearchResultEntry:
				entry, err := decodeSearchResultEntry(resp.op)
				if err != nil {
					return results, err
				}
				results.append(entry)
			case ApplicationSearchResultReference:
				for _, child := range resp.op.Children {
					c.referrals = append(c.referrals, pString(child))
				}
			case ApplicationSearchResultDone:
				if err := c.parseLDAPResult(resp.op); err != nil {
					return results, err
				}
				if ctrl := findControl(resp.controls, controlPagingOID); ctrl != nil {
					_, nextCookie, err := decodePagingControl(ctrl)
					if err != nil {
						return results, NewError(ErrorProtocol, err)
					}
					cookie = nextCookie
				}
				goto pageDone
			default:
				return results, NewError(ErrorProtocol, fmt.Errorf("ldap: unexpected search response tag %d", resp.op.Tag))
			}
		}
	pageDone:
		if c.searchPageSize == 0 || len(cookie) == 0 {
			break
		}
	}
	return results, nil
}

func decodeSearchResultEntry(op *ber.Packet) (*ResultEntry, error) {
	if len(op.Children) < 2 {
		return nil, NewError(ErrorProtocol, errors.New("ldap: malformed SearchResultEntry"))
	}
	entry := &ResultEntry{DN: pString(op.Children[0])}
	for _, attrPkt := range op.Children[1].Children {
		if len(attrPkt.Children) < 2 {
			continue
		}
		attr := NewAttribute(pString(attrPkt.Children[0]))
		for _, v := range attrPkt.Children[1].Children {
			attr.AddValue(pBytes(v))
		}
		entry.Attributes.Add(attr)
	}
	return entry, nil
}

// SearchFirst runs Search and returns only its first entry, which is
// convenient for lookups expected to match at most one object. It
// temporarily forces the size limit to 1 for the duration of the call.
func (c *Client) SearchFirst(baseDN, filter string, attributes []string) (*ResultEntry, error) {
	saved := c.searchSizeLimit
	c.searchSizeLimit = 1
	defer func() { c.searchSizeLimit = saved }()

	results, err := c.Search(baseDN, filter, attributes)
	if err != nil {
		return nil, err
	}
	if results.Len() == 0 {
		return nil, NewError(LDAPResultNoSuchObject, errors.New("ldap: no entries found"))
	}
	return results.Entries[0], nil
}

// SearchObject reads a single known entry by DN (scope baseObject,
// filter "(objectClass=*)").
func (c *Client) SearchObject(dn string, attributes []string) (*ResultEntry, error) {
	saved := c.searchScope
	c.searchScope = ScopeBaseObject
	defer func() { c.searchScope = saved }()
	return c.SearchFirst(dn, "(objectClass=*)", attributes)
}
