// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldap

import "fmt"

// Result codes not defined by the LDAP protocol itself; negative so they
// never collide with a server-reported code.
const (
	ErrorNetwork         = -1
	ErrorFilterCompile   = -2
	ErrorFilterDecompile = -3
	ErrorDebugging       = -4
	ErrorProtocol        = -5
	ErrorDN              = -6
)

// LDAP result codes, RFC 4511 appendix A.
const (
	LDAPResultSuccess                      = 0
	LDAPResultOperationsError              = 1
	LDAPResultProtocolError                = 2
	LDAPResultTimeLimitExceeded            = 3
	LDAPResultSizeLimitExceeded            = 4
	LDAPResultCompareFalse                 = 5
	LDAPResultCompareTrue                  = 6
	LDAPResultAuthMethodNotSupported       = 7
	LDAPResultStrongAuthRequired           = 8
	LDAPResultReferral                     = 10
	LDAPResultAdminLimitExceeded           = 11
	LDAPResultUnavailableCriticalExtension = 12
	LDAPResultConfidentialityRequired      = 13
	LDAPResultSaslBindInProgress           = 14
	LDAPResultNoSuchAttribute              = 16
	LDAPResultUndefinedAttributeType       = 17
	LDAPResultInappropriateMatching        = 18
	LDAPResultConstraintViolation          = 19
	LDAPResultAttributeOrValueExists       = 20
	LDAPResultInvalidAttributeSyntax       = 21
	LDAPResultNoSuchObject                 = 32
	LDAPResultAliasProblem                 = 33
	LDAPResultInvalidDNSyntax              = 34
	LDAPResultAliasDereferencingProblem    = 36
	LDAPResultInappropriateAuthentication  = 48
	LDAPResultInvalidCredentials           = 49
	LDAPResultInsufficientAccessRights     = 50
	LDAPResultBusy                         = 51
	LDAPResultUnavailable                  = 52
	LDAPResultUnwillingToPerform           = 53
	LDAPResultLoopDetect                   = 54
	LDAPResultNamingViolation              = 64
	LDAPResultObjectClassViolation         = 65
	LDAPResultNotAllowedOnNonLeaf          = 66
	LDAPResultNotAllowedOnRDN              = 67
	LDAPResultEntryAlreadyExists           = 68
	LDAPResultObjectClassModsProhibited    = 69
	LDAPResultResultsTooLarge              = 70
	LDAPResultAffectsMultipleDSAs          = 71
	LDAPResultVLVError                     = 76
	LDAPResultOther                        = 80
	LDAPResultServerDown                   = 81
	LDAPResultLocalError                   = 82
	LDAPResultEncodingError                = 83
	LDAPResultDecodingError                = 84
	LDAPResultTimeout                      = 85
	LDAPResultAuthUnknown                  = 86
	LDAPResultFilterError                  = 87
	LDAPResultUserCanceled                 = 88
	LDAPResultParamError                   = 89
	LDAPResultNoMemory                     = 90
	LDAPResultConnectError                 = 91
	LDAPResultNotSupported                 = 92
	LDAPResultControlNotFound              = 93
	LDAPResultNoResultsReturned            = 94
	LDAPResultMoreResultsToReturn          = 95
	LDAPResultClientLoop                   = 96
	LDAPResultReferralLimitExceeded        = 97
	LDAPResultInvalidResponse              = 100
	LDAPResultAmbiguousResponse            = 101
	LDAPResultTLSNotSupported              = 112
	LDAPResultIntermediateResponse         = 113
	LDAPResultUnknownType                  = 114
	LDAPResultCanceled                     = 118
	LDAPResultNoSuchOperation              = 119
	LDAPResultTooLate                      = 120
	LDAPResultCannotCancel                 = 121
	LDAPResultAssertionFailed              = 122
	LDAPResultAuthorizationDenied          = 123
	LDAPResultESyncRefreshRequired         = 4096
	LDAPResultNoOperation                  = 16654
)

// LDAPResultCodeMap maps a result code to its fixed textual name, used
// to synthesize a diagnostic message when the server sends none.
var LDAPResultCodeMap = map[int]string{
	LDAPResultSuccess:                      "Success",
	LDAPResultOperationsError:              "Operations Error",
	LDAPResultProtocolError:                "Protocol Error",
	LDAPResultTimeLimitExceeded:            "Time Limit Exceeded",
	LDAPResultSizeLimitExceeded:            "Size Limit Exceeded",
	LDAPResultCompareFalse:                 "Compare False",
	LDAPResultCompareTrue:                  "Compare True",
	LDAPResultAuthMethodNotSupported:       "Auth Method Not Supported",
	LDAPResultStrongAuthRequired:           "Strong Auth Required",
	LDAPResultReferral:                     "Referral",
	LDAPResultAdminLimitExceeded:           "Admin Limit Exceeded",
	LDAPResultUnavailableCriticalExtension: "Unavailable Critical Extension",
	LDAPResultConfidentialityRequired:      "Confidentiality Required",
	LDAPResultSaslBindInProgress:           "SASL Bind In Progress",
	LDAPResultNoSuchAttribute:              "No Such Attribute",
	LDAPResultUndefinedAttributeType:       "Undefined Attribute Type",
	LDAPResultInappropriateMatching:        "Inappropriate Matching",
	LDAPResultConstraintViolation:          "Constraint Violation",
	LDAPResultAttributeOrValueExists:       "Attribute Or Value Exists",
	LDAPResultInvalidAttributeSyntax:       "Invalid Attribute Syntax",
	LDAPResultNoSuchObject:                 "No Such Object",
	LDAPResultAliasProblem:                 "Alias Problem",
	LDAPResultInvalidDNSyntax:              "Invalid DN Syntax",
	LDAPResultAliasDereferencingProblem:    "Alias Dereferencing Problem",
	LDAPResultInappropriateAuthentication:  "Inappropriate Authentication",
	LDAPResultInvalidCredentials:           "Invalid Credentials",
	LDAPResultInsufficientAccessRights:     "Insufficient Access Rights",
	LDAPResultBusy:                         "Busy",
	LDAPResultUnavailable:                  "Unavailable",
	LDAPResultUnwillingToPerform:           "Unwilling To Perform",
	LDAPResultLoopDetect:                   "Loop Detect",
	LDAPResultNamingViolation:              "Naming Violation",
	LDAPResultObjectClassViolation:         "Object Class Violation",
	LDAPResultNotAllowedOnNonLeaf:          "Not Allowed On Non Leaf",
	LDAPResultNotAllowedOnRDN:              "Not Allowed On RDN",
	LDAPResultEntryAlreadyExists:           "Entry Already Exists",
	LDAPResultObjectClassModsProhibited:    "Object Class Mods Prohibited",
	LDAPResultResultsTooLarge:              "Results Too Large",
	LDAPResultAffectsMultipleDSAs:          "Affects Multiple DSAs",
	LDAPResultVLVError:                     "VLV Error",
	LDAPResultOther:                        "Other",
	LDAPResultServerDown:                   "Server Down",
	LDAPResultLocalError:                   "Local Error",
	LDAPResultEncodingError:                "Encoding Error",
	LDAPResultDecodingError:                "Decoding Error",
	LDAPResultTimeout:                      "Timeout",
	LDAPResultAuthUnknown:                  "Auth Unknown",
	LDAPResultFilterError:                  "Filter Error",
	LDAPResultUserCanceled:                 "User Canceled",
	LDAPResultParamError:                   "Param Error",
	LDAPResultNoMemory:                     "No Memory",
	LDAPResultConnectError:                 "Connect Error",
	LDAPResultNotSupported:                 "Not Supported",
	LDAPResultControlNotFound:              "Control Not Found",
	LDAPResultNoResultsReturned:            "No Results Returned",
	LDAPResultMoreResultsToReturn:          "More Results To Return",
	LDAPResultClientLoop:                   "Client Loop",
	LDAPResultReferralLimitExceeded:        "Referral Limit Exceeded",
	LDAPResultInvalidResponse:              "Invalid Response",
	LDAPResultAmbiguousResponse:            "Ambiguous Response",
	LDAPResultTLSNotSupported:              "TLS Not Supported",
	LDAPResultIntermediateResponse:         "Intermediate Response",
	LDAPResultUnknownType:                  "Unknown Type",
	LDAPResultCanceled:                     "Canceled",
	LDAPResultNoSuchOperation:              "No Such Operation",
	LDAPResultTooLate:                      "Too Late",
	LDAPResultCannotCancel:                 "Cannot Cancel",
	LDAPResultAssertionFailed:              "Assertion Failed",
	LDAPResultAuthorizationDenied:          "Authorization Denied",
	LDAPResultESyncRefreshRequired:         "E-Sync Refresh Required",
	LDAPResultNoOperation:                  "No Operation",
	ErrorNetwork:                           "Network Error",
	ErrorFilterCompile:                     "Filter Compile Error",
	ErrorFilterDecompile:                   "Filter Decompile Error",
	ErrorDebugging:                         "Debugging Error",
	ErrorProtocol:                          "Protocol Error",
	ErrorDN:                                "Invalid Distinguished Name",
}

// Error wraps an LDAP result code (or one of the negative Error* client
// codes) together with the cause, if any.
type Error struct {
	ResultCode int
	Err        error
}

func (e *Error) Error() string {
	name := LDAPResultCodeMap[e.ResultCode]
	if name == "" {
		name = "Unknown Error"
	}
	if e.Err != nil {
		return fmt.Sprintf("LDAP Result Code %d %q: %s", e.ResultCode, name, e.Err.Error())
	}
	return fmt.Sprintf("LDAP Result Code %d %q", e.ResultCode, name)
}

// Unwrap exposes the underlying cause for errors.As/errors.Is.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an *Error for the given result code and cause.
func NewError(resultCode int, err error) *Error {
	return &Error{ResultCode: resultCode, Err: err}
}

// resultCodeName returns the fixed textual name for a code, or "" if the
// code is not a result code this table knows about.
func resultCodeName(code int) string {
	return LDAPResultCodeMap[code]
}
