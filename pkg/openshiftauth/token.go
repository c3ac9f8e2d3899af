// Copyright 2026 the cryostat authors.
// SPDX-License-Identifier: Apache-2.0

package openshiftauth

import (
	"encoding/base64"
	"regexp"
	"strings"
)

var (
	bearerHeaderPattern = regexp.MustCompile(`(?i)^Bearer\s+(.*)$`)
	subProtocolPattern  = regexp.MustCompile(`(?i)^base64url\.bearer\.authorization\.cryostat\.(\S+)$`)
)

// ExtractFromHeader recovers a bearer token from the value of an HTTP
// Authorization header. The header must carry the Bearer scheme and a
// base64url-encoded payload; anything else, including a blank header,
// yields ("", false) rather than an error, since "no token presented" is a
// distinct condition from "token presented but invalid".
func ExtractFromHeader(rawHeader string) (string, bool) {
	if strings.TrimSpace(rawHeader) == "" {
		return "", false
	}
	m := bearerHeaderPattern.FindStringSubmatch(rawHeader)
	if m == nil {
		return "", false
	}
	return decodeToken(m[1])
}

// ExtractFromSubProtocol recovers a bearer token from a WebSocket
// subprotocol of the form
// "base64url.bearer.authorization.cryostat.<base64url payload>". A
// non-matching or blank subprotocol yields ("", false).
func ExtractFromSubProtocol(subProtocol string) (string, bool) {
	if strings.TrimSpace(subProtocol) == "" {
		return "", false
	}
	m := subProtocolPattern.FindStringSubmatch(subProtocol)
	if m == nil {
		return "", false
	}
	return decodeToken(m[1])
}

func decodeToken(encoded string) (string, bool) {
	decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(encoded)
	if err != nil {
		decoded, err = base64.URLEncoding.DecodeString(encoded)
		if err != nil {
			return "", false
		}
	}
	return strings.TrimSpace(string(decoded)), true
}
