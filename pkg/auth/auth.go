// Package auth implements the Basic and Digest RTSP authentication
// schemes (RFC 2617, MD5, no qop).
package auth

import (
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// Scheme identifies the latched authentication method.
type Scheme int

// Supported schemes.
const (
	None Scheme = iota
	Basic
	Digest
)

// Credentials holds the client-side state latched on the first 401.
// Credentials are latched globally for the connection; if the server
// rotates nonces per request (e.g. "stale=true") this design does not
// re-challenge mid-session. See DESIGN.md for this known limitation.
type Credentials struct {
	User   string
	Pass   string
	Realm  string
	Nonce  string
	Scheme Scheme
}

func md5Hex(in string) string {
	h := md5.New()
	h.Write([]byte(in))
	return hex.EncodeToString(h.Sum(nil))
}

// ParseChallenge parses a WWW-Authenticate header value and latches a
// Scheme, Realm and (for Digest) Nonce into Credentials. It prefers
// Digest over Basic when a server offers both.
func ParseChallenge(headerValues []string, user, pass string) (*Credentials, error) {
	var basicRealm string
	var digestRealm, digestNonce string
	haveDigest := false
	haveBasic := false

	for _, v := range headerValues {
		switch {
		case strings.HasPrefix(v, "Digest "):
			realm, nonce, err := parseDigestParams(v[len("Digest "):])
			if err != nil {
				continue
			}
			digestRealm, digestNonce = realm, nonce
			haveDigest = true

		case strings.HasPrefix(v, "Basic "):
			realm, _ := parseParam(v[len("Basic "):], "realm")
			basicRealm = realm
			haveBasic = true
		}
	}

	switch {
	case haveDigest:
		return &Credentials{User: user, Pass: pass, Realm: digestRealm, Nonce: digestNonce, Scheme: Digest}, nil
	case haveBasic:
		return &Credentials{User: user, Pass: pass, Realm: basicRealm, Scheme: Basic}, nil
	default:
		return nil, fmt.Errorf("no recognized authentication scheme in WWW-Authenticate")
	}
}

func parseDigestParams(s string) (realm, nonce string, err error) {
	realm, okR := parseParam(s, "realm")
	nonce, okN := parseParam(s, "nonce")
	if !okR || !okN {
		return "", "", fmt.Errorf("digest challenge missing realm or nonce")
	}
	return realm, nonce, nil
}

// parseParam extracts the quoted value of key="value" from a
// comma-separated challenge parameter list.
func parseParam(s, key string) (string, bool) {
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if !strings.HasPrefix(part, key+"=") {
			continue
		}
		v := strings.TrimPrefix(part, key+"=")
		v = strings.Trim(v, `"`)
		return v, true
	}
	return "", false
}

// AuthorizationHeader computes the Authorization header value for
// method and uri using the latched credentials.
func (c *Credentials) AuthorizationHeader(method, uri string) string {
	switch c.Scheme {
	case Basic:
		token := base64.StdEncoding.EncodeToString([]byte(c.User + ":" + c.Pass))
		return "Basic " + token

	case Digest:
		ha1 := md5Hex(c.User + ":" + c.Realm + ":" + c.Pass)
		ha2 := md5Hex(method + ":" + uri)
		response := md5Hex(ha1 + ":" + c.Nonce + ":" + ha2)
		return fmt.Sprintf(`Digest username="%s", realm="%s", nonce="%s", uri="%s", response="%s"`,
			c.User, c.Realm, c.Nonce, uri, response)

	default:
		return ""
	}
}
