package base

import (
	"fmt"
	"net/url"
)

// URL is a RTSP URL.
// It is an HTTP-style URL restricted to the "rtsp" scheme. Parsing
// never rewrites the host: a URL with no explicit port stays that way,
// so the play URL and every request-target derived from it are
// byte-for-byte what was given. The default port of 554 is applied
// only at dial time, via DialAddress.
type URL url.URL

// DefaultPort is the RTSP default port, substituted only when dialing
// a URL that carries no explicit port.
const DefaultPort = "554"

// ParseURL parses a RTSP URL of the form
// rtsp://[user[:password]@]host[:port][/path].
func ParseURL(s string) (*URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid RTSP URL: %w", err)
	}

	if u.Scheme != "rtsp" {
		return nil, fmt.Errorf("invalid RTSP URL: wrong scheme %q", u.Scheme)
	}

	if u.Host == "" {
		return nil, fmt.Errorf("invalid RTSP URL: missing host")
	}

	return (*URL)(u), nil
}

// MustParseURL is like ParseURL but panics on error. Used in tests and
// package-level examples.
func MustParseURL(s string) *URL {
	u, err := ParseURL(s)
	if err != nil {
		panic(err)
	}
	return u
}

// String implements fmt.Stringer.
func (u *URL) String() string {
	return (*url.URL)(u).String()
}

// Clone returns a deep copy of u.
func (u *URL) Clone() *URL {
	nu := *(*url.URL)(u)
	return (*URL)(&nu)
}

// CloneWithoutCredentials returns a copy of u with any userinfo removed.
// This is the form used as the request-target of every RTSP request and
// as the session's play_url.
func (u *URL) CloneWithoutCredentials() *URL {
	nu := *(*url.URL)(u)
	nu.User = nil
	return (*URL)(&nu)
}

// Credentials returns the username and password carried in the URL's
// userinfo, if any.
func (u *URL) Credentials() (user, pass string, ok bool) {
	if u.User == nil {
		return "", "", false
	}
	user = u.User.Username()
	pass, _ = u.User.Password()
	return user, pass, true
}

// SchemeAndAuthority returns "<scheme>://<host>", used when resolving a
// SDP control attribute that starts with a bare "/".
func (u *URL) SchemeAndAuthority() string {
	return u.Scheme + "://" + u.Host
}

// DialAddress returns the host:port to connect to: u.Host unchanged if
// it already carries a port, otherwise u.Host with DefaultPort appended.
// This is the only place the default port is applied — it never leaks
// into play_url, a request-target, or a Digest uri=, which all stay
// exactly what was parsed.
func (u *URL) DialAddress() string {
	if (*url.URL)(u).Port() != "" {
		return u.Host
	}
	return u.Host + ":" + DefaultPort
}
