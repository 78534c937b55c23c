package auth

import (
	"crypto/md5"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseChallengePrefersDigestOverBasic(t *testing.T) {
	creds, err := ParseChallenge([]string{
		`Basic realm="example"`,
		`Digest realm="example", nonce="abc123"`,
	}, "user", "pass")
	require.NoError(t, err)
	require.Equal(t, Digest, creds.Scheme)
	require.Equal(t, "example", creds.Realm)
	require.Equal(t, "abc123", creds.Nonce)
}

func TestParseChallengeFallsBackToBasic(t *testing.T) {
	creds, err := ParseChallenge([]string{`Basic realm="example"`}, "user", "pass")
	require.NoError(t, err)
	require.Equal(t, Basic, creds.Scheme)
	require.Equal(t, "example", creds.Realm)
}

func TestParseChallengeRejectsUnknownScheme(t *testing.T) {
	_, err := ParseChallenge([]string{"NTLM ..."}, "user", "pass")
	require.Error(t, err)
}

func TestParseChallengeIgnoresMalformedDigestParams(t *testing.T) {
	_, err := ParseChallenge([]string{"Digest realm-only-no-nonce"}, "user", "pass")
	require.Error(t, err)
}

func TestAuthorizationHeaderBasic(t *testing.T) {
	creds := &Credentials{User: "admin", Pass: "secret", Scheme: Basic}
	require.Equal(t, "Basic YWRtaW46c2VjcmV0", creds.AuthorizationHeader("OPTIONS", "rtsp://example.com/media.mp4"))
}

func TestAuthorizationHeaderDigestMatchesRFC2617(t *testing.T) {
	creds := &Credentials{User: "admin", Pass: "secret", Realm: "example", Nonce: "abc123", Scheme: Digest}
	method := "SETUP"
	uri := "rtsp://example.com/media.mp4/track1"

	ha1 := hex.EncodeToString(md5Sum("admin:example:secret"))
	ha2 := hex.EncodeToString(md5Sum(method + ":" + uri))
	wantResponse := hex.EncodeToString(md5Sum(ha1 + ":abc123:" + ha2))

	got := creds.AuthorizationHeader(method, uri)
	require.Contains(t, got, `response="`+wantResponse+`"`)
	require.Contains(t, got, `nonce="abc123"`)
	require.Contains(t, got, `uri="`+uri+`"`)
}

func md5Sum(s string) []byte {
	h := md5.Sum([]byte(s))
	return h[:]
}
