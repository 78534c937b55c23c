package base

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseResponse(t *testing.T) {
	raw := []byte("RTSP/1.0 200 OK\r\n" +
		"CSeq: 2\r\n" +
		"Content-Base: rtsp://example.com/media.mp4/\r\n" +
		"Content-Type: application/sdp\r\n" +
		"Content-Length: 4\r\n" +
		"\r\n" +
		"v=0\n")

	res, err := ParseResponse(raw)
	require.NoError(t, err)
	require.Equal(t, StatusOK, res.StatusCode)
	require.Equal(t, "OK", res.StatusMessage)
	require.Equal(t, "2", res.Header.Get("CSeq"))
	require.Equal(t, []byte("v=0\n"), res.Content)
}

func TestParseResponseRepeatedWWWAuthenticate(t *testing.T) {
	raw := []byte("RTSP/1.0 401 Unauthorized\r\n" +
		"CSeq: 1\r\n" +
		`WWW-Authenticate: Digest realm="example", nonce="abc"` + "\r\n" +
		`WWW-Authenticate: Basic realm="example"` + "\r\n" +
		"\r\n")

	res, err := ParseResponse(raw)
	require.NoError(t, err)
	require.Len(t, res.Header["WWW-Authenticate"], 2)
	require.Contains(t, res.Header["WWW-Authenticate"][0], "Digest")
	require.Contains(t, res.Header["WWW-Authenticate"][1], "Basic")
}

func TestParseResponseMalformedStatusLine(t *testing.T) {
	_, err := ParseResponse([]byte("not a status line\r\n\r\n"))
	require.Error(t, err)
}

func TestRequiredLength(t *testing.T) {
	raw := []byte("RTSP/1.0 200 OK\r\n" +
		"Content-Length: 3\r\n" +
		"\r\n" +
		"abc" +
		"extra garbage that must not be counted")

	length, ok := RequiredLength(raw)
	require.True(t, ok)
	require.Equal(t, len("RTSP/1.0 200 OK\r\nContent-Length: 3\r\n\r\nabc"), length)
}

func TestRequiredLengthNotYetTerminated(t *testing.T) {
	_, ok := RequiredLength([]byte("RTSP/1.0 200 OK\r\nCSeq: 1\r\n"))
	require.False(t, ok)
}

func TestRequiredLengthMalformedContentLength(t *testing.T) {
	_, ok := RequiredLength([]byte("RTSP/1.0 200 OK\r\nContent-Length: notanumber\r\n\r\n"))
	require.False(t, ok)
}
