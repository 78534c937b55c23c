package base

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadHeader(t *testing.T) {
	h, err := readHeader([]byte("CSeq: 1\r\nContent-Type: application/sdp\r\n"))
	require.NoError(t, err)
	require.Equal(t, "1", h.Get("CSeq"))
	require.Equal(t, "application/sdp", h.Get("Content-Type"))
}

func TestReadHeaderRepeatedKeyAccumulates(t *testing.T) {
	h, err := readHeader([]byte(`WWW-Authenticate: Digest realm="x"` + "\r\n" +
		`WWW-Authenticate: Basic realm="x"` + "\r\n"))
	require.NoError(t, err)
	require.Len(t, h["WWW-Authenticate"], 2)
}

func TestReadHeaderMalformedLine(t *testing.T) {
	_, err := readHeader([]byte("not a header line\r\n"))
	require.Error(t, err)
}

func TestHeaderWriteSortsKeys(t *testing.T) {
	h := Header{"Zebra": HeaderValue{"1"}, "Apple": HeaderValue{"2"}}
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	require.NoError(t, h.write(bw))
	require.NoError(t, bw.Flush())
	require.Equal(t, "Apple: 2\r\nZebra: 1\r\n\r\n", buf.String())
}

func TestContentLength(t *testing.T) {
	n, err := contentLength(Header{"Content-Length": HeaderValue{"42"}})
	require.NoError(t, err)
	require.Equal(t, 42, n)
}

func TestContentLengthDefaultsToZero(t *testing.T) {
	n, err := contentLength(Header{})
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestContentLengthRejectsNegative(t *testing.T) {
	_, err := contentLength(Header{"Content-Length": HeaderValue{"-1"}})
	require.Error(t, err)
}
