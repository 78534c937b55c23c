package base

import (
	"bufio"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
)

const (
	maxHeaderCount      = 255
	maxHeaderValueBytes = 2048
)

// HeaderValue is the set of values carried by one header key — a
// RTSP response may repeat WWW-Authenticate once per offered scheme.
type HeaderValue []string

// Header is a RTSP header, present in both requests and responses.
type Header map[string]HeaderValue

// Get returns the first value for key, or "" if absent.
func (h Header) Get(key string) string {
	v, ok := h[key]
	if !ok || len(v) == 0 {
		return ""
	}
	return v[0]
}

// Set replaces key with a single value.
func (h Header) Set(key, value string) {
	h[key] = HeaderValue{value}
}

func headerKeyNormalize(in string) string {
	switch strings.ToLower(in) {
	case "cseq":
		return "CSeq"
	case "www-authenticate":
		return "WWW-Authenticate"
	case "rtp-info":
		return "RTP-Info"
	}
	return http.CanonicalHeaderKey(in)
}

// readHeader parses the CRLF-terminated header lines preceding the blank
// line, from the byte range [0, headerEnd). It does not include the
// blank-line terminator itself. Repeated keys accumulate into the same
// HeaderValue, in the order they appeared on the wire.
func readHeader(region []byte) (Header, error) {
	h := make(Header)

	for _, line := range strings.Split(string(region), "\r\n") {
		if line == "" {
			continue
		}

		if len(h) >= maxHeaderCount {
			return nil, fmt.Errorf("header count exceeds %d", maxHeaderCount)
		}

		i := strings.IndexByte(line, ':')
		if i < 0 {
			return nil, fmt.Errorf("malformed header line %q", line)
		}

		key := headerKeyNormalize(strings.TrimSpace(line[:i]))
		val := strings.TrimSpace(line[i+1:])

		if len(val) > maxHeaderValueBytes {
			return nil, fmt.Errorf("header value for %q exceeds %d bytes", key, maxHeaderValueBytes)
		}

		h[key] = append(h[key], val)
	}

	return h, nil
}

// write serializes headers in sorted-key order for deterministic output,
// one line per value, then writes the blank-line terminator.
func (h Header) write(bw *bufio.Writer) error {
	keys := make([]string, 0, len(h))
	for key := range h {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		for _, v := range h[key] {
			_, err := bw.WriteString(key + ": " + v + "\r\n")
			if err != nil {
				return err
			}
		}
	}

	_, err := bw.WriteString("\r\n")
	return err
}

// contentLength returns the parsed Content-Length header, matching it
// case-insensitively and trimming surrounding whitespace; it defaults to
// zero when the header is absent, per the framing rules of the wire
// splitter.
func contentLength(h Header) (int, error) {
	v := h.Get("Content-Length")
	if v == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid Content-Length %q", v)
	}

	return n, nil
}
