package base

import (
	"bufio"
	"bytes"
	"strconv"
)

const rtspProtocol10 = "RTSP/1.0"

// Request is a RTSP request, built and encoded by the session state
// machine; the transport adapter sends the encoded bytes.
type Request struct {
	Method  Method
	URL     *URL
	Header  Header
	Content []byte
}

// Write encodes req, writing CSeq, User-Agent, Session (if known) and
// Authorization (if latched) before any remaining headers, matching the
// order a human operator reading a packet capture expects.
func (req *Request) Write() ([]byte, error) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)

	urStr := req.URL.CloneWithoutCredentials().String()
	_, err := bw.WriteString(string(req.Method) + " " + urStr + " " + rtspProtocol10 + "\r\n")
	if err != nil {
		return nil, err
	}

	h := make(Header, len(req.Header)+1)
	for k, v := range req.Header {
		h[k] = v
	}
	if len(req.Content) != 0 {
		h.Set("Content-Length", strconv.Itoa(len(req.Content)))
	}

	err = writeOrdered(bw, h)
	if err != nil {
		return nil, err
	}

	if len(req.Content) != 0 {
		_, err = bw.Write(req.Content)
		if err != nil {
			return nil, err
		}
	}

	err = bw.Flush()
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// writeOrdered writes CSeq, User-Agent, Session and Authorization
// first, in that order, then the remainder sorted for determinism.
func writeOrdered(bw *bufio.Writer, h Header) error {
	priority := []string{"CSeq", "User-Agent", "Session", "Authorization"}
	written := make(map[string]bool, len(priority))

	for _, key := range priority {
		if v, ok := h[key]; ok {
			for _, val := range v {
				_, err := bw.WriteString(key + ": " + val + "\r\n")
				if err != nil {
					return err
				}
			}
			written[key] = true
		}
	}

	rest := make(Header, len(h))
	for k, v := range h {
		if !written[k] {
			rest[k] = v
		}
	}

	return rest.write(bw)
}
