// Package splitter implements the wire splitter: a stateful,
// byte-oriented framer that demultiplexes a single full-duplex TCP byte
// stream into RTSP text responses (RFC 2326) and interleaved RTP binary
// frames (RFC 2326 §10.12).
//
// It is owned exclusively by the reader goroutine and requires no
// locking. It is push-based: Feed appends whatever bytes the transport
// adapter received and drains as many complete units as are available,
// rather than pull-based against a blocking bufio.Reader, so the
// framing decision does not depend on how the input happened to be
// chunked on the wire. The interleaved-frame header layout is channel
// at header byte 1, length as the big-endian uint16 at header bytes 2-3.
package splitter

import (
	"github.com/liuzihua699/rtspgo/base"
	"github.com/liuzihua699/rtspgo/pkg/liberrors"
)

// RTPSink receives a demultiplexed interleaved frame's payload, tagged
// with its channel.
type RTPSink func(channel int, payload []byte)

// ResponseSink receives one complete, still-encoded RTSP response.
type ResponseSink func(raw []byte)

// Splitter holds the unbounded append-only byte accumulator and the
// rtp-enabled mode flag.
type Splitter struct {
	acc        []byte
	rtpEnabled bool

	onRTP      RTPSink
	onResponse ResponseSink
}

// New allocates a Splitter. RTP mode starts disabled; EnableRTP must be
// called to switch framing mode once the session is ready to receive
// interleaved data (see session.go, which calls it when PLAY is sent,
// not when its 200 response arrives).
func New(onResponse ResponseSink, onRTP RTPSink) *Splitter {
	return &Splitter{
		onResponse: onResponse,
		onRTP:      onRTP,
	}
}

// EnableRTP switches the splitter into dual mode, where a leading '$'
// is interpreted as an interleaved frame. A '$' appearing mid-stream
// before this call is still only byte 0x24 of whatever RTSP text
// happens to contain it — it cannot be misread as an interleaved frame
// in text mode, by construction of the framing decision below.
func (s *Splitter) EnableRTP() {
	s.rtpEnabled = true
}

// Feed appends newly received bytes and drains every complete unit that
// can now be extracted, invoking onResponse / onRTP synchronously for
// each. It returns a fatal error only when the accumulated buffer
// proves internally inconsistent. A frame that merely needs more bytes
// is not an error; it is the normal case of returning and waiting for
// more input.
func (s *Splitter) Feed(chunk []byte) error {
	s.acc = append(s.acc, chunk...)

	for {
		consumed, err := s.drainOne()
		if err != nil {
			return err
		}
		if consumed == 0 {
			return nil
		}
	}
}

// drainOne attempts to extract exactly one complete unit from the front
// of the accumulator. It returns the number of bytes consumed — zero
// means "not enough data yet, wait for more input".
func (s *Splitter) drainOne() (int, error) {
	if len(s.acc) == 0 {
		return 0, nil
	}

	if s.rtpEnabled && s.acc[0] == base.InterleavedFrameMagicByte {
		return s.drainInterleavedFrame()
	}

	return s.drainResponse()
}

func (s *Splitter) drainInterleavedFrame() (int, error) {
	const headerSize = base.InterleavedFrameHeaderSize

	if len(s.acc) < headerSize {
		return 0, nil
	}

	channel, length := base.DecodeInterleavedFrameHeader(s.acc[:headerSize])

	total := headerSize + length
	if total < headerSize {
		// length overflowed the addition: the header field itself is
		// incoherent, not merely incomplete.
		return 0, liberrors.ErrSplitter{Reason: "interleaved frame length overflow"}
	}

	if len(s.acc) < total {
		return 0, nil
	}

	payload := make([]byte, length)
	copy(payload, s.acc[headerSize:total])

	s.advance(total)
	s.onRTP(channel, payload)

	return total, nil
}

// maxResponseLength bounds the RTSP response a well-behaved server can
// send; a Content-Length implying a response larger than this is
// treated as fatal rather than waited on forever.
const maxResponseLength = 1 << 20

func (s *Splitter) drainResponse() (int, error) {
	headerEnd := base.HeaderEnd(s.acc)
	if headerEnd < 0 {
		if len(s.acc) > maxResponseLength {
			return 0, liberrors.ErrSplitter{Reason: "response header exceeds maximum size without terminator"}
		}
		return 0, nil
	}

	total, ok := base.RequiredLength(s.acc)
	if !ok {
		return 0, liberrors.ErrSplitter{Reason: "response has malformed Content-Length"}
	}

	if total > maxResponseLength {
		return 0, liberrors.ErrSplitter{Reason: "response length exceeds maximum size"}
	}

	if len(s.acc) < total {
		return 0, nil
	}

	raw := make([]byte, total)
	copy(raw, s.acc[:total])

	s.advance(total)
	s.onResponse(raw)

	return total, nil
}

// advance discards the first n bytes of the accumulator, atomically
// from the caller's point of view: a single Feed call never emits a
// partial unit, and the byte immediately after unit n is never
// inspected until unit n has been fully discarded.
func (s *Splitter) advance(n int) {
	remaining := len(s.acc) - n
	copy(s.acc, s.acc[n:])
	s.acc = s.acc[:remaining]
}
