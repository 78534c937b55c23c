package base

import "encoding/binary"

// InterleavedFrameHeaderSize is the size of an interleaved frame's
// header: the 0x24 magic byte, the channel byte, and the 2-byte
// big-endian payload length.
const InterleavedFrameHeaderSize = 4

// InterleavedFrameMagicByte marks the start of an interleaved binary
// frame, distinguishing it from a RTSP text response on the same byte
// stream (RFC 2326 §10.12).
const InterleavedFrameMagicByte = 0x24

// InterleavedFrame is a transient decoded view of a single "$"-prefixed
// binary frame. It is not retained past the call that produced it.
type InterleavedFrame struct {
	Channel int
	Payload []byte
}

// DecodeInterleavedFrameHeader reads the channel and payload length out
// of a 4-byte interleaved frame header. It does not validate the magic
// byte; callers check that separately against
// InterleavedFrameMagicByte before calling this.
func DecodeInterleavedFrameHeader(header []byte) (channel int, length int) {
	return int(header[1]), int(binary.BigEndian.Uint16(header[2:4]))
}
