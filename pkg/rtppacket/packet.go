// Package rtppacket decodes RTP packets (RFC 3550 §5.1) carried inside
// interleaved frames, and detects H.264 keyframes (RFC 6184) in their
// payload. The fixed-header decode is delegated to github.com/pion/rtp;
// NAL-unit inspection is this package's own.
package rtppacket

import (
	"fmt"

	"github.com/pion/rtp"
)

// Packet is an immutable value decoded from one interleaved RTP frame.
type Packet struct {
	Version        uint8
	Padding        bool
	Extension      bool
	Marker         bool
	PayloadType    uint8
	SequenceNumber uint16
	Timestamp      uint32
	SSRC           uint32
	Payload        []byte
}

// Parse decodes a raw RTP packet. It fails (without panicking) when the
// frame is shorter than the fixed header plus CSRC list plus any
// extension header.
func Parse(raw []byte) (*Packet, error) {
	if len(raw) < 12 {
		return nil, fmt.Errorf("rtppacket: frame too short (%d bytes)", len(raw))
	}

	var p rtp.Packet
	err := p.Unmarshal(raw)
	if err != nil {
		return nil, fmt.Errorf("rtppacket: %w", err)
	}

	if p.Version != 2 {
		return nil, fmt.Errorf("rtppacket: unsupported version %d", p.Version)
	}

	return &Packet{
		Version:        p.Version,
		Padding:        p.Padding,
		Extension:      p.Extension,
		Marker:         p.Marker,
		PayloadType:    p.PayloadType,
		SequenceNumber: p.SequenceNumber,
		Timestamp:      p.Timestamp,
		SSRC:           p.SSRC,
		Payload:        p.Payload,
	}, nil
}

// Encode re-serializes a Packet to its wire form. Round-tripping
// Parse(Encode(p)) reproduces p, modulo CSRC/extension fields this
// client never populates (it only consumes RTP, never sends it).
func (p *Packet) Encode() ([]byte, error) {
	pkt := rtp.Packet{
		Header: rtp.Header{
			Version:        p.Version,
			Padding:        p.Padding,
			Extension:      p.Extension,
			Marker:         p.Marker,
			PayloadType:    p.PayloadType,
			SequenceNumber: p.SequenceNumber,
			Timestamp:      p.Timestamp,
			SSRC:           p.SSRC,
		},
		Payload: p.Payload,
	}
	return pkt.Marshal()
}

// H264 NAL unit types relevant to keyframe detection (RFC 6184 §5.2).
const (
	naluTypeIDR = 5
	naluTypeFUA = 28
)

// IsH264Keyframe reports whether the packet's payload begins an H.264
// IDR access unit: either a single NAL unit of type 5, or the first
// fragment (start bit set) of a FU-A fragmentation unit whose carried
// NAL type is 5. All other payload shapes, including non-initial FU-A
// fragments, are reported as not a keyframe.
func (p *Packet) IsH264Keyframe() bool {
	return IsH264Keyframe(p.Payload)
}

// IsH264Keyframe is the free-function form of Packet.IsH264Keyframe,
// usable directly on a raw RTP payload.
func IsH264Keyframe(payload []byte) bool {
	if len(payload) == 0 {
		return false
	}

	naluType := payload[0] & 0x1F

	switch {
	case naluType == naluTypeIDR:
		return true

	case naluType == naluTypeFUA:
		if len(payload) < 2 {
			return false
		}
		startBit := payload[1]&0x80 != 0
		fragmentType := payload[1] & 0x1F
		return startBit && fragmentType == naluTypeIDR

	default:
		return false
	}
}
