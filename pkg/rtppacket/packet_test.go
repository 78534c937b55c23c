package rtppacket

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRejectsShortFrame(t *testing.T) {
	_, err := Parse([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestParseRejectsWrongVersion(t *testing.T) {
	raw := make([]byte, 12)
	raw[0] = 0x40 // version 1 in the top two bits
	_, err := Parse(raw)
	require.Error(t, err)
}

func TestEncodeParseRoundTrip(t *testing.T) {
	p := &Packet{
		Version:        2,
		Marker:         true,
		PayloadType:    96,
		SequenceNumber: 1234,
		Timestamp:      90000,
		SSRC:           0xdeadbeef,
		Payload:        []byte{0x65, 0x01, 0x02, 0x03},
	}

	raw, err := p.Encode()
	require.NoError(t, err)

	got, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestIsH264KeyframeSingleIDR(t *testing.T) {
	require.True(t, IsH264Keyframe([]byte{0x65, 0x00}))
}

func TestIsH264KeyframeSingleNonIDR(t *testing.T) {
	require.False(t, IsH264Keyframe([]byte{0x61, 0x00}))
}

func TestIsH264KeyframeFUAStartOfIDR(t *testing.T) {
	// FU indicator: type 28; FU header: start bit set, fragment type 5.
	require.True(t, IsH264Keyframe([]byte{0x7c, 0x85}))
}

func TestIsH264KeyframeFUAMiddleFragmentOfIDR(t *testing.T) {
	// start bit clear: not the beginning of the access unit.
	require.False(t, IsH264Keyframe([]byte{0x7c, 0x05}))
}

func TestIsH264KeyframeFUAStartOfNonIDR(t *testing.T) {
	require.False(t, IsH264Keyframe([]byte{0x7c, 0x81}))
}

func TestIsH264KeyframeEmptyPayload(t *testing.T) {
	require.False(t, IsH264Keyframe(nil))
}
