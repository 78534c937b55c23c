package base

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeInterleavedFrameHeader(t *testing.T) {
	header := []byte{InterleavedFrameMagicByte, 0x02, 0x01, 0x2c}
	channel, length := DecodeInterleavedFrameHeader(header)
	require.Equal(t, 2, channel)
	require.Equal(t, 300, length)
}
