package ring

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liuzihua699/rtspgo/pkg/rtppacket"
)

func pkt(seq uint16) *rtppacket.Packet {
	return &rtppacket.Packet{SequenceNumber: seq}
}

func TestWriteDropsPacketsBeforeFirstKeyframe(t *testing.T) {
	r := New(100, 2)
	r.Write(pkt(1), false)
	r.Write(pkt(2), false)
	require.Equal(t, 0, r.Size())

	r.Write(pkt(3), true)
	require.Equal(t, 1, r.Size())
}

func TestWriteEvictsOldestGOPWhenOverMaxGOPs(t *testing.T) {
	r := New(100, 2)
	r.Write(pkt(1), true)
	r.Write(pkt(2), true)
	require.Equal(t, 2, r.GOPCount())

	r.Write(pkt(3), true)
	require.Equal(t, 2, r.GOPCount())
}

func TestWriteEvictsOldestGOPWhenOverMaxSize(t *testing.T) {
	r := New(3, 4)
	r.Write(pkt(1), true)
	r.Write(pkt(2), false)
	r.Write(pkt(3), true)
	r.Write(pkt(4), false)
	require.LessOrEqual(t, r.Size(), 3)
	require.Equal(t, 1, r.GOPCount())
}

func TestSetOnDataReplaysKeyframeFirst(t *testing.T) {
	r := New(100, 2)
	r.Write(pkt(1), true)
	r.Write(pkt(2), false)
	r.Write(pkt(3), false)

	var replayed []uint16
	r.SetOnData(func(p *rtppacket.Packet) {
		replayed = append(replayed, p.SequenceNumber)
	})

	require.Equal(t, []uint16{1, 2, 3}, replayed)
}

func TestSetOnDataInvokedForLivePacketsAfterReplay(t *testing.T) {
	r := New(100, 2)
	r.Write(pkt(1), true)

	var live []uint16
	r.SetOnData(func(p *rtppacket.Packet) {
		live = append(live, p.SequenceNumber)
	})
	require.Equal(t, []uint16{1}, live)

	r.Write(pkt(2), false)
	require.Equal(t, []uint16{1, 2}, live)
}

func TestClearResetsHaveKey(t *testing.T) {
	r := New(100, 2)
	r.Write(pkt(1), true)
	r.Clear()
	require.Equal(t, 0, r.Size())
	require.Equal(t, 0, r.GOPCount())

	r.Write(pkt(2), false)
	require.Equal(t, 0, r.Size(), "a packet before the next keyframe after Clear must still be dropped")
}
