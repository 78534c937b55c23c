// Package ring implements a GOP-aware late-joiner cache: a bounded,
// thread-safe cache of RTP packets that guarantees a consumer attaching
// at any time first observes a keyframe-first prefix.
//
// It is a mutex-protected list of GOPs, each an ordered slice of
// packets, bounded both by total packet count and by retained GOP
// count, with whole GOPs evicted from the front as each bound is hit.
// The newest GOP is never evicted for the packet-count bound, so a
// single GOP longer than that bound is retained whole.
package ring

import (
	"sync"

	"github.com/liuzihua699/rtspgo/pkg/rtppacket"
)

// DataFunc receives one packet, in arrival order. It is invoked with
// the ring's lock held: implementations must not call back into the
// ring (Write, SetOnData, Size or Clear) from within a DataFunc, to
// avoid recursive locking.
type DataFunc func(pkt *rtppacket.Packet)

// gop is one Group of Pictures: an ordered slice of packets whose first
// element is always a keyframe.
type gop struct {
	packets []*rtppacket.Packet
}

// Ring is a concurrent, GOP-bounded cache with a single data callback
// slot; only one RTP subscriber is supported at a time.
type Ring struct {
	mu sync.Mutex

	maxSize int
	maxGOPs int
	gops    []*gop
	total   int
	haveKey bool
	onData  DataFunc
}

// New allocates a Ring. maxSize bounds the total retained packet count,
// except that the newest GOP is always kept whole; maxGOPs bounds the
// number of retained GOPs. Typical defaults are
// 256-512 and 2, respectively.
func New(maxSize, maxGOPs int) *Ring {
	return &Ring{
		maxSize: maxSize,
		maxGOPs: maxGOPs,
	}
}

// Write appends pkt to the trailing GOP, starting a new GOP first when
// isKey is set, evicting whole GOPs to respect both caps, and then
// invoking the installed data callback, all under the ring's single
// mutex.
func (r *Ring) Write(pkt *rtppacket.Packet, isKey bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if isKey {
		r.haveKey = true
		r.gops = append(r.gops, &gop{})
		r.evictExcessGOPs()
	}

	if !r.haveKey {
		// no keyframe observed yet: drop until one starts a GOP.
		return
	}

	trailing := r.gops[len(r.gops)-1]
	trailing.packets = append(trailing.packets, pkt)
	r.total++

	for r.total > r.maxSize && len(r.gops) > 1 {
		r.evictOldestGOP()
	}

	if r.onData != nil {
		r.onData(pkt)
	}
}

// evictExcessGOPs drops the oldest whole GOPs until the GOP count is
// within bound, called right after starting a new trailing GOP so the
// cap is enforced at GOP-start boundaries.
func (r *Ring) evictExcessGOPs() {
	for len(r.gops) > r.maxGOPs {
		r.evictOldestGOP()
	}
}

func (r *Ring) evictOldestGOP() {
	oldest := r.gops[0]
	r.total -= len(oldest.packets)
	r.gops = r.gops[1:]
}

// SetOnData installs cb and immediately replays every packet currently
// cached, in GOP order then in-GOP insertion order, so a newly attached
// consumer observes a keyframe-first prefix before any future live
// packet. The replay happens while still holding the lock.
func (r *Ring) SetOnData(cb DataFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.onData = cb

	if cb == nil {
		return
	}

	for _, g := range r.gops {
		for _, pkt := range g.packets {
			cb(pkt)
		}
	}
}

// Clear drops all cached GOPs and resets the have-key flag.
func (r *Ring) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gops = nil
	r.total = 0
	r.haveKey = false
}

// Size returns the total number of packets currently retained across
// all GOPs.
func (r *Ring) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.total
}

// GOPCount returns the number of GOPs currently retained.
func (r *Ring) GOPCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.gops)
}
