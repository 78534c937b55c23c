// Package rtspgo is a client for RTSP 1.0 (RFC 2326) that negotiates an
// interleaved TCP session with a remote media server and exposes a live
// stream of RTP packets (RFC 3550) to downstream consumers. It targets
// IP cameras, media gateways and similar sources feeding a larger media
// pipeline.
//
// The package is organized into a wire-level base package, small
// single-purpose pkg/ packages for the framer, the RTP codec, the auth
// engine and the late-joiner cache, and a root-level Client that
// composes them.
package rtspgo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/liuzihua699/rtspgo/base"
	"github.com/liuzihua699/rtspgo/pkg/liberrors"
	"github.com/liuzihua699/rtspgo/pkg/ring"
	"github.com/liuzihua699/rtspgo/pkg/rtppacket"
	"github.com/liuzihua699/rtspgo/pkg/splitter"
)

// Config carries the options a caller can set before calling Play: a
// plain struct of options, no environment variables, no config files.
type Config struct {
	// UserAgent is sent on every request. Defaults to "rtspgo".
	UserAgent string

	// ConnectTimeout bounds the initial TCP connect. Defaults to 5s.
	ConnectTimeout time.Duration

	// RequestTimeout bounds how long the client waits for a response to
	// any single request before failing with ErrTimeout. Defaults to
	// 10s. RTSP does not mandate a per-request timeout, but one is
	// recommended.
	RequestTimeout time.Duration

	// RingMaxPackets bounds the ring buffer's total retained packet
	// count; the newest GOP is kept whole even when it alone exceeds
	// this. Defaults to 512.
	RingMaxPackets int

	// RingMaxGOPs bounds the ring buffer's retained GOP count. Defaults
	// to 2.
	RingMaxGOPs int

	// Logger receives structured diagnostics: the dial attempt, a
	// connect failure, and dropped malformed RTP frames. Left nil, the
	// client logs nothing.
	Logger logrus.FieldLogger
}

func (c Config) withDefaults() Config {
	if c.UserAgent == "" {
		c.UserAgent = "rtspgo"
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 5 * time.Second
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 10 * time.Second
	}
	if c.RingMaxPackets == 0 {
		c.RingMaxPackets = 512
	}
	if c.RingMaxGOPs == 0 {
		c.RingMaxGOPs = 2
	}
	if c.Logger == nil {
		discard := logrus.New()
		discard.Out = discardWriter{}
		c.Logger = discard
	}
	return c
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Client is the facade of this package: it composes the wire splitter,
// the RTSP state machine, the RTP parser and the GOP-aware ring buffer
// into a single consumer-facing API.
type Client struct {
	cfg Config
	id  uuid.UUID

	ring *ring.Ring

	mu        sync.Mutex
	transport *transport
	session   *session
	splitter  *splitter.Splitter

	onPlayResult func(ok bool, message string)
	resultOnce   sync.Once
}

// New allocates a Client. cfg.withDefaults() fills any zero-valued
// field with its documented default.
func New(cfg Config) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		cfg:  cfg,
		id:   uuid.New(),
		ring: ring.New(cfg.RingMaxPackets, cfg.RingMaxGOPs),
	}
}

// SetOnPlayResult installs the callback invoked exactly once, when the
// OPTIONS/DESCRIBE/SETUP/PLAY dialog concludes, successfully or not.
func (c *Client) SetOnPlayResult(cb func(ok bool, message string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onPlayResult = cb
}

// Ring returns the client's GOP-aware ring buffer, the subscription
// point for consuming decoded RTP packets.
func (c *Client) Ring() *ring.Ring {
	return c.ring
}

// Play begins the OPTIONS -> DESCRIBE -> SETUP -> PLAY dialog against
// rawURL. It connects the transport, sends OPTIONS, then drives the
// rest of the dialog from the reader goroutine; completion is reported
// through the callback installed with SetOnPlayResult. If sending
// OPTIONS fails, Play reports that failure through the callback and
// also returns it. A URL or connect error is only returned; the
// callback is not invoked for it.
func (c *Client) Play(rawURL string) error {
	playURL, err := base.ParseURL(rawURL)
	if err != nil {
		return err
	}

	log := c.cfg.Logger.WithField("client", c.id.String())
	log.WithField("url", playURL.CloneWithoutCredentials().String()).Info("dialing")

	conn, err := dial(context.Background(), playURL.DialAddress(), c.cfg.ConnectTimeout)
	if err != nil {
		log.WithError(err).Warn("connect failed")
		return err
	}

	c.mu.Lock()
	c.splitter = splitter.New(c.onResponseFrame, c.onRTPFrame)
	c.transport = newTransport(conn, c.splitter, c.onTransportError)
	c.session = newSession(playURL, c.cfg.UserAgent, c.cfg.RequestTimeout,
		c.sendRaw, c.splitter.EnableRTP, c.setRequestDeadline, c.reportResult)
	sess := c.session
	c.mu.Unlock()

	err = sess.Start()
	if err != nil {
		c.reportResult(false, err.Error())
		return err
	}

	return nil
}

func (c *Client) sendRaw(raw []byte) error {
	c.mu.Lock()
	t := c.transport
	c.mu.Unlock()
	if t == nil {
		return liberrors.ErrShutdown{}
	}
	return t.Send(raw)
}

func (c *Client) setRequestDeadline(d time.Duration) {
	c.mu.Lock()
	t := c.transport
	c.mu.Unlock()
	if t != nil {
		t.SetRequestDeadline(d)
	}
}

// onResponseFrame is the splitter's ResponseSink: a complete RTSP
// response just arrived off the wire.
func (c *Client) onResponseFrame(raw []byte) {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()
	if sess == nil {
		return
	}
	sess.OnResponse(raw)
}

// onRTPFrame is the splitter's RTPSink: one interleaved frame's payload
// just arrived, tagged with its channel. Only even (RTP) channels are
// forwarded to the parser and ring; odd (RTCP) channels are dropped,
// since this client does not implement RTCP.
func (c *Client) onRTPFrame(channel int, payload []byte) {
	if channel%2 != 0 {
		return
	}

	pkt, err := rtppacket.Parse(payload)
	if err != nil {
		// a malformed individual RTP frame is non-fatal; the splitter
		// has already moved past it.
		c.cfg.Logger.WithError(err).Debug("dropping malformed RTP frame")
		return
	}

	c.ring.Write(pkt, pkt.IsH264Keyframe())
}

// onTransportError is invoked exactly once by the transport's reader
// goroutine when it stops, for any reason.
func (c *Client) onTransportError(err error) {
	c.reportResult(false, err.Error())
}

// reportResult invokes the play-result callback exactly once.
func (c *Client) reportResult(ok bool, message string) {
	c.resultOnce.Do(func() {
		c.mu.Lock()
		cb := c.onPlayResult
		c.mu.Unlock()
		if cb != nil {
			cb(ok, message)
		}
	})
}

// Shutdown tears down the transport and reader. It is idempotent and
// safe to call from any goroutine, including from within a play-result
// callback invoked from the reader goroutine itself, which is why
// Shutdown never blocks waiting on the reader to exit.
func (c *Client) Shutdown() {
	c.mu.Lock()
	t := c.transport
	c.mu.Unlock()
	if t != nil {
		t.Shutdown()
	}
}
