package rtspgo

import (
	"context"
	"errors"
	"net"
	"sync"
	"syscall"
	"time"

	"github.com/liuzihua699/rtspgo/pkg/liberrors"
	"github.com/liuzihua699/rtspgo/pkg/splitter"
)

// pollInterval bounds how stale the reader's view of "should I stop"
// can be: the reader loop polls with a short timeout so shutdown takes
// at most one tick to be observed.
const pollInterval = 100 * time.Millisecond

// transport is the TCP transport adapter: async connect with a
// poll-based timeout, a dedicated reader goroutine, a synchronous
// best-effort send usable from any goroutine, and an idempotent
// shutdown. SetReadDeadline must always be called from the same
// goroutine that calls Read, or Read can hang past its deadline; the
// periodic short deadline here is set from the reader goroutine itself
// rather than via a context-cancellable Read.
type transport struct {
	conn net.Conn

	splitter *splitter.Splitter
	onError  func(error)

	mu       sync.Mutex
	shutOnce sync.Once
	closed   bool
	deadline time.Time
}

// newTransport allocates a transport around an already-dialed
// connection. Bytes read off conn are fed to sp as-is; onError is
// invoked exactly once, from the reader goroutine, when the reader
// stops for any reason — peer close, read error, or explicit shutdown.
func newTransport(conn net.Conn, sp *splitter.Splitter, onError func(error)) *transport {
	t := &transport{
		conn:     conn,
		splitter: sp,
		onError:  onError,
	}
	go t.readLoop()
	return t
}

// dial performs a connect bounded by timeout, classifying failures into
// the package's typed error kinds.
func dial(ctx context.Context, host string, timeout time.Duration) (net.Conn, error) {
	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(dctx, "tcp", host)
	if err != nil {
		if dctx.Err() == context.DeadlineExceeded {
			return nil, liberrors.ErrTimeout{Op: "connect"}
		}

		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) {
			return nil, liberrors.ErrDNS{Host: host, Err: err}
		}

		if errors.Is(err, syscall.ECONNREFUSED) {
			return nil, liberrors.ErrRefused{Err: err}
		}

		return nil, liberrors.ErrOther{Err: err}
	}

	return conn, nil
}

// SetRequestDeadline arms (or, given zero, disarms) the deadline by
// which a pending request's response must arrive. It is checked on the
// same poll tick used for shutdown, so a stalled server is caught
// within one pollInterval of RequestTimeout elapsing.
func (t *transport) SetRequestDeadline(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if d == 0 {
		t.deadline = time.Time{}
		return
	}
	t.deadline = time.Now().Add(d)
}

// readLoop is the dedicated reader: it blocks on Read with a short
// deadline so Shutdown is observed within one poll tick, pushing
// whatever bytes arrive into the splitter as-is.
func (t *transport) readLoop() {
	buf := make([]byte, 4096)

	for {
		t.mu.Lock()
		closed := t.closed
		deadline := t.deadline
		t.mu.Unlock()
		if closed {
			t.onError(liberrors.ErrShutdown{})
			return
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			t.onError(liberrors.ErrTimeout{Op: "response"})
			return
		}

		_ = t.conn.SetReadDeadline(time.Now().Add(pollInterval))

		n, err := t.conn.Read(buf)
		if err != nil {
			if isTimeout(err) {
				continue
			}

			t.mu.Lock()
			wasClosed := t.closed
			t.mu.Unlock()

			if wasClosed {
				t.onError(liberrors.ErrShutdown{})
			} else {
				t.onError(classifyReadError(err))
			}
			return
		}

		if n == 0 {
			continue
		}

		if ferr := t.splitter.Feed(buf[:n]); ferr != nil {
			t.onError(ferr)
			return
		}
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func classifyReadError(err error) error {
	if errors.Is(err, net.ErrClosed) {
		return liberrors.ErrShutdown{}
	}
	return liberrors.ErrEOF{}
}

// Send writes raw bytes to the connection. It is safe to call from any
// goroutine: the reader goroutine, in response to a parsed response, or
// the caller's own goroutine.
func (t *transport) Send(raw []byte) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return liberrors.ErrShutdown{}
	}

	_, err := t.conn.Write(raw)
	if err != nil {
		return liberrors.ErrOther{Err: err}
	}
	return nil
}

// Shutdown tears down the connection. It is idempotent and safe from
// any goroutine, including the reader goroutine itself, which never
// joins itself — it only observes closed on its next poll tick and
// returns.
func (t *transport) Shutdown() {
	t.shutOnce.Do(func() {
		t.mu.Lock()
		t.closed = true
		t.mu.Unlock()

		_ = t.conn.Close()
	})
}
