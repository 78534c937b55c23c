// Package liberrors contains the typed error kinds surfaced by the
// client: one exported struct type per error kind rather than a
// string-keyed enum, so callers can switch on type with errors.As
// instead of comparing messages.
package liberrors

import "fmt"

// ErrDNS is returned when hostname resolution fails.
type ErrDNS struct {
	Host string
	Err  error
}

func (e ErrDNS) Error() string {
	return fmt.Sprintf("dns resolution of %q failed: %v", e.Host, e.Err)
}

func (e ErrDNS) Unwrap() error { return e.Err }

// ErrTimeout is returned when a connect or per-request deadline expires.
type ErrTimeout struct {
	Op string
}

func (e ErrTimeout) Error() string {
	return fmt.Sprintf("%s timed out", e.Op)
}

// ErrRefused is returned when the peer actively rejects the connection.
type ErrRefused struct {
	Err error
}

func (e ErrRefused) Error() string {
	return fmt.Sprintf("connection refused: %v", e.Err)
}

func (e ErrRefused) Unwrap() error { return e.Err }

// ErrEOF is returned when the peer closes the connection mid-session.
type ErrEOF struct{}

func (e ErrEOF) Error() string {
	return "connection closed by peer"
}

// ErrShutdown is returned (to any pending caller) when Shutdown was
// called locally.
type ErrShutdown struct{}

func (e ErrShutdown) Error() string {
	return "shutdown requested"
}

// ErrOther wraps an unclassified socket or parse error.
type ErrOther struct {
	Err error
}

func (e ErrOther) Error() string {
	return e.Err.Error()
}

func (e ErrOther) Unwrap() error { return e.Err }

// ErrAuthFailed is returned after a second 401, or when a
// WWW-Authenticate challenge could not be parsed.
type ErrAuthFailed struct {
	Reason string
}

func (e ErrAuthFailed) Error() string {
	if e.Reason != "" {
		return "authentication failed: " + e.Reason
	}
	return "authentication failed"
}

// ErrRTSP is returned when the server answers a request with a status
// code other than 200 or 401.
type ErrRTSP struct {
	Code    int
	Message string
}

func (e ErrRTSP) Error() string {
	return fmt.Sprintf("RTSP error %d: %s", e.Code, e.Message)
}

// ErrSplitter is returned by the wire splitter when the accumulated
// buffer proves internally inconsistent, such as a length field that
// cannot be satisfied even in principle. This is a fatal transport
// error rather than a recoverable per-frame parse failure.
type ErrSplitter struct {
	Reason string
}

func (e ErrSplitter) Error() string {
	return "wire splitter: " + e.Reason
}
