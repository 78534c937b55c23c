package rtspgo

import "github.com/liuzihua699/rtspgo/pkg/liberrors"

// These are re-exported from pkg/liberrors so callers matching on error
// kind with errors.As don't need a second import for the common cases.
type (
	ErrDNS        = liberrors.ErrDNS
	ErrTimeout    = liberrors.ErrTimeout
	ErrRefused    = liberrors.ErrRefused
	ErrEOF        = liberrors.ErrEOF
	ErrShutdown   = liberrors.ErrShutdown
	ErrAuthFailed = liberrors.ErrAuthFailed
	ErrRTSP       = liberrors.ErrRTSP
	ErrSplitter   = liberrors.ErrSplitter
)
