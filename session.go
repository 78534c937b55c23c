package rtspgo

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/liuzihua699/rtspgo/base"
	"github.com/liuzihua699/rtspgo/pkg/auth"
	"github.com/liuzihua699/rtspgo/pkg/liberrors"
)

// State is one step of the OPTIONS -> DESCRIBE -> SETUP -> PLAY dialog.
type State int

// States of the dialog sequence.
const (
	StateInit State = iota
	StateOptions
	StateDescribe
	StateSetup
	StatePlay
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateOptions:
		return "Options"
	case StateDescribe:
		return "Describe"
	case StateSetup:
		return "Setup"
	case StatePlay:
		return "Play"
	default:
		return "Unknown"
	}
}

// sessionContext is the single mutable instance per client. It is
// mutated only from the reader goroutine, since the dialog is entirely
// response-driven.
type sessionContext struct {
	playURL    *base.URL
	controlURL *base.URL
	sessionID  string
	cseq       int
	state      State

	creds         *auth.Credentials
	authRetryDone bool
}

// session drives the RTSP dialog: it turns each parsed response into
// the next request. It is response-arrival-driven rather than built
// around a blocking call/response loop, since the transport adapter
// delivers responses asynchronously off the wire splitter rather than
// through a synchronous read call.
type session struct {
	ctx sessionContext

	userAgent      string
	send           func([]byte) error
	enableRTP      func()
	setDeadline    func(time.Duration)
	requestTimeout time.Duration

	onResult func(ok bool, message string)

	// pendingExtra carries the extra headers of the request most
	// recently sent, so an auth retry can rebuild the identical logical
	// request with only CSeq and Authorization changed.
	pendingExtra base.Header
	pendingBody  []byte

	done bool
}

func newSession(
	playURL *base.URL,
	userAgent string,
	requestTimeout time.Duration,
	send func([]byte) error,
	enableRTP func(),
	setDeadline func(time.Duration),
	onResult func(ok bool, message string),
) *session {
	return &session{
		ctx: sessionContext{
			playURL: playURL,
			state:   StateInit,
		},
		userAgent:      userAgent,
		requestTimeout: requestTimeout,
		send:           send,
		enableRTP:      enableRTP,
		setDeadline:    setDeadline,
		onResult:       onResult,
	}
}

// Start sends the OPTIONS request that begins the dialog.
func (s *session) Start() error {
	return s.sendRequest(StateOptions, base.Options, s.ctx.playURL, nil, nil)
}

// sendRequest builds and sends the request for the given target state.
// It pre-increments CSeq, which is never decremented even on an auth
// retry.
func (s *session) sendRequest(target State, method base.Method, url *base.URL, extra base.Header, body []byte) error {
	s.ctx.state = target

	h := make(base.Header, len(extra)+4)
	for k, v := range extra {
		h[k] = v
	}

	s.ctx.cseq++
	h.Set("CSeq", strconv.Itoa(s.ctx.cseq))
	h.Set("User-Agent", s.userAgent)

	if s.ctx.sessionID != "" {
		h.Set("Session", s.ctx.sessionID)
	}

	if s.ctx.creds != nil {
		h.Set("Authorization", s.ctx.creds.AuthorizationHeader(string(method), url.CloneWithoutCredentials().String()))
	}

	s.pendingExtra = extra
	s.pendingBody = body

	req := &base.Request{Method: method, URL: url, Header: h, Content: body}
	raw, err := req.Write()
	if err != nil {
		return err
	}

	s.setDeadline(s.requestTimeout)

	if target == StatePlay {
		// Enable RTP mode on send, not on receipt of PLAY's 200: some
		// servers begin interleaving RTP before the PLAY response is
		// fully read, and the splitter still recognises a text response
		// in this mode because 'R' != '$'.
		s.enableRTP()
	}

	return s.send(raw)
}

// currentTarget returns the method and URL for the request the
// session is currently waiting on a response to, so the auth-retry path
// can resend it unchanged apart from CSeq and Authorization.
func (s *session) currentTarget() (base.Method, *base.URL) {
	switch s.ctx.state {
	case StateOptions:
		return base.Options, s.ctx.playURL
	case StateDescribe:
		return base.Describe, s.ctx.playURL
	case StateSetup:
		return base.Setup, s.ctx.controlURL
	case StatePlay:
		return base.Play, s.ctx.playURL
	default:
		return base.Options, s.ctx.playURL
	}
}

// OnResponse handles one complete RTSP response and advances the
// dialog accordingly.
func (s *session) OnResponse(raw []byte) {
	if s.done {
		return
	}
	s.setDeadline(0)

	res, err := base.ParseResponse(raw)
	if err != nil {
		s.fail(fmt.Sprintf("malformed response: %v", err))
		return
	}

	if sess := res.Header.Get("Session"); sess != "" {
		s.ctx.sessionID = stripTimeoutParam(sess)
	}

	switch {
	case res.StatusCode == base.StatusUnauthorized:
		s.handleUnauthorized(res)
		return

	case res.StatusCode != base.StatusOK:
		s.fail2(liberrors.ErrRTSP{Code: int(res.StatusCode), Message: res.StatusMessage})
		return
	}

	s.ctx.authRetryDone = false

	switch s.ctx.state {
	case StateOptions:
		err = s.sendRequest(StateDescribe, base.Describe, s.ctx.playURL,
			base.Header{"Accept": base.HeaderValue{"application/sdp"}}, nil)

	case StateDescribe:
		err = s.advanceFromDescribe(res)

	case StateSetup:
		err = s.sendRequest(StatePlay, base.Play, s.ctx.playURL,
			base.Header{"Range": base.HeaderValue{"npt=0.000-"}}, nil)

	case StatePlay:
		// RTP mode was already enabled when PLAY was sent: enabling on
		// send rather than on receipt tolerates servers that start
		// interleaving RTP before the PLAY response is fully read.
		s.onResult(true, "")
	}

	if err != nil {
		s.fail(err.Error())
	}
}

func (s *session) advanceFromDescribe(res *base.Response) error {
	controlURL, err := resolveControlURL(res.Content, res.Header.Get("Content-Base"), s.ctx.playURL)
	if err != nil {
		return err
	}
	s.ctx.controlURL = controlURL

	return s.sendRequest(StateSetup, base.Setup, s.ctx.controlURL,
		base.Header{"Transport": base.HeaderValue{"RTP/AVP/TCP;unicast;interleaved=0-1"}}, nil)
}

// handleUnauthorized latches credentials from the first 401 and
// replays the current request with a fresh CSeq; at most one retry per
// request.
func (s *session) handleUnauthorized(res *base.Response) {
	if s.ctx.creds != nil && s.ctx.authRetryDone {
		s.fail2(liberrors.ErrAuthFailed{Reason: "second 401 after retry"})
		return
	}

	user, pass, _ := s.ctx.playURL.Credentials()

	creds, err := auth.ParseChallenge(res.Header["WWW-Authenticate"], user, pass)
	if err != nil {
		s.fail2(liberrors.ErrAuthFailed{Reason: err.Error()})
		return
	}
	s.ctx.creds = creds
	s.ctx.authRetryDone = true

	method, url := s.currentTarget()
	err = s.sendRequest(s.ctx.state, method, url, s.pendingExtra, s.pendingBody)
	if err != nil {
		s.fail(err.Error())
	}
}

func (s *session) fail(message string) {
	s.done = true
	s.onResult(false, message)
}

func (s *session) fail2(err error) {
	s.fail(err.Error())
}

// stripTimeoutParam removes a trailing ";timeout=..." suffix from a
// Session header value.
func stripTimeoutParam(session string) string {
	if i := strings.IndexByte(session, ';'); i >= 0 {
		return session[:i]
	}
	return session
}
