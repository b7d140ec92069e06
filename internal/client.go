package internal

import (
	"context"
	"fmt"
	"sync"
)

// User-facing status messages
const (
	MsgConsentInitiated   = "Consent initiated! Please approve it."
	MsgInitiateError      = "Error initiating consent"
	MsgNotStarted         = "No consent started yet"
	MsgStatusUnavailable  = "Unable to fetch status"
	MsgStatusNetworkError = "Error checking consent status"
	msgStatusFormat       = "Consent status: %s"
)

// Recorder persists consent lifecycle events. The journal implements it.
type Recorder interface {
	RecordInitiated(ctx context.Context, id, approvalURL string) error
	RecordStatus(ctx context.Context, id, status string) error
}

// Snapshot is a consistent view of the client state for rendering
type Snapshot struct {
	Session    Session
	Message    string
	HasMessage bool
}

// Client drives the consent workflow against a Backend and keeps the
// resulting session and status message.
//
// Operations never return errors: failures become the status message and
// are available from LastError. Responses that arrive after a newer
// operation of the same kind has started are discarded.
type Client struct {
	backend  Backend
	opener   Opener
	recorder Recorder
	observer func(Snapshot)

	mu         sync.Mutex
	session    Session
	message    string
	hasMessage bool
	lastErr    error

	initGen  uint64
	checkGen uint64
	opSeq    uint64
	msgSeq   uint64
	errSeq   uint64
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithOpener sets the capability used to present approval URLs
func WithOpener(o Opener) ClientOption {
	return func(c *Client) {
		if o != nil {
			c.opener = o
		}
	}
}

// WithRecorder records initiated consents and status checks
func WithRecorder(r Recorder) ClientOption {
	return func(c *Client) {
		c.recorder = r
	}
}

// WithObserver registers fn to be called after every state change
func WithObserver(fn func(Snapshot)) ClientOption {
	return func(c *Client) {
		c.observer = fn
	}
}

// WithSession seeds the client with a previously initiated session
func WithSession(s Session) ClientOption {
	return func(c *Client) {
		if s != nil {
			c.session = s
		}
	}
}

// NewClient creates a client with an uninitiated session
func NewClient(backend Backend, opts ...ClientOption) *Client {
	c := &Client{
		backend: backend,
		opener:  NoopOpener{},
		session: Uninitiated{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns the current session and message
func (c *Client) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Session returns the current session
func (c *Client) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Message returns the current status message
func (c *Client) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// LastError returns the classified failure of the most recent operation,
// or nil if it succeeded.
func (c *Client) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// FetchGreeting loads the backend greeting into the message. Failures are
// logged and leave the message untouched.
func (c *Client) FetchGreeting(ctx context.Context) {
	seq := c.begin()

	resp, err := c.backend.Greeting(ctx)
	if err == nil && resp.Message == "" {
		err = &MalformedResponseError{Op: OpGreeting, Field: "message"}
	}

	c.mu.Lock()
	if err != nil {
		LogError("Error fetching message: %v", err)
		c.setErrLocked(seq, err)
	} else {
		c.setMessageLocked(seq, resp.Message)
		c.setErrLocked(seq, nil)
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
}

// StartConsent initiates a new consent flow, replacing any previous session.
// An approval URL in the response is handed to the opener.
func (c *Client) StartConsent(ctx context.Context) {
	c.mu.Lock()
	c.opSeq++
	seq := c.opSeq
	c.initGen++
	gen := c.initGen
	c.mu.Unlock()

	resp, err := c.backend.InitiateConsent(ctx)

	c.mu.Lock()
	if gen != c.initGen {
		c.mu.Unlock()
		LogDebug("Discarding superseded consent initiation result (err=%v)", err)
		return
	}
	if err != nil {
		c.mu.Unlock()
		LogError("Error starting consent: %v", err)
		c.fail(seq, MsgInitiateError, err)
		return
	}

	LogDebug("Consent response: id=%q url=%q", resp.ID, resp.URL)
	if resp.ID != "" {
		c.session = Initiated{ID: resp.ID, ApprovalURL: resp.URL}
		c.setMessageLocked(seq, MsgConsentInitiated)
		c.setErrLocked(seq, nil)
	} else {
		LogWarn("Consent response carried no id")
		c.setErrLocked(seq, &MalformedResponseError{Op: OpInitiate, Field: "id"})
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if resp.ID != "" && c.recorder != nil {
		if err := c.recorder.RecordInitiated(ctx, resp.ID, resp.URL); err != nil {
			LogWarn("Failed to record consent %s: %v", resp.ID, err)
		}
	}
	if resp.URL != "" {
		if err := c.opener.Open(ctx, resp.URL); err != nil {
			LogWarn("Failed to open approval URL: %v", err)
		}
	}

	c.notify(snap)
}

// CheckStatus fetches the status of the current session. Without an
// initiated session it only sets the "not started" message.
func (c *Client) CheckStatus(ctx context.Context) {
	c.mu.Lock()
	c.opSeq++
	seq := c.opSeq
	id, ok := SessionID(c.session)
	if !ok {
		c.setMessageLocked(seq, MsgNotStarted)
		c.setErrLocked(seq, ErrConsentNotStarted)
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(snap)
		return
	}
	c.checkGen++
	gen := c.checkGen
	initGen := c.initGen
	c.mu.Unlock()

	resp, err := c.backend.ConsentStatus(ctx, id)
	if err == nil && resp.Status == "" {
		err = &MalformedResponseError{Op: OpStatus, Field: "status"}
	}

	c.mu.Lock()
	// an initiation already in flight when the check began can still land
	// first, so the session must also still be the one that was checked
	current, _ := SessionID(c.session)
	if gen != c.checkGen || initGen != c.initGen || current != id {
		c.mu.Unlock()
		LogDebug("Discarding superseded status result for %s (err=%v)", id, err)
		return
	}
	if err != nil {
		c.mu.Unlock()
		if IsMissingField(err) {
			LogWarn("Status response for %s carried no status", id)
			c.fail(seq, MsgStatusUnavailable, err)
		} else {
			LogError("Error checking consent status: %v", err)
			c.fail(seq, MsgStatusNetworkError, err)
		}
		return
	}

	c.session = Checked{ID: id, ApprovalURL: sessionApprovalURL(c.session), Status: resp.Status}
	c.setMessageLocked(seq, fmt.Sprintf(msgStatusFormat, resp.Status))
	c.setErrLocked(seq, nil)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if c.recorder != nil {
		if err := c.recorder.RecordStatus(ctx, id, resp.Status); err != nil {
			LogWarn("Failed to record status for %s: %v", id, err)
		}
	}

	c.notify(snap)
}

func (c *Client) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opSeq++
	return c.opSeq
}

// fail sets msg and err for operation seq without touching the session.
func (c *Client) fail(seq uint64, msg string, err error) {
	c.mu.Lock()
	c.setMessageLocked(seq, msg)
	c.setErrLocked(seq, err)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// setMessageLocked keeps results of older operations from overwriting
// the message of a newer one.
func (c *Client) setMessageLocked(seq uint64, msg string) {
	if seq < c.msgSeq {
		return
	}
	c.msgSeq = seq
	c.message = msg
	c.hasMessage = true
}

func (c *Client) setErrLocked(seq uint64, err error) {
	if seq < c.errSeq {
		return
	}
	c.errSeq = seq
	c.lastErr = err
}

func (c *Client) snapshotLocked() Snapshot {
	return Snapshot{Session: c.session, Message: c.message, HasMessage: c.hasMessage}
}

func (c *Client) notify(s Snapshot) {
	if c.observer != nil {
		c.observer(s)
	}
}
