package internal

// State is the coarse state of a consent session
type State int

const (
	StateUninitiated State = iota
	StateInitiated
	StateChecked
)

func (s State) String() string {
	switch s {
	case StateUninitiated:
		return "uninitiated"
	case StateInitiated:
		return "initiated"
	case StateChecked:
		return "checked"
	default:
		return "unknown"
	}
}

// Session is the client-side record of one consent flow attempt.
// It is one of Uninitiated, Initiated or Checked.
type Session interface {
	State() State
	session()
}

// Uninitiated is the session before the backend has assigned an id
type Uninitiated struct{}

// Initiated is a session the backend has assigned an id to
type Initiated struct {
	ID          string `json:"id" yaml:"id"`
	ApprovalURL string `json:"approval_url,omitempty" yaml:"approval_url,omitempty"`
}

// Checked is an initiated session with a backend-reported status
type Checked struct {
	ID          string `json:"id" yaml:"id"`
	ApprovalURL string `json:"approval_url,omitempty" yaml:"approval_url,omitempty"`
	Status      string `json:"status" yaml:"status"`
}

func (Uninitiated) State() State { return StateUninitiated }
func (Initiated) State() State   { return StateInitiated }
func (Checked) State() State     { return StateChecked }

func (Uninitiated) session() {}
func (Initiated) session()   {}
func (Checked) session()     {}

// SessionID returns the backend id of s, if it has one.
func SessionID(s Session) (string, bool) {
	switch v := s.(type) {
	case Initiated:
		return v.ID, true
	case Checked:
		return v.ID, true
	default:
		return "", false
	}
}

// SessionStatus returns the last reported status of s, if any.
func SessionStatus(s Session) (string, bool) {
	if v, ok := s.(Checked); ok {
		return v.Status, true
	}
	return "", false
}

func sessionApprovalURL(s Session) string {
	switch v := s.(type) {
	case Initiated:
		return v.ApprovalURL
	case Checked:
		return v.ApprovalURL
	default:
		return ""
	}
}
