package relay

import (
	"errors"
	"fmt"
)

// Sentinel errors carried by non-success outcomes.
var (
	ErrUnauthorized  = errors.New("user is not a resident")
	ErrNoReplyTarget = errors.New("command is not a reply")
)

// Phase names the external call a TransportError came from.
type Phase string

// Phases of the relay sequence that talk to the chat service.
const (
	PhaseMembership Phase = "membership"
	PhaseAnnounce   Phase = "announce"
	PhaseForward    Phase = "forward"
)

// TransportError records which external call failed and why.
type TransportError struct {
	Phase Phase
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Phase, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func transportError(phase Phase, err error) *TransportError {
	return &TransportError{Phase: phase, Err: err}
}

// FailedPhase returns the phase of the TransportError wrapped in err, or an
// empty phase if err did not come from a transport call.
func FailedPhase(err error) Phase {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Phase
	}
	return ""
}
