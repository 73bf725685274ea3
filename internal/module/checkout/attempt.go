package checkout

import "fmt"

// AttemptState is the phase of one checkout attempt.
type AttemptState string

const (
	StateIdle            AttemptState = "idle"
	StateValidating      AttemptState = "validating"
	StateFetchingSession AttemptState = "fetching_session"
	StateRedirecting     AttemptState = "redirecting"
	StateFailed          AttemptState = "failed"
)

// validTransitions holds the allowed edges. An attempt moves strictly
// forward; failed is reachable from the two working states.
var validTransitions = map[AttemptState][]AttemptState{
	StateIdle:            {StateValidating},
	StateValidating:      {StateFetchingSession, StateFailed},
	StateFetchingSession: {StateRedirecting, StateFailed},
}

// Attempt tracks one checkout run through its phases.
type Attempt struct {
	state   AttemptState
	failure error
}

// NewAttempt starts an attempt at idle.
func NewAttempt() *Attempt {
	return &Attempt{state: StateIdle}
}

// State returns the current phase.
func (a *Attempt) State() AttemptState {
	return a.state
}

// Failure returns the error that failed the attempt, if any.
func (a *Attempt) Failure() error {
	return a.failure
}

// To advances the attempt. An edge outside the allowed set is a
// programming error and is reported, not applied.
func (a *Attempt) To(next AttemptState) error {
	for _, allowed := range validTransitions[a.state] {
		if allowed == next {
			a.state = next
			return nil
		}
	}
	return fmt.Errorf("invalid checkout transition %s -> %s", a.state, next)
}

// Fail moves the attempt to failed, recording the cause.
func (a *Attempt) Fail(err error) {
	a.state = StateFailed
	a.failure = err
}
