// Package flow implements the screen-level state machines behind the
// sign-in, registration and password-reset forms. Each flow collects
// input, runs local validation, issues exactly one provider call and
// maps the outcome to UI feedback. Provider errors never escape a flow;
// every path lands back in an interactive idle state.
package flow

import "sync"

// Phase is the flow's position in its submission cycle:
// idle → validating → submitting → {succeeded | failed} → idle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseSubmitting
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the UI-facing outcome of one submission cycle. Error and
// Message are mutually exclusive.
type Result struct {
	// Error is the inline message to show, empty on success.
	Error string
	// Message is a persistent success message (reset flow only).
	Message string
	// Redirect is the path to navigate to, empty to stay on the screen.
	Redirect string
	// ClearInput tells the screen to empty its fields.
	ClearInput bool
}

// state serializes a flow's submission cycle. Submitting while a
// provider call is already in flight is accepted as a no-op; that is
// the only guard against duplicate requests.
type state struct {
	mu    sync.Mutex
	phase Phase
}

// enter moves the flow into validating, or reports false when a
// submission is already in flight.
func (s *state) enter() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseSubmitting {
		return false
	}
	s.phase = PhaseValidating
	return true
}

// submit marks the provider call in flight.
func (s *state) submit() {
	s.mu.Lock()
	s.phase = PhaseSubmitting
	s.mu.Unlock()
}

// settle records the cycle's terminal phase. Terminal phases behave as
// idle for the next submission: every outcome, success or failure,
// leaves the screen interactive.
func (s *state) settle(terminal Phase) {
	s.mu.Lock()
	s.phase = terminal
	s.mu.Unlock()
}

// Phase returns the current phase.
func (s *state) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}
