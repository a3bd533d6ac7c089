// Package session drives a single peer review through its four phases:
// login, grading, submitting and result.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kingrea/peerreview/internal/ledger"
	"github.com/kingrea/peerreview/internal/rubric"
	"github.com/kingrea/peerreview/internal/submission"
)

// Phase identifies which screen of the wizard is active.
type Phase int

const (
	PhaseLogin Phase = iota
	PhaseGrading
	PhaseSubmitting
	PhaseResult
)

func (p Phase) String() string {
	switch p {
	case PhaseLogin:
		return "login"
	case PhaseGrading:
		return "grading"
	case PhaseSubmitting:
		return "submitting"
	case PhaseResult:
		return "result"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ResetPolicy decides what survives Reset.
type ResetPolicy int

const (
	// KeepReviewer preserves the reviewer name for the next review.
	KeepReviewer ResetPolicy = iota
	// ClearReviewer wipes the reviewer name as well.
	ClearReviewer
)

// ErrWrongPhase is returned when an operation is not allowed in the current phase.
var ErrWrongPhase = errors.New("session: operation not allowed in current phase")

// ValidationError blocks a transition until the reviewer fixes their input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Outcome is the recorded result of the latest submission attempt.
type Outcome struct {
	Receipt submission.Receipt
	Err     error
}

// Accepted reports whether the collector acknowledged the submission.
func (o Outcome) Accepted() bool {
	return o.Err == nil
}

// Session owns all mutable state of one reviewer's wizard.
type Session struct {
	catalog rubric.Catalog
	ledger  *ledger.Ledger
	policy  ResetPolicy
	clock   func() time.Time

	phase     Phase
	reviewer  string
	presenter string
	payload   submission.Payload
	outcome   Outcome
	attempts  int
}

// Option customizes a Session.
type Option func(*Session)

// WithResetPolicy selects what Reset keeps.
func WithResetPolicy(p ResetPolicy) Option {
	return func(s *Session) {
		s.policy = p
	}
}

// WithClock allows tests to control payload timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithPlaceholder sets the text sent for criteria without a comment.
func WithPlaceholder(text string) Option {
	return func(s *Session) {
		s.ledger = ledger.New(s.catalog, text)
	}
}

// New starts a session in the login phase.
func New(catalog rubric.Catalog, opts ...Option) *Session {
	s := &Session{
		catalog: catalog,
		ledger:  ledger.New(catalog, ""),
		policy:  KeepReviewer,
		clock:   time.Now,
		phase:   PhaseLogin,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Phase returns the active phase.
func (s *Session) Phase() Phase { return s.phase }

// Catalog returns the rubric being scored.
func (s *Session) Catalog() rubric.Catalog { return s.catalog }

// Ledger exposes the recorded scores and comments for reading.
func (s *Session) Ledger() *ledger.Ledger { return s.ledger }

// Reviewer returns the reviewer name as entered.
func (s *Session) Reviewer() string { return s.reviewer }

// Presenter returns the presenter name as entered.
func (s *Session) Presenter() string { return s.presenter }

// Payload returns the frozen payload; valid from Submitting onwards.
func (s *Session) Payload() submission.Payload { return s.payload }

// Outcome returns the result of the latest submission attempt.
func (s *Session) Outcome() Outcome { return s.outcome }

// Attempts counts dispatches of the current payload.
func (s *Session) Attempts() int { return s.attempts }

// StartGrading moves from login to grading once both names are present.
func (s *Session) StartGrading(reviewer, presenter string) error {
	if s.phase != PhaseLogin {
		return fmt.Errorf("%w: start grading from %s", ErrWrongPhase, s.phase)
	}
	if strings.TrimSpace(reviewer) == "" {
		return &ValidationError{Field: "reviewer", Message: "Enter your own name before grading."}
	}
	if strings.TrimSpace(presenter) == "" {
		return &ValidationError{Field: "presenter", Message: "Enter the presenter's name before grading."}
	}
	s.reviewer = reviewer
	s.presenter = presenter
	s.phase = PhaseGrading
	return nil
}

// BackToLogin returns to the name screen; scores and comments are kept.
func (s *Session) BackToLogin() error {
	if s.phase != PhaseGrading {
		return fmt.Errorf("%w: back to login from %s", ErrWrongPhase, s.phase)
	}
	s.phase = PhaseLogin
	return nil
}

// Rate sets a criterion's score.
func (s *Session) Rate(id string, value int) error {
	if s.phase != PhaseGrading {
		return fmt.Errorf("%w: rate in %s", ErrWrongPhase, s.phase)
	}
	return s.ledger.SetScore(id, value)
}

// Step nudges a criterion's score by delta and returns the new value.
func (s *Session) Step(id string, delta int) (int, error) {
	if s.phase != PhaseGrading {
		return 0, fmt.Errorf("%w: rate in %s", ErrWrongPhase, s.phase)
	}
	return s.ledger.Adjust(id, delta)
}

// Comment stores free text for a criterion.
func (s *Session) Comment(id, text string) error {
	if s.phase != PhaseGrading {
		return fmt.Errorf("%w: comment in %s", ErrWrongPhase, s.phase)
	}
	return s.ledger.SetComment(id, text)
}

// Submit checks every criterion is scored, freezes the payload and enters
// the submitting phase. The returned payload is what must be dispatched.
func (s *Session) Submit() (submission.Payload, error) {
	if s.phase != PhaseGrading {
		return submission.Payload{}, fmt.Errorf("%w: submit from %s", ErrWrongPhase, s.phase)
	}
	if missing := s.ledger.Missing(s.catalog); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, crit := range missing {
			names[i] = crit.Category
		}
		return submission.Payload{}, &ValidationError{
			Field:   "scores",
			Message: fmt.Sprintf("Every criterion needs a score. Still unscored: %s.", strings.Join(names, ", ")),
		}
	}
	payload, err := submission.BuildPayload(s.reviewer, s.presenter, s.catalog, s.ledger, s.clock())
	if err != nil {
		return submission.Payload{}, err
	}
	s.payload = payload
	s.outcome = Outcome{}
	s.attempts = 1
	s.phase = PhaseSubmitting
	return payload, nil
}

// Complete records the collector's answer and shows the result.
func (s *Session) Complete(receipt submission.Receipt, err error) error {
	if s.phase != PhaseSubmitting {
		return fmt.Errorf("%w: complete from %s", ErrWrongPhase, s.phase)
	}
	s.outcome = Outcome{Receipt: receipt, Err: err}
	s.phase = PhaseResult
	return nil
}

// Retry re-dispatches the frozen payload after a failed attempt.
func (s *Session) Retry() (submission.Payload, error) {
	if s.phase != PhaseResult || s.outcome.Accepted() {
		return submission.Payload{}, fmt.Errorf("%w: retry needs a failed result", ErrWrongPhase)
	}
	s.outcome = Outcome{}
	s.attempts++
	s.phase = PhaseSubmitting
	return s.payload, nil
}

// Revise goes back to grading after a failed attempt, keeping all scores.
func (s *Session) Revise() error {
	if s.phase != PhaseResult || s.outcome.Accepted() {
		return fmt.Errorf("%w: revise needs a failed result", ErrWrongPhase)
	}
	s.payload = submission.Payload{}
	s.outcome = Outcome{}
	s.attempts = 0
	s.phase = PhaseGrading
	return nil
}

// Reset starts the next review from the login screen.
func (s *Session) Reset() error {
	if s.phase != PhaseResult {
		return fmt.Errorf("%w: reset from %s", ErrWrongPhase, s.phase)
	}
	if s.policy == ClearReviewer {
		s.reviewer = ""
	}
	s.presenter = ""
	s.ledger.Reset()
	s.payload = submission.Payload{}
	s.outcome = Outcome{}
	s.attempts = 0
	s.phase = PhaseLogin
	return nil
}
