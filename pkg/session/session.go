// Package session holds the state of one interactive conversion screen: the
// current request, the current result or error, and whether a lookup is in
// flight.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/qmuntal/stateless"

	"github.com/amirasaad/fxconvert/pkg/conversion"
)

// State of a session.
type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

const (
	triggerSubmit  = "submit"
	triggerInvalid = "invalid"
	triggerSucceed = "succeed"
	triggerFail    = "fail"
)

// ErrBusy is returned for a submission made while a lookup is in flight.
var ErrBusy = errors.New("a conversion is already in progress")

// Converter runs a validated request through lookup and conversion.
type Converter interface {
	ConvertRequest(ctx context.Context, req conversion.Request) (conversion.Result, error)
}

// Snapshot is a copy of the session state. Result and Err are never both set.
type Snapshot struct {
	State        State
	SubmissionID string
	Request      *conversion.Request
	Result       *conversion.Result
	Err          error
}

// Loading reports whether a lookup is in flight.
func (s Snapshot) Loading() bool {
	return s.State == StateLoading
}

// Message is the user-facing text for Err, empty when there is none.
func (s Snapshot) Message() string {
	if s.Err == nil {
		return ""
	}
	return conversion.UserMessage(s.Err)
}

// RunFunc performs the lookup started by Session.Start.
type RunFunc func(ctx context.Context) Snapshot

// Session serialises submissions: at most one lookup is in flight and every
// submission replaces the previous result or error.
type Session struct {
	mu      sync.Mutex
	machine *stateless.StateMachine
	engine  Converter
	logger  *slog.Logger

	id      string
	request *conversion.Request
	result  *conversion.Result
	err     error
}

// New creates an idle session converting through engine.
func New(engine Converter, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{engine: engine, logger: logger}

	machine := stateless.NewStateMachine(StateIdle)
	for _, st := range []State{StateIdle, StateSucceeded} {
		machine.Configure(st).
			Permit(triggerSubmit, StateLoading).
			Permit(triggerInvalid, StateFailed)
	}
	machine.Configure(StateFailed).
		Permit(triggerSubmit, StateLoading).
		PermitReentry(triggerInvalid)
	machine.Configure(StateLoading).
		Permit(triggerSucceed, StateSucceeded).
		Permit(triggerFail, StateFailed)
	machine.OnTransitioned(func(_ context.Context, t stateless.Transition) {
		s.logger.Debug("Session state changed",
			"submission_id", s.id,
			"from", t.Source,
			"to", t.Destination,
			"trigger", t.Trigger,
		)
	})
	s.machine = machine
	return s
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Start validates the input and begins a submission.
//
// While a lookup is in flight it returns ErrBusy and changes nothing. Invalid
// input is recorded as the session error with no lookup, and the returned
// RunFunc is nil. Otherwise the previous result and error are cleared, the
// session is loading, and the caller must invoke the RunFunc exactly once.
func (s *Session) Start(rawBase, rawDest, rawAmount string) (Snapshot, RunFunc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state() == StateLoading {
		return s.snapshot(), nil, ErrBusy
	}

	s.id = uuid.NewString()
	req, err := conversion.Validate(rawBase, rawDest, rawAmount)
	if err != nil {
		s.request, s.result, s.err = nil, nil, err
		s.fire(triggerInvalid)
		s.logger.Info("Conversion input rejected", "submission_id", s.id, "error", err)
		return s.snapshot(), nil, err
	}

	s.request, s.result, s.err = &req, nil, nil
	s.fire(triggerSubmit)
	id := s.id
	return s.snapshot(), func(ctx context.Context) Snapshot {
		return s.run(ctx, id, req)
	}, nil
}

// Submit starts a submission and waits for its lookup. The returned error is
// the submission's error, if any.
func (s *Session) Submit(ctx context.Context, rawBase, rawDest, rawAmount string) (Snapshot, error) {
	snap, run, err := s.Start(rawBase, rawDest, rawAmount)
	if err != nil || run == nil {
		return snap, err
	}
	snap = run(ctx)
	return snap, snap.Err
}

func (s *Session) run(ctx context.Context, id string, req conversion.Request) Snapshot {
	var (
		res conversion.Result
		err error
	)
	if s.engine == nil {
		err = conversion.ErrNetwork
	} else {
		res, err = s.engine.ConvertRequest(ctx, req)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.result, s.err = nil, err
		s.fire(triggerFail)
		s.logger.Warn("Conversion failed", "submission_id", id, "error", err)
	} else {
		s.result, s.err = &res, nil
		s.fire(triggerSucceed)
	}
	return s.snapshot()
}

func (s *Session) state() State {
	return s.machine.MustState().(State)
}

// fire only fails on a transition the machine does not permit, which the
// state checks above rule out.
func (s *Session) fire(trigger string) {
	if err := s.machine.Fire(trigger); err != nil {
		s.logger.Error("Invalid session transition", "trigger", trigger, "state", s.state(), "error", err)
	}
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{State: s.state(), SubmissionID: s.id, Err: s.err}
	if s.request != nil {
		r := *s.request
		snap.Request = &r
	}
	if s.result != nil {
		r := *s.result
		snap.Result = &r
	}
	return snap
}
