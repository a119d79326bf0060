package pipeline

import (
	"sync"

	"github.com/ontokit/axigen/errors"
	"github.com/ontokit/axigen/trans"
)

// State is the lifecycle of one dialect's generation run.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCommitted State = "committed"
	StateFailed    State = "failed"
)

// stateMachine tracks per-dialect run state. Dialects are independent; the
// only legal transitions are Idle→Running and Running→{Committed, Failed}.
// A re-run resets a terminal state back through Idle.
type stateMachine struct {
	mu     sync.Mutex
	states map[trans.Dialect]State
}

func newStateMachine() *stateMachine {
	return &stateMachine{states: make(map[trans.Dialect]State)}
}

func (s *stateMachine) get(d trans.Dialect) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[d]; ok {
		return st
	}
	return StateIdle
}

// start transitions Idle (or a terminal state) to Running. Fails if a run
// for the dialect is already in flight.
func (s *stateMachine) start(d trans.Dialect) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.states[d] == StateRunning {
		return errors.Wrapf(errors.ErrRunActive, "dialect %s", d)
	}
	s.states[d] = StateRunning
	return nil
}

func (s *stateMachine) finish(d trans.Dialect, failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if failed {
		s.states[d] = StateFailed
	} else {
		s.states[d] = StateCommitted
	}
}
