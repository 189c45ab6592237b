package battle

import (
	"log"
	"sync"
	"time"
)

const (
	// DefaultOperationTimeout bounds a single queued mutation.
	DefaultOperationTimeout = 5 * time.Second

	opQueueSize = 64
)

// Operation reads and mutates the battle state. It runs with no
// interleaving from any other queued operation and must not block on
// external I/O; fetch external data before submission.
type Operation func(s *State) error

// Rollback compensates for an operation that failed or timed out. It runs
// against the live (uncorrupted) state.
type Rollback func(s *State)

type opRequest struct {
	op       Operation
	rollback Rollback
	timeout  time.Duration
	response chan error
}

// Manager is the single-writer serialized gateway for one battle. All
// mutations funnel through a buffered queue drained by a single goroutine
// in strict FIFO order. Operations run against a deep copy of the state and
// commit only on success, so a timed-out or invalid operation can never
// corrupt the live state.
type Manager struct {
	id    string
	state *State

	ops      chan opRequest
	done     chan struct{}
	stopOnce sync.Once
}

// NewManager starts the actor goroutine for the given initial state.
func NewManager(st *State) *Manager {
	m := &Manager{
		id:    st.ID,
		state: st,
		ops:   make(chan opRequest, opQueueSize),
		done:  make(chan struct{}),
	}
	go m.run()
	return m
}

func (m *Manager) ID() string { return m.id }

func (m *Manager) run() {
	for {
		select {
		case req := <-m.ops:
			m.handle(req)
		case <-m.done:
			// Drain whatever is still queued so no submitter hangs.
			for {
				select {
				case req := <-m.ops:
					req.response <- ErrBattleClosed
				default:
					return
				}
			}
		}
	}
}

// handle runs one operation on a clone of the live state and commits the
// clone if the operation succeeds and the result validates. On timeout the
// clone is abandoned mid-flight; the operation goroutine finishes against
// the discarded copy and the live state stays untouched.
func (m *Manager) handle(req opRequest) {
	work := m.state.Clone()

	opDone := make(chan error, 1)
	go func() {
		opDone <- req.op(work)
	}()

	timer := time.NewTimer(req.timeout)
	defer timer.Stop()

	select {
	case err := <-opDone:
		if err != nil {
			if req.rollback != nil {
				req.rollback(m.state)
			}
			req.response <- err
			return
		}
		if verr := Validate(work); verr != nil {
			log.Printf("[Battle %s] rejected mutation: %v", m.id, verr)
			if req.rollback != nil {
				req.rollback(m.state)
			}
			req.response <- ErrInvalidStateTransition
			return
		}
		m.state = work
		req.response <- nil

	case <-timer.C:
		log.Printf("[Battle %s] operation timed out after %v", m.id, req.timeout)
		if req.rollback != nil {
			req.rollback(m.state)
		}
		req.response <- ErrOperationTimeout
	}
}

// Execute submits an operation and blocks until it completes, fails, or
// times out. Operations complete in FIFO submission order; a timeout fails
// only the offending operation and never blocks later ones. The caller may
// abandon the returned error, but the operation still executes.
func (m *Manager) Execute(op Operation, rollback Rollback, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultOperationTimeout
	}
	req := opRequest{
		op:       op,
		rollback: rollback,
		timeout:  timeout,
		response: make(chan error, 1),
	}

	select {
	case m.ops <- req:
	case <-m.done:
		return ErrBattleClosed
	}

	select {
	case err := <-req.response:
		return err
	case <-m.done:
		// Manager shut down while we were queued; the drain loop may
		// still answer.
		select {
		case err := <-req.response:
			return err
		default:
			return ErrBattleClosed
		}
	}
}

// Snapshot returns a typed deep copy of the current state, taken from
// inside the serialized queue so it can never race with a writer.
func (m *Manager) Snapshot() (State, error) {
	var snap State
	err := m.Execute(func(s *State) error {
		snap = *s.Clone()
		return nil
	}, nil, DefaultOperationTimeout)
	return snap, err
}

// Close shuts the manager down. Queued and future operations fail with
// ErrBattleClosed. Safe to call more than once.
func (m *Manager) Close() {
	m.stopOnce.Do(func() {
		close(m.done)
	})
}
