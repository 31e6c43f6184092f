package session

import (
	"sync"

	"github.com/rs/zerolog"
)

// State is the session controller's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateListening
	StateProcessing
	StateSpeaking
	StateInterrupted
)

// String returns the state name for logs and metrics.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateProcessing:
		return "processing"
	case StateSpeaking:
		return "speaking"
	case StateInterrupted:
		return "interrupted"
	}
	return "unknown"
}

// validTransitions is the full transition table. Anything absent is rejected.
var validTransitions = map[State][]State{
	StateIdle:        {StateListening},
	StateListening:   {StateProcessing, StateIdle},
	StateProcessing:  {StateSpeaking, StateListening, StateIdle},
	StateSpeaking:    {StateInterrupted, StateListening, StateIdle},
	StateInterrupted: {StateListening, StateIdle},
}

// Machine enforces the session state transition table. Invalid transitions
// are rejected with a warning and leave the state unchanged; rejection never
// panics or errors.
type Machine struct {
	mu     sync.Mutex
	state  State
	logger zerolog.Logger
}

// NewMachine creates a machine in the idle state.
func NewMachine(logger zerolog.Logger) *Machine {
	return &Machine{state: StateIdle, logger: logger}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Transition moves to the requested state if the table allows it, and
// reports whether the move happened.
func (m *Machine) Transition(to State) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, allowed := range validTransitions[m.state] {
		if allowed == to {
			m.logger.Debug().
				Str("from", m.state.String()).
				Str("to", to.String()).
				Msg("State transition")
			m.state = to
			return true
		}
	}

	m.logger.Warn().
		Str("from", m.state.String()).
		Str("to", to.String()).
		Msg("Invalid state transition rejected")
	return false
}
