package rl

// Environment is a stateful system that an agent interacts with in episodes.
type Environment interface {
	// Reset discards the current episode and returns a fresh initial state
	Reset() State
	// Step applies an action picked from the current state's Actions
	Step(Action) State
}

// State of the environment as observed by a policy
type State interface {
	// Hash keys the state in Q tables and coverage sets
	// Should be deterministic and value-based
	Hash() string
	// Actions available from this state, empty when terminal
	Actions() []Action
}

// An Action a policy can take
type Action interface {
	// Hash keys the action, deterministic
	Hash() string
}
