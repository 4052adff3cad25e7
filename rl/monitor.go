package rl

var (
	InitState string = "init"
)

// MonitorCondition is a predicate on one transition (state, action, nextState)
type MonitorCondition func(State, Action, State) bool

func (m MonitorCondition) Not() MonitorCondition {
	return func(s State, a Action, ns State) bool {
		return !m(s, a, ns)
	}
}

func (m MonitorCondition) Or(other MonitorCondition) MonitorCondition {
	return func(s State, a Action, ns State) bool {
		return m(s, a, ns) || other(s, a, ns)
	}
}

func (m MonitorCondition) And(other MonitorCondition) MonitorCondition {
	return func(s State, a Action, ns State) bool {
		return m(s, a, ns) && other(s, a, ns)
	}
}

// MonitorState is a state in the Monitor state machine
// Use MonitorBuilder to create monitor states (do not instantiate directly)
type monitorState struct {
	success     bool
	name        string
	transitions map[string]MonitorCondition
}

// Monitor is a state machine over episode traces. Experiments use monitors
// to count episodes that pass through positions of interest.
type Monitor struct {
	states map[string]*monitorState
}

// NewMonitor creates a Monitor with a default initial state
func NewMonitor() *Monitor {
	m := &Monitor{
		states: make(map[string]*monitorState),
	}
	m.states[InitState] = &monitorState{
		name:        InitState,
		success:     false,
		transitions: make(map[string]MonitorCondition),
	}
	return m
}

// Check simulates the monitor over the trace and returns the shortest prefix
// whose final transition reaches a success state.
func (m *Monitor) Check(t *Trace) (*Trace, bool) {
	curState := m.states[InitState]
	if curState.success || t.Len() == 0 {
		return NewTrace(), curState.success
	}
	for i := 0; i < t.Len(); i++ {
		s, a, ns, _ := t.Get(i)
		for next, cond := range curState.transitions {
			if cond(s, a, ns) {
				curState = m.states[next]
				break
			}
		}
		if curState.success {
			return t.GetPrefix(i + 1)
		}
	}
	return nil, false
}

// Build returns a MonitorBuilder indexed at the initial state.
func (m *Monitor) Build() *MonitorBuilder {
	return &MonitorBuilder{
		monitor:  m,
		curState: m.states[InitState],
	}
}

// MonitorBuilder constructs the state machine. The builder is indexed at a
// particular state; On returns a builder indexed at the transition target so
// chains read b.On(c1, "a").On(c2, "b").MarkSuccess().
type MonitorBuilder struct {
	monitor  *Monitor
	curState *monitorState
}

// On defines a transition from the current state to next, guarded by cond.
// If next is not part of the state machine yet it is created.
func (m *MonitorBuilder) On(cond MonitorCondition, next string) *MonitorBuilder {
	nextState, ok := m.monitor.states[next]
	if !ok {
		nextState = &monitorState{
			name:        next,
			success:     false,
			transitions: make(map[string]MonitorCondition),
		}
		m.monitor.states[next] = nextState
	}
	m.curState.transitions[next] = cond
	return &MonitorBuilder{
		monitor:  m.monitor,
		curState: nextState,
	}
}

// MarkSuccess marks the state indexed by this builder as a success state.
func (m *MonitorBuilder) MarkSuccess() *MonitorBuilder {
	m.curState.success = true
	return m
}
