// Package policies holds the value table and the learning policies that
// drive self-play training.
package policies

import "sort"

// QTable maps hashed (state, action) pairs to value estimates. Unseen pairs
// read as 0 and entries are only ever created by Set, so lookups never grow
// the table.
type QTable struct {
	table map[string]map[string]float64
}

func NewQTable() *QTable {
	return &QTable{
		table: make(map[string]map[string]float64),
	}
}

// Get returns the stored estimate or 0. Never fails, never inserts.
func (q *QTable) Get(state, action string) float64 {
	actions, ok := q.table[state]
	if !ok {
		return 0
	}
	return actions[action]
}

// Set inserts or overwrites an estimate.
func (q *QTable) Set(state, action string, val float64) {
	if _, ok := q.table[state]; !ok {
		q.table[state] = make(map[string]float64)
	}
	q.table[state][action] = val
}

func (q *QTable) HasState(state string) bool {
	_, ok := q.table[state]
	return ok
}

// MaxAmong returns the best action among the given keys and its value,
// counting unseen keys as 0. Ties keep the earliest key in slice order.
// Empty input returns ("", 0).
func (q *QTable) MaxAmong(state string, actions []string) (string, float64) {
	if len(actions) == 0 {
		return "", 0
	}
	best := actions[0]
	bestVal := q.Get(state, best)
	for _, a := range actions[1:] {
		if val := q.Get(state, a); val > bestVal {
			best = a
			bestVal = val
		}
	}
	return best, bestVal
}

// BestValue is the max estimate among the given action keys, 0 when there
// are none. This is the future-value term of the learning rule.
func (q *QTable) BestValue(state string, actions []string) float64 {
	_, val := q.MaxAmong(state, actions)
	return val
}

// StateActions returns a copy of the recorded estimates for a state.
func (q *QTable) StateActions(state string) map[string]float64 {
	actions, ok := q.table[state]
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(actions))
	for a, v := range actions {
		out[a] = v
	}
	return out
}

// States lists the recorded state keys in sorted order.
func (q *QTable) States() []string {
	states := make([]string, 0, len(q.table))
	for s := range q.table {
		states = append(states, s)
	}
	sort.Strings(states)
	return states
}

// Size counts the recorded (state, action) entries.
func (q *QTable) Size() int {
	n := 0
	for _, actions := range q.table {
		n += len(actions)
	}
	return n
}
