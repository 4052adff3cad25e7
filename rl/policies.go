package rl

import (
	"errors"
	"time"

	"golang.org/x/exp/rand"
)

// ErrNoAvailableActions is returned when an action is requested on a state
// with none, i.e. the caller should have checked for a terminal state first.
var ErrNoAvailableActions = errors.New("rl: no available actions")

// Policy chooses actions and learns from transitions. The reward rides on
// Update because the trainer, not the policy, knows how episode outcomes
// map to rewards.
type Policy interface {
	NextAction(step int, state State, actions []Action) (Action, bool)
	Update(step int, state State, action Action, next State, reward float64)
	UpdateEpisode(episode int, trace *Trace)
	Reset()
}

// NewRand returns a seeded source. Seed 0 picks the current time, any other
// value gives reproducible draws.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(uint64(seed)))
}

// RandomPolicy picks uniformly among the available actions and never learns.
// Used as a baseline in comparisons.
type RandomPolicy struct {
	rand *rand.Rand
}

var _ Policy = &RandomPolicy{}

func NewRandomPolicy(seed int64) *RandomPolicy {
	return &RandomPolicy{
		rand: NewRand(seed),
	}
}

func (r *RandomPolicy) NextAction(step int, state State, actions []Action) (Action, bool) {
	if len(actions) == 0 {
		return nil, false
	}
	i := r.rand.Intn(len(actions))
	return actions[i], true
}

// ChooseAction draws uniformly, the explore flag changes nothing for a
// policy without value estimates.
func (r *RandomPolicy) ChooseAction(state State, explore bool) (Action, error) {
	actions := state.Actions()
	if len(actions) == 0 {
		return nil, ErrNoAvailableActions
	}
	return actions[r.rand.Intn(len(actions))], nil
}

func (r *RandomPolicy) Update(_ int, _ State, _ Action, _ State, _ float64) {}

func (r *RandomPolicy) UpdateEpisode(_ int, _ *Trace) {}

func (r *RandomPolicy) Reset() {}
