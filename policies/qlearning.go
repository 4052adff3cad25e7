package policies

import (
	"errors"

	"github.com/zeu5/nim-rl/rl"
	"golang.org/x/exp/rand"
)

// QLearningConfig carries the hyperparameters of the tabular learner.
type QLearningConfig struct {
	// Alpha is the learning rate, in (0, 1]
	Alpha float64
	// Epsilon is the exploration rate, in [0, 1]
	Epsilon float64
	// Seed for the exploration draws, 0 means time-based
	Seed int64
}

func (c QLearningConfig) Validate() error {
	if c.Alpha <= 0 || c.Alpha > 1 {
		return errors.New("policies: alpha must be in (0, 1]")
	}
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return errors.New("policies: epsilon must be in [0, 1]")
	}
	return nil
}

func DefaultQLearningConfig() QLearningConfig {
	return QLearningConfig{
		Alpha:   0.5,
		Epsilon: 0.1,
	}
}

// QLearningPolicy is an epsilon-greedy tabular learner. Updates follow the
// one-step rule new = old + alpha*(reward + bestFuture - old) with no
// discount, applied immediately so later lookups in the same episode see
// them.
type QLearningPolicy struct {
	config QLearningConfig
	qTable *QTable
	rand   *rand.Rand
}

var _ rl.Policy = &QLearningPolicy{}

func NewQLearningPolicy(config QLearningConfig) (*QLearningPolicy, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &QLearningPolicy{
		config: config,
		qTable: NewQTable(),
		rand:   rl.NewRand(config.Seed),
	}, nil
}

// ChooseAction picks an action for the state. With explore set, an epsilon
// draw picks uniformly at random, otherwise the best known estimate wins
// (unseen pairs count as 0, ties go to the enumeration order).
func (p *QLearningPolicy) ChooseAction(state rl.State, explore bool) (rl.Action, error) {
	actions := state.Actions()
	if len(actions) == 0 {
		return nil, rl.ErrNoAvailableActions
	}

	if explore && p.rand.Float64() < p.config.Epsilon {
		i := p.rand.Intn(len(actions))
		return actions[i], nil
	}

	stateHash := state.Hash()
	actionsMap := make(map[string]rl.Action, len(actions))
	keys := make([]string, len(actions))
	for i, a := range actions {
		h := a.Hash()
		actionsMap[h] = a
		keys[i] = h
	}
	best, _ := p.qTable.MaxAmong(stateHash, keys)
	return actionsMap[best], nil
}

// Learn applies the one-step update for an observed transition and reward.
// bestFuture is the highest estimate over the next state's actions, 0 when
// the next state is terminal.
func (p *QLearningPolicy) Learn(state rl.State, action rl.Action, next rl.State, reward float64) {
	stateHash := state.Hash()
	actionHash := action.Hash()

	old := p.qTable.Get(stateHash, actionHash)
	bestFuture := p.qTable.BestValue(next.Hash(), actionKeys(next))
	target := reward + bestFuture
	p.qTable.Set(stateHash, actionHash, old+p.config.Alpha*(target-old))
}

func actionKeys(state rl.State) []string {
	actions := state.Actions()
	keys := make([]string, len(actions))
	for i, a := range actions {
		keys[i] = a.Hash()
	}
	return keys
}

func (p *QLearningPolicy) NextAction(step int, state rl.State, actions []rl.Action) (rl.Action, bool) {
	action, err := p.ChooseAction(state, true)
	if err != nil {
		return nil, false
	}
	return action, true
}

func (p *QLearningPolicy) Update(step int, state rl.State, action rl.Action, next rl.State, reward float64) {
	p.Learn(state, action, next, reward)
}

func (p *QLearningPolicy) UpdateEpisode(episode int, trace *rl.Trace) {}

// Reset clears the learned values and keeps the hyperparameters and rng.
func (p *QLearningPolicy) Reset() {
	p.qTable = NewQTable()
}

func (p *QLearningPolicy) Table() *QTable {
	return p.qTable
}

func (p *QLearningPolicy) Alpha() float64 {
	return p.config.Alpha
}

func (p *QLearningPolicy) Epsilon() float64 {
	return p.config.Epsilon
}
