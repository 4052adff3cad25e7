package policies

import (
	"math"

	"github.com/zeu5/nim-rl/rl"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// SoftMaxQPolicy shares the tabular learning rule but samples actions from a
// softmax over the estimates instead of an epsilon draw. It exists as an
// exploration baseline for comparisons.
type SoftMaxQPolicy struct {
	qTable      *QTable
	alpha       float64
	temperature float64
	rand        *rand.Rand
}

var _ rl.Policy = &SoftMaxQPolicy{}

func NewSoftMaxQPolicy(alpha, temperature float64, seed int64) *SoftMaxQPolicy {
	return &SoftMaxQPolicy{
		qTable:      NewQTable(),
		alpha:       alpha,
		temperature: temperature,
		rand:        rl.NewRand(seed),
	}
}

func (s *SoftMaxQPolicy) NextAction(step int, state rl.State, actions []rl.Action) (rl.Action, bool) {
	if len(actions) == 0 {
		return nil, false
	}
	stateHash := state.Hash()

	sum := float64(0)
	weights := make([]float64, len(actions))
	vals := make([]float64, len(actions))
	for i, action := range actions {
		vals[i] = s.qTable.Get(stateHash, action.Hash()) / s.temperature
	}
	// shift by the max so the exponentials stay finite
	maxVal := vals[0]
	for _, v := range vals[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	for i, v := range vals {
		exp := math.Exp(v - maxVal)
		vals[i] = exp
		sum += exp
	}
	for i, v := range vals {
		weights[i] = v / sum
	}

	i, ok := sampleuv.NewWeighted(weights, s.rand).Take()
	if !ok {
		return nil, false
	}
	return actions[i], true
}

// ChooseAction mirrors the epsilon-greedy learner's surface: exploring draws
// from the softmax, greedy takes the argmax.
func (s *SoftMaxQPolicy) ChooseAction(state rl.State, explore bool) (rl.Action, error) {
	actions := state.Actions()
	if len(actions) == 0 {
		return nil, rl.ErrNoAvailableActions
	}
	if explore {
		action, ok := s.NextAction(0, state, actions)
		if !ok {
			return nil, rl.ErrNoAvailableActions
		}
		return action, nil
	}

	actionsMap := make(map[string]rl.Action, len(actions))
	keys := make([]string, len(actions))
	for i, a := range actions {
		h := a.Hash()
		actionsMap[h] = a
		keys[i] = h
	}
	best, _ := s.qTable.MaxAmong(state.Hash(), keys)
	return actionsMap[best], nil
}

func (s *SoftMaxQPolicy) Update(step int, state rl.State, action rl.Action, next rl.State, reward float64) {
	stateHash := state.Hash()
	actionHash := action.Hash()

	old := s.qTable.Get(stateHash, actionHash)
	bestFuture := s.qTable.BestValue(next.Hash(), actionKeys(next))
	s.qTable.Set(stateHash, actionHash, old+s.alpha*(reward+bestFuture-old))
}

func (s *SoftMaxQPolicy) UpdateEpisode(episode int, trace *rl.Trace) {}

func (s *SoftMaxQPolicy) Reset() {
	s.qTable = NewQTable()
}

func (s *SoftMaxQPolicy) Table() *QTable {
	return s.qTable
}
